package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/medirec/medirec-backend/internal/models"
)

type SymptomRepository interface {
	Create(ctx context.Context, s *models.Symptom) error
	GetAll(ctx context.Context, ownerID string) ([]models.Symptom, error)
	GetByID(ctx context.Context, id, ownerID string) (*models.Symptom, error)
	Update(ctx context.Context, id, ownerID string, s *models.Symptom) (*models.Symptom, error)
	Delete(ctx context.Context, id, ownerID string) error
}

type mongoSymptomRepo struct {
	col *mongo.Collection
}

func NewSymptomRepository(db *mongo.Database) SymptomRepository {
	col := db.Collection("symptoms")
	_, _ = col.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	return &mongoSymptomRepo{col: col}
}

func (r *mongoSymptomRepo) Create(ctx context.Context, s *models.Symptom) error {
	s.ID = primitive.NewObjectID()
	s.CreatedAt = time.Now().UTC()
	if s.Date.IsZero() {
		s.Date = s.CreatedAt
	}
	_, err := r.col.InsertOne(ctx, s)
	return err
}

func (r *mongoSymptomRepo) GetAll(ctx context.Context, ownerID string) ([]models.Symptom, error) {
	owner, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return nil, ErrNotFound
	}
	cursor, err := r.col.Find(ctx, bson.D{{Key: "user_id", Value: owner}},
		options.Find().SetSort(sortNewestFirst))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	symptoms := []models.Symptom{}
	if err := cursor.All(ctx, &symptoms); err != nil {
		return nil, err
	}
	return symptoms, nil
}

func (r *mongoSymptomRepo) GetByID(ctx context.Context, id, ownerID string) (*models.Symptom, error) {
	filter, err := ownerScoped(id, ownerID)
	if err != nil {
		return nil, err
	}
	var s models.Symptom
	err = r.col.FindOne(ctx, filter).Decode(&s)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *mongoSymptomRepo) Update(ctx context.Context, id, ownerID string, s *models.Symptom) (*models.Symptom, error) {
	filter, err := ownerScoped(id, ownerID)
	if err != nil {
		return nil, err
	}
	set := bson.M{
		"category":    s.Category,
		"description": s.Description,
		"severity":    s.Severity,
		"duration":    s.Duration,
		"notes":       s.Notes,
	}
	if !s.Date.IsZero() {
		set["date"] = s.Date
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Symptom
	err = r.col.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *mongoSymptomRepo) Delete(ctx context.Context, id, ownerID string) error {
	filter, err := ownerScoped(id, ownerID)
	if err != nil {
		return err
	}
	res, err := r.col.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
