package repository

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/medirec/medirec-backend/internal/models"
)

// SearchCriteria are the raw query inputs for the search endpoint. All fields
// are optional; present predicates are combined with logical AND.
type SearchCriteria struct {
	Type      string // name | id | phone | symptom
	Keyword   string
	StartDate string
	EndDate   string
}

type HealthRecordRepository interface {
	Create(ctx context.Context, rec *models.HealthRecord) error
	GetAll(ctx context.Context, ownerID string) ([]models.HealthRecord, error)
	GetByID(ctx context.Context, id, ownerID string) (*models.HealthRecord, error)
	Update(ctx context.Context, id, ownerID string, rec *models.HealthRecord) (*models.HealthRecord, error)
	Delete(ctx context.Context, id, ownerID string) error
	Search(ctx context.Context, ownerID string, criteria SearchCriteria) ([]models.HealthRecord, error)
}

type mongoHealthRecordRepo struct {
	col *mongo.Collection
}

func NewHealthRecordRepository(db *mongo.Database) HealthRecordRepository {
	col := db.Collection("health_records")
	_, _ = col.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{Keys: bson.D{{Key: "demographics.national_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
	})
	return &mongoHealthRecordRepo{col: col}
}

// sortNewestFirst orders by creation time descending with _id as a
// deterministic tie-break, so listing is reproducible.
var sortNewestFirst = bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}

const dateOnlyLayout = "2006-01-02"

// parseSearchDate accepts RFC3339 timestamps or plain dates. The second
// return value reports whether the value was date-only (no time component).
func parseSearchDate(value string) (time.Time, bool, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, false, nil
	}
	if t, err := time.Parse(dateOnlyLayout, value); err == nil {
		return t, true, nil
	}
	return time.Time{}, false, fmt.Errorf("%w: unparseable date %q", ErrInvalidSearch, value)
}

// BuildSearchFilter turns search criteria into a MongoDB filter. The owner id
// is always ANDed in so another user's records can never match. Unknown
// search types and unparseable dates are rejected rather than silently
// dropped.
func BuildSearchFilter(ownerID primitive.ObjectID, c SearchCriteria) (bson.D, error) {
	filter := bson.D{{Key: "user_id", Value: ownerID}}

	if c.Type != "" && c.Keyword != "" {
		switch c.Type {
		case "name":
			filter = append(filter, bson.E{Key: "demographics.name", Value: primitive.Regex{Pattern: regexp.QuoteMeta(c.Keyword), Options: "i"}})
		case "id":
			filter = append(filter, bson.E{Key: "demographics.national_id", Value: c.Keyword})
		case "phone":
			filter = append(filter, bson.E{Key: "demographics.phone", Value: c.Keyword})
		case "symptom":
			filter = append(filter, bson.E{Key: "symptoms", Value: primitive.Regex{Pattern: regexp.QuoteMeta(c.Keyword), Options: "i"}})
		default:
			return nil, fmt.Errorf("%w: unknown search type %q", ErrInvalidSearch, c.Type)
		}
	}

	if c.StartDate != "" || c.EndDate != "" {
		window := bson.D{}
		if c.StartDate != "" {
			start, _, err := parseSearchDate(c.StartDate)
			if err != nil {
				return nil, err
			}
			window = append(window, bson.E{Key: "$gte", Value: start})
		}
		if c.EndDate != "" {
			end, dateOnly, err := parseSearchDate(c.EndDate)
			if err != nil {
				return nil, err
			}
			if dateOnly {
				// A bare end date means "through the end of that day"
				window = append(window, bson.E{Key: "$lt", Value: end.AddDate(0, 0, 1)})
			} else {
				window = append(window, bson.E{Key: "$lte", Value: end})
			}
		}
		filter = append(filter, bson.E{Key: "created_at", Value: window})
	}

	return filter, nil
}

func (r *mongoHealthRecordRepo) Create(ctx context.Context, rec *models.HealthRecord) error {
	rec.ID = primitive.NewObjectID()
	rec.CreatedAt = time.Now().UTC()
	if rec.Symptoms == nil {
		rec.Symptoms = []string{}
	}
	_, err := r.col.InsertOne(ctx, rec)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateKey
	}
	return err
}

func (r *mongoHealthRecordRepo) GetAll(ctx context.Context, ownerID string) ([]models.HealthRecord, error) {
	owner, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return nil, ErrNotFound
	}
	return r.findSorted(ctx, bson.D{{Key: "user_id", Value: owner}})
}

func (r *mongoHealthRecordRepo) Search(ctx context.Context, ownerID string, criteria SearchCriteria) ([]models.HealthRecord, error) {
	owner, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return nil, ErrNotFound
	}
	filter, err := BuildSearchFilter(owner, criteria)
	if err != nil {
		return nil, err
	}
	return r.findSorted(ctx, filter)
}

func (r *mongoHealthRecordRepo) findSorted(ctx context.Context, filter bson.D) ([]models.HealthRecord, error) {
	cursor, err := r.col.Find(ctx, filter, options.Find().SetSort(sortNewestFirst))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	records := []models.HealthRecord{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// ownerScoped builds the {_id, user_id} filter every single-record operation
// uses. A record belonging to another user is indistinguishable from a
// missing one.
func ownerScoped(id, ownerID string) (bson.M, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	owner, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return nil, ErrNotFound
	}
	return bson.M{"_id": objID, "user_id": owner}, nil
}

func (r *mongoHealthRecordRepo) GetByID(ctx context.Context, id, ownerID string) (*models.HealthRecord, error) {
	filter, err := ownerScoped(id, ownerID)
	if err != nil {
		return nil, err
	}
	var rec models.HealthRecord
	err = r.col.FindOne(ctx, filter).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *mongoHealthRecordRepo) Update(ctx context.Context, id, ownerID string, rec *models.HealthRecord) (*models.HealthRecord, error) {
	filter, err := ownerScoped(id, ownerID)
	if err != nil {
		return nil, err
	}
	if rec.Symptoms == nil {
		rec.Symptoms = []string{}
	}
	// Full replace of the caller-editable fields; owner and creation
	// timestamp are immutable.
	update := bson.M{"$set": bson.M{
		"demographics": rec.Demographics,
		"vitals":       rec.Vitals,
		"symptoms":     rec.Symptoms,
		"note":         rec.Note,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.HealthRecord
	err = r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return nil, ErrDuplicateKey
	}
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *mongoHealthRecordRepo) Delete(ctx context.Context, id, ownerID string) error {
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
