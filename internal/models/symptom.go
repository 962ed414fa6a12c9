package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Symptom struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`

	Category    string    `bson:"category" json:"category"`
	Description string    `bson:"description" json:"description"`
	Severity    int       `bson:"severity" json:"severity"`
	Duration    string    `bson:"duration,omitempty" json:"duration,omitempty"`
	Notes       string    `bson:"notes,omitempty" json:"notes,omitempty"`
	Date        time.Time `bson:"date" json:"date"` // Defaults to submission time when omitted
}
