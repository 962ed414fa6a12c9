package models

import (
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Demographics is the patient identity block of a health record.
// NationalID is unique across all records (enforced by a unique index).
type Demographics struct {
	Name       string  `bson:"name" json:"name"`
	NationalID string  `bson:"national_id" json:"national_id"`
	Phone      string  `bson:"phone" json:"phone"`
	Sex        string  `bson:"sex,omitempty" json:"sex,omitempty"`
	Age        int     `bson:"age,omitempty" json:"age,omitempty"`
	Height     float64 `bson:"height,omitempty" json:"height,omitempty"`
	Weight     float64 `bson:"weight,omitempty" json:"weight,omitempty"`
	BMI        float64 `bson:"bmi,omitempty" json:"bmi,omitempty"`
}

type BloodPressure struct {
	Systolic  float64 `bson:"systolic,omitempty" json:"systolic,omitempty"`
	Diastolic float64 `bson:"diastolic,omitempty" json:"diastolic,omitempty"`
}

type Vitals struct {
	BloodPressure    BloodPressure `bson:"blood_pressure,omitempty" json:"blood_pressure,omitempty"`
	BloodSugar       float64       `bson:"blood_sugar,omitempty" json:"blood_sugar,omitempty"`
	Temperature      float64       `bson:"temperature,omitempty" json:"temperature,omitempty"`
	OxygenSaturation float64       `bson:"oxygen_saturation,omitempty" json:"oxygen_saturation,omitempty"`
}

type HealthRecord struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`

	Demographics Demographics `bson:"demographics" json:"demographics"`
	Vitals       Vitals       `bson:"vitals" json:"vitals"`
	Symptoms     []string     `bson:"symptoms" json:"symptoms"`
	Note         string       `bson:"note,omitempty" json:"note,omitempty"`
}

// ComputeBMI returns weight/(height in m)^2 rounded to one decimal place.
// Returns 0 when height or weight is missing. Height is in centimeters.
func ComputeBMI(heightCm, weightKg float64) float64 {
	if heightCm <= 0 || weightKg <= 0 {
		return 0
	}
	m := heightCm / 100
	return math.Round(weightKg/(m*m)*10) / 10
}
