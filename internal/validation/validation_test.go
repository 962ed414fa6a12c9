package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type registerPayload struct {
	Username string `json:"username" validate:"required,min=3,max=30"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"required"`
}

func TestCheckValidPayload(t *testing.T) {
	errs := Check(registerPayload{
		Username: "kim",
		Email:    "kim@x.com",
		Password: "pw12345",
		Name:     "Kim",
	})
	assert.Nil(t, errs)
}

func TestCheckAccumulatesAllFailures(t *testing.T) {
	// Every failing rule must be reported, not just the first
	errs := Check(registerPayload{})
	require.Len(t, errs, 4)
	assert.Contains(t, errs, "username is required")
	assert.Contains(t, errs, "email is required")
	assert.Contains(t, errs, "password is required")
	assert.Contains(t, errs, "name is required")
}

func TestCheckEmailFormat(t *testing.T) {
	errs := Check(registerPayload{
		Username: "kim",
		Email:    "not-an-email",
		Password: "pw12345",
		Name:     "Kim",
	})
	require.Len(t, errs, 1)
	assert.Equal(t, "email must be a valid email address", errs[0])
}

func TestCheckStringLength(t *testing.T) {
	errs := Check(registerPayload{
		Username: "ab",
		Email:    "kim@x.com",
		Password: "pw",
		Name:     "Kim",
	})
	require.Len(t, errs, 2)
	assert.Contains(t, errs, "username must be at least 3 characters long")
	assert.Contains(t, errs, "password must be at least 6 characters long")
}

type vitalsPayload struct {
	Temperature      float64 `json:"temperature" validate:"omitempty,gte=25,lte=45"`
	OxygenSaturation float64 `json:"oxygen_saturation" validate:"omitempty,gte=0,lte=100"`
	Severity         int     `json:"severity" validate:"required,gte=1,lte=10"`
}

func TestCheckNumericRanges(t *testing.T) {
	tests := []struct {
		name    string
		payload vitalsPayload
		want    []string
	}{
		{
			name:    "all in range",
			payload: vitalsPayload{Temperature: 36.5, OxygenSaturation: 98, Severity: 5},
			want:    nil,
		},
		{
			name:    "temperature too high",
			payload: vitalsPayload{Temperature: 50, Severity: 5},
			want:    []string{"temperature must be 45 or less"},
		},
		{
			name:    "saturation over 100",
			payload: vitalsPayload{Temperature: 36.5, OxygenSaturation: 120, Severity: 5},
			want:    []string{"oxygen_saturation must be 100 or less"},
		},
		{
			name:    "severity missing",
			payload: vitalsPayload{Temperature: 36.5},
			want:    []string{"severity is required"},
		},
		{
			name:    "severity out of range",
			payload: vitalsPayload{Temperature: 36.5, Severity: 11},
			want:    []string{"severity must be 10 or less"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Check(tt.payload))
		})
	}
}

type nestedPayload struct {
	Demographics struct {
		Name       string `json:"name" validate:"required"`
		NationalID string `json:"national_id" validate:"required"`
	} `json:"demographics" validate:"required"`
}

func TestCheckNestedFields(t *testing.T) {
	errs := Check(nestedPayload{})
	assert.Contains(t, errs, "name is required")
	assert.Contains(t, errs, "national_id is required")
}
