package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", value)
	require.NoError(t, err)
	return d
}

func TestBuildSearchFilterOwnerAlwaysScoped(t *testing.T) {
	owner := primitive.NewObjectID()

	filter, err := BuildSearchFilter(owner, SearchCriteria{})
	require.NoError(t, err)
	require.Len(t, filter, 1)
	assert.Equal(t, bson.E{Key: "user_id", Value: owner}, filter[0])
}

func TestBuildSearchFilterTypes(t *testing.T) {
	owner := primitive.NewObjectID()

	tests := []struct {
		name     string
		criteria SearchCriteria
		wantKey  string
		wantVal  interface{}
	}{
		{
			name:     "name is case-insensitive substring",
			criteria: SearchCriteria{Type: "name", Keyword: "Kim"},
			wantKey:  "demographics.name",
			wantVal:  primitive.Regex{Pattern: "Kim", Options: "i"},
		},
		{
			name:     "id is exact match",
			criteria: SearchCriteria{Type: "id", Keyword: "800101-1234567"},
			wantKey:  "demographics.national_id",
			wantVal:  "800101-1234567",
		},
		{
			name:     "phone is exact match",
			criteria: SearchCriteria{Type: "phone", Keyword: "010-1234-5678"},
			wantKey:  "demographics.phone",
			wantVal:  "010-1234-5678",
		},
		{
			name:     "symptom matches any list entry",
			criteria: SearchCriteria{Type: "symptom", Keyword: "headache"},
			wantKey:  "symptoms",
			wantVal:  primitive.Regex{Pattern: "headache", Options: "i"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter, err := BuildSearchFilter(owner, tt.criteria)
			require.NoError(t, err)
			require.Len(t, filter, 2)
			assert.Equal(t, bson.E{Key: "user_id", Value: owner}, filter[0])
			assert.Equal(t, bson.E{Key: tt.wantKey, Value: tt.wantVal}, filter[1])
		})
	}
}

func TestBuildSearchFilterEscapesRegexMetacharacters(t *testing.T) {
	owner := primitive.NewObjectID()

	filter, err := BuildSearchFilter(owner, SearchCriteria{Type: "name", Keyword: "a.b*c"})
	require.NoError(t, err)
	assert.Equal(t, primitive.Regex{Pattern: `a\.b\*c`, Options: "i"}, filter[1].Value)
}

func TestBuildSearchFilterUnknownTypeRejected(t *testing.T) {
	owner := primitive.NewObjectID()

	_, err := BuildSearchFilter(owner, SearchCriteria{Type: "address", Keyword: "Seoul"})
	assert.ErrorIs(t, err, ErrInvalidSearch)
}

func TestBuildSearchFilterTypeWithoutKeywordIgnored(t *testing.T) {
	owner := primitive.NewObjectID()

	filter, err := BuildSearchFilter(owner, SearchCriteria{Type: "name"})
	require.NoError(t, err)
	assert.Len(t, filter, 1)
}

func TestBuildSearchFilterDateWindow(t *testing.T) {
	owner := primitive.NewObjectID()

	t.Run("start only", func(t *testing.T) {
		filter, err := BuildSearchFilter(owner, SearchCriteria{StartDate: "2024-01-01"})
		require.NoError(t, err)
		require.Len(t, filter, 2)
		assert.Equal(t, bson.E{
			Key:   "created_at",
			Value: bson.D{{Key: "$gte", Value: mustDate(t, "2024-01-01")}},
		}, filter[1])
	})

	t.Run("end only is inclusive through the day", func(t *testing.T) {
		filter, err := BuildSearchFilter(owner, SearchCriteria{EndDate: "2024-01-31"})
		require.NoError(t, err)
		require.Len(t, filter, 2)
		assert.Equal(t, bson.E{
			Key:   "created_at",
			Value: bson.D{{Key: "$lt", Value: mustDate(t, "2024-02-01")}},
		}, filter[1])
	})

	t.Run("both bounds", func(t *testing.T) {
		filter, err := BuildSearchFilter(owner, SearchCriteria{StartDate: "2024-01-01", EndDate: "2024-01-31"})
		require.NoError(t, err)
		require.Len(t, filter, 2)
		assert.Equal(t, bson.E{
			Key: "created_at",
			Value: bson.D{
				{Key: "$gte", Value: mustDate(t, "2024-01-01")},
				{Key: "$lt", Value: mustDate(t, "2024-02-01")},
			},
		}, filter[1])
	})

	t.Run("rfc3339 end uses exact bound", func(t *testing.T) {
		filter, err := BuildSearchFilter(owner, SearchCriteria{EndDate: "2024-01-31T12:00:00Z"})
		require.NoError(t, err)
		end, _ := time.Parse(time.RFC3339, "2024-01-31T12:00:00Z")
		assert.Equal(t, bson.E{
			Key:   "created_at",
			Value: bson.D{{Key: "$lte", Value: end}},
		}, filter[1])
	})
}

func TestBuildSearchFilterUnparseableDateRejected(t *testing.T) {
	owner := primitive.NewObjectID()

	tests := []SearchCriteria{
		{StartDate: "yesterday"},
		{EndDate: "31/01/2024"},
		{StartDate: "2024-13-40"},
	}
	for _, criteria := range tests {
		_, err := BuildSearchFilter(owner, criteria)
		assert.ErrorIs(t, err, ErrInvalidSearch)
	}
}

func TestBuildSearchFilterCombinesAllPredicates(t *testing.T) {
	owner := primitive.NewObjectID()

	filter, err := BuildSearchFilter(owner, SearchCriteria{
		Type:      "name",
		Keyword:   "Kim",
		StartDate: "2024-01-01",
		EndDate:   "2024-01-31",
	})
	require.NoError(t, err)
	require.Len(t, filter, 3)
	assert.Equal(t, "user_id", filter[0].Key)
	assert.Equal(t, "demographics.name", filter[1].Key)
	assert.Equal(t, "created_at", filter[2].Key)
}

func TestSortNewestFirstIsDeterministic(t *testing.T) {
	// created_at desc with _id desc as tie-break
	require.Len(t, sortNewestFirst, 2)
	assert.Equal(t, bson.E{Key: "created_at", Value: -1}, sortNewestFirst[0])
	assert.Equal(t, bson.E{Key: "_id", Value: -1}, sortNewestFirst[1])
}
