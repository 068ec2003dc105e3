package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/petslib-api/internal/models"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestLikePatterns(t *testing.T) {
	tests := []struct {
		in       string
		contains string
		prefix   string
	}{
		{in: "dog", contains: "%dog%", prefix: "dog%"},
		{in: "100%", contains: `%100\%%`, prefix: `100\%%`},
		{in: "a_b", contains: `%a\_b%`, prefix: `a\_b%`},
		{in: `c:\x`, contains: `%c:\\x%`, prefix: `c:\\x%`},
	}

	for _, tt := range tests {
		if got := containsPattern(tt.in); got != tt.contains {
			t.Errorf("containsPattern(%q) = %q, want %q", tt.in, got, tt.contains)
		}
		if got := prefixPattern(tt.in); got != tt.prefix {
			t.Errorf("prefixPattern(%q) = %q, want %q", tt.in, got, tt.prefix)
		}
	}
}

func TestRegexEscaping(t *testing.T) {
	re := containsRegex("a.b*")
	if re.Pattern != `a\.b\*` || re.Options != "i" {
		t.Errorf("Unexpected regex: %+v", re)
	}
	if p := prefixRegex("(x").Pattern; p != `^\(x` {
		t.Errorf("Unexpected prefix regex: %s", p)
	}
}

func TestBuildSetClause(t *testing.T) {
	changes := []models.Change{
		{Field: "title", Value: "New"},
		{Field: "readTime", Value: "5 min"},
	}

	sets, args, err := buildSetClause(changes, articleFieldColumns, nil)
	if err != nil {
		t.Fatalf("buildSetClause failed: %v", err)
	}
	if len(sets) != 2 || sets[0] != "title = $1" || sets[1] != "read_time = $2" {
		t.Errorf("Unexpected sets: %v", sets)
	}
	if len(args) != 2 || args[1] != "5 min" {
		t.Errorf("Unexpected args: %v", args)
	}

	if _, _, err := buildSetClause([]models.Change{{Field: "id", Value: "x"}}, articleFieldColumns, nil); err == nil {
		t.Error("Expected error for unknown field")
	}
}

func TestEncodeBreedField(t *testing.T) {
	v, err := encodeBreedField("careRequirements", models.CareRequirements{Exercise: "High"})
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	s, ok := v.(string)
	if !ok || s != `{"exercise":"High","grooming":"","training":"","space":""}` {
		t.Errorf("Unexpected care JSON: %v", v)
	}

	v, _ = encodeBreedField("temperament", []string{"calm"})
	if _, ok := v.(*pq.StringArray); !ok {
		t.Errorf("Expected pq array for temperament, got %T", v)
	}
}

func TestSetDocument(t *testing.T) {
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	doc := setDocument([]models.Change{{Field: "name", Value: "Rex"}}, now)
	if doc["name"] != "Rex" || doc["updated_at"] != now {
		t.Errorf("Unexpected $set document: %v", doc)
	}
}

func TestTranslateErr(t *testing.T) {
	if translateErr(nil) != nil {
		t.Error("nil should stay nil")
	}
	if !errors.Is(translateErr(&pq.Error{Code: "23505"}), ErrDuplicate) {
		t.Error("unique violation should map to ErrDuplicate")
	}
	dup := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
	if !errors.Is(translateErr(dup), ErrDuplicate) {
		t.Error("duplicate key should map to ErrDuplicate")
	}
	other := errors.New("boom")
	if translateErr(other) != other {
		t.Error("other errors pass through")
	}
}
