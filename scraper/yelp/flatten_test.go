package yelp

import (
	"errors"
	"testing"

	"yelp-sampler/models"
)

func validBusiness() *models.Business {
	return &models.Business{
		ID:           "lucali-brooklyn",
		Name:         "Lucali",
		ImageURL:     "https://img/lucali.jpg",
		URL:          "https://yelp.com/biz/lucali-brooklyn",
		ReviewCount:  2100,
		Rating:       4.5,
		Categories:   []models.Category{{Alias: "pizza", Title: "Pizza"}, {Alias: "italian", Title: "Italian"}},
		Transactions: []string{"delivery", "pickup"},
		Price:        "$$",
		Distance:     1024.5,
		Coordinates:  &models.Coordinates{Latitude: 40.68, Longitude: -74.0},
		Location: &models.Location{
			Address1:       "575 Henry St",
			City:           "Brooklyn",
			ZipCode:        "11231",
			Country:        "US",
			State:          "NY",
			DisplayAddress: []string{"575 Henry St", "Brooklyn, NY 11231"},
		},
	}
}

func TestFlattenBusiness(t *testing.T) {
	l, err := FlattenBusiness(validBusiness(), "Pizza", "New York, NY", "best_match", "hot_and_new", "2024-02-01")
	if err != nil {
		t.Fatalf("flatten: %v", err)
	}

	if l.ID != "lucali-brooklyn" || l.Name != "Lucali" {
		t.Errorf("identity fields: %q %q", l.ID, l.Name)
	}
	if l.Categories != "Pizza, Italian" {
		t.Errorf("categories join: got %q", l.Categories)
	}
	if l.Transactions != "delivery, pickup" {
		t.Errorf("transactions join: got %q", l.Transactions)
	}
	if l.DisplayAddress != "575 Henry St, Brooklyn, NY 11231" {
		t.Errorf("display address join: got %q", l.DisplayAddress)
	}
	if l.Latitude != 40.68 || l.Longitude != -74.0 {
		t.Errorf("coordinates: %v %v", l.Latitude, l.Longitude)
	}
	if l.QueriedTerm != "Pizza" || l.Attributes != "hot_and_new" || l.QueriedDate != "2024-02-01" {
		t.Errorf("provenance: %q %q %q", l.QueriedTerm, l.Attributes, l.QueriedDate)
	}
	// Optional fields default to empty, not errors.
	if l.Address2 != "" || l.Address3 != "" || l.DisplayPhone != "" {
		t.Errorf("optional fields should be empty: %q %q %q", l.Address2, l.Address3, l.DisplayPhone)
	}
}

func TestFlattenBusinessRequiredFields(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*models.Business)
		wantField string
	}{
		{"missing id", func(b *models.Business) { b.ID = "" }, "id"},
		{"missing name", func(b *models.Business) { b.Name = "" }, "name"},
		{"missing coordinates", func(b *models.Business) { b.Coordinates = nil }, "coordinates"},
		{"missing location", func(b *models.Business) { b.Location = nil }, "location"},
		{"missing city", func(b *models.Business) { b.Location.City = "" }, "location.city"},
		{"missing zip", func(b *models.Business) { b.Location.ZipCode = "" }, "location.zip_code"},
		{"missing state", func(b *models.Business) { b.Location.State = "" }, "location.state"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := validBusiness()
			tt.mutate(b)

			_, err := FlattenBusiness(b, "Pizza", "New York, NY", "best_match", "", "2024-02-01")
			var malformed *models.MalformedPayloadError
			if !errors.As(err, &malformed) {
				t.Fatalf("expected MalformedPayloadError, got %v", err)
			}
			if malformed.Field != tt.wantField {
				t.Errorf("field: got %q, want %q", malformed.Field, tt.wantField)
			}
		})
	}
}

func TestFlattenReviewNormalizesText(t *testing.T) {
	r := &models.Review{
		ID:          "rev-1",
		Text:        "  Great\n\npizza,\tworth  the wait.  ",
		Rating:      5,
		TimeCreated: "2024-01-15 10:00:00",
		User:        &models.ReviewUser{ID: "u-1", Name: "Ana"},
	}

	rec := FlattenReview(r, "lucali-brooklyn", "2024-02-01")
	if rec.Text != "Great pizza, worth the wait." {
		t.Errorf("text normalization: got %q", rec.Text)
	}
	if rec.BusinessID != "lucali-brooklyn" || rec.QueriedDate != "2024-02-01" {
		t.Errorf("tagging: %q %q", rec.BusinessID, rec.QueriedDate)
	}
	if rec.User == "" {
		t.Error("author sub-object should be serialized, got empty")
	}
}

func TestFlattenReviewAbsentAuthor(t *testing.T) {
	rec := FlattenReview(&models.Review{ID: "rev-2", Text: "ok"}, "biz-1", "2024-02-01")
	if rec.User != "" {
		t.Errorf("absent author should serialize to empty, got %q", rec.User)
	}
}
