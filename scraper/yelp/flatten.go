package yelp

import (
	"encoding/json"
	"strings"

	"yelp-sampler/models"
)

// FlattenBusiness projects a raw business payload into a flat ListingRecord,
// tagged with the provenance of the query that produced it. A missing
// required field (id, name, coordinates, core location fields) yields a
// *models.MalformedPayloadError: those fields drive dedup and the
// neighborhood join, so they are never silently defaulted.
func FlattenBusiness(b *models.Business, term, location, sortBy, attributes, date string) (*models.ListingRecord, error) {
	if b.ID == "" {
		return nil, &models.MalformedPayloadError{Field: "id"}
	}
	if b.Name == "" {
		return nil, &models.MalformedPayloadError{Field: "name", BusinessID: b.ID}
	}
	if b.Coordinates == nil {
		return nil, &models.MalformedPayloadError{Field: "coordinates", BusinessID: b.ID}
	}
	if b.Location == nil {
		return nil, &models.MalformedPayloadError{Field: "location", BusinessID: b.ID}
	}
	for _, req := range []struct{ field, val string }{
		{"location.city", b.Location.City},
		{"location.zip_code", b.Location.ZipCode},
		{"location.country", b.Location.Country},
		{"location.state", b.Location.State},
	} {
		if req.val == "" {
			return nil, &models.MalformedPayloadError{Field: req.field, BusinessID: b.ID}
		}
	}

	titles := make([]string, 0, len(b.Categories))
	for _, c := range b.Categories {
		titles = append(titles, c.Title)
	}

	return &models.ListingRecord{
		ID:             b.ID,
		Name:           b.Name,
		ImageURL:       b.ImageURL,
		IsClosed:       b.IsClosed,
		URL:            b.URL,
		ReviewCount:    b.ReviewCount,
		Rating:         b.Rating,
		Categories:     strings.Join(titles, ", "),
		Transactions:   strings.Join(b.Transactions, ", "),
		Price:          b.Price,
		DisplayPhone:   b.DisplayPhone,
		Distance:       b.Distance,
		Latitude:       b.Coordinates.Latitude,
		Longitude:      b.Coordinates.Longitude,
		Address1:       b.Location.Address1,
		Address2:       b.Location.Address2,
		Address3:       b.Location.Address3,
		City:           b.Location.City,
		ZipCode:        b.Location.ZipCode,
		Country:        b.Location.Country,
		State:          b.Location.State,
		DisplayAddress: strings.Join(b.Location.DisplayAddress, ", "),

		QueriedTerm:     term,
		QueriedLocation: location,
		SortBy:          sortBy,
		Attributes:      attributes,
		QueriedDate:     date,
	}, nil
}

// FlattenReview projects a raw review payload into a ReviewRecord owned by
// businessID. The review text is whitespace-normalized; the author
// sub-object is serialized to JSON and parsed back into flat columns by the
// cleaning pass.
func FlattenReview(r *models.Review, businessID, date string) *models.ReviewRecord {
	user := ""
	if r.User != nil {
		if raw, err := json.Marshal(r.User); err == nil {
			user = string(raw)
		}
	}

	return &models.ReviewRecord{
		BusinessID:  businessID,
		ID:          r.ID,
		URL:         r.URL,
		Text:        normalizeText(r.Text),
		Rating:      r.Rating,
		TimeCreated: r.TimeCreated,
		User:        user,
		QueriedDate: date,
	}
}

// normalizeText strips leading/trailing whitespace and collapses internal
// whitespace runs (including newlines) into single spaces.
func normalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
