package storage

import "yelp-sampler/models"

// CleanedWriter is the interface any cleaned-data sink must satisfy.
type CleanedWriter interface {
	WriteListings(listings []*models.CleanedListing) error
	WriteReviews(reviews []*models.CleanedReview) error
	Close() error
}
