package models

import "strconv"

// ListingRecord is one flattened business row as written to the raw
// restaurants CSV. Column order matches RawListingHeader.
type ListingRecord struct {
	ID             string
	Name           string
	ImageURL       string
	IsClosed       bool
	URL            string
	ReviewCount    int
	Rating         float64
	Categories     string // comma-joined, original order
	Transactions   string
	Price          string
	DisplayPhone   string
	Distance       float64
	Latitude       float64
	Longitude      float64
	Address1       string
	Address2       string
	Address3       string
	City           string
	ZipCode        string
	Country        string
	State          string
	DisplayAddress string

	// Provenance of the query that produced this row.
	QueriedTerm     string
	QueriedLocation string
	SortBy          string
	Attributes      string
	QueriedDate     string
}

// RawListingHeader is the raw restaurants CSV schema.
var RawListingHeader = []string{
	"id", "name", "image_url", "is_closed", "url", "review_count", "rating",
	"categories", "transactions", "price", "display_phone", "distance",
	"coordinates_latitude", "coordinates_longitude",
	"location_address1", "location_address2", "location_address3",
	"location_city", "location_zip_code", "location_country", "location_state",
	"location_display_address",
	"queried_term", "queried_location", "sort_by", "attributes", "queried_date",
}

// Row projects the record into RawListingHeader order.
func (l *ListingRecord) Row() []string {
	return []string{
		l.ID, l.Name, l.ImageURL, strconv.FormatBool(l.IsClosed), l.URL,
		strconv.Itoa(l.ReviewCount), formatFloat(l.Rating),
		l.Categories, l.Transactions, l.Price, l.DisplayPhone,
		formatFloat(l.Distance), formatFloat(l.Latitude), formatFloat(l.Longitude),
		l.Address1, l.Address2, l.Address3,
		l.City, l.ZipCode, l.Country, l.State, l.DisplayAddress,
		l.QueriedTerm, l.QueriedLocation, l.SortBy, l.Attributes, l.QueriedDate,
	}
}

// ReviewRecord is one review row as written to the raw reviews CSV. The
// author sub-object is kept as a serialized JSON string; it is parsed back
// into flat columns by the cleaning pass.
type ReviewRecord struct {
	BusinessID  string
	ID          string
	URL         string
	Text        string // whitespace-normalized
	Rating      float64
	TimeCreated string
	User        string // JSON-serialized author sub-object
	QueriedDate string
}

// RawReviewHeader is the raw reviews CSV schema.
var RawReviewHeader = []string{
	"business_id", "id", "url", "text", "rating", "time_created", "user",
	"queried_date",
}

// Row projects the record into RawReviewHeader order.
func (r *ReviewRecord) Row() []string {
	return []string{
		r.BusinessID, r.ID, r.URL, r.Text, formatFloat(r.Rating),
		r.TimeCreated, r.User, r.QueriedDate,
	}
}

// CleanedListing is the analysis-ready restaurant row: the raw columns
// (deduplicated, zip-normalized) plus the derived enrichment columns.
type CleanedListing struct {
	RestaurantID   string
	RestaurantName string
	ImageURL       string
	IsClosed       string
	URL            string
	ReviewCount    int
	Rating         float64
	Categories     string
	Transactions   string
	Price          string
	DisplayPhone   string
	Distance       string
	Latitude       string
	Longitude      string
	Address1       string
	Address2       string
	Address3       string
	City           string
	ZipCode        string // normalized: no decimal-fraction artifact
	Country        string
	State          string
	DisplayAddress string

	QueriedTerm     string
	QueriedLocation string
	SortBy          string
	Attributes      string
	QueriedDate     string

	Cuisines       [3]string // first three category segments
	PriceNum       int       // character length of the price symbol string
	ReviewCountBin string
	Neighborhood   string // empty when the zip has no reference entry
}

// CleanedListingHeader is the cleaned restaurants CSV schema.
var CleanedListingHeader = []string{
	"restaurant_id", "restaurant_name", "image_url", "is_closed", "url",
	"review_count", "rating", "categories", "transactions", "price",
	"display_phone", "distance", "coordinates_latitude", "coordinates_longitude",
	"location_address1", "location_address2", "location_address3",
	"location_city", "location_zip_code", "location_country", "location_state",
	"location_display_address",
	"queried_term", "queried_location", "sort_by", "attributes", "queried_date",
	"cuisine_0", "cuisine_1", "cuisine_2", "price_num", "review_count_bins",
	"neighborhood",
}

// Row projects the record into CleanedListingHeader order.
func (c *CleanedListing) Row() []string {
	return []string{
		c.RestaurantID, c.RestaurantName, c.ImageURL, c.IsClosed, c.URL,
		strconv.Itoa(c.ReviewCount), formatFloat(c.Rating),
		c.Categories, c.Transactions, c.Price, c.DisplayPhone,
		c.Distance, c.Latitude, c.Longitude,
		c.Address1, c.Address2, c.Address3,
		c.City, c.ZipCode, c.Country, c.State, c.DisplayAddress,
		c.QueriedTerm, c.QueriedLocation, c.SortBy, c.Attributes, c.QueriedDate,
		c.Cuisines[0], c.Cuisines[1], c.Cuisines[2],
		strconv.Itoa(c.PriceNum), c.ReviewCountBin, c.Neighborhood,
	}
}

// CleanedReview is the analysis-ready review row with the author sub-object
// flattened into columns.
type CleanedReview struct {
	RestaurantID   string
	ReviewID       string
	URL            string
	Text           string
	Rating         float64
	TimeCreated    string
	UserID         string
	UserName       string
	UserProfileURL string
	UserImageURL   string
	QueriedDate    string
}

// CleanedReviewHeader is the cleaned reviews CSV schema.
var CleanedReviewHeader = []string{
	"restaurant_id", "review_id", "url", "text", "rating", "time_created",
	"user_id", "user_name", "user_profile_url", "user_image_url",
	"queried_date",
}

// Row projects the record into CleanedReviewHeader order.
func (c *CleanedReview) Row() []string {
	return []string{
		c.RestaurantID, c.ReviewID, c.URL, c.Text, formatFloat(c.Rating),
		c.TimeCreated, c.UserID, c.UserName, c.UserProfileURL, c.UserImageURL,
		c.QueriedDate,
	}
}

// InsightReport holds the computed analytics over the cleaned dataset.
type InsightReport struct {
	TotalRestaurants int
	AverageRating    float64
	PriceTiers       map[int]int    // price_num -> count
	Neighborhoods    map[string]int // neighborhood -> count
	ReviewBins       map[string]int // bin label -> count
	TopRated         []*CleanedListing
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
