package models

// Raw Yelp Fusion API payloads. Optional blocks are pointers so the
// flattener can tell "absent" from "zero value" when validating.

// SearchResponse is the body of GET /v3/businesses/search.
type SearchResponse struct {
	Businesses []*Business `json:"businesses"`
	Total      int         `json:"total"`
}

// ReviewsResponse is the body of GET /v3/businesses/{id}/reviews.
type ReviewsResponse struct {
	Reviews []*Review `json:"reviews"`
	Total   int       `json:"total"`
}

// Business is a single entity as returned by search or detail endpoints.
type Business struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	ImageURL     string       `json:"image_url"`
	IsClosed     bool         `json:"is_closed"`
	URL          string       `json:"url"`
	ReviewCount  int          `json:"review_count"`
	Rating       float64      `json:"rating"`
	Categories   []Category   `json:"categories"`
	Transactions []string     `json:"transactions"`
	Price        string       `json:"price"`
	DisplayPhone string       `json:"display_phone"`
	Distance     float64      `json:"distance"`
	Coordinates  *Coordinates `json:"coordinates"`
	Location     *Location    `json:"location"`
}

// Category is one entry of a business's category list.
type Category struct {
	Alias string `json:"alias"`
	Title string `json:"title"`
}

// Coordinates holds a business's position.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Location holds the address block of a business.
type Location struct {
	Address1       string   `json:"address1"`
	Address2       string   `json:"address2"`
	Address3       string   `json:"address3"`
	City           string   `json:"city"`
	ZipCode        string   `json:"zip_code"`
	Country        string   `json:"country"`
	State          string   `json:"state"`
	DisplayAddress []string `json:"display_address"`
}

// Review is a single review payload.
type Review struct {
	ID          string      `json:"id"`
	URL         string      `json:"url"`
	Text        string      `json:"text"`
	Rating      float64     `json:"rating"`
	TimeCreated string      `json:"time_created"`
	User        *ReviewUser `json:"user"`
}

// ReviewUser is the author sub-object of a review.
type ReviewUser struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ProfileURL string `json:"profile_url"`
	ImageURL   string `json:"image_url"`
}
