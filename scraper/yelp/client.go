package yelp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"yelp-sampler/models"
)

// Client is a thin adapter over the Yelp Fusion API. It performs exactly one
// attempt per call; retry and backoff policy belong to the caller.
type Client struct {
	apiKey     string
	baseURL    string
	limit      int
	httpClient *http.Client
}

// NewClient creates a Yelp Fusion API client. baseURL should normally be
// "https://api.yelp.com/v3"; tests point it at a local server.
func NewClient(apiKey, baseURL string, limit int) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    baseURL,
		limit:      limit,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Search queries the business search endpoint. attributes may be empty for
// an unfiltered search.
func (c *Client) Search(ctx context.Context, term, location, sortBy, attributes string) (*models.SearchResponse, error) {
	params := url.Values{}
	params.Set("term", term)
	params.Set("location", location)
	params.Set("limit", strconv.Itoa(c.limit))
	params.Set("sort_by", sortBy)
	if attributes != "" {
		params.Set("attributes", attributes)
	}

	var result models.SearchResponse
	if err := c.get(ctx, "search", "/businesses/search", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetBusiness fetches full details for a business by its Yelp ID.
func (c *Client) GetBusiness(ctx context.Context, businessID string) (*models.Business, error) {
	var result models.Business
	if err := c.get(ctx, "business", "/businesses/"+url.PathEscape(businessID), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetReviews fetches up to limit reviews for a business.
func (c *Client) GetReviews(ctx context.Context, businessID string, limit int, sortBy string) (*models.ReviewsResponse, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	params.Set("sort_by", sortBy)

	var result models.ReviewsResponse
	path := "/businesses/" + url.PathEscape(businessID) + "/reviews"
	if err := c.get(ctx, "reviews", path, params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) get(ctx context.Context, op, path string, params url.Values, out any) error {
	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("yelp: %s: build request: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &models.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &models.TransportError{Op: op, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &models.TransportError{Op: op, Err: fmt.Errorf("decode body: %w", err)}
	}
	return nil
}
