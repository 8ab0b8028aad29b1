package yelp

import (
	"context"
	"reflect"
	"testing"

	"yelp-sampler/config"
	"yelp-sampler/models"
	"yelp-sampler/utils"
)

type stubAPI struct {
	searchCalls int
	reviewCalls []string
	searchFn    func(term string) (*models.SearchResponse, error)
	reviewsFn   func(businessID string) (*models.ReviewsResponse, error)
}

func (s *stubAPI) Search(_ context.Context, term, _, _, _ string) (*models.SearchResponse, error) {
	s.searchCalls++
	return s.searchFn(term)
}

func (s *stubAPI) GetReviews(_ context.Context, businessID string, _ int, _ string) (*models.ReviewsResponse, error) {
	s.reviewCalls = append(s.reviewCalls, businessID)
	return s.reviewsFn(businessID)
}

type memLedger struct {
	ids map[string]struct{}
}

func newMemLedger(ids ...string) *memLedger {
	l := &memLedger{ids: make(map[string]struct{})}
	for _, id := range ids {
		l.ids[id] = struct{}{}
	}
	return l
}

func (l *memLedger) Contains(id string) bool {
	_, ok := l.ids[id]
	return ok
}

func (l *memLedger) Record(id string) error {
	l.ids[id] = struct{}{}
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		DefaultLocation:    "New York, NY",
		SortBy:             "best_match",
		SearchLimit:        50,
		ReviewsPerBusiness: 3,
		MaxRetries:         1,
	}
}

func searchResult(ids ...string) *models.SearchResponse {
	resp := &models.SearchResponse{}
	for _, id := range ids {
		b := validBusiness()
		b.ID = id
		resp.Businesses = append(resp.Businesses, b)
	}
	return resp
}

func TestRunFailedCallsConsumeQuota(t *testing.T) {
	api := &stubAPI{searchFn: func(string) (*models.SearchResponse, error) {
		return nil, &models.TransportError{Op: "search", StatusCode: 500}
	}}
	s := NewWithClient(testConfig(), utils.NewLogger(), api)

	listings, err := s.Run(context.Background(), 5)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(listings) != 0 {
		t.Errorf("expected no listings, got %d", len(listings))
	}
	// Failures count toward the quota, so the loop makes exactly 5 attempts
	// even though every one fails.
	if api.searchCalls != 5 {
		t.Errorf("search calls: got %d, want 5", api.searchCalls)
	}
}

func TestRunFlattensAndExcludesMalformed(t *testing.T) {
	api := &stubAPI{searchFn: func(string) (*models.SearchResponse, error) {
		resp := searchResult("good-1")
		bad := validBusiness()
		bad.Name = ""
		resp.Businesses = append(resp.Businesses, bad)
		return resp, nil
	}}
	s := NewWithClient(testConfig(), utils.NewLogger(), api)

	listings, err := s.Run(context.Background(), 3)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	// One well-formed listing per call; the malformed one is excluded, and
	// its exclusion does not abort the run.
	if len(listings) != 3 {
		t.Errorf("listings: got %d, want 3", len(listings))
	}
	for _, l := range listings {
		if l.ID != "good-1" {
			t.Errorf("unexpected listing %q", l.ID)
		}
		if l.QueriedLocation != "New York, NY" || l.SortBy != "best_match" || l.QueriedDate == "" {
			t.Errorf("provenance not tagged: %+v", l)
		}
	}
}

func TestRunReviewsOnlySuccessesConsumeQuota(t *testing.T) {
	api := &stubAPI{reviewsFn: func(businessID string) (*models.ReviewsResponse, error) {
		if businessID == "flaky" {
			return nil, &models.TransportError{Op: "reviews", StatusCode: 502}
		}
		return &models.ReviewsResponse{Reviews: []*models.Review{
			{ID: "rev-" + businessID, Text: "nice", Rating: 4},
		}}, nil
	}}
	s := NewWithClient(testConfig(), utils.NewLogger(), api)
	ledger := newMemLedger()

	reviews, err := s.RunReviews(context.Background(), 2, []string{"flaky", "b", "c", "d"}, ledger)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	// The failed call does not consume quota: the loop keeps going until two
	// calls succeed ("b" and "c"), never reaching "d".
	if want := []string{"flaky", "b", "c"}; !reflect.DeepEqual(api.reviewCalls, want) {
		t.Errorf("review calls: got %v, want %v", api.reviewCalls, want)
	}
	if len(reviews) != 2 {
		t.Errorf("reviews: got %d, want 2", len(reviews))
	}
	if ledger.Contains("flaky") {
		t.Error("failed fetch must not be recorded in the ledger")
	}
	if !ledger.Contains("b") || !ledger.Contains("c") {
		t.Error("successful fetches must be recorded in the ledger")
	}
}

func TestRunReviewsSkipsLedgeredIDs(t *testing.T) {
	api := &stubAPI{reviewsFn: func(businessID string) (*models.ReviewsResponse, error) {
		return &models.ReviewsResponse{}, nil
	}}
	s := NewWithClient(testConfig(), utils.NewLogger(), api)

	_, err := s.RunReviews(context.Background(), 10, []string{"seen", "new"}, newMemLedger("seen"))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if want := []string{"new"}; !reflect.DeepEqual(api.reviewCalls, want) {
		t.Errorf("review calls: got %v, want %v", api.reviewCalls, want)
	}
}

func TestRunReviewsStopsWhenIDsExhausted(t *testing.T) {
	api := &stubAPI{reviewsFn: func(businessID string) (*models.ReviewsResponse, error) {
		return &models.ReviewsResponse{}, nil
	}}
	s := NewWithClient(testConfig(), utils.NewLogger(), api)

	_, err := s.RunReviews(context.Background(), 100, []string{"a", "b"}, newMemLedger())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(api.reviewCalls) != 2 {
		t.Errorf("calls: got %d, want 2", len(api.reviewCalls))
	}
}

func TestDedupeKeepLast(t *testing.T) {
	got := dedupeKeepLast([]string{"a", "b", "a", "c", "b"})
	want := []string{"a", "c", "b"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("dedupeKeepLast: got %v, want %v", got, want)
	}
}
