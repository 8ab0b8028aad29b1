package yelp

import (
	"context"
	"math/rand"
	"time"

	"yelp-sampler/config"
	"yelp-sampler/models"
	"yelp-sampler/utils"
)

// API is the remote call surface the accumulation loops depend on.
type API interface {
	Search(ctx context.Context, term, location, sortBy, attributes string) (*models.SearchResponse, error)
	GetReviews(ctx context.Context, businessID string, limit int, sortBy string) (*models.ReviewsResponse, error)
}

// Ledger tracks which business ids have already had their reviews fetched.
type Ledger interface {
	Contains(id string) bool
	Record(id string) error
}

// Sampler drives the bounded accumulation loops against the remote API.
type Sampler struct {
	cfg    *config.Config
	logger *utils.Logger
	client API
	picker *CategoryPicker
	retry  *utils.RetryConfig
}

// New creates a ready-to-use Sampler backed by the real API client.
func New(cfg *config.Config, logger *utils.Logger) *Sampler {
	return NewWithClient(cfg, logger, NewClient(cfg.YelpAPIKey, cfg.APIBaseURL, cfg.SearchLimit))
}

// NewWithClient creates a Sampler over an arbitrary API implementation.
func NewWithClient(cfg *config.Config, logger *utils.Logger, client API) *Sampler {
	return &Sampler{
		cfg:    cfg,
		logger: logger,
		client: client,
		picker: NewCategoryPicker(rand.New(rand.NewSource(time.Now().UnixNano()))),
		retry: &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
	}
}

// Run performs up to maxCalls search calls and returns the flattened
// listings in strict call order. Every attempt consumes one unit of quota,
// failed calls included, so the loop terminates even under persistent
// failure. A fully-retried call still counts once.
func (s *Sampler) Run(ctx context.Context, maxCalls int) ([]*models.ListingRecord, error) {
	s.logger.Info("[sampler] Starting restaurant sampling — budget: %d API calls", maxCalls)

	date := time.Now().Format("2006-01-02")
	var listings []*models.ListingRecord

	for call := 0; call < maxCalls; call++ {
		if err := ctx.Err(); err != nil {
			return listings, err
		}

		category := s.picker.Next()
		attributes := ""
		if s.picker.HotAndNew() {
			attributes = "hot_and_new"
		}
		term := category + " restaurants"

		var resp *models.SearchResponse
		err := s.retry.Do("search "+category, func() error {
			var callErr error
			resp, callErr = s.client.Search(ctx, term, s.cfg.DefaultLocation, s.cfg.SortBy, attributes)
			return callErr
		})
		if err != nil {
			s.logger.Warn("[sampler] Search failed on call %d (%s): %v", call+1, category, err)
			continue
		}

		added := 0
		for _, b := range resp.Businesses {
			record, err := FlattenBusiness(b, category, s.cfg.DefaultLocation, s.cfg.SortBy, attributes, date)
			if err != nil {
				// Malformed records are excluded, never defaulted.
				s.logger.Warn("[sampler] Dropping malformed business: %v", err)
				continue
			}
			listings = append(listings, record)
			added++
		}

		s.logger.Info("[sampler] Found %d %s restaurants (%s). Total listings: %d",
			added, category, attributeLabel(attributes), len(listings))

		s.sleepBetweenCalls()
	}

	s.logger.Info("[sampler] Sampling complete — %d raw listings", len(listings))
	return listings, nil
}

// RunReviews fetches reviews for the given business ids, skipping ids
// already present in the ledger. The id sequence is deduplicated keeping the
// last occurrence. Unlike Run, only successful calls consume quota; the loop
// also stops once the id sequence is exhausted.
func (s *Sampler) RunReviews(ctx context.Context, maxCalls int, ids []string, ledger Ledger) ([]*models.ReviewRecord, error) {
	s.logger.Info("[sampler] Starting review sampling — budget: %d successful calls, %d candidate ids",
		maxCalls, len(ids))

	date := time.Now().Format("2006-01-02")
	var reviews []*models.ReviewRecord
	calls := 0

	for _, id := range dedupeKeepLast(ids) {
		if calls >= maxCalls {
			break
		}
		if err := ctx.Err(); err != nil {
			return reviews, err
		}
		if ledger.Contains(id) {
			s.logger.Debug("[sampler] Business %s already queried — skipping", id)
			continue
		}

		var resp *models.ReviewsResponse
		err := s.retry.Do("reviews "+id, func() error {
			var callErr error
			resp, callErr = s.client.GetReviews(ctx, id, s.cfg.ReviewsPerBusiness, "newest")
			return callErr
		})
		if err != nil {
			s.logger.Warn("[sampler] Review fetch failed for %s: %v", id, err)
			continue
		}

		for _, r := range resp.Reviews {
			reviews = append(reviews, FlattenReview(r, id, date))
		}

		if err := ledger.Record(id); err != nil {
			return reviews, err
		}
		calls++
		s.logger.Info("[sampler] Got reviews for %s (%d/%d calls) — total reviews: %d",
			id, calls, maxCalls, len(reviews))

		s.sleepBetweenCalls()
	}

	s.logger.Info("[sampler] Review sampling complete — %d reviews from %d calls", len(reviews), calls)
	return reviews, nil
}

func (s *Sampler) sleepBetweenCalls() {
	if s.cfg.RateLimitMs > 0 {
		time.Sleep(time.Duration(s.cfg.RateLimitMs) * time.Millisecond)
	}
}

// dedupeKeepLast removes duplicate ids, keeping each id at the position of
// its last occurrence.
func dedupeKeepLast(ids []string) []string {
	last := make(map[string]int, len(ids))
	for i, id := range ids {
		last[id] = i
	}
	out := make([]string, 0, len(last))
	for i, id := range ids {
		if last[id] == i {
			out = append(out, id)
		}
	}
	return out
}

func attributeLabel(attributes string) string {
	if attributes == "" {
		return "no specific attribute"
	}
	return attributes
}
