package services

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"yelp-sampler/models"
	"yelp-sampler/storage"
	"yelp-sampler/utils"
)

// Cleaner runs the post-hoc batch transform: deduplicate accumulated raw
// rows, derive the enrichment columns, and join neighborhoods by zip.
type Cleaner struct {
	logger *utils.Logger
}

// NewCleaner creates a Cleaner with the given logger.
func NewCleaner(logger *utils.Logger) *Cleaner {
	return &Cleaner{logger: logger}
}

// LoadNeighborhoods reads the static zip-to-neighborhood reference CSV
// (columns ZipCode, Neighborhood). A missing file is fatal for a cleaning
// run and surfaces as *models.ReferenceDataMissingError.
func LoadNeighborhoods(path string) (map[string]string, error) {
	t, err := storage.ReadTable(path)
	if err != nil {
		return nil, err
	}

	m := make(map[string]string, len(t.Rows))
	for _, row := range t.Rows {
		zip := normalizeZip(t.Cell(row, "ZipCode"))
		if zip == "" {
			continue
		}
		m[zip] = t.Cell(row, "Neighborhood")
	}
	return m, nil
}

// CleanListings transforms the raw accumulated restaurants dataset into
// analysis-ready rows. Steps, in order: deduplicate by id keeping the last
// occurrence (most recent query wins), split off the first three cuisine
// segments, derive the numeric price tier, bucket review counts, normalize
// zips and join neighborhoods.
func (c *Cleaner) CleanListings(raw *storage.Table, neighborhoods map[string]string) []*models.CleanedListing {
	rows := dedupeRowsKeepLast(raw, "id", "restaurant_id")

	result := make([]*models.CleanedListing, 0, len(rows))
	for _, row := range rows {
		l := &models.CleanedListing{
			RestaurantID:   cellWithFallback(raw, row, "id", "restaurant_id"),
			RestaurantName: cellWithFallback(raw, row, "name", "restaurant_name"),
			ImageURL:       raw.Cell(row, "image_url"),
			IsClosed:       raw.Cell(row, "is_closed"),
			URL:            raw.Cell(row, "url"),
			ReviewCount:    parseCount(raw.Cell(row, "review_count")),
			Rating:         parseFloat(raw.Cell(row, "rating")),
			Categories:     raw.Cell(row, "categories"),
			Transactions:   raw.Cell(row, "transactions"),
			Price:          raw.Cell(row, "price"),
			DisplayPhone:   raw.Cell(row, "display_phone"),
			Distance:       raw.Cell(row, "distance"),
			Latitude:       raw.Cell(row, "coordinates_latitude"),
			Longitude:      raw.Cell(row, "coordinates_longitude"),
			Address1:       raw.Cell(row, "location_address1"),
			Address2:       raw.Cell(row, "location_address2"),
			Address3:       raw.Cell(row, "location_address3"),
			City:           raw.Cell(row, "location_city"),
			Country:        raw.Cell(row, "location_country"),
			State:          raw.Cell(row, "location_state"),
			DisplayAddress: raw.Cell(row, "location_display_address"),

			QueriedTerm:     raw.Cell(row, "queried_term"),
			QueriedLocation: raw.Cell(row, "queried_location"),
			SortBy:          raw.Cell(row, "sort_by"),
			Attributes:      raw.Cell(row, "attributes"),
			QueriedDate:     raw.Cell(row, "queried_date"),
		}

		l.Cuisines = splitCuisines(l.Categories)
		l.PriceNum = utf8.RuneCountInString(l.Price)
		l.ReviewCountBin = bucketReviewCount(l.ReviewCount)

		l.ZipCode = normalizeZip(raw.Cell(row, "location_zip_code"))
		l.Neighborhood = neighborhoods[l.ZipCode]

		result = append(result, l)
	}

	c.logger.Info("[cleaner] Cleaned %d → %d restaurants (deduplicated %d)",
		len(raw.Rows), len(result), len(raw.Rows)-len(result))
	return result
}

// CleanReviews transforms the raw accumulated reviews dataset. The author
// sub-object arrives as a serialized string in the "user" column; an
// unparsable value degrades to empty author fields, never a failed row. The
// review id prefers the "id" column and falls back to the legacy
// "review_id" column.
func (c *Cleaner) CleanReviews(raw *storage.Table) []*models.CleanedReview {
	result := make([]*models.CleanedReview, 0, len(raw.Rows))
	fallbacks := 0

	for _, row := range raw.Rows {
		user, ok := parseUser(raw.Cell(row, "user"))
		if !ok {
			fallbacks++
		}

		result = append(result, &models.CleanedReview{
			RestaurantID:   cellWithFallback(raw, row, "business_id", "restaurant_id"),
			ReviewID:       cellWithFallback(raw, row, "id", "review_id"),
			URL:            raw.Cell(row, "url"),
			Text:           raw.Cell(row, "text"),
			Rating:         parseFloat(raw.Cell(row, "rating")),
			TimeCreated:    raw.Cell(row, "time_created"),
			UserID:         user.ID,
			UserName:       user.Name,
			UserProfileURL: user.ProfileURL,
			UserImageURL:   user.ImageURL,
			QueriedDate:    raw.Cell(row, "queried_date"),
		})
	}

	if fallbacks > 0 {
		c.logger.Warn("[cleaner] %d reviews had an unparsable author sub-object — author fields left empty", fallbacks)
	}
	c.logger.Info("[cleaner] Cleaned %d reviews", len(result))
	return result
}

// UpdateCountLog appends one (today, distinct-id-count) row to the count
// log at logPath. The log is append-only per run: same-day reruns append
// additional rows rather than replacing them.
func (c *Cleaner) UpdateCountLog(logPath, countColumn string, ids []string) (int, error) {
	distinct := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id != "" {
			distinct[id] = struct{}{}
		}
	}

	log, err := storage.ReadTable(logPath)
	if err != nil {
		var missing *models.ReferenceDataMissingError
		if !errors.As(err, &missing) {
			return 0, err
		}
		log = storage.NewTable([]string{"queried_date", countColumn})
	}

	log.Append([]string{
		time.Now().Format("2006-01-02"),
		strconv.Itoa(len(distinct)),
	})
	if err := storage.WriteTable(logPath, log); err != nil {
		return 0, err
	}
	return len(distinct), nil
}

// dedupeRowsKeepLast keeps, for each id, the row of its last occurrence at
// that occurrence's position.
func dedupeRowsKeepLast(t *storage.Table, idColumn, fallbackColumn string) [][]string {
	last := make(map[string]int, len(t.Rows))
	for i, row := range t.Rows {
		last[cellWithFallback(t, row, idColumn, fallbackColumn)] = i
	}

	out := make([][]string, 0, len(last))
	for i, row := range t.Rows {
		if last[cellWithFallback(t, row, idColumn, fallbackColumn)] == i {
			out = append(out, row)
		}
	}
	return out
}

func cellWithFallback(t *storage.Table, row []string, primary, fallback string) string {
	if v := t.Cell(row, primary); v != "" {
		return v
	}
	return t.Cell(row, fallback)
}

// splitCuisines splits a comma-joined categories string and returns its
// first three segments; missing segments stay empty.
func splitCuisines(categories string) [3]string {
	var out [3]string
	if categories == "" {
		return out
	}
	parts := strings.Split(categories, ",")
	for i := 0; i < len(parts) && i < 3; i++ {
		out[i] = strings.TrimSpace(parts[i])
	}
	return out
}

// bucketReviewCount bins a review count. Bins are half-open on the lower
// side and closed on the upper, except the first bin which includes 0.
func bucketReviewCount(n int) string {
	switch {
	case n <= 10:
		return "0-10"
	case n <= 50:
		return "11-50"
	case n <= 100:
		return "51-100"
	case n <= 200:
		return "101-200"
	case n <= 500:
		return "201-500"
	case n <= 1000:
		return "501-1000"
	case n <= 5000:
		return "1001-5000"
	case n <= 10000:
		return "5001-10000"
	case n <= 20000:
		return "10001-20000"
	case n <= 50000:
		return "20001-50000"
	default:
		return "50001+"
	}
}

// normalizeZip reduces a zip value to its integer-valued string form,
// stripping any decimal-fraction artifact a numeric round-trip left behind
// ("10001.0" → "10001").
func normalizeZip(zip string) string {
	zip = strings.TrimSpace(zip)
	if i := strings.IndexByte(zip, '.'); i >= 0 {
		zip = zip[:i]
	}
	return zip
}

// parseUser decodes the serialized author sub-object. The second return is
// false when the value was present but unparsable; the caller proceeds with
// empty author fields instead of failing the row.
func parseUser(raw string) (models.ReviewUser, bool) {
	var user models.ReviewUser
	if raw == "" {
		return user, true
	}
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return models.ReviewUser{}, false
	}
	return user, true
}

func parseCount(s string) int {
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	// Historical rows may carry a float artifact like "120.0".
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return 0
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
