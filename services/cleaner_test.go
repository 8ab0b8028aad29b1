package services

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"yelp-sampler/models"
	"yelp-sampler/storage"
	"yelp-sampler/utils"
)

func newTestLogger() *utils.Logger { return utils.NewLogger() }

func rawListingTable(rows ...[]string) *storage.Table {
	t := storage.NewTable([]string{
		"id", "name", "review_count", "rating", "categories", "price",
		"location_zip_code", "queried_date",
	})
	for _, row := range rows {
		t.Append(row)
	}
	return t
}

func TestCleanListingsKeepsLastOccurrence(t *testing.T) {
	c := NewCleaner(newTestLogger())
	raw := rawListingTable(
		[]string{"biz-1", "Early Row", "5", "4.0", "Pizza", "$", "10001", "2024-01-01"},
		[]string{"biz-2", "Other", "30", "4.5", "Thai", "$$", "10002", "2024-01-01"},
		[]string{"biz-1", "Late Row", "120", "4.2", "Pizza, Italian", "$$", "10001", "2024-02-01"},
	)

	cleaned := c.CleanListings(raw, nil)
	if len(cleaned) != 2 {
		t.Fatalf("expected 2 restaurants after dedup, got %d", len(cleaned))
	}

	var got *models.CleanedListing
	for _, l := range cleaned {
		if l.RestaurantID == "biz-1" {
			got = l
		}
	}
	if got == nil {
		t.Fatal("biz-1 missing from cleaned output")
	}
	if got.RestaurantName != "Late Row" {
		t.Errorf("expected most recent row to win, got name %q", got.RestaurantName)
	}
	if got.ReviewCount != 120 {
		t.Errorf("ReviewCount: got %d, want 120", got.ReviewCount)
	}
}

func TestCleanListingsDerivedColumns(t *testing.T) {
	c := NewCleaner(newTestLogger())
	raw := rawListingTable(
		[]string{"biz-1", "Lucali", "120", "4.5", "Pizza, Italian, Wine Bars, Cocktail Bars", "$$", "11231", "2024-01-01"},
		[]string{"biz-2", "No Frills", "7", "4.0", "Diners", "", "99999", "2024-01-01"},
	)
	neighborhoods := map[string]string{"11231": "Carroll Gardens"}

	cleaned := c.CleanListings(raw, neighborhoods)

	l := cleaned[0]
	if l.Cuisines != [3]string{"Pizza", "Italian", "Wine Bars"} {
		t.Errorf("Cuisines: got %v", l.Cuisines)
	}
	if l.PriceNum != 2 {
		t.Errorf("PriceNum: got %d, want 2", l.PriceNum)
	}
	if l.ReviewCountBin != "101-200" {
		t.Errorf("ReviewCountBin: got %q, want 101-200", l.ReviewCountBin)
	}
	if l.Neighborhood != "Carroll Gardens" {
		t.Errorf("Neighborhood: got %q", l.Neighborhood)
	}

	l = cleaned[1]
	if l.Cuisines != [3]string{"Diners", "", ""} {
		t.Errorf("single-category Cuisines: got %v", l.Cuisines)
	}
	if l.PriceNum != 0 {
		t.Errorf("empty price PriceNum: got %d, want 0", l.PriceNum)
	}
	if l.Neighborhood != "" {
		t.Errorf("unmatched zip should have empty neighborhood, got %q", l.Neighborhood)
	}
}

func TestCleanListingsNormalizesZipArtifact(t *testing.T) {
	c := NewCleaner(newTestLogger())
	raw := rawListingTable(
		[]string{"biz-1", "Joe's", "10", "4.0", "Pizza", "$", "10001.0", "2024-01-01"},
	)
	neighborhoods := map[string]string{"10001": "Chelsea"}

	cleaned := c.CleanListings(raw, neighborhoods)
	if cleaned[0].ZipCode != "10001" {
		t.Errorf("ZipCode: got %q, want 10001", cleaned[0].ZipCode)
	}
	if cleaned[0].Neighborhood != "Chelsea" {
		t.Errorf("Neighborhood after normalization: got %q, want Chelsea", cleaned[0].Neighborhood)
	}
}

func TestCleanListingsIdempotentOnOwnOutput(t *testing.T) {
	c := NewCleaner(newTestLogger())
	raw := rawListingTable(
		[]string{"biz-1", "First", "5", "4.0", "Pizza", "$", "10001", "2024-01-01"},
		[]string{"biz-1", "Second", "120", "4.2", "Pizza", "$$", "10001", "2024-02-01"},
		[]string{"biz-2", "Other", "30", "4.5", "Thai", "$$", "10002", "2024-01-01"},
	)

	first := c.CleanListings(raw, nil)

	again := storage.NewTable(models.CleanedListingHeader)
	for _, l := range first {
		again.Append(l.Row())
	}
	second := c.CleanListings(again, nil)

	if len(second) != len(first) {
		t.Fatalf("second clean changed row count: %d vs %d", len(second), len(first))
	}
	for i := range first {
		if second[i].RestaurantID != first[i].RestaurantID ||
			second[i].RestaurantName != first[i].RestaurantName ||
			second[i].ReviewCountBin != first[i].ReviewCountBin {
			t.Errorf("row %d changed on second clean: %+v vs %+v", i, second[i], first[i])
		}
	}
}

func TestBucketReviewCount(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "0-10"},
		{10, "0-10"},
		{11, "11-50"},
		{50, "11-50"},
		{51, "51-100"},
		{500, "201-500"},
		{501, "501-1000"},
		{50000, "20001-50000"},
		{50001, "50001+"},
	}

	for _, tt := range tests {
		if got := bucketReviewCount(tt.in); got != tt.want {
			t.Errorf("bucketReviewCount(%d) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func rawReviewTable(header []string, rows ...[]string) *storage.Table {
	t := storage.NewTable(header)
	for _, row := range rows {
		t.Append(row)
	}
	return t
}

func TestCleanReviewsFlattensAuthor(t *testing.T) {
	c := NewCleaner(newTestLogger())
	raw := rawReviewTable(
		models.RawReviewHeader,
		[]string{"biz-1", "rev-1", "https://yelp.com/r/1", "Great pizza", "5", "2024-01-15 10:00:00",
			`{"id":"u-1","name":"Ana","profile_url":"https://yelp.com/u/1","image_url":"https://img/1"}`,
			"2024-02-01"},
	)

	cleaned := c.CleanReviews(raw)
	r := cleaned[0]
	if r.UserID != "u-1" || r.UserName != "Ana" {
		t.Errorf("author fields: got id=%q name=%q", r.UserID, r.UserName)
	}
	if r.UserProfileURL != "https://yelp.com/u/1" || r.UserImageURL != "https://img/1" {
		t.Errorf("author urls: got %q %q", r.UserProfileURL, r.UserImageURL)
	}
	if r.RestaurantID != "biz-1" || r.ReviewID != "rev-1" {
		t.Errorf("ids: got restaurant=%q review=%q", r.RestaurantID, r.ReviewID)
	}
}

func TestCleanReviewsUnparsableAuthorDegrades(t *testing.T) {
	c := NewCleaner(newTestLogger())
	raw := rawReviewTable(
		models.RawReviewHeader,
		[]string{"biz-1", "rev-1", "", "Fine", "4", "", "not a dict", "2024-02-01"},
	)

	cleaned := c.CleanReviews(raw)
	if len(cleaned) != 1 {
		t.Fatalf("row with bad author must survive, got %d rows", len(cleaned))
	}
	r := cleaned[0]
	if r.UserID != "" || r.UserName != "" || r.UserProfileURL != "" || r.UserImageURL != "" {
		t.Errorf("expected empty author fields, got %+v", r)
	}
}

func TestCleanReviewsLegacyIDFallback(t *testing.T) {
	c := NewCleaner(newTestLogger())
	raw := rawReviewTable(
		[]string{"business_id", "review_id", "text", "rating"},
		[]string{"biz-1", "legacy-7", "Old row", "3"},
	)

	cleaned := c.CleanReviews(raw)
	if cleaned[0].ReviewID != "legacy-7" {
		t.Errorf("ReviewID fallback: got %q, want legacy-7", cleaned[0].ReviewID)
	}
}

func TestUpdateCountLogAppendsWithoutDateDedup(t *testing.T) {
	c := NewCleaner(newTestLogger())
	logPath := filepath.Join(t.TempDir(), "restaurant_count_log.csv")

	if _, err := c.UpdateCountLog(logPath, "total_restaurant_count", []string{"a", "b", "b"}); err != nil {
		t.Fatalf("first update: %v", err)
	}
	count, err := c.UpdateCountLog(logPath, "total_restaurant_count", []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("second update: %v", err)
	}
	if count != 3 {
		t.Errorf("distinct count: got %d, want 3", count)
	}

	log, err := storage.ReadTable(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if len(log.Rows) != 2 {
		t.Errorf("same-day reruns must append, got %d rows", len(log.Rows))
	}
	if got := log.Cell(log.Rows[0], "total_restaurant_count"); got != "2" {
		t.Errorf("first run count: got %q, want 2", got)
	}
}

func TestLoadNeighborhoodsMissingFileIsFatal(t *testing.T) {
	_, err := LoadNeighborhoods(filepath.Join(t.TempDir(), "absent.csv"))
	var missing *models.ReferenceDataMissingError
	if !errors.As(err, &missing) {
		t.Fatalf("expected ReferenceDataMissingError, got %v", err)
	}
}

func TestLoadNeighborhoods(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nyc-zip-codes.csv")
	data := "Borough,Neighborhood,ZipCode\nManhattan,Chelsea,10001\nBrooklyn,Carroll Gardens,11231\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := LoadNeighborhoods(path)
	if err != nil {
		t.Fatalf("LoadNeighborhoods: %v", err)
	}
	if m["10001"] != "Chelsea" || m["11231"] != "Carroll Gardens" {
		t.Errorf("unexpected map: %v", m)
	}
}
