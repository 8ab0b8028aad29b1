package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"yelp-sampler/models"
)

// PostgresWriter persists cleaned restaurants and reviews to PostgreSQL.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(dsn string) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS restaurants (
			restaurant_id   TEXT PRIMARY KEY,
			restaurant_name TEXT NOT NULL,
			rating          NUMERIC(4,2) NOT NULL DEFAULT 0,
			review_count    INTEGER NOT NULL DEFAULT 0,
			price           VARCHAR(8) NOT NULL DEFAULT '',
			price_num       INTEGER NOT NULL DEFAULT 0,
			review_bin      VARCHAR(16) NOT NULL DEFAULT '',
			cuisine         TEXT NOT NULL DEFAULT '',
			zip_code        VARCHAR(10) NOT NULL DEFAULT '',
			neighborhood    TEXT NOT NULL DEFAULT '',
			queried_date    DATE,
			inserted_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS reviews (
			review_id     TEXT PRIMARY KEY,
			restaurant_id TEXT NOT NULL,
			rating        NUMERIC(4,2) NOT NULL DEFAULT 0,
			text          TEXT NOT NULL DEFAULT '',
			time_created  TEXT NOT NULL DEFAULT '',
			user_id       TEXT NOT NULL DEFAULT '',
			user_name     TEXT NOT NULL DEFAULT '',
			queried_date  DATE,
			inserted_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_restaurants_neighborhood ON restaurants(neighborhood);
		CREATE INDEX IF NOT EXISTS idx_restaurants_rating       ON restaurants(rating);
		CREATE INDEX IF NOT EXISTS idx_reviews_restaurant       ON reviews(restaurant_id);
	`)
	return err
}

// WriteListings batch-inserts cleaned restaurants, ignoring ids already stored.
func (pw *PostgresWriter) WriteListings(listings []*models.CleanedListing) error {
	const batchSize = 50
	for i := 0; i < len(listings); i += batchSize {
		end := i + batchSize
		if end > len(listings) {
			end = len(listings)
		}
		if err := pw.insertListingBatch(listings[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func (pw *PostgresWriter) insertListingBatch(batch []*models.CleanedListing) error {
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*11)

	for idx, l := range batch {
		base := idx * 11
		valueStrings = append(valueStrings,
			fmt.Sprintf("($%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d)",
				base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8, base+9, base+10, base+11))
		valueArgs = append(valueArgs,
			l.RestaurantID, l.RestaurantName, l.Rating, l.ReviewCount, l.Price,
			l.PriceNum, l.ReviewCountBin, l.Cuisines[0], l.ZipCode, l.Neighborhood,
			nullableDate(l.QueriedDate))
	}

	query := fmt.Sprintf(`
		INSERT INTO restaurants (restaurant_id, restaurant_name, rating, review_count,
			price, price_num, review_bin, cuisine, zip_code, neighborhood, queried_date)
		VALUES %s
		ON CONFLICT (restaurant_id) DO NOTHING
	`, strings.Join(valueStrings, ","))

	_, err := pw.db.Exec(query, valueArgs...)
	return err
}

// WriteReviews batch-inserts cleaned reviews, ignoring ids already stored.
func (pw *PostgresWriter) WriteReviews(reviews []*models.CleanedReview) error {
	const batchSize = 50
	for i := 0; i < len(reviews); i += batchSize {
		end := i + batchSize
		if end > len(reviews) {
			end = len(reviews)
		}
		if err := pw.insertReviewBatch(reviews[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func (pw *PostgresWriter) insertReviewBatch(batch []*models.CleanedReview) error {
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*8)

	for idx, r := range batch {
		base := idx * 8
		valueStrings = append(valueStrings,
			fmt.Sprintf("($%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d)",
				base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8))
		valueArgs = append(valueArgs,
			r.ReviewID, r.RestaurantID, r.Rating, r.Text, r.TimeCreated,
			r.UserID, r.UserName, nullableDate(r.QueriedDate))
	}

	query := fmt.Sprintf(`
		INSERT INTO reviews (review_id, restaurant_id, rating, text, time_created,
			user_id, user_name, queried_date)
		VALUES %s
		ON CONFLICT (review_id) DO NOTHING
	`, strings.Join(valueStrings, ","))

	_, err := pw.db.Exec(query, valueArgs...)
	return err
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}

func nullableDate(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
