package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	YelpAPIKey string
	APIBaseURL string

	DefaultLocation string
	SearchLimit     int
	SortBy          string

	MaxListingCalls    int
	MaxReviewCalls     int
	ReviewsPerBusiness int
	RateLimitMs        int // delay between API calls; 0 preserves the no-delay default
	MaxRetries         int // attempts per call; 1 means no retry

	RestaurantsCSVPath    string
	ReviewsCSVPath        string
	LedgerCSVPath         string
	NeighborhoodsCSVPath  string
	CleanedRestaurantsCSV string
	CleanedReviewsCSV     string
	RestaurantLogCSVPath  string
	ReviewLogCSVPath      string

	PGEnabled        bool
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		YelpAPIKey: getEnv("YELP_API_KEY", ""),
		APIBaseURL: getEnv("YELP_API_BASE_URL", "https://api.yelp.com/v3"),

		DefaultLocation: getEnv("DEFAULT_LOCATION", "New York, NY"),
		SearchLimit:     getEnvInt("SEARCH_LIMIT", 50),
		SortBy:          getEnv("SORT_BY", "best_match"),

		MaxListingCalls:    getEnvInt("MAX_LISTING_CALLS", 480),
		MaxReviewCalls:     getEnvInt("MAX_REVIEW_CALLS", 20),
		ReviewsPerBusiness: getEnvInt("REVIEWS_PER_BUSINESS", 3),
		RateLimitMs:        getEnvInt("RATE_LIMIT_MS", 0),
		MaxRetries:         getEnvInt("MAX_RETRIES", 1),

		RestaurantsCSVPath:    getEnv("RESTAURANTS_CSV", "./data/yelp_restaurants.csv"),
		ReviewsCSVPath:        getEnv("REVIEWS_CSV", "./data/yelp_reviews.csv"),
		LedgerCSVPath:         getEnv("LEDGER_CSV", "./data/queried_restaurant_ids.csv"),
		NeighborhoodsCSVPath:  getEnv("NEIGHBORHOODS_CSV", "./data/nyc-zip-codes.csv"),
		CleanedRestaurantsCSV: getEnv("CLEANED_RESTAURANTS_CSV", "./data/cleaned_yelp_restaurants.csv"),
		CleanedReviewsCSV:     getEnv("CLEANED_REVIEWS_CSV", "./data/cleaned_yelp_reviews.csv"),
		RestaurantLogCSVPath:  getEnv("RESTAURANT_LOG_CSV", "./data/restaurant_count_log.csv"),
		ReviewLogCSVPath:      getEnv("REVIEW_LOG_CSV", "./data/review_count_log.csv"),

		PGEnabled:        getEnvBool("PG_ENABLED", false),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "sampler"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "sampler123"),
		PostgresDB:       getEnv("POSTGRES_DB", "yelp_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}
