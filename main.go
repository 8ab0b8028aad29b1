package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"yelp-sampler/config"
	"yelp-sampler/models"
	"yelp-sampler/scraper/yelp"
	"yelp-sampler/services"
	"yelp-sampler/storage"
	"yelp-sampler/utils"
)

const usage = `Usage: yelp-sampler <command>

Commands:
  restaurants   sample restaurant listings from the Yelp API into the raw dataset
  reviews       fetch reviews for not-yet-queried restaurants into the raw dataset
  clean         deduplicate and enrich the raw datasets into the cleaned datasets
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	logger := utils.NewLogger()
	cfg := config.Load()

	var err error
	switch os.Args[1] {
	case "restaurants":
		err = runRestaurants(cfg, logger)
	case "reviews":
		err = runReviews(cfg, logger)
	case "clean":
		err = runClean(cfg, logger)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command %q\n\n%s", os.Args[1], usage)
		os.Exit(2)
	}

	if err != nil {
		logger.Error("%s failed: %v", os.Args[1], err)
		os.Exit(1)
	}
}

func runRestaurants(cfg *config.Config, logger *utils.Logger) error {
	if cfg.YelpAPIKey == "" {
		return errors.New("YELP_API_KEY is not set")
	}

	logger.Info("=== Yelp restaurant sampling starting ===")
	logger.Info("Config — calls: %d | location: %s | page size: %d | rate: %dms",
		cfg.MaxListingCalls, cfg.DefaultLocation, cfg.SearchLimit, cfg.RateLimitMs)

	sampler := yelp.New(cfg, logger)
	listings, err := sampler.Run(context.Background(), cfg.MaxListingCalls)
	if err != nil {
		return err
	}
	if len(listings) == 0 {
		return errors.New("no listings were sampled")
	}

	batch := storage.NewTable(models.RawListingHeader)
	for _, l := range listings {
		batch.Append(l.Row())
	}
	if err := storage.AppendTable(cfg.RestaurantsCSVPath, batch); err != nil {
		return err
	}

	logger.Info("Restaurants data saved/appended to %s", cfg.RestaurantsCSVPath)
	fmt.Printf("Sampled %d listings → %s\n", len(listings), cfg.RestaurantsCSVPath)
	return nil
}

func runReviews(cfg *config.Config, logger *utils.Logger) error {
	if cfg.YelpAPIKey == "" {
		return errors.New("YELP_API_KEY is not set")
	}

	logger.Info("=== Yelp review sampling starting ===")

	restaurants, err := storage.ReadTable(cfg.RestaurantsCSVPath)
	if err != nil {
		return err
	}

	ids := make([]string, 0, len(restaurants.Rows))
	for _, row := range restaurants.Rows {
		if id := restaurants.Cell(row, "id"); id != "" {
			ids = append(ids, id)
		}
	}

	ledger, err := storage.LoadLedger(cfg.LedgerCSVPath)
	if err != nil {
		return err
	}
	logger.Info("Loaded ledger — %d restaurants already queried", ledger.Size())

	sampler := yelp.New(cfg, logger)
	reviews, err := sampler.RunReviews(context.Background(), cfg.MaxReviewCalls, ids, ledger)
	if err != nil {
		return err
	}
	if len(reviews) == 0 {
		return errors.New("no reviews were sampled")
	}

	batch := storage.NewTable(models.RawReviewHeader)
	for _, r := range reviews {
		batch.Append(r.Row())
	}
	if err := storage.AppendTable(cfg.ReviewsCSVPath, batch); err != nil {
		return err
	}

	logger.Info("Reviews data saved/appended to %s", cfg.ReviewsCSVPath)
	fmt.Printf("Sampled %d reviews → %s\n", len(reviews), cfg.ReviewsCSVPath)
	return nil
}

func runClean(cfg *config.Config, logger *utils.Logger) error {
	logger.Info("=== Cleaning pass starting ===")

	// All required inputs are checked before any output is written.
	neighborhoods, err := services.LoadNeighborhoods(cfg.NeighborhoodsCSVPath)
	if err != nil {
		return err
	}
	rawRestaurants, err := storage.ReadTable(cfg.RestaurantsCSVPath)
	if err != nil {
		return err
	}
	rawReviews, err := storage.ReadTable(cfg.ReviewsCSVPath)
	if err != nil {
		return err
	}

	cleaner := services.NewCleaner(logger)
	cleanedRestaurants := cleaner.CleanListings(rawRestaurants, neighborhoods)
	cleanedReviews := cleaner.CleanReviews(rawReviews)

	restaurantTable := storage.NewTable(models.CleanedListingHeader)
	restaurantIDs := make([]string, 0, len(cleanedRestaurants))
	for _, l := range cleanedRestaurants {
		restaurantTable.Append(l.Row())
		restaurantIDs = append(restaurantIDs, l.RestaurantID)
	}
	if err := storage.WriteTable(cfg.CleanedRestaurantsCSV, restaurantTable); err != nil {
		return err
	}

	reviewTable := storage.NewTable(models.CleanedReviewHeader)
	reviewIDs := make([]string, 0, len(cleanedReviews))
	for _, r := range cleanedReviews {
		reviewTable.Append(r.Row())
		reviewIDs = append(reviewIDs, r.ReviewID)
	}
	if err := storage.WriteTable(cfg.CleanedReviewsCSV, reviewTable); err != nil {
		return err
	}

	restaurantCount, err := cleaner.UpdateCountLog(cfg.RestaurantLogCSVPath, "total_restaurant_count", restaurantIDs)
	if err != nil {
		return err
	}
	reviewCount, err := cleaner.UpdateCountLog(cfg.ReviewLogCSVPath, "total_review_count", reviewIDs)
	if err != nil {
		return err
	}
	logger.Info("Count logs updated — %d restaurants, %d reviews", restaurantCount, reviewCount)

	if cfg.PGEnabled {
		pgWriter, err := storage.NewPostgresWriter(cfg.DSN())
		if err != nil {
			logger.Error("Failed to connect to PostgreSQL: %v", err)
			logger.Error("Make sure the database is running, or unset PG_ENABLED")
			return err
		}
		defer pgWriter.Close()

		if err := pgWriter.WriteListings(cleanedRestaurants); err != nil {
			return err
		}
		if err := pgWriter.WriteReviews(cleanedReviews); err != nil {
			return err
		}
		logger.Info("Cleaned data stored in PostgreSQL (tables: restaurants, reviews)")
	}

	insightSvc := services.NewInsightService(logger)
	report := insightSvc.Generate(cleanedRestaurants)
	insightSvc.Print(report)

	fmt.Printf("Cleaned %d restaurants → %s | %d reviews → %s\n",
		len(cleanedRestaurants), cfg.CleanedRestaurantsCSV,
		len(cleanedReviews), cfg.CleanedReviewsCSV)
	return nil
}
