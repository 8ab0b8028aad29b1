package services

import (
	"fmt"
	"sort"
	"strings"

	"yelp-sampler/models"
	"yelp-sampler/utils"
)

type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

func (s *InsightService) Generate(listings []*models.CleanedListing) *models.InsightReport {
	report := &models.InsightReport{
		PriceTiers:    make(map[int]int),
		Neighborhoods: make(map[string]int),
		ReviewBins:    make(map[string]int),
	}

	if len(listings) == 0 {
		return report
	}

	report.TotalRestaurants = len(listings)

	var ratedListings []*models.CleanedListing
	var ratingTotal float64

	for _, l := range listings {
		if l.Rating > 0 {
			ratedListings = append(ratedListings, l)
			ratingTotal += l.Rating
		}
		if l.PriceNum > 0 {
			report.PriceTiers[l.PriceNum]++
		}
		if l.Neighborhood != "" {
			report.Neighborhoods[l.Neighborhood]++
		}
		if l.ReviewCountBin != "" {
			report.ReviewBins[l.ReviewCountBin]++
		}
	}

	if len(ratedListings) > 0 {
		report.AverageRating = round2(ratingTotal / float64(len(ratedListings)))
	}

	// Top 5 by rating; review count breaks ties
	sort.Slice(ratedListings, func(i, j int) bool {
		if ratedListings[i].Rating != ratedListings[j].Rating {
			return ratedListings[i].Rating > ratedListings[j].Rating
		}
		return ratedListings[i].ReviewCount > ratedListings[j].ReviewCount
	})
	if len(ratedListings) > 5 {
		report.TopRated = ratedListings[:5]
	} else {
		report.TopRated = ratedListings
	}

	return report
}

func (s *InsightService) Print(r *models.InsightReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Printf("\n\033[1;35m%s\033[0m\n", sep)
	fmt.Printf("\033[1;35m  📊 RESTAURANT DATASET INSIGHTS\033[0m\n")
	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)

	// Overview
	fmt.Printf("\033[1;33m  Overview\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Unique restaurants : \033[1m%d\033[0m\n", r.TotalRestaurants)
	if r.AverageRating > 0 {
		fmt.Printf("  Average rating     : \033[1;32m%.2f ★\033[0m\n", r.AverageRating)
	}
	fmt.Println()

	// Price tiers
	fmt.Printf("\033[1;33m  Price Tiers\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if len(r.PriceTiers) == 0 {
		fmt.Printf("  No price data available\n")
	} else {
		for tier := 1; tier <= 4; tier++ {
			if cnt, ok := r.PriceTiers[tier]; ok {
				fmt.Printf("  %-6s %d\n", strings.Repeat("$", tier), cnt)
			}
		}
	}
	fmt.Println()

	// Top 5 rated
	fmt.Printf("\033[1;33m  Top 5 Highest Rated Restaurants\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if len(r.TopRated) == 0 {
		fmt.Printf("  No rated restaurants found\n")
	} else {
		for i, l := range r.TopRated {
			name := truncate(l.RestaurantName, 38)
			fmt.Printf("  \033[1m%d.\033[0m %-40s \033[1;32m%.2f ★\033[0m (%d reviews)\n",
				i+1, name, l.Rating, l.ReviewCount)
		}
	}
	fmt.Println()

	// Neighborhoods
	fmt.Printf("\033[1;33m  Restaurants by Neighborhood\033[0m\n")
	fmt.Printf("  %s\n", thin)
	printDistribution(r.Neighborhoods, 10)
	fmt.Println()

	// Review-count bins
	fmt.Printf("\033[1;33m  Review Count Distribution\033[0m\n")
	fmt.Printf("  %s\n", thin)
	printDistribution(r.ReviewBins, 0)

	fmt.Printf("\n\033[1;35m%s\033[0m\n\n", sep)
}

// printDistribution prints label/count pairs sorted by count descending,
// with a bar chart. limit 0 means all.
func printDistribution(dist map[string]int, limit int) {
	if len(dist) == 0 {
		fmt.Printf("  No data\n")
		return
	}

	type entry struct {
		label string
		count int
	}
	entries := make([]entry, 0, len(dist))
	max := 0
	for label, cnt := range dist {
		entries = append(entries, entry{label, cnt})
		if cnt > max {
			max = cnt
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].label < entries[j].label
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	for _, e := range entries {
		barLen := e.count
		if max > 20 {
			barLen = e.count * 20 / max
			if barLen == 0 {
				barLen = 1
			}
		}
		fmt.Printf("  %-24s %s (%d)\n", truncate(e.label, 22), strings.Repeat("█", barLen), e.count)
	}
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
