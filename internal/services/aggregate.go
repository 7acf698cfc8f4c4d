package services

import (
	"fmt"

	"storerate/internal/models"
)

// Aggregate computes the mean, count and 1..5 histogram of scores. The mean
// is formatted with two decimals and is "0.00" for an empty set.
func Aggregate(scores []int) models.RatingSummary {
	dist := emptyDistribution()
	sum := 0
	for _, s := range scores {
		sum += s
		if _, ok := dist[s]; ok {
			dist[s]++
		}
	}
	return models.RatingSummary{
		AverageRating:      formatAverage(sum, len(scores)),
		TotalRatings:       len(scores),
		RatingDistribution: dist,
	}
}

// AggregateCounts builds the same summary from per-score counts, as returned
// by a GROUP BY over the ratings table.
func AggregateCounts(counts map[int]int64) models.RatingSummary {
	dist := emptyDistribution()
	sum, total := 0, 0
	for score, n := range counts {
		if _, ok := dist[score]; !ok {
			continue
		}
		dist[score] = int(n)
		sum += score * int(n)
		total += int(n)
	}
	return models.RatingSummary{
		AverageRating:      formatAverage(sum, total),
		TotalRatings:       total,
		RatingDistribution: dist,
	}
}

func emptyDistribution() map[int]int {
	dist := make(map[int]int, models.MaxScore)
	for s := models.MinScore; s <= models.MaxScore; s++ {
		dist[s] = 0
	}
	return dist
}

func formatAverage(sum, count int) string {
	if count == 0 {
		return "0.00"
	}
	// hundredths of sum/count, ties rounded up
	cents := (200*sum + count) / (2 * count)
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}

func scoresOf(ratings []models.Rating) []int {
	scores := make([]int, len(ratings))
	for i, r := range ratings {
		scores[i] = r.Rating
	}
	return scores
}
