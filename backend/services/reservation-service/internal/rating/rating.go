// Package rating folds station reviews into summary statistics.
package rating

import "ecocharge/backend/services/reservation-service/internal/models"

// Star ratings span 1..5.
const (
	MinStars = 1
	MaxStars = 5
)

// Bucket is one histogram row.
type Bucket struct {
	Star       int     `json:"star"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// Summary is the aggregate of a review set.
type Summary struct {
	Average   float64  `json:"average"`
	Total     int      `json:"total"`
	Histogram []Bucket `json:"histogram"`
}

// Aggregate computes the mean rating and a 5..1 histogram. An empty set yields a zero average
// and zero percentages. Ratings outside 1..5 count toward the total and mean but fall in no bucket.
func Aggregate(reviews []models.Review) Summary {
	counts := make(map[int]int, MaxStars)
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
		counts[r.Rating]++
	}

	total := len(reviews)
	summary := Summary{
		Total:     total,
		Histogram: make([]Bucket, 0, MaxStars),
	}
	if total > 0 {
		summary.Average = float64(sum) / float64(total)
	}

	for star := MaxStars; star >= MinStars; star-- {
		b := Bucket{Star: star, Count: counts[star]}
		if total > 0 {
			b.Percentage = float64(b.Count) / float64(total) * 100
		}
		summary.Histogram = append(summary.Histogram, b)
	}
	return summary
}

// Bucket returns the histogram row for star.
func (s Summary) Bucket(star int) (Bucket, bool) {
	for _, b := range s.Histogram {
		if b.Star == star {
			return b, true
		}
	}
	return Bucket{}, false
}
