package rating

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecocharge/backend/services/reservation-service/internal/models"
)

func reviewsWith(ratings ...int) []models.Review {
	out := make([]models.Review, 0, len(ratings))
	for _, r := range ratings {
		out = append(out, models.Review{Rating: r})
	}
	return out
}

func TestAggregateEmpty(t *testing.T) {
	s := Aggregate(nil)

	assert.Equal(t, 0.0, s.Average)
	assert.Equal(t, 0, s.Total)
	require.Len(t, s.Histogram, 5)
	for i, b := range s.Histogram {
		assert.Equal(t, 5-i, b.Star)
		assert.Zero(t, b.Count)
		assert.Zero(t, b.Percentage)
	}
}

func TestAggregateMeanAndHistogram(t *testing.T) {
	s := Aggregate(reviewsWith(5, 5, 4))

	assert.InDelta(t, 4.6667, s.Average, 0.0001)
	assert.Equal(t, 3, s.Total)

	five, ok := s.Bucket(5)
	require.True(t, ok)
	assert.Equal(t, 2, five.Count)
	assert.InDelta(t, 66.67, five.Percentage, 0.01)

	four, _ := s.Bucket(4)
	assert.Equal(t, 1, four.Count)
	assert.InDelta(t, 33.33, four.Percentage, 0.01)

	one, _ := s.Bucket(1)
	assert.Zero(t, one.Count)
}

func TestAggregateHistogramOrderIsFixed(t *testing.T) {
	s := Aggregate(reviewsWith(1, 2, 3))
	stars := make([]int, 0, len(s.Histogram))
	for _, b := range s.Histogram {
		stars = append(stars, b.Star)
	}
	assert.Equal(t, []int{5, 4, 3, 2, 1}, stars)
}
