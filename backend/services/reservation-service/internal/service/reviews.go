package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ecocharge/backend/services/reservation-service/internal/catalog"
	"ecocharge/backend/services/reservation-service/internal/models"
	"ecocharge/backend/services/reservation-service/internal/rating"
)

var newReviewID = func() string {
	return "review-" + uuid.NewString()
}

// ReviewForm is a review as submitted by a driver.
type ReviewForm struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// ValidateReview checks rating bounds and that the comment has text.
func ValidateReview(form ReviewForm) ValidationErrors {
	errs := ValidationErrors{}
	if form.Rating < rating.MinStars || form.Rating > rating.MaxStars {
		errs.add("rating", "Rating must be between 1 and 5")
	}
	if strings.TrimSpace(form.Comment) == "" {
		errs.add("comment", "Please write a review comment")
	}
	return errs
}

// StationReviews is a station's review list with its aggregate.
type StationReviews struct {
	StationID string          `json:"stationId"`
	Reviews   []models.Review `json:"reviews"`
	Summary   rating.Summary  `json:"summary"`
}

// ReviewService appends reviews and serves station review summaries.
type ReviewService struct {
	store    *catalog.Store
	accounts AccountStore
	events   EventPublisher
	logger   *zap.Logger
	now      func() time.Time
}

// NewReviewService builds service.
func NewReviewService(store *catalog.Store, accounts AccountStore, events EventPublisher, logger *zap.Logger) *ReviewService {
	return &ReviewService{
		store:    store,
		accounts: accountsOrNop(accounts),
		events:   publisherOrNop(events),
		logger:   logger,
		now:      time.Now,
	}
}

// Add appends a review to the station's set and to the author's history in one update.
func (s *ReviewService) Add(ctx context.Context, userID, stationID string, form ReviewForm) (models.Review, error) {
	now := s.now()

	var (
		review  models.Review
		updated models.User
		station models.Station
	)
	err := s.store.Update(func(tx *catalog.Tx) error {
		st, err := tx.Station(stationID)
		if err != nil {
			return err
		}
		user, err := lookupUser(tx, userID)
		if err != nil {
			return err
		}
		if err := ValidateReview(form).errOrNil(); err != nil {
			return err
		}

		review = models.Review{
			ID:          newReviewID(),
			StationID:   st.ID,
			StationName: st.Name,
			UserID:      user.ID,
			UserName:    user.Name,
			Rating:      form.Rating,
			Comment:     strings.TrimSpace(form.Comment),
			Date:        now.UTC(),
		}
		if station, err = tx.AddReview(review); err != nil {
			return err
		}

		updated = user.Clone()
		updated.Reviews = append(updated.Reviews, review)
		return tx.PutUser(updated)
	})
	if err != nil {
		return models.Review{}, err
	}

	s.logger.Info("review added",
		zap.String("review_id", review.ID),
		zap.String("station_id", station.ID),
		zap.Int("rating", review.Rating),
		zap.Float64("station_rating", station.Rating),
	)

	if err := s.accounts.SaveUser(ctx, updated); err != nil {
		s.logger.Error("failed to persist user snapshot", zap.String("user_id", updated.ID), zap.Error(err))
	}
	publishChange(s.events, s.store, now, EventReviewCreated, review)
	return review, nil
}

// Summary returns a station's reviews, newest first, with the rating aggregate.
func (s *ReviewService) Summary(stationID string) (StationReviews, error) {
	reviews, err := s.store.StationReviews(stationID)
	if err != nil {
		return StationReviews{}, err
	}
	sort.SliceStable(reviews, func(i, j int) bool {
		return reviews[i].Date.After(reviews[j].Date)
	})
	return StationReviews{
		StationID: stationID,
		Reviews:   reviews,
		Summary:   rating.Aggregate(reviews),
	}, nil
}
