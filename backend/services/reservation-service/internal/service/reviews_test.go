package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReviewService(t *testing.T) (*ReviewService, *recordingAccounts, *recordingEvents) {
	t.Helper()
	accounts := &recordingAccounts{}
	events := &recordingEvents{}
	svc := NewReviewService(newFixtureStore(t), accounts, events, testLogger())
	svc.now = fixedClock()
	return svc, accounts, events
}

func TestValidateReview(t *testing.T) {
	assert.Empty(t, ValidateReview(ReviewForm{Rating: 5, Comment: "Fast"}))
	assert.Equal(t, []string{"comment", "rating"}, ValidateReview(ReviewForm{Rating: 0, Comment: " "}).Fields())
	assert.Equal(t, []string{"rating"}, ValidateReview(ReviewForm{Rating: 6, Comment: "ok"}).Fields())
}

func TestReviewServiceAddUpdatesAggregateAndHistory(t *testing.T) {
	stubIDs(t)
	svc, accounts, events := newReviewService(t)
	ctx := context.Background()

	review, err := svc.Add(ctx, "u-driver", "st-downtown", ReviewForm{Rating: 4, Comment: "  Clean bays  "})
	require.NoError(t, err)
	assert.Equal(t, "review-1", review.ID)
	assert.Equal(t, "Clean bays", review.Comment)
	assert.Equal(t, "Asha", review.UserName)
	assert.Equal(t, "Downtown Hub", review.StationName)

	station, err := svc.store.Station("st-downtown")
	require.NoError(t, err)
	assert.Equal(t, 4.0, station.Rating)
	assert.Equal(t, 1, station.ReviewCount)

	user, err := svc.store.User("u-driver")
	require.NoError(t, err)
	require.Len(t, user.Reviews, 1)
	assert.Equal(t, review, user.Reviews[0])

	require.Len(t, accounts.saved, 1)
	assert.Equal(t, []EventType{EventReviewCreated, EventStats}, events.types())

	_, err = svc.Add(ctx, "u-admin", "st-downtown", ReviewForm{Rating: 5, Comment: "Great"})
	require.NoError(t, err)
	station, _ = svc.store.Station("st-downtown")
	assert.Equal(t, 4.5, station.Rating)
	assert.Equal(t, 2, station.ReviewCount)
}

func TestReviewServiceAddFailures(t *testing.T) {
	svc, accounts, events := newReviewService(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, "", "st-downtown", ReviewForm{Rating: 4, Comment: "x"})
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = svc.Add(ctx, "u-driver", "st-unknown", ReviewForm{Rating: 4, Comment: "x"})
	assert.ErrorIs(t, err, ErrStationNotFound)

	_, err = svc.Add(ctx, "u-driver", "st-downtown", ReviewForm{Rating: 9, Comment: "x"})
	verr, ok := AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, []string{"rating"}, verr.Fields())

	station, _ := svc.store.Station("st-downtown")
	assert.Zero(t, station.ReviewCount)
	assert.Empty(t, accounts.saved)
	assert.Empty(t, events.types())
}

func TestReviewServiceSummaryNewestFirst(t *testing.T) {
	svc, _, _ := newReviewService(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, "u-driver", "st-mall", ReviewForm{Rating: 5, Comment: "first"})
	require.NoError(t, err)
	svc.now = func() time.Time { return testNow.Add(time.Hour) }
	_, err = svc.Add(ctx, "u-admin", "st-mall", ReviewForm{Rating: 3, Comment: "second"})
	require.NoError(t, err)

	got, err := svc.Summary("st-mall")
	require.NoError(t, err)
	require.Len(t, got.Reviews, 2)
	assert.Equal(t, "second", got.Reviews[0].Comment)
	assert.Equal(t, 2, got.Summary.Total)
	assert.Equal(t, 4.0, got.Summary.Average)
	five, ok := got.Summary.Bucket(5)
	require.True(t, ok)
	assert.Equal(t, 50.0, five.Percentage)

	empty, err := svc.Summary("st-airport")
	require.NoError(t, err)
	assert.Zero(t, empty.Summary.Average)
	assert.Len(t, empty.Summary.Histogram, 5)

	_, err = svc.Summary("st-unknown")
	assert.ErrorIs(t, err, ErrStationNotFound)
}
