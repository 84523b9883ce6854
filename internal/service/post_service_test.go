package service

import (
	"context"
	"testing"
	"time"

	"github.com/postgenio/api/internal/models"
	"github.com/postgenio/api/internal/transfer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSubscriptionService struct {
	active bool
}

func (f *fakeSubscriptionService) HandleSubscription(ctx context.Context, payload *transfer.SubscriptionEvent) error {
	return nil
}

func (f *fakeSubscriptionService) IsActive(ctx context.Context, userID int64) (bool, error) {
	return f.active, nil
}

func TestSchedulePost(t *testing.T) {
	gp := newFakeGeneratedPostRepo()
	sp := newFakeScheduledPostRepo()
	s := NewPostService(gp, sp, &fakeSubscriptionService{active: true})

	gpID, err := gp.Create(context.Background(), nil, &models.GeneratedPost{UserID: 7, Caption: "c", ImageURL: "u"})
	require.NoError(t, err)

	scheduledAt := time.Now().Add(2 * time.Hour)
	id, delay, err := s.SchedulePost(context.Background(), 7, &transfer.SchedulePostRequest{
		GeneratedPostID: gpID,
		ScheduledAt:     scheduledAt.Format("2006-01-02T15:04"),
	})

	require.NoError(t, err)
	assert.NotZero(t, id)
	assert.InDelta(t, (2 * time.Hour).Seconds(), delay.Seconds(), 90)
	assert.Equal(t, models.PostStatusScheduled, sp.posts[id].Status)
}

func TestSchedulePostInThePastRunsImmediately(t *testing.T) {
	gp := newFakeGeneratedPostRepo()
	sp := newFakeScheduledPostRepo()
	s := NewPostService(gp, sp, &fakeSubscriptionService{active: true})

	gpID, err := gp.Create(context.Background(), nil, &models.GeneratedPost{UserID: 7, Caption: "c", ImageURL: "u"})
	require.NoError(t, err)

	_, delay, err := s.SchedulePost(context.Background(), 7, &transfer.SchedulePostRequest{
		GeneratedPostID: gpID,
		ScheduledAt:     "2020-01-01T09:00",
	})

	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), delay)
}

func TestSchedulePostBadTimeFormat(t *testing.T) {
	s := NewPostService(newFakeGeneratedPostRepo(), newFakeScheduledPostRepo(), &fakeSubscriptionService{})

	_, _, err := s.SchedulePost(context.Background(), 7, &transfer.SchedulePostRequest{
		GeneratedPostID: 1,
		ScheduledAt:     "01/02/2026 15:04",
	})
	assert.Error(t, err)
}

func TestSchedulePostRejectsForeignGeneratedPost(t *testing.T) {
	gp := newFakeGeneratedPostRepo()
	sp := newFakeScheduledPostRepo()
	s := NewPostService(gp, sp, &fakeSubscriptionService{active: true})

	gpID, err := gp.Create(context.Background(), nil, &models.GeneratedPost{UserID: 99, Caption: "c", ImageURL: "u"})
	require.NoError(t, err)

	_, _, err = s.SchedulePost(context.Background(), 7, &transfer.SchedulePostRequest{
		GeneratedPostID: gpID,
		ScheduledAt:     time.Now().Format("2006-01-02T15:04"),
	})
	assert.Error(t, err)
}

func TestSchedulePostFreeLimit(t *testing.T) {
	gp := newFakeGeneratedPostRepo()
	sp := newFakeScheduledPostRepo()
	s := NewPostService(gp, sp, &fakeSubscriptionService{active: false})

	gpID, err := gp.Create(context.Background(), nil, &models.GeneratedPost{UserID: 7, Caption: "c", ImageURL: "u"})
	require.NoError(t, err)

	for i := 0; i < FreePendingPostLimit; i++ {
		_, err := sp.Create(context.Background(), nil, &models.ScheduledPost{UserID: 7, GeneratedPostID: gpID, ScheduledAt: time.Now()})
		require.NoError(t, err)
	}

	_, _, err = s.SchedulePost(context.Background(), 7, &transfer.SchedulePostRequest{
		GeneratedPostID: gpID,
		ScheduledAt:     time.Now().Format("2006-01-02T15:04"),
	})
	assert.ErrorContains(t, err, "limit")
}

func TestRemoveRefusesPublishedPost(t *testing.T) {
	gp := newFakeGeneratedPostRepo()
	sp := newFakeScheduledPostRepo()
	s := NewPostService(gp, sp, &fakeSubscriptionService{active: true})

	post := &models.ScheduledPost{UserID: 7, GeneratedPostID: 1, ScheduledAt: time.Now()}
	id, err := sp.Create(context.Background(), nil, post)
	require.NoError(t, err)
	require.NoError(t, sp.MarkPublished(context.Background(), id, "18000000000000002"))

	err = s.Remove(context.Background(), 7, id)
	assert.ErrorContains(t, err, "published")
}

func TestCreateGeneratedPostValidation(t *testing.T) {
	s := NewPostService(newFakeGeneratedPostRepo(), newFakeScheduledPostRepo(), &fakeSubscriptionService{})

	_, err := s.CreateGeneratedPost(context.Background(), 7, &transfer.GeneratedPostCreation{ImageURL: "u"})
	assert.Error(t, err)

	_, err = s.CreateGeneratedPost(context.Background(), 7, &transfer.GeneratedPostCreation{Caption: "c"})
	assert.Error(t, err)
}
