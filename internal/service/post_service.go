package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/postgenio/api/internal/models"
	"github.com/postgenio/api/internal/repository"
	"github.com/postgenio/api/internal/transfer"
)

// Non-subscribers can hold at most this many pending scheduled posts.
const FreePendingPostLimit = 10

type PostService interface {
	CreateGeneratedPost(ctx context.Context, userID int64, pc *transfer.GeneratedPostCreation) (int64, error)
	ListGeneratedPosts(ctx context.Context, userID int64) ([]*models.GeneratedPost, error)
	SchedulePost(ctx context.Context, userID int64, req *transfer.SchedulePostRequest) (int64, time.Duration, error)
	List(ctx context.Context, userID int64) ([]*models.ScheduledPost, error)
	OwnsScheduledPost(ctx context.Context, userID, postID int64) (bool, error)
	Remove(ctx context.Context, userID, postID int64) error
}

type postService struct {
	gp  repository.GeneratedPostRepository
	sp  repository.ScheduledPostRepository
	sub SubscriptionService
}

func NewPostService(
	gp repository.GeneratedPostRepository,
	sp repository.ScheduledPostRepository,
	sub SubscriptionService) PostService {
	return &postService{
		gp:  gp,
		sp:  sp,
		sub: sub,
	}
}

func (s *postService) CreateGeneratedPost(ctx context.Context, userID int64, pc *transfer.GeneratedPostCreation) (int64, error) {
	if pc == nil {
		err := errors.New("post creation data is nil")
		slog.Error(err.Error())
		return 0, err
	}
	if pc.Caption == "" {
		err := errors.New("caption cannot be empty")
		slog.Info(err.Error())
		return 0, err
	}
	if pc.ImageURL == "" {
		err := errors.New("image URL cannot be empty")
		slog.Info(err.Error())
		return 0, err
	}

	post := &models.GeneratedPost{
		UserID:   userID,
		Caption:  pc.Caption,
		Hashtags: pc.Hashtags,
		ImageURL: pc.ImageURL,
		AltText:  pc.AltText,
	}

	id, err := s.gp.Create(ctx, nil, post)
	if err != nil {
		return 0, err
	}

	return id, nil
}

func (s *postService) ListGeneratedPosts(ctx context.Context, userID int64) ([]*models.GeneratedPost, error) {
	posts, err := s.gp.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("Error listing generated posts")
	}
	return posts, nil
}

// SchedulePost records intent to publish a generated post and returns the
// delay until its scheduled time, which the handler uses to enqueue the
// publish task.
func (s *postService) SchedulePost(ctx context.Context, userID int64, req *transfer.SchedulePostRequest) (int64, time.Duration, error) {
	if req == nil || req.GeneratedPostID == 0 {
		err := errors.New("generated post id is missing")
		slog.Info(err.Error())
		return 0, 0, err
	}

	scheduledAt, err := time.Parse("2006-01-02T15:04", req.ScheduledAt)
	if err != nil {
		err = fmt.Errorf("invalid scheduled time format: %w", err)
		slog.Info(err.Error())
		return 0, 0, err
	}

	isValid, err := s.gp.CheckByUserID(ctx, req.GeneratedPostID, userID)
	if err != nil {
		return 0, 0, err
	}
	if !isValid {
		err = errors.New("generated post doesn't exist")
		slog.Info(err.Error())
		return 0, 0, err
	}

	active, err := s.sub.IsActive(ctx, userID)
	if err != nil {
		return 0, 0, err
	}
	if !active {
		pending, err := s.sp.CountPending(ctx, userID)
		if err != nil {
			return 0, 0, err
		}
		if pending >= FreePendingPostLimit {
			err = errors.New("pending post limit reached, upgrade to schedule more")
			slog.Info(err.Error())
			return 0, 0, err
		}
	}

	post := &models.ScheduledPost{
		UserID:          userID,
		GeneratedPostID: req.GeneratedPostID,
		ScheduledAt:     scheduledAt,
	}

	id, err := s.sp.Create(ctx, nil, post)
	if err != nil {
		return 0, 0, err
	}

	delay := time.Until(scheduledAt)
	if delay < 0 {
		delay = 0
	}

	return id, delay, nil
}

func (s *postService) List(ctx context.Context, userID int64) ([]*models.ScheduledPost, error) {
	posts, err := s.sp.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("Error listing scheduled posts")
	}
	return posts, nil
}

func (s *postService) OwnsScheduledPost(ctx context.Context, userID, postID int64) (bool, error) {
	return s.sp.CheckByUserID(ctx, postID, userID)
}

func (s *postService) Remove(ctx context.Context, userID, postID int64) error {
	var err error

	if postID == 0 {
		err = errors.New("PostID is not valid")
		slog.Info(err.Error())
		return err
	}

	isValid, err := s.sp.CheckByUserID(ctx, postID, userID)
	if err != nil {
		return err
	}

	if !isValid {
		err = errors.New("Scheduled post doesn't exist")
		slog.Info(err.Error())
		return err
	}

	post, err := s.sp.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post != nil && post.Status == models.PostStatusPublished {
		err = errors.New("published posts cannot be removed")
		slog.Info(err.Error())
		return err
	}

	err = s.sp.Remove(ctx, postID)
	if err != nil {
		return fmt.Errorf("Error removing scheduled post")
	}

	return nil
}
