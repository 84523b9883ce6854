package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	config "github.com/postgenio/api/configs"
	"github.com/postgenio/api/internal/models"
	"github.com/postgenio/api/internal/repository"
)

const (
	// Basic Display tokens carry this prefix and cannot publish media.
	basicDisplayTokenPrefix = "IGQ"

	// Heuristic floor; real Graph tokens are much longer.
	minTokenLength = 50
)

type PublishService interface {
	PublishScheduledPost(ctx context.Context, scheduledPostID int64) (string, error)
}

type publishService struct {
	cfg   config.Config
	graph *GraphClient
	sp    repository.ScheduledPostRepository
	gp    repository.GeneratedPostRepository
	cp    repository.CompanyProfileRepository
	pr    repository.PublishRecordRepository
}

func NewPublishService(
	cfg config.Config,
	graph *GraphClient,
	sp repository.ScheduledPostRepository,
	gp repository.GeneratedPostRepository,
	cp repository.CompanyProfileRepository,
	pr repository.PublishRecordRepository) PublishService {
	return &publishService{
		cfg:   cfg,
		graph: graph,
		sp:    sp,
		gp:    gp,
		cp:    cp,
		pr:    pr,
	}
}

// PublishScheduledPost runs the two-phase Graph publish for one scheduled
// post. Preconditions are checked before any network call; the
// scheduled->publishing transition is a conditional update, so concurrent
// triggers for the same post collapse into a single Graph submission.
func (s *publishService) PublishScheduledPost(ctx context.Context, scheduledPostID int64) (string, error) {
	post, err := s.sp.GetByID(ctx, scheduledPostID)
	if err != nil {
		return "", err
	}
	if post == nil {
		return "", ErrPostNotFound
	}

	switch post.Status {
	case models.PostStatusPublished:
		return "", ErrAlreadyPublished
	case models.PostStatusPublishing:
		return "", ErrPublishInProgress
	}

	content, err := s.gp.GetByID(ctx, post.GeneratedPostID)
	if err != nil {
		return "", err
	}
	if content == nil {
		return "", ErrPostNotFound
	}

	profile, err := s.cp.GetByUserID(ctx, post.UserID)
	if err != nil {
		return "", err
	}
	if !profile.Connected() {
		return "", ErrNotConnected
	}

	token, err := DecryptToken(s.cfg, profile.InstagramAccessToken)
	if err != nil {
		return "", ErrTokenMalformed
	}

	if strings.HasPrefix(token, basicDisplayTokenPrefix) {
		return "", ErrWrongTokenType
	}
	if len(token) < minTokenLength {
		return "", ErrTokenMalformed
	}

	ok, err := s.sp.TryMarkPublishing(ctx, post.ID)
	if err != nil {
		return "", err
	}
	if !ok {
		slog.Info("lost publish race", "scheduled_post_id", post.ID)
		return "", ErrPublishInProgress
	}

	s.graph.ProbeImageURL(ctx, content.ImageURL)

	caption := BuildCaption(content.Caption, content.Hashtags)

	creationID, err := s.graph.CreateMediaContainer(ctx, profile.InstagramUserID, content.ImageURL, caption, token)
	if err != nil {
		s.recordFailure(ctx, post, err)
		return "", fmt.Errorf("failed to create media container: %w", err)
	}

	mediaID, err := s.graph.PublishMediaContainer(ctx, profile.InstagramUserID, creationID, token)
	if err != nil {
		s.recordFailure(ctx, post, err)
		return "", fmt.Errorf("failed to publish media container: %w", err)
	}

	if err := s.sp.MarkPublished(ctx, post.ID, mediaID); err != nil {
		return "", fmt.Errorf("failed to update status: %w", err)
	}

	record := &models.PublishRecord{
		UserID:           post.UserID,
		ScheduledPostID:  post.ID,
		InstagramMediaID: mediaID,
	}
	if _, err := s.pr.Create(ctx, record); err != nil {
		slog.Info("failed to save publish record", "scheduled_post_id", post.ID, "error", err.Error())
	}

	return mediaID, nil
}

func (s *publishService) recordFailure(ctx context.Context, post *models.ScheduledPost, cause error) {
	if err := s.sp.MarkFailed(ctx, post.ID, cause.Error()); err != nil {
		slog.Info("failed to mark post as failed", "scheduled_post_id", post.ID, "error", err.Error())
	}

	record := &models.PublishRecord{
		UserID:          post.UserID,
		ScheduledPostID: post.ID,
		ErrorMessage:    cause.Error(),
	}
	if _, err := s.pr.Create(ctx, record); err != nil {
		slog.Info("failed to save publish record", "scheduled_post_id", post.ID, "error", err.Error())
	}
}

// BuildCaption joins the caption and the space-joined hashtags with a blank
// line between them.
func BuildCaption(caption string, hashtags []string) string {
	if len(hashtags) == 0 {
		return caption
	}
	return caption + "\n\n" + strings.Join(hashtags, " ")
}
