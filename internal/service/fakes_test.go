package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/postgenio/api/internal/models"
)

// In-memory repository fakes backing the service tests.

type fakeProfileRepo struct {
	profiles    map[int64]*models.CompanyProfile
	upsertCount int
	setTokens   int
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[int64]*models.CompanyProfile)}
}

func (f *fakeProfileRepo) GetByUserID(ctx context.Context, userID int64) (*models.CompanyProfile, error) {
	return f.profiles[userID], nil
}

func (f *fakeProfileRepo) Upsert(ctx context.Context, cp *models.CompanyProfile) (int64, error) {
	f.upsertCount++
	if existing, ok := f.profiles[cp.UserID]; ok {
		cp.ID = existing.ID
	} else {
		cp.ID = int64(len(f.profiles) + 1)
	}
	f.profiles[cp.UserID] = cp
	return cp.ID, nil
}

func (f *fakeProfileRepo) SetToken(ctx context.Context, userID int64, accessToken string, expiresAt time.Time) error {
	profile, ok := f.profiles[userID]
	if !ok {
		return sql.ErrNoRows
	}
	f.setTokens++
	profile.InstagramAccessToken = accessToken
	profile.TokenExpiresAt = expiresAt
	profile.TokenLastRefreshedAt = time.Now()
	return nil
}

func (f *fakeProfileRepo) UpdateCompanyName(ctx context.Context, userID int64, companyName string) error {
	if profile, ok := f.profiles[userID]; ok {
		profile.CompanyName = companyName
	}
	return nil
}

func (f *fakeProfileRepo) ClearCredentials(ctx context.Context, userID int64) error {
	if profile, ok := f.profiles[userID]; ok {
		profile.InstagramAccessToken = ""
		profile.InstagramUserID = ""
		profile.InstagramUsername = ""
		profile.FacebookPageID = ""
	}
	return nil
}

func (f *fakeProfileRepo) ListExpiringTokens(ctx context.Context, before time.Time) ([]*models.CompanyProfile, error) {
	var out []*models.CompanyProfile
	for _, profile := range f.profiles {
		if profile.InstagramAccessToken != "" && profile.TokenExpiresAt.Before(before) {
			out = append(out, profile)
		}
	}
	return out, nil
}

func connectedProfile(userID int64, encryptedToken string) *models.CompanyProfile {
	return &models.CompanyProfile{
		ID:                   userID,
		UserID:               userID,
		InstagramAccessToken: encryptedToken,
		InstagramUserID:      "17800000000000000",
		FacebookPageID:       "page123",
		TokenExpiresAt:       time.Now().Add(30 * 24 * time.Hour),
	}
}

type fakeScheduledPostRepo struct {
	posts  map[int64]*models.ScheduledPost
	nextID int64

	casDenied bool // force TryMarkPublishing to report a lost race
}

func newFakeScheduledPostRepo() *fakeScheduledPostRepo {
	return &fakeScheduledPostRepo{posts: make(map[int64]*models.ScheduledPost), nextID: 1}
}

func (f *fakeScheduledPostRepo) Create(ctx context.Context, tx *sql.Tx, sp *models.ScheduledPost) (int64, error) {
	sp.ID = f.nextID
	f.nextID++
	sp.Status = models.PostStatusScheduled
	f.posts[sp.ID] = sp
	return sp.ID, nil
}

func (f *fakeScheduledPostRepo) GetByID(ctx context.Context, id int64) (*models.ScheduledPost, error) {
	return f.posts[id], nil
}

func (f *fakeScheduledPostRepo) ListByUserID(ctx context.Context, userID int64) ([]*models.ScheduledPost, error) {
	var out []*models.ScheduledPost
	for _, post := range f.posts {
		if post.UserID == userID {
			out = append(out, post)
		}
	}
	return out, nil
}

func (f *fakeScheduledPostRepo) CountPending(ctx context.Context, userID int64) (int, error) {
	count := 0
	for _, post := range f.posts {
		if post.UserID == userID && post.Status == models.PostStatusScheduled {
			count++
		}
	}
	return count, nil
}

func (f *fakeScheduledPostRepo) CheckByUserID(ctx context.Context, postID, userID int64) (bool, error) {
	post, ok := f.posts[postID]
	return ok && post.UserID == userID, nil
}

func (f *fakeScheduledPostRepo) TryMarkPublishing(ctx context.Context, id int64) (bool, error) {
	if f.casDenied {
		return false, nil
	}
	post, ok := f.posts[id]
	if !ok || post.Status != models.PostStatusScheduled {
		return false, nil
	}
	post.Status = models.PostStatusPublishing
	return true, nil
}

func (f *fakeScheduledPostRepo) MarkPublished(ctx context.Context, id int64, mediaID string) error {
	post, ok := f.posts[id]
	if !ok {
		return sql.ErrNoRows
	}
	now := time.Now()
	post.Status = models.PostStatusPublished
	post.InstagramMediaID = mediaID
	post.PublishedAt = &now
	return nil
}

func (f *fakeScheduledPostRepo) MarkFailed(ctx context.Context, id int64, errorMessage string) error {
	post, ok := f.posts[id]
	if !ok {
		return sql.ErrNoRows
	}
	post.Status = models.PostStatusFailed
	post.ErrorMessage = errorMessage
	return nil
}

func (f *fakeScheduledPostRepo) Remove(ctx context.Context, id int64) error {
	delete(f.posts, id)
	return nil
}

type fakeGeneratedPostRepo struct {
	posts map[int64]*models.GeneratedPost
}

func newFakeGeneratedPostRepo() *fakeGeneratedPostRepo {
	return &fakeGeneratedPostRepo{posts: make(map[int64]*models.GeneratedPost)}
}

func (f *fakeGeneratedPostRepo) Create(ctx context.Context, tx *sql.Tx, gp *models.GeneratedPost) (int64, error) {
	gp.ID = int64(len(f.posts) + 1)
	f.posts[gp.ID] = gp
	return gp.ID, nil
}

func (f *fakeGeneratedPostRepo) GetByID(ctx context.Context, id int64) (*models.GeneratedPost, error) {
	return f.posts[id], nil
}

func (f *fakeGeneratedPostRepo) ListByUserID(ctx context.Context, userID int64) ([]*models.GeneratedPost, error) {
	var out []*models.GeneratedPost
	for _, post := range f.posts {
		if post.UserID == userID {
			out = append(out, post)
		}
	}
	return out, nil
}

func (f *fakeGeneratedPostRepo) CheckByUserID(ctx context.Context, postID, userID int64) (bool, error) {
	post, ok := f.posts[postID]
	return ok && post.UserID == userID, nil
}

type fakePublishRecordRepo struct {
	records []*models.PublishRecord
}

func (f *fakePublishRecordRepo) Create(ctx context.Context, pr *models.PublishRecord) (int64, error) {
	f.records = append(f.records, pr)
	return int64(len(f.records)), nil
}

func (f *fakePublishRecordRepo) ListByUserID(ctx context.Context, userID int64) ([]*models.PublishRecord, error) {
	var out []*models.PublishRecord
	for _, record := range f.records {
		if record.UserID == userID {
			out = append(out, record)
		}
	}
	return out, nil
}
