package service

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/postgenio/api/internal/models"
	"github.com/postgenio/api/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type publishFixture struct {
	sp    *fakeScheduledPostRepo
	gp    *fakeGeneratedPostRepo
	cp    *fakeProfileRepo
	pr    *fakePublishRecordRepo
	build func(graphURL string) PublishService
}

func newPublishFixture(t *testing.T) *publishFixture {
	t.Helper()

	f := &publishFixture{
		sp: newFakeScheduledPostRepo(),
		gp: newFakeGeneratedPostRepo(),
		cp: newFakeProfileRepo(),
		pr: &fakePublishRecordRepo{},
	}
	f.build = func(graphURL string) PublishService {
		cfg := testConfig(graphURL)
		return NewPublishService(cfg, NewGraphClient(graphURL), f.sp, f.gp, f.cp, f.pr)
	}
	return f
}

func (f *publishFixture) addScheduledPost(t *testing.T, userID int64, status string) *models.ScheduledPost {
	t.Helper()

	gpID, err := f.gp.Create(context.Background(), nil, &models.GeneratedPost{
		UserID:   userID,
		Caption:  "Novidades da semana",
		Hashtags: []string{"#novidades", "#promo"},
		ImageURL: "https://cdn.example.com/img.jpg",
	})
	require.NoError(t, err)

	post := &models.ScheduledPost{
		UserID:          userID,
		GeneratedPostID: gpID,
		ScheduledAt:     time.Now(),
	}
	_, err = f.sp.Create(context.Background(), nil, post)
	require.NoError(t, err)
	post.Status = status
	return post
}

func (f *publishFixture) connectProfile(t *testing.T, userID int64, token string) {
	t.Helper()

	encrypted, err := utils.Encrypt([]byte(token), []byte(testSecretKey))
	require.NoError(t, err)
	f.cp.profiles[userID] = connectedProfile(userID, encrypted)
}

// A publish request for a post with no stored credentials must fail before
// any Graph API traffic.
func TestPublishWithoutCredentials(t *testing.T) {
	graphCalls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		graphCalls++
	}))
	defer server.Close()

	f := newPublishFixture(t)
	post := f.addScheduledPost(t, 7, models.PostStatusScheduled)
	f.cp.profiles[7] = &models.CompanyProfile{UserID: 7}

	_, err := f.build(server.URL).PublishScheduledPost(context.Background(), post.ID)

	assert.ErrorIs(t, err, ErrNotConnected)
	assert.Equal(t, 0, graphCalls)
	assert.Equal(t, models.PostStatusScheduled, f.sp.posts[post.ID].Status)
}

func TestPublishMissingPost(t *testing.T) {
	f := newPublishFixture(t)
	_, err := f.build("http://graph.invalid").PublishScheduledPost(context.Background(), 42)
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestPublishAlreadyPublished(t *testing.T) {
	graphCalls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		graphCalls++
	}))
	defer server.Close()

	f := newPublishFixture(t)
	post := f.addScheduledPost(t, 7, models.PostStatusPublished)
	f.connectProfile(t, 7, testLongLivedToken)

	_, err := f.build(server.URL).PublishScheduledPost(context.Background(), post.ID)

	assert.ErrorIs(t, err, ErrAlreadyPublished)
	assert.Equal(t, 0, graphCalls)
}

func TestPublishWhileInProgress(t *testing.T) {
	f := newPublishFixture(t)
	post := f.addScheduledPost(t, 7, models.PostStatusPublishing)
	f.connectProfile(t, 7, testLongLivedToken)

	_, err := f.build("http://graph.invalid").PublishScheduledPost(context.Background(), post.ID)
	assert.ErrorIs(t, err, ErrPublishInProgress)
}

func TestPublishLostRace(t *testing.T) {
	graphCalls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		graphCalls++
	}))
	defer server.Close()

	f := newPublishFixture(t)
	post := f.addScheduledPost(t, 7, models.PostStatusScheduled)
	f.connectProfile(t, 7, testLongLivedToken)
	f.sp.casDenied = true

	_, err := f.build(server.URL).PublishScheduledPost(context.Background(), post.ID)

	assert.ErrorIs(t, err, ErrPublishInProgress)
	assert.Equal(t, 0, graphCalls)
}

func TestPublishRejectsBasicDisplayToken(t *testing.T) {
	f := newPublishFixture(t)
	post := f.addScheduledPost(t, 7, models.PostStatusScheduled)
	f.connectProfile(t, 7, "IGQ"+strings.Repeat("x", 60))

	_, err := f.build("http://graph.invalid").PublishScheduledPost(context.Background(), post.ID)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestPublishRejectsShortToken(t *testing.T) {
	f := newPublishFixture(t)
	post := f.addScheduledPost(t, 7, models.PostStatusScheduled)
	f.connectProfile(t, 7, "EAAGshort")

	_, err := f.build("http://graph.invalid").PublishScheduledPost(context.Background(), post.ID)
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestPublishInvalidTokenMarksFailed(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v20.0/17800000000000000/media", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":{"message":"Invalid OAuth access token - Cannot parse access token","type":"OAuthException","code":190}}`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	f := newPublishFixture(t)
	post := f.addScheduledPost(t, 7, models.PostStatusScheduled)
	f.connectProfile(t, 7, testLongLivedToken)

	_, err := f.build(server.URL).PublishScheduledPost(context.Background(), post.ID)

	assert.ErrorIs(t, err, ErrReauthorizeRequired)
	assert.Equal(t, models.PostStatusFailed, f.sp.posts[post.ID].Status)
	assert.NotEmpty(t, f.sp.posts[post.ID].ErrorMessage)

	require.Len(t, f.pr.records, 1)
	assert.NotEmpty(t, f.pr.records[0].ErrorMessage)
}

func TestPublishTwoPhaseSuccess(t *testing.T) {
	var containerCaption string
	mux := http.NewServeMux()
	mux.HandleFunc("/v20.0/17800000000000000/media", func(w http.ResponseWriter, r *http.Request) {
		containerCaption = r.URL.Query().Get("caption")
		fmt.Fprint(w, `{"id":"17900000000000001"}`)
	})
	mux.HandleFunc("/v20.0/17800000000000000/media_publish", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "17900000000000001", r.URL.Query().Get("creation_id"))
		fmt.Fprint(w, `{"id":"18000000000000002"}`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	f := newPublishFixture(t)
	post := f.addScheduledPost(t, 7, models.PostStatusScheduled)
	f.connectProfile(t, 7, testLongLivedToken)

	mediaID, err := f.build(server.URL).PublishScheduledPost(context.Background(), post.ID)

	require.NoError(t, err)
	assert.Equal(t, "18000000000000002", mediaID)
	assert.Equal(t, "Novidades da semana\n\n#novidades #promo", containerCaption)

	stored := f.sp.posts[post.ID]
	assert.Equal(t, models.PostStatusPublished, stored.Status)
	assert.Equal(t, "18000000000000002", stored.InstagramMediaID)
	require.NotNil(t, stored.PublishedAt)

	require.Len(t, f.pr.records, 1)
	assert.Equal(t, "18000000000000002", f.pr.records[0].InstagramMediaID)
	assert.Empty(t, f.pr.records[0].ErrorMessage)
}

func TestPublishSecondPhaseFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v20.0/17800000000000000/media", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id":"17900000000000001"}`)
	})
	mux.HandleFunc("/v20.0/17800000000000000/media_publish", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":{"message":"The image at the url could not be downloaded","code":9004}}`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	f := newPublishFixture(t)
	post := f.addScheduledPost(t, 7, models.PostStatusScheduled)
	f.connectProfile(t, 7, testLongLivedToken)

	_, err := f.build(server.URL).PublishScheduledPost(context.Background(), post.ID)

	assert.ErrorIs(t, err, ErrImageUnreachable)
	assert.Equal(t, models.PostStatusFailed, f.sp.posts[post.ID].Status)
}
