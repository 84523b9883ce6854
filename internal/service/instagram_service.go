package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	config "github.com/postgenio/api/configs"
	"github.com/postgenio/api/internal/models"
	"github.com/postgenio/api/internal/repository"
	"github.com/postgenio/api/internal/transfer"
	"github.com/postgenio/api/pkg/utils"
)

const (
	FacebookAuthURL = "https://www.facebook.com/v18.0/dialog/oauth"

	// Fallback when the long-lived exchange omits expires_in (~60 days).
	defaultLongLivedTokenTTL = 5184000 * time.Second
)

type InstagramService interface {
	Connect(ctx context.Context, userID int64, code, redirectURI string) error
	RefreshToken(ctx context.Context, userID int64) error
	Status(ctx context.Context, userID int64) (*transfer.ConnectionStatus, error)
	Disconnect(ctx context.Context, userID int64) error
	GetAuthURL(state string) string
}

type instagramService struct {
	cfg   config.Config
	graph *GraphClient
	cp    repository.CompanyProfileRepository
}

func NewInstagramService(cfg config.Config, graph *GraphClient, cp repository.CompanyProfileRepository) InstagramService {
	return &instagramService{
		cfg:   cfg,
		graph: graph,
		cp:    cp,
	}
}

func (s *instagramService) GetAuthURL(state string) string {
	params := url.Values{}
	params.Add("client_id", s.cfg.FacebookAppID)
	params.Add("redirect_uri", s.cfg.FacebookRedirect)
	params.Add("scope", "pages_show_list,instagram_basic,instagram_content_publish,business_management")
	params.Add("response_type", "code")
	params.Add("state", state)

	return fmt.Sprintf("%s?%s", FacebookAuthURL, params.Encode())
}

// Connect runs the full token exchange chain. Every step depends on the
// previous one, and nothing is persisted until the whole chain succeeds:
// on success there is exactly one upsert, on any failure none.
func (s *instagramService) Connect(ctx context.Context, userID int64, code, redirectURI string) error {
	if code == "" {
		err := errors.New("authorization code is empty")
		slog.Info(err.Error())
		return err
	}

	if userID == 0 {
		err := errors.New("user not found")
		slog.Info(err.Error())
		return err
	}

	userToken, err := s.graph.ExchangeCode(ctx, s.cfg.FacebookAppID, s.cfg.FacebookAppSecret, redirectURI, code)
	if err != nil {
		return fmt.Errorf("failed to exchange code: %w", err)
	}

	pages, err := s.graph.ListPages(ctx, userToken.AccessToken)
	if err != nil {
		return fmt.Errorf("failed to list facebook pages: %w", err)
	}
	if len(pages.Data) == 0 {
		slog.Info("user has no facebook pages", "user_id", userID)
		return ErrNoPagesFound
	}

	// No disambiguation UI; the first page wins.
	page := pages.Data[0]

	igAccount, err := s.graph.GetInstagramBusinessAccount(ctx, page.ID, page.AccessToken)
	if err != nil {
		return fmt.Errorf("failed to resolve instagram business account: %w", err)
	}
	if igAccount.InstagramBusinessAccount == nil || igAccount.InstagramBusinessAccount.ID == "" {
		slog.Info("page has no instagram business account", "page_id", page.ID)
		return ErrNoInstagramAccount
	}
	igUserID := igAccount.InstagramBusinessAccount.ID

	// Best-effort; the username stays blank when the lookup fails.
	var username string
	if info, err := s.graph.GetInstagramUsername(ctx, igUserID, page.AccessToken); err != nil {
		slog.Info("username lookup failed", "ig_user_id", igUserID, "error", err.Error())
	} else {
		username = info.Username
	}

	longLived, err := s.graph.ExchangeLongLivedToken(ctx, s.cfg.FacebookAppID, s.cfg.FacebookAppSecret, page.AccessToken)
	if err != nil {
		return fmt.Errorf("failed to exchange long-lived token: %w", err)
	}

	expiresAt := GetExpiresAt(longLived.ExpiresIn)

	encryptedToken, err := utils.Encrypt([]byte(longLived.AccessToken), []byte(s.cfg.SecretKey))
	if err != nil {
		return err
	}

	profile := &models.CompanyProfile{
		UserID:               userID,
		InstagramAccessToken: encryptedToken,
		InstagramUserID:      igUserID,
		InstagramUsername:    username,
		FacebookPageID:       page.ID,
		TokenExpiresAt:       expiresAt,
		TokenLastRefreshedAt: time.Now(),
	}

	_, err = s.cp.Upsert(ctx, profile)
	if err != nil {
		return err
	}

	return nil
}

// RefreshToken re-exchanges the stored long-lived token for a renewed one.
// A token the Graph API already considers invalid cannot be refreshed; the
// user has to reconnect through the full OAuth flow instead.
func (s *instagramService) RefreshToken(ctx context.Context, userID int64) error {
	profile, err := s.cp.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if profile == nil || profile.InstagramAccessToken == "" {
		return ErrTokenMissing
	}

	token, err := utils.Decrypt(profile.InstagramAccessToken, []byte(s.cfg.SecretKey))
	if err != nil {
		return err
	}

	renewed, err := s.graph.ExchangeLongLivedToken(ctx, s.cfg.FacebookAppID, s.cfg.FacebookAppSecret, token)
	if err != nil {
		if errors.Is(err, ErrReauthorizeRequired) {
			return fmt.Errorf("%w: %s", ErrRefreshRejected, err.Error())
		}
		return err
	}

	expiresAt := GetExpiresAt(renewed.ExpiresIn)

	encryptedToken, err := utils.Encrypt([]byte(renewed.AccessToken), []byte(s.cfg.SecretKey))
	if err != nil {
		return err
	}

	err = s.cp.SetToken(ctx, userID, encryptedToken, expiresAt)
	if err != nil {
		return err
	}

	return nil
}

// Status reports whether the caller's own profile is connected. Lookups are
// strictly scoped to the authenticated user; there is no fallback to other
// profiles.
func (s *instagramService) Status(ctx context.Context, userID int64) (*transfer.ConnectionStatus, error) {
	profile, err := s.cp.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	status := &transfer.ConnectionStatus{}
	if profile == nil {
		return status, nil
	}

	status.Connected = profile.Connected()
	status.InstagramUserID = profile.InstagramUserID
	status.Username = profile.InstagramUsername
	if !profile.TokenExpiresAt.IsZero() {
		status.TokenExpiresAt = profile.TokenExpiresAt.Format(time.RFC3339)
	}

	if status.Connected && status.Username == "" {
		token, err := utils.Decrypt(profile.InstagramAccessToken, []byte(s.cfg.SecretKey))
		if err == nil {
			// Best-effort; a failed lookup leaves the username blank.
			if info, err := s.graph.GetInstagramUsername(ctx, profile.InstagramUserID, token); err == nil {
				status.Username = info.Username
			}
		}
	}

	return status, nil
}

func (s *instagramService) Disconnect(ctx context.Context, userID int64) error {
	profile, err := s.cp.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if profile == nil {
		return ErrNotConnected
	}

	return s.cp.ClearCredentials(ctx, userID)
}

// DecryptToken exposes the at-rest decryption to collaborators that hold a
// profile row (publish orchestrator, refresh job).
func DecryptToken(cfg config.Config, encrypted string) (string, error) {
	token, err := utils.Decrypt(encrypted, []byte(cfg.SecretKey))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(token), nil
}
