package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/postgenio/api/internal/transfer"
)

const (
	graphOAuthVersion   = "v18.0"
	graphPublishVersion = "v20.0"
)

// GraphClient wraps the handful of Facebook/Instagram Graph API calls this
// service makes. Requests carry the access token as a query parameter, which
// is how these Graph API versions take it. No call is retried; failures
// surface to the caller immediately.
type GraphClient struct {
	baseURL string
	client  *http.Client
}

func NewGraphClient(baseURL string) *GraphClient {
	return &GraphClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (g *GraphClient) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	return g.do(ctx, http.MethodGet, path, params, out)
}

// post issues a POST with URL-encoded query parameters and no body, matching
// the media publish endpoints.
func (g *GraphClient) post(ctx context.Context, path string, params url.Values, out interface{}) error {
	return g.do(ctx, http.MethodPost, path, params, out)
}

func (g *GraphClient) do(ctx context.Context, method, path string, params url.Values, out interface{}) error {
	reqURL := fmt.Sprintf("%s%s?%s", g.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, method, reqURL, nil)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return fmt.Errorf("HTTP request error: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return translateGraphError(body, resp.StatusCode)
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("error parsing response: %w", err)
		}
	}
	return nil
}

// translateGraphError classifies an upstream error body. Structured codes
// are authoritative; substring matching on the message is kept only as a
// fallback for responses missing them.
func translateGraphError(body []byte, statusCode int) error {
	var errResp transfer.GraphErrorResponse
	if err := json.Unmarshal(body, &errResp); err != nil || errResp.Error.Message == "" {
		return &GraphError{Code: statusCode, Message: strings.TrimSpace(string(body))}
	}

	ge := &GraphError{
		Code:    errResp.Error.Code,
		Subcode: errResp.Error.ErrorSubcode,
		Type:    errResp.Error.Type,
		Message: errResp.Error.Message,
	}

	switch ge.Code {
	case 190:
		return fmt.Errorf("%w: %s", ErrReauthorizeRequired, ge.Message)
	case 10, 200, 803:
		return fmt.Errorf("%w: %s", ErrInsufficientScope, ge.Message)
	case 9004:
		return fmt.Errorf("%w: %s", ErrImageUnreachable, ge.Message)
	}
	if ge.Subcode == 2207052 {
		return fmt.Errorf("%w: %s", ErrImageUnreachable, ge.Message)
	}

	switch {
	case strings.Contains(ge.Message, "Invalid OAuth access token"):
		return fmt.Errorf("%w: %s", ErrReauthorizeRequired, ge.Message)
	case strings.Contains(ge.Message, "permission"):
		return fmt.Errorf("%w: %s", ErrInsufficientScope, ge.Message)
	case strings.Contains(ge.Message, "could not be downloaded"):
		return fmt.Errorf("%w: %s", ErrImageUnreachable, ge.Message)
	}

	return ge
}

// ExchangeCode trades an OAuth code for a short-lived user access token.
func (g *GraphClient) ExchangeCode(ctx context.Context, appID, appSecret, redirectURI, code string) (*transfer.GraphTokenResponse, error) {
	params := url.Values{}
	params.Set("client_id", appID)
	params.Set("client_secret", appSecret)
	params.Set("redirect_uri", redirectURI)
	params.Set("code", code)

	var token transfer.GraphTokenResponse
	err := g.get(ctx, fmt.Sprintf("/%s/oauth/access_token", graphOAuthVersion), params, &token)
	if err != nil {
		return nil, err
	}
	return &token, nil
}

// ListPages lists the Facebook Pages the user token can manage, each with
// its page-scoped access token.
func (g *GraphClient) ListPages(ctx context.Context, userToken string) (*transfer.FacebookPageList, error) {
	params := url.Values{}
	params.Set("access_token", userToken)

	var pages transfer.FacebookPageList
	err := g.get(ctx, fmt.Sprintf("/%s/me/accounts", graphOAuthVersion), params, &pages)
	if err != nil {
		return nil, err
	}
	return &pages, nil
}

func (g *GraphClient) GetInstagramBusinessAccount(ctx context.Context, pageID, pageToken string) (*transfer.PageInstagramAccount, error) {
	params := url.Values{}
	params.Set("fields", "instagram_business_account")
	params.Set("access_token", pageToken)

	var page transfer.PageInstagramAccount
	err := g.get(ctx, fmt.Sprintf("/%s/%s", graphOAuthVersion, pageID), params, &page)
	if err != nil {
		return nil, err
	}
	return &page, nil
}

func (g *GraphClient) GetInstagramUsername(ctx context.Context, igUserID, token string) (*transfer.InstagramAccountInfo, error) {
	params := url.Values{}
	params.Set("fields", "username")
	params.Set("access_token", token)

	var info transfer.InstagramAccountInfo
	err := g.get(ctx, fmt.Sprintf("/%s/%s", graphOAuthVersion, igUserID), params, &info)
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// ExchangeLongLivedToken trades a page or long-lived token for a renewed
// long-lived (~60 day) token. Also used by the refresh flow, since Graph
// long-lived tokens are refreshed by re-exchanging them while still valid.
func (g *GraphClient) ExchangeLongLivedToken(ctx context.Context, appID, appSecret, token string) (*transfer.GraphTokenResponse, error) {
	params := url.Values{}
	params.Set("grant_type", "fb_exchange_token")
	params.Set("client_id", appID)
	params.Set("client_secret", appSecret)
	params.Set("fb_exchange_token", token)

	var result transfer.GraphTokenResponse
	err := g.get(ctx, fmt.Sprintf("/%s/oauth/access_token", graphOAuthVersion), params, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// CreateMediaContainer stages an image post and returns the container id.
func (g *GraphClient) CreateMediaContainer(ctx context.Context, igUserID, imageURL, caption, token string) (string, error) {
	params := url.Values{}
	params.Set("image_url", imageURL)
	params.Set("caption", caption)
	params.Set("access_token", token)

	var container transfer.MediaContainerResponse
	err := g.post(ctx, fmt.Sprintf("/%s/%s/media", graphPublishVersion, igUserID), params, &container)
	if err != nil {
		return "", err
	}
	if container.ID == "" {
		return "", fmt.Errorf("no container ID returned from Instagram")
	}
	return container.ID, nil
}

// PublishMediaContainer commits a staged container and returns the media id.
func (g *GraphClient) PublishMediaContainer(ctx context.Context, igUserID, creationID, token string) (string, error) {
	params := url.Values{}
	params.Set("creation_id", creationID)
	params.Set("access_token", token)

	var media transfer.MediaPublishResponse
	err := g.post(ctx, fmt.Sprintf("/%s/%s/media_publish", graphPublishVersion, igUserID), params, &media)
	if err != nil {
		return "", err
	}
	if media.ID == "" {
		return "", fmt.Errorf("no media ID returned from Instagram")
	}
	return media.ID, nil
}

// ProbeImageURL issues a best-effort HEAD against the image URL for
// diagnostics. The outcome never gates the publish flow.
func (g *GraphClient) ProbeImageURL(ctx context.Context, imageURL string) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, imageURL, nil)
	if err != nil {
		return
	}

	resp, err := g.client.Do(req)
	if err != nil {
		slog.Info("image url probe failed", "url", imageURL, "error", err.Error())
		return
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Info("image url probe returned non-200", "url", imageURL, "status", resp.StatusCode)
	}
}
