package service

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced by the Instagram connect, refresh and publish
// flows. Handlers map these to HTTP status codes and user-facing messages.
var (
	ErrNoPagesFound        = errors.New("no facebook pages found")
	ErrNoInstagramAccount  = errors.New("no instagram business account linked to the page")
	ErrTokenMissing        = errors.New("no instagram token stored")
	ErrTokenMalformed      = errors.New("stored instagram token is malformed")
	ErrWrongTokenType      = errors.New("stored instagram token is a basic display token")
	ErrRefreshRejected     = errors.New("instagram rejected the token refresh")
	ErrPostNotFound        = errors.New("scheduled post not found")
	ErrNotConnected        = errors.New("instagram account not connected")
	ErrAlreadyPublished    = errors.New("post already published")
	ErrPublishInProgress   = errors.New("publish already in progress")
	ErrImageUnreachable    = errors.New("image url could not be downloaded by instagram")
	ErrReauthorizeRequired = errors.New("instagram access token is invalid or expired")
	ErrInsufficientScope   = errors.New("token is missing publish permissions")
)

// GraphError carries the structured error body returned by the Graph API.
type GraphError struct {
	Code    int
	Subcode int
	Type    string
	Message string
}

func (e *GraphError) Error() string {
	return fmt.Sprintf("graph api error (code %d, subcode %d): %s", e.Code, e.Subcode, e.Message)
}
