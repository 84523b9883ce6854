package models

import (
	"time"

	"github.com/lib/pq"
)

// GeneratedPost is an immutable content record. ScheduledPosts reference it,
// they never own or mutate it.
type GeneratedPost struct {
	ID        int64          `db:"id" json:"id"`
	UserID    int64          `db:"user_id" json:"user_id"`
	Caption   string         `db:"caption" json:"caption"`
	Hashtags  pq.StringArray `db:"hashtags" json:"hashtags"`
	ImageURL  string         `db:"image_url" json:"image_url"`
	AltText   string         `db:"alt_text" json:"alt_text"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
}

// ScheduledPost tracks intent to publish a GeneratedPost. Status moves
// forward only: scheduled -> publishing -> published|failed.
type ScheduledPost struct {
	ID               int64      `db:"id" json:"id"`
	UserID           int64      `db:"user_id" json:"user_id"`
	GeneratedPostID  int64      `db:"generated_post_id" json:"generated_post_id"`
	ScheduledAt      time.Time  `db:"scheduled_at" json:"scheduled_at"`
	Status           string     `db:"status" json:"status"`
	InstagramMediaID string     `db:"instagram_media_id" json:"instagram_media_id"`
	PublishedAt      *time.Time `db:"published_at" json:"published_at"`
	ErrorMessage     string     `db:"error_message" json:"error_message"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}

type MediaAsset struct {
	ID          int64     `db:"id" json:"id"`
	UserID      int64     `db:"user_id" json:"user_id"`
	FileName    string    `db:"file_name" json:"file_name"`
	ContentType string    `db:"content_type" json:"content_type"`
	FileSize    int64     `db:"file_size" json:"file_size"`
	FileURL     string    `db:"file_url" json:"file_url"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

const (
	PostStatusScheduled  = "scheduled"
	PostStatusPublishing = "publishing"
	PostStatusPublished  = "published"
	PostStatusFailed     = "failed"
)
