package models

import "time"

// PublishRecord is an audit row written for every publish attempt, success
// or failure.
type PublishRecord struct {
	ID               int64     `db:"id" json:"id"`
	UserID           int64     `db:"user_id" json:"user_id"`
	ScheduledPostID  int64     `db:"scheduled_post_id" json:"scheduled_post_id"`
	InstagramMediaID string    `db:"instagram_media_id" json:"instagram_media_id"`
	ErrorMessage     string    `db:"error_message" json:"error_message"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}
