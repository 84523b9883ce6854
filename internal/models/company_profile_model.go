package models

import "time"

// CompanyProfile holds per-user business settings plus the Instagram
// credentials written by the connect and refresh flows. The access token is
// stored AES-GCM encrypted.
type CompanyProfile struct {
	ID                   int64     `db:"id" json:"id"`
	UserID               int64     `db:"user_id" json:"user_id"`
	CompanyName          string    `db:"company_name" json:"company_name"`
	InstagramAccessToken string    `db:"instagram_access_token" json:"-"`
	InstagramUserID      string    `db:"instagram_user_id" json:"instagram_user_id"`
	InstagramUsername    string    `db:"instagram_username" json:"instagram_username"`
	FacebookPageID       string    `db:"facebook_page_id" json:"facebook_page_id"`
	TokenExpiresAt       time.Time `db:"token_expires_at" json:"token_expires_at"`
	TokenLastRefreshedAt time.Time `db:"token_last_refreshed_at" json:"token_last_refreshed_at"`
	CreatedAt            time.Time `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time `db:"updated_at" json:"updated_at"`
}

func (p *CompanyProfile) Connected() bool {
	return p != nil && p.InstagramAccessToken != "" && p.InstagramUserID != ""
}
