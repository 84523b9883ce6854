package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/postgenio/api/internal/models"
)

type CompanyProfileRepository interface {
	GetByUserID(ctx context.Context, userID int64) (*models.CompanyProfile, error)
	Upsert(ctx context.Context, cp *models.CompanyProfile) (int64, error)
	SetToken(ctx context.Context, userID int64, accessToken string, expiresAt time.Time) error
	UpdateCompanyName(ctx context.Context, userID int64, companyName string) error
	ClearCredentials(ctx context.Context, userID int64) error
	ListExpiringTokens(ctx context.Context, before time.Time) ([]*models.CompanyProfile, error)
}

type companyProfileRepository struct {
	db *sql.DB
}

func NewCompanyProfileRepository(db *sql.DB) CompanyProfileRepository {
	return &companyProfileRepository{db: db}
}

func (r *companyProfileRepository) GetByUserID(ctx context.Context, userID int64) (*models.CompanyProfile, error) {
	query := `
		SELECT id, user_id, company_name, instagram_access_token, instagram_user_id,
			instagram_username, facebook_page_id, token_expires_at,
			token_last_refreshed_at, created_at, updated_at
		FROM company_profiles
		WHERE user_id = $1
	`
	row := r.db.QueryRowContext(ctx, query, userID)

	var cp models.CompanyProfile
	err := row.Scan(&cp.ID, &cp.UserID, &cp.CompanyName, &cp.InstagramAccessToken,
		&cp.InstagramUserID, &cp.InstagramUsername, &cp.FacebookPageID,
		&cp.TokenExpiresAt, &cp.TokenLastRefreshedAt, &cp.CreatedAt, &cp.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return &cp, nil
}

// Upsert inserts the profile row for the user or overwrites its Instagram
// credentials. The connect flow relies on this being a single statement so a
// successful token exchange writes exactly once.
func (r *companyProfileRepository) Upsert(ctx context.Context, cp *models.CompanyProfile) (int64, error) {
	query := `
		INSERT INTO company_profiles (
			user_id,
			company_name,
			instagram_access_token,
			instagram_user_id,
			instagram_username,
			facebook_page_id,
			token_expires_at,
			token_last_refreshed_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id) DO UPDATE SET
			instagram_access_token = EXCLUDED.instagram_access_token,
			instagram_user_id = EXCLUDED.instagram_user_id,
			instagram_username = EXCLUDED.instagram_username,
			facebook_page_id = EXCLUDED.facebook_page_id,
			token_expires_at = EXCLUDED.token_expires_at,
			token_last_refreshed_at = EXCLUDED.token_last_refreshed_at,
			updated_at = CURRENT_TIMESTAMP
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		cp.UserID,
		cp.CompanyName,
		cp.InstagramAccessToken,
		cp.InstagramUserID,
		cp.InstagramUsername,
		cp.FacebookPageID,
		cp.TokenExpiresAt,
		cp.TokenLastRefreshedAt,
	).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *companyProfileRepository) SetToken(ctx context.Context, userID int64, accessToken string, expiresAt time.Time) error {
	query := `
		UPDATE company_profiles
		SET instagram_access_token = $2,
			token_expires_at = $3,
			token_last_refreshed_at = CURRENT_TIMESTAMP,
			updated_at = CURRENT_TIMESTAMP
		WHERE user_id = $1
	`
	result, err := r.db.ExecContext(ctx, query, userID, accessToken, expiresAt)
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	if affected != 1 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *companyProfileRepository) UpdateCompanyName(ctx context.Context, userID int64, companyName string) error {
	query := `
		UPDATE company_profiles
		SET company_name = $2,
			updated_at = CURRENT_TIMESTAMP
		WHERE user_id = $1
	`
	_, err := r.db.ExecContext(ctx, query, userID, companyName)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *companyProfileRepository) ClearCredentials(ctx context.Context, userID int64) error {
	query := `
		UPDATE company_profiles
		SET instagram_access_token = '',
			instagram_user_id = '',
			instagram_username = '',
			facebook_page_id = '',
			updated_at = CURRENT_TIMESTAMP
		WHERE user_id = $1
	`
	_, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

// ListExpiringTokens returns connected profiles whose long-lived token
// expires before the given time. Used by the proactive refresh job.
func (r *companyProfileRepository) ListExpiringTokens(ctx context.Context, before time.Time) ([]*models.CompanyProfile, error) {
	query := `
		SELECT id, user_id, instagram_access_token, instagram_user_id, token_expires_at
		FROM company_profiles
		WHERE instagram_access_token <> ''
		AND token_expires_at < $1
	`
	rows, err := r.db.QueryContext(ctx, query, before)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var profiles []*models.CompanyProfile
	for rows.Next() {
		var cp models.CompanyProfile
		err := rows.Scan(&cp.ID, &cp.UserID, &cp.InstagramAccessToken, &cp.InstagramUserID, &cp.TokenExpiresAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		profiles = append(profiles, &cp)
	}

	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return profiles, nil
}
