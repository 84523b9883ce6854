package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/lib/pq"
	"github.com/postgenio/api/internal/models"
)

type GeneratedPostRepository interface {
	Create(ctx context.Context, tx *sql.Tx, gp *models.GeneratedPost) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.GeneratedPost, error)
	ListByUserID(ctx context.Context, userID int64) ([]*models.GeneratedPost, error)
	CheckByUserID(ctx context.Context, postID, userID int64) (bool, error)
}

type generatedPostRepository struct {
	db *sql.DB
}

func NewGeneratedPostRepository(db *sql.DB) GeneratedPostRepository {
	return &generatedPostRepository{db: db}
}

func (r *generatedPostRepository) Create(ctx context.Context, tx *sql.Tx, gp *models.GeneratedPost) (int64, error) {
	query := `
		INSERT INTO generated_posts (user_id, caption, hashtags, image_url, alt_text)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	var id int64
	var err error

	if tx != nil {
		err = tx.QueryRowContext(ctx, query, gp.UserID, gp.Caption, pq.Array(gp.Hashtags), gp.ImageURL, gp.AltText).Scan(&id)
	} else {
		err = r.db.QueryRowContext(ctx, query, gp.UserID, gp.Caption, pq.Array(gp.Hashtags), gp.ImageURL, gp.AltText).Scan(&id)
	}
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *generatedPostRepository) GetByID(ctx context.Context, id int64) (*models.GeneratedPost, error) {
	query := `
		SELECT id, user_id, caption, hashtags, image_url, alt_text, created_at
		FROM generated_posts
		WHERE id = $1
	`
	row := r.db.QueryRowContext(ctx, query, id)

	var gp models.GeneratedPost
	err := row.Scan(&gp.ID, &gp.UserID, &gp.Caption, &gp.Hashtags, &gp.ImageURL, &gp.AltText, &gp.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return &gp, nil
}

func (r *generatedPostRepository) ListByUserID(ctx context.Context, userID int64) ([]*models.GeneratedPost, error) {
	query := `
		SELECT id, user_id, caption, hashtags, image_url, alt_text, created_at
		FROM generated_posts
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var posts []*models.GeneratedPost
	for rows.Next() {
		var gp models.GeneratedPost
		err := rows.Scan(&gp.ID, &gp.UserID, &gp.Caption, &gp.Hashtags, &gp.ImageURL, &gp.AltText, &gp.CreatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		posts = append(posts, &gp)
	}
	return posts, nil
}

func (r *generatedPostRepository) CheckByUserID(ctx context.Context, postID, userID int64) (bool, error) {
	query := "SELECT 1 FROM generated_posts WHERE id = $1 AND user_id = $2"

	var result int
	err := r.db.QueryRowContext(ctx, query, postID, userID).Scan(&result)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		slog.Info(err.Error())
		return false, err
	}

	return result == 1, nil
}
