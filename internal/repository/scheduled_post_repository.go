package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/postgenio/api/internal/models"
)

type ScheduledPostRepository interface {
	Create(ctx context.Context, tx *sql.Tx, sp *models.ScheduledPost) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.ScheduledPost, error)
	ListByUserID(ctx context.Context, userID int64) ([]*models.ScheduledPost, error)
	CountPending(ctx context.Context, userID int64) (int, error)
	CheckByUserID(ctx context.Context, postID, userID int64) (bool, error)
	TryMarkPublishing(ctx context.Context, id int64) (bool, error)
	MarkPublished(ctx context.Context, id int64, mediaID string) error
	MarkFailed(ctx context.Context, id int64, errorMessage string) error
	Remove(ctx context.Context, id int64) error
}

type scheduledPostRepository struct {
	db *sql.DB
}

func NewScheduledPostRepository(db *sql.DB) ScheduledPostRepository {
	return &scheduledPostRepository{db: db}
}

func (r *scheduledPostRepository) Create(ctx context.Context, tx *sql.Tx, sp *models.ScheduledPost) (int64, error) {
	query := `
		INSERT INTO scheduled_posts (user_id, generated_post_id, scheduled_at, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	var id int64
	var err error

	if tx != nil {
		err = tx.QueryRowContext(ctx, query, sp.UserID, sp.GeneratedPostID, sp.ScheduledAt, models.PostStatusScheduled).Scan(&id)
	} else {
		err = r.db.QueryRowContext(ctx, query, sp.UserID, sp.GeneratedPostID, sp.ScheduledAt, models.PostStatusScheduled).Scan(&id)
	}
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *scheduledPostRepository) GetByID(ctx context.Context, id int64) (*models.ScheduledPost, error) {
	query := `
		SELECT id, user_id, generated_post_id, scheduled_at, status,
			instagram_media_id, published_at, error_message, created_at, updated_at
		FROM scheduled_posts
		WHERE id = $1
	`
	row := r.db.QueryRowContext(ctx, query, id)

	var sp models.ScheduledPost
	err := row.Scan(&sp.ID, &sp.UserID, &sp.GeneratedPostID, &sp.ScheduledAt, &sp.Status,
		&sp.InstagramMediaID, &sp.PublishedAt, &sp.ErrorMessage, &sp.CreatedAt, &sp.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return &sp, nil
}

func (r *scheduledPostRepository) ListByUserID(ctx context.Context, userID int64) ([]*models.ScheduledPost, error) {
	query := `
		SELECT id, user_id, generated_post_id, scheduled_at, status,
			instagram_media_id, published_at, error_message, created_at, updated_at
		FROM scheduled_posts
		WHERE user_id = $1
		ORDER BY scheduled_at
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var posts []*models.ScheduledPost
	for rows.Next() {
		var sp models.ScheduledPost
		err := rows.Scan(&sp.ID, &sp.UserID, &sp.GeneratedPostID, &sp.ScheduledAt, &sp.Status,
			&sp.InstagramMediaID, &sp.PublishedAt, &sp.ErrorMessage, &sp.CreatedAt, &sp.UpdatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		posts = append(posts, &sp)
	}
	return posts, nil
}

func (r *scheduledPostRepository) CountPending(ctx context.Context, userID int64) (int, error) {
	query := `SELECT COUNT(*) FROM scheduled_posts WHERE user_id = $1 AND status = $2`

	var count int
	err := r.db.QueryRowContext(ctx, query, userID, models.PostStatusScheduled).Scan(&count)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return count, nil
}

func (r *scheduledPostRepository) CheckByUserID(ctx context.Context, postID, userID int64) (bool, error) {
	query := "SELECT 1 FROM scheduled_posts WHERE id = $1 AND user_id = $2"

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

// TryMarkPublishing transitions scheduled -> publishing with a conditional
// update. False means another caller already holds the post (or it moved to
// a terminal state), so concurrent publish triggers become no-ops.
func (r *scheduledPostRepository) TryMarkPublishing(ctx context.Context, id int64) (bool, error) {
	query := `
		UPDATE scheduled_posts
		SET status = $2,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND status = $3
	`
	result, err := r.db.ExecContext(ctx, query, id, models.PostStatusPublishing, models.PostStatusScheduled)
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}
	return affected == 1, nil
}

func (r *scheduledPostRepository) MarkPublished(ctx context.Context, id int64, mediaID string) error {
	query := `
		UPDATE scheduled_posts
		SET status = $2,
			instagram_media_id = $3,
			published_at = $4,
			error_message = '',
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query, id, models.PostStatusPublished, mediaID, time.Now())
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *scheduledPostRepository) MarkFailed(ctx context.Context, id int64, errorMessage string) error {
	query := `
		UPDATE scheduled_posts
		SET status = $2,
			error_message = $3,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query, id, models.PostStatusFailed, errorMessage)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *scheduledPostRepository) Remove(ctx context.Context, id int64) error {
	query := `DELETE FROM scheduled_posts WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
