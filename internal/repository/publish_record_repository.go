package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/postgenio/api/internal/models"
)

type PublishRecordRepository interface {
	Create(ctx context.Context, pr *models.PublishRecord) (int64, error)
	ListByUserID(ctx context.Context, userID int64) ([]*models.PublishRecord, error)
}

type publishRecordRepository struct {
	db *sql.DB
}

func NewPublishRecordRepository(db *sql.DB) PublishRecordRepository {
	return &publishRecordRepository{db: db}
}

func (r *publishRecordRepository) Create(ctx context.Context, pr *models.PublishRecord) (int64, error) {
	query := `
		INSERT INTO publish_records (user_id, scheduled_post_id, instagram_media_id, error_message)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query, pr.UserID, pr.ScheduledPostID, pr.InstagramMediaID, pr.ErrorMessage).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *publishRecordRepository) ListByUserID(ctx context.Context, userID int64) ([]*models.PublishRecord, error) {
	query := `
		SELECT id, user_id, scheduled_post_id, instagram_media_id, error_message, created_at
		FROM publish_records
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var records []*models.PublishRecord
	for rows.Next() {
		var pr models.PublishRecord
		err := rows.Scan(&pr.ID, &pr.UserID, &pr.ScheduledPostID, &pr.InstagramMediaID, &pr.ErrorMessage, &pr.CreatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		records = append(records, &pr)
	}
	return records, nil
}
