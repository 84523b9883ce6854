package queue

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/postgenio/api/internal/service"
)

// HandleSchedulePostTask publishes one scheduled post when its delivery time
// arrives. The status transition inside the publish flow is conditional, so
// a redelivered or duplicated task finds the post already published or
// in-flight and becomes a no-op instead of a second Graph submission.
func (j *Queue) HandleSchedulePostTask(ctx context.Context, task *asynq.Task) error {
	var payload SchedulePostPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return err
	}

	mediaID, err := j.pub.PublishScheduledPost(ctx, payload.ScheduledPostID)
	if err != nil {
		if errors.Is(err, service.ErrAlreadyPublished) || errors.Is(err, service.ErrPublishInProgress) {
			slog.Info("skipping duplicate publish task", "scheduled_post_id", payload.ScheduledPostID)
			return nil
		}
		slog.Info("scheduled publish failed", "scheduled_post_id", payload.ScheduledPostID, "error", err.Error())
		return err
	}

	slog.Info("scheduled post published", "scheduled_post_id", payload.ScheduledPostID, "media_id", mediaID)
	return nil
}
