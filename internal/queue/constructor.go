package queue

import (
	"github.com/postgenio/api/internal/service"
)

type Queue struct {
	pub service.PublishService
}

func NewQueue(pub service.PublishService) *Queue {
	return &Queue{
		pub: pub,
	}
}

const TaskTypePublishScheduledPost = "publish:scheduled_post"

type SchedulePostPayload struct {
	ScheduledPostID int64 `json:"scheduled_post_id"`
}
