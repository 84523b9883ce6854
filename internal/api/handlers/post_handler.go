package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/postgenio/api/internal/queue"
	"github.com/postgenio/api/internal/service"
	"github.com/postgenio/api/internal/transfer"
)

type PostHandler struct {
	s           service.PostService
	publisher   service.PublishService
	AsynqClient *asynq.Client
}

func NewPostHandler(service service.PostService, publisher service.PublishService, asynqClient *asynq.Client) *PostHandler {
	return &PostHandler{s: service, publisher: publisher, AsynqClient: asynqClient}
}

func (h *PostHandler) CreateGeneratedPost(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var req transfer.GeneratedPostCreation
	if err := c.BodyParser(&req); err != nil {
		slog.Info(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request body",
		})
	}

	postID, err := h.s.CreateGeneratedPost(c.Context(), userID, &req)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"id": postID,
	})
}

func (h *PostHandler) ListGeneratedPosts(c *fiber.Ctx) error {
	userID := GetUserID(c)

	posts, err := h.s.ListGeneratedPosts(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to list generated posts",
		})
	}

	return c.Status(fiber.StatusOK).JSON(posts)
}

func (h *PostHandler) SchedulePost(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var req transfer.SchedulePostRequest
	if err := c.BodyParser(&req); err != nil {
		slog.Info(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request body",
		})
	}

	postID, delay, err := h.s.SchedulePost(c.Context(), userID, &req)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	err = queue.EnqueuePost(h.AsynqClient, queue.SchedulePostPayload{ScheduledPostID: postID}, delay)
	if err != nil {
		slog.Info(err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Error scheduling post",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Post scheduled successfully",
		"id":      postID,
	})
}

// Publish triggers the two-phase Instagram publish for a scheduled post
// immediately, outside its scheduled time.
func (h *PostHandler) Publish(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var req transfer.PublishRequest
	if err := c.BodyParser(&req); err != nil || req.ScheduledPostID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "scheduledPostId is missing",
		})
	}

	owns, err := h.s.OwnsScheduledPost(c.Context(), userID, req.ScheduledPostID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Algo deu errado. Tente novamente mais tarde.",
		})
	}
	if !owns {
		status, message := TranslateInstagramError(service.ErrPostNotFound)
		return c.Status(status).JSON(fiber.Map{
			"success": false,
			"error":   message,
		})
	}

	mediaID, err := h.publisher.PublishScheduledPost(c.Context(), req.ScheduledPostID)
	if err != nil {
		slog.Info(err.Error())
		status, message := TranslateInstagramError(err)
		return c.Status(status).JSON(fiber.Map{
			"success": false,
			"error":   message,
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"mediaId": mediaID,
	})
}

func (h *PostHandler) ListPosts(c *fiber.Ctx) error {
	userID := GetUserID(c)

	posts, err := h.s.List(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to list scheduled posts",
		})
	}

	return c.Status(fiber.StatusOK).JSON(posts)
}

func (h *PostHandler) RemovePost(c *fiber.Ctx) error {
	userID := GetUserID(c)
	postID := c.QueryInt("id", 0)

	err := h.s.Remove(c.Context(), userID, int64(postID))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to remove post",
		})
	}

	return c.SendStatus(fiber.StatusOK)
}
