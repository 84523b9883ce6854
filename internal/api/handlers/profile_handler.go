package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/postgenio/api/internal/service"
	"github.com/postgenio/api/internal/transfer"
)

type ProfileHandler struct {
	s service.ProfileService
}

func NewProfileHandler(service service.ProfileService) *ProfileHandler {
	return &ProfileHandler{s: service}
}

func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	userID := GetUserID(c)

	profile, err := h.s.GetProfileInfo(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to fetch profile",
		})
	}

	return c.Status(fiber.StatusOK).JSON(profile)
}

func (h *ProfileHandler) UpdateProfile(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var req transfer.ProfileUpdate
	if err := c.BodyParser(&req); err != nil {
		slog.Info(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request body",
		})
	}

	if err := h.s.UpdateCompanyName(c.Context(), userID, req.CompanyName); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.SendStatus(fiber.StatusOK)
}
