package handlers

import (
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	config "github.com/postgenio/api/configs"
	"github.com/postgenio/api/internal/service"
	"github.com/postgenio/api/internal/transfer"
	"github.com/postgenio/api/pkg/utils"
)

type InstagramHandler struct {
	s   service.InstagramService
	cfg config.Config
}

func NewInstagramHandler(cfg config.Config, service service.InstagramService) *InstagramHandler {
	return &InstagramHandler{s: service, cfg: cfg}
}

type igErrorMapping struct {
	err     error
	status  int
	message string
}

// Explicit mapping from service sentinels to HTTP responses. Anything not
// listed here falls through as a 500 with a generic message.
var igErrorMappings = []igErrorMapping{
	{service.ErrNotConnected, fiber.StatusBadRequest, "Credenciais do Instagram não configuradas. Conecte sua conta do Instagram nas Configurações."},
	{service.ErrTokenMissing, fiber.StatusBadRequest, "Credenciais do Instagram não configuradas. Conecte sua conta do Instagram nas Configurações."},
	{service.ErrReauthorizeRequired, fiber.StatusBadRequest, "Token do Instagram inválido ou expirado. Reconecte sua conta nas Configurações."},
	{service.ErrRefreshRejected, fiber.StatusBadRequest, "O Instagram rejeitou a renovação do token. Reconecte sua conta nas Configurações."},
	{service.ErrInsufficientScope, fiber.StatusBadRequest, "O token não possui as permissões necessárias para publicar. Reconecte sua conta nas Configurações."},
	{service.ErrTokenMalformed, fiber.StatusBadRequest, "Token do Instagram inválido. Reconecte sua conta nas Configurações."},
	{service.ErrWrongTokenType, fiber.StatusBadRequest, "O token armazenado não permite publicação de mídia. Reconecte usando uma conta comercial do Instagram."},
	{service.ErrNoPagesFound, fiber.StatusBadRequest, "Nenhuma página do Facebook encontrada. Crie uma página do Facebook e vincule sua conta do Instagram a ela."},
	{service.ErrNoInstagramAccount, fiber.StatusBadRequest, "Nenhuma conta comercial do Instagram vinculada à sua página do Facebook."},
	{service.ErrImageUnreachable, fiber.StatusBadRequest, "O Instagram não conseguiu baixar a imagem. Verifique se a URL da imagem está acessível publicamente."},
	{service.ErrPostNotFound, fiber.StatusBadRequest, "Publicação agendada não encontrada."},
	{service.ErrAlreadyPublished, fiber.StatusBadRequest, "Esta publicação já foi publicada."},
	{service.ErrPublishInProgress, fiber.StatusConflict, "Esta publicação já está sendo processada."},
}

// TranslateInstagramError resolves a service error to an HTTP status and a
// user-facing message.
func TranslateInstagramError(err error) (int, string) {
	for _, m := range igErrorMappings {
		if errors.Is(err, m.err) {
			return m.status, m.message
		}
	}
	return fiber.StatusInternalServerError, "Algo deu errado. Tente novamente mais tarde."
}

// AddInstagram redirects to the Facebook OAuth dialog. The caller's identity
// travels in the state parameter as a short-lived signed token so the
// callback can be attributed without a session cookie.
func (h *InstagramHandler) AddInstagram(c *fiber.Ctx) error {
	userID := GetUserID(c)

	state, err := utils.GenerateToken(h.cfg.SecretKey, strconv.FormatInt(userID, 10), 15*time.Minute)
	if err != nil {
		slog.Info(err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Algo deu errado. Tente novamente mais tarde.",
		})
	}

	return c.Redirect(h.s.GetAuthURL(state))
}

func (h *InstagramHandler) Connect(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var req transfer.InstagramConnectRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Corpo da requisição inválido.",
		})
	}

	if req.Code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Código de autorização ausente.",
		})
	}

	redirectURI := req.RedirectURI
	if redirectURI == "" {
		redirectURI = h.cfg.FacebookRedirect
	}

	if err := h.s.Connect(c.Context(), userID, req.Code, redirectURI); err != nil {
		slog.Info(err.Error())
		status, message := TranslateInstagramError(err)
		return c.Status(status).JSON(fiber.Map{
			"error": message,
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
	})
}

func (h *InstagramHandler) CallbackHandler(c *fiber.Ctx) error {
	code := c.Query("code")
	state := c.Query("state")

	claims, err := utils.ValidateToken(h.cfg.SecretKey, state)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to validate user",
		})
	}

	userID, err := strconv.ParseInt(claims.UserID, 10, 64)
	if err != nil {
		slog.Info(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to validate user",
		})
	}

	if err := h.s.Connect(c.Context(), userID, code, h.cfg.FacebookRedirect); err != nil {
		slog.Info(err.Error())
		status, message := TranslateInstagramError(err)
		return c.Status(status).JSON(fiber.Map{
			"error": message,
		})
	}

	return c.Redirect(h.cfg.FrontendURL+"/settings", fiber.StatusTemporaryRedirect)
}

func (h *InstagramHandler) Refresh(c *fiber.Ctx) error {
	userID := GetUserID(c)

	if err := h.s.RefreshToken(c.Context(), userID); err != nil {
		slog.Info(err.Error())
		status, message := TranslateInstagramError(err)
		return c.Status(status).JSON(fiber.Map{
			"error": message,
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
	})
}

// Status reports the caller's own connection state. A userId in the body is
// accepted for compatibility but only honored when it matches the
// authenticated caller.
func (h *InstagramHandler) Status(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var req transfer.StatusRequest
	if err := c.BodyParser(&req); err == nil && req.UserID != 0 && req.UserID != userID {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	status, err := h.s.Status(c.Context(), userID)
	if err != nil {
		slog.Info(err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Algo deu errado. Tente novamente mais tarde.",
		})
	}

	return c.Status(fiber.StatusOK).JSON(status)
}

func (h *InstagramHandler) Disconnect(c *fiber.Ctx) error {
	userID := GetUserID(c)

	if err := h.s.Disconnect(c.Context(), userID); err != nil {
		slog.Info(err.Error())
		status, message := TranslateInstagramError(err)
		return c.Status(status).JSON(fiber.Map{
			"error": message,
		})
	}

	return c.SendStatus(fiber.StatusOK)
}
