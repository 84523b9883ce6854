package handlers

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/postgenio/api/internal/service"
	"github.com/stretchr/testify/assert"
)

func TestTranslateInstagramError(t *testing.T) {
	tests := []struct {
		err         error
		wantStatus  int
		wantMessage string
	}{
		{service.ErrNotConnected, fiber.StatusBadRequest, "Credenciais do Instagram não configuradas. Conecte sua conta do Instagram nas Configurações."},
		{service.ErrTokenMissing, fiber.StatusBadRequest, "Credenciais do Instagram não configuradas. Conecte sua conta do Instagram nas Configurações."},
		{service.ErrNoPagesFound, fiber.StatusBadRequest, "Nenhuma página do Facebook encontrada. Crie uma página do Facebook e vincule sua conta do Instagram a ela."},
		{service.ErrAlreadyPublished, fiber.StatusBadRequest, "Esta publicação já foi publicada."},
		{service.ErrPublishInProgress, fiber.StatusConflict, "Esta publicação já está sendo processada."},
	}

	for _, tt := range tests {
		status, message := TranslateInstagramError(tt.err)
		assert.Equal(t, tt.wantStatus, status)
		assert.Equal(t, tt.wantMessage, message)
	}
}

// Wrapped errors still resolve, since services annotate sentinels with
// upstream detail before returning them.
func TestTranslateInstagramErrorWrapped(t *testing.T) {
	wrapped := fmt.Errorf("failed to create media container: %w", fmt.Errorf("%w: Invalid OAuth access token", service.ErrReauthorizeRequired))

	status, message := TranslateInstagramError(wrapped)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, message, "Reconecte sua conta nas Configurações")
}

func TestTranslateInstagramErrorUnknown(t *testing.T) {
	status, _ := TranslateInstagramError(errors.New("database on fire"))
	assert.Equal(t, fiber.StatusInternalServerError, status)
}
