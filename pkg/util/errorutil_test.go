package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ometeor-Zheero-OMZ/Ataria/internal/domain"
)

func TestToDomainError(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.Nil(t, ToDomainError(nil))
		assert.NoError(t, MapError(nil))
	})

	t.Run("domain error passes through wrapping", func(t *testing.T) {
		orig := NewValidationError("title is required", map[string]any{"field": "title"})
		got := ToDomainError(fmt.Errorf("create: %w", orig))
		require.NotNil(t, got)
		assert.Equal(t, "VALIDATION_FAILED", got.Code)
		assert.Equal(t, http.StatusBadRequest, got.HTTPStatus)
		assert.Equal(t, "title", got.Details["field"])
	})

	t.Run("fiber error keeps status", func(t *testing.T) {
		got := ToDomainError(fiber.NewError(http.StatusBadRequest, "invalid payload"))
		assert.Equal(t, "BAD_REQUEST", got.Code)
		assert.Equal(t, http.StatusBadRequest, got.HTTPStatus)
		assert.Equal(t, "invalid payload", got.Message)

		got = ToDomainError(fiber.ErrNotFound)
		assert.Equal(t, "NOT_FOUND", got.Code)
		assert.Equal(t, http.StatusNotFound, got.HTTPStatus)
	})

	t.Run("domain sentinels", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, ToDomainError(domain.ErrNotFound).HTTPStatus)
		assert.Equal(t, http.StatusConflict, ToDomainError(domain.ErrEmailTaken).HTTPStatus)

		unavailable := ToDomainError(fmt.Errorf("list todos: %w", domain.ErrStoreUnavailable))
		assert.Equal(t, http.StatusServiceUnavailable, unavailable.HTTPStatus)
		assert.Equal(t, "SERVICE_UNAVAILABLE", unavailable.Code)
	})

	t.Run("unknown error is internal and keeps cause", func(t *testing.T) {
		cause := errors.New("db down")
		got := ToDomainError(cause)
		assert.Equal(t, "INTERNAL_ERROR", got.Code)
		assert.Equal(t, http.StatusInternalServerError, got.HTTPStatus)
		assert.ErrorIs(t, got, cause)
		assert.Equal(t, "internal server error: db down", got.Error())
	})
}
