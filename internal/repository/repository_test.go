package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/Ometeor-Zheero-OMZ/Ataria/internal/domain"
)

func TestMapError(t *testing.T) {
	other := errors.New("connection reset")

	tests := []struct {
		name string
		in   error
		want error
	}{
		{name: "nil", in: nil, want: nil},
		{name: "no rows", in: pgx.ErrNoRows, want: domain.ErrNotFound},
		{name: "wrapped no rows", in: fmt.Errorf("scan: %w", pgx.ErrNoRows), want: domain.ErrNotFound},
		{name: "unique violation", in: &pgconn.PgError{Code: "23505"}, want: domain.ErrEmailTaken},
		{name: "other pg error", in: &pgconn.PgError{Code: "23503"}, want: nil},
		{name: "other", in: other, want: other},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapError(tt.in)
			if tt.want == nil {
				if tt.in == nil {
					assert.NoError(t, got)
					return
				}
				assert.Equal(t, tt.in, got)
				return
			}
			assert.ErrorIs(t, got, tt.want)
		})
	}
}

func TestRepositoriesWithoutPool(t *testing.T) {
	ctx := context.Background()
	users := NewUserRepository(nil)
	todos := NewTodoRepository(nil)

	assert.ErrorIs(t, users.Create(ctx, &domain.User{Email: "a@example.com"}), domain.ErrStoreUnavailable)
	_, err := users.GetByID(ctx, 1)
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	_, err = users.GetByEmail(ctx, "a@example.com")
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)

	_, err = todos.ListByUser(ctx, 1)
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	assert.ErrorIs(t, todos.Create(ctx, &domain.Todo{UserID: 1, Title: "t"}), domain.ErrStoreUnavailable)
	assert.ErrorIs(t, todos.Update(ctx, &domain.Todo{ID: 1, UserID: 1, Title: "t"}), domain.ErrStoreUnavailable)
	assert.ErrorIs(t, todos.Delete(ctx, 1, 1), domain.ErrStoreUnavailable)
	_, err = todos.ToggleCompleted(ctx, 1, 1)
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}
