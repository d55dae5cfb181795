package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/Ometeor-Zheero-OMZ/Ataria/internal/domain"
	"github.com/Ometeor-Zheero-OMZ/Ataria/internal/repository"
	apperrors "github.com/Ometeor-Zheero-OMZ/Ataria/pkg/util"
)

const maxTitleLength = 255

// TodoService manages the todos of the authenticated user.
type TodoService struct {
	todos repository.TodoRepository
}

// NewTodoService builds the service.
func NewTodoService(todos repository.TodoRepository) *TodoService {
	return &TodoService{todos: todos}
}

// List returns all todos owned by userID.
func (s *TodoService) List(ctx context.Context, userID int64) ([]domain.Todo, error) {
	return s.todos.ListByUser(ctx, userID)
}

// Create adds a todo for userID.
func (s *TodoService) Create(ctx context.Context, userID int64, title, description string) (*domain.Todo, error) {
	title, err := validateTitle(title)
	if err != nil {
		return nil, err
	}
	todo := &domain.Todo{
		UserID:      userID,
		Title:       title,
		Description: strings.TrimSpace(description),
	}
	if err := s.todos.Create(ctx, todo); err != nil {
		return nil, err
	}
	return todo, nil
}

// Update replaces the title and description of one of userID's todos.
func (s *TodoService) Update(ctx context.Context, userID, id int64, title, description string) error {
	if id <= 0 {
		return apperrors.NewValidationError("id is required", nil)
	}
	title, err := validateTitle(title)
	if err != nil {
		return err
	}
	return s.todos.Update(ctx, &domain.Todo{
		ID:          id,
		UserID:      userID,
		Title:       title,
		Description: strings.TrimSpace(description),
	})
}

// Delete removes one of userID's todos.
func (s *TodoService) Delete(ctx context.Context, userID, id int64) error {
	if id <= 0 {
		return apperrors.NewValidationError("id is required", nil)
	}
	return s.todos.Delete(ctx, userID, id)
}

// ChangeStatus flips the completion flag of one of userID's todos.
func (s *TodoService) ChangeStatus(ctx context.Context, userID, id int64) (*domain.Todo, error) {
	if id <= 0 {
		return nil, apperrors.NewValidationError("id is required", nil)
	}
	return s.todos.ToggleCompleted(ctx, userID, id)
}

func validateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", apperrors.NewValidationError("title is required", map[string]any{"field": "title"})
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return "", apperrors.NewValidationError("title is too long", map[string]any{"field": "title", "max": maxTitleLength})
	}
	return title, nil
}
