// Package repositorytest provides in-memory repositories for tests.
package repositorytest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Ometeor-Zheero-OMZ/Ataria/internal/domain"
	"github.com/Ometeor-Zheero-OMZ/Ataria/internal/repository"
)

// Users is an in-memory repository.UserRepository.
type Users struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]domain.User
}

// NewUsers returns an empty store.
func NewUsers() *Users {
	return &Users{byID: map[int64]domain.User{}}
}

func (u *Users) Create(_ context.Context, user *domain.User) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, existing := range u.byID {
		if existing.Email == user.Email {
			return domain.ErrEmailTaken
		}
	}
	u.nextID++
	now := time.Now()
	user.ID, user.CreatedAt, user.UpdatedAt = u.nextID, now, now
	u.byID[user.ID] = *user
	return nil
}

func (u *Users) GetByID(_ context.Context, id int64) (*domain.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	user, ok := u.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &user, nil
}

func (u *Users) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, user := range u.byID {
		if user.Email == email {
			user := user
			return &user, nil
		}
	}
	return nil, domain.ErrNotFound
}

// Todos is an in-memory repository.TodoRepository.
type Todos struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]domain.Todo
}

// NewTodos returns an empty store.
func NewTodos() *Todos {
	return &Todos{byID: map[int64]domain.Todo{}}
}

func (t *Todos) ListByUser(_ context.Context, userID int64) ([]domain.Todo, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]domain.Todo, 0)
	for _, todo := range t.byID {
		if todo.UserID == userID {
			out = append(out, todo)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (t *Todos) Create(_ context.Context, todo *domain.Todo) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.nextID++
	now := time.Now()
	todo.ID, todo.CreatedAt, todo.UpdatedAt = t.nextID, now, now
	t.byID[todo.ID] = *todo
	return nil
}

func (t *Todos) Update(_ context.Context, todo *domain.Todo) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	existing, ok := t.byID[todo.ID]
	if !ok || existing.UserID != todo.UserID {
		return domain.ErrNotFound
	}
	existing.Title, existing.Description, existing.UpdatedAt = todo.Title, todo.Description, time.Now()
	t.byID[todo.ID] = existing
	return nil
}

func (t *Todos) Delete(_ context.Context, userID, id int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	existing, ok := t.byID[id]
	if !ok || existing.UserID != userID {
		return domain.ErrNotFound
	}
	delete(t.byID, id)
	return nil
}

func (t *Todos) ToggleCompleted(_ context.Context, userID, id int64) (*domain.Todo, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	existing, ok := t.byID[id]
	if !ok || existing.UserID != userID {
		return nil, domain.ErrNotFound
	}
	existing.IsCompleted = !existing.IsCompleted
	existing.UpdatedAt = time.Now()
	t.byID[id] = existing
	return &existing, nil
}

var (
	_ repository.UserRepository = (*Users)(nil)
	_ repository.TodoRepository = (*Todos)(nil)
)
