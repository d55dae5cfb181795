package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Ometeor-Zheero-OMZ/Ataria/internal/domain"
)

// TodoRepository encapsulates todo persistence. Every statement is scoped
// to the owning user; a todo of another user is reported as not found.
type TodoRepository interface {
	ListByUser(ctx context.Context, userID int64) ([]domain.Todo, error)
	Create(ctx context.Context, todo *domain.Todo) error
	Update(ctx context.Context, todo *domain.Todo) error
	Delete(ctx context.Context, userID, id int64) error
	ToggleCompleted(ctx context.Context, userID, id int64) (*domain.Todo, error)
}

type todoRepository struct {
	pool *pgxpool.Pool
}

// NewTodoRepository instantiates repository.
func NewTodoRepository(pool *pgxpool.Pool) TodoRepository {
	return &todoRepository{pool: pool}
}

const todoColumns = `id, user_id, title, description, is_completed, created_at, updated_at`

func (r *todoRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Todo, error) {
	if r.pool == nil {
		return nil, domain.ErrStoreUnavailable
	}
	query := `SELECT ` + todoColumns + ` FROM todos WHERE user_id=$1 ORDER BY id`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	todos := make([]domain.Todo, 0)
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		todos = append(todos, *todo)
	}
	return todos, rows.Err()
}

func (r *todoRepository) Create(ctx context.Context, todo *domain.Todo) error {
	if r.pool == nil {
		return domain.ErrStoreUnavailable
	}
	const query = `
        INSERT INTO todos (user_id, title, description)
        VALUES ($1, $2, $3)
        RETURNING id, is_completed, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		todo.UserID,
		todo.Title,
		todo.Description,
	).Scan(&todo.ID, &todo.IsCompleted, &todo.CreatedAt, &todo.UpdatedAt)
	return mapError(err)
}

func (r *todoRepository) Update(ctx context.Context, todo *domain.Todo) error {
	if r.pool == nil {
		return domain.ErrStoreUnavailable
	}
	const query = `
        UPDATE todos SET title=$1, description=$2, updated_at=NOW()
        WHERE id=$3 AND user_id=$4`

	cmd, err := r.pool.Exec(ctx, query, todo.Title, todo.Description, todo.ID, todo.UserID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *todoRepository) Delete(ctx context.Context, userID, id int64) error {
	if r.pool == nil {
		return domain.ErrStoreUnavailable
	}
	cmd, err := r.pool.Exec(ctx, `DELETE FROM todos WHERE id=$1 AND user_id=$2`, id, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *todoRepository) ToggleCompleted(ctx context.Context, userID, id int64) (*domain.Todo, error) {
	if r.pool == nil {
		return nil, domain.ErrStoreUnavailable
	}
	query := `
        UPDATE todos SET is_completed = NOT is_completed, updated_at=NOW()
        WHERE id=$1 AND user_id=$2
        RETURNING ` + todoColumns

	return scanTodo(r.pool.QueryRow(ctx, query, id, userID))
}

func scanTodo(row pgx.Row) (*domain.Todo, error) {
	var todo domain.Todo
	if err := row.Scan(
		&todo.ID,
		&todo.UserID,
		&todo.Title,
		&todo.Description,
		&todo.IsCompleted,
		&todo.CreatedAt,
		&todo.UpdatedAt,
	); err != nil {
		return nil, mapError(err)
	}
	return &todo, nil
}
