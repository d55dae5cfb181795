package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/Ometeor-Zheero-OMZ/Ataria/internal/api/dto"
	"github.com/Ometeor-Zheero-OMZ/Ataria/internal/auth"
	"github.com/Ometeor-Zheero-OMZ/Ataria/internal/domain"
	"github.com/Ometeor-Zheero-OMZ/Ataria/internal/service"
	apperrors "github.com/Ometeor-Zheero-OMZ/Ataria/pkg/util"
)

// TodosHandler exposes the todo endpoints. All routes sit behind the gate
// and read the caller from the verified claims.
type TodosHandler struct {
	todos *service.TodoService
}

// NewTodosHandler constructs handler.
func NewTodosHandler(todoService *service.TodoService) *TodosHandler {
	return &TodosHandler{todos: todoService}
}

// List handles GET /api/todos.
func (h *TodosHandler) List(c *fiber.Ctx) error {
	claims, err := identity(c)
	if err != nil {
		return err
	}
	todos, err := h.todos.List(c.UserContext(), claims.UserID)
	if err != nil {
		return todoError(err)
	}
	return c.JSON(fiber.Map{"data": dto.NewTodoListResponse(todos)})
}

// Create handles POST /api/todo.
func (h *TodosHandler) Create(c *fiber.Ctx) error {
	claims, err := identity(c)
	if err != nil {
		return err
	}
	var req dto.CreateTodoRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	todo, err := h.todos.Create(c.UserContext(), claims.UserID, req.Title, req.Description)
	if err != nil {
		return todoError(err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewTodoResponse(*todo)})
}

// Update handles PUT /api/todo.
func (h *TodosHandler) Update(c *fiber.Ctx) error {
	claims, err := identity(c)
	if err != nil {
		return err
	}
	var req dto.UpdateTodoRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if err := h.todos.Update(c.UserContext(), claims.UserID, req.ID, req.Title, req.Description); err != nil {
		return todoError(err)
	}
	return c.JSON(fiber.Map{"message": "todo updated"})
}

// Delete handles DELETE /api/todo.
func (h *TodosHandler) Delete(c *fiber.Ctx) error {
	claims, err := identity(c)
	if err != nil {
		return err
	}
	var req dto.TodoIDRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if err := h.todos.Delete(c.UserContext(), claims.UserID, req.ID); err != nil {
		return todoError(err)
	}
	return c.JSON(fiber.Map{"message": "todo deleted"})
}

// ChangeStatus handles PUT /api/todo/change-status.
func (h *TodosHandler) ChangeStatus(c *fiber.Ctx) error {
	claims, err := identity(c)
	if err != nil {
		return err
	}
	var req dto.TodoIDRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	todo, err := h.todos.ChangeStatus(c.UserContext(), claims.UserID, req.ID)
	if err != nil {
		return todoError(err)
	}
	return c.JSON(fiber.Map{"data": dto.NewTodoResponse(*todo)})
}

// identity fails only if the handler was mounted outside the gate.
func identity(c *fiber.Ctx) (*auth.Claims, error) {
	claims, ok := auth.IdentityFromContext(c)
	if !ok {
		return nil, apperrors.NewUnauthorized("missing identity")
	}
	return claims, nil
}

func todoError(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return apperrors.NewNotFound("todo", nil)
	}
	return apperrors.MapError(err)
}
