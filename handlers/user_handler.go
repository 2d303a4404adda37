package handlers

import (
	"flowershop_backend/internal/paginate"
	"flowershop_backend/models"
	"flowershop_backend/services"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	users *services.UserService
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

type UserRequest struct {
	Username  string      `json:"username" validate:"required,max=50"`
	Email     string      `json:"email" validate:"required,email"`
	Password  string      `json:"password" validate:"required,min=4"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Role      models.Role `json:"role" validate:"required"`
	IsActive  *bool       `json:"is_active"`
}

func (r UserRequest) input() services.UserInput {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return services.UserInput{
		Username:  r.Username,
		Email:     r.Email,
		Password:  r.Password,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Role:      r.Role,
		IsActive:  active,
	}
}

// CreateUser - POST /users
func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	var req UserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	user, err := h.users.Create(c.UserContext(), req.input())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse("User created", user, nil))
}

// GetUsers - GET /users
func (h *UserHandler) GetUsers(c *fiber.Ctx) error {
	page, err := h.users.FindAll(c.UserContext(), paginate.FromCtx(c))
	if err != nil {
		return err
	}
	return c.JSON(page)
}

// GetUser - GET /users/:id
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	user, err := h.users.FindOne(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(models.SuccessResponse("User found", user, nil))
}

// UpdateUser - PUT /users/:id
func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req UserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	user, err := h.users.Update(c.UserContext(), id, req.input())
	if err != nil {
		return err
	}
	return c.JSON(models.SuccessResponse("User updated", user, nil))
}

// DeleteUser - DELETE /users/:id
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.users.Remove(c.UserContext(), id); err != nil {
		return err
	}
	return c.JSON(models.SuccessResponse("User deleted", nil, nil))
}
