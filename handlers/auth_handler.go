package handlers

import (
	"flowershop_backend/internal/apperr"
	"flowershop_backend/models"
	"flowershop_backend/services"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	auth *services.AuthService
}

func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// RegisterRequest defines the payload for registration
type RegisterRequest struct {
	Username  string `json:"username" validate:"required,max=50"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=4"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// LoginRequest defines the payload for login
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token              string `json:"token" validate:"required"`
	NewPassword        string `json:"new_password" validate:"required,min=4"`
	ConfirmNewPassword string `json:"confirm_new_password" validate:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword    string `json:"current_password" validate:"required"`
	NewPassword        string `json:"new_password" validate:"required,min=4"`
	ConfirmNewPassword string `json:"confirm_new_password" validate:"required"`
}

// Register - POST /auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.auth.Register(c.UserContext(), services.UserInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse("User registered successfully", user, nil))
}

// Login - POST /auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.auth.ValidateUser(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}
	if user == nil {
		return apperr.Unauthorized("Unauthorized")
	}

	token, err := h.auth.Login(user)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"access_token": token})
}

// Profile - GET /auth/profile
func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	user, err := h.auth.Profile(c.UserContext(), currentUser(c).ID)
	if err != nil {
		return err
	}
	return c.JSON(models.SuccessResponse("Profile", user, nil))
}

// ForgotPassword - POST /auth/forgot-password
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req ForgotPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.auth.ForgotPassword(c.UserContext(), req.Email); err != nil {
		return err
	}
	return c.JSON(models.SuccessResponse("If the email address is registered, a reset token has been sent", nil, nil))
}

// ResetPassword - POST /auth/reset-password
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req ResetPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.auth.ResetPassword(c.UserContext(), req.Token, req.NewPassword, req.ConfirmNewPassword); err != nil {
		return err
	}
	return c.JSON(models.SuccessResponse("Password has been reset", nil, nil))
}

// ChangePassword - POST /auth/change-password
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	var req ChangePasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	err := h.auth.ChangePassword(c.UserContext(), currentUser(c).ID, req.CurrentPassword, req.NewPassword, req.ConfirmNewPassword)
	if err != nil {
		return err
	}
	return c.JSON(models.SuccessResponse("Password changed", nil, nil))
}
