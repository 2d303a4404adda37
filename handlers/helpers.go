package handlers

import (
	"fmt"
	"strconv"
	"strings"

	"flowershop_backend/internal/apperr"
	"flowershop_backend/middleware"
	"flowershop_backend/models"
	"flowershop_backend/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// currentUser returns the identity stored by middleware.Authenticate.
func currentUser(c *fiber.Ctx) services.Caller {
	id, _ := c.Locals(middleware.LocalUserID).(uint)
	username, _ := c.Locals(middleware.LocalUsername).(string)
	role, _ := c.Locals(middleware.LocalRole).(string)
	return services.Caller{ID: id, Username: username, Role: role}
}

func parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(param), 10, 64)
	if err != nil {
		return 0, apperr.BadRequest("Validation failed (numeric string is expected)")
	}
	return uint(id), nil
}

func parseInt(c *fiber.Ctx, param string) (int, error) {
	n, err := strconv.Atoi(c.Params(param))
	if err != nil {
		return 0, apperr.BadRequest("Validation failed (numeric string is expected)")
	}
	return n, nil
}

// bindAndValidate parses the body into dst and runs its validate tags.
func bindAndValidate(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return apperr.BadRequest("Invalid request body")
	}
	return validateStruct(dst)
}

func validateStruct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperr.BadRequest(err.Error())
	}

	msgs := make([]string, 0, len(verrs))
	details := models.ValidationErrors{Errors: make([]models.ErrorDetail, 0, len(verrs))}
	for _, fe := range verrs {
		msg := fieldMessage(fe)
		msgs = append(msgs, msg)
		details.Errors = append(details.Errors, models.ErrorDetail{
			Code:    fe.Tag(),
			Field:   fe.Field(),
			Message: msg,
		})
	}
	return apperr.BadRequest(strings.Join(msgs, ", ")).WithDetails(details)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " should not be empty"
	case "email":
		return fe.Field() + " must be an email"
	case "min", "gte":
		return fmt.Sprintf("%s must not be less than %s", fe.Field(), fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must not be greater than %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid (%s)", fe.Field(), fe.Tag())
	}
}
