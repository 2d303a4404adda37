package middleware

import (
	"errors"
	"net/http"

	"flowershop_backend/internal/apperr"
	"flowershop_backend/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
)

// SetupMiddleware configures all application middleware
func SetupMiddleware(app *fiber.App, log zerolog.Logger, allowOrigins string) {
	// Request ID middleware - adds unique ID to each request
	app.Use(requestid.New())

	app.Use(RequestLogger(log))

	// Recover middleware - recovers from panics
	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
	}))

	// Security middleware
	app.Use(helmet.New(helmet.Config{
		XSSProtection:             "1; mode=block",
		ContentTypeNosniff:        "nosniff",
		XFrameOptions:             "DENY",
		HSTSMaxAge:                31536000,
		CrossOriginResourcePolicy: "cross-origin",
	}))

	// CORS middleware
	if allowOrigins == "" {
		allowOrigins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization,Stripe-Signature",
		AllowCredentials: false,
		ExposeHeaders:    "X-Request-ID",
		MaxAge:           86400, // 24 hours
	}))
}

// SetupErrorHandler answers every unmatched route with 404.
func SetupErrorHandler(app *fiber.App) {
	app.Use(func(c *fiber.Ctx) error {
		response := models.ErrorResponse("Cannot "+c.Method()+" "+c.Path(), http.StatusText(fiber.StatusNotFound))
		return c.Status(fiber.StatusNotFound).JSON(response)
	})
}

// ErrorHandler renders domain, fiber and unknown errors as the standard error body.
func ErrorHandler(log zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		// Default 500 statuscode
		code := fiber.StatusInternalServerError
		msg := "Internal Server Error"
		var details interface{}

		var (
			appErr   *apperr.Error
			fiberErr *fiber.Error
			pgErr    *pgconn.PgError
		)
		switch {
		case errors.As(err, &appErr):
			code = appErr.Status()
			msg = appErr.Message
			details = appErr.Details
			if appErr.Err != nil {
				log.Warn().Err(appErr.Err).Str("path", c.Path()).Msg(appErr.Message)
			}
		case errors.As(err, &fiberErr):
			code = fiberErr.Code
			msg = fiberErr.Message
		case errors.As(err, &pgErr) && pgErr.Code == "23503":
			log.Error().Err(err).Str("constraint", pgErr.ConstraintName).Str("table", pgErr.TableName).
				Str("path", c.Path()).Msg("foreign key violation")
		default:
			log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("unhandled error")
		}

		if details == nil {
			details = http.StatusText(code)
		}
		return c.Status(code).JSON(models.ErrorResponse(msg, details))
	}
}
