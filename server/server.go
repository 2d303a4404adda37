// Package server assembles repositories, services and handlers into a Fiber app.
package server

import (
	"flowershop_backend/config"
	"flowershop_backend/handlers"
	"flowershop_backend/internal/payments"
	"flowershop_backend/internal/storage"
	"flowershop_backend/middleware"
	"flowershop_backend/repositories"
	"flowershop_backend/routes"
	"flowershop_backend/services"
	"flowershop_backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type Options struct {
	Config   *config.Config
	DB       *gorm.DB
	Logger   zerolog.Logger
	Payments payments.Provider
	Notifier services.Notifier
	Disk     *storage.Disk
}

// New wires the dependency graph and returns an app ready to Listen.
func New(opts Options) *fiber.App {
	cfg, db, log := opts.Config, opts.DB, opts.Logger

	userRepo := repositories.NewUserRepository(db)
	resetRepo := repositories.NewResetPasswordRepository(db)
	categoryRepo := repositories.NewCategoryRepository(db)
	productRepo := repositories.NewProductRepository(db)
	fileRepo := repositories.NewFileRepository(db)
	cartRepo := repositories.NewCartRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	reviewRepo := repositories.NewReviewRepository(db)

	tokens := utils.NewTokenMaker(cfg.JWTSecret, cfg.TokenTTL())

	userSvc := services.NewUserService(userRepo)
	authSvc := services.NewAuthService(userRepo, resetRepo, userSvc, tokens, opts.Notifier, cfg.ResetTokenTTL(), log)
	categorySvc := services.NewCategoryService(categoryRepo)
	fileSvc := services.NewFileService(fileRepo, opts.Disk, log)
	productSvc := services.NewProductService(productRepo, categoryRepo, fileSvc, log)
	cartSvc := services.NewCartService(cartRepo, productRepo, userRepo, cfg.CartLookupScopedByUser)
	paymentSvc := services.NewPaymentService(opts.Payments, orderRepo, opts.Notifier, log)
	orderSvc := services.NewOrderService(orderRepo, cartRepo, productRepo, userRepo, paymentSvc, opts.Notifier, log)
	reviewSvc := services.NewReviewService(reviewRepo, productRepo)

	maxBytes := int64(cfg.MaxUploadBytes)
	h := &routes.Handlers{
		Auth:       handlers.NewAuthHandler(authSvc),
		Users:      handlers.NewUserHandler(userSvc),
		Categories: handlers.NewCategoryHandler(categorySvc),
		Products:   handlers.NewProductHandler(productSvc, maxBytes),
		Files:      handlers.NewFileHandler(fileSvc, maxBytes),
		Cart:       handlers.NewCartHandler(cartSvc),
		Orders:     handlers.NewOrderHandler(orderSvc),
		Payments:   handlers.NewPaymentHandler(paymentSvc),
		Reviews:    handlers.NewReviewHandler(reviewSvc),
	}

	app := fiber.New(fiber.Config{
		AppName:      "Flower Shop Backend",
		ServerHeader: "Flower Shop Backend Server/1.0",
		ErrorHandler: middleware.ErrorHandler(log),
	})

	middleware.SetupMiddleware(app, log, cfg.CORSAllowOrigins)
	routes.Setup(app, h, tokens, opts.Disk.Root())
	middleware.SetupErrorHandler(app)

	return app
}
