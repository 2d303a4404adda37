package routes

import (
	"flowershop_backend/handlers"
	"flowershop_backend/middleware"
	"flowershop_backend/models"
	"flowershop_backend/utils"

	"github.com/gofiber/fiber/v2"
)

// Handlers groups every resource handler the router mounts.
type Handlers struct {
	Auth       *handlers.AuthHandler
	Users      *handlers.UserHandler
	Categories *handlers.CategoryHandler
	Products   *handlers.ProductHandler
	Files      *handlers.FileHandler
	Cart       *handlers.CartHandler
	Orders     *handlers.OrderHandler
	Payments   *handlers.PaymentHandler
	Reviews    *handlers.ReviewHandler
}

// Setup registers all routes. Every route needs a bearer token unless it is
// registered without authn below.
func Setup(app *fiber.App, h *Handlers, tokens *utils.TokenMaker, storageDir string) {
	authn := middleware.Authenticate(tokens)
	staff := middleware.RequireRoles(models.RoleAdmin, models.RoleModerator)
	admin := middleware.RequireRoles(models.RoleAdmin)

	// Provider webhooks read the raw body and carry no bearer token.
	app.Post("/payments/webhooks", h.Payments.Webhook)
	app.Post("/orders/stripe/webhook", h.Payments.OrderWebhook)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":  "success",
			"message": "API is healthy",
		})
	})
	app.Get("/", authn, func(c *fiber.Ctx) error {
		return c.SendString("Hello World!")
	})

	app.Static("/storage", storageDir)

	auth := app.Group("/auth")
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", h.Auth.Login)
	auth.Post("/forgot-password", h.Auth.ForgotPassword)
	auth.Post("/reset-password", h.Auth.ResetPassword)
	auth.Get("/profile", authn, h.Auth.Profile)
	auth.Post("/change-password", authn, h.Auth.ChangePassword)

	users := app.Group("/users", authn, admin)
	users.Post("/", h.Users.CreateUser)
	users.Get("/", h.Users.GetUsers)
	users.Get("/:id", h.Users.GetUser)
	users.Put("/:id", h.Users.UpdateUser)
	users.Delete("/:id", h.Users.DeleteUser)

	categories := app.Group("/categories")
	categories.Get("/", h.Categories.GetCategories)
	categories.Get("/:id", h.Categories.GetCategory)
	categories.Get("/:id/children", h.Categories.GetChildren)
	categories.Post("/", authn, staff, h.Categories.CreateCategory)
	categories.Put("/:id", authn, staff, h.Categories.UpdateCategory)
	categories.Delete("/:id", authn, staff, h.Categories.DeleteCategory)

	products := app.Group("/products")
	products.Get("/", h.Products.GetAllProducts)
	products.Get("/:id", h.Products.GetProduct)
	products.Post("/", authn, staff, h.Products.CreateProduct)
	products.Put("/:id", authn, staff, h.Products.UpdateProduct)
	products.Delete("/:id", authn, staff, h.Products.DeleteProduct)

	files := app.Group("/files")
	files.Get("/:path", h.Files.GetFile)
	files.Post("/", authn, staff, h.Files.UploadFile)
	files.Delete("/:id", authn, staff, h.Files.DeleteFile)

	cart := app.Group("/cart", authn)
	cart.Get("/", h.Cart.GetCart)
	cart.Post("/:productId", h.Cart.AddProduct)
	cart.Put("/:id/quantity/:quantity", h.Cart.UpdateQuantity)
	cart.Put("/:id", h.Cart.UpdateCartItem)
	cart.Delete("/:id", h.Cart.RemoveProduct)
	cart.Delete("/", h.Cart.ClearCart)

	orders := app.Group("/orders", authn)
	orders.Post("/", h.Orders.CreateOrder)
	orders.Get("/", h.Orders.GetOrders)
	orders.Get("/mine", h.Orders.GetMyOrders)
	orders.Get("/:id", h.Orders.GetOrder)
	orders.Put("/:id/status/:status", staff, h.Orders.UpdateStatus)
	orders.Put("/:id", staff, h.Orders.UpdateOrder)
	orders.Delete("/:id", staff, h.Orders.DeleteOrder)

	payments := app.Group("/payments", authn)
	payments.Post("/:orderId/:totalAmount", h.Payments.CreatePaymentIntent)

	reviews := app.Group("/reviews")
	reviews.Get("/", h.Reviews.GetReviews)
	reviews.Get("/product/:productId", h.Reviews.GetProductReviews)
	reviews.Post("/", authn, h.Reviews.CreateReview)
	reviews.Put("/:id", authn, h.Reviews.UpdateReview)
	reviews.Delete("/:id", authn, h.Reviews.DeleteReview)
}
