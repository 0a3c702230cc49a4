// Package server wires repositories, services and handlers into the fiber app.
package server

import (
	"time"

	"go-material-inventory/internal/handler"
	"go-material-inventory/internal/middleware"
	"go-material-inventory/internal/model"
	"go-material-inventory/internal/repository"
	"go-material-inventory/internal/service"
	"go-material-inventory/pkg/config"
	"go-material-inventory/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"
)

const appName = "Material Inventory v1.0"

// New builds the HTTP application. Access logging is skipped when quiet is set.
func New(cfg *config.Config, db *gorm.DB, quiet bool) *fiber.App {
	// Dependency Injection (Wiring Layers)
	materialRepo := repository.NewMaterialRepo(db)
	categoryRepo := repository.NewCategoryRepo(db)
	txRepo := repository.NewTransactionRepo(db)
	userRepo := repository.NewUserRepo(db)

	tokens := jwt.NewManager(cfg.JWTSecret, cfg.JWTExpiresIn)

	authService := service.NewAuthService(userRepo, tokens, cfg.AdminSecret)
	userService := service.NewUserService(userRepo)
	materialService := service.NewMaterialService(materialRepo, categoryRepo, txRepo, db)
	stockService := service.NewStockService(materialRepo, txRepo, userRepo, db)
	categoryService := service.NewCategoryService(categoryRepo, materialRepo)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	materialHandler := handler.NewMaterialHandler(materialService, stockService)
	categoryHandler := handler.NewCategoryHandler(categoryService)

	app := fiber.New(fiber.Config{
		AppName:      appName,
		ErrorHandler: handler.ErrorHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	})

	// Middleware
	if !quiet {
		app.Use(logger.New())
	}
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.FrontendURL,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	api := app.Group("/api/v1")
	api.Get("/health", handler.Health)

	requireAuth := middleware.RequireAuth(authService)
	can := middleware.RequirePermission

	// ============ AUTH ============
	auth := api.Group("/auth")
	auth.Post("/signup", authHandler.Signup)
	auth.Post("/login", authHandler.Login)
	auth.Get("/me", requireAuth, authHandler.Me)

	auth.Get("/users", requireAuth, can(model.PermUserView), userHandler.GetAllUsers)
	auth.Get("/users/:id", requireAuth, can(model.PermUserView), userHandler.GetUserByID)
	auth.Patch("/users/:id/promote", requireAuth, can(model.PermUserUpdateRole), userHandler.Promote)
	auth.Patch("/users/:id/demote", requireAuth, can(model.PermUserUpdateRole), userHandler.Demote)

	auth.Post("/role-requests", requireAuth, can(model.PermRoleRequestSubmit), userHandler.SubmitRoleRequest)
	auth.Get("/role-requests", requireAuth, can(model.PermRoleRequestReview), userHandler.ListRoleRequests)
	auth.Patch("/role-requests/:userId", requireAuth, can(model.PermRoleRequestReview), userHandler.ReviewRoleRequest)

	// ============ MATERIALS ============
	materials := api.Group("/materials", requireAuth)
	materials.Get("/transactions/recent", can(model.PermActivityView), materialHandler.GetRecentTransactions)
	materials.Get("/transactions/user/:userId", can(model.PermActivityView), materialHandler.GetUserTransactions)

	materials.Get("/", can(model.PermMaterialView), materialHandler.ListMaterials)
	materials.Post("/", can(model.PermMaterialCreate), materialHandler.CreateMaterial)
	materials.Get("/:id", can(model.PermMaterialView), materialHandler.GetMaterial)
	materials.Put("/:id", can(model.PermMaterialUpdate), materialHandler.UpdateMaterial)
	materials.Delete("/:id", can(model.PermMaterialDelete), materialHandler.DeleteMaterial)
	materials.Patch("/:id/stock", can(model.PermStockUpdate), materialHandler.UpdateStock)
	materials.Get("/:id/transactions", can(model.PermTransactionView), materialHandler.GetMaterialTransactions)

	// ============ CATEGORIES ============
	categories := api.Group("/categories", requireAuth)
	categories.Get("/", can(model.PermCategoryView), categoryHandler.ListCategories)
	categories.Post("/", can(model.PermCategoryCreate), categoryHandler.CreateCategory)
	categories.Put("/:id", can(model.PermCategoryUpdate), categoryHandler.UpdateCategory)
	categories.Delete("/:id", can(model.PermCategoryDelete), categoryHandler.DeleteCategory)

	return app
}
