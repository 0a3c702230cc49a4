package main

import (
	"context"
	"log"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go-material-inventory/internal/model"
	"go-material-inventory/internal/repository"
	"go-material-inventory/internal/server"
	"go-material-inventory/pkg/config"
	"go-material-inventory/pkg/database"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Env
	cfg := config.Load()

	// 2. Setup Database
	db := database.ConnectDB(cfg)
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// 3. Seed the first admin if requested
	seedAdmin(db, cfg)

	// 4. Setup Fiber
	app := server.New(cfg, db, false)

	// 5. Serve until SIGINT/SIGTERM, then drain
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("Server listening on port %s", cfg.Port)
		return app.Listen(":" + cfg.Port)
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Println("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()
		return app.ShutdownWithContext(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("Server stopped with error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	log.Println("Server exited")
}

// seedAdmin creates an admin from SEED_ADMIN_* when no user has that email yet
func seedAdmin(db *gorm.DB, cfg *config.Config) {
	if cfg.SeedAdminEmail == "" || cfg.SeedAdminPassword == "" {
		return
	}

	email := strings.ToLower(strings.TrimSpace(cfg.SeedAdminEmail))
	userRepo := repository.NewUserRepo(db)
	if _, err := userRepo.FindByEmail(email); err == nil {
		return
	} else if !repository.IsNotFound(err) {
		log.Printf("Warning: Failed to look up seed admin: %v", err)
		return
	}

	admin := &model.User{
		Name:  cfg.SeedAdminName,
		Email: email,
		Role:  model.RoleAdmin,
	}
	if err := admin.SetPassword(cfg.SeedAdminPassword); err != nil {
		log.Printf("Warning: Failed to hash admin password: %v", err)
		return
	}
	if err := userRepo.Create(admin); err != nil {
		log.Printf("Warning: Failed to create admin user: %v", err)
		return
	}
	log.Printf("Admin user created: %s", admin.Email)
}
