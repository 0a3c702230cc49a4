// Command reset-password sets a new password for an existing account.
//
//	go run ./cmd/reset-password -email admin@example.com -password newsecret
package main

import (
	"flag"
	"log"

	"go-material-inventory/internal/repository"
	"go-material-inventory/internal/service"
	"go-material-inventory/pkg/config"
	"go-material-inventory/pkg/database"
	"go-material-inventory/pkg/jwt"
)

func main() {
	email := flag.String("email", "", "email of the account to reset")
	password := flag.String("password", "", "new password (min 6 characters)")
	flag.Parse()

	if *email == "" || *password == "" {
		flag.Usage()
		log.Fatal("both -email and -password are required")
	}

	// 1. Load Env
	cfg := config.Load()

	// 2. Setup Database
	db := database.ConnectDB(cfg)

	// 3. Reset
	userRepo := repository.NewUserRepo(db)
	authService := service.NewAuthService(userRepo, jwt.NewManager(cfg.JWTSecret, cfg.JWTExpiresIn), cfg.AdminSecret)
	if err := authService.ResetPassword(*email, *password); err != nil {
		log.Fatalf("Failed to reset password for %s: %v", *email, err)
	}

	log.Printf("Password for %s has been reset", *email)
}
