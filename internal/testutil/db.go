// Package testutil opens throwaway databases and seeds fixtures for package tests.
package testutil

import (
	"sync"
	"testing"
	"time"

	"go-material-inventory/internal/model"
	"go-material-inventory/pkg/database"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB returns a migrated in-memory SQLite database private to the test.
// A single connection keeps every query on the same in-memory database.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sqlite handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// CreateUser stores a user with the given role and password "password123"
func CreateUser(t *testing.T, db *gorm.DB, name, email string, role model.Role) *model.User {
	t.Helper()

	user := &model.User{Name: name, Email: email, Role: role}
	if err := user.SetPassword("password123"); err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func CreateCategory(t *testing.T, db *gorm.DB, name string) *model.Category {
	t.Helper()

	category := &model.Category{Name: name}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("create category: %v", err)
	}
	return category
}

// CreateMaterial stores a material directly, without writing any stock transaction
func CreateMaterial(t *testing.T, db *gorm.DB, name string, category *model.Category, stock, minimum int) *model.Material {
	t.Helper()

	material := &model.Material{
		Name:         name,
		CategoryID:   category.ID,
		Price:        decimal.NewFromInt(1),
		Location:     "Lab",
		Cupboard:     "C1",
		Shelf:        "S1",
		CurrentStock: stock,
		MinimumStock: minimum,
		Unit:         model.DefaultUnit,
	}
	if err := db.Create(material).Error; err != nil {
		t.Fatalf("create material: %v", err)
	}
	return material
}

// Clock returns a time source that advances one second per call,
// giving every transaction a distinct, ordered timestamp.
func Clock(start time.Time) func() time.Time {
	var mu sync.Mutex
	current := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		current = current.Add(time.Second)
		return current
	}
}
