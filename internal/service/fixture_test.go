package service

import (
	"testing"
	"time"

	"go-material-inventory/internal/model"
	"go-material-inventory/internal/repository"
	"go-material-inventory/internal/testutil"

	"gorm.io/gorm"
)

type fixture struct {
	db           *gorm.DB
	materialRepo repository.MaterialRepository
	categoryRepo repository.CategoryRepository
	txRepo       repository.TransactionRepository
	userRepo     repository.UserRepository

	materials  *materialService
	stock      *stockService
	categories CategoryService
	users      *userService

	admin    *model.User
	manager  *model.User
	user     *model.User
	category *model.Category
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.NewDB(t)
	f := &fixture{
		db:           db,
		materialRepo: repository.NewMaterialRepo(db),
		categoryRepo: repository.NewCategoryRepo(db),
		txRepo:       repository.NewTransactionRepo(db),
		userRepo:     repository.NewUserRepo(db),
	}

	clock := testutil.Clock(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))

	f.materials = NewMaterialService(f.materialRepo, f.categoryRepo, f.txRepo, db).(*materialService)
	f.materials.now = clock
	f.stock = NewStockService(f.materialRepo, f.txRepo, f.userRepo, db).(*stockService)
	f.stock.now = clock
	f.categories = NewCategoryService(f.categoryRepo, f.materialRepo)
	f.users = NewUserService(f.userRepo).(*userService)
	f.users.now = clock

	f.admin = testutil.CreateUser(t, db, "Ada Admin", "admin@example.com", model.RoleAdmin)
	f.manager = testutil.CreateUser(t, db, "Max Manager", "manager@example.com", model.RoleManager)
	f.user = testutil.CreateUser(t, db, "Uma User", "user@example.com", model.RoleUser)
	f.category = testutil.CreateCategory(t, db, "Chemicals")

	return f
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }
