package repository

import (
	"go-material-inventory/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Page is one slice of a newest-first transaction listing
type Page struct {
	Transactions []model.StockTransaction
	Total        int64
}

type TransactionRepository interface {
	WithTx(tx *gorm.DB) TransactionRepository
	Create(transaction *model.StockTransaction) error
	FindByMaterial(materialID uuid.UUID, limit, offset int) (*Page, error)
	FindByPerformer(userID uuid.UUID, limit, offset int) (*Page, error)
	FindRecent(limit, offset int) (*Page, error)
}

type transactionRepo struct {
	db *gorm.DB
}

func NewTransactionRepo(db *gorm.DB) TransactionRepository {
	return &transactionRepo{db}
}

func (r *transactionRepo) WithTx(tx *gorm.DB) TransactionRepository {
	return &transactionRepo{tx}
}

func (r *transactionRepo) Create(transaction *model.StockTransaction) error {
	return r.db.Create(transaction).Error
}

func (r *transactionRepo) FindByMaterial(materialID uuid.UUID, limit, offset int) (*Page, error) {
	return r.page(r.db.Where("material_id = ?", materialID), limit, offset)
}

func (r *transactionRepo) FindByPerformer(userID uuid.UUID, limit, offset int) (*Page, error) {
	return r.page(r.db.Where("performed_by_id = ?", userID), limit, offset)
}

func (r *transactionRepo) FindRecent(limit, offset int) (*Page, error) {
	return r.page(r.db, limit, offset)
}

func (r *transactionRepo) page(query *gorm.DB, limit, offset int) (*Page, error) {
	var page Page
	query = query.Session(&gorm.Session{})

	if err := query.Model(&model.StockTransaction{}).Count(&page.Total).Error; err != nil {
		return nil, err
	}

	err := query.
		Order("transaction_date DESC").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&page.Transactions).Error
	if err != nil {
		return nil, err
	}

	return &page, nil
}
