package service

import (
	"strings"
	"time"

	"go-material-inventory/internal/apperror"
	"go-material-inventory/internal/model"
	"go-material-inventory/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	msgMaterialNotFound = "Material not found"
	msgInvalidCategory  = "Invalid category"
	msgNegativePrice    = "Price must not be negative"

	initialReason = "Material created"
	initialNotes  = "Initial stock set during material creation"
)

type MaterialService interface {
	CreateMaterial(req *CreateMaterialRequest, actorID uuid.UUID) (*model.Material, error)
	UpdateMaterial(id uuid.UUID, req *UpdateMaterialRequest, actorID uuid.UUID) (*model.Material, error)
	DeleteMaterial(id uuid.UUID) error
	GetMaterial(id uuid.UUID) (*model.Material, error)
	ListMaterials(filter repository.MaterialFilter) ([]model.Material, error)
}

type CreateMaterialRequest struct {
	Name         string           `json:"name" validate:"required"`
	CategoryID   uuid.UUID        `json:"category_id" validate:"uuid_required"`
	Price        *decimal.Decimal `json:"price" validate:"required"`
	Location     string           `json:"location" validate:"required"`
	Cupboard     string           `json:"cupboard" validate:"required"`
	Shelf        string           `json:"shelf" validate:"required"`
	CurrentStock *int             `json:"current_stock" validate:"omitempty,gte=0"`
	MinimumStock *int             `json:"minimum_stock" validate:"required,gte=0"`
	Unit         string           `json:"unit" validate:"unit"`
	Notes        string           `json:"notes"`
}

// UpdateMaterialRequest carries a partial update; nil fields are left untouched
type UpdateMaterialRequest struct {
	Name         *string          `json:"name" validate:"omitempty,min=1"`
	CategoryID   *uuid.UUID       `json:"category_id"`
	Price        *decimal.Decimal `json:"price"`
	Location     *string          `json:"location" validate:"omitempty,min=1"`
	Cupboard     *string          `json:"cupboard" validate:"omitempty,min=1"`
	Shelf        *string          `json:"shelf" validate:"omitempty,min=1"`
	CurrentStock *int             `json:"current_stock" validate:"omitempty,gte=0"`
	MinimumStock *int             `json:"minimum_stock" validate:"omitempty,gte=0"`
	Unit         *string          `json:"unit" validate:"omitempty,unit"`
	Notes        *string          `json:"notes"`
}

func (r *CreateMaterialRequest) normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Location = strings.TrimSpace(r.Location)
	r.Cupboard = strings.TrimSpace(r.Cupboard)
	r.Shelf = strings.TrimSpace(r.Shelf)
	r.Unit = strings.TrimSpace(r.Unit)
	if r.Unit == "" {
		r.Unit = model.DefaultUnit
	}
}

func (r *UpdateMaterialRequest) normalize() {
	for _, s := range []*string{r.Name, r.Location, r.Cupboard, r.Shelf, r.Unit} {
		if s != nil {
			*s = strings.TrimSpace(*s)
		}
	}
}

type materialService struct {
	materialRepo    repository.MaterialRepository
	categoryRepo    repository.CategoryRepository
	transactionRepo repository.TransactionRepository
	db              *gorm.DB
	now             func() time.Time
}

func NewMaterialService(mRepo repository.MaterialRepository, cRepo repository.CategoryRepository, tRepo repository.TransactionRepository, db *gorm.DB) MaterialService {
	return &materialService{
		materialRepo:    mRepo,
		categoryRepo:    cRepo,
		transactionRepo: tRepo,
		db:              db,
		now:             time.Now,
	}
}

func (s *materialService) CreateMaterial(req *CreateMaterialRequest, actorID uuid.UUID) (*model.Material, error) {
	req.normalize()
	if err := validationError(req); err != nil {
		return nil, err
	}
	if req.Price.IsNegative() {
		return nil, apperror.Validation(msgNegativePrice)
	}
	category, err := s.categoryRepo.FindByID(req.CategoryID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperror.Validation(msgInvalidCategory)
		}
		return nil, err
	}

	currentStock := 0
	if req.CurrentStock != nil {
		currentStock = *req.CurrentStock
	}

	material := &model.Material{
		Name:            req.Name,
		CategoryID:      category.ID,
		Category:        category,
		Price:           *req.Price,
		Location:        req.Location,
		Cupboard:        req.Cupboard,
		Shelf:           req.Shelf,
		CurrentStock:    currentStock,
		MinimumStock:    *req.MinimumStock,
		Unit:            req.Unit,
		Notes:           req.Notes,
		CreatedByID:     &actorID,
		LastUpdatedByID: &actorID,
	}

	// The material and its opening transaction are written together or not at all
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.materialRepo.WithTx(tx).Create(material); err != nil {
			return err
		}
		_, err := appendTransaction(s.transactionRepo.WithTx(tx), material, stockEntry{
			kind:     model.TxInitial,
			quantity: currentStock,
			previous: 0,
			next:     currentStock,
			actorID:  actorID,
			reason:   initialReason,
			notes:    initialNotes,
			at:       s.now(),
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	return s.materialRepo.FindByID(material.ID)
}

// UpdateMaterial edits descriptive fields. A current_stock change made here is
// not recorded in the transaction log; audited changes go through StockService.
func (s *materialService) UpdateMaterial(id uuid.UUID, req *UpdateMaterialRequest, actorID uuid.UUID) (*model.Material, error) {
	req.normalize()

	material, err := s.materialRepo.FindByID(id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperror.NotFound(msgMaterialNotFound)
		}
		return nil, err
	}

	if err := validationError(req); err != nil {
		return nil, err
	}

	changes := map[string]interface{}{"last_updated_by_id": actorID}

	if req.CategoryID != nil && *req.CategoryID != material.CategoryID {
		category, err := s.categoryRepo.FindByID(*req.CategoryID)
		if err != nil {
			if repository.IsNotFound(err) {
				return nil, apperror.Validation(msgInvalidCategory)
			}
			return nil, err
		}
		changes["category_id"] = category.ID
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, apperror.Validation(msgNegativePrice)
		}
		changes["price"] = *req.Price
	}
	for column, value := range map[string]*string{
		"name":     req.Name,
		"location": req.Location,
		"cupboard": req.Cupboard,
		"shelf":    req.Shelf,
		"unit":     req.Unit,
		"notes":    req.Notes,
	} {
		if value != nil {
			changes[column] = *value
		}
	}
	if req.CurrentStock != nil {
		changes["current_stock"] = *req.CurrentStock
	}
	if req.MinimumStock != nil {
		changes["minimum_stock"] = *req.MinimumStock
	}

	updated, err := s.materialRepo.Update(id, changes)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, apperror.NotFound(msgMaterialNotFound)
	}

	return s.materialRepo.FindByID(id)
}

func (s *materialService) DeleteMaterial(id uuid.UUID) error {
	deleted, err := s.materialRepo.Delete(id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperror.NotFound(msgMaterialNotFound)
	}
	return nil
}

func (s *materialService) GetMaterial(id uuid.UUID) (*model.Material, error) {
	material, err := s.materialRepo.FindByID(id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperror.NotFound(msgMaterialNotFound)
		}
		return nil, err
	}
	return material, nil
}

func (s *materialService) ListMaterials(filter repository.MaterialFilter) ([]model.Material, error) {
	return s.materialRepo.FindAll(filter)
}
