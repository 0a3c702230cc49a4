package repository

import (
	"strings"

	"go-material-inventory/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MaterialFilter narrows FindAll; zero values mean "no filter"
type MaterialFilter struct {
	CategoryID *uuid.UUID
	Search     string
	LowStock   bool
}

type MaterialRepository interface {
	WithTx(tx *gorm.DB) MaterialRepository
	Create(material *model.Material) error
	FindByID(id uuid.UUID) (*model.Material, error)
	FindByIDs(ids []uuid.UUID) ([]model.Material, error)
	FindAll(filter MaterialFilter) ([]model.Material, error)
	Update(id uuid.UUID, changes map[string]interface{}) (bool, error)
	CompareAndSetStock(id uuid.UUID, expected, newStock int, updatedBy uuid.UUID) (bool, error)
	Delete(id uuid.UUID) (bool, error)
	CountByCategory(categoryID uuid.UUID) (int64, error)
}

type materialRepo struct {
	db *gorm.DB
}

func NewMaterialRepo(db *gorm.DB) MaterialRepository {
	return &materialRepo{db}
}

// WithTx returns a repository bound to tx so it can take part in a transaction
func (r *materialRepo) WithTx(tx *gorm.DB) MaterialRepository {
	return &materialRepo{tx}
}

func (r *materialRepo) populated() *gorm.DB {
	return r.db.
		Preload("Category").
		Preload("CreatedByUser").
		Preload("LastUpdatedByUser")
}

func (r *materialRepo) Create(material *model.Material) error {
	return r.db.Omit(clause.Associations).Create(material).Error
}

func (r *materialRepo) FindByID(id uuid.UUID) (*model.Material, error) {
	var material model.Material
	if err := r.populated().First(&material, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &material, nil
}

func (r *materialRepo) FindByIDs(ids []uuid.UUID) ([]model.Material, error) {
	var materials []model.Material
	if len(ids) == 0 {
		return materials, nil
	}
	err := r.db.Where("id IN ?", ids).Find(&materials).Error
	return materials, err
}

func (r *materialRepo) FindAll(filter MaterialFilter) ([]model.Material, error) {
	var materials []model.Material

	query := r.populated()
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		query = query.Where("LOWER(name) LIKE ? ESCAPE '\\'", "%"+escapeLike(strings.ToLower(search))+"%")
	}
	if filter.LowStock {
		query = query.Where("current_stock <= minimum_stock")
	}

	err := query.Order("name ASC").Find(&materials).Error
	return materials, err
}

// Update writes only the given columns, so fields changed concurrently by
// other writers (the audited stock in particular) are never overwritten.
// It reports false when no material has the id.
func (r *materialRepo) Update(id uuid.UUID, changes map[string]interface{}) (bool, error) {
	result := r.db.Model(&model.Material{}).Where("id = ?", id).Updates(changes)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// CompareAndSetStock writes newStock only if the stored stock still equals expected.
// It reports false when another writer changed the stock first.
func (r *materialRepo) CompareAndSetStock(id uuid.UUID, expected, newStock int, updatedBy uuid.UUID) (bool, error) {
	result := r.db.Model(&model.Material{}).
		Where("id = ? AND current_stock = ?", id, expected).
		Updates(map[string]interface{}{
			"current_stock":      newStock,
			"last_updated_by_id": updatedBy,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *materialRepo) Delete(id uuid.UUID) (bool, error) {
	result := r.db.Delete(&model.Material{}, "id = ?", id)
	return result.RowsAffected > 0, result.Error
}

func (r *materialRepo) CountByCategory(categoryID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&model.Material{}).Where("category_id = ?", categoryID).Count(&count).Error
	return count, err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
