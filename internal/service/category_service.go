package service

import (
	"strings"

	"go-material-inventory/internal/apperror"
	"go-material-inventory/internal/model"
	"go-material-inventory/internal/repository"

	"github.com/google/uuid"
)

const (
	msgCategoryNotFound   = "Category not found"
	msgCategoryExists     = "Category already exists"
	msgCategoryNameExists = "Category name already exists"
)

type CategoryService interface {
	ListCategories() ([]model.Category, error)
	GetCategory(id uuid.UUID) (*model.Category, error)
	CreateCategory(req *CreateCategoryRequest, actorID uuid.UUID) (*model.Category, error)
	UpdateCategory(id uuid.UUID, req *UpdateCategoryRequest) (*model.Category, error)
	DeleteCategory(id uuid.UUID) error
}

type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description"`
}

type UpdateCategoryRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description"`
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
	materialRepo repository.MaterialRepository
}

func NewCategoryService(cRepo repository.CategoryRepository, mRepo repository.MaterialRepository) CategoryService {
	return &categoryService{
		categoryRepo: cRepo,
		materialRepo: mRepo,
	}
}

func (s *categoryService) ListCategories() ([]model.Category, error) {
	return s.categoryRepo.FindAll()
}

func (s *categoryService) GetCategory(id uuid.UUID) (*model.Category, error) {
	category, err := s.categoryRepo.FindByID(id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperror.NotFound(msgCategoryNotFound)
		}
		return nil, err
	}
	return category, nil
}

func (s *categoryService) CreateCategory(req *CreateCategoryRequest, actorID uuid.UUID) (*model.Category, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validationError(req); err != nil {
		return nil, err
	}

	exists, err := s.categoryRepo.ExistsByName(req.Name, nil)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.Conflict(msgCategoryExists)
	}

	category := &model.Category{
		Name:        req.Name,
		Description: req.Description,
		CreatedByID: &actorID,
	}
	if err := s.categoryRepo.Create(category); err != nil {
		// Lost a race with a concurrent create of the same name
		if repository.IsDuplicateKey(err) {
			return nil, apperror.Conflict(msgCategoryExists)
		}
		return nil, err
	}
	return category, nil
}

func (s *categoryService) UpdateCategory(id uuid.UUID, req *UpdateCategoryRequest) (*model.Category, error) {
	if req.Name != nil {
		*req.Name = strings.TrimSpace(*req.Name)
	}
	if err := validationError(req); err != nil {
		return nil, err
	}

	category, err := s.GetCategory(id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		exists, err := s.categoryRepo.ExistsByName(*req.Name, &id)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, apperror.Conflict(msgCategoryNameExists)
		}
		category.Name = *req.Name
	}
	if req.Description != nil {
		category.Description = *req.Description
	}

	if err := s.categoryRepo.Update(category); err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, apperror.Conflict(msgCategoryNameExists)
		}
		return nil, err
	}
	return category, nil
}

func (s *categoryService) DeleteCategory(id uuid.UUID) error {
	if _, err := s.GetCategory(id); err != nil {
		return err
	}

	if err := s.ensureUnused(id); err != nil {
		return err
	}

	err := s.categoryRepo.Delete(id)
	if repository.IsForeignKeyViolation(err) {
		// A material was assigned after the count above.
		if inUse := s.ensureUnused(id); inUse != nil {
			return inUse
		}
	}
	return err
}

func (s *categoryService) ensureUnused(id uuid.UUID) error {
	count, err := s.materialRepo.CountByCategory(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperror.Conflictf("Cannot delete category. It is used by %d material(s).", count)
	}
	return nil
}
