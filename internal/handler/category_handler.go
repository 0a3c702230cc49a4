package handler

import (
	"go-material-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
)

const msgInvalidCategoryID = "Invalid category ID"

type CategoryHandler struct {
	categoryService service.CategoryService
}

func NewCategoryHandler(categoryService service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// GET /api/v1/categories
func (h *CategoryHandler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.categoryService.ListCategories()
	if err != nil {
		return err
	}
	return c.JSON(categories)
}

// POST /api/v1/categories
func (h *CategoryHandler) CreateCategory(c *fiber.Ctx) error {
	var req service.CreateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return errInvalidJSON
	}

	category, err := h.categoryService.CreateCategory(&req, getUserID(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Category created successfully",
		"data":    category,
	})
}

// PUT /api/v1/categories/:id
func (h *CategoryHandler) UpdateCategory(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id", msgInvalidCategoryID)
	if err != nil {
		return err
	}

	var req service.UpdateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return errInvalidJSON
	}

	category, err := h.categoryService.UpdateCategory(id, &req)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Category updated successfully",
		"data":    category,
	})
}

// DELETE /api/v1/categories/:id
func (h *CategoryHandler) DeleteCategory(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id", msgInvalidCategoryID)
	if err != nil {
		return err
	}

	if err := h.categoryService.DeleteCategory(id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Category deleted successfully"})
}
