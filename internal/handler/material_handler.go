package handler

import (
	"go-material-inventory/internal/apperror"
	"go-material-inventory/internal/repository"
	"go-material-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const msgInvalidMaterialID = "Invalid material ID"

type MaterialHandler struct {
	materialService service.MaterialService
	stockService    service.StockService
}

func NewMaterialHandler(materialService service.MaterialService, stockService service.StockService) *MaterialHandler {
	return &MaterialHandler{
		materialService: materialService,
		stockService:    stockService,
	}
}

// ListMaterials handles the material list with optional filters
// GET /api/v1/materials?category=&search=&lowStock=true (low_stock also accepted)
func (h *MaterialHandler) ListMaterials(c *fiber.Ctx) error {
	filter := repository.MaterialFilter{
		Search:   c.Query("search"),
		LowStock: c.QueryBool("lowStock") || c.QueryBool("low_stock"),
	}
	if category := c.Query("category"); category != "" {
		categoryID, err := uuid.Parse(category)
		if err != nil {
			return apperror.Validation("Invalid category")
		}
		filter.CategoryID = &categoryID
	}

	materials, err := h.materialService.ListMaterials(filter)
	if err != nil {
		return err
	}
	return c.JSON(materials)
}

// GetMaterial
// GET /api/v1/materials/:id
func (h *MaterialHandler) GetMaterial(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id", msgInvalidMaterialID)
	if err != nil {
		return err
	}

	material, err := h.materialService.GetMaterial(id)
	if err != nil {
		return err
	}
	return c.JSON(material)
}

// CreateMaterial
// POST /api/v1/materials
func (h *MaterialHandler) CreateMaterial(c *fiber.Ctx) error {
	var req service.CreateMaterialRequest
	if err := c.BodyParser(&req); err != nil {
		return errInvalidJSON
	}

	material, err := h.materialService.CreateMaterial(&req, getUserID(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Material created successfully",
		"data":    material,
	})
}

// UpdateMaterial applies a partial update
// PUT /api/v1/materials/:id
func (h *MaterialHandler) UpdateMaterial(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id", msgInvalidMaterialID)
	if err != nil {
		return err
	}

	var req service.UpdateMaterialRequest
	if err := c.BodyParser(&req); err != nil {
		return errInvalidJSON
	}

	material, err := h.materialService.UpdateMaterial(id, &req, getUserID(c))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Material updated successfully",
		"data":    material,
	})
}

// DeleteMaterial
// DELETE /api/v1/materials/:id
func (h *MaterialHandler) DeleteMaterial(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id", msgInvalidMaterialID)
	if err != nil {
		return err
	}

	if err := h.materialService.DeleteMaterial(id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Material removed"})
}

// UpdateStock adds, removes or sets stock and records the transaction
// PATCH /api/v1/materials/:id/stock
func (h *MaterialHandler) UpdateStock(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id", msgInvalidMaterialID)
	if err != nil {
		return err
	}

	var req service.StockUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return errInvalidJSON
	}

	result, err := h.stockService.UpdateStock(id, &req, getUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// GetMaterialTransactions
// GET /api/v1/materials/:id/transactions?limit=&skip=
func (h *MaterialHandler) GetMaterialTransactions(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id", msgInvalidMaterialID)
	if err != nil {
		return err
	}

	list, err := h.stockService.GetMaterialHistory(id, c.QueryInt("limit"), c.QueryInt("skip"))
	if err != nil {
		return err
	}
	return c.JSON(list)
}

// GetRecentTransactions
// GET /api/v1/materials/transactions/recent?limit=&skip=
func (h *MaterialHandler) GetRecentTransactions(c *fiber.Ctx) error {
	list, err := h.stockService.GetRecentActivity(c.QueryInt("limit"), c.QueryInt("skip"))
	if err != nil {
		return err
	}
	return c.JSON(list)
}

// GetUserTransactions
// GET /api/v1/materials/transactions/user/:userId?limit=&skip=
func (h *MaterialHandler) GetUserTransactions(c *fiber.Ctx) error {
	userID, err := paramUUID(c, "userId", "Invalid user ID")
	if err != nil {
		return err
	}

	list, err := h.stockService.GetUserActivity(userID, c.QueryInt("limit"), c.QueryInt("skip"))
	if err != nil {
		return err
	}
	return c.JSON(list)
}
