package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultUnit is used when a material is created without a unit
const DefaultUnit = "pcs"

// Units lists the measurement units a material can be stocked in
var Units = []string{
	"pcs", "kg", "g", "mg", "L", "mL",
	"box", "carton", "pack", "pair", "set", "roll", "bottle", "bag",
	"cm", "m", "inch", "ft",
}

var unitSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(Units))
	for _, u := range Units {
		set[u] = struct{}{}
	}
	return set
}()

func IsValidUnit(unit string) bool {
	_, ok := unitSet[unit]
	return ok
}

type Material struct {
	BaseModel
	Name         string          `gorm:"type:varchar(255);not null;index:idx_materials_name_category,priority:1" json:"name"`
	CategoryID   uuid.UUID       `gorm:"type:uuid;not null;index:idx_materials_name_category,priority:2" json:"category_id"`
	Category     *Category       `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Price        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Location     string          `gorm:"type:varchar(255);not null" json:"location"`
	Cupboard     string          `gorm:"type:varchar(100);not null" json:"cupboard"`
	Shelf        string          `gorm:"type:varchar(100);not null" json:"shelf"`
	CurrentStock int             `gorm:"not null" json:"current_stock"`
	MinimumStock int             `gorm:"not null" json:"minimum_stock"`
	Unit         string          `gorm:"type:varchar(20);not null" json:"unit"`
	Notes        string          `gorm:"type:text" json:"notes"`

	// User tracking
	CreatedByID       *uuid.UUID `gorm:"type:uuid" json:"created_by_id,omitempty"`
	LastUpdatedByID   *uuid.UUID `gorm:"type:uuid" json:"last_updated_by_id,omitempty"`
	CreatedByUser     *User      `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
	LastUpdatedByUser *User      `gorm:"foreignKey:LastUpdatedByID" json:"last_updated_by,omitempty"`
}

// IsLowStock reports whether the material is at or below its reorder threshold
func (m *Material) IsLowStock() bool {
	return m.CurrentStock <= m.MinimumStock
}

// Snapshot copies the descriptive fields recorded on every stock transaction.
// Category must be loaded for the category name to be captured.
func (m *Material) Snapshot() MaterialSnapshot {
	categoryName := UnknownCategory
	if m.Category != nil && m.Category.Name != "" {
		categoryName = m.Category.Name
	}
	return MaterialSnapshot{
		Name:     m.Name,
		Category: categoryName,
		Location: m.Location,
		Unit:     m.Unit,
	}
}
