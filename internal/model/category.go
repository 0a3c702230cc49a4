package model

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Category struct {
	BaseModel
	Name        string `gorm:"type:varchar(100);not null" json:"name"`
	NameKey     string `gorm:"type:varchar(100);not null;uniqueIndex" json:"-"`
	Description string `gorm:"type:text" json:"description"`

	CreatedByID *uuid.UUID `gorm:"type:uuid" json:"created_by,omitempty"`
}

// CategoryKey normalizes a category name for case-insensitive uniqueness
func CategoryKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func (c *Category) BeforeSave(tx *gorm.DB) error {
	c.Name = strings.TrimSpace(c.Name)
	c.NameKey = CategoryKey(c.Name)
	return nil
}
