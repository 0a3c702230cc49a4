package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TransactionType string

const (
	TxAdd     TransactionType = "add"
	TxRemove  TransactionType = "remove"
	TxSet     TransactionType = "set"
	TxInitial TransactionType = "initial"
)

const (
	UnknownCategory = "Unknown"
	UnknownUser     = "Unknown User"
)

var (
	ErrInsufficientStock  = errors.New("not enough stock available")
	ErrInvalidStockAction = errors.New("invalid stock action")
	ErrNegativeQuantity   = errors.New("quantity must not be negative")
	ErrImmutableHistory   = errors.New("stock transactions are immutable")
)

// IsStockAction reports whether t can be requested through a stock mutation
func (t TransactionType) IsStockAction() bool {
	return t == TxAdd || t == TxRemove || t == TxSet
}

// NextStock computes the stock that results from applying action to previous.
// A remove that would go below zero fails with ErrInsufficientStock.
func NextStock(action TransactionType, previous, quantity int) (int, error) {
	if quantity < 0 {
		return previous, ErrNegativeQuantity
	}
	switch action {
	case TxAdd:
		return previous + quantity, nil
	case TxRemove:
		if previous < quantity {
			return previous, ErrInsufficientStock
		}
		return previous - quantity, nil
	case TxSet:
		return quantity, nil
	default:
		return previous, ErrInvalidStockAction
	}
}

// MaterialSnapshot is copied by value when a transaction is written, so history
// stays readable after the material or its category changes or disappears.
type MaterialSnapshot struct {
	Name     string `gorm:"type:varchar(255)" json:"name"`
	Category string `gorm:"type:varchar(100)" json:"category"`
	Location string `gorm:"type:varchar(255)" json:"location"`
	Unit     string `gorm:"type:varchar(20)" json:"unit"`
}

// StockTransaction is an append-only audit record of one stock change.
// MaterialID is a plain column (no foreign key) so history outlives the material.
type StockTransaction struct {
	ID              uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	MaterialID      uuid.UUID        `gorm:"type:uuid;not null;index" json:"material_id"`
	TransactionType TransactionType  `gorm:"type:varchar(10);not null;index" json:"transaction_type"`
	Quantity        int              `gorm:"not null" json:"quantity"`
	PreviousStock   int              `gorm:"not null" json:"previous_stock"`
	NewStock        int              `gorm:"not null" json:"new_stock"`
	Reason          string           `gorm:"type:text" json:"reason"`
	Notes           string           `gorm:"type:text" json:"notes"`
	PerformedByID   uuid.UUID        `gorm:"type:uuid;not null;index" json:"performed_by_id"`
	Snapshot        MaterialSnapshot `gorm:"embedded;embeddedPrefix:snapshot_" json:"material_snapshot"`
	TransactionDate time.Time        `gorm:"not null;index" json:"transaction_date"`
	CreatedAt       time.Time        `json:"created_at"`
}

func (t *StockTransaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.TransactionDate.IsZero() {
		t.TransactionDate = time.Now()
	}
	return nil
}

func (t *StockTransaction) BeforeUpdate(tx *gorm.DB) error { return ErrImmutableHistory }

func (t *StockTransaction) BeforeDelete(tx *gorm.DB) error { return ErrImmutableHistory }

// ChangeAmount is the signed change the transaction represents. Initial entries
// report 0 even though stock moved from 0 to the opening quantity.
func (t *StockTransaction) ChangeAmount() int {
	switch t.TransactionType {
	case TxSet:
		return t.NewStock - t.PreviousStock
	case TxAdd:
		return t.Quantity
	case TxRemove:
		return -t.Quantity
	default:
		return 0
	}
}

// FormatChange renders ChangeAmount with a leading "+" for positive values
func (t *StockTransaction) FormatChange() string {
	change := t.ChangeAmount()
	if change > 0 {
		return fmt.Sprintf("+%d", change)
	}
	return fmt.Sprintf("%d", change)
}

// TransactionDisplay is the read-side rendering of a transaction
type TransactionDisplay struct {
	ID               uuid.UUID       `json:"id"`
	Type             TransactionType `json:"type"`
	MaterialID       uuid.UUID       `json:"material_id"`
	Material         string          `json:"material"`
	MaterialName     string          `json:"material_name"`
	Change           string          `json:"change"`
	Quantity         int             `json:"quantity"`
	PreviousStock    int             `json:"previous_stock"`
	NewStock         int             `json:"new_stock"`
	Unit             string          `json:"unit"`
	PerformedBy      string          `json:"performed_by"`
	PerformedByEmail string          `json:"performed_by_email"`
	Date             time.Time       `json:"date"`
	Reason           string          `json:"reason"`
	Notes            string          `json:"notes"`
}

// Display renders the transaction. live and performer are the current material
// and user records, either of which may be nil once deleted.
func (t *StockTransaction) Display(live *Material, performer *User) TransactionDisplay {
	d := TransactionDisplay{
		ID:            t.ID,
		Type:          t.TransactionType,
		MaterialID:    t.MaterialID,
		Material:      t.Snapshot.Name,
		MaterialName:  t.Snapshot.Name,
		Change:        t.FormatChange(),
		Quantity:      t.Quantity,
		PreviousStock: t.PreviousStock,
		NewStock:      t.NewStock,
		Unit:          t.Snapshot.Unit,
		PerformedBy:   UnknownUser,
		Date:          t.TransactionDate,
		Reason:        t.Reason,
		Notes:         t.Notes,
	}
	if live != nil && live.Name != "" {
		d.MaterialName = live.Name
	}
	if performer != nil {
		d.PerformedBy = performer.Name
		d.PerformedByEmail = performer.Email
	}
	return d
}
