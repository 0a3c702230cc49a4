package service

import (
	"errors"
	"strings"
	"time"

	"go-material-inventory/internal/apperror"
	"go-material-inventory/internal/model"
	"go-material-inventory/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	maxStockAttempts = 3

	DefaultHistoryLimit = 50
	DefaultRecentLimit  = 100
	MaxPageLimit        = 500

	msgInvalidAction   = "Invalid action. Use 'add', 'remove', or 'set'."
	msgInvalidQuantity = "Quantity must be a positive number"
	msgNotEnoughStock  = "Not enough stock available"
	msgStockConflict   = "Stock was changed by another request, please retry"
	msgStockUpdated    = "Stock updated successfully"

	defaultReasonAdd    = "Stock added"
	defaultReasonRemove = "Stock removed"
	defaultReasonSet    = "Stock set"
)

// errStockChanged signals that the compare-and-swap lost to a concurrent writer
var errStockChanged = errors.New("stock changed concurrently")

type StockService interface {
	UpdateStock(materialID uuid.UUID, req *StockUpdateRequest, actorID uuid.UUID) (*StockUpdateResult, error)
	GetMaterialHistory(materialID uuid.UUID, limit, offset int) (*TransactionList, error)
	GetUserActivity(userID uuid.UUID, limit, offset int) (*TransactionList, error)
	GetRecentActivity(limit, offset int) (*TransactionList, error)
}

type StockUpdateRequest struct {
	Quantity *int                  `json:"quantity"`
	Action   model.TransactionType `json:"action"`
	Reason   string                `json:"reason"`
	Notes    string                `json:"notes"`
}

type StockUpdateResult struct {
	Message       string                  `json:"msg"`
	PreviousStock int                     `json:"previous_stock"`
	NewStock      int                     `json:"new_stock"`
	Change        int                     `json:"change"`
	CurrentStock  int                     `json:"current_stock"`
	Transaction   *model.StockTransaction `json:"transaction"`
}

type TransactionList struct {
	Transactions []model.TransactionDisplay `json:"transactions"`
	Total        int64                      `json:"total"`
	HasMore      bool                       `json:"has_more"`
}

// stockEntry is everything needed to append one transaction for a material
type stockEntry struct {
	kind     model.TransactionType
	quantity int
	previous int
	next     int
	actorID  uuid.UUID
	reason   string
	notes    string
	at       time.Time
}

// appendTransaction records e against material. The snapshot is taken from the
// material as it is passed in, so callers must have its category loaded.
func appendTransaction(repo repository.TransactionRepository, material *model.Material, e stockEntry) (*model.StockTransaction, error) {
	entry := &model.StockTransaction{
		MaterialID:      material.ID,
		TransactionType: e.kind,
		Quantity:        e.quantity,
		PreviousStock:   e.previous,
		NewStock:        e.next,
		Reason:          e.reason,
		Notes:           e.notes,
		PerformedByID:   e.actorID,
		Snapshot:        material.Snapshot(),
		TransactionDate: e.at,
	}
	if err := repo.Create(entry); err != nil {
		return nil, err
	}
	return entry, nil
}

type stockService struct {
	materialRepo    repository.MaterialRepository
	transactionRepo repository.TransactionRepository
	userRepo        repository.UserRepository
	db              *gorm.DB
	now             func() time.Time
}

func NewStockService(mRepo repository.MaterialRepository, tRepo repository.TransactionRepository, uRepo repository.UserRepository, db *gorm.DB) StockService {
	return &stockService{
		materialRepo:    mRepo,
		transactionRepo: tRepo,
		userRepo:        uRepo,
		db:              db,
		now:             time.Now,
	}
}

func (s *stockService) UpdateStock(materialID uuid.UUID, req *StockUpdateRequest, actorID uuid.UUID) (*StockUpdateResult, error) {
	if !req.Action.IsStockAction() {
		return nil, apperror.Validation(msgInvalidAction)
	}
	if req.Quantity == nil || *req.Quantity < 0 {
		return nil, apperror.Validation(msgInvalidQuantity)
	}

	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		reason = defaultReason(req.Action)
	}

	for attempt := 1; attempt <= maxStockAttempts; attempt++ {
		result, err := s.tryUpdateStock(materialID, req.Action, *req.Quantity, actorID, reason, req.Notes)
		if errors.Is(err, errStockChanged) {
			continue
		}
		return result, err
	}
	return nil, apperror.Conflict(msgStockConflict)
}

// tryUpdateStock runs one read-compute-swap-append attempt in a single database
// transaction. It returns errStockChanged when the swap matched no row.
func (s *stockService) tryUpdateStock(materialID uuid.UUID, action model.TransactionType, quantity int, actorID uuid.UUID, reason, notes string) (*StockUpdateResult, error) {
	var result *StockUpdateResult

	err := s.db.Transaction(func(tx *gorm.DB) error {
		materials := s.materialRepo.WithTx(tx)

		material, err := materials.FindByID(materialID)
		if err != nil {
			if repository.IsNotFound(err) {
				return apperror.NotFound(msgMaterialNotFound)
			}
			return err
		}

		previous := material.CurrentStock
		next, err := model.NextStock(action, previous, quantity)
		if err != nil {
			if errors.Is(err, model.ErrInsufficientStock) {
				return apperror.InsufficientStock(msgNotEnoughStock)
			}
			return apperror.Validation(msgInvalidAction)
		}

		swapped, err := materials.CompareAndSetStock(materialID, previous, next, actorID)
		if err != nil {
			return err
		}
		if !swapped {
			return errStockChanged
		}
		material.CurrentStock = next

		entry, err := appendTransaction(s.transactionRepo.WithTx(tx), material, stockEntry{
			kind:     action,
			quantity: quantity,
			previous: previous,
			next:     next,
			actorID:  actorID,
			reason:   reason,
			notes:    notes,
			at:       s.now(),
		})
		if err != nil {
			return err
		}

		result = &StockUpdateResult{
			Message:       msgStockUpdated,
			PreviousStock: previous,
			NewStock:      next,
			Change:        next - previous,
			CurrentStock:  next,
			Transaction:   entry,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *stockService) GetMaterialHistory(materialID uuid.UUID, limit, offset int) (*TransactionList, error) {
	limit, offset = NormalizePage(limit, offset, DefaultHistoryLimit)

	page, err := s.transactionRepo.FindByMaterial(materialID, limit, offset)
	if err != nil {
		return nil, err
	}

	// A deleted material keeps its history; only an id that never existed is unknown
	if page.Total == 0 {
		if _, err := s.materialRepo.FindByID(materialID); err != nil {
			if repository.IsNotFound(err) {
				return nil, apperror.NotFound(msgMaterialNotFound)
			}
			return nil, err
		}
	}

	return s.present(page, offset)
}

func (s *stockService) GetUserActivity(userID uuid.UUID, limit, offset int) (*TransactionList, error) {
	limit, offset = NormalizePage(limit, offset, DefaultHistoryLimit)

	page, err := s.transactionRepo.FindByPerformer(userID, limit, offset)
	if err != nil {
		return nil, err
	}
	return s.present(page, offset)
}

func (s *stockService) GetRecentActivity(limit, offset int) (*TransactionList, error) {
	limit, offset = NormalizePage(limit, offset, DefaultRecentLimit)

	page, err := s.transactionRepo.FindRecent(limit, offset)
	if err != nil {
		return nil, err
	}
	return s.present(page, offset)
}

// present resolves the live material and performer for each transaction in
// two batch lookups and renders the page.
func (s *stockService) present(page *repository.Page, offset int) (*TransactionList, error) {
	materialIDs := make([]uuid.UUID, 0, len(page.Transactions))
	userIDs := make([]uuid.UUID, 0, len(page.Transactions))
	for _, t := range page.Transactions {
		materialIDs = append(materialIDs, t.MaterialID)
		userIDs = append(userIDs, t.PerformedByID)
	}

	materials, err := s.materialRepo.FindByIDs(materialIDs)
	if err != nil {
		return nil, err
	}
	users, err := s.userRepo.FindByIDs(userIDs)
	if err != nil {
		return nil, err
	}

	materialByID := make(map[uuid.UUID]*model.Material, len(materials))
	for i := range materials {
		materialByID[materials[i].ID] = &materials[i]
	}
	userByID := make(map[uuid.UUID]*model.User, len(users))
	for i := range users {
		userByID[users[i].ID] = &users[i]
	}

	list := &TransactionList{
		Transactions: make([]model.TransactionDisplay, 0, len(page.Transactions)),
		Total:        page.Total,
	}
	for i := range page.Transactions {
		t := &page.Transactions[i]
		list.Transactions = append(list.Transactions, t.Display(materialByID[t.MaterialID], userByID[t.PerformedByID]))
	}
	list.HasMore = int64(offset+len(list.Transactions)) < page.Total

	return list, nil
}

// NormalizePage applies the default limit for non-positive values, caps the
// limit at MaxPageLimit and clamps a negative offset to zero.
func NormalizePage(limit, offset, defaultLimit int) (int, int) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func defaultReason(action model.TransactionType) string {
	switch action {
	case model.TxAdd:
		return defaultReasonAdd
	case model.TxRemove:
		return defaultReasonRemove
	default:
		return defaultReasonSet
	}
}
