package repository

import (
	"go-material-inventory/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	FindByEmail(email string) (*model.User, error)
	FindByID(id uuid.UUID) (*model.User, error)
	FindByIDs(ids []uuid.UUID) ([]model.User, error)
	Create(user *model.User) error
	UpdateRole(id uuid.UUID, role model.Role) (bool, error)
	OpenRoleRequest(id uuid.UUID, request model.RoleRequest) (bool, error)
	ResolveRoleRequest(id uuid.UUID, status model.RoleRequestStatus, grant model.Role) (bool, error)
	UpdatePassword(userID uuid.UUID, hashedPassword string) error
	FindAll() ([]model.User, error)
	FindPendingRoleRequests() ([]model.User, error)
}

type userRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db}
}

func (r *userRepo) FindByEmail(email string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) FindByID(id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) FindByIDs(ids []uuid.UUID) ([]model.User, error) {
	var users []model.User
	if len(ids) == 0 {
		return users, nil
	}
	err := r.db.Where("id IN ?", ids).Find(&users).Error
	return users, err
}

func (r *userRepo) Create(user *model.User) error {
	return r.db.Create(user).Error
}

func (r *userRepo) UpdateRole(id uuid.UUID, role model.Role) (bool, error) {
	result := r.db.Model(&model.User{}).Where("id = ?", id).Update("role", role)
	return result.RowsAffected == 1, result.Error
}

// OpenRoleRequest records a new request for a plain user with nothing pending.
// It reports false when the user is missing, is no longer a plain user, or
// already has a pending request.
func (r *userRepo) OpenRoleRequest(id uuid.UUID, request model.RoleRequest) (bool, error) {
	result := r.db.Model(&model.User{}).
		Where("id = ? AND role = ?", id, model.RoleUser).
		Where("NOT (COALESCE(role_request_requested, ?) = ? AND COALESCE(role_request_request_status, '') = ?)",
			false, true, model.RoleRequestPending).
		Updates(map[string]interface{}{
			"role_request_requested":      request.Requested,
			"role_request_requested_role": request.RequestedRole,
			"role_request_request_reason": request.RequestReason,
			"role_request_request_date":   request.RequestDate,
			"role_request_request_status": request.RequestStatus,
		})
	return result.RowsAffected == 1, result.Error
}

// ResolveRoleRequest closes a pending request with status, granting role when
// it is non-empty. It reports false when nothing was pending.
func (r *userRepo) ResolveRoleRequest(id uuid.UUID, status model.RoleRequestStatus, grant model.Role) (bool, error) {
	changes := map[string]interface{}{"role_request_request_status": status}
	if grant != "" {
		changes["role"] = grant
	}
	result := r.db.Model(&model.User{}).
		Where("id = ? AND role_request_requested = ? AND role_request_request_status = ?", id, true, model.RoleRequestPending).
		Updates(changes)
	return result.RowsAffected == 1, result.Error
}

func (r *userRepo) UpdatePassword(userID uuid.UUID, hashedPassword string) error {
	return r.db.Model(&model.User{}).Where("id = ?", userID).Update("password", hashedPassword).Error
}

func (r *userRepo) FindAll() ([]model.User, error) {
	var users []model.User
	err := r.db.Order("created_at ASC").Find(&users).Error
	return users, err
}

func (r *userRepo) FindPendingRoleRequests() ([]model.User, error) {
	var users []model.User
	err := r.db.
		Where("role_request_requested = ? AND role_request_request_status = ?", true, model.RoleRequestPending).
		Order("role_request_request_date ASC").
		Find(&users).Error
	return users, err
}
