package model

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type RoleRequestStatus string

const (
	RoleRequestNone     RoleRequestStatus = ""
	RoleRequestPending  RoleRequestStatus = "pending"
	RoleRequestApproved RoleRequestStatus = "approved"
	RoleRequestRejected RoleRequestStatus = "rejected"
)

// RoleRequest is a user's petition to be upgraded, reviewed by an admin
type RoleRequest struct {
	Requested     bool              `json:"requested"`
	RequestedRole Role              `gorm:"type:varchar(20)" json:"requested_role,omitempty"`
	RequestReason string            `gorm:"type:text" json:"request_reason"`
	RequestDate   *time.Time        `json:"request_date,omitempty"`
	RequestStatus RoleRequestStatus `gorm:"type:varchar(20);index" json:"request_status"`
}

func (r RoleRequest) IsPending() bool {
	return r.Requested && r.RequestStatus == RoleRequestPending
}

// User represents an authenticated user in the system
type User struct {
	BaseModel
	Name        string      `gorm:"type:varchar(255);not null" json:"name"`
	Email       string      `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password    string      `gorm:"type:varchar(255);not null" json:"-"` // Hidden from JSON
	Role        Role        `gorm:"type:varchar(20);not null;index" json:"role"`
	RoleRequest RoleRequest `gorm:"embedded;embeddedPrefix:role_request_" json:"role_request"`
}

// SetPassword hashes and sets the user's password
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword verifies if the provided password matches the stored hash
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// UserResponse is the public view of a user, without credentials
type UserResponse struct {
	ID          uuid.UUID   `json:"id"`
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	Role        Role        `json:"role"`
	RoleRequest RoleRequest `json:"role_request"`
	CreatedAt   time.Time   `json:"created_at"`
}

// ToResponse converts User to UserResponse
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Role:        u.Role,
		RoleRequest: u.RoleRequest,
		CreatedAt:   u.CreatedAt,
	}
}
