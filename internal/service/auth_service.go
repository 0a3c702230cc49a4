package service

import (
	"strings"

	"go-material-inventory/internal/apperror"
	"go-material-inventory/internal/model"
	"go-material-inventory/internal/repository"
	"go-material-inventory/pkg/jwt"

	"github.com/google/uuid"
)

const (
	msgUserExists         = "User already exists"
	msgInvalidAdminSecret = "Invalid admin secret"
	msgInvalidCredentials = "Invalid credentials"
	msgUserNotFound       = "User not found"
	msgInvalidToken       = "Token is not valid"
	msgMissingToken       = "No token, authorization denied"
)

type AuthService interface {
	Signup(req *SignupRequest) (*model.User, error)
	Login(email, password string) (*LoginResponse, error)
	Authenticate(token string) (*Identity, error)
	Me(userID uuid.UUID) (*model.UserResponse, error)
	ResetPassword(email, newPassword string) error
}

type SignupRequest struct {
	Name     string     `json:"name" validate:"required"`
	Email    string     `json:"email" validate:"required,email"`
	Password string     `json:"password" validate:"required,min=6"`
	Role     model.Role `json:"role"`
	Secret   string     `json:"secret"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token string             `json:"token"`
	User  model.UserResponse `json:"user"`
	Role  model.Role         `json:"role"`
}

// Identity is the authenticated caller as currently stored, not as the token claimed
type Identity struct {
	UserID uuid.UUID
	Name   string
	Email  string
	Role   model.Role
}

type authService struct {
	userRepo    repository.UserRepository
	tokens      *jwt.Manager
	adminSecret string
}

func NewAuthService(userRepo repository.UserRepository, tokens *jwt.Manager, adminSecret string) AuthService {
	return &authService{
		userRepo:    userRepo,
		tokens:      tokens,
		adminSecret: adminSecret,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) Signup(req *SignupRequest) (*model.User, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = normalizeEmail(req.Email)
	if err := validationError(req); err != nil {
		return nil, err
	}

	// 1. Email must be free
	if _, err := s.userRepo.FindByEmail(req.Email); err == nil {
		return nil, apperror.Conflict(msgUserExists)
	} else if !repository.IsNotFound(err) {
		return nil, err
	}

	// 2. Admin accounts need the admin secret; managers are only made by promotion
	role := model.RoleUser
	if req.Role == model.RoleAdmin {
		if s.adminSecret == "" || req.Secret != s.adminSecret {
			return nil, apperror.Authorization(msgInvalidAdminSecret)
		}
		role = model.RoleAdmin
	}

	// 3. Hash and store
	user := &model.User{
		Name:  req.Name,
		Email: req.Email,
		Role:  role,
	}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, err
	}
	if err := s.userRepo.Create(user); err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, apperror.Conflict(msgUserExists)
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) Login(email, password string) (*LoginResponse, error) {
	// 1. Find user by email
	user, err := s.userRepo.FindByEmail(normalizeEmail(email))
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperror.Authentication(msgInvalidCredentials)
		}
		return nil, err
	}

	// 2. Verify password
	if !user.CheckPassword(password) {
		return nil, apperror.Authentication(msgInvalidCredentials)
	}

	// 3. Issue token
	token, err := s.tokens.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, apperror.Internal(err)
	}

	return &LoginResponse{
		Token: token,
		User:  user.ToResponse(),
		Role:  user.Role,
	}, nil
}

// Authenticate verifies the token and reloads the user, so a role change or a
// deleted account takes effect before the token expires.
func (s *authService) Authenticate(token string) (*Identity, error) {
	if token == "" {
		return nil, apperror.Authentication(msgMissingToken)
	}

	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil, &apperror.Error{Kind: apperror.KindAuthentication, Msg: msgInvalidToken, Err: err}
	}

	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperror.Authentication(msgInvalidToken)
		}
		return nil, err
	}

	return &Identity{
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Role:   user.Role,
	}, nil
}

func (s *authService) Me(userID uuid.UUID) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperror.NotFound(msgUserNotFound)
		}
		return nil, err
	}
	res := user.ToResponse()
	return &res, nil
}

// ResetPassword sets a new password without knowing the old one. Operator use only.
func (s *authService) ResetPassword(email, newPassword string) error {
	if len(newPassword) < 6 {
		return apperror.Validation("Password must be at least 6 characters")
	}

	user, err := s.userRepo.FindByEmail(normalizeEmail(email))
	if err != nil {
		if repository.IsNotFound(err) {
			return apperror.NotFound(msgUserNotFound)
		}
		return err
	}

	if err := user.SetPassword(newPassword); err != nil {
		return err
	}
	return s.userRepo.UpdatePassword(user.ID, user.Password)
}
