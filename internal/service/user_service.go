package service

import (
	"strings"
	"time"

	"go-material-inventory/internal/apperror"
	"go-material-inventory/internal/model"
	"go-material-inventory/internal/repository"

	"github.com/google/uuid"
)

const (
	minRoleRequestReason = 10

	msgReasonTooShort     = "Please provide a reason of at least 10 characters"
	msgRequestPending     = "You already have a pending role request"
	msgNoPendingRequest   = "No pending role request for this user"
	msgInvalidReview      = "Invalid action. Use 'approve' or 'reject'."
	msgOnlyUsersCanAskFor = "Only users can request a role upgrade"
)

type ReviewAction string

const (
	ReviewApprove ReviewAction = "approve"
	ReviewReject  ReviewAction = "reject"
)

type UserService interface {
	ListUsers() ([]model.UserResponse, error)
	GetUser(id uuid.UUID) (*model.UserResponse, error)
	Promote(id uuid.UUID) (*model.UserResponse, error)
	Demote(id uuid.UUID) (*model.UserResponse, error)
	SubmitRoleRequest(userID uuid.UUID, reason string) (*model.UserResponse, error)
	ListPendingRoleRequests() ([]model.UserResponse, error)
	ReviewRoleRequest(userID uuid.UUID, action ReviewAction) (*model.UserResponse, error)
}

type RoleRequestSubmission struct {
	Reason string `json:"reason"`
}

type RoleRequestReview struct {
	Action ReviewAction `json:"action"`
}

type userService struct {
	userRepo repository.UserRepository
	now      func() time.Time
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{
		userRepo: userRepo,
		now:      time.Now,
	}
}

func (s *userService) find(id uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperror.NotFound(msgUserNotFound)
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) ListUsers() ([]model.UserResponse, error) {
	users, err := s.userRepo.FindAll()
	if err != nil {
		return nil, err
	}
	return toResponses(users), nil
}

func (s *userService) GetUser(id uuid.UUID) (*model.UserResponse, error) {
	user, err := s.find(id)
	if err != nil {
		return nil, err
	}
	res := user.ToResponse()
	return &res, nil
}

func (s *userService) Promote(id uuid.UUID) (*model.UserResponse, error) {
	return s.setRole(id, model.RoleManager)
}

func (s *userService) Demote(id uuid.UUID) (*model.UserResponse, error) {
	return s.setRole(id, model.RoleUser)
}

func (s *userService) setRole(id uuid.UUID, role model.Role) (*model.UserResponse, error) {
	if _, err := s.find(id); err != nil {
		return nil, err
	}
	updated, err := s.userRepo.UpdateRole(id, role)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, apperror.NotFound(msgUserNotFound)
	}
	return s.GetUser(id)
}

func (s *userService) SubmitRoleRequest(userID uuid.UUID, reason string) (*model.UserResponse, error) {
	reason = strings.TrimSpace(reason)
	if len(reason) < minRoleRequestReason {
		return nil, apperror.Validation(msgReasonTooShort)
	}

	user, err := s.find(userID)
	if err != nil {
		return nil, err
	}
	if user.Role != model.RoleUser {
		return nil, apperror.Authorization(msgOnlyUsersCanAskFor)
	}
	if user.RoleRequest.IsPending() {
		return nil, apperror.Conflict(msgRequestPending)
	}

	requestedAt := s.now()
	opened, err := s.userRepo.OpenRoleRequest(userID, model.RoleRequest{
		Requested:     true,
		RequestedRole: model.RoleManager,
		RequestReason: reason,
		RequestDate:   &requestedAt,
		RequestStatus: model.RoleRequestPending,
	})
	if err != nil {
		return nil, err
	}
	if !opened {
		// Lost a race with a role change or another request; report which.
		current, err := s.find(userID)
		if err != nil {
			return nil, err
		}
		if current.Role != model.RoleUser {
			return nil, apperror.Authorization(msgOnlyUsersCanAskFor)
		}
		return nil, apperror.Conflict(msgRequestPending)
	}
	return s.GetUser(userID)
}

func (s *userService) ListPendingRoleRequests() ([]model.UserResponse, error) {
	users, err := s.userRepo.FindPendingRoleRequests()
	if err != nil {
		return nil, err
	}
	return toResponses(users), nil
}

func (s *userService) ReviewRoleRequest(userID uuid.UUID, action ReviewAction) (*model.UserResponse, error) {
	if action != ReviewApprove && action != ReviewReject {
		return nil, apperror.Validation(msgInvalidReview)
	}

	user, err := s.find(userID)
	if err != nil {
		return nil, err
	}
	if !user.RoleRequest.IsPending() {
		return nil, apperror.Validation(msgNoPendingRequest)
	}

	status, grant := model.RoleRequestRejected, model.Role("")
	if action == ReviewApprove {
		status, grant = model.RoleRequestApproved, user.RoleRequest.RequestedRole
	}
	resolved, err := s.userRepo.ResolveRoleRequest(userID, status, grant)
	if err != nil {
		return nil, err
	}
	if !resolved {
		return nil, apperror.Validation(msgNoPendingRequest)
	}
	return s.GetUser(userID)
}

func toResponses(users []model.User) []model.UserResponse {
	res := make([]model.UserResponse, 0, len(users))
	for i := range users {
		res = append(res, users[i].ToResponse())
	}
	return res
}
