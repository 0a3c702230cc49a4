package handler

import (
	"go-material-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
)

const msgInvalidUserID = "Invalid user ID"

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GetAllUsers returns all users
// GET /api/v1/auth/users
func (h *UserHandler) GetAllUsers(c *fiber.Ctx) error {
	users, err := h.userService.ListUsers()
	if err != nil {
		return err
	}
	return c.JSON(users)
}

// GetUserByID returns a single user
// GET /api/v1/auth/users/:id
func (h *UserHandler) GetUserByID(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id", msgInvalidUserID)
	if err != nil {
		return err
	}

	user, err := h.userService.GetUser(id)
	if err != nil {
		return err
	}
	return c.JSON(user)
}

// PATCH /api/v1/auth/users/:id/promote
func (h *UserHandler) Promote(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id", msgInvalidUserID)
	if err != nil {
		return err
	}

	user, err := h.userService.Promote(id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "User promoted to manager", "data": user})
}

// PATCH /api/v1/auth/users/:id/demote
func (h *UserHandler) Demote(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id", msgInvalidUserID)
	if err != nil {
		return err
	}

	user, err := h.userService.Demote(id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "User demoted to user", "data": user})
}

// SubmitRoleRequest files the caller's request to become a manager
// POST /api/v1/auth/role-requests
func (h *UserHandler) SubmitRoleRequest(c *fiber.Ctx) error {
	var req service.RoleRequestSubmission
	if err := c.BodyParser(&req); err != nil {
		return errInvalidJSON
	}

	user, err := h.userService.SubmitRoleRequest(getUserID(c), req.Reason)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Role request submitted",
		"data":    user,
	})
}

// GET /api/v1/auth/role-requests
func (h *UserHandler) ListRoleRequests(c *fiber.Ctx) error {
	users, err := h.userService.ListPendingRoleRequests()
	if err != nil {
		return err
	}
	return c.JSON(users)
}

// ReviewRoleRequest approves or rejects a pending request
// PATCH /api/v1/auth/role-requests/:userId
func (h *UserHandler) ReviewRoleRequest(c *fiber.Ctx) error {
	userID, err := paramUUID(c, "userId", msgInvalidUserID)
	if err != nil {
		return err
	}

	var req service.RoleRequestReview
	if err := c.BodyParser(&req); err != nil {
		return errInvalidJSON
	}

	user, err := h.userService.ReviewRoleRequest(userID, req.Action)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Role request " + string(req.Action) + "d",
		"data":    user,
	})
}
