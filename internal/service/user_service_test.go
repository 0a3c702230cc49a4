package service

import (
	"testing"

	"go-material-inventory/internal/apperror"
	"go-material-inventory/internal/model"
	"go-material-inventory/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validReason = "I manage the chemistry lab stock"

func TestRoleRequestRejectThenApprove(t *testing.T) {
	f := newFixture(t)

	t.Run("first request is rejected", func(t *testing.T) {
		res, err := f.users.SubmitRoleRequest(f.user.ID, validReason)
		require.NoError(t, err)
		assert.True(t, res.RoleRequest.Requested)
		assert.Equal(t, model.RoleManager, res.RoleRequest.RequestedRole)
		assert.Equal(t, model.RoleRequestPending, res.RoleRequest.RequestStatus)
		require.NotNil(t, res.RoleRequest.RequestDate)

		pending, err := f.users.ListPendingRoleRequests()
		require.NoError(t, err)
		require.Len(t, pending, 1)
		assert.Equal(t, f.user.ID, pending[0].ID)

		_, err = f.users.SubmitRoleRequest(f.user.ID, validReason)
		assert.True(t, apperror.Is(err, apperror.KindConflict))

		res, err = f.users.ReviewRoleRequest(f.user.ID, ReviewReject)
		require.NoError(t, err)
		assert.Equal(t, model.RoleUser, res.Role)
		assert.Equal(t, model.RoleRequestRejected, res.RoleRequest.RequestStatus)

		pending, err = f.users.ListPendingRoleRequests()
		require.NoError(t, err)
		assert.Empty(t, pending)
	})

	t.Run("second request is approved", func(t *testing.T) {
		_, err := f.users.SubmitRoleRequest(f.user.ID, validReason)
		require.NoError(t, err)

		res, err := f.users.ReviewRoleRequest(f.user.ID, ReviewApprove)
		require.NoError(t, err)
		assert.Equal(t, model.RoleManager, res.Role)
		assert.Equal(t, model.RoleRequestApproved, res.RoleRequest.RequestStatus)

		stored, err := f.userRepo.FindByID(f.user.ID)
		require.NoError(t, err)
		assert.Equal(t, model.RoleManager, stored.Role)
	})

	t.Run("nothing left to review", func(t *testing.T) {
		_, err := f.users.ReviewRoleRequest(f.user.ID, ReviewApprove)
		require.Error(t, err)
		assert.True(t, apperror.Is(err, apperror.KindValidation))
		assert.Equal(t, msgNoPendingRequest, err.Error())
	})
}

func TestSubmitRoleRequestValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.users.SubmitRoleRequest(f.user.ID, "  too short   ")
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	_, err = f.users.SubmitRoleRequest(f.manager.ID, validReason)
	assert.True(t, apperror.Is(err, apperror.KindAuthorization))

	_, err = f.users.SubmitRoleRequest(uuid.New(), validReason)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	_, err = f.users.SubmitRoleRequest(f.user.ID, validReason)
	require.NoError(t, err)
	_, err = f.users.ReviewRoleRequest(f.user.ID, "maybe")
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestPromoteAndDemote(t *testing.T) {
	f := newFixture(t)

	res, err := f.users.Promote(f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RoleManager, res.Role)

	res, err = f.users.Demote(f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, res.Role)

	_, err = f.users.Promote(uuid.New())
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	users, err := f.users.ListUsers()
	require.NoError(t, err)
	assert.Len(t, users, 3)

	got, err := f.users.GetUser(f.admin.ID)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", got.Email)
}

// racingUsers runs beforeWrite just ahead of each role or request write,
// like another admin request committing between the service's read and write.
type racingUsers struct {
	repository.UserRepository
	beforeWrite func()
}

func (r racingUsers) UpdateRole(id uuid.UUID, role model.Role) (bool, error) {
	r.beforeWrite()
	return r.UserRepository.UpdateRole(id, role)
}

func (r racingUsers) OpenRoleRequest(id uuid.UUID, request model.RoleRequest) (bool, error) {
	r.beforeWrite()
	return r.UserRepository.OpenRoleRequest(id, request)
}

func (r racingUsers) ResolveRoleRequest(id uuid.UUID, status model.RoleRequestStatus, grant model.Role) (bool, error) {
	r.beforeWrite()
	return r.UserRepository.ResolveRoleRequest(id, status, grant)
}

func TestConcurrentRoleWrites(t *testing.T) {
	t.Run("promotion keeps a request submitted meanwhile", func(t *testing.T) {
		f := newFixture(t)
		other := NewUserService(f.userRepo)
		f.users.userRepo = racingUsers{UserRepository: f.userRepo, beforeWrite: func() {
			_, err := other.SubmitRoleRequest(f.user.ID, validReason)
			require.NoError(t, err)
		}}

		res, err := f.users.Promote(f.user.ID)
		require.NoError(t, err)
		assert.Equal(t, model.RoleManager, res.Role)
		assert.Equal(t, model.RoleRequestPending, res.RoleRequest.RequestStatus)
		assert.Equal(t, validReason, res.RoleRequest.RequestReason)
	})

	t.Run("approval after a rejection is refused", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.users.SubmitRoleRequest(f.user.ID, validReason)
		require.NoError(t, err)

		other := NewUserService(f.userRepo)
		f.users.userRepo = racingUsers{UserRepository: f.userRepo, beforeWrite: func() {
			_, err := other.ReviewRoleRequest(f.user.ID, ReviewReject)
			require.NoError(t, err)
		}}

		_, err = f.users.ReviewRoleRequest(f.user.ID, ReviewApprove)
		require.Error(t, err)
		assert.True(t, apperror.Is(err, apperror.KindValidation))
		assert.Equal(t, msgNoPendingRequest, err.Error())

		stored, err := f.userRepo.FindByID(f.user.ID)
		require.NoError(t, err)
		assert.Equal(t, model.RoleUser, stored.Role)
		assert.Equal(t, model.RoleRequestRejected, stored.RoleRequest.RequestStatus)
	})

	t.Run("request from a user promoted meanwhile is refused", func(t *testing.T) {
		f := newFixture(t)
		other := NewUserService(f.userRepo)
		f.users.userRepo = racingUsers{UserRepository: f.userRepo, beforeWrite: func() {
			_, err := other.Promote(f.user.ID)
			require.NoError(t, err)
		}}

		_, err := f.users.SubmitRoleRequest(f.user.ID, validReason)
		assert.True(t, apperror.Is(err, apperror.KindAuthorization))

		stored, err := f.userRepo.FindByID(f.user.ID)
		require.NoError(t, err)
		assert.False(t, stored.RoleRequest.Requested)
	})
}
