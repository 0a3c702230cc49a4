package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusMapping(t *testing.T) {
	cases := []struct {
		err    *Error
		status int
	}{
		{Validation("bad"), http.StatusBadRequest},
		{Conflict("dup"), http.StatusBadRequest},
		{InsufficientStock("short"), http.StatusBadRequest},
		{Authentication("who"), http.StatusUnauthorized},
		{Authorization("no"), http.StatusForbidden},
		{NotFound("gone"), http.StatusNotFound},
		{Internal(errors.New("boom")), http.StatusInternalServerError},
	}
	for _, c := range cases {
		t.Run(c.err.Kind.String(), func(t *testing.T) {
			assert.Equal(t, c.status, c.err.Status())
		})
	}
}

func TestKindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("create material: %w", InsufficientStock("Not enough stock available"))

	assert.True(t, Is(err, KindInsufficientStock))
	assert.False(t, Is(err, KindConflict))
	assert.Equal(t, KindInsufficientStock, KindOf(err))
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
}

func TestInternalHidesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Internal(cause)

	assert.Equal(t, "Server error", err.Msg)
	assert.ErrorIs(t, err, cause)
}
