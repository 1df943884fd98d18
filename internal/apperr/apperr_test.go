package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"auth", New(KindAuth, "Token Required"), http.StatusUnauthorized},
		{"forbidden", New(KindForbidden, "Normal User not allowed"), http.StatusForbidden},
		{"upstream", New(KindUpstream, "Server Communication failed"), http.StatusBadGateway},
		{"validation", New(KindValidation, "Invalid Attribute"), http.StatusBadRequest},
		{"not found", New(KindNotFound, "Inexistent Project"), http.StatusBadRequest},
		{"conflict", New(KindConflict, "Project already liked"), http.StatusBadRequest},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Status(tc.err))
		})
	}
}

func TestPayloadFor(t *testing.T) {
	status, payload := PayloadFor(New(KindAuth, "Token Required"))

	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, http.StatusUnauthorized, payload.StatusCode)
	assert.Equal(t, "Unauthorized", payload.ErrorText)
	assert.Equal(t, "Token Required", payload.Message)
}

func TestKindOf_Wrapped(t *testing.T) {
	err := fmt.Errorf("handler: %w", New(KindConflict, "Project already pinned"))

	assert.Equal(t, KindConflict, KindOf(err))
	assert.True(t, Is(err, KindConflict))
	assert.False(t, Is(err, KindAuth))
}

func TestWrap_PreservesCause(t *testing.T) {
	cause := errors.New("schema mismatch")
	err := Wrap(KindValidation, "MongoDB Error => Invalid Project", cause)

	assert.Equal(t, "MongoDB Error => Invalid Project", err.Error())
	assert.ErrorIs(t, err, cause)
}
