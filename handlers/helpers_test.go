package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtside/tournament-server/repositories"
	"github.com/courtside/tournament-server/services"
)

func TestReadJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	newRequest := func(body string) (*httptest.ResponseRecorder, *http.Request) {
		return httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	}

	var dst payload
	w, r := newRequest(`{"name":"Open"}`)
	require.NoError(t, readJSON(w, r, &dst))
	assert.Equal(t, "Open", dst.Name)

	w, r = newRequest(`{"name":`)
	assert.Error(t, readJSON(w, r, &payload{}))

	w, r = newRequest(``)
	err := readJSON(w, r, &payload{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must not be empty")

	w, r = newRequest(`{"surprise":true}`)
	err = readJSON(w, r, &payload{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown key")

	w, r = newRequest(`{"name":"a"}{"name":"b"}`)
	err = readJSON(w, r, &payload{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "single JSON value")

	w, r = newRequest(`{"name":42}`)
	err = readJSON(w, r, &payload{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "incorrect JSON type")
}

func TestMapServiceErrorToHTTP(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"tournament not found", services.ErrTournamentNotFound, http.StatusNotFound},
		{"match not found", services.ErrMatchNotFound, http.StatusNotFound},
		{"concurrent update", repositories.ErrConcurrentUpdate, http.StatusConflict},
		{"name conflict", services.ErrTournamentNameConflict, http.StatusConflict},
		{"status transition", services.ErrInvalidStatusTransition, http.StatusConflict},
		{"bracket complete", services.ErrBracketComplete, http.StatusConflict},
		{"structure locked", services.ErrStructureLocked, http.StatusConflict},
		{"winner mismatch", services.ErrWinnerMismatch, http.StatusUnprocessableEntity},
		{"validation failed", services.ErrValidationFailed, http.StatusUnprocessableEntity},
		{"unknown player", services.ErrUnknownPlayer, http.StatusUnprocessableEntity},
		{"bad credentials", services.ErrAuthInvalidCredentials, http.StatusUnauthorized},
		{"forbidden", services.ErrForbiddenOperation, http.StatusForbidden},
		{"uploader down", services.ErrUploaderUnavailable, http.StatusServiceUnavailable},
		{"unexpected", errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			mapServiceErrorToHTTP(w, r, tc.err)
			assert.Equal(t, tc.wantStatus, w.Code)
			assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
		})
	}
}

func TestMapServiceErrorToHTTPWrappedErrors(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	wrapped := services.ErrValidationFailed
	mapServiceErrorToHTTP(w, r, errors.Join(errors.New("set 2"), wrapped))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
