// Copyright (c) 2026 Emailkuy. All rights reserved.
// Author: admin@emailkuy.com

package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emailkuy/emailkuy/internal/platform/constants"
	"github.com/emailkuy/emailkuy/internal/platform/ctxutil"
	"github.com/emailkuy/emailkuy/internal/platform/middleware"
	"github.com/emailkuy/emailkuy/internal/platform/sec"
)

// stubVerifier accepts exactly one token string and rejects everything else.
type stubVerifier struct {
	goodToken string
	claims    *sec.SessionClaims
}

func (s *stubVerifier) Validate(tokenString string) (*sec.SessionClaims, error) {
	if tokenString == s.goodToken {
		return s.claims, nil
	}
	return nil, errors.New("invalid token")
}

func newGate(t *testing.T) http.Handler {
	t.Helper()

	verifier := &stubVerifier{
		goodToken: "good-token",
		claims:    &sec.SessionClaims{UserID: "user-1", Username: "windaa"},
	}

	inner := http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusOK)
	})

	gate := middleware.SessionGate(verifier, middleware.GateConfig{
		PublicPrefixes: []string{"/health", "/api/v1/auth/login"},
		LoginPath:      constants.LoginPath,
	})

	return gate(inner)
}

/*
TestSessionGate_PublicPrefixBypasses verifies allowlisted paths skip gating.
*/
func TestSessionGate_PublicPrefixBypasses(t *testing.T) {
	handler := newGate(t)

	request := httptest.NewRequest(http.MethodGet, "/health", nil)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
}

/*
TestSessionGate_MissingToken covers the two rejection transports: JSON 401
for API calls, 302 login redirect for page navigations.
*/
func TestSessionGate_MissingToken(t *testing.T) {
	handler := newGate(t)

	t.Run("api_path_gets_json_401", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/api/v1/routes", nil)
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.Contains(t, recorder.Header().Get("Content-Type"), "application/json")
	})

	t.Run("page_path_redirects_to_login", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusFound, recorder.Code)
		assert.Equal(t, constants.LoginPath, recorder.Header().Get("Location"))
	})

	t.Run("remember_hint_tags_redirect", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		request.AddCookie(&http.Cookie{Name: constants.RememberMeCookieName, Value: "true"})
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusFound, recorder.Code)
		assert.Equal(t, constants.LoginPath+"?auto=true", recorder.Header().Get("Location"))
	})
}

/*
TestSessionGate_InvalidToken ensures every validation failure collapses into
the same rejection, with no auto-retry tagging.
*/
func TestSessionGate_InvalidToken(t *testing.T) {
	handler := newGate(t)

	request := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	request.AddCookie(&http.Cookie{Name: constants.SessionCookieName, Value: "tampered"})
	request.AddCookie(&http.Cookie{Name: constants.RememberMeCookieName, Value: "true"})
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusFound, recorder.Code)
	assert.Equal(t, constants.LoginPath, recorder.Header().Get("Location"))
}

/*
TestSessionGate_ValidToken lets the request through with claims in context.
*/
func TestSessionGate_ValidToken(t *testing.T) {
	claims := &sec.SessionClaims{UserID: "user-1", Username: "windaa"}
	verifier := &stubVerifier{goodToken: "good-token", claims: claims}

	var seen *sec.SessionClaims
	inner := http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		seen = ctxutil.GetSession(request.Context())
		writer.WriteHeader(http.StatusOK)
	})

	gate := middleware.SessionGate(verifier, middleware.GateConfig{LoginPath: constants.LoginPath})
	handler := gate(inner)

	request := httptest.NewRequest(http.MethodGet, "/api/v1/routes", nil)
	request.AddCookie(&http.Cookie{Name: constants.SessionCookieName, Value: "good-token"})
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "windaa", seen.Username)
}
