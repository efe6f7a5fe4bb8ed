// Copyright (c) 2026 Emailkuy. All rights reserved.
// Author: admin@emailkuy.com

// Package middleware provides the HTTP middleware chain for the Emailkuy API server.
//
// # Architecture
//
// Middleware intercepts incoming HTTP requests to apply global policies
// before they reach the domain handlers. The session gate below is the single
// authentication boundary: every protected request passes through it, and all
// session state lives in the signed token it validates.
package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/emailkuy/emailkuy/internal/platform/apperr"
	"github.com/emailkuy/emailkuy/internal/platform/constants"
	"github.com/emailkuy/emailkuy/internal/platform/ctxutil"
	"github.com/emailkuy/emailkuy/internal/platform/respond"
	"github.com/emailkuy/emailkuy/internal/platform/sec"
)

// TokenVerifier defines the interface needed to validate session tokens in middleware.
//
// # Why an interface?
//
// Defining TokenVerifier here decouples the gate from the [sec.TokenService]
// implementation, allowing us to easily inject stubs during unit testing.
type TokenVerifier interface {
	Validate(tokenString string) (*sec.SessionClaims, error)
}

// GateConfig configures the session gate.
type GateConfig struct {
	// PublicPrefixes lists path prefixes that bypass gating entirely
	// (login, logout, session-check, health probes).
	PublicPrefixes []string

	// LoginPath is where unauthenticated page navigations are redirected.
	LoginPath string
}

// SessionGate validates the session-token cookie on every protected request.
//
// # Flow
//  1. Paths matching a configured public prefix pass unconditionally.
//  2. The token is read from the auth cookie. If absent, the request is
//     rejected: API calls get a 401 JSON error, page navigations a 302 to
//     the login path. When the remember-me hint cookie is present, the
//     redirect is tagged with ?auto=true so the client may attempt a silent
//     re-login. The hint is never itself proof of validity.
//  3. If present, the token is validated (signature + age policy). Every
//     failure mode collapses into the same rejection; the caller cannot
//     distinguish "expired" from "tampered".
//  4. On success, the claims are injected into the request context and the
//     request proceeds unchanged. The gate holds no state of its own.
func SessionGate(verifier TokenVerifier, cfg GateConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// ── 1. Public Paths ───────────────────────────────────────────────
			for _, prefix := range cfg.PublicPrefixes {
				if strings.HasPrefix(request.URL.Path, prefix) {
					next.ServeHTTP(writer, request)
					return
				}
			}

			// ── 2. Token Extraction ───────────────────────────────────────────
			cookie, err := request.Cookie(constants.SessionCookieName)
			if err != nil || cookie.Value == "" {
				rejectUnauthenticated(writer, request, cfg, wasRemembered(request))
				return
			}

			// ── 3. Token Validation ───────────────────────────────────────────
			claims, err := verifier.Validate(cookie.Value)
			if err != nil {
				rejectUnauthenticated(writer, request, cfg, false)
				return
			}

			// ── 4. Context Injection ──────────────────────────────────────────
			ctx := ctxutil.WithSession(request.Context(), claims)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// wasRemembered reports whether the non-authoritative remember-me hint cookie
// is set. It only influences how the login redirect is tagged.
func wasRemembered(request *http.Request) bool {
	hint, err := request.Cookie(constants.RememberMeCookieName)
	return err == nil && hint.Value == "true"
}

// rejectUnauthenticated turns a gate failure into the transport-appropriate
// rejection: structured JSON for API calls, a login redirect for navigations.
func rejectUnauthenticated(writer http.ResponseWriter, request *http.Request, cfg GateConfig, autoRetry bool) {
	if strings.HasPrefix(request.URL.Path, "/api/") {
		respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
		return
	}

	target := cfg.LoginPath
	if autoRetry {
		target += "?" + url.Values{"auto": {"true"}}.Encode()
	}
	http.Redirect(writer, request, target, http.StatusFound)
}
