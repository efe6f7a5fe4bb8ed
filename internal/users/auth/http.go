// Copyright (c) 2026 Emailkuy. All rights reserved.
// Author: admin@emailkuy.com

/*
HTTP delivery layer for operator authentication.

The handler acts as a thin mediation layer between the web and the domain
service:
  - Protocol: Standard RESTful JSON interface.
  - Security: Owns session cookie injection and clearing.
  - Verification: Delegates credential checks and lockout to [Service].

This layer is strictly responsible for transport concerns (status codes,
headers, cookies, JSON).
*/
package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/emailkuy/emailkuy/internal/platform/constants"
	"github.com/emailkuy/emailkuy/internal/platform/middleware"
	requestutil "github.com/emailkuy/emailkuy/internal/platform/request"
	"github.com/emailkuy/emailkuy/internal/platform/respond"
	"github.com/emailkuy/emailkuy/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements authentication-related HTTP endpoints.
type Handler struct {
	authService *Service

	// tokenVerifier lets the session endpoint revalidate the cookie token
	// independently of the request gate (the endpoint itself is public).
	tokenVerifier middleware.TokenVerifier

	// bootstrap holds the configured one-shot setup credentials.
	bootstrap SetupInput

	// isProduction toggles the Secure cookie attribute.
	isProduction bool
}

// NewHandler constructs a new [Handler] with its dependencies.
func NewHandler(service *Service, verifier middleware.TokenVerifier, bootstrap SetupInput, isProduction bool) *Handler {
	return &Handler{
		authService:   service,
		tokenVerifier: verifier,
		bootstrap:     bootstrap,
		isProduction:  isProduction,
	}
}

// Routes returns a [chi.Router] configured with authentication routes.
//
// # Endpoints
//   - POST /login   : Authenticates and sets the session cookie.
//   - POST /logout  : Clears the session and hint cookies.
//   - GET  /session : Reports whether the current cookie is still valid.
//   - POST /setup   : One-shot bootstrap of the initial operator account.
//
// All four are public: the request gate allowlists this whole subtree.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/login", handler.login)
	router.Post("/logout", handler.logout)
	router.Get("/session", handler.session)
	router.Post("/setup", handler.setup)

	return router
}

// # Request Payloads

type loginRequest struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	RememberMe bool   `json:"remember_me"`
}

type sessionUser struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	RememberMe bool   `json:"remember_me"`
}

/*
Login authenticates an operator and establishes a cookie session.

POST /api/v1/auth/login

Description: Verifies credentials through the lockout-guarded service, then
injects the signed session token cookie. When remember_me is set, the cookie
lifetime extends to 24h and a non-authoritative hint cookie is added so the
client can attempt silent re-login after expiry.

Request:
  - Body: loginRequest (Username, Password, RememberMe)

Response:
  - 200: Session: Token, user profile, and cookie lifetime
  - 400: ErrValidation: Malformed credentials (counts as an attempt)
  - 401: ErrUnauthorized: Invalid credentials (counts as an attempt)
  - 429: ErrLockedOut: Too many attempts; minutes remaining included
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	result, err := handler.authService.AttemptLogin(request.Context(), LoginInput{
		Username:   input.Username,
		Password:   input.Password,
		RememberMe: input.RememberMe,
		ClientKey:  middleware.RealIP(request),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	cookieMaxAge := int(result.ExpiresIn.Seconds())

	http.SetCookie(writer, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    result.Token,
		Path:     constants.SessionCookiePath,
		MaxAge:   cookieMaxAge,
		Secure:   handler.isProduction,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	if result.RememberMe {
		// Hint cookie is readable by the client (not HttpOnly) so the login
		// page can offer silent re-authentication. It proves nothing.
		http.SetCookie(writer, &http.Cookie{
			Name:     constants.RememberMeCookieName,
			Value:    "true",
			Path:     constants.SessionCookiePath,
			MaxAge:   cookieMaxAge,
			Secure:   handler.isProduction,
			HttpOnly: false,
			SameSite: http.SameSiteLaxMode,
		})
	}

	respond.OK(writer, map[string]any{
		FieldToken:      result.Token,
		FieldUser:       result.User,
		FieldRememberMe: result.RememberMe,
		FieldExpiresIn:  cookieMaxAge,
	})
}

/*
Logout clears the session.

POST /api/v1/auth/logout

Description: Expires both the session cookie and the remember-me hint.
Because all session state lives in the token, there is nothing server-side
to revoke; logout always succeeds, even with no active session.

Response:
  - 200: Success: Session cleared
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	clearCookie := func(name string, httpOnly bool) {
		http.SetCookie(writer, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     constants.SessionCookiePath,
			MaxAge:   -1,
			Secure:   handler.isProduction,
			HttpOnly: httpOnly,
			SameSite: http.SameSiteLaxMode,
		})
	}

	clearCookie(constants.SessionCookieName, true)
	clearCookie(constants.RememberMeCookieName, false)

	respond.OK(writer, map[string]string{
		FieldMessage: "Logged out",
	})
}

/*
Session reports whether the current cookie session is still valid.

GET /api/v1/auth/session

Description: Revalidates the session token exactly as the gate would
(signature + age policy). The endpoint itself is public and always returns
200; invalidity is expressed in the body, never as an error status.

Response:
  - 200: {valid: false} or {valid: true, user: {id, username, remember_me}}
*/
func (handler *Handler) session(writer http.ResponseWriter, request *http.Request) {
	cookie, err := request.Cookie(constants.SessionCookieName)
	if err != nil || cookie.Value == "" {
		respond.OK(writer, map[string]any{FieldValid: false})
		return
	}

	claims, err := handler.tokenVerifier.Validate(cookie.Value)
	if err != nil {
		respond.OK(writer, map[string]any{FieldValid: false})
		return
	}

	respond.OK(writer, map[string]any{
		FieldValid: true,
		FieldUser: sessionUser{
			ID:         claims.UserID,
			Username:   claims.Username,
			RememberMe: claims.RememberMe,
		},
	})
}

/*
Setup bootstraps the initial operator account.

POST /api/v1/auth/setup

Description: Creates the account from the credentials supplied via
configuration. Conflicts permanently once any account exists.

Response:
  - 201: User: Created operator account
  - 409: ErrConflict: Setup already completed
  - 400: ErrValidation: Bootstrap credentials not configured or invalid
*/
func (handler *Handler) setup(writer http.ResponseWriter, request *http.Request) {
	if handler.bootstrap.Username == "" || handler.bootstrap.Password == "" {
		respond.Error(writer, request,
			validate.RequiredError(FieldUsername, "Bootstrap credentials are not configured"))
		return
	}

	user, err := handler.authService.Setup(request.Context(), handler.bootstrap)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user)
}
