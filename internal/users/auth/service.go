// Copyright (c) 2026 Emailkuy. All rights reserved.
// Author: admin@emailkuy.com

/*
Package auth implements the operator login flow.

It verifies credentials, enforces the brute-force lockout policy, and issues
signed session tokens that carry the full session state.

Architecture:

  - Service: Orchestrates business logic (AttemptLogin, Setup).
  - LockoutGuard: In-memory per-client attempt throttling.
  - Repository: Abstracted interface for Postgres account storage.
  - Security: Bcrypt password hashes and HMAC-signed session tokens.
*/
package auth

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/emailkuy/emailkuy/internal/platform/apperr"
	"github.com/emailkuy/emailkuy/internal/platform/sec"
	"github.com/emailkuy/emailkuy/internal/platform/validate"
	"github.com/emailkuy/emailkuy/pkg/uuid"
)

// # Contracts & Types

// TokenIssuer defines the contract for creating signed session tokens.
type TokenIssuer interface {
	// Issue creates a signed session token for an authenticated subject.
	//
	// # Parameters
	//   - userID: The ID of the account.
	//   - username: The username of the account.
	//   - rememberMe: Selects the extended validity window.
	//
	// # Returns
	//   - A signed token string, or an error if signing fails.
	Issue(userID, username string, rememberMe bool) (string, error)
}

// Service implements operator authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to the lockout ordering
// or credential checks must be reviewed carefully: the lockout check MUST
// run before validation so a locked-out client learns nothing about input
// shape, and every failure after it MUST count against the client.
type Service struct {
	userRepository UserRepository
	lockoutGuard   *LockoutGuard
	tokenIssuer    TokenIssuer
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(userRepo UserRepository, guard *LockoutGuard, issuer TokenIssuer) *Service {
	return &Service{
		userRepository: userRepo,
		lockoutGuard:   guard,
		tokenIssuer:    issuer,
	}
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Username   string
	Password   string
	RememberMe bool

	// ClientKey identifies the attempting client for lockout accounting
	// (normally the client IP as resolved by middleware.RealIP).
	ClientKey string
}

// LoginResult represents a successfully established session.
type LoginResult struct {
	Token      string
	User       *User
	RememberMe bool

	// ExpiresIn is the cookie lifetime matching the token's validity window.
	ExpiresIn time.Duration
}

/*
AttemptLogin validates credentials and issues a signed session token.

Description: Runs the full guarded login sequence. The lockout check comes
first; every subsequent failure (malformed input OR bad credentials) counts
against the client key, and only a fully successful login clears it.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *LoginResult: Transport-ready session material
  - error: LockedOut, ValidationError, Unauthorized, or internal failures
*/
func (service *Service) AttemptLogin(context context.Context, input LoginInput) (*LoginResult, error) {

	// ── 1. Lockout Check ──────────────────────────────────────────────────
	// A locked-out client is rejected before anything else; the counter is
	// not touched so the lockout window does not extend itself.
	if locked, minutes := service.lockoutGuard.Check(input.ClientKey); locked {
		return nil, apperr.LockedOut(minutes)
	}

	// ── 2. Input Validation ───────────────────────────────────────────────
	// Shape failures count as attempts: probing with garbage is still probing.
	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username).
		MinLen(FieldUsername, input.Username, UsernameMinLen).
		MaxLen(FieldUsername, input.Username, UsernameMaxLen).
		Username(FieldUsername, input.Username).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, PasswordMinLen).
		MaxLen(FieldPassword, input.Password, PasswordMaxLen).
		Password(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		remaining := service.lockoutGuard.RecordFailure(input.ClientKey)
		if appError := apperr.As(err); appError != nil {
			return nil, appError.WithRemainingAttempts(remaining)
		}
		return nil, err
	}

	// ── 3. Credential Verification ────────────────────────────────────────
	// Missing account, wrong password, and inactive account all collapse
	// into one generic message to prevent account enumeration. An
	// infrastructure failure is NOT a credential failure: it surfaces as a
	// 500 and never burns the client's attempt budget.
	user, err := service.userRepository.FindByUsername(context, input.Username)
	if err != nil {
		if appError := apperr.As(err); appError != nil && appError.HTTPStatus == http.StatusNotFound {
			return nil, service.failCredentials(input.ClientKey)
		}
		return nil, fmt.Errorf("auth_service_find_user_failed: %w", err)
	}

	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, service.failCredentials(input.ClientKey)
	}

	if !user.IsActive {
		return nil, service.failCredentials(input.ClientKey)
	}

	// ── 4. Session Establishment ──────────────────────────────────────────
	service.lockoutGuard.Clear(input.ClientKey)

	token, err := service.tokenIssuer.Issue(user.ID, user.Username, input.RememberMe)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_issue_failed: %w", err)
	}

	expiresIn := sec.SessionMaxAge
	if input.RememberMe {
		expiresIn = sec.RememberedMaxAge
	}

	return &LoginResult{
		Token:      token,
		User:       user,
		RememberMe: input.RememberMe,
		ExpiresIn:  expiresIn,
	}, nil
}

// failCredentials records a failed attempt and returns the generic 401.
func (service *Service) failCredentials(clientKey string) error {
	remaining := service.lockoutGuard.RecordFailure(clientKey)
	return apperr.Unauthorized("Invalid username or password").WithRemainingAttempts(remaining)
}

// # Bootstrap Flow

// SetupInput holds the configured credentials for the initial operator account.
type SetupInput struct {
	Username string
	Password string
	Email    string
}

/*
Setup creates the initial operator account from configured credentials.

Description: One-shot bootstrapping for a fresh deployment. Once any account
exists the endpoint permanently conflicts, so leaked setup credentials cannot
overwrite a live account.

Parameters:
  - context: context.Context
  - input: SetupInput

Returns:
  - *User: The created account
  - error: Conflict (account already exists), validation, or storage failures
*/
func (service *Service) Setup(context context.Context, input SetupInput) (*User, error) {
	total, err := service.userRepository.Count(context)
	if err != nil {
		return nil, fmt.Errorf("auth_service_setup_count_failed: %w", err)
	}
	if total > 0 {
		return nil, apperr.Conflict("Setup has already been completed")
	}

	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username).
		MinLen(FieldUsername, input.Username, UsernameMinLen).
		MaxLen(FieldUsername, input.Username, UsernameMaxLen).
		Username(FieldUsername, input.Username).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, PasswordMinLen).
		MaxLen(FieldPassword, input.Password, PasswordMaxLen).
		Password(FieldPassword, input.Password)

	if input.Email != "" {
		validator.Email(FieldEmail, input.Email)
	}

	if err := validator.Err(); err != nil {
		return nil, err
	}

	// Prevent storing plain-text passwords. Default cost balances security
	// and CPU utilization.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_setup_hash_failed: %w", err)
	}

	// Time-sortable ID to prevent PG index fragmentation.
	user := &User{
		ID:           uuid.New(),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hashedPassword,
		DisplayName:  input.Username,
		IsActive:     true,
	}

	if err := service.userRepository.Create(context, user); err != nil {
		return nil, fmt.Errorf("auth_service_setup_create_failed: %w", err)
	}

	return user, nil
}
