// Copyright (c) 2026 Emailkuy. All rights reserved.
// Author: admin@emailkuy.com

package auth

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emailkuy/emailkuy/internal/platform/apperr"
	"github.com/emailkuy/emailkuy/internal/platform/sec"
)

// fakeUserRepository serves a fixed set of accounts from memory.
type fakeUserRepository struct {
	users   map[string]*User
	created []*User

	// findErr simulates an infrastructure failure on lookups.
	findErr error
}

func (f *fakeUserRepository) FindByUsername(_ context.Context, username string) (*User, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	if user, ok := f.users[username]; ok {
		return user, nil
	}
	return nil, apperr.NotFound("User")
}

func (f *fakeUserRepository) FindByID(_ context.Context, id string) (*User, error) {
	for _, user := range f.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (f *fakeUserRepository) Create(_ context.Context, user *User) error {
	f.created = append(f.created, user)
	f.users[user.Username] = user
	return nil
}

func (f *fakeUserRepository) Count(_ context.Context) (int, error) {
	return len(f.users), nil
}

// fakeIssuer returns a predictable token without real signing.
type fakeIssuer struct {
	lastRememberMe bool
}

func (f *fakeIssuer) Issue(userID, username string, rememberMe bool) (string, error) {
	f.lastRememberMe = rememberMe
	return "token-for-" + username, nil
}

func newLoginFixture(t *testing.T) (*Service, *fakeIssuer) {
	t.Helper()

	hash, err := sec.HashPassword("Cantik123")
	require.NoError(t, err)

	repo := &fakeUserRepository{users: map[string]*User{
		"windaa": {
			ID:           "user-1",
			Username:     "windaa",
			Email:        "windaa@emailkuy.com",
			PasswordHash: hash,
			IsActive:     true,
		},
	}}

	issuer := &fakeIssuer{}
	return NewService(repo, NewLockoutGuard(), issuer), issuer
}

func TestAttemptLogin_Success(t *testing.T) {
	service, issuer := newLoginFixture(t)

	result, err := service.AttemptLogin(context.Background(), LoginInput{
		Username:   "windaa",
		Password:   "Cantik123",
		RememberMe: true,
		ClientKey:  "10.0.0.1",
	})

	require.NoError(t, err)
	assert.Equal(t, "token-for-windaa", result.Token)
	assert.Equal(t, "windaa", result.User.Username)
	assert.True(t, result.RememberMe)
	assert.True(t, issuer.lastRememberMe)
	assert.Equal(t, sec.RememberedMaxAge, result.ExpiresIn)
}

func TestAttemptLogin_NormalSessionWindow(t *testing.T) {
	service, _ := newLoginFixture(t)

	result, err := service.AttemptLogin(context.Background(), LoginInput{
		Username:  "windaa",
		Password:  "Cantik123",
		ClientKey: "10.0.0.1",
	})

	require.NoError(t, err)
	assert.Equal(t, sec.SessionMaxAge, result.ExpiresIn)
}

func TestAttemptLogin_ValidationFailureCountsAsAttempt(t *testing.T) {
	service, _ := newLoginFixture(t)

	// "short1" violates the 8-character minimum (and the complexity rule).
	_, err := service.AttemptLogin(context.Background(), LoginInput{
		Username:  "windaa",
		Password:  "short1",
		ClientKey: "10.0.0.1",
	})

	require.Error(t, err)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "VALIDATION_ERROR", appError.Code)
	require.NotNil(t, appError.RemainingAttempts)
	assert.Equal(t, MaxLoginAttempts-1, *appError.RemainingAttempts)

	fieldNames := make([]string, 0, len(appError.Details))
	for _, detail := range appError.Details {
		fieldNames = append(fieldNames, detail.Field)
	}
	assert.Contains(t, fieldNames, FieldPassword)
}

func TestAttemptLogin_WrongPasswordIsGeneric(t *testing.T) {
	service, _ := newLoginFixture(t)

	_, err := service.AttemptLogin(context.Background(), LoginInput{
		Username:  "windaa",
		Password:  "WrongPass1",
		ClientKey: "10.0.0.1",
	})

	require.Error(t, err)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, http.StatusUnauthorized, appError.HTTPStatus)
	assert.Equal(t, "Invalid username or password", appError.Message)
}

func TestAttemptLogin_UnknownUserMatchesWrongPassword(t *testing.T) {
	service, _ := newLoginFixture(t)

	_, unknownErr := service.AttemptLogin(context.Background(), LoginInput{
		Username:  "nobody99",
		Password:  "WrongPass1",
		ClientKey: "10.0.0.1",
	})
	_, wrongErr := service.AttemptLogin(context.Background(), LoginInput{
		Username:  "windaa",
		Password:  "WrongPass1",
		ClientKey: "10.0.0.2",
	})

	// Identical messages prevent account enumeration.
	require.Error(t, unknownErr)
	require.Error(t, wrongErr)
	assert.Equal(t, wrongErr.Error(), unknownErr.Error())
}

func TestAttemptLogin_RepositoryOutageIsNotACredentialFailure(t *testing.T) {
	service, _ := newLoginFixture(t)

	repo := service.userRepository.(*fakeUserRepository)
	repo.findErr = errors.New("connection refused")

	_, err := service.AttemptLogin(context.Background(), LoginInput{
		Username:  "windaa",
		Password:  "Cantik123",
		ClientKey: "10.0.0.1",
	})

	// The outage must surface as an internal error, never as the generic
	// 401 that would mislead the user.
	require.Error(t, err)
	assert.Nil(t, apperr.As(err))
	assert.NotContains(t, err.Error(), "Invalid username or password")

	// And it must not burn the client's attempt budget: the next real
	// failure still reports the full budget.
	repo.findErr = nil
	_, err = service.AttemptLogin(context.Background(), LoginInput{
		Username:  "windaa",
		Password:  "WrongPass1",
		ClientKey: "10.0.0.1",
	})
	require.Error(t, err)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	require.NotNil(t, appError.RemainingAttempts)
	assert.Equal(t, MaxLoginAttempts-1, *appError.RemainingAttempts)
}

func TestAttemptLogin_InactiveAccountCountsAndStaysGeneric(t *testing.T) {
	service, _ := newLoginFixture(t)

	hash, err := sec.HashPassword("Sleepy123")
	require.NoError(t, err)

	repo := service.userRepository.(*fakeUserRepository)
	repo.users["dormant"] = &User{
		ID:           "user-2",
		Username:     "dormant",
		PasswordHash: hash,
		IsActive:     false,
	}

	_, loginErr := service.AttemptLogin(context.Background(), LoginInput{
		Username:  "dormant",
		Password:  "Sleepy123",
		ClientKey: "10.0.0.1",
	})

	require.Error(t, loginErr)
	appError := apperr.As(loginErr)
	require.NotNil(t, appError)
	assert.Equal(t, "Invalid username or password", appError.Message)
	require.NotNil(t, appError.RemainingAttempts)
	assert.Equal(t, MaxLoginAttempts-1, *appError.RemainingAttempts)
}

func TestAttemptLogin_SixthAttemptIsLockedOut(t *testing.T) {
	service, _ := newLoginFixture(t)

	for i := 0; i < MaxLoginAttempts; i++ {
		_, err := service.AttemptLogin(context.Background(), LoginInput{
			Username:  "windaa",
			Password:  "WrongPass1",
			ClientKey: "10.0.0.1",
		})
		require.Error(t, err)
		assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)
	}

	// The sixth attempt is rejected before credentials are even examined:
	// the correct password no longer helps.
	_, err := service.AttemptLogin(context.Background(), LoginInput{
		Username:  "windaa",
		Password:  "Cantik123",
		ClientKey: "10.0.0.1",
	})

	require.Error(t, err)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "LOCKED_OUT", appError.Code)
	assert.Equal(t, http.StatusTooManyRequests, appError.HTTPStatus)
	assert.Equal(t, 15, appError.RetryAfterMinutes)
}

func TestAttemptLogin_SuccessResetsCounter(t *testing.T) {
	service, _ := newLoginFixture(t)

	for i := 0; i < MaxLoginAttempts-1; i++ {
		_, err := service.AttemptLogin(context.Background(), LoginInput{
			Username:  "windaa",
			Password:  "WrongPass1",
			ClientKey: "10.0.0.1",
		})
		require.Error(t, err)
	}

	_, err := service.AttemptLogin(context.Background(), LoginInput{
		Username:  "windaa",
		Password:  "Cantik123",
		ClientKey: "10.0.0.1",
	})
	require.NoError(t, err)

	// After the successful login the slate is clean: a fresh failure reports
	// the full budget again.
	_, err = service.AttemptLogin(context.Background(), LoginInput{
		Username:  "windaa",
		Password:  "WrongPass1",
		ClientKey: "10.0.0.1",
	})
	require.Error(t, err)
	appError := apperr.As(err)
	require.NotNil(t, appError.RemainingAttempts)
	assert.Equal(t, MaxLoginAttempts-1, *appError.RemainingAttempts)
}

func TestSetup_CreatesInitialAccountOnce(t *testing.T) {
	repo := &fakeUserRepository{users: map[string]*User{}}
	service := NewService(repo, NewLockoutGuard(), &fakeIssuer{})

	user, err := service.Setup(context.Background(), SetupInput{
		Username: "windaa",
		Password: "Cantik123",
		Email:    "windaa@emailkuy.com",
	})

	require.NoError(t, err)
	assert.Equal(t, "windaa", user.Username)
	assert.True(t, user.IsActive)
	assert.NotEmpty(t, user.ID)
	assert.NotEqual(t, "Cantik123", user.PasswordHash)

	// Second run must conflict: setup is one-shot.
	_, err = service.Setup(context.Background(), SetupInput{
		Username: "intruder",
		Password: "Sneaky123",
	})
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperr.As(err).Code)
}
