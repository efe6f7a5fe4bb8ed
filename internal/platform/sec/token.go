// Copyright (c) 2026 Emailkuy. All rights reserved.
// Author: admin@emailkuy.com

// Package sec provides cryptographic primitives and session token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, Token Signing) from
// the domain logic. It acts as an Infrastructure service injected into the
// Application layer via the auth.TokenIssuer and middleware.TokenVerifier
// interfaces.
package sec

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session validity windows, keyed by the remember-me flag fixed at issuance.
//
// The validator recomputes the token age from the issued-at claim on every
// request. No expiry claim is embedded in the token: the recomputed age
// against these windows is the single authority on validity.
const (
	// SessionMaxAge is how long a normal session token stays valid.
	SessionMaxAge = 1 * time.Hour

	// RememberedMaxAge is how long a remember-me session token stays valid.
	RememberedMaxAge = 24 * time.Hour
)

// minSecretLength guards against weak shared secrets at startup.
const minSecretLength = 16

// SessionClaims is the claim set embedded inside a signed session token.
//
// # Why custom claims?
//
// By embedding the UserID, Username, and RememberMe flag directly inside the
// token, the request gate can reconstruct the active session WITHOUT querying
// the database on any gated request. All session state lives in the token.
type SessionClaims struct {
	jwt.RegisteredClaims

	// Custom application claims are abbreviated to keep the token payload small.
	UserID     string `json:"uid"`
	Username   string `json:"unm"`
	RememberMe bool   `json:"rmb"`
}

// MaxAge returns the validity window selected by the remember-me flag.
func (claims *SessionClaims) MaxAge() time.Duration {
	if claims.RememberMe {
		return RememberedMaxAge
	}
	return SessionMaxAge
}

// TokenService issues and validates HMAC-signed session tokens (HS256).
type TokenService struct {
	secret []byte
	issuer string

	// now is replaceable in tests to exercise the age policy.
	now func() time.Time
}

// NewTokenService creates a new TokenService from the shared signing secret.
//
// A missing or short secret is a fatal misconfiguration: the caller is
// expected to abort startup, never to serve traffic unsigned.
func NewTokenService(secret, issuer string) (*TokenService, error) {
	if len(secret) < minSecretLength {
		return nil, fmt.Errorf("sec: session secret must be at least %d bytes", minSecretLength)
	}

	return &TokenService{
		secret: []byte(secret),
		issuer: issuer,
		now:    time.Now,
	}, nil
}

// Issue creates a signed session token for an already-authenticated subject.
//
// The remember-me flag and the issuance timestamp are fixed into the claims
// and never change for the token's lifetime.
func (service *TokenService) Issue(userID, username string, rememberMe bool) (string, error) {
	currentTime := service.now()
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  userID,
			Issuer:   service.issuer,
			IssuedAt: jwt.NewNumericDate(currentTime),
		},
		UserID:     userID,
		Username:   username,
		RememberMe: rememberMe,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// Validate checks the signature of a session token and applies the age policy.
//
// # Flow
//  1. Verify the HMAC signature against the shared secret. Any structural or
//     cryptographic mismatch fails closed.
//  2. Recompute age = now - issued_at and compare it against the window
//     selected by the remember-me claim. Age strictly greater than the
//     window invalidates; age equal to the window is still valid.
//
// Callers must treat every returned error identically (invalid token); the
// error text exists for logs only.
func (service *TokenService) Validate(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
			}
			return service.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)

	if err != nil {
		return nil, fmt.Errorf("sec: invalid token: %w", err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("sec: invalid token claims")
	}

	if claims.IssuedAt == nil {
		return nil, fmt.Errorf("sec: token missing issued-at claim")
	}

	age := service.now().Sub(claims.IssuedAt.Time)
	if age > claims.MaxAge() {
		return nil, fmt.Errorf("sec: token expired (age %s exceeds %s window)", age, claims.MaxAge())
	}

	return claims, nil
}
