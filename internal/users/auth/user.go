// Copyright (c) 2026 Emailkuy. All rights reserved.
// Author: admin@emailkuy.com

/*
Package auth implements operator identity and session establishment.

It defines the core domain entities (User) and the logic for credential
verification, login lockout, and signed session token issuance.

# Architecture

This layer is the "Truth" of the system. Entities defined here have no external
dependencies and encapsulate all business rules related to operator identity.
*/
package auth

import "time"

// # Domain Entities

// User represents an operator account allowed to manage routing rules.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Explicitly omitted from JSON for security.
	DisplayName  string    `json:"display_name"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldUsername   = "username"
	FieldEmail      = "email"
	FieldPassword   = "password"
	FieldRememberMe = "remember_me"
	FieldToken      = "token"
	FieldUser       = "user"
	FieldValid      = "valid"
	FieldExpiresIn  = "expires_in"
	FieldMessage    = "message"
)
