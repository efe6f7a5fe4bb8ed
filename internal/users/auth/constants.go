// Copyright (c) 2026 Emailkuy. All rights reserved.
// Author: admin@emailkuy.com

package auth

import "time"

// # Authentication Constraints

const (
	// MaxLoginAttempts is how many failed attempts a client key may accumulate
	// before the lockout engages.
	MaxLoginAttempts = 5

	// LockoutDuration is the sliding window measured from the LAST failed
	// attempt. A failed attempt during an active lockout would extend it, but
	// locked-out requests are rejected before the counter is touched.
	LockoutDuration = 15 * time.Minute

	// UsernameMinLen / UsernameMaxLen bound the account name length.
	UsernameMinLen = 3
	UsernameMaxLen = 20

	// PasswordMinLen / PasswordMaxLen bound the password length.
	PasswordMinLen = 8
	PasswordMaxLen = 20
)
