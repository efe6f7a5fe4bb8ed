// Copyright (c) 2026 Emailkuy. All rights reserved.
// Author: admin@emailkuy.com

package auth

import (
	"sync"
	"time"
)

// attemptCounter tracks consecutive failed logins for one client key.
type attemptCounter struct {
	count       int
	lastAttempt time.Time
}

// LockoutGuard throttles brute-force login attempts per client key.
//
// # Semantics
//
// A key accumulating [MaxLoginAttempts] failures is locked for
// [LockoutDuration] measured from its LAST failed attempt. Failed entries
// accumulate: window expiry only stops the lockout from being reported,
// so a single post-expiry failure re-locks the key immediately. Only a
// successful login deletes the counter. Counters live in process memory
// only: a restart forgives every lockout, which is an accepted trade-off
// for a single-operator deployment.
//
// # Concurrency
//
// All counter access is serialized with one mutex so that concurrent
// attempts for the same key can never lose an increment.
type LockoutGuard struct {
	mu       sync.Mutex
	attempts map[string]*attemptCounter

	// now is replaceable in tests to exercise window expiry.
	now func() time.Time
}

// NewLockoutGuard constructs an empty guard.
func NewLockoutGuard() *LockoutGuard {
	return &LockoutGuard{
		attempts: make(map[string]*attemptCounter),
		now:      time.Now,
	}
}

/*
Check reports whether the client key is currently locked out.

Parameters:
  - clientKey: string (normally the client IP)

Returns:
  - locked: bool
  - minutesRemaining: int (whole minutes until the lockout lifts, rounded up; 0 when unlocked)
*/
func (guard *LockoutGuard) Check(clientKey string) (locked bool, minutesRemaining int) {
	guard.mu.Lock()
	defer guard.mu.Unlock()

	counter, found := guard.attempts[clientKey]
	if !found || counter.count < MaxLoginAttempts {
		return false, 0
	}

	elapsed := guard.now().Sub(counter.lastAttempt)
	if elapsed >= LockoutDuration {
		// The window has lapsed: the key is no longer reported as locked,
		// but the accumulated count stays. Only a successful login (or a
		// restart) forgives it, so the very next failure re-locks.
		return false, 0
	}

	remaining := LockoutDuration - elapsed
	minutes := int((remaining + time.Minute - 1) / time.Minute)
	return true, minutes
}

/*
RecordFailure increments the key's counter and stamps the attempt time.

Returns:
  - remaining: int (attempts left before the lockout engages; never below 0)
*/
func (guard *LockoutGuard) RecordFailure(clientKey string) (remaining int) {
	guard.mu.Lock()
	defer guard.mu.Unlock()

	counter, found := guard.attempts[clientKey]
	if !found {
		counter = &attemptCounter{}
		guard.attempts[clientKey] = counter
	}

	counter.count++
	counter.lastAttempt = guard.now()

	remaining = MaxLoginAttempts - counter.count
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}

// Clear removes the counter after a successful login.
func (guard *LockoutGuard) Clear(clientKey string) {
	guard.mu.Lock()
	defer guard.mu.Unlock()
	delete(guard.attempts, clientKey)
}
