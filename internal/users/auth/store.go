// Copyright (c) 2026 Emailkuy. All rights reserved.
// Author: admin@emailkuy.com

package auth

import "context"

// # User Data Access

// UserRepository defines the data access contract for operator accounts.
type UserRepository interface {

	/*
		FindByUsername returns the account with the given username.

		Parameters:
		  - context: context.Context
		  - username: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByUsername(context context.Context, username string) (*User, error)

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		Create persists a brand-new operator account to the storage.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, user *User) error

	/*
		Count returns the total number of registered accounts.

		Parameters:
		  - context: context.Context

		Returns:
		  - int: Number of accounts
		  - error: Database retrieval failures
	*/
	Count(context context.Context) (int, error)
}
