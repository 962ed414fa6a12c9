package repository

import "errors"

var (
	// ErrNotFound means no document matched both the id and the owner filter.
	// Deliberately indistinguishable from "exists but belongs to another user".
	ErrNotFound = errors.New("not found")

	// ErrDuplicateKey means a uniqueness constraint was violated
	// (user email/username, health record national id).
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrInvalidSearch means the search criteria could not be turned into a
	// filter (unknown type, unparseable date).
	ErrInvalidSearch = errors.New("invalid search criteria")
)
