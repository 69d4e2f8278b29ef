package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the store.
	// This is a generic version of the entity-specific not found errors.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would create a duplicate
	// of a unique entity (e.g., two learning items for one user and term).
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when an entity fails validation before
	// being stored. Check the wrapped error for specific validation details.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrUpdateFailed is returned when an update operation fails, for example
	// because the entity does not exist or the update violates constraints.
	ErrUpdateFailed = errors.New("update failed")

	// ErrTransactionFailed is returned when a database transaction fails
	// to commit or when an operation within a transaction fails.
	ErrTransactionFailed = errors.New("transaction failed")

	// Entity-specific "not found" errors

	// ErrUserNotFound indicates that the requested user does not exist in the store.
	ErrUserNotFound = fmt.Errorf("%w: user", ErrNotFound)

	// ErrLearningItemNotFound indicates that the requested learning item does not exist.
	ErrLearningItemNotFound = fmt.Errorf("%w: learning item", ErrNotFound)

	// ErrDeliveryNotFound indicates that the requested delivery does not exist.
	ErrDeliveryNotFound = fmt.Errorf("%w: delivery", ErrNotFound)

	// ErrTermNotFound indicates that the requested term does not exist.
	ErrTermNotFound = fmt.Errorf("%w: term", ErrNotFound)

	// ErrSubjectNotFound indicates that the requested subject does not exist.
	ErrSubjectNotFound = fmt.Errorf("%w: subject", ErrNotFound)

	// ErrQuotaWindowNotFound indicates that the requested quota window does not exist.
	ErrQuotaWindowNotFound = fmt.Errorf("%w: quota window", ErrNotFound)

	// Entity-specific "duplicate" errors

	// ErrLearningItemExists indicates that a learning item already exists for
	// the (user, term) pair. Callers on the generation path recover from this
	// by re-reading the winning record.
	ErrLearningItemExists = fmt.Errorf("%w: learning item", ErrDuplicate)

	// ErrTermExists indicates that a term with the same text already exists
	// for the subject.
	ErrTermExists = fmt.Errorf("%w: term", ErrDuplicate)

	// ErrEmailExists indicates that a user with the given email already exists.
	ErrEmailExists = fmt.Errorf("%w: email", ErrDuplicate)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError checks if the error is any kind of "duplicate" error.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}
