// Package storage provides abstractions for group storage.
package storage

import (
	"context"

	"github.com/mmynk/splitledger/internal/models"
)

// MutateFunc changes a group in place during Store.Update.
// Returning an error aborts the update; nothing is saved.
type MutateFunc func(group *models.Group) error

// Store defines the interface for group storage operations.
// Groups are read and written as whole aggregates. This abstraction allows
// swapping storage backends (in-memory, SQLite, ...) without changing the
// service layer.
type Store interface {
	// Save upserts the full group keyed by its ID. Any prior value is
	// overwritten unconditionally (last writer wins). Stores do not validate
	// contents; every implementation keeps what it is given.
	Save(ctx context.Context, group *models.Group) error

	// Get returns a deep copy of the stored group.
	// Returns an error wrapping models.ErrNotFound if no such group exists.
	Get(ctx context.Context, id models.GroupID) (*models.Group, error)

	// Update runs a read-modify-write cycle on one group while holding an
	// exclusive lock on that group ID, so concurrent updates of the same
	// group never lose each other's changes. fn receives a private copy;
	// it is saved only if fn returns nil. Errors from fn are returned as is.
	Update(ctx context.Context, id models.GroupID, fn MutateFunc) error

	// Close releases any resources held by the store.
	Close() error
}
