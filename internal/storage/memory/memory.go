// Package memory provides an in-process implementation of the storage.Store interface.
// Nothing survives a restart.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/im7mortal/kmutex"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// Ensure Store implements storage.Store
var _ storage.Store = (*Store)(nil)

// Store keeps every group in one map guarded by a single RWMutex.
// Update additionally serializes on a per-group keyed mutex so a
// read-modify-write cycle is never interleaved with another on the same group,
// while groups with different IDs proceed independently.
type Store struct {
	mu     sync.RWMutex
	groups map[models.GroupID]*models.Group

	keys *kmutex.Kmutex
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		groups: make(map[models.GroupID]*models.Group),
		keys:   kmutex.New(),
	}
}

// Save stores a copy of group, replacing any previous value.
func (s *Store) Save(_ context.Context, group *models.Group) error {
	c := group.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.groups[c.ID] = c
	return nil
}

// Get returns a copy of the stored group.
func (s *Store) Get(_ context.Context, id models.GroupID) (*models.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.groups[id]
	if !ok {
		return nil, fmt.Errorf("%w: group %s", models.ErrNotFound, id)
	}
	return g.Clone(), nil
}

// Update applies fn to the group under the group's keyed lock.
func (s *Store) Update(ctx context.Context, id models.GroupID, fn storage.MutateFunc) error {
	s.keys.Lock(id)
	defer s.keys.Unlock(id)

	g, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := fn(g); err != nil {
		return err
	}
	// The mutation must not move the group to another key.
	g.ID = id
	return s.Save(ctx, g)
}

// Close is a no-op; it exists to satisfy storage.Store.
func (s *Store) Close() error {
	return nil
}
