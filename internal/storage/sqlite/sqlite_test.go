package sqlite

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/sync/errgroup"

	"github.com/mmynk/splitledger/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleGroup() *models.Group {
	g := models.NewGroup("Ski Trip")
	alice := models.Member{ID: models.NewMemberID(), Name: "Alice"}
	bob := models.Member{ID: models.NewMemberID(), Name: "Bob"}
	charlie := models.Member{ID: models.NewMemberID(), Name: "Charlie"}
	g.Members = append(g.Members, alice, bob, charlie)
	g.Expenses = append(g.Expenses,
		models.Expense{
			ID:           models.NewExpenseID(),
			PaidBy:       alice.ID,
			AmountCents:  1000,
			Description:  "Lift passes",
			CreatedAt:    time.Date(2024, 1, 5, 9, 30, 0, 123456789, time.UTC),
			Participants: []models.MemberID{charlie.ID, alice.ID, bob.ID},
		},
		models.Expense{
			ID:           models.NewExpenseID(),
			PaidBy:       bob.ID,
			AmountCents:  250,
			Description:  "Hot chocolate",
			CreatedAt:    time.Date(2024, 1, 5, 15, 0, 0, 0, time.UTC),
			Participants: []models.MemberID{bob.ID},
		},
	)
	return g
}

func TestSQLiteStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("Save then Get round trips", func(t *testing.T) {
		original := sampleGroup()
		if err := store.Save(ctx, original); err != nil {
			t.Fatalf("Save failed: %v", err)
		}

		retrieved, err := store.Get(ctx, original.ID)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if diff := cmp.Diff(original, retrieved); diff != "" {
			t.Errorf("round trip mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("Empty group round trips", func(t *testing.T) {
		original := models.NewGroup("Empty")
		if err := store.Save(ctx, original); err != nil {
			t.Fatalf("Save failed: %v", err)
		}

		retrieved, err := store.Get(ctx, original.ID)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if diff := cmp.Diff(original, retrieved); diff != "" {
			t.Errorf("round trip mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("Save replaces the whole aggregate", func(t *testing.T) {
		g := sampleGroup()
		store.Save(ctx, g)

		g.Name = "Renamed"
		g.Members = g.Members[:1]
		g.Expenses = nil
		if err := store.Save(ctx, g); err != nil {
			t.Fatalf("Save failed: %v", err)
		}

		retrieved, err := store.Get(ctx, g.ID)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if retrieved.Name != "Renamed" {
			t.Errorf("name: expected 'Renamed', got '%s'", retrieved.Name)
		}
		if len(retrieved.Members) != 1 {
			t.Errorf("members: expected 1, got %d", len(retrieved.Members))
		}
		if len(retrieved.Expenses) != 0 {
			t.Errorf("expenses: expected 0, got %d", len(retrieved.Expenses))
		}
	})

	t.Run("Get returns NotFound for nonexistent group", func(t *testing.T) {
		_, err := store.Get(ctx, models.NewGroupID())
		if !errors.Is(err, models.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestSQLiteStore_Update(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("applies mutation", func(t *testing.T) {
		g := sampleGroup()
		store.Save(ctx, g)

		err := store.Update(ctx, g.ID, func(group *models.Group) error {
			group.Members = append(group.Members, models.Member{ID: models.NewMemberID(), Name: "Diana"})
			return nil
		})
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}

		retrieved, _ := store.Get(ctx, g.ID)
		if len(retrieved.Members) != 4 {
			t.Errorf("members: expected 4, got %d", len(retrieved.Members))
		}
		if retrieved.Members[3].Name != "Diana" {
			t.Errorf("expected appended member last, got %q", retrieved.Members[3].Name)
		}
	})

	t.Run("rolls back when mutation fails", func(t *testing.T) {
		g := sampleGroup()
		store.Save(ctx, g)
		boom := errors.New("boom")

		err := store.Update(ctx, g.ID, func(group *models.Group) error {
			group.Expenses = nil
			return boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("expected mutation error, got %v", err)
		}

		retrieved, _ := store.Get(ctx, g.ID)
		if len(retrieved.Expenses) != 2 {
			t.Errorf("expenses: expected 2, got %d", len(retrieved.Expenses))
		}
	})

	t.Run("returns NotFound for nonexistent group", func(t *testing.T) {
		err := store.Update(ctx, models.NewGroupID(), func(*models.Group) error { return nil })
		if !errors.Is(err, models.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("concurrent updates all persist", func(t *testing.T) {
		g := models.NewGroup("Party")
		store.Save(ctx, g)

		const writers = 16
		var eg errgroup.Group
		for i := 0; i < writers; i++ {
			eg.Go(func() error {
				return store.Update(ctx, g.ID, func(group *models.Group) error {
					group.Members = append(group.Members, models.Member{ID: models.NewMemberID(), Name: "Guest"})
					return nil
				})
			})
		}
		if err := eg.Wait(); err != nil {
			t.Fatalf("Update failed: %v", err)
		}

		retrieved, _ := store.Get(ctx, g.ID)
		if len(retrieved.Members) != writers {
			t.Errorf("members: expected %d, got %d", writers, len(retrieved.Members))
		}
	})
}

func TestSQLiteStore_GetSeesWholeUpdates(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	g := models.NewGroup("Festival")
	if err := store.Save(ctx, g); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	const (
		writers = 6
		rounds  = 20
		readers = 6
	)

	done := make(chan struct{})
	var writes errgroup.Group
	for i := 0; i < writers; i++ {
		writes.Go(func() error {
			for r := 0; r < rounds; r++ {
				member := models.Member{ID: models.NewMemberID(), Name: "Guest"}
				if err := store.Update(ctx, g.ID, func(group *models.Group) error {
					group.Members = append(group.Members, member)
					return nil
				}); err != nil {
					return err
				}
				if err := store.Update(ctx, g.ID, func(group *models.Group) error {
					group.Expenses = append(group.Expenses, models.Expense{
						ID:           models.NewExpenseID(),
						PaidBy:       member.ID,
						AmountCents:  300,
						Description:  "Tickets",
						CreatedAt:    time.Now().UTC(),
						Participants: []models.MemberID{member.ID},
					})
					return nil
				}); err != nil {
					return err
				}
			}
			return nil
		})
	}

	var reads errgroup.Group
	for i := 0; i < readers; i++ {
		reads.Go(func() error {
			for {
				select {
				case <-done:
					return nil
				default:
				}
				got, err := store.Get(ctx, g.ID)
				if err != nil {
					return err
				}
				for _, e := range got.Expenses {
					if !got.HasMember(e.PaidBy) {
						return fmt.Errorf("expense %s paid by %s, who is missing from %d members",
							e.ID, e.PaidBy, len(got.Members))
					}
				}
			}
		})
	}

	writeErr := writes.Wait()
	close(done)
	if err := reads.Wait(); err != nil {
		t.Errorf("Get returned a partial group: %v", err)
	}
	if writeErr != nil {
		t.Fatalf("Update failed: %v", writeErr)
	}

	final, err := store.Get(ctx, g.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(final.Members) != writers*rounds || len(final.Expenses) != writers*rounds {
		t.Errorf("expected %d members and expenses, got %d and %d",
			writers*rounds, len(final.Members), len(final.Expenses))
	}
}

func TestSQLiteStore_SaveKeepsRawValues(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	g := models.NewGroup("Unchecked")
	payer := models.Member{ID: models.NewMemberID(), Name: "Dana"}
	g.Members = append(g.Members, payer)

	tests := []struct {
		name    string
		amount  int64
		created time.Time
	}{
		{"zero time", 500, time.Time{}},
		{"far future", 500, time.Date(2500, 3, 1, 12, 0, 0, 42, time.UTC)},
		{"zero amount", 0, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
		{"negative amount", -75, time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		g.Expenses = append(g.Expenses, models.Expense{
			ID:           models.NewExpenseID(),
			PaidBy:       payer.ID,
			AmountCents:  tt.amount,
			Description:  tt.name,
			CreatedAt:    tt.created,
			Participants: []models.MemberID{payer.ID},
		})
	}

	if err := store.Save(ctx, g); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	retrieved, err := store.Get(ctx, g.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := retrieved.Expenses[i]
			if got.AmountCents != tt.amount {
				t.Errorf("amount: expected %d, got %d", tt.amount, got.AmountCents)
			}
			if !got.CreatedAt.Equal(tt.created) {
				t.Errorf("created at: expected %v, got %v", tt.created, got.CreatedAt)
			}
		})
	}
}

func TestSQLiteStore_Reopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "ledger.db")
	ctx := context.Background()

	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	original := sampleGroup()
	if err := store.Save(ctx, original); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	store.Close()

	reopened, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to reopen store: %v", err)
	}
	defer reopened.Close()

	retrieved, err := reopened.Get(ctx, original.ID)
	if err != nil {
		t.Fatalf("Get after reopen failed: %v", err)
	}
	if diff := cmp.Diff(original, retrieved); diff != "" {
		t.Errorf("reopen mismatch (-want +got):\n%s", diff)
	}
}
