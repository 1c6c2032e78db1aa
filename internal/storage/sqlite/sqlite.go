// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/im7mortal/kmutex"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
// A group is stored across four tables and always rewritten as a whole.
type SQLiteStore struct {
	db   *sql.DB
	keys *kmutex.Kmutex
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Pragmas go in the DSN so every pooled connection gets them.
	dsn := dbPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite allows a single writer; one connection keeps transactions from
	// failing with SQLITE_BUSY under concurrent use.
	db.SetMaxOpenConns(1)

	// Run migrations
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db, keys: kmutex.New()}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Save replaces the stored group and all of its members and expenses.
func (s *SQLiteStore) Save(ctx context.Context, group *models.Group) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return saveGroup(ctx, tx, group)
	})
}

// Get retrieves a group by ID, including all members and expenses.
// The reads share one transaction so a concurrent Update is seen entirely or not at all.
func (s *SQLiteStore) Get(ctx context.Context, id models.GroupID) (*models.Group, error) {
	var group *models.Group
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		group, err = getGroup(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return group, nil
}

// Update reads, mutates and rewrites a group inside one transaction while
// holding the group's keyed lock.
func (s *SQLiteStore) Update(ctx context.Context, id models.GroupID, fn storage.MutateFunc) error {
	s.keys.Lock(id)
	defer s.keys.Unlock(id)

	return s.withTx(ctx, func(tx *sql.Tx) error {
		group, err := getGroup(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := fn(group); err != nil {
			return err
		}
		group.ID = id
		return saveGroup(ctx, tx, group)
	})
}

func (s *SQLiteStore) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func saveGroup(ctx context.Context, tx *sql.Tx, group *models.Group) error {
	groupID := group.ID.String()

	_, err := tx.ExecContext(ctx,
		"INSERT INTO groups (id, name) VALUES (?, ?) ON CONFLICT(id) DO UPDATE SET name = excluded.name",
		groupID, group.Name,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert group: %w", err)
	}

	// Drop the previous children; the aggregate is rewritten below.
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM expense_participants WHERE expense_id IN (SELECT id FROM expenses WHERE group_id = ?)",
		groupID,
	); err != nil {
		return fmt.Errorf("failed to clear participants: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM expenses WHERE group_id = ?", groupID); err != nil {
		return fmt.Errorf("failed to clear expenses: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM members WHERE group_id = ?", groupID); err != nil {
		return fmt.Errorf("failed to clear members: %w", err)
	}

	for i, m := range group.Members {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO members (id, group_id, position, name) VALUES (?, ?, ?, ?)",
			m.ID.String(), groupID, i, m.Name,
		)
		if err != nil {
			return fmt.Errorf("failed to insert member: %w", err)
		}
	}

	for i, e := range group.Expenses {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO expenses (id, group_id, position, paid_by, amount_cents, description, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			e.ID.String(), groupID, i, e.PaidBy.String(), e.AmountCents, e.Description, formatTime(e.CreatedAt),
		)
		if err != nil {
			return fmt.Errorf("failed to insert expense: %w", err)
		}

		for j, p := range e.Participants {
			_, err = tx.ExecContext(ctx,
				"INSERT INTO expense_participants (expense_id, position, member_id) VALUES (?, ?, ?)",
				e.ID.String(), j, p.String(),
			)
			if err != nil {
				return fmt.Errorf("failed to insert participant: %w", err)
			}
		}
	}

	return nil
}

// getGroup issues its queries one after another and closes each result set
// before the next, since the pool holds a single connection.
func getGroup(ctx context.Context, q querier, id models.GroupID) (*models.Group, error) {
	group := &models.Group{ID: id}
	err := q.QueryRowContext(ctx, "SELECT name FROM groups WHERE id = ?", id.String()).Scan(&group.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: group %s", models.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	if group.Members, err = getMembers(ctx, q, id); err != nil {
		return nil, err
	}
	if group.Expenses, err = getExpenses(ctx, q, id); err != nil {
		return nil, err
	}
	if err := fillParticipants(ctx, q, id, group.Expenses); err != nil {
		return nil, err
	}

	return group, nil
}

func getMembers(ctx context.Context, q querier, id models.GroupID) ([]models.Member, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT id, name FROM members WHERE group_id = ? ORDER BY position",
		id.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get members: %w", err)
	}
	defer rows.Close()

	members := []models.Member{}
	for rows.Next() {
		var rawID, name string
		if err := rows.Scan(&rawID, &name); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		memberID, err := parseID(rawID)
		if err != nil {
			return nil, err
		}
		members = append(members, models.Member{ID: models.MemberID(memberID), Name: name})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}
	return members, nil
}

func getExpenses(ctx context.Context, q querier, id models.GroupID) ([]models.Expense, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, paid_by, amount_cents, description, created_at
		 FROM expenses WHERE group_id = ? ORDER BY position`,
		id.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get expenses: %w", err)
	}
	defer rows.Close()

	expenses := []models.Expense{}
	for rows.Next() {
		var (
			rawID, rawPayer string
			e               models.Expense
			createdAt       string
		)
		if err := rows.Scan(&rawID, &rawPayer, &e.AmountCents, &e.Description, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenseID, err := parseID(rawID)
		if err != nil {
			return nil, err
		}
		payer, err := parseID(rawPayer)
		if err != nil {
			return nil, err
		}
		e.ID = models.ExpenseID(expenseID)
		e.PaidBy = models.MemberID(payer)
		if e.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		e.Participants = []models.MemberID{}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}
	return expenses, nil
}

func fillParticipants(ctx context.Context, q querier, id models.GroupID, expenses []models.Expense) error {
	if len(expenses) == 0 {
		return nil
	}

	byExpense := make(map[models.ExpenseID]int, len(expenses))
	for i, e := range expenses {
		byExpense[e.ID] = i
	}

	rows, err := q.QueryContext(ctx,
		`SELECT ep.expense_id, ep.member_id
		 FROM expense_participants ep JOIN expenses e ON e.id = ep.expense_id
		 WHERE e.group_id = ? ORDER BY e.position, ep.position`,
		id.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to get participants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rawExpense, rawMember string
		if err := rows.Scan(&rawExpense, &rawMember); err != nil {
			return fmt.Errorf("failed to scan participant: %w", err)
		}
		expenseID, err := parseID(rawExpense)
		if err != nil {
			return err
		}
		memberID, err := parseID(rawMember)
		if err != nil {
			return err
		}
		i, ok := byExpense[models.ExpenseID(expenseID)]
		if !ok {
			continue
		}
		expenses[i].Participants = append(expenses[i].Participants, models.MemberID(memberID))
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate participants: %w", err)
	}
	return nil
}

func parseID(raw string) (uuid.UUID, error) {
	u, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("corrupt id %q in database: %w", raw, err)
	}
	return u, nil
}

// Timestamps are stored as RFC 3339 text in UTC, which covers every year
// from 0000 to 9999 including the zero time.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(raw string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("corrupt timestamp %q in database: %w", raw, err)
	}
	return t.UTC(), nil
}
