// Package service implements the ledger use cases on top of storage.Store.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// LedgerService orchestrates groups, members, expenses and balances.
// Every mutation runs through Store.Update, so concurrent calls against the
// same group are applied one at a time and none is lost.
type LedgerService struct {
	store storage.Store
	now   func() time.Time
}

// NewLedgerService creates a new LedgerService with the given storage backend.
func NewLedgerService(store storage.Store) *LedgerService {
	return &LedgerService{store: store, now: time.Now}
}

// AddExpenseParams describes an expense to record.
type AddExpenseParams struct {
	GroupID     models.GroupID
	PaidBy      models.MemberID
	AmountCents int64
	Description string

	// Participants may be empty, meaning every member at the time of creation.
	Participants []models.MemberID
}

// CreateGroup creates an empty group and returns its ID.
func (s *LedgerService) CreateGroup(ctx context.Context, name string) (models.GroupID, error) {
	group := models.NewGroup(name)

	if err := s.store.Save(ctx, group); err != nil {
		return models.GroupID{}, err
	}

	slog.Info("Group created", "group_id", group.ID, "name", name)
	return group.ID, nil
}

// GetGroup returns a copy of the group.
func (s *LedgerService) GetGroup(ctx context.Context, groupID models.GroupID) (*models.Group, error) {
	return s.store.Get(ctx, groupID)
}

// AddMember appends a new member to the group. Names need not be unique.
func (s *LedgerService) AddMember(ctx context.Context, groupID models.GroupID, name string) (models.MemberID, error) {
	member := models.Member{ID: models.NewMemberID(), Name: name}

	err := s.store.Update(ctx, groupID, func(group *models.Group) error {
		group.Members = append(group.Members, member)
		return nil
	})
	if err != nil {
		return models.MemberID{}, err
	}

	slog.Info("Member added", "group_id", groupID, "member_id", member.ID, "name", name)
	return member.ID, nil
}

// AddExpense validates and records an expense.
//
// Checks run in order: amount must be positive, the group must exist, the payer
// must be a member, and every participant must be a member. An empty
// participant list is replaced by a snapshot of the current members.
func (s *LedgerService) AddExpense(ctx context.Context, params AddExpenseParams) (models.ExpenseID, error) {
	if params.AmountCents <= 0 {
		return models.ExpenseID{}, fmt.Errorf("%w: amount must be positive, got %d", models.ErrInvalid, params.AmountCents)
	}

	expense := models.Expense{
		ID:          models.NewExpenseID(),
		PaidBy:      params.PaidBy,
		AmountCents: params.AmountCents,
		Description: params.Description,
	}

	err := s.store.Update(ctx, params.GroupID, func(group *models.Group) error {
		if !group.HasMember(params.PaidBy) {
			return fmt.Errorf("%w: payer %s is not in group", models.ErrInvalid, params.PaidBy)
		}

		participants := params.Participants
		if len(participants) == 0 {
			participants = group.MemberIDs()
		}
		for _, p := range participants {
			if !group.HasMember(p) {
				return fmt.Errorf("%w: participant %s is not in group", models.ErrInvalid, p)
			}
		}

		expense.Participants = append([]models.MemberID(nil), participants...)
		expense.CreatedAt = s.now().UTC()
		group.Expenses = append(group.Expenses, expense)
		return nil
	})
	if err != nil {
		return models.ExpenseID{}, err
	}

	slog.Info("Expense added",
		"group_id", params.GroupID,
		"expense_id", expense.ID,
		"amount_cents", expense.AmountCents,
		"participants_count", len(expense.Participants),
	)
	return expense.ID, nil
}

// ComputeBalances returns every member's net balance, in member order.
func (s *LedgerService) ComputeBalances(ctx context.Context, groupID models.GroupID) ([]models.Balance, error) {
	group, err := s.store.Get(ctx, groupID)
	if err != nil {
		return nil, err
	}

	balances, err := calculator.ComputeBalances(group.Members, group.Expenses)
	if err != nil {
		return nil, err
	}

	slog.Debug("Balances computed",
		"group_id", groupID,
		"expenses_count", len(group.Expenses),
		"members_count", len(group.Members),
		"remainder_cents", calculator.Sum(balances),
	)
	return balances, nil
}
