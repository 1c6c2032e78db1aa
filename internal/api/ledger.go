package api

import (
	"context"
	"errors"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/service"
)

// Ledger is the set of use cases the transports expose.
// *service.LedgerService implements it.
type Ledger interface {
	CreateGroup(ctx context.Context, name string) (models.GroupID, error)
	GetGroup(ctx context.Context, groupID models.GroupID) (*models.Group, error)
	AddMember(ctx context.Context, groupID models.GroupID, name string) (models.MemberID, error)
	AddExpense(ctx context.Context, params service.AddExpenseParams) (models.ExpenseID, error)
	ComputeBalances(ctx context.Context, groupID models.GroupID) ([]models.Balance, error)
}

var _ Ledger = (*service.LedgerService)(nil)

// operations adapts Ledger to wire messages. Identifier parsing failures
// surface as models.ErrInvalid.
type operations struct {
	ledger Ledger
}

func (o operations) createGroup(ctx context.Context, req *CreateGroupRequest) (*IDResponse, error) {
	id, err := o.ledger.CreateGroup(ctx, req.Name)
	if err != nil {
		return nil, err
	}
	return &IDResponse{ID: id.String()}, nil
}

func (o operations) addMember(ctx context.Context, req *AddMemberRequest) (*IDResponse, error) {
	groupID, err := models.ParseGroupID(req.GroupID)
	if err != nil {
		return nil, err
	}
	id, err := o.ledger.AddMember(ctx, groupID, req.Name)
	if err != nil {
		return nil, err
	}
	return &IDResponse{ID: id.String()}, nil
}

func (o operations) addExpense(ctx context.Context, req *AddExpenseRequest) (*IDResponse, error) {
	groupID, err := models.ParseGroupID(req.GroupID)
	if err != nil {
		return nil, err
	}
	paidBy, err := models.ParseMemberID(req.PaidBy)
	if err != nil {
		return nil, err
	}
	participants, err := models.ParseMemberIDs(req.Participants)
	if err != nil {
		return nil, err
	}

	id, err := o.ledger.AddExpense(ctx, service.AddExpenseParams{
		GroupID:      groupID,
		PaidBy:       paidBy,
		AmountCents:  req.AmountCents,
		Description:  req.Description,
		Participants: participants,
	})
	if err != nil {
		return nil, err
	}
	return &IDResponse{ID: id.String()}, nil
}

func (o operations) balances(ctx context.Context, req *GroupRequest) (*BalancesResponse, error) {
	groupID, err := models.ParseGroupID(req.GroupID)
	if err != nil {
		return nil, err
	}
	balances, err := o.ledger.ComputeBalances(ctx, groupID)
	if err != nil {
		return nil, err
	}

	resp := &BalancesResponse{Balances: make([]BalanceMessage, len(balances))}
	for i, b := range balances {
		resp.Balances[i] = BalanceMessage{Member: b.Member.String(), BalanceCents: b.BalanceCents}
	}
	return resp, nil
}

func (o operations) group(ctx context.Context, req *GroupRequest) (*GroupResponse, error) {
	groupID, err := models.ParseGroupID(req.GroupID)
	if err != nil {
		return nil, err
	}
	group, err := o.ledger.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return toGroupResponse(group), nil
}

func toGroupResponse(g *models.Group) *GroupResponse {
	resp := &GroupResponse{
		ID:       g.ID.String(),
		Name:     g.Name,
		Members:  make([]MemberMessage, len(g.Members)),
		Expenses: make([]ExpenseMessage, len(g.Expenses)),
	}
	for i, m := range g.Members {
		resp.Members[i] = MemberMessage{ID: m.ID.String(), Name: m.Name}
	}
	for i, e := range g.Expenses {
		participants := make([]string, len(e.Participants))
		for j, p := range e.Participants {
			participants[j] = p.String()
		}
		resp.Expenses[i] = ExpenseMessage{
			ID:           e.ID.String(),
			PaidBy:       e.PaidBy.String(),
			AmountCents:  e.AmountCents,
			Description:  e.Description,
			CreatedAt:    e.CreatedAt,
			Participants: participants,
		}
	}
	return resp
}

// connectCode maps ledger error kinds to Connect codes.
// NotFound and Invalid are kept distinct.
func connectCode(err error) connect.Code {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return connect.CodeNotFound
	case errors.Is(err, models.ErrInvalid):
		return connect.CodeInvalidArgument
	default:
		return connect.CodeInternal
	}
}

// httpStatus maps ledger error kinds to HTTP status codes.
func httpStatus(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrInvalid):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
