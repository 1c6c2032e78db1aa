// Package api exposes the ledger over the network: a Connect RPC service and
// a REST router. Both decode requests into service calls and map error kinds
// to protocol status codes.
package api

import "time"

// CreateGroupRequest creates an empty group.
type CreateGroupRequest struct {
	Name string `json:"name"`
}

// IDResponse carries the identifier of a newly created entity.
type IDResponse struct {
	ID string `json:"id"`
}

// AddMemberRequest adds a member to a group.
// GroupID is taken from the URL path in REST.
type AddMemberRequest struct {
	GroupID string `json:"group_id,omitempty"`
	Name    string `json:"name"`
}

// AddExpenseRequest records an expense. Omitted participants means
// every current member.
type AddExpenseRequest struct {
	GroupID      string   `json:"group_id,omitempty"`
	PaidBy       string   `json:"paid_by"`
	AmountCents  int64    `json:"amount_cents"`
	Description  string   `json:"description"`
	Participants []string `json:"participants,omitempty"`
}

// GroupRequest addresses a single group.
type GroupRequest struct {
	GroupID string `json:"group_id"`
}

// BalanceMessage is one member's net balance.
type BalanceMessage struct {
	Member       string `json:"member"`
	BalanceCents int64  `json:"balance_cents"`
}

// BalancesResponse lists balances in member order.
type BalancesResponse struct {
	Balances []BalanceMessage `json:"balances"`
}

// MemberMessage is a group member.
type MemberMessage struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ExpenseMessage is a recorded expense.
type ExpenseMessage struct {
	ID           string    `json:"id"`
	PaidBy       string    `json:"paid_by"`
	AmountCents  int64     `json:"amount_cents"`
	Description  string    `json:"description"`
	CreatedAt    time.Time `json:"created_at"`
	Participants []string  `json:"participants"`
}

// GroupResponse is the full group aggregate.
type GroupResponse struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Members  []MemberMessage  `json:"members"`
	Expenses []ExpenseMessage `json:"expenses"`
}
