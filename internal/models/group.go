package models

import (
	"slices"
	"time"
)

// Group is the aggregate of members and expenses sharing one ledger.
// It is the unit of storage: stores read and write whole Group values.
type Group struct {
	// ID is the unique identifier for the group.
	ID GroupID

	// Name is the display name of the group (e.g., "Roommates", "Ski Trip").
	Name string

	// Members is append-only, in the order they were added.
	Members []Member

	// Expenses is append-only, in creation order.
	Expenses []Expense
}

// Member represents a named participant within a group.
// Names are not unique; identity is always by ID.
type Member struct {
	ID   MemberID
	Name string
}

// Expense records one payment and the members who share its cost.
type Expense struct {
	// ID is the unique identifier for the expense.
	ID ExpenseID

	// PaidBy is the member who paid the full amount.
	PaidBy MemberID

	// AmountCents is the amount paid, always > 0.
	AmountCents int64

	// Description is free text (e.g., "Groceries").
	Description string

	// CreatedAt is when the expense was recorded (UTC).
	CreatedAt time.Time

	// Participants is the ordered list of members who split this expense.
	// It is resolved at creation time and never stored empty.
	Participants []MemberID
}

// Balance is a member's net position in a group.
// Positive means the group owes the member; negative means the member owes the group.
type Balance struct {
	Member       MemberID
	BalanceCents int64
}

// NewGroup returns an empty group with a fresh ID.
func NewGroup(name string) *Group {
	return &Group{
		ID:       NewGroupID(),
		Name:     name,
		Members:  []Member{},
		Expenses: []Expense{},
	}
}

// HasMember reports whether id belongs to a current member of g.
func (g *Group) HasMember(id MemberID) bool {
	return slices.ContainsFunc(g.Members, func(m Member) bool { return m.ID == id })
}

// MemberIDs returns the ids of all current members, in member order.
func (g *Group) MemberIDs() []MemberID {
	ids := make([]MemberID, len(g.Members))
	for i, m := range g.Members {
		ids[i] = m.ID
	}
	return ids
}

// Clone returns a deep copy of g. The copy shares no slices with g.
func (g *Group) Clone() *Group {
	if g == nil {
		return nil
	}
	c := &Group{
		ID:       g.ID,
		Name:     g.Name,
		Members:  slices.Clone(g.Members),
		Expenses: make([]Expense, len(g.Expenses)),
	}
	if c.Members == nil {
		c.Members = []Member{}
	}
	for i, e := range g.Expenses {
		e.Participants = slices.Clone(e.Participants)
		c.Expenses[i] = e
	}
	return c
}
