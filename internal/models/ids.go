package models

import (
	"fmt"

	"github.com/google/uuid"
)

// GroupID identifies a Group.
type GroupID uuid.UUID

// MemberID identifies a Member within its group.
type MemberID uuid.UUID

// ExpenseID identifies an Expense within its group.
type ExpenseID uuid.UUID

// NewGroupID returns a fresh random GroupID.
func NewGroupID() GroupID { return GroupID(uuid.New()) }

// NewMemberID returns a fresh random MemberID.
func NewMemberID() MemberID { return MemberID(uuid.New()) }

// NewExpenseID returns a fresh random ExpenseID.
func NewExpenseID() ExpenseID { return ExpenseID(uuid.New()) }

func (id GroupID) String() string { return uuid.UUID(id).String() }
func (id MemberID) String() string { return uuid.UUID(id).String() }
func (id ExpenseID) String() string { return uuid.UUID(id).String() }

// ParseGroupID decodes the canonical textual form of a GroupID.
func ParseGroupID(s string) (GroupID, error) {
	u, err := parseUUID("group", s)
	return GroupID(u), err
}

// ParseMemberID decodes the canonical textual form of a MemberID.
func ParseMemberID(s string) (MemberID, error) {
	u, err := parseUUID("member", s)
	return MemberID(u), err
}

// ParseExpenseID decodes the canonical textual form of an ExpenseID.
func ParseExpenseID(s string) (ExpenseID, error) {
	u, err := parseUUID("expense", s)
	return ExpenseID(u), err
}

// ParseMemberIDs decodes a list of member ids, failing on the first bad entry.
func ParseMemberIDs(ss []string) ([]MemberID, error) {
	ids := make([]MemberID, 0, len(ss))
	for _, s := range ss {
		id, err := ParseMemberID(s)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func parseUUID(kind, s string) (uuid.UUID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: malformed %s id %q", ErrInvalid, kind, s)
	}
	return u, nil
}

// MarshalText makes ids render as canonical strings in logs and JSON.
func (id GroupID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id MemberID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id ExpenseID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
