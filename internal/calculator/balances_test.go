package calculator

import (
	"testing"

	"github.com/mmynk/splitledger/internal/models"
)

func members(names ...string) []models.Member {
	ms := make([]models.Member, len(names))
	for i, n := range names {
		ms[i] = models.Member{ID: models.NewMemberID(), Name: n}
	}
	return ms
}

func expense(paidBy models.MemberID, amount int64, participants ...models.MemberID) models.Expense {
	return models.Expense{
		ID:           models.NewExpenseID(),
		PaidBy:       paidBy,
		AmountCents:  amount,
		Participants: participants,
	}
}

func TestComputeBalances(t *testing.T) {
	ms := members("Alice", "Bob", "Charlie")
	a, b, c := ms[0].ID, ms[1].ID, ms[2].ID

	tests := []struct {
		name     string
		members  []models.Member
		expenses []models.Expense
		want     []int64
		wantSum  int64
	}{
		{
			name:     "no expenses - everyone is zero",
			members:  ms,
			expenses: nil,
			want:     []int64{0, 0, 0},
		},
		{
			name:     "two-way even split",
			members:  ms[:2],
			expenses: []models.Expense{expense(a, 1000, a, b)},
			want:     []int64{500, -500},
		},
		{
			name:     "three-way split keeps remainder with payer",
			members:  ms,
			expenses: []models.Expense{expense(a, 100, a, b, c)},
			// share = 33; Alice: 100 - 33 = 67
			want:    []int64{67, -33, -33},
			wantSum: 1,
		},
		{
			name:     "payer not among participants",
			members:  ms,
			expenses: []models.Expense{expense(c, 300, a, b)},
			want:     []int64{-150, -150, 300},
		},
		{
			name:    "remainders accumulate across expenses",
			members: ms,
			expenses: []models.Expense{
				expense(a, 100, a, b, c),
				expense(b, 50, a, b, c),
			},
			// e1: share 33 -> A +67, B -33, C -33
			// e2: share 16 -> A -16, B +34, C -16
			want:    []int64{51, 1, -49},
			wantSum: 3,
		},
		{
			name:     "empty participants falls back to all members",
			members:  ms,
			expenses: []models.Expense{expense(b, 90)},
			want:     []int64{-30, 60, -30},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeBalances(tt.members, tt.expenses)
			if err != nil {
				t.Fatalf("ComputeBalances() error = %v", err)
			}
			if len(got) != len(tt.members) {
				t.Fatalf("got %d balances, want %d", len(got), len(tt.members))
			}
			for i, bal := range got {
				if bal.Member != tt.members[i].ID {
					t.Errorf("balance %d is for %v, want member order %v", i, bal.Member, tt.members[i].ID)
				}
				if bal.BalanceCents != tt.want[i] {
					t.Errorf("%s balance = %d, want %d", tt.members[i].Name, bal.BalanceCents, tt.want[i])
				}
			}
			if sum := Sum(got); sum != tt.wantSum {
				t.Errorf("sum of balances = %d, want %d", sum, tt.wantSum)
			}
		})
	}
}

func TestComputeBalances_UnknownMember(t *testing.T) {
	ms := members("Alice")
	stranger := models.NewMemberID()

	if _, err := ComputeBalances(ms, []models.Expense{expense(ms[0].ID, 100, stranger)}); err == nil {
		t.Error("expected error for unknown participant")
	}
	if _, err := ComputeBalances(ms, []models.Expense{expense(stranger, 100, ms[0].ID)}); err == nil {
		t.Error("expected error for unknown payer")
	}
}
