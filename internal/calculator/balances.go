// Package calculator implements the ledger arithmetic.
package calculator

import (
	"fmt"

	"github.com/mmynk/splitledger/internal/models"
)

// ComputeBalances computes each member's net balance across expenses.
//
// Algorithm, per expense in creation order:
//   - share = amount / n (truncating), n = number of participants
//   - every participant's balance decreases by share
//   - the payer's balance increases by the full amount
//
// A payer who also participates therefore nets amount - share. Balances do not
// sum to zero unless every amount divides evenly; the leftover is the sum of the
// per-expense remainders.
//
// An expense with no participants is split across all members.
// Returns one Balance per member, in member order.
func ComputeBalances(members []models.Member, expenses []models.Expense) ([]models.Balance, error) {
	totals := make(map[models.MemberID]int64, len(members))
	for _, m := range members {
		totals[m.ID] = 0
	}

	for _, e := range expenses {
		participants := e.Participants
		if len(participants) == 0 {
			participants = make([]models.MemberID, len(members))
			for i, m := range members {
				participants[i] = m.ID
			}
		}
		if len(participants) == 0 {
			continue
		}

		share, _, err := EqualShare(e.AmountCents, len(participants))
		if err != nil {
			return nil, err
		}

		for _, p := range participants {
			if _, ok := totals[p]; !ok {
				return nil, fmt.Errorf("expense %s references unknown participant %s", e.ID, p)
			}
			totals[p] -= share
		}
		if _, ok := totals[e.PaidBy]; !ok {
			return nil, fmt.Errorf("expense %s references unknown payer %s", e.ID, e.PaidBy)
		}
		totals[e.PaidBy] += e.AmountCents
	}

	balances := make([]models.Balance, len(members))
	for i, m := range members {
		balances[i] = models.Balance{Member: m.ID, BalanceCents: totals[m.ID]}
	}
	return balances, nil
}

// Sum returns the total of all balances, i.e. the undistributed remainder.
func Sum(balances []models.Balance) int64 {
	var total int64
	for _, b := range balances {
		total += b.BalanceCents
	}
	return total
}
