package calculator

import (
	"fmt"
)

// EqualShare splits amountCents across n participants using truncating
// integer division. The remainder (0 <= remainder < n) is not assigned to
// anyone; it stays with the payer.
func EqualShare(amountCents int64, n int) (share, remainder int64, err error) {
	if n <= 0 {
		return 0, 0, fmt.Errorf("must have at least one participant")
	}
	share = amountCents / int64(n)
	remainder = amountCents - share*int64(n)
	return share, remainder, nil
}
