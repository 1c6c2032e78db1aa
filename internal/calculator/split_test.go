package calculator

import (
	"testing"
)

func TestEqualShare(t *testing.T) {
	tests := []struct {
		name          string
		amount        int64
		n             int
		wantShare     int64
		wantRemainder int64
		wantErr       bool
	}{
		{name: "even split", amount: 1000, n: 2, wantShare: 500, wantRemainder: 0},
		{name: "three-way split truncates", amount: 100, n: 3, wantShare: 33, wantRemainder: 1},
		{name: "single participant", amount: 999, n: 1, wantShare: 999, wantRemainder: 0},
		{name: "amount smaller than participants", amount: 2, n: 5, wantShare: 0, wantRemainder: 2},
		{name: "no participants should error", amount: 100, n: 0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			share, remainder, err := EqualShare(tt.amount, tt.n)
			if (err != nil) != tt.wantErr {
				t.Fatalf("EqualShare() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if share != tt.wantShare {
				t.Errorf("share = %d, want %d", share, tt.wantShare)
			}
			if remainder != tt.wantRemainder {
				t.Errorf("remainder = %d, want %d", remainder, tt.wantRemainder)
			}
		})
	}
}
