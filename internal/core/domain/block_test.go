package domain

import (
	"reflect"
	"testing"
)

func TestTouchedAccounts(t *testing.T) {
	tests := []struct {
		name string
		op   Operation
		want []AccountID
	}{
		{"transfer", Operation{Type: OpTransfer, From: "a", To: "b"}, []AccountID{"a", "b"}},
		{"mint", Operation{Type: OpMint, To: "b"}, []AccountID{"b"}},
		{"burn", Operation{Type: OpBurn, From: "a"}, []AccountID{"a"}},
		{"unknown", Operation{Type: "approve", From: "a", To: "b"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.op.TouchedAccounts(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("TouchedAccounts() = %v, want %v", got, tt.want)
			}
		})
	}
}
