package chain

import (
	"errors"
	"math/big"
	"testing"
)

func TestEmbeddedABIs(t *testing.T) {
	for _, name := range []string{"marketCount", "markets", "createMarket", "placeBet", "resolveMarket"} {
		if _, ok := marketABI.Methods[name]; !ok {
			t.Errorf("market ABI missing method %q", name)
		}
	}
	if _, ok := erc20ABI.Methods["approve"]; !ok {
		t.Error("erc20 ABI missing approve")
	}
}

func TestPlaceBetPacking(t *testing.T) {
	data, err := marketABI.Pack("placeBet", big.NewInt(7), true, big.NewInt(10_000_000))
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	// 4-byte selector plus three 32-byte words.
	if len(data) != 4+3*32 {
		t.Errorf("packed length = %d, want %d", len(data), 4+3*32)
	}
}

func TestIsRevert(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{errors.New("execution reverted: market expired"), true},
		{errors.New("VM Exception: Revert"), true},
		{errors.New("gas required exceeds allowance for always failing transaction"), true},
		{errors.New("connection refused"), false},
		{errors.New("nonce too low"), false},
	}
	for _, tt := range tests {
		if got := isRevert(tt.err); got != tt.want {
			t.Errorf("isRevert(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
