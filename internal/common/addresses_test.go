package common

import (
	"path/filepath"
	"testing"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

func TestInitializeAddresses(t *testing.T) {
	logger := zap.NewNop()
	signer := ethcommon.HexToAddress("0x00000000000000000000000000000000000000a1")
	watchlist := writeWatchlist(t, "addresses:\n  - address: \"0x00000000000000000000000000000000000000b1\"\n  - address: \"0x00000000000000000000000000000000000000b2\"\n")
	missing := filepath.Join(t.TempDir(), "missing.yaml")

	tests := []struct {
		name      string
		filter    string
		signer    ethcommon.Address
		watchlist string
		want      int
		wantErr   bool
	}{
		{"explicit filter", "0x00000000000000000000000000000000000000c1", signer, watchlist, 1, false},
		{"invalid filter", "bob", signer, watchlist, 0, true},
		{"watchlist", "", signer, watchlist, 2, false},
		{"signer fallback", "", signer, missing, 1, false},
		{"nothing", "", ethcommon.Address{}, missing, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := InitializeAddresses(tt.filter, tt.signer, tt.watchlist, logger)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("expected %d addresses, got %d", tt.want, len(got))
			}
		})
	}
}
