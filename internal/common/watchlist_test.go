package common

import (
	"os"
	"path/filepath"
	"testing"
)

func writeWatchlist(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "watchlist.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write watchlist: %v", err)
	}
	return path
}

func TestLoadWatchlist_Deduplicates(t *testing.T) {
	path := writeWatchlist(t, `addresses:
  - address: "0x00000000000000000000000000000000000000aa"
    label: treasury
  - address: "0x00000000000000000000000000000000000000AA"
  - address: "0x00000000000000000000000000000000000000bb"
`)

	addresses, err := LoadWatchlist(path)
	if err != nil {
		t.Fatalf("LoadWatchlist failed: %v", err)
	}
	if len(addresses) != 2 {
		t.Fatalf("expected 2 addresses, got %d", len(addresses))
	}
}

func TestLoadWatchlist_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing address", "addresses:\n  - label: x\n"},
		{"bad address", "addresses:\n  - address: 0x1234\n"},
		{"bad yaml", "addresses: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadWatchlist(writeWatchlist(t, tt.content)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadWatchlist_MissingFile(t *testing.T) {
	if _, err := LoadWatchlist(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestParseAddress(t *testing.T) {
	if _, err := ParseAddress(" 0x00000000000000000000000000000000000000aa "); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if _, err := ParseAddress("alice"); err == nil {
		t.Error("expected error for non-hex address")
	}
}
