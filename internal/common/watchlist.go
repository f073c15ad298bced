package common

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"gopkg.in/yaml.v2"
)

type WatchedAddress struct {
	Address string `yaml:"address"`
	Label   string `yaml:"label"`
}

type WatchlistConfig struct {
	Addresses []WatchedAddress `yaml:"addresses"`
}

func LoadWatchlistConfig(watchlistFile string) ([]WatchedAddress, error) {
	var watchlistPath string
	if filepath.IsAbs(watchlistFile) {
		watchlistPath = watchlistFile
	} else {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		watchlistPath = filepath.Join(wd, watchlistFile)
	}

	data, err := os.ReadFile(watchlistPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", watchlistFile, err)
	}

	var config WatchlistConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("unable to parse %s: %w", watchlistFile, err)
	}

	for i, entry := range config.Addresses {
		if entry.Address == "" {
			return nil, fmt.Errorf("watchlist entry at index %d missing address", i)
		}
		if !ethcommon.IsHexAddress(entry.Address) {
			return nil, fmt.Errorf("watchlist entry at index %d has invalid address %q", i, entry.Address)
		}
	}

	return config.Addresses, nil
}

// LoadWatchlist returns the unique addresses of the watchlist file
func LoadWatchlist(watchlistFile string) ([]ethcommon.Address, error) {
	entries, err := LoadWatchlistConfig(watchlistFile)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(entries))
	addresses := make([]ethcommon.Address, 0, len(entries))
	for _, entry := range entries {
		key := strings.ToLower(entry.Address)
		if seen[key] {
			continue
		}
		seen[key] = true
		addresses = append(addresses, ethcommon.HexToAddress(entry.Address))
	}

	return addresses, nil
}

// ParseAddress validates a user supplied hex address
func ParseAddress(value string) (ethcommon.Address, error) {
	value = strings.TrimSpace(value)
	if !ethcommon.IsHexAddress(value) {
		return ethcommon.Address{}, fmt.Errorf("invalid address: %q", value)
	}
	return ethcommon.HexToAddress(value), nil
}
