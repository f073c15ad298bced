/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"token-tools-go/internal/models"
)

func Load() (*models.Config, error) {
	chainId, err := getEnvUint64("CHAIN_ID", DefaultChainId)
	if err != nil {
		return nil, err
	}

	retryDelay, err := getEnvDuration("RPC_RETRY_DELAY", time.Second)
	if err != nil {
		return nil, err
	}

	rpcTimeout, err := getEnvDuration("RPC_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	dialTimeout, err := getEnvDuration("RPC_DIAL_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	pollInterval, err := getEnvDuration("SUBMITTER_POLL_INTERVAL", time.Second)
	if err != nil {
		return nil, err
	}

	confirmTimeout, err := getEnvDuration("SUBMITTER_CONFIRM_TIMEOUT", 2*time.Minute)
	if err != nil {
		return nil, err
	}

	connMaxLifetime, err := getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute)
	if err != nil {
		return nil, err
	}

	connMaxIdleTime, err := getEnvDuration("DB_CONN_MAX_IDLE_TIME", 30*time.Second)
	if err != nil {
		return nil, err
	}

	pingTimeout, err := getEnvDuration("DB_PING_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}

	watcherPolling, err := getEnvDuration("WATCHER_POLLING_INTERVAL", 30*time.Second)
	if err != nil {
		return nil, err
	}

	watcherCleanup, err := getEnvDuration("WATCHER_CLEANUP_INTERVAL", 15*time.Minute)
	if err != nil {
		return nil, err
	}

	watcherRetention, err := getEnvDuration("WATCHER_RETENTION", 6*time.Hour)
	if err != nil {
		return nil, err
	}

	readTimeout, err := getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, err
	}

	writeTimeout, err := getEnvDuration("SERVER_WRITE_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, err
	}

	return &models.Config{
		Chain: models.ChainConfig{
			ChainId:       chainId,
			ChainsFile:    getEnvString("CHAINS_FILE", ""),
			RpcUrls:       getEnvList("RPC_URLS"),
			RetryAttempts: uint(getEnvInt("RPC_RETRY_ATTEMPTS", 1)),
			RetryDelay:    retryDelay,
			Timeout:       rpcTimeout,
			DialTimeout:   dialTimeout,
		},
		Contracts: models.ContractsConfig{
			LiquidityLocker: getEnvString("LP_LOCKER_ADDRESS", ""),
			TokenLocker:     getEnvString("TOKEN_LOCKER_ADDRESS", ""),
			VestingFactory:  getEnvString("VESTING_FACTORY_ADDRESS", ""),
			MultiSender:     getEnvString("MULTI_SENDER_ADDRESS", ""),
		},
		Features: models.FeatureConfig{
			LiquidityLockerComingSoon: getEnvBool("LIQUIDITY_LOCKER_COMING_SOON", true),
			TokenLockerComingSoon:     getEnvBool("TOKEN_LOCKER_COMING_SOON", false),
			VestingComingSoon:         getEnvBool("VESTING_COMING_SOON", true),
		},
		Signer: models.SignerConfig{
			PrivateKey: getEnvString("SIGNER_PRIVATE_KEY", ""),
		},
		Submitter: models.SubmitterConfig{
			PollInterval:   pollInterval,
			ConfirmTimeout: confirmTimeout,
		},
		Database: models.DatabaseConfig{
			Path:            getEnvString("DATABASE_PATH", "journal.db"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: connMaxLifetime,
			ConnMaxIdleTime: connMaxIdleTime,
			PingTimeout:     pingTimeout,
		},
		Watcher: models.WatcherConfig{
			PollingInterval: watcherPolling,
			CleanupInterval: watcherCleanup,
			Retention:       watcherRetention,
			WatchlistFile:   getEnvString("WATCHLIST_FILE", "watchlist.yaml"),
		},
		Server: models.ServerConfig{
			Addr:         getEnvString("SERVER_ADDR", ":8080"),
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
		},
	}, nil
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvList splits a comma separated variable, dropping empty items
func getEnvList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	if value := os.Getenv(key); value != "" {
		duration, err := time.ParseDuration(value)
		if err != nil {
			return 0, fmt.Errorf("invalid duration for %s: %q (%w)", key, value, err)
		}
		return duration, nil
	}
	return defaultValue, nil
}

func getEnvUint64(key string, defaultValue uint64) (uint64, error) {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid unsigned integer for %s: %q (%w)", key, value, err)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
