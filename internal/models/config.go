package models

import "time"

// Config represents the application configuration
type Config struct {
	Chain     ChainConfig
	Contracts ContractsConfig
	Features  FeatureConfig
	Signer    SignerConfig
	Submitter SubmitterConfig
	Database  DatabaseConfig
	Watcher   WatcherConfig
	Server    ServerConfig
}

// ChainConfig selects the network and the RPC endpoints used to reach it
type ChainConfig struct {
	ChainId       uint64
	ChainsFile    string
	RpcUrls       []string
	RetryAttempts uint
	RetryDelay    time.Duration
	Timeout       time.Duration
	DialTimeout   time.Duration
}

// ContractsConfig holds the deployed contract addresses. An empty address
// disables the corresponding tool.
type ContractsConfig struct {
	LiquidityLocker string
	TokenLocker     string
	VestingFactory  string
	MultiSender     string
}

// FeatureConfig marks tools that are not released yet
type FeatureConfig struct {
	LiquidityLockerComingSoon bool
	TokenLockerComingSoon     bool
	VestingComingSoon         bool
}

// SignerConfig holds the key used for write calls
type SignerConfig struct {
	PrivateKey string
}

// SubmitterConfig holds transaction confirmation settings
type SubmitterConfig struct {
	PollInterval   time.Duration
	ConfirmTimeout time.Duration
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
}

// WatcherConfig holds background refresh settings
type WatcherConfig struct {
	PollingInterval time.Duration
	CleanupInterval time.Duration
	Retention       time.Duration
	WatchlistFile   string
}

// ServerConfig holds HTTP API settings
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}
