package models

// NativeCurrency describes the gas token of a chain
type NativeCurrency struct {
	Name     string `yaml:"name" json:"name"`
	Symbol   string `yaml:"symbol" json:"symbol"`
	Decimals int    `yaml:"decimals" json:"decimals"`
}

// ChainDefinition describes a network deployment the tools can target
type ChainDefinition struct {
	Id             uint64         `yaml:"id" json:"id"`
	Name           string         `yaml:"name" json:"name"`
	NativeCurrency NativeCurrency `yaml:"native_currency" json:"native_currency"`
	RpcUrls        []string       `yaml:"rpc_urls" json:"rpc_urls"`
	ExplorerName   string         `yaml:"explorer_name" json:"explorer_name"`
	ExplorerUrl    string         `yaml:"explorer_url" json:"explorer_url"`
}

// NetworkStatus is the result of comparing the node's chain id with the configured one
type NetworkStatus struct {
	ExpectedChainId uint64 `json:"expected_chain_id"`
	ActualChainId   uint64 `json:"actual_chain_id"`
	Correct         bool   `json:"correct"`
	Label           string `json:"label"`
	BlockNumber     uint64 `json:"block_number"`
}
