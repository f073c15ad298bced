package config

import (
	"fmt"
	"os"
	"path/filepath"

	"token-tools-go/internal/models"

	"gopkg.in/yaml.v2"
)

// DefaultChainId is the network the tools are deployed on
const DefaultChainId uint64 = 9745

// builtinChains are available without a chains file
var builtinChains = map[uint64]models.ChainDefinition{
	9745: {
		Id:   9745,
		Name: "Monad Mainnet Beta",
		NativeCurrency: models.NativeCurrency{
			Name:     "Monad",
			Symbol:   "XPL",
			Decimals: 18,
		},
		RpcUrls:      []string{"https://rpc.plasma.to"},
		ExplorerName: "PlasmaScan",
		ExplorerUrl:  "https://plasmascan.to/",
	},
}

type chainsFile struct {
	Chains []models.ChainDefinition `yaml:"chains"`
}

// LoadChainDefinitions reads chain definitions from a YAML file
func LoadChainDefinitions(chainsPath string) ([]models.ChainDefinition, error) {
	if !filepath.IsAbs(chainsPath) {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		chainsPath = filepath.Join(wd, chainsPath)
	}

	data, err := os.ReadFile(chainsPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", chainsPath, err)
	}

	var file chainsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("unable to parse %s: %w", chainsPath, err)
	}

	for i, chain := range file.Chains {
		if chain.Id == 0 {
			return nil, fmt.Errorf("chain at index %d missing id", i)
		}
		if chain.Name == "" {
			return nil, fmt.Errorf("chain at index %d missing name", i)
		}
		if len(chain.RpcUrls) == 0 {
			return nil, fmt.Errorf("chain %d missing rpc_urls", chain.Id)
		}
		if file.Chains[i].NativeCurrency.Decimals == 0 {
			file.Chains[i].NativeCurrency.Decimals = 18
		}
	}

	return file.Chains, nil
}

// ResolveChain picks the chain definition for cfg. Definitions from the
// chains file override the built-in ones; RPC_URLS overrides the endpoints.
func ResolveChain(cfg models.ChainConfig) (models.ChainDefinition, error) {
	chains := make(map[uint64]models.ChainDefinition, len(builtinChains))
	for id, def := range builtinChains {
		chains[id] = def
	}

	if cfg.ChainsFile != "" {
		defs, err := LoadChainDefinitions(cfg.ChainsFile)
		if err != nil {
			return models.ChainDefinition{}, err
		}
		for _, def := range defs {
			chains[def.Id] = def
		}
	}

	def, ok := chains[cfg.ChainId]
	if !ok {
		return models.ChainDefinition{}, fmt.Errorf("no definition for chain %d", cfg.ChainId)
	}

	if len(cfg.RpcUrls) > 0 {
		def.RpcUrls = append([]string(nil), cfg.RpcUrls...)
	}

	return def, nil
}
