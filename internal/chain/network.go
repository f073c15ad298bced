package chain

import (
	"context"
	"fmt"
	"math/big"

	"token-tools-go/internal/models"
)

// WrongNetworkLabel is shown when the node serves another chain
const WrongNetworkLabel = "Wrong Network"

// ChainInfoReader is the part of the node API needed for the network check
type ChainInfoReader interface {
	ChainID(ctx context.Context) (*big.Int, error)
	BlockNumber(ctx context.Context) (uint64, error)
}

// CheckNetwork compares the chain id served by the node with def
func CheckNetwork(ctx context.Context, reader ChainInfoReader, def models.ChainDefinition) (models.NetworkStatus, error) {
	status := models.NetworkStatus{ExpectedChainId: def.Id}

	id, err := reader.ChainID(ctx)
	if err != nil {
		return status, fmt.Errorf("unable to read chain id: %w", err)
	}
	if !id.IsUint64() {
		return status, fmt.Errorf("chain id %s out of range", id)
	}
	status.ActualChainId = id.Uint64()
	status.Correct = status.ActualChainId == def.Id
	status.Label = NetworkLabel(def, status.ActualChainId)

	block, err := reader.BlockNumber(ctx)
	if err != nil {
		return status, fmt.Errorf("unable to read block number: %w", err)
	}
	status.BlockNumber = block

	return status, nil
}

// NetworkLabel renders "<name> • <id>" for the expected chain
func NetworkLabel(def models.ChainDefinition, actualChainId uint64) string {
	if actualChainId != def.Id {
		return WrongNetworkLabel
	}
	return fmt.Sprintf("%s • %d", def.Name, def.Id)
}
