package submitter

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/crypto"
)

// NewTransactor builds signing options from a hex private key
func NewTransactor(privateKeyHex string, chainId *big.Int) (*bind.TransactOpts, error) {
	key := strings.TrimPrefix(strings.TrimSpace(privateKeyHex), "0x")
	if key == "" {
		return nil, ErrNoSigner
	}

	privateKey, err := crypto.HexToECDSA(key)
	if err != nil {
		return nil, fmt.Errorf("invalid signer private key: %w", err)
	}

	opts, err := bind.NewKeyedTransactorWithChainID(privateKey, chainId)
	if err != nil {
		return nil, fmt.Errorf("unable to create transactor: %w", err)
	}
	return opts, nil
}
