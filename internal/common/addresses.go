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

package common

import (
	"fmt"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// InitializeAddresses picks the addresses a command-line report covers.
// An explicit filter wins; otherwise the watchlist is used, and the signer
// address is the last resort.
func InitializeAddresses(filter string, signer ethcommon.Address, watchlistFile string, logger *zap.Logger) ([]ethcommon.Address, error) {
	if filter != "" {
		logger.Info("Using address from flag", zap.String("address", filter))
		address, err := ParseAddress(filter)
		if err != nil {
			return nil, err
		}
		return []ethcommon.Address{address}, nil
	}

	if watchlistFile != "" {
		addresses, err := LoadWatchlist(watchlistFile)
		if err == nil && len(addresses) > 0 {
			logger.Info("Using watchlist addresses",
				zap.String("file", watchlistFile),
				zap.Int("count", len(addresses)))
			return addresses, nil
		}
		if err != nil {
			logger.Debug("Watchlist not usable", zap.String("file", watchlistFile), zap.Error(err))
		}
	}

	if signer != (ethcommon.Address{}) {
		logger.Info("Using signer address", zap.String("address", signer.Hex()))
		return []ethcommon.Address{signer}, nil
	}

	return nil, fmt.Errorf("no address given: pass --address, fill the watchlist or set SIGNER_PRIVATE_KEY")
}
