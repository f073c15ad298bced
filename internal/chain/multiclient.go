package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"sync"
	"time"

	"token-tools-go/internal/models"

	"github.com/avast/retry-go/v4"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	_ bind.ContractBackend = (*MultiClient)(nil)
	_ bind.DeployBackend   = (*MultiClient)(nil)
)

const (
	DefaultRetryAttempts = 1
	DefaultRetryDelay    = time.Second
	DefaultRetryTimeout  = 10 * time.Second
	DefaultDialTimeout   = 10 * time.Second

	healthCheckTimeout = 2 * time.Second
)

type RetryConfig struct {
	Attempts    uint
	Delay       time.Duration
	Timeout     time.Duration
	DialTimeout time.Duration
}

// RetryConfigFrom fills unset values with the defaults
func RetryConfigFrom(cfg models.ChainConfig) RetryConfig {
	rc := RetryConfig{
		Attempts:    cfg.RetryAttempts,
		Delay:       cfg.RetryDelay,
		Timeout:     cfg.Timeout,
		DialTimeout: cfg.DialTimeout,
	}
	if rc.Attempts == 0 {
		rc.Attempts = DefaultRetryAttempts
	}
	if rc.Delay <= 0 {
		rc.Delay = DefaultRetryDelay
	}
	if rc.Timeout <= 0 {
		rc.Timeout = DefaultRetryTimeout
	}
	if rc.DialTimeout <= 0 {
		rc.DialTimeout = DefaultDialTimeout
	}
	return rc
}

// MultiClient talks to the first healthy RPC endpoint and fails over to the
// backups. The endpoint that answered last becomes the primary.
type MultiClient struct {
	*ethclient.Client
	Backups     []*ethclient.Client
	RetryConfig RetryConfig
	chainName   string
	mu          sync.RWMutex
}

func NewMultiClient(ctx context.Context, def models.ChainDefinition, retryConfig RetryConfig) (*MultiClient, error) {
	if len(def.RpcUrls) == 0 {
		return nil, errors.New("no RPC urls provided, need at least one")
	}

	httpClient, err := newHttpClient()
	if err != nil {
		return nil, fmt.Errorf("unable to create http client: %w", err)
	}

	mc := &MultiClient{RetryConfig: retryConfig, chainName: def.Name}

	clients := make([]*ethclient.Client, 0, len(def.RpcUrls))
	for i, url := range def.RpcUrls {
		client, err := mc.dial(ctx, url, httpClient)
		if err != nil {
			zap.L().Warn("Failed to dial RPC endpoint, trying the next one",
				zap.Int("index", i),
				zap.String("url", url),
				zap.Error(err))
			continue
		}
		if err := rpcHealthCheck(ctx, client); err != nil {
			zap.L().Warn("RPC endpoint failed health check, trying the next one",
				zap.Int("index", i),
				zap.String("url", url),
				zap.Error(err))
			client.Close()
			continue
		}
		clients = append(clients, client)
	}

	if len(clients) == 0 {
		return nil, fmt.Errorf("no valid RPC clients created for chain %q", def.Name)
	}

	mc.Client = clients[0]
	mc.Backups = clients[1:]

	zap.L().Info("Connected to chain",
		zap.String("chain", def.Name),
		zap.Uint64("chain_id", def.Id),
		zap.Int("endpoints", len(clients)))

	return mc, nil
}

func rpcHealthCheck(ctx context.Context, client *ethclient.Client) error {
	timeoutCtx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	if _, err := client.BlockNumber(timeoutCtx); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	return nil
}

func (mc *MultiClient) dial(ctx context.Context, url string, httpClient *http.Client) (*ethclient.Client, error) {
	dialCtx, cancel := context.WithTimeout(ctx, mc.RetryConfig.DialTimeout)
	defer cancel()

	rpcClient, err := rpc.DialOptions(dialCtx, url, rpc.WithHTTPClient(httpClient))
	if err != nil {
		return nil, err
	}
	return ethclient.NewClient(rpcClient), nil
}

// Close releases every endpoint connection
func (mc *MultiClient) Close() {
	for _, client := range mc.clients() {
		client.Close()
	}
}

func (mc *MultiClient) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	return mc.retryWithBackups(ctx, "SendTransaction", func(ct context.Context, client *ethclient.Client) error {
		return client.SendTransaction(ct, tx)
	})
}

func (mc *MultiClient) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	var result []byte
	err := mc.retryWithBackups(ctx, "CallContract", func(ct context.Context, client *ethclient.Client) error {
		var err error
		result, err = client.CallContract(ct, msg, blockNumber)
		return err
	})
	return result, err
}

func (mc *MultiClient) CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error) {
	var code []byte
	err := mc.retryWithBackups(ctx, "CodeAt", func(ct context.Context, client *ethclient.Client) error {
		var err error
		code, err = client.CodeAt(ct, account, blockNumber)
		return err
	})
	return code, err
}

func (mc *MultiClient) HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error) {
	var header *types.Header
	err := mc.retryWithBackups(ctx, "HeaderByNumber", func(ct context.Context, client *ethclient.Client) error {
		var err error
		header, err = client.HeaderByNumber(ct, number)
		return err
	})
	return header, err
}

func (mc *MultiClient) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	var gasPrice *big.Int
	err := mc.retryWithBackups(ctx, "SuggestGasPrice", func(ct context.Context, client *ethclient.Client) error {
		var err error
		gasPrice, err = client.SuggestGasPrice(ct)
		return err
	})
	return gasPrice, err
}

func (mc *MultiClient) SuggestGasTipCap(ctx context.Context) (*big.Int, error) {
	var gasTipCap *big.Int
	err := mc.retryWithBackups(ctx, "SuggestGasTipCap", func(ct context.Context, client *ethclient.Client) error {
		var err error
		gasTipCap, err = client.SuggestGasTipCap(ct)
		return err
	})
	return gasTipCap, err
}

func (mc *MultiClient) PendingCodeAt(ctx context.Context, account common.Address) ([]byte, error) {
	var code []byte
	err := mc.retryWithBackups(ctx, "PendingCodeAt", func(ct context.Context, client *ethclient.Client) error {
		var err error
		code, err = client.PendingCodeAt(ct, account)
		return err
	})
	return code, err
}

func (mc *MultiClient) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	var nonce uint64
	err := mc.retryWithBackups(ctx, "PendingNonceAt", func(ct context.Context, client *ethclient.Client) error {
		var err error
		nonce, err = client.PendingNonceAt(ct, account)
		return err
	})
	return nonce, err
}

func (mc *MultiClient) EstimateGas(ctx context.Context, call ethereum.CallMsg) (uint64, error) {
	var gas uint64
	err := mc.retryWithBackups(ctx, "EstimateGas", func(ct context.Context, client *ethclient.Client) error {
		var err error
		gas, err = client.EstimateGas(ct, call)
		return err
	})
	return gas, err
}

func (mc *MultiClient) ChainID(ctx context.Context) (*big.Int, error) {
	var id *big.Int
	err := mc.retryWithBackups(ctx, "ChainID", func(ct context.Context, client *ethclient.Client) error {
		var err error
		id, err = client.ChainID(ct)
		return err
	})
	return id, err
}

func (mc *MultiClient) BlockNumber(ctx context.Context) (uint64, error) {
	var number uint64
	err := mc.retryWithBackups(ctx, "BlockNumber", func(ct context.Context, client *ethclient.Client) error {
		var err error
		number, err = client.BlockNumber(ct)
		return err
	})
	return number, err
}

// TransactionReceipt returns ethereum.NotFound without trying the backups
// while the transaction is not mined yet
func (mc *MultiClient) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	var receipt *types.Receipt
	notFound := false
	err := mc.retryWithBackups(ctx, "TransactionReceipt", func(ct context.Context, client *ethclient.Client) error {
		var err error
		receipt, err = client.TransactionReceipt(ct, txHash)
		if errors.Is(err, ethereum.NotFound) {
			notFound = true
			return nil
		}
		notFound = false
		return err
	})
	if err != nil {
		return nil, err
	}
	if notFound {
		return nil, ethereum.NotFound
	}
	return receipt, nil
}

func (mc *MultiClient) FilterLogs(ctx context.Context, query ethereum.FilterQuery) ([]types.Log, error) {
	var logs []types.Log
	err := mc.retryWithBackups(ctx, "FilterLogs", func(ct context.Context, client *ethclient.Client) error {
		var err error
		logs, err = client.FilterLogs(ct, query)
		return err
	})
	return logs, err
}

// SubscribeFilterLogs stays on the primary, subscriptions are not retried
func (mc *MultiClient) SubscribeFilterLogs(ctx context.Context, query ethereum.FilterQuery, ch chan<- types.Log) (ethereum.Subscription, error) {
	return mc.clients()[0].SubscribeFilterLogs(ctx, query, ch)
}

// BatchCallContract sends every message as one eth_call JSON-RPC batch
// against the latest block
func (mc *MultiClient) BatchCallContract(ctx context.Context, msgs []ethereum.CallMsg) ([][]byte, []error, error) {
	results := make([]hexutil.Bytes, len(msgs))
	elems := make([]rpc.BatchElem, len(msgs))
	for i, msg := range msgs {
		elems[i] = rpc.BatchElem{
			Method: "eth_call",
			Args:   []interface{}{toCallArg(msg), "latest"},
			Result: &results[i],
		}
	}

	err := mc.retryWithBackups(ctx, "BatchCallContract", func(ct context.Context, client *ethclient.Client) error {
		return client.Client().BatchCallContext(ct, elems)
	})
	if err != nil {
		return nil, nil, err
	}

	data := make([][]byte, len(msgs))
	errs := make([]error, len(msgs))
	for i := range elems {
		if elems[i].Error != nil {
			errs[i] = maybeDataErr(elems[i].Error)
			continue
		}
		data[i] = results[i]
	}
	return data, errs, nil
}

func toCallArg(msg ethereum.CallMsg) interface{} {
	arg := map[string]interface{}{
		"to":   msg.To,
		"data": hexutil.Bytes(msg.Data),
	}
	if msg.From != (common.Address{}) {
		arg["from"] = msg.From
	}
	return arg
}

func (mc *MultiClient) retryWithBackups(ctx context.Context, opName string, op func(context.Context, *ethclient.Client) error) error {
	var err error
	traceId := uuid.New().String()

	for rpcIndex, client := range mc.clients() {
		retryCount := 0
		err2 := retry.Do(func() error {
			timeoutCtx, cancel := ensureTimeout(ctx, mc.RetryConfig.Timeout)
			defer cancel()

			err = op(timeoutCtx, client)
			if err != nil {
				zap.L().Warn("RPC call failed",
					zap.String("trace_id", traceId),
					zap.String("chain", mc.chainName),
					zap.String("op", opName),
					zap.Int("client_index", rpcIndex),
					zap.Error(maybeDataErr(err)))
				return err
			}

			mc.reorderRPCs(client)
			return nil
		}, retry.Context(ctx), retry.Attempts(mc.RetryConfig.Attempts), retry.Delay(mc.RetryConfig.Delay),
			retry.LastErrorOnly(true),
			retry.OnRetry(func(n uint, err error) { retryCount++ }))
		if err2 == nil {
			if retryCount > 0 {
				zap.L().Info("RPC call succeeded after retry",
					zap.String("trace_id", traceId),
					zap.String("op", opName),
					zap.Int("client_index", rpcIndex),
					zap.Int("retries", retryCount))
			}
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}

	return errors.Join(err, fmt.Errorf("all RPC clients failed for chain %q", mc.chainName))
}

// ensureTimeout keeps the parent deadline when there is one
func ensureTimeout(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, hasDeadline := parent.Deadline(); hasDeadline {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, timeout)
}

// reorderRPCs promotes client to primary. Backups that were tried before it
// move to the end, followed by the old primary.
func (mc *MultiClient) reorderRPCs(client *ethclient.Client) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if mc.Client == client {
		return
	}

	newPrimaryIndex := -1
	for i, backup := range mc.Backups {
		if backup == client {
			newPrimaryIndex = i
			break
		}
	}
	if newPrimaryIndex < 0 {
		return
	}

	reordered := make([]*ethclient.Client, 0, len(mc.Backups))
	reordered = append(reordered, mc.Backups[newPrimaryIndex+1:]...)
	reordered = append(reordered, mc.Backups[:newPrimaryIndex]...)
	reordered = append(reordered, mc.Client)

	mc.Backups = reordered
	mc.Client = client
}

func (mc *MultiClient) clients() []*ethclient.Client {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	return append([]*ethclient.Client{mc.Client}, mc.Backups...)
}

func maybeDataErr(err error) error {
	var d rpc.DataError
	if errors.As(err, &d) {
		return fmt.Errorf("%s: %v", d.Error(), d.ErrorData())
	}
	return err
}
