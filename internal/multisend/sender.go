package multisend

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"token-tools-go/internal/contracts"
	"token-tools-go/internal/models"
	"token-tools-go/internal/submitter"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

var ErrNotConfigured = errors.New("multi sender address not configured")

// TokenReader reads the ERC-20 state a multi-send depends on
type TokenReader interface {
	Decimals(ctx context.Context, token common.Address) (int, error)
	Symbol(ctx context.Context, token common.Address) (string, error)
	BalanceOf(ctx context.Context, token, account common.Address) (*big.Int, error)
	Allowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error)
}

// TxSubmitter sends and confirms writes
type TxSubmitter interface {
	CanSign() bool
	From() common.Address
	Busy() bool
	Submit(ctx context.Context, req submitter.Request) (models.TransactionState, error)
}

// Plan is a checked multi-send ready to execute
type Plan struct {
	Token         common.Address
	Symbol        string
	Decimals      int
	Recipients    []Recipient
	Total         *big.Int
	Balance       *big.Int
	Allowance     *big.Int
	NeedsApproval bool
}

// Sender distributes an ERC-20 token through the multi sender contract
type Sender struct {
	reader      TokenReader
	submitter   TxSubmitter
	multiSender common.Address
}

func NewSender(reader TokenReader, sub TxSubmitter, multiSenderAddress string) (*Sender, error) {
	if !common.IsHexAddress(multiSenderAddress) {
		return nil, ErrNotConfigured
	}
	return &Sender{reader: reader, submitter: sub, multiSender: common.HexToAddress(multiSenderAddress)}, nil
}

// TokenDecimals returns the decimals of token, 18 when unreadable
func (s *Sender) TokenDecimals(ctx context.Context, token common.Address) int {
	decimals, err := s.reader.Decimals(ctx, token)
	if err != nil {
		zap.L().Warn("Unable to read token decimals, assuming default",
			zap.String("token", token.Hex()),
			zap.Int("decimals", models.DefaultTokenDecimals),
			zap.Error(err))
		return models.DefaultTokenDecimals
	}
	return decimals
}

// Prepare checks the signer balance and allowance for sending recipients
func (s *Sender) Prepare(ctx context.Context, token common.Address, decimals int, recipients []Recipient) (*Plan, error) {
	if !s.submitter.CanSign() {
		return nil, submitter.ErrNoSigner
	}
	if len(recipients) == 0 {
		return nil, ErrNoRecipients
	}

	from := s.submitter.From()
	plan := &Plan{
		Token:      token,
		Decimals:   decimals,
		Recipients: recipients,
		Total:      Total(recipients),
	}

	symbol, err := s.reader.Symbol(ctx, token)
	if err == nil {
		plan.Symbol = symbol
	}

	plan.Balance, err = s.reader.BalanceOf(ctx, token, from)
	if err != nil {
		return nil, fmt.Errorf("unable to read balance: %w", err)
	}
	if plan.Balance.Cmp(plan.Total) < 0 {
		return plan, fmt.Errorf("%w: have %s, need %s", ErrInsufficientBalance, plan.Balance, plan.Total)
	}

	plan.Allowance, err = s.reader.Allowance(ctx, token, from, s.multiSender)
	if err != nil {
		return nil, fmt.Errorf("unable to read allowance: %w", err)
	}
	plan.NeedsApproval = plan.Allowance.Cmp(plan.Total) < 0

	return plan, nil
}

// Execute approves the multi sender when needed and sends the tokens.
// onSuccess runs once after the transfer is mined.
func (s *Sender) Execute(ctx context.Context, plan *Plan, onSuccess func()) (models.TransactionState, error) {
	if s.submitter.Busy() {
		return models.TransactionState{}, submitter.ErrBusy
	}

	if plan.NeedsApproval {
		zap.L().Info("Approving multi sender",
			zap.String("token", plan.Token.Hex()),
			zap.String("spender", s.multiSender.Hex()),
			zap.String("amount", plan.Total.String()))

		state, err := s.submitter.Submit(ctx, submitter.Request{
			Action:   models.ActionApprove,
			Target:   plan.Token.Hex(),
			Contract: plan.Token,
			ABI:      &contracts.ERC20,
			Method:   "approve",
			Args:     []interface{}{s.multiSender, plan.Total},
		})
		if err != nil {
			return state, fmt.Errorf("approve failed: %w", err)
		}
	}

	addresses, amounts := Columns(plan.Recipients)
	state, err := s.submitter.Submit(ctx, submitter.Request{
		Action:    models.ActionMultisend,
		Target:    fmt.Sprintf("%d recipients", len(addresses)),
		Contract:  s.multiSender,
		ABI:       &contracts.MultiSender,
		Method:    "multisendToken",
		Args:      []interface{}{plan.Token, addresses, amounts},
		OnSuccess: onSuccess,
	})
	if err != nil {
		return state, fmt.Errorf("multisend failed: %w", err)
	}
	return state, nil
}
