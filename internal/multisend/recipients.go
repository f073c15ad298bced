package multisend

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"strings"

	"token-tools-go/internal/format"

	"github.com/ethereum/go-ethereum/common"
)

// MaxRecipients bounds one multisendToken call so it fits in a block
const MaxRecipients = 500

var (
	ErrNoRecipients        = errors.New("no recipients")
	ErrTooManyRecipients   = fmt.Errorf("more than %d recipients", MaxRecipients)
	ErrDuplicateRecipient  = errors.New("duplicate recipient")
	ErrInvalidRecipient    = errors.New("invalid recipient")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInsufficientBalance = errors.New("insufficient token balance")
)

// Recipient is one line of a recipients file
type Recipient struct {
	Line    int
	Address common.Address
	Amount  string
	Raw     *big.Int
}

// LoadRecipients reads an address,amount CSV file
func LoadRecipients(path string, decimals int) ([]Recipient, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open %s: %w", path, err)
	}
	defer f.Close()

	return ParseRecipients(f, decimals)
}

// ParseRecipients reads address,amount rows. Amounts are human units
// converted with decimals. A first row whose address column is not an
// address is treated as a header; lines starting with # are ignored.
func ParseRecipients(r io.Reader, decimals int) ([]Recipient, error) {
	reader := csv.NewReader(r)
	reader.Comment = '#'
	reader.FieldsPerRecord = 2
	reader.TrimLeadingSpace = true

	var recipients []Recipient
	seen := make(map[common.Address]int)

	for first := true; ; first = false {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("unable to parse recipients: %w", err)
		}
		line, _ := reader.FieldPos(0)

		address := strings.TrimSpace(record[0])
		amount := strings.TrimSpace(record[1])
		if first && !common.IsHexAddress(address) && !strings.HasPrefix(address, "0x") {
			continue
		}

		if !common.IsHexAddress(address) {
			return nil, fmt.Errorf("line %d: %w: %q", line, ErrInvalidRecipient, address)
		}
		to := common.HexToAddress(address)
		if to == (common.Address{}) {
			return nil, fmt.Errorf("line %d: %w: zero address", line, ErrInvalidRecipient)
		}
		if prev, ok := seen[to]; ok {
			return nil, fmt.Errorf("line %d: %w %s (first seen on line %d)", line, ErrDuplicateRecipient, to.Hex(), prev)
		}

		raw, err := format.ParseUnits(amount, decimals)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w: %w", line, ErrInvalidAmount, err)
		}
		if raw.Sign() == 0 {
			return nil, fmt.Errorf("line %d: %w: amount must be positive", line, ErrInvalidAmount)
		}

		seen[to] = line
		recipients = append(recipients, Recipient{Line: line, Address: to, Amount: amount, Raw: raw})
		if len(recipients) > MaxRecipients {
			return nil, ErrTooManyRecipients
		}
	}

	if len(recipients) == 0 {
		return nil, ErrNoRecipients
	}
	return recipients, nil
}

// Total sums the raw amounts of recipients
func Total(recipients []Recipient) *big.Int {
	total := new(big.Int)
	for _, r := range recipients {
		total.Add(total, r.Raw)
	}
	return total
}

// Columns splits recipients into the contract call arguments
func Columns(recipients []Recipient) ([]common.Address, []*big.Int) {
	addresses := make([]common.Address, len(recipients))
	amounts := make([]*big.Int, len(recipients))
	for i, r := range recipients {
		addresses[i] = r.Address
		amounts[i] = r.Raw
	}
	return addresses, amounts
}
