package models

// Write actions the tools can trigger
const (
	ActionWithdraw  = "withdraw"
	ActionClaim     = "claim"
	ActionApprove   = "approve"
	ActionMultisend = "multisend"
)

// TransactionState tracks the active write operation. It is replaced as a
// whole when a new write starts.
type TransactionState struct {
	JournalId   string `json:"journal_id,omitempty"`
	Action      string `json:"action,omitempty"`
	Target      string `json:"target,omitempty"`
	Pending     bool   `json:"pending"`
	Confirming  bool   `json:"confirming"`
	Success     bool   `json:"success"`
	Failed      bool   `json:"failed"`
	Hash        string `json:"hash,omitempty"`
	BlockNumber uint64 `json:"block_number,omitempty"`
	Error       string `json:"error,omitempty"`
}

// InFlight reports whether the write is still being signed, sent or confirmed
func (s TransactionState) InFlight() bool {
	return s.Pending || s.Confirming
}
