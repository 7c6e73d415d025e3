package domain

// LedgerAddress identifies a remote ledger service. It is opaque to the
// engine; the transport layer knows how to reach it.
type LedgerAddress string

// SubscriberID identifies a downstream subscriber service.
type SubscriberID string

// AccountID identifies a ledger account touched by an operation.
type AccountID string

// Tokens is an amount in the ledger's smallest denomination.
type Tokens uint64

type OpType string

const (
	OpTransfer OpType = "transfer"
	OpMint     OpType = "mint"
	OpBurn     OpType = "burn"
)

// Operation is the single transfer/mint/burn carried by a block.
type Operation struct {
	Type   OpType    `json:"type"`
	From   AccountID `json:"from,omitempty"`
	To     AccountID `json:"to,omitempty"`
	Amount Tokens    `json:"amount"`
	Fee    Tokens    `json:"fee,omitempty"`
}

// TouchedAccounts returns the accounts affected by the operation.
// A transfer touches both sender and receiver, a mint only the receiver,
// a burn only the sender.
func (op Operation) TouchedAccounts() []AccountID {
	switch op.Type {
	case OpTransfer:
		return []AccountID{op.From, op.To}
	case OpMint:
		return []AccountID{op.To}
	case OpBurn:
		return []AccountID{op.From}
	default:
		return nil
	}
}

// Transaction is the ledger-confirmed transaction inside a block.
type Transaction struct {
	Operation Operation `json:"operation"`
	Memo      uint64    `json:"memo"`
	CreatedAt uint64    `json:"created_at"`
}

// Block is one finalized ledger entry at a fixed index. The index itself is
// positional: a fetch starting at block N returns blocks N, N+1, ... in order.
type Block struct {
	ParentHash  string      `json:"parent_hash,omitempty"`
	Transaction Transaction `json:"transaction"`
	Timestamp   uint64      `json:"timestamp"`
}
