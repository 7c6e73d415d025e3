package domain

// NotifyTransactionArgs is the payload pushed to a subscriber for one block.
// One payload describes exactly one block; blocks are never merged.
type NotifyTransactionArgs struct {
	TokenSymbol   string        `json:"token_symbol"`
	LedgerAddress LedgerAddress `json:"ledger_address"`
	BlockIndex    uint64        `json:"block_index"`
	Block         Block         `json:"block"`
}

// Notification is a queued, undelivered push addressed to one subscriber.
type Notification struct {
	Subscriber SubscriberID          `json:"subscriber"`
	Args       NotifyTransactionArgs `json:"args"`
}
