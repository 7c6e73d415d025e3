// Package ledger talks to remote ledger services: paginated block-range
// queries, archive-shard resolution and symbol/length probes.
package ledger

import (
	"context"
	"errors"

	"github.com/vietddude/notifier/internal/core/domain"
)

// ErrTransport flags a failed or malformed remote call. Never fatal: the
// caller abandons the current attempt and retries on a later tick.
var ErrTransport = errors.New("transport error")

// ShardLocator addresses an archive shard holding evicted blocks.
type ShardLocator struct {
	Address domain.LedgerAddress `json:"address"`
	Method  string               `json:"method"`
}

// ArchivedRange describes part of a requested range that has moved to an
// archive shard.
type ArchivedRange struct {
	Start  uint64       `json:"start"`
	Length uint64       `json:"length"`
	Shard  ShardLocator `json:"shard"`
}

// QueryBlocksResult is the ledger's answer to one get-blocks call.
type QueryBlocksResult struct {
	Blocks         []domain.Block  `json:"blocks"`
	ChainLength    uint64          `json:"chain_length"`
	ArchivedBlocks []ArchivedRange `json:"archived_blocks"`
}

// Client is the capability surface of remote ledgers and their archives.
type Client interface {
	// QueryBlocks issues one get-blocks call. A (0, 0) query acts as a
	// chain-length probe.
	QueryBlocks(ctx context.Context, address domain.LedgerAddress, start, length uint64) (*QueryBlocksResult, error)

	// QueryArchive fetches a block range from an archive shard.
	QueryArchive(ctx context.Context, shard ShardLocator, start, length uint64) ([]domain.Block, error)

	// TokenSymbol resolves the ledger's token symbol.
	TokenSymbol(ctx context.Context, address domain.LedgerAddress) (string, error)
}
