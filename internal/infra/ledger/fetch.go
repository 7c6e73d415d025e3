package ledger

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/vietddude/notifier/internal/core/domain"
)

// FetchRange returns up to maxLength blocks starting at start, resolving any
// part of the range that has moved into archive shards. Shard ranges are
// fetched concurrently, ordered ascending by starting index, and their
// blocks are concatenated ahead of the directly-returned blocks, so the
// result is gapless and in order.
//
// All-or-nothing: any remote failure fails the whole call and no partial
// result is returned. No retry here; the sync orchestrator retries on the
// next tick from the same cursor.
func FetchRange(ctx context.Context, c Client, address domain.LedgerAddress, start, maxLength uint64) ([]domain.Block, error) {
	res, err := c.QueryBlocks(ctx, address, start, maxLength)
	if err != nil {
		return nil, err
	}

	if len(res.ArchivedBlocks) == 0 {
		return res.Blocks, nil
	}

	ranges := make([]ArchivedRange, len(res.ArchivedBlocks))
	copy(ranges, res.ArchivedBlocks)
	sort.Slice(ranges, func(a, b int) bool { return ranges[a].Start < ranges[b].Start })

	archived := make([][]domain.Block, len(ranges))
	errs := make([]error, len(ranges))

	var wg sync.WaitGroup
	for i, r := range ranges {
		wg.Add(1)
		go func(i int, r ArchivedRange) {
			defer wg.Done()
			archived[i], errs[i] = c.QueryArchive(ctx, r.Shard, r.Start, r.Length)
		}(i, r)
	}
	wg.Wait()

	var blocks []domain.Block
	for i, shardBlocks := range archived {
		if errs[i] != nil {
			return nil, fmt.Errorf("archive range starting at %d: %w", ranges[i].Start, errs[i])
		}
		blocks = append(blocks, shardBlocks...)
	}

	return append(blocks, res.Blocks...), nil
}

// ChainLength probes the ledger for its current chain length.
func ChainLength(ctx context.Context, c Client, address domain.LedgerAddress) (uint64, error) {
	res, err := c.QueryBlocks(ctx, address, 0, 0)
	if err != nil {
		return 0, err
	}
	return res.ChainLength, nil
}
