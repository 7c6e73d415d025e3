package state

import (
	"errors"
)

var (
	// ErrSyncDisabled is returned when sync is not enabled for a token.
	ErrSyncDisabled = errors.New("sync disabled")

	// ErrSyncInProgress is returned when a sync attempt is already running.
	ErrSyncInProgress = errors.New("sync already in progress")
)

// Version is bumped on every administrative cursor override. A sync claimed
// under an older version cannot clobber the overridden cursor when it
// completes.
type Version uint64

// LedgerSyncState tracks the sync position and status for one ledger.
//
// It is a two-state machine: idle (enabled or not) and in-progress. TryStart
// is the single serialization point; while inProgress is set no second
// attempt can start for the same ledger.
//
// Not safe for concurrent use on its own: callers go through the Container,
// which serializes access.
type LedgerSyncState struct {
	enabled    bool
	inProgress bool

	// nextBlock is the next block index to fetch.
	nextBlock uint64

	lastSyncStartedAt  uint64
	lastSuccessfulSync uint64
	lastFailedSync     uint64

	version Version
}

// NewLedgerSyncState creates sync state positioned at the given block index.
func NewLedgerSyncState(nextBlock uint64) *LedgerSyncState {
	return &LedgerSyncState{nextBlock: nextBlock}
}

// SyncClaim is the snapshot handed to a sync attempt at claim time.
type SyncClaim struct {
	NextBlock uint64
	Version   Version
}

// TryStart claims the ledger for a sync attempt. It fails with
// ErrSyncDisabled or ErrSyncInProgress without changing state; otherwise it
// sets the in-progress flag, stamps the start time and returns the cursor
// snapshot the attempt must sync from.
func (s *LedgerSyncState) TryStart(now uint64) (SyncClaim, error) {
	if !s.enabled {
		return SyncClaim{}, ErrSyncDisabled
	}
	if s.inProgress {
		return SyncClaim{}, ErrSyncInProgress
	}

	s.inProgress = true
	s.lastSyncStartedAt = now

	return SyncClaim{NextBlock: s.nextBlock, Version: s.version}, nil
}

// AdvanceCursor moves the cursor forward on behalf of a sync attempt claimed
// at the given version. If an administrative override has bumped the version
// since the claim, the write is silently dropped: the latest administrative
// intent wins.
func (s *LedgerSyncState) AdvanceCursor(nextBlock uint64, versionAtClaim Version) {
	if versionAtClaim != s.version {
		return
	}
	s.nextBlock = nextBlock
}

// Complete clears the in-progress flag and stamps the outcome time.
func (s *LedgerSyncState) Complete(success bool, now uint64) {
	s.inProgress = false

	if success {
		s.lastSuccessfulSync = now
	} else {
		s.lastFailedSync = now
	}
}

// SetEnabled toggles sync without touching the cursor.
func (s *LedgerSyncState) SetEnabled(enabled bool) {
	s.enabled = enabled
}

// OverrideCursor repositions the cursor administratively and bumps the
// version so that any in-flight sync claimed under the old version cannot
// advance past the override.
func (s *LedgerSyncState) OverrideCursor(nextBlock uint64) {
	s.nextBlock = nextBlock
	s.version++
}

func (s *LedgerSyncState) Enabled() bool              { return s.enabled }
func (s *LedgerSyncState) InProgress() bool           { return s.inProgress }
func (s *LedgerSyncState) NextBlock() uint64          { return s.nextBlock }
func (s *LedgerSyncState) Version() Version           { return s.version }
func (s *LedgerSyncState) LastSyncStartedAt() uint64  { return s.lastSyncStartedAt }
func (s *LedgerSyncState) LastSuccessfulSync() uint64 { return s.lastSuccessfulSync }
func (s *LedgerSyncState) LastFailedSync() uint64     { return s.lastFailedSync }

// Restore rebuilds sync state from persisted fields. Used at startup only.
func Restore(enabled bool, nextBlock uint64, version Version, startedAt, succeededAt, failedAt uint64) *LedgerSyncState {
	return &LedgerSyncState{
		enabled:            enabled,
		nextBlock:          nextBlock,
		version:            version,
		lastSyncStartedAt:  startedAt,
		lastSuccessfulSync: succeededAt,
		lastFailedSync:     failedAt,
	}
}
