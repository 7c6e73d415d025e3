package state

import (
	"testing"
)

func TestTryStart(t *testing.T) {
	tests := []struct {
		name       string
		enabled    bool
		inProgress bool
		wantErr    error
	}{
		{"disabled", false, false, ErrSyncDisabled},
		{"enabled idle", true, false, nil},
		{"enabled in progress", true, true, ErrSyncInProgress},
		{"disabled in progress", false, true, ErrSyncDisabled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewLedgerSyncState(100)
			s.SetEnabled(tt.enabled)
			s.inProgress = tt.inProgress

			claim, err := s.TryStart(1000)
			if err != tt.wantErr {
				t.Fatalf("TryStart() error = %v, want %v", err, tt.wantErr)
			}

			if tt.wantErr == nil {
				if claim.NextBlock != 100 {
					t.Errorf("claim.NextBlock = %d, want 100", claim.NextBlock)
				}
				if !s.InProgress() {
					t.Error("expected in-progress after successful claim")
				}
				if s.LastSyncStartedAt() != 1000 {
					t.Errorf("LastSyncStartedAt = %d, want 1000", s.LastSyncStartedAt())
				}
			}
		})
	}
}

func TestTryStartNoDoubleClaim(t *testing.T) {
	s := NewLedgerSyncState(0)
	s.SetEnabled(true)

	if _, err := s.TryStart(1); err != nil {
		t.Fatalf("first claim failed: %v", err)
	}
	if _, err := s.TryStart(2); err != ErrSyncInProgress {
		t.Fatalf("second claim error = %v, want ErrSyncInProgress", err)
	}
}

func TestComplete(t *testing.T) {
	s := NewLedgerSyncState(0)
	s.SetEnabled(true)

	if _, err := s.TryStart(10); err != nil {
		t.Fatal(err)
	}
	s.Complete(true, 20)

	if s.InProgress() {
		t.Error("expected in-progress cleared")
	}
	if s.LastSuccessfulSync() != 20 {
		t.Errorf("LastSuccessfulSync = %d, want 20", s.LastSuccessfulSync())
	}

	if _, err := s.TryStart(30); err != nil {
		t.Fatal(err)
	}
	s.Complete(false, 40)

	if s.LastFailedSync() != 40 {
		t.Errorf("LastFailedSync = %d, want 40", s.LastFailedSync())
	}
	if s.LastSuccessfulSync() != 20 {
		t.Errorf("LastSuccessfulSync = %d, want 20 (unchanged)", s.LastSuccessfulSync())
	}
}

func TestAdvanceCursorVersionGuard(t *testing.T) {
	s := NewLedgerSyncState(100)
	s.SetEnabled(true)

	claim, err := s.TryStart(1)
	if err != nil {
		t.Fatal(err)
	}

	// Administrative override supersedes the in-flight sync.
	s.OverrideCursor(50)
	if s.Version() != claim.Version+1 {
		t.Fatalf("Version = %d, want %d", s.Version(), claim.Version+1)
	}

	// The stale write must be dropped.
	s.AdvanceCursor(103, claim.Version)
	if s.NextBlock() != 50 {
		t.Errorf("NextBlock = %d, want 50 after stale write dropped", s.NextBlock())
	}

	// A write under the current version applies.
	s.AdvanceCursor(60, s.Version())
	if s.NextBlock() != 60 {
		t.Errorf("NextBlock = %d, want 60", s.NextBlock())
	}
}

func TestOverrideCursorDoesNotTouchEnabled(t *testing.T) {
	s := NewLedgerSyncState(0)
	s.SetEnabled(true)
	s.OverrideCursor(77)

	if !s.Enabled() {
		t.Error("override must not toggle enabled")
	}
	if s.NextBlock() != 77 {
		t.Errorf("NextBlock = %d, want 77", s.NextBlock())
	}
}

func TestRestoreRoundTrip(t *testing.T) {
	s := Restore(true, 42, 3, 100, 200, 300)

	if !s.Enabled() || s.NextBlock() != 42 || s.Version() != 3 {
		t.Errorf("restored state mismatch: enabled=%v next=%d version=%d",
			s.Enabled(), s.NextBlock(), s.Version())
	}
	if s.LastSyncStartedAt() != 100 || s.LastSuccessfulSync() != 200 || s.LastFailedSync() != 300 {
		t.Error("restored timestamps mismatch")
	}
	if s.InProgress() {
		t.Error("restored state must not be in progress")
	}
}
