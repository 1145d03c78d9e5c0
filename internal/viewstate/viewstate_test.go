package viewstate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/coinview/coinview/internal/market"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	s := NewStore(t.TempDir())

	if err := s.Save("ETH", market.Interval4h); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got := s.Load()
	if got == nil {
		t.Fatal("Load returned nil after a successful save")
	}
	if got.Ticker != "ETH" || got.Interval != market.Interval4h {
		t.Errorf("Load = %+v, want ETH/4h", got)
	}
}

func TestLoadDegradesToNil(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)

	if got := s.Load(); got != nil {
		t.Errorf("Load with no file = %+v, want nil", got)
	}

	// Corrupt JSON reads as no saved state, never an error.
	if err := os.WriteFile(filepath.Join(dir, fileName), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := s.Load(); got != nil {
		t.Errorf("Load of corrupt file = %+v, want nil", got)
	}

	// Structurally valid but incomplete state is refused too.
	if err := os.WriteFile(filepath.Join(dir, fileName), []byte(`{"ticker":"","interval":"1d"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := s.Load(); got != nil {
		t.Errorf("Load of incomplete state = %+v, want nil", got)
	}

	// An unknown interval is stale data from another version: nil as well.
	if err := os.WriteFile(filepath.Join(dir, fileName), []byte(`{"ticker":"BTC","interval":"3w"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := s.Load(); got != nil {
		t.Errorf("Load of unknown interval = %+v, want nil", got)
	}
}

func TestSaveRefusesIncompleteState(t *testing.T) {
	s := NewStore(t.TempDir())

	if err := s.Save("", market.Interval1d); err == nil {
		t.Error("Save with empty ticker should fail")
	}
	if err := s.Save("BTC", market.Interval("bogus")); err == nil {
		t.Error("Save with invalid interval should fail")
	}
	if got := s.Load(); got != nil {
		t.Errorf("refused saves must not leave state behind, got %+v", got)
	}
}
