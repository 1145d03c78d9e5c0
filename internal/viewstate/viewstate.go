// Package viewstate persists the last viewed (ticker, interval) pair across
// sessions in a small JSON file. Load failures of any kind degrade to "no
// saved state"; a corrupt file must never take the dashboard down.
package viewstate

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/coinview/coinview/internal/market"
)

const fileName = "trading_view.json"

// State is the persisted trading view: which pair and timeframe were on
// screen last.
type State struct {
	Ticker   string          `json:"ticker"`
	Interval market.Interval `json:"interval"`
}

// Store reads and writes the view state under one fixed name in baseDir.
type Store struct {
	baseDir string
}

func NewStore(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) path() string {
	return filepath.Join(s.baseDir, fileName)
}

// Save writes the pair atomically (temp file + rename). Incomplete input is
// refused rather than half-saved.
func (s *Store) Save(ticker string, interval market.Interval) error {
	if ticker == "" || !interval.Valid() {
		return fmt.Errorf("refusing to save incomplete view state (ticker=%q interval=%q)", ticker, interval)
	}
	if err := os.MkdirAll(s.baseDir, 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	b, err := json.MarshalIndent(State{Ticker: ticker, Interval: interval}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal view state: %w", err)
	}

	tmp := s.path() + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write view state: %w", err)
	}
	return os.Rename(tmp, s.path())
}

// Load returns the saved state, or nil when there is none. Missing files,
// unreadable files, and corrupt or incomplete JSON all read as nil; the
// caller falls back to defaults.
func (s *Store) Load() *State {
	b, err := os.ReadFile(s.path())
	if err != nil {
		if !os.IsNotExist(err) {
			logrus.WithError(err).Debug("view state unreadable, using defaults")
		}
		return nil
	}

	var st State
	if err := json.Unmarshal(b, &st); err != nil {
		logrus.WithError(err).Warn("view state corrupt, using defaults")
		return nil
	}
	if st.Ticker == "" || !st.Interval.Valid() {
		return nil
	}
	return &st
}
