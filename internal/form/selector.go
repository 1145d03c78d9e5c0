package form

import "github.com/coinview/coinview/internal/market"

// Selector models one currency dropdown: an option list, the selected
// ticker, and a disabled flag for the empty state. It is the single place
// that knows how a repopulation resolves the new selection.
type Selector struct {
	options     []market.Asset
	value       string
	disabled    bool
	placeholder string
	onChange    func(ticker string)
}

// OnChange registers the change listener. At most one listener is held;
// registering replaces the previous one, so wiring a selector twice cannot
// double-fire downstream updates.
func (s *Selector) OnChange(fn func(ticker string)) {
	s.onChange = fn
}

// Populate replaces the option list and resolves the new selection:
// preferred if present, else the previous selection if still present, else
// the first option. An empty list disables the control, shows
// emptyPlaceholder, and resolves to "".
//
// The change listener fires exactly once per call, even when the resolved
// value equals the previous one, so dependent labels always refresh after a
// repopulation. Returns the resolved ticker.
func (s *Selector) Populate(options []market.Asset, preferred, emptyPlaceholder string) string {
	prev := s.value
	s.options = options

	if len(options) == 0 {
		s.value = ""
		s.disabled = true
		s.placeholder = emptyPlaceholder
		if s.placeholder == "" {
			s.placeholder = "No options"
		}
		s.fireChange()
		return ""
	}

	s.disabled = false
	s.placeholder = ""

	switch {
	case preferred != "" && s.contains(preferred):
		s.value = preferred
	case prev != "" && s.contains(prev):
		s.value = prev
	default:
		s.value = options[0].Ticker
	}

	s.fireChange()
	return s.value
}

// Select applies a user-driven selection. Unknown tickers are ignored; the
// listener fires only on an actual change.
func (s *Selector) Select(ticker string) bool {
	if s.disabled || !s.contains(ticker) || ticker == s.value {
		return false
	}
	s.value = ticker
	s.fireChange()
	return true
}

// Value returns the selected ticker, "" when nothing is selected.
func (s *Selector) Value() string {
	return s.value
}

func (s *Selector) Disabled() bool {
	return s.disabled
}

func (s *Selector) Placeholder() string {
	return s.placeholder
}

func (s *Selector) Options() []market.Asset {
	return s.options
}

// Index returns the position of the selected option, -1 when none.
func (s *Selector) Index() int {
	for i, o := range s.options {
		if o.Ticker == s.value {
			return i
		}
	}
	return -1
}

// SelectIndex selects the option at position i, ignoring out-of-range moves.
func (s *Selector) SelectIndex(i int) bool {
	if i < 0 || i >= len(s.options) {
		return false
	}
	return s.Select(s.options[i].Ticker)
}

func (s *Selector) contains(ticker string) bool {
	for _, o := range s.options {
		if o.Ticker == ticker {
			return true
		}
	}
	return false
}

func (s *Selector) fireChange() {
	if s.onChange != nil {
		s.onChange(s.value)
	}
}

// withoutTicker filters an asset list, dropping one ticker. Used to keep a
// counter selector from ever offering the primary asset.
func withoutTicker(assets []market.Asset, ticker string) []market.Asset {
	out := make([]market.Asset, 0, len(assets))
	for _, a := range assets {
		if a.Ticker != ticker {
			out = append(out, a)
		}
	}
	return out
}
