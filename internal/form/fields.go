package form

import "github.com/coinview/coinview/internal/market"

// PriceFields describes which price inputs the current order type shows and
// requires. Market orders carry none; a limit order reuses the first field
// relabeled "Limit Price"; a stop-limit order shows both.
type PriceFields struct {
	TriggerVisible  bool
	TriggerRequired bool
	TriggerLabel    string

	LimitVisible  bool
	LimitRequired bool
	LimitLabel    string
}

func (c *Controller) PriceFields() PriceFields {
	switch c.orderType {
	case market.TypeLimit:
		return PriceFields{
			TriggerVisible:  true,
			TriggerRequired: true,
			TriggerLabel:    "Limit Price",
		}
	case market.TypeStopLimit:
		return PriceFields{
			TriggerVisible:  true,
			TriggerRequired: true,
			TriggerLabel:    "Stop Price",
			LimitVisible:    true,
			LimitRequired:   true,
			LimitLabel:      "Limit Price",
		}
	default:
		return PriceFields{}
	}
}
