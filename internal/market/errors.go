package market

import "errors"

var (
	ErrAssetNotFound     = errors.New("asset not found")
	ErrOrderNotFound     = errors.New("order not found")
	ErrOrderNotOpen      = errors.New("order is not open")
	ErrHoldingNotFound   = errors.New("holding not found")
	ErrInvalidDirection  = errors.New("invalid trade direction")
	ErrInvalidOrderType  = errors.New("invalid order type")
	ErrInvalidInterval   = errors.New("invalid candle interval")
	ErrInvalidQuantity   = errors.New("quantity must be positive")
	ErrMissingPrice      = errors.New("order type requires a price")
	ErrSameAssetPair     = errors.New("cannot trade an asset against itself")
	ErrInsufficientFunds = errors.New("insufficient available balance")
)
