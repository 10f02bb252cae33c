package core

import (
	"context"

	"github.com/shopspring/decimal"
)

// PriceTicker price ticker pulled from the oracle feed
type PriceTicker struct {
	Provider string          `json:"provider,omitempty"`
	Symbol   string          `json:"symbol,omitempty"`
	Price    decimal.Decimal `json:"price,omitempty"`
}

// IPriceOracleService oracle collaborator interface. A zero price
// means the asset cannot be priced and must abort the caller.
type IPriceOracleService interface {
	// UpdatePrice refresh the cached price; must be called before a
	// price is trusted within the same logical step
	UpdatePrice(ctx context.Context, market *Market) error
	GetUnderlyingPrice(ctx context.Context, market *Market) (decimal.Decimal, error)
	PullPriceTicker(ctx context.Context, symbol string) (*PriceTicker, error)
}
