package views

import (
	"comptroller/core"

	"github.com/shopspring/decimal"
)

// Market market view
type Market struct {
	core.Market
	Price        decimal.Decimal `json:"price"`
	TotalSupply  decimal.Decimal `json:"total_supply"`
	TotalBorrows decimal.Decimal `json:"total_borrows"`
	Members      int             `json:"members"`
}
