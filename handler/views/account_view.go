package views

import (
	"comptroller/core"

	"github.com/shopspring/decimal"
)

// Account account liquidity view
type Account struct {
	UserID    string                  `json:"user_id"`
	Markets   []string                `json:"markets"`
	Liquidity *core.LiquiditySnapshot `json:"liquidity"`
}

// Reward pending reward view
type Reward struct {
	UserID      string          `json:"user_id"`
	Distributor string          `json:"distributor"`
	Accrued     decimal.Decimal `json:"accrued"`
}
