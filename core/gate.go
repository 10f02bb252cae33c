package core

import (
	"context"

	"github.com/shopspring/decimal"
)

// IGateService policy hooks. Every balance-changing call on a market
// token passes through the matching hook before mutating balances;
// a non-nil error is a hard stop.
type IGateService interface {
	PreMint(ctx context.Context, market *Market, minter string, amount decimal.Decimal) error
	PreRedeem(ctx context.Context, market *Market, redeemer string, tokens decimal.Decimal) error
	// PreBorrow auto-joins the borrower only when caller is the market
	// token itself, identified by its ctoken asset id
	PreBorrow(ctx context.Context, caller string, market *Market, borrower string, amount decimal.Decimal) error
	PreRepay(ctx context.Context, market *Market, payer, borrower string, amount decimal.Decimal) error
	PreLiquidate(ctx context.Context, borrowedMarket, collateralMarket *Market, liquidator, borrower string, repayAmount decimal.Decimal, skipLiquidityCheck bool) error
	PreSeize(ctx context.Context, collateralMarket, seizerMarket *Market, liquidator, borrower string, tokens decimal.Decimal) error
	PreTransfer(ctx context.Context, market *Market, src, dst string, tokens decimal.Decimal) error
	EnterMarket(ctx context.Context, userID string, market *Market) error
	ExitMarket(ctx context.Context, userID string, market *Market) error
}

// LiquidationOrder one (borrowed, collateral, repay) leg of a batch
// liquidation
type LiquidationOrder struct {
	BorrowedAssetID   string          `json:"borrowed_asset_id"`
	CollateralAssetID string          `json:"collateral_asset_id"`
	RepayAmount       decimal.Decimal `json:"repay_amount"`
}

// ILiquidationService the two resolution paths for accounts below the
// collateral floor; mutually exclusive and jointly exhaustive.
type ILiquidationService interface {
	LiquidateAccount(ctx context.Context, liquidator, borrower string, orders []*LiquidationOrder) error
	HealAccount(ctx context.Context, healer, borrower string) error
}
