package core

import (
	"context"

	"github.com/shopspring/decimal"
)

// AccountSnapshot balances reported by the market token collaborator
type AccountSnapshot struct {
	ShareBalance  decimal.Decimal `json:"share_balance"`
	BorrowBalance decimal.Decimal `json:"borrow_balance"`
	ExchangeRate  decimal.Decimal `json:"exchange_rate"`
}

// MarketToken the external share-accounting collaborator. The engine
// reads balances from it and drives seize/heal/force-liquidate
// primitives; it never mutates token balances directly.
type MarketToken interface {
	GetAccountSnapshot(ctx context.Context, assetID, userID string) (*AccountSnapshot, error)
	TotalSupply(ctx context.Context, assetID string) (decimal.Decimal, error)
	TotalBorrows(ctx context.Context, assetID string) (decimal.Decimal, error)
	ExchangeRate(ctx context.Context, assetID string) (decimal.Decimal, error)
	BorrowBalance(ctx context.Context, assetID, userID string) (decimal.Decimal, error)
	// Seize transfer share tokens from borrower to liquidator
	Seize(ctx context.Context, assetID, liquidator, borrower string, tokens decimal.Decimal) error
	// HealBorrow repay part of a borrow on behalf of the borrower and
	// write off the remainder
	HealBorrow(ctx context.Context, assetID, payer, borrower string, repayAmount decimal.Decimal) error
	// ForceLiquidate liquidate skipping the close-factor bound
	ForceLiquidate(ctx context.Context, borrowedAssetID, liquidator, borrower string, repayAmount decimal.Decimal, collateralAssetID string, skipCheck bool) error
}
