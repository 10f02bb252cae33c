package core

import (
	"context"

	"github.com/shopspring/decimal"
)

// Weighting selects the per-market weight applied to collateral when
// aggregating an account's position. Borrowing power uses the
// collateral factor; liquidation eligibility uses the threshold.
// The two aggregations must never be conflated.
type Weighting int

const (
	// WeightCollateralFactor collateral-factor weighting
	WeightCollateralFactor Weighting = iota
	// WeightLiquidationThreshold liquidation-threshold weighting
	WeightLiquidationThreshold
)

// LiquiditySnapshot ephemeral solvency snapshot, recomputed per call
// and never persisted.
type LiquiditySnapshot struct {
	// 加权抵押价值 (USD)
	Collateral decimal.Decimal `json:"collateral"`
	// 未加权抵押价值 (USD)
	RawCollateral decimal.Decimal `json:"raw_collateral"`
	// 借款价值 (USD)
	Borrows decimal.Decimal `json:"borrows"`
	// 假设 redeem/borrow 的影响 (USD)
	HypotheticalEffect decimal.Decimal `json:"hypothetical_effect"`
	Liquidity          decimal.Decimal `json:"liquidity"`
	Shortfall          decimal.Decimal `json:"shortfall"`
}

// SnapshotOpts optional hypothetical perturbation against one market
type SnapshotOpts struct {
	// PerturbedAsset market the hypothetical redeem/borrow acts on
	PerturbedAsset string
	RedeemTokens   decimal.Decimal
	BorrowAmount   decimal.Decimal
	Weighting      Weighting
}

// ISnapshotService liquidity snapshot engine
type ISnapshotService interface {
	ComputeSnapshot(ctx context.Context, userID string, opts SnapshotOpts) (*LiquiditySnapshot, error)
}
