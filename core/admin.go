package core

import (
	"context"

	"github.com/shopspring/decimal"
)

// IAdminService the capability-checked config mutation surface. Every
// method checks the caller's scope against the access service and
// records an event; configuration errors abort, never clamp.
type IAdminService interface {
	ListMarket(ctx context.Context, caller string, market *Market) error
	SetCollateralFactor(ctx context.Context, caller, assetID string, factor decimal.Decimal) error
	SetLiquidationThreshold(ctx context.Context, caller, assetID string, threshold decimal.Decimal) error
	SetSupplyCap(ctx context.Context, caller, assetID string, cap decimal.Decimal) error
	SetBorrowCap(ctx context.Context, caller, assetID string, cap decimal.Decimal) error
	SetActionPaused(ctx context.Context, caller, assetID string, action ActionKind, paused bool) error
	SetForcedLiquidation(ctx context.Context, caller, assetID string, enabled bool) error
	SetCloseFactor(ctx context.Context, caller string, poolID uint64, factor decimal.Decimal) error
	SetLiquidationIncentive(ctx context.Context, caller string, poolID uint64, incentive decimal.Decimal) error
	SetMinLiquidatableCollateral(ctx context.Context, caller string, poolID uint64, min decimal.Decimal) error
	SetPriceOracle(ctx context.Context, caller string, poolID uint64, endpoint string) error
	ResolveBadDebt(ctx context.Context, caller, assetID string, amount decimal.Decimal) error
	AddDistributor(ctx context.Context, caller, assetID, distributor string) error
	SetRewardSpeeds(ctx context.Context, caller, assetID, distributor string, supplySpeed, borrowSpeed decimal.Decimal) error
	SetLastRewardingBlock(ctx context.Context, caller, assetID, distributor string, block int64) error
}
