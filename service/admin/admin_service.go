package admin

import (
	"context"

	"comptroller/core"
	"comptroller/internal/engine"
	"comptroller/pkg/id"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

type adminService struct {
	txer        core.Txer
	access      core.IAccessService
	marketStore core.IMarketStore
	poolStore   core.IPoolStore
	oracle      core.IPriceOracleService
	flywheel    core.IFlywheelService
	eventStore  core.IEventStore
}

// New new admin service
func New(
	txer core.Txer,
	access core.IAccessService,
	marketStore core.IMarketStore,
	poolStore core.IPoolStore,
	oracle core.IPriceOracleService,
	flywheel core.IFlywheelService,
	eventStore core.IEventStore,
) core.IAdminService {
	return &adminService{
		txer:        txer,
		access:      access,
		marketStore: marketStore,
		poolStore:   poolStore,
		oracle:      oracle,
		flywheel:    flywheel,
		eventStore:  eventStore,
	}
}

func (s *adminService) ListMarket(ctx context.Context, caller string, market *core.Market) error {
	if !s.access.Allowed(ctx, caller, core.ScopeListMarket) {
		return core.ErrOperationForbidden
	}

	if err := validateRiskParams(market.CollateralFactor, market.LiquidationThreshold); err != nil {
		return err
	}

	if _, err := s.poolStore.Find(ctx, market.PoolID); err != nil {
		return err
	}

	market.IsListed = true

	log := logger.FromContext(ctx).WithField("admin", caller)

	return s.txer.Tx(func(tx *db.DB) error {
		if err := s.marketStore.Save(ctx, tx, market); err != nil {
			return err
		}

		log.Infof("market %s listed", market.Symbol)
		return s.event(ctx, tx, core.EventMarketListed, market.AssetID, caller, market)
	})
}

func (s *adminService) SetCollateralFactor(ctx context.Context, caller, assetID string, factor decimal.Decimal) error {
	if !s.access.Allowed(ctx, caller, core.ScopeSetRiskParams) {
		return core.ErrOperationForbidden
	}

	market, err := s.marketStore.Find(ctx, assetID)
	if err != nil {
		return err
	}

	if err := validateRiskParams(factor, market.LiquidationThreshold); err != nil {
		return err
	}

	// raising the factor from zero needs a priced asset; lowering or
	// keeping it at zero does not
	if market.CollateralFactor.IsZero() && factor.IsPositive() {
		if err := s.oracle.UpdatePrice(ctx, market); err != nil {
			return err
		}
		price, err := s.oracle.GetUnderlyingPrice(ctx, market)
		if err != nil {
			return err
		}
		if !price.IsPositive() {
			return core.ErrInvalidPrice
		}
	}

	market.CollateralFactor = factor

	return s.updateMarket(ctx, market, core.EventCollateralFactor, caller, factor)
}

func (s *adminService) SetLiquidationThreshold(ctx context.Context, caller, assetID string, threshold decimal.Decimal) error {
	if !s.access.Allowed(ctx, caller, core.ScopeSetRiskParams) {
		return core.ErrOperationForbidden
	}

	market, err := s.marketStore.Find(ctx, assetID)
	if err != nil {
		return err
	}

	if threshold.LessThan(market.CollateralFactor) || threshold.GreaterThan(engine.LiquidationThresholdMax) {
		return core.ErrInvalidLiquidationThreshold
	}

	market.LiquidationThreshold = threshold

	return s.updateMarket(ctx, market, core.EventThresholdChanged, caller, threshold)
}

func (s *adminService) SetSupplyCap(ctx context.Context, caller, assetID string, cap decimal.Decimal) error {
	if !s.access.Allowed(ctx, caller, core.ScopeSetCaps) {
		return core.ErrOperationForbidden
	}
	if cap.IsNegative() {
		return core.ErrInvalidAmount
	}

	market, err := s.marketStore.Find(ctx, assetID)
	if err != nil {
		return err
	}

	market.SupplyCap = cap

	return s.updateMarket(ctx, market, core.EventCapsChanged, caller, cap)
}

func (s *adminService) SetBorrowCap(ctx context.Context, caller, assetID string, cap decimal.Decimal) error {
	if !s.access.Allowed(ctx, caller, core.ScopeSetCaps) {
		return core.ErrOperationForbidden
	}
	if cap.IsNegative() {
		return core.ErrInvalidAmount
	}

	market, err := s.marketStore.Find(ctx, assetID)
	if err != nil {
		return err
	}

	market.BorrowCap = cap

	return s.updateMarket(ctx, market, core.EventCapsChanged, caller, cap)
}

func (s *adminService) SetActionPaused(ctx context.Context, caller, assetID string, action core.ActionKind, paused bool) error {
	if !s.access.Allowed(ctx, caller, core.ScopeSetPause) {
		return core.ErrOperationForbidden
	}
	if !core.ValidActionKind(string(action)) {
		return core.ErrInvalidArgument
	}

	market, err := s.marketStore.Find(ctx, assetID)
	if err != nil {
		return err
	}

	market.SetPaused(action, paused)

	return s.updateMarket(ctx, market, core.EventActionPaused, caller, map[string]interface{}{
		"action": action,
		"paused": paused,
	})
}

func (s *adminService) SetForcedLiquidation(ctx context.Context, caller, assetID string, enabled bool) error {
	if !s.access.Allowed(ctx, caller, core.ScopeForceLiquidation) {
		return core.ErrOperationForbidden
	}

	market, err := s.marketStore.Find(ctx, assetID)
	if err != nil {
		return err
	}

	market.ForcedLiquidation = enabled

	return s.updateMarket(ctx, market, core.EventForcedLiquidation, caller, enabled)
}

func (s *adminService) SetCloseFactor(ctx context.Context, caller string, poolID uint64, factor decimal.Decimal) error {
	if !s.access.Allowed(ctx, caller, core.ScopeSetPool) {
		return core.ErrOperationForbidden
	}

	if !factor.GreaterThan(engine.CloseFactorMin) || factor.GreaterThan(engine.CloseFactorMax) {
		return core.ErrInvalidArgument
	}

	pool, err := s.poolStore.Find(ctx, poolID)
	if err != nil {
		return err
	}

	pool.CloseFactor = factor

	return s.updatePool(ctx, pool, caller, factor)
}

func (s *adminService) SetLiquidationIncentive(ctx context.Context, caller string, poolID uint64, incentive decimal.Decimal) error {
	if !s.access.Allowed(ctx, caller, core.ScopeSetPool) {
		return core.ErrOperationForbidden
	}

	if incentive.LessThan(engine.LiquidationIncentiveMin) || incentive.GreaterThan(engine.LiquidationIncentiveMax) {
		return core.ErrInvalidArgument
	}

	pool, err := s.poolStore.Find(ctx, poolID)
	if err != nil {
		return err
	}

	pool.LiquidationIncentive = incentive

	return s.updatePool(ctx, pool, caller, incentive)
}

func (s *adminService) SetMinLiquidatableCollateral(ctx context.Context, caller string, poolID uint64, min decimal.Decimal) error {
	if !s.access.Allowed(ctx, caller, core.ScopeSetPool) {
		return core.ErrOperationForbidden
	}
	if min.IsNegative() {
		return core.ErrInvalidAmount
	}

	pool, err := s.poolStore.Find(ctx, poolID)
	if err != nil {
		return err
	}

	pool.MinLiquidatableCollateral = min

	return s.updatePool(ctx, pool, caller, min)
}

func (s *adminService) SetPriceOracle(ctx context.Context, caller string, poolID uint64, endpoint string) error {
	if !s.access.Allowed(ctx, caller, core.ScopeSetOracle) {
		return core.ErrOperationForbidden
	}
	if endpoint == "" {
		return core.ErrInvalidArgument
	}

	pool, err := s.poolStore.Find(ctx, poolID)
	if err != nil {
		return err
	}

	pool.OracleEndpoint = endpoint

	return s.txer.Tx(func(tx *db.DB) error {
		if err := s.poolStore.Update(ctx, tx, pool); err != nil {
			return err
		}
		return s.event(ctx, tx, core.EventOracleChanged, "", caller, endpoint)
	})
}

// ResolveBadDebt reduces a market's recorded bad debt after the
// external risk fund or auction recovered it.
func (s *adminService) ResolveBadDebt(ctx context.Context, caller, assetID string, amount decimal.Decimal) error {
	if !s.access.Allowed(ctx, caller, core.ScopeResolveBadDebt) {
		return core.ErrOperationForbidden
	}
	if !amount.IsPositive() {
		return core.ErrInvalidAmount
	}

	market, err := s.marketStore.Find(ctx, assetID)
	if err != nil {
		return err
	}

	if amount.GreaterThan(market.BadDebt) {
		return core.ErrInvalidAmount
	}

	market.BadDebt = market.BadDebt.Sub(amount)

	return s.updateMarket(ctx, market, core.EventBadDebtResolved, caller, amount)
}

func (s *adminService) AddDistributor(ctx context.Context, caller, assetID, distributor string) error {
	if !s.access.Allowed(ctx, caller, core.ScopeSetRewards) {
		return core.ErrOperationForbidden
	}
	if distributor == "" {
		return core.ErrInvalidArgument
	}

	market, err := s.marketStore.Find(ctx, assetID)
	if err != nil {
		return err
	}

	return s.txer.Tx(func(tx *db.DB) error {
		if err := s.flywheel.AddDistributor(ctx, tx, market, distributor); err != nil {
			return err
		}
		return s.event(ctx, tx, core.EventDistributorAdded, assetID, caller, distributor)
	})
}

func (s *adminService) SetRewardSpeeds(ctx context.Context, caller, assetID, distributor string, supplySpeed, borrowSpeed decimal.Decimal) error {
	if !s.access.Allowed(ctx, caller, core.ScopeSetRewards) {
		return core.ErrOperationForbidden
	}

	market, err := s.marketStore.Find(ctx, assetID)
	if err != nil {
		return err
	}

	return s.txer.Tx(func(tx *db.DB) error {
		if err := s.flywheel.SetRewardSpeeds(ctx, tx, market, distributor, supplySpeed, borrowSpeed); err != nil {
			return err
		}
		return s.event(ctx, tx, core.EventRewardSpeedChanged, assetID, caller, map[string]interface{}{
			"distributor":  distributor,
			"supply_speed": supplySpeed,
			"borrow_speed": borrowSpeed,
		})
	})
}

func (s *adminService) SetLastRewardingBlock(ctx context.Context, caller, assetID, distributor string, block int64) error {
	if !s.access.Allowed(ctx, caller, core.ScopeSetRewards) {
		return core.ErrOperationForbidden
	}

	market, err := s.marketStore.Find(ctx, assetID)
	if err != nil {
		return err
	}

	return s.txer.Tx(func(tx *db.DB) error {
		if err := s.flywheel.SetLastRewardingBlock(ctx, tx, market, distributor, block); err != nil {
			return err
		}
		return s.event(ctx, tx, core.EventRewardingCutoff, assetID, caller, map[string]interface{}{
			"distributor": distributor,
			"block":       block,
		})
	})
}

func (s *adminService) updateMarket(ctx context.Context, market *core.Market, kind, caller string, payload interface{}) error {
	return s.txer.Tx(func(tx *db.DB) error {
		if err := s.marketStore.Update(ctx, tx, market); err != nil {
			return err
		}
		return s.event(ctx, tx, kind, market.AssetID, caller, payload)
	})
}

func (s *adminService) updatePool(ctx context.Context, pool *core.Pool, caller string, payload interface{}) error {
	return s.txer.Tx(func(tx *db.DB) error {
		if err := s.poolStore.Update(ctx, tx, pool); err != nil {
			return err
		}
		return s.event(ctx, tx, core.EventPoolChanged, "", caller, payload)
	})
}

func (s *adminService) event(ctx context.Context, tx *db.DB, kind, assetID, caller string, payload interface{}) error {
	event := &core.Event{
		TraceID: id.GenTraceID(),
		Kind:    kind,
		AssetID: assetID,
		UserID:  caller,
	}
	if err := event.SetPayload(payload); err != nil {
		return err
	}
	return s.eventStore.Create(ctx, tx, event)
}

func validateRiskParams(factor, threshold decimal.Decimal) error {
	if factor.IsNegative() || factor.GreaterThan(engine.CollateralFactorMax) {
		return core.ErrInvalidCollateralFactor
	}
	if threshold.LessThan(factor) || threshold.GreaterThan(engine.LiquidationThresholdMax) {
		return core.ErrInvalidLiquidationThreshold
	}
	return nil
}
