package liquidation

import (
	"context"
	"fmt"

	"comptroller/core"
	"comptroller/internal/engine"
	"comptroller/pkg/id"
	"comptroller/pkg/mathx"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store/db"
)

type liquidationService struct {
	txer            core.Txer
	marketStore     core.IMarketStore
	membershipStore core.IMembershipStore
	poolStore       core.IPoolStore
	token           core.MarketToken
	snapshotz       core.ISnapshotService
	gate            core.IGateService
	eventStore      core.IEventStore
	guard           *engine.Guard
}

// New new liquidation service
func New(
	txer core.Txer,
	marketStore core.IMarketStore,
	membershipStore core.IMembershipStore,
	poolStore core.IPoolStore,
	token core.MarketToken,
	snapshotz core.ISnapshotService,
	gate core.IGateService,
	eventStore core.IEventStore,
) core.ILiquidationService {
	return &liquidationService{
		txer:            txer,
		marketStore:     marketStore,
		membershipStore: membershipStore,
		poolStore:       poolStore,
		token:           token,
		snapshotz:       snapshotz,
		gate:            gate,
		eventStore:      eventStore,
		guard:           engine.NewGuard(),
	}
}

// LiquidateAccount resolves a deeply underwater account below the
// collateral floor in one atomic batch. Works only when seizing the
// incentive-scaled debt still fits inside the collateral; otherwise
// the caller must heal instead.
func (s *liquidationService) LiquidateAccount(ctx context.Context, liquidator, borrower string, orders []*core.LiquidationOrder) error {
	log := logger.FromContext(ctx).WithField("liquidation", borrower)

	if len(orders) == 0 {
		return core.ErrInvalidArgument
	}

	release, err := s.guard.Enter("liquidate:" + borrower)
	if err != nil {
		return err
	}
	defer release()

	snapshot, pool, err := s.underwater(ctx, borrower)
	if err != nil {
		return err
	}

	seizeValue := engine.SeizeValue(snapshot.Borrows, pool.LiquidationIncentive)
	if !seizeValue.LessThan(snapshot.RawCollateral) {
		return core.ErrInsufficientCollateral
	}

	members, err := s.membershipStore.List(ctx, borrower)
	if err != nil {
		return err
	}

	return s.txer.Tx(func(tx *db.DB) error {
		for _, order := range orders {
			borrowedMarket, err := s.marketStore.Find(ctx, order.BorrowedAssetID)
			if err != nil {
				return err
			}
			collateralMarket, err := s.marketStore.Find(ctx, order.CollateralAssetID)
			if err != nil {
				return err
			}
			if borrowedMarket.PoolID != collateralMarket.PoolID {
				return core.ErrPoolMismatch
			}

			// the account is by definition deeply underwater; a partial
			// close-factor liquidation would leave it stuck
			if err := s.gate.PreLiquidate(ctx, borrowedMarket, collateralMarket, liquidator, borrower, order.RepayAmount, true); err != nil {
				return err
			}

			if err := s.token.ForceLiquidate(ctx, order.BorrowedAssetID, liquidator, borrower, order.RepayAmount, order.CollateralAssetID, true); err != nil {
				return err
			}
		}

		// post-condition: a malformed order set aborts the whole batch
		for _, member := range members {
			balance, err := s.token.BorrowBalance(ctx, member.AssetID, borrower)
			if err != nil {
				return err
			}
			if balance.IsPositive() {
				log.WithField("market", member.AssetID).Errorln("borrow balance not cleared")
				return core.ErrNonzeroBorrowBalance
			}
		}

		event := &core.Event{
			TraceID: id.TraceIDFrom(fmt.Sprintf("liquidate-%s-%s", borrower, liquidator)),
			Kind:    core.EventAccountLiquidated,
			UserID:  borrower,
		}
		if err := event.SetPayload(map[string]interface{}{
			"liquidator": liquidator,
			"borrows":    snapshot.Borrows,
			"collateral": snapshot.RawCollateral,
		}); err != nil {
			return err
		}
		return s.eventStore.Create(ctx, tx, event)
	})
}

// HealAccount seizes everything, repays what the collateral can cover
// and records the remainder as bad debt on each borrowed market.
func (s *liquidationService) HealAccount(ctx context.Context, healer, borrower string) error {
	log := logger.FromContext(ctx).WithField("heal", borrower)

	release, err := s.guard.Enter("heal:" + borrower)
	if err != nil {
		return err
	}
	defer release()

	snapshot, pool, err := s.underwater(ctx, borrower)
	if err != nil {
		return err
	}

	percentage := engine.RepayPercentage(snapshot.RawCollateral, snapshot.Borrows, pool.LiquidationIncentive)
	if percentage.GreaterThan(mathx.Decimal("1")) {
		// collateral covers the incentive-scaled debt; batch
		// liquidation applies, not healing
		return core.ErrCollateralExceedsDebt
	}

	members, err := s.membershipStore.List(ctx, borrower)
	if err != nil {
		return err
	}

	return s.txer.Tx(func(tx *db.DB) error {
		for _, member := range members {
			market, err := s.marketStore.Find(ctx, member.AssetID)
			if err != nil {
				return err
			}

			account, err := s.token.GetAccountSnapshot(ctx, market.AssetID, borrower)
			if err != nil {
				return &core.SnapshotError{UserID: borrower, AssetID: market.AssetID, Err: err}
			}

			if account.ShareBalance.IsPositive() {
				if err := s.token.Seize(ctx, market.AssetID, healer, borrower, account.ShareBalance); err != nil {
					return err
				}
			}

			if !account.BorrowBalance.IsPositive() {
				continue
			}

			repay := mathx.MulTruncate(percentage, account.BorrowBalance)
			forgiven := account.BorrowBalance.Sub(repay)

			// percentage is capped at one, so the repay can never pass
			// the balance it was derived from
			if err := engine.Require(!forgiven.IsNegative(), "heal: repay exceeds borrow balance"); err != nil {
				return err
			}

			if err := s.token.HealBorrow(ctx, market.AssetID, healer, borrower, repay); err != nil {
				return err
			}

			if forgiven.IsPositive() {
				market.BadDebt = market.BadDebt.Add(forgiven)
				if err := s.marketStore.Update(ctx, tx, market); err != nil {
					return err
				}

				event := &core.Event{
					TraceID: id.TraceIDFrom(fmt.Sprintf("baddebt-%s-%s", borrower, market.AssetID)),
					Kind:    core.EventBadDebtRecorded,
					AssetID: market.AssetID,
					UserID:  borrower,
				}
				if err := event.SetPayload(map[string]interface{}{
					"forgiven": forgiven,
					"repaid":   repay,
				}); err != nil {
					return err
				}
				if err := s.eventStore.Create(ctx, tx, event); err != nil {
					return err
				}

				log.WithField("market", market.Symbol).Infof("bad debt recorded: %s", forgiven)
			}
		}

		event := &core.Event{
			TraceID: id.TraceIDFrom(fmt.Sprintf("heal-%s-%s", borrower, healer)),
			Kind:    core.EventAccountHealed,
			UserID:  borrower,
		}
		if err := event.SetPayload(map[string]interface{}{
			"healer":           healer,
			"repay_percentage": percentage,
		}); err != nil {
			return err
		}
		return s.eventStore.Create(ctx, tx, event)
	})
}

// underwater shared preconditions of both resolution paths: below the
// floor and shortfall-positive under threshold weighting.
func (s *liquidationService) underwater(ctx context.Context, borrower string) (*core.LiquiditySnapshot, *core.Pool, error) {
	snapshot, err := s.snapshotz.ComputeSnapshot(ctx, borrower, core.SnapshotOpts{
		Weighting: core.WeightLiquidationThreshold,
	})
	if err != nil {
		return nil, nil, err
	}

	pool, err := s.poolOf(ctx, borrower)
	if err != nil {
		return nil, nil, err
	}

	if snapshot.RawCollateral.GreaterThan(pool.MinLiquidatableCollateral) {
		return nil, nil, core.ErrMinimalCollateral
	}
	if !snapshot.Shortfall.IsPositive() {
		return nil, nil, core.ErrInsufficientShortfall
	}

	return snapshot, pool, nil
}

func (s *liquidationService) poolOf(ctx context.Context, borrower string) (*core.Pool, error) {
	members, err := s.membershipStore.List(ctx, borrower)
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return nil, core.ErrNotMember
	}

	market, err := s.marketStore.Find(ctx, members[0].AssetID)
	if err != nil {
		return nil, err
	}

	return s.poolStore.Find(ctx, market.PoolID)
}
