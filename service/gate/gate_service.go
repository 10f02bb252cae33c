package gate

import (
	"context"
	"fmt"

	"comptroller/core"
	"comptroller/internal/engine"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store/db"
	"github.com/fox-one/pkg/uuid"
	"github.com/shopspring/decimal"
)

type gateService struct {
	txer            core.Txer
	marketStore     core.IMarketStore
	membershipStore core.IMembershipStore
	poolStore       core.IPoolStore
	token           core.MarketToken
	oracle          core.IPriceOracleService
	snapshotz       core.ISnapshotService
	flywheel        core.IFlywheelService
	eventStore      core.IEventStore
	guard           *engine.Guard
}

// New new gate service
func New(
	txer core.Txer,
	marketStore core.IMarketStore,
	membershipStore core.IMembershipStore,
	poolStore core.IPoolStore,
	token core.MarketToken,
	oracle core.IPriceOracleService,
	snapshotz core.ISnapshotService,
	flywheel core.IFlywheelService,
	eventStore core.IEventStore,
) core.IGateService {
	return &gateService{
		txer:            txer,
		marketStore:     marketStore,
		membershipStore: membershipStore,
		poolStore:       poolStore,
		token:           token,
		oracle:          oracle,
		snapshotz:       snapshotz,
		flywheel:        flywheel,
		eventStore:      eventStore,
		guard:           engine.NewGuard(),
	}
}

// preamble pause and listing checks shared by every hook
func preamble(market *core.Market, action core.ActionKind) error {
	if market == nil || market.ID == 0 {
		return core.ErrMarketNotFound
	}
	if !market.IsListed {
		return core.ErrMarketNotListed
	}
	if market.IsPaused(action) {
		return core.ErrActionPaused
	}
	return nil
}

func guardKey(action core.ActionKind, assetID string) string {
	return fmt.Sprintf("%s:%s", action, assetID)
}

func (s *gateService) PreMint(ctx context.Context, market *core.Market, minter string, amount decimal.Decimal) error {
	if err := preamble(market, core.ActionMint); err != nil {
		return err
	}
	if !amount.IsPositive() {
		return core.ErrInvalidAmount
	}

	release, err := s.guard.Enter(guardKey(core.ActionMint, market.AssetID))
	if err != nil {
		return err
	}
	defer release()

	if market.SupplyCap.IsPositive() {
		totalShares, err := s.token.TotalSupply(ctx, market.AssetID)
		if err != nil {
			return err
		}
		rate, err := s.token.ExchangeRate(ctx, market.AssetID)
		if err != nil {
			return err
		}

		if engine.ProjectedTotalSupply(totalShares, rate, amount).GreaterThan(market.SupplyCap) {
			return core.ErrSupplyCapExceeded
		}
	}

	return s.flywheel.DistributeSupplier(ctx, market, minter)
}

func (s *gateService) PreRedeem(ctx context.Context, market *core.Market, redeemer string, tokens decimal.Decimal) error {
	if err := preamble(market, core.ActionRedeem); err != nil {
		return err
	}
	if !tokens.IsPositive() {
		return core.ErrInvalidAmount
	}

	release, err := s.guard.Enter(guardKey(core.ActionRedeem, market.AssetID))
	if err != nil {
		return err
	}
	defer release()

	if err := s.checkRedeem(ctx, market, redeemer, tokens); err != nil {
		return err
	}

	return s.flywheel.DistributeSupplier(ctx, market, redeemer)
}

// checkRedeem membership-gated solvency check shared by redeem and
// transfer: a non-member's balance never counted toward liquidity, so
// removing it cannot create a shortfall.
func (s *gateService) checkRedeem(ctx context.Context, market *core.Market, userID string, tokens decimal.Decimal) error {
	member, err := s.membershipStore.IsMember(ctx, userID, market.AssetID)
	if err != nil {
		return err
	}
	if !member {
		return nil
	}

	snapshot, err := s.snapshotz.ComputeSnapshot(ctx, userID, core.SnapshotOpts{
		PerturbedAsset: market.AssetID,
		RedeemTokens:   tokens,
		Weighting:      core.WeightCollateralFactor,
	})
	if err != nil {
		return err
	}
	if snapshot.Shortfall.IsPositive() {
		return core.ErrInsufficientLiquidity
	}

	return nil
}

func (s *gateService) PreBorrow(ctx context.Context, caller string, market *core.Market, borrower string, amount decimal.Decimal) error {
	if err := preamble(market, core.ActionBorrow); err != nil {
		return err
	}
	if !amount.IsPositive() {
		return core.ErrInvalidAmount
	}

	release, err := s.guard.Enter(guardKey(core.ActionBorrow, market.AssetID))
	if err != nil {
		return err
	}
	defer release()

	member, err := s.membershipStore.IsMember(ctx, borrower, market.AssetID)
	if err != nil {
		return err
	}
	if !member {
		// only the market token itself may join on the borrower's behalf
		if caller != market.CTokenAssetID {
			return core.ErrOperationForbidden
		}
		if err := s.EnterMarket(ctx, borrower, market); err != nil {
			return err
		}
	}

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

	if market.BorrowCap.IsPositive() {
		totalBorrows, err := s.token.TotalBorrows(ctx, market.AssetID)
		if err != nil {
			return err
		}

		// bad debt is outstanding exposure and counts against the cap
		if totalBorrows.Add(amount).Add(market.BadDebt).GreaterThan(market.BorrowCap) {
			return core.ErrBorrowCapExceeded
		}
	}

	snapshot, err := s.snapshotz.ComputeSnapshot(ctx, borrower, core.SnapshotOpts{
		PerturbedAsset: market.AssetID,
		BorrowAmount:   amount,
		Weighting:      core.WeightCollateralFactor,
	})
	if err != nil {
		return err
	}
	if snapshot.Shortfall.IsPositive() {
		return core.ErrInsufficientLiquidity
	}

	return s.flywheel.DistributeBorrower(ctx, market, borrower)
}

func (s *gateService) PreRepay(ctx context.Context, market *core.Market, payer, borrower string, amount decimal.Decimal) error {
	if err := preamble(market, core.ActionRepay); err != nil {
		return err
	}
	if !amount.IsPositive() {
		return core.ErrInvalidAmount
	}

	return s.flywheel.DistributeBorrower(ctx, market, borrower)
}

func (s *gateService) PreLiquidate(ctx context.Context, borrowedMarket, collateralMarket *core.Market, liquidator, borrower string, repayAmount decimal.Decimal, skipLiquidityCheck bool) error {
	if err := preamble(borrowedMarket, core.ActionLiquidate); err != nil {
		return err
	}
	if collateralMarket == nil || !collateralMarket.IsListed {
		return core.ErrMarketNotListed
	}
	if !repayAmount.IsPositive() {
		return core.ErrInvalidAmount
	}

	borrowBalance, err := s.token.BorrowBalance(ctx, borrowedMarket.AssetID, borrower)
	if err != nil {
		return err
	}

	if skipLiquidityCheck || borrowedMarket.ForcedLiquidation {
		if repayAmount.GreaterThan(borrowBalance) {
			return core.ErrTooMuchRepay
		}
		return nil
	}

	snapshot, err := s.snapshotz.ComputeSnapshot(ctx, borrower, core.SnapshotOpts{
		Weighting: core.WeightLiquidationThreshold,
	})
	if err != nil {
		return err
	}

	pool, err := s.poolStore.Find(ctx, borrowedMarket.PoolID)
	if err != nil {
		return err
	}

	// below the floor only the batch paths may act; a standard
	// liquidation would fragment a gas-uneconomical position
	if !snapshot.RawCollateral.GreaterThan(pool.MinLiquidatableCollateral) {
		return core.ErrMinimalCollateral
	}
	if !snapshot.Shortfall.IsPositive() {
		return core.ErrInsufficientShortfall
	}
	if repayAmount.GreaterThan(engine.MaxClose(pool.CloseFactor, borrowBalance)) {
		return core.ErrTooMuchRepay
	}

	return nil
}

func (s *gateService) PreSeize(ctx context.Context, collateralMarket, seizerMarket *core.Market, liquidator, borrower string, tokens decimal.Decimal) error {
	if err := preamble(collateralMarket, core.ActionSeize); err != nil {
		return err
	}
	if seizerMarket == nil || !seizerMarket.IsListed {
		return core.ErrMarketNotListed
	}
	if !tokens.IsPositive() {
		return core.ErrInvalidAmount
	}

	if collateralMarket.PoolID != seizerMarket.PoolID {
		return core.ErrPoolMismatch
	}

	member, err := s.membershipStore.IsMember(ctx, borrower, collateralMarket.AssetID)
	if err != nil {
		return err
	}
	if !member {
		// cannot seize collateral the borrower never pledged
		return core.ErrNotMember
	}

	if err := s.flywheel.DistributeSupplier(ctx, collateralMarket, borrower); err != nil {
		return err
	}
	return s.flywheel.DistributeSupplier(ctx, collateralMarket, liquidator)
}

func (s *gateService) PreTransfer(ctx context.Context, market *core.Market, src, dst string, tokens decimal.Decimal) error {
	if err := preamble(market, core.ActionTransfer); err != nil {
		return err
	}
	if !tokens.IsPositive() {
		return core.ErrInvalidAmount
	}

	release, err := s.guard.Enter(guardKey(core.ActionTransfer, market.AssetID))
	if err != nil {
		return err
	}
	defer release()

	if err := s.checkRedeem(ctx, market, src, tokens); err != nil {
		return err
	}

	if err := s.flywheel.DistributeSupplier(ctx, market, src); err != nil {
		return err
	}
	return s.flywheel.DistributeSupplier(ctx, market, dst)
}

func (s *gateService) EnterMarket(ctx context.Context, userID string, market *core.Market) error {
	if err := preamble(market, core.ActionEnterMarket); err != nil {
		return err
	}

	member, err := s.membershipStore.IsMember(ctx, userID, market.AssetID)
	if err != nil {
		return err
	}
	if member {
		return nil
	}

	log := logger.FromContext(ctx).WithField("market", market.Symbol)

	return s.txer.Tx(func(tx *db.DB) error {
		if err := s.membershipStore.Create(ctx, tx, userID, market.AssetID); err != nil {
			return err
		}

		event := &core.Event{
			TraceID: uuid.New(),
			Kind:    core.EventMarketEntered,
			AssetID: market.AssetID,
			UserID:  userID,
		}
		if err := s.eventStore.Create(ctx, tx, event); err != nil {
			return err
		}

		log.Infoln("market entered")
		return nil
	})
}

// ExitMarket removes the membership only when the account has no debt
// in the market and redeeming its whole balance stays solvent.
func (s *gateService) ExitMarket(ctx context.Context, userID string, market *core.Market) error {
	if err := preamble(market, core.ActionExitMarket); err != nil {
		return err
	}

	member, err := s.membershipStore.IsMember(ctx, userID, market.AssetID)
	if err != nil {
		return err
	}
	if !member {
		return nil
	}

	account, err := s.token.GetAccountSnapshot(ctx, market.AssetID, userID)
	if err != nil {
		return err
	}
	if account.BorrowBalance.IsPositive() {
		return core.ErrNonzeroBorrowBalance
	}

	if account.ShareBalance.IsPositive() {
		snapshot, err := s.snapshotz.ComputeSnapshot(ctx, userID, core.SnapshotOpts{
			PerturbedAsset: market.AssetID,
			RedeemTokens:   account.ShareBalance,
			Weighting:      core.WeightCollateralFactor,
		})
		if err != nil {
			return err
		}
		if snapshot.Shortfall.IsPositive() {
			return core.ErrInsufficientLiquidity
		}
	}

	return s.txer.Tx(func(tx *db.DB) error {
		if err := s.membershipStore.Delete(ctx, tx, userID, market.AssetID); err != nil {
			return err
		}

		event := &core.Event{
			TraceID: uuid.New(),
			Kind:    core.EventMarketExited,
			AssetID: market.AssetID,
			UserID:  userID,
		}
		return s.eventStore.Create(ctx, tx, event)
	})
}
