package flywheel

import (
	"context"

	"comptroller/core"
	"comptroller/internal/engine"
	"comptroller/pkg/mathx"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

type flywheelService struct {
	txer        core.Txer
	rewardStore core.IRewardStore
	token       core.MarketToken
	blockSrv    core.IBlockService
}

// New new flywheel service
func New(
	txer core.Txer,
	rewardStore core.IRewardStore,
	token core.MarketToken,
	blockSrv core.IBlockService,
) core.IFlywheelService {
	return &flywheelService{
		txer:        txer,
		rewardStore: rewardStore,
		token:       token,
		blockSrv:    blockSrv,
	}
}

func (s *flywheelService) AddDistributor(ctx context.Context, tx *db.DB, market *core.Market, distributor string) error {
	block, err := s.blockSrv.CurrentBlock(ctx)
	if err != nil {
		return err
	}

	state := &core.RewardMarketState{
		AssetID:     market.AssetID,
		Distributor: distributor,
		SupplyIndex: core.InitialRewardIndex,
		BorrowIndex: core.InitialRewardIndex,
		SupplyBlock: block,
		BorrowBlock: block,
		SupplySpeed: decimal.Zero,
		BorrowSpeed: decimal.Zero,
	}

	return s.rewardStore.SaveState(ctx, tx, state)
}

// SetRewardSpeeds settles both indices under the old speeds before
// the new ones take effect.
func (s *flywheelService) SetRewardSpeeds(ctx context.Context, tx *db.DB, market *core.Market, distributor string, supplySpeed, borrowSpeed decimal.Decimal) error {
	if supplySpeed.IsNegative() || borrowSpeed.IsNegative() {
		return core.ErrInvalidAmount
	}

	state, err := s.rewardStore.FindState(ctx, market.AssetID, distributor)
	if err != nil {
		return err
	}

	block, err := s.blockSrv.CurrentBlock(ctx)
	if err != nil {
		return err
	}

	if err := s.refreshIndices(ctx, state, market.AssetID, block); err != nil {
		return err
	}

	state.SupplySpeed = supplySpeed
	state.BorrowSpeed = borrowSpeed

	return s.rewardStore.UpdateState(ctx, tx, state)
}

func (s *flywheelService) SetLastRewardingBlock(ctx context.Context, tx *db.DB, market *core.Market, distributor string, block int64) error {
	state, err := s.rewardStore.FindState(ctx, market.AssetID, distributor)
	if err != nil {
		return err
	}

	current, err := s.blockSrv.CurrentBlock(ctx)
	if err != nil {
		return err
	}
	if block <= current {
		return core.ErrInvalidArgument
	}

	if err := s.refreshIndices(ctx, state, market.AssetID, current); err != nil {
		return err
	}

	state.LastRewardingBlock = block

	return s.rewardStore.UpdateState(ctx, tx, state)
}

// DistributeSupplier updates every distributor's supply index for the
// market, then settles the supplier's delta. The order is load
// bearing: settling first would pay same-block rewards twice or not
// at all.
func (s *flywheelService) DistributeSupplier(ctx context.Context, market *core.Market, userID string) error {
	log := logger.FromContext(ctx).WithField("flywheel", market.Symbol)

	states, err := s.rewardStore.StatesByMarket(ctx, market.AssetID)
	if err != nil {
		log.WithError(err).Errorln("rewards.StatesByMarket")
		return err
	}
	if len(states) == 0 {
		return nil
	}

	block, err := s.blockSrv.CurrentBlock(ctx)
	if err != nil {
		return err
	}

	totalSupply, err := s.token.TotalSupply(ctx, market.AssetID)
	if err != nil {
		return err
	}

	account, err := s.token.GetAccountSnapshot(ctx, market.AssetID, userID)
	if err != nil {
		return err
	}

	return s.txer.Tx(func(tx *db.DB) error {
		for _, state := range states {
			updateSupplyIndex(state, block, totalSupply)
			if err := s.rewardStore.UpdateState(ctx, tx, state); err != nil {
				return err
			}

			if err := s.settle(ctx, tx, state, userID, core.RewardSupply, state.SupplyIndex, account.ShareBalance); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *flywheelService) DistributeBorrower(ctx context.Context, market *core.Market, userID string) error {
	log := logger.FromContext(ctx).WithField("flywheel", market.Symbol)

	states, err := s.rewardStore.StatesByMarket(ctx, market.AssetID)
	if err != nil {
		log.WithError(err).Errorln("rewards.StatesByMarket")
		return err
	}
	if len(states) == 0 {
		return nil
	}

	block, err := s.blockSrv.CurrentBlock(ctx)
	if err != nil {
		return err
	}

	totalBorrows, err := s.token.TotalBorrows(ctx, market.AssetID)
	if err != nil {
		return err
	}

	balance, err := s.token.BorrowBalance(ctx, market.AssetID, userID)
	if err != nil {
		return err
	}

	return s.txer.Tx(func(tx *db.DB) error {
		for _, state := range states {
			updateBorrowIndex(state, block, totalBorrows)
			if err := s.rewardStore.UpdateState(ctx, tx, state); err != nil {
				return err
			}

			if err := s.settle(ctx, tx, state, userID, core.RewardBorrow, state.BorrowIndex, balance); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *flywheelService) Accrued(ctx context.Context, userID, distributor string) (decimal.Decimal, error) {
	return s.rewardStore.FindAccrued(ctx, userID, distributor)
}

func (s *flywheelService) refreshIndices(ctx context.Context, state *core.RewardMarketState, assetID string, block int64) error {
	totalSupply, err := s.token.TotalSupply(ctx, assetID)
	if err != nil {
		return err
	}
	totalBorrows, err := s.token.TotalBorrows(ctx, assetID)
	if err != nil {
		return err
	}

	updateSupplyIndex(state, block, totalSupply)
	updateBorrowIndex(state, block, totalBorrows)
	return nil
}

// settle credits the delta between the market index and the account's
// last observed index. An uninitialized account index is backfilled to
// the initial index so a pre-flywheel joiner is not paid for the whole
// pre-join period.
func (s *flywheelService) settle(ctx context.Context, tx *db.DB, state *core.RewardMarketState, userID string, side core.RewardSide, marketIndex, balance decimal.Decimal) error {
	index, err := s.rewardStore.FindAccountIndex(ctx, state.AssetID, state.Distributor, userID, side)
	if err != nil {
		return err
	}

	accountIndex := index.Index
	if accountIndex.IsZero() && marketIndex.GreaterThanOrEqual(core.InitialRewardIndex) {
		accountIndex = core.InitialRewardIndex
	}

	// indices never decrease; an account index past the market index
	// means the state was tampered with or miswritten
	delta := marketIndex.Sub(accountIndex)
	if err := engine.Require(!delta.IsNegative(), "flywheel: account index beyond market index"); err != nil {
		return err
	}

	if earned := mathx.MulDouble(balance, delta); earned.IsPositive() {
		if err := s.rewardStore.AddAccrued(ctx, tx, userID, state.Distributor, earned); err != nil {
			return err
		}
	}

	index.Index = marketIndex
	return s.rewardStore.SaveAccountIndex(ctx, tx, index)
}

// cappedBlock the effective block never passes the rewarding cutoff
func cappedBlock(block, lastRewardingBlock int64) int64 {
	if lastRewardingBlock > 0 && block > lastRewardingBlock {
		return lastRewardingBlock
	}
	return block
}

func updateSupplyIndex(state *core.RewardMarketState, block int64, totalSupply decimal.Decimal) {
	effective := cappedBlock(block, state.LastRewardingBlock)
	delta := effective - state.SupplyBlock
	if delta <= 0 {
		return
	}

	if state.SupplySpeed.IsPositive() && totalSupply.IsPositive() {
		accrued := state.SupplySpeed.Mul(decimal.NewFromInt(delta))
		state.SupplyIndex = state.SupplyIndex.Add(mathx.DivDouble(accrued, totalSupply))
	}

	state.SupplyBlock = effective
}

func updateBorrowIndex(state *core.RewardMarketState, block int64, totalBorrows decimal.Decimal) {
	effective := cappedBlock(block, state.LastRewardingBlock)
	delta := effective - state.BorrowBlock
	if delta <= 0 {
		return
	}

	if state.BorrowSpeed.IsPositive() && totalBorrows.IsPositive() {
		accrued := state.BorrowSpeed.Mul(decimal.NewFromInt(delta))
		state.BorrowIndex = state.BorrowIndex.Add(mathx.DivDouble(accrued, totalBorrows))
	}

	state.BorrowBlock = effective
}
