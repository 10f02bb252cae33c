package admin

import (
	"context"
	"testing"

	"comptroller/core"
	"comptroller/internal/mem"
	"comptroller/service/access"
	"comptroller/service/flywheel"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	markets *mem.MarketStore
	pools   *mem.PoolStore
	oracle  *mem.Oracle
	rewards *mem.RewardStore
	block   *mem.BlockService
	events  *mem.EventStore
	access  core.IAccessService
	srv     core.IAdminService
}

func setup(t *testing.T) *fixture {
	ctx := context.Background()

	f := &fixture{
		markets: mem.NewMarketStore(),
		pools:   mem.NewPoolStore(),
		oracle:  mem.NewOracle(),
		rewards: mem.NewRewardStore(),
		block:   &mem.BlockService{Block: 100},
		events:  mem.NewEventStore(),
	}

	system := &core.System{Admins: []string{"root"}}
	f.access = access.New(mem.Txer{}, system, mem.NewAllowListStore())
	flywheelz := flywheel.New(mem.Txer{}, f.rewards, mem.NewToken(), f.block)
	f.srv = New(mem.Txer{}, f.access, f.markets, f.pools, f.oracle, flywheelz, f.events)

	require.NoError(t, f.pools.Save(ctx, nil, &core.Pool{
		CloseFactor:               decimal.NewFromFloat(0.5),
		LiquidationIncentive:      decimal.NewFromFloat(1.1),
		MinLiquidatableCollateral: decimal.NewFromInt(100),
	}))
	require.NoError(t, f.markets.Save(ctx, nil, &core.Market{
		PoolID:               1,
		AssetID:              "btc",
		Symbol:               "BTC",
		IsListed:             true,
		CollateralFactor:     decimal.NewFromFloat(0.5),
		LiquidationThreshold: decimal.NewFromFloat(0.8),
	}))

	f.oracle.SetPrice("btc", decimal.NewFromInt(2))

	return f
}

func TestListMarketRequiresScope(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	market := &core.Market{
		PoolID:               1,
		AssetID:              "eos",
		Symbol:               "EOS",
		CollateralFactor:     decimal.NewFromFloat(0.5),
		LiquidationThreshold: decimal.NewFromFloat(0.6),
	}

	err := f.srv.ListMarket(ctx, "mallory", market)
	require.Equal(t, core.ErrOperationForbidden, err)

	require.NoError(t, f.srv.ListMarket(ctx, "root", market))
	require.True(t, market.IsListed)

	// a granted operator may as well
	require.NoError(t, f.access.Grant(ctx, "ops", []string{core.ScopeListMarket}))
	another := &core.Market{
		PoolID:               1,
		AssetID:              "xrp",
		Symbol:               "XRP",
		CollateralFactor:     decimal.NewFromFloat(0.4),
		LiquidationThreshold: decimal.NewFromFloat(0.5),
	}
	require.NoError(t, f.srv.ListMarket(ctx, "ops", another))
}

func TestListMarketValidatesRiskParams(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	// factor above the 0.9 max
	err := f.srv.ListMarket(ctx, "root", &core.Market{
		PoolID:               1,
		AssetID:              "eos",
		Symbol:               "EOS",
		CollateralFactor:     decimal.NewFromFloat(0.95),
		LiquidationThreshold: decimal.NewFromInt(1),
	})
	require.Equal(t, core.ErrInvalidCollateralFactor, err)

	// threshold below the factor
	err = f.srv.ListMarket(ctx, "root", &core.Market{
		PoolID:               1,
		AssetID:              "eos",
		Symbol:               "EOS",
		CollateralFactor:     decimal.NewFromFloat(0.5),
		LiquidationThreshold: decimal.NewFromFloat(0.4),
	})
	require.Equal(t, core.ErrInvalidLiquidationThreshold, err)
}

func TestSetCollateralFactor(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	// above the existing threshold of 0.8
	err := f.srv.SetCollateralFactor(ctx, "root", "btc", decimal.NewFromFloat(0.85))
	require.Equal(t, core.ErrInvalidLiquidationThreshold, err)

	require.NoError(t, f.srv.SetCollateralFactor(ctx, "root", "btc", decimal.NewFromFloat(0.6)))

	market, err := f.markets.Find(ctx, "btc")
	require.NoError(t, err)
	require.True(t, market.CollateralFactor.Equal(decimal.NewFromFloat(0.6)))
	require.Contains(t, f.events.Kinds(), core.EventCollateralFactor)
}

func TestSetCollateralFactorFromZeroNeedsPrice(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	require.NoError(t, f.markets.Save(ctx, nil, &core.Market{
		PoolID:               1,
		AssetID:              "eos",
		Symbol:               "EOS",
		IsListed:             true,
		LiquidationThreshold: decimal.NewFromFloat(0.8),
	}))

	// unpriced asset cannot be promoted to collateral
	err := f.srv.SetCollateralFactor(ctx, "root", "eos", decimal.NewFromFloat(0.5))
	require.Equal(t, core.ErrInvalidPrice, err)

	f.oracle.SetPrice("eos", decimal.NewFromInt(3))
	require.NoError(t, f.srv.SetCollateralFactor(ctx, "root", "eos", decimal.NewFromFloat(0.5)))
}

func TestSetCloseFactorBounds(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	// the minimum is exclusive
	require.Equal(t, core.ErrInvalidArgument, f.srv.SetCloseFactor(ctx, "root", 1, decimal.NewFromFloat(0.05)))
	require.Equal(t, core.ErrInvalidArgument, f.srv.SetCloseFactor(ctx, "root", 1, decimal.NewFromFloat(0.91)))

	require.NoError(t, f.srv.SetCloseFactor(ctx, "root", 1, decimal.NewFromFloat(0.9)))

	pool, err := f.pools.Find(ctx, 1)
	require.NoError(t, err)
	require.True(t, pool.CloseFactor.Equal(decimal.NewFromFloat(0.9)))
}

func TestSetLiquidationIncentiveBounds(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	require.Equal(t, core.ErrInvalidArgument, f.srv.SetLiquidationIncentive(ctx, "root", 1, decimal.NewFromFloat(0.99)))
	require.Equal(t, core.ErrInvalidArgument, f.srv.SetLiquidationIncentive(ctx, "root", 1, decimal.NewFromFloat(1.51)))

	// an incentive of exactly one is allowed
	require.NoError(t, f.srv.SetLiquidationIncentive(ctx, "root", 1, decimal.NewFromInt(1)))
}

func TestSetActionPaused(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	require.Equal(t, core.ErrInvalidArgument, f.srv.SetActionPaused(ctx, "root", "btc", "teleport", true))

	require.NoError(t, f.srv.SetActionPaused(ctx, "root", "btc", core.ActionBorrow, true))

	market, err := f.markets.Find(ctx, "btc")
	require.NoError(t, err)
	require.True(t, market.IsPaused(core.ActionBorrow))

	require.NoError(t, f.srv.SetActionPaused(ctx, "root", "btc", core.ActionBorrow, false))

	market, err = f.markets.Find(ctx, "btc")
	require.NoError(t, err)
	require.False(t, market.IsPaused(core.ActionBorrow))
}

func TestAddDistributorRequiresScope(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	err := f.srv.AddDistributor(ctx, "mallory", "btc", "dist")
	require.Equal(t, core.ErrOperationForbidden, err)

	require.Equal(t, core.ErrInvalidArgument, f.srv.AddDistributor(ctx, "root", "btc", ""))

	require.NoError(t, f.srv.AddDistributor(ctx, "root", "btc", "dist"))

	state, err := f.rewards.FindState(ctx, "btc", "dist")
	require.NoError(t, err)
	require.True(t, state.SupplyIndex.Equal(core.InitialRewardIndex))
	require.Equal(t, int64(100), state.SupplyBlock)
	require.Contains(t, f.events.Kinds(), core.EventDistributorAdded)
}

func TestSetRewardSpeeds(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	require.NoError(t, f.srv.AddDistributor(ctx, "root", "btc", "dist"))

	err := f.srv.SetRewardSpeeds(ctx, "mallory", "btc", "dist", decimal.NewFromInt(10), decimal.Zero)
	require.Equal(t, core.ErrOperationForbidden, err)

	// a forbidden or invalid call leaves no journal entry
	require.NotContains(t, f.events.Kinds(), core.EventRewardSpeedChanged)

	require.NoError(t, f.srv.SetRewardSpeeds(ctx, "root", "btc", "dist", decimal.NewFromInt(10), decimal.NewFromInt(2)))

	state, err := f.rewards.FindState(ctx, "btc", "dist")
	require.NoError(t, err)
	require.True(t, state.SupplySpeed.Equal(decimal.NewFromInt(10)))
	require.True(t, state.BorrowSpeed.Equal(decimal.NewFromInt(2)))
	require.Contains(t, f.events.Kinds(), core.EventRewardSpeedChanged)
}

func TestSetLastRewardingBlock(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	require.NoError(t, f.srv.AddDistributor(ctx, "root", "btc", "dist"))

	err := f.srv.SetLastRewardingBlock(ctx, "mallory", "btc", "dist", 200)
	require.Equal(t, core.ErrOperationForbidden, err)

	// the cutoff must lie in the future
	err = f.srv.SetLastRewardingBlock(ctx, "root", "btc", "dist", 100)
	require.Equal(t, core.ErrInvalidArgument, err)
	require.NotContains(t, f.events.Kinds(), core.EventRewardingCutoff)

	require.NoError(t, f.srv.SetLastRewardingBlock(ctx, "root", "btc", "dist", 200))

	state, err := f.rewards.FindState(ctx, "btc", "dist")
	require.NoError(t, err)
	require.Equal(t, int64(200), state.LastRewardingBlock)
	require.Contains(t, f.events.Kinds(), core.EventRewardingCutoff)
}

func TestResolveBadDebt(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	market, err := f.markets.Find(ctx, "btc")
	require.NoError(t, err)
	market.BadDebt = decimal.NewFromInt(40)
	require.NoError(t, f.markets.Update(ctx, nil, market))

	// cannot resolve more than is recorded
	err = f.srv.ResolveBadDebt(ctx, "root", "btc", decimal.NewFromInt(41))
	require.Equal(t, core.ErrInvalidAmount, err)

	require.NoError(t, f.srv.ResolveBadDebt(ctx, "root", "btc", decimal.NewFromInt(15)))

	market, err = f.markets.Find(ctx, "btc")
	require.NoError(t, err)
	require.True(t, market.BadDebt.Equal(decimal.NewFromInt(25)))
	require.Contains(t, f.events.Kinds(), core.EventBadDebtResolved)
}
