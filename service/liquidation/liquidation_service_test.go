package liquidation

import (
	"context"
	"testing"

	"comptroller/core"
	"comptroller/internal/mem"
	"comptroller/service/flywheel"
	"comptroller/service/gate"
	"comptroller/service/snapshot"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	markets     *mem.MarketStore
	memberships *mem.MembershipStore
	pools       *mem.PoolStore
	token       *mem.Token
	oracle      *mem.Oracle
	events      *mem.EventStore
	srv         core.ILiquidationService

	btc  *core.Market
	usdt *core.Market
}

func setup(t *testing.T) *fixture {
	ctx := context.Background()

	f := &fixture{
		markets:     mem.NewMarketStore(),
		memberships: mem.NewMembershipStore(),
		pools:       mem.NewPoolStore(),
		token:       mem.NewToken(),
		oracle:      mem.NewOracle(),
		events:      mem.NewEventStore(),
	}

	require.NoError(t, f.pools.Save(ctx, nil, &core.Pool{
		CloseFactor:               decimal.NewFromFloat(0.5),
		LiquidationIncentive:      decimal.NewFromFloat(1.1),
		MinLiquidatableCollateral: decimal.NewFromInt(100),
	}))

	f.btc = &core.Market{
		PoolID:               1,
		AssetID:              "btc",
		Symbol:               "BTC",
		CTokenAssetID:        "cbtc",
		IsListed:             true,
		CollateralFactor:     decimal.NewFromFloat(0.5),
		LiquidationThreshold: decimal.NewFromFloat(0.8),
	}
	f.usdt = &core.Market{
		PoolID:               1,
		AssetID:              "usdt",
		Symbol:               "USDT",
		CTokenAssetID:        "cusdt",
		IsListed:             true,
		CollateralFactor:     decimal.NewFromFloat(0.8),
		LiquidationThreshold: decimal.NewFromFloat(0.9),
	}
	require.NoError(t, f.markets.Save(ctx, nil, f.btc))
	require.NoError(t, f.markets.Save(ctx, nil, f.usdt))

	f.oracle.SetPrice("btc", decimal.NewFromInt(2))
	f.oracle.SetPrice("usdt", decimal.NewFromInt(1))

	snapshotSrv := snapshot.New(f.markets, f.memberships, f.token, f.oracle)
	flywheelSrv := flywheel.New(mem.Txer{}, mem.NewRewardStore(), f.token, &mem.BlockService{Block: 100})
	gateSrv := gate.New(mem.Txer{}, f.markets, f.memberships, f.pools, f.token, f.oracle, snapshotSrv, flywheelSrv, f.events)

	f.srv = New(mem.Txer{}, f.markets, f.memberships, f.pools, f.token, snapshotSrv, gateSrv, f.events)

	return f
}

// bob holds 25 btc shares at price 2 (50 usd, below the 100 floor)
func (f *fixture) seedUnderwater(t *testing.T, borrow int64) {
	ctx := context.Background()

	f.token.SetAccount("btc", "bob", decimal.NewFromInt(25), decimal.Zero, decimal.New(1, 0))
	f.token.SetAccount("usdt", "bob", decimal.Zero, decimal.NewFromInt(borrow), decimal.New(1, 0))
	require.NoError(t, f.memberships.Create(ctx, nil, "bob", "btc"))
	require.NoError(t, f.memberships.Create(ctx, nil, "bob", "usdt"))
}

func TestLiquidateAccount(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	// 41 borrowed against threshold power 40; seizing 41*1.1 = 45.1
	// still fits inside the 50 of raw collateral
	f.seedUnderwater(t, 41)

	orders := []*core.LiquidationOrder{{
		BorrowedAssetID:   "usdt",
		CollateralAssetID: "btc",
		RepayAmount:       decimal.NewFromInt(41),
	}}
	require.NoError(t, f.srv.LiquidateAccount(ctx, "liq", "bob", orders))

	balance, err := f.token.BorrowBalance(ctx, "usdt", "bob")
	require.NoError(t, err)
	require.True(t, balance.IsZero())

	require.Contains(t, f.events.Kinds(), core.EventAccountLiquidated)
}

func TestLiquidateAccountIncompleteOrders(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	f.seedUnderwater(t, 41)

	// leaves 1 of the 41 outstanding
	orders := []*core.LiquidationOrder{{
		BorrowedAssetID:   "usdt",
		CollateralAssetID: "btc",
		RepayAmount:       decimal.NewFromInt(40),
	}}
	err := f.srv.LiquidateAccount(ctx, "liq", "bob", orders)
	require.Equal(t, core.ErrNonzeroBorrowBalance, err)
}

func TestLiquidateAccountNoOrders(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	f.seedUnderwater(t, 41)

	err := f.srv.LiquidateAccount(ctx, "liq", "bob", nil)
	require.Equal(t, core.ErrInvalidArgument, err)
}

func TestLiquidateAccountAboveFloor(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	// raw collateral 200 is above the floor; standard liquidation
	// applies, not the batch path
	f.token.SetAccount("btc", "bob", decimal.NewFromInt(100), decimal.Zero, decimal.New(1, 0))
	f.token.SetAccount("usdt", "bob", decimal.Zero, decimal.NewFromInt(170), decimal.New(1, 0))
	require.NoError(t, f.memberships.Create(ctx, nil, "bob", "btc"))
	require.NoError(t, f.memberships.Create(ctx, nil, "bob", "usdt"))

	orders := []*core.LiquidationOrder{{
		BorrowedAssetID:   "usdt",
		CollateralAssetID: "btc",
		RepayAmount:       decimal.NewFromInt(170),
	}}
	err := f.srv.LiquidateAccount(ctx, "liq", "bob", orders)
	require.Equal(t, core.ErrMinimalCollateral, err)
}

func TestLiquidateAccountHealthy(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	// 30 borrowed against threshold power 40
	f.seedUnderwater(t, 30)

	orders := []*core.LiquidationOrder{{
		BorrowedAssetID:   "usdt",
		CollateralAssetID: "btc",
		RepayAmount:       decimal.NewFromInt(30),
	}}
	err := f.srv.LiquidateAccount(ctx, "liq", "bob", orders)
	require.Equal(t, core.ErrInsufficientShortfall, err)
}

func TestLiquidateAccountInsufficientCollateral(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	// seizing 80*1.1 = 88 exceeds the 50 of raw collateral; only
	// healing can resolve this account
	f.seedUnderwater(t, 80)

	orders := []*core.LiquidationOrder{{
		BorrowedAssetID:   "usdt",
		CollateralAssetID: "btc",
		RepayAmount:       decimal.NewFromInt(80),
	}}
	err := f.srv.LiquidateAccount(ctx, "liq", "bob", orders)
	require.Equal(t, core.ErrInsufficientCollateral, err)
}

func TestHealAccount(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	f.seedUnderwater(t, 80)

	require.NoError(t, f.srv.HealAccount(ctx, "healer", "bob"))

	// every share seized
	account, err := f.token.GetAccountSnapshot(ctx, "btc", "bob")
	require.NoError(t, err)
	require.True(t, account.ShareBalance.IsZero())

	seized, err := f.token.GetAccountSnapshot(ctx, "btc", "healer")
	require.NoError(t, err)
	require.True(t, seized.ShareBalance.Equal(decimal.NewFromInt(25)))

	// every borrow cleared, the shortfall recorded as bad debt:
	// repay fraction is 50 / (80 * 1.1), the rest of the 80 is
	// forgiven
	balance, err := f.token.BorrowBalance(ctx, "usdt", "bob")
	require.NoError(t, err)
	require.True(t, balance.IsZero())

	market, err := f.markets.Find(ctx, "usdt")
	require.NoError(t, err)
	require.Equal(t, "34.54545454545454552", market.BadDebt.String())

	kinds := f.events.Kinds()
	require.Contains(t, kinds, core.EventBadDebtRecorded)
	require.Contains(t, kinds, core.EventAccountHealed)
}

func TestHealAccountCollateralCoversDebt(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	// 41*1.1 = 45.1 < 50: batch liquidation applies, healing refuses
	f.seedUnderwater(t, 41)

	err := f.srv.HealAccount(ctx, "healer", "bob")
	require.Equal(t, core.ErrCollateralExceedsDebt, err)
}

func TestHealAccountAboveFloor(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	f.token.SetAccount("btc", "bob", decimal.NewFromInt(100), decimal.Zero, decimal.New(1, 0))
	f.token.SetAccount("usdt", "bob", decimal.Zero, decimal.NewFromInt(170), decimal.New(1, 0))
	require.NoError(t, f.memberships.Create(ctx, nil, "bob", "btc"))
	require.NoError(t, f.memberships.Create(ctx, nil, "bob", "usdt"))

	err := f.srv.HealAccount(ctx, "healer", "bob")
	require.Equal(t, core.ErrMinimalCollateral, err)
}
