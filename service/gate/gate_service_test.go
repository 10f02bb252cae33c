package gate

import (
	"context"
	"testing"

	"comptroller/core"
	"comptroller/internal/mem"
	"comptroller/service/flywheel"
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
	gate        core.IGateService

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

	f.gate = New(
		mem.Txer{},
		f.markets,
		f.memberships,
		f.pools,
		f.token,
		f.oracle,
		snapshotSrv,
		flywheelSrv,
		f.events,
	)

	return f
}

func TestPreMintSupplyCap(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	// 100 shares at rate 2 is 200 underlying against a 250 cap
	f.token.SetAccount("btc", "whale", decimal.NewFromInt(100), decimal.Zero, decimal.NewFromInt(2))
	f.btc.SupplyCap = decimal.NewFromInt(250)

	require.NoError(t, f.gate.PreMint(ctx, f.btc, "alice", decimal.NewFromInt(50)))
	require.Equal(t, core.ErrSupplyCapExceeded, f.gate.PreMint(ctx, f.btc, "alice", decimal.NewFromInt(51)))
}

func TestPreMintPaused(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	f.btc.SetPaused(core.ActionMint, true)
	require.Equal(t, core.ErrActionPaused, f.gate.PreMint(ctx, f.btc, "alice", decimal.NewFromInt(1)))

	f.btc.SetPaused(core.ActionMint, false)
	require.NoError(t, f.gate.PreMint(ctx, f.btc, "alice", decimal.NewFromInt(1)))
}

func TestPreMintUnlisted(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	f.btc.IsListed = false
	require.Equal(t, core.ErrMarketNotListed, f.gate.PreMint(ctx, f.btc, "alice", decimal.NewFromInt(1)))
}

func TestPreBorrowAutoJoin(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	// collateral: 100 btc shares at price 2, factor 0.5 -> power 100
	f.token.SetAccount("btc", "bob", decimal.NewFromInt(100), decimal.Zero, decimal.New(1, 0))
	require.NoError(t, f.memberships.Create(ctx, nil, "bob", "btc"))

	// an arbitrary caller may not join on the borrower's behalf
	err := f.gate.PreBorrow(ctx, "mallory", f.usdt, "bob", decimal.NewFromInt(50))
	require.Equal(t, core.ErrOperationForbidden, err)

	// the market token itself may
	require.NoError(t, f.gate.PreBorrow(ctx, "cusdt", f.usdt, "bob", decimal.NewFromInt(50)))

	member, err := f.memberships.IsMember(ctx, "bob", "usdt")
	require.NoError(t, err)
	require.True(t, member)
	require.Contains(t, f.events.Kinds(), core.EventMarketEntered)
}

func TestPreBorrowInsufficientLiquidity(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	f.token.SetAccount("btc", "bob", decimal.NewFromInt(100), decimal.Zero, decimal.New(1, 0))
	require.NoError(t, f.memberships.Create(ctx, nil, "bob", "btc"))
	require.NoError(t, f.memberships.Create(ctx, nil, "bob", "usdt"))

	// borrowing power is 100, asking for 101
	err := f.gate.PreBorrow(ctx, "cusdt", f.usdt, "bob", decimal.NewFromInt(101))
	require.Equal(t, core.ErrInsufficientLiquidity, err)
}

func TestPreBorrowCapCountsBadDebt(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	f.token.SetAccount("btc", "bob", decimal.NewFromInt(100), decimal.Zero, decimal.New(1, 0))
	require.NoError(t, f.memberships.Create(ctx, nil, "bob", "btc"))
	require.NoError(t, f.memberships.Create(ctx, nil, "bob", "usdt"))

	f.usdt.BorrowCap = decimal.NewFromInt(100)
	f.usdt.BadDebt = decimal.NewFromInt(20)
	f.token.SetTotals("usdt", decimal.Zero, decimal.NewFromInt(40))

	require.NoError(t, f.gate.PreBorrow(ctx, "cusdt", f.usdt, "bob", decimal.NewFromInt(40)))
	require.Equal(t, core.ErrBorrowCapExceeded, f.gate.PreBorrow(ctx, "cusdt", f.usdt, "bob", decimal.NewFromInt(41)))
}

func TestPreBorrowZeroPrice(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	require.NoError(t, f.memberships.Create(ctx, nil, "bob", "usdt"))
	f.oracle.SetPrice("usdt", decimal.Zero)

	err := f.gate.PreBorrow(ctx, "cusdt", f.usdt, "bob", decimal.NewFromInt(1))
	require.Equal(t, core.ErrInvalidPrice, err)
}

func TestPreRedeemMembershipGated(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	f.token.SetAccount("btc", "bob", decimal.NewFromInt(100), decimal.Zero, decimal.New(1, 0))
	f.token.SetAccount("usdt", "bob", decimal.Zero, decimal.NewFromInt(90), decimal.New(1, 0))

	// a non-member's balance never counted toward liquidity, so the
	// redemption is unconditional
	require.NoError(t, f.gate.PreRedeem(ctx, f.btc, "bob", decimal.NewFromInt(100)))

	require.NoError(t, f.memberships.Create(ctx, nil, "bob", "btc"))
	require.NoError(t, f.memberships.Create(ctx, nil, "bob", "usdt"))

	// power 100 against 90 borrowed leaves room for 10 of value,
	// which is 10 shares * price 2 * factor 0.5
	require.NoError(t, f.gate.PreRedeem(ctx, f.btc, "bob", decimal.NewFromInt(10)))
	require.Equal(t, core.ErrInsufficientLiquidity, f.gate.PreRedeem(ctx, f.btc, "bob", decimal.NewFromInt(11)))
}

func TestPreLiquidateCloseFactorBound(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	// raw 200 above the floor; threshold power 160 against 170 borrowed
	f.token.SetAccount("btc", "bob", decimal.NewFromInt(100), decimal.Zero, decimal.New(1, 0))
	f.token.SetAccount("usdt", "bob", decimal.Zero, decimal.NewFromInt(170), decimal.New(1, 0))
	require.NoError(t, f.memberships.Create(ctx, nil, "bob", "btc"))
	require.NoError(t, f.memberships.Create(ctx, nil, "bob", "usdt"))

	// close factor 0.5 of 170 is 85
	require.NoError(t, f.gate.PreLiquidate(ctx, f.usdt, f.btc, "liq", "bob", decimal.NewFromInt(85), false))
	require.Equal(t, core.ErrTooMuchRepay, f.gate.PreLiquidate(ctx, f.usdt, f.btc, "liq", "bob", decimal.NewFromInt(86), false))
}

func TestPreLiquidateHealthyAccount(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	f.token.SetAccount("btc", "bob", decimal.NewFromInt(100), decimal.Zero, decimal.New(1, 0))
	f.token.SetAccount("usdt", "bob", decimal.Zero, decimal.NewFromInt(100), decimal.New(1, 0))
	require.NoError(t, f.memberships.Create(ctx, nil, "bob", "btc"))
	require.NoError(t, f.memberships.Create(ctx, nil, "bob", "usdt"))

	err := f.gate.PreLiquidate(ctx, f.usdt, f.btc, "liq", "bob", decimal.NewFromInt(10), false)
	require.Equal(t, core.ErrInsufficientShortfall, err)
}

func TestPreLiquidateForcedSkipsChecks(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	f.token.SetAccount("usdt", "bob", decimal.Zero, decimal.NewFromInt(170), decimal.New(1, 0))
	f.usdt.ForcedLiquidation = true

	// solvency and close factor are skipped, only the balance caps it
	require.NoError(t, f.gate.PreLiquidate(ctx, f.usdt, f.btc, "liq", "bob", decimal.NewFromInt(170), false))
	require.Equal(t, core.ErrTooMuchRepay, f.gate.PreLiquidate(ctx, f.usdt, f.btc, "liq", "bob", decimal.NewFromInt(171), false))
}

func TestPreSeize(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	other := &core.Market{
		PoolID:   2,
		AssetID:  "eos",
		Symbol:   "EOS",
		IsListed: true,
	}
	require.NoError(t, f.markets.Save(ctx, nil, other))

	err := f.gate.PreSeize(ctx, f.btc, other, "liq", "bob", decimal.NewFromInt(1))
	require.Equal(t, core.ErrPoolMismatch, err)

	// collateral never pledged
	err = f.gate.PreSeize(ctx, f.btc, f.usdt, "liq", "bob", decimal.NewFromInt(1))
	require.Equal(t, core.ErrNotMember, err)

	require.NoError(t, f.memberships.Create(ctx, nil, "bob", "btc"))
	require.NoError(t, f.gate.PreSeize(ctx, f.btc, f.usdt, "liq", "bob", decimal.NewFromInt(1)))
}

func TestEnterExitMarket(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	require.NoError(t, f.gate.EnterMarket(ctx, "alice", f.btc))

	member, err := f.memberships.IsMember(ctx, "alice", "btc")
	require.NoError(t, err)
	require.True(t, member)

	// idempotent
	require.NoError(t, f.gate.EnterMarket(ctx, "alice", f.btc))
	members, err := f.memberships.List(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, members, 1)

	require.NoError(t, f.gate.ExitMarket(ctx, "alice", f.btc))
	member, err = f.memberships.IsMember(ctx, "alice", "btc")
	require.NoError(t, err)
	require.False(t, member)

	require.Equal(t, []string{core.EventMarketEntered, core.EventMarketExited}, f.events.Kinds())
}

func TestExitMarketWithDebt(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	f.token.SetAccount("usdt", "bob", decimal.Zero, decimal.NewFromInt(10), decimal.New(1, 0))
	require.NoError(t, f.memberships.Create(ctx, nil, "bob", "usdt"))

	err := f.gate.ExitMarket(ctx, "bob", f.usdt)
	require.Equal(t, core.ErrNonzeroBorrowBalance, err)
}

func TestExitMarketKeepsSolvency(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	// removing the collateral would leave the 90 debt unbacked
	f.token.SetAccount("btc", "bob", decimal.NewFromInt(100), decimal.Zero, decimal.New(1, 0))
	f.token.SetAccount("usdt", "bob", decimal.Zero, decimal.NewFromInt(90), decimal.New(1, 0))
	require.NoError(t, f.memberships.Create(ctx, nil, "bob", "btc"))
	require.NoError(t, f.memberships.Create(ctx, nil, "bob", "usdt"))

	err := f.gate.ExitMarket(ctx, "bob", f.btc)
	require.Equal(t, core.ErrInsufficientLiquidity, err)
}
