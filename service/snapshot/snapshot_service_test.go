package snapshot

import (
	"context"
	"errors"
	"testing"

	"comptroller/core"
	"comptroller/internal/mem"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// two-market account: 100 shares of BTC at price 2, 120 borrowed USDT
// at price 1. Collateral factor 0.5, liquidation threshold 0.8.
func setupAccount(t *testing.T) (*mem.MarketStore, *mem.MembershipStore, *mem.Token, *mem.Oracle, core.ISnapshotService) {
	ctx := context.Background()

	markets := mem.NewMarketStore()
	memberships := mem.NewMembershipStore()
	token := mem.NewToken()
	oracle := mem.NewOracle()

	require.NoError(t, markets.Save(ctx, nil, &core.Market{
		PoolID:               1,
		AssetID:              "btc",
		Symbol:               "BTC",
		IsListed:             true,
		CollateralFactor:     decimal.NewFromFloat(0.5),
		LiquidationThreshold: decimal.NewFromFloat(0.8),
	}))
	require.NoError(t, markets.Save(ctx, nil, &core.Market{
		PoolID:               1,
		AssetID:              "usdt",
		Symbol:               "USDT",
		IsListed:             true,
		CollateralFactor:     decimal.NewFromFloat(0.8),
		LiquidationThreshold: decimal.NewFromFloat(0.9),
	}))

	require.NoError(t, memberships.Create(ctx, nil, "alice", "btc"))
	require.NoError(t, memberships.Create(ctx, nil, "alice", "usdt"))

	token.SetAccount("btc", "alice", decimal.NewFromInt(100), decimal.Zero, decimal.New(1, 0))
	token.SetAccount("usdt", "alice", decimal.Zero, decimal.NewFromInt(120), decimal.New(1, 0))

	oracle.SetPrice("btc", decimal.NewFromInt(2))
	oracle.SetPrice("usdt", decimal.NewFromInt(1))

	return markets, memberships, token, oracle, New(markets, memberships, token, oracle)
}

func TestComputeSnapshotWeightings(t *testing.T) {
	ctx := context.Background()
	_, _, _, _, srv := setupAccount(t)

	// borrowing power: 0.5 * 200 = 100 against 120 borrowed
	cf, err := srv.ComputeSnapshot(ctx, "alice", core.SnapshotOpts{
		Weighting: core.WeightCollateralFactor,
	})
	require.NoError(t, err)
	require.Equal(t, "200", cf.RawCollateral.String())
	require.Equal(t, "100", cf.Collateral.String())
	require.Equal(t, "120", cf.Borrows.String())
	require.Equal(t, "20", cf.Shortfall.String())
	require.True(t, cf.Liquidity.IsZero())

	// liquidation eligibility: 0.8 * 200 = 160 against 120 borrowed
	lt, err := srv.ComputeSnapshot(ctx, "alice", core.SnapshotOpts{
		Weighting: core.WeightLiquidationThreshold,
	})
	require.NoError(t, err)
	require.Equal(t, "160", lt.Collateral.String())
	require.Equal(t, "40", lt.Liquidity.String())
	require.True(t, lt.Shortfall.IsZero())
}

func TestComputeSnapshotHypothetical(t *testing.T) {
	ctx := context.Background()
	_, _, _, _, srv := setupAccount(t)

	// redeem effect is weighted by the collateral factor
	redeem, err := srv.ComputeSnapshot(ctx, "alice", core.SnapshotOpts{
		PerturbedAsset: "btc",
		RedeemTokens:   decimal.NewFromInt(10),
		Weighting:      core.WeightCollateralFactor,
	})
	require.NoError(t, err)
	require.Equal(t, "10", redeem.HypotheticalEffect.String())
	require.Equal(t, "30", redeem.Shortfall.String())

	// borrow effect is the raw price, no weighting
	borrow, err := srv.ComputeSnapshot(ctx, "alice", core.SnapshotOpts{
		PerturbedAsset: "usdt",
		BorrowAmount:   decimal.NewFromInt(50),
		Weighting:      core.WeightCollateralFactor,
	})
	require.NoError(t, err)
	require.Equal(t, "50", borrow.HypotheticalEffect.String())
	require.Equal(t, "70", borrow.Shortfall.String())
}

func TestComputeSnapshotZeroPriceAborts(t *testing.T) {
	ctx := context.Background()
	_, _, _, oracle, srv := setupAccount(t)

	oracle.SetPrice("usdt", decimal.Zero)

	_, err := srv.ComputeSnapshot(ctx, "alice", core.SnapshotOpts{})
	require.Error(t, err)
	require.True(t, errors.Is(err, core.ErrInvalidPrice))

	var tagged *core.SnapshotError
	require.True(t, errors.As(err, &tagged))
	require.Equal(t, "alice", tagged.UserID)
	require.Equal(t, "usdt", tagged.AssetID)
}

func TestComputeSnapshotBalancedAccount(t *testing.T) {
	ctx := context.Background()
	_, _, token, _, srv := setupAccount(t)

	// borrowing power exactly matches the debt: 0.5 * 200 = 100
	token.SetAccount("usdt", "alice", decimal.Zero, decimal.NewFromInt(100), decimal.New(1, 0))

	snapshot, err := srv.ComputeSnapshot(ctx, "alice", core.SnapshotOpts{
		Weighting: core.WeightCollateralFactor,
	})
	require.NoError(t, err)
	require.True(t, snapshot.Liquidity.IsZero())
	require.True(t, snapshot.Shortfall.IsZero())
}

func TestComputeSnapshotEmptyAccount(t *testing.T) {
	ctx := context.Background()
	_, _, _, _, srv := setupAccount(t)

	snapshot, err := srv.ComputeSnapshot(ctx, "nobody", core.SnapshotOpts{})
	require.NoError(t, err)
	require.True(t, snapshot.Collateral.IsZero())
	require.True(t, snapshot.Borrows.IsZero())
	require.True(t, snapshot.Liquidity.IsZero())
	require.True(t, snapshot.Shortfall.IsZero())
}
