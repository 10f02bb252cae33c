package snapshot

import (
	"context"

	"comptroller/core"
	"comptroller/pkg/mathx"

	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"
)

type snapshotService struct {
	marketStore     core.IMarketStore
	membershipStore core.IMembershipStore
	token           core.MarketToken
	oracle          core.IPriceOracleService
}

// New new snapshot service
func New(
	marketStore core.IMarketStore,
	membershipStore core.IMembershipStore,
	token core.MarketToken,
	oracle core.IPriceOracleService,
) core.ISnapshotService {
	return &snapshotService{
		marketStore:     marketStore,
		membershipStore: membershipStore,
		token:           token,
		oracle:          oracle,
	}
}

// ComputeSnapshot aggregates the account's position over its entire
// membership set. Prices are refreshed before any value is read; a
// zero price or a collaborator error aborts the whole computation so
// a portfolio is never partially priced.
func (s *snapshotService) ComputeSnapshot(ctx context.Context, userID string, opts core.SnapshotOpts) (*core.LiquiditySnapshot, error) {
	log := logger.FromContext(ctx).WithField("service", "snapshot")

	members, err := s.membershipStore.List(ctx, userID)
	if err != nil {
		log.WithError(err).Errorln("memberships.List")
		return nil, err
	}

	snapshot := &core.LiquiditySnapshot{
		Collateral:         decimal.Zero,
		RawCollateral:      decimal.Zero,
		Borrows:            decimal.Zero,
		HypotheticalEffect: decimal.Zero,
		Liquidity:          decimal.Zero,
		Shortfall:          decimal.Zero,
	}

	for _, member := range members {
		market, err := s.marketStore.Find(ctx, member.AssetID)
		if err != nil {
			return nil, &core.SnapshotError{UserID: userID, AssetID: member.AssetID, Err: err}
		}

		account, err := s.token.GetAccountSnapshot(ctx, market.AssetID, userID)
		if err != nil {
			return nil, &core.SnapshotError{UserID: userID, AssetID: market.AssetID, Err: err}
		}

		if err := s.oracle.UpdatePrice(ctx, market); err != nil {
			return nil, &core.SnapshotError{UserID: userID, AssetID: market.AssetID, Err: err}
		}

		price, err := s.oracle.GetUnderlyingPrice(ctx, market)
		if err != nil {
			return nil, &core.SnapshotError{UserID: userID, AssetID: market.AssetID, Err: err}
		}
		if !price.IsPositive() {
			return nil, &core.SnapshotError{UserID: userID, AssetID: market.AssetID, Err: core.ErrInvalidPrice}
		}

		weight := marketWeight(market, opts.Weighting)

		// token_price = exchange_rate * oracle_price
		tokenPrice := mathx.MulTruncate(account.ExchangeRate, price)
		shareValue := mathx.MulTruncate(tokenPrice, account.ShareBalance)

		snapshot.RawCollateral = snapshot.RawCollateral.Add(shareValue)
		snapshot.Collateral = snapshot.Collateral.Add(mathx.MulTruncate(weight, shareValue))
		snapshot.Borrows = snapshot.Borrows.Add(mathx.MulTruncate(price, account.BorrowBalance))

		if market.AssetID == opts.PerturbedAsset {
			// redeem effect is risk-weighted down, borrow effect is not
			redeemEffect := mathx.MulTruncate(mathx.MulTruncate(weight, tokenPrice), opts.RedeemTokens)
			borrowEffect := mathx.MulTruncate(price, opts.BorrowAmount)
			snapshot.HypotheticalEffect = snapshot.HypotheticalEffect.Add(redeemEffect).Add(borrowEffect)
		}
	}

	// at most one of the two is nonzero; an exactly balanced account
	// has neither liquidity nor shortfall
	total := snapshot.Borrows.Add(snapshot.HypotheticalEffect)
	snapshot.Liquidity = mathx.ClampZero(snapshot.Collateral.Sub(total))
	snapshot.Shortfall = mathx.ClampZero(total.Sub(snapshot.Collateral))

	return snapshot, nil
}

func marketWeight(market *core.Market, weighting core.Weighting) decimal.Decimal {
	if weighting == core.WeightLiquidationThreshold {
		return market.LiquidationThreshold
	}
	return market.CollateralFactor
}
