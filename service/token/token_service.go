package token

import (
	"context"
	"fmt"

	"comptroller/core"
	"comptroller/pkg/resthttp"

	"github.com/shopspring/decimal"
)

// RemoteToken talks to the share-accounting ledger over its REST api.
// The engine only ever reads balances and drives the three resolution
// primitives; all interest accrual happens on the ledger side.
type RemoteToken struct {
	endpoint string
}

// New new remote token client
func New(endpoint string) core.MarketToken {
	return &RemoteToken{endpoint: endpoint}
}

type marketStats struct {
	TotalSupply  decimal.Decimal `json:"total_supply"`
	TotalBorrows decimal.Decimal `json:"total_borrows"`
	ExchangeRate decimal.Decimal `json:"exchange_rate"`
}

func (t *RemoteToken) GetAccountSnapshot(ctx context.Context, assetID, userID string) (*core.AccountSnapshot, error) {
	url := fmt.Sprintf("%s/api/markets/%s/accounts/%s", t.endpoint, assetID, userID)

	resp, err := resthttp.Request(ctx).Get(url)
	if err != nil {
		return nil, err
	}

	var snapshot core.AccountSnapshot
	if err := resthttp.ParseResponse(resp, &snapshot); err != nil {
		return nil, err
	}

	return &snapshot, nil
}

func (t *RemoteToken) TotalSupply(ctx context.Context, assetID string) (decimal.Decimal, error) {
	stats, err := t.stats(ctx, assetID)
	if err != nil {
		return decimal.Zero, err
	}
	return stats.TotalSupply, nil
}

func (t *RemoteToken) TotalBorrows(ctx context.Context, assetID string) (decimal.Decimal, error) {
	stats, err := t.stats(ctx, assetID)
	if err != nil {
		return decimal.Zero, err
	}
	return stats.TotalBorrows, nil
}

func (t *RemoteToken) ExchangeRate(ctx context.Context, assetID string) (decimal.Decimal, error) {
	stats, err := t.stats(ctx, assetID)
	if err != nil {
		return decimal.Zero, err
	}
	return stats.ExchangeRate, nil
}

func (t *RemoteToken) BorrowBalance(ctx context.Context, assetID, userID string) (decimal.Decimal, error) {
	snapshot, err := t.GetAccountSnapshot(ctx, assetID, userID)
	if err != nil {
		return decimal.Zero, err
	}
	return snapshot.BorrowBalance, nil
}

func (t *RemoteToken) Seize(ctx context.Context, assetID, liquidator, borrower string, tokens decimal.Decimal) error {
	url := fmt.Sprintf("%s/api/markets/%s/seize", t.endpoint, assetID)

	resp, err := resthttp.Request(ctx).SetBody(map[string]interface{}{
		"liquidator": liquidator,
		"borrower":   borrower,
		"tokens":     tokens,
	}).Post(url)
	if err != nil {
		return err
	}

	return resthttp.ParseResponse(resp, nil)
}

func (t *RemoteToken) HealBorrow(ctx context.Context, assetID, payer, borrower string, repayAmount decimal.Decimal) error {
	url := fmt.Sprintf("%s/api/markets/%s/heal", t.endpoint, assetID)

	resp, err := resthttp.Request(ctx).SetBody(map[string]interface{}{
		"payer":    payer,
		"borrower": borrower,
		"repay":    repayAmount,
	}).Post(url)
	if err != nil {
		return err
	}

	return resthttp.ParseResponse(resp, nil)
}

func (t *RemoteToken) ForceLiquidate(ctx context.Context, borrowedAssetID, liquidator, borrower string, repayAmount decimal.Decimal, collateralAssetID string, skipCheck bool) error {
	url := fmt.Sprintf("%s/api/markets/%s/liquidate", t.endpoint, borrowedAssetID)

	resp, err := resthttp.Request(ctx).SetBody(map[string]interface{}{
		"liquidator": liquidator,
		"borrower":   borrower,
		"repay":      repayAmount,
		"collateral": collateralAssetID,
		"skip_check": skipCheck,
	}).Post(url)
	if err != nil {
		return err
	}

	return resthttp.ParseResponse(resp, nil)
}

func (t *RemoteToken) stats(ctx context.Context, assetID string) (*marketStats, error) {
	url := fmt.Sprintf("%s/api/markets/%s", t.endpoint, assetID)

	resp, err := resthttp.Request(ctx).Get(url)
	if err != nil {
		return nil, err
	}

	var stats marketStats
	if err := resthttp.ParseResponse(resp, &stats); err != nil {
		return nil, err
	}

	return &stats, nil
}
