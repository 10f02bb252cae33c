package mem

import (
	"context"
	"fmt"
	"sync"

	"comptroller/core"

	"github.com/shopspring/decimal"
)

// Token in-memory share ledger. Balances mutate the way the real
// ledger would so liquidation tests can assert post-conditions.
type Token struct {
	mu       sync.Mutex
	accounts map[string]*core.AccountSnapshot
	supply   map[string]decimal.Decimal
	borrows  map[string]decimal.Decimal
	rates    map[string]decimal.Decimal
}

func NewToken() *Token {
	return &Token{
		accounts: make(map[string]*core.AccountSnapshot),
		supply:   make(map[string]decimal.Decimal),
		borrows:  make(map[string]decimal.Decimal),
		rates:    make(map[string]decimal.Decimal),
	}
}

func accountKey(assetID, userID string) string {
	return assetID + "/" + userID
}

// SetAccount seeds one account position
func (t *Token) SetAccount(assetID, userID string, shares, borrow, rate decimal.Decimal) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.accounts[accountKey(assetID, userID)] = &core.AccountSnapshot{
		ShareBalance:  shares,
		BorrowBalance: borrow,
		ExchangeRate:  rate,
	}
	t.rates[assetID] = rate
	t.supply[assetID] = t.supply[assetID].Add(shares)
	t.borrows[assetID] = t.borrows[assetID].Add(borrow)
}

// SetTotals overrides the market aggregates
func (t *Token) SetTotals(assetID string, supply, borrows decimal.Decimal) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.supply[assetID] = supply
	t.borrows[assetID] = borrows
}

func (t *Token) account(assetID, userID string) *core.AccountSnapshot {
	account, ok := t.accounts[accountKey(assetID, userID)]
	if !ok {
		rate := t.rates[assetID]
		if rate.IsZero() {
			rate = decimal.New(1, 0)
		}
		account = &core.AccountSnapshot{ExchangeRate: rate}
		t.accounts[accountKey(assetID, userID)] = account
	}
	return account
}

func (t *Token) GetAccountSnapshot(ctx context.Context, assetID, userID string) (*core.AccountSnapshot, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	clone := *t.account(assetID, userID)
	return &clone, nil
}

func (t *Token) TotalSupply(ctx context.Context, assetID string) (decimal.Decimal, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.supply[assetID], nil
}

func (t *Token) TotalBorrows(ctx context.Context, assetID string) (decimal.Decimal, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.borrows[assetID], nil
}

func (t *Token) ExchangeRate(ctx context.Context, assetID string) (decimal.Decimal, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	rate, ok := t.rates[assetID]
	if !ok {
		rate = decimal.New(1, 0)
	}
	return rate, nil
}

func (t *Token) BorrowBalance(ctx context.Context, assetID, userID string) (decimal.Decimal, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.account(assetID, userID).BorrowBalance, nil
}

func (t *Token) Seize(ctx context.Context, assetID, liquidator, borrower string, tokens decimal.Decimal) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	from := t.account(assetID, borrower)
	if tokens.GreaterThan(from.ShareBalance) {
		return fmt.Errorf("seize %s exceeds balance %s", tokens, from.ShareBalance)
	}

	from.ShareBalance = from.ShareBalance.Sub(tokens)
	to := t.account(assetID, liquidator)
	to.ShareBalance = to.ShareBalance.Add(tokens)
	return nil
}

func (t *Token) HealBorrow(ctx context.Context, assetID, payer, borrower string, repayAmount decimal.Decimal) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	account := t.account(assetID, borrower)
	if repayAmount.GreaterThan(account.BorrowBalance) {
		return fmt.Errorf("heal repay %s exceeds borrow %s", repayAmount, account.BorrowBalance)
	}

	// the remainder is written off on the ledger side
	t.borrows[assetID] = t.borrows[assetID].Sub(account.BorrowBalance)
	account.BorrowBalance = decimal.Zero
	return nil
}

func (t *Token) ForceLiquidate(ctx context.Context, borrowedAssetID, liquidator, borrower string, repayAmount decimal.Decimal, collateralAssetID string, skipCheck bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	account := t.account(borrowedAssetID, borrower)
	if repayAmount.GreaterThan(account.BorrowBalance) {
		return fmt.Errorf("repay %s exceeds borrow %s", repayAmount, account.BorrowBalance)
	}

	account.BorrowBalance = account.BorrowBalance.Sub(repayAmount)
	t.borrows[borrowedAssetID] = t.borrows[borrowedAssetID].Sub(repayAmount)
	return nil
}
