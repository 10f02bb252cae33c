package core

import (
	"fmt"
	"strconv"
)

// ErrorCode int
type ErrorCode int

const (
	// ErrUnknown unknown
	ErrUnknown ErrorCode = 100000
	// ErrOperationForbidden caller lacks the required capability
	ErrOperationForbidden ErrorCode = 100001
	// ErrInvalidArgument invalid argument
	ErrInvalidArgument ErrorCode = 100002
	// ErrReentry a guarded function was entered twice
	ErrReentry ErrorCode = 100003

	// ErrMarketNotFound no market
	ErrMarketNotFound ErrorCode = 100100
	// ErrMarketNotListed market exists but is not listed
	ErrMarketNotListed ErrorCode = 100101
	// ErrActionPaused the action is paused for the market
	ErrActionPaused ErrorCode = 100102
	// ErrInvalidAmount invalid amount
	ErrInvalidAmount ErrorCode = 100103
	// ErrSupplyCapExceeded minting would exceed the supply cap
	ErrSupplyCapExceeded ErrorCode = 100104
	// ErrBorrowCapExceeded borrowing would exceed the borrow cap
	ErrBorrowCapExceeded ErrorCode = 100105
	// ErrInvalidCollateralFactor collateral factor out of range
	ErrInvalidCollateralFactor ErrorCode = 100106
	// ErrInvalidLiquidationThreshold threshold below factor or above one
	ErrInvalidLiquidationThreshold ErrorCode = 100107
	// ErrPoolMismatch markets belong to different pools
	ErrPoolMismatch ErrorCode = 100108

	// ErrInsufficientLiquidity account would end with a shortfall
	ErrInsufficientLiquidity ErrorCode = 100200
	// ErrInsufficientShortfall account is healthy, nothing to liquidate
	ErrInsufficientShortfall ErrorCode = 100201
	// ErrTooMuchRepay repay amount exceeds the close factor bound
	ErrTooMuchRepay ErrorCode = 100202
	// ErrInvalidPrice oracle returned a zero or stale price
	ErrInvalidPrice ErrorCode = 100203
	// ErrNotMember the account never entered the market
	ErrNotMember ErrorCode = 100204
	// ErrNonzeroBorrowBalance debt outstanding where none is allowed
	ErrNonzeroBorrowBalance ErrorCode = 100205
	// ErrMinimalCollateral collateral above the batch-liquidation floor
	ErrMinimalCollateral ErrorCode = 100206
	// ErrInsufficientCollateral seizing everything cannot make the liquidator whole
	ErrInsufficientCollateral ErrorCode = 100207
	// ErrCollateralExceedsDebt healing a position whose collateral covers the debt
	ErrCollateralExceedsDebt ErrorCode = 100208
)

func (e ErrorCode) String() string {
	return strconv.Itoa(int(e))
}

func (e ErrorCode) Error() string {
	return e.String()
}

// SnapshotError tags a collaborator failure with the account and the
// offending market so a partially priced portfolio is never acted on.
type SnapshotError struct {
	UserID  string
	AssetID string
	Err     error
}

func (e *SnapshotError) Error() string {
	return fmt.Sprintf("snapshot: user %s market %s: %v", e.UserID, e.AssetID, e.Err)
}

func (e *SnapshotError) Unwrap() error {
	return e.Err
}
