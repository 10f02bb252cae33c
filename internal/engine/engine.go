package engine

import (
	"comptroller/pkg/mathx"
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// CollateralFactorMax collateral factor must not exceed this value
	CollateralFactorMax = decimal.NewFromFloat(0.9)
	// LiquidationThresholdMax threshold must not exceed this value
	LiquidationThresholdMax = decimal.NewFromInt(1)
	// CloseFactorMin close factor must be strictly greater than this value
	CloseFactorMin = decimal.NewFromFloat(0.05)
	// CloseFactorMax close factor must not exceed this value
	CloseFactorMax = decimal.NewFromFloat(0.9)
	// LiquidationIncentiveMin incentive is a multiplier, at least one
	LiquidationIncentiveMin = decimal.NewFromInt(1)
	// LiquidationIncentiveMax incentive must not exceed this value
	LiquidationIncentiveMax = decimal.NewFromFloat(1.5)
)

// Require returns an error carrying msg when the condition fails
func Require(condition bool, msg string) error {
	if condition {
		return nil
	}
	return errors.New(msg)
}

// ProjectedTotalSupply underlying value the market would hold after a
// mint, measured against the supply cap.
// next = total_share_supply * exchange_rate + mint_amount
func ProjectedTotalSupply(totalShareSupply, exchangeRate, mintAmount decimal.Decimal) decimal.Decimal {
	return mathx.MulTruncate(totalShareSupply, exchangeRate).Add(mintAmount)
}

// SeizeValue collateral value the liquidator is owed for repaying
// borrowsValue, incentive included
func SeizeValue(borrowsValue, incentive decimal.Decimal) decimal.Decimal {
	return mathx.MulTruncate(borrowsValue, incentive)
}

// RepayPercentage fraction of each borrow the healer pays; the
// remainder is written off as bad debt.
// percentage = raw_collateral / (borrows * incentive)
func RepayPercentage(rawCollateral, borrows, incentive decimal.Decimal) decimal.Decimal {
	scaled := mathx.MulTruncate(borrows, incentive)
	if !scaled.IsPositive() {
		return decimal.Zero
	}
	return mathx.DivTruncate(rawCollateral, scaled)
}

// SeizeTokens converts a repay value into collateral share tokens.
// Truncates so the dust stays with the protocol, not the borrower.
// tokens = repay_value * incentive / (price * exchange_rate)
func SeizeTokens(repayValue, incentive, collateralPrice, exchangeRate decimal.Decimal) decimal.Decimal {
	denominator := mathx.MulTruncate(collateralPrice, exchangeRate)
	if !denominator.IsPositive() {
		return decimal.Zero
	}
	return mathx.DivTruncate(mathx.MulTruncate(repayValue, incentive), denominator).Truncate(mathx.AmountPrecision)
}

// MaxClose the largest repay amount a standard liquidation accepts
func MaxClose(closeFactor, borrowBalance decimal.Decimal) decimal.Decimal {
	return mathx.MulTruncate(closeFactor, borrowBalance)
}
