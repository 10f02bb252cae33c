package core

import "github.com/asaskevich/govalidator"

// ActionKind names a balance-changing market action that can be
// individually paused.
type ActionKind string

const (
	// ActionMint mint
	ActionMint ActionKind = "mint"
	// ActionRedeem redeem
	ActionRedeem ActionKind = "redeem"
	// ActionBorrow borrow
	ActionBorrow ActionKind = "borrow"
	// ActionRepay repay
	ActionRepay ActionKind = "repay"
	// ActionLiquidate liquidate
	ActionLiquidate ActionKind = "liquidate"
	// ActionSeize seize
	ActionSeize ActionKind = "seize"
	// ActionTransfer transfer
	ActionTransfer ActionKind = "transfer"
	// ActionEnterMarket enter market
	ActionEnterMarket ActionKind = "enter"
	// ActionExitMarket exit market
	ActionExitMarket ActionKind = "exit"
)

var actionKinds = []string{
	string(ActionMint),
	string(ActionRedeem),
	string(ActionBorrow),
	string(ActionRepay),
	string(ActionLiquidate),
	string(ActionSeize),
	string(ActionTransfer),
	string(ActionEnterMarket),
	string(ActionExitMarket),
}

// ValidActionKind reports whether s names a pausable action
func ValidActionKind(s string) bool {
	return govalidator.IsIn(s, actionKinds...)
}
