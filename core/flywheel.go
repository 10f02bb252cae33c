package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// RewardSide supply or borrow side of a flywheel
type RewardSide string

const (
	// RewardSupply supplier side
	RewardSupply RewardSide = "supply"
	// RewardBorrow borrower side
	RewardBorrow RewardSide = "borrow"
)

// InitialRewardIndex flywheel indices start here at listing time,
// never at zero, so the first delta of any late joiner is defined.
var InitialRewardIndex = decimal.New(1, 0)

// RewardMarketState flywheel accumulator per (market, distributor).
// Indices are monotone non-decreasing; after LastRewardingBlock the
// index freezes permanently.
type RewardMarketState struct {
	ID          uint64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	AssetID     string          `sql:"size:36;unique_index:reward_state_idx" json:"asset_id"`
	Distributor string          `sql:"size:36;unique_index:reward_state_idx" json:"distributor"`
	SupplyIndex decimal.Decimal `sql:"type:decimal(64,36);default:1" json:"supply_index"`
	BorrowIndex decimal.Decimal `sql:"type:decimal(64,36);default:1" json:"borrow_index"`
	SupplyBlock int64           `sql:"default:0" json:"supply_block"`
	BorrowBlock int64           `sql:"default:0" json:"borrow_block"`
	SupplySpeed decimal.Decimal `sql:"type:decimal(32,16);default:0" json:"supply_speed"`
	BorrowSpeed decimal.Decimal `sql:"type:decimal(32,16);default:0" json:"borrow_speed"`
	// 0 表示不设截止
	LastRewardingBlock int64     `sql:"default:0" json:"last_rewarding_block"`
	Version            int64     `sql:"default:0" json:"version"`
	CreatedAt          time.Time `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt          time.Time `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// AccountRewardIndex index last observed when rewards were settled
// for the account on one side of one market flywheel
type AccountRewardIndex struct {
	ID          uint64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	AssetID     string          `sql:"size:36;unique_index:account_reward_idx" json:"asset_id"`
	Distributor string          `sql:"size:36;unique_index:account_reward_idx" json:"distributor"`
	UserID      string          `sql:"size:36;unique_index:account_reward_idx" json:"user_id"`
	Side        RewardSide      `sql:"size:8;unique_index:account_reward_idx" json:"side"`
	Index       decimal.Decimal `sql:"type:decimal(64,36);default:0" json:"index"`
	UpdatedAt   time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// RewardAccrual pending undistributed rewards per (account, distributor)
type RewardAccrual struct {
	ID          uint64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	UserID      string          `sql:"size:36;unique_index:reward_accrual_idx" json:"user_id"`
	Distributor string          `sql:"size:36;unique_index:reward_accrual_idx" json:"distributor"`
	Accrued     decimal.Decimal `sql:"type:decimal(64,36);default:0" json:"accrued"`
	UpdatedAt   time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// IRewardStore flywheel state persistence
type IRewardStore interface {
	SaveState(ctx context.Context, tx *db.DB, state *RewardMarketState) error
	UpdateState(ctx context.Context, tx *db.DB, state *RewardMarketState) error
	FindState(ctx context.Context, assetID, distributor string) (*RewardMarketState, error)
	StatesByMarket(ctx context.Context, assetID string) ([]*RewardMarketState, error)
	FindAccountIndex(ctx context.Context, assetID, distributor, userID string, side RewardSide) (*AccountRewardIndex, error)
	SaveAccountIndex(ctx context.Context, tx *db.DB, index *AccountRewardIndex) error
	AddAccrued(ctx context.Context, tx *db.DB, userID, distributor string, amount decimal.Decimal) error
	FindAccrued(ctx context.Context, userID, distributor string) (decimal.Decimal, error)
}

// IFlywheelService reward flywheel engine. Distribute* updates the
// market index first, then settles the per-account delta; reversing
// the order miscomputes same-block rewards.
//
// The config mutations take the caller's transaction so the admin
// surface can record the matching event atomically; they are not
// capability-checked here and must only be reached through
// IAdminService.
type IFlywheelService interface {
	AddDistributor(ctx context.Context, tx *db.DB, market *Market, distributor string) error
	SetRewardSpeeds(ctx context.Context, tx *db.DB, market *Market, distributor string, supplySpeed, borrowSpeed decimal.Decimal) error
	SetLastRewardingBlock(ctx context.Context, tx *db.DB, market *Market, distributor string, block int64) error
	DistributeSupplier(ctx context.Context, market *Market, userID string) error
	DistributeBorrower(ctx context.Context, market *Market, userID string) error
	Accrued(ctx context.Context, userID, distributor string) (decimal.Decimal, error)
}
