package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/lib/pq"
)

// Access scopes consulted before every privileged mutation
const (
	ScopeListMarket       = "market.list"
	ScopeSetRiskParams    = "market.risk"
	ScopeSetCaps          = "market.caps"
	ScopeSetPause         = "market.pause"
	ScopeSetPool          = "pool.config"
	ScopeSetOracle        = "pool.oracle"
	ScopeSetRewards       = "rewards.config"
	ScopeResolveBadDebt   = "market.baddebt"
	ScopeForceLiquidation = "market.forced"
)

// AllowListEntry capability grants for one caller
type AllowListEntry struct {
	ID        uint64         `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	UserID    string         `sql:"size:36;unique_index:allow_user_idx" json:"user_id"`
	Scopes    pq.StringArray `sql:"type:varchar(1024)" json:"scopes"`
	Version   int64          `sql:"default:0" json:"version"`
	CreatedAt time.Time      `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time      `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// IAllowListStore allow list persistence
type IAllowListStore interface {
	Save(ctx context.Context, tx *db.DB, entry *AllowListEntry) error
	Find(ctx context.Context, userID string) (*AllowListEntry, error)
	All(ctx context.Context) ([]*AllowListEntry, error)
	Delete(ctx context.Context, tx *db.DB, userID string) error
}

// IAccessService capability-checked access control, injected into the
// admin surface at construction time; never ambient global state.
type IAccessService interface {
	Allowed(ctx context.Context, caller, scope string) bool
	Grant(ctx context.Context, userID string, scopes []string) error
	Revoke(ctx context.Context, userID string) error
}
