package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
)

// Membership one (account, market) row of the assets-in set.
// The ordered list per account and the per-market containment check
// are both served from these rows and must always agree.
type Membership struct {
	ID        uint64    `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	UserID    string    `sql:"size:36;unique_index:member_idx" json:"user_id"`
	AssetID   string    `sql:"size:36;unique_index:member_idx" json:"asset_id"`
	CreatedAt time.Time `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

// IMembershipStore membership store interface
type IMembershipStore interface {
	Create(ctx context.Context, tx *db.DB, userID, assetID string) error
	Delete(ctx context.Context, tx *db.DB, userID, assetID string) error
	// List memberships of the account ordered by entry time
	List(ctx context.Context, userID string) ([]*Membership, error)
	IsMember(ctx context.Context, userID, assetID string) (bool, error)
	// Users all accounts holding a membership in the market
	Users(ctx context.Context, assetID string) ([]string, error)
	AllUsers(ctx context.Context) ([]string, error)
}
