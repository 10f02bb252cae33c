package core

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/jmoiron/sqlx/types"
)

// Event kinds surfaced to external indexers
const (
	EventMarketListed       = "market_listed"
	EventMarketEntered      = "market_entered"
	EventMarketExited       = "market_exited"
	EventCollateralFactor   = "collateral_factor_changed"
	EventThresholdChanged   = "liquidation_threshold_changed"
	EventCapsChanged        = "caps_changed"
	EventActionPaused       = "action_paused"
	EventForcedLiquidation  = "forced_liquidation_changed"
	EventPoolChanged        = "pool_changed"
	EventOracleChanged      = "price_oracle_changed"
	EventDistributorAdded   = "reward_distributor_added"
	EventRewardSpeedChanged = "reward_speed_changed"
	EventRewardingCutoff    = "rewarding_cutoff_changed"
	EventAccountLiquidated  = "account_liquidated"
	EventAccountHealed      = "account_healed"
	EventBadDebtRecorded    = "bad_debt_recorded"
	EventBadDebtResolved    = "bad_debt_resolved"
)

// Event persisted protocol event
type Event struct {
	ID        uint64         `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	TraceID   string         `sql:"size:36;unique_index:event_trace_idx" json:"trace_id"`
	Kind      string         `sql:"size:64;index:event_kind_idx" json:"kind"`
	AssetID   string         `sql:"size:36;index:event_asset_idx" json:"asset_id"`
	UserID    string         `sql:"size:36;index:event_user_idx" json:"user_id"`
	Payload   types.JSONText `sql:"type:varchar(2048)" json:"payload"`
	CreatedAt time.Time      `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

// SetPayload marshal v into the payload column
func (e *Event) SetPayload(v interface{}) error {
	bs, err := json.Marshal(v)
	if err != nil {
		return err
	}
	e.Payload = types.JSONText(bs)
	return nil
}

// IEventStore event journal
type IEventStore interface {
	Create(ctx context.Context, tx *db.DB, event *Event) error
	List(ctx context.Context, fromID uint64, limit int) ([]*Event, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]*Event, error)
}
