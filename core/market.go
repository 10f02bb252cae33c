package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Market one listed collateral/borrow asset and its risk parameters
type Market struct {
	ID            uint64 `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	PoolID        uint64 `sql:"index:pool_idx" json:"pool_id"`
	AssetID       string `sql:"size:36;unique_index:asset_idx" json:"asset_id"`
	Symbol        string `sql:"size:20;unique_index:symbol_idx" json:"symbol"`
	CTokenAssetID string `sql:"size:36;unique_index:ctoken_asset_idx" json:"ctoken_asset_id"`
	IsListed      bool   `sql:"default:0" json:"is_listed"`
	// 抵押因子 [0, 0.9]: 可借贷价值 / 抵押资产价值
	CollateralFactor decimal.Decimal `sql:"type:decimal(20,8)" json:"collateral_factor"`
	// 清算阈值 [collateral_factor, 1]
	LiquidationThreshold decimal.Decimal `sql:"type:decimal(20,8)" json:"liquidation_threshold"`
	// 供应上限, 0 表示不限制
	SupplyCap decimal.Decimal `sql:"type:decimal(20,8);default:0" json:"supply_cap"`
	// 借款上限, 0 表示不限制
	BorrowCap decimal.Decimal `sql:"type:decimal(20,8);default:0" json:"borrow_cap"`
	// 已暂停的 action 列表
	PausedActions pq.StringArray `sql:"type:varchar(256)" json:"paused_actions"`
	// 强制清算开关: 打开后标准清算跳过 close factor 与偿付能力检查
	ForcedLiquidation bool `sql:"default:0" json:"forced_liquidation"`
	// 坏账: heal 之后未能收回的借款余额, 单调增加直到外部拍卖核销
	BadDebt   decimal.Decimal `sql:"type:decimal(32,16);default:0" json:"bad_debt"`
	Version   int64           `sql:"default:0" json:"version"`
	CreatedAt time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// IsPaused reports whether the action is paused for this market
func (m *Market) IsPaused(action ActionKind) bool {
	for _, a := range m.PausedActions {
		if a == string(action) {
			return true
		}
	}
	return false
}

// SetPaused toggles the pause flag for one action
func (m *Market) SetPaused(action ActionKind, paused bool) {
	next := make(pq.StringArray, 0, len(m.PausedActions)+1)
	for _, a := range m.PausedActions {
		if a != string(action) {
			next = append(next, a)
		}
	}
	if paused {
		next = append(next, string(action))
	}
	m.PausedActions = next
}

// IMarketStore market store interface
type IMarketStore interface {
	Save(ctx context.Context, tx *db.DB, market *Market) error
	Find(ctx context.Context, assetID string) (*Market, error)
	FindBySymbol(ctx context.Context, symbol string) (*Market, error)
	FindByCToken(ctx context.Context, ctokenAssetID string) (*Market, error)
	All(ctx context.Context) ([]*Market, error)
	AllAsMap(ctx context.Context) (map[string]*Market, error)
	Update(ctx context.Context, tx *db.DB, market *Market) error
}
