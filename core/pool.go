package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// Pool pool-level risk parameters shared by every market in the pool.
//
// SchemaVersion replaces the storage-slot inheritance chain of older
// deployments; migrations bump it explicitly.
type Pool struct {
	ID uint64 `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	// 触发清算因子: 单次标准清算最多可偿还的借款比例
	CloseFactor decimal.Decimal `sql:"type:decimal(20,8)" json:"close_factor"`
	// 清算激励, >= 1, 一般为 1.1
	LiquidationIncentive decimal.Decimal `sql:"type:decimal(20,8)" json:"liquidation_incentive"`
	// 低于该美元价值的账户只能走批量清算/坏账核销路径
	MinLiquidatableCollateral decimal.Decimal `sql:"type:decimal(20,8)" json:"min_liquidatable_collateral"`
	SchemaVersion             int64           `sql:"default:1" json:"schema_version"`
	OracleEndpoint            string          `sql:"size:256" json:"oracle_endpoint"`
	Version                   int64           `sql:"default:0" json:"version"`
	CreatedAt                 time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt                 time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// IPoolStore pool store interface
type IPoolStore interface {
	Save(ctx context.Context, tx *db.DB, pool *Pool) error
	Find(ctx context.Context, id uint64) (*Pool, error)
	All(ctx context.Context) ([]*Pool, error)
	Update(ctx context.Context, tx *db.DB, pool *Pool) error
}
