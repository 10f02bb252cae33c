package core

import "context"

// IBlockService provides the monotonically increasing block counter
// used as the engine's time base
type IBlockService interface {
	CurrentBlock(ctx context.Context) (int64, error)
	GetBlockByTime(ctx context.Context, seconds int64) (int64, error)
}
