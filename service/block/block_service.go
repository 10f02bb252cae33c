package block

import (
	"context"
	"time"

	"comptroller/core"
	"comptroller/internal/engine"
)

type service struct {
	genesis int64
}

// New new block service
func New(genesis int64) core.IBlockService {
	return &service{genesis: genesis}
}

func (s *service) CurrentBlock(ctx context.Context) (int64, error) {
	return engine.BlockByTime(ctx, s.genesis, time.Now().UTC().Unix())
}

func (s *service) GetBlockByTime(ctx context.Context, seconds int64) (int64, error) {
	return engine.BlockByTime(ctx, s.genesis, seconds)
}
