package engine

import (
	"context"
	"errors"
)

// SecondsPerBlock block interval of the external time base
const SecondsPerBlock int64 = 15

// BlockByTime block counter at the given unix timestamp
func BlockByTime(ctx context.Context, genesis, unix int64) (int64, error) {
	seconds := unix - genesis
	if seconds <= 0 {
		return 0, errors.New("block before genesis")
	}

	return seconds / SecondsPerBlock, nil
}
