package block

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetBlockByTime(t *testing.T) {
	ctx := context.Background()
	srv := New(1000)

	block, err := srv.GetBlockByTime(ctx, 1150)
	require.NoError(t, err)
	require.Equal(t, int64(10), block)

	// partial intervals round down
	block, err = srv.GetBlockByTime(ctx, 1164)
	require.NoError(t, err)
	require.Equal(t, int64(10), block)

	_, err = srv.GetBlockByTime(ctx, 999)
	require.Error(t, err)
}
