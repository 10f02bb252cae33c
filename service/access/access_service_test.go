package access

import (
	"context"
	"testing"

	"comptroller/core"
	"comptroller/internal/mem"

	"github.com/stretchr/testify/require"
)

func TestAllowed(t *testing.T) {
	ctx := context.Background()

	system := &core.System{Admins: []string{"root"}}
	srv := New(mem.Txer{}, system, mem.NewAllowListStore())

	// admins hold every scope implicitly
	require.True(t, srv.Allowed(ctx, "root", core.ScopeSetPool))
	require.False(t, srv.Allowed(ctx, "ops", core.ScopeSetPool))

	require.NoError(t, srv.Grant(ctx, "ops", []string{core.ScopeSetCaps, core.ScopeSetPause}))
	require.True(t, srv.Allowed(ctx, "ops", core.ScopeSetCaps))
	require.True(t, srv.Allowed(ctx, "ops", core.ScopeSetPause))
	require.False(t, srv.Allowed(ctx, "ops", core.ScopeSetPool))

	// granting twice never duplicates a scope
	require.NoError(t, srv.Grant(ctx, "ops", []string{core.ScopeSetCaps}))

	require.NoError(t, srv.Revoke(ctx, "ops"))
	require.False(t, srv.Allowed(ctx, "ops", core.ScopeSetCaps))
}

func TestAllowedEmptySystem(t *testing.T) {
	ctx := context.Background()

	srv := New(mem.Txer{}, &core.System{}, mem.NewAllowListStore())
	require.False(t, srv.Allowed(ctx, "anyone", core.ScopeListMarket))
}
