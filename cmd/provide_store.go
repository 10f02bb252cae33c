package cmd

import (
	"time"

	"comptroller/core"
	"comptroller/store/allowlist"
	"comptroller/store/event"
	"comptroller/store/flywheel"
	"comptroller/store/market"
	"comptroller/store/membership"
	"comptroller/store/pool"

	"github.com/fox-one/pkg/store/db"
)

func providePoolStore(db *db.DB) core.IPoolStore {
	return pool.New(db)
}

func provideMarketStore(db *db.DB) core.IMarketStore {
	return market.Cache(market.New(db), time.Second)
}

func provideMembershipStore(db *db.DB) core.IMembershipStore {
	return membership.New(db)
}

func provideRewardStore(db *db.DB) core.IRewardStore {
	return flywheel.New(db)
}

func provideAllowListStore(db *db.DB) core.IAllowListStore {
	return allowlist.New(db)
}

func provideEventStore(db *db.DB) core.IEventStore {
	return event.New(db)
}
