package sentinel

import (
	"context"
	"time"

	"comptroller/core"
	"comptroller/internal/engine"
	"comptroller/worker"

	"github.com/fox-one/pkg/logger"
	"github.com/robfig/cron/v3"
)

// Worker shortfall sentinel: periodically scans every account holding
// a membership and reports which resolution path applies to accounts
// below the collateral floor.
type Worker struct {
	worker.BaseJob
	MembershipStore core.IMembershipStore
	MarketStore     core.IMarketStore
	PoolStore       core.IPoolStore
	SnapshotService core.ISnapshotService
}

// New new sentinel worker
func New(
	membershipStore core.IMembershipStore,
	marketStore core.IMarketStore,
	poolStore core.IPoolStore,
	snapshotSrv core.ISnapshotService,
) *Worker {
	job := Worker{
		MembershipStore: membershipStore,
		MarketStore:     marketStore,
		PoolStore:       poolStore,
		SnapshotService: snapshotSrv,
	}

	job.Cron = cron.New()
	_, _ = job.Cron.AddFunc("@every 1m", job.Work)
	job.OnWork = func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Second)
		defer cancel()
		return job.onWork(ctx)
	}

	return &job
}

func (w *Worker) onWork(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("worker", "sentinel")

	users, err := w.MembershipStore.AllUsers(ctx)
	if err != nil {
		log.WithError(err).Errorln("memberships.AllUsers")
		return err
	}

	for _, user := range users {
		snapshot, err := w.SnapshotService.ComputeSnapshot(ctx, user, core.SnapshotOpts{
			Weighting: core.WeightLiquidationThreshold,
		})
		if err != nil {
			log.WithField("user", user).WithError(err).Infoln("skip: snapshot failed")
			continue
		}

		if !snapshot.Shortfall.IsPositive() {
			continue
		}

		pool, err := w.poolOf(ctx, user)
		if err != nil {
			continue
		}

		entry := log.WithField("user", user).
			WithField("shortfall", snapshot.Shortfall).
			WithField("collateral", snapshot.RawCollateral)

		if snapshot.RawCollateral.GreaterThan(pool.MinLiquidatableCollateral) {
			entry.Infoln("account liquidatable")
		} else if engine.SeizeValue(snapshot.Borrows, pool.LiquidationIncentive).LessThan(snapshot.RawCollateral) {
			entry.Infoln("account below floor: batch liquidation")
		} else {
			entry.Infoln("account below floor: healing required")
		}
	}

	return nil
}

func (w *Worker) poolOf(ctx context.Context, user string) (*core.Pool, error) {
	members, err := w.MembershipStore.List(ctx, user)
	if err != nil || len(members) == 0 {
		return nil, core.ErrNotMember
	}

	market, err := w.MarketStore.Find(ctx, members[0].AssetID)
	if err != nil {
		return nil, err
	}

	return w.PoolStore.Find(ctx, market.PoolID)
}
