package priceoracle

import (
	"context"
	"sync"
	"time"

	"comptroller/core"
	"comptroller/worker"

	"github.com/fox-one/pkg/logger"
)

// Worker price oracle worker: keeps every listed market's price fresh
// so hooks never act on a stale quote.
type Worker struct {
	worker.TickWorker
	MarketStore  core.IMarketStore
	PriceService core.IPriceOracleService
}

// New new price oracle worker
func New(marketStore core.IMarketStore, priceSrv core.IPriceOracleService) *Worker {
	return &Worker{
		TickWorker: worker.TickWorker{
			Delay: 15 * time.Second,
		},
		MarketStore:  marketStore,
		PriceService: priceSrv,
	}
}

// Run run worker
func (w *Worker) Run(ctx context.Context) error {
	return w.StartTick(ctx, func(ctx context.Context) error {
		return w.onWork(ctx)
	})
}

func (w *Worker) onWork(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("worker", "priceoracle")

	markets, err := w.MarketStore.All(ctx)
	if err != nil {
		log.Errorln("fetch all markets error:", err)
		return err
	}

	wg := sync.WaitGroup{}
	for _, m := range markets {
		if !m.IsListed {
			continue
		}

		wg.Add(1)
		go func(market *core.Market) {
			defer wg.Done()

			if err := w.PriceService.UpdatePrice(ctx, market); err != nil {
				log.WithField("market", market.Symbol).WithError(err).Errorln("update price")
			}
		}(m)
	}
	wg.Wait()

	return nil
}
