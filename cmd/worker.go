package cmd

import (
	"sync"

	"comptroller/worker"
	"comptroller/worker/priceoracle"
	"comptroller/worker/sentinel"

	"github.com/fox-one/pkg/logger"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "comptroller job worker",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		log := logger.FromContext(ctx)
		ctx = logger.WithContext(ctx, log)

		database := provideDatabase()
		defer database.Close()

		marketStore := provideMarketStore(database)
		membershipStore := provideMembershipStore(database)

		workers := []worker.Worker{
			priceoracle.New(marketStore, providePriceService()),
			sentinel.New(
				membershipStore,
				marketStore,
				providePoolStore(database),
				provideSnapshotService(marketStore, membershipStore),
			),
		}

		wg := sync.WaitGroup{}
		for _, w := range workers {
			wg.Add(1)

			go func(worker worker.Worker) {
				defer wg.Done()
				worker.Run(ctx)
			}(w)
		}

		wg.Wait()
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
}
