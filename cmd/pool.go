package cmd

import (
	"comptroller/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var addPoolCmd = &cobra.Command{
	Use:   "add-pool",
	Short: "create a pool with the configured defaults",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		closeFactor, _ := decimal.NewFromString(cfg.Pool.CloseFactor)
		incentive, _ := decimal.NewFromString(cfg.Pool.LiquidationIncentive)
		floor, _ := decimal.NewFromString(cfg.Pool.MinLiquidatableCollateral)

		pool := &core.Pool{
			CloseFactor:               closeFactor,
			LiquidationIncentive:      incentive,
			MinLiquidatableCollateral: floor,
			SchemaVersion:             1,
			OracleEndpoint:            cfg.PriceOracle.EndPoint,
		}

		poolStore := providePoolStore(database)
		if err := database.Tx(func(tx *db.DB) error {
			return poolStore.Save(ctx, tx, pool)
		}); err != nil {
			panic(err)
		}

		cmd.Println("pool created:", pool.ID)
	},
}

var updatePoolCmd = &cobra.Command{
	Use:   "update-pool",
	Short: "update pool risk parameters",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		system := provideSystem(rootCmd.Version)
		adminz := provideAdminService(database, system)

		poolID, _ := cmd.Flags().GetUint64("pool")
		caller := callerFlag(cmd, system)

		if flag, e := cmd.Flags().GetString("close-factor"); e == nil && flag != "" {
			factor, _ := decimal.NewFromString(flag)
			if err := adminz.SetCloseFactor(ctx, caller, poolID, factor); err != nil {
				panic(err)
			}
		}

		if flag, e := cmd.Flags().GetString("incentive"); e == nil && flag != "" {
			incentive, _ := decimal.NewFromString(flag)
			if err := adminz.SetLiquidationIncentive(ctx, caller, poolID, incentive); err != nil {
				panic(err)
			}
		}

		if flag, e := cmd.Flags().GetString("floor"); e == nil && flag != "" {
			floor, _ := decimal.NewFromString(flag)
			if err := adminz.SetMinLiquidatableCollateral(ctx, caller, poolID, floor); err != nil {
				panic(err)
			}
		}

		if flag, e := cmd.Flags().GetString("oracle"); e == nil && flag != "" {
			if err := adminz.SetPriceOracle(ctx, caller, poolID, flag); err != nil {
				panic(err)
			}
		}

		cmd.Println("pool updated:", poolID)
	},
}

var resolveBadDebtCmd = &cobra.Command{
	Use:   "resolve-bad-debt",
	Short: "write off bad debt recovered by external auction",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		system := provideSystem(rootCmd.Version)
		adminz := provideAdminService(database, system)

		assetID, e := cmd.Flags().GetString("asset")
		if e != nil || assetID == "" {
			panic("invalid assetID")
		}
		flag, e := cmd.Flags().GetString("amount")
		if e != nil || flag == "" {
			panic("invalid amount")
		}
		amount, _ := decimal.NewFromString(flag)

		if err := adminz.ResolveBadDebt(ctx, callerFlag(cmd, system), assetID, amount); err != nil {
			panic(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(addPoolCmd)
	rootCmd.AddCommand(updatePoolCmd)
	rootCmd.AddCommand(resolveBadDebtCmd)

	updatePoolCmd.Flags().String("caller", "", "caller user id, default is the first admin")
	updatePoolCmd.Flags().Uint64("pool", 1, "pool id")
	updatePoolCmd.Flags().String("close-factor", "", "close factor (0.05, 0.9]")
	updatePoolCmd.Flags().String("incentive", "", "liquidation incentive [1, 1.5]")
	updatePoolCmd.Flags().String("floor", "", "min liquidatable collateral in usd")
	updatePoolCmd.Flags().String("oracle", "", "price oracle endpoint")

	resolveBadDebtCmd.Flags().String("caller", "", "caller user id, default is the first admin")
	resolveBadDebtCmd.Flags().String("asset", "", "asset id")
	resolveBadDebtCmd.Flags().String("amount", "", "amount to write off")
}
