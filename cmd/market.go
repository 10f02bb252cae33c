package cmd

import (
	"strings"

	"comptroller/core"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var addMarketCmd = &cobra.Command{
	Use:     "add-market",
	Aliases: []string{"am"},
	Short:   "list a new market",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		system := provideSystem(rootCmd.Version)
		adminz := provideAdminService(database, system)

		symbol, e := cmd.Flags().GetString("symbol")
		if e != nil || symbol == "" {
			panic("invalid symbol")
		}
		assetID, e := cmd.Flags().GetString("asset")
		if e != nil || assetID == "" {
			panic("invalid assetID")
		}
		ctokenAssetID, e := cmd.Flags().GetString("ctoken")
		if e != nil || ctokenAssetID == "" {
			panic("invalid ctokenAssetID")
		}
		poolID, _ := cmd.Flags().GetUint64("pool")
		caller := callerFlag(cmd, system)

		market := &core.Market{
			PoolID:        poolID,
			AssetID:       assetID,
			Symbol:        strings.ToUpper(symbol),
			CTokenAssetID: ctokenAssetID,
		}

		if factor, e := cmd.Flags().GetString("cf"); e == nil && factor != "" {
			market.CollateralFactor, _ = decimal.NewFromString(factor)
		}
		if threshold, e := cmd.Flags().GetString("lt"); e == nil && threshold != "" {
			market.LiquidationThreshold, _ = decimal.NewFromString(threshold)
		}

		if err := adminz.ListMarket(ctx, caller, market); err != nil {
			panic(err)
		}

		cmd.Println("market listed:", market.Symbol)
	},
}

var updateMarketCmd = &cobra.Command{
	Use:     "update-market",
	Aliases: []string{"um"},
	Short:   "update market risk parameters",
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
		caller := callerFlag(cmd, system)

		if flag, e := cmd.Flags().GetString("cf"); e == nil && flag != "" {
			cf, _ := decimal.NewFromString(flag)
			if err := adminz.SetCollateralFactor(ctx, caller, assetID, cf); err != nil {
				panic(err)
			}
		}

		if flag, e := cmd.Flags().GetString("lt"); e == nil && flag != "" {
			lt, _ := decimal.NewFromString(flag)
			if err := adminz.SetLiquidationThreshold(ctx, caller, assetID, lt); err != nil {
				panic(err)
			}
		}

		if flag, e := cmd.Flags().GetString("supply-cap"); e == nil && flag != "" {
			cap, _ := decimal.NewFromString(flag)
			if err := adminz.SetSupplyCap(ctx, caller, assetID, cap); err != nil {
				panic(err)
			}
		}

		if flag, e := cmd.Flags().GetString("borrow-cap"); e == nil && flag != "" {
			cap, _ := decimal.NewFromString(flag)
			if err := adminz.SetBorrowCap(ctx, caller, assetID, cap); err != nil {
				panic(err)
			}
		}

		cmd.Println("market updated:", assetID)
	},
}

var pauseMarketCmd = &cobra.Command{
	Use:   "pause-market",
	Short: "pause or resume one action on a market",
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
		action, e := cmd.Flags().GetString("action")
		if e != nil || !core.ValidActionKind(action) {
			panic("invalid action")
		}
		resume, _ := cmd.Flags().GetBool("resume")
		caller := callerFlag(cmd, system)

		if err := adminz.SetActionPaused(ctx, caller, assetID, core.ActionKind(action), !resume); err != nil {
			panic(err)
		}
	},
}

func callerFlag(cmd *cobra.Command, system *core.System) string {
	caller, _ := cmd.Flags().GetString("caller")
	if caller == "" && len(system.Admins) > 0 {
		caller = system.Admins[0]
	}
	return caller
}

func init() {
	rootCmd.AddCommand(addMarketCmd)
	rootCmd.AddCommand(updateMarketCmd)
	rootCmd.AddCommand(pauseMarketCmd)

	for _, cmd := range []*cobra.Command{addMarketCmd, updateMarketCmd, pauseMarketCmd} {
		cmd.Flags().String("caller", "", "caller user id, default is the first admin")
		cmd.Flags().String("asset", "", "asset id")
	}

	addMarketCmd.Flags().String("symbol", "", "market symbol")
	addMarketCmd.Flags().String("ctoken", "", "ctoken asset id")
	addMarketCmd.Flags().Uint64("pool", 1, "pool id")
	addMarketCmd.Flags().String("cf", "", "collateral factor")
	addMarketCmd.Flags().String("lt", "", "liquidation threshold")

	updateMarketCmd.Flags().String("cf", "", "collateral factor")
	updateMarketCmd.Flags().String("lt", "", "liquidation threshold")
	updateMarketCmd.Flags().String("supply-cap", "", "supply cap, 0 for unlimited")
	updateMarketCmd.Flags().String("borrow-cap", "", "borrow cap, 0 for unlimited")

	pauseMarketCmd.Flags().String("action", "", "action to pause")
	pauseMarketCmd.Flags().Bool("resume", false, "resume instead of pause")
}
