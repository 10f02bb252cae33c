package cmd

import (
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var addDistributorCmd = &cobra.Command{
	Use:     "add-distributor",
	Aliases: []string{"ad"},
	Short:   "register a reward distributor on a market",
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
		distributor, e := cmd.Flags().GetString("distributor")
		if e != nil || distributor == "" {
			panic("invalid distributor")
		}
		caller := callerFlag(cmd, system)

		if err := adminz.AddDistributor(ctx, caller, assetID, distributor); err != nil {
			panic(err)
		}

		cmd.Println("distributor added:", distributor)
	},
}

var updateRewardsCmd = &cobra.Command{
	Use:     "update-rewards",
	Aliases: []string{"ur"},
	Short:   "update reward speeds or the rewarding cutoff block",
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
		distributor, e := cmd.Flags().GetString("distributor")
		if e != nil || distributor == "" {
			panic("invalid distributor")
		}
		caller := callerFlag(cmd, system)

		supply, _ := cmd.Flags().GetString("supply-speed")
		borrow, _ := cmd.Flags().GetString("borrow-speed")
		if supply != "" || borrow != "" {
			supplySpeed, _ := decimal.NewFromString(supply)
			borrowSpeed, _ := decimal.NewFromString(borrow)
			if err := adminz.SetRewardSpeeds(ctx, caller, assetID, distributor, supplySpeed, borrowSpeed); err != nil {
				panic(err)
			}
		}

		if cutoff, e := cmd.Flags().GetInt64("cutoff"); e == nil && cutoff > 0 {
			if err := adminz.SetLastRewardingBlock(ctx, caller, assetID, distributor, cutoff); err != nil {
				panic(err)
			}
		}

		cmd.Println("rewards updated:", assetID)
	},
}

func init() {
	rootCmd.AddCommand(addDistributorCmd)
	rootCmd.AddCommand(updateRewardsCmd)

	for _, cmd := range []*cobra.Command{addDistributorCmd, updateRewardsCmd} {
		cmd.Flags().String("caller", "", "caller user id, default is the first admin")
		cmd.Flags().String("asset", "", "asset id")
		cmd.Flags().String("distributor", "", "distributor asset id")
	}

	updateRewardsCmd.Flags().String("supply-speed", "", "reward per block for suppliers")
	updateRewardsCmd.Flags().String("borrow-speed", "", "reward per block for borrowers")
	updateRewardsCmd.Flags().Int64("cutoff", 0, "last rewarding block, 0 to leave unset")
}
