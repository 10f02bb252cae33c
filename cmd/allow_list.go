package cmd

import (
	"github.com/spf13/cobra"
)

var grantCmd = &cobra.Command{
	Use:   "grant",
	Short: "grant admin scopes to a user",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		system := provideSystem(rootCmd.Version)
		accessz := provideAccessService(database, system)

		userID, e := cmd.Flags().GetString("user")
		if e != nil || userID == "" {
			panic("invalid user")
		}
		scopes, _ := cmd.Flags().GetStringSlice("scopes")
		if len(scopes) == 0 {
			panic("no scopes")
		}

		if err := accessz.Grant(ctx, userID, scopes); err != nil {
			panic(err)
		}

		cmd.Println("granted", scopes, "to", userID)
	},
}

var revokeCmd = &cobra.Command{
	Use:   "revoke",
	Short: "revoke all admin scopes from a user",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		system := provideSystem(rootCmd.Version)
		accessz := provideAccessService(database, system)

		userID, e := cmd.Flags().GetString("user")
		if e != nil || userID == "" {
			panic("invalid user")
		}

		if err := accessz.Revoke(ctx, userID); err != nil {
			panic(err)
		}

		cmd.Println("revoked all scopes from", userID)
	},
}

func init() {
	rootCmd.AddCommand(grantCmd)
	rootCmd.AddCommand(revokeCmd)

	grantCmd.Flags().String("user", "", "user id")
	grantCmd.Flags().StringSlice("scopes", nil, "scopes to grant")
	revokeCmd.Flags().String("user", "", "user id")
}
