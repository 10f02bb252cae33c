package cmd

import (
	"comptroller/core"
	"comptroller/service/access"
	"comptroller/service/admin"
	"comptroller/service/block"
	"comptroller/service/flywheel"
	"comptroller/service/gate"
	"comptroller/service/liquidation"
	oracle "comptroller/service/oracle"
	"comptroller/service/snapshot"
	"comptroller/service/token"

	"github.com/fox-one/pkg/store/db"
)

func provideTokenService() core.MarketToken {
	return token.New(cfg.Token.EndPoint)
}

func provideBlockService() core.IBlockService {
	return block.New(cfg.App.Genesis)
}

func providePriceService() core.IPriceOracleService {
	return oracle.New(cfg.PriceOracle.EndPoint, providePriceMaxAge())
}

func provideSnapshotService(marketStore core.IMarketStore, membershipStore core.IMembershipStore) core.ISnapshotService {
	return snapshot.New(marketStore, membershipStore, provideTokenService(), providePriceService())
}

func provideFlywheelService(database *db.DB) core.IFlywheelService {
	return flywheel.New(database, provideRewardStore(database), provideTokenService(), provideBlockService())
}

func provideGateService(database *db.DB) core.IGateService {
	marketStore := provideMarketStore(database)
	membershipStore := provideMembershipStore(database)

	return gate.New(
		database,
		marketStore,
		membershipStore,
		providePoolStore(database),
		provideTokenService(),
		providePriceService(),
		provideSnapshotService(marketStore, membershipStore),
		provideFlywheelService(database),
		provideEventStore(database),
	)
}

func provideLiquidationService(database *db.DB) core.ILiquidationService {
	marketStore := provideMarketStore(database)
	membershipStore := provideMembershipStore(database)

	return liquidation.New(
		database,
		marketStore,
		membershipStore,
		providePoolStore(database),
		provideTokenService(),
		provideSnapshotService(marketStore, membershipStore),
		provideGateService(database),
		provideEventStore(database),
	)
}

func provideAccessService(database *db.DB, system *core.System) core.IAccessService {
	return access.New(database, system, provideAllowListStore(database))
}

func provideAdminService(database *db.DB, system *core.System) core.IAdminService {
	return admin.New(
		database,
		provideAccessService(database, system),
		provideMarketStore(database),
		providePoolStore(database),
		providePriceService(),
		provideFlywheelService(database),
		provideEventStore(database),
	)
}
