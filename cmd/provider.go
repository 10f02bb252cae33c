package cmd

import (
	"time"

	"comptroller/core"

	"github.com/fox-one/pkg/store/db"
)

func provideDatabase() *db.DB {
	return db.MustOpen(cfg.DB)
}

func provideSystem(ver string) *core.System {
	return &core.System{
		Admins:  cfg.Admins,
		Genesis: cfg.App.Genesis,
		Version: ver,
	}
}

func providePriceMaxAge() time.Duration {
	return time.Duration(cfg.PriceOracle.MaxAgeSeconds) * time.Second
}
