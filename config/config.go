package config

import (
	"errors"

	"github.com/fox-one/pkg/store/db"
)

// Config comptroller config
type Config struct {
	App         App         `json:"app"`
	DB          db.Config   `json:"db"`
	PriceOracle PriceOracle `json:"price_oracle"`
	Token       Token       `json:"token"`
	Pool        Pool        `json:"pool"`
	Admins      []string    `json:"admins"`
}

// App app config
type App struct {
	Genesis int64 `json:"genesis"`
}

// Token share-accounting ledger config
type Token struct {
	EndPoint string `json:"end_point"`
}

// PriceOracle price oracle config
type PriceOracle struct {
	EndPoint string `json:"end_point"`
	// MaxAgeSeconds prices older than this are rejected as stale
	MaxAgeSeconds int64 `json:"max_age_seconds"`
}

// Pool default pool parameters applied on first migration
type Pool struct {
	CloseFactor               string `json:"close_factor"`
	LiquidationIncentive      string `json:"liquidation_incentive"`
	MinLiquidatableCollateral string `json:"min_liquidatable_collateral"`
}

func (c *Config) validate() error {
	if c.App.Genesis <= 0 {
		return errors.New("config: app.genesis is required")
	}
	if c.PriceOracle.EndPoint == "" {
		return errors.New("config: price_oracle.end_point is required")
	}
	if c.Token.EndPoint == "" {
		return errors.New("config: token.end_point is required")
	}
	return nil
}
