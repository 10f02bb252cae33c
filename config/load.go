package config

import "github.com/fox-one/pkg/config"

// Load load config file
func Load(cfgFile string, cfg *Config) error {
	config.AutomaticLoadEnv("COMPTROLLER")
	if err := config.LoadYaml(cfgFile, cfg); err != nil {
		return err
	}

	defaults(cfg)
	return cfg.validate()
}

func defaults(cfg *Config) {
	if cfg.PriceOracle.MaxAgeSeconds <= 0 {
		cfg.PriceOracle.MaxAgeSeconds = 60
	}

	if cfg.Pool.CloseFactor == "" {
		cfg.Pool.CloseFactor = "0.5"
	}
	if cfg.Pool.LiquidationIncentive == "" {
		cfg.Pool.LiquidationIncentive = "1.1"
	}
	if cfg.Pool.MinLiquidatableCollateral == "" {
		cfg.Pool.MinLiquidatableCollateral = "100"
	}
}
