package config

import (
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap/zapcore"

	"microstructure-lab/strategy"
)

// Validate 一次性报告所有非法字段，而不是遇到第一个就返回。
func Validate(cfg AppConfig) error {
	var err error
	if e := cfg.Scenario.Validate(); e != nil {
		err = multierr.Append(err, fmt.Errorf("scenario: %w", e))
	}
	if e := cfg.Simulator.Validate(); e != nil {
		for _, one := range multierr.Errors(e) {
			err = multierr.Append(err, fmt.Errorf("simulator: %w", one))
		}
	}
	if _, e := strategy.New(cfg.Strategy); e != nil {
		err = multierr.Append(err, fmt.Errorf("strategy: %w", e))
	}
	if _, e := zapcore.ParseLevel(cfg.Log.Level); e != nil {
		err = multierr.Append(err, fmt.Errorf("log.level: %w", e))
	}
	if cfg.Scenario.TickSize != cfg.Simulator.TickSize {
		err = multierr.Append(err, fmt.Errorf("scenario.tick_size %v != simulator.tick_size %v",
			cfg.Scenario.TickSize, cfg.Simulator.TickSize))
	}
	return err
}
