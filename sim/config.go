package sim

import (
	"fmt"
	"math"

	"go.uber.org/multierr"
)

// Config 撮合模型参数。手续费以 bps 表示，maker 为负即返佣。
type Config struct {
	TickSize            float64 `yaml:"tick_size" json:"tick_size"`
	MakerFeeBps         float64 `yaml:"maker_fee_bps" json:"maker_fee_bps"`
	TakerFeeBps         float64 `yaml:"taker_fee_bps" json:"taker_fee_bps"`
	AggressiveCrossProb float64 `yaml:"aggressive_cross_prob" json:"aggressive_cross_prob"` // 穿价报价的基础成交概率，按波动率放大
	PassiveFillProbBase float64 `yaml:"passive_fill_prob_base" json:"passive_fill_prob_base"`
	MaxInventory        float64 `yaml:"max_inventory" json:"max_inventory"` // 0 表示只能保持空仓
	PeriodsPerYear      float64 `yaml:"periods_per_year" json:"periods_per_year"`
	RandomSeed          int64   `yaml:"random_seed" json:"random_seed"`
	// 向后看多少步计算逆向选择，0 表示关闭
	AdverseSelectionHorizon int `yaml:"adverse_selection_horizon" json:"adverse_selection_horizon"`
}

// DefaultConfig 分钟级步长的默认参数。
func DefaultConfig() Config {
	return Config{
		TickSize:                0.5,
		MakerFeeBps:             -0.5,
		TakerFeeBps:             2.0,
		AggressiveCrossProb:     0.03,
		PassiveFillProbBase:     0.08,
		MaxInventory:            10,
		PeriodsPerYear:          365 * 24 * 60,
		RandomSeed:              42,
		AdverseSelectionHorizon: 5,
	}
}

// Validate 汇总所有非法字段。
func (c Config) Validate() error {
	var err error
	if !(c.TickSize > 0) || math.IsInf(c.TickSize, 0) {
		err = multierr.Append(err, fmt.Errorf("%w: tick_size must be > 0, got %v", ErrInvalidConfig, c.TickSize))
	}
	if !finite(c.MakerFeeBps) || !finite(c.TakerFeeBps) {
		err = multierr.Append(err, fmt.Errorf("%w: fees must be finite", ErrInvalidConfig))
	}
	if !isProb(c.AggressiveCrossProb) {
		err = multierr.Append(err, fmt.Errorf("%w: aggressive_cross_prob %v outside [0,1]", ErrInvalidConfig, c.AggressiveCrossProb))
	}
	if !isProb(c.PassiveFillProbBase) {
		err = multierr.Append(err, fmt.Errorf("%w: passive_fill_prob_base %v outside [0,1]", ErrInvalidConfig, c.PassiveFillProbBase))
	}
	if c.MaxInventory < 0 || math.IsNaN(c.MaxInventory) {
		err = multierr.Append(err, fmt.Errorf("%w: max_inventory must be >= 0", ErrInvalidConfig))
	}
	if c.PeriodsPerYear < 0 || !finite(c.PeriodsPerYear) {
		err = multierr.Append(err, fmt.Errorf("%w: periods_per_year must be >= 0", ErrInvalidConfig))
	}
	if c.AdverseSelectionHorizon < 0 {
		err = multierr.Append(err, fmt.Errorf("%w: adverse_selection_horizon must be >= 0", ErrInvalidConfig))
	}
	return err
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func isProb(p float64) bool { return p >= 0 && p <= 1 }
