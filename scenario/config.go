package scenario

import (
	"errors"
	"fmt"
)

var ErrInvalidConfig = errors.New("invalid scenario config")

// Config 合成行情参数。波动率、漂移均以 bps 表示。
type Config struct {
	Seed     int64   `yaml:"seed" json:"seed"`
	StartMid float64 `yaml:"start_mid" json:"start_mid"`
	TickSize float64 `yaml:"tick_size" json:"tick_size"`
	Steps    int     `yaml:"steps" json:"steps"`

	SigmaBps           float64 `yaml:"sigma_bps" json:"sigma_bps"`                   // calm 状态单步波动
	StressedSigmaBps   float64 `yaml:"stressed_sigma_bps" json:"stressed_sigma_bps"` // 0 表示 calm 的 2 倍
	CalmToStressedProb float64 `yaml:"calm_to_stressed_prob" json:"calm_to_stressed_prob"`
	StressedToCalmProb float64 `yaml:"stressed_to_calm_prob" json:"stressed_to_calm_prob"`

	DriftBps float64 `yaml:"drift_bps" json:"drift_bps"`

	SpreadTicks          int     `yaml:"spread_ticks" json:"spread_ticks"`
	SpreadVolSensitivity float64 `yaml:"spread_vol_sensitivity" json:"spread_vol_sensitivity"` // 每 bps 冲击额外的 tick 数

	DepthMin    float64 `yaml:"depth_min" json:"depth_min"`
	DepthMax    float64 `yaml:"depth_max" json:"depth_max"`
	DepthLevels int     `yaml:"depth_levels" json:"depth_levels"` // 1 = 仅顶档
}

// DefaultConfig 返回默认参数。
func DefaultConfig() Config {
	return Config{
		Seed:                 1,
		StartMid:             100,
		TickSize:             0.5,
		Steps:                1000,
		SigmaBps:             3,
		CalmToStressedProb:   0.02,
		StressedToCalmProb:   0.10,
		SpreadTicks:          2,
		SpreadVolSensitivity: 2.0,
		DepthMin:             1,
		DepthMax:             8,
		DepthLevels:          1,
	}
}

// StressedSigma 返回 stressed 状态的 bps 波动率。
func (c Config) StressedSigma() float64 {
	if c.StressedSigmaBps > 0 {
		return c.StressedSigmaBps
	}
	return c.SigmaBps * 2
}

func (c Config) Validate() error {
	switch {
	case c.StartMid <= 0:
		return fmt.Errorf("%w: start_mid must be > 0", ErrInvalidConfig)
	case c.TickSize <= 0:
		return fmt.Errorf("%w: tick_size must be > 0", ErrInvalidConfig)
	case c.Steps < 0:
		return fmt.Errorf("%w: steps must be >= 0", ErrInvalidConfig)
	case c.SigmaBps < 0 || c.StressedSigmaBps < 0:
		return fmt.Errorf("%w: sigma must be >= 0", ErrInvalidConfig)
	case !isProb(c.CalmToStressedProb) || !isProb(c.StressedToCalmProb):
		return fmt.Errorf("%w: transition probabilities must be in [0,1]", ErrInvalidConfig)
	case c.SpreadTicks < 1:
		return fmt.Errorf("%w: spread_ticks must be >= 1", ErrInvalidConfig)
	case c.SpreadVolSensitivity < 0:
		return fmt.Errorf("%w: spread_vol_sensitivity must be >= 0", ErrInvalidConfig)
	case c.DepthMin < 0 || c.DepthMax < c.DepthMin:
		return fmt.Errorf("%w: need 0 <= depth_min <= depth_max", ErrInvalidConfig)
	case c.DepthLevels < 1:
		return fmt.Errorf("%w: depth_levels must be >= 1", ErrInvalidConfig)
	case c.DepthLevels > 1 && c.DepthMax <= 0:
		// 多档快照会丢弃 size 为 0 的档位
		return fmt.Errorf("%w: depth_max must be > 0 with depth_levels > 1", ErrInvalidConfig)
	}
	return nil
}

func isProb(p float64) bool {
	return p >= 0 && p <= 1
}
