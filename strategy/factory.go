package strategy

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownType   = errors.New("unknown strategy type")
	ErrInvalidConfig = errors.New("invalid strategy config")
)

// Type 可选策略的封闭集合。
type Type string

const (
	TypeInventorySkew Type = "inventory_skew"
	TypeDoNothing     Type = "do_nothing"
	TypeMomentum      Type = "momentum"
	TypeTWAP          Type = "twap"
)

var typeAliases = map[string]Type{
	"inventory_skew":    TypeInventorySkew,
	"inventoryskewmm":   TypeInventorySkew,
	"do_nothing":        TypeDoNothing,
	"donothingstrategy": TypeDoNothing,
	"momentum":          TypeMomentum,
	"momentumstrategy":  TypeMomentum,
	"twap":              TypeTWAP,
	"twapstrategy":      TypeTWAP,
}

// ParseType 解析策略类型，兼容旧配置中的类名写法。
func ParseType(s string) (Type, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if key == "" {
		return TypeInventorySkew, nil
	}
	if t, ok := typeAliases[key]; ok {
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownType, s)
}

func (t Type) String() string { return string(t) }

func (t Type) MarshalText() ([]byte, error) { return []byte(t), nil }

func (t *Type) UnmarshalText(b []byte) error {
	parsed, err := ParseType(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Config 策略参数，未使用的字段被对应策略忽略。
type Config struct {
	Type Type `yaml:"type" json:"type"`

	HalfSpreadBps float64 `yaml:"half_spread_bps" json:"half_spread_bps"`
	InvPenaltyBps float64 `yaml:"inv_penalty_bps" json:"inv_penalty_bps"`
	QuoteSize     float64 `yaml:"quote_size" json:"quote_size"`

	Window            int     `yaml:"window" json:"window"`
	EntryThresholdBps float64 `yaml:"entry_threshold_bps" json:"entry_threshold_bps"`

	TargetInventory float64 `yaml:"target_inventory" json:"target_inventory"`
	TotalSteps      int     `yaml:"total_steps" json:"total_steps"`
}

// DefaultConfig 返回默认的库存偏移做市配置。
func DefaultConfig() Config {
	return Config{
		Type:              TypeInventorySkew,
		HalfSpreadBps:     3.0,
		InvPenaltyBps:     0.8,
		QuoteSize:         1.0,
		Window:            20,
		EntryThresholdBps: 1.0,
		TargetInventory:   10,
		TotalSteps:        200,
	}
}

// New 根据枚举类型构造策略实例。
func New(cfg Config) (Strategy, error) {
	if cfg.QuoteSize < 0 {
		return nil, fmt.Errorf("%w: quote_size must be >= 0", ErrInvalidConfig)
	}
	switch cfg.Type {
	case TypeInventorySkew, "":
		if cfg.HalfSpreadBps < 0 || cfg.InvPenaltyBps < 0 {
			return nil, fmt.Errorf("%w: spread/penalty must be >= 0", ErrInvalidConfig)
		}
		return &InventorySkewMM{
			HalfSpreadBps: cfg.HalfSpreadBps,
			InvPenaltyBps: cfg.InvPenaltyBps,
			QuoteSize:     cfg.QuoteSize,
		}, nil
	case TypeDoNothing:
		return DoNothing{}, nil
	case TypeMomentum:
		if cfg.Window < 2 {
			return nil, fmt.Errorf("%w: window must be >= 2", ErrInvalidConfig)
		}
		return NewMomentum(cfg.Window, cfg.EntryThresholdBps, cfg.QuoteSize), nil
	case TypeTWAP:
		if cfg.TotalSteps < 0 {
			return nil, fmt.Errorf("%w: total_steps must be >= 0", ErrInvalidConfig)
		}
		return &TWAP{
			TargetInventory: cfg.TargetInventory,
			TotalSteps:      cfg.TotalSteps,
			QuoteSize:       cfg.QuoteSize,
		}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownType, string(cfg.Type))
}
