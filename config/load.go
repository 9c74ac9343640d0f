package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"gopkg.in/yaml.v3"

	"microstructure-lab/infrastructure/logger"
	"microstructure-lab/metrics"
	"microstructure-lab/scenario"
	"microstructure-lab/sim"
	"microstructure-lab/strategy"
)

// 环境变量覆盖项
const (
	EnvScenarioSeed = "MMLAB_SEED"
	EnvSimSeed      = "MMLAB_SIM_SEED"
	EnvLogLevel     = "MMLAB_LOG_LEVEL"
)

// AppConfig 一次回测的完整配置：行情、撮合、策略以及日志与指标。
type AppConfig struct {
	Scenario  scenario.Config `yaml:"scenario" json:"scenario"`
	Simulator sim.Config      `yaml:"simulator" json:"simulator"`
	Strategy  strategy.Config `yaml:"strategy" json:"strategy"`
	Log       logger.Config   `yaml:"log" json:"log"`
	Metrics   metrics.Config  `yaml:"metrics" json:"metrics"`
}

// Default 各模块默认值的组合。
func Default() AppConfig {
	return AppConfig{
		Scenario:  scenario.DefaultConfig(),
		Simulator: sim.DefaultConfig(),
		Strategy:  strategy.DefaultConfig(),
		Log:       logger.DefaultConfig(),
		Metrics:   metrics.DefaultConfig(),
	}
}

// Load 按扩展名解析 YAML 或 JSON；文件中未出现的字段保留默认值。
func Load(path string) (AppConfig, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	// Windows 下保存的配置可能带 UTF-8/UTF-16 BOM
	raw, _, err = transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), raw)
	if err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("parse json: %w", err)
		}
	case ".yaml", ".yml", "":
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("parse yaml: %w", err)
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension %q", filepath.Ext(path))
	}
	if err := Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadWithEnvOverrides loads config then applies MMLAB_* overrides if present.
func LoadWithEnvOverrides(path string) (AppConfig, error) {
	cfg, err := Load(path)
	if err != nil {
		return cfg, err
	}
	if err := ApplyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, Validate(cfg)
}

// ApplyEnv 用环境变量覆盖种子和日志级别。
func ApplyEnv(cfg *AppConfig) error {
	if v := os.Getenv(EnvScenarioSeed); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvScenarioSeed, err)
		}
		cfg.Scenario.Seed = seed
	}
	if v := os.Getenv(EnvSimSeed); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvSimSeed, err)
		}
		cfg.Simulator.RandomSeed = seed
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}
	return nil
}
