package main

import (
	"flag"
	"log"
	"os"

	"microstructure-lab/infrastructure/logger"
	"microstructure-lab/report"
	"microstructure-lab/scenario"
	"microstructure-lab/sim"
	"microstructure-lab/strategy"
)

// 不读配置文件的快速回测：默认行情 + 指定策略，参数全部来自命令行。
func main() {
	steps := flag.Int("steps", 1000, "模拟步数")
	seed := flag.Int64("seed", 1, "行情随机种子")
	simSeed := flag.Int64("simSeed", 42, "撮合随机种子")
	sigma := flag.Float64("sigma", 3, "calm 状态单步波动（bps）")
	depth := flag.Int("depth", 1, "盘口档位数，1 为仅顶档")
	strat := flag.String("strategy", string(strategy.TypeInventorySkew), "inventory_skew | do_nothing | momentum | twap")
	maxInv := flag.Float64("maxInventory", 10, "仓位上限")
	horizon := flag.Int("horizon", 5, "逆向选择观察步数，0 关闭")
	verbose := flag.Bool("v", false, "输出逐笔成交日志")
	flag.Parse()

	logCfg := logger.DefaultConfig()
	if *verbose {
		logCfg.Level = "debug"
	}
	lg, err := logger.New(logCfg)
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer lg.Close()

	scCfg := scenario.DefaultConfig()
	scCfg.Steps = *steps
	scCfg.Seed = *seed
	scCfg.SigmaBps = *sigma
	scCfg.DepthLevels = *depth
	gen, err := scenario.NewGenerator(scCfg)
	if err != nil {
		log.Fatalf("行情参数错误: %v", err)
	}

	typ, err := strategy.ParseType(*strat)
	if err != nil {
		log.Fatalf("策略类型错误: %v", err)
	}
	stCfg := strategy.DefaultConfig()
	stCfg.Type = typ
	st, err := strategy.New(stCfg)
	if err != nil {
		log.Fatalf("策略参数错误: %v", err)
	}

	simCfg := sim.DefaultConfig()
	simCfg.TickSize = scCfg.TickSize
	simCfg.RandomSeed = *simSeed
	simCfg.MaxInventory = *maxInv
	simCfg.AdverseSelectionHorizon = *horizon
	s, err := sim.New(simCfg, sim.Components{Logger: lg})
	if err != nil {
		log.Fatalf("撮合参数错误: %v", err)
	}

	res, err := s.Run(gen, st)
	if err != nil {
		log.Fatalf("回测失败: %v", err)
	}
	if err := report.WriteSummary(os.Stdout, res.Summary); err != nil {
		log.Fatalf("输出汇总失败: %v", err)
	}
}
