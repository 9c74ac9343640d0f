package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"microstructure-lab/config"
	"microstructure-lab/infrastructure/logger"
	"microstructure-lab/metrics"
	"microstructure-lab/report"
	"microstructure-lab/scenario"
	"microstructure-lab/sim"
	"microstructure-lab/strategy"
)

// 配置驱动的回测：生成行情、运行策略、打印汇总并可导出结果文档。
// 用法：
//
//	go run ./cmd/backtest -config configs/backtest.yaml -output run.json
//	go run ./cmd/backtest -config configs/backtest.yaml -watch -metricsAddr :9100
func main() {
	cfgPath := flag.String("config", "configs/backtest.yaml", "配置文件路径（.yaml/.yml/.json）")
	outPath := flag.String("output", "", "若指定则写入 JSON 结果文档")
	watch := flag.Bool("watch", false, "配置文件变更后自动重新回测")
	metricsAddr := flag.String("metricsAddr", "", "Prometheus /metrics 监听地址，例如 :9100")
	flag.Parse()

	cfg, err := config.LoadWithEnvOverrides(*cfgPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}
	if *metricsAddr != "" {
		cfg.Metrics.Addr = *metricsAddr
	}

	lg, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer lg.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var rec *metrics.Recorder
	if cfg.Metrics.Addr != "" {
		rec = metrics.NewRecorder(cfg.Metrics)
		go func() {
			if err := rec.Serve(ctx, cfg.Metrics.Addr); err != nil {
				lg.LogError(err, map[string]interface{}{"addr": cfg.Metrics.Addr})
			}
		}()
	}

	if err := runOnce(cfg, lg, rec, *outPath); err != nil {
		log.Fatalf("回测失败: %v", err)
	}
	if !*watch && rec == nil {
		return
	}

	if *watch {
		w := config.Watcher{
			Path: *cfgPath,
			OnError: func(err error) {
				lg.LogError(err, map[string]interface{}{"config": *cfgPath})
			},
		}
		lg.LogRun("watching", map[string]interface{}{"config": *cfgPath})
		err = w.Start(ctx, func(next config.AppConfig) {
			next.Metrics = cfg.Metrics
			if err := runOnce(next, lg, rec, *outPath); err != nil {
				lg.LogError(err, map[string]interface{}{"config": *cfgPath})
			}
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Fatalf("监听配置失败: %v", err)
		}
		return
	}
	// 只开了 metrics：保持进程直到收到信号
	<-ctx.Done()
}

func runOnce(cfg config.AppConfig, lg *logger.Logger, rec *metrics.Recorder, outPath string) error {
	gen, err := scenario.NewGenerator(cfg.Scenario)
	if err != nil {
		return err
	}
	strat, err := strategy.New(cfg.Strategy)
	if err != nil {
		return err
	}
	runLog := lg.WithFields(map[string]interface{}{
		"strategy":      string(cfg.Strategy.Type),
		"scenario_seed": cfg.Scenario.Seed,
		"sim_seed":      cfg.Simulator.RandomSeed,
	})
	comps := sim.Components{Logger: runLog}
	if rec != nil {
		// 每次回测从零开始计数，watch 重跑不累加
		rec.Reset()
		comps.Observer = rec
	}
	s, err := sim.New(cfg.Simulator, comps)
	if err != nil {
		return err
	}
	res, err := s.Run(gen, strat)
	if err != nil {
		return err
	}

	fmt.Printf("strategy=%s steps=%d seed=%d\n", cfg.Strategy.Type, res.Steps(), cfg.Scenario.Seed)
	if err := report.WriteSummary(os.Stdout, res.Summary); err != nil {
		return err
	}
	if outPath == "" {
		return nil
	}
	doc := report.New(res, cfg)
	if err := doc.WriteFile(outPath); err != nil {
		return err
	}
	runLog.LogRun("exported", map[string]interface{}{"path": outPath, "run_id": doc.RunID})
	return nil
}
