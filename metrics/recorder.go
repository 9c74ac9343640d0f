// Package metrics exposes a simulation run as Prometheus metrics.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"microstructure-lab/market"
	"microstructure-lab/order"
)

// Config 指标命名配置
type Config struct {
	Namespace string `yaml:"namespace" json:"namespace"`
	Subsystem string `yaml:"subsystem" json:"subsystem"`
	Addr      string `yaml:"addr" json:"addr"`
}

// DefaultConfig 返回默认配置（Addr 为空表示不启动 HTTP 服务）
func DefaultConfig() Config {
	return Config{
		Namespace: "mmlab",
		Subsystem: "sim",
	}
}

// Recorder 使用独立 registry 记录一次回测的逐步状态与成交。
// Reset 为下一次回测换上全新的 registry，/metrics 始终只反映最近一次回测。
type Recorder struct {
	cfg Config

	mu sync.RWMutex
	m  *runMetrics
}

type runMetrics struct {
	registry *prometheus.Registry

	pnl       prometheus.Gauge
	inventory prometheus.Gauge
	mid       prometheus.Gauge
	spread    prometheus.Gauge
	feesPaid  prometheus.Gauge
	steps     prometheus.Counter

	fills      *prometheus.CounterVec
	fillVolume *prometheus.CounterVec
}

// NewRecorder 创建 Recorder
func NewRecorder(cfg Config) *Recorder {
	return &Recorder{cfg: cfg, m: newRunMetrics(cfg)}
}

func newRunMetrics(cfg Config) *runMetrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	gauge := func(name, help string) prometheus.Gauge {
		return factory.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      name,
			Help:      help,
		})
	}

	return &runMetrics{
		registry:  reg,
		pnl:       gauge("pnl", "按 mid 估值的累计盈亏"),
		inventory: gauge("inventory", "当前净仓位"),
		mid:       gauge("mid", "当前中间价"),
		spread:    gauge("spread", "当前买卖价差"),
		feesPaid:  gauge("fees_paid", "累计手续费（负数为返佣）"),
		steps: factory.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "steps_total",
			Help:      "已处理的行情步数",
		}),
		fills: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "fills_total",
			Help:      "成交笔数",
		}, []string{"side", "liquidity"}),
		fillVolume: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "fill_volume_total",
			Help:      "累计成交量",
		}, []string{"side"}),
	}
}

// Reset 丢弃之前所有回测的指标
func (r *Recorder) Reset() {
	m := newRunMetrics(r.cfg)
	r.mu.Lock()
	r.m = m
	r.mu.Unlock()
}

func (r *Recorder) current() *runMetrics {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.m
}

// ObserveStep 每步结束时由模拟器调用。
func (r *Recorder) ObserveStep(state market.State, inventory, pnl, feesPaid float64) {
	m := r.current()
	m.steps.Inc()
	m.mid.Set(state.Mid)
	m.spread.Set(state.Spread)
	m.inventory.Set(inventory)
	m.pnl.Set(pnl)
	m.feesPaid.Set(feesPaid)
}

// ObserveFill 每笔成交记账后调用。
func (r *Recorder) ObserveFill(f order.Fill) {
	liq := string(f.Liquidity)
	if liq == "" {
		liq = "unknown"
	}
	m := r.current()
	m.fills.WithLabelValues(string(f.Side), liq).Inc()
	if f.Size > 0 {
		m.fillVolume.WithLabelValues(string(f.Side)).Add(f.Size)
	}
}

// Handler 返回 /metrics 处理器，每次请求读取当前 registry
func (r *Recorder) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		promhttp.HandlerFor(r.current().registry, promhttp.HandlerOpts{}).ServeHTTP(w, req)
	})
}

// Serve 在 addr 上暴露 /metrics，ctx 取消时关闭服务。
func (r *Recorder) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", r.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	}
}
