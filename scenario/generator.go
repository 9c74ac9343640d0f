package scenario

import (
	"math"
	"math/rand"

	"microstructure-lab/market"
)

// SizeGrowth 多档模式下每远离一档 size 放大的倍数。
const SizeGrowth = 1.5

// Generator 生成带波动率状态切换的 GBM 合成行情。
// 惰性逐步产生事件；同一 seed 与参数得到相同序列。不可中途重启，重跑需新建实例。
type Generator struct {
	cfg    Config
	rng    *rand.Rand
	step   int
	mid    float64
	regime market.Regime
}

func NewGenerator(cfg Config) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Generator{
		cfg:    cfg,
		rng:    rand.New(rand.NewSource(cfg.Seed)),
		mid:    cfg.StartMid,
		regime: market.RegimeCalm,
	}, nil
}

// Next 产生下一个事件。每步随机数消耗顺序固定：
// 状态切换 -> 价格冲击 -> 深度。
func (g *Generator) Next() (Event, bool) {
	if g.step >= g.cfg.Steps {
		return Event{}, false
	}
	cfg := g.cfg

	// 1. 状态切换
	switchProb := cfg.CalmToStressedProb
	if g.regime.IsStressed() {
		switchProb = cfg.StressedToCalmProb
	}
	if g.rng.Float64() < switchProb {
		g.regime = g.regime.Other()
	}
	sigmaBps := cfg.SigmaBps
	if g.regime.IsStressed() {
		sigmaBps = cfg.StressedSigma()
	}

	// 2. GBM 价格更新，最低一个 tick
	drift := cfg.DriftBps / 10000.0
	shock := g.rng.NormFloat64() * (sigmaBps / 10000.0)
	g.mid = math.Max(cfg.TickSize, g.mid*(1+drift+shock))

	// 3. 价差随冲击幅度线性放宽
	base := float64(cfg.SpreadTicks)
	shockBps := math.Abs(shock) * 10000.0
	spreadTicks := math.Max(base, base+cfg.SpreadVolSensitivity*shockBps)
	half := spreadTicks / 2 * cfg.TickSize
	bestBid := g.mid - half
	bestAsk := g.mid + half

	ev := Event{
		Step:       g.step,
		Mid:        g.mid,
		BestBid:    bestBid,
		BestAsk:    bestAsk,
		Volatility: sigmaBps / 10000.0 * g.mid,
		Regime:     g.regime,
	}

	// 4. 深度
	if cfg.DepthLevels <= 1 {
		ev.BidSize = g.uniform(cfg.DepthMin, cfg.DepthMax)
		ev.AskSize = g.uniform(cfg.DepthMin, cfg.DepthMax)
	} else {
		ev.BidLevels, ev.AskLevels = g.buildDepth(bestBid, bestAsk, cfg.DepthLevels)
	}

	g.step++
	return ev, true
}

// Events 读出全部剩余事件。
func (g *Generator) Events() []Event {
	return Drain(g)
}

func (g *Generator) buildDepth(bestBid, bestAsk float64, n int) (bids, asks []market.Level) {
	bids = make([]market.Level, 0, n)
	asks = make([]market.Level, 0, n)
	for i := 0; i < n; i++ {
		size := g.uniform(g.cfg.DepthMin, g.cfg.DepthMax) * math.Pow(SizeGrowth, float64(i))
		offset := float64(i) * g.cfg.TickSize
		bids = append(bids, market.Level{Price: bestBid - offset, Size: size})
		asks = append(asks, market.Level{Price: bestAsk + offset, Size: size})
	}
	return bids, asks
}

func (g *Generator) uniform(lo, hi float64) float64 {
	return lo + (hi-lo)*g.rng.Float64()
}
