package sim

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"microstructure-lab/analytics"
	"microstructure-lab/infrastructure/logger"
	"microstructure-lab/inventory"
	"microstructure-lab/market"
	"microstructure-lab/order"
	"microstructure-lab/posttrade"
	"microstructure-lab/scenario"
	"microstructure-lab/strategy"
)

var (
	ErrNilStrategy   = errors.New("nil strategy")
	ErrInvalidConfig = errors.New("invalid simulator config")
)

// 数值保护下限
const epsilon = 1e-9

// Observer 接收逐步状态与成交，例如 Prometheus 记录器。
// 只有整次回测成功后才会按步回放，中止的回测不会产生任何观测。
type Observer interface {
	ObserveStep(state market.State, inventory, pnl, feesPaid float64)
	ObserveFill(f order.Fill)
}

// Components 可选依赖，均可为空。
type Components struct {
	// Rand 撮合模型使用的随机源；为空时按 Config.RandomSeed 创建
	Rand     *rand.Rand
	Logger   *logger.Logger
	Observer Observer
}

// Simulator 将行情事件、策略报价与概率成交模型串起来。
// 盘口与随机源由单次回测独占；随机源跨 Run 连续消耗，
// 需要可复现的重复回测时应新建 Simulator。
type Simulator struct {
	cfg      Config
	rng      *rand.Rand
	logger   *logger.Logger
	observer Observer
}

// New 创建模拟器
func New(cfg Config, components Components) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Simulator{
		cfg:      cfg,
		rng:      components.Rand,
		logger:   components.Logger,
		observer: components.Observer,
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(cfg.RandomSeed))
	}
	if s.logger == nil {
		s.logger = logger.Nop()
	}
	return s, nil
}

func (s *Simulator) Config() Config { return s.cfg }

// Run 读完整个事件流后逐步回测，最后做逆向选择标注与汇总。
// 任一步出错即中止，不返回部分结果。
func (s *Simulator) Run(src scenario.Source, strat strategy.Strategy) (*Result, error) {
	if strat == nil {
		return nil, ErrNilStrategy
	}
	var events []scenario.Event
	if src != nil {
		// 逆向选择需要向后查看 mid，事件流必须先物化
		events = scenario.Drain(src)
	}
	return s.RunEvents(events, strat)
}

// RunEvents 对已物化的事件序列回测。
func (s *Simulator) RunEvents(events []scenario.Event, strat strategy.Strategy) (*Result, error) {
	if strat == nil {
		return nil, ErrNilStrategy
	}
	book := market.NewOrderBook(s.cfg.TickSize)
	tracker := inventory.NewTracker(s.cfg.MaxInventory)
	res := newResult(len(events))
	var trace []stepTrace
	if s.observer != nil {
		trace = make([]stepTrace, 0, len(events))
	}

	for _, ev := range events {
		ev.Apply(book)
		state, err := book.Snapshot(ev.Step, ev.Volatility, ev.Regime)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", ev.Step, err)
		}

		quote := strat.OnTick(state, tracker.NetExposure())
		if err := quote.Validate(); err != nil {
			s.logger.LogError(err, map[string]interface{}{"step": ev.Step})
			return nil, fmt.Errorf("step %d: %w", ev.Step, err)
		}

		for _, candidate := range s.simulateFills(state, quote) {
			f, ok, err := tracker.Clip(candidate)
			if err != nil {
				return nil, fmt.Errorf("step %d: %w", ev.Step, err)
			}
			if !ok {
				continue
			}
			f.MidBefore = state.Mid
			if err := tracker.Apply(f); err != nil {
				return nil, fmt.Errorf("step %d: %w", ev.Step, err)
			}
			res.Fills = append(res.Fills, f)
			s.logger.LogFill(map[string]interface{}{
				"step":      f.Step,
				"side":      string(f.Side),
				"liquidity": string(f.Liquidity),
				"price":     f.Price,
				"size":      f.Size,
				"fee":       f.Fee,
			})
		}

		res.record(tracker.MarkToMid(state.Mid), tracker.NetExposure(), state.Mid, state.Spread)
		if trace != nil {
			trace = append(trace, stepTrace{state: state, feesPaid: tracker.FeesPaid(), fillEnd: len(res.Fills)})
		}
	}
	res.FeesPaid = tracker.FeesPaid()

	if err := s.Finalize(res); err != nil {
		return nil, err
	}
	s.replay(res, trace)

	fields := map[string]interface{}{
		"steps":     res.Steps(),
		"fills":     len(res.Fills),
		"final_pnl": res.FinalPnL(),
		"fees_paid": res.FeesPaid,
		"avg_cost":  tracker.AvgCost(),
	}
	if n := len(res.Mid); n > 0 {
		_, unrealized := tracker.Valuation(res.Mid[n-1])
		fields["unrealized_pnl"] = unrealized
	}
	s.logger.LogRun("completed", fields)
	return res, nil
}

// stepTrace 回放观测所需的逐步快照，fillEnd 为该步结束时 res.Fills 的长度。
type stepTrace struct {
	state    market.State
	feesPaid float64
	fillEnd  int
}

// replay 按原始顺序把成交与逐步状态交给 Observer，成交已带 mid_after 标注。
func (s *Simulator) replay(res *Result, trace []stepTrace) {
	if s.observer == nil {
		return
	}
	start := 0
	for i, st := range trace {
		for _, f := range res.Fills[start:st.fillEnd] {
			s.observer.ObserveFill(f)
		}
		start = st.fillEnd
		s.observer.ObserveStep(st.state, res.Inventory[i], res.PnL[i], st.feesPaid)
	}
}

// Finalize 前向循环结束后的第二遍：按 horizon 标注 mid_after，然后生成汇总。
// 同一结果只能标注一次。
func (s *Simulator) Finalize(res *Result) error {
	if err := posttrade.Annotate(res.Fills, res.Mid, s.cfg.AdverseSelectionHorizon); err != nil {
		return err
	}
	res.Summary = analytics.Summarize(analytics.Input{
		PnL:            res.PnL,
		Inventory:      res.Inventory,
		Fills:          res.Fills,
		FeesPaid:       res.FeesPaid,
		PeriodsPerYear: s.cfg.PeriodsPerYear,
	})
	return nil
}

// simulateFills 按固定顺序消耗随机数：买穿价、卖穿价、被动买、被动卖。
// 只有满足前置条件时才抽取，保证相同种子得到相同的成交序列。
func (s *Simulator) simulateFills(state market.State, q strategy.QuoteIntent) []order.Fill {
	var fills []order.Fill

	// 波动相对价差越大，报价越容易意外穿价
	volScale := 1 + math.Max(0, state.Volatility/math.Max(state.Spread, epsilon))
	crossProb := math.Min(1, s.cfg.AggressiveCrossProb*volScale)

	// 穿价成交数量固定封顶 1 个单位，超出部分直接丢弃
	if q.BidPx >= state.BestAsk && s.rng.Float64() < crossProb {
		size := math.Min(q.BidSz, 1)
		fills = append(fills, order.Fill{
			Step:      state.Step,
			Side:      order.Buy,
			Liquidity: order.Taker,
			Price:     state.BestAsk,
			Size:      size,
			Fee:       state.BestAsk * size * s.cfg.TakerFeeBps / 1e4,
		})
	}
	if q.AskPx <= state.BestBid && s.rng.Float64() < crossProb {
		size := math.Min(q.AskSz, 1)
		fills = append(fills, order.Fill{
			Step:      state.Step,
			Side:      order.Sell,
			Liquidity: order.Taker,
			Price:     state.BestBid,
			Size:      size,
			Fee:       state.BestBid * size * s.cfg.TakerFeeBps / 1e4,
		})
	}

	tick := math.Max(s.cfg.TickSize, epsilon)
	distBid := math.Max(0, (state.BestBid-q.BidPx)/tick)
	distAsk := math.Max(0, (q.AskPx-state.BestAsk)/tick)
	// 买方压力（imbalance>0）降低买单被打的概率，提高卖单被打的概率
	pBid := clamp01(s.cfg.PassiveFillProbBase * (1 - 0.5*state.Imbalance) * math.Exp(-distBid))
	pAsk := clamp01(s.cfg.PassiveFillProbBase * (1 + 0.5*state.Imbalance) * math.Exp(-distAsk))

	if q.BidPx < state.BestAsk && s.rng.Float64() < pBid {
		size := q.BidSz * s.uniform(0.2, 1)
		fills = append(fills, order.Fill{
			Step:      state.Step,
			Side:      order.Buy,
			Liquidity: order.Maker,
			Price:     q.BidPx,
			Size:      size,
			Fee:       q.BidPx * size * s.cfg.MakerFeeBps / 1e4,
		})
	}
	if q.AskPx > state.BestBid && s.rng.Float64() < pAsk {
		size := q.AskSz * s.uniform(0.2, 1)
		fills = append(fills, order.Fill{
			Step:      state.Step,
			Side:      order.Sell,
			Liquidity: order.Maker,
			Price:     q.AskPx,
			Size:      size,
			Fee:       q.AskPx * size * s.cfg.MakerFeeBps / 1e4,
		})
	}
	return fills
}

func (s *Simulator) uniform(lo, hi float64) float64 {
	return lo + (hi-lo)*s.rng.Float64()
}

func clamp01(p float64) float64 {
	return math.Max(0, math.Min(1, p))
}
