// Package analytics turns a finished run into its summary mapping.
package analytics

import (
	"math"

	"microstructure-lab/order"
	"microstructure-lab/posttrade"
)

// Summary keys.
const (
	KeyFinalPnL            = "final_pnl"
	KeyMaxDrawdown         = "max_drawdown"
	KeySharpe              = "sharpe_annualized"
	KeyFills               = "fills"
	KeyMakerFills          = "maker_fills"
	KeyTakerFills          = "taker_fills"
	KeyFeesPaid            = "fees_paid"
	KeyAvgAbsInventory     = "avg_abs_inventory"
	KeyFillRate            = "fill_rate"
	KeyInventoryHalfLife   = "inventory_half_life"
	KeyRealizedSpreadAvg   = "realized_spread_avg"
	KeyAdverseSelectionAvg = "adverse_selection_avg"
	KeySteps               = "steps"
)

// Input 汇总所需的已完成序列。
type Input struct {
	PnL            []float64
	Inventory      []float64
	Fills          []order.Fill
	FeesPaid       float64
	PeriodsPerYear float64
}

// Summarize 计算绩效与微观结构指标；空序列得到全 0 的中性结果。
func Summarize(in Input) map[string]float64 {
	var maker, taker int
	for _, f := range in.Fills {
		if f.Liquidity == order.Taker {
			taker++
		} else {
			maker++
		}
	}
	post := posttrade.Analyze(in.Fills)

	fillRate := 0.0
	if len(in.PnL) > 0 {
		fillRate = float64(len(in.Fills)) / float64(len(in.PnL))
	}
	finalPnL := 0.0
	if len(in.PnL) > 0 {
		finalPnL = in.PnL[len(in.PnL)-1]
	}

	return map[string]float64{
		KeyFinalPnL:            finalPnL,
		KeyMaxDrawdown:         MaxDrawdown(in.PnL),
		KeySharpe:              Sharpe(in.PnL, in.PeriodsPerYear),
		KeyFills:               float64(len(in.Fills)),
		KeyMakerFills:          float64(maker),
		KeyTakerFills:          float64(taker),
		KeyFeesPaid:            in.FeesPaid,
		KeyAvgAbsInventory:     meanAbs(in.Inventory),
		KeyFillRate:            fillRate,
		KeyInventoryHalfLife:   InventoryHalfLife(in.Inventory),
		KeyRealizedSpreadAvg:   post.AvgRealizedSpread,
		KeyAdverseSelectionAvg: post.AvgAdverseSelection,
		KeySteps:               float64(len(in.PnL)),
	}
}

// Sharpe 以逐步 PnL 变化计算年化夏普：mean/std × √periodsPerYear。
// 标准差为总体标准差；std 为 0 或 periodsPerYear<=0 时返回 0。
func Sharpe(path []float64, periodsPerYear float64) float64 {
	if len(path) < 3 || periodsPerYear <= 0 {
		return 0
	}
	rets := make([]float64, len(path)-1)
	for i := 1; i < len(path); i++ {
		rets[i-1] = path[i] - path[i-1]
	}
	mean := 0.0
	for _, r := range rets {
		mean += r
	}
	mean /= float64(len(rets))
	variance := 0.0
	for _, r := range rets {
		d := r - mean
		variance += d * d
	}
	std := math.Sqrt(variance / float64(len(rets)))
	if std <= 0 {
		return 0
	}
	return mean / std * math.Sqrt(periodsPerYear)
}

// MaxDrawdown 最大回撤（绝对值，<=0）。
func MaxDrawdown(path []float64) float64 {
	peak := math.Inf(-1)
	maxDD := 0.0
	for _, v := range path {
		peak = math.Max(peak, v)
		maxDD = math.Min(maxDD, v-peak)
	}
	return maxDD
}

// InventoryHalfLife 用 AR(1) 拟合仓位序列 x_t = φ·x_{t-1}，返回回归一半所需步数。
// 从未持仓或 φ<=0 时为 0；不回归（φ>=1）时以序列长度封顶，保证结果可 JSON 编码。
func InventoryHalfLife(inv []float64) float64 {
	if len(inv) < 2 {
		return 0
	}
	var num, den float64
	for i := 1; i < len(inv); i++ {
		num += inv[i] * inv[i-1]
		den += inv[i-1] * inv[i-1]
	}
	if den == 0 {
		return 0
	}
	phi := num / den
	capped := float64(len(inv))
	switch {
	case phi <= 0:
		return 0
	case phi >= 1:
		return capped
	}
	return math.Min(capped, -math.Ln2/math.Log(phi))
}

func meanAbs(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	total := 0.0
	for _, x := range xs {
		total += math.Abs(x)
	}
	return total / float64(len(xs))
}
