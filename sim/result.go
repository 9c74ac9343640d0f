package sim

import "microstructure-lab/order"

// Result 一次回测的产物。四条序列等长、按步对齐；Run 返回后不再修改。
type Result struct {
	PnL       []float64          `json:"pnl"`
	Inventory []float64          `json:"inventory"`
	Mid       []float64          `json:"mid"`
	Spread    []float64          `json:"spread"`
	Fills     []order.Fill       `json:"fills"`
	Summary   map[string]float64 `json:"summary"`
	FeesPaid  float64            `json:"fees_paid"`
}

func newResult(steps int) *Result {
	return &Result{
		PnL:       make([]float64, 0, steps),
		Inventory: make([]float64, 0, steps),
		Mid:       make([]float64, 0, steps),
		Spread:    make([]float64, 0, steps),
		Fills:     []order.Fill{},
	}
}

func (r *Result) Steps() int { return len(r.PnL) }

// FinalPnL 最后一步的 mark-to-mid 盈亏，空结果为 0。
func (r *Result) FinalPnL() float64 {
	if len(r.PnL) == 0 {
		return 0
	}
	return r.PnL[len(r.PnL)-1]
}

// FinalInventory 最后一步的仓位，空结果为 0。
func (r *Result) FinalInventory() float64 {
	if len(r.Inventory) == 0 {
		return 0
	}
	return r.Inventory[len(r.Inventory)-1]
}

func (r *Result) record(pnl, inv, mid, spread float64) {
	r.PnL = append(r.PnL, pnl)
	r.Inventory = append(r.Inventory, inv)
	r.Mid = append(r.Mid, mid)
	r.Spread = append(r.Spread, spread)
}
