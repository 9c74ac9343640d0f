package strategy

import (
	"math"

	"microstructure-lab/market"
)

// InventorySkewMM 围绕 mid 对称挂单，并按仓位整体平移报价：
// 多头时双边下移以促成卖出，空头时上移。
type InventorySkewMM struct {
	HalfSpreadBps float64
	InvPenaltyBps float64
	QuoteSize     float64
}

func NewInventorySkewMM() *InventorySkewMM {
	return &InventorySkewMM{HalfSpreadBps: 3.0, InvPenaltyBps: 0.8, QuoteSize: 1.0}
}

func (s *InventorySkewMM) OnTick(state market.State, inventory float64) QuoteIntent {
	half := state.Mid * (s.HalfSpreadBps / 10000.0)
	skew := state.Mid * (s.InvPenaltyBps / 10000.0) * inventory

	bid := math.Max(0, state.Mid-half-skew)
	ask := math.Max(bid, state.Mid+half-skew)
	return QuoteIntent{
		BidPx: bid,
		BidSz: s.QuoteSize,
		AskPx: ask,
		AskSz: s.QuoteSize,
	}
}
