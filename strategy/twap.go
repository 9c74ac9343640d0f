package strategy

import (
	"math"

	"microstructure-lab/market"
)

// TWAP 在 TotalSteps 内把仓位推到目标，每步在盘口挂一笔被动子单。
type TWAP struct {
	TargetInventory float64
	TotalSteps      int
	QuoteSize       float64
}

func (s *TWAP) OnTick(state market.State, inventory float64) QuoteIntent {
	remaining := s.TargetInventory - inventory
	if math.Abs(remaining) < 1e-9 || state.Step >= s.TotalSteps {
		return Flat(state)
	}
	child := math.Min(s.QuoteSize, math.Abs(remaining))
	if remaining > 0 {
		return QuoteIntent{BidPx: state.BestBid, BidSz: child, AskPx: state.BestAsk, AskSz: 0}
	}
	return QuoteIntent{BidPx: 0, BidSz: 0, AskPx: state.BestAsk, AskSz: child}
}
