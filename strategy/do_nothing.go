package strategy

import "microstructure-lab/market"

// DoNothing 从不报价的基准策略，PnL 恒为 0。
type DoNothing struct{}

func (DoNothing) OnTick(state market.State, _ float64) QuoteIntent {
	return Flat(state)
}
