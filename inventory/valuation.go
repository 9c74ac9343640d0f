package inventory

// Valuation 基于当前 mid 价计算未实现盈亏。
func (t *Tracker) Valuation(mid float64) (net float64, pnl float64) {
	net = t.net
	pnl = (mid - t.cost) * t.net
	return
}

// MarkToMid 按 mid 计价的总盈亏：现金 + 仓位市值。
func (t *Tracker) MarkToMid(mid float64) float64 {
	return t.cash + t.net*mid
}
