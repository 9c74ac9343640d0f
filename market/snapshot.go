package market

// State 每步由盘口和事件元数据构造的只读快照，不跨步复用。
type State struct {
	Step       int     `json:"step"`
	Mid        float64 `json:"mid"`
	BestBid    float64 `json:"best_bid"`
	BestAsk    float64 `json:"best_ask"`
	Spread     float64 `json:"spread"`
	Imbalance  float64 `json:"imbalance"`
	Volatility float64 `json:"volatility"`
	Regime     Regime  `json:"regime"`
}

// Snapshot 基于当前盘口生成 State；任一侧为空时返回 ErrEmptyBook。
func (ob *OrderBook) Snapshot(step int, volatility float64, regime Regime) (State, error) {
	bid, ask, err := ob.Touch()
	if err != nil {
		return State{}, err
	}
	if regime == "" {
		regime = RegimeCalm
	}
	return State{
		Step:       step,
		Mid:        (bid + ask) / 2,
		BestBid:    bid,
		BestAsk:    ask,
		Spread:     ask - bid,
		Imbalance:  ob.Imbalance(),
		Volatility: volatility,
		Regime:     regime,
	}, nil
}
