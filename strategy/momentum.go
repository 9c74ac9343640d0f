package strategy

import "microstructure-lab/market"

// Momentum 价格动量方向性策略。
// 窗口内收益超过阈值时在对手价主动吃单（付 taker 费），否则空仓不报价。
type Momentum struct {
	Window            int
	EntryThresholdBps float64
	QuoteSize         float64

	mids []float64
}

func NewMomentum(window int, thresholdBps, size float64) *Momentum {
	return &Momentum{
		Window:            window,
		EntryThresholdBps: thresholdBps,
		QuoteSize:         size,
		mids:              make([]float64, 0, window),
	}
}

func (s *Momentum) OnTick(state market.State, _ float64) QuoteIntent {
	s.mids = append(s.mids, state.Mid)
	if len(s.mids) > s.Window {
		s.mids = s.mids[1:]
	}
	if len(s.mids) < s.Window || s.mids[0] <= 0 {
		return Flat(state)
	}

	retBps := (s.mids[len(s.mids)-1]/s.mids[0] - 1) * 10000.0
	switch {
	case retBps > s.EntryThresholdBps:
		return QuoteIntent{
			BidPx: state.BestAsk,
			BidSz: s.QuoteSize,
			AskPx: state.BestAsk * 10,
			AskSz: 0,
		}
	case retBps < -s.EntryThresholdBps:
		return QuoteIntent{
			BidPx: 0,
			BidSz: 0,
			AskPx: state.BestBid,
			AskSz: s.QuoteSize,
		}
	}
	return Flat(state)
}
