package scenario

import "microstructure-lab/market"

// Event 单步行情数据，生成后不再修改。
// 顶档模式填 BidSize/AskSize，多档模式填 BidLevels/AskLevels。
type Event struct {
	Step       int            `json:"step"`
	Mid        float64        `json:"mid,omitempty"`
	BestBid    float64        `json:"best_bid"`
	BestAsk    float64        `json:"best_ask"`
	BidSize    float64        `json:"bid_size,omitempty"`
	AskSize    float64        `json:"ask_size,omitempty"`
	BidLevels  []market.Level `json:"bid_levels,omitempty"`
	AskLevels  []market.Level `json:"ask_levels,omitempty"`
	Volatility float64        `json:"volatility,omitempty"`
	Regime     market.Regime  `json:"regime,omitempty"`
}

// HasDepth 是否携带多档数据。
func (e Event) HasDepth() bool {
	return e.BidLevels != nil && e.AskLevels != nil
}

// Apply 用事件整体替换盘口。
func (e Event) Apply(ob *market.OrderBook) {
	if e.HasDepth() {
		ob.ReplaceDepth(e.BidLevels, e.AskLevels)
		return
	}
	ob.ReplaceTop(e.BestBid, e.BidSize, e.BestAsk, e.AskSize)
}

// Source 逐个产生事件，耗尽时 ok=false。
type Source interface {
	Next() (ev Event, ok bool)
}

// SliceSource 基于已有事件切片的 Source，常用于测试和回放。
type SliceSource struct {
	events []Event
	pos    int
}

func FromEvents(events []Event) *SliceSource {
	return &SliceSource{events: events}
}

func (s *SliceSource) Next() (Event, bool) {
	if s.pos >= len(s.events) {
		return Event{}, false
	}
	ev := s.events[s.pos]
	s.pos++
	return ev, true
}

// Drain 将 Source 剩余事件全部读出。
func Drain(src Source) []Event {
	var out []Event
	for {
		ev, ok := src.Next()
		if !ok {
			return out
		}
		out = append(out, ev)
	}
}
