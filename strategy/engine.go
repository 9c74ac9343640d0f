package strategy

import (
	"errors"
	"fmt"
	"math"

	"microstructure-lab/market"
)

var ErrInvalidQuote = errors.New("invalid quote")

// QuoteIntent 策略期望的双边报价。
type QuoteIntent struct {
	BidPx float64 `json:"bid_px"`
	BidSz float64 `json:"bid_sz"`
	AskPx float64 `json:"ask_px"`
	AskSz float64 `json:"ask_sz"`
}

// Validate 四个字段必须有限且非负，且 ask >= bid。
func (q QuoteIntent) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"bid_px", q.BidPx},
		{"ask_px", q.AskPx},
		{"bid_sz", q.BidSz},
		{"ask_sz", q.AskSz},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%w: %s=%v not finite", ErrInvalidQuote, f.name, f.value)
		}
		if f.value < 0 {
			return fmt.Errorf("%w: %s=%v negative", ErrInvalidQuote, f.name, f.value)
		}
	}
	if q.AskPx < q.BidPx {
		return fmt.Errorf("%w: ask %v < bid %v", ErrInvalidQuote, q.AskPx, q.BidPx)
	}
	return nil
}

// Strategy 根据行情快照与当前仓位给出报价。
// 只读 state，不得修改模拟器；可以维护自己的历史。
type Strategy interface {
	OnTick(state market.State, inventory float64) QuoteIntent
}

// Flat 不挂任何数量的报价。
func Flat(state market.State) QuoteIntent {
	return QuoteIntent{BidPx: 0, BidSz: 0, AskPx: state.BestAsk, AskSz: 0}
}
