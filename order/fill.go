package order

import (
	"errors"
	"fmt"
)

var ErrUnknownSide = errors.New("unknown fill side")

// Side 成交方向（站在策略一侧）。
type Side string

const (
	Buy  Side = "buy"
	Sell Side = "sell"
)

// Sign 买为 +1，卖为 -1；未知方向视为编程错误。
func (s Side) Sign() (float64, error) {
	switch s {
	case Buy:
		return 1, nil
	case Sell:
		return -1, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSide, string(s))
}

// Liquidity 标记成交是挂单被动成交还是主动吃单。
type Liquidity string

const (
	Maker Liquidity = "maker"
	Taker Liquidity = "taker"
)

// Fill 一笔已实现成交。Fee 为带符号手续费，负数表示返佣。
// MidBefore 在成交时写入；MidAfter 由事后标注写入一次，0 表示尚未设置。
type Fill struct {
	Step      int       `json:"step"`
	Side      Side      `json:"side"`
	Liquidity Liquidity `json:"liquidity,omitempty"`
	Price     float64   `json:"price"`
	Size      float64   `json:"size"`
	Fee       float64   `json:"fee"`
	MidBefore float64   `json:"mid_before,omitempty"`
	MidAfter  float64   `json:"mid_after,omitempty"`
}

func (f Fill) Notional() float64 { return f.Price * f.Size }

func (f Fill) HasMidBefore() bool { return f.MidBefore != 0 }

// Annotated mid_before 与 mid_after 均已设置。
func (f Fill) Annotated() bool { return f.MidBefore != 0 && f.MidAfter != 0 }

// sign 对已构造的 Fill 返回方向符号，非法方向返回 0，
// 使派生指标保持中性而不在热路径上报错。
func (f Fill) sign() float64 {
	s, err := f.Side.Sign()
	if err != nil {
		return 0
	}
	return s
}

// AdverseSelectionCost 成交后 mid 朝不利方向移动的幅度（单位价格）。
// 买入后下跌、卖出后上涨为正。未标注时为 0。
func (f Fill) AdverseSelectionCost() float64 {
	if !f.Annotated() {
		return 0
	}
	return -f.sign() * (f.MidAfter - f.MidBefore)
}

// RealizedSpread 扣除事后漂移后实际捕获的价差（单位价格）。未标注时为 0。
func (f Fill) RealizedSpread() float64 {
	if !f.Annotated() {
		return 0
	}
	return f.sign() * (f.MidAfter - f.Price)
}

// QuotedSpreadHalf 成交时 mid 到成交价的距离，挂单成交为正。
func (f Fill) QuotedSpreadHalf() float64 {
	if !f.HasMidBefore() {
		return 0
	}
	return f.sign() * (f.MidBefore - f.Price)
}

// Scaled 按新的 size 返回副本，手续费按原始比例缩放。
func (f Fill) Scaled(size float64) Fill {
	out := f
	if f.Size > 0 {
		out.Fee = f.Fee * (size / f.Size)
	} else {
		out.Fee = 0
	}
	out.Size = size
	return out
}
