package market

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/shopspring/decimal"
)

// PricePrecision 价格键的小数位数，避免浮点噪声产生重复档位。
const PricePrecision = 10

var (
	ErrEmptyBook   = errors.New("empty book side")
	ErrUnknownSide = errors.New("unknown book side")
)

// Side 盘口方向。
type Side string

const (
	SideBid Side = "bid"
	SideAsk Side = "ask"
)

// Level 一个价格档位。
type Level struct {
	Price float64 `json:"price"`
	Size  float64 `json:"size"`
}

// OrderBook 维护多档 price->size 映射。
// 每步整体替换，不做增量 diff；除 ReplaceTop 外 size<=0 的档位不会被保存。
// 由单个模拟器独占，不加锁。
type OrderBook struct {
	TickSize float64
	bids     map[float64]float64
	asks     map[float64]float64
}

func NewOrderBook(tickSize float64) *OrderBook {
	return &OrderBook{
		TickSize: tickSize,
		bids:     make(map[float64]float64),
		asks:     make(map[float64]float64),
	}
}

// NormalizePrice 将价格按固定精度取整。
func NormalizePrice(p float64) float64 {
	return decimal.NewFromFloat(p).Round(PricePrecision).InexactFloat64()
}

// ReplaceTop 清空两侧，每侧恰好安装一个档位；负数 size 视为 0。
// size 为 0 的顶档仍然有效，只影响 imbalance。
func (ob *OrderBook) ReplaceTop(bidPx, bidSz, askPx, askSz float64) {
	ob.bids = map[float64]float64{NormalizePrice(bidPx): math.Max(0, bidSz)}
	ob.asks = map[float64]float64{NormalizePrice(askPx): math.Max(0, askSz)}
}

// ReplaceDepth 用多档快照替换整个盘口，只保留 size>0 的档位。
func (ob *OrderBook) ReplaceDepth(bidLevels, askLevels []Level) {
	ob.bids = make(map[float64]float64, len(bidLevels))
	ob.asks = make(map[float64]float64, len(askLevels))
	for _, l := range bidLevels {
		if l.Size > 0 {
			ob.bids[NormalizePrice(l.Price)] = l.Size
		}
	}
	for _, l := range askLevels {
		if l.Size > 0 {
			ob.asks[NormalizePrice(l.Price)] = l.Size
		}
	}
}

// UpdateLevel 插入或删除单个档位，size<=0 表示删除。
func (ob *OrderBook) UpdateLevel(side Side, price, size float64) error {
	var book map[float64]float64
	switch side {
	case SideBid:
		book = ob.bids
	case SideAsk:
		book = ob.asks
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSide, side)
	}
	key := NormalizePrice(price)
	if size <= 0 {
		delete(book, key)
		return nil
	}
	book[key] = size
	return nil
}

// BestBid 返回最高买价；买盘为空时返回 ErrEmptyBook。
func (ob *OrderBook) BestBid() (float64, error) {
	if len(ob.bids) == 0 {
		return 0, fmt.Errorf("%w: no bids", ErrEmptyBook)
	}
	first := true
	best := 0.0
	for p := range ob.bids {
		if first || p > best {
			best = p
			first = false
		}
	}
	return best, nil
}

// BestAsk 返回最低卖价；卖盘为空时返回 ErrEmptyBook。
func (ob *OrderBook) BestAsk() (float64, error) {
	if len(ob.asks) == 0 {
		return 0, fmt.Errorf("%w: no asks", ErrEmptyBook)
	}
	first := true
	best := 0.0
	for p := range ob.asks {
		if first || p < best {
			best = p
			first = false
		}
	}
	return best, nil
}

// Touch 同时返回最优买卖价。
func (ob *OrderBook) Touch() (bid float64, ask float64, err error) {
	if bid, err = ob.BestBid(); err != nil {
		return 0, 0, err
	}
	if ask, err = ob.BestAsk(); err != nil {
		return 0, 0, err
	}
	return bid, ask, nil
}

func (ob *OrderBook) Spread() (float64, error) {
	bid, ask, err := ob.Touch()
	if err != nil {
		return 0, err
	}
	return ask - bid, nil
}

func (ob *OrderBook) Mid() (float64, error) {
	bid, ask, err := ob.Touch()
	if err != nil {
		return 0, err
	}
	return (bid + ask) / 2, nil
}

// Imbalance 顶档 size 偏斜，范围 [-1, 1]，正值表示买方压力。两侧都为空时为 0。
func (ob *OrderBook) Imbalance() float64 {
	var bidSz, askSz float64
	if bid, err := ob.BestBid(); err == nil {
		bidSz = ob.bids[bid]
	}
	if ask, err := ob.BestAsk(); err == nil {
		askSz = ob.asks[ask]
	}
	return CalculateImbalance(bidSz, askSz)
}

// WeightedMid 按顶档 size 加权的中间价，偏向挂单量较少的一侧。
func (ob *OrderBook) WeightedMid() (float64, error) {
	bid, ask, err := ob.Touch()
	if err != nil {
		return 0, err
	}
	bidSz, askSz := ob.bids[bid], ob.asks[ask]
	total := bidSz + askSz
	if total <= 0 {
		return (bid + ask) / 2, nil
	}
	return (bid*askSz + ask*bidSz) / total, nil
}

// Depth 返回每侧前 n 档：买盘按价格降序，卖盘升序；不足 n 档时返回更短的切片。
// n<=0 返回空切片。
func (ob *OrderBook) Depth(n int) (bids []Level, asks []Level) {
	if n <= 0 {
		return []Level{}, []Level{}
	}
	return topLevels(ob.bids, n, true), topLevels(ob.asks, n, false)
}

// TotalBidSize 前 n 档买盘累计 size，n<=0 表示全部档位。
func (ob *OrderBook) TotalBidSize(n int) float64 {
	return sumSize(topLevels(ob.bids, n, true))
}

// TotalAskSize 前 n 档卖盘累计 size，n<=0 表示全部档位。
func (ob *OrderBook) TotalAskSize(n int) float64 {
	return sumSize(topLevels(ob.asks, n, false))
}

// DepthImbalance 前 n 档累计 size 的偏斜。
func (ob *OrderBook) DepthImbalance(n int) float64 {
	return CalculateImbalance(ob.TotalBidSize(n), ob.TotalAskSize(n))
}

// Levels 返回某侧档位数量。
func (ob *OrderBook) Levels(side Side) int {
	if side == SideBid {
		return len(ob.bids)
	}
	return len(ob.asks)
}

func topLevels(book map[float64]float64, n int, descending bool) []Level {
	levels := make([]Level, 0, len(book))
	for p, s := range book {
		levels = append(levels, Level{Price: p, Size: s})
	}
	sort.Slice(levels, func(i, j int) bool {
		if descending {
			return levels[i].Price > levels[j].Price
		}
		return levels[i].Price < levels[j].Price
	})
	if n > 0 && n < len(levels) {
		levels = levels[:n]
	}
	return levels
}

func sumSize(levels []Level) float64 {
	total := 0.0
	for _, l := range levels {
		total += l.Size
	}
	return total
}
