package inventory

import (
	"math"

	"microstructure-lab/order"
)

// Tracker 维护净仓位、现金与累计手续费。由单个模拟器独占，不加锁。
type Tracker struct {
	MaxInventory float64 // 0 表示只能保持空仓

	net  float64
	cost float64
	cash float64
	fees float64
}

func NewTracker(maxInventory float64) *Tracker {
	return &Tracker{MaxInventory: maxInventory}
}

// Update 根据成交数量调整仓位与加权平均成本。
func (t *Tracker) Update(deltaQty float64, price float64) {
	// 简化：加权平均成本
	totalValue := t.cost*t.net + price*deltaQty
	t.net += deltaQty
	if t.net != 0 {
		t.cost = totalValue / t.net
	} else {
		t.cost = 0
	}
}

// Room 返回该方向在不突破 [-MaxInventory, +MaxInventory] 前提下还能成交的数量。
func (t *Tracker) Room(side order.Side) (float64, error) {
	if _, err := side.Sign(); err != nil {
		return 0, err
	}
	if side == order.Buy {
		return math.Max(0, t.MaxInventory-t.net), nil
	}
	return math.Max(0, t.net+t.MaxInventory), nil
}

// Clip 将成交数量截断到仓位上限以内，手续费按比例缩放。
// 截断后数量 <= 0 时 ok=false，该笔成交应被丢弃。
func (t *Tracker) Clip(f order.Fill) (clipped order.Fill, ok bool, err error) {
	if f.Size <= 0 {
		return f, false, nil
	}
	room, err := t.Room(f.Side)
	if err != nil {
		return f, false, err
	}
	size := math.Min(f.Size, room)
	if size <= 0 {
		return f, false, nil
	}
	if size == f.Size {
		return f, true, nil
	}
	return f.Scaled(size), true, nil
}

// Apply 记账：买入增加仓位、减少现金，卖出相反；手续费从现金中扣除。
func (t *Tracker) Apply(f order.Fill) error {
	sign, err := f.Side.Sign()
	if err != nil {
		return err
	}
	t.Update(sign*f.Size, f.Price)
	t.cash -= sign * f.Price * f.Size
	t.cash -= f.Fee
	t.fees += f.Fee
	return nil
}

func (t *Tracker) NetExposure() float64 { return t.net }

func (t *Tracker) AvgCost() float64 { return t.cost }

func (t *Tracker) Cash() float64 { return t.cash }

// FeesPaid 累计手续费，返佣为负。
func (t *Tracker) FeesPaid() float64 { return t.fees }
