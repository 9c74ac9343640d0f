package market

import (
	"errors"
	"math"
	"testing"
)

func TestOrderBookReplaceTopAndImbalance(t *testing.T) {
	ob := NewOrderBook(0.5)
	ob.ReplaceTop(99.5, 4, 100.5, 2)
	bid, ask, err := ob.Touch()
	if err != nil {
		t.Fatalf("touch err: %v", err)
	}
	if bid != 99.5 || ask != 100.5 {
		t.Fatalf("unexpected best bid/ask: %f/%f", bid, ask)
	}
	if spread, _ := ob.Spread(); spread != 1.0 {
		t.Fatalf("unexpected spread %f", spread)
	}
	if mid, _ := ob.Mid(); mid != 100 {
		t.Fatalf("unexpected mid %f", mid)
	}
	if imb := ob.Imbalance(); math.Abs(imb-2.0/6.0) > 1e-12 {
		t.Fatalf("unexpected imbalance %f", imb)
	}
}

func TestOrderBookReplaceTopWipesPreviousLevels(t *testing.T) {
	ob := NewOrderBook(0.5)
	ob.ReplaceDepth(
		[]Level{{99.5, 5}, {99, 8}},
		[]Level{{100.5, 4}, {101, 6}},
	)
	ob.ReplaceTop(98, 1, 102, 1)
	if ob.Levels(SideBid) != 1 || ob.Levels(SideAsk) != 1 {
		t.Fatalf("expected one level per side")
	}
}

func TestOrderBookReplaceTopClampsNegativeSize(t *testing.T) {
	ob := NewOrderBook(0.5)
	ob.ReplaceTop(99.5, -3, 100.5, 2)
	bid, err := ob.BestBid()
	if err != nil || bid != 99.5 {
		t.Fatalf("expected bid 99.5 to stay quotable, got %f err=%v", bid, err)
	}
	if ob.Levels(SideBid) != 1 || ob.TotalBidSize(0) != 0 {
		t.Fatalf("expected one zero-size bid level, got %d levels size %f", ob.Levels(SideBid), ob.TotalBidSize(0))
	}
	if imb := ob.Imbalance(); imb != -1 {
		t.Fatalf("expected imbalance -1 got %f", imb)
	}
	if mid, err := ob.Mid(); err != nil || mid != 100 {
		t.Fatalf("unexpected mid %f err=%v", mid, err)
	}
}

func TestOrderBookReplaceTopZeroSizeBothSides(t *testing.T) {
	ob := NewOrderBook(0.5)
	ob.ReplaceTop(99.5, 0, 100.5, 0)
	if _, _, err := ob.Touch(); err != nil {
		t.Fatalf("zero-size touch should be valid: %v", err)
	}
	if imb := ob.Imbalance(); imb != 0 {
		t.Fatalf("expected imbalance 0 got %f", imb)
	}
	if _, err := ob.WeightedMid(); err != nil {
		t.Fatalf("weighted mid: %v", err)
	}
}

func TestOrderBookEmptyBookErrors(t *testing.T) {
	ob := NewOrderBook(0.5)
	if _, err := ob.BestBid(); !errors.Is(err, ErrEmptyBook) {
		t.Fatalf("expected ErrEmptyBook for bid, got %v", err)
	}
	if _, err := ob.BestAsk(); !errors.Is(err, ErrEmptyBook) {
		t.Fatalf("expected ErrEmptyBook for ask, got %v", err)
	}
	if _, err := ob.Mid(); !errors.Is(err, ErrEmptyBook) {
		t.Fatalf("expected ErrEmptyBook for mid, got %v", err)
	}
	if imb := ob.Imbalance(); imb != 0 {
		t.Fatalf("empty book imbalance should be 0, got %f", imb)
	}
}

func TestOrderBookDepthOrdering(t *testing.T) {
	ob := NewOrderBook(0.5)
	ob.ReplaceDepth(
		[]Level{{98.5, 12}, {99.5, 5}, {99, 8}},
		[]Level{{101.5, 9}, {100.5, 4}, {101, 6}},
	)
	bids, asks := ob.Depth(2)
	if len(bids) != 2 || len(asks) != 2 {
		t.Fatalf("expected 2 levels each side, got %d/%d", len(bids), len(asks))
	}
	if bids[0].Price != 99.5 || bids[1].Price != 99 {
		t.Fatalf("bids not descending: %+v", bids)
	}
	if asks[0].Price != 100.5 || asks[1].Price != 101 {
		t.Fatalf("asks not ascending: %+v", asks)
	}
	// 档位不足时返回更短的切片
	bids, asks = ob.Depth(10)
	if len(bids) != 3 || len(asks) != 3 {
		t.Fatalf("expected all 3 levels, got %d/%d", len(bids), len(asks))
	}
	for _, n := range []int{0, -1} {
		bids, asks = ob.Depth(n)
		if bids == nil || asks == nil || len(bids) != 0 || len(asks) != 0 {
			t.Fatalf("Depth(%d) should be empty, got %d/%d", n, len(bids), len(asks))
		}
	}
	// 累计 size 的 n<=0 仍表示全部档位
	if got := ob.TotalBidSize(0); got != 25 {
		t.Fatalf("expected total bid 25 got %f", got)
	}
	if got := ob.TotalAskSize(-1); got != 19 {
		t.Fatalf("expected total ask 19 got %f", got)
	}
}

func TestOrderBookReplaceDepthSkipsNonPositive(t *testing.T) {
	ob := NewOrderBook(0.5)
	ob.ReplaceDepth(
		[]Level{{99.5, 5}, {99, 0}, {98.5, -1}},
		[]Level{{100.5, 4}},
	)
	if ob.Levels(SideBid) != 1 {
		t.Fatalf("expected 1 bid level, got %d", ob.Levels(SideBid))
	}
}

func TestOrderBookNormalizesFloatNoise(t *testing.T) {
	ob := NewOrderBook(0.1)
	ob.ReplaceDepth(
		[]Level{{0.1 + 0.2, 1}, {0.3, 2}},
		[]Level{{0.5, 1}},
	)
	if ob.Levels(SideBid) != 1 {
		t.Fatalf("expected duplicate keys to collapse, got %d levels", ob.Levels(SideBid))
	}
	if got := ob.TotalBidSize(0); got != 2 {
		t.Fatalf("expected last write to win, got %f", got)
	}
}

func TestOrderBookTotalsAndDepthImbalance(t *testing.T) {
	ob := NewOrderBook(0.5)
	ob.ReplaceDepth(
		[]Level{{99.5, 5}, {99, 3}},
		[]Level{{100.5, 4}, {101, 6}},
	)
	if got := ob.TotalBidSize(2); got != 8 {
		t.Fatalf("total bid size %f", got)
	}
	if got := ob.TotalAskSize(2); got != 10 {
		t.Fatalf("total ask size %f", got)
	}
	if got := ob.TotalAskSize(1); got != 4 {
		t.Fatalf("top ask size %f", got)
	}
	if got := ob.DepthImbalance(2); got >= 0 {
		t.Fatalf("expected negative depth imbalance, got %f", got)
	}

	ob.ReplaceDepth([]Level{{99.5, 10}}, []Level{{100.5, 2}})
	if got := ob.DepthImbalance(1); got <= 0 {
		t.Fatalf("expected positive depth imbalance, got %f", got)
	}
}

func TestOrderBookWeightedMid(t *testing.T) {
	ob := NewOrderBook(0.5)
	// 卖盘更厚，加权中间价偏向买价
	ob.ReplaceTop(99, 1, 101, 9)
	wm, err := ob.WeightedMid()
	if err != nil {
		t.Fatalf("weighted mid err: %v", err)
	}
	mid, _ := ob.Mid()
	if wm >= mid {
		t.Fatalf("expected weighted mid %f < mid %f", wm, mid)
	}
}

func TestOrderBookUpdateLevel(t *testing.T) {
	ob := NewOrderBook(0.5)
	ob.ReplaceTop(99.5, 5, 100.5, 5)
	if err := ob.UpdateLevel(SideBid, 99, 2); err != nil {
		t.Fatalf("update err: %v", err)
	}
	// 删除一档
	if err := ob.UpdateLevel(SideBid, 99.5, 0); err != nil {
		t.Fatalf("update err: %v", err)
	}
	bid, _ := ob.BestBid()
	if bid != 99 {
		t.Fatalf("expected best bid 99 got %f", bid)
	}
	if err := ob.UpdateLevel(Side("mid"), 100, 1); !errors.Is(err, ErrUnknownSide) {
		t.Fatalf("expected ErrUnknownSide, got %v", err)
	}
}

func TestOrderBookBestBidBelowBestAskAfterMutations(t *testing.T) {
	ob := NewOrderBook(0.5)
	check := func(label string) {
		t.Helper()
		bid, ask, err := ob.Touch()
		if err != nil {
			t.Fatalf("%s: touch err: %v", label, err)
		}
		if bid >= ask {
			t.Fatalf("%s: best bid %f >= best ask %f", label, bid, ask)
		}
	}
	ob.ReplaceTop(99.5, 1, 100.5, 1)
	check("replace top")
	ob.ReplaceDepth([]Level{{99.5, 1}, {99, 2}}, []Level{{100, 1}, {100.5, 2}})
	check("replace depth")
	_ = ob.UpdateLevel(SideBid, 99.75, 3)
	check("upsert bid")
	_ = ob.UpdateLevel(SideAsk, 100, 0)
	check("delete ask")
}

func TestSnapshot(t *testing.T) {
	ob := NewOrderBook(0.5)
	ob.ReplaceTop(99.5, 3, 100.5, 1)
	st, err := ob.Snapshot(7, 0.03, "")
	if err != nil {
		t.Fatalf("snapshot err: %v", err)
	}
	if st.Step != 7 || st.Mid != 100 || st.Spread != 1 || st.Regime != RegimeCalm {
		t.Fatalf("unexpected state %+v", st)
	}
	if st.Imbalance != 0.5 {
		t.Fatalf("unexpected imbalance %f", st.Imbalance)
	}
	if _, err := NewOrderBook(0.5).Snapshot(0, 0, RegimeCalm); !errors.Is(err, ErrEmptyBook) {
		t.Fatalf("expected ErrEmptyBook, got %v", err)
	}
}
