package posttrade

import (
	"errors"
	"testing"

	"microstructure-lab/order"
)

func TestAnnotateUsesHorizonAndClamps(t *testing.T) {
	mids := []float64{100, 101, 102, 103, 104}
	fills := []order.Fill{
		{Step: 0, Side: order.Buy, Price: 99.5, Size: 1, MidBefore: 100},
		{Step: 3, Side: order.Sell, Price: 103.5, Size: 1, MidBefore: 103},
		{Step: 4, Side: order.Sell, Price: 104.5, Size: 1, MidBefore: 104},
	}
	if err := Annotate(fills, mids, 2); err != nil {
		t.Fatalf("annotate err: %v", err)
	}
	want := []float64{102, 104, 104}
	for i, f := range fills {
		if f.MidAfter != want[i] {
			t.Errorf("fill %d mid_after %f want %f", i, f.MidAfter, want[i])
		}
	}
}

func TestAnnotateWritesOnce(t *testing.T) {
	mids := []float64{100, 101}
	fills := []order.Fill{{Step: 0, Side: order.Buy, Price: 99.5, Size: 1, MidBefore: 100}}
	if err := Annotate(fills, mids, 1); err != nil {
		t.Fatalf("first annotate: %v", err)
	}
	if err := Annotate(fills, mids, 1); !errors.Is(err, ErrAlreadyAnnotated) {
		t.Fatalf("expected ErrAlreadyAnnotated, got %v", err)
	}
}

func TestAnnotateDisabled(t *testing.T) {
	fills := []order.Fill{{Step: 0, Side: order.Buy, Price: 99.5, Size: 1, MidBefore: 100}}
	if err := Annotate(fills, []float64{100, 101}, 0); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if fills[0].MidAfter != 0 {
		t.Fatalf("horizon 0 should leave mid_after unset")
	}
	if err := Annotate(fills, nil, 5); err != nil || fills[0].MidAfter != 0 {
		t.Fatalf("empty mids should be a no-op")
	}
}

func TestAnalyze(t *testing.T) {
	fills := []order.Fill{
		// 买入后上涨：无逆向选择
		{Step: 0, Side: order.Buy, Price: 99, Size: 1, MidBefore: 100, MidAfter: 101},
		// 卖出后上涨：逆向选择
		{Step: 1, Side: order.Sell, Price: 101, Size: 1, MidBefore: 100, MidAfter: 102},
		// 未标注
		{Step: 2, Side: order.Buy, Price: 99, Size: 1},
	}
	stats := Analyze(fills)
	if stats.TotalFills != 3 || stats.AnalyzedFills != 2 {
		t.Fatalf("unexpected counts %+v", stats)
	}
	if stats.AdverseSelectionRate != 0.5 {
		t.Errorf("adverse rate %f", stats.AdverseSelectionRate)
	}
	// adverse: -1, +2 -> 0.5
	if stats.AvgAdverseSelection != 0.5 {
		t.Errorf("avg adverse %f", stats.AvgAdverseSelection)
	}
	// realized: 101-99=2, 101-102=-1 -> 0.5
	if stats.AvgRealizedSpread != 0.5 {
		t.Errorf("avg realized %f", stats.AvgRealizedSpread)
	}
	if stats.AvgQuotedHalfSpread != 1 {
		t.Errorf("avg quoted %f", stats.AvgQuotedHalfSpread)
	}
}

func TestAnalyzeEmpty(t *testing.T) {
	if stats := Analyze(nil); stats != (Stats{}) {
		t.Fatalf("expected zero stats, got %+v", stats)
	}
}
