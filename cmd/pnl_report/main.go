package main

import (
	"flag"
	"fmt"
	"os"

	"microstructure-lab/order"
	"microstructure-lab/posttrade"
	"microstructure-lab/report"
)

type stats struct {
	trades       int
	buyNotional  float64
	sellNotional float64
	fees         float64
	byLiquidity  map[order.Liquidity]int
}

func (s *stats) add(f order.Fill) {
	if f.Size <= 0 || f.Price <= 0 {
		return
	}
	s.trades++
	switch f.Side {
	case order.Buy:
		s.buyNotional += f.Notional()
	case order.Sell:
		s.sellNotional += f.Notional()
	}
	s.fees += f.Fee
	s.byLiquidity[f.Liquidity]++
}

// 读取 cmd/backtest -output 导出的结果文档，按方向与流动性统计成交。
func main() {
	path := flag.String("report", "run.json", "结果文档路径")
	fromStep := flag.Int("from", 0, "仅统计此步之后的成交")
	flag.Parse()

	doc, err := report.ReadFile(*path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "无法读取结果文档: %v\n", err)
		os.Exit(1)
	}

	st := stats{byLiquidity: make(map[order.Liquidity]int)}
	var fills []order.Fill
	for _, f := range doc.OrderFills() {
		if f.Step < *fromStep {
			continue
		}
		st.add(f)
		fills = append(fills, f)
	}
	post := posttrade.Analyze(fills)

	fmt.Printf("结果文档: %s (run_id=%s)\n", *path, doc.RunID)
	if *fromStep > 0 {
		fmt.Printf("起始步: %d\n", *fromStep)
	}
	fmt.Printf("成交笔数: %d (maker=%d taker=%d)\n", st.trades, st.byLiquidity[order.Maker], st.byLiquidity[order.Taker])
	fmt.Printf("买单名义: %.4f\n", st.buyNotional)
	fmt.Printf("卖单名义: %.4f\n", st.sellNotional)
	fmt.Printf("净成交差额: %.4f\n", st.sellNotional-st.buyNotional)
	fmt.Printf("手续费: %.6f\n", st.fees)
	fmt.Printf("已标注成交: %d/%d\n", post.AnalyzedFills, post.TotalFills)
	fmt.Printf("逆向选择占比: %.2f%%\n", post.AdverseSelectionRate*100)
	fmt.Printf("平均逆向选择: %.6f\n", post.AvgAdverseSelection)
	fmt.Printf("平均实现价差: %.6f\n", post.AvgRealizedSpread)
	fmt.Printf("平均报价半价差: %.6f\n", post.AvgQuotedHalfSpread)
	fmt.Println("---")
	if err := report.WriteSummary(os.Stdout, doc.Summary); err != nil {
		fmt.Fprintf(os.Stderr, "输出汇总失败: %v\n", err)
		os.Exit(1)
	}
}
