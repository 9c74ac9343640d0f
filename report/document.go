// Package report builds and reads the exported result document of a run.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"

	"microstructure-lab/config"
	"microstructure-lab/order"
	"microstructure-lab/sim"
)

// Series 按步对齐的数值序列。
type Series struct {
	PnL       []float64 `json:"pnl"`
	Inventory []float64 `json:"inventory"`
	Mid       []float64 `json:"mid"`
	Spread    []float64 `json:"spread"`
}

// FillRecord 导出的成交。派生指标只在 mid_before/mid_after 均已设置时出现。
type FillRecord struct {
	order.Fill
	AdverseSelectionCost *float64 `json:"adverse_selection_cost,omitempty"`
	RealizedSpread       *float64 `json:"realized_spread,omitempty"`
}

// Document 一次回测的完整导出，可无损往返。
type Document struct {
	RunID   string             `json:"run_id"`
	Summary map[string]float64 `json:"summary"`
	Series  Series             `json:"series"`
	Fills   []FillRecord       `json:"fills"`
	Config  config.AppConfig   `json:"config"`
}

// New 基于回测结果和原始配置构建文档，生成新的 run id。
func New(res *sim.Result, cfg config.AppConfig) *Document {
	doc := &Document{
		RunID:   uuid.NewString(),
		Summary: res.Summary,
		Series: Series{
			PnL:       res.PnL,
			Inventory: res.Inventory,
			Mid:       res.Mid,
			Spread:    res.Spread,
		},
		Fills:  make([]FillRecord, 0, len(res.Fills)),
		Config: cfg,
	}
	if doc.Summary == nil {
		doc.Summary = map[string]float64{}
	}
	for _, f := range res.Fills {
		doc.Fills = append(doc.Fills, NewFillRecord(f))
	}
	return doc
}

func NewFillRecord(f order.Fill) FillRecord {
	rec := FillRecord{Fill: f}
	if f.Annotated() {
		cost, realized := f.AdverseSelectionCost(), f.RealizedSpread()
		rec.AdverseSelectionCost = &cost
		rec.RealizedSpread = &realized
	}
	return rec
}

// OrderFills 还原为成交记录。
func (d *Document) OrderFills() []order.Fill {
	out := make([]order.Fill, 0, len(d.Fills))
	for _, r := range d.Fills {
		out = append(out, r.Fill)
	}
	return out
}

// Write 以缩进 JSON 写出。
func (d *Document) Write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

// WriteFile 写入文件，已存在时覆盖。
func (d *Document) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if err := d.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Read 解析文档。
func Read(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	if _, err := uuid.Parse(doc.RunID); err != nil {
		return nil, fmt.Errorf("decode report: run_id: %w", err)
	}
	return &doc, nil
}

func ReadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open report: %w", err)
	}
	defer f.Close()
	return Read(f)
}
