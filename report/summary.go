package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// 计数类指标按整数打印
var countKeys = map[string]bool{
	"fills":       true,
	"maker_fills": true,
	"taker_fills": true,
	"steps":       true,
}

// WriteSummary 按 key 排序打印汇总表，数字带千分位。
func WriteSummary(w io.Writer, summary map[string]float64) error {
	keys := make([]string, 0, len(summary))
	width := 0
	for k := range summary {
		keys = append(keys, k)
		if len(k) > width {
			width = len(k)
		}
	}
	sort.Strings(keys)

	p := message.NewPrinter(language.English)
	for _, k := range keys {
		label := k + strings.Repeat(" ", width-len(k))
		var line string
		if countKeys[k] {
			line = p.Sprintf("%s  %d\n", label, int64(summary[k]))
		} else {
			line = p.Sprintf("%s  %.6f\n", label, summary[k])
		}
		if _, err := io.WriteString(w, line); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
	}
	return nil
}
