package notifier

import (
	"fmt"
	"strings"

	"FundSentinel/internal/model"
)

// FormatCycleReport renders a cycle outcome for the operator channel.
// Asset symbols are optional; without them weights render as raw bps.
func FormatCycleReport(assets []string, res model.CycleResult) string {
	var b strings.Builder

	switch res.Status {
	case model.CycleExecuted:
		b.WriteString("✅ <b>Rebalance executed</b>\n\n")
		fmt.Fprintf(&b, "New target: %s\n", formatWeights(assets, res.Submitted))
		fmt.Fprintf(&b, "Max drift: %s\n", formatBPS(res.MaxDeviationBPS))
		fmt.Fprintf(&b, "Tx: <code>%s</code>\n", res.TxRef)
	case model.CycleFailed:
		b.WriteString("❌ <b>Rebalance cycle failed</b>\n\n")
		if res.Submitted != nil {
			fmt.Fprintf(&b, "Intended target: %s\n", formatWeights(assets, res.Submitted))
		}
		if res.Err != nil {
			fmt.Fprintf(&b, "Error: %s\n", res.Err)
		}
	default:
		fmt.Fprintf(&b, "ℹ️ <b>Cycle skipped</b> (%s)\n", res.SkipReason)
	}

	if res.SignalID != "" {
		fmt.Fprintf(&b, "Signal: <code>%s</code>\n", res.SignalID)
	}
	if res.FallbackApplied {
		b.WriteString("⚠️ Signal weights were invalid, fallback allocation used\n")
	}
	return b.String()
}

func formatWeights(assets []string, w model.WeightVector) string {
	parts := make([]string, len(w))
	for i, v := range w {
		pct := float64(v) / 100.0
		if i < len(assets) {
			parts[i] = fmt.Sprintf("%s %.1f%%", assets[i], pct)
		} else {
			parts[i] = fmt.Sprintf("%.1f%%", pct)
		}
	}
	return strings.Join(parts, " / ")
}

func formatBPS(bps int64) string {
	return fmt.Sprintf("%d bps (%.2f%%)", bps, float64(bps)/100.0)
}
