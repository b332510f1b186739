// internal/report/report.go
package report

import (
	"fmt"
	"strings"

	"github.com/tamzrod/rtu-poller/internal/decode"
	"github.com/tamzrod/rtu-poller/internal/poller"
)

// Render produces the human-readable report for one device poll.
// Pure string building. No IO.
func Render(res poller.DeviceResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "=== Device: %s ===\n", res.Device)

	if res.Err != nil {
		fmt.Fprintf(&b, "UNREACHABLE: %v\n", res.Err)
		return b.String()
	}

	for _, out := range res.Outcomes {
		fmt.Fprintf(&b, "%-15s (addr %d) -> %s\n", out.Register, out.Address, renderOutcome(out))
	}

	return b.String()
}

// RenderAll concatenates per-device reports in result order.
func RenderAll(results []poller.DeviceResult) string {
	var b strings.Builder
	for i, res := range results {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(Render(res))
	}
	return b.String()
}

func renderOutcome(out poller.Outcome) string {
	if out.Err != nil {
		return fmt.Sprintf("ERROR: %v", out.Err)
	}

	switch out.Value.Type {
	case decode.Word:
		return fmt.Sprintf("%d", out.Value.Word)
	case decode.Float:
		return fmt.Sprintf("%.2f", out.Value.Float)
	case decode.Bits:
		return bitString(out.Value.Bits)
	default:
		return fmt.Sprintf("ERROR: unrenderable type %s", out.Value.Type)
	}
}

func bitString(bits []bool) string {
	var b strings.Builder
	b.Grow(len(bits))
	for _, bit := range bits {
		if bit {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}
