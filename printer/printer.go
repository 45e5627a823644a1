// Package printer formats decoded LPC cycles as report lines.
package printer

import (
	"fmt"
	"strings"

	"lpcdec/lpc"
)

// FormatCycleLine renders one decoded cycle as a report line:
//
//	42: Mem Write 0x12340000: 0xab
//
// The direction column is padded so addresses line up across directions.
// When the cycle carries a phase history the traversed chain is appended;
// aborted cycles get an <ABORT> marker.
func FormatCycleLine(cyc *lpc.DecodedCycle) string {
	var sb strings.Builder

	dir := "Read "
	if cyc.Dir == lpc.DirectionWrite {
		dir = "Write"
	}
	sb.WriteString(fmt.Sprintf("%d: %s %s 0x%04x: 0x%02x ", cyc.Seq, cyc.Type, dir, cyc.Addr, cyc.Data))

	if len(cyc.Phases) > 0 {
		sb.WriteString(formatPhaseChain(cyc.Phases))
		if cyc.Completion == lpc.CompletionAborted {
			sb.WriteString(" -> <ABORT>")
		}
	} else if cyc.Completion == lpc.CompletionAborted {
		sb.WriteString("<ABORT>")
	}

	return sb.String()
}

func formatPhaseChain(phases []lpc.Phase) string {
	parts := make([]string, len(phases))
	for i, p := range phases {
		parts[i] = p.String()
	}
	return strings.Join(parts, " -> ")
}
