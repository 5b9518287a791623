package pdfreflow

import (
	"math"
	"strings"
)

// baselineTolerance is the maximum baseline difference, in layout units,
// between runs considered to be on the same visual line.
const baselineTolerance = 0.5

// reconstructPage joins a page's text runs into a raw, line-broken text
// block. Runs sharing the current baseline are appended directly with no
// separator (fragments already carry trailing whitespace); a baseline change
// terminates the current line with a single line break. Extraction order is
// trusted as reading order and runs are not re-sorted.
func reconstructPage(runs []TextRun) string {
	var b strings.Builder
	var baseline float64
	haveBaseline := false

	for _, run := range runs {
		if haveBaseline && math.Abs(run.Baseline()-baseline) > baselineTolerance {
			b.WriteByte('\n')
		}
		b.WriteString(run.Text)
		baseline = run.Baseline()
		haveBaseline = true
	}

	return b.String()
}
