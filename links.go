package pdfreflow

import "strings"

// linkStats counts how each annotation on a page was resolved.
type linkStats struct {
	Matched  int
	Orphaned int
}

// matchLinks fuses a page's link annotations with its reconstructed text,
// rewriting the visible link text into inline markdown links. It must run on
// the raw reconstructed text, before normalization, so that the inserted
// markdown syntax is protected by the normalizer.
//
// A run overlaps an annotation when its bounding box intersects the
// annotation rectangle expanded by tolerance on all four sides; the tolerance
// absorbs sub-unit discrepancies between text metrics and annotation
// geometry. Only the first literal occurrence of the visible text is
// rewritten; repeated identical text elsewhere on the page stays unlinked.
// An annotation overlapping no run is never dropped: it is appended as an
// orphan [Link](url) line at the end of the page.
func matchLinks(text string, runs []TextRun, links []LinkAnnotation, tolerance float64) (string, linkStats) {
	var stats linkStats

	for _, link := range links {
		hitBox := expandRect(link.Box, tolerance)

		var visible strings.Builder
		for _, run := range runs {
			if rectsOverlap(run.Box, hitBox) {
				visible.WriteString(run.Text)
			}
		}

		linkText := strings.TrimSpace(visible.String())
		if linkText != "" {
			if idx := strings.Index(text, linkText); idx >= 0 {
				text = text[:idx] + "[" + linkText + "](" + link.URL + ")" + text[idx+len(linkText):]
				stats.Matched++
				continue
			}
		}

		// Image-only link or geometry that lines up with no extracted text.
		text = strings.TrimRight(text, "\n") + "\n[Link](" + link.URL + ")"
		stats.Orphaned++
	}

	return text, stats
}
