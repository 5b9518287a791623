package pdfreflow

import "slices"

// Rect represents a bounding box in page coordinates.
type Rect struct {
	X0 float64 // Left
	Y0 float64 // Top (after conversion from PDF coordinates)
	X1 float64 // Right
	Y1 float64 // Bottom (after conversion from PDF coordinates)
}

// Width returns the width of the rectangle.
func (r Rect) Width() float64 {
	return r.X1 - r.X0
}

// Height returns the height of the rectangle.
func (r Rect) Height() float64 {
	return r.Y1 - r.Y0
}

// CenterY returns the vertical center of the rectangle.
func (r Rect) CenterY() float64 {
	return (r.Y0 + r.Y1) / 2
}

// TextRun is a positioned fragment of extracted text, supplied by the
// extraction layer in reading order. Fragments carry their own trailing
// whitespace where the source had one.
type TextRun struct {
	Text string
	Box  Rect
}

// Baseline returns the Y-coordinate shared by runs on the same visual line.
func (r TextRun) Baseline() float64 {
	return r.Box.Y1
}

// LinkAnnotation is a link rectangle with its target URL.
type LinkAnnotation struct {
	Box Rect
	URL string
}

// PageContent holds one page's raw extraction output: positioned text runs
// plus the page's link annotations. Immutable once extracted.
type PageContent struct {
	Index int
	Runs  []TextRun
	Links []LinkAnnotation
}

// PageText is the reflowed text block produced for one page.
type PageText struct {
	Index int
	Text  string
}

// Document is the ordered set of reflowed pages plus title metadata,
// the input to markdown assembly.
type Document struct {
	Title      string
	SourceName string
	Pages      []PageText
}

// listMarkers are the bullet glyphs recognised at the start of a paragraph.
var listMarkers = []rune{'•', '◦', '▪', '▫', '–', '-', '*', '→'}

// isListMarker checks if the word looks like a list marker: a bullet glyph,
// or a number followed by a period or closing parenthesis.
func isListMarker(word string) bool {
	if len(word) == 0 {
		return false
	}

	runes := []rune(word)
	firstChar := runes[0]

	if slices.Contains(listMarkers, firstChar) {
		return true
	}

	if len(runes) >= 2 {
		if firstChar >= '0' && firstChar <= '9' {
			lastChar := runes[len(runes)-1]
			if lastChar == '.' || lastChar == ')' {
				return true
			}
		}
	}

	return false
}
