package pdfreflow

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssembleDocument_TitleAndCaption(t *testing.T) {
	doc := Document{
		Title:      "quarterly-report",
		SourceName: "quarterly-report.pdf",
		Pages:      []PageText{{Index: 0, Text: "Body text."}},
	}

	out, err := assembleDocument(doc)
	require.NoError(t, err)

	assert.Contains(t, out, "# quarterly-report")
	assert.Contains(t, out, "*Converted from quarterly-report.pdf*")
	assert.Contains(t, out, "Body text.")
}

func TestAssembleDocument_SinglePageHasNoPageMarker(t *testing.T) {
	doc := Document{
		Title:      "memo",
		SourceName: "memo.pdf",
		Pages:      []PageText{{Index: 0, Text: "Only page."}},
	}

	out, err := assembleDocument(doc)
	require.NoError(t, err)

	assert.NotContains(t, out, "## Page")
}

func TestAssembleDocument_MultiPageMarkers(t *testing.T) {
	doc := Document{
		Title:      "report",
		SourceName: "report.pdf",
		Pages: []PageText{
			{Index: 0, Text: "First."},
			{Index: 1, Text: "Second."},
			{Index: 2, Text: "Third."},
		},
	}

	out, err := assembleDocument(doc)
	require.NoError(t, err)

	// Exactly three page markers, in page order.
	assert.Equal(t, 3, strings.Count(out, "## Page "))
	p1 := strings.Index(out, "## Page 1")
	p2 := strings.Index(out, "## Page 2")
	p3 := strings.Index(out, "## Page 3")
	require.True(t, p1 >= 0 && p2 >= 0 && p3 >= 0)
	assert.Less(t, p1, p2)
	assert.Less(t, p2, p3)
}

func TestAssembleDocument_ParagraphsSeparated(t *testing.T) {
	doc := Document{
		Title:      "doc",
		SourceName: "doc.pdf",
		Pages:      []PageText{{Index: 0, Text: "First paragraph.\n\nSecond paragraph."}},
	}

	out, err := assembleDocument(doc)
	require.NoError(t, err)

	assert.Contains(t, out, "First paragraph.")
	assert.Contains(t, out, "Second paragraph.")
	// Never merged onto one line.
	assert.NotContains(t, out, "First paragraph. Second paragraph.")
}

func TestSplitParagraphs_ListMarkerVerbatim(t *testing.T) {
	paras := splitParagraphs("Intro text.\n\n- first item\n\n2. second item\n\n3) third item")

	require.Len(t, paras, 4)
	assert.Equal(t, "Intro text.", paras[0])
	assert.Equal(t, "- first item", paras[1])
	assert.Equal(t, "2. second item", paras[2])
	assert.Equal(t, "3) third item", paras[3])
}

func TestSplitParagraphs_DropsEmpty(t *testing.T) {
	paras := splitParagraphs("a\n\n\n\nb\n\n")
	assert.Equal(t, []string{"a", "b"}, paras)
}

func TestDeriveTitle(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{"report.pdf", "report"},
		{"dir/nested/statement.PDF", "statement"},
		{"no-extension", "no-extension"},
		{"", "Document"},
		{".pdf", "Document"},
	}

	for _, tt := range tests {
		if got := deriveTitle(tt.source); got != tt.want {
			t.Errorf("deriveTitle(%q) = %q, want %q", tt.source, got, tt.want)
		}
	}
}
