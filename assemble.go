package pdfreflow

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ivanvanderbyl/markdown"
)

// assembleDocument joins the reflowed pages into the final markdown string:
// a title line derived from the source name, an italic provenance caption,
// then the body. Multi-page documents get a page heading before each page's
// paragraphs; single-page documents get the paragraphs alone.
func assembleDocument(doc Document) (string, error) {
	var buf bytes.Buffer
	md := markdown.NewMarkdown(&buf)

	md.H1(doc.Title)
	md.LF()
	md.PlainText(markdown.Italic("Converted from " + doc.SourceName))
	md.LF()

	multiPage := len(doc.Pages) > 1
	for _, page := range doc.Pages {
		if multiPage {
			md.H2(fmt.Sprintf("Page %d", page.Index+1))
			md.LF()
		}
		for _, para := range splitParagraphs(page.Text) {
			md.PlainText(para)
			md.LF()
		}
	}

	if err := md.Build(); err != nil {
		return "", &ConversionError{Stage: StageAssemble, Err: err}
	}

	return buf.String(), nil
}

// splitParagraphs splits normalized page text on paragraph breaks. A
// paragraph beginning with a recognized list marker is preserved verbatim as
// a single line; all others are re-wrapped onto one line. No deeper
// outline or indentation reconstruction is attempted.
func splitParagraphs(text string) []string {
	var paragraphs []string
	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		firstWord, _, _ := strings.Cut(para, " ")
		if !isListMarker(firstWord) {
			para = strings.Join(strings.Fields(para), " ")
		}
		paragraphs = append(paragraphs, para)
	}
	return paragraphs
}

// deriveTitle derives the document title from the source file name.
func deriveTitle(sourceName string) string {
	base := filepath.Base(sourceName)
	title := strings.TrimSuffix(base, filepath.Ext(base))
	if title == "" || title == "." {
		return "Document"
	}
	return title
}
