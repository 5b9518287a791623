package pdfreflow

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Placeholder tokens are framed by STX/ETX control bytes. pdfium never emits
// C0 control characters in extracted text, so tokens cannot collide with
// document content, and a leak check is a single ContainsAny call.
const (
	tokenStart = "\x02"
	tokenEnd   = "\x03"

	// paragraphToken reversibly marks a paragraph boundary while single
	// line breaks are collapsed.
	paragraphToken = tokenStart + "PB" + tokenEnd
)

var (
	// Inline links inserted by the matcher are protected whole so neither
	// the visible text nor the target is touched by later stages.
	markdownLinkPattern = regexp.MustCompile(`\[[^\]]*\]\([^)\s]+\)`)
	urlPattern          = regexp.MustCompile(`(?:https?://|www\.)[^\s()<>\[\]]+`)
	emailPattern        = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)

	// A hyphen directly followed by a line break, with letters on both
	// sides, is an end-of-line word split.
	hyphenBreakPattern = regexp.MustCompile(`(\p{L})-\n(\p{L})`)

	paragraphBreakPattern = regexp.MustCompile(`\n{2,}`)

	horizontalSpacePattern = regexp.MustCompile(`[ \t]{2,}`)
	lineEdgeSpacePattern   = regexp.MustCompile(`[ \t]*\n[ \t]*`)
	blankLinePattern       = regexp.MustCompile(`\n{3,}`)

	spaceBeforePunctPattern       = regexp.MustCompile(` +([,!?;:])`)
	missingSpaceAfterPunctPattern = regexp.MustCompile(`([,!?;:])(\p{L})`)
)

// spanProtector records protected substrings and hands out unique reversible
// tokens for them. Every token handed out must be restored before
// normalization completes.
type spanProtector struct {
	spans []string
}

func (p *spanProtector) token(i int) string {
	return tokenStart + "PF" + strconv.Itoa(i) + tokenEnd
}

// protect replaces every match of pattern with a fresh token.
func (p *spanProtector) protect(text string, pattern *regexp.Regexp) string {
	return pattern.ReplaceAllStringFunc(text, func(span string) string {
		p.spans = append(p.spans, span)
		return p.token(len(p.spans) - 1)
	})
}

// restore substitutes every recorded span back verbatim.
func (p *spanProtector) restore(text string) string {
	for i, span := range p.spans {
		text = strings.Replace(text, p.token(i), span, 1)
	}
	return text
}

// normalizeText turns raw, line-wrapped page text into flowing paragraphs.
// The stages form a fixed ordered pipeline; each consumes only the previous
// stage's output. URLs, e-mail addresses and inline markdown links are
// protected up front and restored verbatim at the end, which is what allows
// the whitespace and punctuation stages in between to be aggressive.
func normalizeText(text string) (string, error) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	p := &spanProtector{}
	text = p.protect(text, markdownLinkPattern)
	text = p.protect(text, urlPattern)
	text = p.protect(text, emailPattern)

	text = repairHyphenation(text)
	text = markParagraphs(text)
	text = collapseLineBreaks(text)
	text = respace(text)
	text = restoreParagraphs(text)
	text = collapseWhitespace(text)
	text = spacePunctuation(text)

	text = p.restore(text)
	if strings.ContainsAny(text, tokenStart+tokenEnd) {
		return "", ErrPlaceholderLeak
	}

	return strings.TrimSpace(text), nil
}

// repairHyphenation rejoins words split by end-of-line hyphenation.
func repairHyphenation(text string) string {
	return hyphenBreakPattern.ReplaceAllString(text, "$1$2")
}

// markParagraphs turns runs of two or more line breaks into a reversible
// paragraph placeholder. Must run before single line breaks are collapsed,
// or paragraph structure is destroyed.
func markParagraphs(text string) string {
	return paragraphBreakPattern.ReplaceAllString(text, paragraphToken)
}

// collapseLineBreaks converts the remaining single line breaks, which are
// mid-paragraph column wraps, into spaces.
func collapseLineBreaks(text string) string {
	return strings.ReplaceAll(text, "\n", " ")
}

// respaceExceptions lists word fragments that legitimately end at an internal
// lowercase-to-uppercase boundary ("McDonald", "iPhone", "eBay"). The rule
// set is a curated allowlist: broaden it only together with a regression
// test, never by loosening the boundary rule itself.
var respaceExceptions = map[string]bool{
	"Mc":  true,
	"Mac": true,
	"i":   true,
	"e":   true,
}

// respace inserts a missing space between a lowercase letter and an
// immediately following uppercase letter, and between terminal sentence
// punctuation and a following uppercase letter. Decimal numbers are immune
// (they are never followed by an uppercase letter) and URLs were protected
// before this stage runs.
func respace(text string) string {
	runes := []rune(text)
	var b strings.Builder
	b.Grow(len(text) + 16)

	for i, r := range runes {
		b.WriteRune(r)
		if i+1 >= len(runes) || !unicode.IsUpper(runes[i+1]) {
			continue
		}
		switch {
		case unicode.IsLower(r):
			if !respaceExceptions[wordFragmentEndingAt(runes, i)] {
				b.WriteByte(' ')
			}
		case r == '.' || r == '!' || r == '?':
			b.WriteByte(' ')
		}
	}

	return b.String()
}

// wordFragmentEndingAt returns the letter run that ends at index end,
// the context checked against the re-spacing allowlist.
func wordFragmentEndingAt(runes []rune, end int) string {
	start := end
	for start > 0 && (unicode.IsLetter(runes[start-1]) || runes[start-1] == '\'') {
		start--
	}
	return string(runes[start : end+1])
}

// restoreParagraphs converts paragraph placeholders back to double line
// breaks.
func restoreParagraphs(text string) string {
	return strings.ReplaceAll(text, paragraphToken, "\n\n")
}

// collapseWhitespace reduces runs of horizontal whitespace to one space,
// strips spaces around line breaks, and caps consecutive blank lines at one.
func collapseWhitespace(text string) string {
	text = horizontalSpacePattern.ReplaceAllString(text, " ")
	text = lineEdgeSpacePattern.ReplaceAllString(text, "\n")
	text = blankLinePattern.ReplaceAllString(text, "\n\n")
	return text
}

// spacePunctuation removes spaces immediately before `,!?;:` and ensures
// exactly one space after such punctuation when a letter follows. Digits are
// exempt so decimal and grouped numbers survive; colons inside URLs were
// protected before this stage runs.
func spacePunctuation(text string) string {
	text = spaceBeforePunctPattern.ReplaceAllString(text, "$1")
	text = missingSpaceAfterPunctPattern.ReplaceAllString(text, "$1 $2")
	return text
}
