// Package filing extracts key sections from SEC 10-K HTML filings.
//
// The extractor is TOC-aware: it locates the table-of-contents region
// first and only considers section headers that appear after it,
// preferring visually bold blocks over plain-text mentions of an item
// number. Output is a JSON-ready payload with ticker and period
// metadata, consumed downstream by the chunk/embed/load stage.
package filing

import (
	"html"
	"regexp"
	"strings"
)

var (
	zeroWidthRe  = regexp.MustCompile("[\u200B-\u200F\u2028\u2029]")
	carriageRe   = regexp.MustCompile("\r\n?")
	hspaceRunRe  = regexp.MustCompile(`[^\S\n]+`)
	newlineRunRe = regexp.MustCompile(`\n{3,}`)

	yearRe = regexp.MustCompile(`\b(19\d{2}|20\d{2}|21\d{2})\b`)

	fiscalYearEndedRe = regexp.MustCompile(
		`(?i)for\s+the\s+fiscal\s+year\s+ended\s+([A-Za-z]+\s+\d{1,2},\s+\d{4})`)
	annualPeriodEndedRe = regexp.MustCompile(
		`(?i)for\s+the\s+(?:annual|year(?:ly)?)\s+period\s+ended\s+([A-Za-z]+\s+\d{1,2},\s+\d{4})`)
)

// Normalize cleans raw filing text for downstream NLP/storage:
// HTML entities are decoded, non-breaking spaces become regular
// spaces, zero-width and line/paragraph separator characters are
// stripped, carriage-return variants fold to "\n", runs of horizontal
// whitespace collapse to a single space, and runs of three or more
// newlines collapse to exactly two. The result is trimmed.
//
// Normalize is idempotent: applying it to already-normalized text is
// a no-op.
func Normalize(text string) string {
	cleaned := html.UnescapeString(text)
	cleaned = strings.ReplaceAll(cleaned, "\u00a0", " ")
	cleaned = zeroWidthRe.ReplaceAllString(cleaned, "")
	cleaned = carriageRe.ReplaceAllString(cleaned, "\n")
	cleaned = hspaceRunRe.ReplaceAllString(cleaned, " ")
	cleaned = newlineRunRe.ReplaceAllString(cleaned, "\n\n")
	return strings.TrimSpace(cleaned)
}

// ExtractYear returns the first 4-digit year token (1900-2199) found
// in text, or "" when there is none.
func ExtractYear(text string) string {
	if text == "" {
		return ""
	}
	m := yearRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[1]
}

// ResolvePeriod picks the filing period year, best effort. An explicit
// override wins; otherwise the document plain text is searched for a
// "for the fiscal year ended <Month DD, YYYY>" style phrase. The year
// is taken from whichever candidate is available first, so an override
// without a year token resolves to "" rather than falling through.
func ResolvePeriod(override, plainText string) string {
	source := override
	if source == "" {
		if m := fiscalYearEndedRe.FindStringSubmatch(plainText); m != nil {
			source = m[1]
		} else if m := annualPeriodEndedRe.FindStringSubmatch(plainText); m != nil {
			source = m[1]
		}
	}
	return ExtractYear(source)
}
