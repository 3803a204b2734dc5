package filing

import (
	"regexp"
	"unicode/utf8"
)

// tocCutoff returns the index of the last block belonging to the
// table-of-contents region, or -1 when the document has no TOC (every
// header candidate is then eligible).
//
// Filings occasionally carry more than one TOC-like heading; the last
// match is taken as the most specific. From there the region extends
// through any contiguous run of short "Item N" style lines within the
// lookahead window, and stops at the first block that breaks the
// pattern once the region has grown past the TOC heading itself.
// A heading-flagged block matching a full target header always breaks
// the run: that is the real section start, not a TOC line.
func (e *Extractor) tocCutoff(blocks []TextBlock) int {
	toc := -1
	for i, b := range blocks {
		if e.cfg.TOCPhrase.MatchString(b.Text) {
			toc = i
		}
	}
	if toc == -1 {
		return -1
	}

	end := toc
	limit := toc + e.cfg.TOCLookahead
	if limit > len(blocks) {
		limit = len(blocks)
	}
	for j := toc + 1; j < limit; j++ {
		if e.isTargetHeader(blocks[j]) {
			break
		}
		text := blocks[j].Text
		if e.cfg.GenericItem.MatchString(text) && utf8.RuneCountInString(text) < e.cfg.TOCEntryMaxLen {
			end = j
			continue
		}
		if end > toc {
			break
		}
	}
	return end
}

// isTargetHeader reports whether a block is a heading-flagged match of
// one of the configured section headers.
func (e *Extractor) isTargetHeader(b TextBlock) bool {
	return b.IsHeading &&
		(e.cfg.MDA.Header.MatchString(b.Text) || e.cfg.Risk.Header.MatchString(b.Text))
}

// headerIndex finds the first block after the TOC cutoff matching the
// section header pattern. Heading-flagged candidates win over earlier
// plain-text ones, because in-prose cross-references like "see Item 7"
// are common; with no heading-flagged candidate at all, the first
// match in document order is used. The second return is false when
// nothing matches.
func headerIndex(blocks []TextBlock, header *regexp.Regexp, cutoff int) (int, bool) {
	var candidates []int
	for i, b := range blocks {
		if i <= cutoff {
			continue
		}
		if header.MatchString(b.Text) {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		return 0, false
	}

	for _, idx := range candidates {
		if blocks[idx].IsHeading {
			return idx, true
		}
	}
	return candidates[0], true
}

// boundaryIndex finds the first block after start that is both
// heading-flagged and matches the boundary pattern. Requiring the
// heading flag keeps an in-prose mention of the next item number from
// truncating the section. Returns len(blocks) when no boundary exists,
// so the section runs to document end.
func boundaryIndex(blocks []TextBlock, start int, boundary *regexp.Regexp) int {
	for i := start + 1; i < len(blocks); i++ {
		if blocks[i].IsHeading && boundary.MatchString(blocks[i].Text) {
			return i
		}
	}
	return len(blocks)
}
