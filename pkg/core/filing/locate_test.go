package filing

import "testing"

func block(text string, heading bool) TextBlock {
	return TextBlock{Text: text, IsHeading: heading}
}

func TestTOCCutoffAbsent(t *testing.T) {
	blocks := []TextBlock{
		block("ANNUAL REPORT", true),
		block("Item 7. Management's Discussion and Analysis", true),
	}
	if got := NewDefault().tocCutoff(blocks); got != -1 {
		t.Errorf("cutoff = %d, want -1 when no TOC phrase exists", got)
	}
}

func TestTOCCutoffExtendsThroughItemLines(t *testing.T) {
	blocks := []TextBlock{
		block("Company Overview", false),
		block("Table of Contents", true),
		block("Item 1. Business", false),
		block("Item 1A. Risk Factors", false),
		block("Item 7. Management's Discussion and Analysis", false),
		block("PART I", true),
		block("Item 7. Management's Discussion and Analysis", true),
	}
	// Extension swallows the short non-heading TOC entries (including
	// the item 7 line) and stops at "PART I".
	if got := NewDefault().tocCutoff(blocks); got != 4 {
		t.Errorf("cutoff = %d, want 4", got)
	}
}

func TestTOCCutoffPrefersLastTOCMarker(t *testing.T) {
	blocks := []TextBlock{
		block("Table of Contents", false),
		block("prose in between", false),
		block("TABLE  OF  CONTENTS", true),
		block("Item 1. Business", false),
		block("body text", false),
	}
	if got := NewDefault().tocCutoff(blocks); got != 3 {
		t.Errorf("cutoff = %d, want 3", got)
	}
}

func TestTOCCutoffStopsAtRealSectionHeader(t *testing.T) {
	blocks := []TextBlock{
		block("TABLE OF CONTENTS", true),
		block("Item 7.", false),
		block("Item 1A.", false),
		block("Item 7. Management's Discussion and Analysis", true),
		block("Revenue grew 10%.", false),
	}
	// The heading-flagged full header terminates the TOC run even
	// though it also reads as a short "Item N" line.
	if got := NewDefault().tocCutoff(blocks); got != 2 {
		t.Errorf("cutoff = %d, want 2", got)
	}
}

func TestHeaderIndexPrefersHeading(t *testing.T) {
	cfg := DefaultConfig()
	blocks := []TextBlock{
		block("see Item 7. Management's Discussion and Analysis for details", false),
		block("Item 7. Management's Discussion and Analysis", true),
	}
	idx, found := headerIndex(blocks, cfg.MDA.Header, -1)
	if !found || idx != 1 {
		t.Errorf("headerIndex = (%d, %v), want (1, true)", idx, found)
	}
}

func TestHeaderIndexFallbackFirstCandidate(t *testing.T) {
	cfg := DefaultConfig()
	blocks := []TextBlock{
		block("intro", false),
		block("Item 7 Management's Discussion and Analysis", false),
		block("Item 7 - Management's Discussion and Analysis", false),
	}
	idx, found := headerIndex(blocks, cfg.MDA.Header, -1)
	if !found || idx != 1 {
		t.Errorf("headerIndex = (%d, %v), want (1, true)", idx, found)
	}
}

func TestHeaderIndexRespectsCutoff(t *testing.T) {
	cfg := DefaultConfig()
	blocks := []TextBlock{
		block("Item 1A. Risk Factors", true),
		block("Item 1A: Risk Factors", true),
	}
	idx, found := headerIndex(blocks, cfg.Risk.Header, 0)
	if !found || idx != 1 {
		t.Errorf("headerIndex = (%d, %v), want (1, true)", idx, found)
	}
	if _, found := headerIndex(blocks, cfg.Risk.Header, 1); found {
		t.Error("headerIndex found a candidate at or before the cutoff")
	}
}

func TestBoundaryIndexRequiresHeading(t *testing.T) {
	cfg := DefaultConfig()
	blocks := []TextBlock{
		block("Item 7. Management's Discussion and Analysis", true),
		block("as described in Item 8 below", false),
		block("Item 8. Financial Statements", false),
		block("Item 8. Financial Statements", true),
	}
	if got := boundaryIndex(blocks, 0, cfg.MDA.Boundary); got != 3 {
		t.Errorf("boundaryIndex = %d, want 3 (non-heading mentions skipped)", got)
	}
}

func TestBoundaryIndexDefaultsToEnd(t *testing.T) {
	cfg := DefaultConfig()
	blocks := []TextBlock{
		block("Item 1A. Risk Factors", true),
		block("risk prose", false),
	}
	if got := boundaryIndex(blocks, 0, cfg.Risk.Boundary); got != 2 {
		t.Errorf("boundaryIndex = %d, want len(blocks)", got)
	}
}

func TestBoundaryPatternsAnchored(t *testing.T) {
	cfg := DefaultConfig()
	blocks := []TextBlock{
		block("Item 7. Management's Discussion and Analysis", true),
		block("Refer to Item 8 in this report", true),
		block("Signatures", true),
	}
	// "Item 8" mid-sentence must not match the anchored boundary, even
	// on a heading-flagged block.
	if got := boundaryIndex(blocks, 0, cfg.MDA.Boundary); got != 2 {
		t.Errorf("boundaryIndex = %d, want 2 (anchored at block start)", got)
	}
}
