package filing

import (
	"errors"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ErrEmptyTicker is returned when a payload is requested without a
// ticker symbol.
var ErrEmptyTicker = errors.New("ticker cannot be empty")

// SectionSpec holds the header and boundary patterns for one target
// item section.
type SectionSpec struct {
	Header   *regexp.Regexp // matches the section's own heading
	Boundary *regexp.Regexp // matches the next item/part heading, anchored at block start
}

// Config carries every heuristic constant the extractor uses, so
// variant configurations (a 10-Q pattern set, different lookahead
// windows) can coexist and be tested independently.
type Config struct {
	MDA  SectionSpec
	Risk SectionSpec

	TOCPhrase   *regexp.Regexp // table-of-contents marker
	GenericItem *regexp.Regexp // generic "Item N" reference, anchored at block start

	TOCLookahead   int // blocks scanned past the TOC heading
	TOCEntryMaxLen int // max rune length for a block to count as a TOC entry

	BlockTags []string
}

// DefaultConfig returns the 10-K extraction configuration: Item 7
// (MD&A) and Item 1A (Risk Factors), tolerant of punctuation, dash and
// apostrophe variants.
func DefaultConfig() Config {
	return Config{
		MDA: SectionSpec{
			Header: regexp.MustCompile(
				`(?i)\bitem\s*7\b\s*[.:\-–—]*\s*management['’` + "`" + `s\s]+discussion\s+and\s+analysis`),
			Boundary: regexp.MustCompile(
				`(?i)^\s*(item\s*7a\b|item\s*8\b|item\s*9\b|part\s*iii\b|signatures?\b)`),
		},
		Risk: SectionSpec{
			Header: regexp.MustCompile(
				`(?i)\bitem\s*1a\b\s*[.:\-–—]*\s*risk\s+factors`),
			Boundary: regexp.MustCompile(
				`(?i)^\s*(item\s*1b\b|item\s*2\b|part\s*ii\b)`),
		},
		TOCPhrase:      regexp.MustCompile(`(?i)table\s+of\s+contents`),
		GenericItem:    regexp.MustCompile(`(?i)^\s*item\s*\d+[a-z]?\b`),
		TOCLookahead:   150,
		TOCEntryMaxLen: 220,
		BlockTags:      defaultBlockTags,
	}
}

// ExtractedSection is one target item's recovered span over the block
// sequence. When Found is false the section header never matched and
// Text is empty.
type ExtractedSection struct {
	Start int
	End   int
	Found bool
	Text  string
}

// Sections holds both extracted item sections of a 10-K.
type Sections struct {
	MDA  ExtractedSection
	Risk ExtractedSection
}

// Payload is the transport-ready record for one parsed filing,
// consumed by the chunk/embed/load stage. MDAText maps to item_7 and
// RiskText to item_1a downstream.
type Payload struct {
	Ticker   string `json:"ticker"`
	Period   string `json:"period"`
	MDAText  string `json:"mda_text"`
	RiskText string `json:"risk_text"`
}

// Extractor locates and extracts 10-K item sections from raw HTML.
// It holds no mutable state between documents; every call is
// independently reproducible for the same input.
type Extractor struct {
	cfg           Config
	blockSelector string
}

// New builds an extractor from an explicit configuration.
func New(cfg Config) *Extractor {
	if len(cfg.BlockTags) == 0 {
		cfg.BlockTags = defaultBlockTags
	}
	return &Extractor{
		cfg:           cfg,
		blockSelector: strings.Join(cfg.BlockTags, ", "),
	}
}

// NewDefault builds an extractor with the standard 10-K configuration.
func NewDefault() *Extractor {
	return New(DefaultConfig())
}

// ExtractSections recovers the MD&A and Risk Factors text from raw
// 10-K HTML. Malformed or empty HTML degrades to empty section texts;
// absence of a section is a valid outcome, not an error.
func (e *Extractor) ExtractSections(htmlContent string) Sections {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return Sections{}
	}

	blocks := e.extractBlocks(doc)
	if len(blocks) == 0 {
		return Sections{}
	}

	cutoff := e.tocCutoff(blocks)
	return Sections{
		MDA:  extractOne(blocks, e.cfg.MDA, cutoff),
		Risk: extractOne(blocks, e.cfg.Risk, cutoff),
	}
}

// extractOne locates a single section and assembles its text.
func extractOne(blocks []TextBlock, spec SectionSpec, cutoff int) ExtractedSection {
	start, found := headerIndex(blocks, spec.Header, cutoff)
	if !found {
		return ExtractedSection{End: len(blocks)}
	}

	end := boundaryIndex(blocks, start, spec.Boundary)
	return ExtractedSection{
		Start: start,
		End:   end,
		Found: true,
		Text:  assembleText(blocks, start, end),
	}
}

// assembleText joins the cleaned text of blocks strictly between start
// and end with newlines and re-normalizes the joined result.
func assembleText(blocks []TextBlock, start, end int) string {
	var parts []string
	for i := start + 1; i < end; i++ {
		parts = append(parts, blocks[i].Text)
	}
	return Normalize(strings.Join(parts, "\n"))
}

// BuildPayload extracts both sections and wraps them with ticker and
// period metadata. The period is resolved best effort from the
// override or from the document's "fiscal year ended" phrasing; an
// empty result is acceptable metadata, not a failure.
func (e *Extractor) BuildPayload(htmlContent, ticker, period string) (*Payload, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return nil, ErrEmptyTicker
	}

	sections := e.ExtractSections(htmlContent)
	return &Payload{
		Ticker:   ticker,
		Period:   ResolvePeriod(period, documentText(htmlContent)),
		MDAText:  sections.MDA.Text,
		RiskText: sections.Risk.Text,
	}, nil
}

// documentText returns the cleaned plain text of the whole document,
// text nodes joined with newlines. Used only for period resolution.
func documentText(htmlContent string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return ""
	}
	doc.Find("script, style, noscript").Remove()

	var parts []string
	for _, node := range doc.Selection.Nodes {
		collectText(node, &parts)
	}
	return Normalize(strings.Join(parts, "\n"))
}
