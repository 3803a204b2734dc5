// Package ingest downloads 10-K filings from SEC EDGAR and loads the
// ticker universe the pipeline operates on.
// API documentation: https://www.sec.gov/developer
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// SEC EDGAR API hosts. Overridable per client for tests.
	DefaultSubmissionsBase = "https://data.sec.gov"
	DefaultArchivesBase    = "https://www.sec.gov"

	// DefaultUserAgent satisfies the SEC's "Company Name email" access
	// policy. Production runs should supply their own contact string.
	DefaultUserAgent = "FinStream/1.0 (contact@example.com)"
)

// =============================================================================
// SEC EDGAR DATA TYPES
// =============================================================================

// CompanyInfo is the top-level company submissions response.
type CompanyInfo struct {
	CIK     string   `json:"cik"`
	Name    string   `json:"name"`
	Tickers []string `json:"tickers"`
	Filings struct {
		Recent RecentFilings `json:"recent"`
	} `json:"filings"`
}

// RecentFilings holds the submissions API's parallel filing arrays.
type RecentFilings struct {
	AccessionNumber []string `json:"accessionNumber"` // e.g. "0000320193-24-000123"
	FilingDate      []string `json:"filingDate"`
	ReportDate      []string `json:"reportDate"` // fiscal period end
	Form            []string `json:"form"`
	PrimaryDocument []string `json:"primaryDocument"`
}

// Filing is a single filing denormalized out of the parallel arrays.
type Filing struct {
	AccessionNumber string    `json:"accession_number"`
	FilingDate      time.Time `json:"filing_date"`
	ReportDate      time.Time `json:"report_date"`
	FormType        string    `json:"form_type"`
	PrimaryDocument string    `json:"primary_document"`
	URL             string    `json:"url"`
}

// =============================================================================
// SEC EDGAR CLIENT
// =============================================================================

// EDGARClient talks to the SEC EDGAR submissions and archives APIs.
type EDGARClient struct {
	httpClient *http.Client

	// UserAgent is sent on every request. The SEC rejects anonymous or
	// generic agents with 403.
	UserAgent string

	// SubmissionsBase and ArchivesBase default to the public SEC hosts.
	SubmissionsBase string
	ArchivesBase    string
}

// NewEDGARClient builds a client. An empty userAgent falls back to
// DefaultUserAgent.
func NewEDGARClient(userAgent string) *EDGARClient {
	if strings.TrimSpace(userAgent) == "" {
		userAgent = DefaultUserAgent
	}
	return &EDGARClient{
		httpClient:      &http.Client{Timeout: 30 * time.Second},
		UserAgent:       userAgent,
		SubmissionsBase: DefaultSubmissionsBase,
		ArchivesBase:    DefaultArchivesBase,
	}
}

func (c *EDGARClient) get(ctx context.Context, url, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", accept)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("SEC request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusForbidden {
		return nil, fmt.Errorf("SEC returned 403 for %s: set a descriptive User-Agent of the form \"Company Name email@example.com\"", url)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("SEC returned status %d for %s", resp.StatusCode, url)
	}
	return io.ReadAll(resp.Body)
}

// LookupCIK resolves a ticker symbol to its zero-padded 10-digit CIK
// using the SEC's company_tickers.json mapping.
func (c *EDGARClient) LookupCIK(ctx context.Context, ticker string) (string, error) {
	body, err := c.get(ctx, c.ArchivesBase+"/files/company_tickers.json", "application/json")
	if err != nil {
		return "", fmt.Errorf("fetching ticker mapping: %w", err)
	}

	// Response shape: { "0": {"cik_str": 320193, "ticker": "AAPL", "title": "..."}, ... }
	var mapping map[string]struct {
		CIK    int    `json:"cik_str"`
		Ticker string `json:"ticker"`
	}
	if err := json.Unmarshal(body, &mapping); err != nil {
		return "", fmt.Errorf("parsing ticker mapping: %w", err)
	}

	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	for _, entry := range mapping {
		if entry.Ticker == ticker {
			return fmt.Sprintf("%010d", entry.CIK), nil
		}
	}
	return "", fmt.Errorf("ticker %s not found in SEC database", ticker)
}

// FetchCompanyInfo retrieves the submissions record for a CIK. The CIK
// is zero-padded to 10 digits if not already.
func (c *EDGARClient) FetchCompanyInfo(ctx context.Context, cik string) (*CompanyInfo, error) {
	cik = fmt.Sprintf("%010s", strings.TrimLeft(cik, "0"))

	body, err := c.get(ctx, fmt.Sprintf("%s/submissions/CIK%s.json", c.SubmissionsBase, cik), "application/json")
	if err != nil {
		return nil, err
	}

	var info CompanyInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("parsing SEC submissions response: %w", err)
	}
	return &info, nil
}

// Filings denormalizes the recent-filings arrays, filtered by form
// type. Pass nil formTypes for all forms, limit 0 for no limit.
func (c *EDGARClient) Filings(info *CompanyInfo, formTypes []string, limit int) []Filing {
	wanted := make(map[string]bool)
	for _, ft := range formTypes {
		wanted[ft] = true
	}

	recent := info.Filings.Recent
	filings := make([]Filing, 0)
	for i := range recent.AccessionNumber {
		if len(formTypes) > 0 && !wanted[recent.Form[i]] {
			continue
		}

		filingDate, _ := time.Parse("2006-01-02", recent.FilingDate[i])
		reportDate, _ := time.Parse("2006-01-02", recent.ReportDate[i])

		// Archives layout: /Archives/edgar/data/{cik}/{accession-no-dashes}/{document}
		accession := strings.ReplaceAll(recent.AccessionNumber[i], "-", "")
		url := fmt.Sprintf("%s/Archives/edgar/data/%s/%s/%s",
			c.ArchivesBase, strings.TrimLeft(info.CIK, "0"), accession, recent.PrimaryDocument[i])

		filings = append(filings, Filing{
			AccessionNumber: recent.AccessionNumber[i],
			FilingDate:      filingDate,
			ReportDate:      reportDate,
			FormType:        recent.Form[i],
			PrimaryDocument: recent.PrimaryDocument[i],
			URL:             url,
		})
		if limit > 0 && len(filings) >= limit {
			break
		}
	}
	return filings
}

// Latest10K finds the most recent 10-K filing for a ticker.
func (c *EDGARClient) Latest10K(ctx context.Context, ticker string) (*Filing, error) {
	cik, err := c.LookupCIK(ctx, ticker)
	if err != nil {
		return nil, err
	}

	info, err := c.FetchCompanyInfo(ctx, cik)
	if err != nil {
		return nil, err
	}

	filings := c.Filings(info, []string{"10-K"}, 1)
	if len(filings) == 0 {
		return nil, fmt.Errorf("no 10-K filings found for %s", ticker)
	}
	return &filings[0], nil
}

// FetchDocument downloads a filing document body.
func (c *EDGARClient) FetchDocument(ctx context.Context, url string) ([]byte, error) {
	return c.get(ctx, url, "text/html")
}
