package ingest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testFilingHTML = "<html><body><p>Item 7. MD&A</p></body></html>"

// fakeEDGAR stands in for both SEC hosts: the ticker mapping, the
// submissions API and the archives document tree.
func fakeEDGAR(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/files/company_tickers.json", func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.Header.Get("User-Agent"), "@") {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		fmt.Fprint(w, `{"0":{"cik_str":320193,"ticker":"AAPL","title":"Apple Inc."},
			"1":{"cik_str":789019,"ticker":"MSFT","title":"Microsoft Corp"}}`)
	})

	mux.HandleFunc("/submissions/CIK0000320193.json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"cik": "0000320193",
			"name": "Apple Inc.",
			"tickers": ["AAPL"],
			"filings": {"recent": {
				"accessionNumber": ["0000320193-24-000081", "0000320193-24-000123"],
				"filingDate": ["2024-08-02", "2024-11-01"],
				"reportDate": ["2024-06-29", "2024-09-28"],
				"form": ["10-Q", "10-K"],
				"primaryDocument": ["aapl-20240629.htm", "aapl-20240928.htm"]
			}}
		}`)
	})

	mux.HandleFunc("/Archives/edgar/data/320193/000032019324000123/aapl-20240928.htm",
		func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, testFilingHTML)
		})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testClient(t *testing.T) *EDGARClient {
	srv := fakeEDGAR(t)
	client := NewEDGARClient("FinStream Test test@example.com")
	client.SubmissionsBase = srv.URL
	client.ArchivesBase = srv.URL
	return client
}

func TestLookupCIK(t *testing.T) {
	client := testClient(t)

	cik, err := client.LookupCIK(context.Background(), "aapl")
	if err != nil {
		t.Fatalf("LookupCIK: %v", err)
	}
	if cik != "0000320193" {
		t.Errorf("cik = %q, want zero-padded 0000320193", cik)
	}

	if _, err := client.LookupCIK(context.Background(), "NOPE"); err == nil {
		t.Error("expected error for unknown ticker")
	}
}

func TestLookupCIKForbiddenUserAgent(t *testing.T) {
	srv := fakeEDGAR(t)
	client := NewEDGARClient("curl")
	client.SubmissionsBase = srv.URL
	client.ArchivesBase = srv.URL

	_, err := client.LookupCIK(context.Background(), "AAPL")
	if err == nil || !strings.Contains(err.Error(), "User-Agent") {
		t.Errorf("err = %v, want 403 guidance mentioning User-Agent", err)
	}
}

func TestLatest10K(t *testing.T) {
	client := testClient(t)

	filing, err := client.Latest10K(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("Latest10K: %v", err)
	}
	if filing.FormType != "10-K" {
		t.Errorf("form = %q, want 10-K (10-Q must be filtered out)", filing.FormType)
	}
	if filing.AccessionNumber != "0000320193-24-000123" {
		t.Errorf("accession = %q", filing.AccessionNumber)
	}
	if !strings.HasSuffix(filing.URL, "/Archives/edgar/data/320193/000032019324000123/aapl-20240928.htm") {
		t.Errorf("URL = %q", filing.URL)
	}
	if filing.ReportDate.Format("2006-01-02") != "2024-09-28" {
		t.Errorf("report date = %v", filing.ReportDate)
	}
}

func TestDownloaderSavesFiling(t *testing.T) {
	client := testClient(t)
	saveDir := t.TempDir()
	d := NewDownloader(client, saveDir, nil)

	path, err := d.Download(context.Background(), "aapl")
	if err != nil {
		t.Fatalf("Download: %v", err)
	}

	want := filepath.Join(saveDir, "sec-edgar-filings", "AAPL", "10-K",
		"0000320193-24-000123", "aapl-20240928.htm")
	if path != want {
		t.Errorf("path = %q, want %q", path, want)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading saved filing: %v", err)
	}
	if string(data) != testFilingHTML {
		t.Errorf("saved body = %q", data)
	}

	// A second call reuses the file on disk.
	again, err := d.Download(context.Background(), "AAPL")
	if err != nil || again != path {
		t.Errorf("redownload = (%q, %v), want cached path", again, err)
	}
}

func TestDownloadAllPartialFailure(t *testing.T) {
	client := testClient(t)
	d := NewDownloader(client, t.TempDir(), nil)

	// MSFT resolves a CIK but has no submissions fixture, so it fails.
	paths, failures, err := d.DownloadAll(context.Background(), []string{"AAPL", "MSFT"})
	if err != nil {
		t.Fatalf("partial failure must not error: %v", err)
	}
	if len(paths) != 1 || paths["AAPL"] == "" {
		t.Errorf("paths = %v", paths)
	}
	if len(failures) != 1 || failures["MSFT"] == "" {
		t.Errorf("failures = %v", failures)
	}
}

func TestDownloadAllAllFail(t *testing.T) {
	client := testClient(t)
	d := NewDownloader(client, t.TempDir(), nil)

	_, failures, err := d.DownloadAll(context.Background(), []string{"NOPE", "ALSO"})
	if !errors.Is(err, ErrAllDownloadsFailed) {
		t.Fatalf("err = %v, want ErrAllDownloadsFailed", err)
	}
	if len(failures) != 2 {
		t.Errorf("failures = %v, want both tickers", failures)
	}
}
