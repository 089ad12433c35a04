package sheets

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/Luciana-papello/gestao-cs/config"
)

const csvExportURL = "https://docs.google.com/spreadsheets/d/%s/gviz/tq?tqx=out:csv"

// Client fetches public Google Sheets tabs as CSV exports.
type Client struct {
	http *http.Client
}

func NewClient() *Client {
	return &Client{
		http: &http.Client{Timeout: 30 * time.Second},
	}
}

// FetchTab downloads one tab and parses it into a Table. Every failure mode
// (network, HTTP status, malformed CSV) degrades to an empty table: consumers
// must treat "fetch failed" and "tab is genuinely empty" identically.
func (c *Client) FetchTab(ctx context.Context, sheetID, tab string) *Table {
	logger := config.GetLogger()

	endpoint := fmt.Sprintf(csvExportURL, url.PathEscape(sheetID))
	if tab != "" {
		endpoint += "&sheet=" + url.QueryEscape(tab)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		config.LogError(logger, "sheets/client.go", "FetchTab", "http.NewRequestWithContext", tab, err)
		return &Table{}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		config.LogError(logger, "sheets/client.go", "FetchTab", "http.Do", tab, err)
		return &Table{}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		config.LogError(logger, "sheets/client.go", "FetchTab", "http status", tab,
			fmt.Errorf("unexpected status %d fetching tab %q", resp.StatusCode, tab))
		return &Table{}
	}

	table, err := ParseCSV(resp.Body)
	if err != nil {
		config.LogError(logger, "sheets/client.go", "FetchTab", "ParseCSV", tab, err)
		return &Table{}
	}
	return table
}
