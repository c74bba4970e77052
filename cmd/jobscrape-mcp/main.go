package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// jobListing mirrors the API's job record.
type jobListing struct {
	ID         int64   `json:"id"`
	Title      string  `json:"title"`
	Company    string  `json:"company"`
	Location   string  `json:"location"`
	Experience string  `json:"experience"`
	Link       *string `json:"link"`
}

// scrapeResponse mirrors the GET /scrape success body.
type scrapeResponse struct {
	Message string       `json:"message"`
	Jobs    []jobListing `json:"jobs"`
}

// errorResponse mirrors every non-2xx body.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func main() {
	apiURL := os.Getenv("JOBSCRAPE_API_URL")
	if apiURL == "" {
		apiURL = "http://127.0.0.1:5000"
	}
	// Only needed when the API runs with JOBSCRAPE_AUTH_ENABLED.
	apiKey := os.Getenv("JOBSCRAPE_API_KEY")

	s := server.NewMCPServer(
		"jobscrape",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	scrapeTool := mcp.NewTool("scrape_jobs",
		mcp.WithDescription("Scrape job listings for a keyword from the configured job site, store them, and return them. Drives a real browser and can take a few minutes."),
		mcp.WithString("keyword",
			mcp.Description("Search keyword, e.g. 'product manager' (the server default is used when omitted)"),
		),
	)
	s.AddTool(scrapeTool, handleScrapeJobs(apiURL, apiKey))

	listTool := mcp.NewTool("list_jobs",
		mcp.WithDescription("List stored job listings, optionally filtered by a case-insensitive substring of title or company."),
		mcp.WithString("search",
			mcp.Description("Filter text matched against title and company"),
		),
	)
	s.AddTool(listTool, handleListJobs(apiURL, apiKey))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

func handleScrapeJobs(apiURL, apiKey string) server.ToolHandlerFunc {
	// A scrape holds the request for the whole browser wait.
	client := &http.Client{Timeout: 5 * time.Minute}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		q := url.Values{}
		if kw := strings.TrimSpace(request.GetString("keyword", "")); kw != "" {
			q.Set("keyword", kw)
		}

		status, body, err := apiGet(ctx, client, apiURL, apiKey, "/scrape", q)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if status != http.StatusOK {
			return mcp.NewToolResultError(errorText(status, body)), nil
		}

		var resp scrapeResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse response: %v", err)), nil
		}
		return mcp.NewToolResultText(resp.Message + "\n\n" + formatJobs(resp.Jobs)), nil
	}
}

func handleListJobs(apiURL, apiKey string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 30 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		q := url.Values{}
		if search := request.GetString("search", ""); search != "" {
			q.Set("search", search)
		}

		status, body, err := apiGet(ctx, client, apiURL, apiKey, "/jobs", q)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if status != http.StatusOK {
			return mcp.NewToolResultError(errorText(status, body)), nil
		}

		var jobs []jobListing
		if err := json.Unmarshal(body, &jobs); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse response: %v", err)), nil
		}
		if len(jobs) == 0 {
			return mcp.NewToolResultText("No jobs found."), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("%d jobs\n\n%s", len(jobs), formatJobs(jobs))), nil
	}
}

// apiGet sends a GET request to the jobscrape API and returns status and body.
func apiGet(ctx context.Context, client *http.Client, apiURL, apiKey, path string, q url.Values) (int, []byte, error) {
	target := strings.TrimRight(apiURL, "/") + path
	if len(q) > 0 {
		target += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read response: %w", err)
	}
	return resp.StatusCode, body, nil
}

// errorText renders an API error body as "[CODE] message".
func errorText(status int, body []byte) string {
	var e errorResponse
	if err := json.Unmarshal(body, &e); err != nil || e.Error == "" {
		return fmt.Sprintf("API returned status %d", status)
	}
	if e.Code == "" {
		return e.Error
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Error)
}

// formatJobs renders one line per listing.
func formatJobs(jobs []jobListing) string {
	var b strings.Builder
	for _, j := range jobs {
		if j.ID > 0 {
			fmt.Fprintf(&b, "#%d ", j.ID)
		}
		fmt.Fprintf(&b, "%s | %s | %s | %s", j.Title, j.Company, j.Location, j.Experience)
		if j.Link != nil {
			fmt.Fprintf(&b, " | %s", *j.Link)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
