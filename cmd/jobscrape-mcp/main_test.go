package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApiGet(t *testing.T) {
	var gotQuery, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		gotKey = r.Header.Get("X-API-Key")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	status, body, err := apiGet(context.Background(), &http.Client{Timeout: 5 * time.Second},
		srv.URL+"/", "k1", "/jobs", url.Values{"search": {"product manager"}})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "[]", string(body))
	assert.Equal(t, "search=product+manager", gotQuery)
	assert.Equal(t, "k1", gotKey)
}

func TestErrorText(t *testing.T) {
	assert.Equal(t, "[BLOCKED] No jobs found or scraping blocked! Try again later.",
		errorText(400, []byte(`{"error":"No jobs found or scraping blocked! Try again later.","code":"BLOCKED"}`)))
	assert.Equal(t, "boom", errorText(500, []byte(`{"error":"boom"}`)))
	assert.Equal(t, "API returned status 502", errorText(502, []byte(`<html>bad gateway</html>`)))
}

func TestFormatJobs(t *testing.T) {
	link := "/job/1"
	out := formatJobs([]jobListing{
		{ID: 1, Title: "Senior PM", Company: "Acme Corp", Location: "Remote", Experience: "5-8 yrs", Link: &link},
		{ID: 2, Title: "N/A", Company: "N/A", Location: "N/A", Experience: "N/A"},
	})
	assert.Equal(t, "#1 Senior PM | Acme Corp | Remote | 5-8 yrs | /job/1\n#2 N/A | N/A | N/A | N/A\n", out)
}
