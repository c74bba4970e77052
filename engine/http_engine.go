package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	maxSearchPageBytes = 10 << 20
	maxRedirects       = 10
	acceptHTML         = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
)

// HTTPEngine requests the search page without a browser. The listings
// are rendered client-side on the live site, so this engine is mostly
// useful against static mirrors and in tests. Challenge pages still come
// back as HTML and are returned whatever their status.
type HTTPEngine struct {
	client     *http.Client
	userAgents []string
}

// NewHTTPEngine returns an HTTPEngine drawing its User-Agent from
// userAgents. HTTPS connections present a Chrome TLS fingerprint.
func NewHTTPEngine(userAgents []string) *HTTPEngine {
	return &HTTPEngine{
		userAgents: userAgents,
		client: &http.Client{
			Transport: &http.Transport{
				DialTLSContext:    dialChromeTLS,
				ForceAttemptHTTP2: false,
			},
			CheckRedirect: func(_ *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return errors.New("engine: search page redirected too many times")
				}
				return nil
			},
		},
	}
}

func (e *HTTPEngine) Name() string { return "http" }

// Fetch returns any HTML response, including 4xx and 5xx ones, so the
// caller can look for challenge markers before judging the status.
// Responses that are not HTML fail with a *StatusError.
func (e *HTTPEngine) Fetch(ctx context.Context, req *FetchRequest) (*FetchResult, error) {
	ua := req.UserAgent
	if ua == "" {
		ua = PickUserAgent(e.userAgents)
	}
	httpReq, err := newSearchRequest(ctx, req.URL, ua)
	if err != nil {
		return nil, err
	}

	resp, err := e.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("engine: get %s: %w", req.URL, err)
	}
	defer resp.Body.Close()

	contentType := resp.Header.Get("Content-Type")
	if !isHTMLContentType(contentType) {
		return nil, &StatusError{StatusCode: resp.StatusCode, ContentType: contentType}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSearchPageBytes))
	if err != nil {
		return nil, fmt.Errorf("engine: read %s: %w", req.URL, err)
	}
	page := string(body)

	return &FetchResult{
		HTML:       page,
		Title:      extractTitle(page),
		StatusCode: resp.StatusCode,
		FinalURL:   resp.Request.URL.String(),
		UserAgent:  ua,
		EngineName: e.Name(),
	}, nil
}

// newSearchRequest builds a GET carrying the same extra headers the
// browser session sets.
func newSearchRequest(ctx context.Context, target, ua string) (*http.Request, error) {
	r, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("engine: build request for %s: %w", target, err)
	}
	if ua != "" {
		r.Header.Set("User-Agent", ua)
	}
	r.Header.Set("Accept", acceptHTML)
	r.Header.Set("Accept-Encoding", "identity")
	for k, v := range SearchHeaders() {
		r.Header.Set(k, v)
	}
	return r, nil
}

// StatusError is returned for a response that carries no HTML page.
type StatusError struct {
	StatusCode  int
	ContentType string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("engine: status %d with content type %q, want an HTML page", e.StatusCode, e.ContentType)
}

func isHTMLContentType(ct string) bool {
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return false
	}
	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}

// extractTitle returns the trimmed text of the document's first <title>.
func extractTitle(page string) string {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return ""
	}
	var title string
	var walk func(*html.Node) bool
	walk = func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.DataAtom == atom.Title {
			if c := n.FirstChild; c != nil && c.Type == html.TextNode {
				title = strings.TrimSpace(c.Data)
			}
			return true
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if walk(c) {
				return true
			}
		}
		return false
	}
	walk(doc)
	return title
}
