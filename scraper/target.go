package scraper

import (
	"net/url"
	"strings"
)

// TargetURL builds the search-results URL for keyword: spaces become
// hyphens and "-jobs" is appended, e.g. "product manager" on
// https://www.naukri.com yields https://www.naukri.com/product-manager-jobs.
// Any other character that is unsafe in a path segment is escaped.
func TargetURL(base, keyword string) string {
	slug := strings.ReplaceAll(keyword, " ", "-")
	return strings.TrimRight(base, "/") + "/" + url.PathEscape(slug) + "-jobs"
}
