// Package detect recognises challenge and block pages in fetched markup.
package detect

import "strings"

// DefaultMarkers is the marker set used when none is configured.
var DefaultMarkers = []string{"captcha"}

// Detector performs a purely lexical, case-insensitive substring check.
type Detector struct {
	markers []string
}

// New creates a Detector for the given markers. Empty markers are ignored;
// an empty set falls back to DefaultMarkers.
func New(markers []string) *Detector {
	clean := make([]string, 0, len(markers))
	for _, m := range markers {
		if m = strings.ToLower(strings.TrimSpace(m)); m != "" {
			clean = append(clean, m)
		}
	}
	if len(clean) == 0 {
		clean = DefaultMarkers
	}
	return &Detector{markers: clean}
}

// Check returns the first marker found in html, or "" if none matched.
func (d *Detector) Check(html string) string {
	lower := strings.ToLower(html)
	for _, m := range d.markers {
		if strings.Contains(lower, m) {
			return m
		}
	}
	return ""
}

// Blocked reports whether html looks like a challenge page.
func (d *Detector) Blocked(html string) bool {
	return d.Check(html) != ""
}
