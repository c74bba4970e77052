package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetector_Blocked(t *testing.T) {
	d := New(nil)

	tests := []struct {
		name string
		html string
		want bool
	}{
		{"plain captcha", `<div id="captcha"></div>`, true},
		{"upper case", `<H1>Please solve the CAPTCHA</H1>`, true},
		{"mixed case in script", `<script src="/reCaptcha/api.js"></script>`, true},
		{"with job cards", `<div class="jobTuple"><a class="title">PM</a></div><p>captcha</p>`, true},
		{"clean page", `<div class="jobTuple"><a class="title">PM</a></div>`, false},
		{"empty", ``, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, d.Blocked(tt.html))
		})
	}
}

func TestDetector_CustomMarkers(t *testing.T) {
	d := New([]string{"  Access Denied ", "", "just a moment"})

	assert.Equal(t, "access denied", d.Check("<title>ACCESS DENIED</title>"))
	assert.Equal(t, "just a moment", d.Check("Just a moment..."))
	assert.Empty(t, d.Check("captcha"), "custom markers replace the default set")
}

func TestNew_EmptyMarkersFallBack(t *testing.T) {
	d := New([]string{" ", ""})
	assert.True(t, d.Blocked("captcha"))
}
