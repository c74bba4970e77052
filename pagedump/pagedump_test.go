package pagedump

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `<html><head><title>Jobs</title><script>var x = 1;</script></head>
<body><div class="jobTuple"><a class="title" href="/job/1">Senior PM</a>
<a class="subTitle">Acme Corp</a></div></body></html>`

func TestNew_UnknownFormatFallsBackToHTML(t *testing.T) {
	assert.Equal(t, FormatHTML, New("pdf").Format())
	assert.Equal(t, FormatMarkdown, New(FormatMarkdown).Format())
}

func TestRender_HTML(t *testing.T) {
	out, err := New(FormatHTML).Render(samplePage, "https://www.naukri.com/pm-jobs")
	require.NoError(t, err)
	assert.Equal(t, samplePage, out)
}

func TestRender_Off(t *testing.T) {
	out, err := New(FormatOff).Render(samplePage, "")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestRender_Markdown(t *testing.T) {
	out, err := New(FormatMarkdown).Render(samplePage, "https://www.naukri.com/pm-jobs")
	require.NoError(t, err)
	assert.Contains(t, out, "Senior PM")
	assert.Contains(t, out, "https://www.naukri.com/job/1")
	assert.NotContains(t, out, "var x")
}

func TestRender_Text(t *testing.T) {
	out, err := New(FormatText).Render(samplePage, "https://www.naukri.com/pm-jobs")
	require.NoError(t, err)
	assert.Contains(t, out, "Senior PM")
	assert.Contains(t, out, "Acme Corp")
	assert.NotContains(t, out, "<a")
}

func TestDocumentText(t *testing.T) {
	assert.Equal(t, "Hello world", documentText(`<body><script>x()</script><p>Hello
		world</p></body>`))
}

func TestLog(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	defer slog.SetDefault(prev)

	New(FormatHTML).Log(context.Background(), samplePage, "https://www.naukri.com/pm-jobs")
	assert.Contains(t, buf.String(), `"msg":"page content"`)
	assert.Contains(t, buf.String(), "Senior PM")

	buf.Reset()
	New(FormatOff).Log(context.Background(), samplePage, "https://www.naukri.com/pm-jobs")
	assert.Empty(t, buf.String())
}
