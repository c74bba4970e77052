package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/use-agent/jobscrape/config"
	"github.com/use-agent/jobscrape/models"
)

func defaultSelectors() config.ExtractorConfig {
	return config.ExtractorConfig{
		CardSelector:       "div.jobTuple",
		TitleSelector:      "a.title",
		CompanySelector:    "a.subTitle",
		LocationSelector:   "li.location",
		ExperienceSelector: "li.experience",
	}
}

func newTestExtractor(t *testing.T) *Extractor {
	t.Helper()
	e, err := New(defaultSelectors())
	require.NoError(t, err)
	return e
}

const twoCards = `<html><body>
<div class="list">
  <div class="jobTuple bgWhite">
    <a class="title fw500" href="/job/1">  Senior PM </a>
    <a class="subTitle">Acme Corp</a>
    <ul>
      <li class="experience">5-8 yrs</li>
      <li class="location">Remote</li>
    </ul>
  </div>
  <div class="jobTuple"></div>
</div>
</body></html>`

func TestExtract_PopulatedAndEmptyCards(t *testing.T) {
	e := newTestExtractor(t)

	jobs, err := e.Extract(twoCards)
	require.NoError(t, err)
	require.Len(t, jobs, 2)

	first := jobs[0]
	assert.Equal(t, "Senior PM", first.Title)
	assert.Equal(t, "Acme Corp", first.Company)
	assert.Equal(t, "Remote", first.Location)
	assert.Equal(t, "5-8 yrs", first.Experience)
	require.NotNil(t, first.Link)
	assert.Equal(t, "/job/1", *first.Link)
	assert.Zero(t, first.ID)

	second := jobs[1]
	assert.Equal(t, models.NotAvailable, second.Title)
	assert.Equal(t, models.NotAvailable, second.Company)
	assert.Equal(t, models.NotAvailable, second.Location)
	assert.Equal(t, models.NotAvailable, second.Experience)
	assert.Nil(t, second.Link)
}

func TestExtract_TitleWithoutHref(t *testing.T) {
	e := newTestExtractor(t)

	jobs, err := e.Extract(`<div class="jobTuple"><a class="title">Analyst</a></div>`)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "Analyst", jobs[0].Title)
	assert.Nil(t, jobs[0].Link)
}

func TestExtract_FirstMatchWins(t *testing.T) {
	e := newTestExtractor(t)

	html := `<div class="jobTuple">
		<a class="title" href="/a">First</a>
		<a class="title" href="/b">Second</a>
		<li class="location">Pune</li><li class="location">Delhi</li>
	</div>`
	jobs, err := e.Extract(html)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "First", jobs[0].Title)
	assert.Equal(t, "/a", *jobs[0].Link)
	assert.Equal(t, "Pune", jobs[0].Location)
}

func TestExtract_PreservesOrderAndDuplicates(t *testing.T) {
	e := newTestExtractor(t)

	html := `<div class="jobTuple"><a class="title">B</a></div>
		<div class="jobTuple"><a class="title">A</a></div>
		<div class="jobTuple"><a class="title">B</a></div>`
	jobs, err := e.Extract(html)
	require.NoError(t, err)

	var titles []string
	for _, j := range jobs {
		titles = append(titles, j.Title)
	}
	assert.Equal(t, []string{"B", "A", "B"}, titles)
}

func TestExtract_NoCards(t *testing.T) {
	e := newTestExtractor(t)

	jobs, err := e.Extract(`<html><body><p>No results</p></body></html>`)
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestExtract_BlankElementIsNotSentinel(t *testing.T) {
	e := newTestExtractor(t)

	jobs, err := e.Extract(`<div class="jobTuple"><a class="subTitle">   </a></div>`)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "", jobs[0].Company)
	assert.Equal(t, models.NotAvailable, jobs[0].Title)
}

func TestNew_InvalidSelector(t *testing.T) {
	cfg := defaultSelectors()
	cfg.LocationSelector = "li[location"

	_, err := New(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "location")
}
