package scrape

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-radar/internal/logging"
	"github.com/jonathan/job-radar/internal/types"
)

// fakeFetcher serves canned pages keyed by URL. Unknown URLs get a 404.
type fakeFetcher struct {
	pages   map[string]string
	err     error
	fetched []string
}

func (f *fakeFetcher) Fetch(_ context.Context, urlStr string) (string, int, error) {
	f.fetched = append(f.fetched, urlStr)
	if f.err != nil {
		return "", 0, f.err
	}
	body, ok := f.pages[urlStr]
	if !ok {
		return "", http.StatusNotFound, nil
	}
	return body, http.StatusOK, nil
}

func boardPage(links ...string) string {
	html := "<html><body><div>"
	for _, l := range links {
		html += l
	}
	return html + "</div></body></html>"
}

func jobLink(href, title string) string {
	return `<a href="` + href + `">` + title + `</a>`
}

func TestGreenhouse_SinglePage(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{
		"https://job-boards.greenhouse.io/acme": boardPage(
			jobLink("/acme/jobs/100", "Backend Engineer"),
			jobLink("/acme/jobs/200", "Platform Intern"),
		),
		"https://job-boards.greenhouse.io/acme?page=2": boardPage(),
	}}

	g := NewGreenhouse("acme", fetcher, logging.Discard())
	jobs, err := g.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, jobs, 2)

	assert.Equal(t, "Backend Engineer", jobs[0].JobTitle)
	assert.Equal(t, "acme", jobs[0].Company)
	assert.Equal(t, "https://job-boards.greenhouse.io/acme/jobs/100", jobs[0].JobURL)
	assert.Equal(t, types.SourceGreenhouse, jobs[0].Source)
	assert.Empty(t, jobs[0].Location)
}

func TestGreenhouse_StopsWhenPageRepeats(t *testing.T) {
	// Page 2 serves the same listings as page 1; the crawl must stop there
	// rather than walking every page up to the cap.
	page := boardPage(jobLink("/acme/jobs/100", "Backend Engineer"))
	fetcher := &fakeFetcher{pages: map[string]string{
		"https://job-boards.greenhouse.io/acme":        page,
		"https://job-boards.greenhouse.io/acme?page=2": page,
		"https://job-boards.greenhouse.io/acme?page=3": page,
	}}

	g := NewGreenhouse("acme", fetcher, logging.Discard())
	jobs, err := g.Run(context.Background())
	require.NoError(t, err)

	assert.Len(t, jobs, 1)
	assert.Len(t, fetcher.fetched, 2)
}

func TestGreenhouse_DeduplicatesAcrossPages(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{
		"https://job-boards.greenhouse.io/acme": boardPage(
			jobLink("/acme/jobs/100", "Backend Engineer"),
			jobLink("/acme/jobs/100", "Backend Engineer"), // duplicate link on same page
		),
		"https://job-boards.greenhouse.io/acme?page=2": boardPage(
			jobLink("/acme/jobs/100", "Backend Engineer"),
			jobLink("/acme/jobs/300", "Data Intern"),
		),
		"https://job-boards.greenhouse.io/acme?page=3": boardPage(),
	}}

	g := NewGreenhouse("acme", fetcher, logging.Discard())
	jobs, err := g.Run(context.Background())
	require.NoError(t, err)

	var titles []string
	for _, j := range jobs {
		titles = append(titles, j.JobTitle)
	}
	assert.Equal(t, []string{"Backend Engineer", "Data Intern"}, titles)
}

func TestGreenhouse_LegacyDomain(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{
		"https://boards.greenhouse.io/airbnb": boardPage(
			jobLink("/airbnb/jobs/42", "Software Engineer"),
		),
		"https://boards.greenhouse.io/airbnb?page=2": boardPage(),
	}}

	g := NewGreenhouse("Airbnb", fetcher, logging.Discard())
	jobs, err := g.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "https://boards.greenhouse.io/airbnb/jobs/42", jobs[0].JobURL)
}

func TestGreenhouse_AbsoluteLinksKeptVerbatim(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{
		"https://job-boards.greenhouse.io/acme": boardPage(
			jobLink("https://job-boards.greenhouse.io/acme/jobs/7", "SRE Intern"),
		),
		"https://job-boards.greenhouse.io/acme?page=2": boardPage(),
	}}

	g := NewGreenhouse("acme", fetcher, logging.Discard())
	jobs, err := g.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "https://job-boards.greenhouse.io/acme/jobs/7", jobs[0].JobURL)
}

func TestGreenhouse_FetchErrorEndsCrawlWithPartialBatch(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("connection refused")}

	g := NewGreenhouse("acme", fetcher, logging.Discard())
	jobs, err := g.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestGreenhouse_SkipsLinksWithoutNumericID(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{
		"https://job-boards.greenhouse.io/acme": boardPage(
			jobLink("/acme/jobs/", "All openings"),
			jobLink("/acme/jobs/500", "QA Intern"),
		),
		"https://job-boards.greenhouse.io/acme?page=2": boardPage(),
	}}

	g := NewGreenhouse("acme", fetcher, logging.Discard())
	jobs, err := g.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "QA Intern", jobs[0].JobTitle)
}
