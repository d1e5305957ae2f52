package scrape

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"github.com/jonathan/job-radar/internal/types"
)

// maxGreenhousePages caps pagination as a safety net against boards that
// never stop yielding links.
const maxGreenhousePages = 25

// legacyDomainCompanies still serve their boards from boards.greenhouse.io
// instead of job-boards.greenhouse.io.
var legacyDomainCompanies = map[string]bool{
	"airbnb": true,
}

var trailingJobIDRe = regexp.MustCompile(`(\d+)`)

// Greenhouse scrapes job listings from a Greenhouse-hosted board. It handles
// 1-indexed pagination, jobs repeated across pages, and both Greenhouse
// domains.
type Greenhouse struct {
	slug      string
	baseURL   string
	jobDomain string
	fetcher   Fetcher
	log       *logrus.Entry
}

// NewGreenhouse creates a scraper for one company board.
func NewGreenhouse(companySlug string, fetcher Fetcher, log *logrus.Entry) *Greenhouse {
	slug := strings.ToLower(companySlug)

	domain := "https://job-boards.greenhouse.io"
	if legacyDomainCompanies[slug] {
		domain = "https://boards.greenhouse.io"
	}

	return &Greenhouse{
		slug:      slug,
		baseURL:   fmt.Sprintf("%s/%s", domain, slug),
		jobDomain: domain,
		fetcher:   fetcher,
		log:       log,
	}
}

// Run crawls the board page by page until a page yields no new jobs, and
// returns every distinct listing found.
func (g *Greenhouse) Run(ctx context.Context) ([]types.RawJob, error) {
	var jobs []types.RawJob
	seen := make(map[string]bool) // numeric Greenhouse job ids

	for page := 1; page <= maxGreenhousePages; page++ {
		pageURL := g.baseURL
		if page > 1 {
			pageURL = fmt.Sprintf("%s?page=%d", g.baseURL, page)
		}

		body, status, err := g.fetcher.Fetch(ctx, pageURL)
		if err != nil {
			// Mid-crawl transport failures end the crawl; what was collected
			// so far is still a valid (partial) batch.
			g.log.WithError(err).WithField("url", pageURL).Warn("greenhouse page fetch failed, stopping")
			break
		}
		if status != http.StatusOK {
			g.log.WithFields(logrus.Fields{"url": pageURL, "status": status}).Warn("greenhouse returned non-200, stopping")
			break
		}

		newJobs, err := g.parsePage(body, seen)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, newJobs...)

		g.log.WithFields(logrus.Fields{"page": page, "new_jobs": len(newJobs)}).Debug("greenhouse page scraped")

		// A page with no new listings means pagination wrapped around.
		if len(newJobs) == 0 {
			break
		}
	}

	return jobs, nil
}

// parsePage extracts job links from one board page, skipping Greenhouse job
// ids already seen on earlier pages.
func (g *Greenhouse) parsePage(html string, seen map[string]bool) ([]types.RawJob, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse greenhouse page: %w", err)
	}

	var jobs []types.RawJob
	doc.Find(`a[href*="/jobs/"]`).Each(func(_ int, link *goquery.Selection) {
		href := strings.TrimSpace(link.AttrOr("href", ""))
		if href == "" {
			return
		}

		// The trailing path segment carries the numeric Greenhouse job id.
		segments := strings.Split(strings.TrimRight(href, "/"), "/")
		ghID := trailingJobIDRe.FindString(segments[len(segments)-1])
		if ghID == "" || seen[ghID] {
			return
		}
		seen[ghID] = true

		jobURL := href
		if !strings.HasPrefix(href, "http") {
			jobURL = g.jobDomain + href
		}

		jobs = append(jobs, types.RawJob{
			JobTitle: strings.TrimSpace(link.Text()),
			JobURL:   jobURL,
			Location: "",
			Company:  g.slug,
			Source:   types.SourceGreenhouse,
		})
	})

	return jobs, nil
}
