package scrape

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"github.com/jonathan/job-radar/internal/matching"
	"github.com/jonathan/job-radar/internal/types"
)

// DefaultSimplifyURL is the raw README of the crowd-maintained SimplifyJobs
// internship list. The listing table is embedded HTML inside the markdown.
const DefaultSimplifyURL = "https://raw.githubusercontent.com/SimplifyJobs/Summer2026-Internships/dev/README.md"

// continuationMarker is the cell content used when a row belongs to the same
// company as the row above it.
const continuationMarker = "↳"

// sweKeywords and mlKeywords drive the relevance score.
var sweKeywords = []string{"software", "engineer", "developer", "backend", "frontend", "full stack"}
var mlKeywords = []string{"machine learning", "ml", "ai", "data", "research"}

// Simplify scrapes the SimplifyJobs internship table and applies the rich
// preference filter before emitting raw jobs.
type Simplify struct {
	url     string
	fetcher Fetcher
	filter  matching.RichFilter
	now     func() time.Time
	log     *logrus.Entry
}

// NewSimplify creates the scraper. url empty means DefaultSimplifyURL; now
// nil means time.Now.
func NewSimplify(url string, fetcher Fetcher, filter matching.RichFilter, now func() time.Time, log *logrus.Entry) *Simplify {
	if url == "" {
		url = DefaultSimplifyURL
	}
	if now == nil {
		now = time.Now
	}
	return &Simplify{url: url, fetcher: fetcher, filter: filter, now: now, log: log}
}

// tableRow is one parsed listing row before filtering.
type tableRow struct {
	Company  string
	Role     string
	Location string
	ApplyURL string
	Age      string
}

// Run fetches the list, parses the table, filters each row, and builds raw
// jobs with enrichment signals for the survivors.
func (s *Simplify) Run(ctx context.Context) ([]types.RawJob, error) {
	body, status, err := s.fetcher.Fetch(ctx, s.url)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, &FetchError{URL: s.url, Message: fmt.Sprintf("HTTP status %d", status)}
	}

	rows, err := s.parseTable(body)
	if err != nil {
		return nil, err
	}

	var jobs []types.RawJob
	for _, row := range rows {
		listing := matching.Listing{Title: row.Role, Location: row.Location, Age: row.Age}
		if !s.filter.Matches(listing) {
			s.log.WithFields(logrus.Fields{
				"company":  row.Company,
				"role":     row.Role,
				"location": row.Location,
				"age":      row.Age,
			}).Debug("filtered out listing")
			continue
		}
		jobs = append(jobs, s.buildRawJob(row))
	}

	return jobs, nil
}

// parseTable extracts rows from the first HTML table in the document. Rows
// whose company cell is the continuation marker inherit the previous
// company.
func (s *Simplify) parseTable(markdown string) ([]tableRow, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markdown))
	if err != nil {
		return nil, fmt.Errorf("failed to parse listing table: %w", err)
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, nil
	}

	var rows []tableRow
	currentCompany := ""

	table.Find("tbody tr").Each(func(_ int, tr *goquery.Selection) {
		tds := tr.Find("td")
		if tds.Length() < 5 {
			return
		}

		company := strings.TrimSpace(tds.Eq(0).Text())
		if company == continuationMarker {
			company = currentCompany
		} else {
			currentCompany = company
		}
		if company == "" {
			return
		}

		rows = append(rows, tableRow{
			Company:  company,
			Role:     strings.TrimSpace(tds.Eq(1).Text()),
			Location: strings.TrimSpace(tds.Eq(2).Text()),
			ApplyURL: tds.Eq(3).Find("a").AttrOr("href", ""),
			Age:      strings.TrimSpace(tds.Eq(4).Text()),
		})
	})

	return rows, nil
}

func (s *Simplify) buildRawJob(row tableRow) types.RawJob {
	score := relevanceScore(row.Role, row.Location)
	confidence := confidenceFromScore(score)

	return types.RawJob{
		JobTitle:       row.Role,
		Company:        row.Company,
		Location:       row.Location,
		JobURL:         row.ApplyURL,
		Source:         types.SourceSimplifyGitHub,
		DatePosted:     s.datePosted(row.Age),
		RelevanceScore: &score,
		RoleType:       classifyRole(row.Role),
		Confidence:     &confidence,
	}
}

// classifyRole buckets a title into internship, new_grad, or other.
func classifyRole(title string) string {
	t := strings.ToLower(title)
	switch {
	case strings.Contains(t, "intern"):
		return "internship"
	case strings.Contains(t, "new grad") || strings.Contains(t, "graduate"):
		return "new_grad"
	default:
		return "other"
	}
}

// relevanceScore scores a listing 0..100 from title keywords, with a soft
// penalty for locations that are neither remote nor recognizably US.
func relevanceScore(title, location string) int {
	t := strings.ToLower(title)
	loc := strings.ToLower(location)
	score := 0

	for _, kw := range sweKeywords {
		if strings.Contains(t, kw) {
			score += 30
		}
	}
	for _, kw := range mlKeywords {
		if strings.Contains(t, kw) {
			score += 15
		}
	}
	if strings.Contains(t, "intern") {
		score += 20
	}

	if !strings.Contains(loc, "remote") && !matching.HasUSLocation(loc) {
		score -= 25
	}

	if score > 100 {
		return 100
	}
	if score < 0 {
		return 0
	}
	return score
}

// confidenceFromScore maps a relevance score to a post-filter confidence.
func confidenceFromScore(score int) float64 {
	switch {
	case score >= 85:
		return 0.95
	case score >= 70:
		return 0.85
	case score >= 50:
		return 0.7
	case score >= 30:
		return 0.5
	default:
		return 0.3
	}
}

// datePosted derives an ISO date from a free-text age like "5 days ago".
func (s *Simplify) datePosted(age string) string {
	days, ok := matching.AgeInDays(strings.ToLower(age))
	if !ok {
		return ""
	}
	posted := s.now().UTC().AddDate(0, 0, -days)
	return posted.Format("2006-01-02")
}
