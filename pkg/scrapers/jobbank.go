package scrapers

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"

	"github.com/PNGURuckus/EasyInterns/pkg/models"
)

const jobbankSearchURL = "https://www.jobbank.gc.ca/jobsearch/jobsearch?searchstring=%s&locationstring=%s&sort=D&page=%d"

// JobBank scrapes the Canada Job Bank search results pages. The site is
// server-rendered HTML, so this adapter paginates until a page comes back
// empty or the request budget runs out.
type JobBank struct {
	client *Client
}

// NewJobBank creates the adapter.
func NewJobBank(client *Client) *JobBank {
	return &JobBank{client: client}
}

func (j *JobBank) Name() string { return "jobbank" }

func (j *JobBank) Scrape(ctx context.Context, query Query) ([]models.RawPosting, error) {
	keywords := query.Keywords
	if keywords == "" {
		keywords = "internship"
	}

	var postings []models.RawPosting
	for page := 1; ; page++ {
		if ctx.Err() != nil {
			break
		}

		searchURL := fmt.Sprintf(jobbankSearchURL,
			url.QueryEscape(keywords), url.QueryEscape(query.Location), page)
		body, err := j.client.Get(ctx, searchURL)
		if errors.Is(err, ErrBudgetExhausted) {
			break
		}
		if err != nil {
			if len(postings) > 0 {
				break
			}
			return nil, err
		}

		pagePostings, err := j.parseResults(body)
		if err != nil {
			return nil, err
		}
		if len(pagePostings) == 0 {
			break
		}
		postings = append(postings, pagePostings...)
	}
	return postings, nil
}

// parseResults extracts postings from one search results page. A page that
// parses but has none of the expected result markup means the site changed.
func (j *JobBank) parseResults(body []byte) ([]models.RawPosting, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, &models.SourceFormatChangedError{SourceID: j.Name(), Detail: "html parse: " + err.Error()}
	}

	items := doc.Find("article.action-buttons")
	if items.Length() == 0 {
		// Either genuinely empty results or changed markup; an explicit
		// results container distinguishes the two.
		if doc.Find("div.results-jobs").Length() == 0 && doc.Find("#results-list-content").Length() == 0 {
			return nil, &models.SourceFormatChangedError{SourceID: j.Name(), Detail: "results container missing"}
		}
		return nil, nil
	}

	var postings []models.RawPosting
	items.Each(func(_ int, item *goquery.Selection) {
		title := strings.TrimSpace(item.Find("span.noctitle").First().Text())
		href, _ := item.Find("a.resultJobItem").First().Attr("href")
		if title == "" || href == "" {
			return
		}

		posting := models.RawPosting{
			SourceID:    j.Name(),
			SourceKey:   href,
			Title:       title,
			CompanyName: strings.TrimSpace(item.Find("li.business").First().Text()),
			Location:    cleanJobBankLocation(item.Find("li.location").First().Text()),
			Description: strings.TrimSpace(item.Find("div.summary").First().Text()),
			ApplyURL:    absoluteJobBankURL(href),
		}
		if dateText := strings.TrimSpace(item.Find("li.date").First().Text()); dateText != "" {
			if t, err := time.Parse("January 2, 2006", dateText); err == nil {
				posting.PostedAt = &t
			}
		}
		if salary := strings.TrimSpace(item.Find("li.salary").First().Text()); strings.Contains(strings.ToLower(salary), "remote") {
			posting.ModalityHint = "remote"
		}
		postings = append(postings, posting)
	})
	return postings, nil
}

func cleanJobBankLocation(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "Location")
	return strings.Join(strings.Fields(s), " ")
}

func absoluteJobBankURL(href string) string {
	if strings.HasPrefix(href, "http") {
		return href
	}
	return "https://www.jobbank.gc.ca" + href
}
