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

const linkedInGuestURL = "https://www.linkedin.com/jobs-guest/jobs/api/seeMoreJobPostings/search?keywords=%s&location=%s&f_E=1&start=%d"

// LinkedIn scrapes the guest job-search fragment endpoint. Disabled by
// default behind ENABLE_LINKEDIN_SCRAPER; the endpoint throttles hard and
// its use is restricted, so it stays opt-in.
type LinkedIn struct {
	client *Client
}

// NewLinkedIn creates the adapter.
func NewLinkedIn(client *Client) *LinkedIn {
	return &LinkedIn{client: client}
}

func (l *LinkedIn) Name() string { return "linkedin" }

const linkedInPageSize = 25

func (l *LinkedIn) Scrape(ctx context.Context, query Query) ([]models.RawPosting, error) {
	keywords := query.Keywords
	if keywords == "" {
		keywords = "internship"
	}

	var postings []models.RawPosting
	for start := 0; ; start += linkedInPageSize {
		if ctx.Err() != nil {
			break
		}

		body, err := l.client.Get(ctx, fmt.Sprintf(linkedInGuestURL,
			url.QueryEscape(keywords), url.QueryEscape(query.Location), start))
		if errors.Is(err, ErrBudgetExhausted) {
			break
		}
		if err != nil {
			if len(postings) > 0 {
				break
			}
			return nil, err
		}

		page, err := l.parseFragment(body)
		if err != nil {
			return nil, err
		}
		if len(page) == 0 {
			break
		}
		postings = append(postings, page...)
	}
	return postings, nil
}

func (l *LinkedIn) parseFragment(body []byte) ([]models.RawPosting, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, &models.SourceFormatChangedError{SourceID: l.Name(), Detail: "html parse: " + err.Error()}
	}

	var postings []models.RawPosting
	doc.Find("div.base-search-card").Each(func(_ int, card *goquery.Selection) {
		title := strings.TrimSpace(card.Find("h3.base-search-card__title").Text())
		href, _ := card.Find("a.base-card__full-link").Attr("href")
		if title == "" || href == "" {
			return
		}
		posting := models.RawPosting{
			SourceID:    l.Name(),
			SourceKey:   href,
			Title:       title,
			CompanyName: strings.TrimSpace(card.Find("h4.base-search-card__subtitle").Text()),
			Location:    strings.TrimSpace(card.Find("span.job-search-card__location").Text()),
			ApplyURL:    href,
		}
		if datetime, ok := card.Find("time").Attr("datetime"); ok {
			if t, err := time.Parse("2006-01-02", datetime); err == nil {
				posting.PostedAt = &t
			}
		}
		postings = append(postings, posting)
	})
	return postings, nil
}
