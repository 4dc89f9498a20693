package scrapers

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"

	"github.com/PNGURuckus/EasyInterns/pkg/models"
)

const glassdoorSearchURL = "https://www.glassdoor.com/Job/jobs.htm?sc.keyword=%s&locT=N&jobType=internship"

// Glassdoor scrapes the public job-search page. Disabled by default behind
// ENABLE_GLASSDOOR_SCRAPER for the same reasons as LinkedIn.
type Glassdoor struct {
	client *Client
}

// NewGlassdoor creates the adapter.
func NewGlassdoor(client *Client) *Glassdoor {
	return &Glassdoor{client: client}
}

func (g *Glassdoor) Name() string { return "glassdoor" }

func (g *Glassdoor) Scrape(ctx context.Context, query Query) ([]models.RawPosting, error) {
	keywords := query.Keywords
	if keywords == "" {
		keywords = "internship"
	}

	body, err := g.client.Get(ctx, fmt.Sprintf(glassdoorSearchURL, url.QueryEscape(keywords)))
	if errors.Is(err, ErrBudgetExhausted) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, &models.SourceFormatChangedError{SourceID: g.Name(), Detail: "html parse: " + err.Error()}
	}

	cards := doc.Find("li[data-test=jobListing]")
	if cards.Length() == 0 {
		return nil, &models.SourceFormatChangedError{SourceID: g.Name(), Detail: "job listing cards missing"}
	}

	var postings []models.RawPosting
	cards.Each(func(_ int, card *goquery.Selection) {
		title := strings.TrimSpace(card.Find("a[data-test=job-title]").Text())
		href, _ := card.Find("a[data-test=job-title]").Attr("href")
		if title == "" || href == "" {
			return
		}
		if !strings.HasPrefix(href, "http") {
			href = "https://www.glassdoor.com" + href
		}
		postings = append(postings, models.RawPosting{
			SourceID:    g.Name(),
			SourceKey:   href,
			Title:       title,
			CompanyName: strings.TrimSpace(card.Find("span[data-test=employer-name]").Text()),
			Location:    strings.TrimSpace(card.Find("div[data-test=emp-location]").Text()),
			ApplyURL:    href,
		})
	})
	return postings, nil
}
