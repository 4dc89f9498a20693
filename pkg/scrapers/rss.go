package scrapers

import (
	"context"
	"encoding/xml"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/PNGURuckus/EasyInterns/pkg/models"
)

// RSS reads configured RSS 2.0 job feeds (university career boards, niche
// aggregators). Feed items carry the company in the title as "Role at
// Company" or in dc:creator.
type RSS struct {
	client *Client
	feeds  []string
}

// NewRSS creates the adapter.
func NewRSS(client *Client, feeds []string) *RSS {
	return &RSS{client: client, feeds: feeds}
}

func (r *RSS) Name() string { return "rss" }

type rssFeed struct {
	Channel struct {
		Title string    `xml:"title"`
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	GUID        string `xml:"guid"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
	Creator     string `xml:"creator"`
}

func (r *RSS) Scrape(ctx context.Context, query Query) ([]models.RawPosting, error) {
	var postings []models.RawPosting
	var lastErr error

	for _, feedURL := range r.feeds {
		if ctx.Err() != nil {
			break
		}

		body, err := r.client.Get(ctx, feedURL)
		if errors.Is(err, ErrBudgetExhausted) {
			break
		}
		if err != nil {
			lastErr = err
			continue
		}

		var feed rssFeed
		if err := xml.Unmarshal(body, &feed); err != nil {
			lastErr = &models.SourceFormatChangedError{SourceID: r.Name(), Detail: "xml decode: " + err.Error()}
			continue
		}

		for _, item := range feed.Channel.Items {
			if item.Title == "" || item.Link == "" {
				continue
			}
			title, company := splitTitleCompany(item.Title)
			if company == "" {
				company = strings.TrimSpace(item.Creator)
			}
			if company == "" {
				company = strings.TrimSpace(feed.Channel.Title)
			}

			key := item.GUID
			if key == "" {
				key = item.Link
			}
			posting := models.RawPosting{
				SourceID:        r.Name(),
				SourceKey:       key,
				Title:           title,
				CompanyName:     company,
				Description:     stripTags(item.Description),
				DescriptionHTML: item.Description,
				ApplyURL:        item.Link,
			}
			if t, err := parsePubDate(item.PubDate); err == nil {
				posting.PostedAt = &t
			}
			postings = append(postings, posting)
		}
	}

	if len(postings) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return postings, nil
}

// splitTitleCompany pulls "Company" out of "Software Intern at Company".
func splitTitleCompany(title string) (string, string) {
	if i := strings.LastIndex(title, " at "); i > 0 {
		return strings.TrimSpace(title[:i]), strings.TrimSpace(title[i+4:])
	}
	return strings.TrimSpace(title), ""
}

var pubDateLayouts = []string{time.RFC1123Z, time.RFC1123, time.RFC822Z, time.RFC822}

func parsePubDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var lastErr error
	for _, layout := range pubDateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
