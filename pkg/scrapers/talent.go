package scrapers

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/pkg/errors"

	"github.com/PNGURuckus/EasyInterns/pkg/models"
)

const talentSearchURL = "https://www.talent.com/api/v1/jobs/search?keyword=%s&location=%s&page=%d"

// Talent pulls postings from the talent.com search API, paginating until an
// empty page or budget exhaustion.
type Talent struct {
	client *Client
}

// NewTalent creates the adapter.
func NewTalent(client *Client) *Talent {
	return &Talent{client: client}
}

func (t *Talent) Name() string { return "talent" }

type talentJob struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Description string `json:"description"`
	URL         string `json:"url"`
	DatePosted  string `json:"datePosted"`
	Remote      bool   `json:"remote"`
	SalaryMin   *int   `json:"salaryMin"`
	SalaryMax   *int   `json:"salaryMax"`
}

type talentPage struct {
	Jobs []talentJob `json:"jobs"`
}

func (t *Talent) Scrape(ctx context.Context, query Query) ([]models.RawPosting, error) {
	keywords := query.Keywords
	if keywords == "" {
		keywords = "internship"
	}

	var postings []models.RawPosting
	for page := 1; ; page++ {
		if ctx.Err() != nil {
			break
		}

		var result talentPage
		err := t.client.GetJSON(ctx, fmt.Sprintf(talentSearchURL,
			url.QueryEscape(keywords), url.QueryEscape(query.Location), page), &result)
		if errors.Is(err, ErrBudgetExhausted) {
			break
		}
		if err != nil {
			if len(postings) > 0 {
				break
			}
			return nil, err
		}
		if len(result.Jobs) == 0 {
			break
		}

		for _, job := range result.Jobs {
			if !looksLikeInternship(job.Title) {
				continue
			}
			posting := models.RawPosting{
				SourceID:    t.Name(),
				SourceKey:   job.ID,
				Title:       job.Title,
				CompanyName: job.Company,
				Location:    job.Location,
				Description: stripTags(job.Description),
				ApplyURL:    job.URL,
				SalaryMin:   job.SalaryMin,
				SalaryMax:   job.SalaryMax,
			}
			if job.Remote {
				posting.ModalityHint = "remote"
			}
			if ts, err := time.Parse("2006-01-02", job.DatePosted); err == nil {
				posting.PostedAt = &ts
			}
			postings = append(postings, posting)
		}
	}
	return postings, nil
}
