package scrapers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/PNGURuckus/EasyInterns/pkg/models"
)

const leverPostingsURL = "https://api.lever.co/v0/postings/%s?mode=json"

// Lever pulls internship postings from the public Lever postings API for a
// configured set of company slugs.
type Lever struct {
	client    *Client
	companies []string
}

// NewLever creates the adapter.
func NewLever(client *Client, companies []string) *Lever {
	return &Lever{client: client, companies: companies}
}

func (l *Lever) Name() string { return "lever" }

type leverPosting struct {
	ID               string `json:"id"`
	Text             string `json:"text"`
	HostedURL        string `json:"hostedUrl"`
	ApplyURL         string `json:"applyUrl"`
	Description      string `json:"description"`
	DescriptionPlain string `json:"descriptionPlain"`
	CreatedAt        int64  `json:"createdAt"` // ms since epoch
	WorkplaceType    string `json:"workplaceType"`
	Categories       struct {
		Location   string `json:"location"`
		Commitment string `json:"commitment"`
	} `json:"categories"`
	SalaryRange *struct {
		Min int `json:"min"`
		Max int `json:"max"`
	} `json:"salaryRange"`
}

func (l *Lever) Scrape(ctx context.Context, query Query) ([]models.RawPosting, error) {
	var postings []models.RawPosting
	var lastErr error

	for _, company := range l.companies {
		if ctx.Err() != nil {
			break
		}

		var jobs []leverPosting
		err := l.client.GetJSON(ctx, fmt.Sprintf(leverPostingsURL, company), &jobs)
		if errors.Is(err, ErrBudgetExhausted) {
			break
		}
		if err != nil {
			lastErr = err
			continue
		}

		for _, job := range jobs {
			if !looksLikeInternship(job.Text) && !strings.Contains(strings.ToLower(job.Categories.Commitment), "intern") {
				continue
			}

			applyURL := job.ApplyURL
			if applyURL == "" {
				applyURL = job.HostedURL
			}
			description := job.DescriptionPlain
			if description == "" {
				description = stripTags(job.Description)
			}

			posting := models.RawPosting{
				SourceID:        l.Name(),
				SourceKey:       company + "/" + job.ID,
				Title:           job.Text,
				CompanyName:     company,
				Location:        job.Categories.Location,
				Description:     description,
				DescriptionHTML: job.Description,
				ApplyURL:        applyURL,
				ModalityHint:    job.WorkplaceType,
			}
			if job.CreatedAt > 0 {
				t := time.UnixMilli(job.CreatedAt).UTC()
				posting.PostedAt = &t
			}
			if job.SalaryRange != nil {
				minSalary, maxSalary := job.SalaryRange.Min, job.SalaryRange.Max
				posting.SalaryMin = &minSalary
				posting.SalaryMax = &maxSalary
			}
			postings = append(postings, posting)
		}
	}

	if len(postings) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return postings, nil
}
