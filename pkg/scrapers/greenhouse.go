package scrapers

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/PNGURuckus/EasyInterns/pkg/models"
)

const greenhouseBoardURL = "https://boards-api.greenhouse.io/v1/boards/%s/jobs?content=true"

// Greenhouse pulls internship postings from the public Greenhouse board API
// for a configured set of company board slugs. One request per company.
type Greenhouse struct {
	client    *Client
	companies []string
}

// NewGreenhouse creates the adapter. companies are board slugs like "stripe".
func NewGreenhouse(client *Client, companies []string) *Greenhouse {
	return &Greenhouse{client: client, companies: companies}
}

func (g *Greenhouse) Name() string { return "greenhouse" }

type greenhouseJob struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	AbsoluteURL string `json:"absolute_url"`
	Content     string `json:"content"`
	UpdatedAt   string `json:"updated_at"`
	Location    struct {
		Name string `json:"name"`
	} `json:"location"`
}

type greenhouseBoard struct {
	Jobs []greenhouseJob `json:"jobs"`
}

// Scrape fetches every configured board. A board that fails is skipped; the
// whole source only errors when no board yielded anything.
func (g *Greenhouse) Scrape(ctx context.Context, query Query) ([]models.RawPosting, error) {
	var postings []models.RawPosting
	var lastErr error

	for _, company := range g.companies {
		if ctx.Err() != nil {
			break
		}

		var board greenhouseBoard
		err := g.client.GetJSON(ctx, fmt.Sprintf(greenhouseBoardURL, company), &board)
		if errors.Is(err, ErrBudgetExhausted) {
			break
		}
		if err != nil {
			lastErr = err
			continue
		}

		for _, job := range board.Jobs {
			if !looksLikeInternship(job.Title) {
				continue
			}
			posting := models.RawPosting{
				SourceID:        g.Name(),
				SourceKey:       fmt.Sprintf("%s/%d", company, job.ID),
				Title:           job.Title,
				CompanyName:     company,
				Location:        job.Location.Name,
				Description:     stripTags(job.Content),
				DescriptionHTML: job.Content,
				ApplyURL:        job.AbsoluteURL,
			}
			if t, err := time.Parse(time.RFC3339, job.UpdatedAt); err == nil {
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
