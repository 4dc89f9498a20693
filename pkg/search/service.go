// Package search serves posting reads: filtered search with facets, and
// ranked reads scored on read against a candidate profile.
package search

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/PNGURuckus/EasyInterns/internal/repositories/posting"
	"github.com/PNGURuckus/EasyInterns/pkg/models"
	"github.com/PNGURuckus/EasyInterns/pkg/ranking"
)

// rankingCandidateLimit caps how many filtered postings a ranked read pulls
// for scoring. Ranking is done in memory, so the page is cut after sorting.
const rankingCandidateLimit = 500

// Service answers search queries over the posting store.
type Service struct {
	postings        *posting.Repository
	scorer          *ranking.Scorer
	stalenessWindow time.Duration
	logger          *zap.Logger
}

// New creates the service. stalenessWindow controls which postings count as
// current in default reads; stale ones stay stored for audit.
func New(postings *posting.Repository, scorer *ranking.Scorer, stalenessWindow time.Duration, logger *zap.Logger) *Service {
	return &Service{
		postings:        postings,
		scorer:          scorer,
		stalenessWindow: stalenessWindow,
		logger:          logger,
	}
}

func (s *Service) staleBefore() time.Time {
	return time.Now().UTC().Add(-s.stalenessWindow)
}

// Search returns one page of matches plus facet counts over the whole
// filtered set.
func (s *Service) Search(ctx context.Context, q models.SearchQuery) (*models.PostingListResponse, error) {
	staleBefore := s.staleBefore()

	postings, total, err := s.postings.Search(ctx, q, staleBefore)
	if err != nil {
		return nil, err
	}
	facets, err := s.postings.Facets(ctx, q, staleBefore)
	if err != nil {
		return nil, err
	}

	page, pageSize := normalizePage(q)
	return &models.PostingListResponse{
		Items:      postings,
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
		Facets:     facets,
	}, nil
}

// SearchRanked scores the filtered set against the profile and returns the
// requested page of the ranked order.
func (s *Service) SearchRanked(ctx context.Context, q models.SearchQuery, profile models.CandidateProfile) (*models.RankedListResponse, error) {
	candidateQuery := q
	candidateQuery.Page = 1
	candidateQuery.PageSize = rankingCandidateLimit

	postings, total, err := s.postings.Search(ctx, candidateQuery, s.staleBefore())
	if err != nil {
		return nil, err
	}

	ranked, err := s.scorer.Rank(profile, postings, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	page, pageSize := normalizePage(q)
	start := (page - 1) * pageSize
	if start > len(ranked) {
		start = len(ranked)
	}
	end := start + pageSize
	if end > len(ranked) {
		end = len(ranked)
	}

	return &models.RankedListResponse{
		Items:      ranked[start:end],
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
	}, nil
}

// GetPosting fetches one posting by id.
func (s *Service) GetPosting(ctx context.Context, id string) (*models.CanonicalPosting, error) {
	return s.postings.GetByID(ctx, id)
}

func normalizePage(q models.SearchQuery) (page, pageSize int) {
	page = q.Page
	if page < 1 {
		page = 1
	}
	pageSize = q.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}
