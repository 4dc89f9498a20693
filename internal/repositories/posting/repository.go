// Package posting persists canonical postings. The upsert mirrors the merge
// rules in pkg/normalize so concurrent runs converge on the same row that an
// in-memory merge would produce.
package posting

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/huandu/go-sqlbuilder"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/PNGURuckus/EasyInterns/pkg/database"
	"github.com/PNGURuckus/EasyInterns/pkg/models"
)

var postingColumns = []string{
	"id", "fingerprint", "company_id", "company_name", "title", "location",
	"description", "apply_url", "modality", "field_tags", "salary_min",
	"salary_max", "posted_at", "source_ids", "first_seen_at", "last_seen_at",
	"created_at", "updated_at",
}

// Repository handles posting persistence.
type Repository struct {
	db     database.DB
	logger *zap.Logger
}

// New creates the repository.
func New(db database.DB, logger *zap.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

// UpsertResult reports whether the upsert created a row.
type UpsertResult struct {
	Posting *models.CanonicalPosting
	IsNew   bool
}

type upsertRow struct {
	models.CanonicalPosting
	Inserted bool `db:"inserted"`
}

// upsertQuery applies the merge rules in SQL: union arrays, longer
// description wins, salary range widens, seen-window extends. xmax = 0
// distinguishes insert from update on the returned row.
const upsertQuery = `
INSERT INTO postings (
	id, fingerprint, company_id, company_name, title, location, description,
	apply_url, modality, field_tags, salary_min, salary_max, posted_at,
	source_ids, first_seen_at, last_seen_at, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, now(), now())
ON CONFLICT (fingerprint) DO UPDATE SET
	company_id  = COALESCE(postings.company_id, EXCLUDED.company_id),
	company_name = CASE WHEN length(EXCLUDED.description) > length(postings.description)
		THEN EXCLUDED.company_name ELSE postings.company_name END,
	title = CASE WHEN length(EXCLUDED.description) > length(postings.description)
		THEN EXCLUDED.title ELSE postings.title END,
	location = CASE WHEN length(EXCLUDED.description) > length(postings.description)
		THEN EXCLUDED.location ELSE postings.location END,
	apply_url = CASE WHEN length(EXCLUDED.description) > length(postings.description)
		THEN EXCLUDED.apply_url ELSE postings.apply_url END,
	modality = CASE WHEN length(EXCLUDED.description) > length(postings.description)
		THEN EXCLUDED.modality ELSE postings.modality END,
	description = CASE WHEN length(EXCLUDED.description) > length(postings.description)
		THEN EXCLUDED.description ELSE postings.description END,
	field_tags = ARRAY(SELECT DISTINCT t FROM unnest(postings.field_tags || EXCLUDED.field_tags) AS t ORDER BY t),
	source_ids = ARRAY(SELECT DISTINCT s FROM unnest(postings.source_ids || EXCLUDED.source_ids) AS s ORDER BY s),
	salary_min = LEAST(COALESCE(postings.salary_min, EXCLUDED.salary_min), COALESCE(EXCLUDED.salary_min, postings.salary_min)),
	salary_max = GREATEST(COALESCE(postings.salary_max, EXCLUDED.salary_max), COALESCE(EXCLUDED.salary_max, postings.salary_max)),
	posted_at = LEAST(COALESCE(postings.posted_at, EXCLUDED.posted_at), COALESCE(EXCLUDED.posted_at, postings.posted_at)),
	first_seen_at = LEAST(postings.first_seen_at, EXCLUDED.first_seen_at),
	last_seen_at = GREATEST(postings.last_seen_at, EXCLUDED.last_seen_at),
	updated_at = now()
RETURNING id, fingerprint, company_id, company_name, title, location, description,
	apply_url, modality, field_tags, salary_min, salary_max, posted_at,
	source_ids, first_seen_at, last_seen_at, created_at, updated_at,
	(xmax = 0) AS inserted`

// Upsert inserts the posting or merges it into the row with the same
// fingerprint. The posting's ID is assigned here when empty.
func (r *Repository) Upsert(ctx context.Context, posting *models.CanonicalPosting) (*UpsertResult, error) {
	if posting.ID == "" {
		posting.ID = uuid.New().String()
	}

	var row upsertRow
	err := r.db.GetContext(ctx, &row, upsertQuery,
		posting.ID, posting.Fingerprint, posting.CompanyID, posting.CompanyName,
		posting.Title, posting.Location, posting.Description, posting.ApplyURL,
		posting.Modality, pq.Array([]string(posting.FieldTags)),
		posting.SalaryMin, posting.SalaryMax, posting.PostedAt,
		pq.Array([]string(posting.SourceIDs)), posting.FirstSeenAt, posting.LastSeenAt,
	)
	if err != nil {
		r.logger.Error("failed to upsert posting",
			zap.String("fingerprint", posting.Fingerprint), zap.Error(err))
		return nil, errors.Wrap(err, "upsert posting")
	}

	return &UpsertResult{Posting: &row.CanonicalPosting, IsNew: row.Inserted}, nil
}

// GetByID fetches one posting.
func (r *Repository) GetByID(ctx context.Context, id string) (*models.CanonicalPosting, error) {
	sb := database.NewSelectBuilder()
	sb.Select(postingColumns...)
	sb.From("postings")
	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()
	var posting models.CanonicalPosting
	if err := r.db.GetContext(ctx, &posting, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		r.logger.Error("failed to get posting", zap.String("id", id), zap.Error(err))
		return nil, errors.Wrap(err, "get posting")
	}
	return &posting, nil
}

// Search returns the filtered page plus the total match count.
// staleBefore excludes postings not seen since then unless the query opts in.
func (r *Repository) Search(ctx context.Context, q models.SearchQuery, staleBefore time.Time) ([]models.CanonicalPosting, int, error) {
	sb := database.NewSelectBuilder()
	sb.Select(postingColumns...)
	sb.From("postings")
	applyFilters(sb, q, staleBefore)
	sb.OrderBy("last_seen_at DESC", "id ASC")

	page, pageSize := pagination(q)
	sb.Limit(pageSize)
	sb.Offset((page - 1) * pageSize)

	query, args := sb.Build()
	var postings []models.CanonicalPosting
	if err := r.db.SelectContext(ctx, &postings, query, args...); err != nil {
		r.logger.Error("failed to search postings", zap.Error(err))
		return nil, 0, errors.Wrap(err, "search postings")
	}

	cb := database.NewSelectBuilder()
	cb.Select("count(*)")
	cb.From("postings")
	applyFilters(cb, q, staleBefore)

	countQuery, countArgs := cb.Build()
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		r.logger.Error("failed to count postings", zap.Error(err))
		return nil, 0, errors.Wrap(err, "count postings")
	}
	return postings, total, nil
}

// Facets computes counts over the full filtered set, not just one page.
func (r *Repository) Facets(ctx context.Context, q models.SearchQuery, staleBefore time.Time) (models.FacetCounts, error) {
	facets := models.FacetCounts{
		FieldTags:  map[string]int{},
		Modalities: map[string]int{},
		Locations:  map[string]int{},
	}

	tagCounts, err := r.groupCount(ctx, q, staleBefore, "unnest(field_tags)")
	if err != nil {
		return facets, err
	}
	facets.FieldTags = tagCounts

	modalityCounts, err := r.groupCount(ctx, q, staleBefore, "modality")
	if err != nil {
		return facets, err
	}
	facets.Modalities = modalityCounts

	locationCounts, err := r.groupCount(ctx, q, staleBefore, "location")
	if err != nil {
		return facets, err
	}
	facets.Locations = locationCounts

	return facets, nil
}

func (r *Repository) groupCount(ctx context.Context, q models.SearchQuery, staleBefore time.Time, expr string) (map[string]int, error) {
	sb := database.NewSelectBuilder()
	sb.Select(fmt.Sprintf("%s AS bucket", expr), "count(*) AS total")
	sb.From("postings")
	applyFilters(sb, q, staleBefore)
	sb.GroupBy("bucket")
	sb.OrderBy("total DESC")
	sb.Limit(50)

	query, args := sb.Build()
	rows, err := r.db.QueryxContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to compute facet", zap.String("facet", expr), zap.Error(err))
		return nil, errors.Wrapf(err, "facet %s", expr)
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var bucket string
		var total int
		if err := rows.Scan(&bucket, &total); err != nil {
			return nil, errors.Wrap(err, "scan facet row")
		}
		if bucket != "" {
			counts[bucket] = total
		}
	}
	return counts, rows.Err()
}

// applyFilters translates a search query to WHERE conditions. Shared by the
// page, count and facet queries so they always agree.
func applyFilters(sb *sqlbuilder.SelectBuilder, q models.SearchQuery, staleBefore time.Time) {
	var where []string

	if q.QueryText != "" {
		pattern := "%" + q.QueryText + "%"
		where = append(where, sb.Or(
			sb.ILike("title", pattern),
			sb.ILike("description", pattern),
			sb.ILike("company_name", pattern),
		))
	}
	if len(q.FieldTags) > 0 {
		tags := make([]string, len(q.FieldTags))
		for i, t := range q.FieldTags {
			tags[i] = string(t)
		}
		where = append(where, fmt.Sprintf("field_tags && %s", sb.Var(pq.Array(tags))))
	}
	if q.Modality != nil {
		where = append(where, sb.Equal("modality", string(*q.Modality)))
	}
	if len(q.Locations) > 0 {
		conds := make([]string, len(q.Locations))
		for i, loc := range q.Locations {
			conds[i] = sb.ILike("location", "%"+loc+"%")
		}
		where = append(where, sb.Or(conds...))
	}
	if q.SalaryMin != nil {
		where = append(where, fmt.Sprintf("COALESCE(salary_max, salary_min) >= %s", sb.Var(*q.SalaryMin)))
	}
	if q.SalaryMax != nil {
		where = append(where, fmt.Sprintf("COALESCE(salary_min, salary_max) <= %s", sb.Var(*q.SalaryMax)))
	}
	if !q.IncludeStale {
		where = append(where, sb.GE("last_seen_at", staleBefore))
	}

	if len(where) > 0 {
		sb.Where(where...)
	}
}

func pagination(q models.SearchQuery) (page, pageSize int) {
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
