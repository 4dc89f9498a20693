// Package company resolves posting company names to company rows. Identity
// is (name, domain); the same name with a different domain is a different
// company.
package company

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/PNGURuckus/EasyInterns/pkg/database"
	"github.com/PNGURuckus/EasyInterns/pkg/models"
)

// Repository handles company persistence.
type Repository struct {
	db     database.DB
	logger *zap.Logger
}

// New creates the repository.
func New(db database.DB, logger *zap.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

const resolveQuery = `
INSERT INTO companies (id, name, domain, created_at, updated_at)
VALUES ($1, $2, $3, now(), now())
ON CONFLICT (name, domain) DO UPDATE SET updated_at = now()
RETURNING id, name, domain, created_at, updated_at`

// Resolve returns the company row for (name, domain), creating it when
// missing. Domain may be empty.
func (r *Repository) Resolve(ctx context.Context, name, domain string) (*models.Company, error) {
	var company models.Company
	err := r.db.GetContext(ctx, &company, resolveQuery, uuid.New().String(), name, domain)
	if err != nil {
		r.logger.Error("failed to resolve company",
			zap.String("name", name), zap.String("domain", domain), zap.Error(err))
		return nil, errors.Wrap(err, "resolve company")
	}
	return &company, nil
}

// GetByID fetches one company.
func (r *Repository) GetByID(ctx context.Context, id string) (*models.Company, error) {
	sb := database.NewSelectBuilder()
	sb.Select("id", "name", "domain", "created_at", "updated_at")
	sb.From("companies")
	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()
	var company models.Company
	if err := r.db.GetContext(ctx, &company, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, errors.Wrap(err, "get company")
	}
	return &company, nil
}
