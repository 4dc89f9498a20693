// Package contactemail persists extracted contacts. Writes replace the full
// contact set for a posting so re-extraction never leaves stale rows.
package contactemail

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/PNGURuckus/EasyInterns/pkg/database"
	"github.com/PNGURuckus/EasyInterns/pkg/models"
)

// Repository handles contact email persistence.
type Repository struct {
	db     database.DB
	logger *zap.Logger
}

// New creates the repository.
func New(db database.DB, logger *zap.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

// ReplaceForPosting swaps the posting's contacts for the given set in one
// transaction. An empty set just clears them.
func (r *Repository) ReplaceForPosting(ctx context.Context, postingID string, contacts []models.ContactEmail) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin contacts transaction")
	}
	defer tx.Rollback()

	db := database.NewDeleteBuilder()
	db.DeleteFrom("contact_emails")
	db.Where(db.Equal("posting_id", postingID))
	query, args := db.Build()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		r.logger.Error("failed to clear posting contacts",
			zap.String("posting_id", postingID), zap.Error(err))
		return errors.Wrap(err, "clear posting contacts")
	}

	if len(contacts) > 0 {
		ib := database.NewInsertBuilder()
		chain := ib.InsertInto("contact_emails").
			Cols("id", "posting_id", "email", "confidence", "verified", "source_type", "created_at")
		for _, c := range contacts {
			id := c.ID
			if id == "" {
				id = uuid.New().String()
			}
			chain = chain.Values(id, postingID, c.Email, c.Confidence, c.Verified, string(c.SourceType), database.Now())
		}
		query, args := chain.Build()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			r.logger.Error("failed to insert posting contacts",
				zap.String("posting_id", postingID), zap.Error(err))
			return errors.Wrap(err, "insert posting contacts")
		}
	}

	return errors.Wrap(tx.Commit(), "commit contacts transaction")
}

// ListForPosting returns a posting's contacts, optionally filtered to those
// at or above minConfidence, ordered by confidence descending.
func (r *Repository) ListForPosting(ctx context.Context, postingID string, minConfidence float64) ([]models.ContactEmail, error) {
	sb := database.NewSelectBuilder()
	sb.Select("id", "posting_id", "email", "confidence", "verified", "source_type", "created_at")
	sb.From("contact_emails")
	where := []string{sb.Equal("posting_id", postingID)}
	if minConfidence > 0 {
		where = append(where, sb.GE("confidence", minConfidence))
	}
	sb.Where(where...)
	sb.OrderBy("confidence DESC", "email ASC")

	query, args := sb.Build()
	contacts := []models.ContactEmail{}
	if err := r.db.SelectContext(ctx, &contacts, query, args...); err != nil {
		r.logger.Error("failed to list posting contacts",
			zap.String("posting_id", postingID), zap.Error(err))
		return nil, errors.Wrap(err, "list posting contacts")
	}
	return contacts, nil
}
