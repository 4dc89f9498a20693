// Package pipeline glues one source's scrape output to persistence:
// normalize, dedup-merge, upsert, contact extraction, events and metrics.
package pipeline

import (
	"context"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/PNGURuckus/EasyInterns/internal/repositories/company"
	"github.com/PNGURuckus/EasyInterns/internal/repositories/contactemail"
	"github.com/PNGURuckus/EasyInterns/internal/repositories/posting"
	"github.com/PNGURuckus/EasyInterns/pkg/emails"
	"github.com/PNGURuckus/EasyInterns/pkg/events"
	"github.com/PNGURuckus/EasyInterns/pkg/metrics"
	"github.com/PNGURuckus/EasyInterns/pkg/models"
	"github.com/PNGURuckus/EasyInterns/pkg/normalize"
)

// Pipeline ingests raw postings for one source at a time. The orchestrator
// serializes calls, so the merge path has a single writer.
type Pipeline struct {
	postings  *posting.Repository
	companies *company.Repository
	contacts  *contactemail.Repository
	extractor *emails.Extractor
	emitter   *events.Emitter
	logger    *zap.Logger
}

// New creates the pipeline.
func New(
	postings *posting.Repository,
	companies *company.Repository,
	contacts *contactemail.Repository,
	extractor *emails.Extractor,
	emitter *events.Emitter,
	logger *zap.Logger,
) *Pipeline {
	return &Pipeline{
		postings:  postings,
		companies: companies,
		contacts:  contacts,
		extractor: extractor,
		emitter:   emitter,
		logger:    logger,
	}
}

// Result tallies one ingest batch.
type Result struct {
	New     int
	Updated int
	Dropped int
}

// Ingest normalizes and persists one source's batch. Re-ingesting the same
// batch is idempotent: fingerprints collide and merges change nothing.
// Unparseable postings are dropped and counted, never fatal.
func (p *Pipeline) Ingest(ctx context.Context, sourceID string, raws []models.RawPosting) (Result, error) {
	var result Result
	now := time.Now().UTC()

	// Dedup within the batch first so a source repeating a posting across
	// pages costs one upsert, not several.
	index := normalize.NewIndex()
	rawByFingerprint := make(map[string]models.RawPosting, len(raws))
	for _, raw := range raws {
		canonical, err := normalize.Canonicalize(raw, now)
		if err != nil {
			result.Dropped++
			metrics.PostingsIngested.WithLabelValues(sourceID, "dropped").Inc()
			p.logger.Debug("dropped raw posting", zap.String("source", sourceID), zap.Error(err))
			continue
		}
		index.Upsert(canonical)
		if _, ok := rawByFingerprint[canonical.Fingerprint]; !ok {
			rawByFingerprint[canonical.Fingerprint] = raw
		}
	}

	for _, canonical := range index.All() {
		raw := rawByFingerprint[canonical.Fingerprint]

		domain := companyDomain(raw.ApplyURL)
		comp, err := p.companies.Resolve(ctx, canonical.CompanyName, domain)
		if err != nil {
			return result, err
		}
		canonical.CompanyID = &comp.ID

		upserted, err := p.postings.Upsert(ctx, canonical)
		if err != nil {
			return result, err
		}
		stored := upserted.Posting

		if upserted.IsNew {
			result.New++
			metrics.PostingsIngested.WithLabelValues(sourceID, "new").Inc()
			_ = p.emitter.EmitPostingCreated(ctx, stored)
		} else {
			result.Updated++
			metrics.PostingsIngested.WithLabelValues(sourceID, "updated").Inc()
			_ = p.emitter.EmitPostingMerged(ctx, stored)
		}

		contacts := p.extractor.Extract(ctx, emails.Input{
			Description:   canonical.Description,
			HTML:          raw.DescriptionHTML,
			CompanyDomain: comp.Domain,
		})
		if err := p.contacts.ReplaceForPosting(ctx, stored.ID, contacts); err != nil {
			// Contacts are enrichment, not core data. Log and move on.
			p.logger.Warn("failed to store contacts",
				zap.String("posting_id", stored.ID), zap.Error(err))
		} else {
			metrics.ContactsExtracted.Add(float64(len(contacts)))
		}
	}

	return result, nil
}

// atsHosts are apply-URL hosts that belong to job boards, not the hiring
// company, and therefore say nothing about the company's mail domain.
var atsHosts = []string{
	"greenhouse.io", "lever.co", "jobbank.gc.ca", "talent.com",
	"linkedin.com", "glassdoor.com", "workday.com", "myworkdayjobs.com",
	"indeed.com", "jobs.ca",
}

// companyDomain guesses the company's domain from the apply URL, returning
// empty for known ATS hosts.
func companyDomain(applyURL string) string {
	u, err := url.Parse(applyURL)
	if err != nil || u.Host == "" {
		return ""
	}
	host := strings.ToLower(strings.TrimPrefix(u.Hostname(), "www."))
	for _, ats := range atsHosts {
		if host == ats || strings.HasSuffix(host, "."+ats) {
			return ""
		}
	}
	return host
}
