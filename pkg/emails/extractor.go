// Package emails extracts recruiting contact addresses from posting text and
// scores each with an additive confidence model. Extraction is best-effort:
// empty input yields zero contacts, and resolver failures degrade the score
// rather than failing the call.
package emails

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/PNGURuckus/EasyInterns/config"
	"github.com/PNGURuckus/EasyInterns/pkg/models"
)

// Weights are the confidence signal magnitudes. The final score is clamped
// to [0,1]; DisplayThreshold gates which contacts API reads return.
type Weights struct {
	MailtoBase       float64
	PatternBase      float64
	DomainBonus      float64
	MXBonus          float64
	GenericPenalty   float64
	FreeMailPenalty  float64
	HRPrefixBonus    float64
	DisplayThreshold float64
}

// WeightsFromConfig reads the confidence weights out of service config.
func WeightsFromConfig(cfg *config.Config) Weights {
	return Weights{
		MailtoBase:       cfg.EmailMailtoBase,
		PatternBase:      cfg.EmailPatternBase,
		DomainBonus:      cfg.EmailDomainBonus,
		MXBonus:          cfg.EmailMXBonus,
		GenericPenalty:   cfg.EmailGenericPenalty,
		FreeMailPenalty:  cfg.EmailFreeMailPenalty,
		HRPrefixBonus:    cfg.EmailHRPrefixBonus,
		DisplayThreshold: cfg.EmailDisplayThreshold,
	}
}

var (
	mailtoRe = regexp.MustCompile(`(?i)mailto:([A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,})`)
	emailRe  = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)

	// Obfuscated forms like "jane [at] acme [dot] com" are rewritten before
	// pattern matching.
	obfuscatedAtRe  = regexp.MustCompile(`(?i)\s*[\[\(]\s*at\s*[\]\)]\s*`)
	obfuscatedDotRe = regexp.MustCompile(`(?i)\s*[\[\(]\s*dot\s*[\]\)]\s*`)
)

// genericLocalParts are shared role inboxes, not people. Recruiting aliases
// like careers@ count: a shared inbox is a weak contact no matter who reads
// it, so a personal address on the same domain should always outrank one.
var genericLocalParts = map[string]bool{
	"info": true, "admin": true, "contact": true, "hello": true,
	"support": true, "sales": true, "noreply": true, "no-reply": true,
	"office": true, "mail": true, "webmaster": true,
	"careers": true, "jobs": true, "recruiting": true, "recruitment": true,
	"talent": true, "hr": true, "internships": true, "hiring": true,
}

// hrTokens boost addresses that look like a person on the recruiting team,
// e.g. jane.recruiting@. Bare role inboxes are penalized instead.
var hrTokens = map[string]bool{
	"careers": true, "jobs": true, "recruiting": true, "recruitment": true,
	"recruiter": true, "talent": true, "hr": true, "hiring": true,
	"internship": true, "internships": true,
}

// freeMailDomains are personal-mail providers; an address there is unlikely
// to be the company's recruiting channel.
var freeMailDomains = map[string]bool{
	"gmail.com": true, "yahoo.com": true, "hotmail.com": true,
	"outlook.com": true, "aol.com": true, "icloud.com": true,
	"proton.me": true, "protonmail.com": true,
}

// Extractor finds and scores contact emails.
type Extractor struct {
	weights  Weights
	resolver MXResolver
	logger   *zap.Logger
}

// NewExtractor creates an Extractor. resolver may be nil to skip MX checks.
func NewExtractor(weights Weights, resolver MXResolver, logger *zap.Logger) *Extractor {
	return &Extractor{weights: weights, resolver: resolver, logger: logger}
}

// Input is the material extracted from one posting.
type Input struct {
	Description   string
	HTML          string
	CompanyDomain string // empty when the company has no known domain
}

// Extract returns scored contacts ordered by confidence descending. It never
// returns an error; DNS trouble just means no MX bonus.
func (e *Extractor) Extract(ctx context.Context, in Input) []models.ContactEmail {
	type candidate struct {
		sourceType models.EmailSourceType
		base       float64
	}
	found := make(map[string]candidate)

	for _, m := range mailtoRe.FindAllStringSubmatch(in.HTML, -1) {
		addr := strings.ToLower(m[1])
		found[addr] = candidate{sourceType: models.EmailSourceMailto, base: e.weights.MailtoBase}
	}

	text := deobfuscate(in.Description + "\n" + in.HTML)
	for _, addr := range emailRe.FindAllString(text, -1) {
		addr = strings.ToLower(strings.Trim(addr, "."))
		if _, ok := found[addr]; ok {
			continue // mailto already claimed it at a higher base
		}
		found[addr] = candidate{sourceType: models.EmailSourcePattern, base: e.weights.PatternBase}
	}

	contacts := make([]models.ContactEmail, 0, len(found))
	for addr, cand := range found {
		local, domain, ok := splitAddress(addr)
		if !ok {
			continue
		}

		confidence := cand.base
		if in.CompanyDomain != "" && domainMatches(domain, in.CompanyDomain) {
			confidence += e.weights.DomainBonus
		}
		switch {
		case genericLocalParts[local]:
			confidence -= e.weights.GenericPenalty
		case hasHRToken(local):
			confidence += e.weights.HRPrefixBonus
		}
		if freeMailDomains[domain] {
			confidence -= e.weights.FreeMailPenalty
		}

		verified := false
		if e.resolver != nil {
			has, err := e.resolver.HasMX(ctx, domain)
			switch {
			case err != nil:
				// Unknown, neither bonus nor penalty.
				e.logger.Debug("mx lookup inconclusive", zap.String("domain", domain), zap.Error(err))
			case has:
				confidence += e.weights.MXBonus
				verified = true
			}
		}

		contacts = append(contacts, models.ContactEmail{
			Email:      addr,
			Confidence: clamp01(confidence),
			Verified:   verified,
			SourceType: cand.sourceType,
		})
	}

	sort.Slice(contacts, func(i, j int) bool {
		if contacts[i].Confidence != contacts[j].Confidence {
			return contacts[i].Confidence > contacts[j].Confidence
		}
		return contacts[i].Email < contacts[j].Email
	})
	return contacts
}

// Displayable filters contacts by the display threshold. showAll bypasses
// the gate; low-confidence contacts are stored either way.
func (e *Extractor) Displayable(contacts []models.ContactEmail, showAll bool) []models.ContactEmail {
	if showAll {
		return contacts
	}
	out := make([]models.ContactEmail, 0, len(contacts))
	for _, c := range contacts {
		if c.Confidence >= e.weights.DisplayThreshold {
			out = append(out, c)
		}
	}
	return out
}

// Threshold returns the configured display threshold.
func (e *Extractor) Threshold() float64 {
	return e.weights.DisplayThreshold
}

func deobfuscate(s string) string {
	s = obfuscatedAtRe.ReplaceAllString(s, "@")
	s = obfuscatedDotRe.ReplaceAllString(s, ".")
	return s
}

func splitAddress(addr string) (local, domain string, ok bool) {
	i := strings.LastIndexByte(addr, '@')
	if i <= 0 || i == len(addr)-1 {
		return "", "", false
	}
	return addr[:i], addr[i+1:], true
}

// domainMatches accepts the exact domain and subdomains of it.
func domainMatches(domain, companyDomain string) bool {
	domain = strings.ToLower(domain)
	companyDomain = strings.ToLower(companyDomain)
	return domain == companyDomain || strings.HasSuffix(domain, "."+companyDomain)
}

func hasHRToken(local string) bool {
	tokens := strings.FieldsFunc(local, func(r rune) bool {
		return r == '.' || r == '_' || r == '-' || r == '+'
	})
	for _, tok := range tokens {
		if hrTokens[tok] {
			return true
		}
	}
	return false
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
