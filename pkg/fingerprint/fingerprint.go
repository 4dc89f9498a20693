package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// noDateSentinel stands in for a missing posting date so identity does not
// drift between runs that see the same undated posting.
const noDateSentinel = "no-date"

// Key is the identity tuple a posting is deduplicated on. All fields must
// already be normalized (see pkg/normalize); Generate hashes them verbatim.
type Key struct {
	Company  string
	Title    string
	Location string
	PostedAt *time.Time
}

// Generate creates a deterministic fingerprint for a posting identity.
// The fingerprint is a SHA256 hash over the canonical key string, with the
// posting date rounded to its ISO week so same-week repostings collapse.
func Generate(key Key) string {
	canonical := fmt.Sprintf("company:%s|title:%s|location:%s|week:%s",
		key.Company, key.Title, key.Location, weekBucket(key.PostedAt))

	hash := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(hash[:])
}

// weekBucket renders the ISO year-week for a date, or the sentinel when nil.
func weekBucket(t *time.Time) string {
	if t == nil {
		return noDateSentinel
	}
	year, week := t.UTC().ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week)
}

// HasChanged compares two fingerprints to detect identity changes.
func HasChanged(oldFingerprint, newFingerprint string) bool {
	return oldFingerprint != newFingerprint
}
