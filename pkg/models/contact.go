package models

import "time"

// EmailSourceType records how a contact email was found.
type EmailSourceType string

const (
	EmailSourceMailto  EmailSourceType = "mailto"
	EmailSourcePattern EmailSourceType = "pattern"
)

// ContactEmail is a recruiting contact extracted from a posting, with a
// confidence score in [0,1]. Verified means the address domain answered an
// MX lookup; absence of verification is "unknown", not "bad".
type ContactEmail struct {
	ID         string          `json:"id" db:"id"`
	PostingID  string          `json:"posting_id" db:"posting_id"`
	Email      string          `json:"email" db:"email"`
	Confidence float64         `json:"confidence" db:"confidence"`
	Verified   bool            `json:"verified" db:"verified"`
	SourceType EmailSourceType `json:"source_type" db:"source_type"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
}

// ContactListResponse is the API response for a posting's contacts.
type ContactListResponse struct {
	Items     []ContactEmail `json:"items"`
	Threshold float64        `json:"threshold"`
	ShowAll   bool           `json:"show_all"`
}
