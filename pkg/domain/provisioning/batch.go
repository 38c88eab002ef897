// Package provisioning provides the bulk user provisioning domain:
// batch input classification, the existing-email snapshot and the
// batch outcome reports.
package provisioning

import "strings"

// BatchItem is one parsed row of a provisioning batch.
type BatchItem struct {
	Email     string   `json:"email"`
	FullName  string   `json:"full_name"`
	Processes []string `json:"processes"`
}

// EmailSet is the duplicate-detection snapshot for one batch run. It is
// seeded from the identity store before the batch starts and extended with
// every in-batch success, so later rows see earlier creations. The set is
// owned by a single batch; nothing shares it.
type EmailSet struct {
	emails map[string]struct{}
}

// NewEmailSet builds a snapshot from the given emails.
func NewEmailSet(emails []string) *EmailSet {
	s := &EmailSet{emails: make(map[string]struct{}, len(emails))}
	for _, e := range emails {
		s.Add(e)
	}
	return s
}

// Contains reports whether email is already taken. Comparison is
// case-insensitive.
func (s *EmailSet) Contains(email string) bool {
	_, ok := s.emails[NormalizeEmail(email)]
	return ok
}

// Add records email as taken.
func (s *EmailSet) Add(email string) {
	s.emails[NormalizeEmail(email)] = struct{}{}
}

// Len returns the number of known emails.
func (s *EmailSet) Len() int {
	return len(s.emails)
}

// NormalizeEmail is the canonical address form used everywhere an email is
// stored or compared: trimmed and lowercased.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
