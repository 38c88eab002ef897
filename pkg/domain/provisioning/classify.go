package provisioning

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode"

	"golang.org/x/net/publicsuffix"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Kind is the classification of one batch row.
type Kind int

const (
	// KindOK marks a row that may be provisioned.
	KindOK Kind = iota
	// KindDuplicate marks a row whose email is already taken.
	KindDuplicate
	// KindInvalid marks a row that failed validation.
	KindInvalid
)

// Outcome is the classification result for one row. For KindOK, Item holds
// the cleaned row (trimmed and lowercased email, normalized name,
// deduplicated processes).
type Outcome struct {
	Kind   Kind
	Item   BatchItem
	Reason string
}

// Classifier validates batch rows against an email snapshot and the set of
// valid process category indexes.
type Classifier struct {
	validCategories map[string]struct{}
}

// NewClassifier builds a classifier for the given active category indexes.
func NewClassifier(categoryIndexes []string) *Classifier {
	valid := make(map[string]struct{}, len(categoryIndexes))
	for _, idx := range categoryIndexes {
		valid[idx] = struct{}{}
	}
	return &Classifier{validCategories: valid}
}

// Classify validates one row. Checks run in a fixed order: email syntax,
// duplicate against the snapshot, then process categories. The duplicate
// check deliberately precedes category validation, so a duplicate row is
// reported as a duplicate even when its categories are also wrong.
//
// Classify never mutates the snapshot; the caller extends it after a
// successful provision.
func (c *Classifier) Classify(item BatchItem, taken *EmailSet) Outcome {
	email := NormalizeEmail(item.Email)
	if err := validateEmail(email); err != nil {
		return Outcome{Kind: KindInvalid, Item: item, Reason: err.Error()}
	}

	if taken.Contains(email) {
		return Outcome{Kind: KindDuplicate, Item: item, Reason: "email already exists"}
	}

	name := NormalizeName(item.FullName)
	if name == "" {
		return Outcome{Kind: KindInvalid, Item: item, Reason: "full name is required"}
	}

	if len(item.Processes) == 0 {
		return Outcome{Kind: KindInvalid, Item: item, Reason: "at least one process is required"}
	}

	seen := make(map[string]struct{}, len(item.Processes))
	cleaned := make([]string, 0, len(item.Processes))
	for _, p := range item.Processes {
		idx := strings.TrimSpace(p)
		if idx == "" {
			continue
		}
		if _, ok := c.validCategories[idx]; !ok {
			return Outcome{Kind: KindInvalid, Item: item, Reason: fmt.Sprintf("unknown process %q", idx)}
		}
		if _, dup := seen[idx]; dup {
			continue
		}
		seen[idx] = struct{}{}
		cleaned = append(cleaned, idx)
	}
	if len(cleaned) == 0 {
		return Outcome{Kind: KindInvalid, Item: item, Reason: "at least one process is required"}
	}

	return Outcome{
		Kind: KindOK,
		Item: BatchItem{Email: email, FullName: name, Processes: cleaned},
	}
}

func validateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fmt.Errorf("invalid email format")
	}
	at := strings.LastIndexByte(email, '@')
	domain := email[at+1:]
	suffix, icann := publicsuffix.PublicSuffix(strings.ToLower(domain))
	if !icann || suffix == strings.ToLower(domain) {
		return fmt.Errorf("email domain is not valid")
	}
	return nil
}

var nameCleaner = transform.Chain(
	norm.NFC,
	runes.Remove(runes.In(unicode.C)),
)

// NormalizeName normalizes a display name: NFC composition, control runes
// stripped, whitespace collapsed.
func NormalizeName(name string) string {
	cleaned, _, err := transform.String(nameCleaner, name)
	if err != nil {
		cleaned = name
	}
	return strings.Join(strings.Fields(cleaned), " ")
}
