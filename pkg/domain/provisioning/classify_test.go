package provisioning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifier_Classify(t *testing.T) {
	c := NewClassifier([]string{"1", "2", "3"})

	tests := []struct {
		name       string
		item       BatchItem
		taken      []string
		wantKind   Kind
		wantReason string
	}{
		{
			name:     "valid row",
			item:     BatchItem{Email: "alice@example.com", FullName: "Alice Nguyen", Processes: []string{"1", "2"}},
			wantKind: KindOK,
		},
		{
			name:       "missing email",
			item:       BatchItem{FullName: "Alice", Processes: []string{"1"}},
			wantKind:   KindInvalid,
			wantReason: "email is required",
		},
		{
			name:       "malformed email",
			item:       BatchItem{Email: "not-an-email", FullName: "Alice", Processes: []string{"1"}},
			wantKind:   KindInvalid,
			wantReason: "invalid email format",
		},
		{
			name:       "email with display name",
			item:       BatchItem{Email: "Alice <alice@example.com>", FullName: "Alice", Processes: []string{"1"}},
			wantKind:   KindInvalid,
			wantReason: "invalid email format",
		},
		{
			name:       "bare tld domain",
			item:       BatchItem{Email: "alice@com", FullName: "Alice", Processes: []string{"1"}},
			wantKind:   KindInvalid,
			wantReason: "email domain is not valid",
		},
		{
			name:       "duplicate email",
			item:       BatchItem{Email: "taken@example.com", FullName: "Bob", Processes: []string{"1"}},
			taken:      []string{"taken@example.com"},
			wantKind:   KindDuplicate,
			wantReason: "email already exists",
		},
		{
			name:       "duplicate case insensitive",
			item:       BatchItem{Email: "Taken@Example.com", FullName: "Bob", Processes: []string{"1"}},
			taken:      []string{"taken@example.com"},
			wantKind:   KindDuplicate,
			wantReason: "email already exists",
		},
		{
			name:       "duplicate wins over bad processes",
			item:       BatchItem{Email: "taken@example.com", FullName: "Bob", Processes: []string{"99"}},
			taken:      []string{"taken@example.com"},
			wantKind:   KindDuplicate,
			wantReason: "email already exists",
		},
		{
			name:       "empty processes",
			item:       BatchItem{Email: "carol@example.com", FullName: "Carol", Processes: nil},
			wantKind:   KindInvalid,
			wantReason: "at least one process is required",
		},
		{
			name:       "blank processes only",
			item:       BatchItem{Email: "carol@example.com", FullName: "Carol", Processes: []string{" ", ""}},
			wantKind:   KindInvalid,
			wantReason: "at least one process is required",
		},
		{
			name:       "unknown process",
			item:       BatchItem{Email: "carol@example.com", FullName: "Carol", Processes: []string{"1", "99"}},
			wantKind:   KindInvalid,
			wantReason: `unknown process "99"`,
		},
		{
			name:       "missing full name",
			item:       BatchItem{Email: "dave@example.com", FullName: "   ", Processes: []string{"1"}},
			wantKind:   KindInvalid,
			wantReason: "full name is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			taken := NewEmailSet(tt.taken)
			got := c.Classify(tt.item, taken)
			assert.Equal(t, tt.wantKind, got.Kind)
			if tt.wantReason != "" {
				assert.Equal(t, tt.wantReason, got.Reason)
			}
		})
	}
}

func TestClassifier_Classify_CleansItem(t *testing.T) {
	c := NewClassifier([]string{"1", "2"})
	taken := NewEmailSet(nil)

	got := c.Classify(BatchItem{
		Email:     "  eve@example.com  ",
		FullName:  "  Eve   van   Dijk ",
		Processes: []string{"2", " 1 ", "2"},
	}, taken)

	require.Equal(t, KindOK, got.Kind)
	assert.Equal(t, "eve@example.com", got.Item.Email)
	assert.Equal(t, "Eve van Dijk", got.Item.FullName)
	assert.Equal(t, []string{"2", "1"}, got.Item.Processes)
}

func TestClassifier_Classify_LowercasesEmail(t *testing.T) {
	c := NewClassifier([]string{"1"})
	taken := NewEmailSet(nil)

	got := c.Classify(BatchItem{
		Email:     "  John.Doe@Example.COM ",
		FullName:  "John Doe",
		Processes: []string{"1"},
	}, taken)

	require.Equal(t, KindOK, got.Kind)
	assert.Equal(t, "john.doe@example.com", got.Item.Email)
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "john.doe@example.com", NormalizeEmail("  John.Doe@Example.COM "))
	assert.Equal(t, "plain@example.com", NormalizeEmail("plain@example.com"))
	assert.Equal(t, "", NormalizeEmail(" \t "))
}

func TestClassifier_Classify_DoesNotMutateSnapshot(t *testing.T) {
	c := NewClassifier([]string{"1"})
	taken := NewEmailSet(nil)

	got := c.Classify(BatchItem{Email: "new@example.com", FullName: "New", Processes: []string{"1"}}, taken)

	require.Equal(t, KindOK, got.Kind)
	assert.False(t, taken.Contains("new@example.com"))
}

func TestEmailSet_InBatchExtension(t *testing.T) {
	c := NewClassifier([]string{"1"})
	taken := NewEmailSet([]string{"old@example.com"})

	first := c.Classify(BatchItem{Email: "new@example.com", FullName: "New", Processes: []string{"1"}}, taken)
	require.Equal(t, KindOK, first.Kind)

	// The caller adds the email after a successful provision; a later row
	// with the same address must then classify as duplicate.
	taken.Add(first.Item.Email)

	second := c.Classify(BatchItem{Email: "NEW@example.com", FullName: "New Again", Processes: []string{"1"}}, taken)
	assert.Equal(t, KindDuplicate, second.Kind)
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "Anna Smith", NormalizeName("Anna\x00 \tSmith\n"))
	assert.Equal(t, "", NormalizeName(" \t "))
}
