package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Composition(t *testing.T) {
	for i := 0; i < 200; i++ {
		pw, err := Generate()
		require.NoError(t, err)
		require.Len(t, pw, GeneratedLength)

		assert.True(t, strings.ContainsAny(pw, lowerChars), "missing lowercase: %q", pw)
		assert.True(t, strings.ContainsAny(pw, upperChars), "missing uppercase: %q", pw)
		assert.True(t, strings.ContainsAny(pw, digitChars), "missing digit: %q", pw)
		assert.True(t, strings.ContainsAny(pw, specialChars), "missing special: %q", pw)

		for _, c := range []byte(pw) {
			all := lowerChars + upperChars + digitChars + specialChars
			assert.Contains(t, all, string(c))
		}
	}
}

func TestGenerate_SatisfiesDefaultPolicy(t *testing.T) {
	h := New()
	for i := 0; i < 50; i++ {
		pw, err := Generate()
		require.NoError(t, err)
		assert.NoError(t, h.Validate(pw))
	}
}

func TestGenerate_NotConstant(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 20; i++ {
		pw, err := Generate()
		require.NoError(t, err)
		seen[pw] = struct{}{}
	}
	assert.Greater(t, len(seen), 1)
}

func TestHasher_HashAndVerify(t *testing.T) {
	h := New(WithCost(4)) // min cost keeps the test fast

	hash, err := h.Hash("Tmp1!pass")
	require.NoError(t, err)

	assert.NoError(t, h.Verify("Tmp1!pass", hash))
	assert.ErrorIs(t, h.Verify("wrong", hash), ErrPasswordMismatch)
}

func TestValidateWithPolicy(t *testing.T) {
	policy := DefaultPolicy()

	tests := []struct {
		name     string
		password string
		wantErr  error
	}{
		{"valid", "Ab1!efgh", nil},
		{"too short", "Ab1!", ErrPasswordTooShort},
		{"no upper", "ab1!efgh", ErrPasswordNoUppercase},
		{"no lower", "AB1!EFGH", ErrPasswordNoLowercase},
		{"no digit", "Abc!efgh", ErrPasswordNoNumber},
		{"no special", "Ab1defgh", ErrPasswordNoSpecial},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateWithPolicy(tt.password, policy)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}
