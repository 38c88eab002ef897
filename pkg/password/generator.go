package password

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Character classes for generated temporary passwords.
const (
	lowerChars   = "abcdefghijklmnopqrstuvwxyz"
	upperChars   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digitChars   = "0123456789"
	specialChars = "!@#$%^&*()_+-=[]{}|;:,.<>?"

	// GeneratedLength is the fixed length of temporary passwords.
	GeneratedLength = 8
)

// Generate returns an 8-character temporary password containing at least
// one lowercase letter, one uppercase letter, one digit and one special
// character. Every pick uses crypto/rand, and the result is shuffled so the
// guaranteed characters do not sit at fixed positions.
func Generate() (string, error) {
	allChars := lowerChars + upperChars + digitChars + specialChars

	chars := make([]byte, 0, GeneratedLength)
	for _, class := range []string{lowerChars, upperChars, digitChars, specialChars} {
		c, err := randomChar(class)
		if err != nil {
			return "", err
		}
		chars = append(chars, c)
	}
	for len(chars) < GeneratedLength {
		c, err := randomChar(allChars)
		if err != nil {
			return "", err
		}
		chars = append(chars, c)
	}

	if err := shuffle(chars); err != nil {
		return "", err
	}
	return string(chars), nil
}

func randomChar(class string) (byte, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(class))))
	if err != nil {
		return 0, fmt.Errorf("random source: %w", err)
	}
	return class[n.Int64()], nil
}

// shuffle performs a Fisher-Yates shuffle driven by crypto/rand.
func shuffle(b []byte) error {
	for i := len(b) - 1; i > 0; i-- {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return fmt.Errorf("random source: %w", err)
		}
		j := n.Int64()
		b[i], b[j] = b[j], b[i]
	}
	return nil
}
