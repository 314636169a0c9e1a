// Package shortcode generates the opaque codes used by short links.
package shortcode

import (
	"crypto/rand"
	"math/big"

	"github.com/sranand/allochub/internal/app/system/faults"
)

const (
	alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	// Length gives 62^8 possible codes, enough that collisions are
	// retry-rare at this collection's scale.
	Length = 8
)

// New returns a fresh random code drawn from a CSPRNG.
func New() (string, error) {
	max := big.NewInt(int64(len(alphabet)))
	code := make([]byte, Length)
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", faults.Wrap(faults.IOError, "generate short code", err)
		}
		code[i] = alphabet[n.Int64()]
	}
	return string(code), nil
}

// Valid reports whether s has the shape of a generated code.
func Valid(s string) bool {
	if len(s) != Length {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'A' && c <= 'Z':
		case c >= 'a' && c <= 'z':
		case c >= '0' && c <= '9':
		default:
			return false
		}
	}
	return true
}
