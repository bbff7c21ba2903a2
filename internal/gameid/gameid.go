// Package gameid generates the identifiers attached to each game run.
//
// IDs are UUIDv7 values rendered as 26 lowercase Crockford base32
// characters, so they sort by creation time.
package gameid

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
)

// Base32 alphabet used by TypeID (Crockford's base32)
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// Length is the number of characters in an encoded ID
const Length = 26

// Generator produces game IDs from a configurable source of random bytes
type Generator struct {
	random io.Reader
}

// NewGenerator creates a generator reading random bytes from r.
// A nil reader uses crypto/rand.
func NewGenerator(r io.Reader) *Generator {
	if r == nil {
		r = rand.Reader
	}
	return &Generator{random: r}
}

// Generate creates a new game ID using crypto/rand
func Generate() string {
	id, err := NewGenerator(nil).Generate()
	if err != nil {
		panic("failed to generate game id: " + err.Error())
	}
	return id
}

// Generate creates a new game ID
func (g *Generator) Generate() (string, error) {
	u, err := uuid.NewV7FromReader(g.random)
	if err != nil {
		return "", fmt.Errorf("generate uuid: %w", err)
	}
	return encodeBase32(u), nil
}

// encodeBase32 encodes the 128 bits as 26 characters. The value is treated
// as 130 bits with two leading zero bits, so the first character is 0-7.
func encodeBase32(data [16]byte) string {
	result := make([]byte, Length)
	for i := 0; i < Length; i++ {
		var value byte
		for b := 0; b < 5; b++ {
			value <<= 1
			value |= bitAt(data, i*5+b-2)
		}
		result[i] = alphabet[value]
	}
	return string(result)
}

func bitAt(data [16]byte, pos int) byte {
	if pos < 0 || pos >= 128 {
		return 0
	}
	return (data[pos/8] >> (7 - pos%8)) & 1
}

// Validate checks if a game ID is valid (26 characters, valid base32)
func Validate(id string) error {
	if len(id) != Length {
		return fmt.Errorf("game ID must be exactly %d characters, got %d", Length, len(id))
	}

	if id[0] > '7' {
		return fmt.Errorf("game ID first character must be 0-7, got %c", id[0])
	}

	for i, char := range id {
		if !strings.ContainsRune(alphabet, char) {
			return fmt.Errorf("invalid character %c at position %d", char, i)
		}
	}

	return nil
}
