// Package randkey generates the random alphanumeric keys used as
// short URL codes and user IDs.
package randkey

import (
	"crypto/rand"
	"math/big"
)

// Alphabet is the fixed 62-symbol set keys are built from.
const Alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Generate returns a string of exactly length symbols, each drawn
// independently and uniformly at random from Alphabet. Results are not
// guaranteed unique across calls; callers needing uniqueness must check
// against their directory and retry.
func Generate(length int) string {
	result := make([]byte, length)
	for i := range result {
		randomIndex, _ := rand.Int(rand.Reader, big.NewInt(int64(len(Alphabet))))
		result[i] = Alphabet[randomIndex.Int64()]
	}

	return string(result)
}
