package utils

import (
	"crypto/rand"
	"math/big"
)

// ReviewIDLength is fixed; every endpoint that accepts a review id
// rejects other lengths before touching storage.
const ReviewIDLength = 12

const reviewIDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// GenerateReviewID returns a new random 12-char lowercase base36 identifier.
func GenerateReviewID() string {
	max := big.NewInt(int64(len(reviewIDAlphabet)))
	id := make([]byte, ReviewIDLength)
	for i := range id {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails when the OS entropy source is broken
			panic(err)
		}
		id[i] = reviewIDAlphabet[n.Int64()]
	}
	return string(id)
}

// IsValidReviewID reports whether id has the generated format.
func IsValidReviewID(id string) bool {
	if len(id) != ReviewIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}
