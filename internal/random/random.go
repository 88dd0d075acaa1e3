// Package random provides cryptographically random helpers for
// non-reproducible identifiers and seeds.
package random

import (
	"crypto/rand"
	"encoding/binary"
	"math/big"

	"github.com/myrjola/whodunit/internal/errors"
)

var allowedLetters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ")

// Letters generates a random string of n letters.
func Letters(n uint) (string, error) {
	letters := make([]rune, n)
	for i := range letters {
		letterIndex, err := rand.Int(rand.Reader, big.NewInt(int64(len(allowedLetters))))
		if err != nil {
			return "", errors.Wrap(err, "generate random letter")
		}
		letters[i] = allowedLetters[letterIndex.Int64()]
	}
	return string(letters), nil
}

// NewSeed generates a high-entropy seed suitable for initialising a
// deterministic pseudo-random source when the caller did not supply one.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return 0, errors.Wrap(err, "read random seed")
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}
