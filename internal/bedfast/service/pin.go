package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

var pinSpace = big.NewInt(10000)

// newPIN returns a random 4-digit PIN, zero padded.
func newPIN() (string, error) {
	n, err := rand.Int(rand.Reader, pinSpace)
	if err != nil {
		return "", fmt.Errorf("generate pin: %w", err)
	}
	return fmt.Sprintf("%04d", n.Int64()), nil
}
