// Package id generates opaque identifiers for save slots and view tokens.
package id

import (
	"encoding/base32"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var encoding = base32.StdEncoding.WithPadding(base32.NoPadding)

var newRandom = uuid.NewRandom

// NewID returns a lowercase, unpadded base32 encoding of a random UUID.
func NewID() (string, error) {
	u, err := newRandom()
	if err != nil {
		return "", fmt.Errorf("generate id: %w", err)
	}
	return strings.ToLower(encoding.EncodeToString(u[:])), nil
}
