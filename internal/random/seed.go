// Package random seeds the pseudo-random generators behind dice rolls.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
)

var entropy io.Reader = crand.Reader

// NewSeed reads eight bytes of crypto/rand entropy as a generator seed.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := io.ReadFull(entropy, b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}
