// Package digest computes content digests for package parts.
package digest

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// Sum returns the hex-encoded BLAKE3 digest of data. Part digests are used
// to detect which parts changed between load and save.
func Sum(data []byte) string {
	h := blake3.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Short returns the first 12 hex characters of Sum, for display.
func Short(data []byte) string {
	return Sum(data)[:12]
}
