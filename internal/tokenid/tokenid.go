// Package tokenid maps social post URLs to on-chain token identifiers.
package tokenid

import (
	"crypto/sha256"
	"encoding/binary"
	"strconv"
	"strings"

	"notemint/internal/domain"
)

// Bits is the width of derived identifiers. 48 bits keeps every ID exactly
// representable as a JSON/JavaScript number.
const Bits = 48

const mask = uint64(1)<<Bits - 1

// Derive returns the token identifier for url. The same URL always yields the
// same identifier; the URL is hashed byte-for-byte without normalization.
func Derive(url string) (uint64, error) {
	if strings.TrimSpace(url) == "" {
		return 0, domain.NewValidationError(domain.ErrInvalidURL, "token id: url is required")
	}
	sum := sha256.Sum256([]byte(url))
	return binary.BigEndian.Uint64(sum[:8]) >> (64 - Bits), nil
}

// Key returns the object store key for the given token and extension, e.g. "42.png".
func Key(id uint64, ext string) string {
	return strconv.FormatUint(id, 10) + "." + strings.TrimPrefix(ext, ".")
}

// Parse converts a decimal token identifier back into its numeric form.
func Parse(s string) (uint64, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil || id > mask {
		return 0, domain.NewValidationError(domain.ErrInvalidURL, "token id: malformed identifier")
	}
	return id, nil
}
