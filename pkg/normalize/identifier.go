package normalize

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxResaltAttempts bounds UniqueID's re-salting loop
const MaxResaltAttempts = 16

// ErrIDSpaceExhausted is returned when UniqueID cannot find a free identifier
var ErrIDSpaceExhausted = errors.New("could not derive a unique site id")

// Slug lowercases s and collapses every run of non-alphanumeric characters
// into a single '-', trimming separators at both ends.
func Slug(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	pendingSep := false
	for _, r := range strings.ToLower(s) {
		if !isAlnum(r) {
			pendingSep = b.Len() > 0
			continue
		}
		if pendingSep {
			b.WriteByte('-')
			pendingSep = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// HashSuffix returns a short base-36 digest of s using the 32-bit
// h = h*31 + c accumulation (written as shift-and-subtract), read as unsigned.
// It is an identifier scheme, not a cryptographic hash.
func HashSuffix(s string) string {
	var h int32
	for _, r := range s {
		h = (h << 5) - h + int32(r)
	}
	return strconv.FormatUint(uint64(uint32(h)), 36)
}

// DeriveID builds "{name}-{district}-{hash}" from the normalized name and
// district plus a uniqueness salt. Identical inputs always give identical IDs.
func DeriveID(name, district, salt string) string {
	n := Slug(name)
	if n == "" {
		n = "site"
	}
	d := Slug(district)
	if d == "" {
		d = "unknown"
	}
	return n + "-" + d + "-" + HashSuffix(n+"|"+d+"|"+salt)
}

// SaltFromTime renders a creation timestamp as a salt
func SaltFromTime(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 36)
}

// UniqueID derives an ID and, if taken reports a collision with the working
// set, re-salts with random UUIDs until a free ID is found.
func UniqueID(name, district, salt string, taken func(string) bool) (string, error) {
	id := DeriveID(name, district, salt)
	if taken == nil || !taken(id) {
		return id, nil
	}
	for range MaxResaltAttempts {
		id = DeriveID(name, district, salt+"/"+uuid.NewString())
		if !taken(id) {
			return id, nil
		}
	}
	return "", ErrIDSpaceExhausted
}
