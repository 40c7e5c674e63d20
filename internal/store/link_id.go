package store

import (
	"crypto/rand"
	"fmt"
)

const (
	LinkIDLength   = 8
	linkIDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	// largest multiple of len(linkIDAlphabet) that fits in a byte
	linkIDByteCeiling = 252
)

// NewLinkID draws an 8-character code uniformly from [a-z0-9].
func NewLinkID() (string, error) {
	out := make([]byte, 0, LinkIDLength)
	buf := make([]byte, 16)
	for len(out) < LinkIDLength {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("store: read random: %w", err)
		}
		for _, b := range buf {
			if b >= linkIDByteCeiling {
				continue
			}
			out = append(out, linkIDAlphabet[int(b)%len(linkIDAlphabet)])
			if len(out) == LinkIDLength {
				break
			}
		}
	}
	return string(out), nil
}

// ValidLinkID reports whether id has the shape NewLinkID produces.
func ValidLinkID(id string) bool {
	if len(id) != LinkIDLength {
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
