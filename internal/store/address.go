package store

import "strings"

// NormalizeAddress lowercases an account and ensures the 0x prefix, so the
// same account always hits the same primary key.
func NormalizeAddress(addr string) string {
	s := strings.ToLower(strings.TrimSpace(addr))
	switch {
	case s == "":
		return ""
	case strings.HasPrefix(s, "0x"):
		return s
	default:
		return "0x" + s
	}
}

// normalizeOptionalAddress maps blank optional addresses to nil.
func normalizeOptionalAddress(s *string) *string {
	if s == nil {
		return nil
	}
	if v := NormalizeAddress(*s); v != "" {
		return &v
	}
	return nil
}
