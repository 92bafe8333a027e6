// Package inputval validates user-supplied input fields before they are
// normalized and persisted. Validation here is strict on shape only;
// handlers decide how to report failures.
package inputval

import "strings"

const localChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!#$%&'*+-/=?^_`{|}~."

// IsValidEmail reports whether s looks like a plain RFC 5322 addr-spec.
// Display-name forms ("Name <user@host>") are rejected; single-label
// domains are accepted so dev/test environments work.
func IsValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, " \t<>") {
		return false
	}

	at := strings.LastIndexByte(s, '@')
	if at <= 0 || at == len(s)-1 {
		return false
	}
	local, domain := s[:at], s[at+1:]

	if strings.HasPrefix(local, ".") || strings.HasSuffix(local, ".") || strings.Contains(local, "..") {
		return false
	}
	for _, r := range local {
		if !strings.ContainsRune(localChars, r) {
			return false
		}
	}

	for _, label := range strings.Split(domain, ".") {
		if label == "" || strings.HasPrefix(label, "-") || strings.HasSuffix(label, "-") {
			return false
		}
		for _, r := range label {
			ok := r == '-' ||
				(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
				(r >= '0' && r <= '9')
			if !ok {
				return false
			}
		}
	}
	return true
}

// IsValidPhone reports whether s is a plausible phone number: an
// optional leading +, then 7 to 15 digits, ignoring spaces and dashes.
func IsValidPhone(s string) bool {
	s = strings.TrimSpace(s)
	s = strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return -1
		}
		return r
	}, s)
	s = strings.TrimPrefix(s, "+")
	if len(s) < 7 || len(s) > 15 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
