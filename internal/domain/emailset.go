package domain

import "strings"

// EmailSet is a static, case-insensitive set of email addresses used for the
// gate's allowlist. Like the access-code set it is immutable for the process
// lifetime.
type EmailSet struct {
	emails map[string]struct{}
}

// ParseEmailSet builds an EmailSet from a comma-separated list. Entries are
// trimmed and lowercased; empty entries are dropped.
func ParseEmailSet(raw string) EmailSet {
	emails := make(map[string]struct{})
	for _, e := range strings.Split(raw, ",") {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		emails[e] = struct{}{}
	}
	return EmailSet{emails: emails}
}

func (s EmailSet) Contains(email string) bool {
	if email == "" {
		return false
	}
	_, ok := s.emails[strings.ToLower(strings.TrimSpace(email))]
	return ok
}

func (s EmailSet) Len() int { return len(s.emails) }
