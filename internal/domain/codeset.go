package domain

import "strings"

// AccessCodeSet is the static set of valid early-access codes, loaded once
// from configuration at startup. Codes are shared secrets: any valid code may
// be redeemed repeatedly by any number of users.
type AccessCodeSet struct {
	codes map[string]struct{}
}

// ParseAccessCodes builds an AccessCodeSet from a comma-separated list.
// Entries are trimmed; empty entries are dropped. Matching is exact and
// case-sensitive.
func ParseAccessCodes(raw string) AccessCodeSet {
	codes := make(map[string]struct{})
	for _, c := range strings.Split(raw, ",") {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		codes[c] = struct{}{}
	}
	return AccessCodeSet{codes: codes}
}

func (s AccessCodeSet) Contains(code string) bool {
	_, ok := s.codes[code]
	return ok
}

func (s AccessCodeSet) Len() int { return len(s.codes) }
