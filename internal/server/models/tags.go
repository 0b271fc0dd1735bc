package models

import "strings"

// Tags is an unordered set of labels. Membership is exact-match.
type Tags []string

// Normalized drops duplicates, keeping the first occurrence.
func (t Tags) Normalized() Tags {
	if len(t) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(t))
	out := make(Tags, 0, len(t))
	for _, tag := range t {
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

func (t Tags) Has(tag string) bool {
	for _, v := range t {
		if v == tag {
			return true
		}
	}
	return false
}

func (t Tags) validate() error {
	for _, tag := range t {
		if strings.TrimSpace(tag) == "" {
			return invalid("tags must not be blank")
		}
	}
	return nil
}
