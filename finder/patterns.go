// Package finder generates plausible address patterns for a person at a
// domain and drives the verifier over them in priority order.
package finder

import "strings"

var numericSuffixes = []string{"1", "12", "123", "01", "001"}
var separators = []string{"", ".", "_", "-"}

// patternSet deduplicates candidates while preserving insertion order;
// the Finder relies on that order for everything past the priority list.
type patternSet struct {
	seen  map[string]struct{}
	items []string
}

func newPatternSet() *patternSet {
	return &patternSet{seen: make(map[string]struct{})}
}

// add keeps a candidate only if it is a well-formed address: exactly one
// "@" with a non-empty local part and domain.
func (s *patternSet) add(candidate string) {
	if strings.Count(candidate, "@") != 1 {
		return
	}
	local, domain, _ := strings.Cut(candidate, "@")
	if local == "" || domain == "" {
		return
	}
	if _, ok := s.seen[candidate]; ok {
		return
	}
	s.seen[candidate] = struct{}{}
	s.items = append(s.items, candidate)
}

func normalizeInputs(firstName, lastName, domain string) (first, last, dom string) {
	first = strings.ToLower(strings.TrimSpace(firstName))
	last = strings.ToLower(strings.TrimSpace(lastName))
	dom = strings.Trim(strings.ToLower(strings.TrimSpace(domain)), "@")
	return first, last, dom
}

// GeneratePatterns builds the candidate catalog for a name pair at a
// domain: common separator/ordering templates, numeric suffix variants
// and a handful of initial-based forms. Deterministic, deduplicated, and
// empty when any normalized input is empty. Corporate naming conventions
// cluster around a small set of templates, so the catalog over-generates
// and leaves ranking to the Finder.
func GeneratePatterns(firstName, lastName, domain string) []string {
	first, last, dom := normalizeInputs(firstName, lastName, domain)
	if first == "" || last == "" || dom == "" {
		return nil
	}

	fr := []rune(first)
	lr := []rune(last)
	f0 := string(fr[0])
	l0 := string(lr[0])
	fEnd := string(fr[len(fr)-1])
	lEnd := string(lr[len(lr)-1])

	base := []string{
		first + "." + last,
		first + last,
		first + "_" + last,
		first + "-" + last,
		first,
		last + "." + first,
		last + first,
		f0 + "." + last,
		first + "." + l0,
		f0 + last,
		first + l0,
		f0 + l0,
		first + "." + l0 + "." + last,
		last + "." + f0,
		f0 + "." + l0 + "." + last,
	}

	set := newPatternSet()

	for _, token := range base {
		set.add(token + "@" + dom)
	}
	for _, token := range base {
		for _, suffix := range numericSuffixes {
			set.add(token + suffix + "@" + dom)
		}
	}

	// Digits adjacent to separator-joined forms (first.last1, f_last01).
	for _, sep := range separators {
		set.add(first + sep + last + "1@" + dom)
		set.add(first + sep + last + "99@" + dom)
		set.add(f0 + sep + last + "1@" + dom)
		set.add(first + sep + last + f0 + "@" + dom)
		set.add(first + sep + last + l0 + "@" + dom)
	}

	// Reversed and initial-heavy stragglers.
	set.add(last + first + "1@" + dom)
	set.add(last + first + "123@" + dom)
	set.add(last + "." + first + "01@" + dom)
	set.add(f0 + last + lEnd + "@" + dom)
	set.add(f0 + last + fEnd + "@" + dom)
	set.add(first + l0 + lEnd + "@" + dom)
	set.add(f0 + last + numericSuffixes[0] + "@" + dom)

	if len(fr) > 1 && len(lr) > 1 {
		set.add(f0 + string(fr[1]) + last + "@" + dom)
		set.add(first + string(lr[:2]) + "@" + dom)
		set.add(string(fr[:2]) + last + "@" + dom)
	}

	return set.items
}

// priorityPatterns are the canonical corporate forms, always probed
// first when the catalog produced them.
func priorityPatterns(firstName, lastName, domain string) []string {
	first, last, dom := normalizeInputs(firstName, lastName, domain)
	if first == "" || last == "" || dom == "" {
		return nil
	}
	f0 := string([]rune(first)[0])
	return []string{
		first + "." + last + "@" + dom,
		first + last + "@" + dom,
		first + "@" + dom,
		f0 + "." + last + "@" + dom,
		f0 + last + "@" + dom,
	}
}
