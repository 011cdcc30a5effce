package matcher

import (
	"sort"
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
)

// DefaultFuzzyThreshold is the minimum partial-ratio score (inclusive) at
// which a generic name is considered present in noisy OCR text. Tunable,
// not derived.
const DefaultFuzzyThreshold = 85

// DefaultSafetyNet lists lowercase generic names that are flagged whenever
// they appear in an invoice, no matter what the reference dataset says.
// It guards against a missing, stale or corrupted dataset.
var DefaultSafetyNet = []string{
	"nimesulide",
}

// Matcher decides, per dataset row, whether a banned generic appears in
// invoice text. It holds no mutable state across calls; FindBanned is a pure
// function of its inputs and the configured threshold and safety net.
type Matcher struct {
	threshold int
	safetyNet []string
	score     func(generic, invoiceText string) int
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithThreshold overrides the fuzzy acceptance threshold (inclusive).
func WithThreshold(threshold int) Option {
	return func(m *Matcher) { m.threshold = threshold }
}

// WithSafetyNet replaces the hard-coded keyword list. Keywords must be
// lowercase generic names; the slice is copied.
func WithSafetyNet(keywords []string) Option {
	return func(m *Matcher) {
		m.safetyNet = append([]string(nil), keywords...)
	}
}

// New builds a Matcher with the default threshold, safety net and
// partial-ratio scorer, then applies the given options.
func New(opts ...Option) *Matcher {
	m := &Matcher{
		threshold: DefaultFuzzyThreshold,
		safetyNet: DefaultSafetyNet,
		score:     fuzzy.PartialRatio,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// FindBanned returns the banned generic names detected in the invoice text,
// sorted lexicographically with exact string duplicates removed. The input
// text may be raw OCR output; it is normalized internally (normalization is
// idempotent, so already-normalized text is fine too).
//
// Per row: non-banned rows are skipped, an exact substring hit of the
// normalized generic is authoritative, and only when it misses does the
// fuzzy partial-ratio fallback run. Dataset hits report the row's original
// Generic string; safety-net hits report the capitalized keyword. A dataset
// compound name and a safety-net keyword for the same substance are both
// kept — dedup is by exact string only.
func (m *Matcher) FindBanned(invoiceText string, rows []Row) []string {
	text := Normalize(invoiceText)
	found := make(map[string]struct{})

	for _, row := range rows {
		if !row.IsBanned {
			continue
		}

		generic := Normalize(row.Generic)
		if generic == "" {
			continue
		}

		if strings.Contains(text, generic) {
			found[row.Generic] = struct{}{}
			continue
		}

		if text != "" && m.score(generic, text) >= m.threshold {
			found[row.Generic] = struct{}{}
		}
	}

	for _, kw := range m.safetyNet {
		if kw == "" {
			continue
		}
		if strings.Contains(text, kw) {
			found[capitalize(kw)] = struct{}{}
		}
	}

	result := make([]string, 0, len(found))
	for name := range found {
		result = append(result, name)
	}
	sort.Strings(result)
	return result
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
