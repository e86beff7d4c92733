package extract

import (
	"regexp"
	"strings"

	"github.com/mfurman/provdir"
)

var (
	bracketsOnlyRE = regexp.MustCompile(`^\s*[\[\(\<\>\)\]]+\s*$`)
	digitsOnlyRE   = regexp.MustCompile(`^\s*\d+\s*$`)
	arrowsOnlyRE   = regexp.MustCompile(`^\s*[<>→←↑↓⇒⇐⇑⇓]\s*$`)
	hasWordRE      = regexp.MustCompile(`[a-zA-Z]{2,}`)
	dateTimeRE     = regexp.MustCompile(`\d{2}[:/]\d{2}[:/]\d{2,4}`)
	digitsPunctRE  = regexp.MustCompile(`^[\d\s.,]+$`)
)

// maxItemLen is the length above which a candidate item is assumed to be
// paragraph content rather than a program name. Such items are retried
// using only their first line.
const maxItemLen = 100

// repeatThreshold is the occurrence count at which identical raw items
// are assumed to be repeated navigation chrome.
const repeatThreshold = 3

// Filter rejects navigation chrome and near-duplicate noise from
// harvested item candidates. The zero value is unusable; construct with
// NewFilter so the noise vocabulary is injected exactly once.
type Filter struct {
	vocab []string
}

// NewFilter creates a Filter over the given noise vocabulary. Vocabulary
// entries are expected in lower case.
func NewFilter(vocab provdir.Vocabulary) *Filter {
	return &Filter{vocab: vocab}
}

// IsNoise reports whether the text looks like site navigation chrome or
// other non-content: too short, a noise-vocabulary match, bare
// brackets/arrows/numbers, a URL, or a date/number pattern.
func (f *Filter) IsNoise(text string) bool {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < 3 {
		return true
	}

	lower := strings.ToLower(trimmed)
	for _, nav := range f.vocab {
		if nav == lower {
			return true
		}
		// Longer vocabulary entries also match as substrings; short ones
		// would reject too much ("find" is inside "Finding Aid Design").
		if len(nav) > 4 && strings.Contains(lower, nav) {
			return true
		}
	}

	if bracketsOnlyRE.MatchString(trimmed) || digitsOnlyRE.MatchString(trimmed) || arrowsOnlyRE.MatchString(trimmed) {
		return true
	}
	if len(trimmed) < 5 && !hasWordRE.MatchString(trimmed) {
		return true
	}
	if strings.Contains(lower, "http") || strings.Contains(lower, "www.") {
		return true
	}
	if dateTimeRE.MatchString(trimmed) || digitsPunctRE.MatchString(trimmed) {
		return true
	}

	return false
}

// SimilarToTitle reports whether the item is just a restatement of the
// category title: the word set of one fully contains the other's.
func (f *Filter) SimilarToTitle(item, title string) bool {
	if title == "" {
		return false
	}
	itemWords := wordSet(item)
	titleWords := wordSet(title)
	return subset(titleWords, itemWords) || subset(itemWords, titleWords)
}

// Clean applies the full acceptance pipeline to raw harvested items:
// noise rejection, first-line retry for over-long items, category-title
// equality, repeated-chrome suppression, and substring-containment
// deduplication. Order of surviving items follows first acceptance;
// when a longer item arrives that fully contains an accepted one, the
// longer string replaces it in place.
//
// The containment rule can discard legitimately distinct short items
// whose name is a literal substring of a longer one; this matches the
// observed sites, where such collisions are always near-duplicates.
func (f *Filter) Clean(raw []string, categoryTitle string) []string {
	// Items repeated three or more times are navigation chrome that
	// leaked into every scan.
	counts := make(map[string]int, len(raw))
	for _, item := range raw {
		if s := strings.TrimSpace(item); s != "" {
			counts[s]++
		}
	}

	var accepted []string
	for _, item := range raw {
		s := strings.TrimSpace(item)
		if s == "" || len(s) < 3 {
			continue
		}
		if counts[s] >= repeatThreshold {
			continue
		}
		if len(s) > maxItemLen {
			first := strings.TrimSpace(firstLine(s))
			if first == "" || len(first) > maxItemLen {
				continue
			}
			s = first
		}
		if f.IsNoise(s) {
			continue
		}
		if categoryTitle != "" && s == strings.TrimSpace(categoryTitle) {
			continue
		}
		accepted = mergeContained(accepted, s)
	}
	return accepted
}

// mergeContained adds item to the accepted list applying the
// substring-containment rule: if an accepted string contains the item
// (case-insensitively) the item is dropped; if the item contains an
// accepted string, the longer item replaces it.
func mergeContained(accepted []string, item string) []string {
	lower := strings.ToLower(item)
	for i, existing := range accepted {
		el := strings.ToLower(existing)
		if strings.Contains(el, lower) {
			return accepted
		}
		if strings.Contains(lower, el) {
			accepted[i] = item
			return accepted
		}
	}
	return append(accepted, item)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func wordSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(s)) {
		set[w] = struct{}{}
	}
	return set
}

func subset(a, b map[string]struct{}) bool {
	if len(a) == 0 {
		return false
	}
	for w := range a {
		if _, ok := b[w]; !ok {
			return false
		}
	}
	return true
}
