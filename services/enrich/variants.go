package enrich

import (
	"regexp"
	"strings"
)

var (
	parentheticalRe = regexp.MustCompile(`\s*\([^)]*\)\s*`)
	dashSuffixRe    = regexp.MustCompile(`\s*[—–-]\s*.*$`)
	trailingYearRe  = regexp.MustCompile(`\s*\(\d{4}\)\s*$`)
	thePrefixRe     = regexp.MustCompile(`(?i)^the\s+`)
)

// titleVariants returns ordered, deduplicated rewrites of a raw title used to
// widen catalog search recall. Model answers tend to be verbose ("The Matrix
// (1999)", "Alien — director's cut"), so each stripping rule is applied to the
// raw title, not to the previous rule's output, and the original always comes
// first. The "The " prefix strip then composes with the other rules, so
// "The Matrix (1999)" also yields "Matrix", not just "Matrix (1999)".
// Four stripped forms plus their prefix-stripped twins bound the output at 8
// variants; dedup keeps it far shorter in practice. Insertion order matters:
// the matcher tries variants in this order and stops on a confident hit.
func titleVariants(title string) []string {
	variants := make([]string, 0, 8)
	seen := make(map[string]struct{}, 8)
	add := func(v string) {
		v = strings.TrimSpace(v)
		if v == "" {
			return
		}
		if _, ok := seen[v]; ok {
			return
		}
		seen[v] = struct{}{}
		variants = append(variants, v)
	}

	add(title)
	add(parentheticalRe.ReplaceAllString(title, ""))
	add(dashSuffixRe.ReplaceAllString(title, ""))
	add(trailingYearRe.ReplaceAllString(title, ""))

	base := make([]string, len(variants))
	copy(base, variants)
	for _, v := range base {
		add(thePrefixRe.ReplaceAllString(v, ""))
	}
	return variants
}
