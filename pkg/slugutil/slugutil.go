// Package slugutil derives URL-safe slugs from product titles and builds the
// candidate sets used for tolerant slug lookup.
package slugutil

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	nonSlugRegexp  = regexp.MustCompile(`[^a-z0-9]+`)
	trailingDigits = regexp.MustCompile(`^(.*-)(\d+)$`)
)

// Make creates a URL-friendly slug from the given title. Diacritics are
// stripped by Unicode decomposition, so Vietnamese titles slugify cleanly.
//
// Examples:
//   - "Bàn ghế gỗ" → "ban-ghe-go"
//   - "Áo sơ mi kẻ" → "ao-so-mi-ke"
//   - "Hello   World!" → "hello-world"
func Make(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))

	// Decompose and drop combining marks. đ has no decomposition, map it
	// directly.
	s = strings.ReplaceAll(s, "đ", "d")
	decomposed := norm.NFD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}

	slug := nonSlugRegexp.ReplaceAllString(b.String(), "-")
	return strings.Trim(slug, "-")
}

// Candidates returns the normalized slug variants to try during lookup,
// exact form first. When the slug ends in a run of decimal digits, variants
// with that run zero-padded to widths 2 and 3 are added, so "ban-ghe-7" also
// matches records stored as "ban-ghe-07" or "ban-ghe-007". Padding never
// truncates; variants equal to an earlier candidate are dropped.
func Candidates(raw string) []string {
	exact := strings.ToLower(strings.TrimSpace(raw))
	candidates := []string{exact}

	m := trailingDigits.FindStringSubmatch(exact)
	if m == nil {
		return candidates
	}
	prefix, digits := m[1], m[2]

	seen := map[string]struct{}{exact: {}}
	for _, width := range []int{2, 3} {
		padded := prefix + zeroPad(digits, width)
		if _, dup := seen[padded]; dup {
			continue
		}
		seen[padded] = struct{}{}
		candidates = append(candidates, padded)
	}
	return candidates
}

func zeroPad(digits string, width int) string {
	if len(digits) >= width {
		return digits
	}
	return strings.Repeat("0", width-len(digits)) + digits
}
