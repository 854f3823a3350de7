package availability

import (
	"strings"
	"unicode"
)

// exchangeSuffixes are stripped to find a base symbol; longer forms first so
// ".NSE" is not read as ".NS" plus a stray "E".
var exchangeSuffixes = []string{".NSE", ".BSE", ".NS", ".BO"}

// fundWords hint that a symbol is really a mutual fund name.
var fundWords = []string{"FUND", "MF", "MUTUAL", "HDFC", "ICICI", "SBI", "AXIS"}

// generateSuggestions proposes alternative spellings for an unrecognized
// symbol, keeping the casing it was typed in. Entries may repeat; the list is
// cut to max entries.
func generateSuggestions(sym string, max int) []string {
	sym = strings.TrimSpace(sym)
	upper := strings.ToUpper(sym)

	base := sym
	for _, suffix := range exchangeSuffixes {
		base = removeFold(base, suffix)
	}
	base = strings.TrimSpace(base)

	var suggestions []string
	if !containsAnyOf(upper, exchangeSuffixes) {
		suggestions = append(suggestions, base+".NS", base+".BO")
	}
	if containsAnyOf(upper, fundWords) {
		suggestions = append(suggestions,
			"Try searching by AMFI scheme code (6-digit number)",
			"Try searching by partial fund name")
	}
	if len(base) <= 5 && isAlpha(base) {
		suggestions = append(suggestions, base+".NS", base+".BO")
	}

	if len(suggestions) > max {
		suggestions = suggestions[:max]
	}
	return suggestions
}

// removeFold removes every case-insensitive occurrence of the ASCII string
// sub from s.
func removeFold(s, sub string) string {
	var b strings.Builder
	for i := 0; i < len(s); {
		if i+len(sub) <= len(s) && strings.EqualFold(s[i:i+len(sub)], sub) {
			i += len(sub)
			continue
		}
		b.WriteByte(s[i])
		i++
	}
	return b.String()
}

func containsAnyOf(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

// isAlpha reports whether s is non-empty and made only of letters.
func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
