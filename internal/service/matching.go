package service

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"wedding/guesthub/internal/model"
)

const (
	// phoneSuffixLen digits are compared, which absorbs country-code and
	// trunk-prefix differences ("+61 4…" vs "04…").
	phoneSuffixLen = 8
	// Numbers shorter than this never phone-match; a short suffix would be
	// contained in almost any number.
	minPhoneDigits = phoneSuffixLen

	// Tokens of this many runes or fewer are ignored (initials, "de", "jr").
	minNameTokenLen = 2

	fuzzyNameThreshold = 0.8
)

func digitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func lastN(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

// phonesMatch compares the trailing digits of two numbers in both directions.
func phonesMatch(supplied, stored string) bool {
	a, b := digitsOnly(supplied), digitsOnly(stored)
	if len(a) < minPhoneDigits || len(b) < minPhoneDigits {
		return false
	}
	return strings.Contains(a, lastN(b, phoneSuffixLen)) ||
		strings.Contains(b, lastN(a, phoneSuffixLen))
}

func nameTokens(name string) []string {
	fields := strings.FieldsFunc(strings.ToLower(name), unicode.IsSpace)
	tokens := fields[:0]
	for _, f := range fields {
		if utf8.RuneCountInString(f) > minNameTokenLen {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// nameSimilarity counts supplied tokens that contain, or are contained in,
// some stored token, normalised by the longer token list.
func nameSimilarity(supplied, stored string) float64 {
	a, b := nameTokens(supplied), nameTokens(stored)
	denom := max(len(a), len(b))
	if denom == 0 {
		return 0
	}

	matches := 0
	for _, ta := range a {
		for _, tb := range b {
			if strings.Contains(ta, tb) || strings.Contains(tb, ta) {
				matches++
				break
			}
		}
	}
	return float64(matches) / float64(denom)
}

func findByPhone(mobile string, guests []model.Guest) *model.Guest {
	for i := range guests {
		if guests[i].Mobile != "" && phonesMatch(mobile, guests[i].Mobile) {
			return &guests[i]
		}
	}
	return nil
}

// findByName returns the highest-scoring guest above the threshold. Equal
// scores keep the guest that comes first in fetch order.
func findByName(fullName string, guests []model.Guest) *model.Guest {
	var (
		best      *model.Guest
		bestScore float64
	)
	for i := range guests {
		score := nameSimilarity(fullName, guests[i].Name)
		if score > fuzzyNameThreshold && score > bestScore {
			best, bestScore = &guests[i], score
		}
	}
	return best
}
