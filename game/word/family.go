package word

import (
	"strings"

	"github.com/kljensen/snowball/english"
)

// The family index rejects claims that only inflect or derive the stolen
// word (MILE -> MILES, CLAP -> CLAPPING) instead of rearranging it.
// A word's signature is the set of Porter stems of the word and of every
// recognized prefix/suffix stripping of it.

// familyPrefixes are strippable derivational prefixes.
var familyPrefixes = []string{
	"UN", "RE", "DIS", "IN", "IM", "NON", "OVER", "UNDER", "OUT", "PRE", "MIS",
}

// familySuffixes are strippable inflectional and derivational suffixes,
// longest first so that IES is tried before ES and S.
var familySuffixes = []string{
	"NESS", "MENT", "ABLE", "IBLE", "IES", "ING", "EST", "ION", "FUL",
	"ES", "ED", "ER", "LY", "IC", "AL", "S", "Y",
}

// FamilySignatures computes the set of stems that identify the word's morphological family.
// Words are normalized to uppercase; stems are lowercase.
func FamilySignatures(w string) map[string]struct{} {
	w = strings.ToUpper(w)
	bases := []string{w}
	for _, p := range familyPrefixes {
		if rest, ok := strings.CutPrefix(w, p); ok && len(rest) >= 3 {
			bases = append(bases, rest)
		}
	}
	candidates := make(map[string]struct{}, len(bases))
	for _, c := range bases {
		candidates[c] = struct{}{}
		for _, s := range familySuffixes {
			base, ok := strings.CutSuffix(c, s)
			if !ok || len(base) < 2 {
				continue
			}
			candidates[base] = struct{}{}
			for _, fixed := range morphologicalFixups(base, s) {
				candidates[fixed] = struct{}{}
			}
		}
	}
	signatures := make(map[string]struct{}, len(candidates))
	for c := range candidates {
		stem := english.Stem(strings.ToLower(c), false)
		if len(stem) >= 2 {
			signatures[stem] = struct{}{}
		}
	}
	return signatures
}

// morphologicalFixups repairs spelling changes that suffixing introduced:
// collapsing a trailing doubled consonant (CLAPP -> CLAP), restoring a
// silent E for ED/ING/ER/EST (WAV -> WAVE), and the Y<->I swap (HAPPI -> HAPPY).
func morphologicalFixups(base, suffix string) []string {
	var fixed []string
	n := len(base)
	if n >= 3 && base[n-1] == base[n-2] && !isVowel(base[n-1]) {
		fixed = append(fixed, base[:n-1])
	}
	switch suffix {
	case "ED", "ING", "ER", "EST":
		fixed = append(fixed, base+"E")
	}
	if n >= 3 && base[n-1] == 'I' {
		fixed = append(fixed, base[:n-1]+"Y")
	}
	return fixed
}

// SameFamily reports whether the two words share a family signature.
func SameFamily(a, b string) bool {
	sa := FamilySignatures(a)
	sb := FamilySignatures(b)
	for stem := range sa {
		if _, ok := sb[stem]; ok {
			return true
		}
	}
	return false
}

// isVowel reports whether the uppercase letter is a vowel.
func isVowel(b byte) bool {
	switch b {
	case 'A', 'E', 'I', 'O', 'U':
		return true
	}
	return false
}
