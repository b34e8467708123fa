package word

import (
	"sort"
	"strings"

	"github.com/handorff/anagram-thief/game/tile"
)

type (
	// ExistingWord is a word a player already owns that may be stolen.
	ExistingWord struct {
		OwnerID string      `json:"ownerId"`
		Text    string      `json:"text"`
		Tiles   []tile.Tile `json:"tiles"`
	}

	// Source tells where the letters of a claim come from.
	Source string

	// Option is a legal claim the engine found.
	Option struct {
		Word          string `json:"word"`
		Source        Source `json:"source"`
		StolenWord    string `json:"stolenWord,omitempty"`
		StolenOwnerID string `json:"stolenOwnerId,omitempty"`
		Score         int    `json:"score"`
	}

	// Claim is a validated claim with its exact tile assignment.
	Claim struct {
		// Word is the normalized claimed spelling.
		Word string
		// Source is SourceCenter or SourceSteal.
		Source Source
		// Victim is the stolen word, nil for center-formed claims.
		Victim *ExistingWord
		// Tiles spell Word in order.
		Tiles []tile.Tile
		// CenterTileIDs are the tiles consumed from the center.
		CenterTileIDs []tile.ID
		// Score is len(Word) plus the length of the stolen word, if any.
		Score int
	}

	// ClaimFailure enumerates the ways a claim can be rejected.
	ClaimFailure int

	// letterCounts is a letter multiset.
	letterCounts [26]int
)

const (
	// SourceCenter marks a word formed from center tiles only.
	SourceCenter Source = "center"
	// SourceSteal marks a word that consumes an existing word plus center tiles.
	SourceSteal Source = "steal"
)

const (
	// FailureNone means the claim succeeded.
	FailureNone ClaimFailure = iota
	// FailureEmptyWord rejects an empty submission.
	FailureEmptyWord
	// FailureNonLetters rejects characters outside A-Z.
	FailureNonLetters
	// FailureNotInDictionary rejects unknown or too-short words.
	FailureNotInDictionary
	// FailureInsufficientLetters rejects words the center and existing words cannot spell.
	FailureInsufficientLetters
	// FailureIllegalSteal rejects substring/prefix extensions of an existing word.
	FailureIllegalSteal
	// FailureSameFamily rejects inflections and derivations of an existing word.
	FailureSameFamily
)

// Message returns the player-visible text for the failure.
// The messages are a bounded enumeration shared with the game log.
func (f ClaimFailure) Message() string {
	switch f {
	case FailureEmptyWord:
		return "Enter a word to claim."
	case FailureNonLetters:
		return "Word must contain only letters A-Z."
	case FailureNotInDictionary:
		return "Word is not valid."
	case FailureInsufficientLetters, FailureIllegalSteal, FailureSameFamily:
		return "Not enough tiles in the center to make that word."
	}
	return ""
}

// ValidateClaim checks the submitted word against the center tiles and existing words.
// On success the returned claim carries the deterministic tile assignment.
func ValidateClaim(center []tile.Tile, existing []ExistingWord, submitted string, d *Dictionary) (*Claim, ClaimFailure) {
	w := strings.ToUpper(strings.TrimSpace(submitted))
	if len(w) == 0 {
		return nil, FailureEmptyWord
	}
	if !onlyLetters(w) {
		return nil, FailureNonLetters
	}
	if len(w) < MinLength || !d.Contains(w) {
		return nil, FailureNotInDictionary
	}
	wordCounts := countsOfWord(w)
	centerCounts := countsOfTiles(center)
	if centerCounts.contains(wordCounts) {
		centerTiles := assignCenterTiles(center, wordCounts)
		c := Claim{
			Word:          w,
			Source:        SourceCenter,
			Tiles:         orderTiles(w, centerTiles),
			CenterTileIDs: tileIDs(centerTiles),
			Score:         len(w),
		}
		return &c, FailureNone
	}
	failure := FailureInsufficientLetters
	for i := range existing {
		v := &existing[i]
		remainder, ok := wordCounts.minus(countsOfWord(v.Text))
		if !ok || remainder.total() < 1 || !centerCounts.contains(remainder) {
			continue
		}
		switch {
		case SameFamily(w, v.Text):
			failure = FailureSameFamily
		case w == v.Text || isSubsequence(v.Text, w):
			if failure == FailureInsufficientLetters {
				failure = FailureIllegalSteal
			}
		default:
			centerTiles := assignCenterTiles(center, remainder)
			pool := append(append([]tile.Tile{}, v.Tiles...), centerTiles...)
			c := Claim{
				Word:          w,
				Source:        SourceSteal,
				Victim:        v,
				Tiles:         orderTiles(w, pool),
				CenterTileIDs: tileIDs(centerTiles),
				Score:         len(w) + len(v.Text),
			}
			return &c, FailureNone
		}
	}
	return nil, failure
}

// Enumerate finds every legal claim for the center tiles and existing words.
// Options are sorted by score descending, then word ascending, then stolen word ascending.
// The result is deterministic for equal inputs.
func Enumerate(center []tile.Tile, existing []ExistingWord, d *Dictionary) []Option {
	centerCounts := countsOfTiles(center)
	centerTotal := centerCounts.total()
	maxLen := centerTotal
	victimCounts := make([]letterCounts, len(existing))
	for i, v := range existing {
		victimCounts[i] = countsOfWord(v.Text)
		if n := centerTotal + len(v.Text); n > maxLen {
			maxLen = n
		}
	}
	var options []Option
	for _, w := range d.Words() {
		if len(w) < MinLength || len(w) > maxLen {
			continue
		}
		wordCounts := countsOfWord(w)
		if centerCounts.contains(wordCounts) {
			options = append(options, Option{
				Word:   w,
				Source: SourceCenter,
				Score:  len(w),
			})
		}
		for i := range existing {
			v := &existing[i]
			remainder, ok := wordCounts.minus(victimCounts[i])
			if !ok || remainder.total() < 1 || !centerCounts.contains(remainder) {
				continue
			}
			if w == v.Text || isSubsequence(v.Text, w) || SameFamily(w, v.Text) {
				continue
			}
			options = append(options, Option{
				Word:          w,
				Source:        SourceSteal,
				StolenWord:    v.Text,
				StolenOwnerID: v.OwnerID,
				Score:         len(w) + len(v.Text),
			})
		}
	}
	options = dedupeBestPerTarget(options)
	sort.Slice(options, func(i, j int) bool {
		a, b := options[i], options[j]
		switch {
		case a.Score != b.Score:
			return a.Score > b.Score
		case a.Word != b.Word:
			return a.Word < b.Word
		case a.Source != b.Source:
			return a.Source == SourceCenter
		default:
			return a.StolenWord < b.StolenWord
		}
	})
	return options
}

// dedupeBestPerTarget keeps the best-scoring row for each (word, source, stolen word) target.
func dedupeBestPerTarget(options []Option) []Option {
	type target struct {
		word   string
		source Source
		stolen string
		owner  string
	}
	best := make(map[target]int, len(options))
	deduped := options[:0]
	for _, o := range options {
		k := target{o.Word, o.Source, o.StolenWord, o.StolenOwnerID}
		if i, ok := best[k]; ok {
			if o.Score > deduped[i].Score {
				deduped[i] = o
			}
			continue
		}
		best[k] = len(deduped)
		deduped = append(deduped, o)
	}
	return deduped
}

// countsOfWord counts the letters of an uppercase A-Z word.
func countsOfWord(w string) letterCounts {
	var c letterCounts
	for i := 0; i < len(w); i++ {
		c[w[i]-'A']++
	}
	return c
}

// countsOfTiles counts the letters of the tiles.
func countsOfTiles(tiles []tile.Tile) letterCounts {
	var c letterCounts
	for _, t := range tiles {
		c[rune(t.Ch)-'A']++
	}
	return c
}

// contains reports whether o fits inside c.
func (c letterCounts) contains(o letterCounts) bool {
	for i := range c {
		if o[i] > c[i] {
			return false
		}
	}
	return true
}

// minus subtracts o from c, reporting false if any count would go negative.
func (c letterCounts) minus(o letterCounts) (letterCounts, bool) {
	var r letterCounts
	for i := range c {
		r[i] = c[i] - o[i]
		if r[i] < 0 {
			return r, false
		}
	}
	return r, true
}

// total sums the letter counts.
func (c letterCounts) total() int {
	n := 0
	for _, v := range c {
		n += v
	}
	return n
}

// isSubsequence reports whether sub's letters appear in s in order.
// A steal must reorder the victim, so victim-as-subsequence claims are illegal.
func isSubsequence(sub, s string) bool {
	i := 0
	for j := 0; i < len(sub) && j < len(s); j++ {
		if sub[i] == s[j] {
			i++
		}
	}
	return i == len(sub)
}

// assignCenterTiles picks tiles from the center matching the needed letter counts.
// Center tiles are scanned in ascending id order, which matches their
// creation order, so the assignment is deterministic.
func assignCenterTiles(center []tile.Tile, needed letterCounts) []tile.Tile {
	ordered := make([]tile.Tile, len(center))
	copy(ordered, center)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].ID < ordered[j].ID
	})
	var assigned []tile.Tile
	for _, t := range ordered {
		i := rune(t.Ch) - 'A'
		if needed[i] > 0 {
			needed[i]--
			assigned = append(assigned, t)
		}
	}
	return assigned
}

// orderTiles arranges the pool so its tiles spell the word.
// Earlier pool tiles (the victim's, then center tiles) are preferred for each letter.
func orderTiles(w string, pool []tile.Tile) []tile.Tile {
	used := make([]bool, len(pool))
	ordered := make([]tile.Tile, 0, len(w))
	for i := 0; i < len(w); i++ {
		for j, t := range pool {
			if !used[j] && byte(t.Ch) == w[i] {
				used[j] = true
				ordered = append(ordered, t)
				break
			}
		}
	}
	return ordered
}

// tileIDs extracts the ids of the tiles.
func tileIDs(tiles []tile.Tile) []tile.ID {
	ids := make([]tile.ID, len(tiles))
	for i, t := range tiles {
		ids[i] = t.ID
	}
	return ids
}
