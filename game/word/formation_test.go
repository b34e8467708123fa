package word

import (
	"reflect"
	"strings"
	"testing"

	"github.com/handorff/anagram-thief/game/tile"
)

// tilesFrom builds center tiles with ascending ids starting at firstID.
func tilesFrom(t *testing.T, letters string, firstID tile.ID) []tile.Tile {
	t.Helper()
	tiles := make([]tile.Tile, 0, len(letters))
	for i, ch := range letters {
		t2, err := tile.New(firstID+tile.ID(i), ch)
		if err != nil {
			t.Fatalf("creating tile: %v", err)
		}
		tiles = append(tiles, *t2)
	}
	return tiles
}

func newTestDictionary(t *testing.T, words string) *Dictionary {
	t.Helper()
	d, err := NewDictionary(strings.NewReader(words))
	if err != nil {
		t.Fatalf("creating dictionary: %v", err)
	}
	return d
}

func TestEnumerateCenterFormed(t *testing.T) {
	// spec scenario: center TEAM, five anagram words, all center-formed, score 4,
	// sorted ascending by word within the equal score
	d := newTestDictionary(t, "TEAM MATE MEAT TAME META")
	center := tilesFrom(t, "TEAM", 1)
	got := Enumerate(center, nil, d)
	want := []Option{
		{Word: "MATE", Source: SourceCenter, Score: 4},
		{Word: "MEAT", Source: SourceCenter, Score: 4},
		{Word: "META", Source: SourceCenter, Score: 4},
		{Word: "TAME", Source: SourceCenter, Score: 4},
		{Word: "TEAM", Source: SourceCenter, Score: 4},
	}
	if !reflect.DeepEqual(want, got) {
		t.Errorf("wanted %v\ngot    %v", want, got)
	}
}

func TestEnumerateStealRearrangement(t *testing.T) {
	// spec scenario: STARE steals RATE (score 9), RATES is a substring extension
	d := newTestDictionary(t, "RATE STARE RATES TEAR")
	center := tilesFrom(t, "S", 10)
	existing := []ExistingWord{
		{OwnerID: "a", Text: "RATE", Tiles: tilesFrom(t, "RATE", 1)},
	}
	got := Enumerate(center, existing, d)
	want := []Option{
		{Word: "STARE", Source: SourceSteal, StolenWord: "RATE", StolenOwnerID: "a", Score: 9},
	}
	if !reflect.DeepEqual(want, got) {
		t.Errorf("wanted %v\ngot    %v", want, got)
	}
}

func TestEnumerateSameFamily(t *testing.T) {
	// spec scenario: MILES may not steal MILE
	d := newTestDictionary(t, "MILE MILES")
	center := tilesFrom(t, "S", 10)
	existing := []ExistingWord{
		{OwnerID: "a", Text: "MILE", Tiles: tilesFrom(t, "MILE", 1)},
	}
	if got := Enumerate(center, existing, d); len(got) != 0 {
		t.Errorf("wanted no options, got %v", got)
	}
	if _, failure := ValidateClaim(center, existing, "MILES", d); failure != FailureSameFamily {
		t.Errorf("wanted FailureSameFamily, got %v", failure)
	}
}

func TestEnumerateDeterministic(t *testing.T) {
	d := newTestDictionary(t, "RATE STARE TEAR TEARS ASTER RATES")
	center := tilesFrom(t, "SAT", 20)
	existing := []ExistingWord{
		{OwnerID: "a", Text: "RATE", Tiles: tilesFrom(t, "RATE", 1)},
		{OwnerID: "b", Text: "TEAR", Tiles: tilesFrom(t, "TEAR", 5)},
	}
	first := Enumerate(center, existing, d)
	for i := 0; i < 10; i++ {
		if got := Enumerate(center, existing, d); !reflect.DeepEqual(first, got) {
			t.Fatalf("run %v: enumerate was not deterministic:\nfirst %v\ngot   %v", i, first, got)
		}
	}
	for i := 1; i < len(first); i++ {
		a, b := first[i-1], first[i]
		if a.Score < b.Score || (a.Score == b.Score && a.Word > b.Word) {
			t.Errorf("options %v and %v out of order: %v before %v", i-1, i, a, b)
		}
	}
}

func TestValidateClaim(t *testing.T) {
	d := newTestDictionary(t, "RATE STARE RATES PIRATE MATTE MATE")
	center := tilesFrom(t, "SMATEPI", 10)
	existing := []ExistingWord{
		{OwnerID: "a", Text: "RATE", Tiles: tilesFrom(t, "RATE", 1)},
	}
	validateClaimTests := []struct {
		submitted   string
		wantFailure ClaimFailure
		wantSource  Source
		wantScore   int
	}{
		{
			submitted:   "",
			wantFailure: FailureEmptyWord,
		},
		{
			submitted:   "RATE5",
			wantFailure: FailureNonLetters,
		},
		{
			submitted:   "mate!",
			wantFailure: FailureNonLetters,
		},
		{
			submitted:   "TEA",
			wantFailure: FailureNotInDictionary,
		},
		{
			submitted:   "ZZZZ",
			wantFailure: FailureNotInDictionary,
		},
		{
			submitted:   "MATTE",
			wantFailure: FailureInsufficientLetters, // only one T available
		},
		{
			submitted:   "RATES",
			wantFailure: FailureSameFamily, // the trivial -S inflection
		},
		{
			submitted:   "PIRATE",
			wantFailure: FailureIllegalSteal, // RATE kept in order, not rearranged
		},
		{
			submitted:  "MATE",
			wantSource: SourceCenter,
			wantScore:  4,
		},
		{
			submitted:  "stare",
			wantSource: SourceSteal,
			wantScore:  9,
		},
	}
	for i, test := range validateClaimTests {
		c, failure := ValidateClaim(center, existing, test.submitted, d)
		if test.wantFailure != FailureNone {
			if failure != test.wantFailure {
				t.Errorf("Test %v (%q): wanted failure %v, got %v", i, test.submitted, test.wantFailure, failure)
			}
			continue
		}
		switch {
		case failure != FailureNone:
			t.Errorf("Test %v (%q): unwanted failure: %v", i, test.submitted, failure)
		case c.Source != test.wantSource:
			t.Errorf("Test %v (%q): wanted source %v, got %v", i, test.submitted, test.wantSource, c.Source)
		case c.Score != test.wantScore:
			t.Errorf("Test %v (%q): wanted score %v, got %v", i, test.submitted, test.wantScore, c.Score)
		case len(c.Tiles) != len(c.Word):
			t.Errorf("Test %v (%q): wanted %v tiles, got %v", i, test.submitted, len(c.Word), len(c.Tiles))
		}
	}
}

func TestValidateClaimTileAssignment(t *testing.T) {
	d := newTestDictionary(t, "RATE STARE")
	center := tilesFrom(t, "XS", 10) // S has id 11
	victimTiles := tilesFrom(t, "RATE", 1)
	existing := []ExistingWord{
		{OwnerID: "a", Text: "RATE", Tiles: victimTiles},
	}
	c, failure := ValidateClaim(center, existing, "STARE", d)
	if failure != FailureNone {
		t.Fatalf("unwanted failure: %v", failure)
	}
	if want, got := []tile.ID{11}, c.CenterTileIDs; !reflect.DeepEqual(want, got) {
		t.Errorf("wanted center tiles %v consumed, got %v", want, got)
	}
	// the ordered tiles spell STARE using all four victim tiles plus the S
	spelled := ""
	usedVictim := 0
	for _, t2 := range c.Tiles {
		spelled += t2.Ch.String()
		for _, vt := range victimTiles {
			if vt.ID == t2.ID {
				usedVictim++
			}
		}
	}
	if spelled != "STARE" {
		t.Errorf("wanted tiles to spell STARE, got %v", spelled)
	}
	if usedVictim != len(victimTiles) {
		t.Errorf("wanted all %v victim tiles consumed, got %v", len(victimTiles), usedVictim)
	}
}

func TestClaimFailureMessage(t *testing.T) {
	messageTests := []struct {
		failure ClaimFailure
		want    string
	}{
		{
			failure: FailureEmptyWord,
			want:    "Enter a word to claim.",
		},
		{
			failure: FailureNonLetters,
			want:    "Word must contain only letters A-Z.",
		},
		{
			failure: FailureNotInDictionary,
			want:    "Word is not valid.",
		},
		{
			failure: FailureInsufficientLetters,
			want:    "Not enough tiles in the center to make that word.",
		},
		{
			failure: FailureIllegalSteal,
			want:    "Not enough tiles in the center to make that word.",
		},
		{
			failure: FailureSameFamily,
			want:    "Not enough tiles in the center to make that word.",
		},
		{
			failure: FailureNone,
		},
	}
	for i, test := range messageTests {
		if got := test.failure.Message(); test.want != got {
			t.Errorf("Test %v: wanted %q, got %q", i, test.want, got)
		}
	}
}

func TestIsSubsequence(t *testing.T) {
	isSubsequenceTests := []struct {
		sub  string
		s    string
		want bool
	}{
		{
			sub:  "RATE",
			s:    "RATES",
			want: true,
		},
		{
			sub:  "RATE",
			s:    "PIRATE",
			want: true,
		},
		{
			sub:  "RATE",
			s:    "REALTIME", // R..A..T.E in order
			want: true,
		},
		{
			sub: "RATE",
			s:   "STARE",
		},
		{
			sub: "TEAR",
			s:   "RATES",
		},
	}
	for i, test := range isSubsequenceTests {
		if got := isSubsequence(test.sub, test.s); test.want != got {
			t.Errorf("Test %v: isSubsequence(%v, %v): wanted %v, got %v", i, test.sub, test.s, test.want, got)
		}
	}
}
