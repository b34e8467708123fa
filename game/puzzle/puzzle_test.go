package puzzle

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/handorff/anagram-thief/game/tile"
	"github.com/handorff/anagram-thief/game/word"
)

func newTestEngine(t *testing.T, words string) *Engine {
	t.Helper()
	d, err := word.NewDictionary(strings.NewReader(words))
	if err != nil {
		t.Fatalf("creating dictionary: %v", err)
	}
	cfg := Config{
		Dictionary: d,
		Rand:       rand.New(rand.NewSource(7)),
	}
	e, err := cfg.NewEngine()
	if err != nil {
		t.Fatalf("creating engine: %v", err)
	}
	return e
}

func lettersOf(s string) []tile.Letter {
	letters := make([]tile.Letter, len(s))
	for i := range s {
		letters[i] = tile.Letter(s[i])
	}
	return letters
}

func TestNewEngine(t *testing.T) {
	d, err := word.NewDictionary(strings.NewReader("team"))
	if err != nil {
		t.Fatalf("creating dictionary: %v", err)
	}
	newEngineTests := []struct {
		cfg    Config
		wantOk bool
	}{
		{},
		{
			cfg: Config{Dictionary: d},
		},
		{
			cfg: Config{Rand: rand.New(rand.NewSource(1))},
		},
		{
			cfg:    Config{Dictionary: d, Rand: rand.New(rand.NewSource(1))},
			wantOk: true,
		},
	}
	for i, test := range newEngineTests {
		_, err := test.cfg.NewEngine()
		switch {
		case !test.wantOk:
			if err == nil {
				t.Errorf("Test %v: wanted error", i)
			}
		case err != nil:
			t.Errorf("Test %v: unwanted error: %v", i, err)
		}
	}
}

func TestSolve(t *testing.T) {
	e := newTestEngine(t, "TEAM MATE STARE RATE")
	p := Puzzle{
		CenterLetters: lettersOf("TEAMS"),
		ExistingWords: []OwnedWord{
			{OwnerID: "a", Text: "RATE"},
		},
	}
	options := e.Solve(p)
	if len(options) == 0 {
		t.Fatal("wanted options")
	}
	// STARE steals RATE for 9, beating the center-formed 4-letter words
	if want, got := "STARE", options[0].Word; want != got {
		t.Errorf("wanted best option %v, got %v", want, got)
	}
	if want, got := 9, options[0].Score; want != got {
		t.Errorf("wanted best score %v, got %v", want, got)
	}
}

func TestEvaluate(t *testing.T) {
	e := newTestEngine(t, "TEAM MATE STARE RATE")
	p := Puzzle{
		CenterLetters: lettersOf("TEAMS"),
		ExistingWords: []OwnedWord{
			{OwnerID: "a", Text: "RATE"},
		},
	}
	evaluateTests := []struct {
		submission   string
		wantValid    bool
		wantBestPlay bool
		wantScore    int
		wantCategory Category
	}{
		{
			submission:   "STARE",
			wantValid:    true,
			wantBestPlay: true,
			wantScore:    9,
			wantCategory: CategoryPerfect,
		},
		{
			submission:   "TEAM",
			wantValid:    true,
			wantScore:    4,
			wantCategory: CategoryOK, // 4 of 9 is under half
		},
		{
			submission:   "XYZZY",
			wantCategory: CategoryBetterLuck,
		},
		{
			submission:   "",
			wantCategory: CategoryBetterLuck,
		},
	}
	for i, test := range evaluateTests {
		r := e.Evaluate(p, test.submission)
		switch {
		case r.IsValid != test.wantValid:
			t.Errorf("Test %v (%q): wanted isValid %v, got %v", i, test.submission, test.wantValid, r.IsValid)
		case r.IsBestPlay != test.wantBestPlay:
			t.Errorf("Test %v (%q): wanted isBestPlay %v, got %v", i, test.submission, test.wantBestPlay, r.IsBestPlay)
		case r.Score != test.wantScore:
			t.Errorf("Test %v (%q): wanted score %v, got %v", i, test.submission, test.wantScore, r.Score)
		case r.BestScore != 9:
			t.Errorf("Test %v (%q): wanted best score 9, got %v", i, test.submission, r.BestScore)
		case r.Category != test.wantCategory:
			t.Errorf("Test %v (%q): wanted category %v, got %v", i, test.submission, test.wantCategory, r.Category)
		}
		if !test.wantValid && r.InvalidReason == "" && test.submission != "" {
			t.Errorf("Test %v (%q): wanted invalid reason", i, test.submission)
		}
	}
}

func TestCategorize(t *testing.T) {
	categorizeTests := []struct {
		score     int
		bestScore int
		want      Category
	}{
		{score: 9, bestScore: 9, want: CategoryPerfect},
		{score: 10, bestScore: 10, want: CategoryPerfect},
		{score: 9, bestScore: 10, want: CategoryAmazing},
		{score: 8, bestScore: 10, want: CategoryGreat},
		{score: 5, bestScore: 10, want: CategoryGood},
		{score: 4, bestScore: 10, want: CategoryOK},
		{score: 0, bestScore: 10, want: CategoryBetterLuck},
		{score: 0, bestScore: 0, want: CategoryBetterLuck},
	}
	for i, test := range categorizeTests {
		if got := Categorize(test.score, test.bestScore); test.want != got {
			t.Errorf("Test %v: Categorize(%v, %v): wanted %v, got %v", i, test.score, test.bestScore, test.want, got)
		}
	}
}

func TestGenerate(t *testing.T) {
	e := newTestEngine(t, "TEAM MATE MEAT STARE RATE TEAR ASTER LEAST STEAL TALES SLATE")
	for difficulty := MinDifficulty; difficulty <= MaxDifficulty; difficulty++ {
		p, err := e.Generate(difficulty)
		if err != nil {
			t.Fatalf("difficulty %v: unwanted error: %v", difficulty, err)
		}
		if len(p.CenterLetters) == 0 {
			t.Errorf("difficulty %v: wanted center letters", difficulty)
		}
		if wantMax := difficulty - 1; len(p.ExistingWords) > wantMax {
			t.Errorf("difficulty %v: wanted at most %v existing words, got %v", difficulty, wantMax, len(p.ExistingWords))
		}
		if options := e.Solve(*p); len(options) == 0 {
			t.Errorf("difficulty %v: wanted a solvable puzzle, got %v", difficulty, p)
		}
	}
	if _, err := e.Generate(0); err == nil {
		t.Error("wanted error for difficulty 0")
	}
	if _, err := e.Generate(6); err == nil {
		t.Error("wanted error for difficulty 6")
	}
}

func TestValidateCustom(t *testing.T) {
	e := newTestEngine(t, "TEAM MATE STARE RATE")
	validateCustomTests := []struct {
		p      Puzzle
		wantOk bool
	}{
		{
			p: Puzzle{},
		},
		{
			p: Puzzle{CenterLetters: []tile.Letter{'T', '!'}},
		},
		{
			p: Puzzle{
				CenterLetters: lettersOf("TEAM"),
				ExistingWords: []OwnedWord{{Text: "RA"}},
			},
		},
		{
			p: Puzzle{CenterLetters: lettersOf("ZZZZ")}, // no plays
		},
		{
			p:      Puzzle{CenterLetters: lettersOf("TEAM")},
			wantOk: true,
		},
		{
			p: Puzzle{
				CenterLetters: lettersOf("S"),
				ExistingWords: []OwnedWord{{OwnerID: "a", Text: "RATE"}},
			},
			wantOk: true, // STARE
		},
	}
	for i, test := range validateCustomTests {
		err := e.ValidateCustom(test.p)
		switch {
		case !test.wantOk:
			if err == nil {
				t.Errorf("Test %v: wanted error", i)
			}
		case err != nil:
			t.Errorf("Test %v: unwanted error: %v", i, err)
		}
	}
}
