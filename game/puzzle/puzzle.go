// Package puzzle implements the practice mode: static puzzles solved with
// the word-formation engine, scored submissions, and difficulty-targeted
// puzzle generation.
package puzzle

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/handorff/anagram-thief/game/tile"
	"github.com/handorff/anagram-thief/game/word"
)

type (
	// Puzzle is a static claim position: center letters plus owned words.
	Puzzle struct {
		CenterLetters []tile.Letter `json:"centerLetters"`
		ExistingWords []OwnedWord   `json:"existingWords,omitempty"`
	}

	// OwnedWord is an existing word in a puzzle.
	OwnedWord struct {
		OwnerID string `json:"ownerId,omitempty"`
		Text    string `json:"text"`
	}

	// Result scores a submission against a puzzle.
	Result struct {
		IsValid       bool          `json:"isValid"`
		IsBestPlay    bool          `json:"isBestPlay"`
		Score         int           `json:"score"`
		BestScore     int           `json:"bestScore"`
		TimedOut      bool          `json:"timedOut"`
		Category      Category      `json:"category"`
		AllOptions    []word.Option `json:"allOptions"`
		InvalidReason string        `json:"invalidReason,omitempty"`
	}

	// Category grades a submission relative to the best available play.
	Category string

	// Engine solves, evaluates, and generates puzzles.
	Engine struct {
		Config
	}

	// Config contains the properties to create an Engine.
	Config struct {
		// Dictionary is the word set puzzles are solved against.
		Dictionary *word.Dictionary
		// Rand drives puzzle generation.  Tests pin it with a fixed seed.
		Rand *rand.Rand
	}
)

const (
	// CategoryPerfect is a submission matching the best play.
	CategoryPerfect Category = "perfect"
	// CategoryAmazing is at least 90% of the best score.
	CategoryAmazing Category = "amazing"
	// CategoryGreat is at least 75% of the best score.
	CategoryGreat Category = "great"
	// CategoryGood is at least 50% of the best score.
	CategoryGood Category = "good"
	// CategoryOK is any other scoring submission.
	CategoryOK Category = "ok"
	// CategoryBetterLuck is a submission that scored nothing.
	CategoryBetterLuck Category = "better-luck-next-time"
)

const (
	// MinDifficulty and MaxDifficulty bound Generate's difficulty level.
	MinDifficulty = 1
	MaxDifficulty = 5
	// generateAttempts bounds resampling when generating a puzzle.
	generateAttempts = 100
)

// NewEngine creates an Engine from the config.
func (cfg Config) NewEngine() (*Engine, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("creating puzzle engine: validation: %w", err)
	}
	e := Engine{
		Config: cfg,
	}
	return &e, nil
}

// validate ensures the configuration has no errors.
func (cfg Config) validate() error {
	switch {
	case cfg.Dictionary == nil:
		return fmt.Errorf("dictionary required")
	case cfg.Rand == nil:
		return fmt.Errorf("random source required")
	}
	return nil
}

// Solve enumerates every legal play for the puzzle, best first.
func (e *Engine) Solve(p Puzzle) []word.Option {
	center, existing := p.synthesize()
	return word.Enumerate(center, existing, e.Dictionary)
}

// Evaluate scores the submission against the puzzle's best play.
func (e *Engine) Evaluate(p Puzzle, submission string) Result {
	center, existing := p.synthesize()
	options := word.Enumerate(center, existing, e.Dictionary)
	bestScore := 0
	if len(options) > 0 {
		bestScore = options[0].Score
	}
	r := Result{
		BestScore:  bestScore,
		AllOptions: options,
	}
	claim, failure := word.ValidateClaim(center, existing, submission, e.Dictionary)
	if failure != word.FailureNone {
		r.InvalidReason = failure.Message()
		r.Category = Categorize(0, bestScore)
		return r
	}
	r.IsValid = true
	r.Score = claim.Score
	r.IsBestPlay = claim.Score == bestScore
	r.Category = Categorize(claim.Score, bestScore)
	return r
}

// Categorize grades a score against the best available score.
func Categorize(score, bestScore int) Category {
	switch ratio := ratioOf(score, bestScore); {
	case score <= 0:
		return CategoryBetterLuck
	case score >= bestScore:
		return CategoryPerfect
	case ratio >= 0.9:
		return CategoryAmazing
	case ratio >= 0.75:
		return CategoryGreat
	case ratio >= 0.5:
		return CategoryGood
	default:
		return CategoryOK
	}
}

// ratioOf divides score by bestScore, guarding the zero case.
func ratioOf(score, bestScore int) float64 {
	if bestScore <= 0 {
		return 0
	}
	return float64(score) / float64(bestScore)
}

// Generate samples a puzzle that the solver can find at least one play for.
// Higher difficulties bias toward more and longer existing words and a
// larger center; the curve is monotone in expectation, not per sample.
func (e *Engine) Generate(difficulty int) (*Puzzle, error) {
	if difficulty < MinDifficulty || difficulty > MaxDifficulty {
		return nil, fmt.Errorf("difficulty must be in %v..%v: %v", MinDifficulty, MaxDifficulty, difficulty)
	}
	words := e.Dictionary.Words()
	if len(words) == 0 {
		return nil, fmt.Errorf("dictionary is empty")
	}
	numWords := difficulty - 1
	maxWordLen := 3 + difficulty
	for attempt := 0; attempt < generateAttempts; attempt++ {
		p := e.sample(words, numWords, maxWordLen, difficulty)
		if p == nil {
			continue
		}
		if options := e.Solve(*p); len(options) > 0 {
			return p, nil
		}
	}
	return nil, fmt.Errorf("could not generate a solvable puzzle at difficulty %v", difficulty)
}

// sample builds one candidate puzzle: a random target word's letters plus
// extra random letters in the center, and random owned words to steal from.
func (e *Engine) sample(words []string, numWords, maxWordLen, difficulty int) *Puzzle {
	target := e.pickWord(words, word.MinLength, maxWordLen)
	if target == "" {
		return nil
	}
	letters := []rune(target)
	for i := 0; i < difficulty; i++ {
		letters = append(letters, rune('A'+e.Rand.Intn(26)))
	}
	e.Rand.Shuffle(len(letters), func(i, j int) {
		letters[i], letters[j] = letters[j], letters[i]
	})
	p := Puzzle{
		CenterLetters: make([]tile.Letter, len(letters)),
	}
	for i, r := range letters {
		p.CenterLetters[i] = tile.Letter(r)
	}
	for i := 0; i < numWords; i++ {
		w := e.pickWord(words, word.MinLength, maxWordLen)
		if w == "" {
			break
		}
		p.ExistingWords = append(p.ExistingWords, OwnedWord{Text: w})
	}
	return &p
}

// pickWord picks a random dictionary word within the length bounds.
func (e *Engine) pickWord(words []string, minLen, maxLen int) string {
	for attempt := 0; attempt < generateAttempts; attempt++ {
		w := words[e.Rand.Intn(len(words))]
		if len(w) >= minLen && len(w) <= maxLen {
			return w
		}
	}
	return ""
}

// ValidateCustom checks a shared puzzle: well-formed letters, well-formed
// existing words, and at least one legal play.
func (e *Engine) ValidateCustom(p Puzzle) error {
	if len(p.CenterLetters) == 0 {
		return fmt.Errorf("custom puzzle has no center letters")
	}
	for _, l := range p.CenterLetters {
		if l < 'A' || 'Z' < l {
			return fmt.Errorf("custom puzzle has an invalid center letter: %v", l)
		}
	}
	for _, w := range p.ExistingWords {
		upper := strings.ToUpper(w.Text)
		if len(upper) < word.MinLength {
			return fmt.Errorf("custom puzzle word is too short: %v", w.Text)
		}
		for _, r := range upper {
			if r < 'A' || 'Z' < r {
				return fmt.Errorf("custom puzzle word has an invalid letter: %v", w.Text)
			}
		}
	}
	if options := e.Solve(p); len(options) == 0 {
		return fmt.Errorf("custom puzzle has no valid plays")
	}
	return nil
}

// synthesize builds tiles for the pure puzzle so the formation engine can run.
// Center tiles get the lowest ids so the deterministic tile assignment
// matches a live game's earliest-created-first rule.
func (p Puzzle) synthesize() ([]tile.Tile, []word.ExistingWord) {
	id := tile.ID(1)
	center := make([]tile.Tile, 0, len(p.CenterLetters))
	for _, l := range p.CenterLetters {
		center = append(center, tile.Tile{ID: id, Ch: l})
		id++
	}
	existing := make([]word.ExistingWord, 0, len(p.ExistingWords))
	for _, w := range p.ExistingWords {
		text := strings.ToUpper(w.Text)
		tiles := make([]tile.Tile, 0, len(text))
		for _, r := range text {
			tiles = append(tiles, tile.Tile{ID: id, Ch: tile.Letter(r)})
			id++
		}
		existing = append(existing, word.ExistingWord{
			OwnerID: w.OwnerID,
			Text:    text,
			Tiles:   tiles,
		})
	}
	return center, existing
}
