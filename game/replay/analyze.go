package replay

import (
	"fmt"

	"github.com/handorff/anagram-thief/game/tile"
	"github.com/handorff/anagram-thief/game/word"
)

type (
	// AnalysisResult is the analyzer output for one step.
	AnalysisResult struct {
		RequestedStepIndex int  `json:"requestedStepIndex"`
		StepKind           Kind `json:"stepKind"`
		// Basis tells which state was analyzed: the step itself, or the
		// state just before a claim was applied.
		Basis          Basis         `json:"basis"`
		BasisStepIndex int           `json:"basisStepIndex"`
		BestScore      int           `json:"bestScore"`
		AllOptions     []word.Option `json:"allOptions"`
	}

	// Basis tells which snapshot an analysis ran against.
	Basis string
)

const (
	// BasisStep analyzes the requested step's own state.
	BasisStep Basis = "step"
	// BasisBeforeClaim analyzes the state preceding a successful claim, so
	// the claimed word shows up among the options it competed with.
	BasisBeforeClaim Basis = "before-claim"
)

// AnalyzeStep enumerates every playable option at a step of the replay.
// Claim steps are analyzed against the preceding step's state so the
// analysis includes the claim that was actually made.
func AnalyzeStep(r Replay, index int, d *word.Dictionary) (*AnalysisResult, error) {
	if index < 0 || index >= len(r.Steps) {
		return nil, fmt.Errorf("step index %v out of range [0,%v)", index, len(r.Steps))
	}
	step := r.Steps[index]
	var basis Basis
	var basisIndex int
	switch step.Kind {
	case KindFlipRevealed:
		basis, basisIndex = BasisStep, index
	case KindClaimSucceeded:
		if index == 0 {
			return nil, fmt.Errorf("claim step %v has no preceding state to analyze", index)
		}
		basis, basisIndex = BasisBeforeClaim, index-1
	default:
		return nil, fmt.Errorf("step kind %q is not analyzable", step.Kind)
	}
	existing, err := existingWords(r.Steps[basisIndex].State)
	if err != nil {
		return nil, fmt.Errorf("step %v: %w", basisIndex, err)
	}
	options := word.Enumerate(r.Steps[basisIndex].State.CenterTiles, existing, d)
	bestScore := 0
	if len(options) > 0 {
		bestScore = options[0].Score
	}
	return &AnalysisResult{
		RequestedStepIndex: index,
		StepKind:           step.Kind,
		Basis:              basis,
		BasisStepIndex:     basisIndex,
		BestScore:          bestScore,
		AllOptions:         options,
	}, nil
}

// existingWords rebuilds the owned words of a snapshot for the formation
// engine, pairing each word's tile ids with the letters of its spelling.
func existingWords(s Snapshot) ([]word.ExistingWord, error) {
	var words []word.ExistingWord
	for _, p := range s.Players {
		for _, w := range p.Words {
			if len(w.TileIDs) != len(w.Text) {
				return nil, fmt.Errorf("word %q has %v tiles for %v letters", w.Text, len(w.TileIDs), len(w.Text))
			}
			tiles := make([]tile.Tile, 0, len(w.TileIDs))
			for i, ch := range w.Text {
				t, err := tile.New(w.TileIDs[i], ch)
				if err != nil {
					return nil, fmt.Errorf("word %q: %w", w.Text, err)
				}
				tiles = append(tiles, *t)
			}
			words = append(words, word.ExistingWord{
				OwnerID: p.ID,
				Text:    w.Text,
				Tiles:   tiles,
			})
		}
	}
	return words, nil
}
