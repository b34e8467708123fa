// Package replay records snapshot-annotated steps of a game and analyzes
// them with the word-formation engine.
package replay

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/handorff/anagram-thief/game"
	"github.com/handorff/anagram-thief/game/tile"
)

type (
	// Kind classifies the transition a step recorded.
	Kind string

	// Snapshot captures the review-relevant game state at one step.
	// The bag is captured only as a count so replays do not leak draws.
	Snapshot struct {
		Status          game.Status          `json:"status"`
		BagCount        int                  `json:"bagCount"`
		CenterTiles     []tile.Tile          `json:"centerTiles"`
		Players         []game.PlayerState   `json:"players"`
		TurnPlayerID    string               `json:"turnPlayerId"`
		ClaimWindow     *game.ClaimWindow    `json:"claimWindow,omitempty"`
		ClaimCooldowns  map[string]int64     `json:"claimCooldowns,omitempty"`
		PendingFlip     *game.PendingFlip    `json:"pendingFlip,omitempty"`
		PreStealEnabled bool                 `json:"preStealEnabled"`
		PrecedenceOrder []string             `json:"precedenceOrder"`
		LastClaimEvent  *game.ClaimEventMeta `json:"lastClaimEvent,omitempty"`
		EndTimerEndsAt  int64                `json:"endTimerEndsAt,omitempty"`
	}

	// Step is one recorded transition.
	Step struct {
		Index int      `json:"index"`
		At    int64    `json:"at"`
		Kind  Kind     `json:"kind"`
		State Snapshot `json:"state"`
	}

	// Replay is the strict sequence of distinct recorded states.
	Replay struct {
		Steps []Step `json:"steps"`
	}

	// Recorder appends steps whose snapshots differ from the last recorded one.
	Recorder struct {
		replay   Replay
		lastHash string
	}
)

const (
	// KindGameStart records the initial in-game state.
	KindGameStart Kind = "game-start"
	// KindFlipRevealed records a tile reaching the center.
	KindFlipRevealed Kind = "flip-revealed"
	// KindClaimSucceeded records a manual or pre-steal claim being applied.
	KindClaimSucceeded Kind = "claim-succeeded"
	// KindClaimExpired records a claim window elapsing unused.
	KindClaimExpired Kind = "claim-expired"
	// KindPlayerJoined and KindPlayerLeft record mid-game roster changes.
	KindPlayerJoined Kind = "player-joined"
	KindPlayerLeft   Kind = "player-left"
	// KindGameEnded records the end countdown elapsing.
	KindGameEnded Kind = "game-ended"
)

// Record appends a step if the snapshot differs from the previously recorded state.
// It reports whether a step was added.
func (r *Recorder) Record(at int64, kind Kind, state Snapshot) bool {
	hash, err := HashSnapshot(state)
	if err != nil || hash == r.lastHash {
		return false
	}
	r.replay.Steps = append(r.replay.Steps, Step{
		Index: len(r.replay.Steps),
		At:    at,
		Kind:  kind,
		State: state,
	})
	r.lastHash = hash
	return true
}

// Replay returns the recorded steps.
func (r *Recorder) Replay() Replay {
	return r.replay
}

// HashSnapshot hashes the canonical JSON representation of the snapshot.
// Map keys serialize in sorted order, so equal snapshots hash equally.
func HashSnapshot(s Snapshot) (string, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("hashing snapshot: %w", err)
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}
