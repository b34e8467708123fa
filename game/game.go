// Package game contains the shared structures the room runtime, replay
// recorder, and viewer projection pass between each other and to clients.
package game

import "github.com/handorff/anagram-thief/game/tile"

type (
	// Status is the lifecycle state of a room.
	Status string

	// Word is a claimed word owned by a player.  A word exists only while
	// owned; a successful steal destroys it and creates a new word with a
	// superset of its tiles.
	Word struct {
		ID string `json:"id"`
		// Text is the claimed spelling.
		Text string `json:"text"`
		// TileIDs is the exact multiset of tiles consumed, ordered to spell Text.
		TileIDs   []tile.ID `json:"tileIds"`
		OwnerID   string    `json:"ownerId"`
		CreatedAt int64     `json:"createdAt"`
	}

	// PreStealEntry is an armed auto-claim owned by a player.
	PreStealEntry struct {
		ID string `json:"id"`
		// TriggerLetters is a multiset sub-word that must fit the center for the entry to arm.
		TriggerLetters string `json:"triggerLetters"`
		// ClaimWord is the word to auto-claim when the entry arms.
		ClaimWord string `json:"claimWord"`
		CreatedAt int64  `json:"createdAt"`
	}

	// ClaimWindow is the exclusive interval during which one player may submit a claim.
	ClaimWindow struct {
		PlayerID string `json:"playerId"`
		EndsAt   int64  `json:"endsAt"`
	}

	// PendingFlip is the visual-reveal interval during which no claim or second flip may start.
	PendingFlip struct {
		PlayerID  string `json:"playerId"`
		StartedAt int64  `json:"startedAt"`
		RevealsAt int64  `json:"revealsAt"`
	}

	// ClaimEventMeta annotates the last successful claim for the log and UI.
	ClaimEventMeta struct {
		EventID        string      `json:"eventId"`
		WordID         string      `json:"wordId"`
		ClaimantID     string      `json:"claimantId"`
		ReplacedWordID string      `json:"replacedWordId,omitempty"`
		Source         ClaimSource `json:"source"`
		// MovedToBottomOfPreStealPrecedence is set when a fired pre-steal demoted its owner.
		MovedToBottomOfPreStealPrecedence bool `json:"movedToBottomOfPreStealPrecedence,omitempty"`
	}

	// ClaimSource tells whether a claim was typed or fired by a pre-steal entry.
	ClaimSource string

	// PlayerState is a player as seen in snapshots and projections.
	PlayerState struct {
		ID        string          `json:"id"`
		Name      string          `json:"name"`
		Connected bool            `json:"connected"`
		Words     []Word          `json:"words"`
		// PreStealEntries is emptied in projections for viewers other than
		// the owner, unless the viewer is a spectator or the game has ended.
		PreStealEntries []PreStealEntry `json:"preStealEntries"`
		// Score is derived: the total tile count of the player's words.
		Score int `json:"score"`
	}
)

const (
	// StatusLobby is a room waiting for its host to start the game.
	StatusLobby Status = "lobby"
	// StatusInGame is a room with a running game.
	StatusInGame Status = "in-game"
	// StatusEnded is a terminal room whose game finished.
	StatusEnded Status = "ended"
)

const (
	// SourceManual marks a claim typed by the claimant.
	SourceManual ClaimSource = "manual"
	// SourcePreSteal marks a claim fired by pre-steal arbitration.
	SourcePreSteal ClaimSource = "pre-steal"
)

const (
	// DefaultFlipRevealMs is how long a flipped tile stays hidden before it is revealed.
	DefaultFlipRevealMs = 1000
	// EndCountdownMs is the fixed countdown after the bag first empties.
	EndCountdownMs = 60 * 1000
	// MaxPlayers is the most players a room can hold.
	MaxPlayers = 8
	// MinClaimTimerSec and MaxClaimTimerSec bound the claim window length.
	MinClaimTimerSec = 1
	MaxClaimTimerSec = 10
	// MinFlipTimerSec and MaxFlipTimerSec bound the idle auto-flip interval.
	MinFlipTimerSec = 1
	MaxFlipTimerSec = 60
)

// Score derives a player's score from the tiles of their words.
func Score(words []Word) int {
	score := 0
	for _, w := range words {
		score += len(w.TileIDs)
	}
	return score
}
