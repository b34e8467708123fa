// Package view contains the client-facing projections of rooms, games, and
// practice sessions that the server sends over sockets.
package view

import (
	"github.com/handorff/anagram-thief/game"
	"github.com/handorff/anagram-thief/game/puzzle"
	"github.com/handorff/anagram-thief/game/replay"
	"github.com/handorff/anagram-thief/game/tile"
)

type (
	// RoomSummary is a room as listed in the public lobby.
	RoomSummary struct {
		ID             string      `json:"id"`
		Name           string      `json:"name"`
		IsPublic       bool        `json:"isPublic"`
		HasCode        bool        `json:"hasCode"`
		Status         game.Status `json:"status"`
		PlayerCount    int         `json:"playerCount"`
		MaxPlayers     int         `json:"maxPlayers"`
		SpectatorCount int         `json:"spectatorCount"`
	}

	// RoomSettings are the host-chosen settings of a room.  Code is only
	// read from create requests; projections never echo it.
	RoomSettings struct {
		Name              string `json:"name"`
		IsPublic          bool   `json:"isPublic"`
		Code              string `json:"code,omitempty"`
		MaxPlayers        int    `json:"maxPlayers"`
		FlipTimerEnabled  bool   `json:"flipTimerEnabled"`
		FlipTimerSeconds  int    `json:"flipTimerSeconds"`
		ClaimTimerSeconds int    `json:"claimTimerSeconds"`
		PreStealEnabled   bool   `json:"preStealEnabled"`
	}

	// Game is the per-viewer projection of a room.  Fields a viewer may not
	// see (other players' pre-steal entries, bag tile ids, the replay of a
	// running game) are blanked or summarized before sending.
	Game struct {
		RoomID          string               `json:"roomId"`
		Name            string               `json:"name"`
		Status          game.Status          `json:"status"`
		HostID          string               `json:"hostId"`
		Settings        RoomSettings         `json:"settings"`
		Players         []game.PlayerState   `json:"players"`
		Spectators      []string             `json:"spectators,omitempty"`
		CenterTiles     []tile.Tile          `json:"centerTiles,omitempty"`
		BagCount        int                  `json:"bagCount"`
		BagLetterCounts map[tile.Letter]int  `json:"bagLetterCounts,omitempty"`
		TurnPlayerID    string               `json:"turnPlayerId,omitempty"`
		ClaimWindow     *game.ClaimWindow    `json:"claimWindow,omitempty"`
		ClaimCooldowns  map[string]int64     `json:"claimCooldowns,omitempty"`
		PendingFlip     *game.PendingFlip    `json:"pendingFlip,omitempty"`
		PreStealEnabled bool                 `json:"preStealEnabled"`
		PrecedenceOrder []string             `json:"precedenceOrder,omitempty"`
		LastClaimEvent  *game.ClaimEventMeta `json:"lastClaimEvent,omitempty"`
		EndTimerEndsAt  int64                `json:"endTimerEndsAt,omitempty"`
		Replay          *replay.Replay       `json:"replay,omitempty"`
	}

	// Practice is the state of a solo practice session.
	Practice struct {
		Puzzle       *puzzle.Puzzle `json:"puzzle,omitempty"`
		Difficulty   int            `json:"difficulty"`
		Streak       int            `json:"streak"`
		TimerEnabled bool           `json:"timerEnabled"`
		TimerSeconds int            `json:"timerSeconds"`
		StartedAt    int64          `json:"startedAt,omitempty"`
		LastResult   *puzzle.Result `json:"lastResult,omitempty"`
	}

	// Self identifies a session to its own client.
	Self struct {
		PlayerID     string `json:"playerId"`
		Name         string `json:"name"`
		RoomID       string `json:"roomId,omitempty"`
		SessionToken string `json:"sessionToken,omitempty"`
	}
)
