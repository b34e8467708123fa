// Package message contains structures to pass between sockets, the lobby,
// and game rooms.
package message

import (
	"encoding/json"

	"github.com/handorff/anagram-thief/game"
	"github.com/handorff/anagram-thief/game/puzzle"
	"github.com/handorff/anagram-thief/game/replay"
	"github.com/handorff/anagram-thief/game/view"
)

type (
	// Type represents what the purpose of a message is.
	Type int

	// Message contains information to or from a socket for a room/lobby.
	Message struct {
		// Type is the purpose of the message.
		Type Type `json:"type"`
		// Info is a message to show to the player.
		Info string `json:"info,omitempty"`
		// RoomID is the room a command targets.
		RoomID string `json:"roomId,omitempty"`
		// Name is the display name of the joining player or the created room.
		Name string `json:"name,omitempty"`
		// Code is the join code supplied with a room:join request.
		Code string `json:"code,omitempty"`
		// Word is a claim or practice solve attempt.
		Word string `json:"word,omitempty"`
		// Entry holds the trigger letters and claim word for a pre-steal add.
		Entry *game.PreStealEntry `json:"entry,omitempty"`
		// EntryID identifies a pre-steal entry to remove.
		EntryID string `json:"entryId,omitempty"`
		// EntryIDs is the requested pre-steal entry order for a reorder.
		EntryIDs []string `json:"entryIds,omitempty"`
		// Difficulty selects the practice puzzle difficulty.
		Difficulty int `json:"difficulty,omitempty"`
		// TimerSeconds is the practice timer length.  Zero disables the timer.
		TimerSeconds int `json:"timerSeconds,omitempty"`
		// StepIndex is the replay step to analyze.  A pointer so step 0 is distinguishable from absent.
		StepIndex *int `json:"stepIndex,omitempty"`
		// ReplayFile is an imported replay document to analyze.
		ReplayFile json.RawMessage `json:"replayFile,omitempty"`
		// Puzzle is a custom practice puzzle to validate.
		Puzzle *puzzle.Puzzle `json:"puzzle,omitempty"`
		// Settings holds the room configuration for a room:create request.
		Settings *view.RoomSettings `json:"settings,omitempty"`
		// Rooms contains the summaries of the public rooms in the lobby.
		Rooms []view.RoomSummary `json:"rooms,omitempty"`
		// Game is the viewer projection of the room the player is in.
		Game *view.Game `json:"game,omitempty"`
		// Practice is the state of the player's practice session.
		Practice *view.Practice `json:"practice,omitempty"`
		// Analysis is the result of a replay step analysis.
		Analysis *replay.AnalysisResult `json:"analysis,omitempty"`
		// Self identifies the session to its own client.
		Self *view.Self `json:"self,omitempty"`
		// PlayerID is the session id of the player the message is to/from.
		PlayerID string `json:"-"`
		// Addr is the socket remote address text the message is from.
		Addr Addr `json:"-"`
	}

	// Addr identifies the source of a message.
	Addr string
)

const (
	_ Type = iota
	// CreateRoom is a Type that users send to open a new room.
	CreateRoom
	// JoinRoom is a Type that users send to join a room as a player or the server sends to have the user load a room.
	JoinRoom
	// SpectateRoom is a Type that users send to watch a room without playing.
	SpectateRoom
	// LeaveRoom is a Type that users and servers send to indicate that a user can no longer be in the current room.
	LeaveRoom
	// StartGame is a Type that the host sends to move a lobby room in-game.
	StartGame
	// ListRooms is a Type that users send to request the public room summaries.
	ListRooms
	// GameFlip is a Type that the turn player sends to flip the next tile.
	GameFlip
	// GameClaimIntent is a Type that users send to open an exclusive claim window.
	GameClaimIntent
	// GameClaim is a Type that users send to submit a word during their claim window.
	GameClaim
	// PreStealAdd is a Type that users send to arm a new pre-steal entry.
	PreStealAdd
	// PreStealRemove is a Type that users send to disarm a pre-steal entry.
	PreStealRemove
	// PreStealReorder is a Type that users send to reprioritize their pre-steal entries.
	PreStealReorder
	// PracticeNewPuzzle is a Type that users send to deal a practice puzzle.
	PracticeNewPuzzle
	// PracticeSolve is a Type that users send to submit a practice answer.
	PracticeSolve
	// PracticeValidateCustom is a Type that users send to check a hand-built puzzle.
	PracticeValidateCustom
	// PracticeConfigure is a Type that users send to change practice difficulty and timer settings.
	PracticeConfigure
	// AnalyzeReplayStep is a Type that users send to analyze a step of their finished game's replay.
	AnalyzeReplayStep
	// AnalyzeImportedStep is a Type that users send to analyze a step of an imported replay file.
	AnalyzeImportedStep
	// RoomList is a Type that the server sends to report the public rooms in the lobby.
	RoomList
	// RoomState is a Type that the server sends when a lobby room changes.
	RoomState
	// GameState is a Type that the server sends with a viewer projection after game changes.
	GameState
	// PracticeState is a Type that the server sends with the user's practice session.
	PracticeState
	// SessionSelf is a Type that the server sends to tell a session who it is.
	SessionSelf
	// SocketWarning is a Type that servers send to inform users that a request is invalid.
	SocketWarning
	// SocketError is a Type that servers send to users to report an unexpected state.
	SocketError
	// SocketHTTPPing is a Type the server sends to the user to request a http request to the site to keep it active.  Some environments shut down after a period of HTTP inactivity has passed.
	SocketHTTPPing
	// SocketAdd is used to add a socket for a player.
	SocketAdd
	// SocketClose is sent when the socket is closed.
	SocketClose
	// PlayerRemove is a Type that gets sent from the lobby to inform that all sockets should be removed.
	PlayerRemove // keep last for tests
)
