// Package game controls the logic to run game rooms.
package game

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/handorff/anagram-thief/game"
	"github.com/handorff/anagram-thief/game/message"
	"github.com/handorff/anagram-thief/game/replay"
	"github.com/handorff/anagram-thief/game/tile"
	"github.com/handorff/anagram-thief/game/view"
	"github.com/handorff/anagram-thief/game/word"
	"github.com/handorff/anagram-thief/server/game/player"
	"github.com/handorff/anagram-thief/server/log"
)

type (
	// Room runs one game room: lobby membership, the in-game state machine,
	// timers, and per-viewer projections.  All state is owned by the single
	// goroutine started by Run; timers post back into that goroutine.
	Room struct {
		id              string
		createdAt       int64
		settings        view.RoomSettings
		codeHash        []byte
		hostID          string
		status          game.Status
		players         map[string]*player.Player
		playerOrder     []string
		spectators      map[string]string
		bag             *tile.Bag
		center          []tile.Tile
		tileLetters     map[tile.ID]tile.Letter
		totalTiles      int
		turnOrder       []string
		turnIndex       int
		lastClaimAt     int64
		endTimerEndsAt  int64
		claimWindow     *game.ClaimWindow
		claimCooldowns  map[string]int64
		pendingFlip     *game.PendingFlip
		precedenceOrder []string
		lastClaimEvent  *game.ClaimEventMeta
		recorder        replay.Recorder
		scheduler       *Scheduler
		tokens          map[timerSlot]int64
		timerC          chan timerFire
		nextID          int
		deleted         bool
		Config
	}

	// Config contains the properties to create similar rooms.
	Config struct {
		// Debug is a flag that causes the room to log the types of messages that are read.
		Debug bool
		// Log is used to log errors and other information.
		Log log.Logger
		// TimeFunc is a function which should supply the current time in milliseconds since the unix epoch.
		TimeFunc func() int64
		// Dictionary validates claimed words.
		Dictionary *word.Dictionary
		// FlipRevealMs is how long a flipped tile stays hidden.  Defaults to game.DefaultFlipRevealMs.
		FlipRevealMs int64
		// ShuffleTilesFunc is used to shuffle the bag when the game starts.
		ShuffleTilesFunc func(tiles []tile.Tile)
		// ShufflePlayersFunc is used to shuffle the turn order when the game starts.
		ShufflePlayersFunc func(playerIDs []string)
	}

	// messageHandler is a function which handles message.Messages, returning responses through send.
	messageHandler func(m message.Message, send messageSender) error

	// messageSender is a function that sends a message somewhere.
	messageSender func(m message.Message)
)

const (
	// gameWarningNotInProgress is a shared warning to alert users of an invalid room state.
	gameWarningNotInProgress gameWarning = "game has not started or is finished"
	// gameWarningBusy rejects commands that need an idle board.
	gameWarningBusy gameWarning = "a flip or claim is already in progress"
)

// NewRoom creates a room in the lobby state.
// codeHash is the bcrypt hash of the room's join code, or nil for an open room.
func (cfg Config) NewRoom(id string, settings view.RoomSettings, codeHash []byte) (*Room, error) {
	if err := cfg.validate(id); err != nil {
		return nil, fmt.Errorf("creating room: validation: %w", err)
	}
	if err := validateSettings(settings); err != nil {
		return nil, fmt.Errorf("creating room: %w", err)
	}
	if cfg.FlipRevealMs <= 0 {
		cfg.FlipRevealMs = game.DefaultFlipRevealMs
	}
	settings.Code = ""
	r := Room{
		id:          id,
		createdAt:   cfg.TimeFunc(),
		settings:    settings,
		codeHash:    codeHash,
		status:      game.StatusLobby,
		players:     make(map[string]*player.Player),
		spectators:  make(map[string]string),
		tileLetters: make(map[tile.ID]tile.Letter),
		scheduler:   NewScheduler(),
		tokens:      make(map[timerSlot]int64),
		timerC:      make(chan timerFire, 64),
		Config:      cfg,
	}
	return &r, nil
}

// validate ensures the configuration has no errors.
func (cfg Config) validate(id string) error {
	switch {
	case len(id) == 0:
		return fmt.Errorf("id required")
	case cfg.Log == nil:
		return fmt.Errorf("log required")
	case cfg.TimeFunc == nil:
		return fmt.Errorf("time func required")
	case cfg.Dictionary == nil:
		return fmt.Errorf("dictionary required")
	case cfg.ShuffleTilesFunc == nil:
		return fmt.Errorf("function to shuffle tiles required")
	case cfg.ShufflePlayersFunc == nil:
		return fmt.Errorf("function to shuffle player turn order required")
	}
	return nil
}

// validateSettings ensures the host-chosen room settings are in range.
func validateSettings(s view.RoomSettings) error {
	switch {
	case len(s.Name) == 0:
		return fmt.Errorf("room name required")
	case s.MaxPlayers < 2 || s.MaxPlayers > game.MaxPlayers:
		return fmt.Errorf("max players must be between 2 and %v", game.MaxPlayers)
	case s.FlipTimerEnabled && (s.FlipTimerSeconds < game.MinFlipTimerSec || s.FlipTimerSeconds > game.MaxFlipTimerSec):
		return fmt.Errorf("flip timer must be between %v and %v seconds", game.MinFlipTimerSec, game.MaxFlipTimerSec)
	case s.ClaimTimerSeconds < game.MinClaimTimerSec || s.ClaimTimerSeconds > game.MaxClaimTimerSec:
		return fmt.Errorf("claim timer must be between %v and %v seconds", game.MinClaimTimerSec, game.MaxClaimTimerSec)
	}
	return nil
}

// Run runs the room asynchronously until the context is closed or the room empties.
func (r *Room) Run(ctx context.Context, in <-chan message.Message, out chan<- message.Message) {
	send := r.sendMessage(out)
	messageHandlers := map[message.Type]messageHandler{
		message.JoinRoom:          r.handleJoin,
		message.SpectateRoom:      r.handleSpectate,
		message.LeaveRoom:         r.handleLeave,
		message.SocketClose:       r.handleDisconnect,
		message.StartGame:         r.handleStart,
		message.GameFlip:          r.handleFlip,
		message.GameClaimIntent:   r.handleClaimIntent,
		message.GameClaim:         r.handleClaim,
		message.PreStealAdd:       r.handlePreStealAdd,
		message.PreStealRemove:    r.handlePreStealRemove,
		message.PreStealReorder:   r.handlePreStealReorder,
		message.AnalyzeReplayStep: r.handleAnalyzeStep,
	}
	go func() {
		defer r.scheduler.Stop()
		for { // BLOCKING
			select {
			case <-ctx.Done():
				return
			case m, ok := <-in:
				if !ok {
					return
				}
				r.handleMessage(m, send, messageHandlers)
				if r.deleted {
					m2 := message.Message{
						Type:   message.PlayerRemove,
						RoomID: r.id,
					}
					send(m2)
					return
				}
			case f := <-r.timerC:
				r.handleTimerFire(f, send)
			}
		}
	}()
}

// sendMessage creates a messageSender that adds the room id to the message before sending it on the out channel.
func (r *Room) sendMessage(out chan<- message.Message) messageSender {
	return func(m message.Message) {
		if len(m.RoomID) == 0 {
			m.RoomID = r.id
		}
		message.Send(m, out, r.Debug, r.Log)
	}
}

// handleMessage handles the message with the appropriate message handler.
func (r *Room) handleMessage(m message.Message, send messageSender, messageHandlers map[message.Type]messageHandler) {
	if r.Debug {
		r.Log.Printf("room %v reading message with type %v", r.id, m.Type)
	}
	var err error
	mh, ok := messageHandlers[m.Type]
	switch {
	case !ok:
		err = fmt.Errorf("room does not know how to handle MessageType %v", m.Type)
	case !r.hasViewer(m.PlayerID) && m.Type != message.JoinRoom && m.Type != message.SpectateRoom:
		err = fmt.Errorf("room does not have player with id '%v'", m.PlayerID)
	default:
		err = mh(m, send)
	}
	switch {
	case err == nil:
	case errors.As(err, new(gameWarning)):
		m2 := message.Message{
			Type:     message.SocketWarning,
			PlayerID: m.PlayerID,
			Info:     err.Error(),
		}
		send(m2)
		return
	case errors.Is(err, errInvariantViolated):
		r.Log.Printf("room %v error: %v", r.id, err)
		r.failGame(send)
	default:
		r.Log.Printf("room %v error: %v", r.id, err)
		m2 := message.Message{
			Type:     message.SocketError,
			PlayerID: m.PlayerID,
			Info:     err.Error(),
		}
		send(m2)
		return
	}
	if m.Type != message.AnalyzeReplayStep {
		r.broadcast(send)
	}
}

// hasViewer reports whether the id belongs to a player or spectator of the room.
func (r *Room) hasViewer(id string) bool {
	if _, ok := r.players[id]; ok {
		return true
	}
	_, ok := r.spectators[id]
	return ok
}

// handleJoin adds the player from the message to the room, or re-attaches
// a disconnected player with the same name.
func (r *Room) handleJoin(m message.Message, send messageSender) error {
	if p, ok := r.players[m.PlayerID]; ok {
		p.Connected = true
		return nil
	}
	if len(r.codeHash) != 0 {
		if err := bcrypt.CompareHashAndPassword(r.codeHash, []byte(m.Code)); err != nil {
			return gameWarning("wrong join code for room")
		}
	}
	for _, p := range r.players {
		if p.Name != m.Name {
			continue
		}
		if p.Connected {
			return gameWarning("a player with that name is already in the room")
		}
		r.adoptSeat(p, m.PlayerID)
		if r.status == game.StatusInGame {
			r.record(replay.KindPlayerJoined)
		}
		r.sendSelf(p.ID, send)
		return nil
	}
	switch {
	case r.status == game.StatusEnded:
		return gameWarning("cannot join a finished game")
	case len(r.players) >= r.settings.MaxPlayers:
		return gameWarning("no room for another player")
	}
	p, err := player.New(m.PlayerID, m.Name)
	if err != nil {
		return err
	}
	r.players[p.ID] = p
	r.playerOrder = append(r.playerOrder, p.ID)
	if len(r.hostID) == 0 {
		r.hostID = p.ID
	}
	if r.status == game.StatusInGame {
		r.turnOrder = append(r.turnOrder, p.ID)
		r.precedenceOrder = append(r.precedenceOrder, p.ID)
		r.record(replay.KindPlayerJoined)
	}
	r.sendSelf(p.ID, send)
	return nil
}

// handleSpectate adds a watcher to the room.
func (r *Room) handleSpectate(m message.Message, send messageSender) error {
	if _, ok := r.players[m.PlayerID]; ok {
		return gameWarning("players cannot also spectate their room")
	}
	r.spectators[m.PlayerID] = m.Name
	r.sendSelf(m.PlayerID, send)
	return nil
}

// handleDisconnect marks a player as disconnected without freeing the seat.
func (r *Room) handleDisconnect(m message.Message, send messageSender) error {
	if p, ok := r.players[m.PlayerID]; ok {
		p.Connected = false
		if r.status == game.StatusInGame {
			r.record(replay.KindPlayerLeft)
		}
		r.checkEmpty()
		return nil
	}
	delete(r.spectators, m.PlayerID)
	r.checkEmpty()
	return nil
}

// handleLeave removes the player or spectator from the room.
// A player leaving a running game only vacates the seat; their words stay on
// the table so the tiles stay accounted for.
func (r *Room) handleLeave(m message.Message, send messageSender) error {
	if _, ok := r.spectators[m.PlayerID]; ok {
		delete(r.spectators, m.PlayerID)
		r.checkEmpty()
		return nil
	}
	p, ok := r.players[m.PlayerID]
	if !ok {
		return nil
	}
	if r.status == game.StatusInGame {
		p.Connected = false
		r.record(replay.KindPlayerLeft)
		r.checkEmpty()
		return nil
	}
	delete(r.players, m.PlayerID)
	r.playerOrder = removeID(r.playerOrder, m.PlayerID)
	if r.hostID == m.PlayerID && len(r.playerOrder) > 0 {
		r.hostID = r.playerOrder[0]
	}
	r.checkEmpty()
	return nil
}

// adoptSeat re-keys a disconnected player's seat to a new session id so a
// returning player keeps their words and position.
func (r *Room) adoptSeat(p *player.Player, newID string) {
	oldID := p.ID
	delete(r.players, oldID)
	p.ID = newID
	p.Connected = true
	r.players[newID] = p
	replaceID(r.playerOrder, oldID, newID)
	replaceID(r.turnOrder, oldID, newID)
	replaceID(r.precedenceOrder, oldID, newID)
	if endsAt, ok := r.claimCooldowns[oldID]; ok {
		delete(r.claimCooldowns, oldID)
		r.claimCooldowns[newID] = endsAt
	}
	for i := range p.Words {
		p.Words[i].OwnerID = newID
	}
	if r.hostID == oldID {
		r.hostID = newID
	}
	if r.claimWindow != nil && r.claimWindow.PlayerID == oldID {
		r.claimWindow.PlayerID = newID
	}
	if r.pendingFlip != nil && r.pendingFlip.PlayerID == oldID {
		r.pendingFlip.PlayerID = newID
	}
}

// checkEmpty deletes the room when no connected participant remains.
func (r *Room) checkEmpty() {
	if len(r.spectators) > 0 {
		return
	}
	for _, p := range r.players {
		if p.Connected {
			return
		}
	}
	r.deleted = true
}

// handleStart moves the room in-game, building the bag and turn order.
func (r *Room) handleStart(m message.Message, send messageSender) error {
	switch {
	case m.PlayerID != r.hostID:
		return gameWarning("only the host can start the game")
	case r.status != game.StatusLobby:
		return gameWarning("the game has already been started")
	case len(r.players) < 2:
		return gameWarning("at least two players are needed to start")
	}
	bag, err := tile.NewBag(r.ShuffleTilesFunc)
	if err != nil {
		return fmt.Errorf("building bag: %w", err)
	}
	r.bag = bag
	r.totalTiles = bag.Count()
	r.center = nil
	r.turnOrder = make([]string, len(r.playerOrder))
	copy(r.turnOrder, r.playerOrder)
	r.ShufflePlayersFunc(r.turnOrder)
	r.turnIndex = 0
	r.precedenceOrder = make([]string, len(r.turnOrder))
	copy(r.precedenceOrder, r.turnOrder)
	r.claimCooldowns = make(map[string]int64)
	r.status = game.StatusInGame
	r.record(replay.KindGameStart)
	r.scheduleAutoFlip()
	return nil
}

// sendSelf tells a session who it is in the room.
func (r *Room) sendSelf(playerID string, send messageSender) {
	name := r.spectators[playerID]
	if p, ok := r.players[playerID]; ok {
		name = p.Name
	}
	m := message.Message{
		Type:     message.SessionSelf,
		PlayerID: playerID,
		Self: &view.Self{
			PlayerID: playerID,
			Name:     name,
			RoomID:   r.id,
		},
	}
	send(m)
}

// turnPlayerID is the id of the player whose turn it is to flip.
func (r *Room) turnPlayerID() string {
	if len(r.turnOrder) == 0 {
		return ""
	}
	return r.turnOrder[r.turnIndex%len(r.turnOrder)]
}

// nextIDString mints a short unique id with the prefix.
func (r *Room) nextIDString(prefix string) string {
	r.nextID++
	return fmt.Sprintf("%v%v", prefix, r.nextID)
}

// removeID removes the first occurrence of id from ids.
func removeID(ids []string, id string) []string {
	for i, id2 := range ids {
		if id2 == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

// replaceID swaps old for new in place.
func replaceID(ids []string, oldID, newID string) {
	for i, id := range ids {
		if id == oldID {
			ids[i] = newID
		}
	}
}
