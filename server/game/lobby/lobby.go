// Package lobby handles sessions connecting to rooms and communication between rooms and sessions.
package lobby

import (
	"context"
	"fmt"
	"net/http"
	"sort"

	"golang.org/x/crypto/bcrypt"

	"github.com/handorff/anagram-thief/game/message"
	"github.com/handorff/anagram-thief/game/puzzle"
	"github.com/handorff/anagram-thief/game/replay"
	"github.com/handorff/anagram-thief/game/view"
	gameController "github.com/handorff/anagram-thief/server/game"
	"github.com/handorff/anagram-thief/server/game/socket"
	"github.com/handorff/anagram-thief/server/log"
)

type (
	// Lobby is the place sessions can create, join, and watch game rooms.
	// It also owns the per-session practice state and replay imports.
	Lobby struct {
		debug          bool
		log            log.Logger
		timeFunc       func() int64
		upgrader       socket.Upgrader
		maxRooms       int
		maxSockets     int
		socketCfg      socket.Config
		roomCfg        gameController.Config
		puzzles        *puzzle.Engine
		sockets        map[string]messageHandler
		rooms          map[string]roomMessageHandler
		playerRooms    map[string]string
		practices      map[string]*practiceSession
		addSockets     chan playerSocket
		socketMessages chan message.Message
		roomMessages   chan message.Message
		nextRoomID     int
	}

	// Config contains the properties to create a lobby.
	Config struct {
		// Debug is a flag that causes the lobby to log the types of messages that are read.
		Debug bool
		// Log is used to log errors and other information.
		Log log.Logger
		// TimeFunc is a function which should supply the current time in milliseconds since the unix epoch.
		TimeFunc func() int64
		// MaxRooms is the maximum number of rooms the lobby supports.
		MaxRooms int
		// MaxSockets is the maximum number of sockets the lobby supports.
		MaxSockets int
		// RoomCfg is used to create new rooms.
		RoomCfg gameController.Config
		// SocketCfg is used to create new sockets.
		SocketCfg socket.Config
		// PuzzleCfg is used to create the practice puzzle engine.
		PuzzleCfg puzzle.Config
	}

	// playerSocket is used to add sessions from http requests.
	playerSocket struct {
		playerID string
		name     string
		http.ResponseWriter
		*http.Request
		result chan<- error
	}

	// messageHandler is a channel that can write messages and be cancelled.
	messageHandler struct {
		writeMessages chan<- message.Message
		context.CancelFunc
	}

	// roomMessageHandler is a messageHandler with the room's public summary.
	roomMessageHandler struct {
		summary view.RoomSummary
		messageHandler
	}

	// practiceSession is the server-side state of one session's practice mode.
	practiceSession struct {
		difficulty   int
		streak       int
		timerEnabled bool
		timerSeconds int
		puzzle       *puzzle.Puzzle
		startedAt    int64
		lastResult   *puzzle.Result
	}
)

const (
	// roomInChanSize and socketInChanSize buffer writes into room and socket
	// goroutines so the lobby goroutine does not wait on them.
	roomInChanSize   = 64
	socketInChanSize = 16
	// defaultPracticeDifficulty is used before a session configures practice.
	defaultPracticeDifficulty = 1
)

// NewLobby creates a lobby for rooms and practice sessions.
func (cfg Config) NewLobby() (*Lobby, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("creating lobby: validation: %w", err)
	}
	puzzles, err := cfg.PuzzleCfg.NewEngine()
	if err != nil {
		return nil, fmt.Errorf("creating lobby: %w", err)
	}
	l := Lobby{
		debug:          cfg.Debug,
		log:            cfg.Log,
		timeFunc:       cfg.TimeFunc,
		upgrader:       socket.NewGorillaUpgrader(),
		maxRooms:       cfg.MaxRooms,
		maxSockets:     cfg.MaxSockets,
		socketCfg:      cfg.SocketCfg,
		roomCfg:        cfg.RoomCfg,
		puzzles:        puzzles,
		sockets:        make(map[string]messageHandler, cfg.MaxSockets),
		rooms:          make(map[string]roomMessageHandler, cfg.MaxRooms),
		playerRooms:    make(map[string]string, cfg.MaxSockets),
		practices:      make(map[string]*practiceSession, cfg.MaxSockets),
		addSockets:     make(chan playerSocket),
		socketMessages: make(chan message.Message),
		roomMessages:   make(chan message.Message),
	}
	return &l, nil
}

// validate ensures the configuration has no errors.
func (cfg Config) validate() error {
	switch {
	case cfg.Log == nil:
		return fmt.Errorf("log required")
	case cfg.TimeFunc == nil:
		return fmt.Errorf("time func required")
	case cfg.MaxRooms <= 0:
		return fmt.Errorf("must allow at least one room")
	case cfg.MaxSockets <= 0:
		return fmt.Errorf("must allow at least one socket")
	}
	return nil
}

// AddUser opens a websocket for the session and adds it to the lobby.
func (l *Lobby) AddUser(playerID, name string, w http.ResponseWriter, r *http.Request) error {
	result := make(chan error)
	ps := playerSocket{
		playerID:       playerID,
		name:           name,
		ResponseWriter: w,
		Request:        r,
		result:         result,
	}
	l.addSockets <- ps
	if err := <-result; err != nil {
		return err
	}
	return nil
}

// Run runs the lobby until the context is closed.
func (l *Lobby) Run(ctx context.Context) {
	for { // BLOCKING
		select {
		case <-ctx.Done():
			return
		case ps := <-l.addSockets:
			l.addSocket(ctx, ps)
		case m := <-l.socketMessages:
			l.handleSocketMessage(ctx, m)
		case m := <-l.roomMessages:
			l.handleRoomMessage(m)
		}
	}
}

// handleSocketMessage sends the message from the socket to its room or performs special handling.
func (l *Lobby) handleSocketMessage(ctx context.Context, m message.Message) {
	if l.debug {
		l.log.Printf("lobby reading socket message with type %v", m.Type)
	}
	switch m.Type {
	case message.CreateRoom:
		l.createRoom(ctx, m)
	case message.ListRooms:
		l.sendSocketMessage(l.roomListMessage(m.PlayerID))
	case message.PracticeConfigure, message.PracticeNewPuzzle, message.PracticeSolve, message.PracticeValidateCustom:
		l.handlePractice(m)
	case message.AnalyzeImportedStep:
		l.handleImportedAnalysis(m)
	case message.SocketClose:
		l.handleSocketClose(m)
	case message.LeaveRoom:
		l.sendRoomMessage(m)
		delete(l.playerRooms, m.PlayerID)
	default:
		l.sendRoomMessage(m)
	}
}

// handleRoomMessage sends the message from the room to the socket for the
// player or performs special handling.
func (l *Lobby) handleRoomMessage(m message.Message) {
	if l.debug {
		l.log.Printf("lobby reading room message with type %v", m.Type)
	}
	switch {
	case m.Type == message.RoomList && len(m.PlayerID) == 0:
		l.handleRoomSummaryChanged(m)
	case m.Type == message.PlayerRemove && len(m.PlayerID) == 0:
		l.removeRoom(m.RoomID)
	default:
		if m.Type == message.SessionSelf {
			l.playerRooms[m.PlayerID] = m.RoomID
		}
		l.sendSocketMessage(m)
	}
}

// createRoom creates and adds a room to the lobby if there is space.
// The session sending the message also joins it as its host.
func (l *Lobby) createRoom(ctx context.Context, m message.Message) {
	var err error
	defer func() {
		if err != nil {
			l.sendSocketMessage(message.Message{
				Type:     message.SocketWarning,
				PlayerID: m.PlayerID,
				Info:     err.Error(),
			})
		}
	}()
	switch {
	case m.Settings == nil:
		err = fmt.Errorf("room settings required")
		return
	case len(l.rooms) >= l.maxRooms:
		err = fmt.Errorf("the maximum number of rooms have already been created (%v)", l.maxRooms)
		return
	}
	var codeHash []byte
	if len(m.Settings.Code) != 0 {
		codeHash, err = bcrypt.GenerateFromPassword([]byte(m.Settings.Code), bcrypt.DefaultCost)
		if err != nil {
			err = fmt.Errorf("hashing room code: %w", err)
			return
		}
	}
	l.nextRoomID++
	id := fmt.Sprintf("r%v", l.nextRoomID)
	room, err := l.roomCfg.NewRoom(id, *m.Settings, codeHash)
	if err != nil {
		return
	}
	roomCtx, cancelFunc := context.WithCancel(ctx)
	writeMessages := make(chan message.Message, roomInChanSize)
	room.Run(roomCtx, writeMessages, l.roomMessages)
	l.rooms[id] = roomMessageHandler{
		summary: room.Summary(),
		messageHandler: messageHandler{
			writeMessages: writeMessages,
			CancelFunc:    cancelFunc,
		},
	}
	writeMessages <- message.Message{ // the creator joins the new room
		Type:     message.JoinRoom,
		PlayerID: m.PlayerID,
		Name:     m.Name,
		Code:     m.Settings.Code,
	}
	l.roomListChanged()
}

// removeRoom removes a room from the messageHandlers.
func (l *Lobby) removeRoom(id string) {
	rmh, ok := l.rooms[id]
	if !ok {
		l.log.Printf("no room to remove with id %v", id)
		return
	}
	delete(l.rooms, id)
	rmh.CancelFunc()
	for pid, roomID := range l.playerRooms {
		if roomID == id {
			delete(l.playerRooms, pid)
		}
	}
	l.roomListChanged()
}

// addSocket upgrades the playerSocket's request to a websocket and adds it to the socket messageHandlers.
func (l *Lobby) addSocket(ctx context.Context, ps playerSocket) {
	conn, err := l.upgrader.Upgrade(ps.ResponseWriter, ps.Request)
	defer func() {
		if err != nil && conn != nil {
			socket.CloseConn(conn, l.log, err.Error())
		}
		ps.result <- err
	}()
	if err != nil {
		err = fmt.Errorf("upgrading to websocket connection: %w", err)
		return
	}
	if len(l.sockets) >= l.maxSockets {
		err = fmt.Errorf("lobby full")
		return
	}
	s, err := l.socketCfg.NewSocket(conn, ps.playerID)
	if err != nil {
		err = fmt.Errorf("creating socket: %w", err)
		return
	}
	socketCtx, cancelFunc := context.WithCancel(ctx)
	writeMessages := make(chan message.Message, socketInChanSize)
	if err = s.Run(socketCtx, writeMessages, l.socketMessages); err != nil {
		cancelFunc()
		err = fmt.Errorf("running socket: %w", err)
		return
	}
	if _, ok := l.sockets[ps.playerID]; ok {
		l.log.Printf("socket for %v already exists, replacing", ps.playerID)
		l.removeSocket(ps.playerID)
	}
	l.sockets[ps.playerID] = messageHandler{
		writeMessages: writeMessages,
		CancelFunc:    cancelFunc,
	}
	writeMessages <- message.Message{
		Type:     message.SessionSelf,
		PlayerID: ps.playerID,
		Self: &view.Self{
			PlayerID: ps.playerID,
			Name:     ps.name,
		},
	}
	writeMessages <- l.roomListMessage(ps.playerID)
}

// handleSocketClose tells the session's room that the session dropped and
// forgets the socket and its practice state.
func (l *Lobby) handleSocketClose(m message.Message) {
	if roomID, ok := l.playerRooms[m.PlayerID]; ok {
		m.RoomID = roomID
		l.sendRoomMessage(m)
		delete(l.playerRooms, m.PlayerID)
	}
	l.removeSocket(m.PlayerID)
	delete(l.practices, m.PlayerID)
}

// removeSocket removes a socket from the messageHandlers.
func (l *Lobby) removeSocket(playerID string) {
	smh, ok := l.sockets[playerID]
	if !ok {
		l.log.Printf("no socket to remove for %v", playerID)
		return
	}
	delete(l.sockets, playerID)
	smh.CancelFunc()
}

// sendRoomMessage sends a message to the room with the id specified in the
// message's RoomID field, falling back to the room the session is in.
func (l *Lobby) sendRoomMessage(m message.Message) {
	roomID := m.RoomID
	if len(roomID) == 0 {
		roomID = l.playerRooms[m.PlayerID]
	}
	rmh, ok := l.rooms[roomID]
	if !ok {
		l.sendSocketMessage(message.Message{
			Type:     message.SocketWarning,
			PlayerID: m.PlayerID,
			Info:     fmt.Sprintf("no room with id %v, please refresh the room list", roomID),
		})
		return
	}
	message.Send(m, rmh.writeMessages, l.debug, l.log)
}

// sendSocketMessage sends a message to the socket for the player the message is for.
func (l *Lobby) sendSocketMessage(m message.Message) {
	smh, ok := l.sockets[m.PlayerID]
	if !ok {
		l.log.Printf("no socket with id '%v' to send message with type %v to", m.PlayerID, m.Type)
		return
	}
	message.Send(m, smh.writeMessages, l.debug, l.log)
}

// handleRoomSummaryChanged stores the new summary a room published and
// notifies all sockets of the new public room list.
func (l *Lobby) handleRoomSummaryChanged(m message.Message) {
	if len(m.Rooms) != 1 {
		l.log.Printf("wanted 1 room summary to have changed, got %v", len(m.Rooms))
		return
	}
	rmh, ok := l.rooms[m.RoomID]
	if !ok {
		l.log.Printf("no room to update summary for with id %v", m.RoomID)
		return
	}
	rmh.summary = m.Rooms[0]
	l.rooms[m.RoomID] = rmh
	l.roomListChanged()
}

// roomList lists the summaries of the public rooms, ordered by id.
func (l Lobby) roomList() []view.RoomSummary {
	summaries := make([]view.RoomSummary, 0, len(l.rooms))
	for _, rmh := range l.rooms {
		if rmh.summary.IsPublic {
			summaries = append(summaries, rmh.summary)
		}
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].ID < summaries[j].ID
	})
	return summaries
}

// roomListMessage builds a RoomList message for the player.
func (l Lobby) roomListMessage(playerID string) message.Message {
	return message.Message{
		Type:     message.RoomList,
		PlayerID: playerID,
		Rooms:    l.roomList(),
	}
}

// roomListChanged notifies all sockets that the public room list changed.
func (l Lobby) roomListChanged() {
	for playerID := range l.sockets {
		l.sendSocketMessage(l.roomListMessage(playerID))
	}
}

// handleImportedAnalysis analyzes a step of a replay file uploaded by the session.
func (l *Lobby) handleImportedAnalysis(m message.Message) {
	warn := func(format string, a ...interface{}) {
		l.sendSocketMessage(message.Message{
			Type:     message.SocketWarning,
			PlayerID: m.PlayerID,
			Info:     fmt.Sprintf(format, a...),
		})
	}
	switch {
	case len(m.ReplayFile) == 0:
		warn("replay file required")
		return
	case m.StepIndex == nil:
		warn("step index required")
		return
	}
	f, err := replay.ParseFile(m.ReplayFile)
	if err != nil {
		warn("parsing replay file: %v", err)
		return
	}
	result, err := replay.AnalyzeStep(f.Replay, *m.StepIndex, l.puzzles.Dictionary)
	if err != nil {
		warn("analyzing replay step: %v", err)
		return
	}
	l.sendSocketMessage(message.Message{
		Type:     message.GameState,
		PlayerID: m.PlayerID,
		Analysis: result,
	})
}
