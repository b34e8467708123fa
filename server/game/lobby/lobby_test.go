package lobby

import (
	"context"
	"math/rand"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/handorff/anagram-thief/game/message"
	"github.com/handorff/anagram-thief/game/puzzle"
	"github.com/handorff/anagram-thief/game/tile"
	"github.com/handorff/anagram-thief/game/view"
	"github.com/handorff/anagram-thief/game/word"
	gameController "github.com/handorff/anagram-thief/server/game"
	"github.com/handorff/anagram-thief/server/game/socket"
	"github.com/handorff/anagram-thief/server/log/logtest"
)

// testClock is a fake millisecond clock the tests advance by hand.
type testClock struct {
	mu  sync.Mutex
	now int64
}

func (c *testClock) time() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) advance(ms int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now += ms
}

func testDictionary(t *testing.T) *word.Dictionary {
	t.Helper()
	d, err := word.NewDictionary(strings.NewReader("TEAM MATE MEAT RATE STARE TEAR"))
	if err != nil {
		t.Fatalf("unwanted error: %v", err)
	}
	return d
}

func newTestLobby(t *testing.T, clock *testClock) *Lobby {
	t.Helper()
	d := testDictionary(t)
	cfg := Config{
		Log:        logtest.DiscardLogger,
		TimeFunc:   clock.time,
		MaxRooms:   4,
		MaxSockets: 8,
		RoomCfg: gameController.Config{
			Log:                logtest.DiscardLogger,
			TimeFunc:           clock.time,
			Dictionary:         d,
			ShuffleTilesFunc:   func(tiles []tile.Tile) {},
			ShufflePlayersFunc: func(playerIDs []string) {},
		},
		SocketCfg: socket.Config{
			Log:            logtest.DiscardLogger,
			ReadWait:       2 * time.Hour,
			WriteWait:      2 * time.Hour,
			PingPeriod:     1 * time.Hour,
			IdlePeriod:     3 * time.Hour,
			HTTPPingPeriod: 15 * time.Hour,
		},
		PuzzleCfg: puzzle.Config{
			Dictionary: d,
			Rand:       rand.New(rand.NewSource(1)),
		},
	}
	l, err := cfg.NewLobby()
	if err != nil {
		t.Fatalf("unwanted error: %v", err)
	}
	return l
}

// addFakeSocket registers a message handler for the player without a
// websocket, returning the channel of messages sent to the player.
func addFakeSocket(l *Lobby, playerID string) chan message.Message {
	out := make(chan message.Message, 64)
	l.sockets[playerID] = messageHandler{
		writeMessages: out,
		CancelFunc:    func() {},
	}
	return out
}

// waitForType reads messages sent to a player until one of the type arrives.
func waitForType(t *testing.T, out <-chan message.Message, mt message.Type) message.Message {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case m := <-out:
			if m.Type == mt {
				return m
			}
		case <-timeout:
			t.Fatalf("timed out waiting for message with type %v", mt)
		}
	}
}

func testSettings() *view.RoomSettings {
	return &view.RoomSettings{
		Name:              "fast friends",
		IsPublic:          true,
		MaxPlayers:        4,
		ClaimTimerSeconds: 5,
	}
}

func TestNewLobby(t *testing.T) {
	clock := new(testClock)
	okPuzzleCfg := puzzle.Config{
		Dictionary: testDictionary(t),
		Rand:       rand.New(rand.NewSource(1)),
	}
	newLobbyTests := []struct {
		wantOk bool
		Config
	}{
		{}, // no log
		{ // no time func
			Config: Config{
				Log: logtest.DiscardLogger,
			},
		},
		{ // no rooms allowed
			Config: Config{
				Log:      logtest.DiscardLogger,
				TimeFunc: clock.time,
			},
		},
		{ // no sockets allowed
			Config: Config{
				Log:      logtest.DiscardLogger,
				TimeFunc: clock.time,
				MaxRooms: 1,
			},
		},
		{ // bad puzzle config
			Config: Config{
				Log:        logtest.DiscardLogger,
				TimeFunc:   clock.time,
				MaxRooms:   1,
				MaxSockets: 1,
			},
		},
		{ // ok
			Config: Config{
				Log:        logtest.DiscardLogger,
				TimeFunc:   clock.time,
				MaxRooms:   1,
				MaxSockets: 1,
				PuzzleCfg:  okPuzzleCfg,
			},
			wantOk: true,
		},
	}
	for i, test := range newLobbyTests {
		l, err := test.Config.NewLobby()
		switch {
		case err != nil:
			if test.wantOk {
				t.Errorf("Test %v: unwanted error: %v", i, err)
			}
		case !test.wantOk:
			t.Errorf("Test %v: wanted error", i)
		case l.upgrader == nil:
			t.Errorf("Test %v: wanted lobby to have an upgrader", i)
		}
	}
}

func TestCreateRoomListsAndRemoves(t *testing.T) {
	clock := new(testClock)
	l := newTestLobby(t, clock)
	outA := addFakeSocket(l, "a1")
	outB := addFakeSocket(l, "b1")
	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()
	go l.Run(ctx)
	l.socketMessages <- message.Message{
		Type:     message.CreateRoom,
		PlayerID: "a1",
		Name:     "alice",
		Settings: testSettings(),
	}
	self := waitForType(t, outA, message.SessionSelf)
	switch {
	case self.Self == nil:
		t.Fatal("wanted self payload")
	case self.Self.RoomID != "r1":
		t.Errorf("wanted the creator to join room r1, got %v", self.Self.RoomID)
	case self.Self.Name != "alice":
		t.Errorf("wanted self name alice, got %v", self.Self.Name)
	}
	timeout := time.After(2 * time.Second)
	for {
		m := waitForType(t, outB, message.RoomList)
		if len(m.Rooms) == 1 && m.Rooms[0].PlayerCount == 1 {
			if m.Rooms[0].ID != "r1" || !m.Rooms[0].IsPublic {
				t.Errorf("wanted public room r1 in the list, got %v", m.Rooms[0])
			}
			break
		}
		select {
		case <-timeout:
			t.Fatal("timed out waiting for the room list to show the new room")
		default:
		}
	}
	// the last player leaving deletes the room
	l.socketMessages <- message.Message{
		Type:     message.LeaveRoom,
		RoomID:   "r1",
		PlayerID: "a1",
	}
	timeout = time.After(2 * time.Second)
	for {
		m := waitForType(t, outB, message.RoomList)
		if len(m.Rooms) == 0 {
			break
		}
		select {
		case <-timeout:
			t.Fatal("timed out waiting for the room to be removed from the list")
		default:
		}
	}
}

func TestCreateRoomPrivateNotListed(t *testing.T) {
	clock := new(testClock)
	l := newTestLobby(t, clock)
	addFakeSocket(l, "a1")
	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()
	settings := testSettings()
	settings.IsPublic = false
	l.createRoom(ctx, message.Message{
		Type:     message.CreateRoom,
		PlayerID: "a1",
		Name:     "alice",
		Settings: settings,
	})
	if len(l.rooms) != 1 {
		t.Fatalf("wanted 1 room, got %v", len(l.rooms))
	}
	if got := l.roomList(); len(got) != 0 {
		t.Errorf("wanted private room to be absent from the public list, got %v", got)
	}
}

func TestCreateRoomInvalid(t *testing.T) {
	clock := new(testClock)
	l := newTestLobby(t, clock)
	out := addFakeSocket(l, "a1")
	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()
	createRoomTests := []struct {
		settings *view.RoomSettings
	}{
		{}, // no settings
		{ // bad settings
			settings: &view.RoomSettings{
				Name:       "too big",
				MaxPlayers: 99,
			},
		},
	}
	for i, test := range createRoomTests {
		l.createRoom(ctx, message.Message{
			Type:     message.CreateRoom,
			PlayerID: "a1",
			Settings: test.settings,
		})
		m := <-out
		if m.Type != message.SocketWarning {
			t.Errorf("Test %v: wanted warning, got message with type %v", i, m.Type)
		}
		if len(l.rooms) != 0 {
			t.Errorf("Test %v: wanted no room to be created", i)
		}
	}
}

func TestSendRoomMessageUnknownRoom(t *testing.T) {
	clock := new(testClock)
	l := newTestLobby(t, clock)
	out := addFakeSocket(l, "a1")
	l.sendRoomMessage(message.Message{
		Type:     message.GameFlip,
		RoomID:   "nope",
		PlayerID: "a1",
	})
	m := <-out
	if m.Type != message.SocketWarning {
		t.Errorf("wanted warning for unknown room, got message with type %v", m.Type)
	}
}

func TestSocketCloseMarksPlayerDisconnected(t *testing.T) {
	clock := new(testClock)
	l := newTestLobby(t, clock)
	outA := addFakeSocket(l, "a1")
	outB := addFakeSocket(l, "b1")
	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()
	go l.Run(ctx)
	l.socketMessages <- message.Message{
		Type:     message.CreateRoom,
		PlayerID: "a1",
		Name:     "alice",
		Settings: testSettings(),
	}
	waitForType(t, outA, message.SessionSelf)
	l.socketMessages <- message.Message{
		Type:     message.JoinRoom,
		RoomID:   "r1",
		PlayerID: "b1",
		Name:     "bob",
	}
	waitForType(t, outB, message.SessionSelf)
	l.socketMessages <- message.Message{
		Type:     message.SocketClose,
		PlayerID: "a1",
	}
	timeout := time.After(2 * time.Second)
	for {
		m := waitForType(t, outB, message.RoomState)
		aliceDisconnected := false
		for _, p := range m.Game.Players {
			if p.Name == "alice" && !p.Connected {
				aliceDisconnected = true
			}
		}
		if aliceDisconnected {
			break
		}
		select {
		case <-timeout:
			t.Fatal("timed out waiting for alice to show as disconnected")
		default:
		}
	}
}

func TestAddUser(t *testing.T) {
	clock := new(testClock)
	l := newTestLobby(t, clock)
	wrote := make(chan message.Message, 16)
	blockRead := make(chan struct{})
	defer close(blockRead)
	conn := &mockConn{
		ReadMessageFunc: func(m *message.Message) error {
			<-blockRead
			return context.Canceled
		},
		WriteMessageFunc: func(m message.Message) error {
			wrote <- m
			return nil
		},
		CloseFunc:         func() error { return nil },
		WritePingFunc:     func() error { return nil },
		WriteCloseFunc:    func(reason string) error { return nil },
		IsNormalCloseFunc: func(err error) bool { return true },
		RemoteAddrFunc:    func() net.Addr { return mockAddr("selene.pc") },
	}
	l.upgrader = &mockUpgrader{
		UpgradeFunc: func(w http.ResponseWriter, r *http.Request) (socket.Conn, error) {
			return conn, nil
		},
	}
	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()
	go l.Run(ctx)
	w := httptest.NewRecorder()
	r := new(http.Request)
	if err := l.AddUser("a1", "alice", w, r); err != nil {
		t.Fatalf("unwanted error: %v", err)
	}
	m := waitForType(t, wrote, message.SessionSelf)
	if m.Self == nil || m.Self.PlayerID != "a1" || m.Self.Name != "alice" {
		t.Errorf("wanted self message for a1/alice, got %v", m.Self)
	}
	waitForType(t, wrote, message.RoomList)
}
