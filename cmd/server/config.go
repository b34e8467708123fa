package main

import (
	crypto_rand "crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/handorff/anagram-thief/game/puzzle"
	"github.com/handorff/anagram-thief/game/tile"
	"github.com/handorff/anagram-thief/game/word"
	"github.com/handorff/anagram-thief/server"
	"github.com/handorff/anagram-thief/server/auth"
	gameController "github.com/handorff/anagram-thief/server/game"
	"github.com/handorff/anagram-thief/server/game/lobby"
	"github.com/handorff/anagram-thief/server/game/socket"
)

// createServer creates the server from the parsed flags.
func (m mainFlags) createServer(log *log.Logger) (*server.Server, error) {
	epochSecondsFunc := func() int64 {
		return time.Now().UTC().Unix()
	}
	epochMillisFunc := func() int64 {
		return time.Now().UTC().UnixMilli()
	}
	key, err := sessionKey(m)
	if err != nil {
		return nil, fmt.Errorf("creating session key: %w", err)
	}
	tokenizer, err := tokenizerConfig(epochSecondsFunc).NewTokenizer(key)
	if err != nil {
		return nil, fmt.Errorf("creating session tokenizer: %w", err)
	}
	d, err := dictionary(m)
	if err != nil {
		return nil, fmt.Errorf("creating dictionary: %w", err)
	}
	lobbyCfg := lobbyConfig(m, log, d, epochMillisFunc)
	lobby, err := lobbyCfg.NewLobby()
	if err != nil {
		return nil, fmt.Errorf("creating lobby: %w", err)
	}
	cfg := server.Config{
		Port:         m.port,
		StopDur:      time.Second,
		PlayerIDFunc: newPlayerID,
	}
	p := server.Parameters{
		Logger:    log,
		Tokenizer: tokenizer,
		Lobby:     lobby,
	}
	return cfg.NewServer(p)
}

// sessionKey resolves the key used to sign session tokens.
// A random key is generated when no key is configured.
func sessionKey(m mainFlags) ([]byte, error) {
	if len(m.sessionKey) != 0 {
		return []byte(m.sessionKey), nil
	}
	key := make([]byte, 64)
	if _, err := crypto_rand.Read(key); err != nil {
		return nil, fmt.Errorf("generating random key: %w", err)
	}
	return key, nil
}

// tokenizerConfig creates the configuration for the session token reader/writer.
func tokenizerConfig(epochSecondsFunc func() int64) auth.TokenizerConfig {
	var tokenValidDurationSec int64 = int64((24 * time.Hour).Seconds()) // 1 day
	cfg := auth.TokenizerConfig{
		TimeFunc: epochSecondsFunc,
		ValidSec: tokenValidDurationSec,
	}
	return cfg
}

// dictionary reads the valid words the games and practice puzzles use.
func dictionary(m mainFlags) (*word.Dictionary, error) {
	r, err := wordsReader(m)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return word.NewDictionary(r)
}

// lobbyConfig creates the configuration for running and managing rooms and practice sessions.
func lobbyConfig(m mainFlags, log *log.Logger, d *word.Dictionary, epochMillisFunc func() int64) lobby.Config {
	cfg := lobby.Config{
		Debug:      m.debugGame,
		Log:        log,
		TimeFunc:   epochMillisFunc,
		MaxRooms:   16,
		MaxSockets: 64,
		RoomCfg:    roomConfig(m, log, d, epochMillisFunc),
		SocketCfg:  socketConfig(m, log),
		PuzzleCfg: puzzle.Config{
			Dictionary: d,
			Rand:       rand.New(rand.NewSource(time.Now().UnixNano())),
		},
	}
	return cfg
}

// roomConfig creates the base configuration for all rooms.
func roomConfig(m mainFlags, log *log.Logger, d *word.Dictionary, epochMillisFunc func() int64) gameController.Config {
	shuffleTilesFunc := func(tiles []tile.Tile) {
		rand.Shuffle(len(tiles), func(i, j int) {
			tiles[i], tiles[j] = tiles[j], tiles[i]
		})
	}
	shufflePlayersFunc := func(playerIDs []string) {
		rand.Shuffle(len(playerIDs), func(i, j int) {
			playerIDs[i], playerIDs[j] = playerIDs[j], playerIDs[i]
		})
	}
	cfg := gameController.Config{
		Debug:              m.debugGame,
		Log:                log,
		TimeFunc:           epochMillisFunc,
		Dictionary:         d,
		ShuffleTilesFunc:   shuffleTilesFunc,
		ShufflePlayersFunc: shufflePlayersFunc,
	}
	return cfg
}

// socketConfig creates the configuration for creating new sockets.
func socketConfig(m mainFlags, log *log.Logger) socket.Config {
	cfg := socket.Config{
		Debug:          m.debugGame,
		Log:            log,
		ReadWait:       60 * time.Second,
		WriteWait:      10 * time.Second,
		PingPeriod:     54 * time.Second, // readWait * 0.9
		IdlePeriod:     15 * time.Minute,
		HTTPPingPeriod: 10 * time.Minute,
	}
	return cfg
}

// newPlayerID mints a unique id for a new session.
func newPlayerID() string {
	b := make([]byte, 8)
	if _, err := crypto_rand.Read(b); err != nil {
		return fmt.Sprintf("p%x", time.Now().UnixNano())
	}
	return "p" + hex.EncodeToString(b)
}
