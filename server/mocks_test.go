package server

import (
	"context"
	"net/http"
)

// mockTokenizer implements the Tokenizer interface
type mockTokenizer struct {
	CreateFunc      func(playerID, name string) (string, error)
	ReadSessionFunc func(tokenString string) (string, string, error)
}

func (m mockTokenizer) Create(playerID, name string) (string, error) {
	return m.CreateFunc(playerID, name)
}

func (m mockTokenizer) ReadSession(tokenString string) (string, string, error) {
	return m.ReadSessionFunc(tokenString)
}

// mockLobby implements the Lobby interface
type mockLobby struct {
	RunFunc     func(ctx context.Context)
	AddUserFunc func(playerID, name string, w http.ResponseWriter, r *http.Request) error
}

func (m mockLobby) Run(ctx context.Context) {
	m.RunFunc(ctx)
}

func (m mockLobby) AddUser(playerID, name string, w http.ResponseWriter, r *http.Request) error {
	return m.AddUserFunc(playerID, name, w, r)
}
