// Package server runs the http server which hands out sessions and upgrades
// websockets into the lobby.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/handorff/anagram-thief/server/log"
)

type (
	// Server runs the site.
	Server struct {
		wg         sync.WaitGroup
		log        log.Logger
		tokenizer  Tokenizer
		lobby      Lobby
		httpServer *http.Server
		Config
	}

	// Config contains fields which describe the server.
	Config struct {
		// Port is the TCP port the server listens on.
		Port int
		// StopDur is the maximum duration the server may take to shut down gracefully.
		StopDur time.Duration
		// PlayerIDFunc creates the unique id for each new session.
		PlayerIDFunc func() string
	}

	// Parameters contains the components the server uses.
	Parameters struct {
		log.Logger
		Tokenizer
		Lobby
	}

	// Tokenizer creates and reads session tokens from http traffic.
	Tokenizer interface {
		Create(playerID, name string) (string, error)
		ReadSession(tokenString string) (playerID, name string, err error)
	}

	// Lobby is the entry point for players to create, join, and watch rooms.
	Lobby interface {
		Run(ctx context.Context)
		AddUser(playerID, name string, w http.ResponseWriter, r *http.Request) error
	}
)

// NewServer creates a Server from the Config.
func (cfg Config) NewServer(p Parameters) (*Server, error) {
	if err := cfg.validate(p); err != nil {
		return nil, fmt.Errorf("creating server: validation: %w", err)
	}
	mux := new(http.ServeMux)
	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: mux,
	}
	s := Server{
		log:        p.Logger,
		tokenizer:  p.Tokenizer,
		lobby:      p.Lobby,
		httpServer: httpServer,
		Config:     cfg,
	}
	mux.HandleFunc("/", s.handle)
	return &s, nil
}

// validate ensures the configuration has no errors.
func (cfg Config) validate(p Parameters) error {
	switch {
	case p.Logger == nil:
		return fmt.Errorf("log required")
	case p.Tokenizer == nil:
		return fmt.Errorf("tokenizer required")
	case p.Lobby == nil:
		return fmt.Errorf("lobby required")
	case cfg.Port <= 0:
		return fmt.Errorf("positive port required")
	case cfg.StopDur <= 0:
		return fmt.Errorf("stop timeout duration required")
	case cfg.PlayerIDFunc == nil:
		return fmt.Errorf("player id func required")
	}
	return nil
}

// Run starts the lobby and the http server asynchronously.
// The error from the http server is sent on the returned channel when it stops.
func (s *Server) Run(ctx context.Context) <-chan error {
	errC := make(chan error, 1)
	ctx, cancelFunc := context.WithCancel(ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.lobby.Run(ctx)
	}()
	s.httpServer.RegisterOnShutdown(cancelFunc)
	s.log.Printf("starting server at http://127.0.0.1%v", s.httpServer.Addr)
	go func() {
		errC <- s.httpServer.ListenAndServe()
	}()
	return errC
}

// Stop asks the server to shutdown and waits for the shutdown to complete.
// An error is returned if the context times out.
func (s *Server) Stop(ctx context.Context) error {
	ctx, cancelFunc := context.WithTimeout(ctx, s.StopDur)
	defer cancelFunc()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return err
	}
	s.wg.Wait()
	return nil
}

// handle routes requests by method.
func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "GET":
		s.handleGet(w, r)
	case "POST":
		s.handlePost(w, r)
	default:
		s.httpError(w, http.StatusMethodNotAllowed)
	}
}

// handleGet calls handlers for GET endpoints.
func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/ws":
		s.handleUserSocket(w, r)
	case "/monitor":
		s.handleMonitor(w, r)
	default:
		s.httpError(w, http.StatusNotFound)
	}
}

// handlePost calls handlers for POST endpoints.
func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/session":
		s.handleSession(w, r)
	default:
		s.httpError(w, http.StatusNotFound)
	}
}

// handleError logs and writes the error as an internal server error (500).
func (s *Server) handleError(w http.ResponseWriter, err error) {
	s.log.Printf("server error: %v", err)
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

// httpError writes the error status code.
func (*Server) httpError(w http.ResponseWriter, statusCode int) {
	http.Error(w, http.StatusText(statusCode), statusCode)
}
