package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/handorff/anagram-thief/game/view"
)

// nameRegex limits display names to short printable words.
var nameRegex = regexp.MustCompile(`^[\pL\pN][\pL\pN _-]{0,31}$`)

// handleSession mints a player id and session token for the display name.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.FormValue("name"))
	if !nameRegex.MatchString(name) {
		http.Error(w, "name must be 1-32 letters, numbers, spaces, underscores, or hyphens", http.StatusBadRequest)
		return
	}
	playerID := s.PlayerIDFunc()
	token, err := s.tokenizer.Create(playerID, name)
	if err != nil {
		s.handleError(w, fmt.Errorf("creating session token: %w", err))
		return
	}
	self := view.Self{
		PlayerID:     playerID,
		Name:         name,
		SessionToken: token,
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(self); err != nil {
		s.log.Printf("writing session response: %v", err)
	}
}

// handleUserSocket checks the session token and adds the player to the lobby.
func (s *Server) handleUserSocket(w http.ResponseWriter, r *http.Request) {
	tokenString := s.readTokenString(r)
	playerID, name, err := s.tokenizer.ReadSession(tokenString)
	if err != nil {
		s.log.Printf("reading session token: %v", err)
		s.httpError(w, http.StatusUnauthorized)
		return
	}
	if err := s.lobby.AddUser(playerID, name, w, r); err != nil {
		s.log.Printf("websocket error: %v", err)
		return
	}
}

// readTokenString reads the session token from the access_token query
// parameter, falling back to the authorization header.  Browsers cannot set
// headers on websocket requests, so the query parameter is the common path.
func (*Server) readTokenString(r *http.Request) string {
	if token := r.URL.Query().Get("access_token"); len(token) != 0 {
		return token
	}
	authorization := r.Header.Get("Authorization")
	if strings.HasPrefix(authorization, "Bearer ") {
		return authorization[7:]
	}
	return ""
}
