// Package auth creates and reads the session tokens that identify players
// across websocket reconnects.
package auth

import (
	"fmt"

	jwt "github.com/golang-jwt/jwt/v4"
)

type (
	// Tokenizer creates and reads session tokens from http traffic.
	Tokenizer interface {
		Create(playerID, name string) (string, error)
		ReadSession(tokenString string) (playerID, name string, err error)
	}

	// TokenizerConfig contains fields which describe a Tokenizer.
	TokenizerConfig struct {
		// TimeFunc is a function which should supply the current time since the unix epoch.
		// Used to set the length of time the token is valid.
		TimeFunc func() int64
		// ValidSec is the length of time the token is valid from the issuing time, in seconds.
		ValidSec int64
	}

	// JwtTokenizer implements the Tokenizer interface with json web tokens.
	JwtTokenizer struct {
		method jwt.SigningMethod
		key    interface{}
		TokenizerConfig
	}

	// jwtSessionClaims identify a session.  The player id is stored in the Subject ("sub") field.
	jwtSessionClaims struct {
		Name string `json:"name"`
		jwt.StandardClaims
	}
)

// NewTokenizer creates a Tokenizer that signs session tokens with the key.
func (cfg TokenizerConfig) NewTokenizer(key interface{}) (*JwtTokenizer, error) {
	if err := cfg.validate(key); err != nil {
		return nil, fmt.Errorf("creating tokenizer: validation: %w", err)
	}
	t := JwtTokenizer{
		method:          jwt.SigningMethodHS256,
		key:             key,
		TokenizerConfig: cfg,
	}
	return &t, nil
}

// validate ensures the configuration has no errors.
func (cfg TokenizerConfig) validate(key interface{}) error {
	switch {
	case key == nil:
		return fmt.Errorf("key required")
	case cfg.TimeFunc == nil:
		return fmt.Errorf("time func required")
	case cfg.ValidSec <= 0:
		return fmt.Errorf("positive valid seconds required")
	}
	return nil
}

// Create converts a session to a token string.
func (j JwtTokenizer) Create(playerID, name string) (string, error) {
	now := j.TimeFunc()
	expiresAt := now + j.ValidSec
	stdClaims := jwt.StandardClaims{
		Subject:   playerID,
		NotBefore: now,
		ExpiresAt: expiresAt,
	}
	claims := jwtSessionClaims{
		Name:           name,
		StandardClaims: stdClaims,
	}
	token := jwt.NewWithClaims(j.method, claims)
	return token.SignedString(j.key)
}

// ReadSession extracts the player id and name from the token string.
func (j JwtTokenizer) ReadSession(tokenString string) (string, string, error) {
	var claims jwtSessionClaims
	if _, err := jwt.ParseWithClaims(tokenString, &claims, j.keyFunc); err != nil {
		return "", "", err
	}
	return claims.Subject, claims.Name, nil
}

// keyFunc ensures the signing method of the token is correct before returning the key.
func (j JwtTokenizer) keyFunc(t *jwt.Token) (interface{}, error) {
	if t.Method != j.method {
		return nil, fmt.Errorf("incorrect authorization signing method")
	}
	return j.key, nil
}
