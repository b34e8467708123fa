// Package player holds the per-player state a room tracks during a game.
package player

import (
	"fmt"

	"github.com/handorff/anagram-thief/game"
)

// Player stores the words and pre-steal entries of one player in a room.
type Player struct {
	ID              string
	Name            string
	Connected       bool
	Words           []game.Word
	PreStealEntries []game.PreStealEntry
}

// New creates a connected player with no words.
func New(id, name string) (*Player, error) {
	switch {
	case len(id) == 0:
		return nil, fmt.Errorf("creating player: id required")
	case len(name) == 0:
		return nil, fmt.Errorf("creating player: name required")
	}
	p := Player{
		ID:        id,
		Name:      name,
		Connected: true,
	}
	return &p, nil
}

// Score is the total tile count of the player's words.
func (p *Player) Score() int {
	return game.Score(p.Words)
}

// State clones the player for snapshots and projections.
func (p *Player) State() game.PlayerState {
	words := make([]game.Word, len(p.Words))
	copy(words, p.Words)
	entries := make([]game.PreStealEntry, len(p.PreStealEntries))
	copy(entries, p.PreStealEntries)
	return game.PlayerState{
		ID:              p.ID,
		Name:            p.Name,
		Connected:       p.Connected,
		Words:           words,
		PreStealEntries: entries,
		Score:           p.Score(),
	}
}

// Word returns the player's word with the id.
func (p *Player) Word(wordID string) (game.Word, bool) {
	for _, w := range p.Words {
		if w.ID == wordID {
			return w, true
		}
	}
	return game.Word{}, false
}

// RemoveWord removes and returns the player's word with the id.
func (p *Player) RemoveWord(wordID string) (game.Word, bool) {
	for i, w := range p.Words {
		if w.ID == wordID {
			p.Words = append(p.Words[:i], p.Words[i+1:]...)
			return w, true
		}
	}
	return game.Word{}, false
}

// RemoveEntry removes the pre-steal entry with the id, reporting whether it existed.
func (p *Player) RemoveEntry(entryID string) bool {
	for i, e := range p.PreStealEntries {
		if e.ID == entryID {
			p.PreStealEntries = append(p.PreStealEntries[:i], p.PreStealEntries[i+1:]...)
			return true
		}
	}
	return false
}

// ReorderEntries rearranges the pre-steal entries to match the requested ids.
// The ids must be a permutation of the current entry ids.
func (p *Player) ReorderEntries(entryIDs []string) error {
	if len(entryIDs) != len(p.PreStealEntries) {
		return fmt.Errorf("wanted %v entry ids, got %v", len(p.PreStealEntries), len(entryIDs))
	}
	byID := make(map[string]game.PreStealEntry, len(p.PreStealEntries))
	for _, e := range p.PreStealEntries {
		byID[e.ID] = e
	}
	reordered := make([]game.PreStealEntry, 0, len(entryIDs))
	for _, id := range entryIDs {
		e, ok := byID[id]
		if !ok {
			return fmt.Errorf("no entry with id %q", id)
		}
		delete(byID, id)
		reordered = append(reordered, e)
	}
	p.PreStealEntries = reordered
	return nil
}
