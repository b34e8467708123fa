package game

import (
	"github.com/handorff/anagram-thief/game"
	"github.com/handorff/anagram-thief/game/tile"
	"github.com/handorff/anagram-thief/game/word"
)

// arbitratePreSteals fires at most one armed pre-steal entry after a reveal.
// Players are considered in precedence order, each player's entries in their
// chosen priority order.  The winner is demoted to the bottom of the
// precedence order so one player cannot monopolize fast steals.
func (r *Room) arbitratePreSteals() error {
	if !r.settings.PreStealEnabled {
		return nil
	}
	existing := r.existingWords()
	for _, pid := range r.precedenceOrder {
		p, ok := r.players[pid]
		if !ok {
			continue
		}
		for _, e := range p.PreStealEntries {
			if !triggerFits(e.TriggerLetters, r.center) {
				continue
			}
			c, failure := word.ValidateClaim(r.center, existing, e.ClaimWord, r.Dictionary)
			if failure != word.FailureNone {
				continue
			}
			r.precedenceOrder = removeID(r.precedenceOrder, pid)
			r.precedenceOrder = append(r.precedenceOrder, pid)
			return r.applyClaim(pid, c, game.SourcePreSteal, true)
		}
	}
	return nil
}

// triggerFits reports whether the trigger letters all fit in the center.
func triggerFits(trigger string, center []tile.Tile) bool {
	var counts [26]int
	for _, t := range center {
		counts[t.Ch-'A']++
	}
	for _, ch := range trigger {
		if ch < 'A' || ch > 'Z' {
			return false
		}
		counts[ch-'A']--
		if counts[ch-'A'] < 0 {
			return false
		}
	}
	return true
}
