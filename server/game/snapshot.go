package game

import (
	"fmt"

	"github.com/handorff/anagram-thief/game"
	"github.com/handorff/anagram-thief/game/replay"
	"github.com/handorff/anagram-thief/game/tile"
)

// snapshot captures the full, unhidden game state for the replay.
func (r *Room) snapshot() replay.Snapshot {
	players := make([]game.PlayerState, 0, len(r.playerOrder))
	for _, pid := range r.playerOrder {
		players = append(players, r.players[pid].State())
	}
	center := make([]tile.Tile, len(r.center))
	copy(center, r.center)
	precedence := make([]string, len(r.precedenceOrder))
	copy(precedence, r.precedenceOrder)
	s := replay.Snapshot{
		Status:          r.status,
		CenterTiles:     center,
		Players:         players,
		TurnPlayerID:    r.turnPlayerID(),
		PreStealEnabled: r.settings.PreStealEnabled,
		PrecedenceOrder: precedence,
		EndTimerEndsAt:  r.endTimerEndsAt,
	}
	if r.bag != nil {
		s.BagCount = r.bag.Count()
	}
	if r.claimWindow != nil {
		w := *r.claimWindow
		s.ClaimWindow = &w
	}
	if r.pendingFlip != nil {
		f := *r.pendingFlip
		s.PendingFlip = &f
	}
	if len(r.claimCooldowns) > 0 {
		cooldowns := make(map[string]int64, len(r.claimCooldowns))
		for pid, endsAt := range r.claimCooldowns {
			cooldowns[pid] = endsAt
		}
		s.ClaimCooldowns = cooldowns
	}
	if r.lastClaimEvent != nil {
		e := *r.lastClaimEvent
		s.LastClaimEvent = &e
	}
	return s
}

// record appends a replay step if the state changed since the last one.
func (r *Room) record(kind replay.Kind) {
	r.recorder.Record(r.TimeFunc(), kind, r.snapshot())
}

// checkInvariants verifies that no tile was lost or invented and that the
// claim window and pending flip stay mutually exclusive.
func (r *Room) checkInvariants() error {
	if r.status != game.StatusInGame {
		return nil
	}
	if r.claimWindow != nil && r.pendingFlip != nil {
		return fmt.Errorf("%w: claim window and pending flip both active", errInvariantViolated)
	}
	tiles := r.bag.Count() + len(r.center)
	seen := make(map[tile.ID]struct{})
	for _, t := range r.center {
		if _, ok := seen[t.ID]; ok {
			return fmt.Errorf("%w: tile %v appears twice", errInvariantViolated, t.ID)
		}
		seen[t.ID] = struct{}{}
	}
	for _, pid := range r.playerOrder {
		p := r.players[pid]
		for _, w := range p.Words {
			if len(w.TileIDs) != len(w.Text) {
				return fmt.Errorf("%w: word %q has %v tiles", errInvariantViolated, w.Text, len(w.TileIDs))
			}
			for i, id := range w.TileIDs {
				if _, ok := seen[id]; ok {
					return fmt.Errorf("%w: tile %v appears twice", errInvariantViolated, id)
				}
				seen[id] = struct{}{}
				if ch := r.tileLetters[id]; ch != tile.Letter(w.Text[i]) {
					return fmt.Errorf("%w: word %q does not match its tiles", errInvariantViolated, w.Text)
				}
			}
			tiles += len(w.TileIDs)
		}
	}
	if tiles != r.totalTiles {
		return fmt.Errorf("%w: %v tiles accounted for, want %v", errInvariantViolated, tiles, r.totalTiles)
	}
	return nil
}
