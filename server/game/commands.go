package game

import (
	"fmt"
	"strings"

	"github.com/handorff/anagram-thief/game"
	"github.com/handorff/anagram-thief/game/message"
	"github.com/handorff/anagram-thief/game/replay"
	"github.com/handorff/anagram-thief/game/tile"
	"github.com/handorff/anagram-thief/game/word"
)

// handleFlip starts revealing the next tile for the turn player.
func (r *Room) handleFlip(m message.Message, send messageSender) error {
	switch {
	case r.status != game.StatusInGame:
		return gameWarningNotInProgress
	case r.claimWindow != nil || r.pendingFlip != nil:
		return gameWarningBusy
	case m.PlayerID != r.turnPlayerID():
		return gameWarning("it is not your turn to flip")
	case r.bag.Count() == 0:
		return gameWarning("no tiles left to flip")
	}
	r.startFlip(m.PlayerID)
	return nil
}

// startFlip enters the revealing state and schedules the reveal.
func (r *Room) startFlip(playerID string) {
	now := r.TimeFunc()
	r.pendingFlip = &game.PendingFlip{
		PlayerID:  playerID,
		StartedAt: now,
		RevealsAt: now + r.FlipRevealMs,
	}
	r.cancelSlot(timerSlot{kind: slotAutoFlip})
	r.schedule(timerSlot{kind: slotPendingFlipReveal}, r.FlipRevealMs)
}

// handleClaimIntent opens the exclusive claim window for the player.
func (r *Room) handleClaimIntent(m message.Message, send messageSender) error {
	now := r.TimeFunc()
	switch {
	case r.status != game.StatusInGame:
		return gameWarningNotInProgress
	case r.claimWindow != nil || r.pendingFlip != nil:
		return gameWarningBusy
	case r.claimCooldowns[m.PlayerID] > now:
		return gameWarning("you are on claim cooldown")
	}
	if _, ok := r.players[m.PlayerID]; !ok {
		return gameWarning("spectators cannot claim")
	}
	windowMs := int64(r.settings.ClaimTimerSeconds) * 1000
	r.claimWindow = &game.ClaimWindow{
		PlayerID: m.PlayerID,
		EndsAt:   now + windowMs,
	}
	r.cancelSlot(timerSlot{kind: slotAutoFlip})
	r.schedule(timerSlot{kind: slotClaimWindow}, windowMs)
	return nil
}

// handleClaim validates and applies a word submitted during the player's claim window.
// A failed claim leaves the window open while time remains.
func (r *Room) handleClaim(m message.Message, send messageSender) error {
	now := r.TimeFunc()
	switch {
	case r.status != game.StatusInGame:
		return gameWarningNotInProgress
	case r.claimWindow == nil:
		return gameWarning("there is no open claim window")
	case r.claimWindow.PlayerID != m.PlayerID:
		return gameWarning("another player holds the claim window")
	case now >= r.claimWindow.EndsAt:
		r.expireClaimWindow()
		return gameWarning("Claim window expired.")
	}
	c, failure := word.ValidateClaim(r.center, r.existingWords(), m.Word, r.Dictionary)
	if failure != word.FailureNone {
		return gameWarning(failure.Message())
	}
	r.cancelSlot(timerSlot{kind: slotClaimWindow})
	r.claimWindow = nil
	if err := r.applyClaim(m.PlayerID, c, game.SourceManual, false); err != nil {
		return err
	}
	r.scheduleAutoFlip()
	return nil
}

// applyClaim moves tiles for a validated claim and records the result.
func (r *Room) applyClaim(playerID string, c *word.Claim, source game.ClaimSource, movedToBottom bool) error {
	p, ok := r.players[playerID]
	if !ok {
		return fmt.Errorf("no player %v to apply claim for", playerID)
	}
	now := r.TimeFunc()
	var replacedWordID string
	if c.Source == word.SourceSteal {
		victim, ok := r.players[c.Victim.OwnerID]
		if !ok {
			return fmt.Errorf("no player %v to steal from", c.Victim.OwnerID)
		}
		victimWordID := findWordID(victim.Words, c.Victim.Tiles)
		if len(victimWordID) == 0 {
			return fmt.Errorf("player %v has no word matching the steal", c.Victim.OwnerID)
		}
		if _, ok := victim.RemoveWord(victimWordID); !ok {
			return fmt.Errorf("removing word %v", victimWordID)
		}
		replacedWordID = victimWordID
	}
	r.removeCenterTiles(c.CenterTileIDs)
	w := game.Word{
		ID:        r.nextIDString("w"),
		Text:      c.Word,
		TileIDs:   tileIDs(c.Tiles),
		OwnerID:   playerID,
		CreatedAt: now,
	}
	p.Words = append(p.Words, w)
	r.lastClaimAt = now
	r.lastClaimEvent = &game.ClaimEventMeta{
		EventID:                           r.nextIDString("ev"),
		WordID:                            w.ID,
		ClaimantID:                        playerID,
		ReplacedWordID:                    replacedWordID,
		Source:                            source,
		MovedToBottomOfPreStealPrecedence: movedToBottom,
	}
	r.record(replay.KindClaimSucceeded)
	return r.checkInvariants()
}

// handlePreStealAdd appends a pre-steal entry for the player.
// Only the format is checked here; the dictionary check happens at arm time.
func (r *Room) handlePreStealAdd(m message.Message, send messageSender) error {
	p, ok := r.players[m.PlayerID]
	switch {
	case !r.settings.PreStealEnabled:
		return gameWarning("pre-steal is disabled in this room")
	case !ok:
		return gameWarning("spectators cannot add pre-steal entries")
	case m.Entry == nil:
		return gameWarning("pre-steal entry required")
	}
	trigger, claim := normalizeWord(m.Entry.TriggerLetters), normalizeWord(m.Entry.ClaimWord)
	switch {
	case len(trigger) == 0 || !lettersOnly(trigger):
		return gameWarning("trigger letters must be letters A-Z")
	case len(claim) < word.MinLength || !lettersOnly(claim):
		return gameWarning(fmt.Sprintf("pre-steal word must be at least %v letters A-Z", word.MinLength))
	}
	e := game.PreStealEntry{
		ID:             r.nextIDString("e"),
		TriggerLetters: trigger,
		ClaimWord:      claim,
		CreatedAt:      r.TimeFunc(),
	}
	p.PreStealEntries = append(p.PreStealEntries, e)
	return nil
}

// handlePreStealRemove deletes one of the player's pre-steal entries.
func (r *Room) handlePreStealRemove(m message.Message, send messageSender) error {
	p, ok := r.players[m.PlayerID]
	switch {
	case !r.settings.PreStealEnabled:
		return gameWarning("pre-steal is disabled in this room")
	case !ok:
		return gameWarning("spectators cannot remove pre-steal entries")
	case !p.RemoveEntry(m.EntryID):
		return gameWarning("no pre-steal entry with that id")
	}
	return nil
}

// handlePreStealReorder reprioritizes the player's pre-steal entries.
func (r *Room) handlePreStealReorder(m message.Message, send messageSender) error {
	p, ok := r.players[m.PlayerID]
	switch {
	case !r.settings.PreStealEnabled:
		return gameWarning("pre-steal is disabled in this room")
	case !ok:
		return gameWarning("spectators cannot reorder pre-steal entries")
	}
	if err := p.ReorderEntries(m.EntryIDs); err != nil {
		return gameWarning(err.Error())
	}
	return nil
}

// handleAnalyzeStep runs the formation engine against a step of the finished game's replay.
func (r *Room) handleAnalyzeStep(m message.Message, send messageSender) error {
	switch {
	case r.status != game.StatusEnded:
		return gameWarning("replay analysis is only available after the game ends")
	case m.StepIndex == nil:
		return gameWarning("replay step index required")
	}
	result, err := replay.AnalyzeStep(r.recorder.Replay(), *m.StepIndex, r.Dictionary)
	if err != nil {
		return gameWarning(err.Error())
	}
	m2 := message.Message{
		Type:     message.GameState,
		PlayerID: m.PlayerID,
		Analysis: result,
	}
	send(m2)
	return nil
}

// existingWords adapts the owned words on the table for the formation engine.
func (r *Room) existingWords() []word.ExistingWord {
	var words []word.ExistingWord
	for _, pid := range r.playerOrder {
		p := r.players[pid]
		for _, w := range p.Words {
			tiles := make([]tile.Tile, 0, len(w.TileIDs))
			for _, id := range w.TileIDs {
				tiles = append(tiles, tile.Tile{ID: id, Ch: r.tileLetters[id]})
			}
			words = append(words, word.ExistingWord{
				OwnerID: pid,
				Text:    w.Text,
				Tiles:   tiles,
			})
		}
	}
	return words
}

// removeCenterTiles takes the claimed tiles out of the center.
func (r *Room) removeCenterTiles(ids []tile.ID) {
	if len(ids) == 0 {
		return
	}
	claimed := make(map[tile.ID]struct{}, len(ids))
	for _, id := range ids {
		claimed[id] = struct{}{}
	}
	kept := r.center[:0]
	for _, t := range r.center {
		if _, ok := claimed[t.ID]; !ok {
			kept = append(kept, t)
		}
	}
	r.center = kept
}

// findWordID locates the owner's word whose tiles match the steal victim.
func findWordID(words []game.Word, victimTiles []tile.Tile) string {
	for _, w := range words {
		if len(w.TileIDs) != len(victimTiles) {
			continue
		}
		match := true
		for i, t := range victimTiles {
			if w.TileIDs[i] != t.ID {
				match = false
				break
			}
		}
		if match {
			return w.ID
		}
	}
	return ""
}

// normalizeWord upper-cases a submitted word or trigger, dropping surrounding space.
func normalizeWord(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// lettersOnly reports whether s contains only the letters A-Z.
func lettersOnly(s string) bool {
	for _, ch := range s {
		if ch < 'A' || ch > 'Z' {
			return false
		}
	}
	return true
}

// tileIDs lists the ids of tiles in order.
func tileIDs(tiles []tile.Tile) []tile.ID {
	ids := make([]tile.ID, 0, len(tiles))
	for _, t := range tiles {
		ids = append(ids, t.ID)
	}
	return ids
}
