package game

import (
	"time"

	"github.com/handorff/anagram-thief/game"
	"github.com/handorff/anagram-thief/game/message"
	"github.com/handorff/anagram-thief/game/replay"
)

// schedule starts a slot timer and remembers the token its fire must carry.
func (r *Room) schedule(slot timerSlot, ms int64) {
	r.tokens[slot] = r.scheduler.Schedule(slot, time.Duration(ms)*time.Millisecond, r.timerC)
}

// cancelSlot stops a slot timer and forgets its token so stale fires are dropped.
func (r *Room) cancelSlot(slot timerSlot) {
	r.scheduler.Cancel(slot)
	delete(r.tokens, slot)
}

// scheduleAutoFlip arms the idle flip timer when the room settings call for one.
func (r *Room) scheduleAutoFlip() {
	if !r.settings.FlipTimerEnabled || r.status != game.StatusInGame {
		return
	}
	if r.claimWindow != nil || r.pendingFlip != nil || r.bag.Count() == 0 {
		return
	}
	r.schedule(timerSlot{kind: slotAutoFlip}, int64(r.settings.FlipTimerSeconds)*1000)
}

// handleTimerFire acts on an elapsed timer if its token is still expected.
func (r *Room) handleTimerFire(f timerFire, send messageSender) {
	token, ok := r.tokens[f.slot]
	if !ok || token != f.token {
		return // stale fire from a canceled or replaced schedule
	}
	delete(r.tokens, f.slot)
	var err error
	switch f.slot.kind {
	case slotAutoFlip:
		err = r.fireAutoFlip()
	case slotPendingFlipReveal:
		err = r.fireReveal()
	case slotClaimWindow:
		err = r.expireClaimWindow()
	case slotClaimCooldown:
		r.fireCooldownEnd(f.slot.playerID)
	case slotEndCountdown:
		r.fireEndCountdown()
	}
	if err != nil {
		r.Log.Printf("room %v timer error: %v", r.id, err)
		r.failGame(send)
	}
	r.broadcast(send)
}

// fireAutoFlip flips for the turn player when the room has sat idle.
func (r *Room) fireAutoFlip() error {
	if r.status != game.StatusInGame || r.claimWindow != nil || r.pendingFlip != nil || r.bag.Count() == 0 {
		return nil
	}
	r.startFlip(r.turnPlayerID())
	return nil
}

// fireReveal completes a pending flip: the drawn tile reaches the center,
// the turn advances, every claim cooldown clears, and armed pre-steal
// entries get their chance.
func (r *Room) fireReveal() error {
	if r.status != game.StatusInGame || r.pendingFlip == nil {
		return nil
	}
	t, ok := r.bag.DrawOne()
	if !ok {
		r.pendingFlip = nil
		return nil
	}
	r.tileLetters[t.ID] = t.Ch
	r.center = append(r.center, *t)
	r.pendingFlip = nil
	r.turnIndex = (r.turnIndex + 1) % len(r.turnOrder)
	for pid := range r.claimCooldowns {
		r.cancelSlot(timerSlot{kind: slotClaimCooldown, playerID: pid})
		delete(r.claimCooldowns, pid)
	}
	r.record(replay.KindFlipRevealed)
	if r.bag.Count() == 0 && len(r.center) > 0 && r.endTimerEndsAt == 0 {
		r.endTimerEndsAt = r.TimeFunc() + game.EndCountdownMs
		r.schedule(timerSlot{kind: slotEndCountdown}, game.EndCountdownMs)
	}
	if err := r.arbitratePreSteals(); err != nil {
		return err
	}
	r.scheduleAutoFlip()
	return r.checkInvariants()
}

// expireClaimWindow places the window holder on cooldown and returns the room to idle.
func (r *Room) expireClaimWindow() error {
	if r.claimWindow == nil {
		return nil
	}
	pid := r.claimWindow.PlayerID
	cooldownMs := int64(r.settings.ClaimTimerSeconds) * 1000
	r.claimCooldowns[pid] = r.TimeFunc() + cooldownMs
	r.schedule(timerSlot{kind: slotClaimCooldown, playerID: pid}, cooldownMs)
	r.claimWindow = nil
	r.cancelSlot(timerSlot{kind: slotClaimWindow})
	r.record(replay.KindClaimExpired)
	r.scheduleAutoFlip()
	return nil
}

// fireCooldownEnd lets a cooled-down player claim again.
func (r *Room) fireCooldownEnd(playerID string) {
	delete(r.claimCooldowns, playerID)
}

// fireEndCountdown finishes the game.
func (r *Room) fireEndCountdown() {
	if r.status != game.StatusInGame {
		return
	}
	r.status = game.StatusEnded
	r.claimWindow = nil
	r.pendingFlip = nil
	r.record(replay.KindGameEnded)
	r.scheduler.Stop()
}

// failGame ends the room after an internal error, telling viewers only that
// something went wrong.
func (r *Room) failGame(send messageSender) {
	if r.status == game.StatusEnded {
		return
	}
	r.status = game.StatusEnded
	r.claimWindow = nil
	r.pendingFlip = nil
	r.record(replay.KindGameEnded)
	r.scheduler.Stop()
	for _, pid := range r.viewerIDs() {
		m := message.Message{
			Type:     message.SocketError,
			PlayerID: pid,
			Info:     "internal game error",
		}
		send(m)
	}
}
