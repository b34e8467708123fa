package game

import (
	"sort"

	"github.com/handorff/anagram-thief/game"
	"github.com/handorff/anagram-thief/game/message"
	"github.com/handorff/anagram-thief/game/tile"
	"github.com/handorff/anagram-thief/game/view"
)

// Summary projects the room for the public lobby list.
func (r *Room) Summary() view.RoomSummary {
	return view.RoomSummary{
		ID:             r.id,
		Name:           r.settings.Name,
		IsPublic:       r.settings.IsPublic,
		HasCode:        len(r.codeHash) != 0,
		Status:         r.status,
		PlayerCount:    len(r.players),
		MaxPlayers:     r.settings.MaxPlayers,
		SpectatorCount: len(r.spectators),
	}
}

// viewFor projects the room for one viewer.  Other players' pre-steal
// entries are hidden from players while the game runs; spectators and
// everyone in an ended game see everything.
func (r *Room) viewFor(viewerID string, spectator bool) *view.Game {
	seeAll := spectator || r.status == game.StatusEnded
	players := make([]game.PlayerState, 0, len(r.playerOrder))
	for _, pid := range r.playerOrder {
		ps := r.players[pid].State()
		if !seeAll && pid != viewerID {
			ps.PreStealEntries = []game.PreStealEntry{}
		}
		players = append(players, ps)
	}
	spectatorNames := make([]string, 0, len(r.spectators))
	for _, name := range r.spectators {
		spectatorNames = append(spectatorNames, name)
	}
	sort.Strings(spectatorNames)
	v := view.Game{
		RoomID:          r.id,
		Name:            r.settings.Name,
		Status:          r.status,
		HostID:          r.hostID,
		Settings:        r.settings,
		Players:         players,
		Spectators:      spectatorNames,
		PreStealEnabled: r.settings.PreStealEnabled,
	}
	if r.status == game.StatusLobby {
		return &v
	}
	center := make([]tile.Tile, len(r.center))
	copy(center, r.center)
	v.CenterTiles = center
	v.BagCount = r.bag.Count()
	v.BagLetterCounts = r.bag.LettersRemaining()
	v.TurnPlayerID = r.turnPlayerID()
	if r.claimWindow != nil {
		w := *r.claimWindow
		v.ClaimWindow = &w
	}
	if len(r.claimCooldowns) > 0 {
		cooldowns := make(map[string]int64, len(r.claimCooldowns))
		for pid, endsAt := range r.claimCooldowns {
			cooldowns[pid] = endsAt
		}
		v.ClaimCooldowns = cooldowns
	}
	if r.pendingFlip != nil {
		f := *r.pendingFlip
		v.PendingFlip = &f
	}
	precedence := make([]string, len(r.precedenceOrder))
	copy(precedence, r.precedenceOrder)
	v.PrecedenceOrder = precedence
	if r.lastClaimEvent != nil {
		e := *r.lastClaimEvent
		v.LastClaimEvent = &e
	}
	v.EndTimerEndsAt = r.endTimerEndsAt
	if r.status == game.StatusEnded {
		replay := r.recorder.Replay()
		v.Replay = &replay
	}
	return &v
}

// viewerIDs lists every player and spectator id in the room.
func (r *Room) viewerIDs() []string {
	ids := make([]string, 0, len(r.players)+len(r.spectators))
	ids = append(ids, r.playerOrder...)
	for sid := range r.spectators {
		ids = append(ids, sid)
	}
	return ids
}

// broadcast sends each viewer their projection of the room and publishes the
// room's summary for the lobby list.
func (r *Room) broadcast(send messageSender) {
	mt := message.GameState
	if r.status == game.StatusLobby {
		mt = message.RoomState
	}
	for _, pid := range r.playerOrder {
		m := message.Message{
			Type:     mt,
			PlayerID: pid,
			Game:     r.viewFor(pid, false),
		}
		send(m)
	}
	for sid := range r.spectators {
		m := message.Message{
			Type:     mt,
			PlayerID: sid,
			Game:     r.viewFor(sid, true),
		}
		send(m)
	}
	send(message.Message{
		Type:  message.RoomList,
		Rooms: []view.RoomSummary{r.Summary()},
	})
}
