package lobby

import (
	"fmt"

	"github.com/handorff/anagram-thief/game/message"
	"github.com/handorff/anagram-thief/game/puzzle"
	"github.com/handorff/anagram-thief/game/view"
)

// handlePractice dispatches a practice command for the session.
func (l *Lobby) handlePractice(m message.Message) {
	ps := l.practiceFor(m.PlayerID)
	var err error
	switch m.Type {
	case message.PracticeConfigure:
		err = l.configurePractice(ps, m)
	case message.PracticeNewPuzzle:
		err = l.dealPractice(ps, m)
	case message.PracticeSolve:
		err = l.solvePractice(ps, m)
	case message.PracticeValidateCustom:
		err = l.validateCustomPuzzle(m)
		if err == nil {
			l.sendSocketMessage(message.Message{
				Type:     message.PracticeState,
				PlayerID: m.PlayerID,
				Info:     "custom puzzle is valid",
			})
		}
	}
	if err != nil {
		l.sendSocketMessage(message.Message{
			Type:     message.SocketWarning,
			PlayerID: m.PlayerID,
			Info:     err.Error(),
		})
		return
	}
	if m.Type != message.PracticeValidateCustom {
		l.sendPracticeState(m.PlayerID, ps)
	}
}

// practiceFor gets or creates the session's practice state.
func (l *Lobby) practiceFor(playerID string) *practiceSession {
	ps, ok := l.practices[playerID]
	if !ok {
		ps = &practiceSession{
			difficulty: defaultPracticeDifficulty,
		}
		l.practices[playerID] = ps
	}
	return ps
}

// configurePractice updates the difficulty and timer settings of the session.
func (l *Lobby) configurePractice(ps *practiceSession, m message.Message) error {
	if m.Difficulty != 0 {
		if m.Difficulty < puzzle.MinDifficulty || m.Difficulty > puzzle.MaxDifficulty {
			return fmt.Errorf("difficulty must be in %v..%v", puzzle.MinDifficulty, puzzle.MaxDifficulty)
		}
		ps.difficulty = m.Difficulty
	}
	switch {
	case m.TimerSeconds < 0:
		return fmt.Errorf("practice timer seconds must not be negative")
	case m.TimerSeconds == 0:
		ps.timerEnabled = false
		ps.timerSeconds = 0
	default:
		ps.timerEnabled = true
		ps.timerSeconds = m.TimerSeconds
	}
	return nil
}

// dealPractice starts a new puzzle, either a shared custom puzzle from the
// message or one generated at the session's difficulty.
func (l *Lobby) dealPractice(ps *practiceSession, m message.Message) error {
	var p *puzzle.Puzzle
	switch {
	case m.Puzzle != nil:
		if err := l.validateCustomPuzzle(m); err != nil {
			return err
		}
		p = m.Puzzle
	default:
		difficulty := ps.difficulty
		if m.Difficulty != 0 {
			if m.Difficulty < puzzle.MinDifficulty || m.Difficulty > puzzle.MaxDifficulty {
				return fmt.Errorf("difficulty must be in %v..%v", puzzle.MinDifficulty, puzzle.MaxDifficulty)
			}
			difficulty = m.Difficulty
			ps.difficulty = difficulty
		}
		generated, err := l.puzzles.Generate(difficulty)
		if err != nil {
			return fmt.Errorf("generating practice puzzle: %w", err)
		}
		p = generated
	}
	ps.puzzle = p
	ps.startedAt = l.timeFunc()
	ps.lastResult = nil
	return nil
}

// solvePractice scores the session's submission against its current puzzle.
// A submission after the practice timer ran out is marked timed out and
// breaks the streak even when the word was a valid play.
func (l *Lobby) solvePractice(ps *practiceSession, m message.Message) error {
	if ps.puzzle == nil {
		return fmt.Errorf("no practice puzzle to solve, deal one first")
	}
	result := l.puzzles.Evaluate(*ps.puzzle, m.Word)
	if ps.timerEnabled && l.timeFunc() > ps.startedAt+int64(ps.timerSeconds)*1000 {
		result.TimedOut = true
	}
	if result.IsValid && !result.TimedOut {
		ps.streak++
	} else {
		ps.streak = 0
	}
	ps.lastResult = &result
	return nil
}

// validateCustomPuzzle checks a shared puzzle from the message.
func (l *Lobby) validateCustomPuzzle(m message.Message) error {
	if m.Puzzle == nil {
		return fmt.Errorf("custom puzzle required")
	}
	if err := l.puzzles.ValidateCustom(*m.Puzzle); err != nil {
		l.log.Printf("custom puzzle rejected: %v", err)
		return fmt.Errorf("Custom puzzle is invalid or has no valid plays.")
	}
	return nil
}

// sendPracticeState sends the session its practice projection.
func (l *Lobby) sendPracticeState(playerID string, ps *practiceSession) {
	l.sendSocketMessage(message.Message{
		Type:     message.PracticeState,
		PlayerID: playerID,
		Practice: &view.Practice{
			Puzzle:       ps.puzzle,
			Difficulty:   ps.difficulty,
			Streak:       ps.streak,
			TimerEnabled: ps.timerEnabled,
			TimerSeconds: ps.timerSeconds,
			StartedAt:    ps.startedAt,
			LastResult:   ps.lastResult,
		},
	})
}
