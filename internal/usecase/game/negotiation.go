package game

import (
	"sort"

	"gogame/internal/domain/game"
	errs "gogame/internal/errors"
	"gogame/internal/usecase/board"
)

func (e *Engine) startNegotiation() {
	e.phase = game.PhaseNegotiation
	e.marks = make(map[game.StoneColor]map[game.Position]struct{}, 2)
	e.done = make(map[game.StoneColor]bool, 2)
}

func (e *Engine) mark(player *game.GamePlayer, pos game.Position) (game.MoveResult, error) {
	if e.ended {
		return nil, errs.ErrGameEnded
	}
	if _, err := e.opponent(player); err != nil {
		return nil, err
	}
	if e.phase != game.PhaseNegotiation {
		return nil, errs.ErrNotNegotiating
	}
	if e.done[player.Color] {
		return nil, errs.ErrAlreadyDone
	}

	// a stone stands for its whole group; anything else is kept as given and
	// skipped when the marks are applied
	targets := board.Group(e.board, pos, make(board.PositionSet))
	if len(targets) == 0 {
		targets = []game.Position{pos}
	}

	set := e.marks[player.Color]
	if set == nil {
		set = make(map[game.Position]struct{})
		e.marks[player.Color] = set
	}
	var added []game.Position
	for _, p := range targets {
		if _, ok := set[p]; ok {
			continue
		}
		set[p] = struct{}{}
		added = append(added, p)
	}
	return game.Marked{Player: player, Positions: added}, nil
}

func (e *Engine) finishMarking(player *game.GamePlayer) (game.MoveResult, error) {
	if e.ended {
		return nil, errs.ErrGameEnded
	}
	if _, err := e.opponent(player); err != nil {
		return nil, err
	}
	if e.phase != game.PhaseNegotiation {
		return nil, errs.ErrNotNegotiating
	}
	if e.done[player.Color] {
		return nil, errs.ErrAlreadyDone
	}
	e.done[player.Color] = true
	if !e.done[game.Black] || !e.done[game.White] {
		return game.NegotiationWaiting{Player: player}, nil
	}
	return e.resolveNegotiation(), nil
}

func (e *Engine) resolveNegotiation() game.MoveResult {
	blackMarks, whiteMarks := e.marks[game.Black], e.marks[game.White]
	if !samePositions(blackMarks, whiteMarks) {
		e.lastNegotiationSucceeded = false
		e.phase = game.PhasePlaying
		e.marks = make(map[game.StoneColor]map[game.Position]struct{}, 2)
		e.done = make(map[game.StoneColor]bool, 2)
		e.lastMoveWasPass = false
		return game.NegotiationFailed{Next: e.current}
	}

	var removed []game.Position
	for _, p := range sortedPositions(blackMarks) {
		stone := e.board.At(p)
		if stone == game.Empty {
			continue
		}
		e.board.Remove(p)
		removed = append(removed, p)
		// a dead stone is a prisoner of the other colour
		e.addCaptures(stone.Other(), 1)
	}

	e.ended = true
	e.phase = game.PhaseFinished
	e.current = nil
	e.lastNegotiationSucceeded = true
	return game.NegotiationAgreed{Removed: removed, Score: e.score()}
}

func samePositions(a, b map[game.Position]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for p := range a {
		if _, ok := b[p]; !ok {
			return false
		}
	}
	return true
}

func sortedPositions(set map[game.Position]struct{}) []game.Position {
	out := make([]game.Position, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Row != out[j].Row {
			return out[i].Row < out[j].Row
		}
		return out[i].Col < out[j].Col
	})
	return out
}
