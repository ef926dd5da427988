package game

import (
	"fmt"

	"gogame/internal/domain/game"
	errs "gogame/internal/errors"
	"gogame/internal/usecase/board"
)

func (e *Engine) applyMove(move game.Move) (game.MoveResult, error) {
	if e.ended {
		return nil, errs.ErrGameEnded
	}
	if e.current == nil {
		return nil, errs.ErrPlayersNotInitialized
	}
	if move.Player != e.current {
		return nil, errs.ErrOpponentTurn
	}
	if e.phase == game.PhaseNegotiation {
		return nil, errs.ErrNegotiationInProgress
	}
	if err := e.validatePlacement(move.Position, move.Player.Color); err != nil {
		return nil, err
	}

	pos, color := move.Position, move.Player.Color
	before := e.board.Snapshot()
	e.board.Set(pos, color)

	captured := e.captureAround(pos, color)
	if len(captured) == 0 {
		own := board.Group(e.board, pos, make(board.PositionSet))
		if board.Liberties(e.board, own) == 0 {
			e.board.Remove(pos)
			return nil, fmt.Errorf("%w: %v", errs.ErrSuicide, pos)
		}
	}

	single := len(captured) == 1
	if single && e.singleCaptureLastMove && e.hasPreviousSnapshot && e.board.Snapshot() == e.previousSnapshot {
		e.rollback(pos, captured, color)
		return nil, fmt.Errorf("%w: %v", errs.ErrKo, pos)
	}

	e.previousSnapshot = before
	e.hasPreviousSnapshot = true
	e.singleCaptureLastMove = single
	e.lastMoveWasPass = false
	e.addCaptures(color, len(captured))
	e.switchPlayers()

	return game.Placed{Move: move, Captured: captured, Next: e.current, Seq: e.nextSeq()}, nil
}

func (e *Engine) validatePlacement(pos game.Position, color game.StoneColor) error {
	if color == game.Empty {
		return errs.ErrInvalidColor
	}
	stone, err := e.board.Get(pos)
	if err != nil {
		return err
	}
	if stone != game.Empty {
		return fmt.Errorf("%w: %v", errs.ErrOccupied, pos)
	}
	return nil
}

// captureAround removes every opponent group next to pos left without liberties.
func (e *Engine) captureAround(pos game.Position, color game.StoneColor) []game.Position {
	opponent := color.Other()
	visited := make(board.PositionSet)
	var captured []game.Position
	for _, n := range board.Neighbors(e.board, pos) {
		if e.board.At(n) != opponent || visited.Has(n) {
			continue
		}
		group := board.FloodFill(e.board, n, opponent, visited)
		if board.Liberties(e.board, group) > 0 {
			continue
		}
		for _, stone := range group {
			e.board.Remove(stone)
		}
		captured = append(captured, group...)
	}
	return captured
}

func (e *Engine) rollback(placed game.Position, captured []game.Position, color game.StoneColor) {
	e.board.Remove(placed)
	for _, p := range captured {
		e.board.Set(p, color.Other())
	}
}

func (e *Engine) pass(player *game.GamePlayer) (game.MoveResult, error) {
	if e.ended {
		return nil, errs.ErrGameEnded
	}
	if e.current == nil {
		return nil, errs.ErrPlayersNotInitialized
	}
	if player != e.current {
		return nil, errs.ErrOpponentTurn
	}
	if e.phase == game.PhaseNegotiation {
		return nil, errs.ErrNegotiationInProgress
	}

	e.singleCaptureLastMove = false
	e.hasPreviousSnapshot = false
	e.previousSnapshot = ""

	// the turn stays with the second passer until the negotiation resolves
	if e.lastMoveWasPass {
		e.startNegotiation()
		return game.NegotiationStarted{Player: player, Next: e.current, Seq: e.nextSeq()}, nil
	}
	e.lastMoveWasPass = true
	e.switchPlayers()
	return game.Passed{Player: player, Next: e.current, Seq: e.nextSeq()}, nil
}

func (e *Engine) resign(player *game.GamePlayer) (game.MoveResult, error) {
	if e.ended {
		return nil, errs.ErrGameEnded
	}
	winner, err := e.opponent(player)
	if err != nil {
		return nil, err
	}
	e.current = nil
	e.ended = true
	e.phase = game.PhaseFinished
	return game.Resigned{Loser: player, Winner: winner, Seq: e.nextSeq()}, nil
}
