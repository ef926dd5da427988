package game

import (
	"gogame/internal/domain/game"
	"gogame/internal/usecase/board"
)

// score is territory plus captures for each colour. Neutral regions, bordered by
// no stones or by both colours, count for nobody.
func (e *Engine) score() game.ScoreResult {
	res := game.ScoreResult{
		BlackCaptures: e.blackCaptures,
		WhiteCaptures: e.whiteCaptures,
	}
	visited := make(board.PositionSet)
	for _, p := range e.board.Positions() {
		if !e.board.IsEmpty(p) || visited.Has(p) {
			continue
		}
		region := board.EmptyRegion(e.board, p, visited)
		switch board.Owner(e.board, region) {
		case game.Black:
			res.BlackTerritory += len(region)
		case game.White:
			res.WhiteTerritory += len(region)
		}
	}
	res.BlackScore = res.BlackTerritory + res.BlackCaptures
	res.WhiteScore = res.WhiteTerritory + res.WhiteCaptures
	switch {
	case res.BlackScore > res.WhiteScore:
		res.Winner = e.black
	case res.WhiteScore > res.BlackScore:
		res.Winner = e.white
	}
	return res
}
