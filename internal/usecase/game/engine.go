package game

import (
	"sync"

	"gogame/internal/domain/game"
	errs "gogame/internal/errors"
)

// Engine owns the complete state of one game. Every exported method runs under
// a single mutex, so two participants can call it concurrently.
type Engine struct {
	mu sync.Mutex

	board   *game.Board
	black   *game.GamePlayer
	white   *game.GamePlayer
	current *game.GamePlayer

	blackCaptures int
	whiteCaptures int

	// ko bookkeeping: board before the last accepted placement and whether
	// that placement captured exactly one stone
	previousSnapshot      game.Snapshot
	hasPreviousSnapshot   bool
	singleCaptureLastMove bool

	lastMoveWasPass bool
	ended           bool
	phase           game.Phase
	actions         int

	marks                    map[game.StoneColor]map[game.Position]struct{}
	done                     map[game.StoneColor]bool
	lastNegotiationSucceeded bool
}

// State is a copy of the engine state taken under the lock.
type State struct {
	Board                    *game.Board
	Phase                    game.Phase
	Black                    *game.GamePlayer
	White                    *game.GamePlayer
	Current                  *game.GamePlayer
	BlackCaptures            int
	WhiteCaptures            int
	Ended                    bool
	LastMoveWasPass          bool
	LastNegotiationSucceeded bool
}

func NewEngine(board *game.Board) *Engine {
	return &Engine{
		board: board,
		phase: game.PhasePlaying,
		marks: make(map[game.StoneColor]map[game.Position]struct{}, 2),
		done:  make(map[game.StoneColor]bool, 2),
	}
}

// SetPlayers seats both players. Black moves first.
func (e *Engine) SetPlayers(black, white *game.GamePlayer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.black = black
	e.white = white
	e.current = black
}

// ApplyMove places a stone for move.Player. A rejected move leaves the engine untouched.
func (e *Engine) ApplyMove(move game.Move) (game.MoveResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.applyMove(move)
}

// Pass gives up the turn. A second consecutive pass starts dead stone negotiation.
func (e *Engine) Pass(player *game.GamePlayer) (game.MoveResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pass(player)
}

// Resign ends the game for player regardless of whose turn it is.
func (e *Engine) Resign(player *game.GamePlayer) (game.MoveResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.resign(player)
}

// Mark proposes the stone group at pos as dead.
func (e *Engine) Mark(player *game.GamePlayer, pos game.Position) (game.MoveResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mark(player, pos)
}

// FinishMarking records that player has no more marks. Once both sides are
// done the proposals are compared and the negotiation resolves.
func (e *Engine) FinishMarking(player *game.GamePlayer) (game.MoveResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.finishMarking(player)
}

// Score counts territory and captures. It does not change the engine.
func (e *Engine) Score() game.ScoreResult {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.score()
}

// Marks returns the positions player has proposed as dead, sorted row-major.
func (e *Engine) Marks(player *game.GamePlayer) []game.Position {
	e.mu.Lock()
	defer e.mu.Unlock()
	if player == nil {
		return nil
	}
	return sortedPositions(e.marks[player.Color])
}

// DoneMarking reports whether player already signalled the end of marking.
func (e *Engine) DoneMarking(player *game.GamePlayer) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return player != nil && e.done[player.Color]
}

func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return State{
		Board:                    e.board.Clone(),
		Phase:                    e.phase,
		Black:                    e.black,
		White:                    e.white,
		Current:                  e.current,
		BlackCaptures:            e.blackCaptures,
		WhiteCaptures:            e.whiteCaptures,
		Ended:                    e.ended,
		LastMoveWasPass:          e.lastMoveWasPass,
		LastNegotiationSucceeded: e.lastNegotiationSucceeded,
	}
}

func (e *Engine) CurrentPlayer() *game.GamePlayer {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current
}

func (e *Engine) Ended() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ended
}

func (e *Engine) Phase() game.Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.phase
}

// BoardSize never changes, so it needs no lock.
func (e *Engine) BoardSize() int {
	return e.board.Size()
}

// Opponent returns the other seated player, or ErrUnknownPlayer.
func (e *Engine) Opponent(player *game.GamePlayer) (*game.GamePlayer, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.opponent(player)
}

func (e *Engine) opponent(player *game.GamePlayer) (*game.GamePlayer, error) {
	switch {
	case player == nil:
		return nil, errs.ErrUnknownPlayer
	case player == e.black:
		return e.white, nil
	case player == e.white:
		return e.black, nil
	}
	return nil, errs.ErrUnknownPlayer
}

// nextSeq hands out the number of the action being accepted.
func (e *Engine) nextSeq() int {
	seq := e.actions
	e.actions++
	return seq
}

func (e *Engine) switchPlayers() {
	if e.current == e.black {
		e.current = e.white
	} else {
		e.current = e.black
	}
}

func (e *Engine) addCaptures(color game.StoneColor, n int) {
	switch color {
	case game.Black:
		e.blackCaptures += n
	case game.White:
		e.whiteCaptures += n
	}
}
