package game

// MoveResult is the outcome of an accepted engine call. Exactly one of the
// variant types below is returned; rejected calls return an error instead.
type MoveResult interface {
	moveResult()
}

// Placed is an accepted stone placement. Seq numbers the accepted actions of
// a game (placements, passes, resignation) from 0 in the order they were played.
type Placed struct {
	Move     Move
	Captured []Position
	Next     *GamePlayer
	Seq      int
}

// Passed is a pass that hands the turn to the opponent.
type Passed struct {
	Player *GamePlayer
	Next   *GamePlayer
	Seq    int
}

// NegotiationStarted follows the second of two consecutive passes. Next is
// the player who moves if the negotiation fails.
type NegotiationStarted struct {
	Player *GamePlayer
	Next   *GamePlayer
	Seq    int
}

// Resigned ends the game in favour of Winner.
type Resigned struct {
	Loser  *GamePlayer
	Winner *GamePlayer
	Seq    int
}

// Marked lists positions newly marked as dead by Player.
type Marked struct {
	Player    *GamePlayer
	Positions []Position
}

// NegotiationWaiting means Player is done marking and the opponent is not.
type NegotiationWaiting struct {
	Player *GamePlayer
}

// NegotiationAgreed means both sides proposed the same dead stones. The stones
// are removed and the game is finished.
type NegotiationAgreed struct {
	Removed []Position
	Score   ScoreResult
}

// NegotiationFailed means the proposals differed; play resumes with Next.
type NegotiationFailed struct {
	Next *GamePlayer
}

func (Placed) moveResult()             {}
func (Passed) moveResult()             {}
func (NegotiationStarted) moveResult() {}
func (Resigned) moveResult()           {}
func (Marked) moveResult()             {}
func (NegotiationWaiting) moveResult() {}
func (NegotiationAgreed) moveResult()  {}
func (NegotiationFailed) moveResult()  {}

// ScoreResult is a scoring snapshot. Winner is nil on a draw.
type ScoreResult struct {
	BlackTerritory int
	WhiteTerritory int
	BlackCaptures  int
	WhiteCaptures  int
	BlackScore     int
	WhiteScore     int
	Winner         *GamePlayer
}

// IsDraw reports whether neither side won.
func (s ScoreResult) IsDraw() bool {
	return s.Winner == nil
}
