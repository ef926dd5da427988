package errors

import "errors"

// Rule violations. The engine rolls the board back before returning one of these.
var (
	ErrGameEnded             = errors.New("game ended")
	ErrPlayersNotInitialized = errors.New("players not initialized")
	ErrOpponentTurn          = errors.New("opponent's turn")
	ErrInvalidColor          = errors.New("stone colour must not be empty")
	ErrOutOfBounds           = errors.New("position is outside the board")
	ErrOccupied              = errors.New("position is already occupied")
	ErrSuicide               = errors.New("suicide move is not allowed")
	ErrKo                    = errors.New("ko: the move would repeat the previous position")
	ErrUnknownPlayer         = errors.New("player does not belong to this game")
)

// Protocol state errors.
var (
	ErrNotNegotiating        = errors.New("dead stone negotiation is not in progress")
	ErrNegotiationInProgress = errors.New("dead stone negotiation is in progress")
	ErrAlreadyDone           = errors.New("marking already finished")
	ErrGameNotStarted        = errors.New("the game has not started yet, waiting for an opponent")
	ErrSessionFull           = errors.New("session already has two players")
)

// Input errors.
var (
	ErrEmptyCommand     = errors.New("empty command")
	ErrMissingArguments = errors.New("missing arguments")
	ErrNonNumeric       = errors.New("coordinates must be numbers")
	ErrUnknownCommand   = errors.New("unknown command")
	ErrInvalidBoardSize = errors.New("allowed board sizes are 9, 13 and 19")
	ErrInvalidGameMode  = errors.New("allowed game modes are BOT and PVP")
)

var ErrGameNotFound = errors.New("game not found")

var ruleViolations = []error{
	ErrGameEnded, ErrPlayersNotInitialized, ErrOpponentTurn, ErrInvalidColor,
	ErrOutOfBounds, ErrOccupied, ErrSuicide, ErrKo, ErrUnknownPlayer,
}

var inputErrors = []error{
	ErrEmptyCommand, ErrMissingArguments, ErrNonNumeric, ErrUnknownCommand,
	ErrInvalidBoardSize, ErrInvalidGameMode,
}

// IsRuleViolation reports whether err is a rejected move under the rules of the game.
func IsRuleViolation(err error) bool {
	return isAny(err, ruleViolations)
}

// IsInputError reports whether err was caused by a malformed command.
func IsInputError(err error) bool {
	return isAny(err, inputErrors)
}

func isAny(err error, targets []error) bool {
	if err == nil {
		return false
	}
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
