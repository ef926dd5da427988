package game

import (
	"fmt"
	"strconv"
	"strings"

	"gogame/internal/domain/game"
	errs "gogame/internal/errors"
)

// Server to client messages.
const (
	MsgRequestGameMode  = "REQUEST_GAME_MODE"
	MsgRequestBoardSize = "REQUEST_BOARD_SIZE"
	MsgGameStart        = "GAME_START"
	MsgYourTurn         = "YOUR_TURN"
	MsgOpponentTurn     = "OPPONENT_TURN"
	MsgNegotiateStart   = "NEGOTIATE_START"
	MsgNegotiateDoneAck = "NEGOTIATE_DONE_ACK"
	MsgOpponentDone     = "OPPONENT_NEGOTIATE_DONE"
	MsgOpponentFinished = "OPPONENT_FINISHED_MARKING"
	msgConfigBoardSize  = "CONFIG BOARD_SIZE"
	msgMove             = "MOVE"
	msgCapture          = "CAPTURE"
	msgPass             = "PASS"
	msgResign           = "RESIGN"
	msgText             = "TEXT"
	msgMarked           = "NEGOTATE_MARKED"
	msgOpponentMarked   = "OPPONENT_NEGOTATE_MARKED"
	msgNegotiateWaiting = "NEGOTIATE_WAITING"
)

// Mode is how the second seat of a game is filled.
type Mode string

const (
	ModeBot Mode = "BOT"
	ModePVP Mode = "PVP"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToUpper(strings.TrimSpace(s))) {
	case ModeBot:
		return ModeBot, nil
	case ModePVP:
		return ModePVP, nil
	}
	return "", fmt.Errorf("%w: got %q", errs.ErrInvalidGameMode, s)
}

type CommandKind int

const (
	CmdPlace CommandKind = iota
	CmdPass
	CmdResign
	CmdMark
	CmdDone
	CmdSetGameMode
	CmdSetBoardSize
)

// Command is one parsed client line.
type Command struct {
	Kind     CommandKind
	Position game.Position
	Arg      string
}

// ParseCommand reads a client line. Keywords are case-insensitive.
func ParseCommand(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, errs.ErrEmptyCommand
	}

	switch strings.ToUpper(fields[0]) {
	case "PASS", "PAS":
		return Command{Kind: CmdPass}, nil
	case "RESIGN":
		return Command{Kind: CmdResign}, nil
	case "NEGOTIATE_DONE":
		return Command{Kind: CmdDone}, nil
	case "NEGOTIATE_MARK":
		if len(fields) < 3 {
			return Command{}, fmt.Errorf("%w: NEGOTIATE_MARK needs a column and a row", errs.ErrMissingArguments)
		}
		pos, err := parsePosition(fields[1], fields[2])
		if err != nil {
			return Command{}, err
		}
		return Command{Kind: CmdMark, Position: pos}, nil
	case "SET_GAME_MODE":
		if len(fields) < 2 {
			return Command{}, fmt.Errorf("%w: SET_GAME_MODE needs BOT or PVP", errs.ErrMissingArguments)
		}
		return Command{Kind: CmdSetGameMode, Arg: fields[1]}, nil
	case "SET_BOARD_SIZE":
		if len(fields) < 2 {
			return Command{}, fmt.Errorf("%w: SET_BOARD_SIZE needs a size", errs.ErrMissingArguments)
		}
		return Command{Kind: CmdSetBoardSize, Arg: fields[1]}, nil
	}

	if len(fields) < 2 {
		if _, err := strconv.Atoi(fields[0]); err == nil {
			return Command{}, fmt.Errorf("%w: two coordinates are required (col row)", errs.ErrMissingArguments)
		}
		return Command{}, fmt.Errorf("%w: %q", errs.ErrUnknownCommand, fields[0])
	}
	pos, err := parsePosition(fields[0], fields[1])
	if err != nil {
		return Command{}, err
	}
	return Command{Kind: CmdPlace, Position: pos}, nil
}

func parsePosition(col, row string) (game.Position, error) {
	c, err := strconv.Atoi(col)
	if err != nil {
		return game.Position{}, errs.ErrNonNumeric
	}
	r, err := strconv.Atoi(row)
	if err != nil {
		return game.Position{}, errs.ErrNonNumeric
	}
	return game.Position{Col: c, Row: r}, nil
}

// ParseBoardSize accepts only the allowed sizes.
func ParseBoardSize(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || !game.IsAllowedSize(n) {
		return 0, fmt.Errorf("%w: got %q", errs.ErrInvalidBoardSize, s)
	}
	return n, nil
}

func textLine(s string) string {
	return msgText + " " + s
}

func configLine(size int) string {
	return fmt.Sprintf("%s %d", msgConfigBoardSize, size)
}

func moveLine(m game.Move) string {
	return fmt.Sprintf("%s %d %d %s", msgMove, m.Position.Col, m.Position.Row, m.Player.Color)
}

func captureLine(p game.Position) string {
	return fmt.Sprintf("%s %d %d", msgCapture, p.Col, p.Row)
}

func passLine(p *game.GamePlayer) string {
	return msgPass + " " + p.Color.String()
}

func resignLine(r game.Resigned) string {
	return fmt.Sprintf("%s %s %s", msgResign, r.Loser.Color, r.Winner.Color)
}

func markedLine(p game.Position) string {
	return fmt.Sprintf("%s %d %d", msgMarked, p.Col, p.Row)
}

func opponentMarkedLine(p game.Position) string {
	return fmt.Sprintf("%s %d %d", msgOpponentMarked, p.Col, p.Row)
}

func waitingLine() string {
	return msgNegotiateWaiting + " Waiting for the opponent's proposal..."
}

// welcomeLines shows the board and the command summary.
func welcomeLines(b *game.Board) []string {
	lines := []string{textLine("Current board:")}
	for _, row := range strings.Split(strings.TrimRight(b.String(), "\n"), "\n") {
		lines = append(lines, textLine(row))
	}
	return append(lines,
		textLine("Usage: col row, e.g. '2 3' places a stone at column 2, row 3."),
		textLine("Commands: 'pass', 'resign', 'NEGOTIATE_MARK col row', 'NEGOTIATE_DONE'."),
	)
}

func placedText(p game.Placed) string {
	if len(p.Captured) == 0 {
		return "Move accepted."
	}
	return fmt.Sprintf("Move accepted. Captured stones: %d", len(p.Captured))
}

func statusText(current *game.GamePlayer) string {
	if current == nil {
		return "Turn: (none)"
	}
	return fmt.Sprintf("Turn: %s (%s)", current.Name, current.Color)
}

func errorText(err error) string {
	if errs.IsInputError(err) {
		return "INPUT ERROR: " + err.Error()
	}
	return "ERROR: " + err.Error()
}

// scoreLines is the final summary, one TEXT line each.
func scoreLines(s game.ScoreResult) []string {
	lines := []string{
		textLine("GAME OVER - SUMMARY:"),
		textLine(fmt.Sprintf("Black score: %d points.", s.BlackScore)),
		textLine(fmt.Sprintf("White score: %d points.", s.WhiteScore)),
	}
	if s.Winner == nil {
		return append(lines, textLine("Draw!"))
	}
	return append(lines, textLine(fmt.Sprintf("Winner: %s (%s)", s.Winner.Name, s.Winner.Color)))
}
