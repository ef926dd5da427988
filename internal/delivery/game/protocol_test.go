package game

import (
	"errors"
	"fmt"
	"testing"

	"gogame/internal/domain/game"
	errs "gogame/internal/errors"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    Command
		wantErr error
	}{
		{name: "placement", line: "2 3", want: Command{Kind: CmdPlace, Position: game.Position{Col: 2, Row: 3}}},
		{name: "placement with spaces", line: "  4   5  ", want: Command{Kind: CmdPlace, Position: game.Position{Col: 4, Row: 5}}},
		{name: "negative coordinates parse", line: "-1 0", want: Command{Kind: CmdPlace, Position: game.Position{Col: -1, Row: 0}}},
		{name: "pass", line: "pass", want: Command{Kind: CmdPass}},
		{name: "pass upper case", line: "PASS", want: Command{Kind: CmdPass}},
		{name: "pass shorthand", line: "pas", want: Command{Kind: CmdPass}},
		{name: "resign", line: "Resign", want: Command{Kind: CmdResign}},
		{name: "mark", line: "NEGOTIATE_MARK 1 2", want: Command{Kind: CmdMark, Position: game.Position{Col: 1, Row: 2}}},
		{name: "done", line: "negotiate_done", want: Command{Kind: CmdDone}},
		{name: "game mode", line: "SET_GAME_MODE pvp", want: Command{Kind: CmdSetGameMode, Arg: "pvp"}},
		{name: "board size", line: "SET_BOARD_SIZE 13", want: Command{Kind: CmdSetBoardSize, Arg: "13"}},
		{name: "empty", line: "   ", wantErr: errs.ErrEmptyCommand},
		{name: "single number", line: "3", wantErr: errs.ErrMissingArguments},
		{name: "unknown word", line: "hello", wantErr: errs.ErrUnknownCommand},
		{name: "non numeric column", line: "a 3", wantErr: errs.ErrNonNumeric},
		{name: "non numeric row", line: "3 b", wantErr: errs.ErrNonNumeric},
		{name: "mark without row", line: "NEGOTIATE_MARK 1", wantErr: errs.ErrMissingArguments},
		{name: "mark non numeric", line: "NEGOTIATE_MARK x y", wantErr: errs.ErrNonNumeric},
		{name: "game mode without value", line: "SET_GAME_MODE", wantErr: errs.ErrMissingArguments},
		{name: "board size without value", line: "SET_BOARD_SIZE", wantErr: errs.ErrMissingArguments},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCommand(tt.line)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Unexpected error:\nwant: %v,\ngot: %v.", tt.wantErr, err)
			}
			if tt.wantErr != nil {
				if !errs.IsInputError(err) {
					t.Errorf("Expected an input error, got %v", err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("Unexpected command:\nwant: %+v,\ngot: %+v.", tt.want, got)
			}
		})
	}
}

func TestParseBoardSize(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{in: "9", want: 9},
		{in: "13", want: 13},
		{in: " 19 ", want: 19},
		{in: "10", wantErr: true},
		{in: "0", wantErr: true},
		{in: "nine", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseBoardSize(tt.in)
			if tt.wantErr {
				if !errors.Is(err, errs.ErrInvalidBoardSize) {
					t.Fatalf("Expected ErrInvalidBoardSize, got %v", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("Unexpected result:\nwant: %d,\ngot: %d (%v).", tt.want, got, err)
			}
		})
	}
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{"BOT": ModeBot, "bot": ModeBot, " pvp ": ModePVP} {
		got, err := ParseMode(in)
		if err != nil || got != want {
			t.Errorf("ParseMode(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseMode("CHESS"); !errors.Is(err, errs.ErrInvalidGameMode) {
		t.Errorf("Expected ErrInvalidGameMode, got %v", err)
	}
}

func TestErrorText(t *testing.T) {
	if got := errorText(fmt.Errorf("%w: %q", errs.ErrUnknownCommand, "x")); got != `INPUT ERROR: unknown command: "x"` {
		t.Errorf("Unexpected input error text: %q", got)
	}
	if got := errorText(errs.ErrKo); got != "ERROR: "+errs.ErrKo.Error() {
		t.Errorf("Unexpected rule error text: %q", got)
	}
}

func TestScoreLines(t *testing.T) {
	black := game.NewPlayer("BlackPlayer", game.Black)

	lines := scoreLines(game.ScoreResult{BlackScore: 12, WhiteScore: 7, Winner: black})
	want := []string{
		"TEXT GAME OVER - SUMMARY:",
		"TEXT Black score: 12 points.",
		"TEXT White score: 7 points.",
		"TEXT Winner: BlackPlayer (BLACK)",
	}
	if fmt.Sprint(lines) != fmt.Sprint(want) {
		t.Errorf("Unexpected score lines:\nwant: %q,\ngot: %q.", want, lines)
	}

	draw := scoreLines(game.ScoreResult{})
	if draw[len(draw)-1] != "TEXT Draw!" {
		t.Errorf("Unexpected draw line: %q", draw[len(draw)-1])
	}
}

func TestWireLines(t *testing.T) {
	black := game.NewPlayer("BlackPlayer", game.Black)
	white := game.NewPlayer("WhitePlayer", game.White)

	tests := []struct {
		got, want string
	}{
		{moveLine(game.Move{Position: game.Position{Col: 3, Row: 4}, Player: black}), "MOVE 3 4 BLACK"},
		{captureLine(game.Position{Col: 0, Row: 8}), "CAPTURE 0 8"},
		{passLine(white), "PASS WHITE"},
		{resignLine(game.Resigned{Loser: black, Winner: white}), "RESIGN BLACK WHITE"},
		{markedLine(game.Position{Col: 1, Row: 1}), "NEGOTATE_MARKED 1 1"},
		{opponentMarkedLine(game.Position{Col: 1, Row: 1}), "OPPONENT_NEGOTATE_MARKED 1 1"},
		{configLine(13), "CONFIG BOARD_SIZE 13"},
		{statusText(white), "Turn: WhitePlayer (WHITE)"},
		{statusText(nil), "Turn: (none)"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("Unexpected line:\nwant: %q,\ngot: %q.", tt.want, tt.got)
		}
	}
}
