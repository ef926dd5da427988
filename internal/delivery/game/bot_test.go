package game

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"gogame/internal/bootstrap"
	"gogame/internal/domain/game"
)

func newTestBot(t *testing.T) *BotHandler {
	t.Helper()
	cfg := &bootstrap.Config{BotPollInterval: time.Millisecond, BotStartDelay: 0, BotMaxAttempts: 3}
	return NewBotHandler(cfg, zap.NewNop().Sugar(), game.NewPlayer(botName, game.White))
}

func mustBoard(t *testing.T, size int) *game.Board {
	t.Helper()
	b, err := game.NewBoard(size)
	if err != nil {
		t.Fatalf("Unexpected NewBoard() error: %v", err)
	}
	return b
}

func TestNewBotHandlerConfig(t *testing.T) {
	b := NewBotHandler(nil, zap.NewNop().Sugar(), game.NewPlayer(botName, game.White))
	if b.pollInterval != time.Second || b.startDelay != 2*time.Second || b.maxAttempts != 10 {
		t.Errorf("Unexpected defaults: %v %v %d", b.pollInterval, b.startDelay, b.maxAttempts)
	}

	b = newTestBot(t)
	if b.pollInterval != time.Millisecond || b.startDelay != 0 || b.maxAttempts != 3 {
		t.Errorf("Unexpected configured values: %v %v %d", b.pollInterval, b.startDelay, b.maxAttempts)
	}
}

func TestBotCandidatePrefersAdjacentCell(t *testing.T) {
	b := newTestBot(t)
	board := mustBoard(t, 9)
	last := game.Position{Col: 0, Row: 0}
	board.Set(last, game.White)
	b.lastMove = &last

	adjacent := map[game.Position]bool{{Col: 1, Row: 0}: true, {Col: 0, Row: 1}: true}
	for i := 0; i < 20; i++ {
		pos, ok := b.candidate(board, map[game.Position]struct{}{})
		if !ok || !adjacent[pos] {
			t.Fatalf("Expected a cell next to %v, got %v (%v)", last, pos, ok)
		}
	}
}

func TestBotCandidateFallsBackToRandomEmptyCell(t *testing.T) {
	b := newTestBot(t)
	board := mustBoard(t, 9)
	last := game.Position{Col: 0, Row: 0}
	board.Set(last, game.White)
	board.Set(game.Position{Col: 1, Row: 0}, game.Black)
	b.lastMove = &last

	tried := map[game.Position]struct{}{{Col: 0, Row: 1}: {}}
	pos, ok := b.candidate(board, tried)
	if !ok {
		t.Fatalf("Expected a candidate")
	}
	if !board.IsEmpty(pos) || pos == (game.Position{Col: 0, Row: 1}) {
		t.Errorf("Candidate %v must be an untried empty cell", pos)
	}
}

func TestBotCandidateOnFullBoard(t *testing.T) {
	b := newTestBot(t)
	board := mustBoard(t, 9)
	for _, p := range board.Positions() {
		board.Set(p, game.Black)
	}
	if pos, ok := b.candidate(board, map[game.Position]struct{}{}); ok {
		t.Errorf("Expected no candidate, got %v", pos)
	}
}

func botSession(t *testing.T, board *game.Board) (*Session, *fakeParticipant, *BotHandler) {
	t.Helper()
	s := NewSession(zap.NewNop().Sugar(), &fakeRecorder{}, ModeBot, board)
	human := &fakeParticipant{player: game.NewPlayer(blackName, game.Black)}
	bot := newTestBot(t)
	if err := s.Seat(human); err != nil {
		t.Fatalf("Unexpected Seat() error: %v", err)
	}
	if err := bot.Join(s); err != nil {
		t.Fatalf("Unexpected Join() error: %v", err)
	}
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Unexpected Start() error: %v", err)
	}
	human.take()
	return s, human, bot
}

func TestBotPassesWhenEveryAttemptFails(t *testing.T) {
	board := mustBoard(t, 9)
	// every empty cell is suicide for White
	for _, p := range board.Positions() {
		if (p.Col+p.Row)%2 == 1 {
			board.Set(p, game.Black)
		}
	}
	s, human, bot := botSession(t, board)
	s.Handle(human, "pass")
	human.take()

	bot.step()
	lines := human.take()
	assertContains(t, lines, "PASS WHITE", MsgNegotiateStart)
}

func TestBotCopiesOpponentMarks(t *testing.T) {
	s, human, bot := botSession(t, mustBoard(t, 9))

	s.Handle(human, "4 4")
	if err := s.Pass(bot); err != nil {
		t.Fatalf("Unexpected Pass() error: %v", err)
	}
	s.Handle(human, "pass")
	if s.Engine().Phase() != game.PhaseNegotiation {
		t.Fatalf("Expected negotiation, got %v", s.Engine().Phase())
	}
	human.take()

	// nothing happens until the opponent is done
	bot.step()
	if s.Engine().DoneMarking(bot.Player()) {
		t.Fatalf("Bot must wait for the opponent's proposal")
	}

	s.Handle(human, "NEGOTIATE_MARK 4 4")
	s.Handle(human, "NEGOTIATE_DONE")
	human.take()

	bot.step()
	assertContains(t, human.take(), "OPPONENT_NEGOTATE_MARKED 4 4", MsgOpponentDone,
		"CAPTURE 4 4", "TEXT Winner: Bot (WHITE)", "TEXT Game ended.")
	if !s.Engine().Ended() {
		t.Errorf("Game should be over after agreement")
	}
}

func TestBotRunStopsWhenGameEnds(t *testing.T) {
	s, human, bot := botSession(t, mustBoard(t, 9))
	done := make(chan error, 1)
	go func() { done <- bot.Run(context.Background()) }()

	s.Handle(human, "resign")
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Unexpected Run() error: %v", err)
		}
	case <-time.After(lineTimeout):
		t.Fatalf("Bot did not stop")
	}
}
