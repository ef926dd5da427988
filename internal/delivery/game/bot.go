package game

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"go.uber.org/zap"

	"gogame/internal/bootstrap"
	"gogame/internal/domain/game"
)

// bot directions: right, down, left, up
var botDirections = []game.Position{{Col: 1, Row: 0}, {Col: 0, Row: 1}, {Col: -1, Row: 0}, {Col: 0, Row: -1}}

// BotHandler plays one seat without a connection. It polls the engine, plays
// next to its previous stone when it can and copies the opponent's dead stone
// proposal during negotiation.
type BotHandler struct {
	log     *zap.SugaredLogger
	session *Session
	player  *game.GamePlayer

	pollInterval time.Duration
	startDelay   time.Duration
	maxAttempts  int
	rng          *rand.Rand

	lastMove  *game.Position
	closed    chan struct{}
	closeOnce sync.Once
}

func NewBotHandler(cfg *bootstrap.Config, log *zap.SugaredLogger, player *game.GamePlayer) *BotHandler {
	b := &BotHandler{
		log:          log.With("player", player.Name),
		player:       player,
		pollInterval: time.Second,
		startDelay:   2 * time.Second,
		maxAttempts:  10,
		rng:          rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64())),
		closed:       make(chan struct{}),
	}
	if cfg != nil {
		if cfg.BotPollInterval > 0 {
			b.pollInterval = cfg.BotPollInterval
		}
		if cfg.BotStartDelay >= 0 {
			b.startDelay = cfg.BotStartDelay
		}
		if cfg.BotMaxAttempts > 0 {
			b.maxAttempts = cfg.BotMaxAttempts
		}
	}
	return b
}

func (b *BotHandler) Join(s *Session) error {
	b.session = s
	b.log = b.log.With("session", s.ID())
	return s.Seat(b)
}

func (b *BotHandler) Player() *game.GamePlayer {
	return b.player
}

// Send drops the line; the bot reads the engine directly.
func (b *BotHandler) Send(string) {}

func (b *BotHandler) Close() {
	b.closeOnce.Do(func() { close(b.closed) })
}

func (b *BotHandler) Run(ctx context.Context) error {
	if !b.sleep(ctx, b.startDelay) {
		return nil
	}
	ticker := time.NewTicker(b.pollInterval)
	defer ticker.Stop()

	for {
		if b.session.Engine().Ended() {
			return nil
		}
		b.step()
		select {
		case <-ctx.Done():
			return nil
		case <-b.closed:
			return nil
		case <-ticker.C:
		}
	}
}

func (b *BotHandler) step() {
	engine := b.session.Engine()
	switch engine.Phase() {
	case game.PhasePlaying:
		if engine.CurrentPlayer() == b.player {
			b.play()
		}
	case game.PhaseNegotiation:
		b.negotiate()
	}
}

// play tries up to maxAttempts candidates and passes when none is legal.
func (b *BotHandler) play() {
	tried := make(map[game.Position]struct{})
	for i := 0; i < b.maxAttempts; i++ {
		pos, ok := b.candidate(b.session.Engine().State().Board, tried)
		if !ok {
			break
		}
		tried[pos] = struct{}{}
		if err := b.session.Place(b, pos); err == nil {
			b.lastMove = &pos
			return
		}
	}
	b.log.Debugw("no legal move found, passing", "attempts", len(tried))
	_ = b.session.Pass(b)
}

// candidate prefers an empty cell next to the last stone and falls back to a
// uniformly random empty cell.
func (b *BotHandler) candidate(board *game.Board, tried map[game.Position]struct{}) (game.Position, bool) {
	usable := func(p game.Position) bool {
		_, seen := tried[p]
		return !seen && board.IsEmpty(p)
	}

	if b.lastMove != nil {
		dirs := append([]game.Position(nil), botDirections...)
		b.rng.Shuffle(len(dirs), func(i, j int) { dirs[i], dirs[j] = dirs[j], dirs[i] })
		for _, d := range dirs {
			p := game.Position{Col: b.lastMove.Col + d.Col, Row: b.lastMove.Row + d.Row}
			if usable(p) {
				return p, true
			}
		}
	}

	var empty []game.Position
	for _, p := range board.Positions() {
		if usable(p) {
			empty = append(empty, p)
		}
	}
	if len(empty) == 0 {
		return game.Position{}, false
	}
	return empty[b.rng.IntN(len(empty))], true
}

// negotiate waits for the opponent to finish, then proposes the same stones.
func (b *BotHandler) negotiate() {
	engine := b.session.Engine()
	if engine.DoneMarking(b.player) {
		return
	}
	opponent, err := engine.Opponent(b.player)
	if err != nil || !engine.DoneMarking(opponent) {
		return
	}
	for _, pos := range engine.Marks(opponent) {
		_ = b.session.Mark(b, pos)
	}
	_ = b.session.FinishMarking(b)
}

func (b *BotHandler) sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-b.closed:
		return false
	case <-t.C:
		return true
	}
}
