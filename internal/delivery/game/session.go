package game

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"gogame/internal/domain/game"
	errs "gogame/internal/errors"
	gameuc "gogame/internal/usecase/game"
	"gogame/internal/usecase/recording"
)

// Participant is one seat of a game: a network client or the bot.
type Participant interface {
	Player() *game.GamePlayer
	Send(line string)
	Run(ctx context.Context) error
	Close()
}

// Session binds two participants to one engine. Engine calls are serialized by
// the engine itself; messages are built from the returned result afterwards.
type Session struct {
	id       string
	mode     Mode
	log      *zap.SugaredLogger
	engine   *gameuc.Engine
	recorder recording.Recorder
	onDone   func(*Session)

	ctx    context.Context
	mu     sync.Mutex
	seats  map[game.StoneColor]Participant
	handle recording.GameHandle

	// moves reach the recorder in engine order; pending holds the ones that
	// arrived ahead of nextSeq
	recMu   sync.Mutex
	pending map[int]game.MoveRecord
	nextSeq int

	started  bool
	finished bool
	done     chan struct{}
}

func NewSession(log *zap.SugaredLogger, recorder recording.Recorder, mode Mode, board *game.Board) *Session {
	id := uuid.New().String()
	return &Session{
		id:       id,
		mode:     mode,
		log:      log.With("session", id),
		engine:   gameuc.NewEngine(board),
		recorder: recorder,
		ctx:      context.Background(),
		seats:    make(map[game.StoneColor]Participant, 2),
		pending:  make(map[int]game.MoveRecord),
		done:     make(chan struct{}),
	}
}

func (s *Session) ID() string { return s.id }

func (s *Session) Engine() *gameuc.Engine { return s.engine }

// Done is closed once the game is over and both seats are closed.
func (s *Session) Done() <-chan struct{} { return s.done }

// Seat takes the participant's colour. The welcome is sent right away.
func (s *Session) Seat(p Participant) error {
	s.mu.Lock()
	color := p.Player().Color
	if s.finished {
		s.mu.Unlock()
		return errs.ErrGameEnded
	}
	if _, taken := s.seats[color]; taken || len(s.seats) == 2 {
		s.mu.Unlock()
		return errs.ErrSessionFull
	}
	s.seats[color] = p
	waiting := len(s.seats) < 2
	s.mu.Unlock()

	state := s.engine.State()
	for _, line := range welcomeLines(state.Board) {
		p.Send(line)
	}
	p.Send(configLine(state.Board.Size()))
	if waiting {
		p.Send(textLine("Waiting for opponent..."))
	}
	return nil
}

// Start begins play once both seats are filled. Black moves first.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	black, white := s.seats[game.Black], s.seats[game.White]
	if black == nil || white == nil {
		s.mu.Unlock()
		return errs.ErrPlayersNotInitialized
	}
	if s.started {
		s.mu.Unlock()
		return nil
	}
	s.ctx = context.WithoutCancel(ctx)
	s.mu.Unlock()

	s.engine.SetPlayers(black.Player(), white.Player())
	handle, err := s.recorder.StartGame(s.ctx, black.Player(), white.Player(), s.engine.BoardSize())
	if err != nil {
		s.log.Errorw("failed to record game start", "error", err)
	}

	s.mu.Lock()
	s.handle = handle
	s.started = true
	s.mu.Unlock()

	s.log.Infow("game started", "mode", s.mode, "size", s.engine.BoardSize())
	s.broadcast(MsgGameStart)
	s.announceTurn(false)
	return nil
}

// Handle parses one client line and runs it.
func (s *Session) Handle(p Participant, line string) {
	s.mu.Lock()
	started, finished := s.started, s.finished
	s.mu.Unlock()

	switch {
	case finished || s.engine.Ended():
		p.Send(textLine("Game ended."))
		return
	case !started:
		p.Send(textLine(errorText(errs.ErrGameNotStarted)))
		return
	}

	cmd, err := ParseCommand(line)
	if err != nil {
		s.log.Debugw("bad command", "player", p.Player().Name, "line", line, "error", err)
		p.Send(textLine(errorText(err)))
		return
	}

	switch cmd.Kind {
	case CmdPlace:
		_ = s.Place(p, cmd.Position)
	case CmdPass:
		_ = s.Pass(p)
	case CmdResign:
		_ = s.Resign(p)
	case CmdMark:
		_ = s.Mark(p, cmd.Position)
	case CmdDone:
		_ = s.FinishMarking(p)
	default:
		p.Send(textLine(errorText(errs.ErrUnknownCommand)))
	}
}

func (s *Session) Place(p Participant, pos game.Position) error {
	move := game.Move{Position: pos, Player: p.Player()}
	res, err := s.engine.ApplyMove(move)
	if err != nil {
		s.reject(p, err)
		return err
	}
	placed := res.(game.Placed)
	s.saveMove(placed.Seq, game.PlacementRecord(move))

	lines := []string{moveLine(placed.Move)}
	for _, c := range placed.Captured {
		lines = append(lines, captureLine(c))
	}
	s.broadcast(lines...)
	p.Send(textLine(placedText(placed)))
	s.announceTurn(true)
	return nil
}

func (s *Session) Pass(p Participant) error {
	res, err := s.engine.Pass(p.Player())
	if err != nil {
		s.reject(p, err)
		return err
	}
	switch r := res.(type) {
	case game.NegotiationStarted:
		s.saveMove(r.Seq, game.PassRecord(p.Player()))
		s.broadcast(passLine(p.Player()))
		s.log.Infow("negotiation started")
		s.broadcast(MsgNegotiateStart)
	case game.Passed:
		s.saveMove(r.Seq, game.PassRecord(p.Player()))
		s.broadcast(passLine(p.Player()))
		s.announceTurn(true)
	}
	return nil
}

func (s *Session) Resign(p Participant) error {
	res, err := s.engine.Resign(p.Player())
	if err != nil {
		s.reject(p, err)
		return err
	}
	resigned := res.(game.Resigned)
	s.saveMove(resigned.Seq, game.ResignRecord(p.Player()))
	s.broadcast(resignLine(resigned))
	s.log.Infow("player resigned", "player", p.Player().Name)
	s.finish(resigned.Winner, game.ReasonResign)
	return nil
}

func (s *Session) Mark(p Participant, pos game.Position) error {
	res, err := s.engine.Mark(p.Player(), pos)
	if err != nil {
		s.reject(p, err)
		return err
	}
	opponent := s.opponent(p)
	for _, m := range res.(game.Marked).Positions {
		p.Send(markedLine(m))
		if opponent != nil {
			opponent.Send(opponentMarkedLine(m))
		}
	}
	return nil
}

func (s *Session) FinishMarking(p Participant) error {
	res, err := s.engine.FinishMarking(p.Player())
	if err != nil {
		s.reject(p, err)
		return err
	}
	opponent := s.opponent(p)

	switch r := res.(type) {
	case game.NegotiationWaiting:
		p.Send(waitingLine())
		if opponent != nil {
			opponent.Send(MsgOpponentFinished)
		}
	case game.NegotiationAgreed:
		s.ackDone(p, opponent)
		lines := make([]string, 0, len(r.Removed))
		for _, pos := range r.Removed {
			lines = append(lines, captureLine(pos))
		}
		s.broadcast(lines...)
		s.broadcast(scoreLines(r.Score)...)
		s.log.Infow("negotiation agreed", "black", r.Score.BlackScore, "white", r.Score.WhiteScore)
		s.finish(r.Score.Winner, game.ReasonScore)
	case game.NegotiationFailed:
		s.ackDone(p, opponent)
		s.log.Infow("negotiation failed")
		s.broadcast(textLine("NEGOTIATION_FAILED: No agreement, the game continues."))
		s.announceTurn(false)
	}
	return nil
}

// Leave handles a lost participant. The opponent is told and the game ends.
func (s *Session) Leave(p Participant) {
	s.mu.Lock()
	if s.finished {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	s.log.Infow("participant disconnected", "player", p.Player().Name)
	if opponent := s.opponent(p); opponent != nil {
		opponent.Send(textLine("Opponent disconnected. Game over."))
	}
	s.finish(nil, game.ReasonDisconnect)
}

// Close ends the game without a result, used on server shutdown.
func (s *Session) Close() {
	s.finish(nil, game.ReasonDisconnect)
}

func (s *Session) Summary() game.SessionSummary {
	state := s.engine.State()
	s.mu.Lock()
	started := s.started
	s.mu.Unlock()

	sum := game.SessionSummary{
		ID:            s.id,
		BoardSize:     state.Board.Size(),
		Mode:          string(s.mode),
		Phase:         state.Phase.String(),
		Started:       started,
		BlackCaptures: state.BlackCaptures,
		WhiteCaptures: state.WhiteCaptures,
	}
	if state.Current != nil {
		sum.CurrentColor = state.Current.Color.String()
	}
	if state.Black != nil {
		sum.PlayerBlack = state.Black.Name
	}
	if state.White != nil {
		sum.PlayerWhite = state.White.Name
	}
	return sum
}

func (s *Session) finish(winner *game.GamePlayer, reason game.FinishReason) {
	s.mu.Lock()
	if s.finished {
		s.mu.Unlock()
		return
	}
	s.finished = true
	started, handle := s.started, s.handle
	seats := s.seatList()
	s.mu.Unlock()

	if started && handle != "" {
		s.recMu.Lock()
		if err := s.recorder.FinishGame(s.ctx, handle, winner, reason); err != nil {
			s.log.Errorw("failed to record game end", "error", err)
		}
		s.recMu.Unlock()
	}
	s.log.Infow("game over", "reason", reason, "winner", winner.String())

	for _, p := range seats {
		p.Send(textLine("Game ended."))
		p.Close()
	}
	close(s.done)
	if s.onDone != nil {
		s.onDone(s)
	}
}

func (s *Session) reject(p Participant, err error) {
	if errs.IsRuleViolation(err) {
		s.log.Debugw("move rejected", "player", p.Player().Name, "error", err)
	}
	p.Send(textLine(errorText(err)))
}

func (s *Session) ackDone(p, opponent Participant) {
	p.Send(MsgNegotiateDoneAck)
	if opponent != nil {
		opponent.Send(MsgOpponentDone)
	}
}

// announceTurn tells both sides whose move it is, with the status line first
// when withStatus is set.
func (s *Session) announceTurn(withStatus bool) {
	current := s.engine.CurrentPlayer()
	if withStatus {
		s.broadcast(textLine(statusText(current)))
	}
	for _, p := range s.participants() {
		if p.Player() == current {
			p.Send(MsgYourTurn)
		} else {
			p.Send(MsgOpponentTurn)
		}
	}
}

// saveMove records the action the engine numbered seq. Two handlers may get
// here out of order; records are held back until every earlier one is saved.
func (s *Session) saveMove(seq int, rec game.MoveRecord) {
	s.mu.Lock()
	handle := s.handle
	s.mu.Unlock()

	s.recMu.Lock()
	defer s.recMu.Unlock()
	s.pending[seq] = rec
	for {
		next, ok := s.pending[s.nextSeq]
		if !ok {
			return
		}
		delete(s.pending, s.nextSeq)
		if handle != "" {
			err := s.recorder.SaveMove(s.ctx, handle, next, s.nextSeq)
			if err != nil && !errors.Is(err, errs.ErrGameNotFound) {
				s.log.Errorw("failed to record move", "seq", s.nextSeq, "error", err)
			}
		}
		s.nextSeq++
	}
}

func (s *Session) broadcast(lines ...string) {
	for _, p := range s.participants() {
		for _, line := range lines {
			p.Send(line)
		}
	}
}

func (s *Session) participants() []Participant {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seatList()
}

// seatList returns the seats black first. The caller holds s.mu.
func (s *Session) seatList() []Participant {
	out := make([]Participant, 0, 2)
	for _, c := range []game.StoneColor{game.Black, game.White} {
		if p, ok := s.seats[c]; ok {
			out = append(out, p)
		}
	}
	return out
}

func (s *Session) opponent(p Participant) Participant {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seats[p.Player().Color.Other()]
}
