package game

import (
	"context"
	"errors"
	"net"
	"sort"
	"sync"

	"go.uber.org/zap"

	"gogame/internal/bootstrap"
	"gogame/internal/domain/game"
	errs "gogame/internal/errors"
	"gogame/internal/usecase/recording"
)

const (
	blackName = "BlackPlayer"
	whiteName = "WhitePlayer"
	botName   = "Bot"
)

// Lobby pairs incoming connections into sessions and keeps the live ones.
type Lobby struct {
	cfg      *bootstrap.Config
	log      *zap.SugaredLogger
	recorder recording.Recorder

	// ctx is cancelled by Close and ends every connection still in Accept
	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	closed   bool
	waiting  *Session
	sessions map[string]*Session
	wg       sync.WaitGroup
}

func NewLobby(cfg *bootstrap.Config, log *zap.SugaredLogger, recorder recording.Recorder) *Lobby {
	ctx, cancel := context.WithCancel(context.Background())
	return &Lobby{
		cfg:      cfg,
		log:      log,
		recorder: recorder,
		ctx:      ctx,
		cancel:   cancel,
		sessions: make(map[string]*Session),
	}
}

// ServeTCP accepts line protocol clients until ctx is done.
func (l *Lobby) ServeTCP(ctx context.Context, ln net.Listener) error {
	stop := context.AfterFunc(ctx, func() { _ = ln.Close() })
	defer stop()

	l.log.Infof("line protocol listening on %s", ln.Addr())
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		go l.Accept(ctx, NewTCPConn(conn))
	}
}

// Accept serves one connection until its game is over. Close waits for it.
func (l *Lobby) Accept(ctx context.Context, conn LineConn) {
	if !l.track() {
		_ = conn.Close()
		return
	}
	defer l.wg.Done()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(l.ctx, cancel)
	defer stop()

	h := NewClientHandler(l.log, conn)
	l.log.Infow("client connected", "remote", conn.RemoteAddr())

	if s := l.takeWaiting(); s != nil {
		l.joinWaiting(ctx, s, h)
		return
	}

	mode, size, err := l.setup(ctx, h)
	if err != nil {
		l.log.Infow("setup aborted", "remote", conn.RemoteAddr(), "error", err)
		h.Close()
		return
	}

	// someone may have opened a PVP game while this client was choosing
	if mode == ModePVP {
		if s := l.takeWaiting(); s != nil {
			h.Send(textLine("Joining a waiting game."))
			l.joinWaiting(ctx, s, h)
			return
		}
	}

	board, err := game.NewBoard(size)
	if err != nil {
		h.Send(textLine(errorText(err)))
		h.Close()
		return
	}
	s := l.register(mode, board)
	if err := h.Join(s, game.NewPlayer(blackName, game.Black)); err != nil {
		h.Send(textLine(errorText(err)))
		s.Close()
		return
	}

	switch mode {
	case ModeBot:
		bot := NewBotHandler(l.cfg, l.log, game.NewPlayer(botName, game.White))
		if err := bot.Join(s); err != nil {
			s.Close()
			return
		}
		if err := s.Start(ctx); err != nil {
			l.log.Errorw("failed to start game", "session", s.ID(), "error", err)
			s.Close()
			return
		}
		l.wg.Add(1)
		go func() {
			defer l.wg.Done()
			_ = bot.Run(ctx)
		}()
	case ModePVP:
		l.mu.Lock()
		l.waiting = s
		l.mu.Unlock()
	}

	l.serve(ctx, h)
}

// setup asks the first client for the game mode and the board size. Invalid
// answers are reported and asked again.
func (l *Lobby) setup(ctx context.Context, h *ClientHandler) (Mode, int, error) {
	stop := context.AfterFunc(ctx, h.Close)
	defer stop()

	h.Send(MsgRequestGameMode)
	var mode Mode
	for mode == "" {
		line, err := h.conn.ReadLine()
		if err != nil {
			return "", 0, err
		}
		cmd, err := ParseCommand(line)
		if err == nil && cmd.Kind != CmdSetGameMode {
			err = errs.ErrInvalidGameMode
		}
		if err == nil {
			mode, err = ParseMode(cmd.Arg)
		}
		if err != nil {
			h.Send(textLine(errorText(err)))
		}
	}

	h.Send(MsgRequestBoardSize)
	for {
		line, err := h.conn.ReadLine()
		if err != nil {
			return "", 0, err
		}
		cmd, err := ParseCommand(line)
		if err == nil && cmd.Kind != CmdSetBoardSize {
			err = errs.ErrInvalidBoardSize
		}
		var size int
		if err == nil {
			size, err = ParseBoardSize(cmd.Arg)
		}
		if err == nil {
			return mode, size, nil
		}
		h.Send(textLine(errorText(err)))
	}
}

func (l *Lobby) joinWaiting(ctx context.Context, s *Session, h *ClientHandler) {
	if err := h.Join(s, game.NewPlayer(whiteName, game.White)); err != nil {
		h.Send(textLine(errorText(err)))
		h.Close()
		return
	}
	if err := s.Start(ctx); err != nil {
		l.log.Errorw("failed to start game", "session", s.ID(), "error", err)
		s.Close()
		return
	}
	l.serve(ctx, h)
}

// serve reads the client until it leaves and waits for its last lines to be written.
func (l *Lobby) serve(ctx context.Context, h *ClientHandler) {
	if err := h.Run(ctx); err != nil {
		l.log.Debugw("client finished", "error", err)
	}
	<-h.Flushed()
}

// track counts a new connection in wg unless the lobby is closed.
func (l *Lobby) track() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return false
	}
	l.wg.Add(1)
	return true
}

func (l *Lobby) takeWaiting() *Session {
	l.mu.Lock()
	defer l.mu.Unlock()
	s := l.waiting
	l.waiting = nil
	return s
}

func (l *Lobby) register(mode Mode, board *game.Board) *Session {
	s := NewSession(l.log, l.recorder, mode, board)
	s.onDone = l.remove

	l.mu.Lock()
	l.sessions[s.ID()] = s
	l.mu.Unlock()
	return s
}

func (l *Lobby) remove(s *Session) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.sessions, s.ID())
	if l.waiting == s {
		l.waiting = nil
	}
}

// Summaries lists the live sessions ordered by id.
func (l *Lobby) Summaries() []game.SessionSummary {
	l.mu.Lock()
	sessions := make([]*Session, 0, len(l.sessions))
	for _, s := range l.sessions {
		sessions = append(sessions, s)
	}
	l.mu.Unlock()

	out := make([]game.SessionSummary, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, s.Summary())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Close ends every live session and waits for all accepted connections.
// Connections arriving afterwards are refused.
func (l *Lobby) Close() {
	l.mu.Lock()
	l.closed = true
	sessions := make([]*Session, 0, len(l.sessions))
	for _, s := range l.sessions {
		sessions = append(sessions, s)
	}
	l.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
	// clients still choosing a mode have no session yet
	l.cancel()
	l.wg.Wait()
}
