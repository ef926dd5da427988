package game

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"gogame/internal/domain/game"
)

const outboxSize = 256

// ClientHandler is a participant on the other end of a LineConn. Outgoing lines
// are queued and written by a single goroutine, so Send never blocks the game.
type ClientHandler struct {
	conn    LineConn
	log     *zap.SugaredLogger
	player  *game.GamePlayer
	session *Session

	out       chan string
	closed    chan struct{}
	closeOnce sync.Once
	written   chan struct{}
}

func NewClientHandler(log *zap.SugaredLogger, conn LineConn) *ClientHandler {
	h := &ClientHandler{
		conn:    conn,
		log:     log.With("remote", conn.RemoteAddr()),
		out:     make(chan string, outboxSize),
		closed:  make(chan struct{}),
		written: make(chan struct{}),
	}
	go h.writeLoop()
	return h
}

// Join seats the client in s as player.
func (h *ClientHandler) Join(s *Session, player *game.GamePlayer) error {
	h.player = player
	h.session = s
	h.log = h.log.With("session", s.ID(), "player", player.Name)
	return s.Seat(h)
}

func (h *ClientHandler) Player() *game.GamePlayer {
	return h.player
}

func (h *ClientHandler) Send(line string) {
	if h.isClosed() {
		return
	}
	select {
	case h.out <- line:
	default:
		// the writer may be stuck on the peer, so the connection goes too
		h.log.Warn("client is not reading, closing connection")
		h.Close()
		_ = h.conn.Close()
	}
}

// Run reads commands until the connection drops or the handler is closed.
func (h *ClientHandler) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, h.Close)
	defer stop()

	for {
		line, err := h.conn.ReadLine()
		if err != nil {
			dropped := h.isClosed()
			h.session.Leave(h)
			h.Close()
			if dropped {
				return nil
			}
			h.log.Infow("connection lost", "error", err)
			return err
		}
		h.session.Handle(h, line)
	}
}

// Close flushes the queued lines and then closes the connection.
func (h *ClientHandler) Close() {
	h.closeOnce.Do(func() {
		close(h.closed)
	})
}

func (h *ClientHandler) isClosed() bool {
	select {
	case <-h.closed:
		return true
	default:
		return false
	}
}

// Flushed is closed after the connection has been closed.
func (h *ClientHandler) Flushed() <-chan struct{} {
	return h.written
}

func (h *ClientHandler) writeLoop() {
	defer close(h.written)
	defer h.conn.Close()
	for {
		select {
		case line := <-h.out:
			if err := h.conn.WriteLine(line); err != nil {
				h.log.Debugw("write failed", "error", err)
				return
			}
		case <-h.closed:
			for {
				select {
				case line := <-h.out:
					if err := h.conn.WriteLine(line); err != nil {
						return
					}
				default:
					return
				}
			}
		}
	}
}
