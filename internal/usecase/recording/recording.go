// Package recording persists games as they are played. A Service fans every
// call out to the configured stores; a failing store never stops a game.
package recording

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"gogame/internal/bootstrap"
	"gogame/internal/domain/game"
	errs "gogame/internal/errors"
)

// GameHandle identifies a recorded game.
type GameHandle string

// Recorder is what a game session needs from persistence.
type Recorder interface {
	StartGame(ctx context.Context, black, white *game.GamePlayer, boardSize int) (GameHandle, error)
	SaveMove(ctx context.Context, h GameHandle, rec game.MoveRecord, seq int) error
	FinishGame(ctx context.Context, h GameHandle, winner *game.GamePlayer, reason game.FinishReason) error
}

// Store is one persistence backend.
type Store interface {
	Name() string
	Start(ctx context.Context, rec game.GameRecord) error
	AppendMove(ctx context.Context, rec game.MoveRecord) error
	Finish(ctx context.Context, rec game.GameRecord) error
}

type Service struct {
	log     *zap.SugaredLogger
	stores  []Store
	timeout time.Duration
	tracer  trace.Tracer
	now     func() time.Time

	mu    sync.Mutex
	games map[GameHandle]game.GameRecord
}

func NewService(cfg *bootstrap.Config, log *zap.SugaredLogger, stores ...Store) *Service {
	timeout := 5 * time.Second
	if cfg != nil && cfg.StoreTimeout > 0 {
		timeout = cfg.StoreTimeout
	}
	return &Service{
		log:     log,
		stores:  stores,
		timeout: timeout,
		tracer:  otel.Tracer("gogame/recording"),
		now:     time.Now,
		games:   make(map[GameHandle]game.GameRecord),
	}
}

func (s *Service) StartGame(ctx context.Context, black, white *game.GamePlayer, boardSize int) (GameHandle, error) {
	if black == nil || white == nil {
		return "", errs.ErrPlayersNotInitialized
	}
	h := GameHandle(uuid.New().String())
	rec := game.GameRecord{
		ID:          string(h),
		BoardSize:   boardSize,
		PlayerBlack: black.Name,
		PlayerWhite: white.Name,
		Status:      game.StatusActive,
		StartedAt:   s.now().UTC(),
	}

	s.mu.Lock()
	s.games[h] = rec
	s.mu.Unlock()

	s.each(ctx, "recording.StartGame", rec.ID, func(ctx context.Context, st Store) error {
		return st.Start(ctx, rec)
	})
	return h, nil
}

func (s *Service) SaveMove(ctx context.Context, h GameHandle, rec game.MoveRecord, seq int) error {
	if _, err := s.record(h); err != nil {
		return err
	}
	rec.GameID = string(h)
	rec.Number = seq
	if rec.PlayedAt.IsZero() {
		rec.PlayedAt = s.now().UTC()
	}
	s.each(ctx, "recording.SaveMove", rec.GameID, func(ctx context.Context, st Store) error {
		return st.AppendMove(ctx, rec)
	})
	return nil
}

func (s *Service) FinishGame(ctx context.Context, h GameHandle, winner *game.GamePlayer, reason game.FinishReason) error {
	rec, err := s.record(h)
	if err != nil {
		return err
	}
	finished := s.now().UTC()
	rec.FinishedAt = &finished
	rec.Reason = string(reason)
	rec.Status = game.StatusCompleted
	if reason == game.ReasonDisconnect {
		rec.Status = game.StatusAbandoned
	}
	if winner != nil {
		rec.Winner = winner.Name
		rec.WinnerColor = winner.Color.String()
	}

	s.mu.Lock()
	delete(s.games, h)
	s.mu.Unlock()

	s.each(ctx, "recording.FinishGame", rec.ID, func(ctx context.Context, st Store) error {
		return st.Finish(ctx, rec)
	})
	return nil
}

func (s *Service) record(h GameHandle) (game.GameRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.games[h]
	if !ok {
		return game.GameRecord{}, fmt.Errorf("%w: %s", errs.ErrGameNotFound, h)
	}
	return rec, nil
}

// each runs fn against every store, one span and one deadline per store.
func (s *Service) each(ctx context.Context, op, gameID string, fn func(context.Context, Store) error) {
	for _, st := range s.stores {
		spanCtx, span := s.tracer.Start(ctx, op, trace.WithAttributes(
			attribute.String("store", st.Name()),
			attribute.String("game.id", gameID),
		))
		callCtx, cancel := context.WithTimeout(spanCtx, s.timeout)
		err := fn(callCtx, st)
		cancel()
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			s.log.Errorw("store call failed", "op", op, "store", st.Name(), "game", gameID, "error", err)
		}
		span.End()
	}
}
