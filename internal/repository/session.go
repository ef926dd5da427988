package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"gogame/internal/domain/game"
	errs "gogame/internal/errors"
	gameuc "gogame/internal/usecase/game"
)

const (
	// finished games stay readable for a day
	finishedGameTTL = 24 * time.Hour
	maxSGFRetries   = 32
)

// RedisSessionStorage keeps the live state of every game in Redis: a hash with
// the header and a growing SGF text.
type RedisSessionStorage struct {
	client *redis.Client
	log    *zap.SugaredLogger
}

func NewSessionRedisStorage(log *zap.SugaredLogger, redis *redis.Client) *RedisSessionStorage {
	return &RedisSessionStorage{
		client: redis,
		log:    log,
	}
}

func gameKey(id string) string { return "game:" + id }

func sgfKey(id string) string { return "game:" + id + ":sgf" }

func (r *RedisSessionStorage) Name() string {
	return "redis"
}

func (r *RedisSessionStorage) Start(ctx context.Context, rec game.GameRecord) error {
	s := gameuc.PrepareSgf(rec)
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, gameKey(rec.ID),
			"board_size", rec.BoardSize,
			"player_black", rec.PlayerBlack,
			"player_white", rec.PlayerWhite,
			"status", rec.Status,
			"moves", 0,
			"started_at", rec.StartedAt.Format(time.RFC3339),
		)
		pipe.Set(ctx, sgfKey(rec.ID), gameuc.SerializeSGF(&s), 0)
		return nil
	})
	if err != nil {
		return fmt.Errorf("store game %s: %w", rec.ID, err)
	}
	return nil
}

func (r *RedisSessionStorage) AppendMove(ctx context.Context, rec game.MoveRecord) error {
	err := r.updateSGF(ctx, rec.GameID, 0,
		func(text string) string { return gameuc.AppendMoveToSgf(text, rec) },
		func(pipe redis.Pipeliner) {
			pipe.HSet(ctx, gameKey(rec.GameID),
				"moves", rec.Number+1,
				"last_move", fmt.Sprintf("%s %s %d %d", rec.Kind, rec.Color, rec.Col, rec.Row),
			)
		})
	if err != nil {
		return fmt.Errorf("append move %d of game %s: %w", rec.Number, rec.GameID, err)
	}
	return nil
}

func (r *RedisSessionStorage) Finish(ctx context.Context, rec game.GameRecord) error {
	var winner *game.GamePlayer
	if rec.WinnerColor != "" {
		color, _ := game.ParseStoneColor(rec.WinnerColor)
		winner = &game.GamePlayer{Name: rec.Winner, Color: color}
	}
	result := gameuc.ResultToken(winner, game.FinishReason(rec.Reason))

	finishedAt := ""
	if rec.FinishedAt != nil {
		finishedAt = rec.FinishedAt.Format(time.RFC3339)
	}
	err := r.updateSGF(ctx, rec.ID, finishedGameTTL,
		func(text string) string { return gameuc.SetSgfResult(text, result) },
		func(pipe redis.Pipeliner) {
			pipe.HSet(ctx, gameKey(rec.ID),
				"status", rec.Status,
				"winner", rec.Winner,
				"result", result,
				"reason", rec.Reason,
				"finished_at", finishedAt,
			)
			pipe.Expire(ctx, gameKey(rec.ID), finishedGameTTL)
		})
	if err != nil {
		return fmt.Errorf("finish game %s: %w", rec.ID, err)
	}
	r.log.Debugf("game %s finished with %s", rec.ID, result)
	return nil
}

// updateSGF rewrites the SGF of a game under WATCH and runs extra in the same
// transaction. It retries when another writer changed the SGF in between.
func (r *RedisSessionStorage) updateSGF(ctx context.Context, id string, ttl time.Duration, edit func(string) string, extra func(redis.Pipeliner)) error {
	key := sgfKey(id)
	txf := func(tx *redis.Tx) error {
		text, err := tx.Get(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			return fmt.Errorf("%w: no sgf for %s", errs.ErrGameNotFound, id)
		}
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, edit(text), ttl)
			extra(pipe)
			return nil
		})
		return err
	}

	for i := 0; i < maxSGFRetries; i++ {
		err := r.client.Watch(ctx, txf, key)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}
	return redis.TxFailedErr
}

// LoadSGF returns the SGF text recorded so far for a game.
func (r *RedisSessionStorage) LoadSGF(ctx context.Context, id string) (string, error) {
	v, err := r.client.Get(ctx, sgfKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("%w: no sgf for %s", errs.ErrGameNotFound, id)
	}
	return v, err
}
