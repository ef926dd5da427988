package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
	"go.uber.org/zap"

	"gogame/internal/domain/game"
	errs "gogame/internal/errors"
)

func TestGameRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	rec := game.GameRecord{
		ID:          "g1",
		BoardSize:   9,
		PlayerBlack: "alice",
		PlayerWhite: "bob",
		Status:      game.StatusActive,
		StartedAt:   time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	}

	mt.Run("start", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		repo := NewGameRepository(zap.NewNop().Sugar(), mt.DB)
		if err := repo.Start(context.Background(), rec); err != nil {
			mt.Fatalf("Unexpected Start() error: %v", err)
		}
	})

	mt.Run("append move", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		repo := NewGameRepository(zap.NewNop().Sugar(), mt.DB)
		m := game.MoveRecord{GameID: "g1", Number: 0, Kind: game.KindMove, Color: "BLACK", Col: 4, Row: 4}
		if err := repo.AppendMove(context.Background(), m); err != nil {
			mt.Fatalf("Unexpected AppendMove() error: %v", err)
		}
	})

	mt.Run("duplicate game", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))
		repo := NewGameRepository(zap.NewNop().Sugar(), mt.DB)
		if err := repo.Start(context.Background(), rec); err == nil {
			mt.Fatalf("Expected Start() to fail on a duplicate key")
		}
	})

	mt.Run("finish", func(mt *mtest.T) {
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "n", Value: 1}, {Key: "nModified", Value: 1}})
		repo := NewGameRepository(zap.NewNop().Sugar(), mt.DB)
		done := rec
		done.Status = game.StatusCompleted
		if err := repo.Finish(context.Background(), done); err != nil {
			mt.Fatalf("Unexpected Finish() error: %v", err)
		}
	})

	mt.Run("finish unknown game", func(mt *mtest.T) {
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "n", Value: 0}, {Key: "nModified", Value: 0}})
		repo := NewGameRepository(zap.NewNop().Sugar(), mt.DB)
		if err := repo.Finish(context.Background(), rec); !errors.Is(err, errs.ErrGameNotFound) {
			mt.Fatalf("Unexpected Finish() err:\nwant: %v,\ngot: %v.", errs.ErrGameNotFound, err)
		}
	})
}
