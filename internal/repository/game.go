package repo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"gogame/internal/domain/game"
	errs "gogame/internal/errors"
)

const (
	gamesCollection = "games"
	movesCollection = "moves"
)

// GameRepository keeps game headers and the move log in MongoDB.
type GameRepository struct {
	log   *zap.SugaredLogger
	mongo *mongo.Database
}

func NewGameRepository(log *zap.SugaredLogger, mongo *mongo.Database) *GameRepository {
	return &GameRepository{
		log:   log,
		mongo: mongo,
	}
}

func (g *GameRepository) Name() string {
	return "mongo"
}

func (g *GameRepository) Start(ctx context.Context, rec game.GameRecord) error {
	collection := g.mongo.Collection(gamesCollection)

	if _, err := collection.InsertOne(ctx, rec); err != nil {
		return fmt.Errorf("insert game %s: %w", rec.ID, err)
	}

	g.log.Debugf("game %s inserted", rec.ID)
	return nil
}

func (g *GameRepository) AppendMove(ctx context.Context, rec game.MoveRecord) error {
	collection := g.mongo.Collection(movesCollection)

	if _, err := collection.InsertOne(ctx, rec); err != nil {
		return fmt.Errorf("insert move %d of game %s: %w", rec.Number, rec.GameID, err)
	}
	return nil
}

func (g *GameRepository) Finish(ctx context.Context, rec game.GameRecord) error {
	collection := g.mongo.Collection(gamesCollection)

	filter := bson.M{"game_id": rec.ID}
	update := bson.M{
		"$set": bson.M{
			"status":       rec.Status,
			"winner":       rec.Winner,
			"winner_color": rec.WinnerColor,
			"reason":       rec.Reason,
			"finished_at":  rec.FinishedAt,
		},
	}

	res, err := collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("finish game %s: %w", rec.ID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", errs.ErrGameNotFound, rec.ID)
	}

	g.log.Debugf("game %s finished: %s", rec.ID, rec.Status)
	return nil
}
