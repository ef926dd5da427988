package repo

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"gogame/internal/domain/game"
	errs "gogame/internal/errors"
)

var sqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS games (
		game_id      TEXT PRIMARY KEY,
		board_size   INTEGER NOT NULL,
		player_black TEXT NOT NULL,
		player_white TEXT NOT NULL,
		status       TEXT NOT NULL,
		winner       TEXT,
		winner_color TEXT,
		reason       TEXT,
		started_at   TIMESTAMP NOT NULL,
		finished_at  TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS moves (
		game_id     TEXT NOT NULL,
		move_number INTEGER NOT NULL,
		kind        TEXT NOT NULL,
		color       TEXT NOT NULL,
		pos_col     INTEGER NOT NULL,
		pos_row     INTEGER NOT NULL,
		played_at   TIMESTAMP NOT NULL,
		PRIMARY KEY (game_id, move_number)
	)`,
}

// SQLGameRepository stores games in PostgreSQL or SQLite.
type SQLGameRepository struct {
	db     *sql.DB
	driver string
	log    *zap.SugaredLogger
}

// NewSQLGameRepository creates the tables when they are missing.
func NewSQLGameRepository(ctx context.Context, log *zap.SugaredLogger, db *sql.DB, driver string) (*SQLGameRepository, error) {
	r := &SQLGameRepository{db: db, driver: driver, log: log}
	for _, stmt := range sqlSchema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return nil, fmt.Errorf("create schema: %w", err)
		}
	}
	return r, nil
}

func (r *SQLGameRepository) Name() string {
	return r.driver
}

func (r *SQLGameRepository) Start(ctx context.Context, rec game.GameRecord) error {
	q := `INSERT INTO games (game_id, board_size, player_black, player_white, status, started_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, r.rebind(q),
		rec.ID, rec.BoardSize, rec.PlayerBlack, rec.PlayerWhite, rec.Status, rec.StartedAt)
	if err != nil {
		return fmt.Errorf("insert game %s: %w", rec.ID, err)
	}
	return nil
}

func (r *SQLGameRepository) AppendMove(ctx context.Context, rec game.MoveRecord) error {
	q := `INSERT INTO moves (game_id, move_number, kind, color, pos_col, pos_row, played_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, r.rebind(q),
		rec.GameID, rec.Number, string(rec.Kind), rec.Color, rec.Col, rec.Row, rec.PlayedAt)
	if err != nil {
		return fmt.Errorf("insert move %d of game %s: %w", rec.Number, rec.GameID, err)
	}
	return nil
}

func (r *SQLGameRepository) Finish(ctx context.Context, rec game.GameRecord) error {
	q := `UPDATE games SET status = ?, winner = ?, winner_color = ?, reason = ?, finished_at = ?
		WHERE game_id = ?`
	res, err := r.db.ExecContext(ctx, r.rebind(q),
		rec.Status, rec.Winner, rec.WinnerColor, rec.Reason, rec.FinishedAt, rec.ID)
	if err != nil {
		return fmt.Errorf("finish game %s: %w", rec.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", errs.ErrGameNotFound, rec.ID)
	}
	return nil
}

// rebind turns ? placeholders into $1, $2, ... for postgres.
func (r *SQLGameRepository) rebind(q string) string {
	if r.driver != "postgres" {
		return q
	}
	var b strings.Builder
	n := 0
	for _, ch := range q {
		if ch == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(ch)
	}
	return b.String()
}
