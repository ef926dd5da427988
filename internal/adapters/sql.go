package adapters

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"gogame/internal/bootstrap"
)

// AdapterSQL opens DATABASE_URL with the postgres or the sqlite driver.
type AdapterSQL struct {
	DB  *sql.DB
	cfg *bootstrap.Config
	log *zap.SugaredLogger
}

func NewAdapterSQL(cfg *bootstrap.Config, log *zap.SugaredLogger) *AdapterSQL {
	return &AdapterSQL{
		cfg: cfg,
		log: log,
	}
}

func (a *AdapterSQL) Driver() string {
	return a.cfg.DatabaseDriver
}

func (a *AdapterSQL) Init(ctx context.Context) error {
	driver := a.cfg.DatabaseDriver
	if driver != "postgres" && driver != "sqlite" {
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", driver)
	}

	db, err := sql.Open(driver, a.cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("open %s: %w", driver, err)
	}
	if driver == "sqlite" {
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(16)
		db.SetMaxIdleConns(8)
		db.SetConnMaxLifetime(30 * time.Minute)
	}

	ctxPing, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctxPing); err != nil {
		_ = db.Close()
		return fmt.Errorf("ping %s: %w", driver, err)
	}

	a.DB = db
	a.log.Infof("connected to %s database", driver)
	return nil
}

func (a *AdapterSQL) Close(ctx context.Context) error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
