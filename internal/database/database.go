package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/anudeepvarma123/TalentTrack/internal/config"
	"github.com/anudeepvarma123/TalentTrack/internal/logger"
)

// NewConnection opens the shared MySQL pool and pings it.
func NewConnection(ctx context.Context, cfg config.DatabaseConfig, log *logger.Logger) (*sql.DB, error) {
	log.Info(logger.Entry{
		Action:  "db_connecting",
		Message: fmt.Sprintf("connecting to %s:%d/%s", cfg.Host, cfg.Port, cfg.Name),
	})

	db, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	log.Info(logger.Entry{Action: "db_connected", Message: "database connection established"})
	return db, nil
}
