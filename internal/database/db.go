package database

import (
	"context"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hassan-suriya/upwork-proposal-tracker/internal/config"
)

var (
	once sync.Once
	pool *pgxpool.Pool
	err  error
)

// Get returns the process-wide connection pool, creating it on first use.
// Safe under concurrent callers; later calls reuse the same pool.
func Get(ctx context.Context, cfg config.Config) (*pgxpool.Pool, error) {
	once.Do(func() {
		var pcfg *pgxpool.Config
		pcfg, err = pgxpool.ParseConfig(cfg.DBURL)
		if err != nil {
			return
		}
		pool, err = pgxpool.NewWithConfig(ctx, pcfg)
	})
	return pool, err
}
