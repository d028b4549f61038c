package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stemsi/exam-portal/internal/config"
)

// slowQuery is the duration above which a statement is logged at warn level.
const slowQuery = 250 * time.Millisecond

// NewPostgresPool opens the pool backing every repository and checks it with a ping.
func NewPostgresPool(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolCfg.MaxConns = cfg.MaxDBConns
	poolCfg.MaxConnIdleTime = 5 * time.Minute
	poolCfg.ConnConfig.Tracer = &queryTracer{
		log:       log.With().Str("component", "postgres").Logger(),
		threshold: slowQuery,
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	log.Info().
		Str("host", poolCfg.ConnConfig.Host).
		Str("database", poolCfg.ConnConfig.Database).
		Int32("max_conns", poolCfg.MaxConns).
		Msg("PostgreSQL connected")

	return pool, nil
}

type queryStartKey struct{}

// queryTracer logs failed and slow statements. Arguments are never logged
// since they include password hashes.
type queryTracer struct {
	log       zerolog.Logger
	threshold time.Duration
	now       func() time.Time
}

func (t *queryTracer) clock() time.Time {
	if t.now != nil {
		return t.now()
	}
	return time.Now()
}

func (t *queryTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, queryStartKey{}, queryStart{at: t.clock(), sql: data.SQL})
}

func (t *queryTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	start, ok := ctx.Value(queryStartKey{}).(queryStart)
	if !ok {
		return
	}
	elapsed := t.clock().Sub(start.at)

	switch {
	case data.Err != nil && !errors.Is(data.Err, pgx.ErrNoRows):
		t.log.Error().Err(data.Err).Dur("elapsed", elapsed).Str("sql", compactSQL(start.sql)).Msg("Query failed")
	case elapsed >= t.threshold:
		t.log.Warn().Dur("elapsed", elapsed).Str("sql", compactSQL(start.sql)).Msg("Slow query")
	}
}

type queryStart struct {
	at  time.Time
	sql string
}

// compactSQL folds whitespace so multi-line statements log on one line.
func compactSQL(sql string) string {
	return strings.Join(strings.Fields(sql), " ")
}
