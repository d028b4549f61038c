package database

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func tracerAt(buf *bytes.Buffer, times ...time.Time) *queryTracer {
	i := 0
	return &queryTracer{
		log:       zerolog.New(buf),
		threshold: 100 * time.Millisecond,
		now: func() time.Time {
			t := times[i]
			i++
			return t
		},
	}
}

func TestQueryTracer(t *testing.T) {
	base := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	sql := "SELECT id\n\t\tFROM exams\n\t\tWHERE id = $1"

	t.Run("fast query is silent", func(t *testing.T) {
		var buf bytes.Buffer
		tr := tracerAt(&buf, base, base.Add(5*time.Millisecond))
		ctx := tr.TraceQueryStart(context.Background(), nil, pgx.TraceQueryStartData{SQL: sql})
		tr.TraceQueryEnd(ctx, nil, pgx.TraceQueryEndData{})
		assert.Empty(t, buf.String())
	})

	t.Run("slow query warns on one line", func(t *testing.T) {
		var buf bytes.Buffer
		tr := tracerAt(&buf, base, base.Add(300*time.Millisecond))
		ctx := tr.TraceQueryStart(context.Background(), nil, pgx.TraceQueryStartData{SQL: sql, Args: []any{"secret"}})
		tr.TraceQueryEnd(ctx, nil, pgx.TraceQueryEndData{})
		assert.Contains(t, buf.String(), `"level":"warn"`)
		assert.Contains(t, buf.String(), "SELECT id FROM exams WHERE id = $1")
		assert.NotContains(t, buf.String(), "secret")
	})

	t.Run("no rows is not a failure", func(t *testing.T) {
		var buf bytes.Buffer
		tr := tracerAt(&buf, base, base.Add(time.Millisecond))
		ctx := tr.TraceQueryStart(context.Background(), nil, pgx.TraceQueryStartData{SQL: sql})
		tr.TraceQueryEnd(ctx, nil, pgx.TraceQueryEndData{Err: pgx.ErrNoRows})
		assert.Empty(t, buf.String())
	})

	t.Run("error is logged", func(t *testing.T) {
		var buf bytes.Buffer
		tr := tracerAt(&buf, base, base.Add(time.Millisecond))
		ctx := tr.TraceQueryStart(context.Background(), nil, pgx.TraceQueryStartData{SQL: sql})
		tr.TraceQueryEnd(ctx, nil, pgx.TraceQueryEndData{Err: errors.New("connection reset")})
		assert.Contains(t, buf.String(), `"level":"error"`)
		assert.Contains(t, buf.String(), "connection reset")
	})
}
