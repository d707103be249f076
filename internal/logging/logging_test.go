package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/models"
	"github.com/ahmetcoskunkizilkaya/ratemyemployer/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPGHandlerStoresErrors(t *testing.T) {
	db := testutil.OpenDB(t)
	pg := NewPGHandlerWith(db, 100, time.Hour)

	var out bytes.Buffer
	logger := slog.New(NewMultiHandler(NewJSONHandler(&out, "info"), pg)).
		With("request_id", "req-1")

	logger.Info("company created", "company", "Acme")
	logger.Error("review save failed", "error", errors.New("boom"), "user_id", "u-1", "review", "r-1")
	logger.Warn("slow query", "latency_ms", 1200)
	pg.Stop()

	var rows []models.ErrorLog
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, "ERROR", row.Level)
	assert.Equal(t, "review save failed", row.Message)
	assert.Equal(t, "req-1", row.TraceID)
	assert.Equal(t, "boom", row.Error)
	require.NotNil(t, row.UserID)
	assert.Equal(t, "u-1", *row.UserID)

	var extra map[string]interface{}
	require.NoError(t, json.Unmarshal(row.Extra, &extra))
	assert.Equal(t, map[string]interface{}{"review": "r-1"}, extra)

	// Every level still reaches stdout.
	assert.Equal(t, 3, bytes.Count(out.Bytes(), []byte("\n")))
}

func TestPGHandlerStopIsIdempotent(t *testing.T) {
	db := testutil.OpenDB(t)
	pg := NewPGHandlerWith(db, 0, 0)
	pg.Stop()
	pg.Stop()
}

func TestPurgeOlderThan(t *testing.T) {
	db := testutil.OpenDB(t)
	now := time.Now()
	require.NoError(t, db.Create(&[]models.ErrorLog{
		{Timestamp: now.Add(-40 * 24 * time.Hour), Level: "ERROR", Message: "old"},
		{Timestamp: now.Add(-time.Hour), Level: "ERROR", Message: "recent"},
	}).Error)

	deleted, err := PurgeOlderThan(db, now.Add(-Retention))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	var left []models.ErrorLog
	require.NoError(t, db.Find(&left).Error)
	require.Len(t, left, 1)
	assert.Equal(t, "recent", left[0].Message)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
}

type failingHandler struct{ slog.Handler }

func (failingHandler) Handle(context.Context, slog.Record) error { return errors.New("sink down") }

func TestMultiHandlerKeepsGoingAfterFailure(t *testing.T) {
	var out bytes.Buffer
	broken := failingHandler{NewJSONHandler(&bytes.Buffer{}, "info")}
	h := NewMultiHandler(nil, broken, NewJSONHandler(&out, "warn"))

	logger := slog.New(h)
	logger.Info("skipped by the warn sink")
	logger.Warn("disk almost full")

	assert.Equal(t, 1, bytes.Count(out.Bytes(), []byte("\n")))
	assert.Contains(t, out.String(), "disk almost full")

	err := h.Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelError, "x", 0))
	assert.EqualError(t, err, "sink down")
	assert.False(t, h.Enabled(context.Background(), slog.LevelDebug))
}
