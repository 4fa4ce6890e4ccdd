package journal

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
)

func newTestSQLite(t *testing.T) (*SQLite, string) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	j, err := NewSQLite(path)
	assert.NoError(t, err)

	return j, path
}

func TestSQLiteSchemaCreated(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)
	assert.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	assert.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type='table' AND name IN ('trades','day_stats')`)
	assert.NoError(t, err)
	defer rows.Close()

	found := map[string]bool{}
	for rows.Next() {
		var name string
		assert.NoError(t, rows.Scan(&name))
		found[name] = true
	}
	assert.NoError(t, rows.Err())

	assert.True(t, found["trades"])
	assert.True(t, found["day_stats"])
}

func TestSQLiteRecordTrade(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)

	open := time.Date(2025, 7, 28, 9, 30, 0, 0, time.UTC)
	rec := TradeRecord{
		PositionID: "CPR_NIFTY_21500CE_093000",
		Symbol:     "NSE:NIFTY31JUL2521500CE",
		Quantity:   50,
		EntryPrice: 152.5,
		ExitPrice:  171.0,
		OpenTime:   open,
		CloseTime:  open.Add(45 * time.Minute),
		PnL:        925,
	}
	assert.NoError(t, j.RecordTrade(rec))
	assert.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	assert.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var (
		symbol string
		qty    int
		pnl    float64
	)
	err = db.QueryRow(`SELECT symbol, quantity, pnl FROM trades WHERE position_id = ?`, rec.PositionID).
		Scan(&symbol, &qty, &pnl)
	assert.NoError(t, err)
	assert.Equal(t, rec.Symbol, symbol)
	assert.Equal(t, rec.Quantity, qty)
	assert.InDelta(t, rec.PnL, pnl, 1e-9)
}

func TestSQLiteDuplicateTradeRejected(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	t.Cleanup(func() { _ = j.Close() })

	rec := TradeRecord{PositionID: "CPR_NIFTY_21500CE_093000", Symbol: "NSE:NIFTY31JUL2521500CE"}
	assert.NoError(t, j.RecordTrade(rec))
	assert.Error(t, j.RecordTrade(rec), "position_id is the primary key")
}

func TestSQLiteRecordDayStats(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)

	rec := DayStatsRecord{
		Date:         "2025-07-28",
		RecordedAt:   time.Date(2025, 7, 28, 10, 15, 0, 0, time.UTC),
		TotalTrades:  3,
		ClosedTrades: 2,
		Winners:      1,
		Losers:       1,
		TotalPnL:     400,
		GrossProfit:  925,
		GrossLoss:    525,
	}
	assert.NoError(t, j.RecordDayStats(rec))
	assert.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	assert.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var n int
	err = db.QueryRow(`SELECT count(*) FROM day_stats WHERE date = ?`, rec.Date).Scan(&n)
	assert.NoError(t, err)
	assert.Equal(t, 1, n)
}
