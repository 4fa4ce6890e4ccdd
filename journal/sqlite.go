package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordTrade(t TradeRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO trades
		(position_id, symbol, quantity, entry_price, exit_price, open_time, close_time, pnl)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.PositionID, t.Symbol, t.Quantity, t.EntryPrice,
		t.ExitPrice, t.OpenTime, t.CloseTime, t.PnL,
	)
	return err
}

func (j *SQLite) RecordDayStats(d DayStatsRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO day_stats
		(date, recorded_at, total_trades, closed_trades, winners, losers, total_pnl, gross_profit, gross_loss)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.Date, d.RecordedAt, d.TotalTrades, d.ClosedTrades,
		d.Winners, d.Losers, d.TotalPnL, d.GrossProfit, d.GrossLoss,
	)
	return err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
