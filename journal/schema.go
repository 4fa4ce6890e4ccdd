package journal

const Schema = `
CREATE TABLE IF NOT EXISTS trades (
	position_id TEXT PRIMARY KEY,
	symbol TEXT NOT NULL,
	quantity INTEGER NOT NULL,
	entry_price REAL NOT NULL,
	exit_price REAL NOT NULL,
	open_time DATETIME NOT NULL,
	close_time DATETIME NOT NULL,
	pnl REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS day_stats (
	date TEXT NOT NULL,
	recorded_at DATETIME NOT NULL,
	total_trades INTEGER NOT NULL,
	closed_trades INTEGER NOT NULL,
	winners INTEGER NOT NULL,
	losers INTEGER NOT NULL,
	total_pnl REAL NOT NULL,
	gross_profit REAL NOT NULL,
	gross_loss REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_day_stats_date ON day_stats(date);
`
