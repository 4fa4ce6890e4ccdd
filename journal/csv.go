package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

type CSV struct {
	trades *csv.Writer
	stats  *csv.Writer
	tf, sf *os.File
}

func NewCSV(tradesPath, statsPath string) (*CSV, error) {
	tf, err := os.Create(tradesPath)
	if err != nil {
		return nil, err
	}
	sf, err := os.Create(statsPath)
	if err != nil {
		tf.Close()
		return nil, err
	}

	tw := csv.NewWriter(tf)
	sw := csv.NewWriter(sf)

	if err := tw.Write([]string{"position_id", "symbol", "quantity", "entry_price", "exit_price", "open_time", "close_time", "pnl"}); err != nil {
		return nil, err
	}
	if err := sw.Write([]string{"date", "recorded_at", "total_trades", "closed_trades", "winners", "losers", "total_pnl", "gross_profit", "gross_loss"}); err != nil {
		return nil, err
	}

	tw.Flush()
	if err := tw.Error(); err != nil {
		return nil, err
	}
	sw.Flush()
	if err := sw.Error(); err != nil {
		return nil, err
	}

	return &CSV{tw, sw, tf, sf}, nil
}

func (j *CSV) RecordTrade(t TradeRecord) error {
	j.trades.Write([]string{
		t.PositionID,
		t.Symbol,
		strconv.Itoa(t.Quantity),
		f(t.EntryPrice),
		f(t.ExitPrice),
		t.OpenTime.Format(time.RFC3339),
		t.CloseTime.Format(time.RFC3339),
		f(t.PnL),
	})
	j.trades.Flush()
	return j.trades.Error()
}

func (j *CSV) RecordDayStats(d DayStatsRecord) error {
	j.stats.Write([]string{
		d.Date,
		d.RecordedAt.Format(time.RFC3339),
		strconv.Itoa(d.TotalTrades),
		strconv.Itoa(d.ClosedTrades),
		strconv.Itoa(d.Winners),
		strconv.Itoa(d.Losers),
		f(d.TotalPnL),
		f(d.GrossProfit),
		f(d.GrossLoss),
	})
	j.stats.Flush()
	return j.stats.Error()
}

func (j *CSV) Close() error {
	j.trades.Flush()
	j.stats.Flush()
	if err := j.tf.Close(); err != nil {
		j.sf.Close()
		return err
	}
	return j.sf.Close()
}

func f(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
