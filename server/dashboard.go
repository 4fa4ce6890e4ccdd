package server

import (
	"fmt"
	"html/template"
	"math"
	"net/http"
	"sort"

	"go.uber.org/zap"

	"github.com/rksahai/tradehook/ledger"
)

var dashboardTmpl = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html>
<head>
    <title>Tradehook Dashboard</title>
    <meta http-equiv="refresh" content="30">
    <style>
        body { font-family: Arial; background: #1a1a1a; color: #fff; padding: 20px; }
        .header { text-align: center; margin-bottom: 30px; }
        .card { background: #2a2a2a; padding: 20px; margin: 10px 0; border-radius: 10px; }
        .metric { display: inline-block; margin: 10px 20px; }
        .value { font-size: 32px; font-weight: bold; }
        .label { font-size: 14px; color: #888; }
        .positive { color: #4CAF50; }
        .negative { color: #f44336; }
        table { width: 100%; border-collapse: collapse; margin-top: 20px; }
        th, td { padding: 12px; text-align: left; border-bottom: 1px solid #444; }
        th { background: #333; }
    </style>
</head>
<body>
    <div class="header">
        <h1>Tradehook</h1>
        <p>Strategy: {{.Strategy}}</p>
    </div>

    <div class="card">
        <h2>Today's Performance</h2>
        <div class="metric">
            <div class="value {{.PnLClass}}">{{printf "%.2f" .Stats.TotalPnL}}</div>
            <div class="label">P&amp;L</div>
        </div>
        <div class="metric">
            <div class="value">{{.Stats.TotalTrades}}</div>
            <div class="label">Trades</div>
        </div>
        <div class="metric">
            <div class="value {{.WinRateClass}}">{{printf "%.1f" .Stats.WinRate}}%</div>
            <div class="label">Win Rate</div>
        </div>
        <div class="metric">
            <div class="value">{{.ProfitFactor}}</div>
            <div class="label">Profit Factor</div>
        </div>
    </div>

    <div class="card">
        <h2>Open Positions: {{len .Positions}}</h2>
        {{if .Positions}}
        <table>
            <tr><th>Symbol</th><th>Entry</th><th>SL</th><th>TP</th></tr>
            {{range .Positions}}
            <tr>
                <td>{{.Symbol}}</td>
                <td>{{printf "%.2f" .EntryPrice}}</td>
                <td>{{printf "%.2f" .StopLoss}}</td>
                <td>{{printf "%.2f" .TakeProfit}}</td>
            </tr>
            {{end}}
        </table>
        {{else}}
        <p>No open positions</p>
        {{end}}
    </div>

    <p style="text-align: center; color: #888; margin-top: 30px;">
        Auto-refreshes every 30 seconds | {{.Mode}}
    </p>
</body>
</html>
`))

type dashboardData struct {
	Strategy     string
	Mode         string
	Stats        ledger.DayReport
	ProfitFactor string
	PnLClass     string
	WinRateClass string
	Positions    []ledger.Position
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	stats := s.ledger.TodayStats()

	open := s.ledger.OpenPositions()
	positions := make([]ledger.Position, 0, len(open))
	for _, pos := range open {
		positions = append(positions, pos)
	}
	sort.Slice(positions, func(i, j int) bool { return positions[i].ID < positions[j].ID })

	data := dashboardData{
		Strategy:     s.cfg.Trading.Strategy,
		Mode:         "LIVE TRADING",
		Stats:        stats,
		ProfitFactor: formatRatio(float64(stats.ProfitFactor)),
		PnLClass:     "positive",
		WinRateClass: "negative",
		Positions:    positions,
	}
	if s.cfg.Trading.PaperTrading {
		data.Mode = "PAPER TRADING"
	}
	if stats.TotalPnL < 0 {
		data.PnLClass = "negative"
	}
	if stats.WinRate >= 60 {
		data.WinRateClass = "positive"
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := dashboardTmpl.Execute(w, data); err != nil {
		s.logger.Error("render dashboard", zap.Error(err))
	}
}

func formatRatio(v float64) string {
	if math.IsInf(v, 1) {
		return "∞"
	}
	return fmt.Sprintf("%.2f", v)
}
