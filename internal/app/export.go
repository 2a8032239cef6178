package app

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	chart "github.com/wcharczuk/go-chart/v2"

	"stock-move-alerts/internal/crossover"
	"stock-move-alerts/internal/market"
)

type exportPoint struct {
	at    time.Time
	close float64
	sma   *float64
}

// Export renders an instrument's close history and moving average as CSV
// and/or PNG.
func (a *App) Export(ctx context.Context, opts ExportOptions) error {
	if opts.CSVPath == "" && opts.PNGPath == "" {
		return errors.New("at least one of --csv or --png must be provided")
	}

	if opts.Symbol == "" {
		opts.Symbol = a.Config.Crossover.Symbol
	}
	if opts.Range == "" {
		opts.Range = a.Config.Crossover.HistoryRange
	}
	if opts.MaxPoints <= 0 {
		opts.MaxPoints = a.Config.Export.MaxDataPoints
	}

	closes, _, err := a.newHistory().FetchDailyCloses(ctx, opts.Symbol, opts.Range)
	if err != nil {
		return err
	}
	if len(closes) == 0 {
		a.Logger.Info().Str("symbol", opts.Symbol).Msg("no close history for export")
		return nil
	}

	points := buildExportPoints(closes, a.Config.Crossover.Period)
	points = downsamplePoints(points, opts.MaxPoints)
	a.Logger.Info().Int("total", len(closes)).Int("exported", len(points)).Msg("exporting close history")

	if opts.CSVPath != "" {
		if err := writePointsCSV(opts.CSVPath, opts.Symbol, a.Config.Crossover.Period, points); err != nil {
			return err
		}
	}

	if opts.PNGPath != "" {
		if err := writePointsPNG(opts.PNGPath, opts.Symbol, a.Config.Crossover.Period, points); err != nil {
			return err
		}
	}

	return nil
}

func buildExportPoints(closes []market.Close, period int) []exportPoint {
	prices := make([]decimal.Decimal, len(closes))
	for i, c := range closes {
		prices[i] = c.Price
	}

	values := make([]exportPoint, len(closes))
	series := crossover.SMASeries(prices, period)
	for i, c := range closes {
		values[i] = exportPoint{at: c.At, close: c.Price.InexactFloat64()}
		if series[i] != nil {
			v := series[i].InexactFloat64()
			values[i].sma = &v
		}
	}
	return values
}

func downsamplePoints(points []exportPoint, max int) []exportPoint {
	if max <= 0 || len(points) <= max {
		return points
	}

	result := make([]exportPoint, 0, max)
	step := float64(len(points)-1) / float64(max-1)
	for i := 0; i < max; i++ {
		idx := int(math.Round(step * float64(i)))
		if idx >= len(points) {
			idx = len(points) - 1
		}
		result = append(result, points[idx])
	}
	return result
}

func writePointsCSV(path, symbol string, period int, points []exportPoint) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"date", "symbol", "close", fmt.Sprintf("sma_%d", period)}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, p := range points {
		sma := ""
		if p.sma != nil {
			sma = fmt.Sprintf("%.4f", *p.sma)
		}
		record := []string{
			p.at.UTC().Format(time.DateOnly),
			symbol,
			fmt.Sprintf("%.4f", p.close),
			sma,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	return writer.Error()
}

func writePointsPNG(path, symbol string, period int, points []exportPoint) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	x := make([]time.Time, len(points))
	closes := make([]float64, len(points))
	for i, p := range points {
		x[i] = p.at
		closes[i] = p.close
	}

	var smaX []time.Time
	var smaY []float64
	for _, p := range points {
		if p.sma != nil {
			smaX = append(smaX, p.at)
			smaY = append(smaY, *p.sma)
		}
	}

	priceFormatter := func(v interface{}) string {
		return chart.FloatValueFormatterWithFormat(v, "%.2f")
	}
	graph := chart.Chart{
		Width:  1280,
		Height: 720,
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatter,
		},
		YAxis: chart.YAxis{
			Name:           "Price",
			ValueFormatter: priceFormatter,
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    fmt.Sprintf("%s close", symbol),
				XValues: x,
				YValues: closes,
			},
			chart.TimeSeries{
				Name:    fmt.Sprintf("SMA %d", period),
				XValues: smaX,
				YValues: smaY,
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return graph.Render(chart.PNG, file)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
