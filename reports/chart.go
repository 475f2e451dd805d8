package reports

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
)

// SalesChart — линейный график выручки по дням периода, PNG.
func SalesChart(title string, days []DayStat) ([]byte, error) {
	if len(days) < 2 {
		return nil, fmt.Errorf("мало данных для графика: %d дней", len(days))
	}
	xs := make([]float64, len(days))
	ys := make([]float64, len(days))
	ticks := make([]chart.Tick, 0, len(days))
	for i, d := range days {
		xs[i] = float64(i)
		ys[i] = d.Total
		if len(days) <= 14 || i%2 == 0 {
			ticks = append(ticks, chart.Tick{Value: float64(i), Label: d.Date.Format("02.01")})
		}
	}
	graph := chart.Chart{
		Title:  title,
		Width:  900,
		Height: 450,
		XAxis:  chart.XAxis{Ticks: ticks},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "Выручка",
				XValues: xs,
				YValues: ys,
			},
		},
	}
	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("рендер графика: %w", err)
	}
	return buf.Bytes(), nil
}

// ComparisonChart — столбчатое сравнение продавцов, PNG.
func ComparisonChart(title string, names []string, values []float64) ([]byte, error) {
	if len(names) == 0 || len(names) != len(values) {
		return nil, fmt.Errorf("нечего сравнивать")
	}
	bars := make([]chart.Value, len(names))
	for i := range names {
		bars[i] = chart.Value{Label: names[i], Value: values[i]}
	}
	graph := chart.BarChart{
		Title:    title,
		Width:    700,
		Height:   450,
		BarWidth: 80,
		Bars:     bars,
	}
	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("рендер графика: %w", err)
	}
	return buf.Bytes(), nil
}
