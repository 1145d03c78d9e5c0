package tui

import (
	"fmt"
	"strings"

	"github.com/coinview/coinview/internal/market"
)

// renderCandles draws an OHLC series as unicode candlesticks, one column of
// body and wick per bar, newest on the right. The caller decides the box it
// must fit in.
func renderCandles(candles []market.Candle, width, height int) string {
	if len(candles) == 0 {
		return dimStyle.Render("no chart data for this pair")
	}
	if height < 4 {
		height = 4
	}
	axisWidth := 12
	cols := width - axisWidth
	if cols < 10 {
		cols = 10
	}
	if len(candles) > cols {
		candles = candles[len(candles)-cols:]
	}

	low, high := candles[0].Low, candles[0].High
	for _, c := range candles[1:] {
		if c.Low.LessThan(low) {
			low = c.Low
		}
		if c.High.GreaterThan(high) {
			high = c.High
		}
	}
	lo, _ := low.Float64()
	hi, _ := high.Float64()
	span := hi - lo
	if span <= 0 {
		span = 1
	}

	// row 0 is the top of the chart
	row := func(price float64) int {
		r := int(float64(height-1) * (hi - price) / span)
		if r < 0 {
			r = 0
		}
		if r > height-1 {
			r = height - 1
		}
		return r
	}

	grid := make([][]string, height)
	for i := range grid {
		grid[i] = make([]string, len(candles))
		for j := range grid[i] {
			grid[i][j] = " "
		}
	}

	for j, c := range candles {
		o, _ := c.Open.Float64()
		cl, _ := c.Close.Float64()
		h, _ := c.High.Float64()
		l, _ := c.Low.Float64()

		style := upStyle
		if cl < o {
			style = downStyle
		}

		top, bottom := row(h), row(l)
		bodyTop, bodyBottom := row(max64(o, cl)), row(min64(o, cl))
		for r := top; r <= bottom; r++ {
			ch := "│"
			if r >= bodyTop && r <= bodyBottom {
				ch = "█"
			}
			grid[r][j] = style.Render(ch)
		}
	}

	var b strings.Builder
	for r := 0; r < height; r++ {
		var label string
		switch r {
		case 0:
			label = fmt.Sprintf("%10.2f ┤", hi)
		case height - 1:
			label = fmt.Sprintf("%10.2f ┤", lo)
		default:
			label = strings.Repeat(" ", 11) + "│"
		}
		b.WriteString(dimStyle.Render(label))
		b.WriteString(strings.Join(grid[r], ""))
		if r < height-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func max64(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func min64(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
