package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/svelazco/cronos/internal/engine"
)

const (
	ganttNameWidth = 26
	ganttBarBlock  = "█"
	ganttGridMark  = "┊"
)

// RenderGantt renders a projection window as a text chart: one padded name
// column, a tick header, and one bar row per node placed by its window
// fractions. Width is the total line width; anything below the name column
// plus ten falls back to a sane minimum.
func RenderGantt(view *engine.GanttView, width int) string {
	chartWidth := width - ganttNameWidth - 2
	if chartWidth < 10 {
		chartWidth = 10
	}

	var b strings.Builder
	b.WriteString(renderTickRow(view.Ticks, chartWidth))
	b.WriteString("\n")

	for _, bar := range view.Bars {
		b.WriteString(renderBarRow(bar, view.Ticks, chartWidth))
		b.WriteString("\n")
	}

	if n := len(view.Links); n > 0 {
		b.WriteString(StyleDim.Render(fmt.Sprintf("%d dependency link(s) in window", n)))
		b.WriteString("\n")
	}
	return b.String()
}

func renderTickRow(ticks []engine.Tick, chartWidth int) string {
	row := make([]rune, chartWidth)
	for i := range row {
		row[i] = ' '
	}
	for _, tick := range ticks {
		col := fracToCol(tick.OffsetPercent, chartWidth)
		for i, r := range tick.Label {
			if col+i >= chartWidth {
				break
			}
			row[col+i] = r
		}
	}
	return strings.Repeat(" ", ganttNameWidth+2) + StyleDim.Render(string(row))
}

func renderBarRow(bar engine.Bar, ticks []engine.Tick, chartWidth int) string {
	name := strings.Repeat("  ", bar.Depth) + bar.Name
	if lipgloss.Width(name) > ganttNameWidth {
		name = name[:ganttNameWidth-1] + "…"
	}
	pad := ganttNameWidth - lipgloss.Width(name)
	if pad < 0 {
		pad = 0
	}
	label := KindStyle(bar.Kind).Render(name) + strings.Repeat(" ", pad) + "  "

	if !bar.HasDates {
		return label + StyleDim.Render("(no dates)")
	}

	grid := make([]bool, chartWidth)
	for _, tick := range ticks {
		grid[fracToCol(tick.OffsetPercent, chartWidth)] = true
	}

	start := fracToCol(bar.OffsetPercent, chartWidth)
	end := fracToCol(bar.OffsetPercent+bar.WidthPercent, chartWidth)
	if end <= start {
		end = start + 1
	}

	style := StatusStyle(bar.Status)
	var row strings.Builder
	for col := 0; col < chartWidth; col++ {
		switch {
		case col >= start && col < end:
			row.WriteString(style.Render(ganttBarBlock))
		case grid[col]:
			row.WriteString(StyleDim.Render(ganttGridMark))
		default:
			row.WriteString(" ")
		}
	}
	return label + row.String()
}

func fracToCol(frac float64, chartWidth int) int {
	col := int(frac * float64(chartWidth))
	if col < 0 {
		col = 0
	}
	if col >= chartWidth {
		col = chartWidth - 1
	}
	return col
}
