package engine

import (
	"fmt"
	"time"

	"github.com/svelazco/cronos/internal/calendar"
	"github.com/svelazco/cronos/internal/domain"
)

type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityWeek  Granularity = "week"
	GranularityMonth Granularity = "month"
)

// ValidGranularities is the canonical set of accepted granularity strings.
var ValidGranularities = map[string]bool{
	"day": true, "week": true, "month": true,
}

// Bar is one node's horizontal placement inside the projection window,
// both edges expressed as fractions of the window clamped to [0,1].
type Bar struct {
	NodeID        string
	Name          string
	Kind          domain.NodeKind
	Depth         int
	OffsetPercent float64
	WidthPercent  float64
	Progress      float64
	Status        domain.NodeStatus
	HasDates      bool
}

// Tick is one timeline label at a granularity boundary.
type Tick struct {
	Date          time.Time
	Label         string
	OffsetPercent float64
}

// Link carries the curve anchor pair for one dependency: each anchor is the
// horizontal fraction of the corresponding bar edge (FS: source right edge
// to target left edge, SS left-left, FF right-right, SF left-right).
type Link struct {
	DependencyID        string
	SourceTaskID        string
	TargetTaskID        string
	Type                domain.DependencyType
	SourceAnchorPercent float64
	TargetAnchorPercent float64
}

// GanttView is the pure derived read model for a visible window. Building
// it never mutates schedule state.
type GanttView struct {
	WindowStart time.Time
	WindowEnd   time.Time
	Granularity Granularity
	Bars        []Bar
	Ticks       []Tick
	Links       []Link
}

// Projection derives the Gantt view for [windowStart, windowEnd] at the
// given granularity.
func (e *Engine) Projection(windowStart, windowEnd time.Time, g Granularity) (*GanttView, error) {
	windowStart = calendar.DateOnly(windowStart)
	windowEnd = calendar.DateOnly(windowEnd)
	if !windowEnd.After(windowStart) {
		return nil, fmt.Errorf("window end %s is not after start %s",
			windowEnd.Format("2006-01-02"), windowStart.Format("2006-01-02"))
	}
	if !ValidGranularities[string(g)] {
		return nil, fmt.Errorf("unknown granularity %q", g)
	}

	span := windowEnd.Sub(windowStart)
	fraction := func(t time.Time) float64 {
		return clamp01(t.Sub(windowStart).Seconds() / span.Seconds())
	}

	view := &GanttView{WindowStart: windowStart, WindowEnd: windowEnd, Granularity: g}

	barEdges := make(map[string][2]float64)
	e.Walk(func(n *domain.ScheduleNode, depth int) {
		bar := Bar{
			NodeID:   n.ID,
			Name:     n.Name,
			Kind:     n.Kind,
			Depth:    depth,
			Progress: n.ProgressPercent,
			Status:   n.Status,
		}
		if n.StartDate != nil && n.EndDate != nil {
			left := fraction(*n.StartDate)
			right := fraction(*n.EndDate)
			bar.HasDates = true
			bar.OffsetPercent = left
			bar.WidthPercent = clamp01(right - left)
			barEdges[n.ID] = [2]float64{left, right}
		}
		view.Bars = append(view.Bars, bar)
	})

	for d := windowStart; !d.After(windowEnd); d = nextTick(d, g) {
		view.Ticks = append(view.Ticks, Tick{
			Date:          d,
			Label:         tickLabel(d, g),
			OffsetPercent: fraction(d),
		})
	}

	for _, d := range e.Dependencies() {
		src, okSrc := barEdges[d.SourceTaskID]
		tgt, okTgt := barEdges[d.TargetTaskID]
		if !okSrc || !okTgt {
			continue
		}
		link := Link{
			DependencyID: d.ID,
			SourceTaskID: d.SourceTaskID,
			TargetTaskID: d.TargetTaskID,
			Type:         d.Type,
		}
		switch d.Type {
		case domain.FinishToStart:
			link.SourceAnchorPercent, link.TargetAnchorPercent = src[1], tgt[0]
		case domain.StartToStart:
			link.SourceAnchorPercent, link.TargetAnchorPercent = src[0], tgt[0]
		case domain.FinishToFinish:
			link.SourceAnchorPercent, link.TargetAnchorPercent = src[1], tgt[1]
		case domain.StartToFinish:
			link.SourceAnchorPercent, link.TargetAnchorPercent = src[0], tgt[1]
		}
		view.Links = append(view.Links, link)
	}

	return view, nil
}

// nextTick advances to the next granularity boundary after d. The first
// week tick after the window start lands on a Monday, month ticks on the
// first of the month.
func nextTick(d time.Time, g Granularity) time.Time {
	switch g {
	case GranularityWeek:
		d = d.AddDate(0, 0, 1)
		for d.Weekday() != time.Monday {
			d = d.AddDate(0, 0, 1)
		}
		return d
	case GranularityMonth:
		return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	default:
		return d.AddDate(0, 0, 1)
	}
}

func tickLabel(d time.Time, g Granularity) string {
	switch g {
	case GranularityWeek:
		return d.Format("Jan 2")
	case GranularityMonth:
		return d.Format("Jan 2006")
	default:
		return d.Format("01-02")
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
