package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/svelazco/cronos/internal/cli/formatter"
	"github.com/svelazco/cronos/internal/engine"
)

// ganttKeyMap defines the keybindings of the interactive viewer.
type ganttKeyMap struct {
	PanLeft  key.Binding
	PanRight key.Binding
	ZoomIn   key.Binding
	ZoomOut  key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func (k ganttKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PanLeft, k.PanRight, k.ZoomIn, k.ZoomOut, k.Help, k.Quit}
}

func (k ganttKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PanLeft, k.PanRight},
		{k.ZoomIn, k.ZoomOut},
		{k.Help, k.Quit},
	}
}

func defaultGanttKeyMap() ganttKeyMap {
	return ganttKeyMap{
		PanLeft:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "pan left")),
		PanRight: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "pan right")),
		ZoomIn:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "zoom in")),
		ZoomOut:  key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "zoom out")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

type ganttViewMsg struct {
	view *engine.GanttView
	err  error
}

// ganttModel is the bubbletea Model for the interactive Gantt viewer: a
// pannable, zoomable window over one schedule's projection.
type ganttModel struct {
	app        *App
	scheduleID string

	windowStart time.Time
	windowEnd   time.Time
	granularity engine.Granularity

	view  *engine.GanttView
	err   error
	width int

	keys ganttKeyMap
	help help.Model
}

func newGanttModel(app *App, scheduleID string, windowStart, windowEnd time.Time, g engine.Granularity) ganttModel {
	return ganttModel{
		app:         app,
		scheduleID:  scheduleID,
		windowStart: windowStart,
		windowEnd:   windowEnd,
		granularity: g,
		width:       110,
		keys:        defaultGanttKeyMap(),
		help:        help.New(),
	}
}

func (m ganttModel) Init() tea.Cmd {
	return m.reload()
}

// reload re-derives the projection for the current window as a command.
func (m ganttModel) reload() tea.Cmd {
	app, id := m.app, m.scheduleID
	start, end, g := m.windowStart, m.windowEnd, m.granularity
	return func() tea.Msg {
		view, err := app.Gantt.Gantt(context.Background(), id, start, end, g)
		return ganttViewMsg{view: view, err: err}
	}
}

// panStep is the window shift per keypress, scaled to the granularity.
func (m ganttModel) panStep() int {
	switch m.granularity {
	case engine.GranularityDay:
		return 1
	case engine.GranularityMonth:
		return 30
	default:
		return 7
	}
}

func (m ganttModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case ganttViewMsg:
		m.view, m.err = msg.view, msg.err
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.PanLeft):
			step := m.panStep()
			m.windowStart = m.windowStart.AddDate(0, 0, -step)
			m.windowEnd = m.windowEnd.AddDate(0, 0, -step)
			return m, m.reload()
		case key.Matches(msg, m.keys.PanRight):
			step := m.panStep()
			m.windowStart = m.windowStart.AddDate(0, 0, step)
			m.windowEnd = m.windowEnd.AddDate(0, 0, step)
			return m, m.reload()
		case key.Matches(msg, m.keys.ZoomIn):
			if g, ok := zoomIn[m.granularity]; ok {
				m.granularity = g
				return m, m.reload()
			}
			return m, nil
		case key.Matches(msg, m.keys.ZoomOut):
			if g, ok := zoomOut[m.granularity]; ok {
				m.granularity = g
				return m, m.reload()
			}
			return m, nil
		}
	}
	return m, nil
}

var (
	zoomIn = map[engine.Granularity]engine.Granularity{
		engine.GranularityMonth: engine.GranularityWeek,
		engine.GranularityWeek:  engine.GranularityDay,
	}
	zoomOut = map[engine.Granularity]engine.Granularity{
		engine.GranularityDay:  engine.GranularityWeek,
		engine.GranularityWeek: engine.GranularityMonth,
	}
)

func (m ganttModel) View() string {
	header := formatter.Header("gantt") + "\n" +
		formatter.Dim(m.windowStart.Format("2006-01-02")+" → "+m.windowEnd.Format("2006-01-02")+
			" · "+string(m.granularity)) + "\n\n"

	var body string
	switch {
	case m.err != nil:
		body = formatter.StyleRed.Render(UserMessage(m.err)) + "\n"
	case m.view == nil:
		body = formatter.Dim("loading…") + "\n"
	case len(m.view.Bars) == 0:
		body = formatter.Dim("schedule is empty") + "\n"
	default:
		body = formatter.RenderGantt(m.view, m.width)
	}

	return header + body + "\n" + m.help.View(m.keys)
}
