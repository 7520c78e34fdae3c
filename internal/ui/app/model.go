package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	exercisedto "exlog/internal/modules/exercise/dto"
	apperrors "exlog/internal/platform/errors"
	"exlog/internal/ui/components"
	"exlog/internal/ui/theme"
	"exlog/internal/ui/views/mapview"
	recordsview "exlog/internal/ui/views/records"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type exercisePort interface {
	Restore(ctx context.Context) (exercisedto.RestoreOutput, error)
	Locate(ctx context.Context) (exercisedto.LocationOutput, error)
	PickLocation(ctx context.Context, lat, lng float64) error
	CancelForm(ctx context.Context)
	Submit(ctx context.Context, kind, distance, duration, extra string) (exercisedto.SubmitOutput, error)
	Select(ctx context.Context, id string) (exercisedto.SelectOutput, error)
	Reset(ctx context.Context) error
	Export(ctx context.Context, dir string) (exercisedto.ExportOutput, error)
	State(ctx context.Context) exercisedto.StateOutput
}

// eventPort yields the presentation effects produced by the last calls.
type eventPort interface {
	Drain() []exercisedto.Event
}

// ─── panes ───────────────────────────────────────────────────────────────────

type paneID int

const (
	paneMap paneID = iota
	paneList
	paneCount
)

var paneLabels = [paneCount]string{"Map", "Exercises"}

// ─── async messages ──────────────────────────────────────────────────────────

// doneMsg reports a finished usecase call together with the effects it emitted.
type doneMsg struct {
	op     string
	events []exercisedto.Event
	status string
	err    error
	submit *exercisedto.SubmitOutput
	picked bool
}

// ─── key bindings ────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Help    key.Binding
	Palette key.Binding
	Locate  key.Binding
	Reset   key.Binding
	Quit    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch pane")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Locate:  key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "go to my position")),
		Reset:   key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reset all")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Locate},
		{k.Palette, k.Reset},
		{k.Help, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It routes input between the map, the
// exercise list and the form, and turns usecase effects into view updates.
type Model struct {
	exercises exercisePort
	events    eventPort
	calls     *sync.Mutex

	mapView  mapview.Model
	listView recordsview.Model
	form     components.ExerciseForm
	palette  components.Palette

	active   paneID
	keys     keyMap
	help     help.Model
	showHelp bool
	status   string
	alert    bool
	width    int
	height   int
}

func NewModel(exercises exercisePort, events eventPort, zoom int) Model {
	return Model{
		exercises: exercises,
		events:    events,
		calls:     &sync.Mutex{},
		mapView:   mapview.New(zoom),
		listView:  recordsview.New(),
		form:      components.NewExerciseForm(),
		palette:   components.NewPalette(),
		active:    paneMap,
		keys:      defaultKeys(),
		help:      help.New(),
		status:    "loading",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Sequence(m.restoreCmd(), m.locateCmd())
}

// ─── update ──────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.form.SetWidth(min(m.width-4, 60))
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	case doneMsg:
		return m.applyDone(msg)

	case mapview.PinDroppedMsg:
		return m, m.pickCmd(msg.Lat, msg.Lng)

	case recordsview.SelectMsg:
		return m, m.selectCmd(msg.ID)

	case components.FormSubmitMsg:
		return m, m.submitCmd(msg)

	case components.FormCancelMsg:
		m.exercises.CancelForm(context.Background())
		m.mapView.ClearPin()
		m.setStatus("cancelled", false)
		return m, nil

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.setStatus("ready", false)
		return m, nil

	case tea.KeyMsg:
		if m.form.Visible() {
			var cmd tea.Cmd
			m.form, cmd = m.form.Update(msg)
			return m, cmd
		}
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}
		if !(m.active == paneList && m.listView.Filtering()) {
			switch {
			case key.Matches(msg, m.keys.Quit):
				return m, tea.Quit
			case key.Matches(msg, m.keys.Tab):
				m.active = (m.active + 1) % paneCount
				return m, nil
			case key.Matches(msg, m.keys.Help):
				m.showHelp = true
				return m, nil
			case key.Matches(msg, m.keys.Palette):
				return m, m.palette.Open()
			case key.Matches(msg, m.keys.Locate):
				return m, m.locateCmd()
			case key.Matches(msg, m.keys.Reset):
				return m, m.resetCmd()
			}
		}
	}

	var cmd tea.Cmd
	if m.form.Visible() {
		m.form, cmd = m.form.Update(msg)
		return m, cmd
	}
	switch m.active {
	case paneMap:
		m.mapView, cmd = m.mapView.Update(msg)
	case paneList:
		m.listView, cmd = m.listView.Update(msg)
	}
	return m, cmd
}

func (m Model) applyDone(msg doneMsg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	reload := false
	for _, ev := range msg.events {
		switch ev.Kind {
		case exercisedto.EventListEntry:
			cmds = append(cmds, m.listView.Upsert(ev.Record))
		case exercisedto.EventMarker:
			m.mapView.AddMarker(mapview.Marker{ID: ev.Record.ID, Kind: ev.Record.Kind, Label: ev.Record.Label, Lat: ev.Lat, Lng: ev.Lng})
		case exercisedto.EventClearForm:
			m.form.Clear()
			m.mapView.ClearPin()
		case exercisedto.EventFocus:
			m.mapView.Focus(ev.Lat, ev.Lng, ev.Zoom)
		case exercisedto.EventAlert:
			m.setStatus(ev.Message, true)
		case exercisedto.EventReload:
			reload = true
		}
	}

	switch {
	case msg.err != nil && errors.Is(msg.err, apperrors.ErrLocationUnavailable):
		// already surfaced as an alert
	case msg.err != nil:
		m.setStatus(msg.op+": "+msg.err.Error(), true)
	case msg.picked:
		cmds = append(cmds, m.form.Open())
		m.setStatus(msg.status, false)
	case msg.submit != nil && !msg.submit.Committed:
		m.setStatus(msg.submit.Message+" ("+msg.submit.Field+")", true)
	case msg.status != "":
		m.setStatus(msg.status, false)
	}

	if reload {
		cmds = append(cmds, m.listView.Reset())
		m.mapView.Reset()
		m.form.Clear()
		cmds = append(cmds, m.restoreCmd())
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) setStatus(text string, alert bool) {
	m.status = text
	m.alert = alert
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	header := m.renderHeader()
	statusBar := m.renderStatusBar()
	contentH := m.height - lipgloss.Height(header) - lipgloss.Height(statusBar)
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH, lipgloss.Center, lipgloss.Center, m.palette.View())
	case m.form.Visible():
		content = lipgloss.Place(m.width, contentH, lipgloss.Center, lipgloss.Center, m.form.View())
	default:
		content = m.renderPanes()
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
}

func (m Model) renderPanes() string {
	mapW, listW := m.paneWidths()
	mapStyle, listStyle := theme.Pane, theme.Pane
	if m.active == paneMap {
		mapStyle = theme.PaneActive
	} else {
		listStyle = theme.PaneActive
	}
	left := mapStyle.Width(mapW - 2).Render(m.mapView.View())
	right := listStyle.Width(listW - 2).Render(m.listView.View())
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func (m Model) renderHeader() string {
	parts := make([]string, paneCount)
	for i := paneID(0); i < paneCount; i++ {
		if i == m.active {
			parts[i] = theme.Hot.Render(" " + paneLabels[i] + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + paneLabels[i] + " ")
		}
	}
	bar := "exlog  " + strings.Join(parts, theme.Muted.Render(" │ "))
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := theme.Muted.Render(m.status)
	if m.alert {
		left = theme.Alert.Render(m.status)
	}
	left = theme.Hot.Render(fmt.Sprintf("● %d", m.listView.Len())) + "  " + left
	right := theme.Muted.Render("?:help  tab:pane  ctrl+r:reset  q:quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ───────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}
	switch parts[0] {
	case "locate":
		return m, m.locateCmd()
	case "reset":
		return m, m.resetCmd()
	case "select":
		if len(parts) < 2 {
			m.setStatus("usage: select <id>", true)
			return m, nil
		}
		return m, m.selectCmd(parts[1])
	case "export":
		if len(parts) < 2 {
			m.setStatus("usage: export <dir>", true)
			return m, nil
		}
		return m, m.exportCmd(parts[1])
	default:
		m.setStatus("unknown command: "+parts[0], true)
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func (m Model) paneWidths() (int, int) {
	mapW := m.width * 6 / 10
	return mapW, m.width - mapW
}

func (m *Model) propagateSize() {
	mapW, listW := m.paneWidths()
	h := m.height - 4
	m.mapView, _ = m.mapView.Update(tea.WindowSizeMsg{Width: mapW - 2, Height: h - 2})
	m.listView, _ = m.listView.Update(tea.WindowSizeMsg{Width: listW - 4, Height: h - 2})
}

// ─── async commands ──────────────────────────────────────────────────────────

// run performs one usecase call and drains the effects it produced. Calls are
// serialised so a command never picks up another command's effects.
func (m Model) run(call func()) []exercisedto.Event {
	m.calls.Lock()
	defer m.calls.Unlock()
	call()
	if m.events == nil {
		return nil
	}
	return m.events.Drain()
}

func (m Model) restoreCmd() tea.Cmd {
	return func() tea.Msg {
		var out exercisedto.RestoreOutput
		var err error
		events := m.run(func() { out, err = m.exercises.Restore(context.Background()) })
		status := fmt.Sprintf("%d exercises loaded", out.Count)
		if out.Corrupt {
			status = "stored exercises were unreadable; starting empty"
		}
		return doneMsg{op: "restore", events: events, status: status, err: err}
	}
}

func (m Model) locateCmd() tea.Cmd {
	return func() tea.Msg {
		var out exercisedto.LocationOutput
		var err error
		events := m.run(func() { out, err = m.exercises.Locate(context.Background()) })
		return doneMsg{op: "locate", events: events, status: fmt.Sprintf("centred on %.5f,%.5f", out.Lat, out.Lng), err: err}
	}
}

func (m Model) pickCmd(lat, lng float64) tea.Cmd {
	return func() tea.Msg {
		var err error
		events := m.run(func() { err = m.exercises.PickLocation(context.Background(), lat, lng) })
		return doneMsg{op: "pick", events: events, status: fmt.Sprintf("pin at %.5f,%.5f", lat, lng), err: err, picked: err == nil}
	}
}

func (m Model) submitCmd(in components.FormSubmitMsg) tea.Cmd {
	return func() tea.Msg {
		var out exercisedto.SubmitOutput
		var err error
		events := m.run(func() { out, err = m.exercises.Submit(context.Background(), in.Type, in.Distance, in.Duration, in.Extra) })
		return doneMsg{op: "submit", events: events, status: "saved " + out.Record.Label, err: err, submit: &out}
	}
}

func (m Model) selectCmd(id string) tea.Cmd {
	return func() tea.Msg {
		var out exercisedto.SelectOutput
		var err error
		events := m.run(func() { out, err = m.exercises.Select(context.Background(), id) })
		status := "no exercise " + id
		if out.Found {
			status = fmt.Sprintf("%s · selected %d×", out.Record.Label, out.Record.SelectCount)
		}
		if out.Found {
			events = append(events, exercisedto.Event{Kind: exercisedto.EventListEntry, Record: out.Record})
		}
		return doneMsg{op: "select", events: events, status: status, err: err}
	}
}

func (m Model) resetCmd() tea.Cmd {
	return func() tea.Msg {
		var err error
		events := m.run(func() { err = m.exercises.Reset(context.Background()) })
		return doneMsg{op: "reset", events: events, status: "all exercises removed", err: err}
	}
}

func (m Model) exportCmd(dir string) tea.Cmd {
	return func() tea.Msg {
		var out exercisedto.ExportOutput
		var err error
		events := m.run(func() { out, err = m.exercises.Export(context.Background(), dir) })
		return doneMsg{op: "export", events: events, status: fmt.Sprintf("%d notes written to %s", len(out.Paths), dir), err: err}
	}
}
