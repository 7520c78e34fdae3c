package mapview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"exlog/internal/ui/theme"
)

// PinDroppedMsg is emitted when the user picks a location on the map.
type PinDroppedMsg struct {
	Lat float64
	Lng float64
}

type Marker struct {
	ID    string
	Kind  string
	Label string
	Lat   float64
	Lng   float64
}

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Left    key.Binding
	Right   key.Binding
	ZoomIn  key.Binding
	ZoomOut key.Binding
	Drop    key.Binding
	Center  key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k")),
		Down:    key.NewBinding(key.WithKeys("down", "j")),
		Left:    key.NewBinding(key.WithKeys("left", "h")),
		Right:   key.NewBinding(key.WithKeys("right", "l")),
		ZoomIn:  key.NewBinding(key.WithKeys("+", "=")),
		ZoomOut: key.NewBinding(key.WithKeys("-")),
		Drop:    key.NewBinding(key.WithKeys("enter", " ")),
		Center:  key.NewBinding(key.WithKeys("c")),
	}
}

// Model is a coarse ASCII map. The cursor is where a pin will be dropped.
type Model struct {
	keys      keyMap
	centerLat float64
	centerLng float64
	zoom      int
	col       int
	row       int
	markers   []Marker
	pin       *Marker
	width     int
	height    int
}

func New(zoom int) Model {
	if zoom < 1 {
		zoom = 12
	}
	return Model{keys: defaultKeys(), zoom: zoom, width: 40, height: 16, col: 20, row: 8}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = max(msg.Width-2, 10)
		m.height = max(msg.Height-3, 5)
		m.col, m.row = m.width/2, m.height/2

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Up):
			m.row = max(m.row-1, 0)
		case key.Matches(msg, m.keys.Down):
			m.row = min(m.row+1, m.height-1)
		case key.Matches(msg, m.keys.Left):
			m.col = max(m.col-1, 0)
		case key.Matches(msg, m.keys.Right):
			m.col = min(m.col+1, m.width-1)
		case key.Matches(msg, m.keys.ZoomIn):
			m.zoom = min(m.zoom+1, 18)
		case key.Matches(msg, m.keys.ZoomOut):
			m.zoom = max(m.zoom-1, 1)
		case key.Matches(msg, m.keys.Center):
			m.centerLat, m.centerLng = m.Cursor()
			m.col, m.row = m.width/2, m.height/2
		case key.Matches(msg, m.keys.Drop):
			lat, lng := m.Cursor()
			m.pin = &Marker{Lat: lat, Lng: lng}
			return m, func() tea.Msg { return PinDroppedMsg{Lat: lat, Lng: lng} }
		}
	}
	return m, nil
}

// Cursor reports the position under the cursor.
func (m Model) Cursor() (float64, float64) {
	return Unproject(m.centerLat, m.centerLng, m.zoom, m.width, m.height, m.col, m.row)
}

// Focus recentres the map and moves the cursor to the centre.
func (m *Model) Focus(lat, lng float64, zoom int) {
	m.centerLat, m.centerLng = lat, lng
	if zoom > 0 {
		m.zoom = zoom
	}
	m.col, m.row = m.width/2, m.height/2
}

func (m *Model) AddMarker(marker Marker) {
	for i := range m.markers {
		if m.markers[i].ID == marker.ID {
			m.markers[i] = marker
			return
		}
	}
	m.markers = append(m.markers, marker)
}

func (m *Model) ClearPin() { m.pin = nil }

func (m *Model) Reset() {
	m.markers = nil
	m.pin = nil
}

func (m Model) Markers() []Marker { return m.markers }

func (m Model) Zoom() int { return m.zoom }

func (m Model) View() string {
	grid := make([][]string, m.height)
	for r := range grid {
		grid[r] = make([]string, m.width)
		for c := range grid[r] {
			grid[r][c] = theme.Grid.Render("·")
		}
	}
	for _, mk := range m.markers {
		if c, r, ok := Project(m.centerLat, m.centerLng, m.zoom, m.width, m.height, mk.Lat, mk.Lng); ok {
			grid[r][c] = theme.Kind(mk.Kind).Render(glyph(mk.Kind))
		}
	}
	if m.pin != nil {
		if c, r, ok := Project(m.centerLat, m.centerLng, m.zoom, m.width, m.height, m.pin.Lat, m.pin.Lng); ok {
			grid[r][c] = theme.Hot.Render("+")
		}
	}
	grid[m.row][m.col] = theme.Cursor.Render("@")

	var sb strings.Builder
	lat, lng := m.Cursor()
	sb.WriteString(theme.Title.Render("Map") + theme.Muted.Render(fmt.Sprintf("  %.5f,%.5f  z%d", lat, lng, m.zoom)) + "\n")
	for _, row := range grid {
		sb.WriteString(strings.Join(row, "") + "\n")
	}
	sb.WriteString(theme.Muted.Render("arrows move · enter pin · c centre · +/- zoom"))
	return sb.String()
}

func glyph(kind string) string {
	switch kind {
	case "running":
		return "R"
	case "swimming":
		return "S"
	}
	return "?"
}
