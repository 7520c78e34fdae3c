package out

import (
	"fmt"
	"io"
	"strconv"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"exlog/internal/modules/exercise/domain"
	"exlog/internal/ui/theme"
)

// TextPresenter renders records and alerts as styled lines for the CLI.
// Colour is only emitted when the writer is a terminal.
type TextPresenter struct {
	mu    sync.Mutex
	out   io.Writer
	errw  io.Writer
	muted bool

	title   lipgloss.Style
	running lipgloss.Style
	swim    lipgloss.Style
	dim     lipgloss.Style
	alert   lipgloss.Style
}

func NewTextPresenter(out, errw io.Writer) *TextPresenter {
	r := lipgloss.NewRenderer(out)
	e := lipgloss.NewRenderer(errw)
	return &TextPresenter{
		out:     out,
		errw:    errw,
		title:   r.NewStyle().Foreground(theme.Sapphire).Bold(true),
		running: r.NewStyle().Foreground(theme.Green).Bold(true),
		swim:    r.NewStyle().Foreground(theme.Lavender).Bold(true),
		dim:     r.NewStyle().Foreground(theme.Subtext0),
		alert:   e.NewStyle().Foreground(theme.Peach).Bold(true),
	}
}

// SetMuted suppresses record output, used while restoring for commands that
// do not list.
func (p *TextPresenter) SetMuted(muted bool) {
	p.mu.Lock()
	p.muted = muted
	p.mu.Unlock()
}

func (p *TextPresenter) RenderRecord(record *domain.Record) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.muted {
		return
	}
	var badge lipgloss.Style
	var extra string
	switch d := record.Details().(type) {
	case domain.Running:
		badge = p.running
		extra = "cadence " + formatNumber(d.CadenceSpm) + " spm"
	case domain.Swimming:
		badge = p.swim
		extra = "rest " + formatNumber(d.RestTimeMin) + " min"
	}
	fmt.Fprintf(p.out, "%s %s\n", badge.Render(record.Label()), p.dim.Render("["+record.ID()+"]"))
	fmt.Fprintf(p.out, "  %s km · %s min · %.1f km/h · %s · selected %d\n",
		formatNumber(record.DistanceKm()), formatNumber(record.DurationMin()), record.SpeedKmH(), extra, record.SelectCount())
}

func (p *TextPresenter) PlaceMarker(record *domain.Record) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.muted {
		return
	}
	fmt.Fprintf(p.out, "  %s\n", p.dim.Render("at "+record.Coordinates().String()))
}

func (p *TextPresenter) ClearForm() {}

func (p *TextPresenter) FocusOn(coords domain.Coordinates, zoom int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, "%s %s zoom %d\n", p.title.Render("focus"), coords.String(), zoom)
}

func (p *TextPresenter) Reload() {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.out, p.dim.Render("all exercises removed; the next run starts empty"))
}

func (p *TextPresenter) Alert(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.errw, p.alert.Render(message))
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
