package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"exlog/internal/ui/theme"
)

// FormSubmitMsg carries the raw field text; validation happens in the usecase.
type FormSubmitMsg struct {
	Type     string
	Distance string
	Duration string
	Extra    string
}

// FormCancelMsg is emitted when the user presses esc.
type FormCancelMsg struct{}

const (
	fieldDistance = iota
	fieldDuration
	fieldCadence
	fieldRest
	fieldCount
)

var formStyle = lipgloss.NewStyle().
	BorderStyle(lipgloss.RoundedBorder()).
	BorderForeground(theme.Peach).
	Background(theme.Mantle).
	Foreground(theme.Text).
	Padding(0, 1)

// ExerciseForm collects one exercise. Running shows cadence and swimming shows
// rest time; ctrl+t switches between them.
type ExerciseForm struct {
	inputs  [fieldCount]textinput.Model
	kind    string
	focus   int
	visible bool
	width   int
}

func NewExerciseForm() ExerciseForm {
	placeholders := [fieldCount]string{"km", "min", "step/min", "min"}
	f := ExerciseForm{kind: "running"}
	for i := range f.inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.CharLimit = 16
		f.inputs[i] = ti
	}
	return f
}

func (f ExerciseForm) Visible() bool { return f.visible }

func (f ExerciseForm) Kind() string { return f.kind }

// Open shows the form with the distance field focused. Values typed before a
// rejected submit are kept.
func (f *ExerciseForm) Open() tea.Cmd {
	f.visible = true
	return f.focusField(fieldDistance)
}

func (f *ExerciseForm) Hide() {
	f.visible = false
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
}

// Clear empties every field and hides the form.
func (f *ExerciseForm) Clear() {
	for i := range f.inputs {
		f.inputs[i].SetValue("")
	}
	f.Hide()
}

func (f *ExerciseForm) SetWidth(w int) { f.width = w }

func (f *ExerciseForm) ToggleKind() tea.Cmd {
	if f.kind == "running" {
		f.kind = "swimming"
	} else {
		f.kind = "running"
	}
	if f.focus == fieldCadence || f.focus == fieldRest {
		return f.focusField(f.extraField())
	}
	return nil
}

func (f ExerciseForm) extraField() int {
	if f.kind == "swimming" {
		return fieldRest
	}
	return fieldCadence
}

func (f ExerciseForm) order() []int {
	return []int{fieldDistance, fieldDuration, f.extraField()}
}

func (f *ExerciseForm) focusField(field int) tea.Cmd {
	f.focus = field
	var cmd tea.Cmd
	for i := range f.inputs {
		if i == field {
			cmd = f.inputs[i].Focus()
		} else {
			f.inputs[i].Blur()
		}
	}
	return cmd
}

func (f *ExerciseForm) step(delta int) tea.Cmd {
	order := f.order()
	pos := 0
	for i, field := range order {
		if field == f.focus {
			pos = i
		}
	}
	pos = (pos + delta + len(order)) % len(order)
	return f.focusField(order[pos])
}

func (f ExerciseForm) Update(msg tea.Msg) (ExerciseForm, tea.Cmd) {
	if !f.visible {
		return f, nil
	}
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			f.Hide()
			return f, func() tea.Msg { return FormCancelMsg{} }
		case "enter":
			submit := FormSubmitMsg{
				Type:     f.kind,
				Distance: strings.TrimSpace(f.inputs[fieldDistance].Value()),
				Duration: strings.TrimSpace(f.inputs[fieldDuration].Value()),
				Extra:    strings.TrimSpace(f.inputs[f.extraField()].Value()),
			}
			return f, func() tea.Msg { return submit }
		case "ctrl+t":
			return f, f.ToggleKind()
		case "tab", "down":
			return f, f.step(1)
		case "shift+tab", "up":
			return f, f.step(-1)
		}
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

func (f ExerciseForm) View() string {
	if !f.visible {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("New exercise") + "  " + theme.Kind(f.kind).Render(strings.ToUpper(f.kind)) + "\n\n")
	labels := [fieldCount]string{"Distance", "Duration", "Cadence", "Rest time"}
	for _, field := range f.order() {
		sb.WriteString(theme.Muted.Render(pad(labels[field], 10)) + f.inputs[field].View() + "\n")
	}
	sb.WriteString("\n" + theme.Muted.Render("enter save · tab next · ctrl+t type · esc cancel"))

	w := f.width
	if w < 20 {
		w = 48
	}
	return formStyle.Width(w - 2).Render(sb.String())
}

// SetValues fills the visible fields, mainly for tests and prefill.
func (f *ExerciseForm) SetValues(distance, duration, extra string) {
	f.inputs[fieldDistance].SetValue(distance)
	f.inputs[fieldDuration].SetValue(duration)
	f.inputs[f.extraField()].SetValue(extra)
}

func pad(s string, n int) string {
	if len(s) >= n {
		return s + " "
	}
	return s + strings.Repeat(" ", n-len(s))
}
