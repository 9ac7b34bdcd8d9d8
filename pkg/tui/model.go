// Package tui is the interactive front end: four input fields, a preview
// written to disk on every edit and a split action, all driving a
// session.Controller on bubbletea's single update loop.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/PhantomInTheWire/image-grid-splitter/pkg/preview"
	"github.com/PhantomInTheWire/image-grid-splitter/pkg/session"
)

type field int

const (
	fieldImage field = iota
	fieldOutput
	fieldRows
	fieldCols
	fieldCount
)

var labels = [fieldCount]string{
	fieldImage:  "Select image:",
	fieldOutput: "Output directory:",
	fieldRows:   "Rows:",
	fieldCols:   "Columns:",
}

// Model is the bubbletea model of one session.
type Model struct {
	ctrl        *session.Controller
	state       session.State
	inputs      [fieldCount]textinput.Model
	focus       field
	notice      *session.Notice
	previewPath string
	previewErr  error
	styles      styles
}

// New builds the model. previewPath is where the rendered preview is written
// after every change; empty disables writing. A non-empty initial image path
// is loaded straight away.
func New(ctrl *session.Controller, previewPath string, initial session.State) Model {
	m := Model{
		ctrl:        ctrl,
		previewPath: previewPath,
		styles:      defaultStyles(),
	}

	for i := range m.inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 4096
		ti.Width = 50
		m.inputs[i] = ti
	}
	m.inputs[fieldRows].Width = 10
	m.inputs[fieldCols].Width = 10
	m.inputs[fieldImage].Placeholder = "path/to/image.png (Enter to load)"
	m.inputs[fieldOutput].Placeholder = "path/to/output"

	m.state = ctrl.SetRows(initial, initial.RowsText)
	m.state = ctrl.SetCols(m.state, initial.ColsText)
	m.state = ctrl.SelectOutputDir(m.state, initial.OutputDir)
	if initial.ImagePath != "" {
		m.state, m.notice = ctrl.SelectImage(m.state, initial.ImagePath)
		m.writePreview()
	}

	m.inputs[fieldImage].SetValue(m.state.ImagePath)
	m.inputs[fieldOutput].SetValue(m.state.OutputDir)
	m.inputs[fieldRows].SetValue(m.state.RowsText)
	m.inputs[fieldCols].SetValue(m.state.ColsText)
	m.inputs[fieldImage].Focus()
	return m
}

// State returns the current session state.
func (m Model) State() session.State { return m.state }

// Notice returns the last notice shown, if any.
func (m Model) Notice() *session.Notice { return m.notice }

func (m Model) Init() tea.Cmd { return textinput.Blink }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		return m, cmd
	}

	switch key.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	case "tab", "down":
		return m, m.setFocus((m.focus + 1) % fieldCount)
	case "shift+tab", "up":
		return m, m.setFocus((m.focus + fieldCount - 1) % fieldCount)
	case "ctrl+s":
		m.split()
		return m, nil
	case "enter":
		return m, m.commit()
	}

	var cmd tea.Cmd
	before := m.inputs[m.focus].Value()
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	if after := m.inputs[m.focus].Value(); after != before {
		m.edited(after)
	}
	return m, cmd
}

func (m *Model) setFocus(f field) tea.Cmd {
	m.inputs[m.focus].Blur()
	m.focus = f
	return m.inputs[f].Focus()
}

// commit handles Enter: path fields act like the original's pickers, the
// grid fields just advance.
func (m *Model) commit() tea.Cmd {
	value := strings.TrimSpace(m.inputs[m.focus].Value())
	switch m.focus {
	case fieldImage:
		m.state, m.notice = m.ctrl.SelectImage(m.state, value)
		m.writePreview()
	case fieldOutput:
		m.state = m.ctrl.SelectOutputDir(m.state, value)
	}
	return m.setFocus((m.focus + 1) % fieldCount)
}

func (m *Model) edited(value string) {
	switch m.focus {
	case fieldRows:
		m.state = m.ctrl.SetRows(m.state, value)
		m.writePreview()
	case fieldCols:
		m.state = m.ctrl.SetCols(m.state, value)
		m.writePreview()
	}
}

// split reads the path fields as typed, so a path edited by hand after the
// preview is what gets exported.
func (m *Model) split() {
	m.state.ImagePath = strings.TrimSpace(m.inputs[fieldImage].Value())
	m.state.OutputDir = strings.TrimSpace(m.inputs[fieldOutput].Value())
	m.state, m.notice = m.ctrl.Split(context.Background(), m.state)
}

func (m *Model) writePreview() {
	if m.previewPath == "" || m.state.Preview == nil {
		return
	}
	m.previewErr = preview.Save(m.state.Preview, m.previewPath)
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.styles.title.Render("Image grid splitter"))
	b.WriteString("\n\n")

	for f := field(0); f < fieldCount; f++ {
		label := m.styles.label.Render(labels[f])
		if f == m.focus {
			label = m.styles.focused.Render(labels[f])
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, label, m.inputs[f].View()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.styles.summary.Render(session.PreviewSummary(m.state)))
	b.WriteString("\n")
	switch {
	case m.previewErr != nil:
		b.WriteString(m.styles.summary.Render(fmt.Sprintf("preview not written: %v", m.previewErr)))
		b.WriteString("\n")
	case m.previewPath != "" && m.state.Preview != nil:
		b.WriteString(m.styles.summary.Render("preview: " + m.previewPath))
		b.WriteString("\n")
	}

	if m.notice != nil {
		style := m.styles.info
		if m.notice.Level == session.Error {
			style = m.styles.error
		}
		b.WriteString("\n")
		b.WriteString(style.Render(m.notice.Title + "\n" + m.notice.Message))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.styles.help.Render("tab/shift+tab: move • enter: load path • ctrl+s: Start split • esc: quit"))
	return b.String()
}
