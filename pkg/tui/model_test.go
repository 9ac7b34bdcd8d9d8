package tui

import (
	"image/color"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PhantomInTheWire/image-grid-splitter/pkg/logger"
	"github.com/PhantomInTheWire/image-grid-splitter/pkg/preview"
	"github.com/PhantomInTheWire/image-grid-splitter/pkg/session"
	"github.com/PhantomInTheWire/image-grid-splitter/pkg/split"
)

func newModel(t *testing.T, initial session.State) (Model, string) {
	t.Helper()
	ctrl := session.New(
		split.NewExporter(split.WithLogger(logger.Discard())),
		preview.NewRenderer(),
		session.WithLogger(logger.Discard()),
	)
	previewPath := filepath.Join(t.TempDir(), "preview.png")
	return New(ctrl, previewPath, initial), previewPath
}

func send(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m
}

func typeText(s string) tea.Msg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func key(k tea.KeyType) tea.Msg { return tea.KeyMsg{Type: k} }

func sourceImage(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pic.png")
	require.NoError(t, imaging.Save(imaging.New(60, 40, color.White), path))
	return path
}

func TestModel_FullSession(t *testing.T) {
	m, previewPath := newModel(t, session.State{})
	src := sourceImage(t)
	out := filepath.Join(t.TempDir(), "tiles")

	m = send(t, m,
		typeText(src), key(tea.KeyEnter), // image, focus moves to output
		typeText(out), key(tea.KeyEnter), // output, focus moves to rows
		typeText("2"), key(tea.KeyTab),
		typeText("3"),
	)

	st := m.State()
	require.True(t, st.Loaded())
	assert.Equal(t, split.Grid{Rows: 2, Cols: 3}, st.Grid())
	assert.Equal(t, out, st.OutputDir)
	assert.FileExists(t, previewPath)

	m = send(t, m, key(tea.KeyCtrlS))
	require.NotNil(t, m.Notice())
	assert.Equal(t, session.Info, m.Notice().Level, m.Notice().Message)
	assert.Len(t, m.State().Written, 6)
	assert.FileExists(t, filepath.Join(out, "pic_2_3.jpg"))
}

func TestModel_InitialState(t *testing.T) {
	src := sourceImage(t)
	m, previewPath := newModel(t, session.State{ImagePath: src, RowsText: "2", ColsText: "2"})

	assert.True(t, m.State().Loaded())
	assert.Nil(t, m.Notice())
	assert.FileExists(t, previewPath)
	assert.Contains(t, m.View(), "60x40 image, 2x2 grid, 4 tiles")
}

func TestModel_InvalidGridShowsInputError(t *testing.T) {
	m, _ := newModel(t, session.State{ImagePath: sourceImage(t), OutputDir: t.TempDir()})

	m = send(t, m,
		key(tea.KeyTab), key(tea.KeyTab), // rows
		typeText("abc"),
		key(tea.KeyCtrlS),
	)

	require.NotNil(t, m.Notice())
	assert.Equal(t, session.Error, m.Notice().Level)
	assert.Equal(t, "Input error", m.Notice().Title)
	assert.Contains(t, m.View(), "Input error")
}

func TestModel_FocusWraps(t *testing.T) {
	m, _ := newModel(t, session.State{})
	m = send(t, m, key(tea.KeyShiftTab))
	assert.Equal(t, fieldCols, m.focus)
	m = send(t, m, key(tea.KeyTab))
	assert.Equal(t, fieldImage, m.focus)
}

func TestModel_Quit(t *testing.T) {
	m, _ := newModel(t, session.State{})
	_, cmd := m.Update(key(tea.KeyEsc))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
