package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/qpm/internal/tasks"
)

const labelWidth = 14

// Field identifies one input of the form.
type Field int

const (
	TitleField Field = iota
	AuthorField
	DescriptionField
	ImageField
	OutputField
	fieldCount
)

func (f Field) Label() string {
	switch f {
	case TitleField:
		return "Title"
	case AuthorField:
		return "Author"
	case DescriptionField:
		return "Description"
	case ImageField:
		return "Image path"
	case OutputField:
		return "Output path"
	default:
		return ""
	}
}

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	generator    *tasks.Generator
	inputs       []textinput.Model
	focus        Field
	bar          progress.Model
	progressChan chan tasks.ProgressUpdate
	doneChan     chan generationResult
	last         tasks.ProgressUpdate
	result       *tasks.RunResult
	err          error
	width        int
	help         help.Model
	keys         keyMap
}

// NewModel creates a new TUI model whose fields start from the generator's current settings.
func NewModel(ctx context.Context, generator *tasks.Generator) *Model {
	settings := generator.State().Settings()
	values := map[Field]string{
		TitleField:       settings.Title,
		AuthorField:      settings.Author,
		DescriptionField: settings.Description,
		ImageField:       settings.ImagePath,
		OutputField:      settings.OutputPath,
	}

	inputs := make([]textinput.Model, fieldCount)
	for f := range fieldCount {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 256
		ti.SetValue(values[f])
		inputs[f] = ti
	}
	inputs[ImageField].Placeholder = "bundled cover"
	inputs[OutputField].Placeholder = "playlist.json"
	inputs[TitleField].Focus()

	bar := progress.New(progress.WithDefaultGradient())
	bar.ShowPercentage = false

	return &Model{
		ctx:       ctx,
		generator: generator,
		inputs:    inputs,
		focus:     TitleField,
		bar:       bar,
		help:      help.New(),
		keys:      newKeyMap(),
	}
}

// Init starts the cursor blinking in the focused field.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.bar.Width = max(msg.Width-4, 10)
		for i := range m.inputs {
			m.inputs[i].Width = max(msg.Width-labelWidth-4, 10)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)

	case Msg:
		switch msg.kind {
		case MsgProgressUpdate:
			m.last = msg.data.(tasks.ProgressUpdate)
			return m, m.waitForProgress()
		case MsgGenerationComplete:
			done := msg.data.(generationResult)
			m.result = done.result
			m.err = done.err
			m.progressChan = nil
			m.doneChan = nil
			return m, nil
		}
	}

	return m.updateInputs(msg)
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.next):
		return m, m.setFocus((m.focus + 1) % fieldCount)
	case key.Matches(msg, m.keys.prev):
		return m, m.setFocus((m.focus + fieldCount - 1) % fieldCount)
	case key.Matches(msg, m.keys.generate):
		return m, m.startGeneration()
	}
	return m.updateInputs(msg)
}

func (m *Model) setFocus(f Field) tea.Cmd {
	m.inputs[m.focus].Blur()
	m.focus = f
	return m.inputs[f].Focus()
}

// updateInputs forwards msg to the focused field and writes the form back into the shared settings.
func (m *Model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	m.generator.State().SetSettings(m.Settings())
	return m, cmd
}

// Settings reads the form into [tasks.Settings].
func (m *Model) Settings() tasks.Settings {
	return tasks.Settings{
		Title:       m.inputs[TitleField].Value(),
		Author:      m.inputs[AuthorField].Value(),
		Description: m.inputs[DescriptionField].Value(),
		ImagePath:   m.inputs[ImageField].Value(),
		OutputPath:  m.inputs[OutputField].Value(),
	}
}

// startGeneration runs the generator in the background. It is a no-op unless the state is idle.
func (m *Model) startGeneration() tea.Cmd {
	if m.progressChan != nil || m.generator.State().Status() != tasks.Idle {
		return nil
	}

	m.generator.State().SetSettings(m.Settings())
	m.result = nil
	m.err = nil
	m.progressChan = make(chan tasks.ProgressUpdate, 100)
	m.doneChan = make(chan generationResult, 1)

	progressChan, doneChan := m.progressChan, m.doneChan
	go func() {
		result, err := m.generator.Run(m.ctx, progressChan)
		doneChan <- generationResult{result, err}
		close(progressChan)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	progressChan, doneChan := m.progressChan, m.doneChan
	result, err := m.result, m.err
	return func() tea.Msg {
		if progressChan == nil {
			return generationCompleteMsg(result, err)
		}

		update, ok := <-progressChan
		if !ok {
			done := <-doneChan
			return generationCompleteMsg(done.result, done.err)
		}
		return progressUpdateMsg(update)
	}
}

// View renders the form, the progress bar and the status line.
func (m *Model) View() string {
	snap := m.generator.State().Snapshot()

	var b strings.Builder
	b.WriteString(styles.title.Render("Ranked Queue Playlist"))
	b.WriteString("\n")

	for f := range fieldCount {
		label := styles.label.Render(f.Label())
		if f == m.focus {
			label = styles.focused.Width(labelWidth).Render(f.Label())
		}
		fmt.Fprintf(&b, "%s %s\n", label, m.inputs[f].View())
	}

	b.WriteString("\n")
	b.WriteString(m.bar.ViewAs(snap.Progress / 100))
	b.WriteString("\n")

	if status := renderStatus(snap.Progress, snap.Status); status != "" {
		b.WriteString(status)
		if snap.Status == tasks.Generating && snap.Total > 0 {
			fmt.Fprintf(&b, " %s", styles.help.Render(fmt.Sprintf("(%d/%d songs)", snap.Completed, snap.Total)))
		}
		if snap.Status == tasks.Generating && m.last.Message != "" {
			fmt.Fprintf(&b, "\n%s", styles.help.Render(m.last.Message))
		}
	} else if m.err != nil {
		b.WriteString(styles.err.Render(fmt.Sprintf("Error: %v", m.err)))
	} else if m.result != nil {
		b.WriteString(styles.ok.Render(fmt.Sprintf("Last run: %d songs written to %s", m.result.Songs, m.result.Path)))
	}

	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}
