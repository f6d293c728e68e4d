package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/rigel/internal/audio/adlib"
	"github.com/vovakirdan/rigel/internal/audio/sound"
)

// volumeStep is the change per volume key press.
const volumeStep = 0.1

// Music is the part of the sequencer the monitor controls.
type Music interface {
	Position() int
	Length() int
	Volume() float32
	SetVolume(v float32)
	Type() adlib.Type
	SetType(t adlib.Type)
}

// Sounds is the part of the mixer the monitor controls.
type Sounds interface {
	PlaySound(id sound.ID) error
	StopAll()
	IsPlaying(id sound.ID) bool
}

// Model is the Bubble Tea model of the playback monitor.
type Model struct {
	title  string
	music  Music
	sounds Sounds // may be nil

	keys   KeyMap
	help   help.Model
	volume progress.Model

	status   string
	quitting bool
}

// NewModel creates a monitor for music. sounds may be nil when no sound
// bank is loaded.
func NewModel(title string, music Music, sounds Sounds) Model {
	return Model{
		title:  title,
		music:  music,
		sounds: sounds,
		keys:   DefaultKeyMap(),
		help:   help.New(),
		volume: progress.New(progress.WithDefaultGradient(), progress.WithWidth(30)),
	}
}

// Init starts the refresh loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(RefreshRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m, tickCmd(RefreshRate)
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.VolumeUp):
		m.music.SetVolume(m.music.Volume() + volumeStep)

	case key.Matches(msg, m.keys.VolumeDown):
		m.music.SetVolume(m.music.Volume() - volumeStep)

	case key.Matches(msg, m.keys.Toggle):
		next := m.music.Type().Toggle()
		m.music.SetType(next)
		m.status = fmt.Sprintf("switched to %s", next)

	case key.Matches(msg, m.keys.Sound):
		if m.sounds == nil {
			m.status = "no sound bank loaded"
			break
		}
		id := sound.ID(msg.String()[0] - '0')
		if err := m.sounds.PlaySound(id); err != nil {
			m.status = err.Error()
		} else {
			m.status = fmt.Sprintf("sound %d", id)
		}

	case key.Matches(msg, m.keys.Stop):
		if m.sounds != nil {
			m.sounds.StopAll()
			m.status = "sounds stopped"
		}
	}

	return m, nil
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(titleStyle.Render(m.title))
	sb.WriteString("\n")

	row := func(label, value string) {
		sb.WriteString(labelStyle.Render(label))
		sb.WriteString(value)
		sb.WriteString("\n")
	}

	row("song", valueStyle.Render(fmt.Sprintf("%d / %d commands", m.music.Position(), m.music.Length())))
	row("core", valueStyle.Render(m.music.Type().String()))
	vol := m.music.Volume()
	row("volume", m.volume.ViewAs(float64(vol))+valueStyle.Render(fmt.Sprintf(" %3.0f%%", vol*100)))
	if m.sounds != nil {
		row("sounds", m.playingSounds())
	}
	if m.status != "" {
		row("", statusStyle.Render(m.status))
	}

	return frameStyle.Render(sb.String()) + "\n" + m.help.View(m.keys)
}

func (m Model) playingSounds() string {
	var ids []string
	for id := sound.ID(0); id < sound.NumSounds; id++ {
		if m.sounds.IsPlaying(id) {
			ids = append(ids, activeStyle.Render(fmt.Sprint(int(id))))
		}
	}
	if len(ids) == 0 {
		return valueStyle.Render("-")
	}
	return strings.Join(ids, " ")
}

// Run starts the Bubble Tea program with the monitor.
func Run(title string, music Music, sounds Sounds) error {
	p := tea.NewProgram(
		NewModel(title, music, sounds),
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err := p.Run()
	return err
}
