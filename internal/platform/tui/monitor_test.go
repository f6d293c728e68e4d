package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/rigel/internal/audio/adlib"
	"github.com/vovakirdan/rigel/internal/audio/sound"
)

type fakeMusic struct {
	pos, length int
	volume      float32
	typ         adlib.Type
}

func (f *fakeMusic) Position() int { return f.pos }
func (f *fakeMusic) Length() int { return f.length }
func (f *fakeMusic) Volume() float32 { return f.volume }
func (f *fakeMusic) SetVolume(v float32) { f.volume = min(max(v, 0), 1) }
func (f *fakeMusic) Type() adlib.Type { return f.typ }
func (f *fakeMusic) SetType(t adlib.Type) { f.typ = t }

type fakeSounds struct {
	played  []sound.ID
	stopped int
}

func (f *fakeSounds) PlaySound(id sound.ID) error {
	if !id.Valid() {
		return sound.ErrInvalidArgument
	}
	f.played = append(f.played, id)
	return nil
}
func (f *fakeSounds) StopAll() { f.stopped++ }
func (f *fakeSounds) IsPlaying(id sound.ID) bool {
	for _, p := range f.played {
		if p == id {
			return true
		}
	}
	return false
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m Model, msgs ...tea.Msg) Model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func TestVolumeKeys(t *testing.T) {
	music := &fakeMusic{volume: 0.5}
	m := NewModel("test", music, nil)

	m = press(m, runes("+"), runes("+"))
	if got := music.Volume(); got < 0.69 || got > 0.71 {
		t.Errorf("volume after two steps up = %v, expected 0.7", got)
	}

	m = press(m, runes("-"), runes("-"), runes("-"), runes("-"), runes("-"), runes("-"), runes("-"), runes("-"))
	if got := music.Volume(); got != 0 {
		t.Errorf("volume should clamp at 0, got %v", got)
	}
	_ = m
}

func TestToggleEmulator(t *testing.T) {
	music := &fakeMusic{typ: adlib.Block}
	m := NewModel("test", music, nil)

	m = press(m, runes("t"))
	if music.Type() != adlib.Resampled {
		t.Errorf("Type() = %v, expected %v", music.Type(), adlib.Resampled)
	}
	if !strings.Contains(m.status, adlib.Resampled.String()) {
		t.Errorf("status %q should name the new emulator", m.status)
	}

	press(m, runes("t"))
	if music.Type() != adlib.Block {
		t.Errorf("second toggle should return to %v, got %v", adlib.Block, music.Type())
	}
}

func TestSoundKeys(t *testing.T) {
	music := &fakeMusic{}
	sounds := &fakeSounds{}
	m := NewModel("test", music, sounds)

	m = press(m, runes("3"), runes("0"), runes("s"))
	if len(sounds.played) != 2 || sounds.played[0] != 3 || sounds.played[1] != 0 {
		t.Errorf("played = %v, expected [3 0]", sounds.played)
	}
	if sounds.stopped != 1 {
		t.Errorf("StopAll called %d times, expected 1", sounds.stopped)
	}
	if m.status != "sounds stopped" {
		t.Errorf("status = %q", m.status)
	}
}

func TestSoundKeyWithoutBank(t *testing.T) {
	m := NewModel("test", &fakeMusic{}, nil)
	m = press(m, runes("5"), runes("s"))
	if m.status != "no sound bank loaded" {
		t.Errorf("status = %q", m.status)
	}
}

func TestQuit(t *testing.T) {
	for _, msg := range []tea.KeyMsg{runes("q"), {Type: tea.KeyCtrlC}} {
		m := NewModel("test", &fakeMusic{}, nil)
		next, cmd := m.Update(msg)
		if cmd == nil {
			t.Errorf("%s: expected quit command", msg)
			continue
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s: command should produce tea.QuitMsg", msg)
		}
		if next.(Model).View() != "" {
			t.Errorf("%s: view should be empty after quit", msg)
		}
	}
}

func TestTickReschedules(t *testing.T) {
	m := NewModel("test", &fakeMusic{}, nil)
	_, cmd := m.Update(TickMsg{})
	if cmd == nil {
		t.Error("tick should schedule the next refresh")
	}
}

func TestView(t *testing.T) {
	music := &fakeMusic{pos: 12, length: 40, volume: 0.5, typ: adlib.Resampled}
	sounds := &fakeSounds{played: []sound.ID{7}}
	view := NewModel("E1M1", music, sounds).View()

	for _, want := range []string{"E1M1", "12 / 40 commands", "nuked", "50%", "7"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}
