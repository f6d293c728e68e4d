//go:build !headless

package device

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/ebitengine/oto/v3"
)

// Device plays mono 16-bit little-endian PCM read from a source.
type Device struct {
	ctx     *oto.Context
	player  *oto.Player
	logger  *log.Logger
	started bool
	mu      sync.Mutex
}

// Open creates the audio context and a paused player reading from src.
func Open(opts Options, src io.Reader) (*Device, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   opts.SampleRate,
		ChannelCount: 1,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   opts.BufferSize,
	})
	if err != nil {
		return nil, fmt.Errorf("device: open audio context: %w", err)
	}
	<-ready

	d := &Device{ctx: ctx, player: ctx.NewPlayer(src), logger: opts.logger()}
	d.logger.Debug("audio device opened", "sample_rate", opts.SampleRate, "buffer", opts.BufferSize)
	return d, nil
}

// Start begins playback.
func (d *Device) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.started && d.player != nil {
		d.player.Play()
		d.started = true
		d.logger.Debug("audio device started")
	}
}

// Stop pauses playback.
func (d *Device) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.started && d.player != nil {
		d.player.Pause()
		d.started = false
		d.logger.Debug("audio device stopped")
	}
}

// Close stops playback and releases the player.
func (d *Device) Close() error {
	d.Stop()
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.player == nil {
		return nil
	}
	err := d.player.Close()
	d.player = nil
	if err != nil {
		return fmt.Errorf("device: close player: %w", err)
	}
	return nil
}

// IsStarted reports whether playback is running.
func (d *Device) IsStarted() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.started
}
