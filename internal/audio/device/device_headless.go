//go:build headless

package device

import (
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Device is a null output that drains its source in real time.
type Device struct {
	src        io.Reader
	sampleRate int
	logger     *log.Logger

	mu      sync.Mutex
	started bool
	stop    chan struct{}
	done    chan struct{}
}

// Open returns a paused null device reading from src.
func Open(opts Options, src io.Reader) (*Device, error) {
	return &Device{src: src, sampleRate: opts.SampleRate, logger: opts.logger()}, nil
}

// Start begins draining the source.
func (d *Device) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.started {
		return
	}
	d.started = true
	d.stop = make(chan struct{})
	d.done = make(chan struct{})
	go d.drain(d.stop, d.done)
	d.logger.Debug("headless audio started")
}

func (d *Device) drain(stop, done chan struct{}) {
	defer close(done)

	const period = 20 * time.Millisecond
	buf := make([]byte, 2*d.sampleRate*int(period/time.Millisecond)/1000)
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if _, err := d.src.Read(buf); err != nil {
				return
			}
		}
	}
}

// Stop pauses draining.
func (d *Device) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.started {
		return
	}
	close(d.stop)
	<-d.done
	d.started = false
	d.logger.Debug("headless audio stopped")
}

// Close stops the device.
func (d *Device) Close() error {
	d.Stop()
	return nil
}

// IsStarted reports whether the device is running.
func (d *Device) IsStarted() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.started
}
