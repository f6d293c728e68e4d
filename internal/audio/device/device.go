// Package device streams PCM from an io.Reader to the system audio output.
package device

import (
	"time"

	"github.com/charmbracelet/log"
)

// Options configures the output device.
type Options struct {
	SampleRate int
	// BufferSize is the device buffer length. Zero lets the backend choose.
	BufferSize time.Duration
	Logger     *log.Logger
}

func (o Options) logger() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.Default()
}
