// Package imf plays IMF music: a stream of timed OPL register writes.
package imf

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"
)

// Rate is the IMF timing rate in ticks per second.
const Rate = 280

// ErrInvalidSong is returned for malformed song data.
var ErrInvalidSong = errors.New("imf: invalid song")

const commandSize = 4

// Command is one register write followed by a delay in Rate ticks.
type Command struct {
	Register byte
	Value    byte
	Delay    uint16
}

// Song is an ordered list of commands, played in a loop.
type Song []Command

// Ticks returns the length of one pass of the song in Rate ticks.
func (s Song) Ticks() uint64 {
	var total uint64
	for _, c := range s {
		total += uint64(c.Delay)
	}
	return total
}

// Duration returns the play time of one pass of the song.
func (s Song) Duration() time.Duration {
	return time.Duration(s.Ticks()) * time.Second / Rate
}

// ParseSong decodes IMF data. Files whose length is a multiple of the record
// size are read whole; otherwise a leading 16-bit byte count selects the
// command block and anything after it is ignored.
func ParseSong(data []byte) (Song, error) {
	body := data
	if len(data)%commandSize != 0 {
		if len(data) < 2 {
			return nil, fmt.Errorf("%w: %d bytes", ErrInvalidSong, len(data))
		}
		n := int(binary.LittleEndian.Uint16(data))
		if n%commandSize != 0 || 2+n > len(data) {
			return nil, fmt.Errorf("%w: %d bytes with a length header of %d", ErrInvalidSong, len(data), n)
		}
		body = data[2 : 2+n]
	}

	song := make(Song, 0, len(body)/commandSize)
	for off := 0; off < len(body); off += commandSize {
		song = append(song, Command{
			Register: body[off],
			Value:    body[off+1],
			Delay:    binary.LittleEndian.Uint16(body[off+2:]),
		})
	}
	return song, nil
}

// LoadSong reads and decodes IMF data from r.
func LoadSong(r io.Reader) (Song, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("imf: read song: %w", err)
	}
	return ParseSong(data)
}

// Encode returns the headerless IMF encoding of the song.
func (s Song) Encode() []byte {
	out := make([]byte, len(s)*commandSize)
	for i, c := range s {
		off := i * commandSize
		out[off] = c.Register
		out[off+1] = c.Value
		binary.LittleEndian.PutUint16(out[off+2:], c.Delay)
	}
	return out
}
