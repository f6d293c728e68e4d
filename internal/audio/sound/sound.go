// Package sound loads the game's sound effects and mixes them over the music.
package sound

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"
)

// ErrInvalidArgument is returned for malformed sound data and unknown IDs.
var ErrInvalidArgument = errors.New("sound: invalid argument")

// NumSounds is the number of sound effects in the AdLib bank.
const NumSounds = 34

// ID identifies a sound effect, 0 to NumSounds-1.
type ID int

// Valid reports whether id names a sound in the bank.
func (id ID) Valid() bool {
	return id >= 0 && id < NumSounds
}

func checkID(id ID) error {
	if !id.Valid() {
		return fmt.Errorf("%w: sound id %d", ErrInvalidArgument, int(id))
	}
	return nil
}

// AdlibSound is a sound effect recorded as a 140 Hz tape of note bytes.
type AdlibSound struct {
	Octave     byte
	Instrument [16]byte
	Data       []byte
}

// adlibHeaderSize covers length, priority, instrument and octave.
const adlibHeaderSize = 4 + 2 + 16 + 1

// ParseAdlibSound decodes an AdLib sound asset. Bytes past the declared
// length are ignored.
func ParseAdlibSound(data []byte) (AdlibSound, error) {
	if len(data) < adlibHeaderSize {
		return AdlibSound{}, fmt.Errorf("%w: adlib sound header needs %d bytes, got %d",
			ErrInvalidArgument, adlibHeaderSize, len(data))
	}
	length := binary.LittleEndian.Uint32(data)
	body := data[adlibHeaderSize:]
	if uint64(length) > uint64(len(body)) {
		return AdlibSound{}, fmt.Errorf("%w: adlib sound declares %d bytes, has %d",
			ErrInvalidArgument, length, len(body))
	}

	// The priority word at offset 4 is not used.
	var s AdlibSound
	copy(s.Instrument[:], data[6:22])
	s.Octave = data[22]
	s.Data = append([]byte(nil), body[:length]...)
	return s, nil
}

// ParseDictionary decodes a sound dictionary. header is a list of 32-bit
// little-endian offsets into data, one per sound; an offset equal to
// len(data) terminates the list.
func ParseDictionary(header, data []byte) ([]AdlibSound, error) {
	if len(header)%4 != 0 {
		return nil, fmt.Errorf("%w: dictionary header of %d bytes", ErrInvalidArgument, len(header))
	}

	var sounds []AdlibSound
	for i := 0; i < len(header); i += 4 {
		off := binary.LittleEndian.Uint32(header[i:])
		if uint64(off) == uint64(len(data)) {
			break
		}
		if uint64(off) > uint64(len(data)) {
			return nil, fmt.Errorf("%w: sound %d at offset %d past %d bytes",
				ErrInvalidArgument, i/4, off, len(data))
		}
		s, err := ParseAdlibSound(data[off:])
		if err != nil {
			return nil, fmt.Errorf("sound %d: %w", i/4, err)
		}
		sounds = append(sounds, s)
	}
	return sounds, nil
}

// Encode returns the asset encoding of s (with priority 0).
func (s AdlibSound) Encode() []byte {
	out := make([]byte, adlibHeaderSize+len(s.Data))
	binary.LittleEndian.PutUint32(out, uint32(len(s.Data)))
	copy(out[6:22], s.Instrument[:])
	out[22] = s.Octave
	copy(out[adlibHeaderSize:], s.Data)
	return out
}

// Buffer is mono 16-bit PCM at SampleRate.
type Buffer struct {
	SampleRate int
	Samples    []int16
}

// Duration returns the play time of the buffer.
func (b Buffer) Duration() time.Duration {
	if b.SampleRate <= 0 {
		return 0
	}
	return time.Duration(len(b.Samples)) * time.Second / time.Duration(b.SampleRate)
}
