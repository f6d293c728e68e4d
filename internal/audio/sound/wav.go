package sound

import (
	"bytes"
	"fmt"
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// DecodeWAV reads a PCM WAV file, downmixing to mono and converting to
// 16 bits.
func DecodeWAV(r io.ReadSeeker) (Buffer, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return Buffer{}, fmt.Errorf("%w: not a PCM wav file", ErrInvalidArgument)
	}
	pcm, err := dec.FullPCMBuffer()
	if err != nil {
		return Buffer{}, fmt.Errorf("sound: decode wav: %w", err)
	}

	channels := pcm.Format.NumChannels
	if channels < 1 {
		return Buffer{}, fmt.Errorf("%w: wav with %d channels", ErrInvalidArgument, channels)
	}
	shift := int(dec.BitDepth) - 16

	frames := len(pcm.Data) / channels
	out := make([]int16, frames)
	for i := range out {
		sum := 0
		for c := 0; c < channels; c++ {
			sum += pcm.Data[i*channels+c]
		}
		v := sum / channels
		switch {
		case dec.BitDepth == 8:
			// 8-bit wav is unsigned.
			v = (v - 128) << 8
		case shift > 0:
			v >>= shift
		case shift < 0:
			v <<= -shift
		}
		out[i] = saturate(int32(v))
	}
	return Buffer{SampleRate: pcm.Format.SampleRate, Samples: out}, nil
}

// DecodeWAVBytes is DecodeWAV over an in-memory file.
func DecodeWAVBytes(data []byte) (Buffer, error) {
	return DecodeWAV(bytes.NewReader(data))
}

// WriteWAV encodes buf as a 16-bit mono PCM WAV file.
func WriteWAV(w io.WriteSeeker, buf Buffer) error {
	enc := wav.NewEncoder(w, buf.SampleRate, 16, 1, 1)
	data := make([]int, len(buf.Samples))
	for i, s := range buf.Samples {
		data[i] = int(s)
	}
	ib := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: buf.SampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(ib); err != nil {
		return fmt.Errorf("sound: write wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("sound: finish wav: %w", err)
	}
	return nil
}
