package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/riff"
	"github.com/go-audio/wav"
)

// ErrInvalidWAV is returned when a stream does not hold a readable PCM WAV file.
var ErrInvalidWAV = errors.New("not a valid PCM wav stream")

// WAVE format tags accepted on read. Only wavPCM is written.
const (
	wavPCM        = 1
	wavExtensible = 0xFFFE
)

// Layout of a WAVE_FORMAT_EXTENSIBLE fmt chunk: the SubFormat GUID starts at
// byte 24 and its first two bytes carry the real format tag.
const (
	extensibleFmtSize   = 40
	extensibleSubFormat = 24
)

// ksDataFormatTail is the fixed tail shared by the KSDATAFORMAT_SUBTYPE_* GUIDs.
var ksDataFormatTail = []byte{0x00, 0x00, 0x00, 0x00, 0x10, 0x00, 0x80, 0x00, 0x00, 0xAA, 0x00, 0x38, 0x9B, 0x71}

// ReadWAV decodes a PCM WAV stream into a Buffer.
func ReadWAV(r io.ReadSeeker, sourcePath string) (*Buffer, error) {
	dec := wav.NewDecoder(r)
	dec.ReadInfo()
	if err := dec.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWAV, err)
	}
	if dec.NumChans == 0 || dec.SampleRate == 0 {
		return nil, ErrInvalidWAV
	}
	switch dec.WavAudioFormat {
	case wavPCM:
	case wavExtensible:
		// go-audio does not read the SubFormat, so float or compressed data
		// in the extensible wrapper would otherwise be decoded as integers.
		sub, err := extensibleFormat(r)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidWAV, err)
		}
		if sub != wavPCM {
			return nil, fmt.Errorf("%w: extensible sub format %d", ErrInvalidWAV, sub)
		}
		if _, err := r.Seek(0, io.SeekStart); err != nil {
			return nil, fmt.Errorf("rewind wav: %w", err)
		}
		dec = wav.NewDecoder(r)
		dec.ReadInfo()
		if err := dec.Err(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidWAV, err)
		}
	default:
		return nil, fmt.Errorf("%w: audio format %d", ErrInvalidWAV, dec.WavAudioFormat)
	}

	pcm, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("read pcm: %w", err)
	}

	format := SampleFormat{
		SampleRate:  int(dec.SampleRate),
		NumChannels: int(dec.NumChans),
		BitDepth:    int(dec.BitDepth),
	}
	return NewBuffer(sourcePath, format, pcm.Data), nil
}

// extensibleFormat rewinds r and returns the format tag embedded in the
// SubFormat GUID of the fmt chunk. Unknown GUIDs report 0.
func extensibleFormat(r io.ReadSeeker) (uint16, error) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return 0, err
	}

	p := riff.New(r)
	if err := p.ParseHeaders(); err != nil {
		return 0, err
	}
	if p.Format != riff.WavFormatID {
		return 0, riff.ErrFmtNotSupported
	}

	for {
		chunk, err := p.NextChunk()
		if err != nil {
			return 0, fmt.Errorf("fmt chunk not found: %w", err)
		}
		if chunk.ID != riff.FmtID {
			chunk.Drain()
			continue
		}
		if chunk.Size < extensibleFmtSize {
			return 0, fmt.Errorf("extensible fmt chunk is %d bytes", chunk.Size)
		}

		body := make([]byte, chunk.Size)
		if _, err := io.ReadFull(chunk, body); err != nil {
			return 0, fmt.Errorf("read fmt chunk: %w", err)
		}
		guid := body[extensibleSubFormat : extensibleSubFormat+16]
		if !bytes.Equal(guid[2:], ksDataFormatTail) {
			return 0, nil
		}
		return binary.LittleEndian.Uint16(guid[:2]), nil
	}
}

// WriteWAV encodes buf as a PCM WAV stream at the buffer's bit depth.
func WriteWAV(w io.WriteSeeker, buf *Buffer) error {
	bitDepth := buf.Format.BitDepth
	if bitDepth <= 0 {
		bitDepth = 16
	}

	enc := wav.NewEncoder(w, buf.Format.SampleRate, bitDepth, buf.Format.NumChannels, wavPCM)

	// Write is called even for an empty buffer so the header gets emitted.
	if err := enc.Write(&goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: buf.Format.NumChannels,
			SampleRate:  buf.Format.SampleRate,
		},
		Data:           buf.Samples,
		SourceBitDepth: bitDepth,
	}); err != nil {
		return fmt.Errorf("write pcm: %w", err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("finalize wav: %w", err)
	}
	return nil
}
