// Package audio provides the in-memory audio buffer and the decode/encode
// boundary used to load source files and write trimmed exports.
package audio

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Format identifies an output container/codec pair by its file extension.
type Format string

const (
	// FormatMP3 encodes with libmp3lame. It is the default export format.
	FormatMP3 Format = "mp3"
	// FormatWAV writes 16-bit PCM without going through ffmpeg.
	FormatWAV Format = "wav"
	// FormatOGG encodes Vorbis in an Ogg container.
	FormatOGG Format = "ogg"
	// FormatFLAC encodes lossless FLAC.
	FormatFLAC Format = "flac"
)

// ErrUnsupportedFormat is returned when a format tag is not one of the known formats.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// supportedInputs are the extensions offered when picking a file to load.
var supportedInputs = []string{".mp3", ".wav", ".ogg", ".flac"}

// ParseFormat converts a user supplied tag such as "MP3" or ".wav" to a Format.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "."))
	if !f.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
	return f, nil
}

// IsValid returns true if the format is known.
func (f Format) IsValid() bool {
	switch f {
	case FormatMP3, FormatWAV, FormatOGG, FormatFLAC:
		return true
	}
	return false
}

// Ext returns the file extension for the format, including the dot.
func (f Format) Ext() string {
	return "." + string(f)
}

// IsLossy reports whether the format discards information.
func (f Format) IsLossy() bool {
	return f == FormatMP3 || f == FormatOGG
}

// FormatFromPath infers the output format from a destination path.
// Paths without a recognized extension map to FormatMP3.
func FormatFromPath(path string) Format {
	f, err := ParseFormat(filepath.Ext(path))
	if err != nil {
		return FormatMP3
	}
	return f
}

// IsSupportedInput reports whether path carries one of the recognized audio extensions.
func IsSupportedInput(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, s := range supportedInputs {
		if ext == s {
			return true
		}
	}
	return false
}

// SupportedInputs returns the recognized input extensions.
func SupportedInputs() []string {
	out := make([]string, len(supportedInputs))
	copy(out, supportedInputs)
	return out
}
