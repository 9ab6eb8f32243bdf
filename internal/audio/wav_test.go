package audio

import (
	"bytes"
	"context"
	"encoding/binary"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	subtypePCM       = 1
	subtypeIEEEFloat = 3
)

// extensibleWAV builds a mono 8kHz WAVE_FORMAT_EXTENSIBLE stream by hand.
// data holds the already encoded sample bytes.
func extensibleWAV(t *testing.T, subtype uint16, bitDepth uint16, data []byte) *bytes.Reader {
	t.Helper()
	const (
		rate     = 8000
		channels = 1
	)
	blockAlign := channels * bitDepth / 8

	var fmtChunk bytes.Buffer
	for _, v := range []any{
		uint16(wavExtensible),
		uint16(channels),
		uint32(rate),
		uint32(rate) * uint32(blockAlign),
		blockAlign,
		bitDepth,
		uint16(22),       // cbSize
		bitDepth,         // valid bits per sample
		uint32(0x4),      // front center
		subtype,          // first two bytes of the SubFormat GUID
		ksDataFormatTail, // rest of the GUID
	} {
		require.NoError(t, binary.Write(&fmtChunk, binary.LittleEndian, v))
	}
	require.Equal(t, extensibleFmtSize, fmtChunk.Len())

	var out bytes.Buffer
	out.WriteString("RIFF")
	require.NoError(t, binary.Write(&out, binary.LittleEndian, uint32(4+8+fmtChunk.Len()+8+len(data))))
	out.WriteString("WAVE")
	out.WriteString("fmt ")
	require.NoError(t, binary.Write(&out, binary.LittleEndian, uint32(fmtChunk.Len())))
	out.Write(fmtChunk.Bytes())
	out.WriteString("data")
	require.NoError(t, binary.Write(&out, binary.LittleEndian, uint32(len(data))))
	out.Write(data)

	return bytes.NewReader(out.Bytes())
}

func TestReadWAV_RejectsExtensibleFloat(t *testing.T) {
	var data bytes.Buffer
	for _, v := range []float32{0.5, -0.5, 0.25, 0} {
		require.NoError(t, binary.Write(&data, binary.LittleEndian, math.Float32bits(v)))
	}

	_, err := ReadWAV(extensibleWAV(t, subtypeIEEEFloat, 32, data.Bytes()), "float.wav")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidWAV)
}

func TestFFmpegCodec_Decode_ExtensibleFloatGoesThroughFFmpeg(t *testing.T) {
	var data bytes.Buffer
	for _, v := range []float32{0.5, -0.5} {
		require.NoError(t, binary.Write(&data, binary.LittleEndian, math.Float32bits(v)))
	}
	raw, err := io.ReadAll(extensibleWAV(t, subtypeIEEEFloat, 32, data.Bytes()))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "float.wav")
	require.NoError(t, os.WriteFile(path, raw, 0600))

	// With no usable ffmpeg the fallback fails instead of loading bit patterns.
	c := newTestCodec(t, "/nonexistent/ffmpeg")
	_, err = c.Decode(context.Background(), path)
	assert.ErrorIs(t, err, ErrDecode)
}

func TestReadWAV_AcceptsExtensiblePCM(t *testing.T) {
	want := []int{1000, -1000, 250, 0}
	var data bytes.Buffer
	for _, v := range want {
		require.NoError(t, binary.Write(&data, binary.LittleEndian, int16(v)))
	}

	buf, err := ReadWAV(extensibleWAV(t, subtypePCM, 16, data.Bytes()), "pcm.wav")
	require.NoError(t, err)
	assert.Equal(t, SampleFormat{SampleRate: 8000, NumChannels: 1, BitDepth: 16}, buf.Format)
	assert.Equal(t, want, buf.Samples)
}

func TestReadWAV_RejectsGarbage(t *testing.T) {
	_, err := ReadWAV(bytes.NewReader([]byte("definitely not audio")), "junk.wav")
	assert.ErrorIs(t, err, ErrInvalidWAV)
}

func TestWriteWAV_RoundTrip(t *testing.T) {
	src := NewBuffer("", SampleFormat{SampleRate: 16000, NumChannels: 2, BitDepth: 16}, []int{1, -1, 300, -300, 32767, -32768})

	f, err := os.CreateTemp(t.TempDir(), "roundtrip-*.wav")
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	require.NoError(t, WriteWAV(f, src))
	_, err = f.Seek(0, io.SeekStart)
	require.NoError(t, err)

	got, err := ReadWAV(f, "rt.wav")
	require.NoError(t, err)
	assert.Equal(t, src.Format, got.Format)
	assert.Equal(t, src.Samples, got.Samples)
}
