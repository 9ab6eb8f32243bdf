package trim

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/maauso/audiotrim/internal/audio"
	"github.com/maauso/audiotrim/internal/storage"
)

func rangeOf(start, end int) Range {
	r := NewRange()
	r.SetStart(start)
	r.SetEnd(end)
	return r
}

func TestComputeBoundaries(t *testing.T) {
	tests := []struct {
		name       string
		durationMs int64
		start, end int
		wantStart  int64
		wantEnd    int64
	}{
		{"quarter to three quarters", 1000, 25, 75, 250, 750},
		{"full range", 1234, 0, 100, 0, 1234},
		{"truncates", 999, 33, 67, 329, 669},
		{"collapsed", 1000, 40, 40, 400, 400},
		{"empty buffer", 0, 10, 90, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			startMs, endMs := ComputeBoundaries(tt.durationMs, rangeOf(tt.start, tt.end))
			assert.Equal(t, tt.wantStart, startMs)
			assert.Equal(t, tt.wantEnd, endMs)
		})
	}
}

func TestComputeBoundaries_ScalesWithDuration(t *testing.T) {
	for _, d := range []int64{0, 100, 1000, 60_000, 3_600_000} {
		for s := 0; s <= 100; s += 5 {
			r := rangeOf(s, 100-s/2)
			s1, e1 := ComputeBoundaries(d, r)
			s2, e2 := ComputeBoundaries(2*d, r)
			assert.Equal(t, 2*s1, s2)
			assert.Equal(t, 2*e1, e2)
		}
	}
}

func TestController_Preview_NoBufferIsNoop(t *testing.T) {
	player := &mockPlayer{}
	c := NewController(&mockEncoder{}, player, nil)

	task := c.Preview(context.Background(), nil, NewRange())
	assert.Nil(t, task)
	player.AssertNotCalled(t, "Play", mock.Anything, mock.Anything)
}

func TestController_Preview_PlaysSegment(t *testing.T) {
	player := &mockPlayer{}
	c := NewController(&mockEncoder{}, player, nil)
	buf := msBuffer(1000)

	player.On("Play", mock.Anything, mock.MatchedBy(func(b *audio.Buffer) bool {
		return b.DurationMs == 500 && b.Samples[0] == 250
	})).Return()

	task := c.Preview(context.Background(), buf, rangeOf(25, 75))
	require.NotNil(t, task)

	select {
	case <-task.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("task did not finish")
	}
	player.AssertExpectations(t)
}

func TestController_Export_NoBufferIsNoop(t *testing.T) {
	enc := &mockEncoder{}
	pub := &mockPublisher{}
	c := NewController(enc, &mockPlayer{}, nil, WithPublisher(pub))

	result, err := c.Export(context.Background(), nil, NewRange(), "out.mp3", audio.FormatMP3)
	require.NoError(t, err)
	assert.Equal(t, ExportResult{}, result)
	enc.AssertNotCalled(t, "Encode", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func TestController_Export_EncodesSegment(t *testing.T) {
	enc := &mockEncoder{}
	c := NewController(enc, &mockPlayer{}, nil)
	buf := msBuffer(1000)

	enc.On("Encode", mock.Anything, mock.MatchedBy(func(b *audio.Buffer) bool {
		return b.DurationMs == 500 && b.Samples[0] == 250 && b.Samples[len(b.Samples)-1] == 749
	}), "clip.wav", audio.FormatWAV).Return(nil)

	result, err := c.Export(context.Background(), buf, rangeOf(25, 75), "clip.wav", "")
	require.NoError(t, err)
	assert.Equal(t, ExportResult{
		Path:       "clip.wav",
		Format:     audio.FormatWAV,
		StartMs:    250,
		EndMs:      750,
		DurationMs: 500,
	}, result)
	enc.AssertExpectations(t)
}

func TestController_Export_Defaults(t *testing.T) {
	enc := &mockEncoder{}
	c := NewController(enc, &mockPlayer{}, nil)

	enc.On("Encode", mock.Anything, mock.Anything, DefaultExportPath, audio.FormatMP3).Return(nil)

	result, err := c.Export(context.Background(), msBuffer(100), NewRange(), "", "")
	require.NoError(t, err)
	assert.Equal(t, DefaultExportPath, result.Path)
	assert.Equal(t, audio.FormatMP3, result.Format)
	enc.AssertExpectations(t)
}

func TestController_Export_PropagatesEncodeError(t *testing.T) {
	enc := &mockEncoder{}
	pub := &mockPublisher{}
	c := NewController(enc, &mockPlayer{}, nil, WithPublisher(pub))

	encErr := &audio.EncodeError{Path: "x.mp3", Format: audio.FormatMP3, Err: errors.New("disk full")}
	enc.On("Encode", mock.Anything, mock.Anything, "x.mp3", audio.FormatMP3).Return(encErr)

	_, err := c.Export(context.Background(), msBuffer(100), NewRange(), "x.mp3", audio.FormatMP3)
	assert.ErrorIs(t, err, audio.ErrEncode)
	pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func TestController_Export_Publishes(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "clip.mp3")

	enc := &mockEncoder{}
	enc.On("Encode", mock.Anything, mock.Anything, dst, audio.FormatMP3).
		Run(func(args mock.Arguments) {
			_ = os.WriteFile(dst, []byte("encoded"), 0600)
		}).
		Return(nil)

	pub := &mockPublisher{}
	pub.On("Publish", mock.Anything, "clip.mp3", mock.Anything).
		Return("https://bucket.s3.us-east-1.amazonaws.com/clip.mp3", nil)

	c := NewController(enc, &mockPlayer{}, nil, WithPublisher(pub))

	result, err := c.Export(context.Background(), msBuffer(100), NewRange(), dst, "")
	require.NoError(t, err)
	assert.Equal(t, "https://bucket.s3.us-east-1.amazonaws.com/clip.mp3", result.URL)
	pub.AssertExpectations(t)
}

func TestController_Export_PublishFailureKeepsFile(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "clip.mp3")

	enc := &mockEncoder{}
	enc.On("Encode", mock.Anything, mock.Anything, dst, audio.FormatMP3).
		Run(func(args mock.Arguments) {
			_ = os.WriteFile(dst, []byte("encoded"), 0600)
		}).
		Return(nil)

	pub := &mockPublisher{}
	uploadErr := errors.New("access denied")
	pub.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return("", uploadErr)

	c := NewController(enc, &mockPlayer{}, nil, WithPublisher(pub))

	result, err := c.Export(context.Background(), msBuffer(100), NewRange(), dst, "")
	assert.ErrorIs(t, err, ErrPublish)
	assert.ErrorIs(t, err, uploadErr)
	assert.Equal(t, dst, result.Path)
	assert.FileExists(t, dst)
}

func TestController_Export_FullRangeRoundTrip(t *testing.T) {
	store, err := storage.NewLocalStorage(filepath.Join(t.TempDir(), "scratch"))
	require.NoError(t, err)
	codec := audio.NewFFmpegCodec("", store)
	c := NewController(codec, &mockPlayer{}, nil)

	// 44.1kHz stereo with a sub-millisecond tail
	samples := make([]int, 2*44150)
	for i := range samples {
		samples[i] = (i % 64) * 10
	}
	buf := audio.NewBuffer("src.wav", audio.SampleFormat{SampleRate: 44100, NumChannels: 2, BitDepth: 16}, samples)

	dst := filepath.Join(t.TempDir(), "full.wav")
	_, err = c.Export(context.Background(), buf, NewRange(), dst, "")
	require.NoError(t, err)

	out, err := codec.Decode(context.Background(), dst)
	require.NoError(t, err)
	assert.Equal(t, buf.DurationMs, out.DurationMs)
	assert.Equal(t, buf.Samples, out.Samples)
}
