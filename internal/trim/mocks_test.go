package trim

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/maauso/audiotrim/internal/audio"
	"github.com/maauso/audiotrim/internal/playback"
)

type mockEncoder struct {
	mock.Mock
}

func (m *mockEncoder) Encode(ctx context.Context, buf *audio.Buffer, dst string, format audio.Format) error {
	args := m.Called(ctx, buf, dst, format)
	return args.Error(0)
}

type mockDecoder struct {
	mock.Mock
}

func (m *mockDecoder) Decode(ctx context.Context, path string) (*audio.Buffer, error) {
	args := m.Called(ctx, path)
	buf, _ := args.Get(0).(*audio.Buffer)
	return buf, args.Error(1)
}

type mockPlayer struct {
	mock.Mock
}

func (m *mockPlayer) Play(ctx context.Context, buf *audio.Buffer) *playback.Task {
	m.Called(ctx, buf)
	return playback.Go(ctx, func(context.Context) error { return nil })
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, key string, data io.Reader) (string, error) {
	args := m.Called(ctx, key, data)
	return args.String(0), args.Error(1)
}

// msBuffer returns a mono buffer at 1kHz, so one sample per millisecond.
func msBuffer(durationMs int) *audio.Buffer {
	samples := make([]int, durationMs)
	for i := range samples {
		samples[i] = i
	}
	return audio.NewBuffer("test.wav", audio.SampleFormat{SampleRate: 1000, NumChannels: 1, BitDepth: 16}, samples)
}
