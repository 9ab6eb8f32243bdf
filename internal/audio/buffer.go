package audio

// SampleFormat describes the PCM layout of a Buffer.
type SampleFormat struct {
	SampleRate  int
	NumChannels int
	BitDepth    int
}

// Buffer is a fully decoded audio file held in memory.
// Samples are interleaved by channel, one int per sample.
//
// A Buffer is never mutated after construction; Slice returns a copy.
type Buffer struct {
	// SourcePath is the file the buffer was decoded from. Empty for slices.
	SourcePath string
	// Format is the PCM layout of Samples.
	Format SampleFormat
	// Samples holds Frames()*NumChannels interleaved samples.
	Samples []int
	// DurationMs is Frames()*1000/SampleRate, truncated.
	DurationMs int64
}

// NewBuffer builds a Buffer and derives its duration from the sample count.
// A trailing partial frame is dropped so the sample count stays a multiple
// of the channel count.
func NewBuffer(sourcePath string, format SampleFormat, samples []int) *Buffer {
	if format.NumChannels <= 0 {
		format.NumChannels = 1
	}
	if format.BitDepth <= 0 {
		format.BitDepth = 16
	}
	if rem := len(samples) % format.NumChannels; rem != 0 {
		samples = samples[:len(samples)-rem]
	}

	b := &Buffer{
		SourcePath: sourcePath,
		Format:     format,
		Samples:    samples,
	}
	if format.SampleRate > 0 {
		b.DurationMs = int64(b.Frames()) * 1000 / int64(format.SampleRate)
	}
	return b
}

// Frames returns the number of sample frames (one sample per channel).
func (b *Buffer) Frames() int {
	if b.Format.NumChannels <= 0 {
		return len(b.Samples)
	}
	return len(b.Samples) / b.Format.NumChannels
}

// IsEmpty reports whether the buffer holds no audio.
func (b *Buffer) IsEmpty() bool {
	return len(b.Samples) == 0
}

// Slice returns the sub-range [startMs, endMs) as a new Buffer.
//
// startMs below zero is treated as zero and endMs beyond DurationMs as
// DurationMs. An empty or inverted range yields a zero-duration buffer.
func (b *Buffer) Slice(startMs, endMs int64) *Buffer {
	if startMs < 0 {
		startMs = 0
	}
	if endMs > b.DurationMs {
		endMs = b.DurationMs
	}
	if startMs >= endMs {
		return NewBuffer("", b.Format, []int{})
	}

	frames := b.Frames()
	startFrame := b.msToFrame(startMs)
	endFrame := b.msToFrame(endMs)
	// The last millisecond may hold a fraction of a frame beyond endMs.
	if endMs == b.DurationMs || endFrame > frames {
		endFrame = frames
	}

	ch := b.Format.NumChannels
	out := make([]int, (endFrame-startFrame)*ch)
	copy(out, b.Samples[startFrame*ch:endFrame*ch])

	return NewBuffer("", b.Format, out)
}

func (b *Buffer) msToFrame(ms int64) int {
	return int(ms * int64(b.Format.SampleRate) / 1000)
}
