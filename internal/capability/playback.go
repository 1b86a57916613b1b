package capability

import "context"

// PlaybackAdapter is the host's real-time audio output (CPAL, AVAudioEngine,
// AudioContext, ...). The core's streaming producer writes decoded PCM into
// a RingBuffer that the adapter reads from on its own real-time callback;
// this interface only covers the transport-control surface the core calls
// directly.
//
// Error kinds: NotAvailable, OperationFailed.
type PlaybackAdapter interface {
	Configure(ctx context.Context, sampleRate int, channels int) error
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	SetVolume(ctx context.Context, volume float64) error
}

// ProbeResult is what AudioDecoder.Probe reports before decoding begins.
type ProbeResult struct {
	Format     string // e.g. "mp3", "flac"
	DurationMs int64  // 0 if unknown
	Tags       map[string]string
	SampleRate int
	Channels   int
}

// AudioFrameChunk is one batch of decoded, normalized PCM samples.
// Samples are interleaved float32 in [-1.0, 1.0], channel order matching
// the source (L,R,L,R... for stereo).
type AudioFrameChunk struct {
	Samples     []float32
	Frames      int
	TimestampMs int64
}

// AudioDecoder is the host/core's codec implementation for one opened
// source. Supported codecs are feature-selectable (MP3, AAC, FLAC,
// Vorbis, Opus, WAV, ALAC per spec §4.5.3); the container is probed from
// extension/MIME hint and magic bytes by the concrete implementation.
//
// Error kinds: UnsupportedCodec, DecodingError, Io.
type AudioDecoder interface {
	Probe(ctx context.Context) (ProbeResult, error)
	// DecodeFrames decodes up to maxFrames frames. Returns (nil, nil) at EOF.
	DecodeFrames(ctx context.Context, maxFrames int) (*AudioFrameChunk, error)
	Seek(ctx context.Context, positionMs int64) error
	Close() error
}
