package streaming

import "time"

// StreamingConfig tunes the Producer's prefetch/rebuffer thresholds.
// Grounded on the original's StreamingConfig (core-playback/src/config,
// referenced from streaming.rs) — LowLatency and HighQuality mirror its
// two named presets.
type StreamingConfig struct {
	RingBufferCapacity int           // samples
	PrefetchFrames     int           // frames buffered before Streaming begins
	RebufferThreshold  int           // frames below which state drops to Rebuffering
	ChunkFrames        int           // frames decoded per DecodeFrames call
	PollInterval       time.Duration // producer loop sleep when the ring is full
}

// DefaultStreamingConfig balances latency and resilience to network
// jitter for typical mobile/desktop playback.
func DefaultStreamingConfig() StreamingConfig {
	return StreamingConfig{
		RingBufferCapacity: 176400, // 2s stereo @ 44.1kHz
		PrefetchFrames:     8820,   // 200ms
		RebufferThreshold:  2205,   // 50ms
		ChunkFrames:        4410,   // 100ms
		PollInterval:       10 * time.Millisecond,
	}
}

// LowLatencyStreamingConfig minimizes startup and seek latency at the
// cost of being more rebuffer-prone on unstable connections.
func LowLatencyStreamingConfig() StreamingConfig {
	cfg := DefaultStreamingConfig()
	cfg.RingBufferCapacity = 44100 // 0.5s
	cfg.PrefetchFrames = 2205      // 50ms
	cfg.RebufferThreshold = 1102   // 25ms
	cfg.ChunkFrames = 2205

	return cfg
}

// HighQualityStreamingConfig favors a deep buffer to ride out network
// jitter, at the cost of slower start.
func HighQualityStreamingConfig() StreamingConfig {
	cfg := DefaultStreamingConfig()
	cfg.RingBufferCapacity = 441000 // 5s
	cfg.PrefetchFrames = 44100      // 1s
	cfg.RebufferThreshold = 8820    // 200ms

	return cfg
}

// State is the Producer's lifecycle state machine (spec §4.5.2):
// Idle -> Buffering -> Streaming <-> Rebuffering -> {Completed, Failed, Cancelled}.
type State int

const (
	StateIdle State = iota
	StateBuffering
	StateStreaming
	StateRebuffering
	StateCompleted
	StateFailed
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateBuffering:
		return "Buffering"
	case StateStreaming:
		return "Streaming"
	case StateRebuffering:
		return "Rebuffering"
	case StateCompleted:
		return "Completed"
	case StateFailed:
		return "Failed"
	case StateCancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

// Stats reports the Producer's progress, mirroring the original's
// StreamingStats.
type Stats struct {
	State          State
	FramesDecoded  int64
	FramesWritten  int64
	RebufferCount  int
	LastPositionMs int64
}
