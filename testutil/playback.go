package testutil

import (
	"context"
	"sync"

	"github.com/tonimelisma/musiccore/internal/capability"
)

// FakePlaybackAdapter implements capability.PlaybackAdapter, recording
// transport calls instead of driving a real audio device.
type FakePlaybackAdapter struct {
	mu      sync.Mutex
	Started bool
	Volume  float64
}

func (p *FakePlaybackAdapter) Configure(ctx context.Context, sampleRate, channels int) error { return nil }

func (p *FakePlaybackAdapter) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.Started = true

	return nil
}

func (p *FakePlaybackAdapter) Stop(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.Started = false

	return nil
}

func (p *FakePlaybackAdapter) SetVolume(ctx context.Context, volume float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.Volume = volume

	return nil
}

var _ capability.PlaybackAdapter = (*FakePlaybackAdapter)(nil)

// FakeAudioDecoder implements capability.AudioDecoder, serving a fixed
// set of silent frames so internal/streaming's Producer can be driven
// in tests without a real codec.
type FakeAudioDecoder struct {
	mu              sync.Mutex
	TotalFrames     int
	FramesPerDecode int
	Channels        int
	framesSent      int
	Probed          capability.ProbeResult
}

func NewFakeAudioDecoder(totalFrames, framesPerDecode, channels int) *FakeAudioDecoder {
	return &FakeAudioDecoder{
		TotalFrames:     totalFrames,
		FramesPerDecode: framesPerDecode,
		Channels:        channels,
		Probed:          capability.ProbeResult{Format: "wav", SampleRate: 44100, Channels: channels},
	}
}

func (d *FakeAudioDecoder) Probe(ctx context.Context) (capability.ProbeResult, error) {
	return d.Probed, nil
}

func (d *FakeAudioDecoder) DecodeFrames(ctx context.Context, maxFrames int) (*capability.AudioFrameChunk, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.framesSent >= d.TotalFrames {
		return nil, nil
	}

	n := d.FramesPerDecode
	if n > maxFrames {
		n = maxFrames
	}

	if d.framesSent+n > d.TotalFrames {
		n = d.TotalFrames - d.framesSent
	}

	samples := make([]float32, n*d.Channels)
	d.framesSent += n

	return &capability.AudioFrameChunk{Samples: samples, Frames: n}, nil
}

func (d *FakeAudioDecoder) Seek(ctx context.Context, positionMs int64) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.framesSent = 0

	return nil
}

func (d *FakeAudioDecoder) Close() error { return nil }

var _ capability.AudioDecoder = (*FakeAudioDecoder)(nil)
