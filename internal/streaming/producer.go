package streaming

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tonimelisma/musiccore/internal/capability"
)

// Producer decodes AudioDecoder frames into a RingBuffer, running its
// own state machine (spec §4.5.2). It does not spawn its own goroutine —
// Run blocks until the source is exhausted, ctx is cancelled, or
// decoding fails — matching the original's "pure async function, host
// decides execution context" design; the caller chooses whether to run
// it inline or via go producer.Run(ctx).
type Producer struct {
	decoder capability.AudioDecoder
	ring    *RingBuffer
	cfg     StreamingConfig
	logger  *slog.Logger

	mu    sync.Mutex
	state State

	framesDecoded atomic.Int64
	framesWritten atomic.Int64
	rebuffers     atomic.Int32
	lastPosition  atomic.Int64
}

func NewProducer(decoder capability.AudioDecoder, ring *RingBuffer, cfg StreamingConfig, logger *slog.Logger) *Producer {
	if logger == nil {
		logger = slog.Default()
	}

	return &Producer{decoder: decoder, ring: ring, cfg: cfg, logger: logger, state: StateIdle}
}

func (p *Producer) setState(s State) {
	p.mu.Lock()
	p.state = s
	p.mu.Unlock()
}

func (p *Producer) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.state
}

func (p *Producer) Stats() Stats {
	return Stats{
		State:          p.State(),
		FramesDecoded:  p.framesDecoded.Load(),
		FramesWritten:  p.framesWritten.Load(),
		RebufferCount:  int(p.rebuffers.Load()),
		LastPositionMs: p.lastPosition.Load(),
	}
}

// Run drives the producer loop: probe the source, prefetch
// cfg.PrefetchFrames before declaring Streaming, then decode-and-write
// continuously, dropping to Rebuffering whenever the ring empties below
// cfg.RebufferThreshold.
func (p *Producer) Run(ctx context.Context) error {
	p.setState(StateBuffering)

	if _, err := p.decoder.Probe(ctx); err != nil {
		p.setState(StateFailed)
		return fmt.Errorf("streaming: probe source: %w", err)
	}

	if err := p.prefetch(ctx); err != nil {
		p.setState(StateFailed)
		return err
	}

	p.setState(StateStreaming)

	for {
		select {
		case <-ctx.Done():
			p.setState(StateCancelled)
			return ctx.Err()
		default:
		}

		done, err := p.decodeAndWriteChunk(ctx)
		if err != nil {
			p.setState(StateFailed)
			return err
		}

		if done {
			p.setState(StateCompleted)
			return nil
		}

		if p.ring.Available() < p.cfg.RebufferThreshold && p.State() == StateStreaming {
			p.setState(StateRebuffering)
			p.rebuffers.Add(1)
			p.logger.Warn("streaming: rebuffering", "available", p.ring.Available())
		} else if p.State() == StateRebuffering && p.ring.Available() >= p.cfg.PrefetchFrames {
			p.setState(StateStreaming)
		}
	}
}

func (p *Producer) prefetch(ctx context.Context) error {
	for p.ring.Available() < p.cfg.PrefetchFrames {
		done, err := p.decodeAndWriteChunk(ctx)
		if err != nil {
			return err
		}

		if done {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}

	return nil
}

// decodeAndWriteChunk decodes one chunk and blocks (polling) until the
// ring has room for it, returning done=true at source EOF.
func (p *Producer) decodeAndWriteChunk(ctx context.Context) (done bool, err error) {
	chunk, err := p.decoder.DecodeFrames(ctx, p.cfg.ChunkFrames)
	if err != nil {
		return false, fmt.Errorf("streaming: decode frames: %w", err)
	}

	if chunk == nil {
		return true, nil
	}

	p.framesDecoded.Add(int64(chunk.Frames))
	p.lastPosition.Store(chunk.TimestampMs)

	written := 0
	for written < len(chunk.Samples) {
		n := p.ring.Write(chunk.Samples[written:])
		written += n
		p.framesWritten.Add(int64(n))

		if written < len(chunk.Samples) {
			select {
			case <-ctx.Done():
				return false, ctx.Err()
			case <-time.After(p.cfg.PollInterval):
			}
		}
	}

	return false, nil
}

// Seek resets the ring and asks the decoder to jump to positionMs. The
// caller is responsible for re-running prefetch logic via Run if it
// calls Seek mid-stream outside Run's own loop.
func (p *Producer) Seek(ctx context.Context, positionMs int64) error {
	if err := p.decoder.Seek(ctx, positionMs); err != nil {
		return fmt.Errorf("streaming: seek: %w", err)
	}

	p.ring.Reset()
	p.lastPosition.Store(positionMs)

	return nil
}
