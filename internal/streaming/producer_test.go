package streaming

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tonimelisma/musiccore/testutil"
)

func fastConfig() StreamingConfig {
	cfg := DefaultStreamingConfig()
	cfg.RingBufferCapacity = 100
	cfg.PrefetchFrames = 10
	cfg.RebufferThreshold = 5
	cfg.ChunkFrames = 10
	cfg.PollInterval = time.Millisecond

	return cfg
}

func TestProducerRunCompletesOnSourceExhaustion(t *testing.T) {
	decoder := testutil.NewFakeAudioDecoder(50, 10, 2)
	ring := NewRingBuffer(200)
	producer := NewProducer(decoder, ring, fastConfig(), nil)

	err := producer.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateCompleted, producer.State())

	stats := producer.Stats()
	assert.Equal(t, int64(50), stats.FramesDecoded)
}

func TestProducerRunCancelledByContext(t *testing.T) {
	decoder := testutil.NewFakeAudioDecoder(1_000_000, 10, 2)
	ring := NewRingBuffer(10)
	cfg := fastConfig()
	cfg.RingBufferCapacity = 10

	producer := NewProducer(decoder, ring, cfg, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := producer.Run(ctx)
	require.Error(t, err)
	assert.Equal(t, StateCancelled, producer.State())
}

func TestProducerSeekResetsRingAndPosition(t *testing.T) {
	decoder := testutil.NewFakeAudioDecoder(100, 10, 2)
	ring := NewRingBuffer(200)
	producer := NewProducer(decoder, ring, fastConfig(), nil)

	ring.Write([]float32{1, 2, 3})

	err := producer.Seek(context.Background(), 5000)
	require.NoError(t, err)

	assert.Equal(t, 0, ring.Available())
	assert.Equal(t, int64(5000), producer.Stats().LastPositionMs)
}

func TestProducerStatsInitialState(t *testing.T) {
	decoder := testutil.NewFakeAudioDecoder(10, 10, 2)
	ring := NewRingBuffer(20)
	producer := NewProducer(decoder, ring, fastConfig(), nil)

	assert.Equal(t, StateIdle, producer.State())
}
