package streaming

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRingBufferWriteRead(t *testing.T) {
	rb := NewRingBuffer(8)

	n := rb.Write([]float32{1, 2, 3, 4})
	require.Equal(t, 4, n)
	assert.Equal(t, 4, rb.Available())
	assert.Equal(t, 4, rb.Free())

	dst := make([]float32, 4)
	n = rb.Read(dst)
	require.Equal(t, 4, n)
	assert.Equal(t, []float32{1, 2, 3, 4}, dst)
	assert.Equal(t, 0, rb.Available())
}

func TestRingBufferWriteStopsAtCapacity(t *testing.T) {
	rb := NewRingBuffer(4)

	n := rb.Write([]float32{1, 2, 3, 4, 5, 6})
	assert.Equal(t, 4, n)
	assert.Equal(t, 0, rb.Free())
}

func TestRingBufferWrapsAround(t *testing.T) {
	rb := NewRingBuffer(4)

	rb.Write([]float32{1, 2, 3})
	out := make([]float32, 2)
	rb.Read(out)

	n := rb.Write([]float32{4, 5, 6})
	require.Equal(t, 3, n)

	dst := make([]float32, 4)
	got := rb.Read(dst)
	require.Equal(t, 4, got)
	assert.Equal(t, []float32{3, 4, 5, 6}, dst)
}

func TestRingBufferReset(t *testing.T) {
	rb := NewRingBuffer(4)
	rb.Write([]float32{1, 2, 3})

	rb.Reset()

	assert.Equal(t, 0, rb.Available())
	assert.Equal(t, 4, rb.Free())
}

func TestRingBufferEmptyReadWrite(t *testing.T) {
	rb := NewRingBuffer(4)

	assert.Equal(t, 0, rb.Read(make([]float32, 4)))
	assert.Equal(t, 0, rb.Write(nil))
}

func TestRingBufferConcurrentProducerConsumer(t *testing.T) {
	rb := NewRingBuffer(16)
	const total = 10000

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		written := 0
		for written < total {
			chunk := []float32{float32(written)}
			n := rb.Write(chunk)
			written += n
		}
	}()

	read := 0
	go func() {
		defer wg.Done()
		buf := make([]float32, 1)
		for read < total {
			n := rb.Read(buf)
			read += n
		}
	}()

	wg.Wait()
	assert.Equal(t, total, read)
}

func TestRingBufferMinimumCapacity(t *testing.T) {
	rb := NewRingBuffer(0)
	assert.Equal(t, 1, rb.capacity)
}
