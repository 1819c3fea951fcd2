package audio

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jfreymuth/pulse"
	pulseproto "github.com/jfreymuth/pulse/proto"
)

const (
	SampleRate     = 16000
	Channels       = 1
	BitsPerSample  = 16
	bytesPerSecond = SampleRate * Channels * BitsPerSample / 8

	fragmentBytes = 640 // 20ms @ 16kHz mono s16
)

// BytesFor returns the PCM byte count of d, rounded down to whole samples.
func BytesFor(d time.Duration) int {
	n := int(d.Milliseconds()) * bytesPerSecond / 1000
	return n - n%(BitsPerSample/8)
}

// DurationOf returns the playback length of n PCM bytes.
func DurationOf(n int) time.Duration {
	return time.Duration(n) * time.Second / bytesPerSecond
}

// Capture records 16kHz mono s16 PCM from one source into memory until it is
// stopped or reaches its byte limit.
type Capture struct {
	device Device

	client *pulse.Client
	stream *pulse.RecordStream

	limit int

	mu      sync.Mutex
	pcm     []byte
	stopped bool

	full     chan struct{}
	fullOnce sync.Once
	done     chan struct{}
}

// StartCapture opens a record stream on selected. maxDuration <= 0 records
// until Stop.
func StartCapture(ctx context.Context, selected Device, maxDuration time.Duration) (*Capture, error) {
	client, err := newPulseClient()
	if err != nil {
		return nil, err
	}

	source, err := client.SourceByID(selected.ID)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("resolve source %q: %w", selected.ID, err)
	}

	capture := newCapture(selected, maxDuration)
	capture.client = client

	writer := pulse.NewWriter(writerFunc(capture.onPCM), pulseproto.FormatInt16LE)
	stream, err := client.NewRecord(
		writer,
		pulse.RecordSource(source),
		pulse.RecordMono,
		pulse.RecordSampleRate(SampleRate),
		pulse.RecordBufferFragmentSize(fragmentBytes),
		pulse.RecordMediaName("voicetray dictation"),
	)
	if err != nil {
		capture.Stop()
		return nil, fmt.Errorf("create pulse record stream: %w", err)
	}
	capture.stream = stream
	stream.Start()

	go func() {
		select {
		case <-ctx.Done():
			capture.Stop()
		case <-capture.done:
		}
	}()

	return capture, nil
}

func newCapture(device Device, maxDuration time.Duration) *Capture {
	capacity := 0
	limit := 0
	if maxDuration > 0 {
		limit = BytesFor(maxDuration)
		capacity = limit
	}
	return &Capture{
		device: device,
		limit:  limit,
		pcm:    make([]byte, 0, capacity),
		full:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Device returns capture metadata for logging and diagnostics.
func (c *Capture) Device() Device {
	return c.device
}

// Full is closed once the byte limit has been recorded.
func (c *Capture) Full() <-chan struct{} {
	return c.full
}

// BytesCaptured reports the PCM bytes kept so far.
func (c *Capture) BytesCaptured() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pcm)
}

// Stop halts the stream and returns the recorded PCM. It is safe to call more than once.
func (c *Capture) Stop() []byte {
	c.mu.Lock()
	alreadyStopped := c.stopped
	c.stopped = true
	c.mu.Unlock()

	if !alreadyStopped {
		if c.stream != nil {
			c.stream.Stop()
			c.stream.Close()
		}
		if c.client != nil {
			c.client.Close()
		}
		close(c.done)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]byte(nil), c.pcm...)
}

// onPCM keeps incoming frames up to the limit and discards the rest.
func (c *Capture) onPCM(buffer []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopped {
		return len(buffer), nil
	}

	keep := buffer
	if c.limit > 0 {
		keep = buffer[:min(len(buffer), c.limit-len(c.pcm))]
	}
	c.pcm = append(c.pcm, keep...)

	if c.limit > 0 && len(c.pcm) >= c.limit {
		c.fullOnce.Do(func() { close(c.full) })
	}
	return len(buffer), nil
}

// writerFunc adapts a function to io.Writer for pulse.NewWriter.
type writerFunc func([]byte) (int, error)

func (f writerFunc) Write(b []byte) (int, error) {
	return f(b)
}
