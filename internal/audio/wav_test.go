package audio

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/go-audio/wav"
	"github.com/stretchr/testify/require"
)

func TestEncodeWAVRoundTrip(t *testing.T) {
	samples := []int16{0, 1, -1, 12345, -32768, 32767}
	pcm := make([]byte, len(samples)*2)
	for i, sample := range samples {
		binary.LittleEndian.PutUint16(pcm[i*2:], uint16(sample))
	}

	encoded, err := EncodeWAV(pcm)
	require.NoError(t, err)
	require.Equal(t, "RIFF", string(encoded[:4]))
	require.Equal(t, "WAVE", string(encoded[8:12]))
	require.Len(t, encoded, 44+len(pcm))

	decoder := wav.NewDecoder(bytes.NewReader(encoded))
	require.True(t, decoder.IsValidFile())
	buffer, err := decoder.FullPCMBuffer()
	require.NoError(t, err)
	require.Equal(t, uint32(SampleRate), decoder.SampleRate)
	require.Equal(t, uint16(Channels), decoder.NumChans)
	require.Equal(t, uint16(BitsPerSample), decoder.BitDepth)

	want := make([]int, len(samples))
	for i, sample := range samples {
		want[i] = int(sample)
	}
	require.Equal(t, want, buffer.Data)
}

func TestEncodeWAVRejectsOddLength(t *testing.T) {
	_, err := EncodeWAV([]byte{1, 2, 3})
	require.ErrorContains(t, err, "16-bit samples")
}
