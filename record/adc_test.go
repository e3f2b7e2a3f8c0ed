package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdcBurstRoundTrip(t *testing.T) {
	samples := make([]byte, 300)
	for i := range samples {
		samples[i] = byte(i)
	}
	r := AdcBurst{
		UnixTime:     1700000000,
		MicrosOffset: 123456,
		DurationUs:   5000,
		EventType:    AdcEventTimerBurst,
		Samples:      samples,
	}
	buf := make([]byte, r.EncodedSize())
	n, err := r.Encode(buf)
	require.NoError(t, err)
	assert.Equal(t, AdcHeaderSize+300, n)

	got, consumed, err := DecodeAdcBurst(buf)
	require.NoError(t, err)
	assert.Equal(t, n, consumed)
	assert.Equal(t, r, got)
}

func TestAdcBurstDurationSaturates(t *testing.T) {
	r := AdcBurst{
		DurationUs: AdcDurationMax + 1,
		EventType:  AdcEventSingle,
		Samples:    []byte{1, 2},
	}
	buf := make([]byte, r.EncodedSize())
	_, err := r.Encode(buf)
	require.NoError(t, err)

	got, _, err := DecodeAdcBurst(buf)
	require.NoError(t, err)
	assert.Equal(t, AdcDurationMax, got.DurationUs)
}

func TestAdcBurstRejects(t *testing.T) {
	r := AdcBurst{EventType: AdcEventPeri}
	buf := make([]byte, AdcHeaderSize)
	_, err := r.Encode(buf)
	assert.Equal(t, ErrInvalidParam, err)

	r.Samples = []byte{1}
	_, err = r.Encode(buf)
	assert.Equal(t, ErrSize, err)

	_, _, err = DecodeAdcBurst(buf[:AdcHeaderSize-1])
	assert.Equal(t, ErrSize, err)

	// header claims more samples than the buffer holds
	good := make([]byte, AdcHeaderSize+1)
	good[9] = 2
	_, _, err = DecodeAdcBurst(good)
	assert.Equal(t, ErrSize, err)
}
