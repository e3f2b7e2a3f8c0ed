package record

// ADC burst records are a separate family from the compact minute
// shapes: they time-stamp with full unix time plus a microsecond offset
// and carry a raw sample payload. They live in files of their own, so
// the two framings never mix in one stream.

const (
	// AdcHeaderSize is the fixed header preceding the samples.
	AdcHeaderSize = 13

	AdcEventTimerBurst uint8 = 0x01
	AdcEventSingle     uint8 = 0x02
	AdcEventPeri       uint8 = 0x03

	// AdcDurationMax is the largest representable burst duration;
	// longer bursts saturate rather than wrap.
	AdcDurationMax uint32 = 65535
)

// AdcBurst is one sampling burst. SampleCount always equals
// len(Samples) after a decode.
type AdcBurst struct {
	UnixTime     uint32
	MicrosOffset uint32
	DurationUs   uint32
	EventType    uint8
	Samples      []byte
}

// EncodedSize is the on-media size of the burst.
func (r *AdcBurst) EncodedSize() int {
	return AdcHeaderSize + len(r.Samples)
}

func (r *AdcBurst) Encode(buf []byte) (int, error) {
	n := len(r.Samples)
	if n == 0 || n > 0xFFFF {
		return 0, ErrInvalidParam
	}
	need := r.EncodedSize()
	if len(buf) < need {
		return 0, ErrSize
	}
	dur := r.DurationUs
	if dur > AdcDurationMax {
		dur = AdcDurationMax
	}
	buf[0] = byte(r.UnixTime >> 24)
	buf[1] = byte(r.UnixTime >> 16)
	buf[2] = byte(r.UnixTime >> 8)
	buf[3] = byte(r.UnixTime)
	buf[4] = byte(r.MicrosOffset >> 24)
	buf[5] = byte(r.MicrosOffset >> 16)
	buf[6] = byte(r.MicrosOffset >> 8)
	buf[7] = byte(r.MicrosOffset)
	buf[8] = byte(n >> 8)
	buf[9] = byte(n)
	buf[10] = byte(dur >> 8)
	buf[11] = byte(dur)
	buf[12] = r.EventType
	copy(buf[AdcHeaderSize:], r.Samples)
	return need, nil
}

// DecodeAdcBurst parses a burst and returns the bytes consumed. Samples
// are copied out of buf.
func DecodeAdcBurst(buf []byte) (AdcBurst, int, error) {
	if len(buf) < AdcHeaderSize {
		return AdcBurst{}, 0, ErrSize
	}
	n := int(buf[8])<<8 | int(buf[9])
	if n == 0 {
		return AdcBurst{}, 0, ErrInvalidParam
	}
	need := AdcHeaderSize + n
	if len(buf) < need {
		return AdcBurst{}, 0, ErrSize
	}
	r := AdcBurst{
		UnixTime:     uint32(buf[0])<<24 | uint32(buf[1])<<16 | uint32(buf[2])<<8 | uint32(buf[3]),
		MicrosOffset: uint32(buf[4])<<24 | uint32(buf[5])<<16 | uint32(buf[6])<<8 | uint32(buf[7]),
		DurationUs:   uint32(buf[10])<<8 | uint32(buf[11]),
		EventType:    buf[12],
		Samples:      make([]byte, n),
	}
	copy(r.Samples, buf[AdcHeaderSize:need])
	return r, need, nil
}
