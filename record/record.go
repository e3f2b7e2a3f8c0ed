// Package record packs sensor events into the compact byte shapes that
// get appended to framfs files. Every shape starts with a big-endian
// minute-of-day so a reader can take the timestamp without knowing the
// type, and the third byte always discriminates the shape, so the total
// length of any record follows from its first three bytes.
package record

import "errors"

// Type codes. 0x01..0x80 are device-scan records where the code itself
// is the device count.
const (
	TypeNoActivity  uint8 = 0x00
	TypeDeviceMin   uint8 = 0x01
	TypeDeviceMax   uint8 = 0x80
	TypeBoot        uint8 = 0xF1
	TypeConnected   uint8 = 0xF2
	TypeSettings    uint8 = 0xF3 // reserved, never emitted
	TypeBattery     uint8 = 0xF4
	TypeError       uint8 = 0xF5
	TypeTemperature uint8 = 0xF6
)

const (
	SimpleSize      = 3
	BatterySize     = 4
	TemperatureSize = 4

	// MaxDevices is the most neighbors a single scan record can carry.
	MaxDevices = 128

	// MinuteMax is the last minute of a day.
	MinuteMax = 1439
)

var (
	ErrInvalidParam = errors.New("record: invalid parameter")
	ErrSize         = errors.New("record: buffer too small")
)

// Simple is the no-payload marker shape used for no-activity, boot,
// connected and error events.
type Simple struct {
	Minute uint16
	Type   uint8
}

func (r *Simple) Encode(buf []byte) (int, error) {
	if r.Minute > MinuteMax {
		return 0, ErrInvalidParam
	}
	if len(buf) < SimpleSize {
		return 0, ErrSize
	}
	buf[0] = byte(r.Minute >> 8)
	buf[1] = byte(r.Minute)
	buf[2] = r.Type
	return SimpleSize, nil
}

func DecodeSimple(buf []byte) (Simple, error) {
	if len(buf) < SimpleSize {
		return Simple{}, ErrSize
	}
	return Simple{
		Minute: uint16(buf[0])<<8 | uint16(buf[1]),
		Type:   buf[2],
	}, nil
}

// Battery carries a 0-100 charge level.
type Battery struct {
	Minute uint16
	Level  uint8
}

func (r *Battery) Encode(buf []byte) (int, error) {
	if r.Minute > MinuteMax {
		return 0, ErrInvalidParam
	}
	if len(buf) < BatterySize {
		return 0, ErrSize
	}
	buf[0] = byte(r.Minute >> 8)
	buf[1] = byte(r.Minute)
	buf[2] = TypeBattery
	buf[3] = r.Level
	return BatterySize, nil
}

func DecodeBattery(buf []byte) (Battery, error) {
	if len(buf) < BatterySize {
		return Battery{}, ErrSize
	}
	if buf[2] != TypeBattery {
		return Battery{}, ErrInvalidParam
	}
	return Battery{
		Minute: uint16(buf[0])<<8 | uint16(buf[1]),
		Level:  buf[3],
	}, nil
}

// Temperature carries a signed whole-degree reading.
type Temperature struct {
	Minute  uint16
	Degrees int8
}

func (r *Temperature) Encode(buf []byte) (int, error) {
	if r.Minute > MinuteMax {
		return 0, ErrInvalidParam
	}
	if len(buf) < TemperatureSize {
		return 0, ErrSize
	}
	buf[0] = byte(r.Minute >> 8)
	buf[1] = byte(r.Minute)
	buf[2] = TypeTemperature
	buf[3] = byte(r.Degrees)
	return TemperatureSize, nil
}

func DecodeTemperature(buf []byte) (Temperature, error) {
	if len(buf) < TemperatureSize {
		return Temperature{}, ErrSize
	}
	if buf[2] != TypeTemperature {
		return Temperature{}, ErrInvalidParam
	}
	return Temperature{
		Minute:  uint16(buf[0])<<8 | uint16(buf[1]),
		Degrees: int8(buf[3]),
	}, nil
}

// Device is the variable-length neighbor-scan shape. The type byte is
// the device count, so MacIndices and RSSI must have equal length in
// [1, MaxDevices]. MacIndices hold 1-byte references into the framfs
// MAC table instead of full 3-byte identifiers.
type Device struct {
	Minute      uint16
	MotionCount uint8
	MacIndices  []uint8
	RSSI        []int8
}

// DeviceRecordSize is the encoded size of a scan with n devices.
func DeviceRecordSize(n int) int {
	return 4 + 2*n
}

func (r *Device) Encode(buf []byte) (int, error) {
	n := len(r.MacIndices)
	if n == 0 || n > MaxDevices || len(r.RSSI) != n {
		return 0, ErrInvalidParam
	}
	if r.Minute > MinuteMax {
		return 0, ErrInvalidParam
	}
	need := DeviceRecordSize(n)
	if len(buf) < need {
		return 0, ErrSize
	}
	buf[0] = byte(r.Minute >> 8)
	buf[1] = byte(r.Minute)
	buf[2] = uint8(n)
	buf[3] = r.MotionCount
	for i := 0; i < n; i++ {
		buf[4+i] = r.MacIndices[i]
		buf[4+n+i] = byte(r.RSSI[i])
	}
	return need, nil
}

// DecodeDevice returns the record and the number of bytes it consumed.
func DecodeDevice(buf []byte) (Device, int, error) {
	if len(buf) < 4 {
		return Device{}, 0, ErrSize
	}
	n := int(buf[2])
	if n == 0 || n > MaxDevices {
		return Device{}, 0, ErrInvalidParam
	}
	need := DeviceRecordSize(n)
	if len(buf) < need {
		return Device{}, 0, ErrSize
	}
	r := Device{
		Minute:      uint16(buf[0])<<8 | uint16(buf[1]),
		MotionCount: buf[3],
		MacIndices:  make([]uint8, n),
		RSSI:        make([]int8, n),
	}
	for i := 0; i < n; i++ {
		r.MacIndices[i] = buf[4+i]
		r.RSSI[i] = int8(buf[4+n+i])
	}
	return r, need, nil
}

// PeekMinute reads the leading timestamp shared by every shape.
func PeekMinute(buf []byte) (uint16, error) {
	if len(buf) < 2 {
		return 0, ErrSize
	}
	return uint16(buf[0])<<8 | uint16(buf[1]), nil
}

// Size derives the total record length from the first three bytes, so a
// reader can walk a file without decoding payloads.
func Size(buf []byte) (int, error) {
	if len(buf) < SimpleSize {
		return 0, ErrSize
	}
	t := buf[2]
	switch {
	case t >= TypeDeviceMin && t <= TypeDeviceMax:
		return DeviceRecordSize(int(t)), nil
	case t == TypeNoActivity, t == TypeBoot, t == TypeConnected, t == TypeError:
		return SimpleSize, nil
	case t == TypeBattery, t == TypeTemperature:
		return BatterySize, nil
	}
	return 0, ErrInvalidParam
}
