package framfs

import (
	"github.com/framtag/framfs/record"
)

// Record-append compositions: encode one event and append it to the
// active file. These are the normal write path on the device; raw
// Append exists for bulk tooling.

// AppendDeviceScan logs one minute's neighbor scan. Each 3-byte id is
// run through the MAC table first so the record stores 1-byte indices.
func (fs *Fs) AppendDeviceScan(minute uint16, motionCount uint8,
	macIDs [][MacIDLen]byte, rssi []int8) error {
	n := len(macIDs)
	if n == 0 || n > record.MaxDevices || len(rssi) != n {
		return ErrInvalidParam
	}
	rec := record.Device{
		Minute:      minute,
		MotionCount: motionCount,
		MacIndices:  make([]uint8, n),
		RSSI:        rssi,
	}
	for i, id := range macIDs {
		index, err := fs.MacFindOrAdd(id)
		if err != nil {
			return err
		}
		rec.MacIndices[i] = index
	}
	var buf [4 + 2*record.MaxDevices]byte
	sz, err := rec.Encode(buf[:])
	if err != nil {
		return err
	}
	return fs.Append(buf[:sz])
}

// AppendSimpleRecord logs a no-payload marker: no-activity, boot,
// connected or error.
func (fs *Fs) AppendSimpleRecord(minute uint16, recordType uint8) error {
	switch recordType {
	case record.TypeNoActivity, record.TypeBoot, record.TypeConnected, record.TypeError:
	default:
		return ErrInvalidParam
	}
	rec := record.Simple{Minute: minute, Type: recordType}
	var buf [record.SimpleSize]byte
	sz, err := rec.Encode(buf[:])
	if err != nil {
		return err
	}
	return fs.Append(buf[:sz])
}

// AppendBatteryRecord logs a battery level sample.
func (fs *Fs) AppendBatteryRecord(minute uint16, level uint8) error {
	rec := record.Battery{Minute: minute, Level: level}
	var buf [record.BatterySize]byte
	sz, err := rec.Encode(buf[:])
	if err != nil {
		return err
	}
	return fs.Append(buf[:sz])
}

// AppendTemperatureRecord logs a signed whole-degree temperature.
func (fs *Fs) AppendTemperatureRecord(minute uint16, degrees int8) error {
	rec := record.Temperature{Minute: minute, Degrees: degrees}
	var buf [record.TemperatureSize]byte
	sz, err := rec.Encode(buf[:])
	if err != nil {
		return err
	}
	return fs.Append(buf[:sz])
}

// AppendAdcBurst logs a raw sampling burst.
func (fs *Fs) AppendAdcBurst(burst *record.AdcBurst) error {
	if burst == nil {
		return ErrInvalidParam
	}
	buf := make([]byte, burst.EncodedSize())
	sz, err := burst.Encode(buf)
	if err != nil {
		return err
	}
	return fs.Append(buf[:sz])
}
