// Package daily keeps framfs appends flowing into a file named for the
// current date. Every append first checks the injected date supplier;
// when the day changes (or nothing is active yet) the wrapper seals
// the old file and creates the new one, so callers never manage file
// lifecycle themselves.
package daily

import (
	"errors"
	"fmt"
	"time"

	"github.com/mit-pdos/go-journal/util"

	"github.com/framtag/framfs/framfs"
	"github.com/framtag/framfs/record"
)

// DateFunc supplies the current date as a number whose decimal form is
// the filename (conventionally YYYYMMDD). The wrapper only compares
// successive values for inequality; the format is the caller's.
type DateFunc func() uint32

// noDate never compares equal to a real date, so assigning it forces
// the next EnsureCurrentFile to roll over.
const noDate uint32 = 0

// Fs is the time-aware wrapper over one framfs mount. Its state is
// ephemeral: nothing here is persisted.
type Fs struct {
	fs      *framfs.Fs
	getDate DateFunc
	auto    bool

	curDate uint32
	curName string
}

// New wraps fs. With auto true (the normal mode), every append path
// runs the rollover check first. With auto false, appends require a
// file made current by an explicit EnsureCurrentFile or
// AdvanceToNextDay call.
func New(fs *framfs.Fs, getDate DateFunc, auto bool) (*Fs, error) {
	if fs == nil || getDate == nil {
		return nil, framfs.ErrInvalidParam
	}
	c := &Fs{fs: fs, getDate: getDate, auto: auto}
	c.curDate = getDate()
	c.curName = Filename(c.curDate)
	util.DPrintf(1, "daily: managing files for date %s\n", c.curName)
	return c, nil
}

// Filename renders a date as the fixed-width zero-padded name used on
// media.
func Filename(date uint32) string {
	return fmt.Sprintf("%0*d", framfs.FilenameLen, date)
}

// EnsureCurrentFile makes the file for today's date the active one,
// sealing and switching if the date moved since the last check. When
// the target file already exists (a rollover raced a restart), an
// already-active entry is adopted as-is and a stale one restarts
// empty at the current bump pointer.
func (c *Fs) EnsureCurrentFile() error {
	date := c.getDate()
	if date == c.curDate && c.hasActive() {
		return nil
	}
	if date != c.curDate {
		util.DPrintf(1, "daily: date %s -> %s, switching files\n",
			c.curName, Filename(date))
	}
	if err := c.fs.SealActive(); err != nil {
		return err
	}
	c.curDate = date
	c.curName = Filename(date)

	err := c.fs.CreateActive(c.curName, framfs.TypeSensorLog)
	if errors.Is(err, framfs.ErrExists) {
		return c.fs.Reactivate(c.curName)
	}
	return err
}

// AdvanceToNextDay forgets the cached date so the next check rolls
// over even if the clock has not moved, for operator-forced rotation.
func (c *Fs) AdvanceToNextDay() error {
	c.curDate = noDate
	return c.EnsureCurrentFile()
}

// CurrentFilename returns the name appends are currently routed to.
func (c *Fs) CurrentFilename() string {
	return c.curName
}

// AppendData appends raw bytes to today's file.
func (c *Fs) AppendData(data []byte) error {
	if err := c.ensure(); err != nil {
		return err
	}
	return c.fs.Append(data)
}

// AppendDeviceScan logs a neighbor scan to today's file.
func (c *Fs) AppendDeviceScan(minute uint16, motionCount uint8,
	macIDs [][framfs.MacIDLen]byte, rssi []int8) error {
	if err := c.ensure(); err != nil {
		return err
	}
	return c.fs.AppendDeviceScan(minute, motionCount, macIDs, rssi)
}

// AppendSimpleRecord logs a marker record to today's file.
func (c *Fs) AppendSimpleRecord(minute uint16, recordType uint8) error {
	if err := c.ensure(); err != nil {
		return err
	}
	return c.fs.AppendSimpleRecord(minute, recordType)
}

// AppendBatteryRecord logs a battery sample to today's file.
func (c *Fs) AppendBatteryRecord(minute uint16, level uint8) error {
	if err := c.ensure(); err != nil {
		return err
	}
	return c.fs.AppendBatteryRecord(minute, level)
}

// AppendTemperatureRecord logs a temperature sample to today's file.
func (c *Fs) AppendTemperatureRecord(minute uint16, degrees int8) error {
	if err := c.ensure(); err != nil {
		return err
	}
	return c.fs.AppendTemperatureRecord(minute, degrees)
}

// AppendAdcBurst logs a sampling burst to today's file.
func (c *Fs) AppendAdcBurst(burst *record.AdcBurst) error {
	if err := c.ensure(); err != nil {
		return err
	}
	return c.fs.AppendAdcBurst(burst)
}

func (c *Fs) ensure() error {
	if !c.auto {
		return nil
	}
	return c.EnsureCurrentFile()
}

func (c *Fs) hasActive() bool {
	_, err := c.fs.ActiveFilename()
	return err == nil
}

// DateOf renders t as the YYYYMMDD number DateFunc conventionally
// returns.
func DateOf(t time.Time) uint32 {
	y, m, d := t.Date()
	return uint32(y)*10000 + uint32(m)*100 + uint32(d)
}

// MinuteOf is t's minute of day, the record timestamp unit.
func MinuteOf(t time.Time) uint16 {
	return uint16(t.Hour()*60 + t.Minute())
}
