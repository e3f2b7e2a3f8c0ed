package framfs

import (
	"time"

	"github.com/goose-lang/std"
	"github.com/mit-pdos/go-journal/util"
)

// The MAC table deduplicates the 3-byte device identifiers seen during
// neighbor scans so device records can store a 1-byte index instead.
// Entries are bump-allocated and never removed; lookups are linear
// scans bounded by the entry count.

// MacFindOrAdd returns the table index for id, inserting it if absent.
// An existing entry's usage counter is bumped (saturating at 255).
func (fs *Fs) MacFindOrAdd(id [MacIDLen]byte) (uint8, error) {
	start := time.Now()
	defer fs.stats[opMac].Record(start)

	index, err := fs.MacFind(id)
	if err == nil {
		return index, fs.MacIncrementUsage(index)
	}
	if err != ErrMacNotFound {
		return 0, err
	}

	if int(fs.macHdr.EntryCount) >= MaxMacEntries {
		return 0, ErrMacFull
	}
	entry := MacEntry{ID: id, UsageCount: 1, Flags: FlagValid}
	newIndex := fs.macHdr.EntryCount
	if err := fs.writeMacEntry(int(newIndex), &entry); err != nil {
		return 0, err
	}
	fs.macHdr.EntryCount++
	if err := fs.writeMacHeader(); err != nil {
		return 0, err
	}
	util.DPrintf(5, "framfs: MAC %x added at index %d\n", id, newIndex)
	return newIndex, nil
}

// MacFind looks up id without inserting.
func (fs *Fs) MacFind(id [MacIDLen]byte) (uint8, error) {
	for i := 0; i < int(fs.macHdr.EntryCount); i++ {
		entry, err := fs.readMacEntry(i)
		if err != nil {
			return 0, err
		}
		if entry.Flags&FlagValid != 0 && std.BytesEqual(entry.ID[:], id[:]) {
			return uint8(i), nil
		}
	}
	return 0, ErrMacNotFound
}

// MacGetByIndex resolves an index from a device record back to its
// 3-byte identifier. Out-of-range or invalid slots fail with the
// generic parameter error, not a distinct not-found code.
func (fs *Fs) MacGetByIndex(index uint8) ([MacIDLen]byte, error) {
	if index >= fs.macHdr.EntryCount {
		return [MacIDLen]byte{}, ErrInvalidParam
	}
	entry, err := fs.readMacEntry(int(index))
	if err != nil {
		return [MacIDLen]byte{}, err
	}
	if entry.Flags&FlagValid == 0 {
		return [MacIDLen]byte{}, ErrInvalidParam
	}
	return entry.ID, nil
}

// MacIncrementUsage bumps an entry's usage counter, saturating at 255.
func (fs *Fs) MacIncrementUsage(index uint8) error {
	if index >= fs.macHdr.EntryCount {
		return ErrInvalidParam
	}
	entry, err := fs.readMacEntry(int(index))
	if err != nil {
		return err
	}
	if entry.Flags&FlagValid == 0 {
		return ErrInvalidParam
	}
	if entry.UsageCount < 255 {
		entry.UsageCount++
	}
	return fs.writeMacEntry(int(index), &entry)
}

// MacStats returns the entry count and the sum of usage counters.
func (fs *Fs) MacStats() (uint8, uint32, error) {
	var total uint32
	for i := 0; i < int(fs.macHdr.EntryCount); i++ {
		entry, err := fs.readMacEntry(i)
		if err != nil {
			return 0, 0, err
		}
		if entry.Flags&FlagValid != 0 {
			total += uint32(entry.UsageCount)
		}
	}
	return fs.macHdr.EntryCount, total, nil
}

// MacEntries returns all valid entries, for inspection tooling.
func (fs *Fs) MacEntries() ([]MacEntry, error) {
	var entries []MacEntry
	for i := 0; i < int(fs.macHdr.EntryCount); i++ {
		entry, err := fs.readMacEntry(i)
		if err != nil {
			return nil, err
		}
		if entry.Flags&FlagValid != 0 {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

// MacClear resets the MAC table to empty, independent of the rest of
// the file system.
func (fs *Fs) MacClear() error {
	fs.macHdr = macHeader{Magic: MacMagic, Version: MacVersion}
	if err := fs.writeMacHeader(); err != nil {
		return err
	}
	zero := make([]byte, macEntrySize)
	for i := 0; i < MaxMacEntries; i++ {
		if err := fs.store.Write(macEntryAddr(i), zero); err != nil {
			return err
		}
	}
	util.DPrintf(1, "framfs: MAC table cleared\n")
	return nil
}

// MacTableSize is the byte size of the packed id export: 3 bytes per
// entry, no usage counters or flags.
func (fs *Fs) MacTableSize() uint32 {
	return uint32(fs.macHdr.EntryCount) * MacIDLen
}

// ReadMacTable copies the packed 3-byte ids into buf starting at
// offset, for upload tooling that mirrors the table off-device.
// Returns the bytes copied; reading at or past the end returns 0.
func (fs *Fs) ReadMacTable(offset uint32, buf []byte) (int, error) {
	total := fs.MacTableSize()
	if offset >= total {
		return 0, nil
	}
	n := int(util.Min(uint64(len(buf)), uint64(total-offset)))
	copied := 0
	for copied < n {
		pos := offset + uint32(copied)
		i := int(pos / MacIDLen)
		within := int(pos % MacIDLen)
		entry, err := fs.readMacEntry(i)
		if err != nil {
			return copied, err
		}
		c := copy(buf[copied:n], entry.ID[within:])
		copied += c
	}
	return n, nil
}

func (fs *Fs) readMacHeader() error {
	buf := make([]byte, macHeaderSize)
	if err := fs.store.Read(macHeaderAddr(), buf); err != nil {
		return err
	}
	fs.macHdr = decodeMacHeader(buf)
	return nil
}

func (fs *Fs) writeMacHeader() error {
	return fs.store.Write(macHeaderAddr(), fs.macHdr.encode())
}

func (fs *Fs) readMacEntry(index int) (MacEntry, error) {
	if index < 0 || index >= MaxMacEntries {
		return MacEntry{}, ErrInvalidParam
	}
	buf := make([]byte, macEntrySize)
	if err := fs.store.Read(macEntryAddr(index), buf); err != nil {
		return MacEntry{}, err
	}
	return decodeMacEntry(buf), nil
}

func (fs *Fs) writeMacEntry(index int, entry *MacEntry) error {
	if index < 0 || index >= MaxMacEntries {
		return ErrInvalidParam
	}
	return fs.store.Write(macEntryAddr(index), entry.encode())
}
