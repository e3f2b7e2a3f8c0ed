// Package framfs implements an append-only file system over a
// byte-addressable FRAM store. Three fixed tables (header, file index,
// MAC table) sit at the bottom of the address space; file data is
// bump-allocated above them and never reclaimed short of a full
// Format. At most one file accepts appends at a time; sealing it is
// permanent.
//
// Append writes data before it updates the index entry and header, and
// the two metadata writes are not atomic across power loss. A crash in
// between loses the appended bytes but leaves the tables consistent;
// callers recovering from power loss should trust FileSize over any
// in-memory count. This matches the firmware layout exactly and is a
// deliberate non-goal to fix.
package framfs

import (
	"time"

	"github.com/mit-pdos/go-journal/util"

	"github.com/framtag/framfs/fram"
)

// Fs is a mounted file system. It caches the header, MAC header, and
// the index of the active file; all other state lives on the store.
// Not safe for concurrent use: the design assumes a single writer.
type Fs struct {
	store  fram.Store
	hdr    Header
	macHdr macHeader
	active int // index of the active entry, -1 if none
	stats  [numOps]statOp
}

// Init mounts the file system on store, formatting it if the header is
// missing or unrecognized. A valid file header with a broken MAC
// header reinitializes only the MAC table; the two halves are
// independently recoverable.
func Init(store fram.Store) (*Fs, error) {
	if store == nil {
		return nil, ErrInvalidParam
	}
	if store.Size() <= DataStart() {
		return nil, ErrInit
	}
	fs := &Fs{store: store, active: -1}

	err := fs.readHeader()
	if err != nil || fs.hdr.Magic != Magic {
		if err != nil {
			util.DPrintf(1, "framfs: header unreadable (%v), formatting\n", err)
		} else {
			util.DPrintf(1, "framfs: bad magic %#x, formatting\n", fs.hdr.Magic)
		}
		if err := fs.Format(); err != nil {
			return nil, err
		}
		return fs, nil
	}
	if fs.hdr.Version != Version {
		util.DPrintf(0, "framfs: version mismatch: %d (expected %d)\n",
			fs.hdr.Version, Version)
	}

	err = fs.readMacHeader()
	if err != nil || fs.macHdr.Magic != MacMagic {
		util.DPrintf(1, "framfs: MAC table invalid, reinitializing\n")
		if err := fs.MacClear(); err != nil {
			return nil, err
		}
	} else if fs.macHdr.Version != MacVersion {
		util.DPrintf(0, "framfs: MAC table version mismatch: %d (expected %d)\n",
			fs.macHdr.Version, MacVersion)
	}

	fs.active = fs.findActive()
	util.DPrintf(1, "framfs: mounted: %d files, next_addr=%#x\n",
		fs.hdr.FileCount, fs.hdr.NextDataAddr)
	return fs, nil
}

// Format resets the file system to empty: fresh header, zeroed file
// index, fresh MAC table. This is the only way space ever comes back.
func Format(store fram.Store) (*Fs, error) {
	if store == nil {
		return nil, ErrInvalidParam
	}
	if store.Size() <= DataStart() {
		return nil, ErrInit
	}
	fs := &Fs{store: store, active: -1}
	if err := fs.Format(); err != nil {
		return nil, err
	}
	return fs, nil
}

func (fs *Fs) Format() error {
	start := time.Now()
	defer fs.stats[opFormat].Record(start)

	fs.hdr = Header{
		Magic:        Magic,
		Version:      Version,
		NextDataAddr: DataStart(),
	}
	if err := fs.writeHeader(); err != nil {
		return err
	}
	zero := make([]byte, entrySize)
	for i := 0; i < MaxFiles; i++ {
		if err := fs.store.Write(entryAddr(i), zero); err != nil {
			return err
		}
	}
	fs.active = -1
	if err := fs.MacClear(); err != nil {
		return err
	}
	util.DPrintf(1, "framfs: formatted, data starts at %#x\n", fs.hdr.NextDataAddr)
	return nil
}

// CreateActive allocates a new file at the current bump pointer and
// makes it the write target, sealing any previously active file first.
// There is no other creation path, and no rename or delete.
func (fs *Fs) CreateActive(filename string, fileType uint8) error {
	start := time.Now()
	defer fs.stats[opCreate].Record(start)

	if filename == "" {
		return ErrInvalidParam
	}
	if len(filename) > FilenameLen {
		return ErrSize
	}
	if idx, _, _ := fs.findFile(filename); idx >= 0 {
		return ErrExists
	}
	if int(fs.hdr.FileCount) >= MaxFiles {
		return ErrFull
	}
	if fs.active >= 0 {
		if err := fs.SealActive(); err != nil {
			return err
		}
	}

	entry := Entry{
		Filename:  filename,
		StartAddr: fs.hdr.NextDataAddr,
		Flags:     FlagValid | FlagActive,
		FileType:  fileType,
	}
	index := int(fs.hdr.FileCount)
	if err := fs.writeEntry(index, &entry); err != nil {
		return err
	}
	fs.hdr.FileCount++
	if err := fs.writeHeader(); err != nil {
		return err
	}
	fs.active = index
	util.DPrintf(1, "framfs: created %s (index %d, addr %#x)\n",
		filename, index, entry.StartAddr)
	return nil
}

// Append writes data to the end of the active file. The data write
// lands before the entry and header updates; see the package comment
// for the crash window this leaves open.
func (fs *Fs) Append(data []byte) error {
	start := time.Now()
	defer fs.stats[opAppend].Record(start)

	if len(data) == 0 {
		return ErrInvalidParam
	}
	if fs.active < 0 {
		return ErrNoActive
	}
	entry, err := fs.readEntry(fs.active)
	if err != nil {
		return err
	}
	// Re-check the flag on media, not just the cached index.
	if entry.Flags&FlagActive == 0 {
		return ErrReadOnly
	}

	writeAddr := uint64(entry.StartAddr) + uint64(entry.Length)
	if writeAddr+uint64(len(data)) > uint64(fs.store.Size()) {
		return ErrFull
	}
	if err := fs.store.Write(uint32(writeAddr), data); err != nil {
		return err
	}

	entry.Length += uint32(len(data))
	if err := fs.writeEntry(fs.active, &entry); err != nil {
		return err
	}
	fs.hdr.TotalDataSize += uint32(len(data))
	fs.hdr.NextDataAddr = uint32(writeAddr) + uint32(len(data))
	if err := fs.writeHeader(); err != nil {
		return err
	}
	util.DPrintf(5, "framfs: appended %d bytes to %s (total %d)\n",
		len(data), entry.Filename, entry.Length)
	return nil
}

// SealActive makes the active file permanently read-only. Calling it
// with nothing active is a no-op.
func (fs *Fs) SealActive() error {
	start := time.Now()
	defer fs.stats[opSeal].Record(start)

	if fs.active < 0 {
		return nil
	}
	entry, err := fs.readEntry(fs.active)
	if err != nil {
		return err
	}
	entry.Flags &^= FlagActive
	entry.Flags |= FlagSealed
	if err := fs.writeEntry(fs.active, &entry); err != nil {
		return err
	}
	util.DPrintf(1, "framfs: sealed %s (%d bytes)\n", entry.Filename, entry.Length)
	fs.active = -1
	return nil
}

// Read copies file bytes starting at offset into buf and returns the
// count read. A read past the written length truncates silently; a
// read starting at or past it fails with ErrSize.
func (fs *Fs) Read(filename string, offset uint32, buf []byte) (int, error) {
	start := time.Now()
	defer fs.stats[opRead].Record(start)

	if len(buf) == 0 {
		return 0, ErrInvalidParam
	}
	_, entry, err := fs.lookup(filename)
	if err != nil {
		return 0, err
	}
	if offset >= entry.Length {
		return 0, ErrSize
	}
	n := util.Min(uint64(len(buf)), uint64(entry.Length-offset))
	if err := fs.store.Read(entry.StartAddr+offset, buf[:n]); err != nil {
		return 0, err
	}
	return int(n), nil
}

// FileSize returns the bytes written to the file so far.
func (fs *Fs) FileSize(filename string) (uint32, error) {
	_, entry, err := fs.lookup(filename)
	if err != nil {
		return 0, err
	}
	return entry.Length, nil
}

// FileInfo returns a copy of the file's index entry.
func (fs *Fs) FileInfo(filename string) (Entry, error) {
	_, entry, err := fs.lookup(filename)
	if err != nil {
		return Entry{}, err
	}
	return entry, nil
}

// ListFiles returns the names of all valid files in creation order.
func (fs *Fs) ListFiles() ([]string, error) {
	start := time.Now()
	defer fs.stats[opList].Record(start)

	var names []string
	for i := 0; i < int(fs.hdr.FileCount); i++ {
		entry, err := fs.readEntry(i)
		if err != nil {
			return nil, err
		}
		if entry.Flags&FlagValid != 0 {
			names = append(names, entry.Filename)
		}
	}
	return names, nil
}

// ListEntries returns the index entries of all valid files, for
// inspection tooling.
func (fs *Fs) ListEntries() ([]Entry, error) {
	var entries []Entry
	for i := 0; i < int(fs.hdr.FileCount); i++ {
		entry, err := fs.readEntry(i)
		if err != nil {
			return nil, err
		}
		if entry.Flags&FlagValid != 0 {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

// ActiveFilename returns the name of the file currently accepting
// appends, or ErrNoActive.
func (fs *Fs) ActiveFilename() (string, error) {
	if fs.active < 0 {
		return "", ErrNoActive
	}
	entry, err := fs.readEntry(fs.active)
	if err != nil {
		return "", err
	}
	return entry.Filename, nil
}

// Stats re-reads the header from the store and returns it.
func (fs *Fs) Stats() (Header, error) {
	if err := fs.readHeader(); err != nil {
		return Header{}, err
	}
	return fs.hdr, nil
}

// Reactivate makes an existing file the write target again after its
// entry lost the active flag, discarding its old extent: the file
// restarts empty at the current bump pointer. If the file is already
// active this only refreshes the cached index. Used by the daily
// wrapper when a rollover races a file that already exists for today.
func (fs *Fs) Reactivate(filename string) error {
	index, entry, err := fs.lookup(filename)
	if err != nil {
		return err
	}
	if entry.Flags&FlagActive != 0 {
		fs.active = index
		return nil
	}
	if err := fs.readHeader(); err != nil {
		return err
	}
	entry.StartAddr = fs.hdr.NextDataAddr
	entry.Length = 0
	entry.Flags = FlagValid | FlagActive
	if err := fs.writeEntry(index, &entry); err != nil {
		return err
	}
	fs.active = index
	util.DPrintf(1, "framfs: reactivated %s at %#x\n", filename, entry.StartAddr)
	return nil
}

func (fs *Fs) lookup(filename string) (int, Entry, error) {
	index, entry, err := fs.findFile(filename)
	if err != nil {
		return -1, Entry{}, err
	}
	if index < 0 {
		return -1, Entry{}, ErrNotFound
	}
	return index, entry, nil
}

func (fs *Fs) findFile(filename string) (int, Entry, error) {
	for i := 0; i < int(fs.hdr.FileCount); i++ {
		entry, err := fs.readEntry(i)
		if err != nil {
			return -1, Entry{}, err
		}
		if entry.Flags&FlagValid != 0 && entry.Filename == filename {
			return i, entry, nil
		}
	}
	return -1, Entry{}, nil
}

func (fs *Fs) findActive() int {
	for i := 0; i < int(fs.hdr.FileCount); i++ {
		entry, err := fs.readEntry(i)
		if err != nil {
			continue
		}
		if entry.Flags&FlagValid != 0 && entry.Flags&FlagActive != 0 {
			return i
		}
	}
	return -1
}

func (fs *Fs) readHeader() error {
	buf := make([]byte, headerSize)
	if err := fs.store.Read(0, buf); err != nil {
		return err
	}
	fs.hdr = decodeHeader(buf)
	return nil
}

func (fs *Fs) writeHeader() error {
	return fs.store.Write(0, fs.hdr.encode())
}

func (fs *Fs) readEntry(index int) (Entry, error) {
	if index < 0 || index >= MaxFiles {
		return Entry{}, ErrInvalidParam
	}
	buf := make([]byte, entrySize)
	if err := fs.store.Read(entryAddr(index), buf); err != nil {
		return Entry{}, err
	}
	return decodeEntry(buf), nil
}

func (fs *Fs) writeEntry(index int, entry *Entry) error {
	if index < 0 || index >= MaxFiles {
		return ErrInvalidParam
	}
	return fs.store.Write(entryAddr(index), entry.encode())
}
