package framfs

import (
	"github.com/tchajed/marshal"
)

// Table structures are serialized field by field, little-endian, the
// byte order the firmware's packed structs lay down on ARM. Record
// payloads inside files are big-endian; the two never share a codec.

// Header is the file system header at address 0.
type Header struct {
	Magic         uint16
	Version       uint8
	FileCount     uint8
	NextDataAddr  uint32
	TotalDataSize uint32
}

func (h *Header) encode() []byte {
	enc := marshal.NewEnc(headerSize)
	enc.PutBytes([]byte{byte(h.Magic), byte(h.Magic >> 8), h.Version, h.FileCount})
	enc.PutInt32(h.NextDataAddr)
	enc.PutInt32(h.TotalDataSize)
	return enc.Finish()
}

func decodeHeader(b []byte) Header {
	dec := marshal.NewDec(b)
	fixed := dec.GetBytes(4)
	return Header{
		Magic:         uint16(fixed[0]) | uint16(fixed[1])<<8,
		Version:       fixed[2],
		FileCount:     fixed[3],
		NextDataAddr:  dec.GetInt32(),
		TotalDataSize: dec.GetInt32(),
	}
}

// Entry is one slot of the file index. Filename occupies a fixed
// zero-padded 8-byte field on media.
type Entry struct {
	Filename  string
	StartAddr uint32
	Length    uint32
	Flags     uint8
	FileType  uint8
}

func (e *Entry) encode() []byte {
	name := make([]byte, FilenameLen)
	copy(name, e.Filename)
	enc := marshal.NewEnc(entrySize)
	enc.PutBytes(name)
	enc.PutInt32(e.StartAddr)
	enc.PutInt32(e.Length)
	enc.PutBytes([]byte{e.Flags, e.FileType, 0, 0})
	return enc.Finish()
}

func decodeEntry(b []byte) Entry {
	dec := marshal.NewDec(b)
	name := dec.GetBytes(FilenameLen)
	n := FilenameLen
	for n > 0 && name[n-1] == 0 {
		n--
	}
	e := Entry{Filename: string(name[:n])}
	e.StartAddr = dec.GetInt32()
	e.Length = dec.GetInt32()
	tail := dec.GetBytes(4)
	e.Flags = tail[0]
	e.FileType = tail[1]
	return e
}

type macHeader struct {
	Magic      uint16
	Version    uint8
	EntryCount uint8
}

func (h *macHeader) encode() []byte {
	enc := marshal.NewEnc(macHeaderSize)
	enc.PutBytes([]byte{byte(h.Magic), byte(h.Magic >> 8), h.Version, h.EntryCount})
	return enc.Finish()
}

func decodeMacHeader(b []byte) macHeader {
	return macHeader{
		Magic:      uint16(b[0]) | uint16(b[1])<<8,
		Version:    b[2],
		EntryCount: b[3],
	}
}

// MacEntry is one slot of the MAC deduplication table.
type MacEntry struct {
	ID         [MacIDLen]byte
	UsageCount uint8
	Flags      uint8
}

func (e *MacEntry) encode() []byte {
	enc := marshal.NewEnc(macEntrySize)
	enc.PutBytes(e.ID[:])
	enc.PutBytes([]byte{e.UsageCount, e.Flags})
	return enc.Finish()
}

func decodeMacEntry(b []byte) MacEntry {
	var e MacEntry
	copy(e.ID[:], b[:MacIDLen])
	e.UsageCount = b[3]
	e.Flags = b[4]
	return e
}
