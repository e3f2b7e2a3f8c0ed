package framfs

// On-media geometry. The three tables sit contiguously from address 0
// and every offset below is part of the wire format shared with the
// firmware and host tooling, so none of these may change without a
// version bump.

const (
	Magic   uint16 = 0x4653 // "FS"
	Version uint8  = 0x01

	MacMagic   uint16 = 0x4D41 // "MA"
	MacVersion uint8  = 0x01

	MaxFiles    = 64
	FilenameLen = 8

	MaxMacEntries = 128
	MacIDLen      = 3

	headerSize    = 13
	entrySize     = 20
	macHeaderSize = 4
	macEntrySize  = 5
)

// Entry flags.
const (
	FlagValid  uint8 = 0x01
	FlagActive uint8 = 0x02
	FlagSealed uint8 = 0x04
)

// File types. The high bit is reserved for a compression marker that
// has never been implemented.
const (
	TypeRawData    uint8 = 0x00
	TypeSensorLog  uint8 = 0x01
	TypeConfig     uint8 = 0x02
	TypeCompressed uint8 = 0x80
)

func entryAddr(index int) uint32 {
	return headerSize + uint32(index)*entrySize
}

func macHeaderAddr() uint32 {
	return headerSize + MaxFiles*entrySize
}

func macEntryAddr(index int) uint32 {
	return macHeaderAddr() + macHeaderSize + uint32(index)*macEntrySize
}

// DataStart is the first address past the metadata tables; the bump
// allocator never hands out anything below it.
func DataStart() uint32 {
	return macHeaderAddr() + macHeaderSize + MaxMacEntries*macEntrySize
}
