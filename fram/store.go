// Package fram models the byte-addressable FRAM chip the file system
// lives on. The chip has no notion of blocks or pages: reads and writes
// cover an arbitrary byte range and either fully complete or fail.
package fram

import (
	"errors"
	"fmt"
)

// Size of the FRAM part the tag ships with (24-bit addressed, 128KB).
const DefaultSize uint32 = 128 * 1024

var (
	// ErrBounds is returned when a requested range falls outside the
	// store's address space. The transfer is rejected before any byte
	// reaches the media.
	ErrBounds = errors.New("fram: access out of bounds")

	// ErrClosed is returned by stores that have been released.
	ErrClosed = errors.New("fram: store closed")
)

// Store is the persistence contract the file system consumes. Write and
// Read transfer exactly len(p) bytes at addr, or fail without partial
// effect. Implementations are synchronous and do not retry.
type Store interface {
	Write(addr uint32, p []byte) error
	Read(addr uint32, p []byte) error
	Size() uint32
}

func checkRange(addr uint32, n int, size uint32) error {
	if uint64(addr)+uint64(n) > uint64(size) {
		return fmt.Errorf("%w: [%#x,%#x) size %#x", ErrBounds, addr, uint64(addr)+uint64(n), size)
	}
	return nil
}
