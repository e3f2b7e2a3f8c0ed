package fram

import (
	"github.com/mit-pdos/go-journal/util"
)

// MemStore keeps the whole address space in a byte slice. It behaves
// like a freshly erased chip: every byte starts at zero.
type MemStore struct {
	data []byte
}

var _ Store = (*MemStore)(nil)

func NewMemStore(size uint32) *MemStore {
	util.DPrintf(1, "fram: create mem store (%d bytes)\n", size)
	return &MemStore{data: make([]byte, size)}
}

func (s *MemStore) Write(addr uint32, p []byte) error {
	if err := checkRange(addr, len(p), s.Size()); err != nil {
		return err
	}
	copy(s.data[addr:], p)
	return nil
}

func (s *MemStore) Read(addr uint32, p []byte) error {
	if err := checkRange(addr, len(p), s.Size()); err != nil {
		return err
	}
	copy(p, s.data[addr:])
	return nil
}

func (s *MemStore) Size() uint32 {
	return uint32(len(s.data))
}
