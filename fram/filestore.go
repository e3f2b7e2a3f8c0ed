package fram

import (
	"fmt"
	"os"

	"github.com/mit-pdos/go-journal/util"
	"golang.org/x/sys/unix"
)

// FileStore backs the address space with an image file, for host-side
// tooling that inspects or replays a dump pulled off a device. An
// exclusive flock enforces the single-writer assumption the file system
// is built on; a second open of the same image fails rather than
// corrupting the index.
type FileStore struct {
	file *os.File
	size uint32
}

var _ Store = (*FileStore)(nil)

// NewFileStore opens (creating if needed) the image at path and extends
// it to size bytes. New bytes read as zero, matching an erased chip.
func NewFileStore(path string, size uint32) (*FileStore, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0666)
	if err != nil {
		return nil, fmt.Errorf("fram: open image: %w", err)
	}
	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		f.Close()
		return nil, fmt.Errorf("fram: image %s is locked by another writer: %w", path, err)
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if st.Size() < int64(size) {
		if err := f.Truncate(int64(size)); err != nil {
			f.Close()
			return nil, fmt.Errorf("fram: extend image: %w", err)
		}
	}
	util.DPrintf(1, "fram: open file store %s (%d bytes)\n", path, size)
	return &FileStore{file: f, size: size}, nil
}

func (s *FileStore) Write(addr uint32, p []byte) error {
	if s.file == nil {
		return ErrClosed
	}
	if err := checkRange(addr, len(p), s.size); err != nil {
		return err
	}
	_, err := s.file.WriteAt(p, int64(addr))
	return err
}

func (s *FileStore) Read(addr uint32, p []byte) error {
	if s.file == nil {
		return ErrClosed
	}
	if err := checkRange(addr, len(p), s.size); err != nil {
		return err
	}
	_, err := s.file.ReadAt(p, int64(addr))
	return err
}

func (s *FileStore) Size() uint32 {
	return s.size
}

// Close releases the image and its lock.
func (s *FileStore) Close() error {
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}
