// Package memory provides a backend.Storage implementation that keeps its
// entire contents in a single in-process buffer rather than an OS file or
// block device. It is the storage behind every in-memory disk in this
// module: there is no real device to open, so the "backing file" is just a
// byte slice with read/write/seek semantics layered on top.
package memory

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/blockvfs/blockvfs/backend"
)

// Storage is a backend.Storage and backend.WritableFile backed by a plain
// []byte. The zero value is not usable; construct with New or NewSize.
type Storage struct {
	name string
	buf  []byte
	pos  int64
}

var (
	_ backend.Storage      = (*Storage)(nil)
	_ backend.WritableFile = (*Storage)(nil)
)

// New wraps an existing byte slice. The slice is used directly, not copied:
// writes through the returned Storage mutate buf in place.
func New(name string, buf []byte) *Storage {
	return &Storage{name: name, buf: buf}
}

// NewSize allocates a zero-filled buffer of the given size.
func NewSize(name string, size int) *Storage {
	return &Storage{name: name, buf: make([]byte, size)}
}

// Bytes returns the underlying buffer. Callers must not resize it; in-place
// mutation through ReadAt/WriteAt is fine.
func (s *Storage) Bytes() []byte {
	return s.buf
}

func (s *Storage) Stat() (fs.FileInfo, error) {
	return memInfo{name: s.name, size: int64(len(s.buf))}, nil
}

func (s *Storage) Read(p []byte) (int, error) {
	if s.pos >= int64(len(s.buf)) {
		return 0, io.EOF
	}
	n := copy(p, s.buf[s.pos:])
	s.pos += int64(n)
	return n, nil
}

func (s *Storage) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, errors.New("memory: negative offset")
	}
	if off >= int64(len(s.buf)) {
		return 0, io.EOF
	}
	n := copy(p, s.buf[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (s *Storage) WriteAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, errors.New("memory: negative offset")
	}
	end := off + int64(len(p))
	if end > int64(len(s.buf)) {
		return 0, errors.New("memory: write past end of fixed-size disk")
	}
	return copy(s.buf[off:end], p), nil
}

func (s *Storage) Seek(offset int64, whence int) (int64, error) {
	var newPos int64
	switch whence {
	case io.SeekStart:
		newPos = offset
	case io.SeekCurrent:
		newPos = s.pos + offset
	case io.SeekEnd:
		newPos = int64(len(s.buf)) + offset
	default:
		return 0, errors.New("memory: invalid whence")
	}
	if newPos < 0 {
		return 0, errors.New("memory: negative seek position")
	}
	s.pos = newPos
	return s.pos, nil
}

func (s *Storage) Close() error {
	return nil
}

// Sys returns backend.ErrNotSuitable: there is no OS-level file descriptor
// behind an in-memory disk, so ioctl-style access is never available.
func (s *Storage) Sys() (*os.File, error) {
	return nil, backend.ErrNotSuitable
}

// Writable always succeeds: an in-memory disk is never opened read-only.
func (s *Storage) Writable() (backend.WritableFile, error) {
	return s, nil
}

type memInfo struct {
	name string
	size int64
}

func (m memInfo) Name() string       { return m.name }
func (m memInfo) Size() int64        { return m.size }
func (m memInfo) Mode() fs.FileMode  { return 0o600 }
func (m memInfo) ModTime() time.Time { return time.Time{} }
func (m memInfo) IsDir() bool        { return false }
func (m memInfo) Sys() interface{}   { return nil }
