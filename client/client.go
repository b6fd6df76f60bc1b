// Package client implements the per-caller file-descriptor table described
// by spec.md §4.10: an ordered mapping from small integer descriptors to
// (inode_number, byte_position) sessions, layered on top of the
// filesystem.FileSystem façade. This is deliberately a separate package
// from filesystem/vfs — the design note "Global process state" calls out
// that FD state belongs to the caller, not the core, the same way the
// teacher's disk package keeps no client bookkeeping of its own and leaves
// callers to hold their *disk.Disk and *os.File references directly.
package client

import (
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/blockvfs/blockvfs/filesystem"
)

// ErrBadDescriptor is returned when a descriptor is not open for this
// client, spec.md §7's BadDescriptor kind.
var ErrBadDescriptor = errors.New("client: bad descriptor")

type session struct {
	inode    uint16
	position int64
}

// Client is a caller's view of a filesystem: its own FD table over a
// shared filesystem.FileSystem. Distinct Clients may reference the same
// inode (e.g. through independent opens) with independent cursors.
type Client struct {
	fs   filesystem.FileSystem
	log  *logrus.Logger
	next int
	open map[int]*session
}

// New wraps fs with a fresh, empty descriptor table. Descriptor numbering
// starts at 1; 0 is reserved, per spec.md §4.10.
func New(fs filesystem.FileSystem, log *logrus.Logger) *Client {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Client{fs: fs, log: log, next: 1, open: map[int]*session{}}
}

// Mkdir, Create and Unlink take a path directly and need no descriptor.
func (c *Client) Mkdir(pathname string) error    { return c.fs.Mkdir(pathname) }
func (c *Client) Create(pathname string) error   { _, err := c.fs.Create(pathname); return err }
func (c *Client) Unlink(pathname string) error   { return c.fs.Unlink(pathname) }

// Open resolves pathname and allocates a new descriptor for it, starting
// its session position at 0.
func (c *Client) Open(pathname string) (int, error) {
	inodeNum, err := c.fs.Open(pathname)
	if err != nil {
		return 0, err
	}
	fd := c.next
	c.next++
	c.open[fd] = &session{inode: inodeNum}
	c.log.WithFields(logrus.Fields{"fd": fd, "path": pathname, "inode": inodeNum}).Debug("client: opened")
	return fd, nil
}

// Close releases fd's underlying inode session and removes it from the
// table.
func (c *Client) Close(fd int) error {
	s, ok := c.open[fd]
	if !ok {
		return ErrBadDescriptor
	}
	if err := c.fs.Close(s.inode); err != nil {
		return err
	}
	delete(c.open, fd)
	c.log.WithField("fd", fd).Debug("client: closed")
	return nil
}

// Read delegates to the façade at fd's session position, advancing it by
// the number of bytes actually read.
func (c *Client) Read(fd int, dst []byte) (int, error) {
	s, ok := c.open[fd]
	if !ok {
		return 0, ErrBadDescriptor
	}
	n, err := c.fs.Read(s.inode, s.position, dst)
	if err != nil {
		return n, err
	}
	s.position += int64(n)
	return n, nil
}

// Write delegates to the façade at fd's session position, advancing it by
// the number of bytes actually written.
func (c *Client) Write(fd int, src []byte) (int, error) {
	s, ok := c.open[fd]
	if !ok {
		return 0, ErrBadDescriptor
	}
	n, err := c.fs.Write(s.inode, s.position, src)
	if err != nil {
		return n, err
	}
	s.position += int64(n)
	return n, nil
}

// Lseek delegates to the façade and overwrites fd's session position with
// the clamped result.
func (c *Client) Lseek(fd int, offset int64) (int64, error) {
	s, ok := c.open[fd]
	if !ok {
		return 0, ErrBadDescriptor
	}
	newPos, err := c.fs.Lseek(s.inode, offset)
	if err != nil {
		return 0, err
	}
	s.position = newPos
	return newPos, nil
}

// Readdir delegates to the façade at fd's session position, storing
// next_pos as the new session position on success (spec.md §4.10).
func (c *Client) Readdir(fd int) (name string, childInode uint16, ok bool, err error) {
	s, found := c.open[fd]
	if !found {
		return "", 0, false, ErrBadDescriptor
	}
	name, childInode, nextPos, ok, err := c.fs.ReadDir(s.inode, s.position)
	if err != nil {
		return "", 0, false, err
	}
	if ok {
		s.position = nextPos
	}
	return name, childInode, ok, nil
}
