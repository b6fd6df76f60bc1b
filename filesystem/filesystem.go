// Package filesystem provides the interface implementations in this module
// conform to. Unlike the teacher package of the same name, which describes a
// full POSIX-ish surface (Chmod, Chown, Symlink, Rename, ...) spanning
// several on-disk formats, this one is trimmed to the operations spec.md
// §4.8 names, plus Type and Label: the Non-goals (links, permissions) mean there is only
// ever going to be one implementation, filesystem/vfs.FileSystem.
package filesystem

import "errors"

var (
	ErrNotSupported       = errors.New("method not supported by this filesystem")
	ErrNotImplemented     = errors.New("method not implemented (patches are welcome)")
	ErrReadonlyFilesystem = errors.New("read-only filesystem")
)

// FileSystem is the operation façade spec.md §4.8 describes: every method
// takes and returns inode numbers and byte positions explicitly rather than
// opaque file handles, per the design note that per-client FD state belongs
// to the client, not the core.
type FileSystem interface {
	Type() Type

	Mkdir(pathname string) error
	Create(pathname string) (inodeNumber uint16, err error)
	Unlink(pathname string) error

	Open(pathname string) (inodeNumber uint16, err error)
	Close(inodeNumber uint16) error

	Read(inodeNumber uint16, pos int64, dst []byte) (n int, err error)
	Write(inodeNumber uint16, pos int64, src []byte) (n int, err error)
	Lseek(inodeNumber uint16, offset int64) (newPos int64, err error)

	ReadDir(inodeNumber uint16, pos int64) (name string, childInode uint16, nextPos int64, ok bool, err error)

	// Label returns a human-readable identifier for the filesystem, or ""
	// if none. Here it is the stamped volume UUID.
	Label() string
}

// Type represents the type of filesystem this is.
type Type int

const (
	// TypeBlockVFS is this module's single filesystem implementation.
	TypeBlockVFS Type = iota
)
