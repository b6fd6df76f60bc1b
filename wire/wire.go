// Package wire implements the request/response shapes of spec.md §6: the
// wire format a kernel/user ioctl transport (explicitly out of scope per
// spec.md §1) would marshal these operations over. It is provided because
// §6 says the format is "required only if the implementation preserves the
// two-process split" — this package is that boundary, expressed as plain Go
// structs and a Dispatch* function per operation rather than an actual
// ioctl, so a real transport can be slotted in without touching
// filesystem/vfs at all.
package wire

import (
	"errors"

	"golang.org/x/sys/unix"

	"github.com/blockvfs/blockvfs/filesystem"
	"github.com/blockvfs/blockvfs/filesystem/vfs"
)

// Response is the common reply shape. Not every field is populated by
// every operation; see the Dispatch* doc comments for which fields a given
// operation fills in, mirroring spec.md §6's per-row response columns.
type Response struct {
	Return       int32
	InodeNumber  int32
	ResultOffset int32
	Pos          int32
	EntryLen     int32
	Entry        [16]byte
}

// errnoFor maps a vfs.Kind to the POSIX errno spec.md §6's "return: i32"
// field is modeled on, using golang.org/x/sys/unix the same way the
// teacher's top-level diskfs.go and diskfs_darwin.go use it for raw device
// ioctl constants. Negative errno keeps the sign spec.md's "-1 on error"
// convention while giving callers a specific cause instead of a bare -1.
func errnoFor(err error) int32 {
	if err == nil {
		return 0
	}
	var verr *vfs.Error
	if errors.As(err, &verr) {
		switch verr.Kind {
		case vfs.KindNoSuchPath, vfs.KindNotFound:
			return -int32(unix.ENOENT)
		case vfs.KindAlreadyExists:
			return -int32(unix.EEXIST)
		case vfs.KindNotADirectory:
			return -int32(unix.ENOTDIR)
		case vfs.KindNotARegularFile:
			return -int32(unix.EISDIR)
		case vfs.KindDirectoryNotEmpty:
			return -int32(unix.ENOTEMPTY)
		case vfs.KindInUse:
			return -int32(unix.EBUSY)
		case vfs.KindNoSpace:
			return -int32(unix.ENOSPC)
		case vfs.KindOversize:
			return -int32(unix.EFBIG)
		case vfs.KindBadDescriptor:
			return -int32(unix.EBADF)
		case vfs.KindBadArgument:
			return -int32(unix.EINVAL)
		}
	}
	return -int32(unix.EIO)
}

// DispatchCreate implements the CREATE row: { pathname } -> { return }.
func DispatchCreate(fs filesystem.FileSystem, pathname string) Response {
	_, err := fs.Create(pathname)
	return Response{Return: errnoFor(err)}
}

// DispatchMkdir implements the MKDIR row: { pathname } -> { return }.
func DispatchMkdir(fs filesystem.FileSystem, pathname string) Response {
	err := fs.Mkdir(pathname)
	return Response{Return: errnoFor(err)}
}

// DispatchUnlink implements the UNLINK row: { pathname } -> { return }.
func DispatchUnlink(fs filesystem.FileSystem, pathname string) Response {
	err := fs.Unlink(pathname)
	return Response{Return: errnoFor(err)}
}

// DispatchOpen implements the OPEN row: { pathname } -> { return, inode_number }.
func DispatchOpen(fs filesystem.FileSystem, pathname string) Response {
	inodeNum, err := fs.Open(pathname)
	if err != nil {
		return Response{Return: errnoFor(err)}
	}
	return Response{Return: 0, InodeNumber: int32(inodeNum)}
}

// DispatchClose implements the CLOSE row: { inode_number } -> { return }.
func DispatchClose(fs filesystem.FileSystem, inodeNumber int32) Response {
	err := fs.Close(uint16(inodeNumber))
	return Response{Return: errnoFor(err)}
}

// DispatchRead implements the READ row: { inode, pos, addr, n } -> { return }.
// addr must point to a buffer of at least n bytes; Return carries the
// number of bytes actually read on success, a negative errno on failure.
func DispatchRead(fs filesystem.FileSystem, inode, pos int32, addr []byte, n int32) Response {
	if addr == nil || n < 0 || int(n) > len(addr) {
		return Response{Return: -int32(unix.EINVAL)}
	}
	read, err := fs.Read(uint16(inode), int64(pos), addr[:n])
	if err != nil {
		return Response{Return: errnoFor(err)}
	}
	return Response{Return: int32(read)}
}

// DispatchWrite implements the WRITE row: { inode, pos, addr, n } -> { return }.
func DispatchWrite(fs filesystem.FileSystem, inode, pos int32, addr []byte, n int32) Response {
	if addr == nil || n < 0 || int(n) > len(addr) {
		return Response{Return: -int32(unix.EINVAL)}
	}
	written, err := fs.Write(uint16(inode), int64(pos), addr[:n])
	if err != nil {
		return Response{Return: errnoFor(err)}
	}
	return Response{Return: int32(written)}
}

// DispatchLseek implements the LSEEK row: { inode, offset } -> { return, result_offset }.
func DispatchLseek(fs filesystem.FileSystem, inode, offset int32) Response {
	newPos, err := fs.Lseek(uint16(inode), int64(offset))
	if err != nil {
		return Response{Return: errnoFor(err)}
	}
	return Response{Return: 0, ResultOffset: int32(newPos)}
}

// DispatchReaddir implements the READDIR row:
// { inode, pos } -> { return, pos, entry_len, entry }.
func DispatchReaddir(fs filesystem.FileSystem, inode, pos int32) Response {
	name, childInode, nextPos, ok, err := fs.ReadDir(uint16(inode), int64(pos))
	if err != nil {
		return Response{Return: errnoFor(err)}
	}
	if !ok {
		return Response{Return: 0, EntryLen: 0}
	}
	entry := encodeWireEntry(name, childInode)
	return Response{Return: 0, Pos: int32(nextPos), EntryLen: int32(len(name)), Entry: entry}
}

func encodeWireEntry(name string, inodeNumber uint16) [16]byte {
	var b [16]byte
	copy(b[0:14], name)
	b[14] = byte(inodeNumber)
	b[15] = byte(inodeNumber >> 8)
	return b
}
