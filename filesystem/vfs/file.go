package vfs

import (
	"errors"

	"github.com/blockvfs/blockvfs/disk"
)

// readFile implements spec.md §4.5's read(): clamp n to the file's current
// size, copy block-by-block through resolveBlock in read mode, stopping
// early at the first hole. Returns bytes actually copied. It does not check
// the inode's kind: the directory layer reads its entries through it, and
// the façade's Read rejects non-regular inodes before calling in.
func (fs *FileSystem) readFile(inodeNum uint16, pos int64, dst []byte) (int, error) {
	in, err := fs.disk.Inode(inodeNum)
	if err != nil {
		return 0, err
	}
	if pos < 0 {
		return 0, ErrBadArgument
	}

	remaining := int64(in.Size) - pos
	if remaining <= 0 {
		return 0, nil
	}
	want := int64(len(dst))
	if want > remaining {
		want = remaining
	}

	var read int64
	for read < want {
		logical := int((pos + read) / disk.BlockSize)
		offInBlock := int((pos + read) % disk.BlockSize)
		ptr, err := fs.resolveBlock(inodeNum, in, logical, false)
		if err != nil {
			return int(read), err
		}
		if ptr == 0 {
			break // hole: never-written region within [0,size)
		}
		block, err := fs.disk.Block(ptr)
		if err != nil {
			return int(read), err
		}
		chunk := int64(disk.BlockSize - offInBlock)
		if left := want - read; chunk > left {
			chunk = left
		}
		copy(dst[read:read+chunk], block[offInBlock:int64(offInBlock)+chunk])
		read += chunk
	}
	return int(read), nil
}

// writeFile implements spec.md §4.5's write(): clamp n to MAX_FILE_SIZE,
// copy block-by-block through resolveBlock in write mode, stopping early
// (without error) if the allocator is exhausted, then grow in.Size to
// cover whatever was actually written.
func (fs *FileSystem) writeFile(inodeNum uint16, pos int64, src []byte) (int, error) {
	in, err := fs.disk.Inode(inodeNum)
	if err != nil {
		return 0, err
	}
	if in.Kind != disk.KindRegularFile {
		return 0, ErrNotARegularFile
	}
	if pos < 0 {
		return 0, ErrBadArgument
	}

	maxWant := int64(disk.MaxFileSize) - pos
	if maxWant < 0 {
		maxWant = 0
	}
	want := int64(len(src))
	if want > maxWant {
		want = maxWant
	}

	var written int64
	for written < want {
		logical := int((pos + written) / disk.BlockSize)
		offInBlock := int((pos + written) % disk.BlockSize)
		ptr, err := fs.resolveBlock(inodeNum, in, logical, true)
		if err != nil {
			if errors.Is(err, ErrNoSpace) {
				break // allocator exhausted: stop, report bytes written so far
			}
			return int(written), err
		}
		if ptr == 0 {
			break
		}
		block, err := fs.disk.Block(ptr)
		if err != nil {
			return int(written), err
		}
		chunk := int64(disk.BlockSize - offInBlock)
		if left := want - written; chunk > left {
			chunk = left
		}
		copy(block[offInBlock:int64(offInBlock)+chunk], src[written:written+chunk])
		if err := fs.disk.WriteBlock(ptr, block); err != nil {
			return int(written), err
		}
		written += chunk
	}

	if newSize := pos + written; newSize > int64(in.Size) {
		in.Size = uint32(newSize)
		if err := fs.disk.WriteInode(inodeNum, in); err != nil {
			return int(written), err
		}
	}
	return int(written), nil
}

// seekFile implements spec.md §4.5's lseek(): clamp offset into
// [0, inode.size]. The caller decides whether to keep the result as its
// session position.
func (fs *FileSystem) seekFile(inodeNum uint16, offset int64) (int64, error) {
	in, err := fs.disk.Inode(inodeNum)
	if err != nil {
		return 0, err
	}
	if in.Kind != disk.KindRegularFile {
		return 0, ErrNotARegularFile
	}
	switch {
	case offset < 0:
		return 0, nil
	case offset > int64(in.Size):
		return int64(in.Size), nil
	default:
		return offset, nil
	}
}
