package vfs

import (
	"encoding/binary"
	"fmt"

	"github.com/blockvfs/blockvfs/disk"
)

// decodeDirEntry splits a raw 16-byte directory entry into its filename
// (truncated at the first NUL) and inode number. An empty filename is a
// tombstone.
func decodeDirEntry(b []byte) (name string, inodeNumber uint16) {
	end := 0
	for end < disk.FilenameMax+1 && b[end] != 0 {
		end++
	}
	return string(b[:end]), binary.LittleEndian.Uint16(b[disk.FilenameMax+1:])
}

func encodeDirEntry(name string, inodeNumber uint16) ([]byte, error) {
	if name == "" {
		return nil, fmt.Errorf("vfs: directory entry name must not be empty")
	}
	if len(name) > disk.FilenameMax {
		return nil, ErrBadArgument
	}
	b := make([]byte, disk.DirEntrySize)
	copy(b[0:disk.FilenameMax+1], name)
	binary.LittleEndian.PutUint16(b[disk.FilenameMax+1:], inodeNumber)
	return b, nil
}

// dirLookup implements spec.md §4.6's lookup(): scan entries from offset 0,
// match names exactly (comparisons already stop at the first NUL on each
// side because decodeDirEntry truncates there). Returns the matching
// entry's inode number and byte offset.
func (fs *FileSystem) dirLookup(dirInodeNum uint16, name string) (inodeNumber uint16, offset int64, found bool, err error) {
	in, err := fs.disk.Inode(dirInodeNum)
	if err != nil {
		return 0, 0, false, err
	}
	buf := make([]byte, disk.DirEntrySize)
	for pos := int64(0); pos+disk.DirEntrySize <= int64(in.Size); pos += disk.DirEntrySize {
		n, err := fs.readFile(dirInodeNum, pos, buf)
		if err != nil {
			return 0, 0, false, err
		}
		if n < disk.DirEntrySize {
			break
		}
		entryName, entryInode := decodeDirEntry(buf)
		if entryName != "" && entryName == name {
			return entryInode, pos, true, nil
		}
	}
	return 0, 0, false, nil
}

// dirInsert implements spec.md §4.6's insert(): reuse the first tombstone
// if a prior deletion left a hole, otherwise append, failing with
// ErrNoSpace if that would grow the directory past MAX_FILE_SIZE or the
// allocator is exhausted.
func (fs *FileSystem) dirInsert(dirInodeNum uint16, name string, targetInode uint16) error {
	entry, err := encodeDirEntry(name, targetInode)
	if err != nil {
		return err
	}

	in, err := fs.disk.Inode(dirInodeNum)
	if err != nil {
		return err
	}

	if int64(in.DirEntryCount)*disk.DirEntrySize < int64(in.Size) {
		buf := make([]byte, disk.DirEntrySize)
		for pos := int64(0); pos+disk.DirEntrySize <= int64(in.Size); pos += disk.DirEntrySize {
			n, err := fs.readFile(dirInodeNum, pos, buf)
			if err != nil {
				return err
			}
			if n < disk.DirEntrySize {
				break
			}
			if buf[0] != 0 {
				continue
			}
			if _, err := fs.writeFile(dirInodeNum, pos, entry); err != nil {
				return err
			}
			return fs.bumpDirEntryCount(dirInodeNum, 1)
		}
	}

	if int64(in.Size)+disk.DirEntrySize > disk.MaxFileSize {
		return ErrNoSpace
	}
	n, err := fs.writeFile(dirInodeNum, int64(in.Size), entry)
	if err != nil {
		return err
	}
	if n < disk.DirEntrySize {
		return ErrNoSpace
	}
	return fs.bumpDirEntryCount(dirInodeNum, 1)
}

// bumpDirEntryCount re-reads the directory inode (writeFile may just have
// grown its Size) and adjusts DirEntryCount by delta.
func (fs *FileSystem) bumpDirEntryCount(dirInodeNum uint16, delta int32) error {
	in, err := fs.disk.Inode(dirInodeNum)
	if err != nil {
		return err
	}
	in.DirEntryCount = uint32(int64(in.DirEntryCount) + int64(delta))
	return fs.disk.WriteInode(dirInodeNum, in)
}

// dirRemove implements spec.md §4.6's remove(): zero the entry's 16 bytes
// (a tombstone), decrement DirEntryCount. Size is never shrunk.
func (fs *FileSystem) dirRemove(dirInodeNum uint16, name string) error {
	_, offset, found, err := fs.dirLookup(dirInodeNum, name)
	if err != nil {
		return err
	}
	if !found {
		return ErrNotFound
	}
	if _, err := fs.writeFile(dirInodeNum, offset, make([]byte, disk.DirEntrySize)); err != nil {
		return err
	}
	return fs.bumpDirEntryCount(dirInodeNum, -1)
}

// dirIterateFrom implements spec.md §4.6's iterate_from(): skip tombstones,
// return the first live entry at or after pos together with the offset
// immediately past it.
func (fs *FileSystem) dirIterateFrom(dirInodeNum uint16, pos int64) (name string, inodeNumber uint16, nextPos int64, ok bool, err error) {
	in, err := fs.disk.Inode(dirInodeNum)
	if err != nil {
		return "", 0, 0, false, err
	}
	buf := make([]byte, disk.DirEntrySize)
	for p := pos - (pos % disk.DirEntrySize); p+disk.DirEntrySize <= int64(in.Size); p += disk.DirEntrySize {
		n, err := fs.readFile(dirInodeNum, p, buf)
		if err != nil {
			return "", 0, 0, false, err
		}
		if n < disk.DirEntrySize {
			break
		}
		entryName, entryInode := decodeDirEntry(buf)
		if entryName == "" {
			continue
		}
		return entryName, entryInode, p + disk.DirEntrySize, true, nil
	}
	return "", 0, 0, false, nil
}
