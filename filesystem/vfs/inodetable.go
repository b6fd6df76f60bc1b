package vfs

import (
	"github.com/blockvfs/blockvfs/disk"
)

// allocateInode implements spec.md §4.3's allocate_inode(): the lowest
// n in 1..=MAX_INODES whose slot is KindEmpty, set to kind immediately,
// with free_inodes decremented. Returns ErrNoSpace if free_inodes is 0.
func (fs *FileSystem) allocateInode(kind disk.Kind) (uint16, error) {
	sb, err := fs.disk.Superblock()
	if err != nil {
		return 0, err
	}
	if sb.FreeInodes == 0 {
		return 0, ErrNoSpace
	}
	for n := uint16(1); int(n) <= disk.MaxInodes; n++ {
		in, err := fs.disk.Inode(n)
		if err != nil {
			return 0, err
		}
		if in.Kind != disk.KindEmpty {
			continue
		}
		fresh := &disk.Inode{Kind: kind}
		if err := fs.disk.WriteInode(n, fresh); err != nil {
			return 0, err
		}
		sb.FreeInodes--
		if err := fs.disk.WriteSuperblock(sb); err != nil {
			return 0, err
		}
		fs.log.WithFields(map[string]interface{}{"inode": n, "kind": kind.String()}).Debug("vfs: allocated inode")
		return n, nil
	}
	return 0, ErrNoSpace
}

// freeInode zeroes the inode slot (caller must have already freed its data
// blocks) and increments free_inodes.
func (fs *FileSystem) freeInode(n uint16) error {
	if err := fs.disk.WriteInode(n, &disk.Inode{}); err != nil {
		return err
	}
	sb, err := fs.disk.Superblock()
	if err != nil {
		return err
	}
	sb.FreeInodes++
	if err := fs.disk.WriteSuperblock(sb); err != nil {
		return err
	}
	fs.log.WithField("inode", n).Debug("vfs: freed inode")
	return nil
}
