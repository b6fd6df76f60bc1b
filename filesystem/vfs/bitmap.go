package vfs

import (
	"github.com/blockvfs/blockvfs/disk"
)

// allocateBlock implements spec.md §4.2's allocate(): scan the bitmap from
// low to high, clear the first free bit (bit=1, per the spec's free
// convention), decrement free_blocks, return its index. Returns ErrNoSpace
// if nothing is free.
//
// util/bitmap/bitmap.go's FirstSet does the same low-to-high scan for "the
// first bit set to 1", which is exactly the predicate spec.md wants here —
// but that helper's Bitmap owns a private copy of the bits, whereas the
// spec's on-disk bit convention (1=free) is normative and must be mutated
// in place on the real disk bytes, so the scan is reimplemented directly
// against disk.Disk's bitmap accessors instead of wrapping that type.
func (fs *FileSystem) allocateBlock() (uint32, error) {
	bits, err := fs.disk.ReadBitmap()
	if err != nil {
		return 0, err
	}
	for byteIdx, b := range bits {
		if b == 0x00 {
			continue
		}
		for bitIdx := 0; bitIdx < 8; bitIdx++ {
			if b&(1<<uint(bitIdx)) == 0 {
				continue
			}
			block := byteIdx*8 + bitIdx
			if block >= disk.DiskBlocks {
				return 0, ErrNoSpace
			}
			if err := fs.disk.SetBitmapBit(block, false); err != nil {
				return 0, err
			}
			sb, err := fs.disk.Superblock()
			if err != nil {
				return 0, err
			}
			sb.FreeBlocks--
			if err := fs.disk.WriteSuperblock(sb); err != nil {
				return 0, err
			}
			fs.log.WithField("block", block).Trace("vfs: allocated block")
			return uint32(block), nil
		}
	}
	return 0, ErrNoSpace
}

// allocateZeroedBlock is allocateBlock followed by zero-filling the block,
// for blocks that will be interpreted as pointer tables (indirect blocks).
func (fs *FileSystem) allocateZeroedBlock() (uint32, error) {
	ptr, err := fs.allocateBlock()
	if err != nil {
		return 0, err
	}
	if err := fs.disk.WriteBlock(ptr, make([]byte, disk.BlockSize)); err != nil {
		return 0, err
	}
	return ptr, nil
}

// freeBlock sets the bit back to free and increments free_blocks. A
// double-free (bit already free) is silently tolerated, per spec.md §4.2.
func (fs *FileSystem) freeBlock(ptr uint32) error {
	free, err := fs.disk.BitmapBit(int(ptr))
	if err != nil {
		return err
	}
	if free {
		return nil
	}
	if err := fs.disk.SetBitmapBit(int(ptr), true); err != nil {
		return err
	}
	sb, err := fs.disk.Superblock()
	if err != nil {
		return err
	}
	sb.FreeBlocks++
	if err := fs.disk.WriteSuperblock(sb); err != nil {
		return err
	}
	fs.log.WithField("block", ptr).Trace("vfs: freed block")
	return nil
}
