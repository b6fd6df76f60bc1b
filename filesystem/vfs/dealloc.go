package vfs

import "github.com/blockvfs/blockvfs/disk"

// freeInodeData releases every data block (and structural indirect block)
// reachable from in, per spec.md §4.9: walk logical blocks ascending,
// stopping at the first unallocated leaf, then free the single-indirect
// block and every allocated row of the double-indirect block plus its root.
// Location, Size and DirEntryCount are zeroed on return; the caller is
// responsible for persisting the inode afterwards (or freeing its slot
// entirely via freeInode, which writes a zero inode anyway).
func (fs *FileSystem) freeInodeData(in *disk.Inode) error {
	for l := 0; l < disk.MaxBlocksPerFile; l++ {
		ptr, err := fs.resolveBlock(0, in, l, false)
		if err != nil {
			return err
		}
		if ptr == 0 {
			break
		}
		if err := fs.freeBlock(ptr); err != nil {
			return err
		}
	}

	if sPtr := in.Location[disk.SingleIndirectIndex]; sPtr != 0 {
		if err := fs.freeBlock(sPtr); err != nil {
			return err
		}
	}

	if dPtr := in.Location[disk.DoubleIndirectIndex]; dPtr != 0 {
		for row := 0; row < disk.PointersPerBlock; row++ {
			rowPtr, err := fs.readPointer(dPtr, row)
			if err != nil {
				return err
			}
			if rowPtr != 0 {
				if err := fs.freeBlock(rowPtr); err != nil {
					return err
				}
			}
		}
		if err := fs.freeBlock(dPtr); err != nil {
			return err
		}
	}

	in.Location = [10]uint32{}
	in.Size = 0
	in.DirEntryCount = 0
	return nil
}
