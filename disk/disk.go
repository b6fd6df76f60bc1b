// Package disk implements the on-disk layout described by the filesystem's
// data model: a fixed-size byte region laid out as superblock, inode table,
// allocation bitmap and data-block pool. Disk is the single owner of that
// region; every other package resolves indices (block numbers, inode
// numbers) through it rather than computing raw byte offsets itself, the
// same discipline the teacher's backend package applies to partition and
// filesystem byte ranges.
package disk

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/blockvfs/blockvfs/backend"
	"github.com/blockvfs/blockvfs/util"
)

// Fixed geometry. These are part of the external contract: file-addressing
// math depends on them being exactly these values.
const (
	BlockSize  = 256
	DiskSize   = 2 * 1024 * 1024
	DiskBlocks = DiskSize / BlockSize // 8192

	InodeTableBlocks = 256
	InodesPerBlock   = BlockSize / inodeSize // 4
	MaxInodes        = InodeTableBlocks * InodesPerBlock

	BitmapBlocks = 4
	BitmapBytes  = BitmapBlocks * BlockSize // 1024, addresses DiskBlocks bits exactly

	PointersPerBlock  = BlockSize / 4 // 64
	DirectPointers    = 8
	MaxBlocksPerFile  = DirectPointers + PointersPerBlock + PointersPerBlock*PointersPerBlock
	MaxFileSize       = MaxBlocksPerFile * BlockSize
	DirEntrySize      = 16
	FilenameMax       = 13

	superblockBlock    = 0
	inodeTableStart    = 1
	bitmapStart        = inodeTableStart + InodeTableBlocks // 257
	dataPoolStart      = bitmapStart + BitmapBlocks          // 261
	reservedBlockCount = dataPoolStart                       // blocks 0..260 inclusive
)

// Disk is the single owner of the backing byte region. It hands out bounded
// views (blocks, inode records, bitmap bytes) by index; nobody else touches
// backend.Storage directly.
type Disk struct {
	storage backend.Storage
	log     *logrus.Logger
}

// New wraps an already-sized backend.Storage (exactly DiskSize bytes) as a
// Disk. Use Init to lay down a fresh filesystem on it.
func New(storage backend.Storage, log *logrus.Logger) (*Disk, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	info, err := storage.Stat()
	if err != nil {
		return nil, fmt.Errorf("disk: stat backing storage: %w", err)
	}
	if info.Size() != DiskSize {
		return nil, fmt.Errorf("disk: backing storage is %d bytes, want exactly %d", info.Size(), DiskSize)
	}
	return &Disk{storage: storage, log: log}, nil
}

// Init destructively reinitializes the disk: zeroes the superblock, sets
// free_blocks/free_inodes to their maximums, marks the root inode a
// directory, fills the bitmap entirely free, then allocates blocks
// 0..=260 in ascending order so the metadata blocks themselves are marked
// used, exactly as spec.md §4.1 describes.
func (d *Disk) Init() error {
	d.log.Debug("disk: initializing fresh layout")

	// superblock: zeroed, free_blocks/free_inodes set below, root inode a
	// directory, fresh volume identity.
	sb := &Superblock{
		FreeBlocks: DiskBlocks,
		FreeInodes: MaxInodes,
	}
	sb.RootInode.Kind = KindDirectory
	sb.stampUUID()
	if err := d.WriteSuperblock(sb); err != nil {
		return err
	}

	// zero every inode-table block
	zeroBlock := make([]byte, BlockSize)
	for b := 0; b < InodeTableBlocks; b++ {
		if err := d.writeRawBlock(inodeTableStart+b, zeroBlock); err != nil {
			return fmt.Errorf("disk: zero inode table block %d: %w", b, err)
		}
	}

	// bitmap: all free (bit=1)
	allFree := make([]byte, BitmapBytes)
	for i := range allFree {
		allFree[i] = 0xff
	}
	if err := d.writeBitmapRaw(allFree); err != nil {
		return err
	}

	// consume blocks 0..=260 by clearing their bits with SetBitmapBit, the
	// bit-level step a real allocation takes. SetBitmapBit does not touch
	// free_blocks, so the counter is lowered once below to keep it
	// consistent with Invariant 5.
	for b := 0; b < reservedBlockCount; b++ {
		if err := d.SetBitmapBit(b, false); err != nil {
			return fmt.Errorf("disk: reserve block %d: %w", b, err)
		}
	}
	sb, err := d.Superblock()
	if err != nil {
		return err
	}
	sb.FreeBlocks -= reservedBlockCount
	return d.WriteSuperblock(sb)
}

// writeRawBlock writes a whole BlockSize-byte block by absolute block index,
// without the data-pool range check WriteBlock applies. Every write in this
// package (superblock, inode table, bitmap and data blocks) goes through it.
func (d *Disk) writeRawBlock(blockIdx int, data []byte) error {
	if len(data) != BlockSize {
		return fmt.Errorf("disk: block payload must be %d bytes, got %d", BlockSize, len(data))
	}
	w, err := d.storage.Writable()
	if err != nil {
		return fmt.Errorf("disk: storage not writable: %w", err)
	}
	_, err = w.WriteAt(data, int64(blockIdx)*BlockSize)
	return err
}

func (d *Disk) readRawBlock(blockIdx int) ([]byte, error) {
	buf := make([]byte, BlockSize)
	_, err := d.storage.ReadAt(buf, int64(blockIdx)*BlockSize)
	return buf, err
}

// Block returns a copy of the data block addressed by the given block
// pointer. Pointer 0 is never a valid data block (it is the superblock);
// callers are expected to have already checked for the null sentinel.
func (d *Disk) Block(ptr uint32) ([]byte, error) {
	if err := d.checkDataBlock(ptr); err != nil {
		return nil, err
	}
	return d.readRawBlock(int(ptr))
}

// WriteBlock overwrites the data block addressed by ptr.
func (d *Disk) WriteBlock(ptr uint32, data []byte) error {
	if err := d.checkDataBlock(ptr); err != nil {
		return err
	}
	return d.writeRawBlock(int(ptr), data)
}

func (d *Disk) checkDataBlock(ptr uint32) error {
	if ptr < dataPoolStart || int(ptr) >= DiskBlocks {
		return fmt.Errorf("disk: block pointer %d out of data-pool range [%d,%d)", ptr, dataPoolStart, DiskBlocks)
	}
	return nil
}

// Storage exposes the underlying backend, for callers (e.g. tests) that want
// to snapshot or inspect the raw bytes.
func (d *Disk) Storage() backend.Storage {
	return d.storage
}

// DumpBlock renders a data block as a hex/ASCII dump, the same format the
// teacher's util.DumpByteSlice produces for on-disk structure debugging.
// Intended for test failure messages and manual inspection, not normal
// operation.
func (d *Disk) DumpBlock(ptr uint32) (string, error) {
	b, err := d.Block(ptr)
	if err != nil {
		return "", err
	}
	return util.DumpByteSlice(b, 16, true, true, false, nil), nil
}
