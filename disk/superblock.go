package disk

import (
	"encoding/binary"
	"fmt"

	"github.com/google/uuid"
)

// Superblock is the in-memory decoded form of block 0: free-block and
// free-inode counters and the embedded root directory inode (inode number
// 0, never part of the 1024-entry inode table). VolumeUUID supplements the
// spec the way an ext4 superblock carries a volume UUID (see
// filesystem/ext4/ext4.go in the teacher repo); it is purely descriptive and
// never consulted by any invariant.
type Superblock struct {
	FreeBlocks uint32
	FreeInodes uint32
	RootInode  Inode
	VolumeUUID [16]byte
}

func (sb *Superblock) stampUUID() {
	copy(sb.VolumeUUID[:], uuid.New()[:])
}

func (sb *Superblock) encode() []byte {
	b := make([]byte, BlockSize)
	binary.LittleEndian.PutUint32(b[0:4], sb.FreeBlocks)
	binary.LittleEndian.PutUint32(b[4:8], sb.FreeInodes)
	copy(b[8:8+inodeSize], sb.RootInode.encode())
	copy(b[8+inodeSize:8+inodeSize+16], sb.VolumeUUID[:])
	return b
}

func decodeSuperblock(b []byte) (*Superblock, error) {
	if len(b) < BlockSize {
		return nil, fmt.Errorf("disk: superblock block too short: %d bytes, want %d", len(b), BlockSize)
	}
	sb := &Superblock{}
	sb.FreeBlocks = binary.LittleEndian.Uint32(b[0:4])
	sb.FreeInodes = binary.LittleEndian.Uint32(b[4:8])
	root, err := decodeInode(b[8 : 8+inodeSize])
	if err != nil {
		return nil, fmt.Errorf("disk: decode root inode: %w", err)
	}
	sb.RootInode = *root
	copy(sb.VolumeUUID[:], b[8+inodeSize:8+inodeSize+16])
	return sb, nil
}

// Superblock reads and decodes block 0.
func (d *Disk) Superblock() (*Superblock, error) {
	block, err := d.readRawBlock(superblockBlock)
	if err != nil {
		return nil, err
	}
	return decodeSuperblock(block)
}

// WriteSuperblock encodes and persists sb to block 0.
func (d *Disk) WriteSuperblock(sb *Superblock) error {
	return d.writeRawBlock(superblockBlock, sb.encode())
}
