package disk

import (
	"encoding/binary"
	"fmt"
)

// inodeSize is the fixed 64-byte on-disk record size spec.md §3 requires.
const inodeSize = 64

// Kind tags what an inode slot holds. It is stored on disk as a 4-byte ASCII
// tag, mirroring the teacher's ext4 inode fileType tagging approach but
// using the spec's own vocabulary instead of ext4's mode bits.
type Kind uint8

const (
	KindEmpty Kind = iota
	KindRegularFile
	KindDirectory
)

var kindTags = map[Kind][4]byte{
	KindEmpty:       {0, 0, 0, 0},
	KindRegularFile: {'r', 'e', 'g', 0},
	KindDirectory:   {'d', 'i', 'r', 0},
}

func kindFromTag(tag [4]byte) (Kind, error) {
	for k, t := range kindTags {
		if t == tag {
			return k, nil
		}
	}
	return KindEmpty, fmt.Errorf("disk: unrecognized inode kind tag %q", tag)
}

func (k Kind) String() string {
	switch k {
	case KindRegularFile:
		return "reg"
	case KindDirectory:
		return "dir"
	default:
		return "empty"
	}
}

// Inode is the in-memory decoded form of a 64-byte on-disk inode record:
// kind, size, the 10 location pointers (8 direct, 1 single-indirect, 1
// double-indirect), directory entry count and open count.
type Inode struct {
	Kind          Kind
	Size          uint32
	Location      [10]uint32
	DirEntryCount uint32
	OpenCount     uint32
}

// Location index constants, per spec.md §3.
const (
	SingleIndirectIndex = DirectPointers     // location[8]
	DoubleIndirectIndex = DirectPointers + 1 // location[9]
)

func (in *Inode) encode() []byte {
	b := make([]byte, inodeSize)
	tag := kindTags[in.Kind]
	copy(b[0:4], tag[:])
	binary.LittleEndian.PutUint32(b[4:8], in.Size)
	for i, loc := range in.Location {
		binary.LittleEndian.PutUint32(b[8+i*4:12+i*4], loc)
	}
	binary.LittleEndian.PutUint32(b[48:52], in.DirEntryCount)
	binary.LittleEndian.PutUint32(b[52:56], in.OpenCount)
	// b[56:64] reserved padding, left zero
	return b
}

func decodeInode(b []byte) (*Inode, error) {
	if len(b) < inodeSize {
		return nil, fmt.Errorf("disk: inode record too short: %d bytes, want %d", len(b), inodeSize)
	}
	var tag [4]byte
	copy(tag[:], b[0:4])
	kind, err := kindFromTag(tag)
	if err != nil {
		return nil, err
	}
	in := &Inode{Kind: kind}
	in.Size = binary.LittleEndian.Uint32(b[4:8])
	for i := range in.Location {
		in.Location[i] = binary.LittleEndian.Uint32(b[8+i*4 : 12+i*4])
	}
	in.DirEntryCount = binary.LittleEndian.Uint32(b[48:52])
	in.OpenCount = binary.LittleEndian.Uint32(b[52:56])
	return in, nil
}

// Inode returns the decoded inode record for n. n == 0 yields the root
// inode embedded in the superblock; n in 1..=MaxInodes addresses the inode
// table.
func (d *Disk) Inode(n uint16) (*Inode, error) {
	if n == 0 {
		sb, err := d.Superblock()
		if err != nil {
			return nil, err
		}
		return &sb.RootInode, nil
	}
	if int(n) > MaxInodes {
		return nil, fmt.Errorf("disk: inode number %d out of range 0..%d", n, MaxInodes)
	}
	blockIdx, off := inodeLocation(n)
	block, err := d.readRawBlock(blockIdx)
	if err != nil {
		return nil, err
	}
	return decodeInode(block[off : off+inodeSize])
}

// WriteInode persists in at inode number n, the counterpart to Inode.
func (d *Disk) WriteInode(n uint16, in *Inode) error {
	if n == 0 {
		sb, err := d.Superblock()
		if err != nil {
			return err
		}
		sb.RootInode = *in
		return d.WriteSuperblock(sb)
	}
	if int(n) > MaxInodes {
		return fmt.Errorf("disk: inode number %d out of range 0..%d", n, MaxInodes)
	}
	blockIdx, off := inodeLocation(n)
	block, err := d.readRawBlock(blockIdx)
	if err != nil {
		return err
	}
	copy(block[off:off+inodeSize], in.encode())
	return d.writeRawBlock(blockIdx, block)
}

// inodeLocation maps an inode number (1..=MaxInodes) to its block index in
// the inode table and the byte offset within that block.
func inodeLocation(n uint16) (blockIdx int, off int) {
	idx := int(n) - 1
	blockIdx = inodeTableStart + idx/InodesPerBlock
	off = (idx % InodesPerBlock) * inodeSize
	return blockIdx, off
}
