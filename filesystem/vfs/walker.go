package vfs

import (
	"encoding/binary"
	"fmt"

	"github.com/blockvfs/blockvfs/disk"
)

// pointerKind is which of the three addressing schemes a logical block
// index falls into, per spec.md §4.4.
type pointerKind int

const (
	pointerDirect pointerKind = iota
	pointerSingleIndirect
	pointerDoubleIndirect
)

// blockPointer is the ephemeral coordinate a logical block index resolves
// to before it is turned into (or allocated as) a physical block number.
type blockPointer struct {
	kind        pointerKind
	directIndex int // 0..7, valid when kind == pointerDirect
	row         int // 0..63, valid when kind == pointerDoubleIndirect
	column      int // 0..63, valid when kind != pointerDirect
}

// locate implements spec.md §4.4's mapping formula.
func locate(logicalBlock int) (blockPointer, error) {
	if logicalBlock < 0 || logicalBlock >= disk.MaxBlocksPerFile {
		return blockPointer{}, fmt.Errorf("vfs: logical block %d out of range [0,%d)", logicalBlock, disk.MaxBlocksPerFile)
	}
	switch {
	case logicalBlock < disk.DirectPointers:
		return blockPointer{kind: pointerDirect, directIndex: logicalBlock}, nil
	case logicalBlock < disk.DirectPointers+disk.PointersPerBlock:
		return blockPointer{kind: pointerSingleIndirect, column: logicalBlock - disk.DirectPointers}, nil
	default:
		idx := logicalBlock - (disk.DirectPointers + disk.PointersPerBlock)
		return blockPointer{
			kind:   pointerDoubleIndirect,
			row:    idx / disk.PointersPerBlock,
			column: idx % disk.PointersPerBlock,
		}, nil
	}
}

// resolveBlock maps (inodeNum, logicalBlock) to a physical block number.
// In read mode it never allocates: a 0 return (with a nil error) means a
// hole — some structural block or the leaf itself is unallocated. In write
// mode it lazily allocates missing indirection and the leaf itself,
// persisting the inode's Location array (and any freshly written pointer
// tables) as it goes, so that a failure partway through a multi-level
// allocation leaves whatever structure it already built in place rather
// than rolling back — spec.md §9 calls this out as intentional,
// matched-to-source behaviour.
func (fs *FileSystem) resolveBlock(inodeNum uint16, in *disk.Inode, logicalBlock int, write bool) (uint32, error) {
	bp, err := locate(logicalBlock)
	if err != nil {
		return 0, err
	}

	switch bp.kind {
	case pointerDirect:
		ptr := in.Location[bp.directIndex]
		if ptr != 0 {
			return ptr, nil
		}
		if !write {
			return 0, nil
		}
		np, err := fs.allocateBlock()
		if err != nil {
			return 0, err
		}
		in.Location[bp.directIndex] = np
		if err := fs.disk.WriteInode(inodeNum, in); err != nil {
			return 0, err
		}
		return np, nil

	case pointerSingleIndirect:
		indPtr, err := fs.ensureStructuralBlock(inodeNum, in, disk.SingleIndirectIndex, write)
		if err != nil || indPtr == 0 {
			return 0, err
		}
		return fs.resolveLeaf(indPtr, bp.column, write)

	default: // pointerDoubleIndirect
		dPtr, err := fs.ensureStructuralBlock(inodeNum, in, disk.DoubleIndirectIndex, write)
		if err != nil || dPtr == 0 {
			return 0, err
		}
		rowPtr, err := fs.readPointer(dPtr, bp.row)
		if err != nil {
			return 0, err
		}
		if rowPtr == 0 {
			if !write {
				return 0, nil
			}
			np, err := fs.allocateZeroedBlock()
			if err != nil {
				return 0, err
			}
			if err := fs.writePointer(dPtr, bp.row, np); err != nil {
				return 0, err
			}
			rowPtr = np
		}
		return fs.resolveLeaf(rowPtr, bp.column, write)
	}
}

// ensureStructuralBlock returns in.Location[idx], allocating a zeroed block
// and persisting it there first if it is currently 0 and write is set.
func (fs *FileSystem) ensureStructuralBlock(inodeNum uint16, in *disk.Inode, idx int, write bool) (uint32, error) {
	if in.Location[idx] != 0 {
		return in.Location[idx], nil
	}
	if !write {
		return 0, nil
	}
	np, err := fs.allocateZeroedBlock()
	if err != nil {
		return 0, err
	}
	in.Location[idx] = np
	if err := fs.disk.WriteInode(inodeNum, in); err != nil {
		return 0, err
	}
	return np, nil
}

// resolveLeaf looks up (and in write mode, lazily allocates) the data-block
// pointer at the given column of a pointer-table block.
func (fs *FileSystem) resolveLeaf(tableBlock uint32, column int, write bool) (uint32, error) {
	leaf, err := fs.readPointer(tableBlock, column)
	if err != nil {
		return 0, err
	}
	if leaf != 0 {
		return leaf, nil
	}
	if !write {
		return 0, nil
	}
	np, err := fs.allocateBlock()
	if err != nil {
		return 0, err
	}
	if err := fs.writePointer(tableBlock, column, np); err != nil {
		return 0, err
	}
	return np, nil
}

func (fs *FileSystem) readPointer(tableBlock uint32, column int) (uint32, error) {
	block, err := fs.disk.Block(tableBlock)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(block[column*4 : column*4+4]), nil
}

func (fs *FileSystem) writePointer(tableBlock uint32, column int, val uint32) error {
	block, err := fs.disk.Block(tableBlock)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(block[column*4:column*4+4], val)
	return fs.disk.WriteBlock(tableBlock, block)
}
