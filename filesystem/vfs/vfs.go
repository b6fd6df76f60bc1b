// Package vfs implements the concrete filesystem described by spec.md: a
// classical superblock + inode-table + block-bitmap + block-pool layout
// with 8 direct, 1 single-indirect and 1 double-indirect block pointers per
// inode. It is laid out the way filesystem/ext4 in the teacher repo lays
// out its own on-disk-format package: one file per concern (bitmap, inode
// table, block walker, file I/O, directory entries, path resolution) that
// all hang methods off a single FileSystem type.
package vfs

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/blockvfs/blockvfs/disk"
	"github.com/blockvfs/blockvfs/filesystem"
)

// FileSystem is the operation façade: create, unlink, open, close, mkdir,
// readdir, read, write, lseek (spec.md §4.8). It holds no per-client state
// — no file-descriptor table, no cursor — that lives in package client, per
// the design note that per-client state is owned by the caller.
type FileSystem struct {
	disk *disk.Disk
	log  *logrus.Logger
}

var _ filesystem.FileSystem = (*FileSystem)(nil)

// Create lays a fresh filesystem down on d (destructive: see disk.Init) and
// returns the façade for it. Pass a nil logger to use logrus's standard
// logger.
func Create(d *disk.Disk, log *logrus.Logger) (*FileSystem, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if err := d.Init(); err != nil {
		return nil, fmt.Errorf("vfs: initializing disk: %w", err)
	}
	log.Debug("vfs: filesystem created")
	return &FileSystem{disk: d, log: log}, nil
}

// Attach wraps an already-initialized disk without reformatting it.
func Attach(d *disk.Disk, log *logrus.Logger) *FileSystem {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &FileSystem{disk: d, log: log}
}

// Type satisfies filesystem.FileSystem.
func (fs *FileSystem) Type() filesystem.Type {
	return filesystem.TypeBlockVFS
}

// Label returns the stamped volume UUID as a string.
func (fs *FileSystem) Label() string {
	sb, err := fs.disk.Superblock()
	if err != nil {
		return ""
	}
	id, err := uuid.FromBytes(sb.VolumeUUID[:])
	if err != nil {
		return ""
	}
	return id.String()
}

// FreeSpace reports the superblock's free_blocks/free_inodes counters, for
// callers that want to check Invariants 4/5 without reaching into disk
// directly.
func (fs *FileSystem) FreeSpace() (freeBlocks, freeInodes uint32, err error) {
	sb, err := fs.disk.Superblock()
	if err != nil {
		return 0, 0, err
	}
	return sb.FreeBlocks, sb.FreeInodes, nil
}

// Mkdir is create(path, Directory), per spec.md §4.8.
func (fs *FileSystem) Mkdir(pathname string) error {
	_, err := fs.create(pathname, disk.KindDirectory)
	return err
}

// Create creates a regular file and returns its inode number.
func (fs *FileSystem) Create(pathname string) (uint16, error) {
	return fs.create(pathname, disk.KindRegularFile)
}

func (fs *FileSystem) create(pathname string, kind disk.Kind) (uint16, error) {
	if isRootPath(pathname) {
		return 0, ErrAlreadyExists
	}
	parent, final, err := fs.resolveParent(pathname)
	if err != nil {
		return 0, err
	}
	_, _, found, err := fs.dirLookup(parent, final)
	if err != nil {
		return 0, err
	}
	if found {
		return 0, ErrAlreadyExists
	}

	newInode, err := fs.allocateInode(kind)
	if err != nil {
		return 0, err
	}
	if err := fs.dirInsert(parent, final, newInode); err != nil {
		// roll back the inode allocation: the directory entry never
		// landed, so the inode must not be left consuming a slot.
		_ = fs.freeInode(newInode)
		return 0, err
	}
	fs.log.WithFields(logrus.Fields{"path": pathname, "inode": newInode, "kind": kind.String()}).Info("vfs: created")
	return newInode, nil
}

// Unlink implements spec.md §4.8's unlink(), including the §9 special case
// where a parent directory that becomes empty has its own data blocks
// auto-freed.
func (fs *FileSystem) Unlink(pathname string) error {
	if isRootPath(pathname) {
		return ErrBadArgument
	}
	parent, final, err := fs.resolveParent(pathname)
	if err != nil {
		return err
	}
	targetInode, _, found, err := fs.dirLookup(parent, final)
	if err != nil {
		return err
	}
	if !found {
		return ErrNotFound
	}

	in, err := fs.disk.Inode(targetInode)
	if err != nil {
		return err
	}
	if in.Kind == disk.KindDirectory && in.DirEntryCount != 0 {
		return ErrDirectoryNotEmpty
	}
	if in.OpenCount != 0 {
		return ErrInUse
	}

	if err := fs.freeInodeData(in); err != nil {
		return err
	}
	if err := fs.freeInode(targetInode); err != nil {
		return err
	}
	if err := fs.dirRemove(parent, final); err != nil {
		return err
	}

	parentIn, err := fs.disk.Inode(parent)
	if err != nil {
		return err
	}
	if parentIn.Kind == disk.KindDirectory && parentIn.DirEntryCount == 0 {
		if err := fs.freeInodeData(parentIn); err != nil {
			return err
		}
		if err := fs.disk.WriteInode(parent, parentIn); err != nil {
			return err
		}
	}

	fs.log.WithField("path", pathname).Info("vfs: unlinked")
	return nil
}

// Open resolves pathname (root is "" or "/") and increments the target
// inode's open_count.
func (fs *FileSystem) Open(pathname string) (uint16, error) {
	inodeNum, err := fs.resolve(pathname)
	if err != nil {
		return 0, err
	}
	in, err := fs.disk.Inode(inodeNum)
	if err != nil {
		return 0, err
	}
	in.OpenCount++
	if err := fs.disk.WriteInode(inodeNum, in); err != nil {
		return 0, err
	}
	return inodeNum, nil
}

// Close decrements open_count, flooring at 0 (spec.md §9's resolved open
// question: double-close is tolerated, not an underflow sentinel).
func (fs *FileSystem) Close(inodeNumber uint16) error {
	in, err := fs.disk.Inode(inodeNumber)
	if err != nil {
		return err
	}
	if in.OpenCount > 0 {
		in.OpenCount--
	}
	return fs.disk.WriteInode(inodeNumber, in)
}

// Read implements spec.md §4.5's read().
func (fs *FileSystem) Read(inodeNumber uint16, pos int64, dst []byte) (int, error) {
	in, err := fs.disk.Inode(inodeNumber)
	if err != nil {
		return 0, err
	}
	if in.Kind != disk.KindRegularFile {
		return 0, ErrNotARegularFile
	}
	return fs.readFile(inodeNumber, pos, dst)
}

// Write implements spec.md §4.5's write().
func (fs *FileSystem) Write(inodeNumber uint16, pos int64, src []byte) (int, error) {
	in, err := fs.disk.Inode(inodeNumber)
	if err != nil {
		return 0, err
	}
	if in.Kind != disk.KindRegularFile {
		return 0, ErrNotARegularFile
	}
	return fs.writeFile(inodeNumber, pos, src)
}

// Lseek implements spec.md §4.5's lseek().
func (fs *FileSystem) Lseek(inodeNumber uint16, offset int64) (int64, error) {
	return fs.seekFile(inodeNumber, offset)
}

// ReadDir wraps dirIterateFrom, rejecting non-directory inodes.
func (fs *FileSystem) ReadDir(inodeNumber uint16, pos int64) (name string, childInode uint16, nextPos int64, ok bool, err error) {
	in, err := fs.disk.Inode(inodeNumber)
	if err != nil {
		return "", 0, 0, false, err
	}
	if in.Kind != disk.KindDirectory {
		return "", 0, 0, false, ErrNotADirectory
	}
	return fs.dirIterateFrom(inodeNumber, pos)
}
