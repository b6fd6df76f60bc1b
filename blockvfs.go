// Package blockvfs is the top-level entry point, playing the role the
// teacher's root diskfs.go package plays for go-diskfs: a couple of
// constructor functions (Create, Attach here; Create, Open there) that wire
// a backend.Storage to the rest of the module so a caller never has to
// reach into disk or filesystem/vfs directly for the common case.
//
// This package only ever talks to an in-memory backing store
// (backend/memory): persistence to a real file or block device is out of
// scope, per the original Non-goals around durability and crash recovery.
package blockvfs

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/blockvfs/blockvfs/backend/memory"
	"github.com/blockvfs/blockvfs/client"
	"github.com/blockvfs/blockvfs/disk"
	"github.com/blockvfs/blockvfs/filesystem/vfs"
)

// Volume bundles the three layers a caller typically wants together: the
// raw disk, the operation façade, and a ready-made client with its own
// descriptor table.
type Volume struct {
	Disk       *disk.Disk
	FileSystem *vfs.FileSystem
	Client     *client.Client
}

// Create allocates a fresh DiskSize in-memory backing store, formats it
// (superblock, empty root directory, empty inode table, and a bitmap in
// which only the metadata blocks are marked used),
// and returns a ready-to-use Volume. log may be nil, in which case
// logrus's standard logger is used throughout, matching the teacher's
// convention of a package-level default logger when none is supplied.
func Create(log *logrus.Logger) (*Volume, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	storage := memory.NewSize("blockvfs", disk.DiskSize)
	d, err := disk.New(storage, log)
	if err != nil {
		return nil, fmt.Errorf("blockvfs: %w", err)
	}
	fs, err := vfs.Create(d, log)
	if err != nil {
		return nil, fmt.Errorf("blockvfs: %w", err)
	}
	return &Volume{Disk: d, FileSystem: fs, Client: client.New(fs, log)}, nil
}

// Attach wraps an existing DiskSize byte image (for example one produced by
// Volume.Snapshot) without reformatting it.
func Attach(image []byte, log *logrus.Logger) (*Volume, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	storage := memory.New("blockvfs", image)
	d, err := disk.New(storage, log)
	if err != nil {
		return nil, fmt.Errorf("blockvfs: %w", err)
	}
	fs := vfs.Attach(d, log)
	return &Volume{Disk: d, FileSystem: fs, Client: client.New(fs, log)}, nil
}

// Snapshot returns a copy of the volume's backing bytes, suitable for
// passing to Attach later to resume the same filesystem state.
func (v *Volume) Snapshot() []byte {
	src := v.Disk.Storage().(*memory.Storage).Bytes()
	dst := make([]byte, len(src))
	copy(dst, src)
	return dst
}
