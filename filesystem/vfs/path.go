package vfs

import "github.com/blockvfs/blockvfs/disk"

// splitComponents splits a path at each '/' or '\' into its non-empty
// components, per spec.md §4.7.
func splitComponents(path string) []string {
	var comps []string
	var cur []byte
	flush := func() {
		if len(cur) > 0 {
			comps = append(comps, string(cur))
			cur = cur[:0]
		}
	}
	for i := 0; i < len(path); i++ {
		switch path[i] {
		case '/', '\\':
			flush()
		default:
			cur = append(cur, path[i])
		}
	}
	flush()
	return comps
}

// isRootPath reports whether path refers to the root: "" or "/" (or any
// path that splits to zero components, e.g. "///").
func isRootPath(path string) bool {
	return len(splitComponents(path)) == 0
}

// resolveParent implements spec.md §4.7's resolve_parent(): walk from the
// root through every component but the last, verifying each intermediate
// is a directory, and return the inode number of the directory that should
// contain the final component plus that final component's name. The root
// itself has no parent and no final component, so it is rejected here with
// ErrBadArgument — callers special-case the root path before calling in.
func (fs *FileSystem) resolveParent(path string) (parentInodeNum uint16, final string, err error) {
	comps := splitComponents(path)
	if len(comps) == 0 {
		return 0, "", ErrBadArgument
	}
	final = comps[len(comps)-1]

	cur := uint16(0)
	for _, c := range comps[:len(comps)-1] {
		in, err := fs.disk.Inode(cur)
		if err != nil {
			return 0, "", err
		}
		if in.Kind != disk.KindDirectory {
			return 0, "", ErrNoSuchPath
		}
		child, _, found, err := fs.dirLookup(cur, c)
		if err != nil {
			return 0, "", err
		}
		if !found {
			return 0, "", ErrNoSuchPath
		}
		cur = child
	}

	in, err := fs.disk.Inode(cur)
	if err != nil {
		return 0, "", err
	}
	if in.Kind != disk.KindDirectory {
		return 0, "", ErrNoSuchPath
	}
	return cur, final, nil
}

// resolve implements full path resolution: root paths resolve directly to
// inode 0, everything else resolves its parent then looks up the final
// component there.
func (fs *FileSystem) resolve(path string) (uint16, error) {
	if isRootPath(path) {
		return 0, nil
	}
	parent, final, err := fs.resolveParent(path)
	if err != nil {
		return 0, err
	}
	inodeNum, _, found, err := fs.dirLookup(parent, final)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, ErrNotFound
	}
	return inodeNum, nil
}
