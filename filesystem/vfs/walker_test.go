package vfs

import "testing"

func TestLocateBoundaries(t *testing.T) {
	tests := []struct {
		logical  int
		wantKind pointerKind
	}{
		{0, pointerDirect},
		{7, pointerDirect},
		{8, pointerSingleIndirect},
		{71, pointerSingleIndirect},
		{72, pointerDoubleIndirect},
	}
	for _, tt := range tests {
		bp, err := locate(tt.logical)
		if err != nil {
			t.Fatalf("locate(%d): %v", tt.logical, err)
		}
		if bp.kind != tt.wantKind {
			t.Errorf("locate(%d).kind = %v, want %v", tt.logical, bp.kind, tt.wantKind)
		}
	}
}

func TestLocateRejectsOutOfRange(t *testing.T) {
	if _, err := locate(-1); err == nil {
		t.Errorf("locate(-1) should fail")
	}
}

// TestWriteCrossingSingleToDoubleIndirectBoundary covers spec.md §8's
// double-indirect boundary case: the 73rd logical block needs the
// double-indirect root block plus one row pointer-table block plus the leaf
// itself — three blocks for one byte of new data.
func TestWriteCrossingSingleToDoubleIndirectBoundary(t *testing.T) {
	fs := testFS(t)
	inodeNum, err := fs.Create("/huge")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// logical block 71 is the last single-indirect block (8 direct + 64
	// single-indirect = blocks 0..71); write there first so only the
	// double-indirect structure remains to be built by the next write.
	if _, err := fs.Write(inodeNum, int64(71*256), []byte{1}); err != nil {
		t.Fatalf("Write at block 71: %v", err)
	}

	freeBefore, _, err := fs.FreeSpace()
	if err != nil {
		t.Fatalf("FreeSpace: %v", err)
	}
	if _, err := fs.Write(inodeNum, int64(72*256), []byte{2}); err != nil {
		t.Fatalf("Write at block 72: %v", err)
	}
	freeAfter, _, err := fs.FreeSpace()
	if err != nil {
		t.Fatalf("FreeSpace: %v", err)
	}
	if freeBefore-freeAfter != 3 {
		t.Errorf("free_blocks dropped by %d crossing the double-indirect boundary, want 3", freeBefore-freeAfter)
	}
}
