package disk

import (
	"testing"

	"github.com/go-test/deep"
)

func TestInodeEncodeDecodeRoundTrip(t *testing.T) {
	in := &Inode{
		Kind:          KindRegularFile,
		Size:          12345,
		DirEntryCount: 0,
		OpenCount:     2,
	}
	in.Location[0] = 261
	in.Location[SingleIndirectIndex] = 300
	in.Location[DoubleIndirectIndex] = 301

	b := in.encode()
	if len(b) != inodeSize {
		t.Fatalf("encode() length = %d, want %d", len(b), inodeSize)
	}
	got, err := decodeInode(b)
	if err != nil {
		t.Fatalf("decodeInode: %v", err)
	}
	if diff := deep.Equal(*in, *got); diff != nil {
		t.Errorf("round-trip mismatch: %v", diff)
	}
}

func TestInodeWriteReadByNumber(t *testing.T) {
	d := testDisk(t)
	want := &Inode{Kind: KindDirectory, DirEntryCount: 3}
	if err := d.WriteInode(5, want); err != nil {
		t.Fatalf("WriteInode: %v", err)
	}
	got, err := d.Inode(5)
	if err != nil {
		t.Fatalf("Inode: %v", err)
	}
	if diff := deep.Equal(*want, *got); diff != nil {
		t.Errorf("mismatch: %v", diff)
	}
}

func TestInodeZeroIsRootFromSuperblock(t *testing.T) {
	d := testDisk(t)
	in, err := d.Inode(0)
	if err != nil {
		t.Fatalf("Inode(0): %v", err)
	}
	if in.Kind != KindDirectory {
		t.Errorf("root inode Kind = %v, want Directory", in.Kind)
	}
}

func TestKindTagRoundTrip(t *testing.T) {
	for _, k := range []Kind{KindEmpty, KindRegularFile, KindDirectory} {
		in := &Inode{Kind: k}
		got, err := decodeInode(in.encode())
		if err != nil {
			t.Fatalf("decodeInode: %v", err)
		}
		if got.Kind != k {
			t.Errorf("decodeInode(encode(%v)).Kind = %v, want %v", k, got.Kind, k)
		}
	}
}
