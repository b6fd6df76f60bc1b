package disk

import "testing"

func TestSetBitmapBitRoundTrips(t *testing.T) {
	d := testDisk(t)
	bit := dataPoolStart + 5

	free, err := d.BitmapBit(bit)
	if err != nil {
		t.Fatalf("BitmapBit: %v", err)
	}
	if !free {
		t.Fatalf("expected block %d free after Init", bit)
	}

	if err := d.SetBitmapBit(bit, false); err != nil {
		t.Fatalf("SetBitmapBit(false): %v", err)
	}
	free, err = d.BitmapBit(bit)
	if err != nil {
		t.Fatalf("BitmapBit: %v", err)
	}
	if free {
		t.Fatalf("block %d should be allocated after SetBitmapBit(false)", bit)
	}

	if err := d.SetBitmapBit(bit, true); err != nil {
		t.Fatalf("SetBitmapBit(true): %v", err)
	}
	free, err = d.BitmapBit(bit)
	if err != nil {
		t.Fatalf("BitmapBit: %v", err)
	}
	if !free {
		t.Fatalf("block %d should be free again after SetBitmapBit(true)", bit)
	}
}

func TestBitmapBitOutOfRange(t *testing.T) {
	d := testDisk(t)
	if _, err := d.BitmapBit(-1); err == nil {
		t.Errorf("expected error for negative bit index")
	}
	if _, err := d.BitmapBit(DiskBlocks); err == nil {
		t.Errorf("expected error for bit index >= DiskBlocks")
	}
}

func TestReadBitmapMatchesPerBitReads(t *testing.T) {
	d := testDisk(t)
	if err := d.SetBitmapBit(dataPoolStart+2, false); err != nil {
		t.Fatalf("SetBitmapBit: %v", err)
	}
	buf, err := d.ReadBitmap()
	if err != nil {
		t.Fatalf("ReadBitmap: %v", err)
	}
	if len(buf) != BitmapBytes {
		t.Fatalf("ReadBitmap length = %d, want %d", len(buf), BitmapBytes)
	}
	byteIdx, bitIdx := (dataPoolStart+2)/8, uint((dataPoolStart+2)%8)
	if buf[byteIdx]&(1<<bitIdx) != 0 {
		t.Errorf("ReadBitmap shows block %d as free, want allocated", dataPoolStart+2)
	}
}
