package memory

import (
	"io"
	"testing"

	"github.com/blockvfs/blockvfs/backend"
)

func TestWriteAtReadAtRoundTrip(t *testing.T) {
	s := NewSize("test", 64)
	if _, err := s.WriteAt([]byte("hello"), 10); err != nil {
		t.Fatalf("WriteAt: %v", err)
	}
	buf := make([]byte, 5)
	if _, err := s.ReadAt(buf, 10); err != nil {
		t.Fatalf("ReadAt: %v", err)
	}
	if string(buf) != "hello" {
		t.Errorf("ReadAt = %q, want \"hello\"", buf)
	}
}

func TestWriteAtPastEndFails(t *testing.T) {
	s := NewSize("test", 8)
	if _, err := s.WriteAt([]byte("toolong!!"), 0); err == nil {
		t.Errorf("expected error writing past the fixed buffer size")
	}
}

func TestSeekAndSequentialRead(t *testing.T) {
	s := New("test", []byte("0123456789"))
	if pos, err := s.Seek(3, io.SeekStart); err != nil || pos != 3 {
		t.Fatalf("Seek: pos=%d err=%v", pos, err)
	}
	buf := make([]byte, 4)
	if n, err := s.Read(buf); err != nil || n != 4 {
		t.Fatalf("Read: n=%d err=%v", n, err)
	}
	if string(buf) != "3456" {
		t.Errorf("Read = %q, want \"3456\"", buf)
	}
}

func TestSysReturnsNotSuitable(t *testing.T) {
	s := NewSize("test", 8)
	if _, err := s.Sys(); err != backend.ErrNotSuitable {
		t.Errorf("Sys() err = %v, want backend.ErrNotSuitable", err)
	}
}

func TestWritableReturnsSelf(t *testing.T) {
	s := NewSize("test", 8)
	w, err := s.Writable()
	if err != nil {
		t.Fatalf("Writable: %v", err)
	}
	if w != backend.WritableFile(s) {
		t.Errorf("Writable() did not return the same Storage")
	}
}

func TestStatReportsSize(t *testing.T) {
	s := NewSize("test", 42)
	info, err := s.Stat()
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info.Size() != 42 {
		t.Errorf("Stat().Size() = %d, want 42", info.Size())
	}
}
