package client

import (
	"testing"

	"github.com/blockvfs/blockvfs/backend/memory"
	"github.com/blockvfs/blockvfs/disk"
	"github.com/blockvfs/blockvfs/filesystem/vfs"
)

func testClient(t *testing.T) *Client {
	t.Helper()
	storage := memory.NewSize("test", disk.DiskSize)
	d, err := disk.New(storage, nil)
	if err != nil {
		t.Fatalf("disk.New: %v", err)
	}
	fs, err := vfs.Create(d, nil)
	if err != nil {
		t.Fatalf("vfs.Create: %v", err)
	}
	return New(fs, nil)
}

func TestOpenReadWriteClose(t *testing.T) {
	c := testClient(t)
	if err := c.Create("/f"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	fd, err := c.Open("/f")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if n, err := c.Write(fd, []byte("abc")); err != nil || n != 3 {
		t.Fatalf("Write: n=%d err=%v", n, err)
	}
	if _, err := c.Lseek(fd, 0); err != nil {
		t.Fatalf("Lseek: %v", err)
	}
	buf := make([]byte, 3)
	if n, err := c.Read(fd, buf); err != nil || n != 3 {
		t.Fatalf("Read: n=%d err=%v", n, err)
	}
	if string(buf) != "abc" {
		t.Errorf("Read = %q, want \"abc\"", buf)
	}
	if err := c.Close(fd); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestSessionPositionAdvancesIndependently(t *testing.T) {
	c := testClient(t)
	if err := c.Create("/f"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	fd1, err := c.Open("/f")
	if err != nil {
		t.Fatalf("Open fd1: %v", err)
	}
	fd2, err := c.Open("/f")
	if err != nil {
		t.Fatalf("Open fd2: %v", err)
	}
	if _, err := c.Write(fd1, []byte("hello")); err != nil {
		t.Fatalf("Write fd1: %v", err)
	}
	buf := make([]byte, 5)
	if n, err := c.Read(fd2, buf); err != nil || n != 5 {
		t.Fatalf("Read fd2: n=%d err=%v", n, err)
	}
	if string(buf) != "hello" {
		t.Errorf("fd2 read %q, want \"hello\" (fd2's own cursor started at 0)", buf)
	}
}

func TestBadDescriptorOperations(t *testing.T) {
	c := testClient(t)
	if _, err := c.Read(99, make([]byte, 1)); err != ErrBadDescriptor {
		t.Errorf("Read on unknown fd = %v, want ErrBadDescriptor", err)
	}
	if err := c.Close(99); err != ErrBadDescriptor {
		t.Errorf("Close on unknown fd = %v, want ErrBadDescriptor", err)
	}
}

func TestReaddirAdvancesSessionPosition(t *testing.T) {
	c := testClient(t)
	if err := c.Mkdir("/d"); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}
	if err := c.Create("/d/a"); err != nil {
		t.Fatalf("Create(/d/a): %v", err)
	}
	if err := c.Create("/d/b"); err != nil {
		t.Fatalf("Create(/d/b): %v", err)
	}
	fd, err := c.Open("/d")
	if err != nil {
		t.Fatalf("Open(/d): %v", err)
	}
	seen := map[string]bool{}
	for i := 0; i < 2; i++ {
		name, _, ok, err := c.Readdir(fd)
		if err != nil {
			t.Fatalf("Readdir: %v", err)
		}
		if !ok {
			t.Fatalf("Readdir ended early at i=%d", i)
		}
		seen[name] = true
	}
	if !seen["a"] || !seen["b"] {
		t.Errorf("Readdir saw %v, want both \"a\" and \"b\"", seen)
	}
	if _, _, ok, err := c.Readdir(fd); err != nil || ok {
		t.Errorf("Readdir past the end: ok=%v err=%v, want ok=false", ok, err)
	}
}
