//go:build unix

package buffer

import (
	"os"

	"golang.org/x/sys/unix"
)

// mapFile maps size bytes of f read-only.
func mapFile(f *os.File, size int64) ([]byte, error) {
	return unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_PRIVATE)
}

// unmapFile releases a mapping made by mapFile.
func unmapFile(data []byte) error {
	return unix.Munmap(data)
}

// fdWriter writes to a raw file descriptor without taking ownership of it.
type fdWriter int

func (w fdWriter) Write(p []byte) (int, error) {
	total := 0
	for total < len(p) {
		n, err := unix.Write(int(w), p[total:])
		if err == unix.EINTR {
			continue
		}
		if n > 0 {
			total += n
		}
		if err != nil {
			return total, err
		}
		if n == 0 {
			break
		}
	}
	return total, nil
}

// WriteFD writes the content to an open file descriptor. The descriptor is
// not closed.
func (d *Document) WriteFD(fd int) (int64, error) {
	return d.WriteTo(fdWriter(fd))
}
