//go:build !unix

package buffer

import (
	"errors"
	"fmt"
	"os"
)

var (
	errNoMmap = errors.New("memory mapping not supported")
	errNoFD   = errors.New("raw file descriptors not supported")
)

// mapFile always fails; Load falls back to reading the file.
func mapFile(f *os.File, size int64) ([]byte, error) {
	return nil, errNoMmap
}

// unmapFile is a no-op.
func unmapFile(data []byte) error {
	return nil
}

// WriteFD writes the content to an open file descriptor. Only the standard
// streams are supported on this platform.
func (d *Document) WriteFD(fd int) (int64, error) {
	for _, f := range []*os.File{os.Stdin, os.Stdout, os.Stderr} {
		if f != nil && int(f.Fd()) == fd {
			return d.WriteTo(f)
		}
	}
	return 0, fmt.Errorf("write fd %d: %w", fd, errNoFD)
}
