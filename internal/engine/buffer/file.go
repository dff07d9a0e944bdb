package buffer

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
)

// Open creates a document from the file at path.
func Open(path string, opts ...Option) (*Document, error) {
	d := New(opts...)
	if err := d.Load(path); err != nil {
		return nil, err
	}
	return d, nil
}

// Load replaces the content with the file at path. Files at or above the
// large-file threshold are memory-mapped and read lazily; if mapping fails
// the file is read instead. History is cleared and the document is marked
// unmodified.
func (d *Document) Load(path string) error {
	if d.closed {
		return ErrClosed
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return err
	}

	if size := st.Size(); d.largeFile > 0 && size >= d.largeFile && size > 0 {
		data, err := mapFile(f, size)
		if err == nil {
			d.setMapped(data)
			d.loaded(path, st)
			d.logger.Debug("loaded file", zap.String("path", path),
				zap.Int64("size", size), zap.Bool("mapped", true))
			return nil
		}
		d.logger.Debug("mmap failed, reading file", zap.String("path", path), zap.Error(err))
	}

	data, err := io.ReadAll(f)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	d.setSlab(data)
	d.setMapped(nil)
	d.loaded(path, st)
	d.logger.Debug("loaded file", zap.String("path", path), zap.Int("size", len(data)))
	return nil
}

// LoadReader replaces the content with everything read from r. History is
// cleared.
func (d *Document) LoadReader(r io.Reader) error {
	if d.closed {
		return ErrClosed
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	d.setSlab(data)
	d.setMapped(nil)
	d.modified = false
	return nil
}

// setMapped swaps the memory mapping backing the lines. A non-nil data is
// loaded as the new content.
func (d *Document) setMapped(data []byte) {
	old := d.mapping
	if data != nil {
		d.setSlab(data)
	}
	d.mapping = data
	if old != nil {
		if err := unmapFile(old); err != nil {
			d.logger.Warn("munmap failed", zap.Error(err))
		}
	}
}

// unmap promotes every line still viewing the mapping and releases it.
func (d *Document) unmap() {
	if d.mapping == nil {
		return
	}
	for _, l := range d.lines {
		l.own()
	}
	d.setMapped(nil)
}

// loaded records the file a document was loaded from or saved to.
func (d *Document) loaded(path string, st os.FileInfo) {
	d.path = path
	d.modTime = st.ModTime()
	d.modified = false
}

// Path returns the file path of the document, if any.
func (d *Document) Path() string {
	return d.path
}

// IsModified returns true if the document changed since it was loaded or
// saved.
func (d *Document) IsModified() bool {
	return d.modified
}

// ChangedOnDisk reports whether the file was modified after the document
// last loaded or saved it.
func (d *Document) ChangedOnDisk() (bool, error) {
	if d.path == "" {
		return false, ErrNoPath
	}
	st, err := os.Stat(d.path)
	if err != nil {
		return false, err
	}
	return !st.ModTime().Equal(d.modTime), nil
}

// WriteTo writes the content to w, joining lines with '\n'.
// It implements io.WriterTo.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	var total int64
	write := func(p []byte) error {
		if len(p) == 0 {
			return nil
		}
		n, err := w.Write(p)
		total += int64(n)
		if err != nil {
			return err
		}
		if n < len(p) {
			return io.ErrShortWrite
		}
		return nil
	}

	newline := []byte{'\n'}
	for i, l := range d.lines {
		if i > 0 {
			if err := write(newline); err != nil {
				return total, err
			}
		}
		if err := write(l.data); err != nil {
			return total, err
		}
	}
	return total, nil
}

// Save writes the document back to its path.
func (d *Document) Save() error {
	if d.path == "" {
		return ErrNoPath
	}
	_, err := d.SaveAs(d.path)
	return err
}

// SaveAs writes the document to path and makes it the document's path.
// On failure the document stays modified.
func (d *Document) SaveAs(path string) (int64, error) {
	if d.closed {
		return 0, ErrClosed
	}
	// Truncating a mapped file would pull the content out from under us.
	d.unmap()

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return 0, err
	}
	n, err := d.WriteTo(f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return n, fmt.Errorf("write %s: %w", path, err)
	}
	if int64(d.byteCount) != n {
		return n, fmt.Errorf("write %s: %w", path, io.ErrShortWrite)
	}

	st, err := os.Stat(path)
	if err != nil {
		return n, err
	}
	d.loaded(path, st)
	d.logger.Debug("saved file", zap.String("path", path), zap.Int64("size", n))
	return n, nil
}

// Close releases the document. Marks are detached, history, rules and
// registers are dropped, and any memory mapping is released. The content
// becomes a single empty line and later mutations return ErrClosed.
func (d *Document) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true

	for _, l := range d.lines {
		for _, m := range l.marks {
			m.line = nil
		}
		l.detach()
	}
	d.lines = []*Line{newLine(d, nil)}
	d.byteCount, d.charCount = 0, 0
	d.lettered = [26]*Mark{}
	d.registers = [26][]byte{}
	for _, r := range d.rules {
		r.doc = nil
	}
	for _, r := range d.ranges {
		r.doc = nil
	}
	d.rules, d.ranges = nil, nil
	d.log.Clear()
	d.onChange = nil

	var err error
	if d.mapping != nil {
		err = unmapFile(d.mapping)
		d.mapping = nil
	}
	d.text = nil
	d.textDirty = true
	return err
}
