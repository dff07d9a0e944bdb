package buffer

import "go.uber.org/zap"

// Default configuration values.
const (
	// DefaultTabWidth is the default number of columns a tab advances to.
	DefaultTabWidth = 4

	// DefaultLargeFileThreshold is the file size at which Load memory-maps
	// the file instead of reading it.
	DefaultLargeFileThreshold = 10 << 20 // 10 MiB
)

// Option is a functional option for configuring a Document.
type Option func(*Document)

// WithTabWidth sets the document's tab width.
func WithTabWidth(width int) Option {
	return func(d *Document) {
		if width > 0 {
			d.tabWidth = width
		}
	}
}

// WithLogger sets the logger used by the document.
func WithLogger(l *zap.Logger) Option {
	return func(d *Document) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithMaxUndoEntries bounds the action log. Zero means unbounded.
func WithMaxUndoEntries(n int) Option {
	return func(d *Document) {
		d.log.SetMaxEntries(n)
	}
}

// WithLargeFileThreshold sets the file size at which Load memory-maps the
// file. Zero or less disables memory mapping.
func WithLargeFileThreshold(size int64) Option {
	return func(d *Document) {
		d.largeFile = size
	}
}

// WithStylesEnabled sets whether style rules are scanned.
func WithStylesEnabled(enabled bool) Option {
	return func(d *Document) {
		d.stylesEnabled = enabled
	}
}

// WithChangeFunc sets the change notification callback.
func WithChangeFunc(fn ChangeFunc) Option {
	return func(d *Document) {
		d.onChange = fn
	}
}
