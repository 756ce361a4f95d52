package dedupe

// Option configures the in-memory Deduper.
type Option func(*window)

// WithMaxSize bounds how many ids are remembered. Once full, the oldest id
// is forgotten first. Zero or negative disables the bound.
func WithMaxSize(maxSize int) Option {
	return func(w *window) {
		w.maxSize = maxSize
	}
}
