package cache

// Option applies a configuration option to a Cache.
type Option func(*config)

type config struct {
	maxSize int
}

// WithMaxSize sets the maximum number of entries kept in memory.
// Non-positive sizes keep the default.
func WithMaxSize(maxSize int) Option {
	return func(c *config) {
		if maxSize > 0 {
			c.maxSize = maxSize
		}
	}
}
