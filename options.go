package cubemat

// config holds optional configuration for the load, list, save and append
// entry points.
type config struct {
	description         string // file description (max 116 bytes)
	compression         int    // 0-9, 0 = none
	maxNestingDepth      int    // compressed-element recursion cap
	maxDecompressedSize int    // bytes, decompression-bomb ceiling
}

// Option configures optional parameters for the load, list, save and append
// entry points.
type Option func(*config)

// WithDescription sets the file description (max 116 bytes, truncated if
// longer). Only meaningful for SaveCubeRank3; ignored by AppendRank2, which
// never rewrites the header.
//
// Default: "cubemat MAT5 writer"
func WithDescription(desc string) Option {
	return func(c *config) {
		if len(desc) > 116 {
			desc = desc[:116]
		}
		c.description = desc
	}
}

// WithCompression enables DEFLATE compression of the written matrix
// element at the given level (0-9). 0 disables compression.
//
// Default: 0 (no compression)
func WithCompression(level int) Option {
	return func(c *config) {
		if level < 0 {
			level = 0
		} else if level > 9 {
			level = 9
		}
		c.compression = level
	}
}

// WithMaxNestingDepth overrides the recursion cap applied to nested
// compressed elements while loading or listing.
//
// Default: 32
func WithMaxNestingDepth(depth int) Option {
	return func(c *config) {
		if depth > 0 {
			c.maxNestingDepth = depth
		}
	}
}

// WithMaxDecompressedSize overrides the inflated-byte ceiling applied to
// each compressed element while loading or listing; the limit is checked
// per element, not summed across the file.
//
// Default: 100MiB
func WithMaxDecompressedSize(bytes int) Option {
	return func(c *config) {
		if bytes > 0 {
			c.maxDecompressedSize = bytes
		}
	}
}

func defaultConfig() *config {
	return &config{
		description:         "cubemat MAT5 writer",
		compression:         0,
		maxNestingDepth:      32,
		maxDecompressedSize: 100 * 1024 * 1024,
	}
}

func applyOptions(opts []Option) *config {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
