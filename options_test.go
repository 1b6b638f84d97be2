package cubemat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithDescription(t *testing.T) {
	tests := []struct {
		name     string
		desc     string
		expected string
	}{
		{name: "short description", desc: "a cube archive", expected: "a cube archive"},
		{name: "empty description", desc: "", expected: ""},
		{name: "long description truncated", desc: string(make([]byte, 200)), expected: string(make([]byte, 116))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			WithDescription(tt.desc)(cfg)
			assert.Equal(t, tt.expected, cfg.description)
		})
	}
}

func TestWithCompression(t *testing.T) {
	tests := []struct {
		name     string
		level    int
		expected int
	}{
		{name: "mid level", level: 6, expected: 6},
		{name: "clamped below zero", level: -3, expected: 0},
		{name: "clamped above nine", level: 20, expected: 9},
		{name: "disabled", level: 0, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			WithCompression(tt.level)(cfg)
			assert.Equal(t, tt.expected, cfg.compression)
		})
	}
}

func TestWithMaxNestingDepth(t *testing.T) {
	cfg := defaultConfig()
	WithMaxNestingDepth(8)(cfg)
	assert.Equal(t, 8, cfg.maxNestingDepth)

	// A non-positive override is ignored, preserving the current value.
	WithMaxNestingDepth(0)(cfg)
	assert.Equal(t, 8, cfg.maxNestingDepth)
}

func TestWithMaxDecompressedSize(t *testing.T) {
	cfg := defaultConfig()
	WithMaxDecompressedSize(4096)(cfg)
	assert.Equal(t, 4096, cfg.maxDecompressedSize)

	WithMaxDecompressedSize(-1)(cfg)
	assert.Equal(t, 4096, cfg.maxDecompressedSize)
}

func TestApplyOptionsDefaults(t *testing.T) {
	cfg := applyOptions(nil)
	assert.Equal(t, "cubemat MAT5 writer", cfg.description)
	assert.Equal(t, 0, cfg.compression)
	assert.Equal(t, 32, cfg.maxNestingDepth)
	assert.Equal(t, 100*1024*1024, cfg.maxDecompressedSize)
}

func TestApplyOptionsComposes(t *testing.T) {
	cfg := applyOptions([]Option{WithDescription("combined"), WithCompression(3)})
	assert.Equal(t, "combined", cfg.description)
	assert.Equal(t, 3, cfg.compression)
}
