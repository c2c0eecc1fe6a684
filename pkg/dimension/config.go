package dimension

import (
	"math"

	"github.com/matzehuels/flowmap/pkg/errors"
)

// Defaults for task nodes.
const (
	DefaultWidth            = 160.0
	DefaultHeight           = 80.0
	DefaultMaxWidth         = 400.0
	DefaultMaxHeight        = 300.0
	DefaultBufferSpace      = 60.0
	DefaultMultilinePadding = 32.0 // extra bottom room once text spans lines
	DefaultResetThreshold   = 5    // text shorter than this clears the manual flag
)

// Config bounds the size of one node kind.
type Config struct {
	DefaultWidth     float64 `toml:"default_width" json:"defaultWidth"`
	DefaultHeight    float64 `toml:"default_height" json:"defaultHeight"`
	MaxWidth         float64 `toml:"max_width" json:"maxWidth"`
	MaxHeight        float64 `toml:"max_height" json:"maxHeight"`
	BufferSpace      float64 `toml:"buffer_space" json:"bufferSpace"`
	MultilinePadding float64 `toml:"multiline_padding" json:"multilinePadding"`
	ResetThreshold   int     `toml:"reset_threshold" json:"resetThreshold"`
}

// DefaultConfig returns the bounds used for task nodes.
func DefaultConfig() Config {
	return Config{
		DefaultWidth:     DefaultWidth,
		DefaultHeight:    DefaultHeight,
		MaxWidth:         DefaultMaxWidth,
		MaxHeight:        DefaultMaxHeight,
		BufferSpace:      DefaultBufferSpace,
		MultilinePadding: DefaultMultilinePadding,
		ResetThreshold:   DefaultResetThreshold,
	}
}

// WithDefaults fills zero fields from [DefaultConfig].
func (c Config) WithDefaults() Config {
	d := DefaultConfig()
	if c.DefaultWidth == 0 {
		c.DefaultWidth = d.DefaultWidth
	}
	if c.DefaultHeight == 0 {
		c.DefaultHeight = d.DefaultHeight
	}
	if c.MaxWidth == 0 {
		c.MaxWidth = d.MaxWidth
	}
	if c.MaxHeight == 0 {
		c.MaxHeight = d.MaxHeight
	}
	if c.BufferSpace == 0 {
		c.BufferSpace = d.BufferSpace
	}
	if c.MultilinePadding == 0 {
		c.MultilinePadding = d.MultilinePadding
	}
	if c.ResetThreshold == 0 {
		c.ResetThreshold = d.ResetThreshold
	}
	return c
}

// Validate reports bounds that cannot hold any size.
func (c Config) Validate() error {
	for _, v := range []float64{c.DefaultWidth, c.DefaultHeight, c.MaxWidth, c.MaxHeight} {
		if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.New(errors.ErrCodeInvalidConfig, "node dimensions must be positive and finite")
		}
	}
	if c.MaxWidth < c.DefaultWidth {
		return errors.New(errors.ErrCodeInvalidConfig, "max_width %.0f is below default_width %.0f", c.MaxWidth, c.DefaultWidth)
	}
	if c.MaxHeight < c.DefaultHeight {
		return errors.New(errors.ErrCodeInvalidConfig, "max_height %.0f is below default_height %.0f", c.MaxHeight, c.DefaultHeight)
	}
	if c.BufferSpace < 0 || c.MultilinePadding < 0 || c.ResetThreshold < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "buffer, padding and reset threshold must not be negative")
	}
	return nil
}

// Default returns the size of a freshly created node.
func (c Config) Default() Size { return Size{Width: c.DefaultWidth, Height: c.DefaultHeight} }

// Max returns the largest allowed size.
func (c Config) Max() Size { return Size{Width: c.MaxWidth, Height: c.MaxHeight} }

// Clamp forces s into [Default, Max] on both axes.
// NaN values collapse to the default.
func (c Config) Clamp(s Size) Size {
	return Size{
		Width:  clamp(s.Width, c.DefaultWidth, c.MaxWidth),
		Height: clamp(s.Height, c.DefaultHeight, c.MaxHeight),
	}
}

// Size is a node box in pixels.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Min(math.Max(v, lo), hi)
}
