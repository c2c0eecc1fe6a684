// Package fonts provides the font used to measure node labels.
//
// Node text is displayed in a sans-serif face at 18px. Measurements use the
// Go Regular font from golang.org/x/image, which is compiled into the binary,
// so sizing results are identical on every machine regardless of which fonts
// are installed.
package fonts

import (
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// FontFamily is the CSS font-family used by front ends that display nodes.
const FontFamily = "Inter, system-ui, sans-serif"

// DisplaySize is the node label size in pixels (1.125rem).
const DisplaySize = 18.0

// Parsed font (computed once on first access).
var (
	regular     *opentype.Font
	regularErr  error
	regularOnce sync.Once
)

// Regular returns the parsed Go Regular font.
// The result is cached after first computation.
func Regular() (*opentype.Font, error) {
	regularOnce.Do(func() {
		regular, regularErr = opentype.Parse(goregular.TTF)
	})
	return regular, regularErr
}

// NewFace returns a face of the regular font at size pixels (72 DPI).
// Faces are not safe for concurrent use; callers own the returned face.
func NewFace(size float64) (font.Face, error) {
	f, err := Regular()
	if err != nil {
		return nil, err
	}
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
}
