package dimension

import (
	"math"
	"strings"
	"sync"
	"unicode/utf8"

	"golang.org/x/image/font"

	"github.com/matzehuels/flowmap/pkg/fonts"
)

// Placeholder is measured instead of empty text so blank nodes keep a
// sensible width.
const Placeholder = "Add a task!"

const (
	defaultLineHeight = 28.0 // 1.75rem at the 18px display size
	defaultPaddingX   = 16.0
	fallbackCharWidth = 0.55 // em fraction per rune when no face is available
)

// Measurer supplies text metrics for a fixed display font.
type Measurer interface {
	// TextWidth returns the advance width of a single line in pixels.
	TextWidth(line string) float64
	// ContentHeight returns the natural height of text wrapped into a box of
	// the given outer width, excluding any multi-line padding.
	ContentHeight(text string, width float64) float64
}

// MeasureTextWidth returns the width of the widest line of text.
// Empty text is measured as [Placeholder]; empty lines as a single space.
func MeasureTextWidth(m Measurer, text string) float64 {
	if text == "" {
		text = Placeholder
	}
	widest := 0.0
	for _, line := range strings.Split(text, "\n") {
		if line == "" {
			line = " "
		}
		widest = math.Max(widest, m.TextWidth(line))
	}
	return widest
}

// MeasurerOptions configures a [FontMeasurer]. Zero fields take defaults.
type MeasurerOptions struct {
	Size       float64 `toml:"size"`        // font size in pixels (default 18)
	LineHeight float64 `toml:"line_height"` // height of one visual line (default 28)
	PaddingX   float64 `toml:"padding_x"`   // horizontal space lost to the text box border (default 16)
}

// FontMeasurer measures text with the Go Regular font.
// It is safe for concurrent use.
type FontMeasurer struct {
	mu         sync.Mutex
	face       font.Face
	size       float64
	lineHeight float64
	paddingX   float64
}

// NewFontMeasurer creates a measurer for the given options. If the font
// cannot be loaded it falls back to a fixed per-rune estimate.
func NewFontMeasurer(opts MeasurerOptions) *FontMeasurer {
	if opts.Size <= 0 {
		opts.Size = fonts.DisplaySize
	}
	if opts.LineHeight <= 0 {
		opts.LineHeight = defaultLineHeight
	}
	if opts.PaddingX < 0 {
		opts.PaddingX = 0
	} else if opts.PaddingX == 0 {
		opts.PaddingX = defaultPaddingX
	}
	m := &FontMeasurer{size: opts.Size, lineHeight: opts.LineHeight, paddingX: opts.PaddingX}
	if face, err := fonts.NewFace(opts.Size); err == nil {
		m.face = face
	}
	return m
}

// TextWidth implements [Measurer].
func (m *FontMeasurer) TextWidth(line string) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.width(line)
}

// ContentHeight implements [Measurer]. Each hard line wraps on spaces; a
// word wider than the box is broken across as many lines as it needs.
func (m *FontMeasurer) ContentHeight(text string, width float64) float64 {
	inner := math.Max(width-m.paddingX, 1)

	m.mu.Lock()
	defer m.mu.Unlock()

	lines := 0
	for _, line := range strings.Split(text, "\n") {
		lines += m.wrappedLines(line, inner)
	}
	return float64(lines) * m.lineHeight
}

// LineHeight returns the height of one visual line.
func (m *FontMeasurer) LineHeight() float64 { return m.lineHeight }

func (m *FontMeasurer) wrappedLines(line string, inner float64) int {
	words := strings.Split(line, " ")
	space := m.width(" ")

	lines, cur := 1, 0.0
	for i, w := range words {
		ww := m.width(w)
		if i > 0 {
			if cur+space+ww <= inner {
				cur += space + ww
				continue
			}
			lines++
			cur = 0
		}
		if ww > inner {
			extra := int(math.Ceil(ww/inner)) - 1
			lines += extra
			ww -= float64(extra) * inner
		}
		cur = ww
	}
	return lines
}

func (m *FontMeasurer) width(s string) float64 {
	if m.face == nil {
		return float64(utf8.RuneCountInString(s)) * m.size * fallbackCharWidth
	}
	return float64(font.MeasureString(m.face, s)) / 64
}

var _ Measurer = (*FontMeasurer)(nil)
