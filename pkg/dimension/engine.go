package dimension

import (
	"strings"
	"unicode/utf8"
)

// Candidate is the size proposed for a text, before reconciling with the
// node's current size.
type Candidate struct {
	Size
	IsDeleting bool // text got shorter than it was
}

// Result is the outcome of reconciling a candidate with the current size.
type Result struct {
	Size    Size // size to store (equal to the current size when unchanged)
	Manual  bool // new value of the manual-resize flag
	Changed bool // Size differs from the current size
}

// Engine sizes nodes of one kind. It holds no per-node state and is safe for
// concurrent use if its Measurer is.
type Engine struct {
	cfg Config
	m   Measurer
}

// New creates an engine. Zero config fields take defaults; a nil measurer
// uses a [FontMeasurer] with default options.
func New(cfg Config, m Measurer) *Engine {
	if m == nil {
		m = NewFontMeasurer(MeasurerOptions{})
	}
	return &Engine{cfg: cfg.WithDefaults(), m: m}
}

// Config returns the engine's bounds.
func (e *Engine) Config() Config { return e.cfg }

// MeasureTextWidth returns the widest line of text in pixels.
func (e *Engine) MeasureTextWidth(text string) float64 {
	return MeasureTextWidth(e.m, text)
}

// Candidate proposes a size for text. prevLen is the rune length of the text
// before this edit.
func (e *Engine) Candidate(text string, prevLen int) Candidate {
	width := clamp(e.MeasureTextWidth(text)+e.cfg.BufferSpace, e.cfg.DefaultWidth, e.cfg.MaxWidth)

	height := e.m.ContentHeight(text, width)
	if strings.Contains(text, "\n") {
		height += e.cfg.MultilinePadding
	}
	height = clamp(height, e.cfg.DefaultHeight, e.cfg.MaxHeight)

	return Candidate{
		Size:       Size{Width: width, Height: height},
		IsDeleting: utf8.RuneCountInString(text) < prevLen,
	}
}

// Reconcile decides what size to store after a text edit.
//
// While deleting, the node may shrink (never below the default size) and
// text shorter than the reset threshold clears the manual flag. While
// typing, a node that was not manually resized may grow (never beyond the
// max size). A manually resized node keeps its size while typing.
//
// Each axis moves in one direction only: a deletion never enlarges an axis
// and a growth never reduces one.
func (e *Engine) Reconcile(c Candidate, current Size, manual bool, textLen int) Result {
	res := Result{Size: current, Manual: manual}

	switch {
	case c.IsDeleting:
		if c.Width < current.Width || c.Height < current.Height {
			res.Size = Size{
				Width:  max(min(c.Width, current.Width), e.cfg.DefaultWidth),
				Height: max(min(c.Height, current.Height), e.cfg.DefaultHeight),
			}
		}
		if textLen < e.cfg.ResetThreshold {
			res.Manual = false
		}
	case !manual:
		if c.Width > current.Width || c.Height > current.Height {
			res.Size = Size{
				Width:  min(max(c.Width, current.Width), e.cfg.MaxWidth),
				Height: min(max(c.Height, current.Height), e.cfg.MaxHeight),
			}
		}
	}

	res.Changed = res.Size != current
	return res
}

// Update runs [Engine.Candidate] and [Engine.Reconcile] for an edit that
// replaced text of rune length prevLen with text.
func (e *Engine) Update(text string, prevLen int, current Size, manual bool) Result {
	c := e.Candidate(text, prevLen)
	return e.Reconcile(c, current, manual, utf8.RuneCountInString(text))
}

// ApplyManualResize clamps a requested size. Callers must set the node's
// manual flag regardless of whether the size changed.
func (e *Engine) ApplyManualResize(width, height float64) Size {
	return e.cfg.Clamp(Size{Width: width, Height: height})
}

// Clamp forces s into the engine's bounds.
func (e *Engine) Clamp(s Size) Size { return e.cfg.Clamp(s) }

// Default returns the size of a new node.
func (e *Engine) Default() Size { return e.cfg.Default() }
