// Package dimension computes the display box of a flowchart node from its text.
//
// # Overview
//
// A node grows while the user types and shrinks again when text is deleted,
// always staying inside the configured [Config] bounds. Once the user drags a
// resize handle the node is marked as manually resized and typing no longer
// changes its size; deleting back to near-empty text resets that mark.
//
// The work is split in three pure steps:
//
//   - [Engine.Candidate] measures the text and proposes a clamped size
//   - [Engine.Reconcile] decides whether the proposal replaces the current size
//   - [Engine.ApplyManualResize] clamps an explicit resize request
//
// [Engine.Update] runs the first two for a label edit.
//
// # Measurement
//
// Widths and heights come from a [Measurer]. [FontMeasurer] measures with the
// Go Regular font at the node display size and wraps lines the way a
// textarea of the candidate width would. Tests and front ends with their own
// metrics can supply any other implementation.
//
// # Usage
//
//	eng := dimension.New(dimension.DefaultConfig(), dimension.NewFontMeasurer(dimension.MeasurerOptions{}))
//	res := eng.Update(newText, len([]rune(oldText)), current, manuallyResized)
//	if res.Changed {
//	    node.Width, node.Height = res.Size.Width, res.Size.Height
//	}
//	node.ManuallyResized = res.Manual
//
// All operations are synchronous and never fail; out-of-range input is clamped.
package dimension
