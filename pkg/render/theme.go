package render

import (
	"cmp"

	"github.com/matzehuels/flowmap/pkg/errors"
)

// Theme holds the diagram palette as "#rrggbb" (or "#rgb") colours.
type Theme struct {
	NodeFill   string  `toml:"node_fill" json:"nodeFill"`
	SimpleFill string  `toml:"simple_fill" json:"simpleFill"`
	Selected   string  `toml:"selected" json:"selected"`
	Border     string  `toml:"border" json:"border"`
	Completed  string  `toml:"completed" json:"completed"`
	Line       string  `toml:"line" json:"line"`
	Text       string  `toml:"text" json:"text"`
	FontName   string  `toml:"font_name" json:"fontName"`
	FontSize   float64 `toml:"font_size" json:"fontSize"`
}

// DefaultTheme returns the editor palette.
func DefaultTheme() Theme {
	return Theme{
		NodeFill:   "#6ee7b7",
		SimpleFill: "#ffffff",
		Selected:   "#10b981",
		Border:     "#cbd5e1",
		Completed:  "#10b981",
		Line:       "#94a3b8",
		Text:       "#111827",
		FontName:   "Helvetica",
		FontSize:   14,
	}
}

// WithDefaults fills empty fields from [DefaultTheme].
func (t Theme) WithDefaults() Theme {
	d := DefaultTheme()
	t.NodeFill = cmp.Or(t.NodeFill, d.NodeFill)
	t.SimpleFill = cmp.Or(t.SimpleFill, d.SimpleFill)
	t.Selected = cmp.Or(t.Selected, d.Selected)
	t.Border = cmp.Or(t.Border, d.Border)
	t.Completed = cmp.Or(t.Completed, d.Completed)
	t.Line = cmp.Or(t.Line, d.Line)
	t.Text = cmp.Or(t.Text, d.Text)
	t.FontName = cmp.Or(t.FontName, d.FontName)
	if t.FontSize <= 0 {
		t.FontSize = d.FontSize
	}
	return t
}

// Validate checks every non-empty colour.
func (t Theme) Validate() error {
	for _, c := range []string{t.NodeFill, t.SimpleFill, t.Selected, t.Border, t.Completed, t.Line, t.Text} {
		if c == "" {
			continue
		}
		if err := errors.ValidateColor(c); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "theme")
		}
	}
	return nil
}
