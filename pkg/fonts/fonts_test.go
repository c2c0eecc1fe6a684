package fonts

import (
	"testing"

	"golang.org/x/image/font"
)

func TestRegularCached(t *testing.T) {
	a, err := Regular()
	if err != nil {
		t.Fatalf("Regular() error: %v", err)
	}
	b, _ := Regular()
	if a != b {
		t.Error("Regular() should return the cached font")
	}
}

func TestNewFace(t *testing.T) {
	face, err := NewFace(DisplaySize)
	if err != nil {
		t.Fatalf("NewFace() error: %v", err)
	}
	defer face.Close()

	short := font.MeasureString(face, "hi")
	long := font.MeasureString(face, "hello world")
	if short <= 0 {
		t.Errorf("width of %q = %v, want > 0", "hi", short)
	}
	if long <= short {
		t.Errorf("width of longer text %v should exceed %v", long, short)
	}
}
