package canvasrenderer

import (
	"reflect"
	"testing"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/quill/layout"
)

func TestParseFontStyle(t *testing.T) {
	cases := []struct {
		in   string
		want canvas.FontStyle
	}{
		{"", canvas.FontRegular},
		{"Regular", canvas.FontRegular},
		{"Bold", canvas.FontBold},
		{"ExtraBold", canvas.FontExtraBold},
		{"SemiBold", canvas.FontSemiBold},
		{"DemiBold", canvas.FontSemiBold},
		{"Medium", canvas.FontMedium},
		{"Light", canvas.FontLight},
		{"Black", canvas.FontBlack},
		{"Italic", canvas.FontRegular | canvas.FontItalic},
		{"Bold Italic", canvas.FontBold | canvas.FontItalic},
		{"oblique", canvas.FontRegular | canvas.FontItalic},
	}
	for _, c := range cases {
		if got := parseFontStyle(c.in); got != c.want {
			t.Fatalf("parseFontStyle(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

// tokenizeContent keeps whitespace runs as their own tokens so wrapped lines
// preserve inner spacing, and surfaces newlines as explicit break tokens.
func TestTokenizeContent(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"hello", []string{"hello"}},
		{"hello world", []string{"hello", " ", "world"}},
		{"a  b", []string{"a", "  ", "b"}},
		{"line1\nline2", []string{"line1", "\n", "line2"}},
		{"crlf\r\nnext", []string{"crlf", "\n", "next"}},
		{" lead", []string{" ", "lead"}},
	}
	for _, c := range cases {
		if got := tokenizeContent(c.in); !reflect.DeepEqual(got, c.want) {
			t.Fatalf("tokenizeContent(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFontCacheKey(t *testing.T) {
	a := fontCacheKey(layout.FontResource{Name: "Body", Src: "fonts/a.ttf", Style: "Bold"})
	b := fontCacheKey(layout.FontResource{Name: "Body", Src: "fonts/a.ttf", Style: "Italic"})
	if a == b {
		t.Fatalf("styles must produce distinct cache keys: %q", a)
	}
}
