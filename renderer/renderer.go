package renderer

import "github.com/ByLCY/quill/layout"

// Renderer interprets the committed action streams of a layout result and
// produces the final output bytes (eg. a PDF).
type Renderer interface {
	Render(result *layout.Result) ([]byte, error)
}
