// Package ir serializes layout results into the line-oriented intermediate
// representation consumed by out-of-process renderers: one page header record
// per page ("p width height", point units) followed by one encoded action per
// line.
package ir

import (
	"bufio"
	"fmt"
	"io"

	"github.com/ByLCY/quill/layout"
)

// Writer emits the compact text IR to an underlying sink.
type Writer struct {
	buf *bufio.Writer
}

// NewWriter wraps w for IR output.
func NewWriter(w io.Writer) *Writer {
	return &Writer{buf: bufio.NewWriter(w)}
}

// WriteResult writes every page of a layout result and flushes the sink.
func (w *Writer) WriteResult(res *layout.Result) error {
	for _, page := range res.Pages {
		if err := w.WritePage(page); err != nil {
			return err
		}
	}
	return w.buf.Flush()
}

// WritePage writes one page header followed by the page's action stream.
func (w *Writer) WritePage(page layout.Page) error {
	wpt := layout.MM(page.Width).ToPT()
	hpt := layout.MM(page.Height).ToPT()
	if _, err := fmt.Fprintf(w.buf, "p %.4f %.4f\n", wpt, hpt); err != nil {
		return err
	}
	for _, a := range page.Actions {
		if err := w.WriteAction(a); err != nil {
			return err
		}
	}
	return nil
}

// WriteAction writes a single action record and its trailing newline.
func (w *Writer) WriteAction(a layout.Action) error {
	if err := layout.EncodeAction(w.buf, a); err != nil {
		return err
	}
	return w.buf.WriteByte('\n')
}

// Flush forces buffered records through to the sink.
func (w *Writer) Flush() error { return w.buf.Flush() }
