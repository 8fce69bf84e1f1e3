package ir

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/ByLCY/quill/layout"
)

func TestWriteResult(t *testing.T) {
	res := &layout.Result{
		Pages: []layout.Page{
			{
				Width:  720 * layout.PtToMm,
				Height: 1080 * layout.PtToMm,
				Actions: []layout.Action{
					layout.Move{Pos: layout.SizeMM(10*layout.PtToMm, 20*layout.PtToMm)},
					layout.SetFont{Index: 0, Size: layout.PT(12)},
					layout.Write{Text: "hi"},
				},
			},
		},
	}

	var buf bytes.Buffer
	if err := NewWriter(&buf).WriteResult(res); err != nil {
		t.Fatalf("WriteResult failed: %v", err)
	}

	want := "p 720.0000 1080.0000\n" +
		"m 10.0000 20.0000\n" +
		"f 0 12\n" +
		"w hi\n"
	if got := buf.String(); got != want {
		t.Fatalf("IR output mismatch:\ngot:\n%swant:\n%s", got, want)
	}
}

func TestWriteResultMultiPage(t *testing.T) {
	res := &layout.Result{
		Pages: []layout.Page{
			{Width: 210, Height: 297},
			{Width: 210, Height: 297, Actions: []layout.Action{layout.Write{Text: "second"}}},
		},
	}

	var buf bytes.Buffer
	if err := NewWriter(&buf).WriteResult(res); err != nil {
		t.Fatalf("WriteResult failed: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("want 2 headers + 1 action, got %q", lines)
	}
	if !strings.HasPrefix(lines[0], "p ") || !strings.HasPrefix(lines[1], "p ") {
		t.Fatalf("missing page headers: %q", lines)
	}
	if lines[2] != "w second" {
		t.Fatalf("unexpected action record: %q", lines[2])
	}
}

type failingSink struct{}

func (failingSink) Write(p []byte) (int, error) { return 0, errors.New("sink closed") }

func TestWriteResultSinkError(t *testing.T) {
	res := &layout.Result{Pages: []layout.Page{{Width: 210, Height: 297}}}
	if err := NewWriter(failingSink{}).WriteResult(res); err == nil {
		t.Fatalf("expected sink error to propagate")
	}
}
