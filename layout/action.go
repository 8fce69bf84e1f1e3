package layout

import (
	"fmt"
	"io"
)

// Action is one primitive layouting instruction. The set of variants is
// closed: appending and encoding both switch exhaustively over it, so a new
// instruction kind cannot be introduced without deciding its coalescing policy
// and its wire encoding.
type Action interface {
	fmt.Stringer
	action()
}

// Move positions the cursor at an absolute 2D position.
type Move struct {
	Pos Size2D
}

// SetFont selects a font from the document font table by index, at a size.
type SetFont struct {
	Index int
	Size  Length
}

// Write emits text starting at the current position with the active font.
type Write struct {
	Text string
}

// DebugBox visualizes a rectangle for debugging purposes. It never affects
// cursor or font state.
type DebugBox struct {
	Pos  Size2D
	Size Size2D
}

func (Move) action()     {}
func (SetFont) action()  {}
func (Write) action()    {}
func (DebugBox) action() {}

// String renders the human-readable diagnostic form. Not round-trippable.
func (a Move) String() string { return fmt.Sprintf("move %s %s", a.Pos.X, a.Pos.Y) }

func (a SetFont) String() string { return fmt.Sprintf("font %d %s", a.Index, a.Size) }

func (a Write) String() string { return fmt.Sprintf("write %q", a.Text) }

func (a DebugBox) String() string {
	return fmt.Sprintf("box %s %s %s %s", a.Pos.X, a.Pos.Y, a.Size.X, a.Size.Y)
}

// EncodeAction writes the compact wire form of a single action:
//
//	m x y        absolute move, point units, 4 decimals
//	f index size set font, size in natural point representation
//	w text       emit text, raw and unescaped
//	b x y w h    debug rectangle, point units, 4 decimals
//
// The record is formatted in full before a single Write call, so a failing
// sink never receives a truncated record. Sink errors are returned unchanged.
func EncodeAction(w io.Writer, a Action) error {
	var rec []byte
	switch a := a.(type) {
	case Move:
		rec = fmt.Appendf(nil, "m %.4f %.4f", a.Pos.X.ToPT(), a.Pos.Y.ToPT())
	case SetFont:
		rec = fmt.Appendf(nil, "f %d %v", a.Index, a.Size.ToPT())
	case Write:
		rec = fmt.Appendf(nil, "w %s", a.Text)
	case DebugBox:
		rec = fmt.Appendf(nil, "b %.4f %.4f %.4f %.4f",
			a.Pos.X.ToPT(), a.Pos.Y.ToPT(), a.Size.X.ToPT(), a.Size.Y.ToPT())
	}
	_, err := w.Write(rec)
	return err
}
