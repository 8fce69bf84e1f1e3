package layout

import "math"

// fontSpec pairs a font table index with a size. Comparable, so cached and
// active fonts can be checked for equality directly.
type fontSpec struct {
	index int
	size  Length
}

// noFont is the initial active font. No real font table index reaches
// math.MaxInt, so the first SetFont is never dropped as a duplicate.
var noFont = fontSpec{index: math.MaxInt}

// ActionList accumulates layouting actions and optimizes the sequence as
// actions are added: configuration actions (moving, setting fonts) are held
// back and only flushed when content is written, and a font change is only
// committed if the selected font is not already active.
//
// The list also re-anchors absolute positions into a different coordinate
// frame. AddLayout places a whole sub-layout at a position by rebinding
// Origin, which translates every move inside the sub-layout into the parent
// frame. Origin is a single value, not a stack: each AddLayout call rebinds
// it until the next one, so sub-layouts must be appended as one contiguous
// block right after their origin is set.
//
// An ActionList is a plain mutable value owned by a single layouting routine;
// it must not be shared across goroutines.
type ActionList struct {
	// Origin is the active coordinate-frame translation applied to
	// subsequently cached moves and to debug box positions.
	Origin Size2D

	actions    []Action
	activeFont fontSpec
	nextPos    *Size2D
	nextFont   *fontSpec
}

// NewActionList creates an empty action list.
func NewActionList() *ActionList {
	return &ActionList{activeFont: noFont}
}

// Add appends an action to the list. Configuration actions overwrite any
// pending value of their kind instead of committing; content actions flush
// pending position and font state first. DebugBox commits immediately in
// origin-translated coordinates without flushing: overlays are a side channel
// that must not perturb the optimization of the real content stream.
func (l *ActionList) Add(a Action) {
	switch a := a.(type) {
	case Move:
		pos := l.Origin.Add(a.Pos)
		l.nextPos = &pos
	case SetFont:
		l.nextFont = &fontSpec{index: a.Index, size: a.Size}
	case DebugBox:
		l.actions = append(l.actions, DebugBox{Pos: l.Origin.Add(a.Pos), Size: a.Size})
	default:
		l.flushPosition()
		l.flushFont()
		l.actions = append(l.actions, a)
	}
}

// AddAll appends a series of actions in order.
func (l *ActionList) AddAll(actions []Action) {
	for _, a := range actions {
		l.Add(a)
	}
}

// AddLayout places a sub-layout at an absolute position. All move actions
// inside the sub-layout are translated by the position. Any move still
// pending from the previous frame is flushed first, under the old origin.
func (l *ActionList) AddLayout(position Size2D, sub *Layout) {
	l.flushPosition()

	l.Origin = position
	pos := position
	l.nextPos = &pos

	if sub.Debug {
		l.actions = append(l.actions, DebugBox{Pos: position, Size: sub.Dimensions})
	}

	l.AddAll(sub.Actions)
}

// IsEmpty reports whether any action has been committed. Pending move or
// font state does not count.
func (l *ActionList) IsEmpty() bool {
	return len(l.actions) == 0
}

// Finish returns the committed action sequence. Pending configuration state
// that was never followed by content is discarded. The list must not be used
// afterwards.
func (l *ActionList) Finish() []Action {
	return l.actions
}

// flushPosition commits the cached move, if one is cached.
func (l *ActionList) flushPosition() {
	if l.nextPos != nil {
		l.actions = append(l.actions, Move{Pos: *l.nextPos})
		l.nextPos = nil
	}
}

// flushFont commits the cached font selection, if one is cached and not
// already active.
func (l *ActionList) flushFont() {
	if l.nextFont == nil {
		return
	}
	next := *l.nextFont
	l.nextFont = nil
	if next != l.activeFont {
		l.actions = append(l.actions, SetFont{Index: next.index, Size: next.size})
		l.activeFont = next
	}
}
