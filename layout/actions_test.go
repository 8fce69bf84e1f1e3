package layout

import "testing"

// wantActions asserts the committed sequence matches exactly, in order.
func wantActions(t *testing.T, got, want []Action) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("committed %d actions, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("action %d is %v, want %v", i, got[i], want[i])
		}
	}
}

// TestLastMoveWins asserts that repeated moves without content between them
// commit only the last position.
func TestLastMoveWins(t *testing.T) {
	list := NewActionList()
	list.Add(Move{Pos: SizeMM(1, 1)})
	list.Add(Move{Pos: SizeMM(2, 2)})
	list.Add(Move{Pos: SizeMM(3, 3)})
	list.Add(SetFont{Index: 0, Size: PT(12)})
	list.Add(Write{Text: "x"})

	wantActions(t, list.Finish(), []Action{
		Move{Pos: SizeMM(3, 3)},
		SetFont{Index: 0, Size: PT(12)},
		Write{Text: "x"},
	})
}

// TestLastFontWins asserts that repeated font selections without content
// between them consider only the last pair.
func TestLastFontWins(t *testing.T) {
	list := NewActionList()
	list.Add(SetFont{Index: 0, Size: PT(10)})
	list.Add(SetFont{Index: 2, Size: PT(14)})
	list.Add(Write{Text: "x"})

	wantActions(t, list.Finish(), []Action{
		SetFont{Index: 2, Size: PT(14)},
		Write{Text: "x"},
	})
}

// TestFontDedupAcrossWrites asserts that re-selecting the active font across
// multiple writes commits SetFont at most once.
func TestFontDedupAcrossWrites(t *testing.T) {
	list := NewActionList()
	for i := 0; i < 3; i++ {
		list.Add(SetFont{Index: 1, Size: PT(12)})
		list.Add(Write{Text: "line"})
	}

	wantActions(t, list.Finish(), []Action{
		SetFont{Index: 1, Size: PT(12)},
		Write{Text: "line"},
		Write{Text: "line"},
		Write{Text: "line"},
	})
}

// TestFontIdempotentAfterFlush covers the exact idempotence case: selecting
// the already-active font twice in a row adds nothing.
func TestFontIdempotentAfterFlush(t *testing.T) {
	list := NewActionList()
	list.Add(SetFont{Index: 3, Size: PT(12)})
	list.Add(Write{Text: "a"})

	list.Add(SetFont{Index: 3, Size: PT(12)})
	list.Add(SetFont{Index: 3, Size: PT(12)})
	list.Add(Write{Text: "b"})

	wantActions(t, list.Finish(), []Action{
		SetFont{Index: 3, Size: PT(12)},
		Write{Text: "a"},
		Write{Text: "b"},
	})
}

// TestFirstFontNeverDropped: the sentinel active font can equal no real
// font, so even index 0 at size zero commits.
func TestFirstFontNeverDropped(t *testing.T) {
	list := NewActionList()
	list.Add(SetFont{Index: 0, Size: Length{}})
	list.Add(Write{Text: "x"})

	wantActions(t, list.Finish(), []Action{
		SetFont{Index: 0, Size: Length{}},
		Write{Text: "x"},
	})
}

// TestDebugBoxBypassesFlush asserts that a debug box between pending
// move/font and the next write neither commits nor discards the pending
// state, and itself commits immediately.
func TestDebugBoxBypassesFlush(t *testing.T) {
	list := NewActionList()
	list.Add(Move{Pos: SizeMM(1, 2)})
	list.Add(SetFont{Index: 0, Size: PT(12)})
	list.Add(DebugBox{Pos: SizeMM(0, 0), Size: SizeMM(10, 10)})
	list.Add(Write{Text: "x"})

	wantActions(t, list.Finish(), []Action{
		DebugBox{Pos: SizeMM(0, 0), Size: SizeMM(10, 10)},
		Move{Pos: SizeMM(1, 2)},
		SetFont{Index: 0, Size: PT(12)},
		Write{Text: "x"},
	})
}

// TestDebugBoxTranslatedByOrigin: a debug box inside a composed sub-layout
// commits in parent coordinates, its size untouched.
func TestDebugBoxTranslatedByOrigin(t *testing.T) {
	sub := &Layout{
		Dimensions: SizeMM(30, 10),
		Actions: []Action{
			DebugBox{Pos: SizeMM(1, 2), Size: SizeMM(3, 4)},
			Write{Text: "x"},
		},
	}

	list := NewActionList()
	list.AddLayout(SizeMM(10, 20), sub)

	wantActions(t, list.Finish(), []Action{
		DebugBox{Pos: SizeMM(11, 22), Size: SizeMM(3, 4)},
		Move{Pos: SizeMM(10, 20)},
		Write{Text: "x"},
	})
}

// TestAddLayoutTranslatesMoves: composing a sub-layout at P re-anchors its
// internal moves so Move(P+d) immediately precedes the write.
func TestAddLayoutTranslatesMoves(t *testing.T) {
	sub := &Layout{
		Dimensions: SizeMM(50, 20),
		Actions: []Action{
			Move{Pos: SizeMM(5, 7)},
			Write{Text: "x"},
		},
	}

	list := NewActionList()
	list.AddLayout(SizeMM(10, 20), sub)

	wantActions(t, list.Finish(), []Action{
		Move{Pos: SizeMM(15, 27)},
		Write{Text: "x"},
	})
}

// TestAddLayoutAnchorMove: a sub-layout that writes without moving first
// still starts at the composition anchor.
func TestAddLayoutAnchorMove(t *testing.T) {
	sub := &Layout{
		Dimensions: SizeMM(50, 20),
		Actions:    []Action{Write{Text: "x"}},
	}

	list := NewActionList()
	list.AddLayout(SizeMM(30, 40), sub)

	wantActions(t, list.Finish(), []Action{
		Move{Pos: SizeMM(30, 40)},
		Write{Text: "x"},
	})
}

// TestAddLayoutFlushesPreviousFrame: a move pending from before the
// composition commits under the old origin before the frame changes.
func TestAddLayoutFlushesPreviousFrame(t *testing.T) {
	first := &Layout{Dimensions: SizeMM(10, 10), Actions: []Action{Write{Text: "a"}}}
	second := &Layout{Dimensions: SizeMM(10, 10), Actions: []Action{Write{Text: "b"}}}

	list := NewActionList()
	list.AddLayout(SizeMM(0, 0), first)
	list.Add(Move{Pos: SizeMM(1, 1)}) // translated by the first frame's origin
	list.AddLayout(SizeMM(100, 0), second)

	wantActions(t, list.Finish(), []Action{
		Move{Pos: SizeMM(0, 0)},
		Write{Text: "a"},
		Move{Pos: SizeMM(1, 1)},
		Move{Pos: SizeMM(100, 0)},
		Write{Text: "b"},
	})
}

// TestAddLayoutDebugOverlay: a sub-layout marked for debugging commits its
// bounding box right after the frame rebind, before its content.
func TestAddLayoutDebugOverlay(t *testing.T) {
	sub := &Layout{
		Dimensions: SizeMM(40, 15),
		Actions:    []Action{Write{Text: "x"}},
		Debug:      true,
	}

	list := NewActionList()
	list.AddLayout(SizeMM(10, 10), sub)

	wantActions(t, list.Finish(), []Action{
		DebugBox{Pos: SizeMM(10, 10), Size: SizeMM(40, 15)},
		Move{Pos: SizeMM(10, 10)},
		Write{Text: "x"},
	})
}

// TestNestedLayoutTranslation: flattening a grandchild through a child frame
// accumulates both translations.
func TestNestedLayoutTranslation(t *testing.T) {
	grandchild := &Layout{
		Dimensions: SizeMM(10, 10),
		Actions: []Action{
			Move{Pos: SizeMM(1, 1)},
			Write{Text: "deep"},
		},
	}

	childList := NewActionList()
	childList.AddLayout(SizeMM(5, 5), grandchild)
	child := &Layout{Dimensions: SizeMM(20, 20), Actions: childList.Finish()}

	list := NewActionList()
	list.AddLayout(SizeMM(100, 200), child)

	wantActions(t, list.Finish(), []Action{
		Move{Pos: SizeMM(106, 206)},
		Write{Text: "deep"},
	})
}

// TestIsEmpty: pending configuration alone does not make the list
// non-empty; a committed debug box does.
func TestIsEmpty(t *testing.T) {
	list := NewActionList()
	if !list.IsEmpty() {
		t.Fatalf("new list should be empty")
	}
	list.Add(Move{Pos: SizeMM(1, 1)})
	list.Add(SetFont{Index: 0, Size: PT(12)})
	if !list.IsEmpty() {
		t.Fatalf("pending move/font must not count as committed")
	}
	list.Add(DebugBox{Pos: SizeMM(0, 0), Size: SizeMM(1, 1)})
	if list.IsEmpty() {
		t.Fatalf("committed debug box should make the list non-empty")
	}
}

// TestFinishDiscardsPending: trailing configuration with no content after it
// is dead state and does not appear in the committed sequence.
func TestFinishDiscardsPending(t *testing.T) {
	list := NewActionList()
	list.Add(Write{Text: "x"})
	list.Add(Move{Pos: SizeMM(9, 9)})
	list.Add(SetFont{Index: 4, Size: PT(9)})

	wantActions(t, list.Finish(), []Action{Write{Text: "x"}})
}

// TestEndToEndSequence mirrors the canonical stream: no duplicate SetFont
// when the font never changes between writes.
func TestEndToEndSequence(t *testing.T) {
	list := NewActionList()
	list.Add(Move{Pos: SizeMM(10, 10)})
	list.Add(SetFont{Index: 0, Size: PT(12)})
	list.Add(Write{Text: "hi"})
	list.Add(Move{Pos: SizeMM(20, 10)})
	list.Add(Write{Text: "there"})

	wantActions(t, list.Finish(), []Action{
		Move{Pos: SizeMM(10, 10)},
		SetFont{Index: 0, Size: PT(12)},
		Write{Text: "hi"},
		Move{Pos: SizeMM(20, 10)},
		Write{Text: "there"},
	})
}
