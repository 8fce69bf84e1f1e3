package layout

// BuildOptions configures the dependencies of the layout build, such as the
// line-breaking backend.
type BuildOptions struct {
	Typesetter Typesetter
	Debug      DebugOptions
}

// DebugOptions controls diagnostic output.
type DebugOptions struct {
	Boxes bool // emit DebugBox overlays around composed layouts
}

// Typesetter breaks text into drawable lines under a width constraint.
type Typesetter interface {
	LayoutLines(content string, width float64, font FontResource, fontSize float64, lineHeight float64) ([]TextLine, error)
}
