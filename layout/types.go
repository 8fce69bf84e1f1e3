package layout

// This file defines the layout result model shared by the build, the IR
// writer and the renderers.

// Layout is a self-contained block of content expressed in its own local
// coordinate frame: an action sequence plus the bounding size it covers.
// Debug marks the layout for a diagnostic overlay when it is composed into a
// parent action list.
type Layout struct {
	Dimensions Size2D
	Actions    []Action
	Debug      bool
}

// Result holds the laid-out pages together with the resources the action
// streams refer to.
type Result struct {
	Pages []Page
	Fonts *FontTable
	Meta  DocumentMeta
}

// Page carries the page geometry (millimeters) and the optimized action
// stream that paints it.
type Page struct {
	Width   float64
	Height  float64
	Margin  Margin
	Actions []Action
}

// Margin in millimeters.
type Margin struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// FontResource describes a font usable by SetFont actions. Src is a file
// path resolved against the renderer base directory, or "system:<query>" for
// a system font lookup.
type FontResource struct {
	Name     string `json:"name"`
	Src      string `json:"src"`
	Style    string `json:"style"`
	Family   string `json:"family"`
	Fallback string `json:"fallback"`
}

// FontTable is the ordered document font table. SetFont actions address
// fonts by their position in it.
type FontTable struct {
	fonts  []FontResource
	byName map[string]int
}

// NewFontTable creates an empty font table.
func NewFontTable() *FontTable {
	return &FontTable{byName: map[string]int{}}
}

// Add registers a font and returns its table index. Re-registering a name
// replaces the entry but keeps its index stable.
func (t *FontTable) Add(f FontResource) int {
	if i, ok := t.byName[f.Name]; ok {
		t.fonts[i] = f
		return i
	}
	t.fonts = append(t.fonts, f)
	t.byName[f.Name] = len(t.fonts) - 1
	return len(t.fonts) - 1
}

// Index returns the table index for a font name.
func (t *FontTable) Index(name string) (int, bool) {
	i, ok := t.byName[name]
	return i, ok
}

// Get returns the font at a table index.
func (t *FontTable) Get(i int) (FontResource, bool) {
	if i < 0 || i >= len(t.fonts) {
		return FontResource{}, false
	}
	return t.fonts[i], true
}

// Len returns the number of registered fonts.
func (t *FontTable) Len() int { return len(t.fonts) }

// All returns the fonts in table order.
func (t *FontTable) All() []FontResource { return t.fonts }

// Style describes an inheritable set of text attributes.
type Style struct {
	Name    string            `json:"name"`
	Extends string            `json:"extends,omitempty"`
	Props   map[string]string `json:"props"`
}

// DocumentMeta holds document metadata for the output writer.
type DocumentMeta struct {
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Subject  string   `json:"subject"`
	Creator  string   `json:"creator"`
	Keywords []string `json:"keywords"`
}

// TextLine is one shaped line of text with its measured extent, produced by
// a Typesetter.
type TextLine struct {
	Content   string  `json:"content"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	GapBefore float64 `json:"gapBefore,omitempty"`
}
