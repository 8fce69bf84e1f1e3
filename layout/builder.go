package layout

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ByLCY/quill/binding"
	"github.com/ByLCY/quill/dsl"
)

const blockSpacing = 3.0

// Build turns a parsed document into per-page action streams. data, when
// non-nil, is a JSON document bound to ${path} placeholders in text content.
func Build(doc *dsl.Document, data []byte, opts BuildOptions) (*Result, error) {
	if doc == nil {
		return nil, fmt.Errorf("layout: document is nil")
	}
	if opts.Typesetter == nil {
		return nil, fmt.Errorf("layout: missing Typesetter backend")
	}

	fonts, styles, err := collectResources(doc)
	if err != nil {
		return nil, err
	}
	meta := collectMeta(doc)
	pageSection := firstPage(doc)
	if pageSection == nil {
		return nil, fmt.Errorf("layout: document has no page section")
	}

	pages, err := buildPages(pageSection, fonts, styles, data, opts)
	if err != nil {
		return nil, err
	}

	return &Result{
		Pages: pages,
		Fonts: fonts,
		Meta:  meta,
	}, nil
}

func buildPages(section *dsl.PageSection, fonts *FontTable, styles map[string]Style, data []byte, opts BuildOptions) ([]Page, error) {
	width, height, err := resolvePageSize(section.Spec)
	if err != nil {
		return nil, err
	}
	if section.Block == nil {
		return nil, fmt.Errorf("layout: page section has no content")
	}

	margin := resolveMargin(section.Spec.Params)

	root := &flowContext{
		baseX:          margin.Left,
		width:          width - margin.Left - margin.Right,
		data:           data,
		typesetter:     opts.Typesetter,
		debug:          opts.Debug,
		fonts:          fonts,
		styles:         styles,
		margin:         margin,
		allowPageBreak: true,
	}

	// headers and footers are laid out once and re-composed onto every page,
	// so they must exist before the first page is opened
	var headerDef, footerDef *dsl.Command
	for _, stmt := range section.Block.Statements {
		if stmt.Command == nil {
			continue
		}
		switch stmt.Command.Name {
		case "header":
			headerDef = stmt.Command
		case "footer":
			footerDef = stmt.Command
		}
	}
	header, err := buildHeaderFooter(headerDef, width, height, margin, root, "header")
	if err != nil {
		return nil, err
	}
	footer, err := buildHeaderFooter(footerDef, width, height, margin, root, "footer")
	if err != nil {
		return nil, err
	}

	collector := newPageCollector(width, height, margin, header, footer)
	root.collector = collector
	root.baseY = collector.contentTop()
	root.cursorY = root.baseY

	if err := processBlock(section.Block, root); err != nil {
		return nil, err
	}

	return collector.pages(), nil
}

// hfBlock is a laid-out header or footer: one local frame plus the page
// anchor it is composed at and the area height it reserves.
type hfBlock struct {
	lay    *Layout
	anchor Size2D
	height float64
}

// buildHeaderFooter lays out a header/footer block once. The header area
// starts at the page top with its content bottom-aligned inside it; the
// footer area is measured up from the page bottom. An explicit height
// attribute widens the reserved area beyond the content height.
func buildHeaderFooter(cmd *dsl.Command, pageW, pageH float64, margin Margin, ctx *flowContext, kind string) (*hfBlock, error) {
	if cmd == nil {
		return nil, nil
	}
	if cmd.Block == nil {
		return nil, fmt.Errorf("layout: %s command has no content block", kind)
	}
	_, attrs := parseArgs(cmd.Args, false)
	contentWidth := pageW - margin.Left - margin.Right

	lay, contentHeight, err := buildBlockLayout(cmd.Block, contentWidth, ctx)
	if err != nil {
		return nil, err
	}

	area := contentHeight
	if v := attrs["height"]; v != "" {
		if h := parseDimension(v, contentWidth); h > 0 {
			area = h
		}
	}

	y := 0.0
	if kind == "header" {
		y = area - contentHeight
		if y < 0 {
			y = 0 // content taller than the area overflows upwards
		}
	} else {
		y = pageH - area
	}
	return &hfBlock{lay: lay, anchor: SizeMM(margin.Left, y), height: area}, nil
}

// processBlock handles the commands of the top-level page block. Each block
// builds a layout in its own local frame which is then composed into the
// current page list, so one AddLayout call per block keeps the page stream
// contiguous per frame.
func processBlock(block *dsl.Block, ctx *flowContext) error {
	for _, stmt := range block.Statements {
		if stmt.Command == nil {
			continue
		}
		cmd := stmt.Command
		switch cmd.Name {
		case "flow":
			if err := handleFlow(cmd, ctx); err != nil {
				return err
			}
		case "absolute":
			if err := handleAbsolute(cmd, ctx); err != nil {
				return err
			}
		case "text":
			if err := handleText(cmd, ctx); err != nil {
				return err
			}
		case "header", "footer":
			// laid out once in buildPages, composed per page
		default:
			// unknown commands are ignored
		}
	}
	return nil
}

func handleText(cmd *dsl.Command, ctx *flowContext) error {
	if cmd.Block == nil {
		return fmt.Errorf("layout: text command has no content block")
	}
	styleName, attrs := parseArgs(cmd.Args, true)
	attrs = mergeStyleAttributes(styleName, attrs, ctx.styles)
	content := extractText(cmd.Block)
	if content == "" {
		return fmt.Errorf("layout: text command has no text content")
	}

	lay, height, err := composeTextLayout(styleName, attrs, content, ctx.width, ctx)
	if err != nil {
		return err
	}
	ctx.ensureSpace(height)
	ctx.acc().AddLayout(SizeMM(ctx.baseX, ctx.cursorY), lay)
	ctx.cursorY += height + blockSpacing
	return nil
}

func handleFlow(cmd *dsl.Command, ctx *flowContext) error {
	if cmd.Block == nil {
		return fmt.Errorf("layout: flow command has no content block")
	}
	styleName, attrs := parseArgs(cmd.Args, false)
	attrs = mergeStyleAttributes(styleName, attrs, ctx.styles)
	width := ctx.width
	if v := attrs["width"]; v != "" {
		if w := parseDimension(v, ctx.width); w > 0 && w <= ctx.width {
			width = w
		}
	}
	offset := alignOffset(ctx.width, width, attrs["align"])

	lay, height, err := buildBlockLayout(cmd.Block, width, ctx)
	if err != nil {
		return err
	}
	ctx.ensureSpace(height)
	ctx.acc().AddLayout(SizeMM(ctx.baseX+offset, ctx.cursorY), lay)
	ctx.cursorY += height + blockSpacing
	return nil
}

func handleAbsolute(cmd *dsl.Command, ctx *flowContext) error {
	if cmd.Block == nil {
		return fmt.Errorf("layout: absolute command has no content block")
	}
	styleName, attrs := parseArgs(cmd.Args, false)
	attrs = mergeStyleAttributes(styleName, attrs, ctx.styles)
	width := ctx.width
	if v := attrs["width"]; v != "" {
		if w := parseDimension(v, ctx.width); w > 0 {
			width = w
		}
	}
	offsetX := parseDimension(attrs["x"], ctx.width)
	offsetY := parseDimension(attrs["y"], ctx.width)

	lay, _, err := buildBlockLayout(cmd.Block, width, ctx)
	if err != nil {
		return err
	}
	// absolutely positioned content does not advance the flow cursor
	ctx.acc().AddLayout(SizeMM(ctx.baseX+offsetX, ctx.baseY+offsetY), lay)
	return nil
}

// buildBlockLayout lays out the commands of a block into a fresh local frame
// and returns the resulting layout plus its content height.
func buildBlockLayout(block *dsl.Block, width float64, ctx *flowContext) (*Layout, float64, error) {
	list := NewActionList()
	cursorY := 0.0

	for _, stmt := range block.Statements {
		if stmt.Command == nil {
			continue
		}
		cmd := stmt.Command
		switch cmd.Name {
		case "text":
			styleName, attrs := parseArgs(cmd.Args, true)
			attrs = mergeStyleAttributes(styleName, attrs, ctx.styles)
			content := extractText(cmd.Block)
			if content == "" {
				return nil, 0, fmt.Errorf("layout: text command has no text content")
			}
			lay, height, err := composeTextLayout(styleName, attrs, content, width, ctx)
			if err != nil {
				return nil, 0, err
			}
			list.AddLayout(SizeMM(0, cursorY), lay)
			cursorY += height + blockSpacing
		case "flow":
			if cmd.Block == nil {
				return nil, 0, fmt.Errorf("layout: flow command has no content block")
			}
			styleName, attrs := parseArgs(cmd.Args, false)
			attrs = mergeStyleAttributes(styleName, attrs, ctx.styles)
			childWidth := width
			if v := attrs["width"]; v != "" {
				if w := parseDimension(v, width); w > 0 && w <= width {
					childWidth = w
				}
			}
			offset := alignOffset(width, childWidth, attrs["align"])
			lay, height, err := buildBlockLayout(cmd.Block, childWidth, ctx)
			if err != nil {
				return nil, 0, err
			}
			list.AddLayout(SizeMM(offset, cursorY), lay)
			cursorY += height + blockSpacing
		case "absolute":
			if cmd.Block == nil {
				return nil, 0, fmt.Errorf("layout: absolute command has no content block")
			}
			styleName, attrs := parseArgs(cmd.Args, false)
			attrs = mergeStyleAttributes(styleName, attrs, ctx.styles)
			lay, _, err := buildBlockLayout(cmd.Block, width, ctx)
			if err != nil {
				return nil, 0, err
			}
			list.AddLayout(SizeMM(parseDimension(attrs["x"], width), parseDimension(attrs["y"], width)), lay)
		}
	}

	height := cursorY
	if height > 0 {
		height -= blockSpacing
	}
	return &Layout{
		Dimensions: SizeMM(width, height),
		Actions:    list.Finish(),
		Debug:      ctx.debug.Boxes,
	}, height, nil
}

// composeTextLayout shapes one text block into lines and emits per-line
// Move/SetFont/Write triples in a local frame. The action list coalesces the
// configuration actions, so an unchanged font across lines is set once.
func composeTextLayout(style string, attrs map[string]string, content string, width float64, ctx *flowContext) (*Layout, float64, error) {
	fontName := attrs["font"]
	if fontName == "" {
		fontName = style
	}
	if fontName == "" {
		fontName = "Body"
	}
	fontIdx, fontRes, err := resolveFont(fontName, ctx.fonts)
	if err != nil {
		return nil, 0, err
	}

	if ctx.data != nil {
		content = binding.Interpolate(content, ctx.data)
	}

	// the size keeps its author unit so the wire form prints it naturally
	size := ParseRawLengthStr(attrs["size"])
	if size.Value <= 0 {
		size = PT(12)
	}
	sizeMM := size.ToMM()
	lineHeightMM := sizeMM * 1.4
	if v := strings.TrimSpace(attrs["line-height"]); v != "" {
		if strings.HasSuffix(v, "x") {
			if f, err := strconv.ParseFloat(strings.TrimSuffix(v, "x"), 64); err == nil && f > 0 {
				lineHeightMM = sizeMM * f
			}
		} else if lh := parseLength(v); lh > 0 {
			lineHeightMM = lh
		}
	}

	lines, err := ctx.typesetter.LayoutLines(content, width, fontRes, sizeMM, lineHeightMM)
	if err != nil {
		return nil, 0, err
	}

	list := NewActionList()
	cursorY := 0.0
	for i := range lines {
		if lines[i].Height <= 0 {
			lines[i].Height = sizeMM
		}
		if i == 0 {
			lines[i].GapBefore = 0
		}
		cursorY += lines[i].GapBefore
		x := alignOffset(width, lines[i].Width, attrs["align"])
		list.Add(Move{Pos: SizeMM(x, cursorY)})
		list.Add(SetFont{Index: fontIdx, Size: size})
		list.Add(Write{Text: lines[i].Content})
		cursorY += lines[i].Height
	}

	return &Layout{
		Dimensions: SizeMM(width, cursorY),
		Actions:    list.Finish(),
		Debug:      ctx.debug.Boxes,
	}, cursorY, nil
}

func resolveFont(name string, fonts *FontTable) (int, FontResource, error) {
	if i, ok := fonts.Index(name); ok {
		f, _ := fonts.Get(i)
		return i, f, nil
	}
	if i, ok := fonts.Index("Body"); ok {
		f, _ := fonts.Get(i)
		return i, f, nil
	}
	return 0, FontResource{}, fmt.Errorf("layout: font %s is not defined and no default font exists", name)
}

type pageCollector struct {
	width   float64
	height  float64
	margin  Margin
	lists   []*ActionList
	current int
	header  *hfBlock
	footer  *hfBlock
}

func newPageCollector(width, height float64, margin Margin, header, footer *hfBlock) *pageCollector {
	pc := &pageCollector{
		width:  width,
		height: height,
		margin: margin,
		header: header,
		footer: footer,
	}
	pc.newPage()
	return pc
}

// newPage opens a fresh page list with the header already composed, so the
// header precedes the page content in the stream.
func (pc *pageCollector) newPage() *ActionList {
	list := NewActionList()
	if pc.header != nil {
		list.AddLayout(pc.header.anchor, pc.header.lay)
	}
	pc.lists = append(pc.lists, list)
	pc.current = len(pc.lists) - 1
	return list
}

func (pc *pageCollector) curr() *ActionList {
	return pc.lists[pc.current]
}

// contentTop and maxContentY bound the content box the way word processors
// do: the larger of the margin and the header/footer area wins.
func (pc *pageCollector) contentTop() float64 {
	if pc.header != nil && pc.header.height > pc.margin.Top {
		return pc.header.height
	}
	return pc.margin.Top
}

func (pc *pageCollector) maxContentY() float64 {
	b := pc.margin.Bottom
	if pc.footer != nil && pc.footer.height > b {
		b = pc.footer.height
	}
	return pc.height - b
}

func (pc *pageCollector) pages() []Page {
	out := make([]Page, len(pc.lists))
	for i, list := range pc.lists {
		if pc.footer != nil {
			list.AddLayout(pc.footer.anchor, pc.footer.lay)
		}
		out[i] = Page{
			Width:   pc.width,
			Height:  pc.height,
			Margin:  pc.margin,
			Actions: list.Finish(),
		}
	}
	return out
}

type flowContext struct {
	baseX          float64
	baseY          float64
	width          float64
	cursorY        float64
	data           []byte
	typesetter     Typesetter
	debug          DebugOptions
	fonts          *FontTable
	styles         map[string]Style
	collector      *pageCollector
	margin         Margin
	allowPageBreak bool
}

func (ctx *flowContext) ensureSpace(height float64) {
	if !ctx.allowPageBreak || ctx.collector == nil {
		return
	}
	if ctx.cursorY+height <= ctx.collector.maxContentY() {
		return
	}
	ctx.collector.newPage()
	ctx.baseY = ctx.collector.contentTop()
	ctx.cursorY = ctx.baseY
}

func (ctx *flowContext) acc() *ActionList {
	return ctx.collector.curr()
}

func collectResources(doc *dsl.Document) (*FontTable, map[string]Style, error) {
	fonts := NewFontTable()
	rawStyles := map[string]Style{}

	for _, section := range doc.Sections {
		if section.Resources == nil || section.Resources.Block == nil {
			continue
		}
		for _, stmt := range section.Resources.Block.Statements {
			if stmt.Command == nil {
				continue
			}
			switch stmt.Command.Name {
			case "font":
				font := parseFontResource(stmt.Command)
				if font.Name != "" {
					fonts.Add(font)
				}
			case "style":
				style := parseStyleResource(stmt.Command)
				if style.Name != "" {
					rawStyles[style.Name] = style
				}
			}
		}
	}

	if fonts.Len() == 0 {
		fonts.Add(FontResource{
			Name:   "Body",
			Src:    "system:sans-serif",
			Family: "Body",
		})
	}

	styles, err := resolveStyles(rawStyles)
	if err != nil {
		return nil, nil, err
	}
	return fonts, styles, nil
}

func collectMeta(doc *dsl.Document) DocumentMeta {
	meta := DocumentMeta{
		Creator: "Quill",
	}
	for _, section := range doc.Sections {
		if section.Meta == nil || section.Meta.Block == nil {
			continue
		}
		for _, stmt := range section.Meta.Block.Statements {
			if stmt.Assignment == nil {
				continue
			}
			switch strings.ToLower(stmt.Assignment.Key) {
			case "title":
				meta.Title = valueToString(stmt.Assignment.Value)
			case "author":
				meta.Author = valueToString(stmt.Assignment.Value)
			case "subject":
				meta.Subject = valueToString(stmt.Assignment.Value)
			case "creator":
				meta.Creator = valueToString(stmt.Assignment.Value)
			case "keywords":
				meta.Keywords = valueToStringSlice(stmt.Assignment.Value)
			}
		}
	}
	return meta
}

func parseFontResource(cmd *dsl.Command) FontResource {
	if len(cmd.Args) == 0 {
		return FontResource{}
	}
	font := FontResource{
		Name:   cmd.Args[0].Value,
		Family: cmd.Args[0].Value,
	}
	if cmd.Block == nil {
		return font
	}
	for _, stmt := range cmd.Block.Statements {
		if stmt.Assignment == nil {
			continue
		}
		val := valueToString(stmt.Assignment.Value)
		switch stmt.Assignment.Key {
		case "src":
			font.Src = val
		case "style":
			font.Style = val
		case "fallback":
			font.Fallback = val
		}
	}
	return font
}

func parseStyleResource(cmd *dsl.Command) Style {
	if len(cmd.Args) == 0 {
		return Style{}
	}
	style := Style{
		Name:  cmd.Args[0].Value,
		Props: map[string]string{},
	}
	if len(cmd.Args) >= 3 && strings.EqualFold(cmd.Args[1].Value, "extends") {
		style.Extends = cmd.Args[2].Value
	}
	if cmd.Block == nil {
		return style
	}
	for _, stmt := range cmd.Block.Statements {
		if stmt.Assignment == nil {
			continue
		}
		if val := valueToString(stmt.Assignment.Value); val != "" {
			style.Props[stmt.Assignment.Key] = val
		}
	}
	return style
}

func resolveStyles(styles map[string]Style) (map[string]Style, error) {
	resolved := map[string]Style{}
	visiting := map[string]bool{}

	var dfs func(name string) (Style, error)
	dfs = func(name string) (Style, error) {
		if style, ok := resolved[name]; ok {
			return style, nil
		}
		style, ok := styles[name]
		if !ok {
			return Style{}, fmt.Errorf("layout: style %s is not defined", name)
		}
		if visiting[name] {
			return Style{}, fmt.Errorf("layout: style inheritance cycle at %s", name)
		}
		visiting[name] = true

		props := map[string]string{}
		if style.Extends != "" {
			parent, err := dfs(style.Extends)
			if err != nil {
				return Style{}, err
			}
			for k, v := range parent.Props {
				props[k] = v
			}
		}
		for k, v := range style.Props {
			props[k] = v
		}
		style.Props = props
		resolved[name] = style
		delete(visiting, name)
		return style, nil
	}

	for name := range styles {
		if _, err := dfs(name); err != nil {
			return nil, err
		}
	}
	return resolved, nil
}

var pagePresets = map[string][2]float64{
	"A4": {210, 297},
	"A5": {148, 210},
}

func resolvePageSize(spec dsl.PageSpec) (float64, float64, error) {
	base, ok := pagePresets[strings.ToUpper(spec.Size)]
	if !ok {
		return 0, 0, fmt.Errorf("layout: unsupported page size %s", spec.Size)
	}

	width := base[0]
	height := base[1]
	for _, token := range spec.Params {
		if token.Value == "landscape" {
			width, height = height, width
		}
	}
	return width, height, nil
}

func resolveMargin(params []*dsl.Lexeme) Margin {
	// default 20mm on all sides
	margin := Margin{Top: 20, Right: 20, Bottom: 20, Left: 20}
	for i := 0; i < len(params); i++ {
		if params[i].Value != "margin" {
			continue
		}
		// collect up to 4 numeric values after 'margin'; stop at the first
		// token that is not a length so keywords like 'landscape' survive
		vals := []float64{}
		for j := i + 1; j < len(params) && len(vals) < 4; j++ {
			if _, err := strconv.ParseFloat(trimUnit(params[j].Value), 64); err != nil {
				break
			}
			vals = append(vals, parseLength(params[j].Value))
		}
		// CSS shorthand semantics
		switch len(vals) {
		case 1:
			margin = Margin{Top: vals[0], Right: vals[0], Bottom: vals[0], Left: vals[0]}
		case 2:
			margin = Margin{Top: vals[0], Right: vals[1], Bottom: vals[0], Left: vals[1]}
		case 3:
			margin = Margin{Top: vals[0], Right: vals[1], Bottom: vals[2], Left: 0}
		case 4:
			margin = Margin{Top: vals[0], Right: vals[1], Bottom: vals[2], Left: vals[3]}
		}
	}
	return margin
}

func firstPage(doc *dsl.Document) *dsl.PageSection {
	for _, section := range doc.Sections {
		if section.Page != nil {
			return section.Page
		}
	}
	return nil
}

func parseArgs(args []*dsl.Lexeme, allowStyle bool) (string, map[string]string) {
	result := map[string]string{}
	if len(args) == 0 {
		return "", result
	}

	cursor := 0
	var style string
	if allowStyle && args[0].Type == "Ident" {
		style = args[0].Value
		cursor = 1
	}
	for cursor < len(args)-1 {
		result[args[cursor].Value] = args[cursor+1].Value
		cursor += 2
	}
	return style, result
}

func mergeStyleAttributes(style string, inline map[string]string, styles map[string]Style) map[string]string {
	out := make(map[string]string)
	if style != "" {
		if s, ok := styles[style]; ok {
			for k, v := range s.Props {
				out[k] = v
			}
		}
	}
	for k, v := range inline {
		out[k] = v
	}
	return out
}

func extractText(block *dsl.Block) string {
	if block == nil {
		return ""
	}
	var builder strings.Builder
	for _, stmt := range block.Statements {
		if stmt.Text != nil {
			builder.WriteString(string(stmt.Text.Value))
		}
	}
	return builder.String()
}

func parseLength(value string) float64 {
	if value == "" {
		return 0
	}
	return ParseRawLengthStr(value).ToMM()
}

func parseDimension(value string, reference float64) float64 {
	if value == "" {
		return 0
	}
	if strings.HasSuffix(value, "%") {
		if f, err := strconv.ParseFloat(strings.TrimSuffix(value, "%"), 64); err == nil {
			return reference * f / 100
		}
		return 0
	}
	return parseLength(value)
}

func trimUnit(value string) string {
	for _, suffix := range []string{"pt", "mm", "cm", "in", "%"} {
		if strings.HasSuffix(value, suffix) {
			return strings.TrimSuffix(value, suffix)
		}
	}
	return value
}

func alignOffset(container, width float64, align string) float64 {
	if container <= width {
		return 0
	}
	switch strings.ToLower(align) {
	case "center", "middle":
		return (container - width) / 2
	case "right", "end":
		return container - width
	default:
		return 0
	}
}

func valueToString(val *dsl.Value) string {
	if val == nil {
		return ""
	}
	switch {
	case val.String != nil:
		return string(*val.String)
	case val.Number != nil:
		return *val.Number
	case val.Color != nil:
		return *val.Color
	case val.Ident != nil:
		return *val.Ident
	default:
		return ""
	}
}

func valueToStringSlice(val *dsl.Value) []string {
	if val == nil {
		return nil
	}
	if val.Array != nil {
		out := make([]string, 0, len(val.Array.Values))
		for _, item := range val.Array.Values {
			if s := valueToString(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	if s := valueToString(val); s != "" {
		return []string{s}
	}
	return nil
}
