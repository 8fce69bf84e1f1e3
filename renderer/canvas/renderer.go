package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unicode"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/quill/layout"
	"github.com/ByLCY/quill/renderer"
)

const debugStrokeWidth = 0.2

// Renderer interprets action streams via github.com/tdewolff/canvas and
// writes PDF output. It also implements layout.Typesetter so the build can
// break lines with real font metrics.
type Renderer struct {
	baseDir string

	fontMu         sync.Mutex
	fontFamilies   map[string]*fontFamilyEntry
	fallbackFamily *canvas.FontFamily
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ layout.Typesetter = (*Renderer)(nil)
)

type fontFamilyEntry struct {
	family *canvas.FontFamily
	style  canvas.FontStyle
}

// NewRenderer creates a canvas-based renderer rooted at baseDir for
// resolving font paths.
func NewRenderer(baseDir string) *Renderer {
	return &Renderer{
		baseDir:      baseDir,
		fontFamilies: map[string]*fontFamilyEntry{},
	}
}

// Render 将每一页的动作流解释为 PDF 字节。
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	if len(result.Pages) == 0 {
		return nil, fmt.Errorf("缺少可渲染的页面")
	}

	var buf bytes.Buffer
	writer := pdf.New(&buf, result.Pages[0].Width, result.Pages[0].Height, nil)
	r.applyMeta(writer, result.Meta)
	for i, page := range result.Pages {
		if i > 0 {
			writer.NewPage(page.Width, page.Height)
		}
		c := canvas.New(page.Width, page.Height)
		ctx := canvas.NewContext(c)
		ctx.SetCoordSystem(canvas.CartesianIV) // 左上角为原点，与布局坐标一致

		if err := r.drawPage(ctx, page, result.Fonts); err != nil {
			return nil, err
		}
		c.RenderTo(writer)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) applyMeta(writer *pdf.PDF, meta layout.DocumentMeta) {
	if writer == nil {
		return
	}
	keywords := strings.Join(meta.Keywords, ", ")
	writer.SetInfo(meta.Title, meta.Subject, keywords, meta.Author, meta.Creator)
}

// drawPage 通过一个小型游标状态机回放已提交的动作流：
// Move 重定位，SetFont 切换当前字体面，Write 在游标处绘制文本，
// DebugBox 描边一个调试矩形。
func (r *Renderer) drawPage(ctx *canvas.Context, page layout.Page, fonts *layout.FontTable) error {
	var (
		x, y float64
		face *canvas.FontFace
	)
	for _, a := range page.Actions {
		switch a := a.(type) {
		case layout.Move:
			x = a.Pos.X.ToMM()
			y = a.Pos.Y.ToMM()
		case layout.SetFont:
			fontRes, ok := fonts.Get(a.Index)
			if !ok {
				return fmt.Errorf("字体索引 %d 超出字体表范围", a.Index)
			}
			f, err := r.fontFace(fontRes, a.Size.ToPT())
			if err != nil {
				return err
			}
			face = f
		case layout.Write:
			if face == nil {
				return fmt.Errorf("尚未设置字体，无法输出文本")
			}
			line := canvas.NewTextLine(face, a.Text, canvas.Left)
			baseline := y + face.Metrics().Ascent
			ctx.DrawText(x, baseline, line)
		case layout.DebugBox:
			ctx.SetFillColor(color.RGBA{})
			ctx.SetStrokeColor(canvas.Hex("#e03030"))
			ctx.SetStrokeWidth(debugStrokeWidth)
			ctx.DrawPath(a.Pos.X.ToMM(), a.Pos.Y.ToMM(),
				canvas.Rectangle(a.Size.X.ToMM(), a.Size.Y.ToMM()))
		}
	}
	return nil
}

// LayoutLines 以贪心折行实现 layout.Typesetter。
// 约定 width/fontSize/lineHeight 均为 mm；字体系统使用 pt，在此边界做一次换算。
func (r *Renderer) LayoutLines(content string, width float64, font layout.FontResource, fontSize, lineHeight float64) ([]layout.TextLine, error) {
	face, err := r.fontFace(font, layout.MM(fontSize).ToPT())
	if err != nil {
		return nil, err
	}

	lines := greedyWrapTokens(content, width, face)
	textHeight := face.Metrics().LineHeight
	if textHeight <= 0 {
		textHeight = lineHeight
	}
	leading := math.Max(lineHeight-textHeight, 0)
	if len(lines) == 0 {
		lines = []layout.TextLine{{Content: "", Width: 0, Height: textHeight}}
	}
	for i := range lines {
		if lines[i].Height <= 0 {
			lines[i].Height = textHeight
		}
		if i == 0 {
			lines[i].GapBefore = 0
		} else {
			lines[i].GapBefore = leading
		}
	}
	return lines, nil
}

func (r *Renderer) fontFace(font layout.FontResource, sizePt float64) (*canvas.FontFace, error) {
	family, style, err := r.ensureFontFamily(font)
	if err != nil {
		return nil, err
	}
	return family.Face(sizePt, canvas.Black, style, canvas.FontNormal), nil
}

func (r *Renderer) ensureFontFamily(font layout.FontResource) (*canvas.FontFamily, canvas.FontStyle, error) {
	key := fontCacheKey(font)
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if entry, ok := r.fontFamilies[key]; ok {
		return entry.family, entry.style, nil
	}

	style := parseFontStyle(font.Style)
	familyName := font.Family
	if familyName == "" {
		familyName = font.Name
	}
	if familyName == "" {
		familyName = "Body"
	}
	family := canvas.NewFontFamily(familyName)

	if err := r.loadFontIntoFamily(family, font, style); err != nil {
		fallback, fbStyle, fbErr := r.fallback()
		if fbErr != nil {
			return nil, canvas.FontRegular, err
		}
		r.fontFamilies[key] = &fontFamilyEntry{family: fallback, style: fbStyle}
		return fallback, fbStyle, nil
	}

	entry := &fontFamilyEntry{family: family, style: style}
	r.fontFamilies[key] = entry
	return family, style, nil
}

func (r *Renderer) loadFontIntoFamily(family *canvas.FontFamily, font layout.FontResource, style canvas.FontStyle) error {
	if font.Src == "" {
		return fmt.Errorf("字体 %s 缺少 src", font.Name)
	}
	if query, ok := strings.CutPrefix(font.Src, "system:"); ok {
		return family.LoadSystemFont(query, style)
	}
	path := font.Src
	if !filepath.IsAbs(path) {
		if r.baseDir == "" {
			return fmt.Errorf("未指定资源目录时不允许使用相对字体路径：%s", font.Src)
		}
		path = filepath.Join(r.baseDir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if font.Fallback != "" {
			return r.loadFontIntoFamily(family, layout.FontResource{Name: font.Name, Src: font.Fallback}, style)
		}
		return err
	}
	return family.LoadFont(data, 0, style)
}

func (r *Renderer) fallback() (*canvas.FontFamily, canvas.FontStyle, error) {
	if r.fallbackFamily != nil {
		return r.fallbackFamily, canvas.FontRegular, nil
	}
	family := canvas.NewFontFamily("quill-fallback")
	if err := family.LoadSystemFont("sans-serif", canvas.FontRegular); err != nil {
		return nil, canvas.FontRegular, err
	}
	r.fallbackFamily = family
	return family, canvas.FontRegular, nil
}

func parseFontStyle(style string) canvas.FontStyle {
	if style == "" {
		return canvas.FontRegular
	}
	s := strings.ToLower(style)
	result := canvas.FontRegular
	switch {
	case strings.Contains(s, "black"):
		result = canvas.FontBlack
	case strings.Contains(s, "extrabold"):
		result = canvas.FontExtraBold
	case strings.Contains(s, "bold"):
		result = canvas.FontBold
	case strings.Contains(s, "semibold"), strings.Contains(s, "demibold"):
		result = canvas.FontSemiBold
	case strings.Contains(s, "medium"):
		result = canvas.FontMedium
	case strings.Contains(s, "light"):
		result = canvas.FontLight
	}
	if strings.Contains(s, "italic") || strings.Contains(s, "oblique") {
		result |= canvas.FontItalic
	}
	return result
}

func fontCacheKey(font layout.FontResource) string {
	return fmt.Sprintf("%s|%s|%s", font.Name, font.Src, font.Style)
}

// greedyWrapTokens splits at whitespace opportunities first and inside
// overlong tokens when a single token exceeds the limit.
func greedyWrapTokens(content string, width float64, face *canvas.FontFace) []layout.TextLine {
	limit := width
	if limit <= 0 {
		limit = math.MaxFloat64
	}

	tokens := tokenizeContent(content)
	var lines []layout.TextLine
	var builder strings.Builder
	currentWidth := 0.0

	emit := func(force bool) {
		if builder.Len() == 0 {
			if force {
				lines = append(lines, layout.TextLine{Content: "", Width: 0})
			}
			return
		}
		lines = append(lines, layout.TextLine{
			Content: builder.String(),
			Width:   currentWidth,
		})
		builder.Reset()
		currentWidth = 0
	}

	appendToken := func(token string) {
		builder.WriteString(token)
		currentWidth += face.TextWidth(token)
	}

	for _, token := range tokens {
		if token == "\n" {
			emit(true)
			continue
		}

		tokenWidth := face.TextWidth(token)
		if currentWidth > 0 && currentWidth+tokenWidth > limit {
			emit(false)
		}
		if tokenWidth <= limit {
			appendToken(token)
			if currentWidth > limit {
				emit(false)
			}
			continue
		}

		for _, chunk := range splitTokenByWidth(token, limit, face) {
			chunkWidth := face.TextWidth(chunk)
			if currentWidth > 0 && currentWidth+chunkWidth > limit {
				emit(false)
			}
			appendToken(chunk)
			if currentWidth > limit {
				emit(false)
			}
		}
	}

	emit(true)
	return lines
}

func tokenizeContent(s string) []string {
	var tokens []string
	var builder strings.Builder
	lastWasSpace := false
	flush := func() {
		if builder.Len() == 0 {
			return
		}
		tokens = append(tokens, builder.String())
		builder.Reset()
	}

	for _, r := range s {
		if r == '\r' {
			continue
		}
		if r == '\n' {
			flush()
			tokens = append(tokens, "\n")
			lastWasSpace = false
			continue
		}
		isSpace := unicode.IsSpace(r)
		if builder.Len() == 0 {
			lastWasSpace = isSpace
		} else if lastWasSpace != isSpace {
			flush()
			lastWasSpace = isSpace
		}
		builder.WriteRune(r)
	}
	flush()
	return tokens
}

func splitTokenByWidth(token string, limit float64, face *canvas.FontFace) []string {
	if limit <= 0 || limit == math.MaxFloat64 {
		return []string{token}
	}
	var parts []string
	var builder strings.Builder
	for _, r := range token {
		builder.WriteRune(r)
		if face.TextWidth(builder.String()) > limit && builder.Len() > 1 {
			runes := []rune(builder.String())
			parts = append(parts, string(runes[:len(runes)-1]))
			builder.Reset()
			builder.WriteRune(r)
		}
	}
	if builder.Len() > 0 {
		parts = append(parts, builder.String())
	}
	return parts
}
