package layout

import (
	"encoding/json"
	"os"
)

type debugPage struct {
	Width   float64  `json:"width"`
	Height  float64  `json:"height"`
	Margin  Margin   `json:"margin"`
	Actions []string `json:"actions"`
}

type debugResult struct {
	Pages []debugPage    `json:"pages"`
	Fonts []FontResource `json:"fonts"`
	Meta  DocumentMeta   `json:"meta"`
}

// WriteDebugJSON writes the layout result as JSON for inspection. Actions
// appear in their diagnostic form, one string per committed action.
func WriteDebugJSON(res *Result, path string) error {
	if res == nil {
		return nil
	}
	out := debugResult{Meta: res.Meta}
	if res.Fonts != nil {
		out.Fonts = res.Fonts.All()
	}
	for _, page := range res.Pages {
		dp := debugPage{
			Width:   page.Width,
			Height:  page.Height,
			Margin:  page.Margin,
			Actions: make([]string, 0, len(page.Actions)),
		}
		for _, a := range page.Actions {
			dp.Actions = append(dp.Actions, a.String())
		}
		out.Pages = append(out.Pages, dp)
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
