package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// Renderer handles UI drawing with consistent styling.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel draws a panel background with border.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, r.Theme.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, r.Theme.PanelBorder)
}

// DrawLabelValue draws a label and value on one line and returns the next Y.
func (r *Renderer) DrawLabelValue(x, y int32, label, value string) int32 {
	rl.DrawText(label, x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawText(value, x+r.Theme.LabelWidth, y, r.Theme.FontSize, r.Theme.ValueColor)
	return y + r.Theme.LineHeight
}

// Segment is one slice of a stacked bar.
type Segment struct {
	Value int
	Color rl.Color
}

// DrawStackedBar draws segments proportionally across width and returns
// the next Y.
func (r *Renderer) DrawStackedBar(x, y, width, height int32, segments []Segment) int32 {
	total := 0
	for _, s := range segments {
		total += s.Value
	}
	rl.DrawRectangle(x, y, width, height, r.Theme.PanelBorder)
	if total > 0 {
		offset := x
		for i, s := range segments {
			w := int32(float32(width) * float32(s.Value) / float32(total))
			if i == len(segments)-1 {
				w = x + width - offset
			}
			rl.DrawRectangle(offset, y, w, height, s.Color)
			offset += w
		}
	}
	return y + height + r.Theme.Padding/2
}
