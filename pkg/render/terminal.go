package render

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// Draw converts the pixel buffer to terminal cells. Each cell packs two
// vertically stacked pixels into an upper half block, with the top pixel as
// the foreground color and the bottom pixel as the background color, so the
// buffer height should be twice the terminal height.
func (fb *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := row * 2
		botY := topY + 1

		for col := area.Min.X; col < area.Max.X && col < fb.Width; col++ {
			top := fb.GetPixel(col, topY)
			bot := fb.GetPixel(col, botY)

			cell := &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: cellColor(top),
					Bg: cellColor(bot),
				},
			}
			scr.SetCell(col, row, cell)
		}
	}
}

func cellColor(c Color) color.Color {
	if c.A == 0 {
		return nil
	}
	return c
}

// TerminalRenderer presents pixel buffers on a terminal.
type TerminalRenderer struct {
	term *uv.Terminal
	area uv.Rectangle
}

// NewTerminalRenderer creates a presenter for a terminal of the given size
// in character cells.
func NewTerminalRenderer(term *uv.Terminal, cols, rows int) *TerminalRenderer {
	return &TerminalRenderer{
		term: term,
		area: uv.Rect(0, 0, cols, rows),
	}
}

// FramebufferSize returns the pixel dimensions matching the terminal size.
// Half-block cells double the vertical resolution.
func (t *TerminalRenderer) FramebufferSize() (int, int) {
	return t.area.Dx(), t.area.Dy() * 2
}

// Render draws the buffer into the terminal's cell grid.
func (t *TerminalRenderer) Render(fb *Framebuffer) {
	fb.Draw(t.term, t.area)
}

// Flush pushes the pending cell updates to the terminal.
func (t *TerminalRenderer) Flush() error {
	return t.term.Display()
}
