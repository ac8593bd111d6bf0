package tui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

const (
	boxHorizontal  = '─'
	boxVertical    = '│'
	boxTopLeft     = '┌'
	boxTopRight    = '┐'
	boxBottomLeft  = '└'
	boxBottomRight = '┘'
	boxTeeLeft     = '├'
	boxTeeRight    = '┤'
)

// styleFor parses a "#rrggbb" color into a foreground style
func styleFor(color string) tcell.Style {
	style := tcell.StyleDefault
	if color == "" {
		return style
	}
	return style.Foreground(tcell.GetColor(color))
}

// drawText writes text starting at x,y clipped to maxWidth cells, returns cells used
func drawText(s tcell.Screen, x, y, maxWidth int, style tcell.Style, text string) int {
	used := 0
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			w = 1
		}
		if used+w > maxWidth {
			break
		}
		s.SetContent(x+used, y, r, nil, style)
		used += w
	}
	return used
}

// drawBox draws a single-line frame with its interior cleared
func drawBox(s tcell.Screen, x, y, w, h int, style tcell.Style) {
	if w < 2 || h < 2 {
		return
	}
	for col := x + 1; col < x+w-1; col++ {
		s.SetContent(col, y, boxHorizontal, nil, style)
		s.SetContent(col, y+h-1, boxHorizontal, nil, style)
	}
	for row := y + 1; row < y+h-1; row++ {
		s.SetContent(x, row, boxVertical, nil, style)
		s.SetContent(x+w-1, row, boxVertical, nil, style)
		for col := x + 1; col < x+w-1; col++ {
			s.SetContent(col, row, ' ', nil, tcell.StyleDefault)
		}
	}
	s.SetContent(x, y, boxTopLeft, nil, style)
	s.SetContent(x+w-1, y, boxTopRight, nil, style)
	s.SetContent(x, y+h-1, boxBottomLeft, nil, style)
	s.SetContent(x+w-1, y+h-1, boxBottomRight, nil, style)
}

// drawDivider draws a tee-terminated rule across a box
func drawDivider(s tcell.Screen, x, y, w int, style tcell.Style) {
	s.SetContent(x, y, boxTeeLeft, nil, style)
	for col := x + 1; col < x+w-1; col++ {
		s.SetContent(col, y, boxHorizontal, nil, style)
	}
	s.SetContent(x+w-1, y, boxTeeRight, nil, style)
}
