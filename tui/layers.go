package tui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/lixenwraith/planetz/parameter"
	"github.com/lixenwraith/planetz/render"
	"github.com/lixenwraith/planetz/starchart"
	"github.com/lixenwraith/planetz/targeting"
)

// HUD panel geometry
const (
	hudWidth  = 34
	hudHeight = 6
	commWidth = 52
)

// HUDLayer draws the targeting panel from the HUD chrome tree
type HUDLayer struct {
	hud *render.HUD
}

// NewHUDLayer draws hud in the top-right corner
func NewHUDLayer(hud *render.HUD) *HUDLayer {
	return &HUDLayer{hud: hud}
}

// IsVisible hides the layer with the HUD toggle
func (l *HUDLayer) IsVisible() bool {
	return l.hud.IsVisible()
}

// Draw implements Layer
func (l *HUDLayer) Draw(s tcell.Screen) {
	state := l.hud.State()
	if !state.Visible {
		return
	}
	w, _ := s.Size()
	x := max(w-hudWidth-1, 0)
	root := l.hud.Root()

	frame := root.Find("hud-frame")
	border := styleFor(frame.Border)
	drawBox(s, x, 0, hudWidth, hudHeight, border)

	inner := hudWidth - 4
	name := root.Find(render.ElemName)
	kind := root.Find(render.ElemKind)
	kindWidth := runewidth.StringWidth(kind.Text)
	drawText(s, x+2, 1, inner-kindWidth-1, styleFor(name.Color).Bold(true), name.Text)
	drawText(s, x+2+inner-kindWidth, 1, kindWidth, styleFor(kind.Color), kind.Text)

	drawDivider(s, x, 2, hudWidth, border)

	for i, id := range []string{render.ElemDistance, render.ElemInfo} {
		e := root.Find(id)
		drawText(s, x+2, 3+i, inner, styleFor(e.Color), e.Text)
	}
}

// ReticleLayer brackets the projected target position
type ReticleLayer struct {
	hud   *render.HUD
	frame int
}

// NewReticleLayer draws the reticle from hud state
func NewReticleLayer(hud *render.HUD) *ReticleLayer {
	return &ReticleLayer{hud: hud}
}

// Draw implements Layer
func (l *ReticleLayer) Draw(s tcell.Screen) {
	l.frame++
	r := l.hud.State().Reticle
	if !r.Visible {
		return
	}
	style := styleFor(r.Color)
	if r.Pulse && (l.frame/15)%2 == 1 {
		style = style.Dim(true)
	}
	s.SetContent(r.X-2, r.Y, '[', nil, style)
	s.SetContent(r.X, r.Y, '+', nil, style)
	s.SetContent(r.X+2, r.Y, ']', nil, style)
}

// CommLayer draws the comm panel above the status line
type CommLayer struct {
	panel *render.CommPanel
}

// NewCommLayer draws panel
func NewCommLayer(panel *render.CommPanel) *CommLayer {
	return &CommLayer{panel: panel}
}

// Draw implements Layer
func (l *CommLayer) Draw(s tcell.Screen) {
	st := l.panel.State()
	if !st.Visible {
		return
	}
	w, h := s.Size()
	width := min(commWidth, w)
	lines := wrap(st.Text, width-4)
	height := len(lines) + 3
	y := max(h-height-1, 0)

	drawBox(s, 0, y, width, height, styleFor(parameter.CommColor))
	title := st.Title
	if st.Avatar != "" {
		title = st.Avatar + " " + title
	}
	drawText(s, 2, y+1, width-4, styleFor(parameter.CommColor).Bold(true), title)
	for i, line := range lines {
		drawText(s, 2, y+2+i, width-4, tcell.StyleDefault, line)
	}
	if st.Typing {
		s.SetContent(2+runewidth.StringWidth(lastLine(lines)), y+1+len(lines), '▌', nil, tcell.StyleDefault)
	}
}

// wrap breaks text into lines of at most width cells, at spaces when possible
func wrap(text string, width int) []string {
	if width <= 0 {
		return nil
	}
	var lines []string
	line, lineWidth := []rune{}, 0
	lastSpace := -1
	for _, r := range text {
		if r == '\n' {
			lines = append(lines, string(line))
			line, lineWidth, lastSpace = line[:0:0], 0, -1
			continue
		}
		rw := runewidth.RuneWidth(r)
		if lineWidth+rw > width {
			if lastSpace > 0 {
				lines = append(lines, string(line[:lastSpace]))
				line = append([]rune{}, line[lastSpace+1:]...)
			} else {
				lines = append(lines, string(line))
				line = line[:0:0]
			}
			lineWidth = runewidth.StringWidth(string(line))
			lastSpace = -1
			if r == ' ' {
				continue
			}
		}
		if r == ' ' {
			lastSpace = len(line)
		}
		line = append(line, r)
		lineWidth += rw
	}
	return append(lines, string(line))
}

func lastLine(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return lines[len(lines)-1]
}

// ChartLayer draws the star chart full screen while it is open
type ChartLayer struct {
	chart *starchart.Chart
	hover func() (int, int, bool)
}

// NewChartLayer draws chart; hover reports the last mouse cell, may be nil
func NewChartLayer(chart *starchart.Chart, hover func() (int, int, bool)) *ChartLayer {
	return &ChartLayer{chart: chart, hover: hover}
}

// IsVisible follows the chart toggle
func (l *ChartLayer) IsVisible() bool {
	return l.chart.IsOpen()
}

// Draw implements Layer
func (l *ChartLayer) Draw(s tcell.Screen) {
	w, h := s.Size()
	if cw, ch := l.chart.Size(); cw != w || ch != h-1 {
		l.chart.Resize(w, h-1)
	}
	s.Clear()

	cx, cy := l.chart.ToCell(l.chart.Center())
	s.SetContent(cx, cy, '·', nil, tcell.StyleDefault.Dim(true))

	for _, d := range l.chart.Dots() {
		style := styleFor(d.Color)
		glyph := glyphFor(d)
		if d.Current {
			style = style.Reverse(true)
		}
		s.SetContent(d.X, d.Y, glyph, nil, style)
	}

	header := fmt.Sprintf(" STAR CHART  zoom %d/%d ", l.chart.Level()+1, l.chart.Levels())
	drawText(s, 0, h-1, w, tcell.StyleDefault.Reverse(true), header)
	if l.hover != nil {
		if x, y, ok := l.hover(); ok {
			if tip := l.chart.Tooltip(x, y); tip != "" {
				drawText(s, runewidth.StringWidth(header)+1, h-1, w, tcell.StyleDefault, tip)
			}
		}
	}
}

func glyphFor(d starchart.Dot) rune {
	if d.Dimmed {
		return '?'
	}
	switch d.Kind {
	case targeting.KindStar:
		return '*'
	case targeting.KindPlanet:
		return 'O'
	case targeting.KindMoon:
		return 'o'
	case targeting.KindStation:
		return '#'
	case targeting.KindBeacon:
		return '!'
	case targeting.KindShip:
		return '>'
	case targeting.KindWaypoint:
		return '◆'
	}
	return '.'
}

// StatusLayer draws a one-line status bar at the bottom
type StatusLayer struct {
	text func() string
}

// NewStatusLayer draws the string returned by text each frame
func NewStatusLayer(text func() string) *StatusLayer {
	return &StatusLayer{text: text}
}

// Draw implements Layer
func (l *StatusLayer) Draw(s tcell.Screen) {
	w, h := s.Size()
	drawText(s, 0, h-1, w, tcell.StyleDefault.Dim(true), l.text())
}
