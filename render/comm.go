package render

import (
	"time"

	"github.com/lixenwraith/planetz/action"
	"github.com/lixenwraith/planetz/engine"
	"github.com/lixenwraith/planetz/parameter"
)

// Timer schedules frame-thread continuations
type Timer interface {
	After(d time.Duration, fn func()) engine.TaskHandle
	Cancel(h engine.TaskHandle) bool
}

// CommState is the visible comm panel
type CommState struct {
	Visible bool
	Title   string
	Avatar  string
	Text    string // revealed so far
	Typing  bool
}

// CommPanel types NPC messages out one character at a time
// A new message replaces the current one and cancels its pending hide
type CommPanel struct {
	timer Timer

	msg      action.Message
	runes    []rune
	revealed int
	visible  bool
	typed    func()

	typeTask engine.TaskHandle
	hideTask engine.TaskHandle
}

// NewCommPanel creates a panel driven by timer
func NewCommPanel(timer Timer) *CommPanel {
	return &CommPanel{timer: timer}
}

// Show implements action.Comm
// typed runs once the text is fully revealed and may be nil
func (p *CommPanel) Show(msg action.Message, typed func()) {
	// An interrupted message still counts as delivered for its waypoint
	p.finishTyping()
	p.cancelTasks()

	if msg.Duration <= 0 {
		msg.Duration = parameter.DefaultMessageDuration
	}
	p.msg = msg
	p.runes = []rune(msg.Text)
	p.revealed = 0
	p.visible = true
	p.typed = typed
	p.step()
}

// Hide closes the panel, completing any message still typing
func (p *CommPanel) Hide() {
	p.finishTyping()
	p.cancelTasks()
	p.visible = false
}

// State returns the panel as it should be drawn
func (p *CommPanel) State() CommState {
	if !p.visible {
		return CommState{}
	}
	return CommState{
		Visible: true,
		Title:   p.msg.Title,
		Avatar:  p.msg.Avatar,
		Text:    string(p.runes[:p.revealed]),
		Typing:  p.revealed < len(p.runes),
	}
}

func (p *CommPanel) step() {
	p.typeTask = 0
	if p.revealed < len(p.runes) {
		p.revealed++
	}
	if p.revealed < len(p.runes) {
		p.typeTask = p.timer.After(parameter.TypewriterInterval, p.step)
		return
	}
	// Hide is armed first so a message shown from typed cancels it
	p.hideTask = p.timer.After(p.msg.Duration, func() {
		p.hideTask = 0
		p.visible = false
	})
	p.notifyTyped()
}

// finishTyping defers the pending callback to the next frame so a follow-up
// message cannot be shown from inside Show
func (p *CommPanel) finishTyping() {
	fn := p.typed
	if fn == nil {
		return
	}
	p.typed = nil
	p.revealed = len(p.runes)
	p.timer.After(0, fn)
}

func (p *CommPanel) notifyTyped() {
	fn := p.typed
	p.typed = nil
	if fn != nil {
		fn()
	}
}

func (p *CommPanel) cancelTasks() {
	if p.typeTask != 0 {
		p.timer.Cancel(p.typeTask)
		p.typeTask = 0
	}
	if p.hideTask != 0 {
		p.timer.Cancel(p.hideTask)
		p.hideTask = 0
	}
}
