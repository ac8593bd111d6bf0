package action

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/lixenwraith/planetz/parameter"
	"github.com/lixenwraith/planetz/world"
)

const (
	// TypeShowMessage shows an NPC message in the comm panel
	TypeShowMessage = "show_message"
	// TypePlayComm plays a voiced transmission from a named speaker
	TypePlayComm = "play_comm"
)

// Sanitize strips non-printable characters and collapses whitespace runs
func Sanitize(s string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return ' '
		}
		if !unicode.IsPrint(r) {
			return -1
		}
		return r
	}, s)
	return strings.Join(strings.Fields(cleaned), " ")
}

func seconds(f float64) time.Duration {
	return time.Duration(f * float64(time.Second))
}

func showMessageDefinition() Definition {
	return Definition{
		Type: TypeShowMessage,
		Params: []Param{
			{Name: "title", Type: String, Required: true},
			{Name: "message", Type: String, Required: true},
			{Name: "duration", Type: Number, Default: parameter.DefaultMessageDuration.Seconds(), Min: bound(0.5), Max: bound(120)},
			{Name: "audioFileId", Type: String},
			{Name: "audioVolume", Type: Number, Default: parameter.DefaultAudioVolume, Min: bound(0), Max: bound(1)},
			{Name: "avatar", Type: String, Default: "commander"},
		},
		Build: func(p Params) (Action, error) {
			p["title"] = Sanitize(p.String("title"))
			p["message"] = Sanitize(p.String("message"))
			if p.String("message") == "" {
				return nil, fmt.Errorf("%s: %w: message is empty after sanitizing", TypeShowMessage, ErrInvalidParameter)
			}
			return &commAction{typ: TypeShowMessage, params: p, titleKey: "title"}, nil
		},
	}
}

func playCommDefinition() Definition {
	return Definition{
		Type: TypePlayComm,
		Params: []Param{
			{Name: "speaker", Type: String, Required: true},
			{Name: "message", Type: String, Required: true},
			{Name: "duration", Type: Number, Default: parameter.DefaultMessageDuration.Seconds(), Min: bound(0.5), Max: bound(120)},
			{Name: "audioFileId", Type: String},
			{Name: "audioVolume", Type: Number, Default: parameter.DefaultAudioVolume, Min: bound(0), Max: bound(1)},
		},
		Build: func(p Params) (Action, error) {
			p["speaker"] = Sanitize(p.String("speaker"))
			p["message"] = Sanitize(p.String("message"))
			if p.String("message") == "" {
				return nil, fmt.Errorf("%s: %w: message is empty after sanitizing", TypePlayComm, ErrInvalidParameter)
			}
			return &commAction{typ: TypePlayComm, params: p, titleKey: "speaker"}, nil
		},
	}
}

// commAction drives the comm panel; it completes when the text is fully typed
type commAction struct {
	typ      string
	params   Params
	titleKey string
}

func (a *commAction) Type() string   { return a.typ }
func (a *commAction) Params() Params { return a.params }

func (a *commAction) Execute(ctx *Context, done func(Result)) error {
	svc := ctx.Services
	if svc == nil || svc.Comm == nil {
		return missing(a.typ, "comm panel")
	}

	if svc.Audio != nil {
		cue := parameter.SoundCommOpen
		if a.typ == TypePlayComm {
			cue = parameter.SoundBlurb
		}
		svc.Audio.PlaySound(cue, parameter.DefaultAudioVolume)
		if id := a.params.String("audioFileId"); id != "" {
			svc.Audio.PlaySound(id, a.params.Float("audioVolume"))
		}
	}

	avatar := a.params.String("avatar")
	if a.typ == TypePlayComm {
		avatar = world.Slug(a.params.String("speaker"))
	}
	title := a.params.String(a.titleKey)
	svc.Comm.Show(Message{
		Title:    title,
		Text:     a.params.String("message"),
		Avatar:   avatar,
		Duration: seconds(a.params.Float("duration")),
	}, func() {
		done(Result{Success: true, Message: title})
	})
	return nil
}
