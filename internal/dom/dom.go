//go:build js && wasm

// Package dom binds the form controller to the host document.
package dom

import (
	"fmt"
	"syscall/js"

	"github.com/valpere/lingoform/internal/form"
)

// Element ids of the host document.
const (
	SourceLangID   = "sourceLang"
	TargetLangID   = "targetLang"
	InputTextID    = "inputText"
	TranslateBtnID = "translateBtn"
	OutputTextID   = "outputText"
	CopyBtnID      = "copyBtn"
	MessageID      = "message"
)

func document() js.Value {
	return js.Global().Get("document")
}

func byID(id string) (js.Value, error) {
	el := document().Call("getElementById", id)
	if el.IsNull() || el.IsUndefined() {
		return js.Value{}, fmt.Errorf("element #%s not found", id)
	}
	return el, nil
}

type Select struct{ el js.Value }

func (s Select) Clear() {
	s.el.Set("innerHTML", "")
}

func (s Select) AppendOption(value, label string) {
	opt := document().Call("createElement", "option")
	opt.Set("value", value)
	opt.Set("textContent", label)
	s.el.Call("appendChild", opt)
}

func (s Select) Value() string {
	return s.el.Get("value").String()
}

func (s Select) SetValue(code string) {
	s.el.Set("value", code)
}

type Input struct{ el js.Value }

func (i Input) Value() string {
	return i.el.Get("value").String()
}

func (i Input) Focus() {
	i.el.Call("focus")
}

type Button struct{ el js.Value }

func (b Button) Label() string {
	return b.el.Get("textContent").String()
}

func (b Button) SetLabel(label string) {
	b.el.Set("textContent", label)
}

func (b Button) SetEnabled(enabled bool) {
	b.el.Set("disabled", !enabled)
}

// Display writes through textContent so translations are never parsed as markup.
type Display struct{ el js.Value }

func (d Display) Text() string {
	return d.el.Get("textContent").String()
}

func (d Display) SetText(text string) {
	d.el.Set("textContent", text)
}

type Status struct{ el js.Value }

func (s Status) Show(text string, category form.Category) {
	s.el.Set("textContent", text)
	s.el.Set("className", "message "+string(category))
}

// Lookup resolves every region of the host document.
func Lookup() (form.View, error) {
	ids := []string{SourceLangID, TargetLangID, InputTextID, TranslateBtnID, OutputTextID, CopyBtnID, MessageID}
	els := make(map[string]js.Value, len(ids))
	for _, id := range ids {
		el, err := byID(id)
		if err != nil {
			return form.View{}, err
		}
		els[id] = el
	}

	return form.View{
		Source:          Select{els[SourceLangID]},
		Target:          Select{els[TargetLangID]},
		Input:           Input{els[InputTextID]},
		TranslateButton: Button{els[TranslateBtnID]},
		Output:          Display{els[OutputTextID]},
		CopyButton:      Button{els[CopyBtnID]},
		Status:          Status{els[MessageID]},
	}, nil
}
