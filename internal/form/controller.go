// Package form implements the translation form controller: selector
// population, the translate action and the copy action. It drives injected
// UI regions and knows nothing about the event system that triggers it.
package form

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/valpere/lingoform/internal/client"
	"github.com/valpere/lingoform/internal/languages"
)

const (
	TranslateLabel   = "Translate"
	TranslatingLabel = "Translating…"
	CopiedLabel      = "Copied!"

	MsgEnterText    = "Please enter text to translate."
	MsgSelectTarget = "Please select a target language."
	MsgTranslating  = "Translating…"
	MsgDone         = "Done."
	MsgNothingCopy  = "Nothing to copy."
	MsgCopied       = "Copied to clipboard."
	MsgCopyFailed   = "Copy failed."

	// CopiedLabelDuration is how long the copy trigger reads CopiedLabel.
	CopiedLabelDuration = 1200 * time.Millisecond
)

var errNoClipboard = errors.New("no clipboard capability")

// State is the implicit UI state driven by the last translate action.
type State int32

const (
	StateIdle State = iota
	StateTranslating
	StateSuccess
	StateError
)

func (s State) String() string {
	switch s {
	case StateTranslating:
		return "translating"
	case StateSuccess:
		return "success"
	case StateError:
		return "error"
	default:
		return "idle"
	}
}

// Translator performs the single backend call.
type Translator interface {
	Translate(ctx context.Context, req client.Request) (*client.Response, error)
}

// Clipboard is the modern clipboard capability.
type Clipboard interface {
	Available() bool
	WriteText(ctx context.Context, text string) error
}

// ScratchCopier is the legacy copy path: place text in a transient
// element, select it and run the platform copy command.
type ScratchCopier interface {
	CopyViaScratch(text string) error
}

// Controller is the translation form controller.
type Controller struct {
	view       View
	translator Translator
	clipboard  Clipboard
	scratch    ScratchCopier
	afterFunc  func(d time.Duration, f func())
	logger     zerolog.Logger

	busy  atomic.Bool
	state atomic.Int32
}

type Option func(*Controller)

func WithClipboard(cb Clipboard) Option {
	return func(c *Controller) {
		c.clipboard = cb
	}
}

func WithScratchCopier(sc ScratchCopier) Option {
	return func(c *Controller) {
		c.scratch = sc
	}
}

// WithAfterFunc replaces the timer used to restore the copy label.
func WithAfterFunc(f func(d time.Duration, fn func())) Option {
	return func(c *Controller) {
		c.afterFunc = f
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *Controller) {
		c.logger = l
	}
}

func New(view View, translator Translator, opts ...Option) *Controller {
	c := &Controller{
		view:       view,
		translator: translator,
		afterFunc: func(d time.Duration, f func()) {
			time.AfterFunc(d, f)
		},
		logger: log.Logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Init populates both selectors and applies their defaults.
func (c *Controller) Init() {
	languages.Populate(c.view.Source, true)
	languages.Populate(c.view.Target, false)
	c.view.Source.SetValue(languages.Auto)
	c.view.Target.SetValue(languages.DefaultTarget)
}

// State reports the state left by the last translate action.
func (c *Controller) State() State {
	return State(c.state.Load())
}

func (c *Controller) setStatus(text string, category Category) {
	c.view.Status.Show(text, category)
}

// Translate validates the form, sends one request and renders the outcome.
// The status region is always updated before Translate returns; the
// returned error only reports what happened.
func (c *Controller) Translate(ctx context.Context) error {
	if !c.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer c.busy.Store(false)

	text := strings.TrimSpace(c.view.Input.Value())
	if text == "" {
		c.setStatus(MsgEnterText, CategoryWarn)
		c.view.Input.Focus()
		return &ValidationError{Field: "text", Message: MsgEnterText}
	}

	source := c.view.Source.Value()
	if source == "" {
		source = languages.Auto
	}
	target := c.view.Target.Value()
	if target == "" {
		c.setStatus(MsgSelectTarget, CategoryWarn)
		return &ValidationError{Field: "target", Message: MsgSelectTarget}
	}

	btn := c.view.TranslateButton
	btn.SetEnabled(false)
	btn.SetLabel(TranslatingLabel)
	defer func() {
		btn.SetEnabled(true)
		btn.SetLabel(TranslateLabel)
	}()

	c.state.Store(int32(StateTranslating))
	c.setStatus(MsgTranslating, CategoryInfo)

	c.logger.Debug().
		Str("source", source).
		Str("target", target).
		Int("chars", len(text)).
		Msg("Sending translation request")

	resp, err := c.translator.Translate(ctx, client.Request{Text: text, Source: source, Target: target})
	if err != nil {
		ferr := classify(err)
		c.view.Output.SetText("")
		c.setStatus(ferr.Error(), CategoryError)
		c.state.Store(int32(StateError))
		c.logger.Debug().Err(err).Msg("Translation failed")
		return ferr
	}

	c.view.Output.SetText(resp.TranslatedText)
	c.setStatus(MsgDone, CategorySuccess)
	c.state.Store(int32(StateSuccess))
	return nil
}

func classify(err error) error {
	var se *client.StatusError
	if errors.As(err, &se) {
		return &RequestError{StatusCode: se.StatusCode, Message: se.Message}
	}
	return &TransportError{Cause: err}
}

// Copy writes the displayed translation to the clipboard. It never panics on
// clipboard failure; failures are rendered and returned as ClipboardError.
func (c *Controller) Copy(ctx context.Context) error {
	text := c.view.Output.Text()
	if text == "" {
		c.setStatus(MsgNothingCopy, CategoryWarn)
		return &ValidationError{Field: "output", Message: MsgNothingCopy}
	}

	if err := c.writeClipboard(ctx, text); err != nil {
		c.setStatus(MsgCopyFailed, CategoryError)
		c.logger.Debug().Err(err).Msg("Copy failed")
		return &ClipboardError{Cause: err}
	}

	// The restore timer is not cancelled by a later copy; a copy made while
	// the label still reads CopiedLabel captures that label as "previous".
	btn := c.view.CopyButton
	previous := btn.Label()
	btn.SetLabel(CopiedLabel)
	c.setStatus(MsgCopied, CategorySuccess)
	c.afterFunc(CopiedLabelDuration, func() {
		btn.SetLabel(previous)
	})
	return nil
}

func (c *Controller) writeClipboard(ctx context.Context, text string) error {
	if c.clipboard != nil && c.clipboard.Available() {
		return c.clipboard.WriteText(ctx, text)
	}
	if c.scratch != nil {
		return c.scratch.CopyViaScratch(text)
	}
	return errNoClipboard
}
