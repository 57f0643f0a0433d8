// Package console binds the form controller to a terminal. Selections and
// input are set by the caller; status messages go to the zerolog logger.
package console

import (
	"slices"
	"sync"

	"github.com/rs/zerolog"

	"github.com/valpere/lingoform/internal/form"
)

// Select mimics an HTML select: setting a value that is not among the
// options leaves it empty.
type Select struct {
	mu     sync.Mutex
	values []string
	labels []string
	value  string
}

func (s *Select) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = nil
	s.labels = nil
	s.value = ""
}

func (s *Select) AppendOption(value, label string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = append(s.values, value)
	s.labels = append(s.labels, label)
	// The first option of an unselected control becomes selected.
	if len(s.values) == 1 {
		s.value = value
	}
}

func (s *Select) Value() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

func (s *Select) SetValue(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if slices.Contains(s.values, code) {
		s.value = code
	} else {
		s.value = ""
	}
}

// Labels returns the option labels in order.
func (s *Select) Labels() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.labels)
}

type Input struct {
	mu      sync.Mutex
	value   string
	focused bool
}

func (i *Input) Value() string {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.value
}

func (i *Input) SetValue(text string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.value = text
}

func (i *Input) Focus() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.focused = true
}

// Focused reports whether Focus was called.
func (i *Input) Focused() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.focused
}

type Button struct {
	mu       sync.Mutex
	label    string
	disabled bool
}

func NewButton(label string) *Button {
	return &Button{label: label}
}

func (b *Button) Label() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.label
}

func (b *Button) SetLabel(label string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.label = label
}

func (b *Button) SetEnabled(enabled bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.disabled = !enabled
}

func (b *Button) Enabled() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return !b.disabled
}

type Display struct {
	mu   sync.Mutex
	text string
}

func (d *Display) Text() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.text
}

func (d *Display) SetText(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.text = text
}

// Status logs every message at the level matching its category.
type Status struct {
	logger zerolog.Logger

	mu       sync.Mutex
	text     string
	category form.Category
}

func (s *Status) Show(text string, category form.Category) {
	s.mu.Lock()
	s.text = text
	s.category = category
	s.mu.Unlock()

	var event *zerolog.Event
	switch category {
	case form.CategoryWarn:
		event = s.logger.Warn()
	case form.CategoryError:
		event = s.logger.Error()
	case form.CategorySuccess:
		event = s.logger.Info()
	default:
		event = s.logger.Debug()
	}
	event.Str("category", string(category)).Msg(text)
}

// Last returns the most recent message and its category.
func (s *Status) Last() (string, form.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text, s.category
}

// Terminal holds one instance of every region.
type Terminal struct {
	Source          *Select
	Target          *Select
	Input           *Input
	TranslateButton *Button
	Output          *Display
	CopyButton      *Button
	Status          *Status
}

func New(logger zerolog.Logger) *Terminal {
	return &Terminal{
		Source:          &Select{},
		Target:          &Select{},
		Input:           &Input{},
		TranslateButton: NewButton(form.TranslateLabel),
		Output:          &Display{},
		CopyButton:      NewButton("Copy"),
		Status:          &Status{logger: logger},
	}
}

// View exposes the terminal regions to the controller.
func (t *Terminal) View() form.View {
	return form.View{
		Source:          t.Source,
		Target:          t.Target,
		Input:           t.Input,
		TranslateButton: t.TranslateButton,
		Output:          t.Output,
		CopyButton:      t.CopyButton,
		Status:          t.Status,
	}
}
