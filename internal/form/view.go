package form

import "github.com/valpere/lingoform/internal/languages"

// Category classifies a status message.
type Category string

const (
	CategoryInfo    Category = "info"
	CategoryWarn    Category = "warn"
	CategorySuccess Category = "success"
	CategoryError   Category = "error"
)

// Select is a language selection control.
type Select interface {
	languages.Selector
	Value() string
	SetValue(code string)
}

// TextInput is the editable source text region.
type TextInput interface {
	Value() string
	Focus()
}

// Button is a trigger control with a mutable label.
type Button interface {
	Label() string
	SetLabel(label string)
	SetEnabled(enabled bool)
}

// TextDisplay holds plain text; implementations must not interpret markup.
type TextDisplay interface {
	Text() string
	SetText(text string)
}

// StatusDisplay is the single-line feedback region.
type StatusDisplay interface {
	Show(text string, category Category)
}

// View bundles one instance of every UI region the controller drives.
type View struct {
	Source          Select
	Target          Select
	Input           TextInput
	TranslateButton Button
	Output          TextDisplay
	CopyButton      Button
	Status          StatusDisplay
}
