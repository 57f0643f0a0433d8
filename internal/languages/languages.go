// Package languages holds the fixed list of languages offered by the form
// and the logic that populates selection controls from it.
package languages

import (
	"fmt"

	"golang.org/x/text/language"
)

// Auto is the sentinel code for automatic source-language detection.
// It is only valid for the source selector.
const Auto = "auto"

// DefaultTarget is the code selected in the target selector after population.
const DefaultTarget = "en"

// Option is a single selectable language.
type Option struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Label returns the text shown for the option, e.g. "English (en)".
func (o Option) Label() string {
	return fmt.Sprintf("%s (%s)", o.Name, o.Code)
}

// Tag parses the option code as a BCP 47 tag. The sentinel has no tag.
func (o Option) Tag() (language.Tag, bool) {
	if o.Code == Auto {
		return language.Und, false
	}
	tag, err := language.Parse(o.Code)
	if err != nil {
		return language.Und, false
	}
	return tag, true
}

var all = []Option{
	{Code: Auto, Name: "Auto Detect"},
	{Code: "en", Name: "English"},
	{Code: "es", Name: "Spanish"},
	{Code: "fr", Name: "French"},
	{Code: "de", Name: "German"},
	{Code: "ar", Name: "Arabic"},
	{Code: "hi", Name: "Hindi"},
	{Code: "ur", Name: "Urdu"},
	{Code: "zh", Name: "Chinese"},
	{Code: "ja", Name: "Japanese"},
}

// All returns a copy of the language list, sentinel first.
func All() []Option {
	out := make([]Option, len(all))
	copy(out, all)
	return out
}

// Filter returns the languages offered by a selector; the sentinel is
// dropped unless includeAuto is set.
func Filter(includeAuto bool) []Option {
	out := make([]Option, 0, len(all))
	for _, l := range all {
		if !includeAuto && l.Code == Auto {
			continue
		}
		out = append(out, l)
	}
	return out
}

// Lookup finds a language by code.
func Lookup(code string) (Option, bool) {
	for _, l := range all {
		if l.Code == code {
			return l, true
		}
	}
	return Option{}, false
}

// Selector is a selection control that can be repopulated.
type Selector interface {
	Clear()
	AppendOption(value, label string)
}

// Populate clears sel and appends one option per language.
func Populate(sel Selector, includeAuto bool) {
	sel.Clear()
	for _, l := range Filter(includeAuto) {
		sel.AppendOption(l.Code, l.Label())
	}
}
