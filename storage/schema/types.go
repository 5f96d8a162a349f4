package schema

import (
	"bytes"
	"encoding/json"
)

// Descriptor describes a single remote-storage backend as declared by the
// backing catalog: its unique prefix, display attributes and the full set of
// configuration options. Descriptors sourced from the catalog are immutable;
// override application always produces a copy.
type Descriptor struct {
	Prefix        string    `json:"prefix"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Position      *int      `json:"position,omitempty"`
	ForceReadOnly bool      `json:"forceReadOnly,omitempty"`
	Options       []*Option `json:"options"`
}

// Option is a raw backend configuration option. Type carries the backend's
// native type tag (e.g. "string", "bool", "SizeSuffix"); semantic typing is
// derived by the resolver.
type Option struct {
	Name         string      `json:"name"`
	Help         string      `json:"help,omitempty"`
	FriendlyName string      `json:"friendlyName,omitempty"`
	Type         string      `json:"type"`
	Default      interface{} `json:"default,omitempty"`
	Required     bool        `json:"required,omitempty"`
	IsPassword   bool        `json:"ispassword,omitempty"`
	Sensitive    bool        `json:"sensitive,omitempty"`
	Advanced     bool        `json:"advanced,omitempty"`
	Hide         Flag        `json:"hide,omitempty"`
	Position     *int        `json:"position,omitempty"`

	// Provider restricts the option to a comma-separated list of provider
	// names; a leading "!" inverts the list.
	Provider string    `json:"provider,omitempty"`
	Examples []Example `json:"examples,omitempty"`
}

// Example is a suggested value for an option, optionally scoped to providers
// with the same applicability syntax as Option.Provider.
type Example struct {
	Value        string `json:"value"`
	Help         string `json:"help,omitempty"`
	Provider     string `json:"provider,omitempty"`
	FriendlyName string `json:"friendlyName,omitempty"`
}

// Provider is a named variant of a schema, e.g. a specific S3-compatible
// vendor, or a synthesized access mode.
type Provider struct {
	Name         string `json:"name"`
	Help         string `json:"help,omitempty"`
	FriendlyName string `json:"friendlyName,omitempty"`
	Position     *int   `json:"position,omitempty"`
}

// OptionType is the semantic type inferred for an option.
type OptionType string

const (
	TypeString  OptionType = "string"
	TypeNumber  OptionType = "number"
	TypeBoolean OptionType = "boolean"
	TypeSecret  OptionType = "secret"
)

// Resolved is an Option augmented with derived presentation data. It is
// recomputed on every resolution pass and never persisted.
type Resolved struct {
	Option
	ConvertedType    OptionType  `json:"convertedType"`
	ConvertedDefault interface{} `json:"convertedDefault,omitempty"`
	ConvertedHide    bool        `json:"convertedHide,omitempty"`
	FilteredExamples []Example   `json:"filteredExamples,omitempty"`
}

// Flag is a tri-state boolean tolerant to the catalog's mixed encodings: the
// backend emits hide flags as numbers (0/1) while overrides use booleans.
// The zero Flag is unset and reads as false.
type Flag struct {
	set   bool
	value bool
}

// FlagOn returns a set, true Flag.
func FlagOn() Flag { return Flag{set: true, value: true} }

// FlagOff returns a set, false Flag; unlike the zero Flag it overrides a
// catalog value when merged.
func FlagOff() Flag { return Flag{set: true} }

// Bool reports the effective value; unset counts as false.
func (f Flag) Bool() bool { return f.set && f.value }

// IsSet reports whether the flag was explicitly present.
func (f Flag) IsSet() bool { return f.set }

func (f *Flag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = Flag{}
		return nil
	}
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*f = Flag{set: true, value: b}
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = Flag{set: true, value: n != 0}
	return nil
}

func (f Flag) MarshalJSON() ([]byte, error) {
	if !f.set {
		return []byte("null"), nil
	}
	return json.Marshal(f.value)
}

func (d *Descriptor) clone() *Descriptor {
	ret := *d
	return &ret
}

// Option returns the declared option with the given name, or nil.
func (d *Descriptor) Option(name string) *Option {
	if d == nil {
		return nil
	}
	for _, o := range d.Options {
		if o.Name == name {
			return o
		}
	}
	return nil
}
