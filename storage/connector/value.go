package connector

import "fmt"

// Sentinel tokens crossing the serialization boundary. The submission token
// marks "this field's real value is supplied out of band" inside a submitted
// configuration; the display token marks "a secret is already saved" inside
// an edit form. They must never be conflated: sending the display token to
// the backend is an error the adapter rejects.
const (
	SensitiveFieldToken     = "<sensitive>"
	SavedSecretDisplayValue = "<saved secret>"
)

// ValueKind discriminates the states an option value can be in while held by
// the wizard.
type ValueKind int

const (
	// KindPlain is a literal value typed by the user or read from a
	// non-secret configuration key.
	KindPlain ValueKind = iota
	// KindPendingSecret marks a secret that is (or will be) supplied out of
	// band; it serializes to SensitiveFieldToken.
	KindPendingSecret
	// KindRedacted marks a secret known to be saved server-side; it is
	// display-only and never serializable.
	KindRedacted
)

// Value is a tagged option value. Sentinel strings exist only at the
// serialization boundary; inside the wizard the tag is explicit.
type Value struct {
	kind ValueKind
	data interface{}
}

// Plain wraps a literal value.
func Plain(data interface{}) Value { return Value{kind: KindPlain, data: data} }

// PendingSecret returns the supplied-out-of-band marker.
func PendingSecret() Value { return Value{kind: KindPendingSecret} }

// Redacted returns the display-only saved-secret marker.
func Redacted() Value { return Value{kind: KindRedacted} }

// ValueFromWire lifts a raw configuration value into a tagged one, mapping
// the sentinel strings back to their tags.
func ValueFromWire(raw interface{}) Value {
	switch raw {
	case SensitiveFieldToken:
		return PendingSecret()
	case SavedSecretDisplayValue:
		return Redacted()
	}
	return Plain(raw)
}

// Kind returns the value's tag.
func (v Value) Kind() ValueKind { return v.kind }

// Data returns the literal payload of a plain value, nil otherwise.
func (v Value) Data() interface{} {
	if v.kind != KindPlain {
		return nil
	}
	return v.data
}

// Text renders the plain payload as a string; empty for non-plain values.
func (v Value) Text() string {
	if v.kind != KindPlain || v.data == nil {
		return ""
	}
	return fmt.Sprint(v.data)
}

// IsEmpty reports whether the value carries nothing worth serializing: a nil
// or blank plain payload. Pending and redacted markers are never empty.
func (v Value) IsEmpty() bool {
	if v.kind != KindPlain {
		return false
	}
	return v.data == nil || v.data == ""
}

// wire collapses the value to its serialized form. Redacted values have no
// wire form; the adapter turns them into ErrSentinelMisuse.
func (v Value) wire() (interface{}, error) {
	switch v.kind {
	case KindPendingSecret:
		return SensitiveFieldToken, nil
	case KindRedacted:
		return nil, ErrSentinelMisuse
	}
	return v.data, nil
}
