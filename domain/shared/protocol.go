package shared

import (
	"unicode/utf8"

	pkgerrors "funder/pkg/errors"

	"github.com/google/uuid"
)

// DefaultScope is used wherever a scope is omitted
const DefaultScope = "default"

// TypeKey is the discriminator key carried by every document
const TypeKey = "_type"

// Data is implemented by every concrete model value.
type Data interface {
	// TypeTag returns the _type discriminator written for the value
	TypeTag() string
	// Data returns the JSON tree of the value. It is computed once per
	// instance; callers must not modify it.
	Data() Object
	WriteJSON(w *JSONWriter)
	WriteXML(w *XMLWriter)
	JSON() string
}

// Identified is a Data value that carries its own identifier
type Identified interface {
	Data
	ID() string
}

// Consumer is implemented by builders of the concrete type T.
type Consumer[T any] interface {
	// FromJSON replaces the builder state with the fields of obj. It fails
	// without touching the builder when the discriminator does not match or
	// a required key is missing.
	FromJSON(obj Object) error
	// ToConcrete returns a new concrete value from the current state
	ToConcrete() (T, error)
}

// Mutable is implemented by concrete values. Mutate hands a builder
// populated from the receiver to fn and returns what fn returns; the
// receiver never changes.
type Mutable[B any, T any] interface {
	Mutate(fn func(b B) (T, error)) (T, error)
}

// Consume reads obj into b and converts the result
func Consume[T any](b Consumer[T], obj Object) (T, error) {
	if err := b.FromJSON(obj); err != nil {
		var zero T
		return zero, err
	}
	return b.ToConcrete()
}

// NewID returns a fresh random identifier
func NewID() string {
	return uuid.New().String()
}

// CheckText fails with an argument error naming the first key whose value
// is not valid UTF-8. Arguments alternate key and value.
func CheckText(kv ...string) error {
	for i := 0; i+1 < len(kv); i += 2 {
		if !utf8.ValidString(kv[i+1]) {
			return pkgerrors.NewArgumentError(kv[i]).WithCode("INVALID_UTF8")
		}
	}
	return nil
}
