package shared

import "reflect"

// Element is a value that can live in a Set
type Element[T any] interface {
	Hash() uint64
	Equal(other T) bool
}

// Set is a frozen collection, duplicate-free by value equality. Items keep
// the order of first insertion for rendering, but equality and hashing
// ignore it.
type Set[T Element[T]] struct {
	items []T
}

// NewSet builds a set, dropping nil items and value-equal duplicates
func NewSet[T Element[T]](items ...T) Set[T] {
	buckets := make(map[uint64][]T, len(items))
	kept := make([]T, 0, len(items))

	for _, item := range items {
		if isNil(item) {
			continue
		}
		h := item.Hash()
		if containsEqual(buckets[h], item) {
			continue
		}
		buckets[h] = append(buckets[h], item)
		kept = append(kept, item)
	}
	return Set[T]{items: kept}
}

// Len returns the number of items
func (s Set[T]) Len() int {
	return len(s.items)
}

// Items returns a copy of the items in insertion order
func (s Set[T]) Items() []T {
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

// Contains reports whether a value-equal item is present
func (s Set[T]) Contains(item T) bool {
	if isNil(item) {
		return false
	}
	for _, existing := range s.items {
		if existing.Equal(item) {
			return true
		}
	}
	return false
}

// Equal reports whether both sets hold the same values in any order
func (s Set[T]) Equal(other Set[T]) bool {
	if len(s.items) != len(other.items) {
		return false
	}
	for _, item := range s.items {
		if !other.Contains(item) {
			return false
		}
	}
	return true
}

// Hash combines item hashes independently of order
func (s Set[T]) Hash() uint64 {
	var sum, xor uint64
	for _, item := range s.items {
		h := item.Hash()
		sum += h
		xor ^= h
	}
	return sum*31 + xor
}

func containsEqual[T Element[T]](items []T, item T) bool {
	for _, existing := range items {
		if existing.Equal(item) {
			return true
		}
	}
	return false
}

func isNil[T any](item T) bool {
	v := reflect.ValueOf(any(item))
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return v.IsNil()
	}
	return false
}

// BuildSet converts every non-nil builder and collects the results
func BuildSet[T Element[T], B interface{ ToConcrete() (T, error) }](builders []B) (Set[T], error) {
	items := make([]T, 0, len(builders))
	for _, b := range builders {
		if isNil(b) {
			continue
		}
		item, err := b.ToConcrete()
		if err != nil {
			return Set[T]{}, err
		}
		items = append(items, item)
	}
	return NewSet(items...), nil
}

// ReadBuilders reads the array at key into one fresh builder per element
func ReadBuilders[B interface{ FromJSON(Object) error }](obj Object, key string, newBuilder func() B) ([]B, error) {
	objs, err := obj.Objects(key)
	if err != nil {
		return nil, err
	}
	builders := make([]B, 0, len(objs))
	for _, o := range objs {
		b := newBuilder()
		if err := b.FromJSON(o); err != nil {
			return nil, err
		}
		builders = append(builders, b)
	}
	return builders, nil
}

// WriteJSONArray writes the items of s as a named array
func WriteJSONArray[T interface {
	Element[T]
	WriteJSON(*JSONWriter)
}](w *JSONWriter, name string, s Set[T]) {
	w.PropertyName(name)
	w.StartArray()
	for _, item := range s.items {
		item.WriteJSON(w)
	}
	w.EndArray()
}

// WriteXMLElements writes the items of s inside a wrapper element
func WriteXMLElements[T interface {
	Element[T]
	WriteXML(*XMLWriter)
}](w *XMLWriter, wrapper string, s Set[T]) {
	w.StartElement(wrapper)
	for _, item := range s.items {
		item.WriteXML(w)
	}
	w.EndElement()
}
