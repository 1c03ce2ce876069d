package shared

import (
	"encoding/json"
	"fmt"
	"time"

	pkgerrors "funder/pkg/errors"
	"funder/pkg/utils"

	"github.com/shopspring/decimal"
)

// Object is the tree form of a JSON document
type Object map[string]any

// ParseObject parses a single JSON object
func ParseObject(data []byte) (Object, error) {
	var obj Object
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, pkgerrors.NewReadError("document", err)
	}
	if obj == nil {
		return nil, pkgerrors.NewReadError("document", fmt.Errorf("document is not an object"))
	}
	return obj, nil
}

// Type returns the discriminator, or "" when there is none
func (o Object) Type() string {
	tag, _ := o[TypeKey].(string)
	return tag
}

// CheckType fails with a type mismatch unless the discriminator equals tag
func (o Object) CheckType(tag string) error {
	if actual := o.Type(); actual != tag {
		return pkgerrors.NewTypeMismatchError(tag, actual)
	}
	return nil
}

// String reads a required string
func (o Object) String(key string) (string, error) {
	raw, ok := o[key]
	if !ok {
		return "", pkgerrors.NewReadError(key, fmt.Errorf("key is missing"))
	}
	s, ok := raw.(string)
	if !ok {
		return "", pkgerrors.NewReadError(key, fmt.Errorf("expected a string, got %T", raw))
	}
	return s, nil
}

// StringOr reads an optional string, returning fallback when key is absent
func (o Object) StringOr(key, fallback string) (string, error) {
	if _, ok := o[key]; !ok {
		return fallback, nil
	}
	return o.String(key)
}

// Time reads a required date-time string
func (o Object) Time(key string) (time.Time, error) {
	s, err := o.String(key)
	if err != nil {
		return time.Time{}, err
	}
	t, err := utils.ParseTime(s)
	if err != nil {
		return time.Time{}, pkgerrors.NewReadError(key, err)
	}
	return t, nil
}

// Decimal reads a required decimal written as a string
func (o Object) Decimal(key string) (decimal.Decimal, error) {
	s, err := o.String(key)
	if err != nil {
		return decimal.Zero, err
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, pkgerrors.NewReadError(key, err)
	}
	return d, nil
}

// Objects reads a required array of objects
func (o Object) Objects(key string) ([]Object, error) {
	raw, ok := o[key]
	if !ok {
		return nil, pkgerrors.NewReadError(key, fmt.Errorf("key is missing"))
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, pkgerrors.NewReadError(key, fmt.Errorf("expected an array, got %T", raw))
	}

	objects := make([]Object, 0, len(items))
	for i, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, pkgerrors.NewReadError(fmt.Sprintf("%s[%d]", key, i), fmt.Errorf("expected an object, got %T", item))
		}
		objects = append(objects, Object(m))
	}
	return objects, nil
}

// Bytes renders the tree as JSON. Keys come out sorted; use the value's
// own JSON method for canonical field order.
func (o Object) Bytes() []byte {
	data, err := json.Marshal(map[string]any(o))
	if err != nil {
		return nil
	}
	return data
}

// treeOf renders d and parses the result back into a tree
func treeOf(d interface{ WriteJSON(*JSONWriter) }) Object {
	w := NewJSONWriter()
	d.WriteJSON(w)
	obj, err := ParseObject(w.Bytes())
	if err != nil {
		// the writer only produces well formed objects
		panic(err)
	}
	return obj
}

// RenderJSON renders d to a JSON string in canonical field order
func RenderJSON(d interface{ WriteJSON(*JSONWriter) }) string {
	w := NewJSONWriter()
	d.WriteJSON(w)
	return w.String()
}
