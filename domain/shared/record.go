package shared

import (
	"time"

	"funder/pkg/utils"

	"github.com/shopspring/decimal"
)

// Record is a read-only view of a stored row. Every reader returns the
// zero value of its type when the named field is absent or null.
type Record interface {
	HasField(name string) bool
	ReadString(name string) string
	ReadInt(name string) int
	ReadInt64(name string) int64
	ReadBool(name string) bool
	ReadDecimal(name string) decimal.Decimal
	ReadTime(name string) time.Time
	ReadTimeOrNil(name string) *time.Time
}

// MapRecord is a Record over plain Go values, as produced by decoding a
// row into a map. Strings are converted where the reader expects a number,
// decimal or timestamp.
type MapRecord map[string]any

// HasField reports whether name is present and not nil
func (r MapRecord) HasField(name string) bool {
	v, ok := r[name]
	return ok && v != nil
}

// ReadString reads a string field
func (r MapRecord) ReadString(name string) string {
	s, _ := r[name].(string)
	return s
}

// ReadInt reads an int field
func (r MapRecord) ReadInt(name string) int {
	return int(r.ReadInt64(name))
}

// ReadInt64 reads an integer field
func (r MapRecord) ReadInt64(name string) int64 {
	switch v := r[name].(type) {
	case int:
		return int64(v)
	case int64:
		return v
	case float64:
		return int64(v)
	}
	return 0
}

// ReadBool reads a boolean field
func (r MapRecord) ReadBool(name string) bool {
	b, _ := r[name].(bool)
	return b
}

// ReadDecimal reads a decimal field
func (r MapRecord) ReadDecimal(name string) decimal.Decimal {
	switch v := r[name].(type) {
	case decimal.Decimal:
		return v
	case string:
		if d, err := decimal.NewFromString(v); err == nil {
			return d
		}
	case float64:
		return decimal.NewFromFloat(v)
	case int64:
		return decimal.NewFromInt(v)
	}
	return decimal.Zero
}

// ReadTime reads a timestamp field
func (r MapRecord) ReadTime(name string) time.Time {
	if t := r.ReadTimeOrNil(name); t != nil {
		return *t
	}
	return time.Time{}
}

// ReadTimeOrNil reads a timestamp field, or nil when it is absent
func (r MapRecord) ReadTimeOrNil(name string) *time.Time {
	switch v := r[name].(type) {
	case time.Time:
		t := utils.NormalizeTime(v)
		return &t
	case string:
		if t, err := utils.ParseTime(v); err == nil {
			return &t
		}
	}
	return nil
}
