package shared

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"io"
)

// JSONWriter writes a JSON document token by token, keeping the order in
// which properties are written.
type JSONWriter struct {
	buf       bytes.Buffer
	stack     []int // values written per open container
	afterName bool
}

// NewJSONWriter creates an empty writer
func NewJSONWriter() *JSONWriter {
	return &JSONWriter{}
}

func (w *JSONWriter) separate() {
	if w.afterName {
		w.afterName = false
		return
	}
	if n := len(w.stack); n > 0 {
		if w.stack[n-1] > 0 {
			w.buf.WriteByte(',')
		}
		w.stack[n-1]++
	}
}

func (w *JSONWriter) writeString(s string) {
	var quoted bytes.Buffer
	enc := json.NewEncoder(&quoted)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	w.buf.Write(bytes.TrimSuffix(quoted.Bytes(), []byte("\n")))
}

// StartObject opens an object
func (w *JSONWriter) StartObject() {
	w.separate()
	w.buf.WriteByte('{')
	w.stack = append(w.stack, 0)
}

// EndObject closes the innermost object
func (w *JSONWriter) EndObject() {
	w.stack = w.stack[:len(w.stack)-1]
	w.buf.WriteByte('}')
}

// StartArray opens an array
func (w *JSONWriter) StartArray() {
	w.separate()
	w.buf.WriteByte('[')
	w.stack = append(w.stack, 0)
}

// EndArray closes the innermost array
func (w *JSONWriter) EndArray() {
	w.stack = w.stack[:len(w.stack)-1]
	w.buf.WriteByte(']')
}

// PropertyName writes the name of the next property
func (w *JSONWriter) PropertyName(name string) {
	w.separate()
	w.writeString(name)
	w.buf.WriteByte(':')
	w.afterName = true
}

// StringValue writes a string value
func (w *JSONWriter) StringValue(value string) {
	w.separate()
	w.writeString(value)
}

// Property writes a string property
func (w *JSONWriter) Property(name, value string) {
	w.PropertyName(name)
	w.StringValue(value)
}

// Bytes returns the document written so far
func (w *JSONWriter) Bytes() []byte {
	return w.buf.Bytes()
}

// String returns the document written so far
func (w *JSONWriter) String() string {
	return w.buf.String()
}

// XMLWriter wraps an xml.Encoder. The first error is kept and every later
// call is a no-op, so model code can write elements without checking each
// step; Flush reports it.
type XMLWriter struct {
	enc   *xml.Encoder
	stack []xml.Name
	err   error
}

// NewXMLWriter creates a writer over out
func NewXMLWriter(out io.Writer) *XMLWriter {
	return &XMLWriter{enc: xml.NewEncoder(out)}
}

// Indent sets the encoder indentation
func (w *XMLWriter) Indent(prefix, indent string) {
	w.enc.Indent(prefix, indent)
}

// StartElement opens an element with the given attributes
func (w *XMLWriter) StartElement(name string, attrs ...xml.Attr) {
	if w.err != nil {
		return
	}
	start := xml.StartElement{Name: xml.Name{Local: name}, Attr: attrs}
	w.err = w.enc.EncodeToken(start)
	w.stack = append(w.stack, start.Name)
}

// EndElement closes the innermost element
func (w *XMLWriter) EndElement() {
	if w.err != nil {
		return
	}
	if len(w.stack) == 0 {
		w.err = io.ErrUnexpectedEOF
		return
	}
	name := w.stack[len(w.stack)-1]
	w.stack = w.stack[:len(w.stack)-1]
	w.err = w.enc.EncodeToken(xml.EndElement{Name: name})
}

// Flush flushes the encoder and returns the first error seen
func (w *XMLWriter) Flush() error {
	if w.err != nil {
		return w.err
	}
	return w.enc.Flush()
}

// Attr builds an attribute
func Attr(name, value string) xml.Attr {
	return xml.Attr{Name: xml.Name{Local: name}, Value: value}
}

// RenderXML renders d as a standalone XML fragment
func RenderXML(d interface{ WriteXML(*XMLWriter) }) (string, error) {
	var buf bytes.Buffer
	w := NewXMLWriter(&buf)
	d.WriteXML(w)
	if err := w.Flush(); err != nil {
		return "", err
	}
	return buf.String(), nil
}
