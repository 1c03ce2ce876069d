package valueobjects

import (
	"encoding/xml"

	"funder/domain/shared"
)

// ScopedDataType is the discriminator of ScopedData documents
const ScopedDataType = "scopedData"

// ScopedData is a named value attached to a parent under a scope. It is
// the base of AgentScopedData and JournalEntry, which embed it.
type ScopedData struct {
	id     string
	parent string
	scope  string
	name   string
	value  string

	memo shared.Memo
}

// NewScopedData creates a ScopedData with a generated id
func NewScopedData(parent, scope, name, value string) *ScopedData {
	return ReconstructScopedData(shared.NewID(), parent, scope, name, value)
}

// ReconstructScopedData creates a ScopedData from known field values
func ReconstructScopedData(id, parent, scope, name, value string) *ScopedData {
	return &ScopedData{id: id, parent: parent, scope: scope, name: name, value: value}
}

func (s *ScopedData) ID() string     { return s.id }
func (s *ScopedData) Parent() string { return s.parent }
func (s *ScopedData) Scope() string  { return s.scope }
func (s *ScopedData) Name() string   { return s.name }
func (s *ScopedData) Value() string  { return s.value }

// TypeTag returns "scopedData"
func (s *ScopedData) TypeTag() string { return ScopedDataType }

// Clone returns an equal copy with its own caches
func (s *ScopedData) Clone() *ScopedData {
	return ReconstructScopedData(s.id, s.parent, s.scope, s.name, s.value)
}

// Equal reports value equality over all five fields
func (s *ScopedData) Equal(other *ScopedData) bool {
	if s == other {
		return true
	}
	if s == nil || other == nil {
		return false
	}
	return s.id == other.id &&
		s.parent == other.parent &&
		s.scope == other.scope &&
		s.name == other.name &&
		s.value == other.value
}

// Hash returns the memoised structural hash
func (s *ScopedData) Hash() uint64 {
	return s.memo.Hash(func() uint64 {
		return shared.NewHasher("ScopedData").
			String(s.id).
			String(s.parent).
			String(s.scope).
			String(s.name).
			String(s.value).
			Sum()
	})
}

// Data returns the memoised JSON tree
func (s *ScopedData) Data() shared.Object { return s.memo.Tree(s) }

func (s *ScopedData) writeJSONContent(w *shared.JSONWriter) {
	w.Property("id", s.id)
	w.Property("for", s.parent)
	w.Property("scope", s.scope)
	w.Property("name", s.name)
	w.Property("value", s.value)
}

// WriteJSON writes the canonical document
func (s *ScopedData) WriteJSON(w *shared.JSONWriter) {
	w.StartObject()
	w.Property(shared.TypeKey, ScopedDataType)
	s.writeJSONContent(w)
	w.EndObject()
}

func (s *ScopedData) xmlAttrs() []xml.Attr {
	return []xml.Attr{
		shared.Attr("id", s.id),
		shared.Attr("for", s.parent),
		shared.Attr("scope", s.scope),
		shared.Attr("name", s.name),
		shared.Attr("value", s.value),
	}
}

// WriteXML writes a <scoped-data> element
func (s *ScopedData) WriteXML(w *shared.XMLWriter) {
	w.StartElement("scoped-data", s.xmlAttrs()...)
	w.EndElement()
}

// JSON renders the canonical document
func (s *ScopedData) JSON() string { return shared.RenderJSON(s) }

func (s *ScopedData) String() string { return s.JSON() }

// Mutate passes a builder populated from s to fn
func (s *ScopedData) Mutate(fn func(b *ScopedDataBuilder) (*ScopedData, error)) (*ScopedData, error) {
	return fn(new(ScopedDataBuilder).FromConcrete(s))
}

// ScopedDataBuilder is the mutable counterpart of ScopedData
type ScopedDataBuilder struct {
	ID     string
	Parent string
	Scope  string
	Name   string
	Value  string
}

// NewScopedDataBuilder returns a builder with a fresh id in the default scope
func NewScopedDataBuilder() *ScopedDataBuilder {
	return &ScopedDataBuilder{ID: shared.NewID(), Scope: shared.DefaultScope}
}

// FromConcrete copies s into the builder
func (b *ScopedDataBuilder) FromConcrete(s *ScopedData) *ScopedDataBuilder {
	b.ID = s.id
	b.Parent = s.parent
	b.Scope = s.scope
	b.Name = s.name
	b.Value = s.value
	return b
}

func (b *ScopedDataBuilder) readContent(obj shared.Object) error {
	var err error
	if b.ID, err = obj.String("id"); err != nil {
		return err
	}
	if b.Parent, err = obj.String("for"); err != nil {
		return err
	}
	if b.Scope, err = obj.StringOr("scope", shared.DefaultScope); err != nil {
		return err
	}
	if b.Name, err = obj.String("name"); err != nil {
		return err
	}
	if b.Value, err = obj.String("value"); err != nil {
		return err
	}
	return nil
}

// FromJSON reads a scopedData document. scope may be omitted.
func (b *ScopedDataBuilder) FromJSON(obj shared.Object) error {
	if err := obj.CheckType(ScopedDataType); err != nil {
		return err
	}
	next := *b
	if err := next.readContent(obj); err != nil {
		return err
	}
	*b = next
	return nil
}

// ToConcrete builds a new ScopedData
func (b *ScopedDataBuilder) ToConcrete() (*ScopedData, error) {
	if err := shared.CheckText("id", b.ID, "for", b.Parent, "scope", b.Scope, "name", b.Name, "value", b.Value); err != nil {
		return nil, err
	}
	return ReconstructScopedData(b.ID, b.Parent, b.Scope, b.Name, b.Value), nil
}
