package valueobjects

import (
	"encoding/xml"

	"funder/domain/shared"
)

// MetadataType is the discriminator of Metadata documents
const MetadataType = "metadata"

// Metadata is a scoped name/value fact attached to a parent entity.
type Metadata struct {
	parent string
	scope  string
	name   string
	value  string

	memo shared.Memo
}

// NewMetadata creates a Metadata value
func NewMetadata(parent, scope, name, value string) *Metadata {
	return &Metadata{parent: parent, scope: scope, name: name, value: value}
}

// NewDefaultMetadata creates a Metadata value in the default scope
func NewDefaultMetadata(parent, name, value string) *Metadata {
	return NewMetadata(parent, shared.DefaultScope, name, value)
}

func (m *Metadata) Parent() string { return m.parent }
func (m *Metadata) Scope() string  { return m.scope }
func (m *Metadata) Name() string   { return m.name }
func (m *Metadata) Value() string  { return m.value }

// TypeTag returns "metadata"
func (m *Metadata) TypeTag() string { return MetadataType }

// Clone returns an equal copy with its own caches
func (m *Metadata) Clone() *Metadata {
	return NewMetadata(m.parent, m.scope, m.name, m.value)
}

// Equal reports value equality over all four fields
func (m *Metadata) Equal(other *Metadata) bool {
	if m == other {
		return true
	}
	if m == nil || other == nil {
		return false
	}
	return m.parent == other.parent &&
		m.scope == other.scope &&
		m.name == other.name &&
		m.value == other.value
}

// Hash returns the memoised structural hash
func (m *Metadata) Hash() uint64 {
	return m.memo.Hash(func() uint64 {
		return shared.NewHasher("Metadata").
			String(m.parent).
			String(m.scope).
			String(m.name).
			String(m.value).
			Sum()
	})
}

// Data returns the memoised JSON tree
func (m *Metadata) Data() shared.Object { return m.memo.Tree(m) }

// WriteJSON writes the canonical document
func (m *Metadata) WriteJSON(w *shared.JSONWriter) {
	w.StartObject()
	w.Property(shared.TypeKey, MetadataType)
	w.Property("parent", m.parent)
	w.Property("scope", m.scope)
	w.Property("name", m.name)
	w.Property("value", m.value)
	w.EndObject()
}

func (m *Metadata) xmlAttrs() []xml.Attr {
	return []xml.Attr{
		shared.Attr("parent", m.parent),
		shared.Attr("scope", m.scope),
		shared.Attr("name", m.name),
		shared.Attr("value", m.value),
	}
}

// WriteXML writes a <metadata> element
func (m *Metadata) WriteXML(w *shared.XMLWriter) {
	w.StartElement("metadata", m.xmlAttrs()...)
	w.EndElement()
}

// JSON renders the canonical document
func (m *Metadata) JSON() string { return shared.RenderJSON(m) }

func (m *Metadata) String() string { return m.JSON() }

// Mutate passes a builder populated from m to fn
func (m *Metadata) Mutate(fn func(b *MetadataBuilder) (*Metadata, error)) (*Metadata, error) {
	return fn(new(MetadataBuilder).FromConcrete(m))
}

// MetadataBuilder is the mutable counterpart of Metadata
type MetadataBuilder struct {
	Parent string
	Scope  string
	Name   string
	Value  string
}

// NewMetadataBuilder returns an empty builder in the default scope
func NewMetadataBuilder() *MetadataBuilder {
	return &MetadataBuilder{Scope: shared.DefaultScope}
}

// FromConcrete copies m into the builder
func (b *MetadataBuilder) FromConcrete(m *Metadata) *MetadataBuilder {
	b.Parent = m.parent
	b.Scope = m.scope
	b.Name = m.name
	b.Value = m.value
	return b
}

// FromJSON reads a metadata document. scope may be omitted.
func (b *MetadataBuilder) FromJSON(obj shared.Object) error {
	if err := obj.CheckType(MetadataType); err != nil {
		return err
	}

	var next MetadataBuilder
	var err error
	if next.Parent, err = obj.String("parent"); err != nil {
		return err
	}
	if next.Scope, err = obj.StringOr("scope", shared.DefaultScope); err != nil {
		return err
	}
	if next.Name, err = obj.String("name"); err != nil {
		return err
	}
	if next.Value, err = obj.String("value"); err != nil {
		return err
	}

	*b = next
	return nil
}

// ToConcrete builds a new Metadata
func (b *MetadataBuilder) ToConcrete() (*Metadata, error) {
	if err := shared.CheckText("parent", b.Parent, "scope", b.Scope, "name", b.Name, "value", b.Value); err != nil {
		return nil, err
	}
	return NewMetadata(b.Parent, b.Scope, b.Name, b.Value), nil
}

// MetadataBuilders returns a builder per item
func MetadataBuilders(items []*Metadata) []*MetadataBuilder {
	builders := make([]*MetadataBuilder, 0, len(items))
	for _, item := range items {
		builders = append(builders, new(MetadataBuilder).FromConcrete(item))
	}
	return builders
}

// MetadataSet converts builders into a frozen set. Value-equal builders
// collapse into one item.
func MetadataSet(builders []*MetadataBuilder) (shared.Set[*Metadata], error) {
	return shared.BuildSet[*Metadata](builders)
}

// ReadMetadataBuilders reads the metadata array stored under key
func ReadMetadataBuilders(obj shared.Object, key string) ([]*MetadataBuilder, error) {
	return shared.ReadBuilders(obj, key, NewMetadataBuilder)
}
