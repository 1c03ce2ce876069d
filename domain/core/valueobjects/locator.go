package valueobjects

import (
	"encoding/xml"

	"funder/domain/core/validators"
	"funder/domain/shared"
)

// LocatorType is the discriminator of Locator documents
const LocatorType = "locator"

// Locator maps a role to an external reference for its parent, e.g. a
// "website" role to a URL.
type Locator struct {
	id        string
	parent    string
	scope     string
	role      string
	reference string

	memo shared.Memo
}

// NewLocator creates a Locator with a generated id
func NewLocator(parent, scope, role, reference string) (*Locator, error) {
	return ReconstructLocator(shared.NewID(), parent, scope, role, reference)
}

// ReconstructLocator creates a Locator from known field values. Every
// field is required.
func ReconstructLocator(id, parent, scope, role, reference string) (*Locator, error) {
	fields := validators.LocatorFields{
		ID:        id,
		Parent:    parent,
		Scope:     scope,
		Role:      role,
		Reference: reference,
	}
	if err := validators.ValidateLocator(fields); err != nil {
		return nil, err
	}
	return &Locator{id: id, parent: parent, scope: scope, role: role, reference: reference}, nil
}

func (l *Locator) ID() string        { return l.id }
func (l *Locator) Parent() string    { return l.parent }
func (l *Locator) Scope() string     { return l.scope }
func (l *Locator) Role() string      { return l.role }
func (l *Locator) Reference() string { return l.reference }

// TypeTag returns "locator"
func (l *Locator) TypeTag() string { return LocatorType }

// Clone returns an equal copy with its own caches
func (l *Locator) Clone() *Locator {
	return &Locator{id: l.id, parent: l.parent, scope: l.scope, role: l.role, reference: l.reference}
}

// Equal reports value equality over all five fields
func (l *Locator) Equal(other *Locator) bool {
	if l == other {
		return true
	}
	if l == nil || other == nil {
		return false
	}
	return l.id == other.id &&
		l.parent == other.parent &&
		l.scope == other.scope &&
		l.role == other.role &&
		l.reference == other.reference
}

// Hash returns the memoised structural hash
func (l *Locator) Hash() uint64 {
	return l.memo.Hash(func() uint64 {
		return shared.NewHasher("Locator").
			String(l.id).
			String(l.parent).
			String(l.scope).
			String(l.role).
			String(l.reference).
			Sum()
	})
}

// Data returns the memoised JSON tree
func (l *Locator) Data() shared.Object { return l.memo.Tree(l) }

// WriteJSON writes the canonical document
func (l *Locator) WriteJSON(w *shared.JSONWriter) {
	w.StartObject()
	w.Property(shared.TypeKey, LocatorType)
	w.Property("id", l.id)
	w.Property("parent", l.parent)
	w.Property("scope", l.scope)
	w.Property("role", l.role)
	w.Property("reference", l.reference)
	w.EndObject()
}

func (l *Locator) xmlAttrs() []xml.Attr {
	return []xml.Attr{
		shared.Attr("id", l.id),
		shared.Attr("parent", l.parent),
		shared.Attr("scope", l.scope),
		shared.Attr("role", l.role),
		shared.Attr("reference", l.reference),
	}
}

// WriteXML writes a <locator> element
func (l *Locator) WriteXML(w *shared.XMLWriter) {
	w.StartElement("locator", l.xmlAttrs()...)
	w.EndElement()
}

// JSON renders the canonical document
func (l *Locator) JSON() string { return shared.RenderJSON(l) }

func (l *Locator) String() string { return l.JSON() }

// Mutate passes a builder populated from l to fn
func (l *Locator) Mutate(fn func(b *LocatorBuilder) (*Locator, error)) (*Locator, error) {
	return fn(new(LocatorBuilder).FromConcrete(l))
}

// LocatorBuilder is the mutable counterpart of Locator
type LocatorBuilder struct {
	ID        string
	Parent    string
	Scope     string
	Role      string
	Reference string
}

// NewLocatorBuilder returns a builder with a fresh id in the default scope
func NewLocatorBuilder() *LocatorBuilder {
	return &LocatorBuilder{ID: shared.NewID(), Scope: shared.DefaultScope}
}

// FromConcrete copies l into the builder
func (b *LocatorBuilder) FromConcrete(l *Locator) *LocatorBuilder {
	b.ID = l.id
	b.Parent = l.parent
	b.Scope = l.scope
	b.Role = l.role
	b.Reference = l.reference
	return b
}

// FromJSON reads a locator document. scope may be omitted.
func (b *LocatorBuilder) FromJSON(obj shared.Object) error {
	if err := obj.CheckType(LocatorType); err != nil {
		return err
	}

	var next LocatorBuilder
	var err error
	if next.ID, err = obj.String("id"); err != nil {
		return err
	}
	if next.Parent, err = obj.String("parent"); err != nil {
		return err
	}
	if next.Scope, err = obj.StringOr("scope", shared.DefaultScope); err != nil {
		return err
	}
	if next.Role, err = obj.String("role"); err != nil {
		return err
	}
	if next.Reference, err = obj.String("reference"); err != nil {
		return err
	}

	*b = next
	return nil
}

// ToConcrete builds a new Locator, failing when a field is empty
func (b *LocatorBuilder) ToConcrete() (*Locator, error) {
	if err := shared.CheckText("id", b.ID, "parent", b.Parent, "scope", b.Scope, "role", b.Role, "reference", b.Reference); err != nil {
		return nil, err
	}
	return ReconstructLocator(b.ID, b.Parent, b.Scope, b.Role, b.Reference)
}

// LocatorSet converts builders into a frozen set
func LocatorSet(builders []*LocatorBuilder) (shared.Set[*Locator], error) {
	return shared.BuildSet[*Locator](builders)
}

// LocatorBuilders returns a builder per item
func LocatorBuilders(items []*Locator) []*LocatorBuilder {
	builders := make([]*LocatorBuilder, 0, len(items))
	for _, item := range items {
		builders = append(builders, new(LocatorBuilder).FromConcrete(item))
	}
	return builders
}
