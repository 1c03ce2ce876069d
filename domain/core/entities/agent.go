package entities

import (
	"funder/domain/core/valueobjects"
	"funder/domain/shared"
)

// AgentType is the discriminator of Agent documents
const AgentType = "agent"

// Agent is a person or organisation taking part in funding. Names,
// contacts and addresses are sets of Metadata compared without regard to
// order.
type Agent struct {
	Node
	names     shared.Set[*valueobjects.Metadata]
	contacts  shared.Set[*valueobjects.Metadata]
	addresses shared.Set[*valueobjects.Metadata]

	memo shared.Memo
}

// NewAgent creates an agent with a generated id. Any collection may be nil.
func NewAgent(metadata, names, contacts, addresses []*valueobjects.Metadata) *Agent {
	return ReconstructAgent(shared.NewID(), metadata, names, contacts, addresses)
}

// ReconstructAgent creates an agent from known values
func ReconstructAgent(id string, metadata, names, contacts, addresses []*valueobjects.Metadata) *Agent {
	return &Agent{
		Node:      Node{id: id, metadata: shared.NewSet(metadata...)},
		names:     shared.NewSet(names...),
		contacts:  shared.NewSet(contacts...),
		addresses: shared.NewSet(addresses...),
	}
}

// Names returns the agent's names in insertion order
func (a *Agent) Names() []*valueobjects.Metadata { return a.names.Items() }

// Contacts returns the agent's contacts in insertion order
func (a *Agent) Contacts() []*valueobjects.Metadata { return a.contacts.Items() }

// Addresses returns the agent's addresses in insertion order
func (a *Agent) Addresses() []*valueobjects.Metadata { return a.addresses.Items() }

// TypeTag returns "agent"
func (a *Agent) TypeTag() string { return AgentType }

// Clone returns an equal copy with its own caches
func (a *Agent) Clone() *Agent {
	return &Agent{
		Node:      Node{id: a.id, metadata: a.metadata},
		names:     a.names,
		contacts:  a.contacts,
		addresses: a.addresses,
	}
}

// Equal extends Node equality with set equality of the three collections
func (a *Agent) Equal(other *Agent) bool {
	if a == other {
		return true
	}
	if a == nil || other == nil {
		return false
	}
	return a.Node.Equal(&other.Node) &&
		a.names.Equal(other.names) &&
		a.contacts.Equal(other.contacts) &&
		a.addresses.Equal(other.addresses)
}

// Hash folds the collections into the Node hash
func (a *Agent) Hash() uint64 {
	return a.memo.Hash(func() uint64 {
		return shared.NewHasher("Agent").
			Uint64(a.Node.Hash()).
			Uint64(a.names.Hash()).
			Uint64(a.contacts.Hash()).
			Uint64(a.addresses.Hash()).
			Sum()
	})
}

// Data returns the memoised JSON tree
func (a *Agent) Data() shared.Object { return a.memo.Tree(a) }

// WriteJSON writes the canonical document
func (a *Agent) WriteJSON(w *shared.JSONWriter) {
	w.StartObject()
	w.Property(shared.TypeKey, AgentType)
	a.Node.writeJSONContent(w)
	shared.WriteJSONArray(w, "names", a.names)
	shared.WriteJSONArray(w, "contacts", a.contacts)
	shared.WriteJSONArray(w, "addresses", a.addresses)
	w.EndObject()
}

// WriteXML writes an <agent> element with one wrapper per collection
func (a *Agent) WriteXML(w *shared.XMLWriter) {
	w.StartElement("agent", shared.Attr("id", a.id))
	a.Node.writeXMLContent(w)
	shared.WriteXMLElements(w, "names", a.names)
	shared.WriteXMLElements(w, "contacts", a.contacts)
	shared.WriteXMLElements(w, "addresses", a.addresses)
	w.EndElement()
}

// JSON renders the canonical document
func (a *Agent) JSON() string { return shared.RenderJSON(a) }

func (a *Agent) String() string { return a.JSON() }

// Mutate passes a builder populated from a to fn
func (a *Agent) Mutate(fn func(b *AgentBuilder) (*Agent, error)) (*Agent, error) {
	return fn(new(AgentBuilder).FromConcrete(a))
}

// AgentBuilder is the mutable counterpart of Agent
type AgentBuilder struct {
	NodeBuilder
	Names     []*valueobjects.MetadataBuilder
	Contacts  []*valueobjects.MetadataBuilder
	Addresses []*valueobjects.MetadataBuilder
}

// NewAgentBuilder returns a builder with a fresh id and empty collections
func NewAgentBuilder() *AgentBuilder {
	return &AgentBuilder{NodeBuilder: *NewNodeBuilder()}
}

// FromConcrete copies a into the builder
func (b *AgentBuilder) FromConcrete(a *Agent) *AgentBuilder {
	b.NodeBuilder.FromConcrete(&a.Node)
	b.Names = valueobjects.MetadataBuilders(a.names.Items())
	b.Contacts = valueobjects.MetadataBuilders(a.contacts.Items())
	b.Addresses = valueobjects.MetadataBuilders(a.addresses.Items())
	return b
}

// FromJSON reads an agent document
func (b *AgentBuilder) FromJSON(obj shared.Object) error {
	if err := obj.CheckType(AgentType); err != nil {
		return err
	}

	next := *b
	if err := next.NodeBuilder.readContent(obj); err != nil {
		return err
	}
	var err error
	if next.Names, err = valueobjects.ReadMetadataBuilders(obj, "names"); err != nil {
		return err
	}
	if next.Contacts, err = valueobjects.ReadMetadataBuilders(obj, "contacts"); err != nil {
		return err
	}
	if next.Addresses, err = valueobjects.ReadMetadataBuilders(obj, "addresses"); err != nil {
		return err
	}

	*b = next
	return nil
}

// ToConcrete builds a new Agent; value-equal collection items collapse
func (b *AgentBuilder) ToConcrete() (*Agent, error) {
	if err := shared.CheckText("id", b.ID); err != nil {
		return nil, err
	}
	metadata, err := valueobjects.MetadataSet(b.Metadata)
	if err != nil {
		return nil, err
	}
	names, err := valueobjects.MetadataSet(b.Names)
	if err != nil {
		return nil, err
	}
	contacts, err := valueobjects.MetadataSet(b.Contacts)
	if err != nil {
		return nil, err
	}
	addresses, err := valueobjects.MetadataSet(b.Addresses)
	if err != nil {
		return nil, err
	}

	return &Agent{
		Node:      Node{id: b.ID, metadata: metadata},
		names:     names,
		contacts:  contacts,
		addresses: addresses,
	}, nil
}
