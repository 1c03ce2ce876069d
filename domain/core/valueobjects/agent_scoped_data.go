package valueobjects

import (
	"encoding/xml"

	"funder/domain/shared"
)

// AgentScopedDataType is the discriminator of AgentScopedData documents
const AgentScopedDataType = "agentScopedData"

// AgentScopedData is ScopedData recorded on behalf of an agent.
type AgentScopedData struct {
	ScopedData
	who string

	memo shared.Memo
}

// NewAgentScopedData creates an AgentScopedData with a generated id
func NewAgentScopedData(parent, who, scope, name, value string) *AgentScopedData {
	return ReconstructAgentScopedData(shared.NewID(), parent, who, scope, name, value)
}

// ReconstructAgentScopedData creates an AgentScopedData from known field values
func ReconstructAgentScopedData(id, parent, who, scope, name, value string) *AgentScopedData {
	return &AgentScopedData{
		ScopedData: ScopedData{id: id, parent: parent, scope: scope, name: name, value: value},
		who:        who,
	}
}

// Who returns the agent the data was recorded for
func (a *AgentScopedData) Who() string { return a.who }

// TypeTag returns "agentScopedData"
func (a *AgentScopedData) TypeTag() string { return AgentScopedDataType }

// Clone returns an equal copy with its own caches
func (a *AgentScopedData) Clone() *AgentScopedData {
	return ReconstructAgentScopedData(a.id, a.parent, a.who, a.scope, a.name, a.value)
}

// Equal extends ScopedData equality with who
func (a *AgentScopedData) Equal(other *AgentScopedData) bool {
	if a == other {
		return true
	}
	if a == nil || other == nil {
		return false
	}
	return a.ScopedData.Equal(&other.ScopedData) && a.who == other.who
}

// Hash folds who into the ScopedData hash
func (a *AgentScopedData) Hash() uint64 {
	return a.memo.Hash(func() uint64 {
		return shared.NewHasher("AgentScopedData").
			Uint64(a.ScopedData.Hash()).
			String(a.who).
			Sum()
	})
}

// Data returns the memoised JSON tree
func (a *AgentScopedData) Data() shared.Object { return a.memo.Tree(a) }

func (a *AgentScopedData) writeJSONContent(w *shared.JSONWriter) {
	a.ScopedData.writeJSONContent(w)
	w.Property("who", a.who)
}

// WriteJSON writes the canonical document
func (a *AgentScopedData) WriteJSON(w *shared.JSONWriter) {
	w.StartObject()
	w.Property(shared.TypeKey, AgentScopedDataType)
	a.writeJSONContent(w)
	w.EndObject()
}

func (a *AgentScopedData) xmlAttrs() []xml.Attr {
	return append(a.ScopedData.xmlAttrs(), shared.Attr("who", a.who))
}

// WriteXML writes an <agent-scoped-data> element
func (a *AgentScopedData) WriteXML(w *shared.XMLWriter) {
	w.StartElement("agent-scoped-data", a.xmlAttrs()...)
	w.EndElement()
}

// JSON renders the canonical document
func (a *AgentScopedData) JSON() string { return shared.RenderJSON(a) }

func (a *AgentScopedData) String() string { return a.JSON() }

// Mutate passes a builder populated from a to fn
func (a *AgentScopedData) Mutate(fn func(b *AgentScopedDataBuilder) (*AgentScopedData, error)) (*AgentScopedData, error) {
	return fn(new(AgentScopedDataBuilder).FromConcrete(a))
}

// AgentScopedDataBuilder is the mutable counterpart of AgentScopedData
type AgentScopedDataBuilder struct {
	ScopedDataBuilder
	Who string
}

// NewAgentScopedDataBuilder returns a builder with a fresh id in the default scope
func NewAgentScopedDataBuilder() *AgentScopedDataBuilder {
	return &AgentScopedDataBuilder{ScopedDataBuilder: *NewScopedDataBuilder()}
}

// FromConcrete copies a into the builder
func (b *AgentScopedDataBuilder) FromConcrete(a *AgentScopedData) *AgentScopedDataBuilder {
	b.ScopedDataBuilder.FromConcrete(&a.ScopedData)
	b.Who = a.who
	return b
}

func (b *AgentScopedDataBuilder) readContent(obj shared.Object) error {
	if err := b.ScopedDataBuilder.readContent(obj); err != nil {
		return err
	}
	var err error
	b.Who, err = obj.String("who")
	return err
}

// FromJSON reads an agentScopedData document
func (b *AgentScopedDataBuilder) FromJSON(obj shared.Object) error {
	if err := obj.CheckType(AgentScopedDataType); err != nil {
		return err
	}
	next := *b
	if err := next.readContent(obj); err != nil {
		return err
	}
	*b = next
	return nil
}

// ToConcrete builds a new AgentScopedData
func (b *AgentScopedDataBuilder) ToConcrete() (*AgentScopedData, error) {
	if err := shared.CheckText("id", b.ID, "for", b.Parent, "who", b.Who, "scope", b.Scope, "name", b.Name, "value", b.Value); err != nil {
		return nil, err
	}
	return ReconstructAgentScopedData(b.ID, b.Parent, b.Who, b.Scope, b.Name, b.Value), nil
}
