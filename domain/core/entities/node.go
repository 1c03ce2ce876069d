package entities

import (
	"funder/domain/core/valueobjects"
	"funder/domain/shared"
)

// NodeType is the discriminator of Node documents
const NodeType = "node"

// Node is an identified entity carrying a set of Metadata. Agent and
// Project embed it.
type Node struct {
	id       string
	metadata shared.Set[*valueobjects.Metadata]

	memo shared.Memo
}

// NewNode creates a node with a generated id
func NewNode(metadata ...*valueobjects.Metadata) *Node {
	return ReconstructNode(shared.NewID(), metadata)
}

// ReconstructNode creates a node from known values. Value-equal metadata
// items collapse into one.
func ReconstructNode(id string, metadata []*valueobjects.Metadata) *Node {
	return &Node{id: id, metadata: shared.NewSet(metadata...)}
}

// ID returns the node's identifier
func (n *Node) ID() string {
	return n.id
}

// Metadata returns the node's metadata in insertion order
func (n *Node) Metadata() []*valueobjects.Metadata {
	return n.metadata.Items()
}

// MetadataNamed returns every metadata item with the given name
func (n *Node) MetadataNamed(name string) []*valueobjects.Metadata {
	var found []*valueobjects.Metadata
	for _, m := range n.metadata.Items() {
		if m.Name() == name {
			found = append(found, m)
		}
	}
	return found
}

// TypeTag returns "node"
func (n *Node) TypeTag() string { return NodeType }

// Clone returns an equal copy with its own caches
func (n *Node) Clone() *Node {
	return &Node{id: n.id, metadata: n.metadata}
}

// Equal compares ids and metadata sets. Metadata order is irrelevant.
func (n *Node) Equal(other *Node) bool {
	if n == other {
		return true
	}
	if n == nil || other == nil {
		return false
	}
	return n.id == other.id && n.metadata.Equal(other.metadata)
}

// Hash returns the memoised structural hash
func (n *Node) Hash() uint64 {
	return n.memo.Hash(func() uint64 {
		return shared.NewHasher("Node").
			String(n.id).
			Uint64(n.metadata.Hash()).
			Sum()
	})
}

// Data returns the memoised JSON tree
func (n *Node) Data() shared.Object { return n.memo.Tree(n) }

func (n *Node) writeJSONContent(w *shared.JSONWriter) {
	w.Property("id", n.id)
	shared.WriteJSONArray(w, "metadata", n.metadata)
}

// WriteJSON writes the canonical document
func (n *Node) WriteJSON(w *shared.JSONWriter) {
	w.StartObject()
	w.Property(shared.TypeKey, NodeType)
	n.writeJSONContent(w)
	w.EndObject()
}

func (n *Node) writeXMLContent(w *shared.XMLWriter) {
	shared.WriteXMLElements(w, "meta", n.metadata)
}

// WriteXML writes a <node> element with its metadata under <meta>
func (n *Node) WriteXML(w *shared.XMLWriter) {
	w.StartElement("node", shared.Attr("id", n.id))
	n.writeXMLContent(w)
	w.EndElement()
}

// JSON renders the canonical document
func (n *Node) JSON() string { return shared.RenderJSON(n) }

func (n *Node) String() string { return n.JSON() }

// Mutate passes a builder populated from n to fn
func (n *Node) Mutate(fn func(b *NodeBuilder) (*Node, error)) (*Node, error) {
	return fn(new(NodeBuilder).FromConcrete(n))
}

// NodeBuilder is the mutable counterpart of Node
type NodeBuilder struct {
	ID       string
	Metadata []*valueobjects.MetadataBuilder
}

// NewNodeBuilder returns a builder with a fresh id and no metadata
func NewNodeBuilder() *NodeBuilder {
	return &NodeBuilder{ID: shared.NewID()}
}

// FromConcrete copies n into the builder
func (b *NodeBuilder) FromConcrete(n *Node) *NodeBuilder {
	b.ID = n.id
	b.Metadata = valueobjects.MetadataBuilders(n.metadata.Items())
	return b
}

// AddMetadata appends a metadata builder in the default scope
func (b *NodeBuilder) AddMetadata(name, value string) *NodeBuilder {
	m := valueobjects.NewMetadataBuilder()
	m.Parent, m.Name, m.Value = b.ID, name, value
	b.Metadata = append(b.Metadata, m)
	return b
}

func (b *NodeBuilder) readContent(obj shared.Object) error {
	var err error
	if b.ID, err = obj.String("id"); err != nil {
		return err
	}
	b.Metadata, err = valueobjects.ReadMetadataBuilders(obj, "metadata")
	return err
}

// FromJSON reads a node document
func (b *NodeBuilder) FromJSON(obj shared.Object) error {
	if err := obj.CheckType(NodeType); err != nil {
		return err
	}
	next := *b
	if err := next.readContent(obj); err != nil {
		return err
	}
	*b = next
	return nil
}

// ToConcrete builds a new Node
func (b *NodeBuilder) ToConcrete() (*Node, error) {
	if err := shared.CheckText("id", b.ID); err != nil {
		return nil, err
	}
	metadata, err := valueobjects.MetadataSet(b.Metadata)
	if err != nil {
		return nil, err
	}
	return &Node{id: b.ID, metadata: metadata}, nil
}
