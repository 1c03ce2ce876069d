package valueobjects

import (
	"encoding/xml"
	"time"

	"funder/domain/shared"
	"funder/pkg/utils"
)

// JournalEntryType is the discriminator of JournalEntry documents
const JournalEntryType = "journalEntry"

// JournalEntry is AgentScopedData stamped with the time it was recorded.
type JournalEntry struct {
	AgentScopedData
	when time.Time

	memo shared.Memo
}

// NewJournalEntry creates a JournalEntry with a generated id, stamped now
func NewJournalEntry(parent, who, scope, name, value string) *JournalEntry {
	return NewJournalEntryAt(parent, who, scope, name, value, utils.Now())
}

// NewJournalEntryAt creates a JournalEntry with a generated id
func NewJournalEntryAt(parent, who, scope, name, value string, when time.Time) *JournalEntry {
	return ReconstructJournalEntry(shared.NewID(), parent, who, scope, name, value, when)
}

// ReconstructJournalEntry creates a JournalEntry from known field values
func ReconstructJournalEntry(id, parent, who, scope, name, value string, when time.Time) *JournalEntry {
	return &JournalEntry{
		AgentScopedData: AgentScopedData{
			ScopedData: ScopedData{id: id, parent: parent, scope: scope, name: name, value: value},
			who:        who,
		},
		when: utils.NormalizeTime(when),
	}
}

// When returns the time the entry was recorded, in UTC
func (j *JournalEntry) When() time.Time { return j.when }

// TypeTag returns "journalEntry"
func (j *JournalEntry) TypeTag() string { return JournalEntryType }

// Clone returns an equal copy with its own caches
func (j *JournalEntry) Clone() *JournalEntry {
	return ReconstructJournalEntry(j.id, j.parent, j.who, j.scope, j.name, j.value, j.when)
}

// Equal extends AgentScopedData equality with when
func (j *JournalEntry) Equal(other *JournalEntry) bool {
	if j == other {
		return true
	}
	if j == nil || other == nil {
		return false
	}
	return j.AgentScopedData.Equal(&other.AgentScopedData) && j.when.Equal(other.when)
}

// Hash folds when into the AgentScopedData hash
func (j *JournalEntry) Hash() uint64 {
	return j.memo.Hash(func() uint64 {
		return shared.NewHasher("JournalEntry").
			Uint64(j.AgentScopedData.Hash()).
			Time(j.when).
			Sum()
	})
}

// Data returns the memoised JSON tree
func (j *JournalEntry) Data() shared.Object { return j.memo.Tree(j) }

func (j *JournalEntry) writeJSONContent(w *shared.JSONWriter) {
	j.AgentScopedData.writeJSONContent(w)
	w.Property("when", utils.FormatTime(j.when))
}

// WriteJSON writes the canonical document
func (j *JournalEntry) WriteJSON(w *shared.JSONWriter) {
	w.StartObject()
	w.Property(shared.TypeKey, JournalEntryType)
	j.writeJSONContent(w)
	w.EndObject()
}

func (j *JournalEntry) xmlAttrs() []xml.Attr {
	return append(j.AgentScopedData.xmlAttrs(), shared.Attr("when", utils.FormatTime(j.when)))
}

// WriteXML writes a <journal-entry> element
func (j *JournalEntry) WriteXML(w *shared.XMLWriter) {
	w.StartElement("journal-entry", j.xmlAttrs()...)
	w.EndElement()
}

// JSON renders the canonical document
func (j *JournalEntry) JSON() string { return shared.RenderJSON(j) }

func (j *JournalEntry) String() string { return j.JSON() }

// Mutate passes a builder populated from j to fn
func (j *JournalEntry) Mutate(fn func(b *JournalEntryBuilder) (*JournalEntry, error)) (*JournalEntry, error) {
	return fn(new(JournalEntryBuilder).FromConcrete(j))
}

// JournalEntryBuilder is the mutable counterpart of JournalEntry
type JournalEntryBuilder struct {
	AgentScopedDataBuilder
	When time.Time
}

// NewJournalEntryBuilder returns a builder with a fresh id, stamped now
func NewJournalEntryBuilder() *JournalEntryBuilder {
	return &JournalEntryBuilder{
		AgentScopedDataBuilder: *NewAgentScopedDataBuilder(),
		When:                   utils.Now(),
	}
}

// FromConcrete copies j into the builder
func (b *JournalEntryBuilder) FromConcrete(j *JournalEntry) *JournalEntryBuilder {
	b.AgentScopedDataBuilder.FromConcrete(&j.AgentScopedData)
	b.When = j.when
	return b
}

// FromJSON reads a journalEntry document
func (b *JournalEntryBuilder) FromJSON(obj shared.Object) error {
	if err := obj.CheckType(JournalEntryType); err != nil {
		return err
	}
	next := *b
	if err := next.AgentScopedDataBuilder.readContent(obj); err != nil {
		return err
	}
	when, err := obj.Time("when")
	if err != nil {
		return err
	}
	next.When = when
	*b = next
	return nil
}

// ToConcrete builds a new JournalEntry
func (b *JournalEntryBuilder) ToConcrete() (*JournalEntry, error) {
	if err := shared.CheckText("id", b.ID, "for", b.Parent, "who", b.Who, "scope", b.Scope, "name", b.Name, "value", b.Value); err != nil {
		return nil, err
	}
	return ReconstructJournalEntry(b.ID, b.Parent, b.Who, b.Scope, b.Name, b.Value, b.When), nil
}

// JournalEntrySet converts builders into a frozen set
func JournalEntrySet(builders []*JournalEntryBuilder) (shared.Set[*JournalEntry], error) {
	return shared.BuildSet[*JournalEntry](builders)
}

// JournalEntryBuilders returns a builder per item
func JournalEntryBuilders(items []*JournalEntry) []*JournalEntryBuilder {
	builders := make([]*JournalEntryBuilder, 0, len(items))
	for _, item := range items {
		builders = append(builders, new(JournalEntryBuilder).FromConcrete(item))
	}
	return builders
}
