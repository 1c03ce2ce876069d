package entities

import (
	"funder/domain/core/valueobjects"
	"funder/domain/shared"
)

// ProjectType is the discriminator of Project documents
const ProjectType = "project"

// Project is a funded undertaking: a Node with its goal chain, journal
// summaries and external locators.
type Project struct {
	Node
	goals     shared.Set[*valueobjects.Goal]
	summaries shared.Set[*valueobjects.JournalEntry]
	locators  shared.Set[*valueobjects.Locator]

	memo shared.Memo
}

// NewProject creates an empty project with a generated id
func NewProject(metadata ...*valueobjects.Metadata) *Project {
	return ReconstructProject(shared.NewID(), metadata, nil, nil, nil)
}

// ReconstructProject creates a project from known values
func ReconstructProject(
	id string,
	metadata []*valueobjects.Metadata,
	goals []*valueobjects.Goal,
	summaries []*valueobjects.JournalEntry,
	locators []*valueobjects.Locator,
) *Project {
	return &Project{
		Node:      Node{id: id, metadata: shared.NewSet(metadata...)},
		goals:     shared.NewSet(goals...),
		summaries: shared.NewSet(summaries...),
		locators:  shared.NewSet(locators...),
	}
}

// Goals returns the project's goals in insertion order
func (p *Project) Goals() []*valueobjects.Goal { return p.goals.Items() }

// Summaries returns the project's journal summaries in insertion order
func (p *Project) Summaries() []*valueobjects.JournalEntry { return p.summaries.Items() }

// Locators returns the project's locators in insertion order
func (p *Project) Locators() []*valueobjects.Locator { return p.locators.Items() }

// CurrentGoal returns the first goal without a successor. Several such
// goals point at inconsistent data; the first one still wins.
func (p *Project) CurrentGoal() (*valueobjects.Goal, bool) {
	for _, g := range p.goals.Items() {
		if g.IsCurrent() {
			return g, true
		}
	}
	return nil, false
}

// GoalChain walks from the first goal without a predecessor along the next
// links. The walk stops at a dangling link or on revisiting a goal.
func (p *Project) GoalChain() []*valueobjects.Goal {
	items := p.goals.Items()
	byID := make(map[string]*valueobjects.Goal, len(items))
	var head *valueobjects.Goal
	for _, g := range items {
		if _, ok := byID[g.ID()]; !ok {
			byID[g.ID()] = g
		}
		if head == nil && g.IsHead() {
			head = g
		}
	}
	if head == nil {
		return nil
	}

	chain := []*valueobjects.Goal{head}
	seen := map[string]bool{head.ID(): true}
	for cur := head; !cur.IsCurrent(); {
		next, ok := byID[cur.Next()]
		if !ok || seen[next.ID()] {
			break
		}
		seen[next.ID()] = true
		chain = append(chain, next)
		cur = next
	}
	return chain
}

// Reference returns the reference of the first locator with the given role
func (p *Project) Reference(role string) (string, bool) {
	for _, l := range p.locators.Items() {
		if l.Role() == role {
			return l.Reference(), true
		}
	}
	return "", false
}

// TypeTag returns "project"
func (p *Project) TypeTag() string { return ProjectType }

// Clone returns an equal copy with its own caches
func (p *Project) Clone() *Project {
	return &Project{
		Node:      Node{id: p.id, metadata: p.metadata},
		goals:     p.goals,
		summaries: p.summaries,
		locators:  p.locators,
	}
}

// Equal extends Node equality with set equality of goals, summaries and
// locators
func (p *Project) Equal(other *Project) bool {
	if p == other {
		return true
	}
	if p == nil || other == nil {
		return false
	}
	return p.Node.Equal(&other.Node) &&
		p.goals.Equal(other.goals) &&
		p.summaries.Equal(other.summaries) &&
		p.locators.Equal(other.locators)
}

// Hash folds the collections into the Node hash
func (p *Project) Hash() uint64 {
	return p.memo.Hash(func() uint64 {
		return shared.NewHasher("Project").
			Uint64(p.Node.Hash()).
			Uint64(p.goals.Hash()).
			Uint64(p.summaries.Hash()).
			Uint64(p.locators.Hash()).
			Sum()
	})
}

// Data returns the memoised JSON tree
func (p *Project) Data() shared.Object { return p.memo.Tree(p) }

// WriteJSON writes the canonical document
func (p *Project) WriteJSON(w *shared.JSONWriter) {
	w.StartObject()
	w.Property(shared.TypeKey, ProjectType)
	p.Node.writeJSONContent(w)
	shared.WriteJSONArray(w, "goals", p.goals)
	shared.WriteJSONArray(w, "summaries", p.summaries)
	shared.WriteJSONArray(w, "locators", p.locators)
	w.EndObject()
}

// WriteXML writes a <project> element with one wrapper per collection
func (p *Project) WriteXML(w *shared.XMLWriter) {
	w.StartElement("project", shared.Attr("id", p.id))
	p.Node.writeXMLContent(w)
	shared.WriteXMLElements(w, "goals", p.goals)
	shared.WriteXMLElements(w, "summaries", p.summaries)
	shared.WriteXMLElements(w, "locators", p.locators)
	w.EndElement()
}

// JSON renders the canonical document
func (p *Project) JSON() string { return shared.RenderJSON(p) }

func (p *Project) String() string { return p.JSON() }

// Mutate passes a builder populated from p to fn
func (p *Project) Mutate(fn func(b *ProjectBuilder) (*Project, error)) (*Project, error) {
	return fn(new(ProjectBuilder).FromConcrete(p))
}

// ProjectBuilder is the mutable counterpart of Project
type ProjectBuilder struct {
	NodeBuilder
	Goals     []*valueobjects.GoalBuilder
	Summaries []*valueobjects.JournalEntryBuilder
	Locators  []*valueobjects.LocatorBuilder
}

// NewProjectBuilder returns a builder with a fresh id and empty collections
func NewProjectBuilder() *ProjectBuilder {
	return &ProjectBuilder{NodeBuilder: *NewNodeBuilder()}
}

// FromConcrete copies p into the builder
func (b *ProjectBuilder) FromConcrete(p *Project) *ProjectBuilder {
	b.NodeBuilder.FromConcrete(&p.Node)
	b.Goals = valueobjects.GoalBuilders(p.goals.Items())
	b.Summaries = valueobjects.JournalEntryBuilders(p.summaries.Items())
	b.Locators = valueobjects.LocatorBuilders(p.locators.Items())
	return b
}

// FromJSON reads a project document
func (b *ProjectBuilder) FromJSON(obj shared.Object) error {
	if err := obj.CheckType(ProjectType); err != nil {
		return err
	}

	next := *b
	if err := next.NodeBuilder.readContent(obj); err != nil {
		return err
	}
	var err error
	if next.Goals, err = shared.ReadBuilders(obj, "goals", valueobjects.NewGoalBuilder); err != nil {
		return err
	}
	if next.Summaries, err = shared.ReadBuilders(obj, "summaries", valueobjects.NewJournalEntryBuilder); err != nil {
		return err
	}
	if next.Locators, err = shared.ReadBuilders(obj, "locators", valueobjects.NewLocatorBuilder); err != nil {
		return err
	}

	*b = next
	return nil
}

// ToConcrete builds a new Project. It fails when any goal or locator
// builder is missing a required field.
func (b *ProjectBuilder) ToConcrete() (*Project, error) {
	if err := shared.CheckText("id", b.ID); err != nil {
		return nil, err
	}
	metadata, err := valueobjects.MetadataSet(b.Metadata)
	if err != nil {
		return nil, err
	}
	goals, err := valueobjects.GoalSet(b.Goals)
	if err != nil {
		return nil, err
	}
	summaries, err := valueobjects.JournalEntrySet(b.Summaries)
	if err != nil {
		return nil, err
	}
	locators, err := valueobjects.LocatorSet(b.Locators)
	if err != nil {
		return nil, err
	}

	return &Project{
		Node:      Node{id: b.ID, metadata: metadata},
		goals:     goals,
		summaries: summaries,
		locators:  locators,
	}, nil
}
