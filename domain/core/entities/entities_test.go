package entities

import (
	"testing"
	"time"

	"funder/domain/core/valueobjects"
	"funder/domain/shared"
	pkgerrors "funder/pkg/errors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func meta(parent, name, value string) *valueobjects.Metadata {
	return valueobjects.NewDefaultMetadata(parent, name, value)
}

func goal(t *testing.T, id, previous, next string, months int) *valueobjects.Goal {
	t.Helper()
	from := start.AddDate(0, months, 0)
	g, err := valueobjects.ReconstructGoal(id, "project-1", previous, next, from, from.AddDate(0, 1, 0), decimal.NewFromInt(1000))
	require.NoError(t, err)
	return g
}

func sampleAgent() *Agent {
	return ReconstructAgent("agent-1",
		[]*valueobjects.Metadata{meta("agent-1", "kind", "person")},
		[]*valueobjects.Metadata{meta("agent-1", "name", "Ada"), meta("agent-1", "name", "A. Lovelace")},
		[]*valueobjects.Metadata{meta("agent-1", "email", "ada@example.org")},
		nil,
	)
}

func sampleProject(t *testing.T) *Project {
	locator, err := valueobjects.ReconstructLocator("loc-1", "project-1", "default", "website", "https://example.org")
	require.NoError(t, err)

	return ReconstructProject("project-1",
		[]*valueobjects.Metadata{meta("project-1", "title", "Community garden")},
		[]*valueobjects.Goal{
			goal(t, "g-2", "g-1", "g-3", 1),
			goal(t, "g-1", "", "g-2", 0),
			goal(t, "g-3", "g-2", "", 2),
		},
		[]*valueobjects.JournalEntry{
			valueobjects.ReconstructJournalEntry("j-1", "project-1", "agent-1", "default", "raised", "250", start),
		},
		[]*valueobjects.Locator{locator},
	)
}

func roundTrip[T interface {
	shared.Data
	Equal(T) bool
	Hash() uint64
}](t *testing.T, x T, b shared.Consumer[T]) T {
	t.Helper()
	obj, err := shared.ParseObject([]byte(x.JSON()))
	require.NoError(t, err)
	y, err := shared.Consume(b, obj)
	require.NoError(t, err)
	assert.True(t, x.Equal(y))
	assert.Equal(t, x.Hash(), y.Hash())
	assert.Equal(t, x.JSON(), y.JSON())
	return y
}

func TestNodeJSON(t *testing.T) {
	n := ReconstructNode("n-1", []*valueobjects.Metadata{meta("n-1", "colour", "green")})
	assert.Equal(t,
		`{"_type":"node","id":"n-1","metadata":[{"_type":"metadata","parent":"n-1","scope":"default","name":"colour","value":"green"}]}`,
		n.JSON())
	roundTrip[*Node](t, n, NewNodeBuilder())

	empty := ReconstructNode("n-2", nil)
	assert.Equal(t, `{"_type":"node","id":"n-2","metadata":[]}`, empty.JSON())
}

func TestNodeMetadataIsASet(t *testing.T) {
	a := ReconstructNode("n", []*valueobjects.Metadata{meta("n", "a", "1"), meta("n", "b", "2"), meta("n", "a", "1")})
	b := ReconstructNode("n", []*valueobjects.Metadata{meta("n", "b", "2"), meta("n", "a", "1")})

	assert.Len(t, a.Metadata(), 2)
	assert.True(t, a.Equal(b))
	assert.Equal(t, a.Hash(), b.Hash())
	assert.Len(t, a.MetadataNamed("a"), 1)
}

func TestAgentRoundTrip(t *testing.T) {
	a := sampleAgent()
	got := roundTrip[*Agent](t, a, NewAgentBuilder())
	assert.Len(t, got.Names(), 2)
	assert.Empty(t, got.Addresses())
	assert.Equal(t, "agent-1", got.ID())
}

func TestAgentDuplicateNameCollapses(t *testing.T) {
	a := sampleAgent()
	dup, err := a.Mutate(func(b *AgentBuilder) (*Agent, error) {
		extra := valueobjects.NewMetadataBuilder()
		extra.Parent, extra.Name, extra.Value = "agent-1", "name", "Ada"
		b.Names = append(b.Names, extra)
		return b.ToConcrete()
	})
	require.NoError(t, err)

	assert.True(t, a.Equal(dup))
	assert.Equal(t, a.Hash(), dup.Hash())
	names, err := dup.Data().Objects("names")
	require.NoError(t, err)
	assert.Len(t, names, 2)
}

func TestAgentEqualityIgnoresOrder(t *testing.T) {
	a := sampleAgent()
	reordered := ReconstructAgent("agent-1",
		[]*valueobjects.Metadata{meta("agent-1", "kind", "person")},
		[]*valueobjects.Metadata{meta("agent-1", "name", "A. Lovelace"), meta("agent-1", "name", "Ada")},
		[]*valueobjects.Metadata{meta("agent-1", "email", "ada@example.org")},
		nil,
	)
	assert.True(t, a.Equal(reordered))
	assert.Equal(t, a.Hash(), reordered.Hash())

	// the same item under a different collection is a different agent
	moved := ReconstructAgent("agent-1",
		[]*valueobjects.Metadata{meta("agent-1", "kind", "person")},
		[]*valueobjects.Metadata{meta("agent-1", "name", "Ada"), meta("agent-1", "name", "A. Lovelace")},
		nil,
		[]*valueobjects.Metadata{meta("agent-1", "email", "ada@example.org")},
	)
	assert.False(t, a.Equal(moved))
	assert.True(t, a.Node.Equal(&moved.Node))
}

func TestAgentMutateLeavesReceiverUnchanged(t *testing.T) {
	a := sampleAgent()
	before := a.JSON()

	changed, err := a.Mutate(func(b *AgentBuilder) (*Agent, error) {
		b.Names[0].Value = "Augusta"
		b.Contacts = nil
		b.AddMetadata("kind", "organisation")
		return b.ToConcrete()
	})
	require.NoError(t, err)

	assert.Equal(t, before, a.JSON())
	assert.Equal(t, "Ada", a.Names()[0].Value())
	assert.Equal(t, "Augusta", changed.Names()[0].Value())
	assert.Empty(t, changed.Contacts())
	assert.Len(t, changed.Metadata(), 2)
	assert.False(t, a.Equal(changed))
}

func TestAgentDiscriminator(t *testing.T) {
	b := NewAgentBuilder()
	before := b.ID
	err := b.FromJSON(shared.Object{"_type": "node", "id": "x", "metadata": []any{}})
	assert.True(t, pkgerrors.IsTypeMismatch(err))
	assert.Equal(t, before, b.ID)

	err = b.FromJSON(shared.Object{"_type": "agent", "id": "x", "metadata": []any{}, "names": []any{}, "contacts": []any{}})
	assert.True(t, pkgerrors.IsRead(err))
	assert.Equal(t, before, b.ID)
}

func TestAgentXML(t *testing.T) {
	a := ReconstructAgent("a",
		nil,
		[]*valueobjects.Metadata{meta("a", "name", "Ada")},
		nil,
		nil,
	)
	got, err := shared.RenderXML(a)
	require.NoError(t, err)
	assert.Equal(t,
		`<agent id="a"><meta></meta><names><metadata parent="a" scope="default" name="name" value="Ada"></metadata></names><contacts></contacts><addresses></addresses></agent>`,
		got)
}

func TestProjectRoundTrip(t *testing.T) {
	p := sampleProject(t)
	got := roundTrip[*Project](t, p, NewProjectBuilder())
	assert.Len(t, got.Goals(), 3)
	assert.Len(t, got.Summaries(), 1)
}

func TestProjectCurrentGoal(t *testing.T) {
	p := sampleProject(t)
	current, ok := p.CurrentGoal()
	require.True(t, ok)
	assert.Equal(t, "g-3", current.ID())

	empty := NewProject()
	_, ok = empty.CurrentGoal()
	assert.False(t, ok)

	// two open ends: the first in insertion order wins
	twoHeads := ReconstructProject("p", nil, []*valueobjects.Goal{
		goal(t, "a", "", "", 0),
		goal(t, "b", "", "", 1),
	}, nil, nil)
	current, ok = twoHeads.CurrentGoal()
	require.True(t, ok)
	assert.Equal(t, "a", current.ID())
}

func TestProjectGoalChain(t *testing.T) {
	p := sampleProject(t)
	var ids []string
	for _, g := range p.GoalChain() {
		ids = append(ids, g.ID())
	}
	assert.Equal(t, []string{"g-1", "g-2", "g-3"}, ids)

	dangling := ReconstructProject("p", nil, []*valueobjects.Goal{
		goal(t, "a", "", "missing", 0),
	}, nil, nil)
	assert.Len(t, dangling.GoalChain(), 1)

	cycle := ReconstructProject("p", nil, []*valueobjects.Goal{
		goal(t, "a", "", "b", 0),
		goal(t, "b", "a", "a", 1),
	}, nil, nil)
	assert.Len(t, cycle.GoalChain(), 2)

	assert.Nil(t, NewProject().GoalChain())
}

func TestProjectReference(t *testing.T) {
	p := sampleProject(t)
	ref, ok := p.Reference("website")
	require.True(t, ok)
	assert.Equal(t, "https://example.org", ref)

	_, ok = p.Reference("repository")
	assert.False(t, ok)
}

func TestProjectBuilderRejectsIncompleteGoal(t *testing.T) {
	p := sampleProject(t)
	_, err := p.Mutate(func(b *ProjectBuilder) (*Project, error) {
		b.Goals = append(b.Goals, valueobjects.NewGoalBuilder())
		return b.ToConcrete()
	})
	assert.True(t, pkgerrors.IsArgument(err))
}

func TestProjectMutateAppendsSummary(t *testing.T) {
	p := sampleProject(t)
	changed, err := p.Mutate(func(b *ProjectBuilder) (*Project, error) {
		entry := valueobjects.NewJournalEntryBuilder()
		entry.Parent, entry.Who, entry.Name, entry.Value = "project-1", "agent-2", "raised", "100"
		b.Summaries = append(b.Summaries, entry)
		return b.ToConcrete()
	})
	require.NoError(t, err)
	assert.Len(t, p.Summaries(), 1)
	assert.Len(t, changed.Summaries(), 2)
	assert.False(t, p.Equal(changed))
}

func TestProjectXML(t *testing.T) {
	p := ReconstructProject("p", nil, []*valueobjects.Goal{goal(t, "g", "", "", 0)}, nil, nil)
	got, err := shared.RenderXML(p)
	require.NoError(t, err)
	assert.Equal(t,
		`<project id="p"><meta></meta><goals><goal id="g" for="project-1" previous="" next="" start="2024-01-01T00:00:00Z" end="2024-02-01T00:00:00Z" amount="1000"></goal></goals><summaries></summaries><locators></locators></project>`,
		got)
}

func TestCloneIsEqual(t *testing.T) {
	p := sampleProject(t)
	assert.True(t, p.Equal(p.Clone()))
	a := sampleAgent()
	assert.True(t, a.Equal(a.Clone()))
	n := NewNode(meta("x", "a", "b"))
	assert.True(t, n.Equal(n.Clone()))
	assert.NotEqual(t, n.ID(), NewNode().ID())
}
