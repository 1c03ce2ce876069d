package valueobjects

import (
	"encoding/xml"
	"time"

	"funder/domain/core/validators"
	"funder/domain/shared"
	"funder/pkg/utils"

	"github.com/shopspring/decimal"
)

// GoalType is the discriminator of Goal documents
const GoalType = "goal"

// Goal is a funding target for a period. Goals of a project form a chain
// through the ids in previous and next; an empty link means there is no
// neighbour on that side.
type Goal struct {
	id       string
	parent   string
	previous string
	next     string
	start    time.Time
	end      time.Time
	amount   decimal.Decimal

	memo shared.Memo
}

// NewGoal creates an unlinked Goal
func NewGoal(id, parent string, start, end time.Time, amount decimal.Decimal) (*Goal, error) {
	return ReconstructGoal(id, parent, "", "", start, end, amount)
}

// ReconstructGoal creates a Goal from known field values. It fails with an
// argument error when id, parent, start, end or amount is unset.
func ReconstructGoal(id, parent, previous, next string, start, end time.Time, amount decimal.Decimal) (*Goal, error) {
	fields := validators.GoalFields{
		ID:       id,
		Parent:   parent,
		Previous: previous,
		Next:     next,
		Start:    start,
		End:      end,
		Amount:   amount,
	}
	if err := validators.ValidateGoal(fields); err != nil {
		return nil, err
	}

	return &Goal{
		id:       id,
		parent:   parent,
		previous: previous,
		next:     next,
		start:    utils.NormalizeTime(start),
		end:      utils.NormalizeTime(end),
		amount:   amount,
	}, nil
}

func (g *Goal) ID() string              { return g.id }
func (g *Goal) Parent() string          { return g.parent }
func (g *Goal) Previous() string        { return g.previous }
func (g *Goal) Next() string            { return g.next }
func (g *Goal) Start() time.Time        { return g.start }
func (g *Goal) End() time.Time          { return g.end }
func (g *Goal) Amount() decimal.Decimal { return g.amount }

// IsHead reports whether the goal has no predecessor
func (g *Goal) IsHead() bool            { return g.previous == "" }

// IsCurrent reports whether the goal has no successor
func (g *Goal) IsCurrent() bool         { return g.next == "" }

// Covers reports whether t falls inside [start, end]
func (g *Goal) Covers(t time.Time) bool {
	return !t.Before(g.start) && !t.After(g.end)
}

// TypeTag returns "goal"
func (g *Goal) TypeTag() string { return GoalType }

// Clone returns an equal copy with its own caches
func (g *Goal) Clone() *Goal {
	return &Goal{
		id:       g.id,
		parent:   g.parent,
		previous: g.previous,
		next:     g.next,
		start:    g.start,
		end:      g.end,
		amount:   g.amount,
	}
}

// Equal reports value equality. Amounts compare numerically.
func (g *Goal) Equal(other *Goal) bool {
	if g == other {
		return true
	}
	if g == nil || other == nil {
		return false
	}
	return g.id == other.id &&
		g.parent == other.parent &&
		g.previous == other.previous &&
		g.next == other.next &&
		g.start.Equal(other.start) &&
		g.end.Equal(other.end) &&
		g.amount.Equal(other.amount)
}

// Hash returns the memoised structural hash
func (g *Goal) Hash() uint64 {
	return g.memo.Hash(func() uint64 {
		return shared.NewHasher("Goal").
			String(g.id).
			String(g.parent).
			String(g.previous).
			String(g.next).
			Time(g.start).
			Time(g.end).
			String(g.amount.String()).
			Sum()
	})
}

// Data returns the memoised JSON tree
func (g *Goal) Data() shared.Object { return g.memo.Tree(g) }

// WriteJSON writes the canonical document
func (g *Goal) WriteJSON(w *shared.JSONWriter) {
	w.StartObject()
	w.Property(shared.TypeKey, GoalType)
	w.Property("id", g.id)
	w.Property("for", g.parent)
	w.Property("previous", g.previous)
	w.Property("next", g.next)
	w.Property("start", utils.FormatTime(g.start))
	w.Property("end", utils.FormatTime(g.end))
	w.Property("amount", g.amount.String())
	w.EndObject()
}

func (g *Goal) xmlAttrs() []xml.Attr {
	return []xml.Attr{
		shared.Attr("id", g.id),
		shared.Attr("for", g.parent),
		shared.Attr("previous", g.previous),
		shared.Attr("next", g.next),
		shared.Attr("start", utils.FormatTime(g.start)),
		shared.Attr("end", utils.FormatTime(g.end)),
		shared.Attr("amount", g.amount.String()),
	}
}

// WriteXML writes a <goal> element
func (g *Goal) WriteXML(w *shared.XMLWriter) {
	w.StartElement("goal", g.xmlAttrs()...)
	w.EndElement()
}

// JSON renders the canonical document
func (g *Goal) JSON() string { return shared.RenderJSON(g) }

func (g *Goal) String() string { return g.JSON() }

// Mutate passes a builder populated from g to fn
func (g *Goal) Mutate(fn func(b *GoalBuilder) (*Goal, error)) (*Goal, error) {
	return fn(new(GoalBuilder).FromConcrete(g))
}

// GoalBuilder is the mutable counterpart of Goal. Its zero value does not
// convert; id, parent, start, end and amount must be set first.
type GoalBuilder struct {
	ID       string
	Parent   string
	Previous string
	Next     string
	Start    time.Time
	End      time.Time
	Amount   decimal.Decimal
}

// NewGoalBuilder returns an empty builder
func NewGoalBuilder() *GoalBuilder {
	return &GoalBuilder{}
}

// FromConcrete copies g into the builder
func (b *GoalBuilder) FromConcrete(g *Goal) *GoalBuilder {
	b.ID = g.id
	b.Parent = g.parent
	b.Previous = g.previous
	b.Next = g.next
	b.Start = g.start
	b.End = g.end
	b.Amount = g.amount
	return b
}

// FromJSON reads a goal document
func (b *GoalBuilder) FromJSON(obj shared.Object) error {
	if err := obj.CheckType(GoalType); err != nil {
		return err
	}

	var next GoalBuilder
	var err error
	if next.ID, err = obj.String("id"); err != nil {
		return err
	}
	if next.Parent, err = obj.String("for"); err != nil {
		return err
	}
	if next.Previous, err = obj.String("previous"); err != nil {
		return err
	}
	if next.Next, err = obj.String("next"); err != nil {
		return err
	}
	if next.Start, err = obj.Time("start"); err != nil {
		return err
	}
	if next.End, err = obj.Time("end"); err != nil {
		return err
	}
	if next.Amount, err = obj.Decimal("amount"); err != nil {
		return err
	}

	*b = next
	return nil
}

// ToConcrete builds a new Goal, failing when a required field is unset
func (b *GoalBuilder) ToConcrete() (*Goal, error) {
	if err := shared.CheckText("id", b.ID, "for", b.Parent, "previous", b.Previous, "next", b.Next); err != nil {
		return nil, err
	}
	return ReconstructGoal(b.ID, b.Parent, b.Previous, b.Next, b.Start, b.End, b.Amount)
}

// GoalSet converts builders into a frozen set
func GoalSet(builders []*GoalBuilder) (shared.Set[*Goal], error) {
	return shared.BuildSet[*Goal](builders)
}

// GoalBuilders returns a builder per item
func GoalBuilders(items []*Goal) []*GoalBuilder {
	builders := make([]*GoalBuilder, 0, len(items))
	for _, item := range items {
		builders = append(builders, new(GoalBuilder).FromConcrete(item))
	}
	return builders
}
