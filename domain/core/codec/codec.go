// Package codec turns tagged JSON documents into concrete model values by
// dispatching on the _type discriminator.
package codec

import (
	"funder/domain/core/entities"
	"funder/domain/core/valueobjects"
	"funder/domain/shared"
	pkgerrors "funder/pkg/errors"
)

// Types lists every discriminator Decode accepts
var Types = []string{
	valueobjects.MetadataType,
	valueobjects.ScopedDataType,
	valueobjects.AgentScopedDataType,
	valueobjects.JournalEntryType,
	valueobjects.GoalType,
	valueobjects.LocatorType,
	entities.NodeType,
	entities.AgentType,
	entities.ProjectType,
}

// IsKnownType reports whether tag names a decodable entity
func IsKnownType(tag string) bool {
	for _, t := range Types {
		if t == tag {
			return true
		}
	}
	return false
}

// Decode builds the concrete value described by obj
func Decode(obj shared.Object) (shared.Data, error) {
	switch tag := obj.Type(); tag {
	case valueobjects.MetadataType:
		return decode[*valueobjects.Metadata](valueobjects.NewMetadataBuilder(), obj)
	case valueobjects.ScopedDataType:
		return decode[*valueobjects.ScopedData](valueobjects.NewScopedDataBuilder(), obj)
	case valueobjects.AgentScopedDataType:
		return decode[*valueobjects.AgentScopedData](valueobjects.NewAgentScopedDataBuilder(), obj)
	case valueobjects.JournalEntryType:
		return decode[*valueobjects.JournalEntry](valueobjects.NewJournalEntryBuilder(), obj)
	case valueobjects.GoalType:
		return decode[*valueobjects.Goal](valueobjects.NewGoalBuilder(), obj)
	case valueobjects.LocatorType:
		return decode[*valueobjects.Locator](valueobjects.NewLocatorBuilder(), obj)
	case entities.NodeType:
		return decode[*entities.Node](entities.NewNodeBuilder(), obj)
	case entities.AgentType:
		return decode[*entities.Agent](entities.NewAgentBuilder(), obj)
	case entities.ProjectType:
		return decode[*entities.Project](entities.NewProjectBuilder(), obj)
	case "":
		return nil, pkgerrors.NewReadError(shared.TypeKey, nil)
	default:
		return nil, pkgerrors.NewUnknownTypeError(tag)
	}
}

// DecodeBytes parses data and decodes it
func DecodeBytes(data []byte) (shared.Data, error) {
	obj, err := shared.ParseObject(data)
	if err != nil {
		return nil, err
	}
	return Decode(obj)
}

// DecodeIdentified decodes data and requires the result to carry an id
func DecodeIdentified(data []byte) (shared.Identified, error) {
	d, err := DecodeBytes(data)
	if err != nil {
		return nil, err
	}
	identified, ok := d.(shared.Identified)
	if !ok {
		return nil, pkgerrors.NewValidationError("entity of type '" + d.TypeTag() + "' has no id")
	}
	return identified, nil
}

// decode returns an untyped nil on failure so callers can compare the
// result against nil.
func decode[T shared.Data](b shared.Consumer[T], obj shared.Object) (shared.Data, error) {
	v, err := shared.Consume(b, obj)
	if err != nil {
		return nil, err
	}
	return v, nil
}
