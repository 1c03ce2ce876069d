// Package valueobjects contains the immutable scalar entities of the
// funding model and their builders.
//
// Concrete values are created by the NewX and ReconstructX constructors,
// by Clone, or by a builder's ToConcrete. They never change after
// construction; Mutate hands a fresh builder to a function and returns
// whatever that function builds.
package valueobjects

import "funder/domain/shared"

var (
	_ shared.Data       = (*Metadata)(nil)
	_ shared.Identified = (*ScopedData)(nil)
	_ shared.Identified = (*AgentScopedData)(nil)
	_ shared.Identified = (*JournalEntry)(nil)
	_ shared.Identified = (*Goal)(nil)
	_ shared.Identified = (*Locator)(nil)

	_ shared.Element[*Metadata]     = (*Metadata)(nil)
	_ shared.Element[*JournalEntry] = (*JournalEntry)(nil)
	_ shared.Element[*Goal]         = (*Goal)(nil)
	_ shared.Element[*Locator]      = (*Locator)(nil)

	_ shared.Consumer[*Metadata]        = (*MetadataBuilder)(nil)
	_ shared.Consumer[*ScopedData]      = (*ScopedDataBuilder)(nil)
	_ shared.Consumer[*AgentScopedData] = (*AgentScopedDataBuilder)(nil)
	_ shared.Consumer[*JournalEntry]    = (*JournalEntryBuilder)(nil)
	_ shared.Consumer[*Goal]            = (*GoalBuilder)(nil)
	_ shared.Consumer[*Locator]         = (*LocatorBuilder)(nil)

	_ shared.Mutable[*ScopedDataBuilder, *ScopedData]           = (*ScopedData)(nil)
	_ shared.Mutable[*AgentScopedDataBuilder, *AgentScopedData] = (*AgentScopedData)(nil)
	_ shared.Mutable[*JournalEntryBuilder, *JournalEntry]       = (*JournalEntry)(nil)
)
