package valueobjects

import "funder/domain/shared"

// Hydration from stored rows. Column names match the document keys; a
// missing or null scope column falls back to the default scope. An empty
// scope is a value and is kept.

func scopeOf(r shared.Record) string {
	if !r.HasField("scope") {
		return shared.DefaultScope
	}
	return r.ReadString("scope")
}

// MetadataFromRecord reads a Metadata row
func MetadataFromRecord(r shared.Record) *Metadata {
	return NewMetadata(r.ReadString("parent"), scopeOf(r), r.ReadString("name"), r.ReadString("value"))
}

// ScopedDataFromRecord reads a ScopedData row
func ScopedDataFromRecord(r shared.Record) *ScopedData {
	return ReconstructScopedData(
		r.ReadString("id"),
		r.ReadString("for"),
		scopeOf(r),
		r.ReadString("name"),
		r.ReadString("value"),
	)
}

// AgentScopedDataFromRecord reads an AgentScopedData row
func AgentScopedDataFromRecord(r shared.Record) *AgentScopedData {
	return ReconstructAgentScopedData(
		r.ReadString("id"),
		r.ReadString("for"),
		r.ReadString("who"),
		scopeOf(r),
		r.ReadString("name"),
		r.ReadString("value"),
	)
}

// JournalEntryFromRecord reads a JournalEntry row
func JournalEntryFromRecord(r shared.Record) *JournalEntry {
	return ReconstructJournalEntry(
		r.ReadString("id"),
		r.ReadString("for"),
		r.ReadString("who"),
		scopeOf(r),
		r.ReadString("name"),
		r.ReadString("value"),
		r.ReadTime("when"),
	)
}

// GoalFromRecord reads a Goal row. Absent required cells surface as the
// usual argument error.
func GoalFromRecord(r shared.Record) (*Goal, error) {
	return ReconstructGoal(
		r.ReadString("id"),
		r.ReadString("for"),
		r.ReadString("previous"),
		r.ReadString("next"),
		r.ReadTime("start"),
		r.ReadTime("end"),
		r.ReadDecimal("amount"),
	)
}

// LocatorFromRecord reads a Locator row
func LocatorFromRecord(r shared.Record) (*Locator, error) {
	return ReconstructLocator(
		r.ReadString("id"),
		r.ReadString("parent"),
		scopeOf(r),
		r.ReadString("role"),
		r.ReadString("reference"),
	)
}
