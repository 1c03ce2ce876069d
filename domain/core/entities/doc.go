// Package entities contains the identified aggregates of the funding
// model. Node carries an id and a metadata set; Agent and Project embed it.
package entities

import "funder/domain/shared"

var (
	_ shared.Identified = (*Node)(nil)
	_ shared.Identified = (*Agent)(nil)
	_ shared.Identified = (*Project)(nil)

	_ shared.Consumer[*Node]    = (*NodeBuilder)(nil)
	_ shared.Consumer[*Agent]   = (*AgentBuilder)(nil)
	_ shared.Consumer[*Project] = (*ProjectBuilder)(nil)

	_ shared.Mutable[*AgentBuilder, *Agent]     = (*Agent)(nil)
	_ shared.Mutable[*ProjectBuilder, *Project] = (*Project)(nil)
)
