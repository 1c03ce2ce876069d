// Package shared holds the contract every funder model type implements:
// a memoised JSON tree (Data), a builder that consumes JSON and concrete
// values (Consumer), and copy-on-write mutation through that builder
// (Mutable). It also provides the writers, the frozen Set used for
// collections, and the Record port used to hydrate values from storage.
//
// Concrete values are immutable and safe for concurrent readers. Builders
// are plain structs with exported fields and belong to a single owner.
package shared
