package shared

import (
	"sync/atomic"
	"time"

	"funder/pkg/utils"

	"github.com/cespare/xxhash/v2"
)

// Memo caches the hash and JSON tree of an immutable value. Both are
// computed on first use without locking; concurrent first calls may each
// compute, but they store identical results.
//
// A Memo must not be copied after first use.
type Memo struct {
	hash   atomic.Uint64
	hashed atomic.Bool
	data   atomic.Pointer[Object]
}

// Hash returns the cached hash, computing it on first call
func (m *Memo) Hash(compute func() uint64) uint64 {
	if m.hashed.Load() {
		return m.hash.Load()
	}
	h := compute()
	m.hash.Store(h)
	m.hashed.Store(true)
	return h
}

// Tree returns the cached JSON tree of d, rendering it on first call
func (m *Memo) Tree(d interface{ WriteJSON(*JSONWriter) }) Object {
	if p := m.data.Load(); p != nil {
		return *p
	}
	obj := treeOf(d)
	m.data.CompareAndSwap(nil, &obj)
	return *m.data.Load()
}

// Hasher folds fields into a structural hash, 31-multiplier style.
type Hasher struct {
	h uint64
}

// NewHasher starts a hash seeded with the type name
func NewHasher(typeName string) Hasher {
	return Hasher{h: 17}.String(typeName)
}

// String folds a string
func (h Hasher) String(s string) Hasher {
	h.h = h.h*31 + xxhash.Sum64String(s)
	return h
}

// Uint64 folds an already computed hash
func (h Hasher) Uint64(v uint64) Hasher {
	h.h = h.h*31 + v
	return h
}

// Time folds a timestamp by its canonical text
func (h Hasher) Time(t time.Time) Hasher {
	return h.String(utils.FormatTime(t))
}

// Sum returns the hash
func (h Hasher) Sum() uint64 {
	return h.h
}
