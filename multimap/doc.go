// Package multimap provides a concurrency-safe mapping from a key to a
// de-duplicated, insertion-ordered collection of values.
//
// It exists to back registries that are mutated from multiple goroutines
// while being iterated by another: every read returns an independent
// snapshot, so callers can walk a value set while the underlying map is
// concurrently modified (including removing the very values being walked).
//
// Basic usage:
//
//	m := multimap.New[string, int]()
//	m.Put("a", 1) // true
//	m.Put("a", 1) // false: the pair already exists
//	m.Put("a", 2) // true
//
//	for _, v := range m.Values("a") { // snapshot: 1, 2
//		m.Remove("a", v) // safe while iterating the snapshot
//	}
//
// All operations serialize on a single mutex per Map instance. The zero
// value is not usable; construct instances with New.
package multimap
