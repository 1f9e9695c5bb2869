// Package diff computes structural differences between two snapshots of the
// same declared type, for auditing, synchronization, and testing.
//
// Every differing field is classified exactly once, in schema-declaration
// order: added (nil to value), removed (value to nil), nested (recursive
// comparison of same-type child snapshots), or modified (anything else,
// including a child snapshot changing declared type). An unchanged nested
// comparison does not count as a change. Snapshots of different declared
// types compare as a single modification of the reserved TypeField key.
//
// A Result marshals to the stable wire shape
//
//	{"changed": [...], "added": {...}, "removed": {...},
//	 "modified": {"field": [old, new]}, "nested": {"field": {...}}}
//
// so diffs can cross process boundaries. Format renders the human-readable
// report, Apply reconstructs the right-hand snapshot from a diff, and
// AssertChanged verifies that a transition touched exactly the expected
// fields.
package diff
