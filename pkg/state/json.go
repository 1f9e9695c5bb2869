package state

import (
	"encoding/json"
)

// schemaKey carries the declared type identity in the wire representation.
const schemaKey = "$schema"

// MarshalJSON renders the snapshot as a flat object with the declared type
// under "$schema" and every field by name. Nested snapshots marshal
// recursively.
func (s *Snapshot) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(s.values)+1)
	out[schemaKey] = s.schema.Name()
	for name, value := range s.values {
		out[name] = value
	}
	return json.Marshal(out)
}
