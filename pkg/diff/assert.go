package diff

import (
	"fmt"
	"strings"

	"github.com/dmitrymomot/statekit/pkg/state"
)

// AssertChanged compares two snapshots and checks that exactly the expected
// fields changed: nothing expected missing, nothing unexpected extra. It is
// the workhorse for transition tests and sync auditing.
func AssertChanged(old, new *state.Snapshot, expected []string) error {
	r := Diff(old, new)
	if r.Unchanged() {
		return ErrNothingChanged
	}

	want := make(map[string]bool, len(expected))
	for _, f := range expected {
		want[f] = true
	}
	got := make(map[string]bool, len(r.Changed))
	for _, f := range r.Changed {
		got[f] = true
	}

	var missing []string
	for _, f := range expected {
		if !got[f] {
			missing = append(missing, f)
		}
	}
	var extra []string
	for _, f := range r.Changed {
		if !want[f] {
			extra = append(extra, f)
		}
	}

	if len(missing) == 0 && len(extra) == 0 {
		return nil
	}

	var parts []string
	if len(missing) > 0 {
		parts = append(parts, fmt.Sprintf("missing: %s", strings.Join(missing, ", ")))
	}
	if len(extra) > 0 {
		parts = append(parts, fmt.Sprintf("extra: %s", strings.Join(extra, ", ")))
	}
	return fmt.Errorf("%w: %s", ErrUnexpectedChanges, strings.Join(parts, "; "))
}
