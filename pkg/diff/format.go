package diff

import (
	"fmt"
	"strings"
)

// Format renders a human-readable report with up to three grouped sections,
// one line per field, in schema-declaration order:
//
//	Added:
//	+ data: v
//
//	Removed:
//	- legacy: 1
//
//	Modified:
//	~ count: 0 -> 1
//
// A result whose changes are purely nested has no lines to render and falls
// back to naming the changed fields.
func Format(r *Result) string {
	if r.Unchanged() {
		return "Unchanged"
	}

	var sections []string

	if len(r.Added) > 0 {
		lines := []string{"Added:"}
		for _, name := range r.Changed {
			if v, ok := r.Added[name]; ok {
				lines = append(lines, fmt.Sprintf("+ %s: %v", name, v))
			}
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}

	if len(r.Removed) > 0 {
		lines := []string{"Removed:"}
		for _, name := range r.Changed {
			if v, ok := r.Removed[name]; ok {
				lines = append(lines, fmt.Sprintf("- %s: %v", name, v))
			}
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}

	if len(r.Modified) > 0 {
		lines := []string{"Modified:"}
		for _, name := range r.Changed {
			if p, ok := r.Modified[name]; ok {
				lines = append(lines, fmt.Sprintf("~ %s: %v -> %v", name, p.Old(), p.New()))
			}
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}

	if len(sections) == 0 {
		return fmt.Sprintf("No changes to fields: %s", strings.Join(r.Changed, ", "))
	}
	return strings.Join(sections, "\n\n")
}
