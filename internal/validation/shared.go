package validation

import (
	"fmt"
	"sort"
	"strings"
)

// Error collects every invalid field of a request, keyed by its JSON name.
// Handlers report it as 400 with Fields as the details.
type Error struct {
	Fields map[string]string
}

// Error lists the fields sorted by name so messages are stable.
func (e *Error) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", field, msg))
	}
	sort.Strings(msgs)
	return strings.Join(msgs, "; ")
}
