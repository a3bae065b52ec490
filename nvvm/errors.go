package nvvm

import (
	"errors"
	"fmt"
)

// MalformedError reports structurally invalid annotation metadata. It
// indicates a bug in the annotation producer; results derived from the
// offending module must not be trusted.
type MalformedError struct {
	Message string
	// Optional context
	Module string
	Entry  int // index of the offending entry, -1 if not tied to one
}

// Error implements the error interface.
func (e *MalformedError) Error() string {
	if e.Entry >= 0 {
		return fmt.Sprintf("module %s: annotation entry %d: %s", e.Module, e.Entry, e.Message)
	}
	return fmt.Sprintf("module %s: %s", e.Module, e.Message)
}

// ErrAnonymous is returned when a name is requested for a symbol that
// has none. Texture, surface, and sampler symbols must be named by the
// time the backend queries them.
var ErrAnonymous = errors.New("symbol has no name")

// ErrUnknownSymbol is returned when a symbol reference does not resolve
// within its module.
var ErrUnknownSymbol = errors.New("reference does not resolve to a symbol")
