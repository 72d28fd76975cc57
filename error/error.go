package error

import (
	"fmt"
	"strings"
)

// SpecErrors is a list of problems found in a grammar definition. A builder collects as many of them
// as possible instead of stopping at the first one.
type SpecErrors []*SpecError

func (e SpecErrors) Error() string {
	if len(e) == 0 {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%v", e[0])
	for _, err := range e[1:] {
		fmt.Fprintf(&b, "\n%v", err)
	}
	return b.String()
}

type SpecError struct {
	Cause  error
	Detail string

	// Location is the grammar element the error refers to, such as a symbol name or a production.
	Location string
}

func (e *SpecError) Error() string {
	var b strings.Builder
	if e.Location != "" {
		fmt.Fprintf(&b, "%v: ", e.Location)
	}
	fmt.Fprintf(&b, "error: %v", e.Cause)
	if e.Detail != "" {
		fmt.Fprintf(&b, ": %v", e.Detail)
	}
	return b.String()
}

func (e *SpecError) Unwrap() error {
	return e.Cause
}
