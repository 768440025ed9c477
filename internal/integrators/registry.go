package integrators

import (
	"fmt"
	"sort"

	"github.com/san-kum/orrery/internal/dynamo"
)

// DefaultScheme is the scheme used when none is named.
const DefaultScheme = "kinematic"

var schemes = map[string]func() Scheme{
	"kinematic":  func() Scheme { return NewKinematic() },
	"euler":      func() Scheme { return NewEuler() },
	"symplectic": func() Scheme { return NewSymplectic() },
}

// Lookup returns a new scheme by name.
func Lookup(name string) (Scheme, error) {
	fn, ok := schemes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s (available: %v)", dynamo.ErrUnknownScheme, name, Schemes())
	}
	return fn(), nil
}

// Schemes lists the registered scheme names in sorted order.
func Schemes() []string {
	names := make([]string, 0, len(schemes))
	for name := range schemes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
