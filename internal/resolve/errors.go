package resolve

import "fmt"

// LoadError reports a provider that could not be constructed from configuration.
type LoadError struct {
	Kind string // "sourcepath" | "classpath"
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("resolve: cannot load %s entry %s: %v", e.Kind, e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }
