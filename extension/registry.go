// registry.go implements the builtin extension registration system.
//
// Separated from extension.go to isolate the global registry state and
// thread-safe access patterns. Builtin extensions self-register during
// init(), before main() runs. Sandboxed extensions never appear here; the
// sandbox keeps its own per-session load report.
//
// Design: The registry uses panic-on-duplicate following database/sql.Register
// conventions. Registration order is preserved so builtin phrases register
// and commands list in the same order on every run.

package extension

import "sync"

// Registry holds all registered extensions.
var (
	mu       sync.RWMutex
	registry = make(map[string]Extension)
	order    []string // preserve registration order
)

// Register adds an extension to the registry. Called from init() functions.
//
// Duplicate names are programmer mistakes caught at start-up, so Register
// panics rather than returning an error, like database/sql.Register.
func Register(e Extension) {
	mu.Lock()
	defer mu.Unlock()

	name := e.Name()
	if _, exists := registry[name]; exists {
		panic("extension already registered: " + name)
	}

	registry[name] = e
	order = append(order, name)
}

// All returns all registered extensions in registration order.
func All() []Extension {
	mu.RLock()
	defer mu.RUnlock()

	exts := make([]Extension, 0, len(order))
	for _, name := range order {
		exts = append(exts, registry[name])
	}
	return exts
}

// Get returns a specific extension by name, or nil if not found.
func Get(name string) Extension {
	mu.RLock()
	defer mu.RUnlock()
	return registry[name]
}

// Names returns the names of all registered extensions.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, len(order))
	copy(names, order)
	return names
}

// Init runs Init on every Initializable extension in registration order,
// stopping at the first failure.
func Init(ctx Context) error {
	for _, ext := range All() {
		if in, ok := ext.(Initializable); ok {
			if err := in.Init(ctx); err != nil {
				return &InitError{Name: ext.Name(), Err: err}
			}
		}
	}
	return nil
}

// InitError reports which builtin extension failed to initialise.
type InitError struct {
	Name string
	Err  error
}

func (e *InitError) Error() string { return "init extension " + e.Name + ": " + e.Err.Error() }

func (e *InitError) Unwrap() error { return e.Err }
