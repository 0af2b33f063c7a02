package sandbox

import (
	"maps"
	"reflect"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
	"github.com/traefik/yaegi/stdlib/unrestricted"
)

// HostPackage is the import path of the host API inside the sandbox.
const HostPackage = "sulaiman"

// Symbol is one exported member of the host package. Types are exported
// as a nil pointer to the type, e.g. reflect.ValueOf((*Card)(nil)).
type Symbol struct {
	Name       string
	Capability Capability // "" when always visible
	Value      reflect.Value
}

// exports builds the symbol table for one interpreter: the visible host
// symbols plus the seeded builtin packages. Nothing else is reachable.
// fmt is always loaded so the interpreter redirects the stdio, log and
// environment symbols of every seeded package; imports are still checked
// against the declared set.
func exports(host []Symbol, caps Capabilities, s seed) interp.Exports {
	pkg := make(map[string]reflect.Value, len(host)+1)
	for _, sym := range host {
		if caps.Visible(sym.Capability) {
			pkg[sym.Name] = sym.Value
		}
	}
	pkg["Lookup"] = reflect.ValueOf(func(name string) any {
		v, ok := pkg[name]
		if !ok {
			return nil
		}
		return v.Interface()
	})

	ex := interp.Exports{
		HostPackage + "/" + HostPackage: pkg,
		".":                             stdlib.Symbols["."],
		"fmt/fmt":                       stdlib.Symbols["fmt/fmt"],
	}
	for _, key := range s.builtin {
		ex[key] = symbolTable(key, caps)
	}
	return ex
}

// symbolTable returns the symbols for one builtin package key. The os
// package loses the members that would sidestep other capabilities.
func symbolTable(key string, caps Capabilities) map[string]reflect.Value {
	syms, ok := stdlib.Symbols[key]
	if !ok {
		syms = unrestricted.Symbols[key]
	}
	if key != "os/os" {
		return syms
	}
	syms = maps.Clone(syms)
	// The working directory is process-wide and shared with the host.
	delete(syms, "Chdir")
	if !caps.Visible(Process) {
		delete(syms, "StartProcess")
		delete(syms, "FindProcess")
	}
	return syms
}
