package sandbox

import (
	"fmt"
	"go/parser"
	"go/token"
	"strconv"
)

// imports returns the import paths of one Go source file. src may be nil,
// in which case the file is read from path.
func imports(path string, src []byte) ([]string, error) {
	f, err := parser.ParseFile(token.NewFileSet(), path, src, parser.ImportsOnly)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEvaluation, err)
	}
	out := make([]string, 0, len(f.Imports))
	for _, imp := range f.Imports {
		p, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: bad import %s", ErrEvaluation, path, imp.Path.Value)
		}
		out = append(out, p)
	}
	return out, nil
}

// checkImports rejects any import outside the seed.
func checkImports(path string, src []byte, s seed) error {
	pkgs, err := imports(path, src)
	if err != nil {
		return err
	}
	for _, p := range pkgs {
		if !s.allows(p) {
			return fmt.Errorf("%w: %s imports undeclared package %q", ErrPermissionDenied, path, p)
		}
	}
	return nil
}
