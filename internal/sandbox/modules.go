// modules.go resolves the modules a manifest declares into the set of
// packages an extension's interpreter is seeded with.
//
// Design: A declared module is builtin when the interpreter's stdlib
// symbol table has it, and external otherwise, in which case it must be Go
// source under <root>/src/<module>. Builtin packages are default-deny: a
// package is granted freely only when it is known to compute without
// touching the host, and a package that reads files, opens sockets or
// starts processes needs the matching capability. Everything else in the
// table, go/build and testing included, is never granted. External paths
// are resolved through symlinks and must stay inside the extension root.

package sandbox

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/traefik/yaegi/stdlib"
)

// builtin maps stdlib import paths to their symbol table keys. os/exec
// only exists in yaegi's unrestricted table.
var builtin = func() map[string]string {
	m := make(map[string]string, len(stdlib.Symbols)+1)
	for key := range stdlib.Symbols {
		if i := strings.LastIndex(key, "/"); i > 0 {
			m[key[:i]] = key
		}
	}
	m["os/exec"] = "os/exec/exec"
	return m
}()

// pure packages compute without reaching the host and need no permission.
var pure = []string{
	"archive/tar", "bufio", "bytes", "cmp",
	"compress/bzip2", "compress/flate", "compress/gzip", "compress/lzw", "compress/zlib",
	"container/heap", "container/list", "container/ring", "context",
	"crypto", "crypto/aes", "crypto/cipher", "crypto/des", "crypto/dsa", "crypto/ecdh",
	"crypto/ecdsa", "crypto/ed25519", "crypto/elliptic", "crypto/hmac", "crypto/md5",
	"crypto/rand", "crypto/rc4", "crypto/rsa", "crypto/sha1", "crypto/sha256",
	"crypto/sha512", "crypto/subtle", "crypto/x509/pkix",
	"encoding", "encoding/ascii85", "encoding/asn1", "encoding/base32", "encoding/base64",
	"encoding/binary", "encoding/csv", "encoding/gob", "encoding/hex", "encoding/json",
	"encoding/pem", "encoding/xml",
	"errors", "fmt",
	"go/ast", "go/build/constraint", "go/constant", "go/doc/comment", "go/format",
	"go/printer", "go/scanner", "go/token", "go/version",
	"hash", "hash/adler32", "hash/crc32", "hash/crc64", "hash/fnv", "hash/maphash",
	"html", "image", "image/color", "image/color/palette", "image/draw", "image/gif",
	"image/jpeg", "image/png", "index/suffixarray", "io", "io/fs", "log",
	"maps", "math", "math/big", "math/bits", "math/cmplx", "math/rand", "math/rand/v2",
	"mime/quotedprintable", "net/mail", "net/netip", "net/url",
	"path", "regexp", "regexp/syntax", "slices", "sort", "strconv", "strings",
	"sync", "sync/atomic", "text/scanner", "text/tabwriter", "text/template/parse",
	"time", "unicode", "unicode/utf16", "unicode/utf8",
}

// gates maps packages that reach the host to the capability they need.
// Anything in the symbol table that is neither pure nor gated is never
// granted.
var gates = map[string]Capability{
	"os":              Filesystem,
	"io/ioutil":       Filesystem,
	"path/filepath":   Filesystem,
	"archive/zip":     Filesystem,
	"text/template":   Filesystem,
	"html/template":   Filesystem,
	"go/parser":       Filesystem,
	"mime":            Filesystem,
	"mime/multipart":  Filesystem,
	"crypto/x509":     Filesystem,
	"debug/buildinfo": Filesystem,
	"debug/dwarf":     Filesystem,
	"debug/elf":       Filesystem,
	"debug/gosym":     Filesystem,
	"debug/macho":     Filesystem,
	"debug/pe":        Filesystem,
	"debug/plan9obj":  Filesystem,

	"os/exec":   Process,
	"os/signal": Process,
	"os/user":   Process,

	"net":                Network,
	"net/http":           Network,
	"net/http/cookiejar": Network,
	"net/http/httptrace": Network,
	"net/http/httputil":  Network,
	"net/rpc":            Network,
	"net/rpc/jsonrpc":    Network,
	"net/smtp":           Network,
	"net/textproto":      Network,
	"crypto/tls":         Network,
	"log/syslog":         Network,
}

// reserved names are never granted, whether or not the symbol table
// carries them.
var reserved = []string{"unsafe", "reflect", "syscall", "runtime", "plugin", "C"}

func isForbidden(pkg string) bool {
	for _, f := range reserved {
		if pkg == f || strings.HasPrefix(pkg, f+"/") {
			return true
		}
	}
	if strings.HasPrefix(pkg, "internal/") || strings.Contains(pkg, "/internal/") {
		return true
	}
	if _, ok := builtin[pkg]; !ok {
		return false
	}
	_, gated := gates[pkg]
	return !gated && !slices.Contains(pure, pkg)
}

// gate returns the capability a builtin package requires, if any.
func gate(pkg string) (Capability, bool) {
	c, ok := gates[pkg]
	return c, ok
}

// seed is the resolved package set for one extension.
type seed struct {
	builtin  map[string]string // import path to symbol table key
	external map[string]string // module import path to directory
}

// allows reports whether an import path is part of the seed.
func (s seed) allows(pkg string) bool {
	if pkg == HostPackage {
		return true
	}
	if _, ok := s.builtin[pkg]; ok {
		return true
	}
	for mod := range s.external {
		if pkg == mod || strings.HasPrefix(pkg, mod+"/") {
			return true
		}
	}
	return false
}

// resolve partitions and checks declared modules. root must already be
// symlink-free.
func resolve(modules []string, caps Capabilities, root string) (seed, error) {
	s := seed{builtin: map[string]string{}, external: map[string]string{}}
	for _, mod := range modules {
		if isForbidden(mod) {
			return s, fmt.Errorf("%w: package %q cannot be granted", ErrPermissionDenied, mod)
		}
		if key, ok := builtin[mod]; ok {
			if c, gated := gate(mod); gated && !caps.Visible(c) {
				return s, fmt.Errorf("%w: package %q requires permission %q", ErrPermissionDenied, mod, c)
			}
			s.builtin[mod] = key
			continue
		}
		dir, err := externalDir(root, mod)
		if err != nil {
			return s, err
		}
		s.external[mod] = dir
	}
	return s, nil
}

// externalDir locates an external module under <root>/src.
func externalDir(root, mod string) (string, error) {
	if mod == HostPackage || !validImportPath(mod) {
		return "", fmt.Errorf("%w: module path %q", ErrPermissionDenied, mod)
	}
	dir := filepath.Join(root, "src", filepath.FromSlash(mod))
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrModuleNotFound, mod)
	}
	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrModuleNotFound, mod, err)
	}
	if !within(root, resolved) {
		return "", fmt.Errorf("%w: module %q resolves outside the extension", ErrPermissionDenied, mod)
	}
	return resolved, nil
}

// validImportPath accepts clean, relative, slash-separated paths.
func validImportPath(p string) bool {
	if p == "" || strings.ContainsAny(p, `\:`) || path.IsAbs(p) || path.Clean(p) != p {
		return false
	}
	return !slices.Contains(strings.Split(p, "/"), "..")
}

// within reports whether p is root or below it.
func within(root, p string) bool {
	rel, err := filepath.Rel(root, p)
	if err != nil || filepath.IsAbs(rel) {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// resolveFile returns the symlink-free path of a file named relative to
// root, refusing anything that lands outside it.
func resolveFile(root, name string) (string, error) {
	if filepath.IsAbs(name) {
		return "", fmt.Errorf("%w: %q is absolute", ErrPermissionDenied, name)
	}
	p := filepath.Join(root, filepath.FromSlash(name))
	if !within(root, p) {
		return "", fmt.Errorf("%w: %q escapes the extension", ErrPermissionDenied, name)
	}
	resolved, err := filepath.EvalSymlinks(p)
	if err != nil {
		return "", fmt.Errorf("%w: entry %q: %v", ErrManifestInvalid, name, err)
	}
	if !within(root, resolved) {
		return "", fmt.Errorf("%w: %q resolves outside the extension", ErrPermissionDenied, name)
	}
	return resolved, nil
}

// sources lists the Go files of an external module, checking that every
// symlink inside it stays within root.
func sources(root, dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type()&fs.ModeSymlink != 0 {
			resolved, err := filepath.EvalSymlinks(p)
			if err != nil {
				return err
			}
			if !within(root, resolved) {
				return fmt.Errorf("%w: %s resolves outside the extension", ErrPermissionDenied, p)
			}
		}
		if d.IsDir() || !strings.HasSuffix(p, ".go") || strings.HasSuffix(p, "_test.go") {
			return nil
		}
		files = append(files, p)
		return nil
	})
	return files, err
}
