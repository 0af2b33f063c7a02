// Testing Strategy Design Decision:
//
// The cmd/ package contains CLI integration tests that exercise the full stack:
// command parsing -> launcher -> sandbox -> interpreted extension source.
//
// Each test gets its own SULAIMAN_HOME, so config, the audit log, the
// diagnostic log and the extensions directory are isolated. Extensions are
// written as real manifest.json + main.go pairs and loaded by the binary.

package cmd

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	binaryPath string
	buildOnce  sync.Once
	buildErr   error
)

// buildBinary compiles the sulaiman binary once for all tests.
func buildBinary(t *testing.T) string {
	t.Helper()

	buildOnce.Do(func() {
		// Build to a temp location
		tmpDir, err := os.MkdirTemp("", "sulaiman-test-bin-*")
		if err != nil {
			buildErr = err
			return
		}

		binaryName := "sulaiman"
		if os.PathSeparator == '\\' {
			binaryName = "sulaiman.exe"
		}
		binaryPath = filepath.Join(tmpDir, binaryName)

		// Find project root (parent of cmd/)
		wd := mustGetwd()
		projectRoot := filepath.Dir(wd)

		cmd := exec.Command("go", "build", "-o", binaryPath, ".")
		cmd.Dir = projectRoot
		if out, err := cmd.CombinedOutput(); err != nil {
			buildErr = &buildError{err: err, output: string(out)}
			return
		}
	})

	if buildErr != nil {
		t.Fatalf("failed to build binary: %v", buildErr)
	}
	return binaryPath
}

type buildError struct {
	err    error
	output string
}

func (e *buildError) Error() string {
	return e.err.Error() + "\n" + e.output
}

func mustGetwd() string {
	dir, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	return dir
}

// testEnv holds test environment state.
type testEnv struct {
	t      *testing.T
	home   string
	binary string
}

// newTestEnv creates a temporary SULAIMAN_HOME with an empty extensions
// directory.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	binary := buildBinary(t)
	home := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(home, "extensions"), 0o755))

	return &testEnv{t: t, home: home, binary: binary}
}

// extension writes an extension directory with the given manifest and main.go.
func (e *testEnv) extension(name, manifest, main string) {
	e.t.Helper()
	dir := filepath.Join(e.home, "extensions", name)
	require.NoError(e.t, os.MkdirAll(dir, 0o755))
	require.NoError(e.t, os.WriteFile(filepath.Join(dir, "manifest.json"), []byte(manifest), 0o644))
	require.NoError(e.t, os.WriteFile(filepath.Join(dir, "main.go"), []byte(main), 0o644))
}

// run executes sulaiman with the given args and returns stdout.
func (e *testEnv) run(args ...string) string {
	e.t.Helper()
	out, err := e.runErr(args...)
	if err != nil {
		e.t.Fatalf("sulaiman %v failed: %v\noutput: %s", args, err, out)
	}
	return out
}

// runErr executes sulaiman and returns stdout and any error.
func (e *testEnv) runErr(args ...string) (string, error) {
	e.t.Helper()

	cmd := exec.Command(e.binary, args...)
	cmd.Dir = e.home
	cmd.Env = append(os.Environ(), "SULAIMAN_HOME="+e.home)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

// contains checks if output contains expected string.
func (e *testEnv) contains(output, expected string) {
	e.t.Helper()
	assert.Contains(e.t, output, expected)
}

// equals checks if output equals expected string (trimmed).
func (e *testEnv) equals(output, expected string) {
	e.t.Helper()
	assert.Equal(e.t, strings.TrimSpace(expected), strings.TrimSpace(output))
}

// Extension fixtures shared by the integration tests.
const (
	helloManifest = `{
  // greets whoever is named after the phrase
  "name": "hello",
  "displayName": "Hello",
  "permissions": [],
  "modules": ["strings"],
}`

	helloMain = `package main

import (
	"strings"

	"sulaiman"
)

func main() {
	sulaiman.RegisterPhrase("hello", []string{"world", "there"}, nil,
		func(c *sulaiman.Card, arg, trailing string) sulaiman.Intent {
			sulaiman.SetInput(strings.ToUpper("hello " + arg))
			return sulaiman.Intent{KeepFocus: true}
		})
}
`

	// sneaky references a clipboard symbol it did not ask for.
	sneakyManifest = `{"name": "sneaky", "displayName": "Sneaky", "permissions": [], "modules": []}`

	sneakyMain = `package main

import "sulaiman"

func main() {
	text, _ := sulaiman.ReadClipboard()
	sulaiman.SetInput(text)
}
`

	// elsewhere only runs on a platform no test host is.
	elsewhereManifest = `{"name": "elsewhere", "displayName": "Elsewhere", "platform": ["plan9"], "permissions": [], "modules": []}`

	emptyMain = "package main\n\nfunc main() {}\n"
)
