// Package manifest parses and validates extension manifests.
//
// A manifest is a manifest.json file at the root of an extension directory.
// The file is JSONC: line and block comments and trailing commas are
// accepted and stripped before decoding. Structural rules are expressed as
// validator tags; the permissions and modules lists are required but may
// be empty, so an absent list and an empty list are different manifests.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/tidwall/jsonc"
)

// FileName is the manifest file inside an extension directory.
const FileName = "manifest.json"

// DefaultMain is the entry script used when main is not set.
const DefaultMain = "main.go"

// ErrInvalid indicates a malformed or incomplete manifest.
var ErrInvalid = errors.New("invalid manifest")

var validate = validator.New()

// Manifest describes one extension.
type Manifest struct {
	Name        string   `json:"name" validate:"required,excludesall=/\\"`
	Version     string   `json:"version"`
	Description string   `json:"description"`
	DisplayName string   `json:"displayName" validate:"required"`
	Platform    []string `json:"platform,omitempty" validate:"omitempty,dive,required"`
	Permissions []string `json:"permissions" validate:"required,dive,required"`
	Modules     []string `json:"modules" validate:"required,dive,required"`
	Theme       bool     `json:"theme"`
	Main        string   `json:"main,omitempty"`
}

// Parse decodes and validates JSONC manifest data.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(jsonc.ToJSON(data), &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Read loads the manifest from an extension directory.
func Read(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", dir, err)
	}
	return m, nil
}

// Validate checks required fields and the name and entry constraints.
func (m *Manifest) Validate() error {
	if err := validate.Struct(m); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(fields, ", "))
		}
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if m.Name == "." || m.Name == ".." {
		return fmt.Errorf("%w: name %q", ErrInvalid, m.Name)
	}
	if m.Main != "" && filepath.Ext(m.Main) != ".go" {
		return fmt.Errorf("%w: main %q is not a .go file", ErrInvalid, m.Main)
	}
	return nil
}

// Entry returns the entry script path relative to the extension root.
func (m *Manifest) Entry() string {
	if m.Main == "" {
		return DefaultMain
	}
	return m.Main
}

// Declares reports whether permission p is listed.
func (m *Manifest) Declares(p string) bool {
	return slices.Contains(m.Permissions, p)
}

// platformAliases maps manifest platform names to GOOS values.
var platformAliases = map[string]string{
	"win32": "windows",
	"macos": "darwin",
}

// SupportsPlatform reports whether the extension runs on goos. An empty
// platform list means every platform.
func (m *Manifest) SupportsPlatform(goos string) bool {
	if len(m.Platform) == 0 {
		return true
	}
	for _, p := range m.Platform {
		p = strings.ToLower(p)
		if alias, ok := platformAliases[p]; ok {
			p = alias
		}
		if p == goos {
			return true
		}
	}
	return false
}
