// resources.go implements MCP resource handlers for extension access.
//
// MCP resources provide read-only access via URI schemes, enabling LLM
// clients to load an extension's manifest and load status as context
// without calling a tool.
//
// Design: Resource URIs follow the pattern sulaiman://extensions/{name}.
// Only extensions from the current load report resolve; unknown names are
// errors rather than empty results.

package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jpl-au/sulaiman/internal/log"
	"github.com/jpl-au/sulaiman/internal/sandbox"
	"github.com/mark3labs/mcp-go/mcp"
)

var (
	// ErrInvalidURI indicates a malformed resource URI, helping clients
	// debug URI construction issues.
	ErrInvalidURI = errors.New("invalid URI")
	// ErrUnknownExtension indicates the URI names no loaded extension.
	ErrUnknownExtension = errors.New("unknown extension")
)

const extensionScheme = "sulaiman://extensions/"

// readExtension handles sulaiman://extensions/{name} resource requests.
func (h *handlers) readExtension(_ context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := req.Params.URI
	name, err := parseExtensionURI(uri)
	if err != nil {
		return nil, err
	}

	ext := findExtension(h.ext.Launcher().Extensions(), name)
	if ext == nil {
		err = fmt.Errorf("%w: %s", ErrUnknownExtension, name)
	}
	log.Event("mcp:extension", "read").Extension(name).Write(err)
	if err != nil {
		return nil, err
	}

	data, err := marshal(ext.Report())
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// parseExtensionURI extracts the extension name from a resource URI.
func parseExtensionURI(uri string) (string, error) {
	name, ok := strings.CutPrefix(uri, extensionScheme)
	if !ok || name == "" || strings.Contains(name, "/") {
		return "", fmt.Errorf("%w: %s", ErrInvalidURI, uri)
	}
	return name, nil
}

func findExtension(exts []*sandbox.Extension, name string) *sandbox.Extension {
	for _, e := range exts {
		if e.Name == name {
			return e
		}
	}
	return nil
}
