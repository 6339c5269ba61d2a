// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes smithygen capabilities as MCP tools over stdio.
package mcpserver

import (
	"context"
	"regexp"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/smithygen"
)

const serverInstructions = `smithygen MCP server: inspects Smithy JSON models, generates Go packages, synthesizes mock instances and checks instances against structures.

Models are passed as {"file": "..."} or {"content": "..."} with the JSON AST of a Smithy model.

Configuration: defaults are configurable via SMITHYGEN_MCP_* environment variables set in your MCP client config.

Key settings:
- SMITHYGEN_MCP_CACHE_ENABLED (default: true) disables model caching entirely
- SMITHYGEN_MCP_CACHE_FILE_TTL (default: 15m) is the cache TTL for model files
- SMITHYGEN_MCP_LIST_LIMIT (default: 100) is the default result limit for inspect
- SMITHYGEN_MCP_MOCK_SEED (default: 1) seeds the mock and generate tools
- SMITHYGEN_MCP_SERVICE_POLICY (default: multiple) is the generate service policy

Caching: loaded models are cached per session. File entries use path+mtime as key so edits are picked up. A background sweeper removes expired entries every 60s.`

// Run starts the MCP server over stdio and blocks until the client disconnects
// or the context is cancelled.
func Run(ctx context.Context) error {
	if cfg.CacheEnabled {
		modelCache.startSweeper(ctx, cfg.CacheSweepInterval)
	}

	server := mcp.NewServer(
		&mcp.Implementation{Name: "smithygen", Version: smithygen.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "inspect",
		Description: "Summarize a Smithy model: namespaces, shape counts, services with their operations and HTTP routes, and a paginated list of shapes. Filter shapes by namespace, kind (structure, list, map, enum, simple type, operation, resource, service) or name glob. Use group_by (kind or namespace) to get distribution counts instead of individual shapes.",
	}, handleInspect)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate",
		Description: "Generate Go packages from a Smithy model, one package per namespace. Requires output_dir. Use namespaces to restrict generation and policy=single to reject namespaces declaring several services. Returns a manifest of generated packages and files.",
	}, handleGenerate)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "mock",
		Description: "Synthesize a sample JSON instance of a shape. Self-referential structures are cut off so the result is always finite. The same seed always yields the same instance.",
	}, handleMock)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "check",
		Description: "Check a JSON instance against a structure shape. Reports the first required member that is absent, including members of nested structures, lists and maps.",
	}, handleCheck)
}

// pathPattern matches absolute paths under the usual filesystem roots.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

// sanitizeError replaces absolute paths in err with <path> so tool results
// do not reveal the host's directory layout.
func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}
