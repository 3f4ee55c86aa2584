// Package introspect exposes a read-only view of a project's knowledge
// base over the Model Context Protocol, for agent tooling that wants to
// ask "what does this name resolve to" or "who uses this" without speaking
// the binary editor-driver protocol. It is strictly additive: nothing here
// can produce a refactor or touch the compile-preservation guarantees the
// session layer enforces.
package introspect

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/elm-pair/elm-pair/internal/kb"
)

// Server wraps an MCP server answering resolve_symbol, find_usages, and
// list_sessions directly from a project's HotSwap-guarded knowledge base.
type Server struct {
	mcp      *server.MCPServer
	store    *kb.HotSwap
	sessions SessionLister
}

// SessionLister reports the editors currently connected to the daemon, for
// the list_sessions tool. The session package's Server satisfies it
// directly, so this package needs no dependency on session internals.
type SessionLister interface {
	ActiveSessions() []string
}

// New builds an introspection server over store. sessions may be nil, in
// which case list_sessions always reports an empty set.
func New(store *kb.HotSwap, sessions SessionLister) *Server {
	s := &Server{
		mcp:      server.NewMCPServer("elm-pair", "1.0.0"),
		store:    store,
		sessions: sessions,
	}
	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	s.mcp.AddTool(mcp.NewTool("resolve_symbol",
		mcp.WithDescription("Resolve an identifier, optionally qualified, in a given module to the module that declares it."),
		mcp.WithString("module", mcp.Required(), mcp.Description("Module the reference appears in")),
		mcp.WithString("qualifier", mcp.Description("Qualifier before the dot, empty for an unqualified reference")),
		mcp.WithString("name", mcp.Required(), mcp.Description("Identifier to resolve")),
	), s.resolveSymbol)

	s.mcp.AddTool(mcp.NewTool("find_usages",
		mcp.WithDescription("Find every occurrence of an identifier, optionally qualified, across the project."),
		mcp.WithString("qualifier", mcp.Description("Qualifier before the dot, empty for an unqualified reference")),
		mcp.WithString("name", mcp.Required(), mcp.Description("Identifier to search for")),
	), s.findUsages)

	s.mcp.AddTool(mcp.NewTool("list_sessions",
		mcp.WithDescription("List editor sessions currently connected to this daemon."),
	), s.listSessions)
}

// Serve blocks, serving MCP requests over stdio until the transport closes.
// ctx is not consulted: canceling it does not stop the server.
func (s *Server) Serve(ctx context.Context) error {
	return server.ServeStdio(s.mcp)
}

func (s *Server) resolveSymbol(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	module, err := req.RequireString("module")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	qualifier := req.GetString("qualifier", "")

	res := s.store.Current().Resolve(module, nil, qualifier, name)
	return mcp.NewToolResultText(formatResolution(res, name)), nil
}

func (s *Server) findUsages(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	qualifier := req.GetString("qualifier", "")

	occs := s.store.Current().FindUsages(qualifier, name)
	return mcp.NewToolResultText(formatUsages(occs)), nil
}

func (s *Server) listSessions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var active []string
	if s.sessions != nil {
		active = s.sessions.ActiveSessions()
	}
	return mcp.NewToolResultText(formatSessions(active)), nil
}

// formatResolution renders a kb.Resolution as the resolve_symbol tool's
// text payload. Split out from resolveSymbol so the formatting rules can
// be tested without constructing an mcp.CallToolRequest.
func formatResolution(res kb.Resolution, name string) string {
	switch res.Status {
	case kb.ResolvedUnique:
		return fmt.Sprintf("%s.%s", res.Module, name)
	case kb.ResolvedAmbiguous:
		return fmt.Sprintf("ambiguous: %s", strings.Join(res.Candidates, ", "))
	default:
		return "unresolved"
	}
}

// formatUsages renders a find_usages result as the tool's text payload.
func formatUsages(occs []kb.Occurrence) string {
	if len(occs) == 0 {
		return "no usages found"
	}
	lines := make([]string, len(occs))
	for i, occ := range occs {
		lines[i] = fmt.Sprintf("file %d, bytes [%d:%d), kind %d", occ.Position.File, occ.Position.StartByte, occ.Position.EndByte, occ.Kind)
	}
	return strings.Join(lines, "\n")
}

// formatSessions renders the list_sessions result as the tool's text
// payload.
func formatSessions(active []string) string {
	if len(active) == 0 {
		return "no sessions"
	}
	return strings.Join(active, "\n")
}
