// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes the FAQ matcher and synthesizer to LLM clients via stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/ansuz/internal/faq"
	"github.com/starford/ansuz/internal/faqservice"
	"github.com/starford/ansuz/internal/match"
	"github.com/starford/ansuz/internal/respond"
)

// Server wraps the MCP server with FAQ tools.
type Server struct {
	mcp *server.MCPServer
	svc *faqservice.Service
}

// New creates a new MCP server with all FAQ tools registered.
func New(svc *faqservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Ansuz",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_faqs",
		mcp.WithDescription("Substring search through FAQ questions, answers, and keywords."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
		mcp.WithString("category", mcp.Description("Optional category filter (default All)")),
	), s.searchFAQs)

	s.mcp.AddTool(mcp.NewTool("read_faq",
		mcp.WithDescription("Read a single FAQ record by id."),
		mcp.WithString("id", mcp.Required(), mcp.Description("FAQ record id (e.g. faq-1)")),
	), s.readFAQ)

	s.mcp.AddTool(mcp.NewTool("ask",
		mcp.WithDescription("Answer a free-text question the way the chat widget does: "+
			"keyword-driven matching against the corpus, then a synthesized reply "+
			"with references and document links, or a fallback when nothing matches."),
		mcp.WithString("question", mcp.Required(), mcp.Description("Free-text question")),
		mcp.WithString("category", mcp.Description("Optional category filter (default All)")),
	), s.ask)

	s.mcp.AddTool(mcp.NewTool("list_categories",
		mcp.WithDescription("List the closed FAQ category set."),
	), s.listCategories)

	s.mcp.AddTool(mcp.NewTool("get_corpus_contract",
		mcp.WithDescription("Returns the corpus YAML format contract."),
	), s.getCorpusContract)

	// Resource: corpus format contract.
	s.mcp.AddResource(
		mcp.NewResource("ansuz://corpus-format", "Corpus Format Contract",
			mcp.WithResourceDescription("YAML format of the FAQ corpus file."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readCorpusFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func categoryArg(req mcp.CallToolRequest) (faq.Category, error) {
	raw := req.GetString("category", "")
	if raw == "" {
		return faq.CategoryAll, nil
	}
	return faq.ParseCategory(raw)
}

func (s *Server) searchFAQs(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	cat, err := categoryArg(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.svc.Search(ctx, query, cat, 20)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(results, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readFAQ(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rec, err := s.svc.Get(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
	}
	out, _ := json.MarshalIndent(rec, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) ask(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := req.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	cat, err := categoryArg(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	best := match.Best(question, s.svc.Corpus(), cat)
	return mcp.NewToolResultText(respond.Synthesize(best)), nil
}

func (s *Server) listCategories(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cats := faq.Categories()
	names := make([]string, len(cats))
	for i, c := range cats {
		names[i] = string(c)
	}
	return mcp.NewToolResultText(strings.Join(names, "\n")), nil
}

func (s *Server) getCorpusContract(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(CorpusFormatContract), nil
}

func (s *Server) readCorpusFormatResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "ansuz://corpus-format",
			MIMEType: "text/markdown",
			Text:     CorpusFormatContract,
		},
	}, nil
}
