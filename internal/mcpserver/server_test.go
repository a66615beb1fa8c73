package mcpserver

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/ansuz/internal/faqservice"
	"github.com/starford/ansuz/internal/testutil"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	svc, err := faqservice.NewService(testutil.Corpus(t), testutil.TestDB(t))
	if err != nil {
		t.Fatal(err)
	}
	return New(svc)
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go has no direct "call tool" test helper, so the handler
	// functions are exercised directly.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "search_faqs":
		result, err = srv.searchFAQs(ctx, req)
	case "read_faq":
		result, err = srv.readFAQ(ctx, req)
	case "ask":
		result, err = srv.ask(ctx, req)
	case "list_categories":
		result, err = srv.listCategories(ctx, req)
	case "get_corpus_contract":
		result, err = srv.getCorpusContract(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestAsk(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "ask", map[string]interface{}{
		"question": "What are the capital requirements?",
	})
	text := resultText(r)
	if !strings.Contains(text, "capital adequacy ratio of 15%") {
		t.Errorf("answer = %q", text)
	}
	if !strings.Contains(text, "Reference: Banking Act") {
		t.Errorf("answer missing reference block: %q", text)
	}
}

func TestAskFallback(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "ask", map[string]interface{}{
		"question": "xyzzy unrelated nonsense",
	})
	text := resultText(r)
	if !strings.Contains(text, "could not find an answer") {
		t.Errorf("expected fallback, got %q", text)
	}
}

func TestAskCategoryFilter(t *testing.T) {
	srv := testServer(t)

	// The only capital-requirements record is Banking Supervision, so a
	// Licensing-scoped question falls back.
	r := callTool(t, srv, "ask", map[string]interface{}{
		"question": "What are the capital requirements?",
		"category": "Licensing",
	})
	if !strings.Contains(resultText(r), "could not find an answer") {
		t.Errorf("got %q", resultText(r))
	}

	r = callTool(t, srv, "ask", map[string]interface{}{
		"question": "capital",
		"category": "Weather",
	})
	if !r.IsError {
		t.Error("expected error for unknown category")
	}
}

func TestSearchFAQs(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "search_faqs", map[string]interface{}{"query": "capital adequacy"})
	text := resultText(r)
	if !strings.Contains(text, `"id": "faq-1"`) {
		t.Errorf("results = %q", text)
	}

	r = callTool(t, srv, "search_faqs", map[string]interface{}{
		"query":    "banking",
		"category": "Licensing",
	})
	text = resultText(r)
	if !strings.Contains(text, `"id": "faq-3"`) || strings.Contains(text, `"id": "faq-1"`) {
		t.Errorf("licensing results = %q", text)
	}

	r = callTool(t, srv, "search_faqs", map[string]interface{}{})
	if !r.IsError {
		t.Error("expected error for missing query")
	}
}

func TestReadFAQ(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "read_faq", map[string]interface{}{"id": "faq-6"})
	text := resultText(r)
	if !strings.Contains(text, "registering a new financial services company") {
		t.Errorf("record = %q", text)
	}

	r = callTool(t, srv, "read_faq", map[string]interface{}{"id": "faq-99"})
	if !r.IsError {
		t.Error("expected error for missing record")
	}
}

func TestListCategories(t *testing.T) {
	srv := testServer(t)
	text := resultText(callTool(t, srv, "list_categories", map[string]interface{}{}))
	for _, want := range []string{"Banking Supervision", "Licensing", "Registration", "AML/CFT"} {
		if !strings.Contains(text, want) {
			t.Errorf("categories missing %q: %q", want, text)
		}
	}
}

func TestCorpusContract(t *testing.T) {
	srv := testServer(t)
	text := resultText(callTool(t, srv, "get_corpus_contract", map[string]interface{}{}))
	if !strings.Contains(text, "faqs:") {
		t.Errorf("contract = %q", text)
	}

	contents, err := srv.readCorpusFormatResource(context.Background(), mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if len(contents) != 1 {
		t.Fatalf("contents = %d", len(contents))
	}
	tc, ok := contents[0].(mcp.TextResourceContents)
	if !ok || tc.URI != "ansuz://corpus-format" {
		t.Errorf("resource = %+v", contents[0])
	}
}
