package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/ansuz/internal/chat"
	"github.com/starford/ansuz/internal/faqservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *faqservice.Service, mgr *chat.Manager, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc, mgr)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// FAQ browsing.
	r.Get("/faqs", h.ListFAQs)
	r.Get("/faqs/{id}", h.GetFAQ)
	r.Get("/faqs/{id}/reply", h.GetFAQReply)
	r.Get("/categories", h.Categories)
	r.Get("/search", h.Search)

	// Chat sessions.
	r.Post("/sessions", h.CreateSession)
	r.Get("/sessions/{id}", h.GetSession)
	r.Delete("/sessions/{id}", h.DeleteSession)
	r.Post("/sessions/{id}/messages", h.SendMessage)
	r.Post("/sessions/{id}/quick-action", h.QuickAction)
	r.Post("/sessions/{id}/select", h.SelectFAQ)
	r.Post("/sessions/{id}/messages/{msgID}/feedback", h.Feedback)
	r.Put("/sessions/{id}/category", h.SetCategory)
	r.Put("/sessions/{id}/search", h.SessionSearch)
	r.Put("/sessions/{id}/visibility", h.SetVisibility)
	r.Post("/sessions/{id}/escalate", h.Escalate)

	// Analytics.
	r.Get("/analytics", h.Analytics)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
