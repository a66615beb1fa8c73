package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/chat"
	"github.com/starford/ansuz/internal/faq"
	"github.com/starford/ansuz/internal/faqservice"
	"github.com/starford/ansuz/internal/respond"
)

// Handler holds API route handlers.
type Handler struct {
	svc *faqservice.Service
	mgr *chat.Manager
}

// NewHandler creates a new Handler.
func NewHandler(svc *faqservice.Service, mgr *chat.Manager) *Handler {
	return &Handler{svc: svc, mgr: mgr}
}

// writeErr maps engine sentinel errors to HTTP statuses.
func writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
	case errors.Is(err, apperr.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, errorBody("invalid input"))
	case errors.Is(err, apperr.ErrFeedbackSet):
		writeJSON(w, http.StatusConflict, errorBody("feedback already set"))
	case errors.Is(err, apperr.ErrSessionClosed):
		writeJSON(w, http.StatusGone, errorBody("session closed"))
	default:
		slog.Error("request failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return false
	}
	return true
}

func categoryParam(w http.ResponseWriter, raw string) (faq.Category, bool) {
	if raw == "" {
		return faq.CategoryAll, true
	}
	cat, err := faq.ParseCategory(raw)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("unknown category"))
		return "", false
	}
	return cat, true
}

// ListFAQs handles GET /faqs with optional category filter and pagination.
func (h *Handler) ListFAQs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	cat, ok := categoryParam(w, q.Get("category"))
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	faqs, total, err := h.svc.List(r.Context(), cat, limit, offset)
	if err != nil {
		writeErr(w, err)
		return
	}
	if faqs == nil {
		faqs = []faq.Record{}
	}
	writeJSON(w, http.StatusOK, FAQListResponse{FAQs: faqs, Total: total})
}

// GetFAQ handles GET /faqs/{id}.
func (h *Handler) GetFAQ(w http.ResponseWriter, r *http.Request) {
	rec, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// GetFAQReply handles GET /faqs/{id}/reply: the synthesized reply for a
// record together with its parsed, render-ready paragraphs.
func (h *Handler) GetFAQReply(w http.ResponseWriter, r *http.Request) {
	rec, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	content := respond.Synthesize(rec)
	writeJSON(w, http.StatusOK, ReplyResponse{
		FaqID:      rec.ID,
		Content:    content,
		Paragraphs: respond.ParseMarkup(content),
	})
}

// Categories handles GET /categories.
func (h *Handler) Categories(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, CategoriesResponse{Categories: faq.Categories()})
}

// Search handles GET /search (browse-rule search via the index).
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	cat, ok := categoryParam(w, r.URL.Query().Get("category"))
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	results, err := h.svc.Search(r.Context(), q, cat, limit)
	if err != nil {
		writeErr(w, err)
		return
	}
	if results == nil {
		results = []faq.Record{}
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: results})
}

// CreateSession handles POST /sessions.
func (h *Handler) CreateSession(w http.ResponseWriter, _ *http.Request) {
	s := h.mgr.Create()
	writeJSON(w, http.StatusCreated, SessionResponse{SessionID: s.ID, State: s.Snapshot()})
}

// GetSession handles GET /sessions/{id}.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	s, err := h.mgr.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SessionResponse{SessionID: s.ID, State: s.Snapshot()})
}

// DeleteSession handles DELETE /sessions/{id}.
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.mgr.Close(chi.URLParam(r, "id")); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SendMessage handles POST /sessions/{id}/messages. The user message is
// returned immediately; the bot reply arrives later over SSE and in the
// transcript.
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	s, err := h.mgr.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	var req SendMessageRequest
	if !decodeBody(w, r, &req) {
		return
	}
	m, err := s.Send(req.Content)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, MessageResponse{Message: m})
}

// QuickAction handles POST /sessions/{id}/quick-action.
func (h *Handler) QuickAction(w http.ResponseWriter, r *http.Request) {
	s, err := h.mgr.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	var req QuickActionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	m, err := s.QuickAction(req.Question)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, MessageResponse{Message: m})
}

// SelectFAQ handles POST /sessions/{id}/select.
func (h *Handler) SelectFAQ(w http.ResponseWriter, r *http.Request) {
	s, err := h.mgr.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	var req SelectFAQRequest
	if !decodeBody(w, r, &req) {
		return
	}
	m, err := s.SelectFAQ(req.FaqID)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, MessageResponse{Message: m})
}

// Feedback handles POST /sessions/{id}/messages/{msgID}/feedback.
func (h *Handler) Feedback(w http.ResponseWriter, r *http.Request) {
	s, err := h.mgr.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	var req FeedbackRequest
	if !decodeBody(w, r, &req) {
		return
	}
	var value chat.FeedbackValue
	switch chat.FeedbackValue(req.Feedback) {
	case chat.FeedbackPositive, chat.FeedbackNegative:
		value = chat.FeedbackValue(req.Feedback)
	default:
		writeJSON(w, http.StatusBadRequest, errorBody("feedback must be positive or negative"))
		return
	}
	if err := s.Feedback(chi.URLParam(r, "msgID"), value); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetCategory handles PUT /sessions/{id}/category.
func (h *Handler) SetCategory(w http.ResponseWriter, r *http.Request) {
	s, err := h.mgr.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	var req CategoryRequest
	if !decodeBody(w, r, &req) {
		return
	}
	cat, err := faq.ParseCategory(req.Category)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("unknown category"))
		return
	}
	s.SetCategory(cat)
	writeJSON(w, http.StatusOK, SessionResponse{SessionID: s.ID, State: s.Snapshot()})
}

// SessionSearch handles PUT /sessions/{id}/search (browse-tab typing).
func (h *Handler) SessionSearch(w http.ResponseWriter, r *http.Request) {
	s, err := h.mgr.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	var req SearchRequest
	if !decodeBody(w, r, &req) {
		return
	}
	results := s.Search(req.Query)
	if results == nil {
		results = []faq.Record{}
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: results})
}

// SetVisibility handles PUT /sessions/{id}/visibility.
func (h *Handler) SetVisibility(w http.ResponseWriter, r *http.Request) {
	s, err := h.mgr.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	var req VisibilityRequest
	if !decodeBody(w, r, &req) {
		return
	}
	v, err := chat.ParseVisibility(req.Visibility)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("unknown visibility"))
		return
	}
	s.SetVisibility(v)
	w.WriteHeader(http.StatusNoContent)
}

// Escalate handles POST /sessions/{id}/escalate.
func (h *Handler) Escalate(w http.ResponseWriter, r *http.Request) {
	s, err := h.mgr.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: s.Escalate()})
}

// Analytics handles GET /analytics (in-memory aggregate, reset on restart).
func (h *Handler) Analytics(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.mgr.Analytics())
}
