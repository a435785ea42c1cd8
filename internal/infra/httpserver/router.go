package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	appanalyses "github.com/bryanwahyu/compliance-review/internal/application/analyses"
	appassist "github.com/bryanwahyu/compliance-review/internal/application/assist"
	domain "github.com/bryanwahyu/compliance-review/internal/domain/analyses"
	domassist "github.com/bryanwahyu/compliance-review/internal/domain/assist"
	"github.com/bryanwahyu/compliance-review/internal/middleware"
)

const serviceVersion = "0.1.0"

type Router struct {
	analysesSvc *appanalyses.Service
	assistSvc   *appassist.Service
}

// NewRouter wires the compliance analysis endpoints. assistSvc may be nil,
// in which case the assist route is not mounted.
func NewRouter(analysesSvc *appanalyses.Service, assistSvc *appassist.Service) http.Handler {
	r := &Router{analysesSvc: analysesSvc, assistSvc: assistSvc}
	mux := chi.NewRouter()

	mux.Get("/", r.handleRoot)
	mux.Get("/health", r.wrap(r.handleHealth))

	// User endpoints
	mux.With(middleware.RequireRole(middleware.RoleUser)).
		Post("/analyze", r.wrap(r.handleSubmit))
	mux.With(middleware.RequireRole(middleware.RoleUser)).
		Get("/analysis/{id}", r.wrap(r.handleGet))

	// Reviewer endpoints
	mux.With(middleware.RequireRole(middleware.RoleReviewer)).
		Get("/reviews/pending", r.wrap(r.handlePending))
	mux.With(middleware.RequireRole(middleware.RoleReviewer)).
		Post("/reviews/{id}/decision", r.wrap(r.handleDecide))
	mux.With(middleware.RequireRole(middleware.RoleReviewer)).
		Get("/reviews/all", r.wrap(r.handleListAll))
	if r.assistSvc != nil {
		mux.With(middleware.RequireRole(middleware.RoleReviewer)).
			Post("/reviews/{id}/assist", r.wrap(r.handleAssist))
	}

	// Available to both modes
	mux.With(middleware.RequireAnyRole).Get("/stats", r.wrap(r.handleStats))

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// badRequestError marks caller errors surfaced from request decoding.
type badRequestError struct{ err error }

func (e *badRequestError) Error() string { return e.err.Error() }

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, err)
		case errors.Is(err, domain.ErrAlreadyReviewed):
			middleware.IncrementReviewConflicts()
			writeError(w, http.StatusConflict, err)
		case errors.Is(err, domain.ErrInvalidDecision),
			errors.Is(err, domain.ErrTextRequired),
			errors.Is(err, domain.ErrInvalidStatus):
			writeError(w, http.StatusBadRequest, err)
		case errors.Is(err, domassist.ErrQuotaExceeded):
			writeError(w, http.StatusTooManyRequests, err)
		default:
			var bad *badRequestError
			if errors.As(err, &bad) {
				writeError(w, http.StatusBadRequest, err)
				return
			}
			writeError(w, http.StatusInternalServerError, err)
		}
	}
}

func writeError(w http.ResponseWriter, code int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"detail": err.Error()})
}

func writeJSON(w http.ResponseWriter, code int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	return json.NewEncoder(w).Encode(v)
}

// GET /
func (r *Router) handleRoot(w http.ResponseWriter, req *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Compliance Analysis API",
		"version": serviceVersion,
		"endpoints": map[string][]string{
			"user": {
				"POST /analyze - Submit text for compliance analysis",
				"GET /analysis/{id} - Get analysis result",
			},
			"reviewer": {
				"GET /reviews/pending - Get all pending reviews",
				"POST /reviews/{id}/decision - Approve or reject analysis",
				"GET /reviews/all - Get all analyses with optional status filter",
			},
		},
		"usage": map[string]string{
			"mode_switching": "Include 'X-User-Mode: user' or 'X-User-Mode: reviewer' header in requests",
		},
	})
}

// GET /health
func (r *Router) handleHealth(w http.ResponseWriter, req *http.Request) error {
	start := time.Now()

	st, err := r.analysesSvc.Statistics(req.Context())
	if err != nil {
		return err
	}

	return writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"service":   "compliance-analysis-api",
		"version":   serviceVersion,
		"timestamp": start.Unix(),
		"storage": map[string]any{
			"total_analyses":  st.Total,
			"pending_reviews": st.Pending,
		},
		"response_time_ms": float64(time.Since(start).Microseconds()) / 1000.0,
	})
}

// POST /analyze
func (r *Router) handleSubmit(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Text *string `json:"text"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return &badRequestError{err: fmt.Errorf("invalid request body: %w", err)}
	}
	// Missing field is a caller error; an explicit empty string still scores.
	if body.Text == nil {
		return domain.ErrTextRequired
	}

	res, err := r.analysesSvc.Submit(req.Context(), appanalyses.SubmitCommand{Text: *body.Text})
	if err != nil {
		return err
	}
	middleware.IncrementAnalyses()

	return writeJSON(w, http.StatusCreated, map[string]any{
		"id":         res.ID,
		"status":     res.Status,
		"score":      res.Score,
		"created_at": res.CreatedAt,
		"message":    fmt.Sprintf("Analysis created successfully. Status: %s", res.Status),
	})
}

// GET /analysis/{id}
func (r *Router) handleGet(w http.ResponseWriter, req *http.Request) error {
	id := domain.AnalysisID(chi.URLParam(req, "id"))

	a, err := r.analysesSvc.Get(req.Context(), id)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, a)
}

// GET /reviews/pending
func (r *Router) handlePending(w http.ResponseWriter, req *http.Request) error {
	list, err := r.analysesSvc.ListPending(req.Context())
	if err != nil {
		return err
	}
	if list == nil {
		list = []*domain.Analysis{}
	}
	return writeJSON(w, http.StatusOK, list)
}

// POST /reviews/{id}/decision
func (r *Router) handleDecide(w http.ResponseWriter, req *http.Request) error {
	id := domain.AnalysisID(chi.URLParam(req, "id"))

	var body struct {
		Decision string `json:"decision"`
		Notes    string `json:"notes"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return &badRequestError{err: fmt.Errorf("invalid request body: %w", err)}
	}
	if err := middleware.ValidateDecision(body.Decision); err != nil {
		return domain.ErrInvalidDecision
	}

	res, err := r.analysesSvc.Decide(req.Context(), appanalyses.DecideCommand{
		ID:       id,
		Decision: body.Decision,
		Notes:    middleware.SanitizeString(body.Notes),
	})
	if err != nil {
		return err
	}
	middleware.IncrementReviews()

	return writeJSON(w, http.StatusOK, map[string]any{
		"id":          res.ID,
		"status":      res.Status,
		"reviewed_at": res.ReviewedAt,
		"message":     fmt.Sprintf("Analysis has been %s", res.Status),
	})
}

// GET /reviews/all?status=
func (r *Router) handleListAll(w http.ResponseWriter, req *http.Request) error {
	raw := req.URL.Query().Get("status")
	if err := middleware.ValidateStatusFilter(raw); err != nil {
		return domain.ErrInvalidStatus
	}
	var filter *domain.Status
	if raw != "" {
		st, err := domain.ParseStatus(raw)
		if err != nil {
			return err
		}
		filter = &st
	}

	list, err := r.analysesSvc.ListReviews(req.Context(), filter)
	if err != nil {
		return err
	}
	if list == nil {
		list = []*domain.Analysis{}
	}
	return writeJSON(w, http.StatusOK, list)
}

// POST /reviews/{id}/assist
func (r *Router) handleAssist(w http.ResponseWriter, req *http.Request) error {
	id := domain.AnalysisID(chi.URLParam(req, "id"))

	a, err := r.analysesSvc.Get(req.Context(), id)
	if err != nil {
		return err
	}

	notes, err := r.assistSvc.DraftNotes(req.Context(), a)
	if err != nil {
		return err
	}

	return writeJSON(w, http.StatusOK, map[string]any{
		"id":              a.ID,
		"suggested_notes": notes,
	})
}

// GET /stats
func (r *Router) handleStats(w http.ResponseWriter, req *http.Request) error {
	st, err := r.analysesSvc.Statistics(req.Context())
	if err != nil {
		return err
	}

	return writeJSON(w, http.StatusOK, map[string]any{
		"total_analyses": st.Total,
		"pending_review": st.Pending,
		"approved":       st.Approved,
		"rejected":       st.Rejected,
		"average_score":  st.AverageScore,
		"mode":           middleware.GetRoleFromContext(req.Context()),
	})
}
