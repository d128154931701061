package server

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/flowlayout/pkg/buildinfo"
	"github.com/matzehuels/flowlayout/pkg/errors"
	"github.com/matzehuels/flowlayout/pkg/graph"
	"github.com/matzehuels/flowlayout/pkg/layout"
	"github.com/matzehuels/flowlayout/pkg/observability"
	"github.com/matzehuels/flowlayout/pkg/pipeline"
)

// =============================================================================
// Wire Types
// =============================================================================

// LayoutRequest is the body of POST /v1/layout. Options fields that are
// present override the server defaults.
type LayoutRequest struct {
	Graph   graph.Graph     `json:"graph"`
	Options *layout.Options `json:"options,omitempty"`
}

// CreateSessionRequest is the optional body of POST /v1/sessions.
type CreateSessionRequest struct {
	Options *layout.Options `json:"options,omitempty"`
}

// SizesRequest is the body of POST /v1/sessions/{id}/sizes.
type SizesRequest struct {
	Sizes map[string]layout.Size `json:"sizes"`
}

// AnchorsRequest is the body of PUT /v1/sessions/{id}/anchors.
type AnchorsRequest struct {
	Anchors []graph.Anchor `json:"anchors"`
}

// SessionResponse describes a session and its latest layout. Ran reports
// whether the request triggered a layout pass.
type SessionResponse struct {
	ID      string        `json:"id"`
	State   string        `json:"state"`
	Passes  int           `json:"passes"`
	Ran     bool          `json:"ran"`
	Created time.Time     `json:"created"`
	Layout  *graph.Layout `json:"layout,omitempty"`
}

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody carries the machine-readable code and a readable message.
type ErrorBody struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"version":  buildinfo.Version,
		"sessions": s.SessionCount(),
	})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	opts := s.opts
	req := LayoutRequest{Options: &opts}
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Options == nil {
		req.Options = &opts
	}

	out, hit, err := s.runner.LayoutWithCacheInfo(r.Context(), req.Graph, *req.Options)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("X-Cache", cacheStatus(hit))
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	opts := s.opts
	req := CreateSessionRequest{Options: &opts}
	if err := decode(w, r, &req); err != nil && err != errEmptyBody {
		s.writeError(w, r, err)
		return
	}
	if req.Options == nil {
		req.Options = &opts
	}

	d, err := pipeline.NewDriver(*req.Options, s.logger)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	id := uuid.NewString()
	now := time.Now().UTC()
	sess := &session{driver: d, created: now, lastUsed: now}

	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()

	s.logger.Debug("session created", "session", id)
	writeJSON(w, http.StatusCreated, sessionResponse(id, sess, nil, false))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id, sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse(id, sess, sess.driver.Result(), false))
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id, _, ok := s.lookup(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()

	s.logger.Debug("session deleted", "session", id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetGraph(w http.ResponseWriter, r *http.Request) {
	id, sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	g, err := graph.ReadGraph(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, ran, err := sess.driver.SetGraph(r.Context(), g)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse(id, sess, res, ran))
}

func (s *Server) handleReportSizes(w http.ResponseWriter, r *http.Request) {
	id, sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var req SizesRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	res, ran, err := sess.driver.ReportNodeSizes(r.Context(), req.Sizes)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if res == nil {
		res = sess.driver.Result()
	}
	writeJSON(w, http.StatusOK, sessionResponse(id, sess, res, ran))
}

func (s *Server) handleSetAnchors(w http.ResponseWriter, r *http.Request) {
	id, sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var req AnchorsRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := sess.driver.SetAnchors(r.Context(), req.Anchors)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse(id, sess, res, false))
}

// =============================================================================
// Helpers
// =============================================================================

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (string, *session, bool) {
	id := chi.URLParam(r, "id")
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "session %q not found", id))
		return "", nil, false
	}
	sess.touch(time.Now().UTC())
	return id, sess, true
}

func sessionResponse(id string, sess *session, res *pipeline.Result, ran bool) SessionResponse {
	resp := SessionResponse{
		ID:      id,
		State:   sess.driver.State().String(),
		Passes:  sess.driver.Passes(),
		Ran:     ran,
		Created: sess.created,
	}
	if res != nil {
		l := pipeline.Export(res)
		resp.Layout = &l
	}
	return resp
}

// errEmptyBody is returned by decode when the body holds no JSON value.
var errEmptyBody = errors.New(errors.ErrCodeInvalidFormat, "empty request body")

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if err == io.EOF {
			return errEmptyBody
		}
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode request")
	}
	return nil
}

func cacheStatus(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}

// statusFor maps an error code to an HTTP status.
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidOptions, errors.ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path,
			"request_id", middleware.GetReqID(r.Context()), "error", err)
	}
	writeJSON(w, status, ErrorResponse{Error: ErrorBody{Code: code, Message: errors.UserMessage(err)}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// observe reports every request to the server hooks and logs it at debug
// level.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		observability.Server().OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		observability.Server().OnResponse(r.Context(), r.Method, route, status, elapsed)
		s.logger.Debug("request", "method", r.Method, "route", route, "status", status, "duration", elapsed)
	})
}
