package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"vitrine/api/internal/images"
	"vitrine/api/internal/notify"
	"vitrine/api/internal/preview"
	"vitrine/api/internal/session"
	"vitrine/api/internal/store"
)

type HTTPServer struct {
	service    *Service
	images     *images.Service
	previewHub *preview.Hub
	changes    *notify.Hub
	corsOrigin string
	uploadsDir string
}

func NewHTTPServer(service *Service, imgs *images.Service, previewHub *preview.Hub, changes *notify.Hub, corsOrigin, uploadsDir string) *HTTPServer {
	return &HTTPServer{
		service:    service,
		images:     imgs,
		previewHub: previewHub,
		changes:    changes,
		corsOrigin: corsOrigin,
		uploadsDir: uploadsDir,
	}
}

func (s *HTTPServer) Handler() http.Handler {
	return s.withMiddleware(http.HandlerFunc(s.handle))
}

func (s *HTTPServer) handle(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		writeJSON(w, http.StatusNoContent, map[string]any{})
		return
	}

	if (r.Method == http.MethodGet || r.Method == http.MethodHead) && r.URL.Path == "/api/health" {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		return
	}

	if (r.Method == http.MethodGet || r.Method == http.MethodHead) && r.URL.Path == "/api/ready" {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		status := "ready"
		statusCode := http.StatusOK
		checks := map[string]any{
			"store": map[string]any{"status": "ok"},
		}
		if err := s.service.Ping(ctx); err != nil {
			status = "not_ready"
			statusCode = http.StatusServiceUnavailable
			checks["store"] = map[string]any{"status": "error", "error": err.Error()}
		}
		writeJSON(w, statusCode, map[string]any{
			"ok":     status == "ready",
			"status": status,
			"checks": checks,
		})
		return
	}

	// Public content and contact form
	if r.Method == http.MethodGet && r.URL.Path == "/site-data" {
		doc, degraded := s.service.Document(r.Context())
		payload := map[string]any{"success": true, "content": doc}
		if degraded {
			payload["warning"] = "content store unavailable, serving empty content"
		}
		writeJSON(w, http.StatusOK, payload)
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/contact" {
		var body ContactInput
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		created, err := s.service.CreateSubmission(r.Context(), body)
		if err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{
			"success":    true,
			"message":    "thanks, we will get back to you shortly",
			"submission": created,
		})
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/upload-image" {
		s.handleUploadImage(w, r)
		return
	}

	if r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/uploads/") && s.uploadsDir != "" {
		// Object names are flat, Base strips any traversal attempt.
		name := filepath.Base(r.URL.Path)
		http.ServeFile(w, r, filepath.Join(s.uploadsDir, name))
		return
	}

	// Auth routes
	if r.Method == http.MethodPost && r.URL.Path == "/admin/login" {
		var body struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		token, err := s.service.Login(r.Context(), body.Username, body.Password)
		if err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success":   true,
			"sessionId": token,
			"message":   "login successful",
		})
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/admin/logout" {
		token := sessionToken(r)
		if token != "" {
			_ = s.service.Logout(r.Context(), token)
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "logged out"})
		return
	}

	if r.Method == http.MethodGet && r.URL.Path == "/admin/auth/verify" {
		token := sessionToken(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "no session", nil)
			return
		}
		sess, err := s.service.Authenticate(r.Context(), token)
		if err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success":       true,
			"authenticated": true,
			"username":      sess.Principal,
		})
		return
	}

	// Everything below requires a valid session.
	if r.URL.Path == "/site-data" || strings.HasPrefix(r.URL.Path, "/admin/") {
		sess, ok := s.requireSession(w, r)
		if !ok {
			return
		}
		r = r.WithContext(withPrincipal(r.Context(), sess.Principal))
		s.handleAdmin(w, r)
		return
	}

	writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
}

func (s *HTTPServer) handleAdmin(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost && r.URL.Path == "/site-data" {
		var doc store.ContentDocument
		if err := decodeBody(r, &doc); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		saved, err := s.service.SaveDocument(r.Context(), doc)
		if err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "content": saved})
		return
	}

	parts := splitPath(r.URL.Path)
	if len(parts) < 2 || parts[0] != "admin" {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
		return
	}

	switch parts[1] {
	case "services", "projects", "testimonials", "faq":
		s.handleSection(w, r, parts[1], parts[2:])
	case "submissions":
		s.handleSubmissions(w, r, parts[2:])
	case "settings":
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
			return
		}
		var patch map[string]any
		if err := decodeBody(r, &patch); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		doc, err := s.service.UpdateSettings(r.Context(), patch)
		if err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "settings": doc.Settings})
	case "history":
		s.handleHistory(w, r, parts[2:])
	case "preview":
		s.handlePreview(w, r, parts[2:])
	default:
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
	}
}

// handleSection dispatches the CRUD surface shared by the four list sections.
func (s *HTTPServer) handleSection(w http.ResponseWriter, r *http.Request, section string, rest []string) {
	ctx := r.Context()

	if len(rest) == 0 {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
			return
		}
		s.createSectionEntity(w, r, section)
		return
	}

	if len(rest) == 1 && rest[0] == "reorder" {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
			return
		}
		var body struct {
			IDs []int64 `json:"ids"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		var err error
		switch section {
		case "services":
			err = s.service.ReorderServices(ctx, body.IDs)
		case "projects":
			err = s.service.ReorderProjects(ctx, body.IDs)
		case "testimonials":
			err = s.service.ReorderTestimonials(ctx, body.IDs)
		case "faq":
			err = s.service.ReorderFaq(ctx, body.IDs)
		}
		if err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
		return
	}

	if len(rest) == 1 {
		id, err := strconv.ParseInt(rest[0], 10, 64)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "id must be an integer", nil)
			return
		}
		switch r.Method {
		case http.MethodPut:
			s.updateSectionEntity(w, r, section, id)
		case http.MethodDelete:
			var delErr error
			switch section {
			case "services":
				delErr = s.service.DeleteService(ctx, id)
			case "projects":
				delErr = s.service.DeleteProject(ctx, id)
			case "testimonials":
				delErr = s.service.DeleteTestimonial(ctx, id)
			case "faq":
				delErr = s.service.DeleteFaq(ctx, id)
			}
			if delErr != nil {
				status, code, message, details := mapError(delErr)
				writeError(w, status, code, message, details)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "deleted"})
		default:
			writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
		}
		return
	}

	writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
}

func (s *HTTPServer) createSectionEntity(w http.ResponseWriter, r *http.Request, section string) {
	ctx := r.Context()
	switch section {
	case "services":
		var in ServiceInput
		if err := decodeBody(r, &in); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		created, err := s.service.CreateService(ctx, in)
		if err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"success": true, "service": created})
	case "projects":
		var in ProjectInput
		if err := decodeBody(r, &in); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		created, err := s.service.CreateProject(ctx, in)
		if err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"success": true, "project": created})
	case "testimonials":
		var in TestimonialInput
		if err := decodeBody(r, &in); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		created, err := s.service.CreateTestimonial(ctx, in)
		if err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"success": true, "testimonial": created})
	case "faq":
		var in FaqInput
		if err := decodeBody(r, &in); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		created, err := s.service.CreateFaq(ctx, in)
		if err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"success": true, "faq": created})
	}
}

func (s *HTTPServer) updateSectionEntity(w http.ResponseWriter, r *http.Request, section string, id int64) {
	ctx := r.Context()
	switch section {
	case "services":
		var in ServiceInput
		if err := decodeBody(r, &in); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		updated, err := s.service.UpdateService(ctx, id, in)
		if err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "service": updated})
	case "projects":
		var in ProjectInput
		if err := decodeBody(r, &in); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		updated, err := s.service.UpdateProject(ctx, id, in)
		if err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "project": updated})
	case "testimonials":
		var in TestimonialInput
		if err := decodeBody(r, &in); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		updated, err := s.service.UpdateTestimonial(ctx, id, in)
		if err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "testimonial": updated})
	case "faq":
		var in FaqInput
		if err := decodeBody(r, &in); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		updated, err := s.service.UpdateFaq(ctx, id, in)
		if err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "faq": updated})
	}
}

func (s *HTTPServer) handleSubmissions(w http.ResponseWriter, r *http.Request, rest []string) {
	ctx := r.Context()

	if len(rest) == 0 {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
			return
		}
		views, degraded := s.service.Submissions(ctx)
		payload := map[string]any{"success": true, "submissions": views, "total": len(views)}
		if degraded {
			payload["warning"] = "content store unavailable"
		}
		writeJSON(w, http.StatusOK, payload)
		return
	}

	if len(rest) == 1 && rest[0] == "board" {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
			return
		}
		board, degraded := s.service.BoardView(ctx)
		payload := map[string]any{
			"success":        true,
			"view":           board.View,
			"columns":        board.Columns,
			"hiddenStatuses": board.HiddenStatuses,
		}
		if degraded {
			payload["warning"] = "content store unavailable"
		}
		writeJSON(w, http.StatusOK, payload)
		return
	}

	if len(rest) == 1 && rest[0] == "search" {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
			return
		}
		views, err := s.service.SearchSubmissions(ctx, r.URL.Query().Get("q"))
		if err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "submissions": views, "total": len(views)})
		return
	}

	id, err := strconv.ParseInt(rest[0], 10, 64)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "id must be an integer", nil)
		return
	}

	if len(rest) == 2 && rest[1] == "quote" {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
			return
		}
		result, err := s.service.QuotePDF(ctx, id)
		if err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		w.Header().Set("Content-Type", result.MimeType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(result.Data)
		return
	}

	if len(rest) != 1 {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
		return
	}

	switch r.Method {
	case http.MethodPatch:
		var patch SubmissionPatch
		if err := decodeBody(r, &patch); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		updated, err := s.service.UpdateSubmission(ctx, id, patch)
		if err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "submission": updated})
	case http.MethodDelete:
		if err := s.service.DeleteSubmission(ctx, id); err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "deleted"})
	default:
		writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	}
}

func (s *HTTPServer) handleHistory(w http.ResponseWriter, r *http.Request, rest []string) {
	ctx := r.Context()

	if len(rest) == 0 {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
			return
		}
		limit := 50
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil {
				writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "limit must be an integer", nil)
				return
			}
			limit = parsed
		}
		versions, err := s.service.History(ctx, limit)
		if err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "versions": versions})
		return
	}

	if len(rest) == 1 {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
			return
		}
		doc, err := s.service.HistoryVersion(ctx, rest[0])
		if err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "content": doc})
		return
	}

	if len(rest) == 2 && rest[1] == "restore" {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
			return
		}
		doc, err := s.service.RestoreVersion(ctx, rest[0])
		if err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "content": doc})
		return
	}

	writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
}

func (s *HTTPServer) handlePreview(w http.ResponseWriter, r *http.Request, rest []string) {
	if len(rest) == 0 {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
			return
		}
		var body map[string]any
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		fields := body
		if nested, ok := body["fields"].(map[string]any); ok {
			fields = nested
		}
		s.service.PushPreview(fields)
		writeJSON(w, http.StatusAccepted, map[string]any{"success": true})
		return
	}

	if len(rest) == 1 && rest[0] == "events" {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
			return
		}
		s.handlePreviewEvents(w, r)
		return
	}

	writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
}

// handlePreviewEvents streams refresh events for open preview windows: one
// event per debounced snapshot, plus content-changed pings when the stored
// document moves under them.
func (s *HTTPServer) handlePreviewEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "SERVER_ERROR", "streaming unsupported", nil)
		return
	}
	if s.previewHub == nil {
		writeError(w, http.StatusServiceUnavailable, "SERVER_ERROR", "preview disabled", nil)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	events, cancelEvents := s.previewHub.Subscribe()
	defer cancelEvents()

	var changes <-chan notify.Change
	cancelChanges := func() {}
	if s.changes != nil {
		changes, cancelChanges = s.changes.Subscribe()
	}
	defer cancelChanges()

	heartbeat := time.NewTicker(25 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		case event, open := <-events:
			if !open {
				return
			}
			data, err := json.Marshal(event.Snapshot)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, data)
			flusher.Flush()
		case change, open := <-changes:
			if !open {
				return
			}
			data, err := json.Marshal(change)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: content-changed\ndata: %s\n\n", data)
			flusher.Flush()
		}
	}
}

func (s *HTTPServer) handleUploadImage(w http.ResponseWriter, r *http.Request) {
	if s.images == nil || !s.images.Available() {
		writeError(w, http.StatusServiceUnavailable, "UPLOAD_UNAVAILABLE", "no image storage configured", nil)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, images.MaxUploadSize)
	if err := r.ParseMultipartForm(images.MaxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "invalid multipart form", nil)
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "image file is required", nil)
		return
	}
	defer file.Close()

	url, err := s.images.Upload(r.Context(), header.Filename, file)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "could not process image", nil)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "imageUrl": url})
}

func (s *HTTPServer) requireSession(w http.ResponseWriter, r *http.Request) (session.Session, bool) {
	token := sessionToken(r)
	if token == "" {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing x-session-id", nil)
		return session.Session{}, false
	}
	validated, err := s.service.Authenticate(r.Context(), token)
	if err != nil {
		status, code, message, details := mapError(err)
		writeError(w, status, code, message, details)
		return session.Session{}, false
	}
	return validated, true
}

// sessionToken reads the session from the request. EventSource cannot set
// headers, so the SSE route also accepts a query parameter.
func sessionToken(r *http.Request) string {
	if v := strings.TrimSpace(r.Header.Get("x-session-id")); v != "" {
		return v
	}
	return strings.TrimSpace(r.URL.Query().Get("session"))
}

func (s *HTTPServer) withMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = randomRequestID()
		}
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		started := time.Now()
		writer := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		setCORSHeaders(writer.Header(), s.corsOrigin)
		writer.Header().Set("X-Request-ID", requestID)

		next.ServeHTTP(writer, r)

		log.Printf(`{"request_id":"%s","method":"%s","path":"%s","status":%d,"duration_ms":%d}`,
			requestID,
			r.Method,
			r.URL.Path,
			writer.status,
			time.Since(started).Milliseconds(),
		)
	})
}

type requestIDKey struct{}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Flush keeps SSE working through the logging wrapper.
func (r *statusRecorder) Flush() {
	if flusher, ok := r.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func randomRequestID() string {
	buf := make([]byte, 8)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}

func setCORSHeaders(header http.Header, corsOrigin string) {
	header.Set("Access-Control-Allow-Origin", corsOrigin)
	header.Set("Access-Control-Allow-Headers", "Content-Type, x-session-id, X-Request-ID")
	header.Set("Access-Control-Allow-Methods", "GET,POST,PUT,PATCH,DELETE,OPTIONS")
	header.Set("Cache-Control", "no-store")
	header.Set("Content-Type", "application/json")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string, details any) {
	response := map[string]any{
		"success": false,
		"code":    code,
		"message": message,
	}
	if details != nil {
		response["details"] = details
	}
	writeJSON(w, status, response)
}

func decodeBody(r *http.Request, target any) error {
	if r.Body == nil {
		return nil
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(target); err != nil {
		if errors.Is(err, http.ErrBodyReadAfterClose) {
			return nil
		}
		return fmt.Errorf("invalid JSON body")
	}
	return nil
}

func splitPath(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

func mapError(err error) (status int, code, message string, details any) {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Status, domainErr.Code, domainErr.Message, domainErr.Details
	}
	return http.StatusInternalServerError, "SERVER_ERROR", "Server error", nil
}
