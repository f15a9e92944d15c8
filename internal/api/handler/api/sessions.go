// internal/api/handler/api/sessions.go
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/newthinker/traderstats/internal/api/response"
	"github.com/newthinker/traderstats/internal/api/session"
	"github.com/newthinker/traderstats/internal/app"
	"github.com/newthinker/traderstats/internal/core"
	"github.com/newthinker/traderstats/internal/ingest"
	"github.com/newthinker/traderstats/internal/journal"
	"github.com/newthinker/traderstats/internal/metrics"
	"github.com/newthinker/traderstats/internal/report"
	"github.com/newthinker/traderstats/internal/storage/archive"
	"go.uber.org/zap"
)

// ImportRequest is the JSON body for importing exports from the archive.
type ImportRequest struct {
	Paths []string `json:"paths"`
}

// FileStatus reports how one uploaded or referenced file was handled.
type FileStatus struct {
	Name     string `json:"name"`
	Sheet    string `json:"sheet,omitempty"`
	Rows     int    `json:"rows"`
	Accepted bool   `json:"accepted"`
	Error    string `json:"error,omitempty"`
}

// SessionResponse is returned when a session is created.
type SessionResponse struct {
	SessionID string         `json:"session_id"`
	Trades    int            `json:"trades"`
	Dropped   map[string]int `json:"dropped"`
	Files     []FileStatus   `json:"files"`
}

// ReportResponse carries a report and its display rendering.
type ReportResponse struct {
	Scope  string         `json:"scope"`
	Report *report.Report `json:"report"`
	View   report.View    `json:"view"`
}

// SessionHandler handles the session API.
type SessionHandler struct {
	app       *app.App
	sessions  *session.Store
	metrics   *metrics.Registry
	logger    *zap.Logger
	maxUpload int64
}

// NewSessionHandler creates a new session handler. reg may be nil.
func NewSessionHandler(
	a *app.App,
	sessions *session.Store,
	reg *metrics.Registry,
	logger *zap.Logger,
	maxUploadBytes int64,
) *SessionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxUploadBytes <= 0 {
		maxUploadBytes = 32 << 20
	}
	return &SessionHandler{
		app:       a,
		sessions:  sessions,
		metrics:   reg,
		logger:    logger,
		maxUpload: maxUploadBytes,
	}
}

// Create imports a batch and opens a session. Exports are either uploaded as
// multipart field "files" or named by archive path in a JSON body.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > h.maxUpload {
		response.Fail(w, core.WrapError(core.ErrUploadTooLarge,
			fmt.Errorf("%d bytes, limit %d", r.ContentLength, h.maxUpload)))
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)

	var (
		imp *app.Import
		err error
	)
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		var files []ingest.File
		files, err = h.uploadedFiles(r)
		if err == nil {
			imp, err = h.app.Import(r.Context(), files)
		}
	} else {
		var paths []string
		paths, err = h.archivePaths(r)
		if err == nil {
			imp, err = h.app.ImportPaths(r.Context(), paths)
		}
	}

	if err != nil {
		if tooLarge(err) {
			err = core.WrapError(core.ErrUploadTooLarge, fmt.Errorf("limit %d bytes", h.maxUpload))
		}
		if errors.Is(err, core.ErrNoTrades) && imp != nil {
			err = core.WrapError(core.ErrNoTrades, rejectionSummary(imp.Files))
		}
		response.Fail(w, err)
		return
	}

	sess := h.sessions.Create(imp.Store, imp.Files)
	h.recordSessions()
	h.logger.Info("session created",
		zap.String("session_id", sess.ID),
		zap.Int("trades", imp.Store.Len()),
	)

	response.JSON(w, http.StatusCreated, SessionResponse{
		SessionID: sess.ID,
		Trades:    imp.Store.Len(),
		Dropped:   imp.Dropped,
		Files:     fileStatuses(imp.Files),
	})
}

func (h *SessionHandler) uploadedFiles(r *http.Request) ([]ingest.File, error) {
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		return nil, core.WrapError(core.ErrFileRejected, err)
	}
	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		return nil, core.WrapError(core.ErrFileRejected, errors.New(`no files in field "files"`))
	}

	files := make([]ingest.File, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, core.WrapError(core.ErrFileRejected, fmt.Errorf("%s: %w", fh.Filename, err))
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, core.WrapError(core.ErrFileRejected, fmt.Errorf("%s: %w", fh.Filename, err))
		}
		files = append(files, ingest.FromBytes(fh.Filename, data))
	}
	return files, nil
}

func (h *SessionHandler) archivePaths(r *http.Request) ([]string, error) {
	var req ImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, core.WrapError(core.ErrFileRejected, err)
	}
	if len(req.Paths) == 0 {
		return nil, core.WrapError(core.ErrFileRejected, errors.New("no paths supplied"))
	}
	for _, p := range req.Paths {
		if !archive.IsRelative(p) {
			return nil, core.WrapError(core.ErrFileRejected, fmt.Errorf("%q must be relative to the archive", p))
		}
	}
	return req.Paths, nil
}

// Report returns the report for ?scope=all|YYYY-MM.
func (h *SessionHandler) Report(w http.ResponseWriter, r *http.Request) {
	store, ok := h.store(w, r)
	if !ok {
		return
	}

	scope, err := report.ParseScope(r.URL.Query().Get("scope"))
	if err != nil {
		response.Fail(w, err)
		return
	}

	rep, err := h.app.Report(store, scope)
	if err != nil {
		response.Fail(w, err)
		return
	}

	response.JSON(w, http.StatusOK, ReportResponse{
		Scope:  scope.String(),
		Report: rep,
		View:   rep.View(),
	})
}

// Calendar returns the calendar for ?month=YYYY-MM, defaulting to the latest month.
func (h *SessionHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	store, ok := h.store(w, r)
	if !ok {
		return
	}

	var month core.Month
	if q := r.URL.Query().Get("month"); q != "" {
		m, err := core.ParseMonth(q)
		if err != nil {
			response.Fail(w, core.WrapError(core.ErrInvalidScope, err))
			return
		}
		month = m
	} else if latest, ok := store.LatestMonth(); ok {
		month = latest
	} else {
		response.Fail(w, core.ErrNoTrades)
		return
	}

	rep, err := h.app.Report(store, report.SingleMonth(month))
	if err != nil {
		response.Fail(w, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]any{
		"month":    month.String(),
		"calendar": rep.Calendar,
		"view":     rep.View().Calendar,
	})
}

// Trades returns the trade log for ?scope=all|YYYY-MM.
func (h *SessionHandler) Trades(w http.ResponseWriter, r *http.Request) {
	store, ok := h.store(w, r)
	if !ok {
		return
	}

	scope, err := report.ParseScope(r.URL.Query().Get("scope"))
	if err != nil {
		response.Fail(w, err)
		return
	}

	rep, err := h.app.Report(store, scope)
	if err != nil {
		response.Fail(w, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]any{
		"scope":  scope.String(),
		"trades": rep.Trades,
		"rows":   rep.View().Trades,
	})
}

// Months lists the months with trades and the default month.
func (h *SessionHandler) Months(w http.ResponseWriter, r *http.Request) {
	store, ok := h.store(w, r)
	if !ok {
		return
	}

	months, latest, err := h.app.Months(store)
	if err != nil {
		response.Fail(w, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]any{
		"months":  months,
		"default": latest,
	})
}

// Delete closes a session.
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Delete(r.PathValue("id")); err != nil {
		response.Fail(w, err)
		return
	}
	h.recordSessions()
	w.WriteHeader(http.StatusNoContent)
}

// Sweep drops expired sessions every interval until ctx is done.
func (h *SessionHandler) Sweep(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := h.sessions.Sweep(); n > 0 {
				h.logger.Debug("expired sessions removed", zap.Int("count", n))
			}
			h.recordSessions()
		}
	}
}

func (h *SessionHandler) store(w http.ResponseWriter, r *http.Request) (*journal.Store, bool) {
	sess, err := h.sessions.Get(r.PathValue("id"))
	if err != nil {
		h.recordSessions()
		response.Fail(w, err)
		return nil, false
	}
	return sess.Trades, true
}

func (h *SessionHandler) recordSessions() {
	if h.metrics != nil {
		h.metrics.SetSessionsActive(h.sessions.Len())
	}
}

// tooLarge reports whether err comes from reading past the upload limit.
func tooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr) || errors.Is(err, multipart.ErrMessageTooLarge)
}

func fileStatuses(results []ingest.FileResult) []FileStatus {
	out := make([]FileStatus, len(results))
	for i, r := range results {
		out[i] = FileStatus{Name: r.Name, Sheet: r.Sheet, Rows: r.Rows, Accepted: r.Accepted()}
		if r.Err != nil {
			out[i].Error = r.Err.Error()
		}
	}
	return out
}

func rejectionSummary(results []ingest.FileResult) error {
	var msgs []string
	for _, r := range results {
		if r.Err != nil {
			msgs = append(msgs, r.Err.Error())
		}
	}
	if len(msgs) == 0 {
		return nil
	}
	return errors.New(strings.Join(msgs, "; "))
}
