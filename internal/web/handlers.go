package web

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/reconcile/internal/core"
	"github.com/JonMunkholm/reconcile/internal/logging"
	"github.com/JonMunkholm/reconcile/internal/reconcile"
	"github.com/JonMunkholm/reconcile/internal/table"
)

// multipartMemory is how much of a multipart form is buffered in memory
// before spilling to temporary files.
const multipartMemory = 32 << 20

// Download parts served by handleDownload.
const (
	PartFinal   = "final"
	PartAdded   = "added"
	PartRemoved = "removed"
)

// handleHealth reports liveness and the run limiter state.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"limiter": s.service.LimiterStatus(),
	})
}

// handleCompareHeaders checks that two uploaded files share a header.
func (s *Server) handleCompareHeaders(w http.ResponseWriter, r *http.Request) {
	files, err := s.parseUpload(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	defer files.close()

	if err := s.service.CompareHeaders(r.Context(), files.old, files.new); err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"match": true})
}

// handleReconcile runs a reconciliation and returns the full result.
func (s *Server) handleReconcile(w http.ResponseWriter, r *http.Request) {
	files, err := s.parseUpload(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	defer files.close()

	req := core.ReconcileRequest{Old: files.old, New: files.new}
	if req.OptionThreshold, err = parseThreshold(r, "option_threshold"); err != nil {
		s.respondError(w, r, err)
		return
	}
	if req.MergeThreshold, err = parseThreshold(r, "merge_threshold"); err != nil {
		s.respondError(w, r, err)
		return
	}

	rr, err := s.service.Reconcile(r.Context(), req)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newReconcileResponse(rr))
}

// handleListRuns returns recent run summaries, newest first.
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := parseIntParam(r, "limit", core.DefaultHistoryLimit)

	runs, err := s.service.ListRuns(r.Context(), limit)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

// handleGetRun returns one run summary.
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.service.GetRun(r.Context(), chi.URLParam(r, "runID"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, run)
}

// handleDownload serves final.csv, added.csv or removed.csv for a cached run.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")
	part, ok := strings.CutSuffix(chi.URLParam(r, "part"), ".csv")
	if !ok {
		http.NotFound(w, r)
		return
	}

	rr, err := s.service.Result(runID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	res := rr.Result
	var rows []reconcile.Record
	switch part {
	case PartFinal:
		rows = res.Table.Rows
	case PartAdded:
		rows = res.Added
	case PartRemoved:
		rows = res.Removed
	default:
		http.NotFound(w, r)
		return
	}

	filename := fmt.Sprintf("%s_%s_%s.csv", part, shortID(runID), rr.Run.StartedAt.Format("20060102_150405"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	if err := s.service.WriteRows(w, res.Table.Header, rows); err != nil {
		// Headers are already sent
		logging.FromContext(r.Context()).Error("write csv download", "run_id", runID, "part", part, "error", err)
	}
}

// handleLimiterStatus returns the run limiter state.
func (s *Server) handleLimiterStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.LimiterStatus())
}

// uploadedFiles holds the two multipart files of a request.
type uploadedFiles struct {
	old, new core.FileInput
	closers  []multipart.File
}

func (u *uploadedFiles) close() {
	for _, c := range u.closers {
		c.Close()
	}
}

// parseUpload reads the "old" and "new" multipart files. The body is capped
// at twice the per-file limit plus form overhead.
func (s *Server) parseUpload(w http.ResponseWriter, r *http.Request) (*uploadedFiles, error) {
	maxSize := s.service.Config().MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, 2*maxSize+1<<20)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, fmt.Errorf("%w: request body exceeds %d bytes", table.ErrFileTooLarge, tooLarge.Limit)
		}
		return nil, fmt.Errorf("%w: invalid multipart form: %w", core.ErrNoFile, err)
	}

	files := &uploadedFiles{}
	for _, field := range []struct {
		name string
		dst  *core.FileInput
	}{
		{"old", &files.old},
		{"new", &files.new},
	} {
		f, header, err := r.FormFile(field.name)
		if err != nil {
			files.close()
			return nil, fmt.Errorf("%s file: %w", field.name, core.ErrNoFile)
		}
		files.closers = append(files.closers, f)
		*field.dst = core.FileInput{Name: header.Filename, Data: f}
	}

	return files, nil
}

// parseThreshold reads an optional float form value.
func parseThreshold(r *http.Request, name string) (*float64, error) {
	raw := strings.TrimSpace(r.FormValue(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %q is not a number", reconcile.ErrInvalidArgument, name, raw)
	}
	return &v, nil
}

// parseIntParam parses a positive integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 1 {
		return defaultVal
	}
	return i
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
