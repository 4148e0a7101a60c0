package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/zz2213/qinglong-txt-to-epub/internal/pipeline"
)

func submitErrStatus(err error) int {
	switch {
	case errors.Is(err, pipeline.ErrBookNotFound):
		return http.StatusNotFound
	case errors.Is(err, pipeline.ErrJobInFlight):
		return http.StatusConflict
	default:
		return http.StatusServiceUnavailable
	}
}

// convertRequest is the optional JSON body of POST /api/convert. An
// empty body (or empty book name) requests a full scan of the source
// folder instead of a single book.
type convertRequest struct {
	Book string `json:"book"`
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req convertRequest
	body, err := io.ReadAll(r.Body)
	if err != nil {
		jsonError(w, "failed to read request body", http.StatusBadRequest)
		return
	}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			jsonError(w, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
			return
		}
	}

	if req.Book == "" {
		submitted, err := s.orchestrator.ScanAndSubmit()
		if err != nil {
			jsonError(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(map[string]any{
			"submitted": submitted,
		})
		return
	}

	job, err := s.orchestrator.SubmitBook(sanitizeBook(req.Book))
	if err != nil {
		jsonError(w, err.Error(), submitErrStatus(err))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":   job.ID,
		"book":     job.Book,
		"status":   job.Status,
		"poll_url": fmt.Sprintf("/api/convert/%s/status", job.ID),
	})
}

func (s *Server) handleConvertStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	snap := job.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":   snap.ID,
		"book":     snap.Book,
		"status":   snap.Status,
		"phase":    snap.Phase,
		"progress": snap.Progress,
	})
}

// bookInfo is one entry in the GET /api/books listing.
type bookInfo struct {
	Book      string   `json:"book"`
	Sources   []string `json:"sources"`
	Built     bool     `json:"built"`
	UpToDate  bool     `json:"up_to_date"`
	InFlight  bool     `json:"in_flight"`
	Converted string   `json:"epub,omitempty"`
}

func (s *Server) handleListBooks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.orchestrator.Books()
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	books := make([]bookInfo, 0, len(tasks))
	for _, task := range tasks {
		dest := pipeline.DestPath(s.cfg.DestDir, task.Book)
		built := fileExists(dest)
		info := bookInfo{
			Book:     task.Book,
			Sources:  task.Files,
			Built:    built,
			UpToDate: built && !pipeline.NeedsUpdate(task.SourcePaths(), dest),
			InFlight: s.orchestrator.ActiveFor(task.Book),
		}
		if built {
			info.Converted = filepath.Base(dest)
		}
		books = append(books, info)
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"books": books,
		"count": len(books),
	})
}

func fileExists(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && !fi.IsDir()
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// sanitizeBook strips path components so a request can never escape the
// source folder.
func sanitizeBook(name string) string {
	return filepath.Base(filepath.Clean(name))
}
