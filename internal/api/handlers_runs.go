package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Addybuddy9/Adobe-1B-Hack-the-Horizon/internal/config"
	"github.com/Addybuddy9/Adobe-1B-Hack-the-Horizon/internal/document"
	"github.com/Addybuddy9/Adobe-1B-Hack-the-Horizon/internal/extract"
	"github.com/Addybuddy9/Adobe-1B-Hack-the-Horizon/internal/pipeline"
)

// handleSubmitRun accepts a multipart batch: persona, job, and one or
// more document files. The run executes asynchronously; the response
// carries a poll URL.
func (s *Server) handleSubmitRun(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes*10+10*1024*1024)

	if err := r.ParseMultipartForm(64 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	persona := strings.TrimSpace(r.FormValue("persona"))
	job := strings.TrimSpace(r.FormValue("job"))
	if persona == "" || job == "" {
		jsonError(w, "persona and job are required", http.StatusBadRequest)
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		jsonError(w, "at least one file is required", http.StatusBadRequest)
		return
	}

	opts, err := s.runOptions(r)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	var inputs []pipeline.Input
	for _, fh := range files {
		filename := sanitizeFilename(fh.Filename)
		if !extract.IsSupportedExtension(filename) {
			jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
			return
		}

		f, err := fh.Open()
		if err != nil {
			jsonError(w, "failed to open "+filename, http.StatusBadRequest)
			return
		}
		data, err := io.ReadAll(io.LimitReader(f, s.cfg.MaxUploadBytes+1))
		f.Close()
		if err != nil {
			jsonError(w, "failed to read "+filename, http.StatusInternalServerError)
			return
		}
		if int64(len(data)) > s.cfg.MaxUploadBytes {
			jsonError(w, fmt.Sprintf("%s exceeds max size (%d bytes)", filename, s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
			return
		}
		inputs = append(inputs, pipeline.Input{Filename: filename, Data: data})
	}

	run := pipeline.NewRun(pipeline.Request{
		Query:   document.Query{Persona: persona, Job: job},
		Inputs:  inputs,
		Options: opts,
	})

	if err := s.orchestrator.Submit(run); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{
		"run_id":   run.ID,
		"status":   pipeline.StatusQueued,
		"poll_url": fmt.Sprintf("/api/runs/%s/status", run.ID),
	})
}

// runOptions applies form overrides on top of the configured defaults
// and validates the combination before any work starts.
func (s *Server) runOptions(r *http.Request) (config.Options, error) {
	opts := s.cfg.Options
	if v := r.FormValue("top_k"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, fmt.Errorf("invalid top_k: %q", v)
		}
		opts.TopKSections = n
	}
	if v := r.FormValue("min_score"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opts, fmt.Errorf("invalid min_score: %q", v)
		}
		opts.MinRelevanceScore = f
	}
	if v := r.FormValue("include_subsections"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, fmt.Errorf("invalid include_subsections: %q", v)
		}
		opts.IncludeSubsections = b
	}
	if err := opts.Validate(); err != nil {
		return opts, err
	}
	return opts, nil
}

func (s *Server) handleRunStatus(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")
	run := s.orchestrator.GetRun(runID)
	if run == nil {
		jsonError(w, "run not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(run.Snapshot())
}

func (s *Server) handleRunResult(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")
	run := s.orchestrator.GetRun(runID)
	if run == nil {
		jsonError(w, "run not found", http.StatusNotFound)
		return
	}
	res := run.Result()
	if res == nil {
		snap := run.Snapshot()
		if snap.Status == pipeline.StatusFailed {
			jsonError(w, "run failed: "+snap.Error, http.StatusUnprocessableEntity)
			return
		}
		jsonError(w, "run not completed", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
