package httpapi

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"golang.org/x/text/language"

	"github.com/MimeLyc/subtitle-batch-translator/internal/batch"
	"github.com/MimeLyc/subtitle-batch-translator/internal/config"
	"github.com/MimeLyc/subtitle-batch-translator/internal/jobs"
	"github.com/MimeLyc/subtitle-batch-translator/internal/service"
	"github.com/MimeLyc/subtitle-batch-translator/internal/translator"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

type backendResponse struct {
	Name       string               `json:"name"`
	InfoURL    string               `json:"info_url,omitempty"`
	SizeBudget int                  `json:"size_budget"`
	MaxLines   int                  `json:"max_lines,omitempty"`
	Languages  []batch.LanguagePair `json:"languages,omitempty"`
	Error      string               `json:"error,omitempty"`
}

func (s *Server) handleBackends(w http.ResponseWriter, r *http.Request) {
	if s.backends == nil {
		writeError(w, http.StatusNotImplemented, "backends are not configured")
		return
	}

	ret := make([]backendResponse, 0, len(config.Backends))
	for _, name := range config.Backends {
		b, err := translator.NewByName(name, s.backends)
		if err != nil {
			ret = append(ret, backendResponse{Name: name, Error: err.Error()})
			continue
		}
		ret = append(ret, backendResponse{
			Name:       b.Name,
			InfoURL:    b.InfoURL(),
			SizeBudget: b.SizeBudget,
			MaxLines:   b.MaxLines,
			Languages:  b.LanguagePairs(),
		})
	}
	writeJSON(w, http.StatusOK, ret)
}

type enqueueJobRequest struct {
	Source         string `json:"source"`
	SubtitlePath   string `json:"subtitle_path"`
	OutputPath     string `json:"output_path"`
	SourceLanguage string `json:"source_language"`
	TargetLanguage string `json:"target_language"`
	Backend        string `json:"backend"`
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.queue.List())
}

func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	var req enqueueJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if req.Source == "" {
		req.Source = service.JobSourceManual
	}

	payload, msg := s.jobPayload(req)
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	job, created := service.EnqueueSubtitle(s.queue, req.Source, payload)
	code := http.StatusCreated
	if !created {
		code = http.StatusOK
	}
	writeJSON(w, code, map[string]any{
		"created": created,
		"job":     job,
	})
}

// jobPayload validates req and fills the target language and backend from
// the runtime settings. A non-empty message describes the first problem.
func (s *Server) jobPayload(req enqueueJobRequest) (jobs.JobPayload, string) {
	path := strings.TrimSpace(req.SubtitlePath)
	if path == "" {
		return jobs.JobPayload{}, "subtitle_path is required"
	}
	if !strings.EqualFold(filepath.Ext(path), ".srt") {
		return jobs.JobPayload{}, "only .srt subtitles are supported"
	}
	if _, err := os.Stat(path); err != nil {
		return jobs.JobPayload{}, "subtitle_path is not readable: " + err.Error()
	}

	target, backend := req.TargetLanguage, req.Backend
	if s.settings != nil {
		if current, err := s.settings.GetRuntimeSettings(); err == nil {
			if target == "" {
				target = current.TargetLanguage
			}
			if backend == "" {
				backend = current.Backend
			}
		}
	}
	if target == "" {
		return jobs.JobPayload{}, "target_language is required"
	}
	if _, err := language.Parse(target); err != nil {
		return jobs.JobPayload{}, "invalid target_language: " + err.Error()
	}
	if req.SourceLanguage != "" {
		if _, err := language.Parse(req.SourceLanguage); err != nil {
			return jobs.JobPayload{}, "invalid source_language: " + err.Error()
		}
	}
	if backend != "" {
		if err := config.ValidateBackend(backend); err != nil {
			return jobs.JobPayload{}, err.Error()
		}
	}

	return jobs.JobPayload{
		SubtitleFile:   path,
		OutputFile:     req.OutputPath,
		SourceLanguage: req.SourceLanguage,
		TargetLanguage: target,
		Backend:        backend,
	}, ""
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	job, ok := s.queue.Get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "job not found")
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (s *Server) handleCancelJob(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	existing, ok := s.queue.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "job not found")
		return
	}
	if existing.Status.Terminal() {
		writeError(w, http.StatusConflict, "job already "+string(existing.Status))
		return
	}

	job, ok := s.queue.Cancel(id)
	if !ok {
		writeError(w, http.StatusConflict, "job already finished")
		return
	}
	writeJSON(w, http.StatusAccepted, job)
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	if s.settings == nil {
		writeError(w, http.StatusNotImplemented, "settings store is not configured")
		return
	}
	settings, err := s.settings.GetRuntimeSettings()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	if s.settings == nil {
		writeError(w, http.StatusNotImplemented, "settings store is not configured")
		return
	}

	var req config.RuntimeSettings
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	saved, err := s.settings.UpdateRuntimeSettings(req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{
		"error": msg,
	})
}
