package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/formweave/formweave/pkg/export"
	"github.com/formweave/formweave/pkg/orchestrator"
	"github.com/formweave/formweave/pkg/render"
	"github.com/formweave/formweave/pkg/schema"
	"github.com/formweave/formweave/pkg/session"
	"github.com/formweave/formweave/pkg/store"
)

const maxSchemaBytes = 1 << 20

// Server wires the store and orchestrator behind the HTTP API.
type Server struct {
	store store.Store
	gen   *orchestrator.Orchestrator
	mux   *http.ServeMux
	log   *zap.SugaredLogger
}

// NewServer creates a Server instance.
func NewServer(st store.Store, gen *orchestrator.Orchestrator, log *zap.SugaredLogger) *Server {
	return &Server{
		store: st,
		gen:   gen,
		mux:   http.NewServeMux(),
		log:   log,
	}
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// RegisterRoutes registers all API routes.
func (s *Server) RegisterRoutes() {
	s.mux.HandleFunc("POST /api/v1/templates", s.handleUploadTemplate)
	s.mux.HandleFunc("GET /api/v1/templates/{job}", s.handleGetTemplate)
	s.mux.HandleFunc("GET /api/v1/templates/{job}/versions", s.handleTemplateVersions)
	s.mux.HandleFunc("GET /api/v1/templates/{job}/schema.json", s.handleResponseSchema)
	s.mux.HandleFunc("GET /api/v1/templates/{job}/export.csv", s.handleExportCSV)
	s.mux.HandleFunc("GET /api/v1/forms/{job}", s.handleRenderForm)
	s.mux.HandleFunc("PUT /api/v1/responses/{id}", s.handleSaveResponse)
	s.mux.HandleFunc("POST /api/v1/responses/{id}/submit", s.handleSubmitResponse)
	s.mux.HandleFunc("GET /api/v1/example.csv", s.handleExampleCSV)
}

// handleUploadTemplate stores the posted CSV as the next template version for
// the job named in the query string.
func (s *Server) handleUploadTemplate(w http.ResponseWriter, r *http.Request) {
	jobID := r.URL.Query().Get("job_id")
	title := r.URL.Query().Get("title")
	if jobID == "" || title == "" {
		writeError(w, http.StatusBadRequest, "job_id and title query parameters are required")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxSchemaBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "read body failed")
		return
	}

	tmpl, warnings, err := buildTemplate(string(body), jobID, title)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	saved, err := s.store.SaveTemplate(r.Context(), tmpl)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.log.Infow("template uploaded", "job", saved.JobID, "version", saved.Version)
	writeJSON(w, http.StatusCreated, map[string]any{
		"template": saved,
		"warnings": warnings,
	})
}

func (s *Server) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	tmpl, err := s.store.ActiveTemplate(r.Context(), r.PathValue("job"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tmpl)
}

func (s *Server) handleTemplateVersions(w http.ResponseWriter, r *http.Request) {
	versions, err := s.store.TemplateVersions(r.Context(), r.PathValue("job"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, versions)
}

func (s *Server) handleResponseSchema(w http.ResponseWriter, r *http.Request) {
	tmpl, err := s.store.ActiveTemplate(r.Context(), r.PathValue("job"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	out, err := export.ResponseSchema(tmpl)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// handleRenderForm mounts the requested backend over the caller's draft and
// returns the rendered HTML.
func (s *Server) handleRenderForm(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("job")
	email := r.URL.Query().Get("email")
	if email == "" {
		writeError(w, http.StatusBadRequest, "email query parameter is required")
		return
	}

	tmpl, err := s.store.ActiveTemplate(r.Context(), jobID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	user, err := s.store.EnsureUser(r.Context(), email, "")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	draft, err := s.store.GetOrCreateDraft(r.Context(), jobID, user.ID)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	result, err := s.gen.Mount(r.Context(), orchestrator.Request{
		Template:    tmpl,
		Backend:     r.URL.Query().Get("backend"),
		ContainerID: "form-" + jobID,
		Initial:     draft.Data,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	defer result.Backend.Destroy()

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("X-Response-Id", draft.ID)
	w.WriteHeader(http.StatusOK)
	w.Write(result.Output)
}

func (s *Server) handleSaveResponse(w http.ResponseWriter, r *http.Request) {
	var data session.ResponseData
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid json body: %v", err))
		return
	}

	resp, err := s.store.SaveResponseData(r.Context(), r.PathValue("id"), data)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleSubmitResponse validates the draft against its template before
// marking it submitted; validation findings come back as 422 with the
// report body.
func (s *Server) handleSubmitResponse(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	draft, report, err := s.validateResponse(r, id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if !report.Valid {
		writeJSON(w, http.StatusUnprocessableEntity, report)
		return
	}

	resp, err := s.store.SubmitResponse(r.Context(), draft.ID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	s.log.Infow("response submitted", "job", resp.JobID, "response", resp.ID)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) validateResponse(r *http.Request, id string) (store.Response, render.ValidationReport, error) {
	var zero store.Response

	draft, err := s.store.Response(r.Context(), id)
	if err != nil {
		return zero, render.ValidationReport{}, err
	}

	tmpl, err := s.templateForResponse(r, draft)
	if err != nil {
		return zero, render.ValidationReport{}, err
	}

	sess := session.New(tmpl, draft.Data, session.Config{ReadOnly: true})
	return draft, render.Evaluate(sess), nil
}

// templateForResponse resolves the template version the response was opened
// against, so drafts are judged by the rules they were filled under. The
// active version covers responses whose version has since been pruned.
func (s *Server) templateForResponse(r *http.Request, resp store.Response) (*schema.Template, error) {
	versions, err := s.store.TemplateVersions(r.Context(), resp.JobID)
	if err != nil {
		return nil, err
	}
	for _, tmpl := range versions {
		if tmpl.Version == resp.TemplateVersion {
			return tmpl, nil
		}
	}
	return s.store.ActiveTemplate(r.Context(), resp.JobID)
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("job")

	tmpl, err := s.store.ActiveTemplate(r.Context(), jobID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	responses, err := s.store.ResponsesByJob(r.Context(), jobID)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	out, err := export.ResponsesCSV(tmpl, responses)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", jobID+"-responses.csv"))
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, out)
}

func (s *Server) handleExampleCSV(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, schema.ExampleCSV+"\n")
}

// buildTemplate parses and validates CSV schema text into a template.
func buildTemplate(csvText, jobID, title string) (*schema.Template, []schema.Warning, error) {
	fields, warnings, err := schema.ParseFields(csvText)
	if err != nil {
		return nil, nil, err
	}
	tmpl := schema.New(jobID, title, fields)
	if report := schema.Validate(tmpl); !report.Valid {
		return nil, warnings, fmt.Errorf("invalid template: %s", report.Errors[0])
	}
	return tmpl, warnings, nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrSubmitted):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
