package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rpggio/powermason/internal/domain/activity"
	"github.com/rpggio/powermason/internal/domain/project"
	"github.com/rpggio/powermason/internal/ingest"
	"github.com/rpggio/powermason/internal/workbook"
)

const (
	defaultActivityLimit = 50
	uploadField          = "file"
)

// Importer runs the workbook ingestion pipeline.
type Importer interface {
	Handle(ctx context.Context, sheet ingest.Sheet, opts ingest.Options) ingest.Response
}

// ProjectService reads stored projects.
type ProjectService interface {
	Get(ctx context.Context, projID string) (*project.Project, error)
	List(ctx context.Context, opts project.ListOptions) ([]project.ProjectSummary, error)
}

// ActivityService reads the import activity log.
type ActivityService interface {
	GetRecentActivity(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}

// Deps are the services behind the HTTP API.
type Deps struct {
	Importer       Importer
	Projects       ProjectService
	Activity       ActivityService
	MaxUploadBytes int64
	Logger         *slog.Logger
}

// Server wires HTTP handlers.
type Server struct {
	Deps
}

// NewServer creates an HTTP server router with middleware. The health check
// is served without authentication.
func NewServer(deps Deps, authMiddleware func(http.Handler) http.Handler) *chi.Mux {
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(deps.Logger))
	r.Use(middleware.Recoverer)

	srv := &Server{Deps: deps}

	r.Get("/health", srv.handleHealth)

	r.Group(func(r chi.Router) {
		if authMiddleware != nil {
			r.Use(authMiddleware)
		}
		r.Post("/import", srv.handleImport)
		r.Get("/projects", srv.handleListProjects)
		r.Get("/projects/{projID}", srv.handleGetProject)
		r.Get("/projects/{projID}/activity", srv.handleProjectActivity)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	if s.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.MaxUploadBytes)
	}

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		s.Logger.Warn("rejecting upload", "error", err)
		writeJSON(w, http.StatusBadRequest, ingest.ErrorResponse(fmt.Errorf("no workbook uploaded: %w", err)))
		return
	}
	defer file.Close()

	wb, err := workbook.OpenReader(file)
	if err != nil {
		s.Logger.Warn("unreadable workbook", "filename", header.Filename, "error", err)
		writeJSON(w, http.StatusBadRequest, ingest.ErrorResponse(&ingest.IngestionError{Stage: ingest.StageOpenWorkbook, Err: err}))
		return
	}
	defer wb.Close()

	opts := ingest.Options{Source: header.Filename}
	if userID, ok := UserFromContext(r.Context()); ok {
		opts.ActingUser = &userID
	}

	resp := s.Importer.Handle(r.Context(), wb, opts)
	status := http.StatusOK
	if !resp.OK() {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, resp)
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, err := intParam(q.Get("limit"), 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid limit")
		return
	}
	offset, err := intParam(q.Get("offset"), 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid offset")
		return
	}

	projects, err := s.Projects.List(r.Context(), project.ListOptions{
		Search:   q.Get("q"),
		Location: q.Get("location"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	if projects == nil {
		projects = []project.ProjectSummary{}
	}
	writeJSON(w, http.StatusOK, projects)
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	proj, err := s.Projects.Get(r.Context(), chi.URLParam(r, "projID"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, proj)
}

func (s *Server) handleProjectActivity(w http.ResponseWriter, r *http.Request) {
	projID := chi.URLParam(r, "projID")
	limit, err := intParam(r.URL.Query().Get("limit"), defaultActivityLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid limit")
		return
	}

	entries, err := s.Activity.GetRecentActivity(r.Context(), activity.ListActivityOptions{
		ProjID: projID,
		Limit:  limit,
	})
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	if entries == nil {
		entries = []activity.ActivityEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, project.ErrProjectNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, project.ErrInvalidInput), errors.Is(err, activity.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.Logger.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func intParam(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
