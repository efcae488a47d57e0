package documents

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/meridian-hr/meridian-hr/internal/authz"
	"github.com/meridian-hr/meridian-hr/internal/platform/httpx"
	"github.com/meridian-hr/meridian-hr/internal/shared"
)

// 25 MiB upload cap, matching the storage bucket policy.
const maxUploadBytes = 25 << 20

// Handler manages document endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	guard   authz.Middleware
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, guard authz.Middleware) *Handler {
	return &Handler{logger: logger, service: service, guard: guard}
}

// MountRoutes registers document routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireAction(authz.ActionViewDocuments))
		r.Get("/employee/{employeeID}", h.listByEmployee)
		r.Get("/{documentID}/download-url", h.downloadURL)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireAction(authz.ActionUploadDocuments))
		r.Post("/employee/{employeeID}", h.upload)
		r.Delete("/{documentID}", h.delete)
	})
}

func (h *Handler) listByEmployee(w http.ResponseWriter, r *http.Request) {
	docs, err := h.service.ListByEmployee(r.Context(), authz.PrincipalFromContext(r.Context()), chi.URLParam(r, "employeeID"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"documents": docs})
}

func (h *Handler) upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	defer file.Close()

	doc, err := h.service.Store(r.Context(), authz.PrincipalFromContext(r.Context()), Upload{
		EmployeeID:  chi.URLParam(r, "employeeID"),
		FileName:    header.Filename,
		FileSize:    header.Size,
		ContentType: header.Header.Get("Content-Type"),
		Description: r.FormValue("description"),
		Body:        file,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, doc)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), authz.PrincipalFromContext(r.Context()), chi.URLParam(r, "documentID")); err != nil {
		h.respondError(w, err)
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) downloadURL(w http.ResponseWriter, r *http.Request) {
	url, err := h.service.DownloadURL(r.Context(), authz.PrincipalFromContext(r.Context()), chi.URLParam(r, "documentID"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"url": url})
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	if errors.Is(err, shared.ErrNotFound) {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	h.logger.Error("document operation failed", slog.Any("error", err))
	httpx.RespondError(w, err)
}
