package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/iota-uz/civreg/modules/registry/domain/record"
	"github.com/iota-uz/civreg/modules/registry/infrastructure/spreadsheet"
	"github.com/iota-uz/civreg/modules/registry/services"
	"github.com/iota-uz/civreg/pkg/composables"
	"github.com/iota-uz/civreg/pkg/server"
)

const defaultMaxUploadSize = 32 << 20

type RegistryAPIController struct {
	imports       *services.ImportService
	reports       *services.ReportService
	basePath      string
	maxUploadSize int64
}

func NewRegistryAPIController(imports *services.ImportService, reports *services.ReportService, maxUploadSize int64) server.Controller {
	if maxUploadSize <= 0 {
		maxUploadSize = defaultMaxUploadSize
	}
	return &RegistryAPIController{
		imports:       imports,
		reports:       reports,
		basePath:      "/api/registry",
		maxUploadSize: maxUploadSize,
	}
}

func (c *RegistryAPIController) Key() string {
	return c.basePath
}

func (c *RegistryAPIController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("/kinds", c.Kinds).Methods(http.MethodGet)
	router.HandleFunc("/{kind}/import", c.Import).Methods(http.MethodPost)
	router.HandleFunc("/imports/{run_id}", c.Report).Methods(http.MethodGet)
}

func (c *RegistryAPIController) Kinds(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"kinds": record.Schemas()})
}

// Import accepts a multipart upload in the "file" field. Nothing is written unless the
// request carries apply=true.
func (c *RegistryAPIController) Import(w http.ResponseWriter, r *http.Request) {
	kind, err := record.ParseKind(mux.Vars(r)["kind"])
	if err != nil {
		writeAPIError(w, r, http.StatusNotFound, "REGISTRY_UNKNOWN_KIND", err.Error())
		return
	}

	apply := false
	if v := strings.TrimSpace(r.URL.Query().Get("apply")); v != "" {
		apply, err = strconv.ParseBool(v)
		if err != nil {
			writeAPIError(w, r, http.StatusBadRequest, "REGISTRY_BAD_REQUEST", "apply must be a boolean")
			return
		}
	}

	r.Body = http.MaxBytesReader(w, r.Body, c.maxUploadSize)
	if err := r.ParseMultipartForm(c.maxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeAPIError(w, r, http.StatusRequestEntityTooLarge, "REGISTRY_UPLOAD_TOO_LARGE", "upload exceeds the size limit")
			return
		}
		writeAPIError(w, r, http.StatusBadRequest, "REGISTRY_BAD_REQUEST", "expected a multipart form upload")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "REGISTRY_BAD_REQUEST", "missing file field")
		return
	}
	defer file.Close()

	format, err := spreadsheet.DetectContent(file, header.Filename)
	if err != nil {
		writeAPIError(w, r, http.StatusUnsupportedMediaType, "REGISTRY_UNSUPPORTED_FORMAT", err.Error())
		return
	}
	rows, err := spreadsheet.Read(file, format, spreadsheet.Options{Sheet: r.FormValue("sheet")})
	if err != nil {
		writeAPIError(w, r, http.StatusUnprocessableEntity, "REGISTRY_UNREADABLE_FILE", err.Error())
		return
	}

	res, err := c.imports.Import(r.Context(), kind, rows, services.Options{
		DryRun: !apply,
		Actor:  strings.TrimSpace(r.Header.Get("X-Actor")),
	})
	if err != nil {
		composables.UseLogger(r.Context()).WithError(err).Error("registry import failed")
		switch {
		case errors.Is(err, services.ErrLookupFailed), errors.Is(err, services.ErrUpsertFailed):
			writeAPIError(w, r, http.StatusServiceUnavailable, "REGISTRY_STORE_FAILED", "the record store rejected the import; retry the upload")
		default:
			writeAPIError(w, r, http.StatusInternalServerError, "REGISTRY_INTERNAL", "internal error")
		}
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Report returns the stored result of an earlier import run.
func (c *RegistryAPIController) Report(w http.ResponseWriter, r *http.Request) {
	runID, err := uuid.Parse(mux.Vars(r)["run_id"])
	if err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "REGISTRY_BAD_REQUEST", "run_id must be a UUID")
		return
	}
	res, err := c.reports.Get(r.Context(), runID)
	if err != nil {
		if errors.Is(err, record.ErrReportNotFound) {
			writeAPIError(w, r, http.StatusNotFound, "REGISTRY_REPORT_NOT_FOUND", "no report for this run")
			return
		}
		composables.UseLogger(r.Context()).WithError(err).Error("registry report lookup failed")
		writeAPIError(w, r, http.StatusServiceUnavailable, "REGISTRY_REPORT_STORE_FAILED", "report store unavailable")
		return
	}
	writeJSON(w, http.StatusOK, res)
}
