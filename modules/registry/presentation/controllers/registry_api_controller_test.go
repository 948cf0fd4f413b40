package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/civreg/modules/registry/domain/record"
	"github.com/iota-uz/civreg/modules/registry/infrastructure/persistence"
	"github.com/iota-uz/civreg/modules/registry/services"
	"github.com/iota-uz/civreg/pkg/composables"
	"github.com/iota-uz/civreg/pkg/eventbus"
	"github.com/iota-uz/civreg/pkg/httpapi"
)

type failingRepository struct{ err error }

func (f failingRepository) LookupByKeys(context.Context, record.Schema, []string) (map[string]record.Protected, error) {
	return map[string]record.Protected{}, nil
}

func (f failingRepository) Upsert(context.Context, record.Schema, []record.Record) (int64, error) {
	return 0, f.err
}

func newRouter(repo record.Repository) *mux.Router {
	r, _ := newRouterWithReports(repo)
	return r
}

func newRouterWithReports(repo record.Repository) (*mux.Router, *services.ReportService) {
	bus := eventbus.NewEventPublisher(logrus.New())
	reports := services.NewReportService(persistence.NewMemoryReportStore())
	bus.Subscribe(services.NewReportRecorder(reports, logrus.New()))
	svc := services.NewImportService(repo, bus, services.DefaultConfig())
	r := mux.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(composables.WithRequestID(req.Context(), "req-1")))
		})
	})
	NewRegistryAPIController(svc, reports, 1<<20).Register(r)
	return r, reports
}

func uploadRequest(t *testing.T, target, filename, content string) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

const kelahiranCSV = "KODE ARSIP,NAMA ANAK,TIPE AKTA\nAK-12012023-001,Budi,LT\n,Tanpa Kode,\nAK-12012023-001,Budi S,LT\n"

func TestRegistryAPIController_ImportApply(t *testing.T) {
	repo := persistence.NewMemoryRepository()
	rec := httptest.NewRecorder()

	newRouter(repo).ServeHTTP(rec, uploadRequest(t, "/api/registry/akta-kelahiran/import?apply=true", "akta.csv", kelahiranCSV))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res services.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Equal(t, record.KindAktaKelahiran, res.Kind)
	require.False(t, res.DryRun)
	require.Equal(t, 3, res.TotalRows)
	require.Equal(t, 1, res.InvalidCount)
	require.Equal(t, 1, res.DuplicateCount)
	require.EqualValues(t, 1, res.InsertedOrUpdatedCount)
	require.Equal(t, 1, repo.Count(record.KindAktaKelahiran))
}

func TestRegistryAPIController_ImportDefaultsToDryRun(t *testing.T) {
	repo := persistence.NewMemoryRepository()
	rec := httptest.NewRecorder()

	newRouter(repo).ServeHTTP(rec, uploadRequest(t, "/api/registry/akta_kelahiran/import", "akta.csv", kelahiranCSV))
	require.Equal(t, http.StatusOK, rec.Code)

	var res services.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.True(t, res.DryRun)
	require.Zero(t, repo.Count(record.KindAktaKelahiran))
}

func TestRegistryAPIController_ImportErrors(t *testing.T) {
	cases := []struct {
		name   string
		req    func(t *testing.T) *http.Request
		repo   record.Repository
		status int
		code   string
	}{
		{
			name:   "unknown kind",
			req:    func(t *testing.T) *http.Request { return uploadRequest(t, "/api/registry/paspor/import", "a.csv", kelahiranCSV) },
			status: http.StatusNotFound,
			code:   "REGISTRY_UNKNOWN_KIND",
		},
		{
			name:   "bad apply flag",
			req:    func(t *testing.T) *http.Request { return uploadRequest(t, "/api/registry/ktp/import?apply=maybe", "a.csv", kelahiranCSV) },
			status: http.StatusBadRequest,
			code:   "REGISTRY_BAD_REQUEST",
		},
		{
			name:   "unsupported format",
			req:    func(t *testing.T) *http.Request { return uploadRequest(t, "/api/registry/ktp/import", "a.pdf", "%PDF") },
			status: http.StatusUnsupportedMediaType,
			code:   "REGISTRY_UNSUPPORTED_FORMAT",
		},
		{
			name: "not multipart",
			req: func(t *testing.T) *http.Request {
				return httptest.NewRequest(http.MethodPost, "/api/registry/ktp/import", bytes.NewBufferString("{}"))
			},
			status: http.StatusBadRequest,
			code:   "REGISTRY_BAD_REQUEST",
		},
		{
			name: "store failure",
			req: func(t *testing.T) *http.Request {
				return uploadRequest(t, "/api/registry/akta_kelahiran/import?apply=1", "a.csv", kelahiranCSV)
			},
			repo:   failingRepository{err: errors.New("deadlock")},
			status: http.StatusServiceUnavailable,
			code:   "REGISTRY_STORE_FAILED",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := tc.repo
			if repo == nil {
				repo = persistence.NewMemoryRepository()
			}
			rec := httptest.NewRecorder()
			newRouter(repo).ServeHTTP(rec, tc.req(t))
			require.Equal(t, tc.status, rec.Code, rec.Body.String())

			var env httpapi.ErrorEnvelope
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
			require.Equal(t, tc.code, env.Code)
			require.Equal(t, "req-1", env.Meta["request_id"])
		})
	}
}

func TestRegistryAPIController_Kinds(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter(persistence.NewMemoryRepository()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/registry/kinds", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Kinds []record.Schema `json:"kinds"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Kinds, len(record.Kinds()))
}

func TestRegistryAPIController_Report(t *testing.T) {
	router, _ := newRouterWithReports(persistence.NewMemoryRepository())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, "/api/registry/akta_kelahiran/import", "akta.csv", kelahiranCSV))
	require.Equal(t, http.StatusOK, rec.Code)
	var imported services.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &imported))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/registry/imports/"+imported.RunID.String(), nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var stored services.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stored))
	require.Equal(t, imported, stored)

	for target, want := range map[string]int{
		"/api/registry/imports/" + uuid.NewString(): http.StatusNotFound,
		"/api/registry/imports/not-a-uuid":          http.StatusBadRequest,
	} {
		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		require.Equal(t, want, rec.Code, target)
	}
}
