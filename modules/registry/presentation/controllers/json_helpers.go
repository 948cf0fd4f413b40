package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/iota-uz/civreg/pkg/composables"
	"github.com/iota-uz/civreg/pkg/configuration"
	"github.com/iota-uz/civreg/pkg/httpapi"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	if err := httpapi.WriteJSON(w, status, payload); err != nil {
		panic(err)
	}
}

func ensureRequestID(w http.ResponseWriter, r *http.Request) string {
	if r == nil {
		return ""
	}
	if id := composables.UseRequestID(r.Context()); id != "" {
		return id
	}
	header := strings.TrimSpace(configuration.Use().RequestIDHeader)
	if header == "" {
		header = "X-Request-ID"
	}

	requestID := strings.TrimSpace(r.Header.Get(header))
	if requestID == "" {
		requestID = uuid.NewString()
		w.Header().Set(header, requestID)
	}
	return requestID
}

func writeAPIError(w http.ResponseWriter, r *http.Request, status int, code string, message string) {
	if err := httpapi.WriteRequestError(w, status, code, message, ensureRequestID(w, r)); err != nil {
		panic(err)
	}
}
