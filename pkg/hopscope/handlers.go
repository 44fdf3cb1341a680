// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package hopscope

import (
	"encoding/json"
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/telekom/hopscope/internal/logger"
	"github.com/telekom/hopscope/pkg/api"
	"gopkg.in/yaml.v3"
)

const groupParam = "group"

type encoder interface {
	Encode(v any) error
}

// routes returns the routes served by the api.
func (h *Hopscope) routes() []api.Route {
	return []api.Route{
		{Path: "/openapi", Method: http.MethodGet, Handler: h.handleOpenAPI},
		{Path: "/v1/traces", Method: http.MethodGet, Handler: h.handleGroups},
		{Path: "/v1/traces/{" + groupParam + "}", Method: http.MethodGet, Handler: h.handleWindow},
		{
			Path:   "/metrics",
			Method: http.MethodGet,
			Handler: promhttp.HandlerFor(
				h.metrics.GetRegistry(),
				promhttp.HandlerOpts{Registry: h.metrics.GetRegistry()},
			).ServeHTTP,
		},
	}
}

// handleGroups lists the groups that hold results.
func (h *Hopscope) handleGroups(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, h.db.Groups())
}

// handleWindow returns the result window of a group, oldest first.
func (h *Hopscope) handleWindow(w http.ResponseWriter, r *http.Request) {
	group := chi.URLParam(r, groupParam)
	if group == "" || !slices.Contains(h.db.Groups(), group) {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		return
	}
	writeJSON(w, r, http.StatusOK, h.db.Current(group))
}

// handleOpenAPI serves the openapi document as YAML or as JSON if requested.
func (h *Hopscope) handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	doc, err := openapiDocument()
	if err != nil {
		log.ErrorContext(r.Context(), "Failed to generate openapi document", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var enc encoder
	switch r.Header.Get("Accept") {
	case "application/json":
		w.Header().Set("Content-Type", "application/json")
		enc = json.NewEncoder(w)
	default:
		w.Header().Set("Content-Type", "text/yaml")
		enc = yaml.NewEncoder(w)
	}
	w.WriteHeader(http.StatusOK)
	if err := enc.Encode(doc); err != nil {
		log.ErrorContext(r.Context(), "Failed to encode openapi document", "error", err)
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.FromContext(r.Context()).ErrorContext(r.Context(), "Failed to encode response", "error", err)
	}
}
