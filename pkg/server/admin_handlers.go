package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/openmhealth/shimmock/config"
	"github.com/openmhealth/shimmock/pkg/mock"
	"github.com/openmhealth/shimmock/pkg/models"
	"github.com/openmhealth/shimmock/pkg/handlertools"
)

// AdminPrefix is where the dev server's own endpoints live. Nothing in the shim API
// rule table matches it.
const AdminPrefix = "/_shimmock"

type HealthResponse struct {
	Now     int64  `json:"now"`
	Version string `json:"version"`
}

// CallResponse is the JSON form of a journal entry.
type CallResponse struct {
	ID      string       `json:"id"`
	Method  string       `json:"method"`
	URI     string       `json:"uri"`
	Rule    string       `json:"rule,omitempty"`
	Outcome mock.Outcome `json:"outcome"`
	At      time.Time    `json:"at"`
}

// GetHealthHandler returns the server time in milliseconds and the version.
func GetHealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res := HealthResponse{
			Now:     time.Now().UnixMilli(),
			Version: config.VersionString,
		}
		if err := handlertools.EncodeJSON(w, res); err != nil {
			handlertools.RenderError(w, err, http.StatusInternalServerError)
		}
	}
}

// GetCallsHandler lists the registry journal. With ?outcome=unmatched only the requests
// no rule answered are returned.
func GetCallsHandler(registry *mock.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		outcome := mock.Outcome(r.URL.Query().Get("outcome"))

		calls := []CallResponse{}
		for _, c := range registry.Calls() {
			if outcome != "" && c.Outcome != outcome {
				continue
			}
			calls = append(calls, newCallResponse(c))
		}

		if err := handlertools.EncodeJSON(w, calls); err != nil {
			handlertools.RenderError(w, err, http.StatusInternalServerError)
		}
	}
}

// GetCallHandler returns a single journal entry by id.
func GetCallHandler(registry *mock.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "callID"))
		if err != nil {
			handlertools.RenderError(w, fmt.Errorf("%w: invalid call id: %w", models.ErrBadRequest, err), http.StatusBadRequest)
			return
		}

		c, err := registry.Call(id)
		if err != nil {
			handlertools.RenderError(w, err, http.StatusInternalServerError)
			return
		}

		if err := handlertools.EncodeJSON(w, newCallResponse(c)); err != nil {
			handlertools.RenderError(w, err, http.StatusInternalServerError)
		}
	}
}

func newCallResponse(c mock.Call) CallResponse {
	return CallResponse{
		ID:      c.ID.String(),
		Method:  c.Method,
		URI:     c.URI,
		Rule:    c.Rule,
		Outcome: c.Outcome,
		At:      c.At,
	}
}

// ResetHandler restores the initial configuration and clears the journal, so a UI test
// run can start from a known state without restarting the server.
func ResetHandler(appState *models.AppState, registry *mock.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := appState.ConfigurationStore.Reset(r.Context()); err != nil {
			handlertools.RenderError(w, err, http.StatusInternalServerError)
			return
		}
		registry.ResetCalls()
		w.WriteHeader(http.StatusNoContent)
	}
}
