// Package api exposes the HTTP ingest endpoint.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/juandaherrera/finmail/internal/ingest"
	"github.com/juandaherrera/finmail/internal/logging"
	"github.com/juandaherrera/finmail/internal/models"
	"github.com/juandaherrera/finmail/internal/parsererror"
)

// IngestResponse is the structured result of one ingest call. Business
// failures (unrecognized source, extraction failure) are reported as
// ok=false with a null transaction, never as transport errors.
type IngestResponse struct {
	OK        bool                `json:"ok"`
	Subject   string              `json:"subject"`
	Processed *models.Transaction `json:"processed"`
	Error     string              `json:"error,omitempty"`
}

// Handler serves the ingest API over one ingest service.
type Handler struct {
	service *ingest.Service
	log     *logrus.Logger
}

// NewHandler builds the HTTP handler.
func NewHandler(service *ingest.Service) *Handler {
	return &Handler{service: service, log: logging.GetLogger()}
}

// Register mounts the routes on the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /ingest", h.handleIngest)
	mux.HandleFunc("GET /healthz", h.handleHealth)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) handleIngest(w http.ResponseWriter, r *http.Request) {
	var payload models.EmailPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Bad JSON", http.StatusBadRequest)
		return
	}

	if err := payload.Validate(); err != nil {
		http.Error(w, "Validation error: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}

	tx, err := h.service.Process(r.Context(), payload)
	if err != nil {
		var noParser *parsererror.NoParserError
		var extraction *parsererror.ExtractionError
		if errors.As(err, &noParser) || errors.As(err, &extraction) {
			h.writeJSON(w, http.StatusOK, IngestResponse{
				OK:      false,
				Subject: payload.Subject,
				Error:   err.Error(),
			})
			return
		}

		h.log.WithError(err).Error("Unexpected error processing email")
		h.writeJSON(w, http.StatusInternalServerError, IngestResponse{
			OK:      false,
			Subject: payload.Subject,
			Error:   "internal error",
		})
		return
	}

	h.writeJSON(w, http.StatusOK, IngestResponse{
		OK:        true,
		Subject:   payload.Subject,
		Processed: &tx,
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body IngestResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.log.WithError(err).Error("Failed to encode response")
	}
}
