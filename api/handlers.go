/*
handlers.go - HTTP API handlers for the client sync service

PURPOSE:
  Exposes the import pipeline, the client directory and notification
  campaigns via REST. Handles HTTP request/response and JSON
  serialization, delegating everything else to domain packages.

ENDPOINTS:
  Collections:
    GET  /api/collections                       List company collections
    GET  /api/collections/{name}/records        Browse/filter records
    POST /api/collections/{name}/import         Import an uploaded workbook
    PUT  /api/collections/{name}/records/{externalID}/notification
                                                Flip the sent flag
    POST /api/collections/{name}/campaign       Send templated notifications

  Misc:
    GET  /api/health

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Unreadable upload, invalid request body
  - 404: Unknown client
  - 422: Headers did not resolve (no name column)
  - 502: Backing store failure
  - 500: Everything else

SECURITY NOTE:
  No authentication middleware. The service is meant to sit behind the
  broker's reverse proxy.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/brokerkit/client-sync/clients"
	"github.com/brokerkit/client-sync/importer"
	"github.com/brokerkit/client-sync/ingest"
	"github.com/brokerkit/client-sync/notify"
)

// maxUploadBytes bounds how much of an uploaded workbook is read.
const maxUploadBytes = 32 << 20

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Importer  *importer.Importer
	Directory *clients.Directory
	Sender    notify.Sender

	// Recipient resolves campaign destinations; nil means primary phone.
	Recipient func(ingest.ClientRecord) string
}

// NewHandler wires the handler over one record store.
func NewHandler(store ingest.Store, sender notify.Sender, newUniqueID func() string) *Handler {
	return &Handler{
		Importer:  &importer.Importer{Store: store, NewUniqueID: newUniqueID},
		Directory: &clients.Directory{Store: store},
		Sender:    sender,
	}
}

// =============================================================================
// COLLECTION HANDLERS
// =============================================================================

// ListCollections returns the known company collections.
func (h *Handler) ListCollections(w http.ResponseWriter, r *http.Request) {
	names, err := h.Directory.Collections(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, "Failed to list collections", err)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, names)
}

// ListRecords returns a collection's records, optionally filtered by
// ?name= substring and ?notification=pending|sent.
func (h *Handler) ListRecords(w http.ResponseWriter, r *http.Request) {
	collection := chi.URLParam(r, "name")

	filter := clients.Filter{
		Name:         r.URL.Query().Get("name"),
		Notification: r.URL.Query().Get("notification"),
	}
	switch filter.Notification {
	case clients.NotificationAny, clients.NotificationPending, clients.NotificationSent:
	default:
		writeError(w, http.StatusBadRequest,
			"notification filter must be empty, \"pending\" or \"sent\"", nil)
		return
	}

	entries, err := h.Directory.List(r.Context(), collection, filter)
	if err != nil {
		writeError(w, http.StatusBadGateway, "Failed to read records", err)
		return
	}

	dtos := make([]RecordDTO, len(entries))
	for i, e := range entries {
		dtos[i] = recordDTO(e.ClientRecord, e.Position)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// IMPORT HANDLER
// =============================================================================

// ImportWorkbook ingests an uploaded .xlsx into the named collection.
// The workbook arrives either as multipart field "file" or as the raw
// request body.
func (h *Handler) ImportWorkbook(w http.ResponseWriter, r *http.Request) {
	collection := chi.URLParam(r, "name")

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	var summary *importer.Summary
	var err error
	if file, _, ferr := r.FormFile("file"); ferr == nil {
		summary, err = h.Importer.ImportWorkbook(r.Context(), collection, file)
		file.Close()
	} else {
		summary, err = h.Importer.ImportWorkbook(r.Context(), collection, r.Body)
	}
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, summary)
	case ingest.IsSchemaError(err):
		writeError(w, http.StatusUnprocessableEntity, "No name column in upload", err)
	case ingest.IsStoreError(err):
		// counts in the summary reflect what was written before the failure
		writeJSON(w, http.StatusBadGateway, summary)
	default:
		writeError(w, http.StatusBadRequest, "Could not read workbook", err)
	}
}

// =============================================================================
// NOTIFICATION HANDLERS
// =============================================================================

// SetNotification flips the sent flag for one client.
func (h *Handler) SetNotification(w http.ResponseWriter, r *http.Request) {
	collection := chi.URLParam(r, "name")
	externalID := chi.URLParam(r, "externalID")

	var req SetNotificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	err := h.Directory.SetNotificationFlag(r.Context(), collection, externalID, req.Sent)
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, clients.ErrClientNotFound):
		writeError(w, http.StatusNotFound, "Client not found", err)
	default:
		writeError(w, http.StatusBadGateway, "Failed to update flag", err)
	}
}

// RunCampaign sends the template to every pending client of the
// collection.
func (h *Handler) RunCampaign(w http.ResponseWriter, r *http.Request) {
	collection := chi.URLParam(r, "name")

	var req CampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Template == "" {
		writeError(w, http.StatusBadRequest, "Template must not be empty", nil)
		return
	}

	campaign := &notify.Campaign{
		Directory: h.Directory,
		Sender:    h.Sender,
		Recipient: h.Recipient,
	}
	result, err := campaign.Run(r.Context(), collection, req.Template)
	if err != nil {
		writeError(w, http.StatusBadGateway, "Campaign failed", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Health is a trivial liveness probe.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
