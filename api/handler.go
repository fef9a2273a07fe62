package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"

	"rental-listings-importer/models"
	"rental-listings-importer/utils"
)

const uploadField = "file"

// Importer runs one import over an uploaded file.
type Importer interface {
	Import(ctx context.Context, data []byte) (*models.ImportResult, error)
}

type errorResponse struct {
	Error          string `json:"error"`
	PersistedCount *int   `json:"persisted_count,omitempty"`
}

// ListingImportHandler accepts rental-listing CSV uploads.
type ListingImportHandler struct {
	importer       Importer
	gate           *utils.Gate
	maxUploadBytes int64
	logger         *utils.Logger
}

func NewListingImportHandler(importer Importer, gate *utils.Gate, maxUploadBytes int64, logger *utils.Logger) *ListingImportHandler {
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	return &ListingImportHandler{
		importer:       importer,
		gate:           gate,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// HandleImport reads the multipart field "file" and imports it.
func (h *ListingImportHandler) HandleImport(w http.ResponseWriter, r *http.Request) {
	if h.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	}

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "File too large"})
			return
		}
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "No file provided"})
		return
	}
	defer file.Close()

	if !isCSV(header.Header.Get("Content-Type")) {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "File must be a CSV"})
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		h.logger.Error("[http] Failed to read upload %q: %v", header.Filename, err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Unexpected failure"})
		return
	}

	if h.gate != nil {
		if !h.gate.TryAcquire() {
			h.logger.Info("[http] All %d import slots busy (%d active), waiting", h.gate.Capacity(), h.gate.Active())
			if err := h.gate.Acquire(r.Context()); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "Too many concurrent imports"})
				return
			}
		}
		defer h.gate.Release()
	}

	h.logger.Info("[http] Importing %q (%d bytes)", header.Filename, len(data))
	result, err := h.importer.Import(r.Context(), data)
	if err != nil {
		h.writeImportError(w, err)
		return
	}

	writeJSON(w, statusFor(result.Outcome), result)
}

func (h *ListingImportHandler) writeImportError(w http.ResponseWriter, err error) {
	var sf *models.StoreFailureError
	switch {
	case errors.Is(err, models.ErrMalformedInput):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "Invalid CSV format"})
	case errors.As(err, &sf):
		persisted := sf.Persisted
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to persist listings", PersistedCount: &persisted})
	default:
		h.logger.Error("[http] Import failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Unexpected failure"})
	}
}

// HandleHealth reports liveness.
func (h *ListingImportHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func statusFor(o models.Outcome) int {
	switch o {
	case models.OutcomeSuccess:
		return http.StatusCreated
	case models.OutcomePartial:
		return http.StatusPartialContent
	default:
		return http.StatusUnprocessableEntity
	}
}

func isCSV(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && mediaType == "text/csv"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
