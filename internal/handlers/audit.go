package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/openomi/pof-auditor/internal/audit"
	"github.com/openomi/pof-auditor/internal/export"
	"github.com/openomi/pof-auditor/internal/models"
	"github.com/openomi/pof-auditor/internal/utils"
)

const (
	// MaxFilesPerRequest bounds one audit batch.
	MaxFilesPerRequest = 12
)

type AuditHandler struct {
	service     audit.Service
	maxFileSize int64
	logger      *utils.Logger
}

func NewAuditHandler(service audit.Service, maxFileSize int64, logger *utils.Logger) *AuditHandler {
	return &AuditHandler{
		service:     service,
		maxFileSize: maxFileSize,
		logger:      logger,
	}
}

func (h *AuditHandler) CreateAudit(w http.ResponseWriter, r *http.Request) {
	maxRequest := h.maxFileSize * MaxFilesPerRequest

	// Check Content-Length header first to reject oversized requests early
	if r.ContentLength > maxRequest {
		h.respondError(w, utils.NewBadRequestError("Request size exceeds upload limit"))
		return
	}

	// Limit the request body size to prevent memory exhaustion
	r.Body = http.MaxBytesReader(w, r.Body, maxRequest)

	if err := r.ParseMultipartForm(maxRequest); err != nil {
		if strings.Contains(err.Error(), "request body too large") {
			h.respondError(w, utils.NewBadRequestError("Request size exceeds upload limit"))
			return
		}
		h.respondError(w, utils.NewBadRequestError("Invalid form data"))
		return
	}

	req, err := parseAuditRequest(r)
	if err != nil {
		h.respondError(w, err)
		return
	}

	docs, err := h.readFiles(r)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.logger.Info("audit requested",
		"files", len(docs),
		"program", req.ProgramCode,
		"family_size", req.FamilySize)

	result, err := h.service.Run(r.Context(), docs, req)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, result)
}

// ExportAudit re-encodes a posted audit result in the requested format.
func (h *AuditHandler) ExportAudit(w http.ResponseWriter, r *http.Request) {
	format := export.Format(r.URL.Query().Get("format"))
	switch format {
	case export.FormatJSON, export.FormatText, export.FormatXLSX:
	default:
		h.respondError(w, utils.NewBadRequestError("Unknown export format, expected json, text or xlsx"))
		return
	}

	var result models.AuditResult
	if err := json.NewDecoder(r.Body).Decode(&result); err != nil {
		h.respondError(w, utils.NewBadRequestError("Invalid audit result payload"))
		return
	}

	data, err := export.Render(&result, format)
	if err != nil {
		h.logger.Error("export failed", "format", format, "error", err)
		h.respondError(w, utils.NewInternalError("Failed to render export"))
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=audit-report.%s", fileExtension(format)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.logger.Error("failed to write export response", "error", err)
	}
}

func fileExtension(format export.Format) string {
	if format == export.FormatText {
		return "txt"
	}
	return string(format)
}

// parseAuditRequest normalizes the two accepted request shapes into one
// typed AuditRequest at the boundary: plain form fields (program_code,
// family_size) or a JSON "request" part carrying the same object. One error
// path covers both shapes failing.
func parseAuditRequest(r *http.Request) (models.AuditRequest, error) {
	var req models.AuditRequest

	if program := r.FormValue("program_code"); program != "" {
		req.ProgramCode = program
		size, err := strconv.Atoi(r.FormValue("family_size"))
		if err != nil || size < 1 {
			return req, utils.NewBadRequestError("family_size must be a positive integer")
		}
		req.FamilySize = size
		return req, nil
	}

	if raw := r.FormValue("request"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req); err == nil && req.ProgramCode != "" && req.FamilySize >= 1 {
			return req, nil
		}
	}

	return req, utils.NewBadRequestError("Missing program_code/family_size; send them as form fields or as a JSON 'request' part")
}

func (h *AuditHandler) readFiles(r *http.Request) ([]models.UploadedDocument, error) {
	fileHeaders := r.MultipartForm.File["files"]
	if len(fileHeaders) == 0 {
		return nil, utils.NewBadRequestError("No files provided; upload at least one document as 'files'")
	}
	if len(fileHeaders) > MaxFilesPerRequest {
		return nil, utils.NewBadRequestError(fmt.Sprintf("Too many files; at most %d per audit", MaxFilesPerRequest))
	}

	docs := make([]models.UploadedDocument, 0, len(fileHeaders))
	for _, header := range fileHeaders {
		if header.Size > h.maxFileSize {
			return nil, utils.NewBadRequestError(fmt.Sprintf("File %s exceeds the size limit", header.Filename))
		}

		file, err := header.Open()
		if err != nil {
			return nil, utils.NewInternalError(fmt.Sprintf("Failed to open uploaded file %s", header.Filename))
		}

		data, err := io.ReadAll(io.LimitReader(file, h.maxFileSize+1))
		file.Close()
		if err != nil {
			return nil, utils.NewInternalError(fmt.Sprintf("Failed to read uploaded file %s", header.Filename))
		}
		if int64(len(data)) > h.maxFileSize {
			return nil, utils.NewBadRequestError(fmt.Sprintf("File %s exceeds the size limit", header.Filename))
		}
		if len(data) == 0 {
			return nil, utils.NewBadRequestError(fmt.Sprintf("File %s is empty", header.Filename))
		}

		contentType, err := ValidateDocument(header.Filename, data)
		if err != nil {
			return nil, err
		}

		docs = append(docs, models.UploadedDocument{
			OriginalName: header.Filename,
			ContentType:  contentType,
			Data:         data,
		})
	}

	return docs, nil
}

func (h *AuditHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode JSON response", "error", err)
	}
}

func (h *AuditHandler) respondError(w http.ResponseWriter, err error) {
	var status int
	var message string

	switch e := err.(type) {
	case *utils.AppError:
		status = e.StatusCode
		message = e.Message
	default:
		status = http.StatusInternalServerError
		message = "Internal server error"
	}

	h.logger.Error("Request error", "status", status, "error", message)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
