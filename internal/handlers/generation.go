package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/BerylCAtieno/requirements-testgen/internal/export"
	"github.com/BerylCAtieno/requirements-testgen/internal/models"
	"github.com/BerylCAtieno/requirements-testgen/internal/services"
	"github.com/BerylCAtieno/requirements-testgen/internal/utils"
)

const (
	SuiteFilename = "test_senaryolari.json"
	XLSXFilename  = "test_senaryolari.xlsx"
)

type GenerationHandler struct {
	service     services.GenerationService
	maxFileSize int64
	logger      *utils.Logger
}

func NewGenerationHandler(service services.GenerationService, maxFileSize int64, logger *utils.Logger) *GenerationHandler {
	return &GenerationHandler{
		service:     service,
		maxFileSize: maxFileSize,
		logger:      logger,
	}
}

func (h *GenerationHandler) Health(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (h *GenerationHandler) ListModels(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]any{
		"models":  h.service.Models(),
		"default": h.service.DefaultModel(),
	})
}

// AvailableModels asks the provider which models the caller's key can use.
func (h *GenerationHandler) AvailableModels(w http.ResponseWriter, r *http.Request) {
	names, err := h.service.AvailableModels(r.Context(), r.Header.Get("X-API-Key"))
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]any{"models": names})
}

func (h *GenerationHandler) Generate(w http.ResponseWriter, r *http.Request) {
	req, err := h.readUpload(w, r)
	if errors.Is(err, errNoFile) {
		h.respondError(w, utils.NewBadRequestError("No file provided"))
		return
	}
	if err != nil {
		h.respondError(w, err)
		return
	}

	g, err := h.service.Generate(r.Context(), req)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, toResponse(g))
}

func (h *GenerationHandler) GetRun(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if id == "" {
		h.respondError(w, utils.NewBadRequestError("Run ID is required"))
		return
	}

	g, err := h.service.GetRun(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, toResponse(g))
}

func (h *GenerationHandler) ListRuns(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	runs, err := h.service.ListRuns(r.Context(), limit)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

func (h *GenerationHandler) DownloadJSON(w http.ResponseWriter, r *http.Request) {
	data, err := h.service.SuiteJSON(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondAttachment(w, SuiteFilename, "application/json", data)
}

func (h *GenerationHandler) DownloadXLSX(w http.ResponseWriter, r *http.Request) {
	data, err := h.service.SuiteXLSX(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondAttachment(w, XLSXFilename, export.XLSXContentType, data)
}

func toResponse(g *services.Generation) *models.GenerateResponse {
	resp := &models.GenerateResponse{
		ID:        g.Run.ID,
		Filename:  g.Run.Filename,
		Model:     g.Run.Model,
		Parsed:    g.Result.Parsed,
		Count:     g.Result.Count,
		Raw:       g.Result.Raw,
		CreatedAt: g.Run.CreatedAt,
	}

	if g.Result.Parsed {
		resp.Columns = g.Result.Table.Columns
		resp.Rows = g.Result.Table.Rows
		resp.Data = g.Result.Data
	}
	if g.Result.SchemaErr != nil {
		resp.SchemaErr = g.Result.SchemaErr.Error()
	}

	return resp
}

func (h *GenerationHandler) respondAttachment(w http.ResponseWriter, filename, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (h *GenerationHandler) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode JSON response", "error", err)
	}
}

func (h *GenerationHandler) respondError(w http.ResponseWriter, err error) {
	appErr := utils.AsAppError(err)

	h.logger.Error("Request error", "status", appErr.StatusCode, "error", err)

	h.respondJSON(w, appErr.StatusCode, map[string]string{"error": userMessage(appErr)})
}

// userMessage adds the provider error text to upstream failures.
func userMessage(appErr *utils.AppError) string {
	if appErr.StatusCode == http.StatusBadGateway && appErr.Err != nil {
		return appErr.Error()
	}
	return appErr.Message
}
