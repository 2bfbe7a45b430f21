package handlers

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"

	"github.com/yuin/goldmark"

	"github.com/BerylCAtieno/requirements-testgen/internal/generator"
	"github.com/BerylCAtieno/requirements-testgen/internal/services"
	"github.com/BerylCAtieno/requirements-testgen/internal/utils"
)

const (
	uploadPrompt   = "Please upload a .txt file"
	rawFallbackMsg = "The model output was not valid JSON, showing the raw text:"
	rateLimitedMsg = "Too many requests, please wait a moment and try again"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

type pageData struct {
	Models        []string
	SelectedModel string

	Filename string
	Document string

	Error   string
	Info    string
	Warning string
	Success string

	RunID string
	Table *generator.Table
	Raw   template.HTML
}

func (h *GenerationHandler) newPage(model string) *pageData {
	if model == "" {
		model = h.service.DefaultModel()
	}
	return &pageData{
		Models:        h.service.Models(),
		SelectedModel: model,
	}
}

func (h *GenerationHandler) Index(w http.ResponseWriter, r *http.Request) {
	page := h.newPage("")
	page.Info = uploadPrompt
	h.render(w, http.StatusOK, page)
}

// SubmitForm handles the browser form. Every outcome, failures included,
// is rendered back into the page.
func (h *GenerationHandler) SubmitForm(w http.ResponseWriter, r *http.Request) {
	req, err := h.readUpload(w, r)
	page := h.newPage(req.Model)

	if err != nil && !errors.Is(err, errNoFile) {
		h.renderError(w, page, err)
		return
	}
	if !h.service.HasCredential(req.APIKey) {
		page.Error = services.MissingAPIKeyMessage
		h.render(w, http.StatusBadRequest, page)
		return
	}
	if err != nil {
		page.Info = uploadPrompt
		h.render(w, http.StatusOK, page)
		return
	}

	page.Filename = req.Filename
	page.Document = req.Requirements

	g, err := h.service.Generate(r.Context(), req)
	if err != nil {
		h.renderError(w, page, err)
		return
	}

	page.RunID = g.Run.ID
	if g.Result.Parsed {
		page.Success = fmt.Sprintf("%d test cases generated", g.Result.Count)
		page.Table = &g.Result.Table
	} else {
		page.Warning = rawFallbackMsg
		page.Raw = renderMarkdown(g.Result.Raw)
	}

	h.render(w, http.StatusOK, page)
}

// FormRateLimited renders a rate-limited form submission as an inline error.
func (h *GenerationHandler) FormRateLimited(w http.ResponseWriter, r *http.Request) {
	page := h.newPage("")
	page.Error = rateLimitedMsg
	h.render(w, http.StatusTooManyRequests, page)
}

func (h *GenerationHandler) renderError(w http.ResponseWriter, page *pageData, err error) {
	appErr := utils.AsAppError(err)
	h.logger.Error("Form error", "status", appErr.StatusCode, "error", err)

	page.Error = userMessage(appErr)
	h.render(w, appErr.StatusCode, page)
}

func (h *GenerationHandler) render(w http.ResponseWriter, status int, page *pageData) {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, page); err != nil {
		h.logger.Error("Failed to render page", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

// renderMarkdown converts a raw model reply to HTML. Raw HTML in the reply
// is escaped.
func renderMarkdown(text string) template.HTML {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(text), &buf); err != nil {
		return template.HTML("<pre>" + template.HTMLEscapeString(text) + "</pre>")
	}
	return template.HTML(buf.String())
}
