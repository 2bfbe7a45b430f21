package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/BerylCAtieno/requirements-testgen/internal/extractor"
	"github.com/BerylCAtieno/requirements-testgen/internal/models"
	"github.com/BerylCAtieno/requirements-testgen/internal/utils"
)

// formOverhead leaves room for the non-file fields of the form.
const formOverhead = 64 << 10

var errNoFile = errors.New("no file provided")

// readUpload parses the generation form. The returned request always carries
// the key and model fields, even when err is set.
func (h *GenerationHandler) readUpload(w http.ResponseWriter, r *http.Request) (*models.GenerateRequest, error) {
	req := &models.GenerateRequest{}
	tooLarge := utils.NewBadRequestError(fmt.Sprintf("File size exceeds %s limit", humanSize(h.maxFileSize)))

	if r.ContentLength > h.maxFileSize+formOverhead {
		return req, tooLarge
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxFileSize+formOverhead)

	if err := r.ParseMultipartForm(h.maxFileSize); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large") {
			return req, tooLarge
		}
		return req, utils.NewBadRequestError("Invalid form data")
	}

	req.APIKey = r.FormValue("api_key")
	req.Model = r.FormValue("model")

	file, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return req, errNoFile
	}
	if err != nil {
		return req, utils.NewBadRequestError("Invalid form data")
	}
	defer file.Close()

	req.Filename = header.Filename

	h.logger.Info("File upload attempt",
		"filename", header.Filename,
		"reported_content_type", header.Header.Get("Content-Type"),
		"size", header.Size)

	if strings.ToLower(filepath.Ext(header.Filename)) != ".txt" {
		return req, utils.NewBadRequestError("Only .txt files are allowed")
	}

	data, err := io.ReadAll(io.LimitReader(file, h.maxFileSize+1))
	if err != nil {
		return req, utils.NewInternalError("Failed to read file")
	}
	if int64(len(data)) > h.maxFileSize {
		return req, tooLarge
	}
	if len(data) == 0 {
		return req, utils.NewBadRequestError("Uploaded file is empty")
	}

	text, err := extractor.DecodeText(data)
	if err != nil {
		return req, utils.NewBadRequestError("Uploaded file could not be decoded as text")
	}
	if !extractor.LooksLikeText(text) {
		return req, utils.NewBadRequestError("Uploaded file does not look like a text document")
	}

	req.Requirements = text
	return req, nil
}

func humanSize(n int64) string {
	if n >= 1<<20 && n%(1<<20) == 0 {
		return fmt.Sprintf("%dMB", n>>20)
	}
	if n >= 1<<10 && n%(1<<10) == 0 {
		return fmt.Sprintf("%dKB", n>>10)
	}
	return fmt.Sprintf("%d bytes", n)
}
