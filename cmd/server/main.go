package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/ledongthuc/pdf"

	"github.com/namin/arghi/internal/app"
	"github.com/namin/arghi/internal/httputil"
	"github.com/namin/arghi/internal/llm"
	"github.com/namin/arghi/internal/store"
)

func main() {
	deps, err := app.Build()
	if err != nil {
		slog.Default().Error("failed to build dependencies", "err", err)
		os.Exit(1)
	}
	r := httputil.NewRouter(deps.Log)

	r.Get("/api/health", httputil.HealthHandler())
	r.Post("/api/highlight", highlightHandler(deps))
	r.Post("/api/highlight/upload", uploadHandler(deps))
	r.Get("/api/saved", listSavedHandler(deps))
	r.Get("/api/saved/{hash}", getSavedHandler(deps))

	addr := fmt.Sprintf("%s:%d", deps.Config.Host, deps.Config.Port)
	deps.Log.Info("server listening", "addr", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		deps.Log.Error("server failed", "err", err)
	}
}

type highlightRequest struct {
	Text     string `json:"text"`
	Question string `json:"question" validate:"required"`
	APIKey   string `json:"api_key"`
}

func highlightHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req highlightRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.Fail(deps.Log, w, "invalid payload", err, http.StatusBadRequest)
			return
		}
		if err := httputil.Validator.Struct(&req); err != nil {
			httputil.ValidationError(deps.Log, w, err)
			return
		}

		// Header credential wins over the body field.
		apiKey := r.Header.Get("X-API-Key")
		if apiKey == "" {
			apiKey = req.APIKey
		}

		highlight(deps, w, r, req.Text, req.Question, apiKey)
	}
}

// highlight runs the split+score flow, persists the pair, and writes the
// response with the assigned hash. Shared by the JSON and upload endpoints.
func highlight(deps app.Deps, w http.ResponseWriter, r *http.Request, text, question, apiKey string) {
	ctx := r.Context()

	resp, err := deps.Highlighter.Highlight(ctx, text, question, apiKey)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, llm.ErrNotConfigured) {
			status = http.StatusBadRequest
		}
		httputil.Fail(deps.Log, w, err.Error(), err, status)
		return
	}

	// The stored result carries no hash; only the wire response does.
	hash, err := deps.Store.Save(ctx, store.Query{Text: text, Question: question}, resp)
	if err != nil {
		httputil.Fail(deps.Log, w, "failed to save query", err, http.StatusInternalServerError)
		return
	}
	resp.Hash = hash

	httputil.WriteJSON(w, http.StatusOK, resp)
}

func uploadHandler(deps app.Deps) http.HandlerFunc {
	maxFileSize := deps.Config.MaxUploadSize

	return func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > maxFileSize {
			httputil.Fail(deps.Log, w, fmt.Sprintf("file too large (max %d bytes)", maxFileSize), nil, http.StatusBadRequest)
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			httputil.Fail(deps.Log, w, "file is required", err, http.StatusBadRequest)
			return
		}
		defer file.Close()

		if header.Size > maxFileSize {
			httputil.Fail(deps.Log, w, fmt.Sprintf("file too large (max %d bytes)", maxFileSize), nil, http.StatusBadRequest)
			return
		}

		ext := strings.ToLower(filepath.Ext(header.Filename))
		if ext != ".txt" && ext != ".pdf" {
			httputil.Fail(deps.Log, w, "unsupported file type (only PDF and TXT allowed)", nil, http.StatusBadRequest)
			return
		}

		question := r.FormValue("question")
		if question == "" {
			httputil.Fail(deps.Log, w, "question is required", nil, http.StatusBadRequest)
			return
		}

		content, err := io.ReadAll(file)
		if err != nil {
			httputil.Fail(deps.Log, w, "failed to read file", err, http.StatusInternalServerError)
			return
		}
		text := extractText(header.Filename, content, deps)

		apiKey := r.Header.Get("X-API-Key")
		if apiKey == "" {
			apiKey = r.FormValue("api_key")
		}

		highlight(deps, w, r, text, question, apiKey)
	}
}

func listSavedHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		queries, err := deps.Store.List(r.Context())
		if err != nil {
			httputil.Fail(deps.Log, w, "failed to list saved queries", err, http.StatusInternalServerError)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]any{"queries": queries})
	}
}

func getSavedHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hash := chi.URLParam(r, "hash")
		saved, err := deps.Store.Get(r.Context(), hash)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				httputil.Fail(deps.Log, w, "Query not found", err, http.StatusNotFound)
				return
			}
			httputil.Fail(deps.Log, w, "failed to load saved query", err, http.StatusInternalServerError)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, saved)
	}
}

// extractText extracts text from uploaded files, with PDF support.
func extractText(filename string, content []byte, deps app.Deps) string {
	if strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		text, err := extractPDF(content)
		if err != nil {
			deps.Log.Warn("pdf extraction failed, using raw bytes", "err", err, "filename", filename)
			return string(content)
		}
		return text
	}
	// Treat other files as plain text
	return string(content)
}

func extractPDF(content []byte) (string, error) {
	reader := bytes.NewReader(content)
	pdfReader, err := pdf.NewReader(reader, int64(len(content)))
	if err != nil {
		return "", err
	}

	var textBuilder strings.Builder
	numPages := pdfReader.NumPage()

	for pageNum := 1; pageNum <= numPages; pageNum++ {
		page := pdfReader.Page(pageNum)
		if page.V.IsNull() || page.V.Key("Contents").Kind() == pdf.Null {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Skip pages that fail to extract
			continue
		}
		textBuilder.WriteString(text)
		textBuilder.WriteString("\n")
	}

	return textBuilder.String(), nil
}
