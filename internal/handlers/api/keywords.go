package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/url"
	"path/filepath"

	"github.com/gofiber/fiber/v3"

	"msgcore/internal/keywords"
	"msgcore/internal/models"
	"msgcore/internal/validation"
)

// KeywordHandler manages the blocked keyword set via JSON API.
type KeywordHandler struct {
	store     *keywords.Store
	exportDir string
}

// NewKeywordHandler creates a new API keyword handler. File exports are
// confined to exportDir.
func NewKeywordHandler(store *keywords.Store, exportDir string) *KeywordHandler {
	return &KeywordHandler{store: store, exportDir: exportDir}
}

// List returns the stored keywords in stored order.
func (h *KeywordHandler) List(c fiber.Ctx) error {
	list, err := h.store.Keywords(c.Context())
	if err != nil {
		slog.Error("failed to list blocked keywords", "error", err)
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch keywords")
	}
	if list == nil {
		list = []string{}
	}
	return jsonSuccess(c, models.KeywordListResponse{Keywords: list, Count: len(list)})
}

// Add stores a keyword from a {"keyword": "..."} body.
func (h *KeywordHandler) Add(c fiber.Ctx) error {
	var body struct {
		Keyword string `json:"keyword"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	keyword := validation.NormalizeKeyword(body.Keyword)
	if valid, msg := validation.ValidateKeywordInput(keyword); !valid {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}

	added, err := h.store.Add(c.Context(), keyword)
	if err != nil {
		if errors.Is(err, keywords.ErrInvalidKeyword) {
			return jsonError(c, fiber.StatusBadRequest, err.Error())
		}
		slog.Error("failed to add blocked keyword", "error", err)
		return jsonError(c, fiber.StatusInternalServerError, "failed to save keyword")
	}

	status := fiber.StatusOK
	if added {
		status = fiber.StatusCreated
	}
	c.Status(status)
	return jsonSuccess(c, models.KeywordMutationResponse{Keyword: keyword, Changed: added})
}

// Remove deletes the keyword named in the path.
func (h *KeywordHandler) Remove(c fiber.Ctx) error {
	keyword, err := url.PathUnescape(c.Params("keyword"))
	if err != nil || keyword == "" {
		return jsonError(c, fiber.StatusBadRequest, "invalid keyword")
	}

	removed, err := h.store.Remove(c.Context(), keyword)
	if err != nil {
		slog.Error("failed to remove blocked keyword", "error", err)
		return jsonError(c, fiber.StatusInternalServerError, "failed to remove keyword")
	}
	if !removed {
		return jsonError(c, fiber.StatusNotFound, "keyword not found")
	}
	return jsonSuccess(c, models.KeywordMutationResponse{Keyword: keyword, Changed: true})
}

// Import merges the newline-separated keywords of the request body.
func (h *KeywordHandler) Import(c fiber.Ctx) error {
	result, err := h.store.ImportFromReader(c.Context(), bytes.NewReader(c.Body()))
	if err != nil {
		slog.Error("blocked keyword import failed", "error", err)
	}

	status := fiber.StatusOK
	if result == models.ImportFail {
		status = fiber.StatusUnprocessableEntity
		if err != nil {
			status = fiber.StatusInternalServerError
		}
	}
	c.Status(status)
	return jsonSuccess(c, models.TransferResponse{Result: result.String(), Message: result.Message()})
}

// Export streams the keywords as a text attachment.
func (h *KeywordHandler) Export(c fiber.Ctx) error {
	var buf bytes.Buffer
	result, err := h.store.ExportTo(c.Context(), &buf)
	if keywords.IsNothingToExport(err) {
		return jsonError(c, fiber.StatusNotFound, models.NoEntriesForExportingMessage)
	}
	if result != models.ExportOK {
		slog.Error("blocked keyword export failed", "error", err)
		return jsonError(c, fiber.StatusInternalServerError, result.Message())
	}

	c.Attachment("blocked_keywords.txt")
	c.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
	return c.Send(buf.Bytes())
}

// ExportFile writes the keywords to a file in the export directory named by
// a {"file_name": "..."} body.
func (h *KeywordHandler) ExportFile(c fiber.Ctx) error {
	var body struct {
		FileName string `json:"file_name"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if valid, msg := validation.ExportFileName(body.FileName); !valid {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}

	path := filepath.Join(h.exportDir, body.FileName)
	if !validation.IsWithinDir(h.exportDir, path) {
		return jsonError(c, fiber.StatusBadRequest, "File name must not contain a path")
	}

	result, err := h.store.ExportToFile(c.Context(), path)
	if keywords.IsNothingToExport(err) {
		return jsonError(c, fiber.StatusNotFound, models.NoEntriesForExportingMessage)
	}
	if err != nil {
		slog.Error("blocked keyword file export failed", "path", path, "error", err)
	}

	status := fiber.StatusOK
	if result != models.ExportOK {
		status = fiber.StatusInternalServerError
	}
	c.Status(status)
	return jsonSuccess(c, models.TransferResponse{Result: result.String(), Message: result.Message()})
}

// ExportPath returns the last successful export path, used to pre-fill the
// next export.
func (h *KeywordHandler) ExportPath(c fiber.Ctx) error {
	path, err := h.store.LastExportPath(c.Context())
	if err != nil {
		slog.Error("failed to load export path", "error", err)
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch export path")
	}
	return jsonSuccess(c, models.ExportPathResponse{Path: path})
}
