// Package handler provides the HTTP handlers of the document service.
package handler

import (
	"io"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kart-io/docvault/internal/docvault/biz"
	"github.com/kart-io/docvault/internal/docvault/store"
	"github.com/kart-io/docvault/pkg/errors"
)

// DocumentHandler serves upload, search, listing, deletion, and stats.
type DocumentHandler struct {
	service        *biz.Service
	maxUploadBytes int64
}

// NewDocumentHandler creates the document handler.
func NewDocumentHandler(service *biz.Service, maxUploadBytes int64) *DocumentHandler {
	return &DocumentHandler{
		service:        service,
		maxUploadBytes: maxUploadBytes,
	}
}

// Upload ingests one multipart file upload.
func (h *DocumentHandler) Upload(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		fail(c, errors.ErrMissingParam.WithMessage("multipart field \"file\" is required"))
		return
	}
	if fileHeader.Size > h.maxUploadBytes {
		fail(c, errors.ErrFileTooLarge.WithMessagef(
			"file size %d exceeds the %d byte limit", fileHeader.Size, h.maxUploadBytes))
		return
	}
	if fileHeader.Filename == "" {
		fail(c, errors.ErrInvalidParam.WithMessage("filename is required"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		fail(c, errors.ErrBadRequest.WithCause(err))
		return
	}
	defer func() { _ = file.Close() }()

	// Size from the part header is advisory; enforce the cap on the read.
	data, err := io.ReadAll(io.LimitReader(file, h.maxUploadBytes+1))
	if err != nil {
		fail(c, errors.ErrBadRequest.WithCause(err))
		return
	}
	if int64(len(data)) > h.maxUploadBytes {
		fail(c, errors.ErrFileTooLarge.WithMessagef(
			"file exceeds the %d byte limit", h.maxUploadBytes))
		return
	}

	result, err := h.service.Ingest(c.Request.Context(), owner, fileHeader.Filename, data)
	if err != nil {
		fail(c, err)
		return
	}

	respondMessage(c, "Document uploaded and processed successfully", result)
}

// SearchRequest is the semantic search request body.
type SearchRequest struct {
	Query string `json:"query" binding:"required"`
	Limit int    `json:"limit"`
}

// SearchHit is one search result in the response payload.
type SearchHit struct {
	ChunkID    string  `json:"chunk_id"`
	Score      float32 `json:"score"`
	DocumentID string  `json:"document_id"`
	Filename   string  `json:"filename"`
	Text       string  `json:"text"`
	ChunkIndex int64   `json:"chunk_index"`
	CreatedAt  string  `json:"created_at"`
}

// Search performs owner-scoped semantic search.
func (h *DocumentHandler) Search(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, errors.ErrBadRequest.WithCause(err).WithMessage(err.Error()))
		return
	}

	hits, err := h.service.Search(c.Request.Context(), owner, req.Query, req.Limit)
	if err != nil {
		fail(c, err)
		return
	}

	respond(c, gin.H{
		"query":   req.Query,
		"results": toSearchHits(hits),
		"count":   len(hits),
	})
}

// List returns the owner's documents, newest first.
func (h *DocumentHandler) List(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			fail(c, errors.ErrInvalidParam.WithMessage("limit must be a positive integer"))
			return
		}
		limit = parsed
	}

	docs, err := h.service.ListDocuments(c.Request.Context(), owner, limit)
	if err != nil {
		fail(c, err)
		return
	}
	if docs == nil {
		docs = []*biz.DocumentInfo{}
	}

	respond(c, gin.H{
		"documents": docs,
		"count":     len(docs),
	})
}

// Delete removes one of the owner's documents and all its chunks.
func (h *DocumentHandler) Delete(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	documentID := c.Param("document_id")
	deleted, err := h.service.DeleteDocument(c.Request.Context(), owner, documentID)
	if err != nil {
		fail(c, err)
		return
	}
	if !deleted {
		fail(c, errors.ErrDocumentNotFound.WithMessagef("document %q not found", documentID))
		return
	}

	respondMessage(c, "Document deleted successfully", gin.H{
		"document_id": documentID,
	})
}

// Stats returns the owner's knowledge-base summary.
func (h *DocumentHandler) Stats(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	stats, err := h.service.GetStats(c.Request.Context(), owner)
	if err != nil {
		fail(c, err)
		return
	}

	respond(c, stats)
}

// toSearchHits converts store hits to the response payload form.
func toSearchHits(hits []*store.SearchHit) []SearchHit {
	out := make([]SearchHit, len(hits))
	for i, hit := range hits {
		out[i] = SearchHit{
			ChunkID:    hit.ChunkID,
			Score:      hit.Score,
			DocumentID: hit.DocumentID,
			Filename:   hit.Filename,
			Text:       hit.Text,
			ChunkIndex: hit.ChunkIndex,
			CreatedAt:  hit.CreatedAt,
		}
	}
	return out
}
