package api

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"docuquery/internal/rag/extractors"
	"docuquery/internal/ragservice/service"
	"docuquery/pkg/logger"
)

// Handler holds the dependencies for the HTTP handlers.
type Handler struct {
	svc       *service.Service
	log       *logger.Logger
	uploadDir string
}

// NewHandler creates a Handler. Uploaded files are spooled under uploadDir
// before extraction and removed afterwards.
func NewHandler(svc *service.Service, log *logger.Logger, uploadDir string) *Handler {
	return &Handler{svc: svc, log: log, uploadDir: uploadDir}
}

// IngestRequest is the body of POST /api/ingest.
type IngestRequest struct {
	Documents []string `json:"documents" binding:"required"`
}

// QueryRequest is the body of POST /api/query.
type QueryRequest struct {
	Query string `json:"query" binding:"required"`
	TopK  int    `json:"top_k"`
}

// Ingest stores raw text snippets.
func (h *Handler) Ingest(c *gin.Context) {
	var req IngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	count, err := h.svc.IngestTexts(c.Request.Context(), req.Documents)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ingested": count})
}

// Upload accepts a multipart file, spools it to disk, runs the indexing
// pipeline and reports the resulting document.
func (h *Handler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	// Keep the original filename: the document ID and metadata derive
	// from it. A per-request directory avoids collisions.
	dir := filepath.Join(h.uploadDir, uuid.New().String())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to prepare upload directory"})
		return
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, filepath.Base(file.Filename))
	if err := c.SaveUploadedFile(file, path); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save uploaded file"})
		return
	}

	result, err := h.svc.IndexFile(c.Request.Context(), path)
	if err != nil {
		if errors.Is(err, extractors.ErrUnsupportedFormat) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// Query retrieves the most relevant chunks and generates an answer.
func (h *Handler) Query(c *gin.Context) {
	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.TopK <= 0 {
		req.TopK = 3
	}

	results, answer, err := h.svc.Query(c.Request.Context(), req.Query, req.TopK)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results, "answer": answer})
}

// ListDocuments returns the registry records of all ingested documents.
func (h *Handler) ListDocuments(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"documents": h.svc.Documents()})
}

// DeleteDocument removes a document and all its chunks.
func (h *Handler) DeleteDocument(c *gin.Context) {
	docID := c.Param("doc_id")
	deleted := h.svc.DeleteDocument(docID)
	if deleted == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("document %s not found", docID)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted_chunks": deleted})
}

// Stats reports aggregate counts for the knowledge base.
func (h *Handler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Stats())
}

// Health is the liveness endpoint.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
