package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kart-io/docvault/internal/docvault/biz"
	"github.com/kart-io/docvault/internal/docvault/store"
	"github.com/kart-io/docvault/pkg/errors"
	"github.com/kart-io/docvault/pkg/id"
)

// ChatHandler serves retrieval-grounded chat.
type ChatHandler struct {
	service *biz.Service
}

// NewChatHandler creates the chat handler.
func NewChatHandler(service *biz.Service) *ChatHandler {
	return &ChatHandler{service: service}
}

// ChatRequest is the chat message request body.
type ChatRequest struct {
	Message      string `json:"message" binding:"required"`
	ContextLimit int    `json:"context_limit"`
	Stream       *bool  `json:"stream"`
}

// ContextChunk is one retrieved chunk echoed back to the client.
type ContextChunk struct {
	ChunkID    string  `json:"chunk_id"`
	DocumentID string  `json:"document_id"`
	Filename   string  `json:"filename"`
	Text       string  `json:"text"`
	Score      float32 `json:"score"`
}

// Message answers a chat message, streaming by default. Server-sent
// events carry a metadata event, content fragments, and a completion
// event; errors mid-stream become an error event.
func (h *ChatHandler) Message(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, errors.ErrBadRequest.WithCause(err).WithMessage(err.Error()))
		return
	}

	ctx := c.Request.Context()
	contextHits := h.service.ChatContext(ctx, owner, req.Message, req.ContextLimit)

	messageID := id.NewUUID()
	timestamp := time.Now().UTC().Format(time.RFC3339)
	contextUsed := toContextChunks(contextHits)

	// Streaming is the default, matching client expectations.
	if req.Stream == nil || *req.Stream {
		h.streamAnswer(c, owner, req.Message, contextHits, messageID, timestamp, contextUsed)
		return
	}

	answer, _, err := h.service.ChatAnswer(ctx, owner, req.Message, contextHits)
	if err != nil {
		fail(c, err)
		return
	}

	respond(c, gin.H{
		"response":     answer,
		"context_used": contextUsed,
		"message_id":   messageID,
		"timestamp":    timestamp,
	})
}

// streamAnswer writes the SSE event sequence for one chat turn.
func (h *ChatHandler) streamAnswer(c *gin.Context, owner, message string, contextHits []*store.SearchHit, messageID, timestamp string, contextUsed []ContextChunk) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)

	writeEvent(c, gin.H{
		"type":         "metadata",
		"message_id":   messageID,
		"timestamp":    timestamp,
		"context_used": contextUsed,
	})

	var full []byte
	err := h.service.ChatAnswerStream(c.Request.Context(), owner, message, contextHits, func(delta string) error {
		full = append(full, delta...)
		writeEvent(c, gin.H{
			"type":       "content",
			"content":    delta,
			"message_id": messageID,
		})
		return nil
	})
	if err != nil {
		writeEvent(c, gin.H{
			"type":       "error",
			"error":      errors.FromError(err).Message,
			"message_id": messageID,
		})
		return
	}

	writeEvent(c, gin.H{
		"type":          "complete",
		"message_id":    messageID,
		"full_response": string(full),
	})
}

// writeEvent writes one SSE data frame and flushes it to the client.
func writeEvent(c *gin.Context, payload gin.H) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	_, _ = c.Writer.WriteString("data: ")
	_, _ = c.Writer.Write(data)
	_, _ = c.Writer.WriteString("\n\n")
	c.Writer.Flush()
}

// Health reports chat provider reachability.
func (h *ChatHandler) Health(c *gin.Context) {
	if err := h.service.ChatHealth(c.Request.Context()); err != nil {
		c.JSON(http.StatusOK, gin.H{
			"status":   "unhealthy",
			"provider": h.service.ChatProviderName(),
			"error":    err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"provider": h.service.ChatProviderName(),
	})
}

// toContextChunks converts store hits to the response payload form.
func toContextChunks(hits []*store.SearchHit) []ContextChunk {
	out := make([]ContextChunk, len(hits))
	for i, hit := range hits {
		out[i] = ContextChunk{
			ChunkID:    hit.ChunkID,
			DocumentID: hit.DocumentID,
			Filename:   hit.Filename,
			Text:       hit.Text,
			Score:      hit.Score,
		}
	}
	return out
}
